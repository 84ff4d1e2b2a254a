package model

import "time"

// Athlete is the profile stored in `athletes`, keyed by the user ID.
// Pointer fields are nullable columns; a profile save replaces all of them.
type Athlete struct {
	UserID            uint64         `json:"user_id"`
	FullName          *string        `json:"full_name"`
	DateOfBirth       *string        `json:"date_of_birth"`
	Gender            *string        `json:"gender"`
	Category          *string        `json:"category"`
	Club              *string        `json:"club"`
	District          *string        `json:"district"`
	HeightCM          *float64       `json:"height_cm"`
	WeightKG          *float64       `json:"weight_kg"`
	BloodGroup        *string        `json:"blood_group"`
	MedicalConditions *string        `json:"medical_conditions"`
	EmergencyContact  *string        `json:"emergency_contact"`
	PhotoURL          *string        `json:"photo_url"`
	Bio               *string        `json:"bio"`
	Status            string         `json:"status"`
	Events            []AthleteEvent `json:"events"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// AthleteEvent is a discipline the athlete competes in, with their
// personal best.  Rows are replaced wholesale on each profile save.
type AthleteEvent struct {
	ID           uint64  `json:"id"`
	AthleteID    uint64  `json:"athlete_id"`
	EventName    string  `json:"event_name"`
	PersonalBest *string `json:"personal_best"`
	PBDate       *string `json:"pb_date"`
	Notes        *string `json:"notes"`
}

// AthleteSummary is the slim athlete view used by rosters, favorites and
// search results.
type AthleteSummary struct {
	UserID   uint64  `json:"user_id"`
	FullName *string `json:"full_name"`
	Category *string `json:"category"`
	Club     *string `json:"club"`
	PhotoURL *string `json:"photo_url"`
	Status   string  `json:"status"`
}

// DisplayName returns the full name or an empty string.
func (a AthleteSummary) DisplayName() string {
	if a.FullName == nil {
		return ""
	}
	return *a.FullName
}

// Achievement is a competition result claimed by an athlete.  Verification
// is one-way; re-verifying overwrites the verifier metadata.
type Achievement struct {
	ID            uint64     `json:"id"`
	AthleteID     uint64     `json:"athlete_id"`
	EventName     string     `json:"event_name"`
	MeetName      *string    `json:"meet_name"`
	Place         *string    `json:"place"`
	ProofURL      *string    `json:"proof_url"`
	AchievedOn    *string    `json:"achieved_on"`
	Verified      bool       `json:"verified"`
	VerifiedBy    *uint64    `json:"verified_by"`
	VerifierNotes *string    `json:"verifier_notes"`
	VerifiedAt    *time.Time `json:"verified_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Performance is a timestamped result sample for one event.
type Performance struct {
	ID         uint64    `json:"id"`
	AthleteID  uint64    `json:"athlete_id"`
	EventName  string    `json:"event_name"`
	Result     string    `json:"result"`
	RecordedAt time.Time `json:"recorded_at"`
}
