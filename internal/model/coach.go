package model

import "time"

// Coach is the profile stored in `coaches`, keyed by the user ID.
type Coach struct {
	UserID          uint64    `json:"user_id"`
	FullName        *string   `json:"full_name"`
	Gender          *string   `json:"gender"`
	Specialization  *string   `json:"specialization"`
	ExperienceYears *int      `json:"experience_years"`
	Qualifications  *string   `json:"qualifications"`
	Club            *string   `json:"club"`
	District        *string   `json:"district"`
	PhotoURL        *string   `json:"photo_url"`
	Bio             *string   `json:"bio"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CoachSummary is the coach view used in admin listings.
type CoachSummary struct {
	UserID         uint64  `json:"user_id"`
	FullName       *string `json:"full_name"`
	Specialization *string `json:"specialization"`
	Club           *string `json:"club"`
	Status         string  `json:"status"`
}
