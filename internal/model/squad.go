package model

import "time"

// Squad is a coach-owned group of athletes with a workout plan.
type Squad struct {
	ID          uint64    `json:"id"`
	CoachID     uint64    `json:"coach_id"`
	Name        string    `json:"name"`
	WorkoutPlan *string   `json:"workout_plan"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Membership links one athlete to one of a coach's squads.
type Membership struct {
	CoachID   uint64 `json:"coach_id"`
	SquadID   uint64 `json:"squad_id"`
	AthleteID uint64 `json:"athlete_id"`
}

// AthleteSquad is a squad seen from the athlete's side.
type AthleteSquad struct {
	SquadID     uint64  `json:"squad_id"`
	Name        string  `json:"name"`
	WorkoutPlan *string `json:"workout_plan"`
	CoachID     uint64  `json:"coach_id"`
	CoachName   *string `json:"coach_name"`
}

// SquadPatch carries a partial squad update; nil fields are left alone.
type SquadPatch struct {
	Name        *string `json:"name"`
	WorkoutPlan *string `json:"workout_plan"`
}

// Empty reports whether the patch changes nothing.
func (p SquadPatch) Empty() bool {
	return p.Name == nil && p.WorkoutPlan == nil
}
