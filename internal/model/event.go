package model

import "time"

// Event is a federation-published competition.
type Event struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	EventDate   string    `json:"event_date"`
	Venue       *string   `json:"venue"`
	Category    *string   `json:"category"`
	CreatedBy   uint64    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Registration is an athlete's entry into an event.
type Registration struct {
	EventID      uint64    `json:"event_id"`
	AthleteID    uint64    `json:"athlete_id"`
	FullName     *string   `json:"full_name"`
	Category     *string   `json:"category"`
	RegisteredAt time.Time `json:"registered_at"`
}
