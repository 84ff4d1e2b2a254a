package model

import "time"

// Notification is a message addressed to a single user.
type Notification struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Note is a free-text annotation: a coach's note about an athlete or a
// federation admin's note about any user.
type Note struct {
	AuthorID  uint64    `json:"author_id"`
	SubjectID uint64    `json:"subject_id"`
	Note      string    `json:"note"`
	UpdatedAt time.Time `json:"updated_at"`
}
