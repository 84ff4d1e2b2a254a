package model

import "time"

// Role names stored in users.role and carried in the JWT role claim.
const (
	RoleAthlete    = "athlete"
	RoleCoach      = "coach"
	RoleFederation = "federation"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAthlete, RoleCoach, RoleFederation:
		return true
	}
	return false
}

// User represents a row of the `users` table.  Email is optional; phone is
// stored normalized (see utils.NormalizePhone).
type User struct {
	ID           uint64    `json:"id"`
	Email        *string   `json:"email"`
	Phone        string    `json:"phone"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
