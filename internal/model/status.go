package model

// Profile approval states.  Pending is capitalised for compatibility with
// existing rows; the others are lower-case.
const (
	StatusPending  = "Pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusRevoked  = "revoked"
)

// ValidStatus reports whether s is a profile status the federation may set.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusRevoked:
		return true
	}
	return false
}
