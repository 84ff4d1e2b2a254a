// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values let handlers distinguish failure
// scenarios and map them to HTTP status codes.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate it into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict signals that an operation cannot proceed because of existing
// state, such as registering twice for the same event.
var ErrConflict = errors.New("conflict")

// ErrNotFound is the generic missing-row error for lookups that have no
// more specific sentinel.
var ErrNotFound = errors.New("not found")

// ErrUserNotFound is returned when a profile is saved for a user id that
// has no account.
var ErrUserNotFound = errors.New("user not found")

// ErrRoleMismatch is returned when a profile is saved for a user whose
// account has a different role.
var ErrRoleMismatch = errors.New("user role does not match profile type")

// Duplicate-key errors for the unique columns of `users`.
var (
	ErrEmailExists    = errors.New("email already registered")
	ErrPhoneExists    = errors.New("phone already registered")
	ErrUsernameExists = errors.New("username already taken")
)

// MySQL server error numbers the repositories care about.
const (
	mysqlDuplicateEntry    = 1062
	mysqlNoReferencedRow   = 1452
	mysqlNoReferencedRowV1 = 1216
)

// isDuplicate reports whether err is a unique-key violation.  When key is
// non-empty the violated key name must contain it.
func isDuplicate(err error, key string) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != mysqlDuplicateEntry {
		return false
	}
	return key == "" || strings.Contains(me.Message, key)
}

// isForeignKeyViolation reports whether err is a missing parent row.  When
// constraint is non-empty the message must name it.
func isForeignKeyViolation(err error, constraint string) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	if me.Number != mysqlNoReferencedRow && me.Number != mysqlNoReferencedRowV1 {
		return false
	}
	return constraint == "" || strings.Contains(me.Message, constraint)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// requireUserRole checks that the account behind userID carries role.
func requireUserRole(ctx context.Context, q rowQuerier, userID uint64, role string) error {
	var got string
	err := q.QueryRowContext(ctx, `SELECT role FROM users WHERE id = ?`, userID).Scan(&got)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrUserNotFound
	case err != nil:
		return err
	case got != role:
		return ErrRoleMismatch
	}
	return nil
}
