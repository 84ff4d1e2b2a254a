package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/talent-hub/internal/model"
	"github.com/iliyamo/talent-hub/internal/utils"
)

// NewUser is the input of UserRepo.Create.  Email may be empty, in which
// case NULL is stored.
type NewUser struct {
	Email    string
	Phone    string
	Username string
	Password string
	Role     string
}

// UserRepo persists accounts in the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id, email, phone, username, password_hash, role, created_at"

// Create hashes the password, normalizes email and phone and inserts the
// user.  Unique violations come back as ErrEmailExists, ErrPhoneExists or
// ErrUsernameExists.
func (r *UserRepo) Create(ctx context.Context, in NewUser, cost int) (model.User, error) {
	hash, err := utils.HashPassword(in.Password, cost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		Phone:        utils.NormalizePhone(in.Phone),
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
		Role:         in.Role,
	}
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" {
		u.Email = &email
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, phone, username, password_hash, role) VALUES (?,?,?,?,?)",
		u.Email, u.Phone, u.Username, u.PasswordHash, u.Role)
	if err != nil {
		switch {
		case isDuplicate(err, "uq_users_email"):
			return model.User{}, ErrEmailExists
		case isDuplicate(err, "uq_users_phone"):
			return model.User{}, ErrPhoneExists
		case isDuplicate(err, "uq_users_username"):
			return model.User{}, ErrUsernameExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	u.ID = uint64(id)
	return u, nil
}

// GetByIdentifier finds a user whose email, username or phone equals the
// identifier.  Email is compared lower-cased and phone normalized, so
// "0771234567" matches a stored "771234567".  When several users match, an
// email match wins over a username match, which wins over a phone match.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (model.User, error) {
	ident := strings.TrimSpace(identifier)
	phone := utils.NormalizePhone(ident)
	if phone == "" {
		phone = ident
	}
	email := strings.ToLower(ident)
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+` FROM users WHERE email = ? OR username = ? OR phone = ?
		 ORDER BY (email = ?) DESC, (username = ?) DESC LIMIT 1`,
		email, ident, phone, email, ident)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u     model.User
		email sql.NullString
	)
	err := row.Scan(&u.ID, &email, &u.Phone, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	if email.Valid {
		u.Email = &email.String
	}
	return u, nil
}
