package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/talent-hub/internal/model"
)

// ErrCoachNotFound is returned when no coach profile exists for an id.
var ErrCoachNotFound = errors.New("coach not found")

type CoachRepo struct {
	db *sql.DB
}

func NewCoachRepo(db *sql.DB) *CoachRepo {
	return &CoachRepo{db: db}
}

func (r *CoachRepo) GetByID(ctx context.Context, id uint64) (*model.Coach, error) {
	var c model.Coach
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, full_name, gender, specialization, experience_years, qualifications,
		        club, district, photo_url, bio, status, created_at, updated_at
		 FROM coaches WHERE user_id = ?`, id).Scan(
		&c.UserID, &c.FullName, &c.Gender, &c.Specialization, &c.ExperienceYears, &c.Qualifications,
		&c.Club, &c.District, &c.PhotoURL, &c.Bio, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCoachNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Save upserts the profile.  All columns except status are replaced.  The
// user must hold the coach role.
func (r *CoachRepo) Save(ctx context.Context, c *model.Coach) error {
	if err := requireUserRole(ctx, r.db, c.UserID, model.RoleCoach); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO coaches (user_id, full_name, gender, specialization, experience_years, qualifications,
		                      club, district, photo_url, bio)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE full_name = VALUES(full_name), gender = VALUES(gender),
		     specialization = VALUES(specialization), experience_years = VALUES(experience_years),
		     qualifications = VALUES(qualifications), club = VALUES(club), district = VALUES(district),
		     photo_url = VALUES(photo_url), bio = VALUES(bio)`,
		c.UserID, c.FullName, c.Gender, c.Specialization, c.ExperienceYears, c.Qualifications,
		c.Club, c.District, c.PhotoURL, c.Bio)
	return err
}

// UpdateStatus sets the approval status; ErrCoachNotFound when the profile
// does not exist.
func (r *CoachRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE coaches SET status = ? WHERE user_id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM coaches WHERE user_id = ?`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCoachNotFound
		}
		return err
	}
	return nil
}

// List returns coach summaries, optionally filtered by status.
func (r *CoachRepo) List(ctx context.Context, status string) ([]model.CoachSummary, error) {
	q := `SELECT user_id, full_name, specialization, club, status FROM coaches`
	args := []any{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY full_name, user_id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CoachSummary{}
	for rows.Next() {
		var c model.CoachSummary
		if err := rows.Scan(&c.UserID, &c.FullName, &c.Specialization, &c.Club, &c.Status); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
