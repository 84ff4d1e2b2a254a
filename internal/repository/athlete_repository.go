package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/talent-hub/internal/model"
)

// ErrAthleteNotFound is returned when no athlete profile exists for an id.
var ErrAthleteNotFound = errors.New("athlete not found")

// AthleteRepo reads and writes athlete profiles and their event entries.
type AthleteRepo struct {
	db *sql.DB
}

// NewAthleteRepo constructs an AthleteRepo with the given DB handle.
func NewAthleteRepo(db *sql.DB) *AthleteRepo {
	return &AthleteRepo{db: db}
}

const athleteColumns = `user_id, full_name, DATE_FORMAT(date_of_birth, '%Y-%m-%d'), gender, category, club,
	district, height_cm, weight_kg, blood_group, medical_conditions, emergency_contact, photo_url, bio,
	status, created_at, updated_at`

// GetByID loads the profile and its event entries.
func (r *AthleteRepo) GetByID(ctx context.Context, id uint64) (*model.Athlete, error) {
	var a model.Athlete
	err := r.db.QueryRowContext(ctx, "SELECT "+athleteColumns+" FROM athletes WHERE user_id = ?", id).Scan(
		&a.UserID, &a.FullName, &a.DateOfBirth, &a.Gender, &a.Category, &a.Club,
		&a.District, &a.HeightCM, &a.WeightKG, &a.BloodGroup, &a.MedicalConditions, &a.EmergencyContact, &a.PhotoURL, &a.Bio,
		&a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAthleteNotFound
		}
		return nil, err
	}
	events, err := r.listEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Events = events
	return &a, nil
}

func (r *AthleteRepo) listEvents(ctx context.Context, athleteID uint64) ([]model.AthleteEvent, error) {
	const q = `SELECT id, athlete_id, event_name, personal_best, DATE_FORMAT(pb_date, '%Y-%m-%d'), notes
	           FROM athlete_events WHERE athlete_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, athleteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.AthleteEvent{}
	for rows.Next() {
		var e model.AthleteEvent
		if err := rows.Scan(&e.ID, &e.AthleteID, &e.EventName, &e.PersonalBest, &e.PBDate, &e.Notes); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Save upserts the profile and replaces its event entries inside one
// transaction.  Every profile column is overwritten, so a field the caller
// leaves nil becomes NULL.  Status is never touched here.
func (r *AthleteRepo) Save(ctx context.Context, a *model.Athlete) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	if err = requireUserRole(ctx, tx, a.UserID, model.RoleAthlete); err != nil {
		return err
	}

	const upsert = `INSERT INTO athletes (user_id, full_name, date_of_birth, gender, category, club, district,
	                    height_cm, weight_kg, blood_group, medical_conditions, emergency_contact, photo_url, bio)
	                VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	                ON DUPLICATE KEY UPDATE full_name = VALUES(full_name), date_of_birth = VALUES(date_of_birth),
	                    gender = VALUES(gender), category = VALUES(category), club = VALUES(club),
	                    district = VALUES(district), height_cm = VALUES(height_cm), weight_kg = VALUES(weight_kg),
	                    blood_group = VALUES(blood_group), medical_conditions = VALUES(medical_conditions),
	                    emergency_contact = VALUES(emergency_contact), photo_url = VALUES(photo_url), bio = VALUES(bio)`
	if _, err = tx.ExecContext(ctx, upsert,
		a.UserID, a.FullName, a.DateOfBirth, a.Gender, a.Category, a.Club, a.District,
		a.HeightCM, a.WeightKG, a.BloodGroup, a.MedicalConditions, a.EmergencyContact, a.PhotoURL, a.Bio,
	); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM athlete_events WHERE athlete_id = ?`, a.UserID); err != nil {
		return err
	}
	if len(a.Events) == 0 {
		return nil
	}
	query := `INSERT INTO athlete_events (athlete_id, event_name, personal_best, pb_date, notes) VALUES `
	args := make([]interface{}, 0, len(a.Events)*5)
	for i, e := range a.Events {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, a.UserID, strings.TrimSpace(e.EventName), e.PersonalBest, e.PBDate, e.Notes)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// UpdateStatus sets the approval status.  ErrAthleteNotFound when no row
// matches.
func (r *AthleteRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE athletes SET status = ? WHERE user_id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports 0 when the value is unchanged; confirm existence.
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM athletes WHERE user_id = ?`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAthleteNotFound
		}
		return err
	}
	return nil
}

// AthleteFilter narrows List.  Empty fields are ignored; Event matches any
// of the athlete's event entries case-insensitively.
type AthleteFilter struct {
	Category string
	Event    string
	Status   string
}

// List returns athlete summaries ordered by name then id.
func (r *AthleteRepo) List(ctx context.Context, f AthleteFilter) ([]model.AthleteSummary, error) {
	where := []string{}
	args := []any{}
	if f.Category != "" {
		where = append(where, "a.category = ?")
		args = append(args, f.Category)
	}
	if f.Status != "" {
		where = append(where, "a.status = ?")
		args = append(args, f.Status)
	}
	if f.Event != "" {
		where = append(where, "EXISTS (SELECT 1 FROM athlete_events e WHERE e.athlete_id = a.user_id AND LOWER(e.event_name) = ?)")
		args = append(args, strings.ToLower(f.Event))
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	q := `SELECT a.user_id, a.full_name, a.category, a.club, a.photo_url, a.status
	      FROM athletes a WHERE ` + cond + ` ORDER BY a.full_name, a.user_id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAthleteSummaries(rows)
}

func scanAthleteSummaries(rows *sql.Rows) ([]model.AthleteSummary, error) {
	out := []model.AthleteSummary{}
	for rows.Next() {
		var s model.AthleteSummary
		if err := rows.Scan(&s.UserID, &s.FullName, &s.Category, &s.Club, &s.PhotoURL, &s.Status); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// EventCandidate pairs an athlete with one of their registered event names.
type EventCandidate struct {
	AthleteID uint64
	EventName string
}

// CandidatesByCategory returns every (athlete, event name) pair for athletes
// in the given category.  The notifier filters them against event text.
func (r *AthleteRepo) CandidatesByCategory(ctx context.Context, category string) ([]EventCandidate, error) {
	const q = `SELECT a.user_id, e.event_name
	           FROM athletes a JOIN athlete_events e ON e.athlete_id = a.user_id
	           WHERE a.category = ?
	           ORDER BY a.user_id, e.id`
	rows, err := r.db.QueryContext(ctx, q, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EventCandidate
	for rows.Next() {
		var c EventCandidate
		if err := rows.Scan(&c.AthleteID, &c.EventName); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
