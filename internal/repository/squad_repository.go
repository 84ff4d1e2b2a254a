package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/talent-hub/internal/model"
)

var (
	// ErrSquadNotFound is returned when a squad does not exist or belongs to
	// another coach.
	ErrSquadNotFound = errors.New("squad not found")
	// ErrCoachProfileMissing means the coach has not saved a profile yet, so
	// squads cannot reference it.
	ErrCoachProfileMissing = errors.New("coach profile missing")
)

// SquadRepo manages squads and their memberships.  A membership row is
// keyed by (coach_id, athlete_id), which keeps each athlete in at most one
// squad per coach.
type SquadRepo struct {
	db *sql.DB
}

func NewSquadRepo(db *sql.DB) *SquadRepo {
	return &SquadRepo{db: db}
}

// Create inserts a squad for the coach and returns it with its new ID.
func (r *SquadRepo) Create(ctx context.Context, coachID uint64, name string, plan *string) (*model.Squad, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO squads (coach_id, name, workout_plan) VALUES (?, ?, ?)`,
		coachID, name, plan)
	if err != nil {
		if isForeignKeyViolation(err, "fk_squads_coach") {
			return nil, ErrCoachProfileMissing
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Squad{ID: uint64(id), CoachID: coachID, Name: name, WorkoutPlan: plan}, nil
}

// NameTaken reports whether the coach already has a squad with this name,
// compared trimmed and case-insensitively.  excludeID skips the squad being
// renamed; pass 0 on create.
func (r *SquadRepo) NameTaken(ctx context.Context, coachID uint64, name string, excludeID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM squads WHERE coach_id = ? AND LOWER(TRIM(name)) = ? AND id <> ?`,
		coachID, strings.ToLower(strings.TrimSpace(name)), excludeID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByCoach returns the coach's squads ordered by name then ID.
func (r *SquadRepo) ListByCoach(ctx context.Context, coachID uint64) ([]model.Squad, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, coach_id, name, workout_plan, created_at, updated_at
		 FROM squads WHERE coach_id = ? ORDER BY name, id`, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Squad{}
	for rows.Next() {
		var s model.Squad
		if err := rows.Scan(&s.ID, &s.CoachID, &s.Name, &s.WorkoutPlan, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Memberships returns every (squad, athlete) link of the coach.
func (r *SquadRepo) Memberships(ctx context.Context, coachID uint64) ([]model.Membership, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT coach_id, squad_id, athlete_id FROM squad_members WHERE coach_id = ?`, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Membership
	for rows.Next() {
		var m model.Membership
		if err := rows.Scan(&m.CoachID, &m.SquadID, &m.AthleteID); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Assign moves the athlete into squadID.  The squad row is locked and its
// owner checked before the membership upsert, so a concurrent move of the
// same athlete ends in exactly one squad.  Memberships under other coaches
// are untouched.
func (r *SquadRepo) Assign(ctx context.Context, coachID, squadID, athleteID uint64) (err error) {
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

	var locked uint64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM squads WHERE id = ? AND coach_id = ? FOR UPDATE`, squadID, coachID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSquadNotFound
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO squad_members (coach_id, squad_id, athlete_id) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE squad_id = VALUES(squad_id), assigned_at = NOW()`,
		coachID, squadID, athleteID)
	if isForeignKeyViolation(err, "fk_squad_members_athlete") {
		return ErrAthleteNotFound
	}
	return err
}

// Unassign removes the athlete from the squad.  Absent rows are not an error.
func (r *SquadRepo) Unassign(ctx context.Context, coachID, squadID, athleteID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM squad_members WHERE coach_id = ? AND squad_id = ? AND athlete_id = ?`,
		coachID, squadID, athleteID)
	return err
}

// Update applies the non-nil fields of the patch.  An unknown squad updates
// zero rows and is not reported.
func (r *SquadRepo) Update(ctx context.Context, coachID, squadID uint64, p model.SquadPatch) error {
	if p.Empty() {
		return nil
	}
	sets := []string{}
	args := []any{}
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.WorkoutPlan != nil {
		sets = append(sets, "workout_plan = ?")
		args = append(args, *p.WorkoutPlan)
	}
	args = append(args, squadID, coachID)
	_, err := r.db.ExecContext(ctx,
		"UPDATE squads SET "+strings.Join(sets, ", ")+" WHERE id = ? AND coach_id = ?", args...)
	return err
}

// Delete removes the squad and its memberships in one transaction; the
// athletes fall back to unassigned.
func (r *SquadRepo) Delete(ctx context.Context, coachID, squadID uint64) (err error) {
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

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM squad_members WHERE squad_id = ? AND coach_id = ?`, squadID, coachID); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM squads WHERE id = ? AND coach_id = ?`, squadID, coachID)
	return err
}

// ForAthlete lists the squads the athlete belongs to across all coaches.
func (r *SquadRepo) ForAthlete(ctx context.Context, athleteID uint64) ([]model.AthleteSquad, error) {
	const q = `SELECT s.id, s.name, s.workout_plan, s.coach_id, c.full_name
	           FROM squad_members m
	           JOIN squads s ON s.id = m.squad_id
	           LEFT JOIN coaches c ON c.user_id = s.coach_id
	           WHERE m.athlete_id = ?
	           ORDER BY s.name, s.id`
	rows, err := r.db.QueryContext(ctx, q, athleteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.AthleteSquad{}
	for rows.Next() {
		var s model.AthleteSquad
		if err := rows.Scan(&s.SquadID, &s.Name, &s.WorkoutPlan, &s.CoachID, &s.CoachName); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
