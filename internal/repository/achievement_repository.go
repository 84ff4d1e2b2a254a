package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/talent-hub/internal/model"
)

// ErrAchievementNotFound is returned when the achievement does not exist
// under the given athlete.
var ErrAchievementNotFound = errors.New("achievement not found")

// AchievementRepo handles athlete achievements and their verification.
type AchievementRepo struct {
	db *sql.DB
}

func NewAchievementRepo(db *sql.DB) *AchievementRepo {
	return &AchievementRepo{db: db}
}

// Create inserts an unverified achievement and fills in its ID.
func (r *AchievementRepo) Create(ctx context.Context, a *model.Achievement) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO achievements (athlete_id, event_name, meet_name, place, proof_url, achieved_on)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.AthleteID, a.EventName, a.MeetName, a.Place, a.ProofURL, a.AchievedOn)
	if err != nil {
		if isForeignKeyViolation(err, "fk_achievements_athlete") {
			return ErrAthleteNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	a.Verified = false
	return nil
}

func (r *AchievementRepo) Delete(ctx context.Context, athleteID, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM achievements WHERE id = ? AND athlete_id = ?`, id, athleteID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAchievementNotFound
	}
	return nil
}

// Verify marks the achievement verified.  Calling it again overwrites the
// verifier, notes and timestamp; there is no way back to unverified.
func (r *AchievementRepo) Verify(ctx context.Context, athleteID, id, verifierID uint64, notes *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE achievements SET verified = 1, verified_by = ?, verifier_notes = ?, verified_at = NOW()
		 WHERE id = ? AND athlete_id = ?`,
		verifierID, notes, id, athleteID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// A repeated verify within the same second changes nothing.
		var one int
		err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM achievements WHERE id = ? AND athlete_id = ?`, id, athleteID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAchievementNotFound
		}
		return err
	}
	return nil
}

// ListByAthlete returns achievements newest first.
func (r *AchievementRepo) ListByAthlete(ctx context.Context, athleteID uint64) ([]model.Achievement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, athlete_id, event_name, meet_name, place, proof_url, DATE_FORMAT(achieved_on, '%Y-%m-%d'),
		        verified, verified_by, verifier_notes, verified_at, created_at
		 FROM achievements WHERE athlete_id = ? ORDER BY created_at DESC, id DESC`, athleteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Achievement{}
	for rows.Next() {
		var a model.Achievement
		if err := rows.Scan(&a.ID, &a.AthleteID, &a.EventName, &a.MeetName, &a.Place, &a.ProofURL, &a.AchievedOn,
			&a.Verified, &a.VerifiedBy, &a.VerifierNotes, &a.VerifiedAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
