package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/talent-hub/internal/model"
)

// FavoriteRepo stores coach bookmarks of athletes.
type FavoriteRepo struct {
	db *sql.DB
}

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

// Add bookmarks the athlete.  Adding twice is a no-op.
func (r *FavoriteRepo) Add(ctx context.Context, coachID, athleteID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (coach_id, athlete_id) VALUES (?, ?)
		 ON DUPLICATE KEY UPDATE coach_id = coach_id`, coachID, athleteID)
	if isForeignKeyViolation(err, "fk_favorites_athlete") {
		return ErrAthleteNotFound
	}
	return err
}

func (r *FavoriteRepo) Remove(ctx context.Context, coachID, athleteID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE coach_id = ? AND athlete_id = ?`, coachID, athleteID)
	return err
}

// List returns the bookmarked athletes, most recent first.
func (r *FavoriteRepo) List(ctx context.Context, coachID uint64) ([]model.AthleteSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.user_id, a.full_name, a.category, a.club, a.photo_url, a.status
		 FROM favorites f JOIN athletes a ON a.user_id = f.athlete_id
		 WHERE f.coach_id = ?
		 ORDER BY f.created_at DESC, a.user_id`, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAthleteSummaries(rows)
}
