package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/talent-hub/internal/model"
)

type PerformanceRepo struct {
	db *sql.DB
}

func NewPerformanceRepo(db *sql.DB) *PerformanceRepo {
	return &PerformanceRepo{db: db}
}

// Add appends a result sample.  A zero RecordedAt is stamped with now.
func (r *PerformanceRepo) Add(ctx context.Context, p *model.Performance) error {
	if p.RecordedAt.IsZero() {
		p.RecordedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO performances (athlete_id, event_name, result, recorded_at) VALUES (?, ?, ?, ?)`,
		p.AthleteID, p.EventName, p.Result, p.RecordedAt)
	if err != nil {
		if isForeignKeyViolation(err, "fk_performances_athlete") {
			return ErrAthleteNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// List returns the athlete's samples newest first.
func (r *PerformanceRepo) List(ctx context.Context, athleteID uint64) ([]model.Performance, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, athlete_id, event_name, result, recorded_at
		 FROM performances WHERE athlete_id = ? ORDER BY recorded_at DESC, id DESC`, athleteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Performance{}
	for rows.Next() {
		var p model.Performance
		if err := rows.Scan(&p.ID, &p.AthleteID, &p.EventName, &p.Result, &p.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
