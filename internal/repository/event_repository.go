package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/talent-hub/internal/model"
)

// ErrEventNotFound is returned when an event ID does not exist.
var ErrEventNotFound = errors.New("event not found")

// EventRepo manages public events and athlete registrations.
type EventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

const eventColumns = `id, title, description, DATE_FORMAT(event_date, '%Y-%m-%d'), venue, category, created_by, created_at, updated_at`

func scanEvent(s interface{ Scan(...any) error }, e *model.Event) error {
	return s.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.Venue, &e.Category, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
}

// Create inserts the event and fills in its ID.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (title, description, event_date, venue, category, created_by) VALUES (?, ?, ?, ?, ?, ?)`,
		e.Title, e.Description, e.EventDate, e.Venue, e.Category, e.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	var e model.Event
	err := scanEvent(r.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", id), &e)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns all events ordered by date, soonest first.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+eventColumns+" FROM events ORDER BY event_date, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var e model.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update replaces the editable fields.  ErrEventNotFound when the ID is
// unknown.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET title = ?, description = ?, event_date = ?, venue = ?, category = ? WHERE id = ?`,
		e.Title, e.Description, e.EventDate, e.Venue, e.Category, e.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, e.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the event together with its registrations.
func (r *EventRepo) Delete(ctx context.Context, id uint64) (err error) {
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

	if _, err = tx.ExecContext(ctx, `DELETE FROM event_registrations WHERE event_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrEventNotFound
	}
	return err
}

// Register enters the athlete into the event.  A second registration is
// ErrConflict.
func (r *EventRepo) Register(ctx context.Context, eventID, athleteID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_registrations (event_id, athlete_id) VALUES (?, ?)`, eventID, athleteID)
	switch {
	case err == nil:
		return nil
	case isDuplicate(err, ""):
		return ErrConflict
	case isForeignKeyViolation(err, "fk_event_registrations_event"):
		return ErrEventNotFound
	case isForeignKeyViolation(err, "fk_event_registrations_athlete"):
		return ErrAthleteNotFound
	}
	return err
}

// Registrations lists the athletes entered into an event.
func (r *EventRepo) Registrations(ctx context.Context, eventID uint64) ([]model.Registration, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT er.event_id, er.athlete_id, a.full_name, a.category, er.registered_at
		 FROM event_registrations er JOIN athletes a ON a.user_id = er.athlete_id
		 WHERE er.event_id = ? ORDER BY er.registered_at, er.athlete_id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Registration{}
	for rows.Next() {
		var g model.Registration
		if err := rows.Scan(&g.EventID, &g.AthleteID, &g.FullName, &g.Category, &g.RegisteredAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
