package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/talent-hub/internal/model"
)

// ErrNoteNotFound is returned when the author has no note on the subject.
var ErrNoteNotFound = errors.New("note not found")

// NoteRepo reads and upserts free-text notes.  The same shape backs coach
// notes on athletes (coach_notes) and federation notes on any user
// (admin_notes); the table is chosen at construction.
type NoteRepo struct {
	db         *sql.DB
	table      string
	authorCol  string
	subjectCol string
}

// NewCoachNoteRepo returns a NoteRepo over coach_notes.
func NewCoachNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db, table: "coach_notes", authorCol: "coach_id", subjectCol: "athlete_id"}
}

// NewAdminNoteRepo returns a NoteRepo over admin_notes.
func NewAdminNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db, table: "admin_notes", authorCol: "admin_id", subjectCol: "subject_id"}
}

func (r *NoteRepo) Get(ctx context.Context, authorID, subjectID uint64) (*model.Note, error) {
	n := model.Note{AuthorID: authorID, SubjectID: subjectID}
	err := r.db.QueryRowContext(ctx,
		"SELECT note, updated_at FROM "+r.table+" WHERE "+r.authorCol+" = ? AND "+r.subjectCol+" = ?",
		authorID, subjectID).Scan(&n.Note, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Put creates or replaces the note.
func (r *NoteRepo) Put(ctx context.Context, authorID, subjectID uint64, note string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO "+r.table+" ("+r.authorCol+", "+r.subjectCol+", note) VALUES (?, ?, ?)"+
			" ON DUPLICATE KEY UPDATE note = VALUES(note)",
		authorID, subjectID, note)
	return err
}
