package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/talent-hub/internal/model"
)

// ErrNotificationNotFound covers both unknown IDs and notifications owned
// by someone else.
var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create stores one notification for one user.
func (r *NotificationRepo) Create(ctx context.Context, userID uint64, title, message string) error {
	return r.CreateMany(ctx, []uint64{userID}, title, message)
}

// CreateMany stores the same notification for each user in one statement.
func (r *NotificationRepo) CreateMany(ctx context.Context, userIDs []uint64, title, message string) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := `INSERT INTO notifications (user_id, title, message) VALUES `
	args := make([]any, 0, len(userIDs)*3)
	for i, id := range userIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, id, title, message)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ListByUser returns the user's notifications newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, message, is_read, created_at
		 FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags the notification as read if userID owns it.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Already-read rows report zero affected rows too.
		var one int
		err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM notifications WHERE id = ? AND user_id = ?`, id, userID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (r *NotificationRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
