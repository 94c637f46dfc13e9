package notifications

import (
	"context"
	"fmt"

	"trainhub/internal/domain/apperr"
	"trainhub/internal/platform/querier"
)

var ErrNotFound = apperr.NotFound("notification")

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateNotification(ctx context.Context, userID, ntype, title, body string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (user_id, type, title, body)
    VALUES ($1,$2,$3,$4)
  `, userID, ntype, title, body)
	return err
}

func (s *Store) UserEmail(ctx context.Context, userID string) (string, error) {
	var email string
	if err := s.DB.QueryRow(ctx, "SELECT email FROM users WHERE id = $1", userID).Scan(&email); err != nil {
		return "", err
	}
	return email, nil
}

// filterClause appends the inbox filter after the user_id = $1 predicate.
func filterClause(filter Filter, args []any) (string, []any) {
	clause := ""
	if filter.UnreadOnly {
		clause += " AND read_at IS NULL"
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		clause += fmt.Sprintf(" AND type = $%d", len(args))
	}
	return clause, args
}

func (s *Store) ListNotifications(ctx context.Context, userID string, filter Filter, limit, offset int) ([]Notification, error) {
	where, args := filterClause(filter, []any{userID})
	args = append(args, limit, offset)
	rows, err := s.DB.Query(ctx, `
    SELECT id, type, title, body, read_at, created_at
    FROM notifications
    WHERE user_id = $1`+where+fmt.Sprintf(`
    ORDER BY created_at DESC
    LIMIT $%d OFFSET $%d`, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountNotifications(ctx context.Context, userID string, filter Filter) (int, error) {
	where, args := filterClause(filter, []any{userID})
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM notifications WHERE user_id = $1"+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) MarkRead(ctx context.Context, userID, notificationID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = COALESCE(read_at, now())
    WHERE user_id = $1 AND id = $2
  `, userID, notificationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) MarkAllRead(ctx context.Context, userID string) (int, error) {
	tag, err := s.DB.Exec(ctx, "UPDATE notifications SET read_at = now() WHERE user_id = $1 AND read_at IS NULL", userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
