package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage is a pgx-backed implementation of the Storage interface.
// The schema is created by the migrations shipped with this module.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a notification storage on top of an existing
// connection pool. The pool lifecycle is owned by the caller.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

const notificationColumns = `id, recipient_id, type, priority, title, message, channels,
	data, actions, icon, image, read, read_at, delivered_at, failed_at, failure_reason,
	expires_at, created_at`

func (s *PostgresStorage) Create(ctx context.Context, n Notification) error {
	if n.ID == "" {
		return ErrIDRequired
	}
	if n.RecipientID == "" {
		return ErrRecipientRequired
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	channels, err := json.Marshal(n.Channels)
	if err != nil {
		return fmt.Errorf("marshal channels: %w", err)
	}
	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}
	actions, err := json.Marshal(n.Actions)
	if err != nil {
		return fmt.Errorf("marshal actions: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		n.ID, n.RecipientID, n.Type, n.Priority, n.Title, n.Message, channels,
		data, actions, n.Icon, n.Image, n.Read, n.ReadAt, n.DeliveredAt, n.FailedAt,
		n.FailureReason, n.ExpiresAt, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Get(ctx context.Context, recipientID, notifID string) (Notification, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE id = $1 AND recipient_id = $2`,
		notifID, recipientID,
	)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Notification{}, ErrNotFound
		}
		return Notification{}, fmt.Errorf("get notification: %w", err)
	}
	return n, nil
}

func (s *PostgresStorage) List(ctx context.Context, recipientID string, opts ListOptions) ([]Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE recipient_id = $1
		  AND (expires_at IS NULL OR expires_at > now())`
	args := []any{recipientID}

	if opts.OnlyUnread {
		query += ` AND read = false`
	}
	if len(opts.Types) > 0 {
		args = append(args, opts.Types)
		query += fmt.Sprintf(` AND type = ANY($%d)`, len(args))
	}
	if len(opts.Priorities) > 0 {
		args = append(args, opts.Priorities)
		query += fmt.Sprintf(` AND priority = ANY($%d)`, len(args))
	}
	if opts.Since != nil {
		args = append(args, *opts.Since)
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}
	if opts.Until != nil {
		args = append(args, *opts.Until)
		query += fmt.Sprintf(` AND created_at < $%d`, len(args))
	}

	query += ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	result := make([]Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (s *PostgresStorage) MarkRead(ctx context.Context, recipientID string, at time.Time, notifIDs ...string) error {
	if len(notifIDs) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE notifications
		SET read = true, read_at = $3
		WHERE recipient_id = $1 AND id = ANY($2)`,
		recipientID, notifIDs, at,
	)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (s *PostgresStorage) MarkDelivered(ctx context.Context, recipientID, notifID string, at time.Time) error {
	return s.guardedUpdate(ctx, recipientID, notifID, `delivered_at = $3`, at)
}

func (s *PostgresStorage) MarkFailed(ctx context.Context, recipientID, notifID string, at time.Time, reason string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE notifications
		SET failed_at = $3, failure_reason = $4
		WHERE recipient_id = $1 AND id = $2`,
		recipientID, notifID, at, reason,
	)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.classifyMiss(ctx, recipientID, notifID)
	}
	return nil
}

func (s *PostgresStorage) guardedUpdate(ctx context.Context, recipientID, notifID, set string, arg any) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE notifications
		SET `+set+`
		WHERE recipient_id = $1 AND id = $2`,
		recipientID, notifID, arg,
	)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.classifyMiss(ctx, recipientID, notifID)
	}
	return nil
}

// classifyMiss distinguishes a missing notification from one owned by a
// different recipient after a zero-row update.
func (s *PostgresStorage) classifyMiss(ctx context.Context, recipientID, notifID string) error {
	var owner string
	err := s.pool.QueryRow(ctx, `SELECT recipient_id FROM notifications WHERE id = $1`, notifID).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("classify update miss: %w", err)
	}
	if owner != recipientID {
		return ErrNotOwned
	}
	return nil
}

func (s *PostgresStorage) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM notifications
		WHERE recipient_id = $1 AND read = false
		  AND (expires_at IS NULL OR expires_at > now())`,
		recipientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

func (s *PostgresStorage) ListUnread(ctx context.Context, recipientID string, limit int) ([]Notification, error) {
	return s.List(ctx, recipientID, ListOptions{OnlyUnread: true, Limit: limit})
}

func (s *PostgresStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM notifications WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete older than: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStorage) Delete(ctx context.Context, recipientID string, notifIDs ...string) error {
	if len(notifIDs) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		DELETE FROM notifications
		WHERE recipient_id = $1 AND id = ANY($2)`,
		recipientID, notifIDs,
	)
	if err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	return nil
}

func scanNotification(row pgx.Row) (Notification, error) {
	var (
		n        Notification
		channels []byte
		data     []byte
		actions  []byte
	)
	err := row.Scan(
		&n.ID, &n.RecipientID, &n.Type, &n.Priority, &n.Title, &n.Message, &channels,
		&data, &actions, &n.Icon, &n.Image, &n.Read, &n.ReadAt, &n.DeliveredAt,
		&n.FailedAt, &n.FailureReason, &n.ExpiresAt, &n.CreatedAt,
	)
	if err != nil {
		return Notification{}, err
	}
	if err := json.Unmarshal(channels, &n.Channels); err != nil {
		return Notification{}, fmt.Errorf("unmarshal channels: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return Notification{}, fmt.Errorf("unmarshal data: %w", err)
		}
	}
	if len(actions) > 0 {
		if err := json.Unmarshal(actions, &n.Actions); err != nil {
			return Notification{}, fmt.Errorf("unmarshal actions: %w", err)
		}
	}
	return n, nil
}
