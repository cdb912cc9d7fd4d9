package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage is a pgx-backed implementation of the Storage interface.
// Health updates run as single UPDATE statements computing the new counter
// in SQL, so concurrent deliveries to the same subscription never lose an
// increment.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a subscription storage on top of an existing
// connection pool. The pool lifecycle is owned by the caller.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

const subscriptionColumns = `id, recipient_id, device, endpoint, p256dh, auth, token,
	device_info, active, failure_count, last_failure_at, last_failure_reason,
	created_at, last_used_at`

func (s *PostgresStorage) Create(ctx context.Context, sub Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	if sub.LastUsedAt.IsZero() {
		sub.LastUsedAt = sub.CreatedAt
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO push_subscriptions (`+subscriptionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		sub.ID, sub.RecipientID, sub.Device, sub.Endpoint, sub.Keys.P256dh, sub.Keys.Auth,
		sub.Token, sub.DeviceInfo, sub.Active, sub.FailureCount, sub.LastFailureAt,
		sub.LastFailureReason, sub.CreatedAt, sub.LastUsedAt,
	)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Get(ctx context.Context, id string) (Subscription, error) {
	return s.queryOne(ctx, `WHERE id = $1`, id)
}

func (s *PostgresStorage) ListByRecipient(ctx context.Context, recipientID string, filter ListFilter) ([]Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM push_subscriptions
		WHERE recipient_id = $1`
	args := []any{recipientID}

	if filter.ActiveOnly {
		query += ` AND active = true`
	}
	if filter.Device != "" {
		args = append(args, filter.Device)
		query += fmt.Sprintf(` AND device = $%d`, len(args))
	}
	query += ` ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	result := make([]Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		result = append(result, sub)
	}
	return result, rows.Err()
}

func (s *PostgresStorage) FindByEndpoint(ctx context.Context, endpoint string) (Subscription, error) {
	return s.queryOne(ctx, `WHERE device = 'web' AND endpoint = $1`, endpoint)
}

func (s *PostgresStorage) FindByToken(ctx context.Context, token string) (Subscription, error) {
	return s.queryOne(ctx, `WHERE device IN ('android', 'ios') AND token = $1`, token)
}

func (s *PostgresStorage) queryOne(ctx context.Context, where string, arg any) (Subscription, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+subscriptionColumns+`
		FROM push_subscriptions `+where,
		arg,
	)
	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Subscription{}, ErrNotFound
		}
		return Subscription{}, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

func (s *PostgresStorage) Update(ctx context.Context, sub Subscription) error {
	if err := sub.Validate(); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE push_subscriptions
		SET recipient_id = $2, device = $3, endpoint = $4, p256dh = $5, auth = $6,
			token = $7, device_info = $8, active = $9, failure_count = $10,
			last_failure_at = $11, last_failure_reason = $12, last_used_at = $13
		WHERE id = $1`,
		sub.ID, sub.RecipientID, sub.Device, sub.Endpoint, sub.Keys.P256dh, sub.Keys.Auth,
		sub.Token, sub.DeviceInfo, sub.Active, sub.FailureCount, sub.LastFailureAt,
		sub.LastFailureReason, sub.LastUsedAt,
	)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) RecordSuccess(ctx context.Context, id string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE push_subscriptions
		SET failure_count = 0, last_failure_at = NULL, last_failure_reason = '',
			last_used_at = $2
		WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("record subscription success: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) RecordFailure(ctx context.Context, id string, at time.Time, reason string) (Subscription, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE push_subscriptions
		SET failure_count = failure_count + 1,
			last_failure_at = $2,
			last_failure_reason = $3,
			active = active AND failure_count + 1 < $4
		WHERE id = $1
		RETURNING `+subscriptionColumns,
		id, at, reason, MaxConsecutiveFailures,
	)
	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Subscription{}, ErrNotFound
		}
		return Subscription{}, fmt.Errorf("record subscription failure: %w", err)
	}
	return sub, nil
}

func (s *PostgresStorage) Deactivate(ctx context.Context, id string, at time.Time, reason string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE push_subscriptions
		SET active = false, last_failure_at = $2, last_failure_reason = $3
		WHERE id = $1`,
		id, at, reason,
	)
	if err != nil {
		return fmt.Errorf("deactivate subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM push_subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

func (s *PostgresStorage) DeleteByRecipient(ctx context.Context, recipientID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM push_subscriptions WHERE recipient_id = $1`, recipientID)
	if err != nil {
		return fmt.Errorf("delete subscriptions by recipient: %w", err)
	}
	return nil
}

func (s *PostgresStorage) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM push_subscriptions WHERE last_used_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired subscriptions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanSubscription(row pgx.Row) (Subscription, error) {
	var sub Subscription
	err := row.Scan(
		&sub.ID, &sub.RecipientID, &sub.Device, &sub.Endpoint, &sub.Keys.P256dh,
		&sub.Keys.Auth, &sub.Token, &sub.DeviceInfo, &sub.Active, &sub.FailureCount,
		&sub.LastFailureAt, &sub.LastFailureReason, &sub.CreatedAt, &sub.LastUsedAt,
	)
	if err != nil {
		return Subscription{}, err
	}
	return sub, nil
}
