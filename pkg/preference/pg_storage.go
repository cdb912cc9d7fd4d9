package preference

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
// The per-type settings and quiet-hours window are stored as JSONB.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a preference storage on top of an existing
// connection pool. The pool lifecycle is owned by the caller.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

func (s *PostgresStorage) Get(ctx context.Context, recipientID string) (Preferences, error) {
	var (
		p          Preferences
		types      []byte
		quietHours []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT recipient_id, types, quiet_hours, language, sound, vibration, updated_at
		FROM notification_preferences
		WHERE recipient_id = $1`,
		recipientID,
	).Scan(&p.RecipientID, &types, &quietHours, &p.Language, &p.Sound, &p.Vibration, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Preferences{}, ErrNotFound
		}
		return Preferences{}, fmt.Errorf("get preferences: %w", err)
	}

	if err := json.Unmarshal(types, &p.Types); err != nil {
		return Preferences{}, fmt.Errorf("unmarshal type settings: %w", err)
	}
	if err := json.Unmarshal(quietHours, &p.QuietHours); err != nil {
		return Preferences{}, fmt.Errorf("unmarshal quiet hours: %w", err)
	}
	return p, nil
}

func (s *PostgresStorage) Save(ctx context.Context, p Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}

	types, err := json.Marshal(p.Types)
	if err != nil {
		return fmt.Errorf("marshal type settings: %w", err)
	}
	quietHours, err := json.Marshal(p.QuietHours)
	if err != nil {
		return fmt.Errorf("marshal quiet hours: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO notification_preferences (recipient_id, types, quiet_hours, language, sound, vibration, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (recipient_id) DO UPDATE SET
			types = EXCLUDED.types,
			quiet_hours = EXCLUDED.quiet_hours,
			language = EXCLUDED.language,
			sound = EXCLUDED.sound,
			vibration = EXCLUDED.vibration,
			updated_at = EXCLUDED.updated_at`,
		p.RecipientID, types, quietHours, p.Language, p.Sound, p.Vibration, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Exists(ctx context.Context, recipientID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM notification_preferences WHERE recipient_id = $1)`,
		recipientID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("preferences exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStorage) Delete(ctx context.Context, recipientID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM notification_preferences WHERE recipient_id = $1`, recipientID)
	if err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	return nil
}
