package presence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisTracker implements Tracker on top of Redis sets, making presence
// visible across processes. Every process serving real-time connections
// points at the same Redis and the dispatcher's routing queries see the
// union of their connections.
type RedisTracker struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisTrackerOption configures a RedisTracker.
type RedisTrackerOption func(*RedisTracker)

// WithKeyPrefix overrides the default "presence" key prefix, allowing
// several applications to share one Redis.
func WithKeyPrefix(prefix string) RedisTrackerOption {
	return func(t *RedisTracker) {
		if prefix != "" {
			t.keyPrefix = prefix
		}
	}
}

// NewRedisTracker creates a presence tracker backed by the given Redis client.
// The client lifecycle is owned by the caller.
func NewRedisTracker(client redis.UniversalClient, opts ...RedisTrackerOption) *RedisTracker {
	t := &RedisTracker{
		client:    client,
		keyPrefix: "presence",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *RedisTracker) recipientKey(recipientID string) string {
	return fmt.Sprintf("%s:recipient:%s", t.keyPrefix, recipientID)
}

func (t *RedisTracker) connKey(connectionID string) string {
	return fmt.Sprintf("%s:conn:%s", t.keyPrefix, connectionID)
}

func (t *RedisTracker) metaKey(connectionID string) string {
	return fmt.Sprintf("%s:meta:%s", t.keyPrefix, connectionID)
}

func (t *RedisTracker) onlineKey() string {
	return t.keyPrefix + ":online"
}

func (t *RedisTracker) Connect(ctx context.Context, connectionID, recipientID string, meta Metadata) error {
	if connectionID == "" || recipientID == "" {
		return ErrInvalidArgument
	}

	// Move the connection if it was registered under a different recipient.
	prev, err := t.client.Get(ctx, t.connKey(connectionID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("presence connect: %w", err)
	}
	if prev != "" && prev != recipientID {
		if err := t.Disconnect(ctx, connectionID); err != nil {
			return err
		}
	}

	pipe := t.client.TxPipeline()
	pipe.SAdd(ctx, t.recipientKey(recipientID), connectionID)
	pipe.Set(ctx, t.connKey(connectionID), recipientID, 0)
	pipe.SAdd(ctx, t.onlineKey(), recipientID)
	if len(meta) > 0 {
		fields := make(map[string]string, len(meta))
		for k, v := range meta {
			fields[k] = v
		}
		pipe.HSet(ctx, t.metaKey(connectionID), fields)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence connect: %w", err)
	}
	return nil
}

func (t *RedisTracker) Disconnect(ctx context.Context, connectionID string) error {
	recipientID, err := t.client.Get(ctx, t.connKey(connectionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("presence disconnect: %w", err)
	}

	pipe := t.client.TxPipeline()
	pipe.SRem(ctx, t.recipientKey(recipientID), connectionID)
	pipe.Del(ctx, t.connKey(connectionID), t.metaKey(connectionID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence disconnect: %w", err)
	}

	// Last connection gone: drop the recipient from the online set.
	remaining, err := t.client.SCard(ctx, t.recipientKey(recipientID)).Result()
	if err != nil {
		return fmt.Errorf("presence disconnect: %w", err)
	}
	if remaining == 0 {
		if err := t.client.SRem(ctx, t.onlineKey(), recipientID).Err(); err != nil {
			return fmt.Errorf("presence disconnect: %w", err)
		}
	}
	return nil
}

func (t *RedisTracker) IsOnline(ctx context.Context, recipientID string) (bool, error) {
	count, err := t.client.SCard(ctx, t.recipientKey(recipientID)).Result()
	if err != nil {
		return false, fmt.Errorf("presence is-online: %w", err)
	}
	return count > 0, nil
}

func (t *RedisTracker) ConnectionsFor(ctx context.Context, recipientID string) ([]string, error) {
	conns, err := t.client.SMembers(ctx, t.recipientKey(recipientID)).Result()
	if err != nil {
		return nil, fmt.Errorf("presence connections-for: %w", err)
	}
	return conns, nil
}

func (t *RedisTracker) OnlineRecipients(ctx context.Context) ([]string, error) {
	recipients, err := t.client.SMembers(ctx, t.onlineKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("presence online-recipients: %w", err)
	}
	return recipients, nil
}
