package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

func TestError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))

	err := errors.New("boom")
	attr := logger.Error(err)
	assert.Equal(t, "error", attr.Key)
}

func TestErrors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Errors(nil, nil))

	attr := logger.Errors(errors.New("a"), nil, errors.New("b"))
	assert.Equal(t, "errors", attr.Key)
	assert.Len(t, attr.Value.Group(), 2)
}

func TestDomainAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.RecipientID(nil))
	assert.Equal(t, "recipient_id", logger.RecipientID("u1").Key)
	assert.Equal(t, "notification_id", logger.NotificationID("n1").Key)
	assert.Equal(t, "subscription_id", logger.SubscriptionID("s1").Key)
	assert.Equal(t, "connection_id", logger.ConnectionID("c1").Key)
	assert.Equal(t, "channel", logger.Channel("push").Key)
	assert.Equal(t, "notification_type", logger.NotificationType("info").Key)
	assert.Equal(t, "count", logger.Count(3).Key)
	assert.Equal(t, "component", logger.Component("dispatcher").Key)
}
