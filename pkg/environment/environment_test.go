package environment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notifykit/pkg/environment"
)

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := environment.WithContext(context.Background(), environment.Production)
	assert.Equal(t, environment.Production, environment.FromContext(ctx))

	assert.Equal(t, environment.Environment(""), environment.FromContext(context.Background()))
}

func TestEnvironmentChecks(t *testing.T) {
	t.Parallel()

	prod := environment.WithContext(context.Background(), environment.Production)
	assert.True(t, environment.IsProduction(prod))
	assert.False(t, environment.IsDevelopment(prod))

	dev := environment.WithContext(context.Background(), environment.Development)
	assert.True(t, environment.IsDevelopment(dev))

	stage := environment.WithContext(context.Background(), environment.Staging)
	assert.True(t, environment.IsStaging(stage))
}
