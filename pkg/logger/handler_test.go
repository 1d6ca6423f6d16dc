package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/securestore/pkg/environment"
	"github.com/dmitrymomot/securestore/pkg/logger"
)

func TestNew_RedactsSecrets(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithTextFormatter(),
		logger.WithRedactedKeys("token"),
	)

	log.With(slog.String("Master_Secret", "abc123")).Info("bootstrap",
		slog.String("seed", "deadbeef"),
		slog.String("token", "t0k3n"),
		slog.Group("provider", slog.String("password", "hunter2"), slog.String("name", "redis")),
		logger.Domain("billing"),
	)

	out := buf.String()
	for _, secret := range []string{"abc123", "deadbeef", "t0k3n", "hunter2"} {
		assert.NotContains(t, out, secret)
	}
	assert.Contains(t, out, "seed="+logger.Redacted)
	assert.Contains(t, out, "provider.name=redis")
	assert.Contains(t, out, "domain=billing")
}

func TestNew_ContextExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithTextFormatter(),
		logger.WithContextExtractors(environment.LogAttr, nil),
	)

	ctx := environment.WithContext(context.Background(), environment.Staging)
	log.InfoContext(ctx, "opened")
	assert.Contains(t, buf.String(), "env=staging")

	buf.Reset()
	log.InfoContext(context.Background(), "opened")
	assert.NotContains(t, buf.String(), "env=")
}

func TestContextHandler_WithGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := logger.NewContextHandler(slog.NewTextHandler(&buf, nil), []string{"secret"})
	slog.New(h).WithGroup("keys").Info("derived", slog.String("secret", "s3cr3t"))

	assert.NotContains(t, buf.String(), "s3cr3t")
	assert.Contains(t, buf.String(), "keys.secret="+logger.Redacted)
}
