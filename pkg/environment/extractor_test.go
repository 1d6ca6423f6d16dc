package environment_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/securestore/pkg/environment"
)

func TestLogAttr(t *testing.T) {
	t.Parallel()

	for _, env := range []environment.Environment{
		environment.Development,
		environment.Staging,
		environment.Production,
		"custom",
	} {
		attr, ok := environment.LogAttr(environment.WithContext(context.Background(), env))
		assert.True(t, ok, env)
		assert.Equal(t, environment.LogKey, attr.Key)
		assert.Equal(t, string(env), attr.Value.String())
	}
}

func TestLogAttr_Missing(t *testing.T) {
	t.Parallel()

	attr, ok := environment.LogAttr(context.Background())
	assert.False(t, ok)
	assert.Equal(t, slog.Attr{}, attr)

	_, ok = environment.LogAttr(environment.WithContext(context.Background(), ""))
	assert.False(t, ok)
}
