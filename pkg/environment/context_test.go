package environment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/securestore/pkg/environment"
)

func TestContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env              environment.Environment
		dev, stage, prod bool
	}{
		{environment.Development, true, false, false},
		{"dev", true, false, false},
		{environment.Staging, false, true, false},
		{"stage", false, true, false},
		{environment.Production, false, false, true},
		{"prod", false, false, true},
		{"custom", false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.env), func(t *testing.T) {
			t.Parallel()

			ctx := environment.WithContext(context.Background(), tt.env)
			assert.Equal(t, tt.env, environment.FromContext(ctx))
			assert.Equal(t, tt.dev, environment.IsDevelopment(ctx))
			assert.Equal(t, tt.stage, environment.IsStaging(ctx))
			assert.Equal(t, tt.prod, environment.IsProduction(ctx))
		})
	}
}

func TestFromContext_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, environment.FromContext(context.Background()))
	assert.Empty(t, environment.FromContext(nil))
	assert.False(t, environment.IsProduction(context.Background()))
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want environment.Environment
	}{
		{"development", environment.Development},
		{"dev", environment.Development},
		{" DEV ", environment.Development},
		{"staging", environment.Staging},
		{"stage", environment.Staging},
		{"production", environment.Production},
		{"prod", environment.Production},
		{"", environment.Production},
		{"unknown", environment.Production},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got := environment.Parse(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, got == environment.Development || !got.IsDevelopment())
		})
	}
}
