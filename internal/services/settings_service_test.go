package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/carb-calculator/internal/domain"
	apperrors "github.com/vladimiradmaev/carb-calculator/internal/errors"
)

func TestSettingsDefaults(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, domain.UserConfig{Ratio: 12, Sensitivity: 40, Target: 110}, env.settings.Get(context.Background()))
}

func TestSettingsSetReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	want := domain.UserConfig{Ratio: 10, Sensitivity: 50, Target: 100}
	got, err := env.settings.Set(ctx, want)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, want, env.settings.Get(ctx))
}

func TestSettingsRejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	saved := domain.UserConfig{Ratio: 15, Sensitivity: 30, Target: 120}
	_, err := env.settings.Set(ctx, saved)
	require.NoError(t, err)

	for _, bad := range []domain.UserConfig{
		{Ratio: 0, Sensitivity: 40, Target: 110},
		{Ratio: 12, Sensitivity: -1, Target: 110},
		{Ratio: 12, Sensitivity: 40, Target: 0},
	} {
		got, err := env.settings.Set(ctx, bad)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, saved, got)
	}
	assert.Equal(t, saved, env.settings.Get(ctx))
}

func TestSettingsSetFromText(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	got, err := env.settings.SetFromText(ctx, "10", "45,5", " 100 ")
	require.NoError(t, err)
	assert.Equal(t, domain.UserConfig{Ratio: 10, Sensitivity: 45.5, Target: 100}, got)

	_, err = env.settings.SetFromText(ctx, "ten", "45", "100")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, domain.UserConfig{Ratio: 10, Sensitivity: 45.5, Target: 100}, env.settings.Get(ctx))
}
