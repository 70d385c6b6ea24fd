package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/carb-calculator/internal/domain"
	apperrors "github.com/vladimiradmaev/carb-calculator/internal/errors"
	"github.com/vladimiradmaev/carb-calculator/internal/logger"
	"github.com/vladimiradmaev/carb-calculator/internal/storage"
)

func TestParseGlucoseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"40", 40, false},
		{"600", 600, false},
		{"123,5", 123.5, false},
		{"39.9", 0, true},
		{"600.1", 0, true},
		{"0", 0, true},
		{"high", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			g, err := ParseGlucose(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
				assert.False(t, g.Valid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.GlucoseReading(tt.want), g)
		})
	}
}

func TestSubmitGlucoseCommitsAndClears(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.session.AddEntry(ctx, "Bread", 50, 48)
	require.NoError(t, err)
	_, err = env.session.AddEntry(ctx, "Rice", 25, 96)
	require.NoError(t, err)
	assert.Equal(t, domain.Dose{TotalCarbs: 48, MealBolus: 4, TotalInsulin: 4}, env.meal.Totals(ctx))

	rec, ok, err := env.meal.SubmitGlucose(ctx, "190")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, domain.Dose{TotalCarbs: 48, MealBolus: 4, CorrectionBolus: 2, TotalInsulin: 6}, rec.Dose())
	assert.Equal(t, domain.GlucoseReading(190), rec.Glucose)
	assert.Len(t, rec.Foods, 2)

	assert.Empty(t, env.session.List(ctx))
	assert.Equal(t, domain.Dose{}, env.meal.Totals(ctx))
	history := env.history.List(ctx)
	require.Len(t, history, 1)
	assert.Equal(t, rec.ID, history[0].ID)
}

func TestSubmitGlucoseWithEmptySession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, ok, err := env.meal.SubmitGlucose(ctx, "150")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, env.history.List(ctx))
}

func TestSubmitGlucoseOutOfRangeKeepsSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.session.AddEntry(ctx, "Rice", 28, 100)
	require.NoError(t, err)

	for _, bad := range []string{"39", "601", "abc"} {
		_, ok, err := env.meal.SubmitGlucose(ctx, bad)
		assert.True(t, apperrors.IsValidation(err))
		assert.False(t, ok)
	}
	assert.Len(t, env.session.List(ctx), 1)
	assert.Empty(t, env.history.List(ctx))
}

func TestShareText(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.session.AddEntry(ctx, "Bread", 50, 48)
	require.NoError(t, err)
	_, err = env.session.AddEntry(ctx, "Apple", 12, 150)
	require.NoError(t, err)

	want := "🍬 Carb Calculator 🍬\n" +
		"Carbs: 42.0g\n" +
		"Meal bolus: 3.50u\n" +
		"Correction: 0.00u\n" +
		"Total insulin dose: 3.50u\n" +
		"- Bread: 48g (24.0g)\n" +
		"- Apple: 150g (18.0g)"
	assert.Equal(t, want, env.meal.ShareText(ctx))
}

func TestFormatShareForRecord(t *testing.T) {
	rec := domain.MealRecord{
		Foods:           []domain.SessionFoodEntry{domain.NewSessionFoodEntry("Rice", 28, 100)},
		TotalCarbs:      28,
		MealBolus:       28.0 / 12,
		CorrectionBolus: -0.5,
		TotalInsulin:    28.0/12 - 0.5,
	}
	text := FormatShare(rec.Dose(), rec.Foods)
	assert.Contains(t, text, "Meal bolus: 2.33u")
	assert.Contains(t, text, "Correction: -0.50u")
	assert.Contains(t, text, "Total insulin dose: 1.83u")
	assert.Contains(t, text, "- Rice: 100g (28.0g)")
}

// stuckSessionBackend refuses writes to the session once armed.
type stuckSessionBackend struct {
	*storage.MemoryBackend
	armed bool
}

func (b *stuckSessionBackend) Set(ctx context.Context, key, value string) error {
	if b.armed && strings.HasSuffix(key, domain.KeySessionLedger) {
		return errors.New("write refused")
	}
	return b.MemoryBackend.Set(ctx, key, value)
}

func TestSubmitGlucoseReportsUnclearedSession(t *testing.T) {
	ctx := context.Background()
	log := logger.Discard()
	backend := &stuckSessionBackend{MemoryBackend: storage.NewMemoryBackend()}
	meal := Wire(storage.NewGateway(backend, "test", log), log)

	_, err := meal.Session.AddEntry(ctx, "Bread", 50, 48)
	require.NoError(t, err)
	backend.armed = true

	rec, ok, err := meal.SubmitGlucose(ctx, "190")
	require.Error(t, err)
	assert.True(t, ok)
	assert.True(t, errors.Is(err, ErrSessionNotCleared))
	assert.Contains(t, apperrors.UserMessage(err), "Meal saved to history")
	assert.False(t, apperrors.IsValidation(err))

	records := meal.History.List(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, rec.ID, records[0].ID)
	assert.Len(t, meal.Session.List(ctx), 1)
}

func TestShareTextAfterSubmitUsesSavedDose(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.session.AddEntry(ctx, "Bread", 50, 48)
	require.NoError(t, err)
	_, err = env.session.AddEntry(ctx, "Rice", 25, 96)
	require.NoError(t, err)
	_, _, err = env.meal.SubmitGlucose(ctx, "190")
	require.NoError(t, err)
	require.Empty(t, env.session.List(ctx))

	text := env.meal.ShareText(ctx)
	assert.Contains(t, text, "Carbs: 48.0g")
	assert.Contains(t, text, "Correction: 2.00u")
	assert.Contains(t, text, "Total insulin dose: 6.00u")
	assert.Contains(t, text, "- Rice: 96g (24.0g)")

	// A new portion switches back to the live session.
	_, err = env.session.AddEntry(ctx, "Apple", 12, 150)
	require.NoError(t, err)
	text = env.meal.ShareText(ctx)
	assert.Contains(t, text, "Correction: 0.00u")
	assert.NotContains(t, text, "Rice")
}

func TestShareTextWithNothingLogged(t *testing.T) {
	text := newTestEnv(t).meal.ShareText(context.Background())
	assert.Contains(t, text, "Carbs: 0.0g")
	assert.Contains(t, text, "Total insulin dose: 0.00u")
}
