package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/carb-calculator/internal/domain"
	apperrors "github.com/vladimiradmaev/carb-calculator/internal/errors"
	"github.com/vladimiradmaev/carb-calculator/internal/logger"
)

type failingBackend struct {
	err error
}

func (f failingBackend) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingBackend) Set(context.Context, string, string) error         { return f.err }
func (f failingBackend) Close() error                                      { return nil }

func newTestGateway(t *testing.T) (*Gateway, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend()
	return NewGateway(backend, "test", logger.Discard()), backend
}

func TestLoadMissingKeyReturnsDefault(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGateway(t)

	assert.Equal(t, domain.DefaultUserConfig(), Load(ctx, g, domain.KeyUserConfig, domain.DefaultUserConfig()))
	assert.Empty(t, Load(ctx, g, domain.KeyFoodCatalog, []domain.FoodDefinition{}))
	assert.Empty(t, Load(ctx, g, domain.KeySessionLedger, []domain.SessionFoodEntry{}))
	assert.Empty(t, Load(ctx, g, domain.KeyMealHistory, []domain.MealRecord{}))
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGateway(t)

	cfg := domain.UserConfig{Ratio: 10, Sensitivity: 50, Target: 100}
	require.NoError(t, Save(ctx, g, domain.KeyUserConfig, cfg))
	assert.Equal(t, cfg, Load(ctx, g, domain.KeyUserConfig, domain.DefaultUserConfig()))

	foods := []domain.FoodDefinition{{Name: "Apple", CarbsPer100g: 12}, {Name: "Rice", CarbsPer100g: 28}}
	require.NoError(t, Save(ctx, g, domain.KeyFoodCatalog, foods))
	assert.Equal(t, foods, Load(ctx, g, domain.KeyFoodCatalog, []domain.FoodDefinition{}))

	entries := []domain.SessionFoodEntry{domain.NewSessionFoodEntry("Rice", 28, 150)}
	require.NoError(t, Save(ctx, g, domain.KeySessionLedger, entries))
	assert.Equal(t, entries, Load(ctx, g, domain.KeySessionLedger, []domain.SessionFoodEntry{}))

	history := []domain.MealRecord{{
		ID:         "m1",
		Date:       time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		Foods:      entries,
		TotalCarbs: 42,
		MealBolus:  3.5,
		Glucose:    domain.GlucoseReading(150),
	}, {
		ID:      "m0",
		Date:    time.Date(2024, 4, 30, 8, 0, 0, 0, time.UTC),
		Foods:   entries,
		Glucose: domain.NoGlucose,
	}}
	require.NoError(t, Save(ctx, g, domain.KeyMealHistory, history))
	assert.Equal(t, history, Load(ctx, g, domain.KeyMealHistory, []domain.MealRecord{}))
}

func TestLoadHealsCorruption(t *testing.T) {
	ctx := context.Background()
	g, backend := newTestGateway(t)

	tests := []struct {
		name string
		key  string
		raw  string
	}{
		{"not json", domain.KeyFoodCatalog, "{{{"},
		{"wrong shape", domain.KeyFoodCatalog, `{"name":"x"}`},
		{"config null", domain.KeyUserConfig, "null"},
		{"config non-positive", domain.KeyUserConfig, `{"ratio":0,"sensitivity":40,"target":110}`},
		{"config wrong types", domain.KeyUserConfig, `{"ratio":"a"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, backend.Set(ctx, "test:"+tt.key, tt.raw))
			switch tt.key {
			case domain.KeyUserConfig:
				assert.Equal(t, domain.DefaultUserConfig(), Load(ctx, g, tt.key, domain.DefaultUserConfig()))
			default:
				assert.Empty(t, Load(ctx, g, tt.key, []domain.FoodDefinition{}))
			}
		})
	}
}

func TestNamespacePrefixesKeys(t *testing.T) {
	ctx := context.Background()
	g, backend := newTestGateway(t)

	require.NoError(t, Save(ctx, g, "k", 1))
	raw, ok, err := backend.Get(ctx, "test:k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", raw)

	plain := NewGateway(backend, "", logger.Discard())
	require.NoError(t, Save(ctx, plain, "k", 2))
	raw, _, _ = backend.Get(ctx, "k")
	assert.Equal(t, "2", raw)
}

func TestBackendErrors(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(failingBackend{err: errors.New("disk gone")}, "", logger.Discard())

	assert.Equal(t, domain.DefaultUserConfig(), Load(ctx, g, domain.KeyUserConfig, domain.DefaultUserConfig()))

	err := Save(ctx, g, domain.KeyUserConfig, domain.DefaultUserConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDatabaseError)
}

func TestLoadListDropsInvalidElements(t *testing.T) {
	ctx := context.Background()
	g, backend := newTestGateway(t)

	require.NoError(t, backend.Set(ctx, "test:"+domain.KeyFoodCatalog,
		`[{"name":"Rice","carbsPer100g":28},{"name":"  ","carbsPer100g":5},{"name":"Ghost","carbsPer100g":-3}]`))
	assert.Equal(t, []domain.FoodDefinition{{Name: "Rice", CarbsPer100g: 28}},
		LoadList[domain.FoodDefinition](ctx, g, domain.KeyFoodCatalog))

	require.NoError(t, backend.Set(ctx, "test:"+domain.KeySessionLedger,
		`[{"name":"Rice","carbsPer100g":28,"weight":0,"carbs":0},{"name":"Oats","carbsPer100g":66,"weight":50,"carbs":33}]`))
	entries := LoadList[domain.SessionFoodEntry](ctx, g, domain.KeySessionLedger)
	require.Len(t, entries, 1)
	assert.Equal(t, "Oats", entries[0].Name)

	require.NoError(t, backend.Set(ctx, "test:"+domain.KeyMealHistory,
		`[{"id":"empty","foods":[],"glucose":null},{"id":"ok","foods":[{"name":"Oats","carbsPer100g":66,"weight":50,"carbs":33}],"glucose":120}]`))
	records := LoadList[domain.MealRecord](ctx, g, domain.KeyMealHistory)
	require.Len(t, records, 1)
	assert.Equal(t, "ok", records[0].ID)

	require.NoError(t, backend.Set(ctx, "test:"+domain.KeyFoodCatalog, "null"))
	assert.Equal(t, []domain.FoodDefinition{}, LoadList[domain.FoodDefinition](ctx, g, domain.KeyFoodCatalog))
}
