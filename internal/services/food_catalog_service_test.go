package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/carb-calculator/internal/domain"
	apperrors "github.com/vladimiradmaev/carb-calculator/internal/errors"
	"github.com/vladimiradmaev/carb-calculator/internal/storage"
)

func TestUpsertIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.catalog.Upsert(ctx, "Apple", 12)
	require.NoError(t, err)
	got, err := env.catalog.Upsert(ctx, "APPLE", 15)
	require.NoError(t, err)

	assert.Equal(t, domain.FoodDefinition{Name: "Apple", CarbsPer100g: 15}, got)
	assert.Equal(t, []domain.FoodDefinition{{Name: "Apple", CarbsPer100g: 15}}, env.catalog.List(ctx))
}

func TestUpsertKeepsOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for _, f := range []domain.FoodDefinition{{Name: "Bread", CarbsPer100g: 49}, {Name: "Rice", CarbsPer100g: 28}, {Name: "Milk", CarbsPer100g: 5}} {
		_, err := env.catalog.Upsert(ctx, f.Name, f.CarbsPer100g)
		require.NoError(t, err)
	}
	_, err := env.catalog.Upsert(ctx, "rice", 30)
	require.NoError(t, err)
	_, err = env.catalog.Upsert(ctx, "  Pasta ", 25)
	require.NoError(t, err)

	assert.Equal(t, []domain.FoodDefinition{
		{Name: "Bread", CarbsPer100g: 49},
		{Name: "Rice", CarbsPer100g: 30},
		{Name: "Milk", CarbsPer100g: 5},
		{Name: "Pasta", CarbsPer100g: 25},
	}, env.catalog.List(ctx))
}

func TestUpsertRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	tests := []struct {
		name  string
		food  string
		carbs float64
	}{
		{"empty name", "", 10},
		{"blank name", "   ", 10},
		{"negative carbs", "Apple", -1},
		{"nan carbs", "Apple", math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.catalog.Upsert(ctx, tt.food, tt.carbs)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
	assert.Empty(t, env.catalog.List(ctx))

	_, err := env.catalog.UpsertFromText(ctx, "Apple", "lots")
	assert.True(t, apperrors.IsValidation(err))

	got, err := env.catalog.UpsertFromText(ctx, "Apple", "0")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.CarbsPer100g)
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.catalog.Upsert(ctx, "Banana", 20)
	require.NoError(t, err)

	food, ok := env.catalog.Lookup(ctx, "banana")
	require.True(t, ok)
	assert.Equal(t, "Banana", food.Name)

	_, ok = env.catalog.Lookup(ctx, "Bananas")
	assert.False(t, ok)
	_, ok = env.catalog.Lookup(ctx, "")
	assert.False(t, ok)
}

func TestRemoveMatchesExactName(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	// duplicates can only come from older data written outside Upsert
	require.NoError(t, storage.Save(ctx, env.gw, domain.KeyFoodCatalog, []domain.FoodDefinition{
		{Name: "Apple", CarbsPer100g: 12},
		{Name: "Rice", CarbsPer100g: 28},
		{Name: "Apple", CarbsPer100g: 14},
	}))

	require.NoError(t, env.catalog.Remove(ctx, "apple"))
	assert.Len(t, env.catalog.List(ctx), 3)

	require.NoError(t, env.catalog.Remove(ctx, "Apple"))
	assert.Equal(t, []domain.FoodDefinition{{Name: "Rice", CarbsPer100g: 28}}, env.catalog.List(ctx))

	require.NoError(t, env.catalog.Remove(ctx, "Nothing"))
	assert.Len(t, env.catalog.List(ctx), 1)
}

func TestCaptureDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	added, err := env.catalog.Capture(ctx, "Rice", 28)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = env.catalog.Capture(ctx, "RICE", 99)
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, []domain.FoodDefinition{{Name: "Rice", CarbsPer100g: 28}}, env.catalog.List(ctx))
}

func TestEdit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	for _, f := range []domain.FoodDefinition{{Name: "Bread", CarbsPer100g: 49}, {Name: "Rice", CarbsPer100g: 28}} {
		_, err := env.catalog.Upsert(ctx, f.Name, f.CarbsPer100g)
		require.NoError(t, err)
	}

	got, err := env.catalog.Edit(ctx, 1, "Brown rice", 23)
	require.NoError(t, err)
	assert.Equal(t, domain.FoodDefinition{Name: "Brown rice", CarbsPer100g: 23}, got)

	// same entry, different casing is fine
	_, err = env.catalog.Edit(ctx, 0, "BREAD", 50)
	require.NoError(t, err)

	_, err = env.catalog.Edit(ctx, 0, "brown RICE", 50)
	assert.True(t, apperrors.IsValidation(err))

	_, err = env.catalog.Edit(ctx, 2, "Oats", 60)
	assert.True(t, apperrors.IsValidation(err))

	assert.Equal(t, []domain.FoodDefinition{
		{Name: "BREAD", CarbsPer100g: 50},
		{Name: "Brown rice", CarbsPer100g: 23},
	}, env.catalog.List(ctx))
}

func TestDamagedEntriesAreSkipped(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	damaged := []map[string]any{
		{"name": "Apple", "carbsPer100g": 12},
		{"name": "", "carbsPer100g": 40},
		{"name": "Ghost", "carbsPer100g": -5},
	}
	require.NoError(t, storage.Save(ctx, env.gw, domain.KeyFoodCatalog, damaged))
	assert.Equal(t, []domain.FoodDefinition{{Name: "Apple", CarbsPer100g: 12}}, env.catalog.List(ctx))

	_, ok := env.catalog.Lookup(ctx, "ghost")
	assert.False(t, ok)

	// The next write persists the cleaned list.
	_, err := env.catalog.Upsert(ctx, "Rice", 28)
	require.NoError(t, err)
	assert.Len(t, storage.Load(ctx, env.gw, domain.KeyFoodCatalog, []map[string]any{}), 2)

	session := []map[string]any{
		{"name": "Rice", "carbsPer100g": 28, "weight": 0, "carbs": 0},
		{"name": "Rice", "carbsPer100g": 28, "weight": 100, "carbs": 28},
	}
	require.NoError(t, storage.Save(ctx, env.gw, domain.KeySessionLedger, session))
	assert.Equal(t, domain.Dose{TotalCarbs: 28, MealBolus: 28.0 / 12, TotalInsulin: 28.0 / 12}, env.meal.Totals(ctx))
}
