package services

import (
	"testing"
	"time"

	"github.com/vladimiradmaev/carb-calculator/internal/logger"
	"github.com/vladimiradmaev/carb-calculator/internal/storage"
)

type testEnv struct {
	gw       *storage.Gateway
	settings *SettingsService
	catalog  *FoodCatalogService
	session  *SessionService
	history  *HistoryService
	meal     *MealService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.Discard()
	gw := storage.NewGateway(storage.NewMemoryBackend(), "test", log)

	env := &testEnv{gw: gw}
	env.settings = NewSettingsService(gw, log)
	env.catalog = NewFoodCatalogService(gw, log)
	env.session = NewSessionService(gw, env.catalog, log)
	env.history = NewHistoryService(gw, log)
	env.meal = NewMealService(env.settings, env.catalog, env.session, env.history, log)

	clock := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	env.history.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return env
}
