package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vladimiradmaev/carb-calculator/internal/domain"
	apperrors "github.com/vladimiradmaev/carb-calculator/internal/errors"
	"github.com/vladimiradmaev/carb-calculator/internal/storage"
)

// ErrSessionNotCleared means the meal reached history but the session still
// holds its portions. Submitting again would record the meal twice.
var ErrSessionNotCleared = apperrors.New(apperrors.ErrorTypeDatabase, "SESSION_NOT_CLEARED",
	"Meal saved to history, but the current meal could not be reset. Clear it before logging the next meal.")

// MealService runs the meal cycle over the individual stores: log portions,
// read totals, submit a glucose reading to commit the meal.
type MealService struct {
	Settings *SettingsService
	Catalog  *FoodCatalogService
	Session  *SessionService
	History  *HistoryService
	logger   *slog.Logger
}

func NewMealService(settings *SettingsService, catalog *FoodCatalogService, session *SessionService, history *HistoryService, logger *slog.Logger) *MealService {
	return &MealService{
		Settings: settings,
		Catalog:  catalog,
		Session:  session,
		History:  history,
		logger:   logger.With("component", "meal"),
	}
}

// Wire builds every store service over one gateway.
func Wire(gw *storage.Gateway, logger *slog.Logger) *MealService {
	catalog := NewFoodCatalogService(gw, logger)
	return NewMealService(
		NewSettingsService(gw, logger),
		catalog,
		NewSessionService(gw, catalog, logger),
		NewHistoryService(gw, logger),
		logger,
	)
}

// Totals computes the dose for the current session without a reading.
func (s *MealService) Totals(ctx context.Context) domain.Dose {
	return CalculateDose(s.Session.List(ctx), s.Settings.Get(ctx), domain.NoGlucose)
}

// ParseGlucose accepts a reading within [domain.MinGlucose, domain.MaxGlucose].
func ParseGlucose(text string) (domain.Glucose, error) {
	v, err := parseField(text, "glucose")
	if err != nil {
		return domain.NoGlucose, err
	}
	if v < domain.MinGlucose || v > domain.MaxGlucose {
		return domain.NoGlucose, apperrors.NewValidationError(
			fmt.Sprintf("glucose must be between %.0f and %.0f mg/dL", domain.MinGlucose, domain.MaxGlucose)).
			WithContext("glucose", v)
	}
	return domain.GlucoseReading(v), nil
}

// SubmitGlucose commits the current session with the reading and starts a
// new, empty session. With nothing logged it records nothing and returns false.
func (s *MealService) SubmitGlucose(ctx context.Context, text string) (domain.MealRecord, bool, error) {
	glucose, err := ParseGlucose(text)
	if err != nil {
		return domain.MealRecord{}, false, err
	}

	entries := s.Session.List(ctx)
	dose := CalculateDose(entries, s.Settings.Get(ctx), glucose)

	record, ok, err := s.History.Commit(ctx, entries, dose, glucose)
	if err != nil || !ok {
		return record, ok, err
	}
	if err := s.Session.Clear(ctx); err != nil {
		return record, true, apperrors.Wrap(err, ErrSessionNotCleared.Type, ErrSessionNotCleared.Code, ErrSessionNotCleared.Message).
			WithContext("record", record.ID)
	}

	s.logger.InfoContext(ctx, "glucose submitted", "glucose", glucose.Value, "record", record.ID)
	return record, true, nil
}

// ShareText formats the current session for sending elsewhere. Once the
// session is committed and empty, it formats the newest record instead, so
// the shared dose carries the correction for the submitted reading.
func (s *MealService) ShareText(ctx context.Context) string {
	entries := s.Session.List(ctx)
	if len(entries) == 0 {
		if records := s.History.List(ctx); len(records) > 0 {
			return FormatShare(records[0].Dose(), records[0].Foods)
		}
	}
	return FormatShare(CalculateDose(entries, s.Settings.Get(ctx), domain.NoGlucose), entries)
}

// FormatShare renders a dose and its portions as a plain-text message.
func FormatShare(dose domain.Dose, foods []domain.SessionFoodEntry) string {
	var b strings.Builder
	b.WriteString("🍬 Carb Calculator 🍬\n")
	fmt.Fprintf(&b, "Carbs: %sg\n", domain.FormatCarbs(dose.TotalCarbs))
	fmt.Fprintf(&b, "Meal bolus: %su\n", domain.FormatUnits(dose.MealBolus))
	fmt.Fprintf(&b, "Correction: %su\n", domain.FormatUnits(dose.CorrectionBolus))
	fmt.Fprintf(&b, "Total insulin dose: %su\n", domain.FormatUnits(dose.TotalInsulin))
	for _, f := range foods {
		fmt.Fprintf(&b, "- %s: %sg (%sg)\n", f.Name, domain.FormatAmount(f.Weight), domain.FormatCarbs(f.Carbs))
	}
	return strings.TrimRight(b.String(), "\n")
}
