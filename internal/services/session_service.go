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

// SessionService is the ordered list of portions in the meal being logged.
type SessionService struct {
	gw      *storage.Gateway
	catalog *FoodCatalogService
	logger  *slog.Logger
}

// NewSessionService creates the session ledger. With a non-nil catalog,
// every food added here is also captured into the catalog.
func NewSessionService(gw *storage.Gateway, catalog *FoodCatalogService, logger *slog.Logger) *SessionService {
	return &SessionService{
		gw:      gw,
		catalog: catalog,
		logger:  logger.With("component", "session"),
	}
}

func (s *SessionService) List(ctx context.Context) []domain.SessionFoodEntry {
	return storage.LoadList[domain.SessionFoodEntry](ctx, s.gw, domain.KeySessionLedger)
}

func (s *SessionService) save(ctx context.Context, entries []domain.SessionFoodEntry) error {
	return storage.Save(ctx, s.gw, domain.KeySessionLedger, entries)
}

// AddEntry logs a portion. Carbs are carbsPer100g scaled to weight.
func (s *SessionService) AddEntry(ctx context.Context, name string, carbsPer100g, weight float64) (domain.SessionFoodEntry, error) {
	name, err := validateName(name)
	if err != nil {
		return domain.SessionFoodEntry{}, err
	}
	if err := validateCarbs(carbsPer100g); err != nil {
		return domain.SessionFoodEntry{}, err
	}
	if err := validateWeight(weight); err != nil {
		return domain.SessionFoodEntry{}, err
	}

	entry := domain.NewSessionFoodEntry(name, carbsPer100g, weight)
	entries := append(s.List(ctx), entry)
	if err := s.save(ctx, entries); err != nil {
		return domain.SessionFoodEntry{}, err
	}
	s.logger.InfoContext(ctx, "portion logged", "name", name, "weight", weight, "carbs", entry.Carbs)

	if s.catalog != nil {
		if added, err := s.catalog.Capture(ctx, name, carbsPer100g); err != nil {
			s.logger.WarnContext(ctx, "catalog capture failed", "name", name, "error", err)
		} else if added {
			s.logger.DebugContext(ctx, "food captured into catalog", "name", name)
		}
	}
	return entry, nil
}

// AddEntryFromText logs a portion from typed values. An empty density is
// filled in from the catalog.
func (s *SessionService) AddEntryFromText(ctx context.Context, name, carbsPer100g, weight string) (domain.SessionFoodEntry, error) {
	var (
		carbs float64
		err   error
	)
	if strings.TrimSpace(carbsPer100g) == "" {
		food, ok := s.lookup(ctx, name)
		if !ok {
			return domain.SessionFoodEntry{}, apperrors.NewValidationError(
				fmt.Sprintf("%q is not in the food table, give its carbs per 100 g", strings.TrimSpace(name)))
		}
		carbs = food.CarbsPer100g
	} else if carbs, err = parseField(carbsPer100g, "carbs per 100 g"); err != nil {
		return domain.SessionFoodEntry{}, err
	}

	grams, err := parseField(weight, "weight")
	if err != nil {
		return domain.SessionFoodEntry{}, err
	}
	return s.AddEntry(ctx, name, carbs, grams)
}

func (s *SessionService) lookup(ctx context.Context, name string) (domain.FoodDefinition, bool) {
	if s.catalog == nil {
		return domain.FoodDefinition{}, false
	}
	return s.catalog.Lookup(ctx, name)
}

// RemoveEntry deletes the portion at index; later portions move up.
func (s *SessionService) RemoveEntry(ctx context.Context, index int) error {
	entries := s.List(ctx)
	if err := validateIndex(index, len(entries), "portion"); err != nil {
		return err
	}
	removed := entries[index]
	entries = append(entries[:index], entries[index+1:]...)
	if err := s.save(ctx, entries); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "portion removed", "name", removed.Name, "index", index)
	return nil
}

// Clear empties the session.
func (s *SessionService) Clear(ctx context.Context) error {
	return s.save(ctx, []domain.SessionFoodEntry{})
}
