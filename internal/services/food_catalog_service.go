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

// FoodCatalogService manages the list of known foods. Names are unique
// ignoring case; the first spelling used is the one kept.
type FoodCatalogService struct {
	gw     *storage.Gateway
	logger *slog.Logger
}

func NewFoodCatalogService(gw *storage.Gateway, logger *slog.Logger) *FoodCatalogService {
	return &FoodCatalogService{
		gw:     gw,
		logger: logger.With("component", "food_catalog"),
	}
}

func (s *FoodCatalogService) List(ctx context.Context) []domain.FoodDefinition {
	return storage.LoadList[domain.FoodDefinition](ctx, s.gw, domain.KeyFoodCatalog)
}

func (s *FoodCatalogService) save(ctx context.Context, foods []domain.FoodDefinition) error {
	return storage.Save(ctx, s.gw, domain.KeyFoodCatalog, foods)
}

func indexOfFood(foods []domain.FoodDefinition, name string) int {
	for i, f := range foods {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

// Lookup finds a food by name, ignoring case.
func (s *FoodCatalogService) Lookup(ctx context.Context, name string) (domain.FoodDefinition, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.FoodDefinition{}, false
	}
	foods := s.List(ctx)
	if i := indexOfFood(foods, name); i >= 0 {
		return foods[i], true
	}
	return domain.FoodDefinition{}, false
}

// Upsert updates the density of a known food in place or appends a new one.
func (s *FoodCatalogService) Upsert(ctx context.Context, name string, carbsPer100g float64) (domain.FoodDefinition, error) {
	name, err := validateName(name)
	if err != nil {
		return domain.FoodDefinition{}, err
	}
	if err := validateCarbs(carbsPer100g); err != nil {
		return domain.FoodDefinition{}, err
	}

	foods := s.List(ctx)
	i := indexOfFood(foods, name)
	if i >= 0 {
		foods[i].CarbsPer100g = carbsPer100g
	} else {
		foods = append(foods, domain.FoodDefinition{Name: name, CarbsPer100g: carbsPer100g})
		i = len(foods) - 1
	}
	if err := s.save(ctx, foods); err != nil {
		return domain.FoodDefinition{}, err
	}

	s.logger.InfoContext(ctx, "food saved", "name", foods[i].Name, "carbs_per_100g", carbsPer100g)
	return foods[i], nil
}

// UpsertFromText is Upsert with the density as typed by the user.
func (s *FoodCatalogService) UpsertFromText(ctx context.Context, name, carbsPer100g string) (domain.FoodDefinition, error) {
	carbs, err := parseField(carbsPer100g, "carbs per 100 g")
	if err != nil {
		return domain.FoodDefinition{}, err
	}
	return s.Upsert(ctx, name, carbs)
}

// Capture adds a food seen in a session if the catalog does not know it
// yet. Known foods keep their stored density.
func (s *FoodCatalogService) Capture(ctx context.Context, name string, carbsPer100g float64) (bool, error) {
	if _, ok := s.Lookup(ctx, name); ok {
		return false, nil
	}
	if _, err := s.Upsert(ctx, name, carbsPer100g); err != nil {
		return false, err
	}
	return true, nil
}

// Edit replaces the food at index. Renaming is allowed as long as the new
// name does not belong to another entry.
func (s *FoodCatalogService) Edit(ctx context.Context, index int, name string, carbsPer100g float64) (domain.FoodDefinition, error) {
	name, err := validateName(name)
	if err != nil {
		return domain.FoodDefinition{}, err
	}
	if err := validateCarbs(carbsPer100g); err != nil {
		return domain.FoodDefinition{}, err
	}

	foods := s.List(ctx)
	if err := validateIndex(index, len(foods), "food"); err != nil {
		return domain.FoodDefinition{}, err
	}
	for j, f := range foods {
		if j != index && strings.EqualFold(f.Name, name) {
			return domain.FoodDefinition{}, apperrors.NewValidationError(fmt.Sprintf("a food named %q already exists", f.Name))
		}
	}

	foods[index] = domain.FoodDefinition{Name: name, CarbsPer100g: carbsPer100g}
	if err := s.save(ctx, foods); err != nil {
		return domain.FoodDefinition{}, err
	}
	return foods[index], nil
}

// Remove deletes every entry named exactly name. Unknown names are ignored.
func (s *FoodCatalogService) Remove(ctx context.Context, name string) error {
	foods := s.List(ctx)
	kept := foods[:0]
	for _, f := range foods {
		if f.Name != name {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(foods) {
		return nil
	}
	if err := s.save(ctx, kept); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "food removed", "name", name)
	return nil
}
