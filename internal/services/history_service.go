package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vladimiradmaev/carb-calculator/internal/domain"
	"github.com/vladimiradmaev/carb-calculator/internal/storage"
)

// HistoryService keeps the last domain.MaxHistory committed meals, newest first.
type HistoryService struct {
	gw     *storage.Gateway
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func NewHistoryService(gw *storage.Gateway, logger *slog.Logger) *HistoryService {
	return &HistoryService{
		gw:     gw,
		logger: logger.With("component", "history"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *HistoryService) List(ctx context.Context) []domain.MealRecord {
	return storage.LoadList[domain.MealRecord](ctx, s.gw, domain.KeyMealHistory)
}

func (s *HistoryService) save(ctx context.Context, records []domain.MealRecord) error {
	return storage.Save(ctx, s.gw, domain.KeyMealHistory, records)
}

// Commit records a meal at the front of the history. An empty snapshot
// records nothing and returns false.
func (s *HistoryService) Commit(ctx context.Context, entries []domain.SessionFoodEntry, dose domain.Dose, glucose domain.Glucose) (domain.MealRecord, bool, error) {
	if len(entries) == 0 {
		return domain.MealRecord{}, false, nil
	}

	record := domain.MealRecord{
		ID:              s.newID(),
		Date:            s.now(),
		Foods:           append([]domain.SessionFoodEntry(nil), entries...),
		TotalCarbs:      dose.TotalCarbs,
		MealBolus:       dose.MealBolus,
		CorrectionBolus: dose.CorrectionBolus,
		TotalInsulin:    dose.TotalInsulin,
		Glucose:         glucose,
	}

	records := append([]domain.MealRecord{record}, s.List(ctx)...)
	if len(records) > domain.MaxHistory {
		records = records[:domain.MaxHistory]
	}
	if err := s.save(ctx, records); err != nil {
		return domain.MealRecord{}, false, err
	}

	s.logger.InfoContext(ctx, "meal committed",
		"id", record.ID, "foods", len(record.Foods), "total_insulin", record.TotalInsulin)
	return record, true, nil
}

// Remove deletes the record at index.
func (s *HistoryService) Remove(ctx context.Context, index int) error {
	records := s.List(ctx)
	if err := validateIndex(index, len(records), "meal"); err != nil {
		return err
	}
	removed := records[index]
	records = append(records[:index], records[index+1:]...)
	if err := s.save(ctx, records); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "meal removed", "id", removed.ID)
	return nil
}

// ClearAll empties the history.
func (s *HistoryService) ClearAll(ctx context.Context) error {
	if err := s.save(ctx, []domain.MealRecord{}); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "history cleared")
	return nil
}
