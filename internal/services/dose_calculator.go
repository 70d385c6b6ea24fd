package services

import (
	"github.com/vladimiradmaev/carb-calculator/internal/domain"
)

// CalculateDose derives the dose for the given portions. The correction is
// zero without a reading and negative when the reading is below target.
// Nothing is rounded here.
func CalculateDose(entries []domain.SessionFoodEntry, cfg domain.UserConfig, glucose domain.Glucose) domain.Dose {
	var total float64
	for _, e := range entries {
		total += e.Carbs
	}

	meal := total / cfg.Ratio

	var correction float64
	if glucose.Valid {
		correction = (glucose.Value - cfg.Target) / cfg.Sensitivity
	}

	return domain.Dose{
		TotalCarbs:      total,
		MealBolus:       meal,
		CorrectionBolus: correction,
		TotalInsulin:    meal + correction,
	}
}
