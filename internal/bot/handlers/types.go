package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/vladimiradmaev/carb-calculator/internal/bot/menus"
	"github.com/vladimiradmaev/carb-calculator/internal/domain"
	apperrors "github.com/vladimiradmaev/carb-calculator/internal/errors"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	Settings domain.SettingsService
	Catalog  domain.FoodCatalogService
	Session  domain.SessionService
	History  domain.HistoryService
	Meal     domain.MealService
	// Estimator is optional; nil hides the suggestion button.
	Estimator domain.CarbEstimator
}

const estimateTimeout = 30 * time.Second

// reportError tells the user what went wrong. Rejected input is echoed back;
// anything else gets a generic text.
func reportError(ctx context.Context, api menus.Sender, logger *slog.Logger, chatID int64, err error) error {
	apperrors.NewHandler(logger).Handle(ctx, err)
	if apperrors.IsValidation(err) {
		return menus.SendText(api, chatID, "⚠️ "+apperrors.UserMessage(err))
	}
	return menus.SendText(api, chatID, "Something went wrong, please try again.")
}
