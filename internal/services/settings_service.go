package services

import (
	"context"
	"log/slog"

	"github.com/vladimiradmaev/carb-calculator/internal/domain"
	apperrors "github.com/vladimiradmaev/carb-calculator/internal/errors"
	"github.com/vladimiradmaev/carb-calculator/internal/storage"
)

// SettingsService stores the ratio, sensitivity and target used for dosing.
type SettingsService struct {
	gw     *storage.Gateway
	logger *slog.Logger
}

func NewSettingsService(gw *storage.Gateway, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		gw:     gw,
		logger: logger.With("component", "settings"),
	}
}

// Get returns the saved parameters, or the defaults if none were saved.
func (s *SettingsService) Get(ctx context.Context) domain.UserConfig {
	return storage.Load(ctx, s.gw, domain.KeyUserConfig, domain.DefaultUserConfig())
}

// Set replaces the parameters wholesale. Every value must be positive.
func (s *SettingsService) Set(ctx context.Context, candidate domain.UserConfig) (domain.UserConfig, error) {
	if !candidate.Valid() {
		return s.Get(ctx), apperrors.NewValidationError("ratio, sensitivity and target must all be greater than 0").
			WithContext("ratio", candidate.Ratio).
			WithContext("sensitivity", candidate.Sensitivity).
			WithContext("target", candidate.Target)
	}
	if err := storage.Save(ctx, s.gw, domain.KeyUserConfig, candidate); err != nil {
		return s.Get(ctx), err
	}
	s.logger.InfoContext(ctx, "settings saved",
		"ratio", candidate.Ratio, "sensitivity", candidate.Sensitivity, "target", candidate.Target)
	return candidate, nil
}

// SetFromText parses the three values as typed by the user and saves them.
func (s *SettingsService) SetFromText(ctx context.Context, ratio, sensitivity, target string) (domain.UserConfig, error) {
	var (
		candidate domain.UserConfig
		err       error
	)
	if candidate.Ratio, err = parseField(ratio, "ratio"); err != nil {
		return s.Get(ctx), err
	}
	if candidate.Sensitivity, err = parseField(sensitivity, "sensitivity"); err != nil {
		return s.Get(ctx), err
	}
	if candidate.Target, err = parseField(target, "target"); err != nil {
		return s.Get(ctx), err
	}
	return s.Set(ctx, candidate)
}
