package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/carb-calculator/internal/bot"
	"github.com/vladimiradmaev/carb-calculator/internal/bot/handlers"
	"github.com/vladimiradmaev/carb-calculator/internal/bot/state"
	"github.com/vladimiradmaev/carb-calculator/internal/config"
	"github.com/vladimiradmaev/carb-calculator/internal/logger"
	"github.com/vladimiradmaev/carb-calculator/internal/services"
	"github.com/vladimiradmaev/carb-calculator/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}
	if err := cfg.ValidateBot(); err != nil {
		logger.Fatal("invalid bot config", "error", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatal("failed to init logger", "error", err)
	}
	defer logger.Close()
	log := logger.GetLogger()
	logger.Info("starting carb calculator bot", "storage", cfg.Storage.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, err := storage.Open(ctx, cfg, log)
	if err != nil {
		logger.Fatal("failed to open storage", "error", err)
	}
	defer gw.Close()

	meal := services.Wire(gw, log)

	aiService, err := services.NewAIService(ctx, cfg.GeminiAPIKey, cfg.OpenAIAPIKey, log)
	if err != nil {
		logger.Fatal("failed to init AI service", "error", err)
	}
	defer aiService.Close()

	deps := handlers.Dependencies{
		Settings: meal.Settings,
		Catalog:  meal.Catalog,
		Session:  meal.Session,
		History:  meal.History,
		Meal:     meal,
	}
	if aiService.Enabled() {
		deps.Estimator = aiService
	}

	var stateManager state.StateManager = state.NewManager()
	if cfg.Storage.Driver == config.DriverRedis {
		redisState, err := state.NewRedisManager(ctx, cfg.Redis, cfg.Storage.Namespace, log)
		if err != nil {
			logger.Fatal("failed to connect state store", "error", err)
		}
		defer redisState.Close()
		stateManager = redisState
	}

	telegramBot, err := bot.NewBot(cfg.TelegramToken, cfg.OwnerTelegramID, deps, stateManager, log)
	if err != nil {
		logger.Fatal("failed to create bot", "error", err)
	}

	logger.Info("bot is running, press Ctrl+C to stop")
	if err := telegramBot.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Error("bot stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("bot stopped")
}
