package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/carb-calculator/internal/bot/handlers"
	"github.com/vladimiradmaev/carb-calculator/internal/bot/state"
)

// Bot polls Telegram and hands every update to the update handler.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler *handlers.UpdateHandler
	logger  *slog.Logger
}

func NewBot(token string, ownerID int64, deps handlers.Dependencies, stateManager state.StateManager, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger = logger.With("component", "bot")
	logger.Info("bot authorized", "account", api.Self.UserName, "owner_id", ownerID)
	return &Bot{
		api:     api,
		handler: handlers.NewUpdateHandler(api, ownerID, deps, stateManager, logger),
		logger:  logger,
	}, nil
}

// Start blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot is shutting down")
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message != nil && update.Message.From != nil {
				b.logger.Debug("received message", "user_id", update.Message.From.ID, "text", update.Message.Text)
			}
			if err := b.handler.Handle(ctx, update); err != nil {
				b.logger.Error("error handling update", "update_id", update.UpdateID, "error", err)
			}
		}
	}
}
