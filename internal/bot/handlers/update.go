package handlers

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/carb-calculator/internal/bot/menus"
	"github.com/vladimiradmaev/carb-calculator/internal/bot/state"
	apperrors "github.com/vladimiradmaev/carb-calculator/internal/errors"
)

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	api             menus.Sender
	ownerID         int64
	logger          *slog.Logger
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
}

// NewUpdateHandler creates a new update handler. An ownerID of 0 lets
// anyone use the bot.
func NewUpdateHandler(
	api menus.Sender,
	ownerID int64,
	deps Dependencies,
	stateManager state.StateManager,
	logger *slog.Logger,
) *UpdateHandler {
	logger = logger.With("component", "bot")
	return &UpdateHandler{
		api:             api,
		ownerID:         ownerID,
		logger:          logger,
		callbackHandler: NewCallbackHandler(api, deps, stateManager, logger),
		commandHandler:  NewCommandHandler(api, deps, stateManager, logger),
		textHandler:     NewTextHandler(api, deps, stateManager, logger),
	}
}

// Handle processes a telegram update
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil && update.CallbackQuery == nil {
		return nil
	}

	var (
		userID int64
		chatID int64
	)
	if update.Message != nil {
		if update.Message.From == nil {
			return nil
		}
		userID = update.Message.From.ID
		chatID = update.Message.Chat.ID
	} else {
		userID = update.CallbackQuery.From.ID
		if update.CallbackQuery.Message != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
	}

	if h.ownerID != 0 && userID != h.ownerID {
		apperrors.NewHandler(h.logger).Handle(ctx, apperrors.NewUnauthorizedError(userID))
		if update.Message != nil {
			return menus.SendText(h.api, chatID, "This is a private bot.")
		}
		return nil
	}

	if update.CallbackQuery != nil {
		return h.callbackHandler.Handle(ctx, update.CallbackQuery)
	}

	if update.Message.IsCommand() {
		return h.commandHandler.Handle(ctx, update.Message)
	}

	if update.Message.Text != "" {
		return h.textHandler.Handle(ctx, update.Message)
	}

	return nil
}
