package handlers

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/carb-calculator/internal/bot/menus"
	"github.com/vladimiradmaev/carb-calculator/internal/bot/state"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	api          menus.Sender
	deps         Dependencies
	stateManager state.StateManager
	logger       *slog.Logger
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api menus.Sender, deps Dependencies, stateManager state.StateManager, logger *slog.Logger) *CommandHandler {
	return &CommandHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
		logger:       logger,
	}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	h.logger.InfoContext(ctx, "handling command", "command", message.Command(), "user_id", message.From.ID)

	chatID := message.Chat.ID
	userID := message.From.ID

	// any command abandons a half-finished dialog
	h.stateManager.SetUserState(userID, state.None)
	h.stateManager.ClearTempData(userID)

	switch message.Command() {
	case "start":
		return menus.SendMainMenu(h.api, chatID)
	case "meal":
		return menus.SendSessionMenu(h.api, chatID, h.deps.Session.List(ctx), h.deps.Meal.Totals(ctx))
	case "foods":
		return menus.SendCatalogMenu(h.api, chatID, h.deps.Catalog.List(ctx))
	case "history":
		return menus.SendHistoryMenu(h.api, chatID, h.deps.History.List(ctx))
	case "settings":
		return menus.SendSettingsMenu(h.api, chatID, h.deps.Settings.Get(ctx))
	case "share":
		return menus.SendText(h.api, chatID, h.deps.Meal.ShareText(ctx))
	case "help":
		return h.handleHelp(chatID)
	default:
		return h.handleUnknownCommand(chatID)
	}
}

// handleHelp handles the /help command
func (h *CommandHandler) handleHelp(chatID int64) error {
	text := `Available commands:
/start - Show the main menu
/meal - Show the current meal
/foods - Show the food table
/history - Show saved meals
/settings - Show dosing settings
/share - Get the current meal as text
/help - Show this message

How a meal works:
1. Press "➕ Add food" and send the food name
2. Send carbs per 100 g if the food is new, then the weight in grams
3. Press "🩸 Enter glucose" and send your reading (40-600 mg/dL)
The meal is saved to history and a new one starts.`
	return menus.SendText(h.api, chatID, text)
}

// handleUnknownCommand handles unknown commands
func (h *CommandHandler) handleUnknownCommand(chatID int64) error {
	return menus.SendText(h.api, chatID, "Unknown command. Use /help to see the available commands.")
}
