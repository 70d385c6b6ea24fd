package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/carb-calculator/internal/bot/keyboards"
	"github.com/vladimiradmaev/carb-calculator/internal/bot/menus"
	"github.com/vladimiradmaev/carb-calculator/internal/bot/state"
	"github.com/vladimiradmaev/carb-calculator/internal/domain"
	apperrors "github.com/vladimiradmaev/carb-calculator/internal/errors"
	"github.com/vladimiradmaev/carb-calculator/internal/utils"
)

// TextHandler handles text messages
type TextHandler struct {
	api          menus.Sender
	deps         Dependencies
	stateManager state.StateManager
	logger       *slog.Logger
}

// NewTextHandler creates a new text handler
func NewTextHandler(api menus.Sender, deps Dependencies, stateManager state.StateManager, logger *slog.Logger) *TextHandler {
	return &TextHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
		logger:       logger,
	}
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	switch h.stateManager.GetUserState(userID) {
	case state.WaitingForFoodName:
		return h.handleFoodName(ctx, chatID, userID, text)
	case state.WaitingForFoodCarbs:
		return h.handleFoodCarbs(chatID, userID, text)
	case state.WaitingForFoodWeight:
		return h.handleFoodWeight(ctx, chatID, userID, text)
	case state.WaitingForGlucose:
		return h.handleGlucose(ctx, chatID, userID, text)
	case state.WaitingForSettings:
		return h.handleSettings(ctx, chatID, userID, text)
	case state.WaitingForCatalogFood:
		return h.handleCatalogFood(ctx, chatID, userID, text)
	case state.WaitingForCatalogEdit:
		return h.handleCatalogEdit(ctx, chatID, userID, text)
	default:
		if strings.Contains(text, ";") {
			return h.handleQuickAdd(ctx, chatID, text)
		}
		return h.handleDefaultText(chatID)
	}
}

func (h *TextHandler) done(userID int64) {
	h.stateManager.SetUserState(userID, state.None)
	h.stateManager.ClearTempData(userID)
}

// handleFoodName continues with the weight for known foods, otherwise asks for carbs
func (h *TextHandler) handleFoodName(ctx context.Context, chatID, userID int64, name string) error {
	if name == "" {
		return menus.SendText(h.api, chatID, "Send the food name.")
	}
	if food, ok := h.deps.Catalog.Lookup(ctx, name); ok {
		return askWeight(h.api, h.stateManager, chatID, userID, food)
	}

	h.stateManager.SetTempData(userID, state.KeyFoodName, name)
	h.stateManager.SetUserState(userID, state.WaitingForFoodCarbs)
	return menus.SendPrompt(h.api, chatID,
		fmt.Sprintf("%s is new. How many grams of carbs per 100 g?", name),
		keyboards.CarbsPrompt(h.deps.Estimator != nil))
}

func (h *TextHandler) handleFoodCarbs(chatID, userID int64, text string) error {
	v, err := utils.ParseNumber(text)
	if err != nil || v < 0 {
		return menus.SendText(h.api, chatID, "Send carbs per 100 g as a number, for example: 28")
	}
	h.stateManager.SetTempData(userID, state.KeyFoodCarbs, text)
	h.stateManager.SetUserState(userID, state.WaitingForFoodWeight)

	name, _ := h.stateManager.GetTempData(userID, state.KeyFoodName)
	return menus.SendPrompt(h.api, chatID,
		fmt.Sprintf("How many grams of %s?", name),
		keyboards.CancelMenu(keyboards.SessionData))
}

func (h *TextHandler) handleFoodWeight(ctx context.Context, chatID, userID int64, text string) error {
	name, ok := h.stateManager.GetTempData(userID, state.KeyFoodName)
	carbs, _ := h.stateManager.GetTempData(userID, state.KeyFoodCarbs)
	if !ok {
		h.done(userID)
		return menus.SendText(h.api, chatID, "Start again with \"➕ Add food\".")
	}

	entry, err := h.deps.Session.AddEntryFromText(ctx, name, carbs, text)
	if err != nil {
		return reportError(ctx, h.api, h.logger, chatID, err)
	}
	h.done(userID)

	if err := menus.SendText(h.api, chatID,
		fmt.Sprintf("✅ Added %s: %sg carbs", entry.Name, domain.FormatCarbs(entry.Carbs))); err != nil {
		return err
	}
	return menus.SendSessionMenu(h.api, chatID, h.deps.Session.List(ctx), h.deps.Meal.Totals(ctx))
}

// handleGlucose commits the meal with the reading
func (h *TextHandler) handleGlucose(ctx context.Context, chatID, userID int64, text string) error {
	record, ok, err := h.deps.Meal.SubmitGlucose(ctx, text)
	if err != nil && ok {
		// The record is in history; only the reset failed.
		apperrors.NewHandler(h.logger).Handle(ctx, err)
		h.done(userID)
		if err := menus.SendText(h.api, chatID, "✅ Meal saved\n"+menus.RecordText(record)); err != nil {
			return err
		}
		return menus.SendText(h.api, chatID, "⚠️ "+apperrors.UserMessage(err))
	}
	if err != nil {
		return reportError(ctx, h.api, h.logger, chatID, err)
	}
	h.done(userID)

	if !ok {
		if err := menus.SendText(h.api, chatID, "Nothing to save: the current meal is empty."); err != nil {
			return err
		}
		return menus.SendMainMenu(h.api, chatID)
	}
	if err := menus.SendText(h.api, chatID, "✅ Meal saved\n"+menus.RecordText(record)); err != nil {
		return err
	}
	return menus.SendMainMenu(h.api, chatID)
}

func (h *TextHandler) handleSettings(ctx context.Context, chatID, userID int64, text string) error {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return menus.SendText(h.api, chatID, "Send three numbers: carb ratio, sensitivity and target, for example: 12 40 110")
	}

	cfg, err := h.deps.Settings.SetFromText(ctx, fields[0], fields[1], fields[2])
	if err != nil {
		return reportError(ctx, h.api, h.logger, chatID, err)
	}
	h.done(userID)
	return menus.SendSettingsMenu(h.api, chatID, cfg)
}

func (h *TextHandler) handleCatalogFood(ctx context.Context, chatID, userID int64, text string) error {
	name, carbs, ok := utils.SplitNameAndNumber(text)
	if !ok {
		return menus.SendText(h.api, chatID, "Send the name followed by carbs per 100 g, for example: Brown rice 23")
	}
	if _, err := h.deps.Catalog.UpsertFromText(ctx, name, carbs); err != nil {
		return reportError(ctx, h.api, h.logger, chatID, err)
	}
	h.done(userID)
	return menus.SendCatalogMenu(h.api, chatID, h.deps.Catalog.List(ctx))
}

func (h *TextHandler) handleCatalogEdit(ctx context.Context, chatID, userID int64, text string) error {
	raw, _ := h.stateManager.GetTempData(userID, state.KeyCatalogIndex)
	index, err := strconv.Atoi(raw)
	if err != nil {
		h.done(userID)
		return menus.SendCatalogMenu(h.api, chatID, h.deps.Catalog.List(ctx))
	}

	name, carbsText, ok := utils.SplitNameAndNumber(text)
	if !ok {
		return menus.SendText(h.api, chatID, "Send the name followed by carbs per 100 g, for example: Brown rice 23")
	}
	carbs, err := utils.ParseNumber(carbsText)
	if err != nil {
		return menus.SendText(h.api, chatID, "Carbs per 100 g must be a number, for example: Brown rice 23")
	}

	if _, err := h.deps.Catalog.Edit(ctx, index, name, carbs); err != nil {
		return reportError(ctx, h.api, h.logger, chatID, err)
	}
	h.done(userID)
	return menus.SendCatalogMenu(h.api, chatID, h.deps.Catalog.List(ctx))
}

// handleQuickAdd logs "name; carbs; weight" or, for known foods, "name; weight".
func (h *TextHandler) handleQuickAdd(ctx context.Context, chatID int64, text string) error {
	parts := strings.Split(text, ";")
	var name, carbs, weight string
	switch len(parts) {
	case 2:
		name, weight = parts[0], parts[1]
	case 3:
		name, carbs, weight = parts[0], parts[1], parts[2]
	default:
		return menus.SendText(h.api, chatID, "Send \"name; carbs per 100 g; weight\" or \"name; weight\" for foods in your table.")
	}

	entry, err := h.deps.Session.AddEntryFromText(ctx, name, carbs, weight)
	if err != nil {
		return reportError(ctx, h.api, h.logger, chatID, err)
	}
	if err := menus.SendText(h.api, chatID,
		fmt.Sprintf("✅ Added %s: %sg carbs", entry.Name, domain.FormatCarbs(entry.Carbs))); err != nil {
		return err
	}
	return menus.SendSessionMenu(h.api, chatID, h.deps.Session.List(ctx), h.deps.Meal.Totals(ctx))
}

// handleDefaultText handles text outside of any dialog
func (h *TextHandler) handleDefaultText(chatID int64) error {
	return menus.SendPrompt(h.api, chatID,
		"Use the buttons below or /help to see what I can do.",
		keyboards.MainMenu())
}
