package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/carb-calculator/internal/bot/keyboards"
	"github.com/vladimiradmaev/carb-calculator/internal/bot/menus"
	"github.com/vladimiradmaev/carb-calculator/internal/bot/state"
	"github.com/vladimiradmaev/carb-calculator/internal/domain"
	"github.com/vladimiradmaev/carb-calculator/internal/services"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	api          menus.Sender
	deps         Dependencies
	stateManager state.StateManager
	logger       *slog.Logger
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api menus.Sender, deps Dependencies, stateManager state.StateManager, logger *slog.Logger) *CallbackHandler {
	return &CallbackHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
		logger:       logger,
	}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	// Answer the callback query first
	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := h.api.Request(callback); err != nil {
		h.logger.WarnContext(ctx, "failed to answer callback query", "error", err)
	}
	if query.Message == nil {
		return nil
	}

	chatID := query.Message.Chat.ID
	userID := query.From.ID
	action, index, hasIndex := keyboards.ParseData(query.Data)

	switch action {
	case keyboards.MainMenuData:
		h.reset(userID)
		return menus.SendMainMenu(h.api, chatID)
	case keyboards.SessionData:
		h.reset(userID)
		return h.sendSession(ctx, chatID)
	case keyboards.AddFoodData:
		return h.handleAddFood(ctx, chatID, userID)
	case keyboards.PickFoodData:
		if !hasIndex {
			break
		}
		return h.handlePickFood(ctx, chatID, userID, index)
	case keyboards.EstimateData:
		return h.handleEstimate(ctx, chatID, userID)
	case keyboards.RemoveEntryData:
		if !hasIndex {
			break
		}
		return h.handleRemoveEntry(ctx, chatID, index)
	case keyboards.ClearSessionData:
		if err := h.deps.Session.Clear(ctx); err != nil {
			return reportError(ctx, h.api, h.logger, chatID, err)
		}
		return h.sendSession(ctx, chatID)
	case keyboards.GlucoseData:
		h.stateManager.SetUserState(userID, state.WaitingForGlucose)
		return menus.SendPrompt(h.api, chatID,
			fmt.Sprintf("🩸 Send your glucose reading in mg/dL (%.0f-%.0f):", domain.MinGlucose, domain.MaxGlucose),
			keyboards.CancelMenu(keyboards.SessionData))
	case keyboards.ShareData:
		return menus.SendText(h.api, chatID, h.deps.Meal.ShareText(ctx))
	case keyboards.CatalogData:
		h.reset(userID)
		return menus.SendCatalogMenu(h.api, chatID, h.deps.Catalog.List(ctx))
	case keyboards.CatalogAddData:
		h.stateManager.SetUserState(userID, state.WaitingForCatalogFood)
		return menus.SendPrompt(h.api, chatID,
			"Send the food name followed by its carbs per 100 g, for example: Brown rice 23",
			keyboards.CancelMenu(keyboards.CatalogData))
	case keyboards.CatalogEditData:
		if !hasIndex {
			break
		}
		return h.handleCatalogEdit(ctx, chatID, userID, index)
	case keyboards.CatalogDeleteData:
		if !hasIndex {
			break
		}
		return h.handleCatalogDelete(ctx, chatID, userID, index)
	case keyboards.ConfirmFoodData:
		return h.handleConfirmFoodDelete(ctx, chatID, userID)
	case keyboards.HistoryData:
		h.reset(userID)
		return menus.SendHistoryMenu(h.api, chatID, h.deps.History.List(ctx))
	case keyboards.HistoryDeleteData:
		if !hasIndex {
			break
		}
		return h.handleHistoryDelete(ctx, chatID, userID, index)
	case keyboards.ConfirmRecordData:
		return h.handleConfirmRecordDelete(ctx, chatID, userID)
	case keyboards.HistoryClearData:
		n := len(h.deps.History.List(ctx))
		return menus.SendPrompt(h.api, chatID,
			fmt.Sprintf("Delete all %d saved meals? This cannot be undone.", n),
			keyboards.ConfirmMenu(keyboards.ConfirmClearData, keyboards.HistoryData))
	case keyboards.ConfirmClearData:
		if err := h.deps.History.ClearAll(ctx); err != nil {
			return reportError(ctx, h.api, h.logger, chatID, err)
		}
		return menus.SendHistoryMenu(h.api, chatID, nil)
	case keyboards.SettingsData:
		h.reset(userID)
		return menus.SendSettingsMenu(h.api, chatID, h.deps.Settings.Get(ctx))
	case keyboards.SettingsEditData:
		h.stateManager.SetUserState(userID, state.WaitingForSettings)
		return menus.SendPrompt(h.api, chatID,
			"Send carb ratio, sensitivity and target glucose separated by spaces, for example: 12 40 110",
			keyboards.CancelMenu(keyboards.SettingsData))
	}

	return h.handleUnknownCallback(ctx, chatID, query.Data)
}

func (h *CallbackHandler) reset(userID int64) {
	h.stateManager.SetUserState(userID, state.None)
	h.stateManager.ClearTempData(userID)
}

func (h *CallbackHandler) sendSession(ctx context.Context, chatID int64) error {
	return menus.SendSessionMenu(h.api, chatID, h.deps.Session.List(ctx), h.deps.Meal.Totals(ctx))
}

// handleAddFood starts the add-portion dialog
func (h *CallbackHandler) handleAddFood(ctx context.Context, chatID, userID int64) error {
	h.reset(userID)
	h.stateManager.SetUserState(userID, state.WaitingForFoodName)

	text := "Send the food name."
	foods := h.deps.Catalog.List(ctx)
	if len(foods) > 0 {
		text = "Send the food name or pick one from your food table:"
	}
	return menus.SendPrompt(h.api, chatID, text, keyboards.PickFoodMenu(foods))
}

// handlePickFood fills name and carbs from the food table
func (h *CallbackHandler) handlePickFood(ctx context.Context, chatID, userID int64, index int) error {
	foods := h.deps.Catalog.List(ctx)
	if index < 0 || index >= len(foods) {
		return menus.SendText(h.api, chatID, "That food is no longer in the table.")
	}
	return askWeight(h.api, h.stateManager, chatID, userID, foods[index])
}

// handleEstimate asks the AI for a carb density suggestion
func (h *CallbackHandler) handleEstimate(ctx context.Context, chatID, userID int64) error {
	name, ok := h.stateManager.GetTempData(userID, state.KeyFoodName)
	if !ok || h.stateManager.GetUserState(userID) != state.WaitingForFoodCarbs || h.deps.Estimator == nil {
		return menus.SendText(h.api, chatID, "Start with \"➕ Add food\" first.")
	}

	ctx, cancel := context.WithTimeout(ctx, estimateTimeout)
	defer cancel()

	v, err := h.deps.Estimator.EstimateCarbsPer100g(ctx, name)
	if err != nil {
		if errors.Is(err, services.ErrNoProvider) {
			return menus.SendText(h.api, chatID, "Suggestions are not configured. Send the value yourself.")
		}
		h.logger.WarnContext(ctx, "carb estimate failed", "food", name, "error", err)
		return menus.SendText(h.api, chatID, "Could not get a suggestion right now. Send the value yourself.")
	}

	return menus.SendPrompt(h.api, chatID,
		fmt.Sprintf("🤖 Suggested: about %s g of carbs per 100 g of %s.\nCheck the label if you can, then send this number or your own.",
			domain.FormatAmount(v), name),
		keyboards.CancelMenu(keyboards.SessionData))
}

func (h *CallbackHandler) handleRemoveEntry(ctx context.Context, chatID int64, index int) error {
	if err := h.deps.Session.RemoveEntry(ctx, index); err != nil {
		return reportError(ctx, h.api, h.logger, chatID, err)
	}
	return h.sendSession(ctx, chatID)
}

func (h *CallbackHandler) handleCatalogEdit(ctx context.Context, chatID, userID int64, index int) error {
	foods := h.deps.Catalog.List(ctx)
	if index < 0 || index >= len(foods) {
		return menus.SendText(h.api, chatID, "That food is no longer in the table.")
	}
	h.stateManager.SetUserState(userID, state.WaitingForCatalogEdit)
	h.stateManager.SetTempData(userID, state.KeyCatalogIndex, strconv.Itoa(index))

	f := foods[index]
	return menus.SendPrompt(h.api, chatID,
		fmt.Sprintf("Editing %s (%s g per 100 g).\nSend the new name followed by carbs per 100 g, for example: %s %s",
			f.Name, domain.FormatAmount(f.CarbsPer100g), f.Name, domain.FormatAmount(f.CarbsPer100g)),
		keyboards.CancelMenu(keyboards.CatalogData))
}

func (h *CallbackHandler) handleCatalogDelete(ctx context.Context, chatID, userID int64, index int) error {
	foods := h.deps.Catalog.List(ctx)
	if index < 0 || index >= len(foods) {
		return menus.SendText(h.api, chatID, "That food is no longer in the table.")
	}
	name := foods[index].Name
	h.stateManager.SetTempData(userID, state.KeyDeleteFood, name)
	return menus.SendPrompt(h.api, chatID,
		fmt.Sprintf("Delete %s from the food table?", name),
		keyboards.ConfirmMenu(keyboards.ConfirmFoodData, keyboards.CatalogData))
}

func (h *CallbackHandler) handleConfirmFoodDelete(ctx context.Context, chatID, userID int64) error {
	name, ok := h.stateManager.GetTempData(userID, state.KeyDeleteFood)
	if !ok {
		return menus.SendCatalogMenu(h.api, chatID, h.deps.Catalog.List(ctx))
	}
	h.reset(userID)
	if err := h.deps.Catalog.Remove(ctx, name); err != nil {
		return reportError(ctx, h.api, h.logger, chatID, err)
	}
	return menus.SendCatalogMenu(h.api, chatID, h.deps.Catalog.List(ctx))
}

func (h *CallbackHandler) handleHistoryDelete(ctx context.Context, chatID, userID int64, index int) error {
	records := h.deps.History.List(ctx)
	if index < 0 || index >= len(records) {
		return menus.SendText(h.api, chatID, "That meal is no longer in the history.")
	}
	h.stateManager.SetTempData(userID, state.KeyDeleteRecord, records[index].ID)
	return menus.SendPrompt(h.api, chatID,
		"Delete this meal?\n"+menus.RecordText(records[index]),
		keyboards.ConfirmMenu(keyboards.ConfirmRecordData, keyboards.HistoryData))
}

// handleConfirmRecordDelete removes the record chosen earlier. It is looked
// up by ID since positions shift when meals are added.
func (h *CallbackHandler) handleConfirmRecordDelete(ctx context.Context, chatID, userID int64) error {
	id, ok := h.stateManager.GetTempData(userID, state.KeyDeleteRecord)
	h.reset(userID)
	records := h.deps.History.List(ctx)
	if !ok {
		return menus.SendHistoryMenu(h.api, chatID, records)
	}

	for i, rec := range records {
		if rec.ID != id {
			continue
		}
		if err := h.deps.History.Remove(ctx, i); err != nil {
			return reportError(ctx, h.api, h.logger, chatID, err)
		}
		return menus.SendHistoryMenu(h.api, chatID, h.deps.History.List(ctx))
	}
	return menus.SendHistoryMenu(h.api, chatID, records)
}

// handleUnknownCallback handles unknown callbacks
func (h *CallbackHandler) handleUnknownCallback(ctx context.Context, chatID int64, data string) error {
	h.logger.WarnContext(ctx, "unknown callback", "data", data)
	return menus.SendText(h.api, chatID, "Unknown action. Use /start to open the menu.")
}

// askWeight moves the dialog to the weight step for a known food.
func askWeight(api menus.Sender, sm state.StateManager, chatID, userID int64, food domain.FoodDefinition) error {
	sm.SetTempData(userID, state.KeyFoodName, food.Name)
	sm.SetTempData(userID, state.KeyFoodCarbs, domain.FormatAmount(food.CarbsPer100g))
	sm.SetUserState(userID, state.WaitingForFoodWeight)
	return menus.SendPrompt(api, chatID,
		fmt.Sprintf("How many grams of %s? (%s g carbs per 100 g)", food.Name, domain.FormatAmount(food.CarbsPer100g)),
		keyboards.CancelMenu(keyboards.SessionData))
}
