package keyboards

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/carb-calculator/internal/domain"
)

// Callback data. Actions that target a list item carry ":<index>".
const (
	MainMenuData      = "main_menu"
	SessionData       = "session"
	AddFoodData       = "add_food"
	PickFoodData      = "pick_food"
	EstimateData      = "estimate"
	RemoveEntryData   = "remove_entry"
	ClearSessionData  = "clear_session"
	GlucoseData       = "glucose"
	ShareData         = "share"
	CatalogData       = "catalog"
	CatalogAddData    = "catalog_add"
	CatalogEditData   = "catalog_edit"
	CatalogDeleteData = "catalog_delete"
	ConfirmFoodData   = "confirm_food_delete"
	HistoryData       = "history"
	HistoryDeleteData = "history_delete"
	ConfirmRecordData = "confirm_record_delete"
	HistoryClearData  = "history_clear"
	ConfirmClearData  = "confirm_history_clear"
	SettingsData      = "settings"
	SettingsEditData  = "settings_edit"
)

const (
	buttonsPerRow      = 4
	maxPickFoodButtons = 12
)

// Data builds callback data for an item action.
func Data(action string, index int) string {
	return fmt.Sprintf("%s:%d", action, index)
}

// ParseData splits callback data into the action and optional item index.
func ParseData(data string) (action string, index int, hasIndex bool) {
	action, rest, found := strings.Cut(data, ":")
	if !found {
		return data, 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return action, 0, false
	}
	return action, n, true
}

func backRow(label, data string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data))
}

// indexRows lays out one numbered button per item.
func indexRows(prefix, action string, n int) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i := 0; i < n; i++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %d", prefix, i+1), Data(action, i)))
		if len(row) == buttonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add food", AddFoodData),
			tgbotapi.NewInlineKeyboardButtonData("🍽️ Current meal", SessionData),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Food table", CatalogData),
			tgbotapi.NewInlineKeyboardButtonData("🕒 History", HistoryData),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Settings", SettingsData),
		),
	)
}

// SessionMenu creates the current meal keyboard
func SessionMenu(entries int) tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add food", AddFoodData),
		),
	)

	if entries > 0 {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, indexRows("❌", RemoveEntryData, entries)...)
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🩸 Enter glucose", GlucoseData),
				tgbotapi.NewInlineKeyboardButtonData("📤 Share", ShareData),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🗑️ Clear meal", ClearSessionData),
			),
		)
	}

	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, backRow("◀️ Main menu", MainMenuData))
	return keyboard
}

// PickFoodMenu offers known foods as shortcuts while a name is awaited.
func PickFoodMenu(foods []domain.FoodDefinition) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, f := range foods {
		if i == maxPickFoodButtons {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(f.Name, Data(PickFoodData, i)),
		))
	}
	rows = append(rows, backRow("◀️ Cancel", SessionData))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// CarbsPrompt is shown while waiting for a carb density.
func CarbsPrompt(canEstimate bool) tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup()
	if canEstimate {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🤖 Suggest a value", EstimateData),
			),
		)
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, backRow("◀️ Cancel", SessionData))
	return keyboard
}

// CancelMenu has a single button back to the given screen.
func CancelMenu(data string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(backRow("◀️ Cancel", data))
}

// CatalogMenu creates the food table keyboard
func CatalogMenu(foods int) tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add", CatalogAddData),
		),
	)
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, indexRows("✏️", CatalogEditData, foods)...)
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, indexRows("🗑️", CatalogDeleteData, foods)...)
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, backRow("◀️ Main menu", MainMenuData))
	return keyboard
}

// HistoryMenu creates the history keyboard
func HistoryMenu(records int) tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(indexRows("🗑️", HistoryDeleteData, records)...)
	if records > 0 {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🧹 Clear history", HistoryClearData),
			),
		)
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, backRow("◀️ Main menu", MainMenuData))
	return keyboard
}

// ConfirmMenu asks before a destructive action.
func ConfirmMenu(confirmData, cancelData string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, delete", confirmData),
			tgbotapi.NewInlineKeyboardButtonData("◀️ No", cancelData),
		),
	)
}

// SettingsMenu creates the settings menu keyboard
func SettingsMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Change", SettingsEditData),
		),
		backRow("◀️ Main menu", MainMenuData),
	)
}
