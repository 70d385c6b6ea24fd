package menus

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/carb-calculator/internal/bot/keyboards"
	"github.com/vladimiradmaev/carb-calculator/internal/domain"
)

// Sender is the part of tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

const historyTimeLayout = "02 Jan 15:04"

func send(api Sender, chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := api.Send(msg)
	return err
}

// SendText sends a plain message without a keyboard.
func SendText(api Sender, chatID int64, text string) error {
	_, err := api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api Sender, chatID int64) error {
	text := `🍬 Carb Calculator

Log what you eat, get the insulin dose for the meal, then send your glucose reading to save it to history.

⚠️ The numbers follow your own settings. Check them with your doctor.

Choose an action:`
	return send(api, chatID, text, keyboards.MainMenu())
}

// SessionText renders the current meal with its dose.
func SessionText(entries []domain.SessionFoodEntry, dose domain.Dose) string {
	if len(entries) == 0 {
		return "The current meal is empty. Add a food to start."
	}
	var b strings.Builder
	b.WriteString("🍽️ Current meal\n\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s: %sg × %sg/100g = %sg carbs\n",
			i+1, e.Name, domain.FormatAmount(e.Weight), domain.FormatAmount(e.CarbsPer100g), domain.FormatCarbs(e.Carbs))
	}
	fmt.Fprintf(&b, "\nCarbs: %sg\n", domain.FormatCarbs(dose.TotalCarbs))
	fmt.Fprintf(&b, "Meal bolus: %su", domain.FormatUnits(dose.MealBolus))
	return b.String()
}

// SendSessionMenu sends the current meal
func SendSessionMenu(api Sender, chatID int64, entries []domain.SessionFoodEntry, dose domain.Dose) error {
	return send(api, chatID, SessionText(entries, dose), keyboards.SessionMenu(len(entries)))
}

// RecordText renders a committed meal.
func RecordText(rec domain.MealRecord) string {
	return fmt.Sprintf("%s · %sg carbs · glucose %s\nMeal %su + correction %su = %su",
		rec.Date.Local().Format(historyTimeLayout),
		domain.FormatCarbs(rec.TotalCarbs),
		rec.Glucose,
		domain.FormatUnits(rec.MealBolus),
		domain.FormatUnits(rec.CorrectionBolus),
		domain.FormatUnits(rec.TotalInsulin))
}

// HistoryText renders the history list, newest first.
func HistoryText(records []domain.MealRecord) string {
	if len(records) == 0 {
		return "No meals saved yet."
	}
	var b strings.Builder
	b.WriteString("🕒 History\n")
	for i, rec := range records {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, RecordText(rec))
		names := make([]string, 0, len(rec.Foods))
		for _, f := range rec.Foods {
			names = append(names, fmt.Sprintf("%s %sg", f.Name, domain.FormatAmount(f.Weight)))
		}
		b.WriteString("   " + strings.Join(names, ", ") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// SendHistoryMenu sends the history list
func SendHistoryMenu(api Sender, chatID int64, records []domain.MealRecord) error {
	return send(api, chatID, HistoryText(records), keyboards.HistoryMenu(len(records)))
}

// CatalogText renders the food table.
func CatalogText(foods []domain.FoodDefinition) string {
	if len(foods) == 0 {
		return "The food table is empty. Foods you log are added automatically."
	}
	var b strings.Builder
	b.WriteString("📚 Food table (carbs per 100 g)\n\n")
	for i, f := range foods {
		fmt.Fprintf(&b, "%d. %s: %sg\n", i+1, f.Name, domain.FormatAmount(f.CarbsPer100g))
	}
	return strings.TrimRight(b.String(), "\n")
}

// SendCatalogMenu sends the food table
func SendCatalogMenu(api Sender, chatID int64, foods []domain.FoodDefinition) error {
	return send(api, chatID, CatalogText(foods), keyboards.CatalogMenu(len(foods)))
}

// SettingsText renders the dosing parameters.
func SettingsText(cfg domain.UserConfig) string {
	return fmt.Sprintf(`⚙️ Settings

Carb ratio: %s g per unit
Sensitivity: %s mg/dL per unit
Target glucose: %s mg/dL`,
		domain.FormatAmount(cfg.Ratio), domain.FormatAmount(cfg.Sensitivity), domain.FormatAmount(cfg.Target))
}

// SendSettingsMenu sends the settings menu to a chat
func SendSettingsMenu(api Sender, chatID int64, cfg domain.UserConfig) error {
	return send(api, chatID, SettingsText(cfg), keyboards.SettingsMenu())
}

// SendPrompt asks for input and offers a way back.
func SendPrompt(api Sender, chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	return send(api, chatID, text, keyboard)
}
