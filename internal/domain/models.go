package domain

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Storage keys, one JSON document each.
const (
	KeyUserConfig    = "user-config"
	KeyFoodCatalog   = "food-catalog"
	KeySessionLedger = "session-ledger"
	KeyMealHistory   = "meal-history"
)

// MaxHistory is how many committed meals are kept.
const MaxHistory = 20

// Glucose intake bounds in mg/dL, inclusive.
const (
	MinGlucose = 40.0
	MaxGlucose = 600.0
)

// UserConfig holds the dosing parameters.
type UserConfig struct {
	Ratio       float64 `json:"ratio"`       // grams of carbs per unit
	Sensitivity float64 `json:"sensitivity"` // mg/dL drop per unit
	Target      float64 `json:"target"`      // mg/dL
}

// DefaultUserConfig is used until the user saves their own parameters.
func DefaultUserConfig() UserConfig {
	return UserConfig{Ratio: 12, Sensitivity: 40, Target: 110}
}

// Valid reports whether every parameter is a finite positive number.
func (c UserConfig) Valid() bool {
	return positive(c.Ratio) && positive(c.Sensitivity) && positive(c.Target)
}

// FoodDefinition is a reusable catalog entry.
type FoodDefinition struct {
	Name         string  `json:"name"`
	CarbsPer100g float64 `json:"carbsPer100g"`
}

// Valid reports whether a stored entry is usable.
func (f FoodDefinition) Valid() bool {
	return strings.TrimSpace(f.Name) != "" && nonNegative(f.CarbsPer100g)
}

// SessionFoodEntry is one logged portion. Carbs is fixed at creation.
type SessionFoodEntry struct {
	Name         string  `json:"name"`
	CarbsPer100g float64 `json:"carbsPer100g"`
	Weight       float64 `json:"weight"`
	Carbs        float64 `json:"carbs"`
}

// NewSessionFoodEntry scales the per-100g density to the portion weight.
func NewSessionFoodEntry(name string, carbsPer100g, weight float64) SessionFoodEntry {
	return SessionFoodEntry{
		Name:         name,
		CarbsPer100g: carbsPer100g,
		Weight:       weight,
		Carbs:        carbsPer100g * weight / 100,
	}
}

// Valid reports whether a stored portion is usable.
func (e SessionFoodEntry) Valid() bool {
	return strings.TrimSpace(e.Name) != "" && nonNegative(e.CarbsPer100g) && positive(e.Weight) && nonNegative(e.Carbs)
}

// Dose is the derived result of a calculation.
type Dose struct {
	TotalCarbs      float64 `json:"totalCarbs"`
	MealBolus       float64 `json:"mealBolus"`
	CorrectionBolus float64 `json:"correctionBolus"`
	TotalInsulin    float64 `json:"totalInsulin"`
}

// MealRecord is a committed meal. Foods is an owned copy of the session.
type MealRecord struct {
	ID              string             `json:"id"`
	Date            time.Time          `json:"date"`
	Foods           []SessionFoodEntry `json:"foods"`
	TotalCarbs      float64            `json:"totalCarbs"`
	MealBolus       float64            `json:"mealBolus"`
	CorrectionBolus float64            `json:"correctionBolus"`
	TotalInsulin    float64            `json:"totalInsulin"`
	Glucose         Glucose            `json:"glucose"`
}

// Dose returns the dose stored in the record.
func (m MealRecord) Dose() Dose {
	return Dose{
		TotalCarbs:      m.TotalCarbs,
		MealBolus:       m.MealBolus,
		CorrectionBolus: m.CorrectionBolus,
		TotalInsulin:    m.TotalInsulin,
	}
}

// Valid reports whether a stored record holds at least one usable portion.
func (m MealRecord) Valid() bool {
	if len(m.Foods) == 0 {
		return false
	}
	for _, f := range m.Foods {
		if !f.Valid() {
			return false
		}
	}
	return true
}

// Glucose is an optional reading in mg/dL. Valid separates "no reading"
// from a reading of zero.
type Glucose struct {
	Value float64
	Valid bool
}

// NoGlucose is the absent reading.
var NoGlucose = Glucose{}

// GlucoseReading wraps a present value.
func GlucoseReading(v float64) Glucose {
	return Glucose{Value: v, Valid: true}
}

func (g Glucose) MarshalJSON() ([]byte, error) {
	if !g.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(g.Value)
}

func (g *Glucose) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*g = NoGlucose
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*g = GlucoseReading(v)
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
