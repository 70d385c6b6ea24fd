package domain

import (
	"context"
)

// SettingsService stores the dosing parameters
type SettingsService interface {
	Get(ctx context.Context) UserConfig
	Set(ctx context.Context, candidate UserConfig) (UserConfig, error)
	SetFromText(ctx context.Context, ratio, sensitivity, target string) (UserConfig, error)
}

// FoodCatalogService manages reusable food definitions
type FoodCatalogService interface {
	Upsert(ctx context.Context, name string, carbsPer100g float64) (FoodDefinition, error)
	UpsertFromText(ctx context.Context, name, carbsPer100g string) (FoodDefinition, error)
	Edit(ctx context.Context, index int, name string, carbsPer100g float64) (FoodDefinition, error)
	Lookup(ctx context.Context, name string) (FoodDefinition, bool)
	Remove(ctx context.Context, name string) error
	List(ctx context.Context) []FoodDefinition
}

// SessionService holds the portions of the meal being logged
type SessionService interface {
	AddEntry(ctx context.Context, name string, carbsPer100g, weight float64) (SessionFoodEntry, error)
	AddEntryFromText(ctx context.Context, name, carbsPer100g, weight string) (SessionFoodEntry, error)
	RemoveEntry(ctx context.Context, index int) error
	Clear(ctx context.Context) error
	List(ctx context.Context) []SessionFoodEntry
}

// HistoryService keeps committed meals, newest first
type HistoryService interface {
	Commit(ctx context.Context, entries []SessionFoodEntry, dose Dose, glucose Glucose) (MealRecord, bool, error)
	Remove(ctx context.Context, index int) error
	ClearAll(ctx context.Context) error
	List(ctx context.Context) []MealRecord
}

// MealService ties the stores together for the interaction layers
type MealService interface {
	Totals(ctx context.Context) Dose
	SubmitGlucose(ctx context.Context, text string) (MealRecord, bool, error)
	ShareText(ctx context.Context) string
}

// CarbEstimator suggests a carbohydrate density for a food name
type CarbEstimator interface {
	EstimateCarbsPer100g(ctx context.Context, food string) (float64, error)
}
