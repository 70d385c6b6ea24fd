package services

import (
	"fmt"
	"math"
	"strings"

	apperrors "github.com/vladimiradmaev/carb-calculator/internal/errors"
	"github.com/vladimiradmaev/carb-calculator/internal/utils"
)

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewValidationError("food name must not be empty")
	}
	return name, nil
}

func validateCarbs(carbsPer100g float64) error {
	if math.IsNaN(carbsPer100g) || math.IsInf(carbsPer100g, 0) || carbsPer100g < 0 {
		return apperrors.NewValidationError("carbs per 100 g must be a number of at least 0").
			WithContext("carbs_per_100g", carbsPer100g)
	}
	return nil
}

func validateWeight(weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return apperrors.NewValidationError("weight must be a number greater than 0").
			WithContext("weight", weight)
	}
	return nil
}

func validateIndex(index, length int, what string) error {
	if index < 0 || index >= length {
		return apperrors.NewValidationError(fmt.Sprintf("no %s at position %d", what, index+1)).
			WithContext("index", index).
			WithContext("length", length)
	}
	return nil
}

func parseField(text, field string) (float64, error) {
	v, err := utils.ParseNumber(text)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrorTypeValidation, "VALIDATION", field+" must be a number")
	}
	return v, nil
}
