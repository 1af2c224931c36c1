package utils

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 округляет сумму до 2 знаков после запятой
func Round2(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}

// IsFinite проверяет, является ли число конечным
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// ParseAmount разбирает введенную пользователем сумму.
// Нечисловой, пустой или неположительный ввод превращается в 0.
func ParseAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero
	}
	return d
}

// NonNegative заменяет отрицательные значения нулем
func NonNegative(value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	return value
}
