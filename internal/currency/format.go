// Package currency форматирует денежные суммы для отображения в калькуляторе.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter превращает сумму в строку для отображения
type Formatter interface {
	Format(amount decimal.Decimal) string
}

// FallbackFormatter выводит "<CODE> <amount>" с двумя знаками после запятой
// и без разделителей разрядов.
type FallbackFormatter struct {
	Code string
}

// Format реализует Formatter
func (f FallbackFormatter) Format(amount decimal.Decimal) string {
	return f.Code + " " + amount.StringFixed(2)
}

// LocaleFormatter форматирует суммы по правилам локали
// (разделители разрядов, точность валюты по ISO 4217).
type LocaleFormatter struct {
	code    string
	printer *message.Printer
	pattern string
	scale   int32
}

// maxExactFloat - граница, до которой float64 хранит целые без потерь (2^53)
var maxExactFloat = decimal.NewFromInt(1 << 53)

// NewLocaleFormatter создает форматтер для локали и валюты
func NewLocaleFormatter(locale, code string) (*LocaleFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)

	return &LocaleFormatter{
		code:    unit.String(),
		printer: message.NewPrinter(tag),
		pattern: fmt.Sprintf("%%.%df", scale),
		scale:   int32(scale),
	}, nil
}

// Format реализует Formatter. Суммы больше 2^53 выводятся точно,
// без разделителей разрядов.
func (f *LocaleFormatter) Format(amount decimal.Decimal) string {
	if amount.Abs().GreaterThan(maxExactFloat) {
		return f.code + " " + amount.StringFixed(f.scale)
	}
	return f.code + " " + f.printer.Sprintf(f.pattern, amount.InexactFloat64())
}

// New возвращает форматтер по локали, а если локаль или валюта
// не поддерживаются, то FallbackFormatter.
func New(locale, code string) Formatter {
	code = strings.ToUpper(strings.TrimSpace(code))
	if f, err := NewLocaleFormatter(locale, code); err == nil {
		return f
	}
	if code == "" {
		code = "AED"
	}
	return FallbackFormatter{Code: code}
}
