package calculations

import (
	"github.com/getrenters/renters-calculator/internal/currency"
	"github.com/getrenters/renters-calculator/internal/feeschedule"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Calculator считает проценты, комиссии и ежемесячный платеж.
// Не хранит состояния: одинаковые входные данные дают одинаковый результат.
type Calculator struct {
	format currency.Formatter
}

// New создает калькулятор с форматтером сумм для подписей
func New(format currency.Formatter) *Calculator {
	if format == nil {
		format = currency.FallbackFormatter{Code: "AED"}
	}
	return &Calculator{format: format}
}

// Formatter возвращает форматтер сумм калькулятора
func (c *Calculator) Formatter() currency.Formatter {
	return c.format
}

// Interest считает проценты, начисляемые каждый месяц на весь срок
//
//	percent:   principal * rate * months
//	fixed_aed: value * months
func (c *Calculator) Interest(inst *feeschedule.Institution, months int, principal decimal.Decimal) FeeQuote {
	term, ok := inst.InterestTerm(months)
	if !ok || months <= 0 {
		return FeeQuote{Amount: decimal.Zero, Label: NotAvailable}
	}

	n := decimal.NewFromInt(int64(months))
	switch term.Kind {
	case feeschedule.KindPercent:
		return FeeQuote{
			Amount: principal.Mul(term.Value).Mul(n),
			Label:  percentLabel(term.Value) + " per month",
		}
	case feeschedule.KindFixed:
		return FeeQuote{
			Amount: term.Value.Mul(n),
			Label:  c.format.Format(term.Value) + " per month",
		}
	}
	return FeeQuote{Amount: decimal.Zero, Label: NotAvailable}
}

// OneTimeFee считает разовую комиссию за оформление, не зависящую от срока
//
//	percent:   principal * rate
//	fixed_aed: value
func (c *Calculator) OneTimeFee(inst *feeschedule.Institution, months int, principal decimal.Decimal) FeeQuote {
	term, ok := inst.FeeTerm(months)
	if !ok || months <= 0 {
		return FeeQuote{Amount: decimal.Zero, Label: NotAvailable}
	}

	switch term.Kind {
	case feeschedule.KindPercent:
		amount := principal.Mul(term.Value)
		return FeeQuote{
			Amount: amount,
			Label:  percentLabel(term.Value) + " (" + c.format.Format(amount) + ")",
		}
	case feeschedule.KindFixed:
		return FeeQuote{
			Amount: term.Value,
			Label:  c.format.Format(term.Value),
		}
	}
	return FeeQuote{Amount: decimal.Zero, Label: NotAvailable}
}

func percentLabel(rate decimal.Decimal) string {
	return rate.Mul(hundred).StringFixed(2) + "%"
}
