package calculations

import (
	"iter"

	"github.com/shopspring/decimal"
)

// NotAvailable - подпись для срока без условия
const NotAvailable = "Not available"

// FeeQuote - сумма начисления и ее подпись для отображения
type FeeQuote struct {
	Amount decimal.Decimal `json:"amount"`
	Label  string          `json:"label"`
}

// EligibilityResult - результат проверки минимальной суммы
type EligibilityResult struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// Period - одна строка графика платежей
type Period struct {
	Index   int             `json:"period"`
	Payment decimal.Decimal `json:"payment"`
}

// CalculationResult представляет результат расчета рассрочки.
// HasEstimate=false означает «нет данных для расчета», а не нулевой платеж.
type CalculationResult struct {
	Institution  string          `json:"bank,omitempty"`
	TenureMonths int             `json:"tenure,omitempty"`
	Principal    decimal.Decimal `json:"amount"`
	HasEstimate  bool            `json:"has_estimate"`

	MonthlyPayment         decimal.Decimal `json:"monthly_payment"`
	RecurringInterestTotal decimal.Decimal `json:"recurring_interest_total"`
	RecurringInterestLabel string          `json:"recurring_interest_label"`
	OneTimeFeeTotal        decimal.Decimal `json:"one_time_fee_total"`
	OneTimeFeeLabel        string          `json:"one_time_fee_label"`
	GrandTotal             decimal.Decimal `json:"grand_total"`

	Eligible            bool   `json:"eligible"`
	IneligibilityReason string `json:"ineligibility_reason,omitempty"`
}

// Periods возвращает график платежей: TenureMonths записей с одинаковым платежом.
// Последовательность ленивая и может обходиться повторно.
func (r CalculationResult) Periods() iter.Seq[Period] {
	return func(yield func(Period) bool) {
		if !r.HasEstimate {
			return
		}
		for i := 1; i <= r.TenureMonths; i++ {
			if !yield(Period{Index: i, Payment: r.MonthlyPayment}) {
				return
			}
		}
	}
}

// Schedule собирает график в срез
func (r CalculationResult) Schedule() []Period {
	out := make([]Period, 0, r.TenureMonths)
	for p := range r.Periods() {
		out = append(out, p)
	}
	return out
}
