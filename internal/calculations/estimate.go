package calculations

import (
	"github.com/getrenters/renters-calculator/internal/feeschedule"
	"github.com/shopspring/decimal"
)

// Estimate рассчитывает ежемесячный платеж: (сумма + проценты + комиссия) / срок.
// Платеж одинаковый во всех месяцах. Без банка, срока или суммы возвращается
// результат без расчета (HasEstimate=false).
func (c *Calculator) Estimate(inst *feeschedule.Institution, months int, principal decimal.Decimal) CalculationResult {
	if principal.IsNegative() {
		principal = decimal.Zero
	}

	eligibility := c.Eligibility(inst, principal)
	result := CalculationResult{
		Principal:              principal,
		MonthlyPayment:         decimal.Zero,
		RecurringInterestTotal: decimal.Zero,
		RecurringInterestLabel: NotAvailable,
		OneTimeFeeTotal:        decimal.Zero,
		OneTimeFeeLabel:        NotAvailable,
		GrandTotal:             decimal.Zero,
		Eligible:               eligibility.Eligible,
		IneligibilityReason:    eligibility.Reason,
	}
	if inst != nil {
		result.Institution = inst.Name
	}
	if months > 0 {
		result.TenureMonths = months
	}

	if inst == nil || months <= 0 || !principal.IsPositive() {
		return result
	}

	interest := c.Interest(inst, months, principal)
	fee := c.OneTimeFee(inst, months, principal)
	grand := principal.Add(interest.Amount).Add(fee.Amount)

	result.HasEstimate = true
	result.RecurringInterestTotal = interest.Amount
	result.RecurringInterestLabel = interest.Label
	result.OneTimeFeeTotal = fee.Amount
	result.OneTimeFeeLabel = fee.Label
	result.GrandTotal = grand
	result.MonthlyPayment = grand.Div(decimal.NewFromInt(int64(months)))

	return result
}
