package calculations

import (
	"fmt"

	"github.com/getrenters/renters-calculator/internal/feeschedule"
	"github.com/shopspring/decimal"
)

// Eligibility проверяет минимальную сумму банка. Проверка срабатывает только
// при выбранном банке, положительной сумме и положительном минимуме.
func (c *Calculator) Eligibility(inst *feeschedule.Institution, principal decimal.Decimal) EligibilityResult {
	if inst == nil || !principal.IsPositive() || !inst.MinAmount.IsPositive() {
		return EligibilityResult{Eligible: true}
	}
	if principal.LessThan(inst.MinAmount) {
		return EligibilityResult{
			Eligible: false,
			Reason:   fmt.Sprintf("Minimum for %s is %s.", inst.Name, c.format.Format(inst.MinAmount)),
		}
	}
	return EligibilityResult{Eligible: true}
}
