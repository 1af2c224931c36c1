package validators

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/getrenters/renters-calculator/internal/config"
	"github.com/getrenters/renters-calculator/pkg/utils"
	"github.com/shopspring/decimal"
)

// ValidatePositiveNumber проверяет, что число конечное и в допустимом диапазоне
func ValidatePositiveNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fmt.Errorf("%s: value is not a finite number", name)
	}
	if value < minInclusive {
		return fmt.Errorf("%s: value must be >= %.0f", name, minInclusive)
	}
	if value > maxInclusive {
		return fmt.Errorf("%s: value is too large (>%.0f)", name, maxInclusive)
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fmt.Errorf("%s: value must be in range [%d; %d]", name, minInclusive, maxInclusive)
	}
	return nil
}

// CheckPrincipal ограничивает сумму сверху. Ноль допустим: это «нет ввода».
func CheckPrincipal(cfg *config.Config, principal float64) error {
	return ValidatePositiveNumber("amount", principal, 0, cfg.MaxPrincipal)
}

// Границы порядка суммы, проверяемые до перевода в float64
const (
	maxAmountDigits   = 18
	maxAmountDecimals = 10
)

// CheckPrincipalAmount проверяет сумму в decimal. Порядок и число знаков
// проверяются по экспоненте, без перевода в float64 и без масштабирования.
func CheckPrincipalAmount(cfg *config.Config, principal decimal.Decimal) error {
	if principal.IsZero() {
		return nil
	}
	if exp := principal.Exponent(); exp < -maxAmountDecimals {
		if int(-exp) > principal.NumDigits()+maxAmountDecimals {
			return fmt.Errorf("amount: too many decimal places")
		}
		principal = principal.Round(maxAmountDecimals)
	} else if principal.NumDigits()+int(exp) > maxAmountDigits {
		return fmt.Errorf("amount: value is too large (>%.0f)", cfg.MaxPrincipal)
	}
	return CheckPrincipal(cfg, principal.InexactFloat64())
}

// CheckMonths проверяет срок в месяцах; 0 означает «срок не выбран»
func CheckMonths(cfg *config.Config, months int) error {
	return ValidateIntRange("tenure", months, 0, cfg.MaxMonths)
}

// CheckBaseURL проверяет адрес оформления: абсолютный http(s) URL
func CheckBaseURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("checkout url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("checkout url: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("checkout url: host is required")
	}
	return nil
}

// CheckConfig проверяет конфигурацию при старте
func CheckConfig(cfg *config.Config) error {
	if err := CheckBaseURL(cfg.CheckoutURL); err != nil {
		return err
	}
	if err := ValidatePositiveNumber("DEFAULT_AMOUNT", cfg.DefaultAmount, 0, cfg.MaxPrincipal); err != nil {
		return err
	}
	if err := ValidatePositiveNumber("AMOUNT_MIN", cfg.AmountMin, 0, cfg.MaxPrincipal); err != nil {
		return err
	}
	if cfg.AmountStep <= 0 || !utils.IsFinite(cfg.AmountStep) {
		return fmt.Errorf("AMOUNT_STEP: value must be positive")
	}
	if err := ValidateIntRange("MAX_MONTHS", cfg.MaxMonths, 1, 1200); err != nil {
		return err
	}
	return nil
}
