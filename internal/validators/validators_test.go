package validators

import (
	"math"
	"testing"

	"github.com/getrenters/renters-calculator/internal/config"
	"github.com/shopspring/decimal"
)

func TestValidators(t *testing.T) {
	cfg, _ := config.LoadConfig()

	tests := []struct {
		name      string
		validator func(*config.Config, interface{}) error
		value     interface{}
		wantError bool
	}{
		{
			name:      "valid amount",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPrincipal(cfg, v.(float64)) },
			value:     10000.0,
			wantError: false,
		},
		{
			name:      "zero amount means no input",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPrincipal(cfg, v.(float64)) },
			value:     0.0,
			wantError: false,
		},
		{
			name:      "amount too large",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPrincipal(cfg, v.(float64)) },
			value:     1e12,
			wantError: true,
		},
		{
			name:      "amount not finite",
			validator: func(cfg *config.Config, v interface{}) error { return CheckPrincipal(cfg, v.(float64)) },
			value:     math.Inf(1),
			wantError: true,
		},
		{
			name:      "valid tenure",
			validator: func(cfg *config.Config, v interface{}) error { return CheckMonths(cfg, v.(int)) },
			value:     12,
			wantError: false,
		},
		{
			name:      "no tenure",
			validator: func(cfg *config.Config, v interface{}) error { return CheckMonths(cfg, v.(int)) },
			value:     0,
			wantError: false,
		},
		{
			name:      "negative tenure",
			validator: func(cfg *config.Config, v interface{}) error { return CheckMonths(cfg, v.(int)) },
			value:     -1,
			wantError: true,
		},
		{
			name:      "tenure too long",
			validator: func(cfg *config.Config, v interface{}) error { return CheckMonths(cfg, v.(int)) },
			value:     10000,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator(cfg, tt.value)
			if (err != nil) != tt.wantError {
				t.Errorf("validator error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestCheckBaseURL(t *testing.T) {
	tests := []struct {
		url       string
		wantError bool
	}{
		{"https://www.getrenters.io/pay", false},
		{"https://www.getrenters.io/pay?ref=home", false},
		{"http://localhost:3000/checkout", false},
		{"/pay", true},
		{"ftp://files.example.com/pay", true},
		{"https://", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := CheckBaseURL(tt.url)
			if (err != nil) != tt.wantError {
				t.Errorf("CheckBaseURL(%q) error = %v, wantError %v", tt.url, err, tt.wantError)
			}
		})
	}
}

func TestCheckPrincipalAmount(t *testing.T) {
	cfg := &config.Config{MaxPrincipal: 1e9}

	tests := []struct {
		name      string
		amount    string
		wantError bool
	}{
		{"zero", "0", false},
		{"typical", "10000", false},
		{"with fils", "10000.50", false},
		{"at max", "1000000000", false},
		{"long fraction", "10000.123456789012", false},
		{"above max", "5e9", true},
		{"huge exponent", "1e2000000", true},
		{"tiny exponent", "1e-2000000", true},
		{"many digits", "1234567890123456789012345", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPrincipalAmount(cfg, decimal.RequireFromString(tt.amount))
			if (err != nil) != tt.wantError {
				t.Errorf("CheckPrincipalAmount(%s) error = %v, wantError %v", tt.amount, err, tt.wantError)
			}
		})
	}
}

func TestCheckConfig(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			CheckoutURL:   config.DefaultCheckoutURL,
			DefaultAmount: 10000,
			AmountMin:     500,
			AmountStep:    50,
			MaxPrincipal:  1e9,
			MaxMonths:     600,
		}
	}

	if err := CheckConfig(valid()); err != nil {
		t.Fatalf("CheckConfig() unexpected error = %v", err)
	}

	mutations := map[string]func(*config.Config){
		"bad url":         func(c *config.Config) { c.CheckoutURL = "not a url" },
		"negative amount": func(c *config.Config) { c.DefaultAmount = -1 },
		"negative min":    func(c *config.Config) { c.AmountMin = -500 },
		"zero step":       func(c *config.Config) { c.AmountStep = 0 },
		"zero max months": func(c *config.Config) { c.MaxMonths = 0 },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			if err := CheckConfig(cfg); err == nil {
				t.Errorf("CheckConfig() expected error")
			}
		})
	}
}
