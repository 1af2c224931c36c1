package handlers

import (
	"encoding/json"

	"github.com/getrenters/renters-calculator/pkg/utils"
	"github.com/shopspring/decimal"
)

// amountInput принимает сумму как JSON-строку или число, как ее ввел пользователь
type amountInput string

func (a *amountInput) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = amountInput(s)
		return nil
	}
	*a = amountInput(b)
	return nil
}

func (a amountInput) Decimal() decimal.Decimal {
	return utils.ParseAmount(string(a))
}

type estimateRequest struct {
	Amount amountInput `json:"amount"`
	Bank   string      `json:"bank"`
	Tenure int         `json:"tenure"`
}

type mountRequest struct {
	Theme map[string]string `json:"theme"`
}

type updateRequest struct {
	Amount *amountInput `json:"amount"`
	Bank   *string      `json:"bank"`
	Tenure *int         `json:"tenure"`
}
