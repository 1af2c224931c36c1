// Package view проецирует состояние виджета в данные для отрисовки.
// Проекция - чистая функция снимка: без побочных эффектов и обращений к состоянию.
package view

import (
	"fmt"
	"strconv"

	"github.com/getrenters/renters-calculator/internal/currency"
	"github.com/getrenters/renters-calculator/internal/widget"
	"github.com/getrenters/renters-calculator/pkg/utils"
)

// Тексты интерфейса
const (
	Placeholder          = "—"
	SelectBankLabel      = "Select a bank"
	NoPlansMessage       = "No plans available for this bank"
	NoEstimateFineprint  = "Enter amount and choose a bank to see your estimate."
	NoScheduleMessage    = "Enter amount to see schedule."
	InterestSectionLabel = "Interest Rate (Monthly Recurring)"
	FeeSectionLabel      = "Installment Plan Fees (One-Time)"
	ActionLabel          = "Start Your Rent Plan"
	Disclaimer           = "Estimates are indicative only. Your bank confirms the final terms, fees and monthly amount before you confirm."
)

// Controls - параметры поля ввода суммы
type Controls struct {
	AmountMin  float64 `json:"min"`
	AmountStep float64 `json:"step"`
}

// AmountInput - поле суммы
type AmountInput struct {
	Value string  `json:"value"`
	Min   float64 `json:"min"`
	Step  float64 `json:"step"`
}

// Option - пункт списка банков
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// TenureButton - кнопка выбора срока
type TenureButton struct {
	Months  int    `json:"months"`
	Label   string `json:"label"`
	Pressed bool   `json:"pressed"`
}

// FeeSection - блок расшифровки комиссий
type FeeSection struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// ScheduleRow - строка графика
type ScheduleRow struct {
	Period    string `json:"period"`
	Breakdown string `json:"breakdown"`
}

// ScheduleTable - раскрывающийся график платежей с итогами
type ScheduleTable struct {
	Rows               []ScheduleRow `json:"rows"`
	TotalPrincipal     string        `json:"total_principal"`
	TotalInterestLabel string        `json:"total_interest_label"`
	TotalInterest      string        `json:"total_interest"`
	PlanFees           string        `json:"plan_fees"`
	GrandTotal         string        `json:"grand_total"`
}

// View - все, что нужно для отрисовки виджета
type View struct {
	Ready             bool           `json:"ready"`
	Amount            AmountInput    `json:"amount"`
	Banks             []Option       `json:"banks"`
	BankSelectEnabled bool           `json:"bank_select_enabled"`
	Tenures           []TenureButton `json:"tenures"`
	TenureMessage     string         `json:"tenure_message,omitempty"`
	Monthly           string         `json:"monthly"`
	MonthlyValue      string         `json:"monthly_value,omitempty"`
	HasEstimate       bool           `json:"has_estimate"`
	Fees              []FeeSection   `json:"fees,omitempty"`
	FeesPlaceholder   string         `json:"fees_placeholder,omitempty"`
	Fineprint         string         `json:"fineprint"`
	MinError          string         `json:"min_error,omitempty"`
	ActionLabel       string         `json:"action_label"`
	ActionEnabled     bool           `json:"action_enabled"`
	Schedule          *ScheduleTable `json:"schedule,omitempty"`
	ScheduleMessage   string         `json:"schedule_message,omitempty"`
	Disclaimer        string         `json:"disclaimer"`
}

// Project строит View из снимка состояния
func Project(snap widget.Snapshot, format currency.Formatter, controls Controls) View {
	r := snap.Result
	v := View{
		Ready: snap.Phase == widget.Ready,
		Amount: AmountInput{
			Value: snap.Principal.String(),
			Min:   controls.AmountMin,
			Step:  controls.AmountStep,
		},
		Banks:             bankOptions(snap),
		BankSelectEnabled: len(snap.Institutions) > 0,
		Tenures:           tenureButtons(snap),
		Monthly:           Placeholder,
		HasEstimate:       r.HasEstimate,
		Fineprint:         NoEstimateFineprint,
		MinError:          r.IneligibilityReason,
		ActionLabel:       ActionLabel,
		ActionEnabled:     r.Eligible,
		Disclaimer:        Disclaimer,
	}

	if snap.Institution != "" && len(snap.Tenures) == 0 {
		v.TenureMessage = NoPlansMessage
	}

	if !r.HasEstimate {
		v.FeesPlaceholder = Placeholder
		v.ScheduleMessage = NoScheduleMessage
		return v
	}

	monthly := utils.Round2(r.MonthlyPayment)
	v.Monthly = format.Format(monthly)
	v.MonthlyValue = monthly.StringFixed(2)
	v.Fees = []FeeSection{
		{Title: InterestSectionLabel, Value: r.RecurringInterestLabel},
		{Title: FeeSectionLabel, Value: r.OneTimeFeeLabel},
	}
	v.Fineprint = fmt.Sprintf("Based on %s over %d %s with %s. Your bank shows exact terms before you confirm.",
		format.Format(r.Principal), r.TenureMonths, plural(r.TenureMonths, "month"), r.Institution)
	v.Schedule = scheduleTable(snap, format)

	return v
}

func bankOptions(snap widget.Snapshot) []Option {
	opts := make([]Option, 0, len(snap.Institutions)+1)
	opts = append(opts, Option{Value: "", Label: SelectBankLabel, Selected: snap.Institution == ""})
	for _, name := range snap.Institutions {
		opts = append(opts, Option{Value: name, Label: name, Selected: name == snap.Institution})
	}
	return opts
}

func tenureButtons(snap widget.Snapshot) []TenureButton {
	buttons := make([]TenureButton, 0, len(snap.Tenures))
	for _, m := range snap.Tenures {
		buttons = append(buttons, TenureButton{
			Months:  m,
			Label:   strconv.Itoa(m) + " mo",
			Pressed: m == snap.Tenure,
		})
	}
	return buttons
}

func scheduleTable(snap widget.Snapshot, format currency.Formatter) *ScheduleTable {
	r := snap.Result
	t := &ScheduleTable{
		Rows:               make([]ScheduleRow, 0, r.TenureMonths),
		TotalPrincipal:     format.Format(r.Principal),
		TotalInterestLabel: fmt.Sprintf("Total interest (%d months)", r.TenureMonths),
		TotalInterest:      format.Format(r.RecurringInterestTotal),
		PlanFees:           format.Format(r.OneTimeFeeTotal),
		GrandTotal:         format.Format(r.GrandTotal),
	}
	for p := range r.Periods() {
		t.Rows = append(t.Rows, ScheduleRow{
			Period:    "Month " + strconv.Itoa(p.Index),
			Breakdown: format.Format(utils.Round2(p.Payment)),
		})
	}
	return t
}

func plural(n int, word string) string {
	if n > 1 {
		return word + "s"
	}
	return word
}
