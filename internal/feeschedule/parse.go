package feeschedule

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Типы условий в документе с данными
const (
	termTypePercent  = "percent"
	termTypeFixedAED = "fixed_aed"
)

type document struct {
	UpdatedFromSheet string    `json:"updated_from_sheet"`
	Banks            []rawBank `json:"banks"`
}

type rawBank struct {
	Name           string             `json:"name"`
	Country        string             `json:"country"`
	MinAmountAED   decimal.Decimal    `json:"min_amount_aed"`
	InterestRates  map[string]rawTerm `json:"interest_rates"`
	ProcessingFees map[string]rawTerm `json:"processing_fees"`
}

type rawTerm struct {
	Type  string          `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Parse разбирает документ {"banks": [...]} и проверяет его один раз при загрузке:
// неизвестные типы условий и некорректные сроки отбрасываются, отрицательные
// значения заменяются нулем.
func Parse(data []byte) (*Schedule, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode fee schedule: %w", err)
	}

	institutions := make([]*Institution, 0, len(doc.Banks))
	for _, b := range doc.Banks {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			continue
		}
		institutions = append(institutions, &Institution{
			Name:      name,
			Country:   b.Country,
			MinAmount: nonNegative(b.MinAmountAED),
			Interest:  parseTable(b.InterestRates),
			Fees:      parseTable(b.ProcessingFees),
		})
	}

	return NewSchedule(institutions...), nil
}

func parseTable(raw map[string]rawTerm) map[int]FeeTerm {
	table := make(map[int]FeeTerm, len(raw))

	// "12" и " 12" дают один и тот же срок, побеждает первый по порядку ключей
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		months, ok := parseTenure(k)
		if !ok {
			continue
		}
		if _, dup := table[months]; dup {
			continue
		}
		term, ok := parseTerm(raw[k])
		if !ok {
			continue
		}
		table[months] = term
	}
	return table
}

func parseTenure(key string) (int, bool) {
	months, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil || months <= 0 {
		return 0, false
	}
	return months, true
}

func parseTerm(raw rawTerm) (FeeTerm, bool) {
	switch strings.ToLower(strings.TrimSpace(raw.Type)) {
	case termTypePercent:
		return Percent(raw.Value), true
	case termTypeFixedAED:
		return FixedAmount(raw.Value), true
	default:
		return FeeTerm{}, false
	}
}
