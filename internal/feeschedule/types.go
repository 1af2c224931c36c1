// Package feeschedule содержит таблицы комиссий банков по программам рассрочки (EPP):
// разбор документа с данными, источники данных и однократную загрузку.
package feeschedule

import (
	"sort"

	"github.com/shopspring/decimal"
)

// FeeKind определяет модель начисления
type FeeKind int

const (
	// KindPercent - доля от суммы (0.007 = 0.7%)
	KindPercent FeeKind = iota + 1
	// KindFixed - фиксированная сумма в валюте
	KindFixed
)

func (k FeeKind) String() string {
	switch k {
	case KindPercent:
		return "percent"
	case KindFixed:
		return "fixed_aed"
	default:
		return "unknown"
	}
}

// FeeTerm - условие начисления для одного срока: Percent{rate} или FixedAmount{amount}.
// Значение никогда не бывает отрицательным.
type FeeTerm struct {
	Kind  FeeKind
	Value decimal.Decimal
}

// Percent создает процентное условие
func Percent(rate decimal.Decimal) FeeTerm {
	return FeeTerm{Kind: KindPercent, Value: nonNegative(rate)}
}

// FixedAmount создает условие с фиксированной суммой
func FixedAmount(amount decimal.Decimal) FeeTerm {
	return FeeTerm{Kind: KindFixed, Value: nonNegative(amount)}
}

// Institution - банк и его таблицы. Не изменяется после загрузки.
type Institution struct {
	Name      string
	Country   string
	MinAmount decimal.Decimal
	Interest  map[int]FeeTerm
	Fees      map[int]FeeTerm
	tenures   []int
}

// InterestTerm возвращает условие по процентам для срока
func (i *Institution) InterestTerm(months int) (FeeTerm, bool) {
	if i == nil {
		return FeeTerm{}, false
	}
	t, ok := i.Interest[months]
	return t, ok
}

// FeeTerm возвращает условие по разовой комиссии для срока
func (i *Institution) FeeTerm(months int) (FeeTerm, bool) {
	if i == nil {
		return FeeTerm{}, false
	}
	t, ok := i.Fees[months]
	return t, ok
}

// Tenures возвращает отсортированное объединение сроков из обеих таблиц
func (i *Institution) Tenures() []int {
	if i == nil {
		return nil
	}
	if i.tenures == nil {
		return unionTenures(i.Interest, i.Fees)
	}
	out := make([]int, len(i.tenures))
	copy(out, i.tenures)
	return out
}

// HasTenure сообщает, доступен ли срок у банка
func (i *Institution) HasTenure(months int) bool {
	if i == nil || months <= 0 {
		return false
	}
	_, inInterest := i.Interest[months]
	_, inFees := i.Fees[months]
	return inInterest || inFees
}

func unionTenures(tables ...map[int]FeeTerm) []int {
	seen := make(map[int]struct{})
	for _, table := range tables {
		for months := range table {
			if months > 0 {
				seen[months] = struct{}{}
			}
		}
	}
	out := make([]int, 0, len(seen))
	for months := range seen {
		out = append(out, months)
	}
	sort.Ints(out)
	return out
}

func nonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// Schedule - набор банков в порядке из документа
type Schedule struct {
	institutions []*Institution
	byName       map[string]*Institution
}

// Empty возвращает пустой набор (используется при ошибке загрузки)
func Empty() *Schedule {
	return &Schedule{byName: map[string]*Institution{}}
}

// NewSchedule собирает набор из готовых банков. Повторяющиеся имена отбрасываются.
func NewSchedule(institutions ...*Institution) *Schedule {
	s := Empty()
	for _, inst := range institutions {
		if inst == nil || inst.Name == "" {
			continue
		}
		if _, dup := s.byName[inst.Name]; dup {
			continue
		}
		inst.tenures = unionTenures(inst.Interest, inst.Fees)
		s.institutions = append(s.institutions, inst)
		s.byName[inst.Name] = inst
	}
	return s
}

// All возвращает все банки, включая те, у которых нет ни одного срока
func (s *Schedule) All() []*Institution {
	if s == nil {
		return nil
	}
	out := make([]*Institution, len(s.institutions))
	copy(out, s.institutions)
	return out
}

// Selectable возвращает банки, доступные для выбора (хотя бы один срок)
func (s *Schedule) Selectable() []*Institution {
	if s == nil {
		return nil
	}
	out := make([]*Institution, 0, len(s.institutions))
	for _, inst := range s.institutions {
		if len(inst.tenures) > 0 {
			out = append(out, inst)
		}
	}
	return out
}

// Lookup ищет банк, доступный для выбора, по имени
func (s *Schedule) Lookup(name string) (*Institution, bool) {
	if s == nil {
		return nil, false
	}
	inst, ok := s.byName[name]
	if !ok || len(inst.tenures) == 0 {
		return nil, false
	}
	return inst, true
}

// Len возвращает количество банков
func (s *Schedule) Len() int {
	if s == nil {
		return 0
	}
	return len(s.institutions)
}

// Names возвращает имена банков, доступных для выбора, в порядке загрузки
func (s *Schedule) Names() []string {
	names := make([]string, 0, s.Len())
	for _, inst := range s.Selectable() {
		names = append(names, inst.Name)
	}
	return names
}
