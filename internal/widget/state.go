// Package widget хранит состояние одного открытого калькулятора и пересчитывает
// производные данные при каждом изменении ввода.
package widget

import (
	"context"
	"sync"

	"github.com/getrenters/renters-calculator/internal/calculations"
	"github.com/getrenters/renters-calculator/internal/checkout"
	"github.com/getrenters/renters-calculator/internal/feeschedule"
	"github.com/getrenters/renters-calculator/pkg/utils"
	"github.com/shopspring/decimal"
)

// Phase - этап жизненного цикла виджета
type Phase int

const (
	// Uninitialized - таблицы комиссий еще не загружены
	Uninitialized Phase = iota
	// Ready - таблицы загружены (возможно, пустые)
	Ready
)

func (p Phase) String() string {
	if p == Ready {
		return "ready"
	}
	return "uninitialized"
}

// Snapshot - неизменяемый снимок состояния для подписчиков и отображения
type Snapshot struct {
	Phase        Phase
	Institutions []string
	Institution  string
	Principal    decimal.Decimal
	Tenure       int
	Tenures      []int
	Result       calculations.CalculationResult
}

// Listener получает снимок после каждого изменения.
// Вызывается вне блокировки, поэтому может читать состояние.
type Listener func(Snapshot)

// ScheduleLoader отдает таблицы комиссий (например, feeschedule.Provider)
type ScheduleLoader interface {
	Load(ctx context.Context) *feeschedule.Schedule
}

// State - состояние одного виджета. Все переходы выполняются под одним
// мьютексом целиком: чтение, изменение и пересчет.
type State struct {
	mu   sync.Mutex
	calc *calculations.Calculator

	phase     Phase
	schedule  *feeschedule.Schedule
	inst      *feeschedule.Institution
	principal decimal.Decimal
	tenure    int
	tenures   []int
	result    calculations.CalculationResult

	listeners map[int]Listener
	nextID    int
}

// New создает виджет в состоянии Uninitialized с начальной суммой
func New(calc *calculations.Calculator, defaultPrincipal decimal.Decimal) *State {
	s := &State{
		calc:      calc,
		schedule:  feeschedule.Empty(),
		principal: utils.NonNegative(defaultPrincipal),
		listeners: make(map[int]Listener),
	}
	s.recompute()
	return s
}

// Load загружает таблицы через loader и переводит виджет в Ready.
// Это единственная операция, которая может ждать.
func (s *State) Load(ctx context.Context, loader ScheduleLoader) Snapshot {
	return s.Init(loader.Load(ctx))
}

// Init переводит виджет в Ready и выбирает первый доступный банк и его первый срок.
// nil означает неудачную загрузку: виджет готов, но банков нет.
// Повторный вызов ничего не меняет.
func (s *State) Init(schedule *feeschedule.Schedule) Snapshot {
	return s.transition(func() bool {
		if s.phase == Ready {
			return false
		}
		if schedule == nil {
			schedule = feeschedule.Empty()
		}
		s.phase = Ready
		s.schedule = schedule
		if selectable := schedule.Selectable(); len(selectable) > 0 {
			s.selectInstitution(selectable[0])
		} else {
			s.selectInstitution(nil)
		}
		return true
	})
}

// SetPrincipal принимает сырой ввод суммы. Некорректный ввод дает 0.
func (s *State) SetPrincipal(raw string) Snapshot {
	return s.SetPrincipalValue(utils.ParseAmount(raw))
}

// SetPrincipalValue устанавливает сумму. Неположительные значения дают 0.
func (s *State) SetPrincipalValue(value decimal.Decimal) Snapshot {
	return s.transition(func() bool {
		if !value.IsPositive() {
			value = decimal.Zero
		}
		s.principal = value
		return true
	})
}

// SetInstitution выбирает банк по имени и сбрасывает срок на первый доступный.
// Неизвестное или пустое имя снимает выбор.
func (s *State) SetInstitution(name string) Snapshot {
	return s.transition(func() bool {
		inst, ok := s.schedule.Lookup(name)
		if !ok {
			inst = nil
		}
		s.selectInstitution(inst)
		return true
	})
}

// SetTenure выбирает срок. Срок, которого нет у банка, игнорируется;
// второй результат сообщает, был ли срок принят.
func (s *State) SetTenure(months int) (Snapshot, bool) {
	accepted := false
	snap := s.transition(func() bool {
		if !s.inst.HasTenure(months) {
			return false
		}
		s.tenure = months
		accepted = true
		return true
	})
	return snap, accepted
}

// Snapshot возвращает текущий снимок
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// CheckoutOutcome - итог нажатия основной кнопки
type CheckoutOutcome int

const (
	// CheckoutNoop: не хватает банка, срока или суммы, переход не выполняется
	CheckoutNoop CheckoutOutcome = iota
	// CheckoutRedirect: переход по ссылке оформления
	CheckoutRedirect
	// CheckoutIneligible: сумма ниже минимума банка, кнопка отключена
	CheckoutIneligible
)

func (o CheckoutOutcome) String() string {
	switch o {
	case CheckoutRedirect:
		return "redirect"
	case CheckoutIneligible:
		return "ineligible"
	}
	return "noop"
}

// CheckoutResult описывает переход, решенный по одному снимку состояния
type CheckoutResult struct {
	Outcome     CheckoutOutcome
	URL         string
	Reason      string
	Institution string
	Tenure      int
}

// Checkout решает, куда ведет основная кнопка. Проверка допустимости суммы
// и построение ссылки выполняются под одной блокировкой.
func (s *State) Checkout(baseURL string) CheckoutResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := CheckoutResult{Outcome: CheckoutNoop, Tenure: s.tenure}
	if s.inst == nil {
		return res
	}
	res.Institution = s.inst.Name
	if s.result.HasEstimate && !s.result.Eligible {
		res.Outcome = CheckoutIneligible
		res.Reason = s.result.IneligibilityReason
		return res
	}
	link, ok := checkout.Build(baseURL, s.principal, s.tenure, s.inst.Name)
	if !ok {
		return res
	}
	res.Outcome = CheckoutRedirect
	res.URL = link
	return res
}

// Subscribe регистрирует подписчика на изменения. Возвращает функцию отписки.
func (s *State) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// transition выполняет изменение и полный пересчет под мьютексом,
// затем уведомляет подписчиков. mutate возвращает false, если ничего не изменилось.
func (s *State) transition(mutate func() bool) Snapshot {
	s.mu.Lock()
	changed := mutate()
	if changed {
		s.recompute()
	}
	snap := s.snapshotLocked()
	var listeners []Listener
	if changed {
		listeners = make([]Listener, 0, len(s.listeners))
		for _, fn := range s.listeners {
			listeners = append(listeners, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
	return snap
}

func (s *State) selectInstitution(inst *feeschedule.Institution) {
	s.inst = inst
	s.tenure = 0
	if tenures := calculations.ResolveTenures(inst); len(tenures) > 0 {
		s.tenure = tenures[0]
	}
}

// recompute пересчитывает все производные данные вместе
func (s *State) recompute() {
	s.tenures = calculations.ResolveTenures(s.inst)
	if !s.inst.HasTenure(s.tenure) {
		s.tenure = 0
	}
	s.result = s.calc.Estimate(s.inst, s.tenure, s.principal)
}

func (s *State) snapshotLocked() Snapshot {
	tenures := make([]int, len(s.tenures))
	copy(tenures, s.tenures)

	snap := Snapshot{
		Phase:        s.phase,
		Institutions: s.schedule.Names(),
		Principal:    s.principal,
		Tenure:       s.tenure,
		Tenures:      tenures,
		Result:       s.result,
	}
	if s.inst != nil {
		snap.Institution = s.inst.Name
	}
	return snap
}
