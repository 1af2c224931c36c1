package widget

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/getrenters/renters-calculator/internal/calculations"
	"github.com/getrenters/renters-calculator/internal/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrNotFound возвращается для неизвестного или закрытого виджета
var ErrNotFound = errors.New("widget not found")

// Mounted - открытый виджет со своим состоянием
type Mounted struct {
	ID    string
	State *State
	Theme map[string]string

	lastSeen    time.Time
	unsubscribe func()
}

// Registry хранит открытые виджеты. У каждого виджета свое состояние,
// общих изменяемых данных между виджетами нет.
type Registry struct {
	calc             *calculations.Calculator
	loader           ScheduleLoader
	defaultPrincipal decimal.Decimal
	logger           *zap.Logger
	now              func() time.Time

	mu      sync.Mutex
	widgets map[string]*Mounted
}

// NewRegistry создает реестр виджетов
func NewRegistry(calc *calculations.Calculator, loader ScheduleLoader, defaultPrincipal decimal.Decimal, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		calc:             calc,
		loader:           loader,
		defaultPrincipal: defaultPrincipal,
		logger:           logger,
		now:              time.Now,
		widgets:          make(map[string]*Mounted),
	}
}

// Mount открывает новый виджет и ждет загрузки таблиц комиссий
func (r *Registry) Mount(ctx context.Context, theme map[string]string) *Mounted {
	state := New(r.calc, r.defaultPrincipal)
	m := &Mounted{
		ID:    uuid.NewString(),
		State: state,
		Theme: theme,
	}

	log := r.logger.With(zap.String("op", "widget.Update"), zap.String("widget_id", m.ID))
	m.unsubscribe = state.Subscribe(func(snap Snapshot) {
		status := "no_estimate"
		switch {
		case snap.Result.HasEstimate && !snap.Result.Eligible:
			status = "ineligible"
		case snap.Result.HasEstimate:
			status = "success"
		}
		metrics.Estimates.WithLabelValues("widget", status).Inc()
		log.Debug("estimate updated",
			zap.String("bank", snap.Institution),
			zap.Int("tenure", snap.Tenure),
			zap.String("amount", snap.Principal.String()),
			zap.String("status", status),
		)
	})

	state.Load(ctx, r.loader)

	r.mu.Lock()
	m.lastSeen = r.now()
	r.widgets[m.ID] = m
	r.mu.Unlock()

	metrics.ActiveWidgets.Inc()
	r.logger.Debug("widget mounted", zap.String("op", "widget.Mount"), zap.String("widget_id", m.ID))
	return m
}

// Get возвращает открытый виджет и продлевает его жизнь
func (r *Registry) Get(id string) (*Mounted, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.widgets[id]
	if !ok {
		return nil, ErrNotFound
	}
	m.lastSeen = r.now()
	return m, nil
}

// Unmount закрывает виджет и отбрасывает его состояние
func (r *Registry) Unmount(id string) error {
	r.mu.Lock()
	m, ok := r.widgets[id]
	if ok {
		delete(r.widgets, id)
	}
	r.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	m.unsubscribe()
	metrics.ActiveWidgets.Dec()
	return nil
}

// Sweep закрывает виджеты, к которым не обращались дольше ttl.
// Возвращает количество закрытых.
func (r *Registry) Sweep(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	var idle []*Mounted
	for id, m := range r.widgets {
		if m.lastSeen.Before(cutoff) {
			idle = append(idle, m)
			delete(r.widgets, id)
		}
	}
	r.mu.Unlock()

	for _, m := range idle {
		m.unsubscribe()
		metrics.ActiveWidgets.Dec()
	}
	if len(idle) > 0 {
		r.logger.Info("idle widgets evicted", zap.String("op", "widget.Sweep"), zap.Int("count", len(idle)))
	}
	return len(idle)
}

// Run периодически закрывает неактивные виджеты до отмены ctx
func (r *Registry) Run(ctx context.Context, ttl time.Duration) {
	interval := ttl / 2
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ttl)
		}
	}
}

// Len возвращает количество открытых виджетов
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.widgets)
}
