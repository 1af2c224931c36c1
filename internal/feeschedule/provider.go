package feeschedule

import (
	"context"
	"sync"
	"time"

	"github.com/getrenters/renters-calculator/internal/metrics"
	"go.uber.org/zap"
)

// LoadTimeout ограничивает единственную загрузку таблиц
const LoadTimeout = 30 * time.Second

// Provider загружает таблицы один раз и отдает результат всем виджетам.
// Ошибка загрузки не фатальна: вместо данных используется пустой набор.
type Provider struct {
	source Source
	logger *zap.Logger

	once     sync.Once
	done     chan struct{}
	schedule *Schedule
}

// NewProvider создает провайдер для источника
func NewProvider(source Source, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		source: source,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Load выполняет загрузку (только при первом вызове) и возвращает набор банков.
// Отмена ctx первого вызывающего не прерывает загрузку: ее результат общий
// для всех виджетов. Время загрузки ограничено LoadTimeout.
func (p *Provider) Load(ctx context.Context) *Schedule {
	p.once.Do(func() {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
		defer cancel()
		p.schedule = p.load(loadCtx)
		close(p.done)
	})
	<-p.done
	return p.schedule
}

// Ready сообщает, завершена ли загрузка
func (p *Provider) Ready() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *Provider) load(ctx context.Context) *Schedule {
	name := p.source.Name()
	log := p.logger.With(zap.String("op", "feeschedule.Load"), zap.String("source", name))

	data, err := p.source.Fetch(ctx)
	if err != nil {
		log.Warn("fee schedule unavailable, continuing with no banks", zap.Error(err))
		metrics.DatasetLoads.WithLabelValues(name, "error").Inc()
		return Empty()
	}

	schedule, err := Parse(data)
	if err != nil {
		log.Warn("fee schedule is malformed, continuing with no banks", zap.Error(err))
		metrics.DatasetLoads.WithLabelValues(name, "error").Inc()
		return Empty()
	}

	log.Info("fee schedule loaded",
		zap.Int("banks", schedule.Len()),
		zap.Int("selectable", len(schedule.Selectable())),
	)
	metrics.DatasetLoads.WithLabelValues(name, "success").Inc()
	return schedule
}
