package handlers

import (
	"context"

	"github.com/getrenters/renters-calculator/internal/calculations"
	"github.com/getrenters/renters-calculator/internal/config"
	"github.com/getrenters/renters-calculator/internal/feeschedule"
	"github.com/getrenters/renters-calculator/internal/metrics"
	"github.com/getrenters/renters-calculator/internal/view"
	"github.com/getrenters/renters-calculator/internal/widget"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// ScheduleSource отдает загруженные таблицы комиссий
type ScheduleSource interface {
	Load(ctx context.Context) *feeschedule.Schedule
	Ready() bool
}

// Deps - зависимости обработчиков
type Deps struct {
	Config   *config.Config
	Schedule ScheduleSource
	Registry *widget.Registry
	Calc     *calculations.Calculator
	Tracer   trace.Tracer
	Logger   *zap.Logger
}

func (d *Deps) tracer() trace.Tracer {
	if d.Tracer == nil {
		return noop.NewTracerProvider().Tracer("handlers")
	}
	return d.Tracer
}

func (d *Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d *Deps) controls() view.Controls {
	return view.Controls{AmountMin: d.Config.AmountMin, AmountStep: d.Config.AmountStep}
}

func (d *Deps) project(snap widget.Snapshot) view.View {
	return view.Project(snap, d.Calc.Formatter(), d.controls())
}

// respond отправляет JSON и считает вызов API
func respond(c *fiber.Ctx, endpoint string, status int, data interface{}) error {
	metrics.APICalls.WithLabelValues(endpoint, statusLabel(status)).Inc()
	return c.Status(status).JSON(data)
}

func respondError(c *fiber.Ctx, endpoint string, status int, message string) error {
	return respond(c, endpoint, status, fiber.Map{"error": message})
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "error"
	case status >= 400:
		return "rejected"
	default:
		return "success"
	}
}
