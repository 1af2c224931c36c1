package handlers

import (
	"errors"
	"fmt"

	"github.com/getrenters/renters-calculator/internal/feeschedule"
	"github.com/getrenters/renters-calculator/internal/metrics"
	"github.com/getrenters/renters-calculator/internal/validators"
	"github.com/getrenters/renters-calculator/internal/widget"
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// HealthCheck сообщает, загружены ли таблицы комиссий
func HealthCheck(d *Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dataset := "loading"
		if d.Schedule.Ready() {
			dataset = "loaded"
		}
		return c.JSON(fiber.Map{
			"status":  "ok",
			"dataset": dataset,
			"widgets": d.Registry.Len(),
		})
	}
}

type bankInfo struct {
	Name      string `json:"name"`
	Country   string `json:"country,omitempty"`
	MinAmount string `json:"min_amount"`
	Tenures   []int  `json:"tenures"`
}

// ListBanks отдает банки, у которых есть хотя бы один срок
func ListBanks(d *Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		const endpoint = "banks"

		ctx, span := d.tracer().Start(c.UserContext(), endpoint)
		defer span.End()

		schedule := d.Schedule.Load(ctx)
		banks := make([]bankInfo, 0, schedule.Len())
		for _, inst := range schedule.Selectable() {
			banks = append(banks, bankInfo{
				Name:      inst.Name,
				Country:   inst.Country,
				MinAmount: inst.MinAmount.StringFixed(2),
				Tenures:   inst.Tenures(),
			})
		}
		span.SetAttributes(attribute.Int("banks", len(banks)))
		return respond(c, endpoint, fiber.StatusOK, fiber.Map{"banks": banks})
	}
}

// Estimate считает платеж без открытия виджета
func Estimate(d *Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		const endpoint = "estimate"

		ctx, span := d.tracer().Start(c.UserContext(), endpoint)
		defer span.End()

		var req estimateRequest
		if err := c.BodyParser(&req); err != nil {
			span.SetAttributes(attribute.String("error", "bad_request"))
			metrics.Estimates.WithLabelValues("api", "bad_request").Inc()
			return respondError(c, endpoint, fiber.StatusBadRequest, "invalid request body")
		}
		principal := req.Amount.Decimal()
		if err := validators.CheckPrincipalAmount(d.Config, principal); err != nil {
			return d.rejectEstimate(c, endpoint, fmt.Errorf("invalid parameters: %w", err))
		}

		span.SetAttributes(
			attribute.String("principal", principal.String()),
			attribute.String("bank", req.Bank),
			attribute.Int("tenure", req.Tenure),
		)
		if err := validators.CheckMonths(d.Config, req.Tenure); err != nil {
			return d.rejectEstimate(c, endpoint, fmt.Errorf("invalid parameters: %w", err))
		}

		schedule := d.Schedule.Load(ctx)
		var inst *feeschedule.Institution
		if req.Bank != "" {
			found, ok := schedule.Lookup(req.Bank)
			if !ok {
				metrics.Estimates.WithLabelValues("api", "unknown_bank").Inc()
				return respondError(c, endpoint, fiber.StatusNotFound, fmt.Sprintf("bank %q not found", req.Bank))
			}
			inst = found
		}
		if inst != nil && req.Tenure > 0 && !inst.HasTenure(req.Tenure) {
			return d.rejectEstimate(c, endpoint, fmt.Errorf("tenure %d is not offered by %s", req.Tenure, inst.Name))
		}

		result := d.Calc.Estimate(inst, req.Tenure, principal)
		status := "success"
		if !result.HasEstimate {
			status = "no_estimate"
		}
		metrics.Estimates.WithLabelValues("api", status).Inc()

		snap := widget.Snapshot{
			Phase:        widget.Ready,
			Institutions: schedule.Names(),
			Principal:    principal,
			Tenure:       req.Tenure,
			Result:       result,
		}
		if inst != nil {
			snap.Institution = inst.Name
			snap.Tenures = inst.Tenures()
		}
		return respond(c, endpoint, fiber.StatusOK, fiber.Map{
			"result":   result,
			"schedule": result.Schedule(),
			"view":     d.project(snap),
		})
	}
}

func (d *Deps) rejectEstimate(c *fiber.Ctx, endpoint string, err error) error {
	metrics.Estimates.WithLabelValues("api", "validation_error").Inc()
	return respondError(c, endpoint, fiber.StatusBadRequest, err.Error())
}

// MountWidget открывает виджет и отдает его первое представление
func MountWidget(d *Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		const endpoint = "widget_mount"

		ctx, span := d.tracer().Start(c.UserContext(), endpoint)
		defer span.End()

		var req mountRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return respondError(c, endpoint, fiber.StatusBadRequest, "invalid request body")
			}
		}

		m := d.Registry.Mount(ctx, req.Theme)
		span.SetAttributes(attribute.String("widget_id", m.ID))
		return respond(c, endpoint, fiber.StatusCreated, d.widgetBody(m, m.State.Snapshot()))
	}
}

// GetWidget отдает текущее представление виджета
func GetWidget(d *Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		const endpoint = "widget_get"

		m, err := d.Registry.Get(c.Params("id"))
		if err != nil {
			return d.widgetError(c, endpoint, err)
		}
		return respond(c, endpoint, fiber.StatusOK, d.widgetBody(m, m.State.Snapshot()))
	}
}

// UpdateWidget применяет ввод пользователя: сумму, банк, срок, в этом порядке
func UpdateWidget(d *Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		const endpoint = "widget_update"

		_, span := d.tracer().Start(c.UserContext(), endpoint)
		defer span.End()

		m, err := d.Registry.Get(c.Params("id"))
		if err != nil {
			return d.widgetError(c, endpoint, err)
		}
		span.SetAttributes(attribute.String("widget_id", m.ID))

		var req updateRequest
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, endpoint, fiber.StatusBadRequest, "invalid request body")
		}

		snap := m.State.Snapshot()
		if req.Amount != nil {
			principal := req.Amount.Decimal()
			if err := validators.CheckPrincipalAmount(d.Config, principal); err != nil {
				span.SetAttributes(attribute.String("error", "validation_error"))
				return respondError(c, endpoint, fiber.StatusBadRequest, fmt.Sprintf("invalid parameters: %v", err))
			}
			span.SetAttributes(attribute.String("principal", principal.String()))
			snap = m.State.SetPrincipalValue(principal)
		}
		if req.Bank != nil {
			snap = m.State.SetInstitution(*req.Bank)
		}
		if req.Tenure != nil {
			var applied bool
			snap, applied = m.State.SetTenure(*req.Tenure)
			if !applied {
				d.logger().Debug("tenure ignored",
					zap.String("widget_id", m.ID),
					zap.Int("tenure", *req.Tenure),
				)
			}
		}
		return respond(c, endpoint, fiber.StatusOK, d.widgetBody(m, snap))
	}
}

// UnmountWidget закрывает виджет
func UnmountWidget(d *Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		const endpoint = "widget_unmount"

		if err := d.Registry.Unmount(c.Params("id")); err != nil {
			return d.widgetError(c, endpoint, err)
		}
		metrics.APICalls.WithLabelValues(endpoint, statusLabel(fiber.StatusNoContent)).Inc()
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Checkout переводит пользователя на страницу оплаты
func Checkout(d *Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		const endpoint = "checkout"

		_, span := d.tracer().Start(c.UserContext(), endpoint)
		defer span.End()

		m, err := d.Registry.Get(c.Params("id"))
		if err != nil {
			return d.widgetError(c, endpoint, err)
		}

		res := m.State.Checkout(d.Config.CheckoutURL)
		metrics.CheckoutActions.WithLabelValues(res.Outcome.String()).Inc()

		switch res.Outcome {
		case widget.CheckoutIneligible:
			return respondError(c, endpoint, fiber.StatusUnprocessableEntity, res.Reason)
		case widget.CheckoutNoop:
			metrics.APICalls.WithLabelValues(endpoint, statusLabel(fiber.StatusNoContent)).Inc()
			return c.SendStatus(fiber.StatusNoContent)
		}

		span.SetAttributes(attribute.String("checkout_url", res.URL))
		metrics.APICalls.WithLabelValues(endpoint, statusLabel(fiber.StatusFound)).Inc()
		d.logger().Info("checkout",
			zap.String("widget_id", m.ID),
			zap.String("bank", res.Institution),
			zap.Int("tenure", res.Tenure),
		)
		return c.Redirect(res.URL, fiber.StatusFound)
	}
}

func (d *Deps) widgetBody(m *widget.Mounted, snap widget.Snapshot) fiber.Map {
	return fiber.Map{
		"id":    m.ID,
		"theme": m.Theme,
		"view":  d.project(snap),
	}
}

func (d *Deps) widgetError(c *fiber.Ctx, endpoint string, err error) error {
	if errors.Is(err, widget.ErrNotFound) {
		return respondError(c, endpoint, fiber.StatusNotFound, err.Error())
	}
	d.logger().Error("widget lookup failed", zap.String("endpoint", endpoint), zap.Error(err))
	return respondError(c, endpoint, fiber.StatusInternalServerError, "internal error")
}
