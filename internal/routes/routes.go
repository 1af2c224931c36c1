// Package routes описывает HTTP-маршруты калькулятора
package routes

import (
	"github.com/getrenters/renters-calculator/internal/handlers"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes регистрирует все маршруты приложения
func SetupRoutes(app *fiber.App, d *handlers.Deps) {
	app.Get("/health", handlers.HealthCheck(d))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Get("/banks", handlers.ListBanks(d))
	api.Post("/estimate", handlers.Estimate(d))

	widgets := api.Group("/widgets")
	widgets.Post("/", handlers.MountWidget(d))
	widgets.Get("/:id", handlers.GetWidget(d))
	widgets.Patch("/:id", handlers.UpdateWidget(d))
	widgets.Delete("/:id", handlers.UnmountWidget(d))
	widgets.Get("/:id/checkout", handlers.Checkout(d))
}
