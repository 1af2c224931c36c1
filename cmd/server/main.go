// Команда server запускает калькулятор рассрочки аренды
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getrenters/renters-calculator/internal/calculations"
	"github.com/getrenters/renters-calculator/internal/config"
	"github.com/getrenters/renters-calculator/internal/currency"
	"github.com/getrenters/renters-calculator/internal/feeschedule"
	"github.com/getrenters/renters-calculator/internal/handlers"
	"github.com/getrenters/renters-calculator/internal/logging"
	"github.com/getrenters/renters-calculator/internal/routes"
	"github.com/getrenters/renters-calculator/internal/tracing"
	"github.com/getrenters/renters-calculator/internal/validators"
	"github.com/getrenters/renters-calculator/internal/widget"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	if err := validators.CheckConfig(cfg); err != nil {
		return fmt.Errorf("неверная конфигурация: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("ошибка инициализации логгера: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	tracer, shutdownTracing, err := tracing.InitTracing(cfg.OTELServiceName, cfg.OTELEndpoint, logger)
	if err != nil {
		return fmt.Errorf("ошибка инициализации трейсинга: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	calc := calculations.New(currency.New(cfg.Locale, cfg.Currency))

	source := feeschedule.SourceFromConfig(cfg)
	provider := feeschedule.NewProvider(source, logger)
	go provider.Load(ctx)

	registry := widget.NewRegistry(calc, provider, decimal.NewFromFloat(cfg.DefaultAmount), logger)
	go registry.Run(ctx, cfg.WidgetIdleTTL)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, &handlers.Deps{
		Config:   cfg,
		Schedule: provider,
		Registry: registry,
		Calc:     calc,
		Tracer:   tracer,
		Logger:   logger,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started",
			zap.Int("port", cfg.Port),
			zap.String("dataset_source", source.Name()),
		)
		errCh <- app.Listen(fmt.Sprintf(":%d", cfg.Port))
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ошибка сервера: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown failed", zap.Error(err))
	}
	return nil
}
