package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/notify"
	"storefront/internal/payment"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.SetupDefault(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	deps := AppDeps{
		Gateway:   payment.NewHTTPGateway(cfg.Payment),
		Notifier:  notify.NewLogNotifier(slog.Default()),
		Registry:  prometheus.NewRegistry(),
		AccessLog: true,
	}
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// --- RabbitMQ (optional) ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:    cfg.RabbitMQURL,
			Queues: []string{rabbitmq.OrderEventsQueue, rabbitmq.MailQueue},
		})
		if err != nil {
			slog.Error("failed to initialize RabbitMQ client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer mqClient.Close()

		deps.Notifier = notify.NewQueueNotifier(mqClient, rabbitmq.MailQueue)
		deps.Events = mqClient

		if err := mqClient.Consume(ctx, rabbitmq.OrderEventsQueue, services.HandleOrderEvent); err != nil {
			slog.Error("failed to start order event consumer", slog.String("error", err.Error()))
		}
	} else {
		slog.Warn("RABBITMQ_URL not set, reset mails are logged and order events are not published")
	}

	app, cleanup := NewApp(cfg, db, deps)
	defer cleanup()

	// --- Start HTTP Server ---
	go func() {
		slog.Info("starting server", slog.String("addr", cfg.AppPort))
		if err := app.Listen(cfg.AppPort); err != nil {
			slog.Error("server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("error during shutdown", slog.String("error", err.Error()))
	}
	slog.Info("server gracefully stopped")
}
