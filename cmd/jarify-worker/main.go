package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"jarify/internal/amqp"
	"jarify/internal/config"
	"jarify/internal/export/google"
	"jarify/internal/kv"
	applog "jarify/internal/log"
	"jarify/internal/notify"
	"jarify/internal/services"
	"jarify/internal/storage"
)

// The worker runs the recurring contribution engine on a ticker, sends the
// daily reminder about contributions due tomorrow, and optionally exports a
// backup snapshot to Google Sheets.
func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting jarify-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}

	kvStore, closeStore, err := openBackend(cfg)
	if err != nil {
		logger.Error("Failed to initialize data backend",
			applog.FieldError, err.Error(),
			"backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer closeStore()

	store := storage.New(kvStore, logger.WithComponent(applog.ComponentStorage))

	var notifier notify.Notifier = notify.NewLogNotifier(logger.WithComponent(applog.ComponentNotify))
	if cfg.AMQPURL != "" {
		amqpClient := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		defer amqpClient.Close()
		notifier = notify.Multi{notifier, notify.NewAMQPNotifier(amqpClient)}
		logger.Info("AMQP reminders enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	recurring := services.NewRecurringService(store, notifier, logger.WithComponent(applog.ComponentRecurring), time.Now)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var exporter *google.Exporter
	if cfg.GoogleSpreadsheetID != "" {
		exporter, err = google.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, cfg.GoogleCredentialsFile)
		if err != nil {
			logger.Warn("Failed to initialize Sheets exporter, backups disabled", applog.FieldError, err.Error())
			exporter = nil
		} else {
			logger.Info("Sheets backup export enabled", "spreadsheet", cfg.GoogleSpreadsheetID)
		}
	}

	logger.Info("Recurring contribution engine configured",
		"interval", cfg.RecurringInterval,
		"upcoming_check", cfg.UpcomingCheckInterval,
		"backend", cfg.DataBackend)

	// Run once on startup so a long-stopped worker catches up immediately.
	runProcess(ctx, logger, recurring)
	runUpcomingCheck(ctx, logger, recurring)

	processTicker := time.NewTicker(cfg.RecurringInterval)
	defer processTicker.Stop()
	upcomingTicker := time.NewTicker(cfg.UpcomingCheckInterval)
	defer upcomingTicker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-processTicker.C:
				runProcess(ctx, logger, recurring)
			case <-upcomingTicker.C:
				runUpcomingCheck(ctx, logger, recurring)
				if exporter != nil {
					runExport(ctx, logger, store, exporter)
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())
	cancel()
	logger.Info("Jarify-worker shutdown complete")
}

func runProcess(ctx context.Context, logger *applog.Logger, recurring *services.RecurringService) {
	count, err := recurring.Process(ctx)
	if err != nil {
		logger.Error("Recurring processing failed", applog.FieldError, err.Error())
		return
	}
	if count > 0 {
		logger.Info("Recurring processing complete", applog.FieldProcessed, count)
	}
}

func runUpcomingCheck(ctx context.Context, logger *applog.Logger, recurring *services.RecurringService) {
	if err := recurring.NotifyUpcoming(ctx); err != nil {
		logger.Error("Upcoming contribution check failed", applog.FieldError, err.Error())
	}
}

func runExport(ctx context.Context, logger *applog.Logger, store *storage.Store, exporter *google.Exporter) {
	if err := exporter.Export(ctx, store.LoadJars(ctx), time.Now()); err != nil {
		logger.Error("Backup export failed", applog.FieldError, err.Error())
		return
	}
	logger.Info("Backup export complete")
}

func openBackend(cfg *config.Config) (kv.Store, func(), error) {
	switch cfg.DataBackend {
	case "sqlite":
		s, err := kv.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "memory":
		return kv.NewMemoryStore(), func() {}, nil
	default:
		s, err := kv.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}
