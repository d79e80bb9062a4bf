package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"jarify/internal/amqp"
	"jarify/internal/config"
	apphttp "jarify/internal/http"
	"jarify/internal/kv"
	applog "jarify/internal/log"
	"jarify/internal/notify"
	"jarify/internal/services"
	"jarify/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

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

	jars := services.NewJarService(store, logger.WithComponent("jars"), time.Now)
	reports := services.NewReportService(store, time.Now)
	recurring := services.NewRecurringService(store, notifier, logger.WithComponent(applog.ComponentRecurring), time.Now)

	srv := apphttp.NewServer(":"+cfg.Port, jars, reports, recurring, logger.WithComponent(applog.ComponentHTTP))
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
		cancel()
	}()

	logger.Info("Starting jarify server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
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
