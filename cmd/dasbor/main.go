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

	"github.com/Spirit-void/dasbor-finansial/internal/amqp"
	"github.com/Spirit-void/dasbor-finansial/internal/backend"
	"github.com/Spirit-void/dasbor-finansial/internal/config"
	apphttp "github.com/Spirit-void/dasbor-finansial/internal/http"
	"github.com/Spirit-void/dasbor-finansial/internal/loader"
	"github.com/Spirit-void/dasbor-finansial/internal/services"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, cleanup, err := backend.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}()
	}

	l := loader.New(store, loader.Options{
		TTL:               cfg.CacheTTL,
		RowLimit:          cfg.RowLimit,
		TransactionsSheet: cfg.TransactionsSheet,
		AssetsSheet:       cfg.AssetsSheet,
	})
	l.Cache().StartCleanup(time.Minute)
	defer l.Cache().Stop()

	// The event bus is optional: without it each instance still
	// invalidates its own cache, peers just wait out the TTL.
	var events services.EventPublisher
	var bus *amqp.Client
	if cfg.AMQPURL != "" {
		bus, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, running without write-event bus", "error", err)
		} else {
			events = bus
			defer bus.Close()
		}
	}

	svc := services.NewFinanceService(store, l, events)

	if bus != nil {
		go consumeWriteEvents(ctx, cfg, svc, bus)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        apphttp.NewServer(svc).Handler(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting dasbor server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

// consumeWriteEvents keeps a consumer alive, reconnecting with backoff
// when the broker drops the connection.
func consumeWriteEvents(ctx context.Context, cfg *config.Config, svc *services.FinanceService, bus *amqp.Client) {
	attempt := 0
	for {
		err := bus.ConsumeWriteEvents(ctx, svc.HandleWriteEvent)
		if ctx.Err() != nil {
			return
		}
		if err != nil && !amqp.IsConnectionError(err) {
			slog.Error("Write-event consumer stopped", "error", err)
			return
		}

		bus.Close()
		for {
			wait := amqp.ExponentialBackoff(attempt)
			attempt++
			slog.Warn("Write-event consumer disconnected, reconnecting",
				"error", err,
				"wait", wait,
				"attempt", attempt)
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}

			next, dialErr := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
			if dialErr != nil {
				err = dialErr
				continue
			}
			bus = next
			attempt = 0
			break
		}
	}
}
