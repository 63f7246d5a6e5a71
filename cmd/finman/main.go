package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finman/internal/amqp"
	"finman/internal/config"
	"finman/internal/core"
	apphttp "finman/internal/http"
	applog "finman/internal/log"
	"finman/internal/services"
	"finman/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	logger.Info("Starting finman")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional; without it transactions stay pending until the
	// worker's periodic sweep picks them up.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without event publishing", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - transaction events will not be published")
	}

	transactions := services.NewTransactionService(repo, amqpClient)
	svcs := apphttp.Services{
		Accounts:     services.NewAccountService(repo),
		Transactions: transactions,
		Goals:        services.NewGoalService(repo),
		Debts:        services.NewDebtService(repo, transactions),
		Recurring:    services.NewRecurringProcessor(repo, transactions),
		Reports:      services.NewReportingService(repo),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Apply any recurring entries that came due while the server was
	// down before accepting requests.
	if count, err := svcs.Recurring.ProcessDueTransactions(ctx, core.Today()); err != nil {
		logger.Error("Startup recurring processing failed", "error", err)
	} else if count > 0 {
		logger.Info("Startup recurring processing complete", "transactions_created", count)
	}

	srv := apphttp.NewServer(":"+cfg.Port, logger, svcs)

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

	logger.Info("Starting finman server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
