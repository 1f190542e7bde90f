package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"moneta/internal/amqp"
	"moneta/internal/backend"
	"moneta/internal/cli"
	"moneta/internal/core"
	apphttp "moneta/internal/http"
	"moneta/internal/log"
	"moneta/internal/store"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()
	result, err := backend.Open(ctx, backendCfg, logger)
	if err != nil {
		logger.Error("Failed to open storage backend",
			log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	// event publishing is optional; without AMQP the server just runs
	// without a mirror feed
	var publisher store.EventPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		publisher = amqpClient
		logger.Info("AMQP event publishing enabled",
			"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	defaults := core.Settings{Currency: cfg.DefaultCurrency, Language: cfg.DefaultLanguage}
	ledger := store.New(result.Repo, publisher, defaults, logger)
	ledger.Load(ctx)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:           ":" + cfg.Port,
		Ledger:         ledger,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		CacheTTL:       cfg.CacheTTL,
		Logger:         logger,
	})

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		ledger.Close()
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", log.FieldError, err)
			}
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Storage cleanup error", log.FieldError, err)
		}
	})

	logger.Info("Starting moneta server",
		"port", cfg.Port, log.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-shutdownCtx.Done()
	<-done
	logger.Info("Server stopped gracefully")
}
