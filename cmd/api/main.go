package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inditecg-developers/EmoscreenPaid/internal/client"
	"github.com/inditecg-developers/EmoscreenPaid/internal/config"
	"github.com/inditecg-developers/EmoscreenPaid/internal/repository"
	"github.com/inditecg-developers/EmoscreenPaid/internal/server"
	"github.com/inditecg-developers/EmoscreenPaid/internal/service"
	"github.com/inditecg-developers/EmoscreenPaid/internal/signature"
	"github.com/inditecg-developers/EmoscreenPaid/internal/token"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func newLogger(logCfg *config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logCfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if logCfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(&cfg.Log)
	slog.SetDefault(logger)

	firstPartyPercent, err := decimal.NewFromString(cfg.Split.FirstPartyPercent)
	if err != nil {
		logger.Error("invalid split percent", "value", cfg.Split.FirstPartyPercent, "error", err)
		os.Exit(1)
	}

	db, err := client.InitDBClient(&cfg.Database)
	if err != nil {
		logger.Error("init database", "error", err)
		os.Exit(1)
	}

	creds := cfg.Razorpay.Credentials()
	verifier := signature.NewVerifier(creds.KeySecret, creds.WebhookSecret)
	gatewayClient := client.NewGatewayClient(&cfg.Razorpay)
	notificationQueue := client.NewNotificationQueue(&cfg.Mailer)
	linkIssuer := token.NewIssuer(cfg.Link.Secret, time.Duration(cfg.Link.TTLDays)*24*time.Hour)

	orderRepo := repository.NewOrderRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	splitRepo := repository.NewRevenueSplitRepository(db)
	emailLogRepo := repository.NewEmailLogRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	mailerService := service.NewMailerService(db, notificationQueue, emailLogRepo, logger)
	engine := service.NewReconciliationEngine(
		db, verifier,
		orderRepo, transactionRepo, splitRepo, webhookEventRepo,
		mailerService, firstPartyPercent, logger,
	)
	orderService := service.NewOrderService(
		db, gatewayClient,
		orderRepo, transactionRepo,
		mailerService, linkIssuer,
		cfg.BaseURL, creds.KeyID,
		time.Duration(cfg.Link.TTLDays)*24*time.Hour,
		logger,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(orderService, engine, mailerService, linkIssuer)

	logger.Info("starting HTTP server", "addr", serverAddr, "env", cfg.Environment.Name)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
		os.Exit(1)
	}
}
