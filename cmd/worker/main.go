package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ivkovb/printstudio/internal"
	"github.com/ivkovb/printstudio/internal/email"
	"github.com/ivkovb/printstudio/internal/telemetry"
	"github.com/ivkovb/printstudio/internal/worker"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Connect to the message bus
	logger.Info("Connecting to message bus...", "url", cfg.NATS.URL)
	nc, err := nats.Connect(cfg.NATS.URL,
		nats.Name("printstudio-worker"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return fmt.Errorf("message bus connection failed: %w", err)
	}
	defer nc.Close()
	logger.Info("Message bus connection established")

	// Pick the email sender. Without credentials we log instead of sending,
	// so local runs never hit the provider.
	var sender email.Sender
	if cfg.Email.ServiceID == "" || cfg.Email.PublicKey == "" {
		logger.Warn("Email credentials not set, running in demo mode")
		sender = email.NewDemoSender(logger)
	} else {
		sender = email.NewRESTSender(cfg.Email.APIURL, cfg.Email.ServiceID, cfg.Email.PublicKey)
	}

	emailService := email.NewService(
		sender,
		cfg.Email.OrderTemplateID,
		cfg.Email.AdminTemplateID,
		cfg.Admin.Email,
		cfg.Email.FromName,
	)

	metrics := telemetry.NewBusinessMetrics("printstudio")

	// Expose metrics for scraping
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info("Starting metrics server", "address", cfg.MetricsAddr)
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			logger.Error("Metrics server failed", "error", err)
		}
	}()

	w := worker.NewWorker(nc, emailService, metrics, worker.Config{
		QueueGroup: cfg.NATS.QueueGroup,
	}, logger)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("worker failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
