package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/labelbot/internal"
	"github.com/dukerupert/labelbot/internal/address"
	"github.com/dukerupert/labelbot/internal/chat"
	"github.com/dukerupert/labelbot/internal/handler"
	slackhandler "github.com/dukerupert/labelbot/internal/handler/slack"
	"github.com/dukerupert/labelbot/internal/middleware"
	"github.com/dukerupert/labelbot/internal/router"
	"github.com/dukerupert/labelbot/internal/routes"
	"github.com/dukerupert/labelbot/internal/service"
	"github.com/dukerupert/labelbot/internal/shipping"
	"github.com/dukerupert/labelbot/internal/storage"
	"github.com/dukerupert/labelbot/internal/telemetry"
	"github.com/dukerupert/labelbot/internal/usagelog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const (
	metricsNamespace = "labelbot"
	shutdownTimeout  = 30 * time.Second
)

func createServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the Slack command and interaction endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	// Initialize Sentry
	sentryCleanup, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return err
	}
	defer sentryCleanup()

	// Metrics share one registry so /metrics exposes HTTP and bot series together
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewMetrics(metricsNamespace, reg)
	botMetrics := telemetry.NewBotMetrics(metricsNamespace, reg)

	provider, err := newProvider(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize shipping provider: %w", err)
	}
	logger.Info("Shipping provider initialized", "provider", cfg.Shipping.Provider)

	validator, err := newValidator(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize address validator: %w", err)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize label storage: %w", err)
	}
	if store == nil {
		logger.Info("Label archiving disabled")
	}

	usage, err := usagelog.New(cfg.UsageLog.Path,
		usagelog.WithLimit(cfg.UsageLog.Limit),
		usagelog.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to open usage log: %w", err)
	}

	messenger, err := chat.NewSlackMessenger(chat.SlackConfig{
		BotToken: cfg.Slack.BotToken,
		Metrics:  botMetrics,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Slack client: %w", err)
	}

	parser := newParser()
	logger.Info("Address parser initialized", "parser", parserName)

	labels, err := service.NewLabelService(service.LabelServiceConfig{
		Parser:          parser,
		Validator:       validator,
		Provider:        provider,
		ProviderName:    cfg.Shipping.Provider,
		Store:           store,
		Defaults:        cfg.Defaults,
		DownloadTimeout: cfg.Shipping.LabelTimeout,
		MaxLabelBytes:   cfg.Shipping.MaxLabelBytes,
		Metrics:         botMetrics,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize label service: %w", err)
	}

	slackHandler := slackhandler.NewHandler(slackhandler.Deps{
		Labels:    labels,
		Parser:    parser,
		Messenger: messenger,
		Usage:     usage,
		Defaults:  cfg.Defaults,
		Metrics:   botMetrics,
		Logger:    logger,
	}, slackhandler.Config{
		ReturnLabelCommand:  cfg.Slack.ReturnLabelCommand,
		ParseAddressCommand: cfg.Slack.ParseAddressCommand,
	})

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		httpMetrics.Middleware,
		telemetry.SentryMiddleware(),
		middleware.MaxBodySize(),
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	)

	opsDeps := routes.OpsDeps{
		HealthHandler:  handler.Health(time.Now),
		MetricsHandler: httpMetrics.Handler(),
	}
	if store != nil {
		opsDeps.LabelFiles = handler.LabelArchive(store)
		opsDeps.LabelPrefix = cfg.Storage.LocalURL
	}
	routes.RegisterOpsRoutes(r, opsDeps)
	r.Get("/", handler.NotFoundResponse)

	routes.RegisterSlackRoutes(r, routes.SlackDeps{
		CommandHandler:     slackHandler.HandleCommand,
		InteractionHandler: slackHandler.HandleInteraction,
		SigningSecret:      cfg.Slack.SigningSecret,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting labelbot", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}

	// Let in-flight quotes and purchases report back to Slack
	slackHandler.Wait()
	logger.Info("Shutdown complete")
	return nil
}

// newProvider builds the shipping provider selected by SHIPPING_PROVIDER.
// newValidator chains EasyPost address verification after the format checks
// when EasyPost is the provider.
func newValidator(cfg *internal.Config, logger *slog.Logger) (address.Validator, error) {
	basic := address.NewBasicValidator()
	if cfg.Shipping.Provider != "easypost" || !cfg.Shipping.VerifyAddresses {
		return basic, nil
	}

	verifier, err := shipping.NewEasyPostValidator(shipping.EasyPostConfig{
		APIKey:  cfg.Shipping.EasyPostAPIKey,
		Country: cfg.Shipping.Country,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Address verification enabled")
	return address.Chain(basic, verifier), nil
}

func newProvider(cfg *internal.Config, logger *slog.Logger) (shipping.Provider, error) {
	switch cfg.Shipping.Provider {
	case "easypost":
		return shipping.NewEasyPostProvider(shipping.EasyPostConfig{
			APIKey:  cfg.Shipping.EasyPostAPIKey,
			Country: cfg.Shipping.Country,
			Logger:  logger,
		})
	case "flatrate":
		return shipping.NewFlatRateProvider(cfg.FlatRates), nil
	default:
		return nil, fmt.Errorf("unknown shipping provider %q", cfg.Shipping.Provider)
	}
}
