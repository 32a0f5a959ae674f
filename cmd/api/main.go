package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lastcall/internal/availability"
	"lastcall/internal/config"
	"lastcall/internal/database"
	"lastcall/internal/handler"
	"lastcall/internal/notify"
	"lastcall/internal/repository"
	"lastcall/internal/router"
	"lastcall/internal/service"

	"github.com/go-redis/redis/v8"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting lastcall API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.ApplySchema(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply database schema: %w", err)
	}

	// Initialize the pub/sub broker for flag pushes and cart broadcasts
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	broker, err := notify.NewRedisBroker(ctx, redisClient, cfg.Redis.KeyPrefix, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize notification broker: %w", err)
	}

	// Initialize repositories
	offerRepo := repository.NewOfferRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Initialize services
	monitorCfg := availability.MonitorConfig{Interval: cfg.Availability.PollInterval}
	offerService := service.NewOfferService(offerRepo, broker, monitorCfg, logger)
	cartService := service.NewCartService(cartRepo, offerRepo, broker, nil, logger)
	checkoutService := service.NewCheckoutService(cartRepo, orderRepo, broker, nil, logger)

	// Initialize HTTP handlers
	offerHandler := handler.NewOfferHandler(offerService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)
	vendorHandler := handler.NewVendorHandler(offerService, logger)

	// Initialize router
	mux := router.New(offerHandler, cartHandler, checkoutHandler, vendorHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server. WriteTimeout stays unset: the watch endpoint
	// holds its event stream open for the whole view session.
	server := &http.Server{
		Addr:        cfg.Server.Address(),
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
