package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sungwon/paubox-connector/internal/api"
	"github.com/sungwon/paubox-connector/internal/auth"
	"github.com/sungwon/paubox-connector/internal/config"
	"github.com/sungwon/paubox-connector/internal/credentials"
	"github.com/sungwon/paubox-connector/internal/dispatcher"
	"github.com/sungwon/paubox-connector/internal/logger"
	"github.com/sungwon/paubox-connector/internal/paubox"
)

func main() {
	configDir := flag.String("config", "config", "directory containing config.yaml")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewFromConfig(cfg.Logging)
	log.Info().Msg("starting API server")

	creds := credentials.FromConfig(cfg.Paubox)
	if err := creds.Validate(); err != nil {
		log.Fatal().Err(err).Msg("paubox credentials are not configured")
	}

	client := paubox.NewClient(creds, paubox.NewHTTPClient(cfg.Paubox.Timeout))
	jwtService := auth.NewJWTService(cfg.Auth)
	if !jwtService.Enabled() {
		log.Warn().Msg("auth signing key is not set; /api/v1 is unauthenticated, set PAUBOX_AUTH_SIGNING_KEY in production")
	}

	router := api.NewRouter(api.RouterConfig{
		Executor:       dispatcher.New(client, log),
		Checker:        client,
		JWT:            jwtService,
		Log:            log,
		ContinueOnFail: cfg.Execution.ContinueOnFail,
	})

	// Configure HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Str("account", creds.AccountID).Msg("API server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down server")

	// Graceful shutdown with 30-second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
