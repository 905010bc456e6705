package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fxpredict/config"
	"fxpredict/internal/forecast"
	"fxpredict/internal/metrics"
	"fxpredict/internal/rates"
	"fxpredict/internal/server"
)

func init() {
	// A .env in the working directory is optional; real deployments set the
	// environment directly.
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}
}

func main() {
	cfg := config.Load()

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	log.Info().
		Int("port", cfg.Port).
		Int("history_days", cfg.HistoryDays).
		Float64("rate_limit_rps", cfg.RateLimitRPS).
		Msg("starting fx forecast service")

	engine := forecast.NewEngine(rates.NewGenerator(), cfg)
	srv := server.New(cfg, engine, metrics.New())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown incomplete")
		}
	}

	log.Info().Msg("stopped")
}
