package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fundspark/pkg/config"
	"fundspark/pkg/devapi"
	"fundspark/pkg/logging"
	"fundspark/pkg/store"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	seed := flag.Bool("seed", false, "add demo campaigns when the store is empty")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback := logging.New("", "")
		fallback.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg.AppEnv, cfg.LogLevel).With().Str("service", "fundspark-api").Logger()

	st, err := store.Open(cfg.DevAPI)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.DevAPI.Store).Msg("failed to open store")
	}
	defer st.Close()

	if *seed {
		n, err := devapi.Seed(context.Background(), st)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to seed campaigns")
		}
		logger.Info().Int("campaigns", n).Msg("seeded")
	}

	srv := &http.Server{
		Addr:              cfg.DevAPIAddr(),
		Handler:           devapi.New(st, logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.DevAPIAddr()).Str("store", cfg.DevAPI.Store).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
