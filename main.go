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

	"fundspark/pkg/auth"
	"fundspark/pkg/backend"
	"fundspark/pkg/config"
	"fundspark/pkg/handlers"
	"fundspark/pkg/logging"
	"fundspark/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	initConfig := flag.Bool("init-config", false, "write the effective config to -config and exit")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback := logging.New("", "")
		fallback.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg.AppEnv, cfg.LogLevel)

	if *initConfig {
		if err := cfg.Save(*configPath); err != nil {
			logger.Fatal().Err(err).Msg("failed to write config")
		}
		logger.Info().Str("path", *configPath).Msg("config written")
		return
	}

	client, err := backend.NewClient(backend.Options{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.BackendTimeout(),
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create backend client")
	}
	signer := auth.NewSigner(cfg.Session.Secret, cfg.SessionMaxAge())
	h := handlers.New(cfg, client, logger)

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger),
		auth.Middleware(cfg.Session.CookieName, signer),
	)
	if cfg.Server.StaticDir != "" {
		r.Static("/static", cfg.Server.StaticDir)
	}
	h.Register(r)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr()).Str("backend", cfg.Backend.BaseURL).Msg("fundspark listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

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
