package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-adoption-api/internal/adapters/auth/jwtauth"
	"pet-adoption-api/internal/adapters/media/s3store"
	"pet-adoption-api/internal/adapters/storage/postgres"
	"pet-adoption-api/internal/config"
	"pet-adoption-api/internal/platform/logger"
	"pet-adoption-api/internal/ports/auth"
	"pet-adoption-api/internal/router"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		// todavía no hay logger configurado
		panic(err)
	}

	log := logger.New(cfg.Log.Level)

	// Auth: con secret configurado emitimos y verificamos JWT reales.
	// Sin secret queda el modo dev por headers (solo para desarrollo local).
	var (
		verifier auth.AuthVerifier
		issuer   auth.TokenIssuer
	)
	if cfg.JWT.Secret != "" {
		mgr := jwtauth.NewManager(cfg.JWT.Secret, cfg.JWT.TTL())
		verifier = mgr
		issuer = mgr
	} else {
		log.Warn().Msg("JWT_SECRET not set, running with debug-header auth")
	}

	opts := router.Options{
		AuthVerifier: verifier,
		TokenIssuer:  issuer,
		Logger:       log,
		MoodInterval: cfg.Mood.Interval(),
		SadAfter:     cfg.Mood.SadAfter(),
		MoodWebhook:  cfg.Mood.WebhookURL,
	}

	if cfg.Database.DSN != "" {
		db, err := postgres.Open(cfg.Database.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer db.Close()
		opts.DB = db
		log.Info().Msg("storage: postgres")
	} else {
		log.Info().Msg("storage: in-memory")
	}

	if cfg.Media.Bucket != "" {
		store, err := s3store.New(context.Background(), s3store.Config{
			Region:    cfg.Media.Region,
			Bucket:    cfg.Media.Bucket,
			AccessKey: cfg.Media.AccessKey,
			SecretKey: cfg.Media.SecretKey,
			Endpoint:  cfg.Media.Endpoint,
			BaseURL:   cfg.Media.BaseURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("s3 store init failed")
		}
		opts.Images = store
		log.Info().Str("bucket", cfg.Media.Bucket).Msg("media: s3")
	}

	handler, watcher := router.New(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go watcher.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
