package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/adala/case-intake/internal/ai"
	"github.com/adala/case-intake/internal/config"
	httpapi "github.com/adala/case-intake/internal/http"
	"github.com/adala/case-intake/internal/service"
	"github.com/adala/case-intake/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "case-intake").Logger()

	classifier, err := ai.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build classifier")
	}
	logger.Info().Str("classifier", cfg.Classifier).Msg("classifier ready")

	st := store.New()
	if cfg.SeedDemoCases {
		if err := store.Seed(st); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed demo cases")
		}
		logger.Info().Int("cases", st.Len()).Msg("demo cases loaded")
	}

	intake := &service.IntakeService{
		Store:      st,
		Classifier: classifier,
		Logger:     logger.With().Str("component", "intake").Logger(),
		Validator:  validator.New(),
		Timeout:    cfg.ClassifyTimeout,
	}

	router := httpapi.Router(cfg, st, intake, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
