package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/config"
	httpapi "github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/http"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/logging"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/matching"
	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (default: $CONFIG_PATH or config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Timestamp: true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.Source, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.Source.Driver).Msg("open catalog")
	}
	defer store.Close()

	w, err := matching.LoadWeightsFromFile(cfg.Ranking.WeightsPath)
	if err != nil {
		logging.Warn().Err(err).Msg("use default weights")
		w = matching.DefaultWeights()
	}

	opts, err := engineOptions(cfg.Ranking)
	if err != nil {
		logging.Fatal().Err(err).Msg("engine options")
	}
	engine := matching.NewEngine(w, opts, logging.Component("matching"))
	ew := engine.Weights()
	logging.Info().
		Float64("length", ew.Length.Active).
		Float64("age", ew.Age.Active).
		Float64("rating", ew.Rating.Active).
		Float64("popularity", ew.Popularity.Active).
		Float64("language", ew.Language.Active).
		Msg("ranking weights loaded")
	srv := httpapi.NewServer(engine, store, logging.Logger())

	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logging.Info().Str("address", cfg.Server.Address).Str("driver", cfg.Source.Driver).Msg("API listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal().Err(err).Msg("server error")
	}
	logging.Info().Msg("server stopped")
}

func engineOptions(rc config.RankingConfig) (matching.Options, error) {
	sim, err := matching.SimilarityByName(rc.Similarity)
	if err != nil {
		return matching.Options{}, err
	}
	return matching.Options{
		TextCandidates:    rc.TextCandidates,
		TopN:              rc.TopN,
		MaxRows:           rc.MaxRows,
		Workers:           rc.Workers,
		ParallelThreshold: rc.ParallelThreshold,
		SoftThresholds:    rc.SoftThresholds,
		Similarity:        sim,
	}, nil
}
