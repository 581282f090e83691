// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

// Package main is the entry point for the Curatus server application.
//
// Curatus is a self-hosted recommendation service for movie and show
// catalogs. It ingests catalog CSV exports, builds content-based and
// collaborative recommendation models, and serves ranked suggestions
// over a REST API.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Ingest: Load catalog and rating CSVs through DuckDB
//  3. Engine: Build the text similarity index and fit or restore the collaborative model
//  4. Profile Store: Open the BadgerDB-backed user profile store
//  5. HTTP Server: REST API under /api/v1 plus Prometheus /metrics
//  6. Supervisor: Run the HTTP server and store maintenance under a suture tree
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (MOVIES_CSV, SHOWS_CSV, HTTP_PORT, ...)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Closes the profile store and flushes pending writes
//
// # Example Usage
//
//	export MOVIES_CSV=./data/movies.csv
//	export SHOWS_CSV=./data/shows.csv
//	export RATINGS_CSV=./data/ratings.csv
//	./curatus
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/curatus/internal/api"
	"github.com/tomtom215/curatus/internal/catalog"
	"github.com/tomtom215/curatus/internal/config"
	"github.com/tomtom215/curatus/internal/ingest"
	"github.com/tomtom215/curatus/internal/logging"
	"github.com/tomtom215/curatus/internal/profile"
	"github.com/tomtom215/curatus/internal/recommend"
	"github.com/tomtom215/curatus/internal/recommend/storage"
	"github.com/tomtom215/curatus/internal/supervisor"
	"github.com/tomtom215/curatus/internal/supervisor/services"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", Version).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting Curatus")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine, err := buildEngine(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build recommendation engine")
	}

	profiles, err := profile.Open(profile.Options{
		Path:     cfg.Profile.StorePath,
		InMemory: cfg.Profile.InMemory,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open profile store")
	}
	defer func() {
		if err := profiles.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing profile store")
		}
	}()
	logging.Info().
		Str("path", cfg.Profile.StorePath).
		Bool("in_memory", cfg.Profile.InMemory).
		Msg("Profile store opened")

	router := api.NewRouter(engine, profiles, cfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewStoreGCService(profiles, cfg.Profile.GCInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor closes the channel.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// buildEngine loads the catalog through DuckDB, constructs the
// recommendation engine, and either trains the collaborative model
// from the configured ratings CSV or restores the latest persisted
// model. A missing or unreadable model is non-fatal; the engine
// degrades to content-based recommendations only.
func buildEngine(ctx context.Context, cfg *config.Config) (*recommend.Engine, error) {
	loader, err := ingest.NewLoader(&cfg.Database)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := loader.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing ingest loader")
		}
	}()

	var items []catalog.Item
	for _, path := range []string{cfg.Catalog.MoviesPath, cfg.Catalog.ShowsPath} {
		if path == "" {
			continue
		}
		loaded, err := loader.LoadCatalog(ctx, path)
		if err != nil {
			return nil, err
		}
		items = append(items, loaded...)
	}

	snap := catalog.NewSnapshot(items)
	engine, err := recommend.NewEngine(snap)
	if err != nil {
		return nil, err
	}
	logging.Info().Int("items", snap.Len()).Msg("Catalog indexed")

	store, err := storage.NewStore(cfg.Recommend.ModelPath)
	if err != nil {
		return nil, err
	}

	if cfg.Recommend.TrainOnStartup && cfg.Recommend.RatingsPath != "" {
		rows, err := loader.LoadRatings(ctx, cfg.Recommend.RatingsPath)
		if err != nil {
			return nil, err
		}
		if err := engine.FitRatings(rows); err != nil {
			logging.Warn().Err(err).Msg("Collaborative training failed, continuing content-only")
			return engine, nil
		}
		st := engine.Collaborative().State()
		meta, err := store.Save(storage.CollaborativeModelName, st, len(st.Users), len(st.Items))
		if err != nil {
			logging.Warn().Err(err).Msg("Failed to persist collaborative model")
		} else {
			logging.Info().
				Int("version", meta.Version).
				Int("users", meta.UserCount).
				Int("items", meta.ItemCount).
				Msg("Collaborative model trained and saved")
		}
		return engine, nil
	}

	var st recommend.State
	meta, err := store.LoadLatest(storage.CollaborativeModelName, &st)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info().Msg("No persisted collaborative model, serving content-only")
		} else {
			logging.Warn().Err(err).Msg("Failed to load collaborative model, serving content-only")
		}
		return engine, nil
	}
	engine.SetCollaborative(recommend.CollaborativeFromState(st))
	logging.Info().
		Int("version", meta.Version).
		Int("users", meta.UserCount).
		Int("items", meta.ItemCount).
		Msg("Collaborative model restored")

	return engine, nil
}
