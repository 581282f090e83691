// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML config file, and environment variables (highest priority).
//
// Configuration Categories:
//
//  1. Data:
//     - Catalog: CSV source files for the movie and show catalogs
//     - Database: DuckDB settings used during catalog ingest
//
//  2. Recommendation:
//     - Recommend: trained model storage, survey size, result counts
//     - Profile: BadgerDB store for per-user taste profiles
//
//  3. Serving:
//     - Server: HTTP listener settings
//     - API: pagination, rate limiting, CORS
//
//  4. Observability:
//     - Logging: level and output format
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Catalog   CatalogConfig   `koanf:"catalog"`
	Database  DatabaseConfig  `koanf:"database"`
	Recommend RecommendConfig `koanf:"recommend"`
	Profile   ProfileConfig   `koanf:"profile"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// CatalogConfig points at the CSV files the catalog is ingested from.
// Both paths are optional individually but at least one must be set.
type CatalogConfig struct {
	MoviesPath string `koanf:"movies_path"`
	ShowsPath  string `koanf:"shows_path"`
}

// DatabaseConfig holds DuckDB settings for catalog ingest.
// An empty Path runs DuckDB in-memory, which is the normal mode since
// the catalog is rebuilt from CSV on every startup.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = use runtime.NumCPU()
}

// RecommendConfig controls the recommendation engine.
type RecommendConfig struct {
	DefaultCount   int    `koanf:"default_count"`
	MaxCount       int    `koanf:"max_count"`
	SurveySize     int    `koanf:"survey_size"`
	ModelPath      string `koanf:"model_path"`
	TrainOnStartup bool   `koanf:"train_on_startup"`
	RatingsPath    string `koanf:"ratings_path"` // optional CSV of historical ratings
}

// ProfileConfig holds BadgerDB settings for the user profile store.
type ProfileConfig struct {
	StorePath  string        `koanf:"store_path"`
	InMemory   bool          `koanf:"in_memory"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig holds request handling limits for the HTTP API.
type APIConfig struct {
	DefaultPageSize   int           `koanf:"default_page_size"`
	MaxPageSize       int           `koanf:"max_page_size"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if c.Catalog.MoviesPath == "" && c.Catalog.ShowsPath == "" {
		return fmt.Errorf("catalog: at least one of movies_path or shows_path must be set")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server: port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server: timeout must be positive, got %v", c.Server.Timeout)
	}

	if c.Recommend.DefaultCount < 1 {
		return fmt.Errorf("recommend: default_count must be at least 1, got %d", c.Recommend.DefaultCount)
	}
	if c.Recommend.MaxCount < c.Recommend.DefaultCount {
		return fmt.Errorf("recommend: max_count %d must be >= default_count %d",
			c.Recommend.MaxCount, c.Recommend.DefaultCount)
	}
	if c.Recommend.SurveySize < 1 {
		return fmt.Errorf("recommend: survey_size must be at least 1, got %d", c.Recommend.SurveySize)
	}

	if !c.Profile.InMemory && c.Profile.StorePath == "" {
		return fmt.Errorf("profile: store_path is required unless in_memory is set")
	}
	if c.Profile.GCInterval <= 0 {
		return fmt.Errorf("profile: gc_interval must be positive, got %v", c.Profile.GCInterval)
	}

	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api: default_page_size must be at least 1, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api: max_page_size %d must be >= default_page_size %d",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs < 1 {
			return fmt.Errorf("api: rate_limit_reqs must be at least 1, got %d", c.API.RateLimitReqs)
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("api: rate_limit_window must be positive, got %v", c.API.RateLimitWindow)
		}
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging: format must be json or console, got %q", c.Logging.Format)
	}

	return nil
}
