// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name: "no catalog sources",
			mutate: func(c *Config) {
				c.Catalog.MoviesPath = ""
				c.Catalog.ShowsPath = ""
			},
			wantErr: "movies_path or shows_path",
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "port",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Server.Timeout = 0 },
			wantErr: "timeout",
		},
		{
			name:    "zero default count",
			mutate:  func(c *Config) { c.Recommend.DefaultCount = 0 },
			wantErr: "default_count",
		},
		{
			name: "max count below default",
			mutate: func(c *Config) {
				c.Recommend.DefaultCount = 20
				c.Recommend.MaxCount = 10
			},
			wantErr: "max_count",
		},
		{
			name:    "zero survey size",
			mutate:  func(c *Config) { c.Recommend.SurveySize = 0 },
			wantErr: "survey_size",
		},
		{
			name: "persistent profile store without path",
			mutate: func(c *Config) {
				c.Profile.InMemory = false
				c.Profile.StorePath = ""
			},
			wantErr: "store_path",
		},
		{
			name: "in-memory profile store without path is fine",
			mutate: func(c *Config) {
				c.Profile.InMemory = true
				c.Profile.StorePath = ""
			},
			wantErr: "",
		},
		{
			name:    "bad logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "format",
		},
		{
			name: "disabled rate limit skips limit checks",
			mutate: func(c *Config) {
				c.API.RateLimitDisabled = true
				c.API.RateLimitReqs = 0
			},
			wantErr: "",
		},
		{
			name:    "zero rate limit while enabled",
			mutate:  func(c *Config) { c.API.RateLimitReqs = 0 },
			wantErr: "rate_limit_reqs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "movies csv", key: "MOVIES_CSV", want: "catalog.movies_path"},
		{name: "http port", key: "HTTP_PORT", want: "server.port"},
		{name: "duckdb memory", key: "DUCKDB_MAX_MEMORY", want: "database.max_memory"},
		{name: "log level", key: "LOG_LEVEL", want: "logging.level"},
		{name: "profile path", key: "PROFILE_STORE_PATH", want: "profile.store_path"},
		{name: "unmapped is skipped", key: "PATH", want: ""},
		{name: "unmapped random var", key: "MY_SECRET", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	yamlContent := `
server:
  port: 9090
recommend:
  survey_size: 12
`
	if err := os.WriteFile(configFile, []byte(yamlContent), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, configFile)
	t.Setenv("HTTP_PORT", "7000")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// env beats file
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000 (env override)", cfg.Server.Port)
	}
	// file beats defaults
	if cfg.Recommend.SurveySize != 12 {
		t.Errorf("Recommend.SurveySize = %d, want 12 (file override)", cfg.Recommend.SurveySize)
	}
	// untouched defaults survive
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Server.Timeout = %v, want 30s default", cfg.Server.Timeout)
	}
	// comma-separated env slices are split and trimmed
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.API.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.API.CORSOrigins, want)
	}
	for i := range want {
		if cfg.API.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.API.CORSOrigins[i], want[i])
		}
	}
}

func TestServerAddr(t *testing.T) {
	c := ServerConfig{Host: "127.0.0.1", Port: 8095}
	if got := c.Addr(); got != "127.0.0.1:8095" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8095", got)
	}
}
