// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/curatus/internal/catalog"
	"github.com/tomtom215/curatus/internal/config"
	"github.com/tomtom215/curatus/internal/logging"
	"github.com/tomtom215/curatus/internal/metrics"
	"github.com/tomtom215/curatus/internal/recommend"
)

// Loader reads catalog and ratings CSV files through DuckDB's read_csv.
// DuckDB handles the parsing edge cases (quoting, embedded newlines,
// encoding) that hand-rolled CSV readers get wrong on real exports; the
// cleaning of individual cells happens in Go.
type Loader struct {
	conn *sql.DB
	log  zerolog.Logger
}

// NewLoader opens a DuckDB connection for CSV ingestion. An empty
// cfg.Path runs in-memory, which is the normal mode since the catalog
// is rebuilt from source files on every startup.
func NewLoader(cfg *config.DatabaseConfig) (*Loader, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Auto-install/auto-load are disabled to prevent hangs in
	// restricted network environments; read_csv needs no extensions.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	return &Loader{
		conn: conn,
		log:  logging.With().Str("component", "ingest").Logger(),
	}, nil
}

// Close releases the DuckDB connection.
func (l *Loader) Close() error {
	if err := l.conn.Close(); err != nil {
		return fmt.Errorf("failed to close duckdb: %w", err)
	}
	return nil
}

// catalogQuery reads a Netflix-style titles export. all_varchar defers
// typing to the Go cleaning helpers so one malformed year cell cannot
// fail the whole file, and coalesce keeps missing cells as empty
// strings instead of NULLs.
const catalogQuery = `
	SELECT
		coalesce(show_id, ''),
		coalesce(type, ''),
		coalesce(title, ''),
		coalesce(director, ''),
		coalesce("cast", ''),
		coalesce(country, ''),
		coalesce(description, ''),
		coalesce(listed_in, ''),
		coalesce(release_year, ''),
		coalesce(duration, ''),
		coalesce(rating, '')
	FROM read_csv(?, header = true, all_varchar = true)`

// LoadCatalog reads one catalog CSV file into cleaned items. Rows
// without an id or title carry no usable identity and are dropped (and
// counted); everything else is kept with empty-field defaults.
func (l *Loader) LoadCatalog(ctx context.Context, path string) ([]catalog.Item, error) {
	start := time.Now()

	rows, err := l.conn.QueryContext(ctx, catalogQuery, path)
	if err != nil {
		metrics.RecordIngest("catalog", 0, time.Since(start), err)
		return nil, fmt.Errorf("failed to read catalog csv %s: %w", path, err)
	}
	defer func() { _ = rows.Close() }()

	var items []catalog.Item
	var dropped int
	for rows.Next() {
		var id, mediaType, title, director, cast, country string
		var description, listedIn, releaseYear, duration, rating string
		if err := rows.Scan(&id, &mediaType, &title, &director, &cast, &country,
			&description, &listedIn, &releaseYear, &duration, &rating); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		if id == "" || title == "" {
			dropped++
			continue
		}
		items = append(items, catalog.Item{
			ID:          id,
			Title:       title,
			Type:        parseMediaType(mediaType),
			Director:    director,
			Cast:        splitList(cast),
			Countries:   splitList(country),
			Description: description,
			Genres:      splitList(listedIn),
			ReleaseYear: parseReleaseYear(releaseYear),
			Duration:    parseDuration(duration),
			Rating:      rating,
		})
	}
	if err := rows.Err(); err != nil {
		metrics.RecordIngest("catalog", 0, time.Since(start), err)
		return nil, fmt.Errorf("failed to iterate catalog rows: %w", err)
	}

	metrics.RecordIngest("catalog", len(items), time.Since(start), nil)
	l.log.Info().
		Str("path", path).
		Int("items", len(items)).
		Int("dropped", dropped).
		Dur("elapsed", time.Since(start)).
		Msg("Catalog CSV loaded")
	return items, nil
}

const ratingsQuery = `
	SELECT
		coalesce(user_id, ''),
		coalesce(item_id, ''),
		coalesce(rating, '0')
	FROM read_csv(?, header = true, all_varchar = true)`

// LoadRatings reads a flat ratings CSV (user_id, item_id, rating) into
// rows for the collaborative model. Rows with a missing key or a
// rating outside [1,5] are dropped and counted.
func (l *Loader) LoadRatings(ctx context.Context, path string) ([]recommend.RatingRow, error) {
	start := time.Now()

	rows, err := l.conn.QueryContext(ctx, ratingsQuery, path)
	if err != nil {
		metrics.RecordIngest("ratings", 0, time.Since(start), err)
		return nil, fmt.Errorf("failed to read ratings csv %s: %w", path, err)
	}
	defer func() { _ = rows.Close() }()

	var out []recommend.RatingRow
	var dropped int
	for rows.Next() {
		var userID, itemID, rating string
		if err := rows.Scan(&userID, &itemID, &rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating row: %w", err)
		}
		score, ok := parseRating(rating)
		if userID == "" || itemID == "" || !ok {
			dropped++
			continue
		}
		out = append(out, recommend.RatingRow{UserID: userID, ItemID: itemID, Score: score})
	}
	if err := rows.Err(); err != nil {
		metrics.RecordIngest("ratings", 0, time.Since(start), err)
		return nil, fmt.Errorf("failed to iterate rating rows: %w", err)
	}

	metrics.RecordIngest("ratings", len(out), time.Since(start), nil)
	l.log.Info().
		Str("path", path).
		Int("ratings", len(out)).
		Int("dropped", dropped).
		Dur("elapsed", time.Since(start)).
		Msg("Ratings CSV loaded")
	return out, nil
}
