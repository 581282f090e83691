// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Catalog ingest (DuckDB CSV reads)
// - Index and model training
// - Recommendation serving latency per source
// - User profile store operations (BadgerDB)
// - API endpoint latency and throughput

var (
	// Ingest Metrics
	IngestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_ingest_duration_seconds",
			Help:    "Duration of catalog CSV ingest in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"source"}, // "movies", "shows", "ratings"
	)

	IngestRowsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_ingest_rows_total",
			Help: "Total number of catalog rows loaded from CSV",
		},
		[]string{"source"},
	)

	IngestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_ingest_errors_total",
			Help: "Total number of catalog ingest errors",
		},
		[]string{"source"},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Current number of items in the active catalog snapshot",
		},
	)

	// Training Metrics
	IndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "textindex_build_duration_seconds",
			Help:    "Duration of TF-IDF index builds in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	IndexVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "textindex_vocabulary_terms",
			Help: "Number of distinct terms in the TF-IDF vocabulary",
		},
	)

	ModelFitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "collaborative_fit_duration_seconds",
			Help:    "Duration of collaborative model fits in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	ModelLastFit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "collaborative_last_fit_timestamp_seconds",
			Help: "Unix timestamp of the last successful collaborative model fit",
		},
	)

	// Recommendation Serving Metrics
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of recommendation requests served",
		},
		[]string{"source"}, // "content", "collaborative", "hybrid", "personalized"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Recommendation computation duration in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"source"},
	)

	RecommendationEmpty = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_empty_total",
			Help: "Total number of recommendation requests that returned no items",
		},
		[]string{"source"},
	)

	// Profile Store Metrics
	ProfileMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_mutations_total",
			Help: "Total number of profile store mutations",
		},
		[]string{"operation"}, // "like", "rate", "watch", "delete"
	)

	ProfileStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_store_errors_total",
			Help: "Total number of BadgerDB profile store errors",
		},
		[]string{"operation"},
	)

	ProfileGCRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profile_store_gc_runs_total",
			Help: "Total number of BadgerDB value log GC runs that reclaimed space",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordIngest records a catalog ingest metric
func RecordIngest(source string, rows int, duration time.Duration, err error) {
	IngestDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		IngestErrors.WithLabelValues(source).Inc()
		return
	}
	IngestRowsLoaded.WithLabelValues(source).Add(float64(rows))
}

// RecordIndexBuild records a TF-IDF index build metric
func RecordIndexBuild(vocabularySize int, duration time.Duration) {
	IndexBuildDuration.Observe(duration.Seconds())
	IndexVocabularySize.Set(float64(vocabularySize))
}

// RecordModelFit records a collaborative model fit metric
func RecordModelFit(duration time.Duration, err error) {
	ModelFitDuration.Observe(duration.Seconds())
	if err == nil {
		ModelLastFit.Set(float64(time.Now().Unix()))
	}
}

// RecordRecommendation records a served recommendation metric
func RecordRecommendation(source string, resultCount int, duration time.Duration) {
	RecommendationsServed.WithLabelValues(source).Inc()
	RecommendationDuration.WithLabelValues(source).Observe(duration.Seconds())
	if resultCount == 0 {
		RecommendationEmpty.WithLabelValues(source).Inc()
	}
}

// RecordProfileMutation records a profile store mutation metric
func RecordProfileMutation(operation string, err error) {
	ProfileMutations.WithLabelValues(operation).Inc()
	if err != nil {
		ProfileStoreErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
