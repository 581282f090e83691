// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/curatus/internal/logging"
	"github.com/tomtom215/curatus/internal/metrics"
)

// GarbageCollector matches the profile store's value-log GC method.
// RunGC reports whether anything was reclaimed.
type GarbageCollector interface {
	RunGC() bool
}

// StoreGCService periodically runs BadgerDB value-log garbage
// collection on the profile store. Badger never reclaims value-log
// space on its own; a supervised ticker keeps the store from growing
// without bound.
type StoreGCService struct {
	store    GarbageCollector
	interval time.Duration
	log      zerolog.Logger
}

// NewStoreGCService wraps the profile store's GC as a supervised
// service ticking at interval.
func NewStoreGCService(store GarbageCollector, interval time.Duration) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{
		store:    store,
		interval: interval,
		log:      logging.WithComponent("store-gc"),
	}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			reclaimed := s.store.RunGC()
			metrics.ProfileGCRuns.Inc()
			s.log.Debug().Bool("reclaimed", reclaimed).Msg("Profile store GC cycle")
		}
	}
}

// String implements fmt.Stringer for supervisor log messages.
func (s *StoreGCService) String() string {
	return "profile-store-gc"
}
