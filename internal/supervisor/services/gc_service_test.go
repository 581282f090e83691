// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingGC struct {
	runs atomic.Int64
}

func (c *countingGC) RunGC() bool {
	c.runs.Add(1)
	return false
}

func TestStoreGCServiceTicks(t *testing.T) {
	gc := &countingGC{}
	svc := NewStoreGCService(gc, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := svc.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve = %v, want context.DeadlineExceeded", err)
	}
	if gc.runs.Load() == 0 {
		t.Error("GC never ran before the context expired")
	}
}

func TestStoreGCServiceDefaultInterval(t *testing.T) {
	svc := NewStoreGCService(&countingGC{}, 0)
	if svc.interval != 10*time.Minute {
		t.Errorf("interval = %v, want 10m default", svc.interval)
	}
	if svc.String() != "profile-store-gc" {
		t.Errorf("String = %q", svc.String())
	}
}
