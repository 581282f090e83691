// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package profile

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/curatus/internal/logging"
	"github.com/tomtom215/curatus/internal/metrics"
)

const profileKeyPrefix = "profile:"

// numLockShards is the size of the per-user lock stripe. Writers to
// the same user must serialize to avoid lost updates; writers to
// different users contend only when their IDs hash to the same shard.
const numLockShards = 64

// Options configures the BadgerDB-backed store. InMemory is intended
// for tests.
type Options struct {
	Path     string
	InMemory bool
}

// Store persists profiles in BadgerDB. All mutations are
// read-modify-write cycles guarded by a striped per-user lock, then
// committed in a single transaction, so a profile on disk always
// reflects a full recomputation of its derived fields.
type Store struct {
	db    *badger.DB
	locks [numLockShards]sync.Mutex
	now   func() time.Time
}

// Open opens (or creates) the profile database.
func Open(opts Options) (*Store, error) {
	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		badgerOpts = badger.DefaultOptions(opts.Path)
	}
	badgerOpts = badgerOpts.WithLogger(badgerLogger{})

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open profile store: %w", err)
	}
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored profile, or a default empty profile when the
// user has never been seen. Missing users are not an error.
func (s *Store) Get(userID string) (*Profile, error) {
	var p *Profile
	err := s.db.View(func(txn *badger.Txn) error {
		loaded, err := loadProfile(txn, userID)
		if err != nil {
			return err
		}
		p = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AddLikedTitles unions titles into the user's liked set and recomputes
// genre preferences. Idempotent: re-liking a title changes nothing but
// still bumps LastUpdated.
func (s *Store) AddLikedTitles(userID string, titles []string, titleGenres map[string][]string) (*Profile, error) {
	p, err := s.mutate(userID, "like", func(p *Profile) error {
		p.addLiked(titles)
		return nil
	}, titleGenres)
	return p, err
}

// AddRating upserts a rating for a title and appends a watch event if
// the title is new to the user's history. Ratings outside the integer
// 1-5 scale fail with ErrInvalidRating before any mutation.
func (s *Store) AddRating(userID, title string, rating int, titleGenres map[string][]string) (*Profile, error) {
	if !validRating(rating) {
		return nil, ErrInvalidRating
	}
	p, err := s.mutate(userID, "rate", func(p *Profile) error {
		p.setRating(title, rating, s.now())
		return nil
	}, titleGenres)
	return p, err
}

// AddWatchEvent appends a watch event. Idempotent on title: a second
// event for the same title never produces a second history entry.
func (s *Store) AddWatchEvent(userID, title string, titleGenres map[string][]string) (*Profile, error) {
	p, err := s.mutate(userID, "watch", func(p *Profile) error {
		p.addWatch(title, s.now())
		return nil
	}, titleGenres)
	return p, err
}

// mutate runs a read-modify-write cycle for one user under that user's
// lock, recomputes derived state, and persists the result.
func (s *Store) mutate(userID, op string, apply func(*Profile) error, titleGenres map[string][]string) (*Profile, error) {
	lock := &s.locks[lockShard(userID)]
	lock.Lock()
	defer lock.Unlock()

	var p *Profile
	err := s.db.Update(func(txn *badger.Txn) error {
		loaded, err := loadProfile(txn, userID)
		if err != nil {
			return err
		}
		if err := apply(loaded); err != nil {
			return err
		}
		loaded.RecomputeGenrePreferences(titleGenres)
		loaded.LastUpdated = s.now()

		data, err := json.Marshal(loaded)
		if err != nil {
			return fmt.Errorf("marshal profile: %w", err)
		}
		if err := txn.Set([]byte(profileKeyPrefix+userID), data); err != nil {
			return fmt.Errorf("set profile: %w", err)
		}
		p = loaded
		return nil
	})
	metrics.RecordProfileMutation(op, err)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// loadProfile reads a profile inside a transaction, defaulting to an
// empty profile when the key is absent.
func loadProfile(txn *badger.Txn, userID string) (*Profile, error) {
	item, err := txn.Get([]byte(profileKeyPrefix + userID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return NewProfile(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	p := NewProfile(userID)
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, p)
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return p, nil
}

// RunGC runs one BadgerDB value log GC cycle. Returns true when a log
// file was reclaimed. In-memory stores never reclaim.
func (s *Store) RunGC() bool {
	err := s.db.RunValueLogGC(0.5)
	if err == nil {
		metrics.ProfileGCRuns.Inc()
		return true
	}
	return false
}

func lockShard(userID string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return h.Sum32() % numLockShards
}

// badgerLogger routes BadgerDB's internal logging through zerolog.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Msgf("badger: "+format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Msgf("badger: "+format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug().Msgf("badger: "+format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Debug().Msgf("badger: "+format, args...)
}
