// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

// Package storage persists trained recommendation models between
// restarts. Models are gob-encoded, gzip-compressed, and carry a
// SHA-256 checksum so a truncated or corrupted file is detected at
// load time instead of producing silently wrong rankings.
package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// CollaborativeModelName is the stored name of the collaborative
// filtering model.
const CollaborativeModelName = "collaborative"

// ModelMetadata describes a stored model file.
type ModelMetadata struct {
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	SavedAt   time.Time `json:"saved_at"`
	UserCount int       `json:"user_count"`
	ItemCount int       `json:"item_count"`
	Checksum  string    `json:"checksum"`
	SizeBytes int64     `json:"size_bytes"`
}

// storedFile is the on-disk format: metadata plus the compressed
// gob-encoded model state, gob-encoded as a single struct.
type storedFile struct {
	Metadata       ModelMetadata
	CompressedData []byte
}

// Store manages model files under one directory. All operations are
// safe for concurrent use.
type Store struct {
	baseDir string

	mu       sync.RWMutex
	versions map[string]int // latest version per model name
}

// NewStore opens (or creates) a model store directory and scans it for
// existing model versions.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create model directory: %w", err)
	}

	s := &Store{baseDir: baseDir, versions: make(map[string]int)}
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("scan model directory: %w", err)
	}
	return s, nil
}

// scan discovers existing model files named {name}_v{version}.gob.gz.
func (s *Store) scan() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		base, ok := strings.CutSuffix(entry.Name(), ".gob.gz")
		if !ok {
			continue
		}
		name, version := parseModelFilename(base)
		if name == "" {
			continue
		}
		if current, known := s.versions[name]; !known || version > current {
			s.versions[name] = version
		}
	}
	return nil
}

// parseModelFilename splits "collaborative_v3" into ("collaborative", 3).
func parseModelFilename(base string) (name string, version int) {
	idx := strings.LastIndex(base, "_v")
	if idx < 1 {
		return "", 0
	}
	if _, err := fmt.Sscanf(base[idx+2:], "%d", &version); err != nil || version < 1 {
		return "", 0
	}
	return base[:idx], version
}

// Save persists model state as the next version of name and returns
// the written metadata.
func (s *Store) Save(name string, state interface{}, userCount, itemCount int) (*ModelMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(state); err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}

	hash := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return nil, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	version := s.versions[name] + 1
	meta := ModelMetadata{
		Name:      name,
		Version:   version,
		SavedAt:   time.Now().UTC(),
		UserCount: userCount,
		ItemCount: itemCount,
		Checksum:  hex.EncodeToString(hash[:]),
		SizeBytes: int64(compressed.Len()),
	}

	f, err := os.Create(s.modelPath(name, version))
	if err != nil {
		return nil, fmt.Errorf("create model file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sf := storedFile{Metadata: meta, CompressedData: compressed.Bytes()}
	if err := gob.NewEncoder(f).Encode(sf); err != nil {
		return nil, fmt.Errorf("write model file: %w", err)
	}

	s.versions[name] = version
	return &meta, nil
}

// LoadLatest decodes the newest version of name into target, verifying
// the checksum first. Returns os.ErrNotExist when no version exists.
func (s *Store) LoadLatest(name string, target interface{}) (*ModelMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	if !ok {
		return nil, fmt.Errorf("no stored model %q: %w", name, os.ErrNotExist)
	}

	f, err := os.Open(s.modelPath(name, version))
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }()

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed model: %w", err)
	}

	hash := sha256.Sum256(raw)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("model %q v%d checksum mismatch", name, version)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return &sf.Metadata, nil
}

// LatestVersion returns the newest stored version of name.
func (s *Store) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	version, ok := s.versions[name]
	return version, ok
}

// Prune deletes all but the newest keep versions of name.
func (s *Store) Prune(name string, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 1 {
		keep = 1
	}
	latest, ok := s.versions[name]
	if !ok {
		return nil
	}

	for v := latest - keep; v >= 1; v-- {
		path := s.modelPath(name, v)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("prune model %q v%d: %w", name, v, err)
		}
	}
	return nil
}

func (s *Store) modelPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d.gob.gz", name, version))
}
