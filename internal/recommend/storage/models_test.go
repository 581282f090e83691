// Curatus - Media Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curatus

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/curatus/internal/recommend"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	state := recommend.State{
		Users:  []string{"alice", "bob"},
		Items:  []string{"s1", "s2"},
		Matrix: [][]float64{{5, 0}, {0, 3}},
	}
	meta, err := store.Save(CollaborativeModelName, state, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Version != 1 || meta.UserCount != 2 || meta.Checksum == "" {
		t.Errorf("metadata = %+v, want version 1 with checksum", meta)
	}

	var loaded recommend.State
	loadedMeta, err := store.LoadLatest(CollaborativeModelName, &loaded)
	if err != nil {
		t.Fatal(err)
	}
	if loadedMeta.Checksum != meta.Checksum {
		t.Errorf("checksum changed across round trip")
	}
	if len(loaded.Users) != 2 || loaded.Users[0] != "alice" {
		t.Errorf("loaded users = %v, want [alice bob]", loaded.Users)
	}
	if loaded.Matrix[0][0] != 5 || loaded.Matrix[1][1] != 3 {
		t.Errorf("loaded matrix = %v", loaded.Matrix)
	}

	// the restored model must answer queries
	model := recommend.CollaborativeFromState(loaded)
	if !model.HasUser("alice") {
		t.Error("restored model lost users")
	}
	if got := model.Recommend("alice", 5); len(got) != 1 || got[0].ItemID != "s2" {
		t.Errorf("restored model Recommend(alice) = %v, want [s2]", got)
	}
}

func TestVersionsIncrementAndRescan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := store.Save(CollaborativeModelName, recommend.State{Users: []string{"u"}}, 1, 0); err != nil {
			t.Fatal(err)
		}
	}
	if v, ok := store.LatestVersion(CollaborativeModelName); !ok || v != 3 {
		t.Errorf("LatestVersion = (%d, %v), want (3, true)", v, ok)
	}

	// a fresh store over the same directory discovers the versions
	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := reopened.LatestVersion(CollaborativeModelName); !ok || v != 3 {
		t.Errorf("rescanned LatestVersion = (%d, %v), want (3, true)", v, ok)
	}
}

func TestLoadLatestMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	var target recommend.State
	_, err = store.LoadLatest(CollaborativeModelName, &target)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadLatest on empty store error = %v, want os.ErrNotExist", err)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 4; i++ {
		if _, err := store.Save(CollaborativeModelName, recommend.State{Users: []string{"u"}}, 1, 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Prune(CollaborativeModelName, 2); err != nil {
		t.Fatal(err)
	}

	for v := 1; v <= 4; v++ {
		path := filepath.Join(dir, fmt.Sprintf("collaborative_v%d.gob.gz", v))
		_, statErr := os.Stat(path)
		if v <= 2 && statErr == nil {
			t.Errorf("version %d should have been pruned", v)
		}
		if v >= 3 && statErr != nil {
			t.Errorf("version %d should have been kept: %v", v, statErr)
		}
	}
}

func TestParseModelFilename(t *testing.T) {
	tests := []struct {
		name        string
		base        string
		wantName    string
		wantVersion int
	}{
		{name: "simple", base: "collaborative_v3", wantName: "collaborative", wantVersion: 3},
		{name: "name with underscore", base: "text_index_v12", wantName: "text_index", wantVersion: 12},
		{name: "no version", base: "collaborative", wantName: "", wantVersion: 0},
		{name: "bad version", base: "collaborative_vx", wantName: "", wantVersion: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotName, gotVersion := parseModelFilename(tt.base)
			if gotName != tt.wantName || gotVersion != tt.wantVersion {
				t.Errorf("parseModelFilename(%q) = (%q, %d), want (%q, %d)",
					tt.base, gotName, gotVersion, tt.wantName, tt.wantVersion)
			}
		})
	}
}
