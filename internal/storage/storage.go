package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
)

// ErrNotFound is returned by Load for an unknown snapshot name.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is the whole persisted state of the planner.
type Snapshot struct {
	Recipes       []recipe.Recipe  `json:"recipes"`
	MealPlan      planner.MealPlan `json:"mealPlan"`
	HighIronFocus bool             `json:"highIronFocus"`
	Staples       []string         `json:"staples"`
	ShowStaples   bool             `json:"showStaples"`
	CheckedItems  []string         `json:"checkedItems"`
}

// envelope is the layout written by browser persistence: {"state": {...}, "version": n}.
type envelope struct {
	State   *Snapshot `json:"state"`
	Version int       `json:"version"`
}

// Decode reads a snapshot in either the plain or the enveloped layout.
func Decode(data []byte) (*Snapshot, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if env.State != nil {
		return env.State.normalized(), nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap.normalized(), nil
}

func (s *Snapshot) normalized() *Snapshot {
	if s.Recipes == nil {
		s.Recipes = []recipe.Recipe{}
	}
	if s.MealPlan == nil {
		s.MealPlan = planner.MealPlan{}
	}
	if s.Staples == nil {
		s.Staples = []string{}
	}
	if s.CheckedItems == nil {
		s.CheckedItems = []string{}
	}
	return s
}

// SnapshotStore provides file-based storage for state snapshots.
type SnapshotStore struct {
	basePath string
}

// NewSnapshotStore creates a new SnapshotStore and ensures the base directory exists.
func NewSnapshotStore(basePath string) (*SnapshotStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &SnapshotStore{basePath: basePath}, nil
}

// DefaultName names a snapshot after the time it was taken.
func DefaultName(t time.Time) string {
	return "snapshot_" + t.UTC().Format("20060102T150405Z")
}

// sanitizeName makes a snapshot name safe for filenames.
func sanitizeName(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".json")
	return strings.NewReplacer(":", "-", "/", "_", `\`, "_", "..", "_").Replace(name)
}

func (s *SnapshotStore) path(name string) string {
	return filepath.Join(s.basePath, sanitizeName(name)+".json")
}

// Save writes a snapshot, replacing any snapshot with the same name.
func (s *SnapshotStore) Save(name string, snap Snapshot) error {
	if sanitizeName(name) == "" {
		return fmt.Errorf("snapshot name must not be empty")
	}
	data, err := json.MarshalIndent(snap.normalized(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(s.path(name), data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return nil
}

// Load reads a snapshot by name.
func (s *SnapshotStore) Load(name string) (*Snapshot, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return Decode(data)
}

// Exists checks if a snapshot file exists.
func (s *SnapshotStore) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

// List returns the snapshot names, sorted.
func (s *SnapshotStore) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob snapshot files: %w", err)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes a snapshot. Removing a missing snapshot is not an error.
func (s *SnapshotStore) Remove(name string) error {
	if err := os.Remove(s.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove snapshot file %s: %w", name, err)
	}
	return nil
}
