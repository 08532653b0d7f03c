// Package prefs persists lightweight client-side preferences, currently
// just the list/kanban view mode, as a small JSON file.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ViewMode selects how the application list is rendered.
type ViewMode string

const (
	ViewList   ViewMode = "list"
	ViewKanban ViewMode = "kanban"
)

// Valid reports whether the view mode is one of the known values.
func (v ViewMode) Valid() bool {
	return v == ViewList || v == ViewKanban
}

type filePrefs struct {
	ViewMode ViewMode `json:"view_mode"`
}

// Store reads and writes the preferences file.
type Store struct {
	path string
}

// NewStore creates a preference store backed by the given file path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("preferences path is required")
	}
	return &Store{path: path}, nil
}

// ViewMode returns the persisted view mode. A missing or unreadable file
// and an unknown value both fall back to the list view.
func (s *Store) ViewMode() ViewMode {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ViewList
	}
	var p filePrefs
	if err := json.Unmarshal(data, &p); err != nil || !p.ViewMode.Valid() {
		return ViewList
	}
	return p.ViewMode
}

// SetViewMode persists the view mode, creating the file and its parent
// directory on first write.
func (s *Store) SetViewMode(mode ViewMode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown view mode %q", mode)
	}
	data, err := json.MarshalIndent(filePrefs{ViewMode: mode}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}
