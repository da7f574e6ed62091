// Package settings persists the IDE list, the active IDE and the root project
// path in a namespaced key-value store.
package settings

import (
	"fmt"

	"editorjump/internal/models"
)

// Namespace is the configuration section every key lives under.
const Namespace = "editorjumper"

// Keys inside Namespace.
const (
	KeyIDEConfigurations = "ideConfigurations"
	KeySelectedIDE       = "selectedIDE"
	KeyRootProjectPath   = "jetBrainsRootProjectPath"
)

// DefaultSelectedIDE is the active IDE before the user picks one.
const DefaultSelectedIDE = "IDEA"

// Store is a key-value configuration section. Values round-trip through YAML,
// so Get decodes into out the same shapes Update was given.
type Store interface {
	// Get decodes key into out and reports whether the key was present.
	Get(key string, out any) (bool, error)
	// Update persists value under key.
	Update(key string, value any) error
}

// Snapshot is one fresh read of every key.
type Snapshot struct {
	IDEs            []models.IDE
	Selected        string
	RootProjectPath string
}

// Read loads a Snapshot, filling in defaults for missing keys.
func Read(s Store) (Snapshot, error) {
	var snap Snapshot

	found, err := s.Get(KeyIDEConfigurations, &snap.IDEs)
	if err != nil {
		return snap, fmt.Errorf("read %s: %w", KeyIDEConfigurations, err)
	}
	if !found {
		snap.IDEs = models.DefaultIDEs()
	}
	if snap.IDEs == nil {
		snap.IDEs = []models.IDE{}
	}

	found, err = s.Get(KeySelectedIDE, &snap.Selected)
	if err != nil {
		return snap, fmt.Errorf("read %s: %w", KeySelectedIDE, err)
	}
	if !found {
		snap.Selected = DefaultSelectedIDE
	}

	if _, err := s.Get(KeyRootProjectPath, &snap.RootProjectPath); err != nil {
		return snap, fmt.Errorf("read %s: %w", KeyRootProjectPath, err)
	}

	return snap, nil
}

// SetIDEs writes the descriptor list.
func SetIDEs(s Store, ides []models.IDE) error {
	if ides == nil {
		ides = []models.IDE{}
	}
	return s.Update(KeyIDEConfigurations, ides)
}

// SetSelected writes the active IDE name.
func SetSelected(s Store, name string) error {
	return s.Update(KeySelectedIDE, name)
}

// SetRootProjectPath writes the root project path.
func SetRootProjectPath(s Store, path string) error {
	return s.Update(KeyRootProjectPath, path)
}
