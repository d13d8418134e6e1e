package lookup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileState persists the focus as a small YAML file holding the display
// parameter, e.g. "display: star-0001".
type FileState struct {
	Path string
}

type stateFile struct {
	Display string `yaml:"display"`
}

// Load implements FocusPersistence. A missing file means no focus.
func (f FileState) Load() (string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read state: %w", err)
	}

	var st stateFile
	if err := yaml.Unmarshal(data, &st); err != nil {
		return "", fmt.Errorf("parse state %s: %w", f.Path, err)
	}
	return st.Display, nil
}

// Save implements FocusPersistence.
func (f FileState) Save(id string) error {
	if id == "" {
		return f.Clear()
	}
	data, err := yaml.Marshal(stateFile{Display: id})
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// Clear implements FocusPersistence.
func (f FileState) Clear() error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear state: %w", err)
	}
	return nil
}

// MemoryState keeps the focus in memory. The zero value is ready to use.
type MemoryState struct {
	mu sync.Mutex
	id string
}

// NewMemoryState returns a store preloaded with id.
func NewMemoryState(id string) *MemoryState {
	return &MemoryState{id: id}
}

// Load implements FocusPersistence.
func (m *MemoryState) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, nil
}

// Save implements FocusPersistence.
func (m *MemoryState) Save(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = id
	return nil
}

// Clear implements FocusPersistence.
func (m *MemoryState) Clear() error {
	return m.Save("")
}
