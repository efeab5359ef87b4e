package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrExists is returned by Save when the output is present and overwriting
// is disabled
var ErrExists = errors.New("output already exists")

// Manager writes rendered documents into an output directory
type Manager struct {
	outputDir string
	extension string
	overwrite bool
	written   map[string]bool
	mu        sync.RWMutex
}

// NewManager creates the output directory if needed. extension is appended
// to every output name, e.g. ".html".
func NewManager(outputDir, extension string, overwrite bool) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{
		outputDir: outputDir,
		extension: extension,
		overwrite: overwrite,
		written:   make(map[string]bool),
	}, nil
}

// OutputName maps an input path to its output name: the base name with the
// extension swapped
func (m *Manager) OutputName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + m.extension
}

// Path returns where name is written
func (m *Manager) Path(name string) string {
	return filepath.Join(m.outputDir, name)
}

// IsRendered reports whether output for name exists and must be kept
func (m *Manager) IsRendered(name string) bool {
	if m.overwrite {
		return false
	}

	m.mu.RLock()
	seen := m.written[name]
	m.mu.RUnlock()
	if seen {
		return true
	}

	if _, err := os.Stat(m.Path(name)); err == nil {
		m.mu.Lock()
		m.written[name] = true
		m.mu.Unlock()
		return true
	}

	return false
}

// Save writes r to name through a temporary file and an atomic rename
func (m *Manager) Save(r io.Reader, name string) (string, error) {
	if m.IsRendered(name) {
		return "", fmt.Errorf("%s: %w", name, ErrExists)
	}

	filename := m.Path(name)
	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to write output: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return "", fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.written[name] = true
	m.mu.Unlock()

	return filename, nil
}

// OutputDir returns the output directory path
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// WrittenCount returns the number of outputs known to exist
func (m *Manager) WrittenCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.written)
}
