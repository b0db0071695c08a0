// Package store persists carousel offsets keyed by an opaque string.
package store

import (
	"fmt"
	"math"
	"sync"

	"github.com/andyrewlee/carousel/internal/logging"
	"github.com/andyrewlee/carousel/internal/viewport"
)

// Backend names a persistence implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Store is an OffsetStore that can be closed.
type Store interface {
	viewport.OffsetStore
	Close() error
}

// Open returns the store for backend. Unknown backends are an error.
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFile(path), nil
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown persistence backend %q", backend)
	}
}

// OpenOrMemory opens backend and falls back to an in-memory store when the
// backend is unavailable.
func OpenOrMemory(backend Backend, path string) Store {
	s, err := Open(backend, path)
	if err != nil {
		logging.Warn("Offset store unavailable, using memory: %v", err)
		return NewMemory()
	}
	return s
}

func validOffset(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// Memory keeps offsets in process memory.
type Memory struct {
	mu      sync.RWMutex
	offsets map[string]float64
}

// NewMemory creates an empty memory store.
func NewMemory() *Memory {
	return &Memory{offsets: make(map[string]float64)}
}

// SavedOffset implements viewport.OffsetStore.
func (m *Memory) SavedOffset(key string) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.offsets[key]
	return v, ok
}

// SaveOffset implements viewport.OffsetStore.
func (m *Memory) SaveOffset(key string, offset float64) error {
	if !validOffset(offset) {
		return fmt.Errorf("invalid offset %v", offset)
	}
	m.mu.Lock()
	m.offsets[key] = offset
	m.mu.Unlock()
	return nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }
