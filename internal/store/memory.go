package store

import (
	"errors"
	"sync"
)

var errInjected = errors.New("injected failure")

// MemoryKV is a map-backed KV. FailGet and FailSet make the matching
// operation fail for the listed keys, which lets callers exercise the
// persistence error paths without a real medium.
type MemoryKV struct {
	mu      sync.Mutex
	data    map[string]string
	FailGet map[string]bool
	FailSet map[string]bool
	writes  int
}

// NewMemoryKV creates an empty in-memory KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		data:    make(map[string]string),
		FailGet: make(map[string]bool),
		FailSet: make(map[string]bool),
	}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet[key] {
		return "", false, errInjected
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet[key] {
		return errInjected
	}
	m.data[key] = value
	m.writes++
	return nil
}

// Writes returns how many successful Set calls have been made.
func (m *MemoryKV) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
