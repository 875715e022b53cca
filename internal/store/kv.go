// Package store persists timecards data in a key-value store.
//
// Two keys are used: TodosKey holds the JSON array of todos and StreakKey
// holds the JSON streak snapshot. Backends only move opaque bytes; encoding
// lives in repository.go.
package store

import (
	"errors"
	"fmt"
	"maps"
	"sync"
)

const (
	// TodosKey stores the todo list.
	TodosKey = "todos"
	// StreakKey stores the streak snapshot.
	StreakKey = "streak-data"
)

// ErrNotFound is returned by KV.Get when the key has never been set.
var ErrNotFound = errors.New("key not found")

// KV is a minimal durable key-value store.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Open opens the backend at path. An empty backend selects SQLite.
func Open(backend, path string) (KV, error) {
	switch backend {
	case "", BackendSQLite:
		return OpenSQLite(path)
	case BackendJSON:
		return OpenDir(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// Memory is an in-process KV, mainly for tests.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
	// FailWrites makes every Set return an error when non-nil.
	FailWrites error
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", key, ErrNotFound)
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return fmt.Errorf("set %s: %w", key, m.FailWrites)
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Snapshot returns a copy of the stored data.
func (m *Memory) Snapshot() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.data)
}

func (m *Memory) Close() error {
	return nil
}
