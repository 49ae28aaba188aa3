package store

import (
	"fmt"
	"sync"

	"github.com/MihkelHunter/mkPlanner/internal/config"
	"github.com/MihkelHunter/mkPlanner/internal/todo"
)

// MemoryStore is a map-backed todo.KV; nothing survives the process.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStore) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Open returns the backend selected in cfg.
func Open(cfg config.Storage) (todo.KV, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		return NewSQLite(cfg.Path)
	case config.BackendFile:
		return NewFile(cfg.Path)
	case config.BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
