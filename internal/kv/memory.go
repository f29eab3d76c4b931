package kv

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore хранит записи в памяти. Используется в тестах и в
// development режиме (KV_BACKEND=memory). Потокобезопасен.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return Entry{}, ErrKeyNotFound
	}
	return cloneEntry(entry), nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.entries[key]
	s.entries[key] = Entry{Key: key, Value: append([]byte(nil), value...), Version: prev.Version + 1}
	return nil
}

func (s *MemoryStore) SetVersioned(ctx context.Context, key string, value []byte, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.entries[key].Version
	if current != expectedVersion {
		return ErrVersionConflict
	}
	s.entries[key] = Entry{Key: key, Value: append([]byte(nil), value...), Version: current + 1}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) GetByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Entry, 0)
	for key, entry := range s.entries {
		if strings.HasPrefix(key, prefix) {
			result = append(result, cloneEntry(entry))
		}
	}

	// Стабильный порядок, чтобы результаты были воспроизводимыми.
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

func cloneEntry(e Entry) Entry {
	return Entry{Key: e.Key, Value: append([]byte(nil), e.Value...), Version: e.Version}
}
