package store

import (
	"sync"
	"time"

	"github.com/bassista/paddock/internal/clock"
)

type memoryEntry struct {
	data    []byte
	written time.Time
}

// MemoryStore keeps slots in process memory. Write times come from the injected clock,
// which makes it the store of choice for tests.
type MemoryStore struct {
	mu    sync.RWMutex
	clock clock.Clock
	slots map[string]memoryEntry
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	if clk == nil {
		clk = clock.System{}
	}
	return &MemoryStore{clock: clk, slots: map[string]memoryEntry{}}
}

func (m *MemoryStore) Exists(slot string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.slots[slot]
	return ok, nil
}

func (m *MemoryStore) Read(slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.slots[slot]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), e.data...), nil
}

func (m *MemoryStore) LastModified(slot string) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.slots[slot]
	if !ok {
		return time.Time{}, ErrNotFound
	}
	return e.written, nil
}

func (m *MemoryStore) Write(slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = memoryEntry{data: append([]byte(nil), data...), written: m.clock.Now()}
	return nil
}

func (m *MemoryStore) Close() error { return nil }
