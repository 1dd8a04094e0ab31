package storage

import "sync"

// MemoryStore keeps the session in process memory. It backs tests and the
// "memory" backend for throwaway sessions.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

// Set writes a single raw entry. Tests use it to seed partial or corrupted state.
func (m *MemoryStore) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

func (m *MemoryStore) Load() (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.entries[TokenKey]
	if !ok || token == "" {
		return Record{}, ErrNotFound
	}
	return Record{Token: token, User: m.entries[UserKey]}, nil
}

func (m *MemoryStore) Save(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[TokenKey] = rec.Token
	m.entries[UserKey] = rec.User
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, TokenKey)
	delete(m.entries, UserKey)
	return nil
}

// Len reports how many entries are stored
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
