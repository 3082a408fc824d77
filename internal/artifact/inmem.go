package artifact

import (
	"context"
	"strings"
	"sync"
)

// InMemoryStore keeps artifacts in a process-local map.
// Suitable for development/testing; not shared across processes.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		data: make(map[string][]byte),
	}
}

func key(sessionID, name string) string {
	return sessionID + "/" + name
}

// Save stores an artifact for the given session
func (s *InMemoryStore) Save(ctx context.Context, sessionID, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Copy to prevent external modification
	buf := make([]byte, len(data))
	copy(buf, data)
	s.data[key(sessionID, name)] = buf
	return nil
}

// Load returns the artifact bytes for the given session and name
func (s *InMemoryStore) Load(ctx context.Context, sessionID, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[key(sessionID, name)]
	if !ok {
		return nil, ErrNotFound
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// Delete removes all artifacts for a session
func (s *InMemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := sessionID + "/"
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			delete(s.data, k)
		}
	}
	return nil
}
