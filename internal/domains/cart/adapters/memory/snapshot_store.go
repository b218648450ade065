package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory snapshot persistence adapter for development and tests.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: map[string][]byte{}}
}

func (s *SnapshotStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.snapshots[key]
	if !ok {
		return nil, ports.ErrSnapshotNotFound
	}
	clone := make([]byte, len(payload))
	copy(clone, payload)
	return clone, nil
}

func (s *SnapshotStore) Save(_ context.Context, key string, payload []byte) error {
	clone := make([]byte, len(payload))
	copy(clone, payload)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[key] = clone
	return nil
}

func (s *SnapshotStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, key)
	return nil
}
