package redis

import (
	"context"
	"errors"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps each cart snapshot as a plain string value.
type SnapshotStore struct {
	client    goredis.UniversalClient
	keyPrefix string
}

// NewSnapshotStore wires a Redis-backed store. Caller manages client lifecycle.
func NewSnapshotStore(client goredis.UniversalClient, keyPrefix string) *SnapshotStore {
	return &SnapshotStore{client: client, keyPrefix: keyPrefix}
}

func (s *SnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	payload, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ports.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *SnapshotStore) Save(ctx context.Context, key string, payload []byte) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("storage key is required")
	}
	return s.client.Set(ctx, s.keyPrefix+key, payload, 0).Err()
}

func (s *SnapshotStore) Clear(ctx context.Context, key string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	return s.client.Del(ctx, s.keyPrefix+key).Err()
}

func (s *SnapshotStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis snapshot store not configured")
	}
	return nil
}
