package ports

import (
	"context"
	"errors"
)

// DefaultStorageKey is the durable key the cart snapshot lives under.
const DefaultStorageKey = "@RocketShoes:cart"

var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// SnapshotStore persists the serialized cart under a single key. Payloads are
// opaque JSON produced by domain.Cart; stores never interpret them.
type SnapshotStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
	Clear(ctx context.Context, key string) error
}
