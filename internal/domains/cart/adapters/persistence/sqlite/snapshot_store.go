package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

const schema = `CREATE TABLE IF NOT EXISTS cart_snapshots (
	storage_key TEXT PRIMARY KEY,
	payload     TEXT NOT NULL,
	updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SnapshotStore keeps cart snapshots in a local SQLite file, the durable
// per-profile store the cart is restored from at startup.
type SnapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore creates the snapshot table when missing. Caller manages DB lifecycle.
func NewSnapshotStore(ctx context.Context, db *sql.DB) (*SnapshotStore, error) {
	if db == nil {
		return nil, errors.New("sqlite snapshot store requires a database")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, err
	}
	return &SnapshotStore{db: db}, nil
}

func (s *SnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM cart_snapshots WHERE storage_key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

func (s *SnapshotStore) Save(ctx context.Context, key string, payload []byte) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("storage key is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cart_snapshots (storage_key, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(storage_key)
		DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
	`, key, string(payload))
	return err
}

func (s *SnapshotStore) Clear(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cart_snapshots WHERE storage_key = ?`, key)
	return err
}
