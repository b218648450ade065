package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore persists cart snapshots in PostgreSQL using GORM.
type SnapshotStore struct {
	db *gorm.DB
}

// NewSnapshotStore wires a PostgreSQL-backed store over a schema prepared by
// migrations.Run. Caller manages DB lifecycle.
func NewSnapshotStore(db *gorm.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// snapshotRecord keeps the serialized cart plus the product ids it holds, so
// carts referencing a product can be found without decoding every payload.
type snapshotRecord struct {
	Key        string        `gorm:"primaryKey;column:storage_key;size:255"`
	Payload    string        `gorm:"column:payload;type:text;not null"`
	ProductIDs pq.Int64Array `gorm:"column:product_ids;type:bigint[]"`
	CreatedAt  time.Time     `gorm:"column:created_at"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;index"`
}

func (snapshotRecord) TableName() string { return "cart_snapshots" }

// Load returns the payload stored under key.
func (s *SnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record snapshotRecord
	if err := s.db.WithContext(ctx).First(&record, "storage_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrSnapshotNotFound
		}
		return nil, err
	}
	return []byte(record.Payload), nil
}

// Save upserts the payload under key.
func (s *SnapshotStore) Save(ctx context.Context, key string, payload []byte) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("storage key is required")
	}
	record := snapshotRecord{
		Key:        key,
		Payload:    string(payload),
		ProductIDs: productIDs(payload),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "storage_key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"payload":     record.Payload,
				"product_ids": record.ProductIDs,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
}

// Clear deletes the snapshot stored under key. Clearing a missing key is not an error.
func (s *SnapshotStore) Clear(ctx context.Context, key string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&snapshotRecord{}, "storage_key = ?", key).Error
}

// KeysHoldingProduct lists the snapshot keys whose cart contains productID.
func (s *SnapshotStore) KeysHoldingProduct(ctx context.Context, productID int64) ([]string, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var keys []string
	err := s.db.WithContext(ctx).
		Model(&snapshotRecord{}).
		Where("? = ANY(product_ids)", productID).
		Order("storage_key").
		Pluck("storage_key", &keys).Error
	return keys, err
}

func (s *SnapshotStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres snapshot store not configured")
	}
	return nil
}

func productIDs(payload []byte) pq.Int64Array {
	var entries []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(payload, &entries); err != nil {
		return pq.Int64Array{}
	}
	ids := make(pq.Int64Array, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}
