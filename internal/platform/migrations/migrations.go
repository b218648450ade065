package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the cart schema. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&cartSnapshotRecord{})
}

// Cart snapshot schema mirrors the cart Postgres adapter.
type cartSnapshotRecord struct {
	Key        string        `gorm:"primaryKey;column:storage_key;size:255"`
	Payload    string        `gorm:"column:payload;type:text;not null"`
	ProductIDs pq.Int64Array `gorm:"column:product_ids;type:bigint[]"`
	CreatedAt  time.Time     `gorm:"column:created_at"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;index"`
}

func (cartSnapshotRecord) TableName() string { return "cart_snapshots" }
