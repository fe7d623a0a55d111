package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceHistoryEntry is one immutable row of the price audit trail. Entries
// are only ever appended; the table cascades away with its class.
type PriceHistoryEntry struct {
	ID        int64            `gorm:"column:id;primaryKey;autoIncrement"`
	ClassID   int64            `gorm:"column:class_id;not null;index:idx_price_history_class"`
	OldPrice  *decimal.Decimal `gorm:"column:old_price;type:numeric(12,2)"`
	NewPrice  *decimal.Decimal `gorm:"column:new_price;type:numeric(12,2)"`
	ChangedAt time.Time        `gorm:"column:changed_at;autoCreateTime"`
}

func (PriceHistoryEntry) TableName() string { return "price_history" }
