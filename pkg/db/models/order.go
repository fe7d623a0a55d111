package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a frozen point-in-time copy of a class at submission. It is a
// distinct value type from Class on purpose: an order is a record of what
// was agreed, and must never reflect later catalog edits or deletions.
type OrderItem struct {
	ClassID          int64            `json:"class_id"`
	Quantity         int              `json:"quantity"`
	SpecialID        string           `json:"special_id"`
	Quality          string           `json:"quality,omitempty"`
	ClassName        string           `json:"class_name"`
	ClassNameArabic  string           `json:"class_name_arabic,omitempty"`
	ClassNameEnglish string           `json:"class_name_english,omitempty"`
	ClassPrice       *decimal.Decimal `json:"class_price"`
}

// OrderItems is the serialized snapshot column.
type OrderItems []OrderItem

// Order is a durable record of a submitted order form.
type Order struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID          string          `gorm:"column:order_id;not null;uniqueIndex:uq_orders_order_id"`
	FullName         string          `gorm:"column:full_name;not null"`
	Company          *string         `gorm:"column:company"`
	Phone            *string         `gorm:"column:phone"`
	SalesPerson      *string         `gorm:"column:sales_person"`
	Notes            *string         `gorm:"column:notes"`
	Items            OrderItems      `gorm:"column:items;type:jsonb;serializer:json;not null"`
	KnownTotal       decimal.Decimal `gorm:"column:known_total;type:numeric(14,2);not null"`
	TotalItems       int             `gorm:"column:total_items;not null"`
	HasUnknownPrices bool            `gorm:"column:has_unknown_prices;not null"`
	Language         *string         `gorm:"column:language"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Order) TableName() string { return "orders" }
