package models

import "time"

// CartLine is one (class, quantity) pair scoped to a cart session. At most
// one line exists per class within a session; quantity is always >= 1 for
// stored lines (a zero quantity deletes the line instead).
type CartLine struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID string    `gorm:"column:session_id;not null;uniqueIndex:uq_cart_lines_session_class"`
	ClassID   int64     `gorm:"column:class_id;not null;uniqueIndex:uq_cart_lines_session_class"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartLine) TableName() string { return "cart_lines" }
