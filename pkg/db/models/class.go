package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Class is a product/catalog entry ("class" in the admin UI's vocabulary,
// unrelated to object-oriented classes).
type Class struct {
	ID               int64            `gorm:"column:id;primaryKey;autoIncrement"`
	SpecialID        *string          `gorm:"column:special_id;uniqueIndex:uq_classes_special_id"`
	MainCategory     *string          `gorm:"column:main_category"`
	Quality          *string          `gorm:"column:quality"`
	ClassName        *string          `gorm:"column:class_name"`
	ClassNameArabic  *string          `gorm:"column:class_name_arabic"`
	ClassNameEnglish *string          `gorm:"column:class_name_english"`
	ClassFeatures    *string          `gorm:"column:class_features"`
	ClassPrice       *decimal.Decimal `gorm:"column:class_price;type:numeric(12,2)"`
	ClassWeight      *decimal.Decimal `gorm:"column:class_weight;type:numeric(10,3)"`
	ClassQuantity    *int             `gorm:"column:class_quantity"`
	ClassVideo       *string          `gorm:"column:class_video"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Class) TableName() string { return "classes" }

// DisplayName returns the first non-empty name variant. A class with no
// derivable display name is rejected at creation.
func (c Class) DisplayName() string {
	for _, name := range []*string{c.ClassName, c.ClassNameEnglish, c.ClassNameArabic} {
		if name != nil && strings.TrimSpace(*name) != "" {
			return strings.TrimSpace(*name)
		}
	}
	return ""
}

// PriceEqual compares two nullable prices. Two nils are equal; nil versus a
// value is a change. This rule decides whether a price-history entry is
// appended.
func PriceEqual(a, b *decimal.Decimal) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Equal(*b)
}
