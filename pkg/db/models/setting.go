package models

import (
	"encoding/json"
	"time"
)

// Setting is one key/value pair of cross-cutting configuration. Values are
// stored as JSON so callers own the shape; typed accessors live in the
// settings service.
type Setting struct {
	Key       string          `gorm:"column:key;primaryKey"`
	Value     json.RawMessage `gorm:"column:value;type:jsonb;not null"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Setting) TableName() string { return "settings" }
