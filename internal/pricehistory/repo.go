package pricehistory

import (
	"context"
	"time"

	"github.com/Ebtehal15/turkey-items-v2/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository persists price change entries for catalog classes.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Record appends one entry capturing a price transition for a class.
// Callers invoke this inside the same transaction that persists the
// class mutation so the ledger never drifts from the catalog.
func (r *Repository) Record(ctx context.Context, classID int64, oldPrice, newPrice *decimal.Decimal) error {
	entry := models.PriceHistoryEntry{
		ClassID:  classID,
		OldPrice: oldPrice,
		NewPrice: newPrice,
	}
	return r.db.WithContext(ctx).Create(&entry).Error
}

// ListByClass returns all entries for a class, newest first.
func (r *Repository) ListByClass(ctx context.Context, classID int64) ([]models.PriceHistoryEntry, error) {
	var rows []models.PriceHistoryEntry
	err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("changed_at DESC").
		Order("id DESC").
		Find(&rows).
		Error
	return rows, err
}

// DeleteByClass removes all entries for a class.
func (r *Repository) DeleteByClass(ctx context.Context, classID int64) error {
	return r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Delete(&models.PriceHistoryEntry{}).
		Error
}

// DeleteAll removes every entry in the ledger.
func (r *Repository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&models.PriceHistoryEntry{}).
		Error
}

const recentChangesQuery = `
SELECT ph.id,
       ph.class_id,
       ph.old_price,
       ph.new_price,
       ph.changed_at,
       c.special_id,
       c.class_name,
       c.class_name_arabic,
       c.class_name_english
FROM price_history ph
JOIN classes c ON c.id = ph.class_id
ORDER BY ph.changed_at DESC, ph.id DESC
LIMIT ?
`

type changeRecord struct {
	ID               int64
	ClassID          int64
	OldPrice         *decimal.Decimal
	NewPrice         *decimal.Decimal
	ChangedAt        time.Time
	SpecialID        *string
	ClassName        *string
	ClassNameArabic  *string
	ClassNameEnglish *string
}

// Change pairs a ledger entry with the identifying fields of its class.
type Change struct {
	ID        int64            `json:"id"`
	ClassID   int64            `json:"classId"`
	SpecialID *string          `json:"specialId"`
	ClassName string           `json:"className"`
	OldPrice  *decimal.Decimal `json:"oldPrice"`
	NewPrice  *decimal.Decimal `json:"newPrice"`
	ChangedAt time.Time        `json:"changedAt"`
}

// RecentChanges returns the latest entries across all classes joined with
// class identity, newest first. Entries whose class was deleted are gone
// with the class and never appear here.
func (r *Repository) RecentChanges(ctx context.Context, limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 50
	}

	var records []changeRecord
	if err := r.db.WithContext(ctx).Raw(recentChangesQuery, limit).Scan(&records).Error; err != nil {
		return nil, err
	}

	changes := make([]Change, 0, len(records))
	for _, record := range records {
		cls := models.Class{
			ClassName:        record.ClassName,
			ClassNameArabic:  record.ClassNameArabic,
			ClassNameEnglish: record.ClassNameEnglish,
		}
		changes = append(changes, Change{
			ID:        record.ID,
			ClassID:   record.ClassID,
			SpecialID: record.SpecialID,
			ClassName: cls.DisplayName(),
			OldPrice:  record.OldPrice,
			NewPrice:  record.NewPrice,
			ChangedAt: record.ChangedAt,
		})
	}
	return changes, nil
}
