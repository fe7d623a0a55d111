package cart

import (
	"context"
	"time"

	"github.com/Ebtehal15/turkey-items-v2/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository persists session cart lines.
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

// FindLine loads the session's line for a class.
func (r *Repository) FindLine(ctx context.Context, sessionID string, classID int64) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND class_id = ?", sessionID, classID).
		First(&line).
		Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// CreateLine inserts a new cart line.
func (r *Repository) CreateLine(ctx context.Context, line *models.CartLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// SaveLine persists an existing cart line.
func (r *Repository) SaveLine(ctx context.Context, line *models.CartLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// DeleteLine removes the session's line for a class if present.
func (r *Repository) DeleteLine(ctx context.Context, sessionID string, classID int64) error {
	return r.db.WithContext(ctx).
		Where("session_id = ? AND class_id = ?", sessionID, classID).
		Delete(&models.CartLine{}).
		Error
}

// DeleteSession removes every line belonging to the session.
func (r *Repository) DeleteSession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.CartLine{}).
		Error
}

const sessionLinesQuery = `
SELECT cl.class_id,
       cl.quantity,
       cl.created_at,
       c.special_id,
       c.quality,
       c.class_name,
       c.class_name_arabic,
       c.class_name_english,
       c.class_price
FROM cart_lines cl
JOIN classes c ON c.id = cl.class_id
WHERE cl.session_id = ?
ORDER BY cl.created_at ASC, cl.class_id ASC
`

type lineRecord struct {
	ClassID          int64
	Quantity         int
	CreatedAt        time.Time
	SpecialID        *string
	Quality          *string
	ClassName        *string
	ClassNameArabic  *string
	ClassNameEnglish *string
	ClassPrice       *decimal.Decimal
}

// ListSessionLines returns the session's lines joined live against the
// catalog. The inner join drops lines whose class has since been deleted,
// which is exactly the view the caller should see.
func (r *Repository) ListSessionLines(ctx context.Context, sessionID string) ([]lineRecord, error) {
	var records []lineRecord
	err := r.db.WithContext(ctx).Raw(sessionLinesQuery, sessionID).Scan(&records).Error
	return records, err
}
