package orders

import (
	"context"

	"github.com/Ebtehal15/turkey-items-v2/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists the order ledger.
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

// Create inserts a new order row.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByOrderID loads an order by its business key.
func (r *Repository) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders newest first with offset pagination.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).
		Error
	return rows, err
}

// Count returns the total number of stored orders.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

// DeleteByOrderID removes an order by business key and reports whether a
// row was removed.
func (r *Repository) DeleteByOrderID(ctx context.Context, orderID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.Order{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
