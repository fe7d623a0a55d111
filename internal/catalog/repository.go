package catalog

import (
	"context"
	"strings"

	"github.com/Ebtehal15/turkey-items-v2/pkg/db/models"
	"gorm.io/gorm"
)

// Repository wires together class persistence helpers.
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

// FindByID loads a class by surrogate key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	var cls models.Class
	if err := r.db.WithContext(ctx).First(&cls, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cls, nil
}

// FindBySpecialIDFold loads a class by business key, case-insensitive.
// This is the lookup policy of the list/detail read paths.
func (r *Repository) FindBySpecialIDFold(ctx context.Context, specialID string) (*models.Class, error) {
	var cls models.Class
	err := r.db.WithContext(ctx).
		Where("LOWER(special_id) = LOWER(?)", specialID).
		First(&cls).
		Error
	if err != nil {
		return nil, err
	}
	return &cls, nil
}

// FindBySpecialIDExact loads a class by business key with an exact string
// match. The bulk sync path uses this policy; the discrepancy with the
// folded read-path lookup is intentional and kept as-is.
func (r *Repository) FindBySpecialIDExact(ctx context.Context, specialID string) (*models.Class, error) {
	var cls models.Class
	err := r.db.WithContext(ctx).
		Where("special_id = ?", specialID).
		First(&cls).
		Error
	if err != nil {
		return nil, err
	}
	return &cls, nil
}

// Create inserts a new class row.
func (r *Repository) Create(ctx context.Context, cls *models.Class) (*models.Class, error) {
	if err := r.db.WithContext(ctx).Create(cls).Error; err != nil {
		return nil, err
	}
	return cls, nil
}

// Save persists all fields of an existing class row.
func (r *Repository) Save(ctx context.Context, cls *models.Class) (*models.Class, error) {
	if err := r.db.WithContext(ctx).Save(cls).Error; err != nil {
		return nil, err
	}
	return cls, nil
}

// Delete removes a class by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Class{}).Error
}

// DeleteAll removes every class row and returns the count removed.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Class{})
	return res.RowsAffected, res.Error
}

// List returns classes matching the filters, sorted by category, then
// group, then name, ascending.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.Class, error) {
	qb := r.db.WithContext(ctx).Model(&models.Class{})

	if search := strings.TrimSpace(filters.Name); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where(
			"(LOWER(class_name) LIKE ? OR LOWER(class_name_arabic) LIKE ? OR LOWER(class_name_english) LIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if filters.Category != "" {
		qb = qb.Where("main_category = ?", filters.Category)
	}
	if filters.Quality != "" {
		qb = qb.Where("quality = ?", filters.Quality)
	}
	if filters.Orderable {
		qb = qb.Where("(class_quantity IS NULL OR class_quantity > 0)")
	}

	var rows []models.Class
	err := qb.
		Order("main_category ASC").
		Order("quality ASC").
		Order("class_name ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListSpecialIDsWithPrefix returns non-null special ids starting with prefix.
func (r *Repository) ListSpecialIDsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Class{}).
		Where("special_id IS NOT NULL AND special_id LIKE ?", prefix+"%").
		Pluck("special_id", &ids).
		Error
	return ids, err
}

// ListVideoPaths returns all non-null class_video values.
func (r *Repository) ListVideoPaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).
		Model(&models.Class{}).
		Where("class_video IS NOT NULL AND class_video <> ''").
		Pluck("class_video", &paths).
		Error
	return paths, err
}

// replaceableColumns whitelists the free-text columns the bulk find/replace
// operation may touch.
var replaceableColumns = map[string]string{
	"specialId":        "special_id",
	"mainCategory":     "main_category",
	"quality":          "quality",
	"className":        "class_name",
	"classNameArabic":  "class_name_arabic",
	"classNameEnglish": "class_name_english",
	"classFeatures":    "class_features",
}

// ReplaceInColumn performs a substring find/replace on one column across
// all rows and returns the number of rows touched. The column must come
// from replaceableColumns; callers validate the field name first.
func (r *Repository) ReplaceInColumn(ctx context.Context, column, search, replace string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Class{}).
		Where(column+" LIKE ?", "%"+search+"%").
		Update(column, gorm.Expr("REPLACE("+column+", ?, ?)", search, replace))
	return res.RowsAffected, res.Error
}
