package catalog

import (
	"time"

	"github.com/Ebtehal15/turkey-items-v2/pkg/db/models"
	"github.com/Ebtehal15/turkey-items-v2/pkg/types"
	"github.com/shopspring/decimal"
)

// CreateClassInput holds the validated payload to create a class.
type CreateClassInput struct {
	SpecialID        *string
	MainCategory     *string
	Quality          *string
	ClassName        *string
	ClassNameArabic  *string
	ClassNameEnglish *string
	ClassFeatures    *string
	ClassPrice       *decimal.Decimal
	ClassWeight      *decimal.Decimal
	ClassQuantity    *int
	ClassVideo       *string
}

// UpdateClassInput holds optional mutation values for a class. A field left
// unset retains the stored value; a field set to null clears the column.
type UpdateClassInput struct {
	SpecialID        types.Optional[string]
	MainCategory     types.Optional[string]
	Quality          types.Optional[string]
	ClassName        types.Optional[string]
	ClassNameArabic  types.Optional[string]
	ClassNameEnglish types.Optional[string]
	ClassFeatures    types.Optional[string]
	ClassPrice       types.Optional[decimal.Decimal]
	ClassWeight      types.Optional[decimal.Decimal]
	ClassQuantity    types.Optional[int]
	ClassVideo       types.Optional[string]
}

// IsZero reports whether no field was set at all.
func (in UpdateClassInput) IsZero() bool {
	return !in.SpecialID.Set &&
		!in.MainCategory.Set &&
		!in.Quality.Set &&
		!in.ClassName.Set &&
		!in.ClassNameArabic.Set &&
		!in.ClassNameEnglish.Set &&
		!in.ClassFeatures.Set &&
		!in.ClassPrice.Set &&
		!in.ClassWeight.Set &&
		!in.ClassQuantity.Set &&
		!in.ClassVideo.Set
}

// ListFilters narrows the class listing. Filters are AND-combined.
type ListFilters struct {
	// Name matches any of the name variants, case-insensitive substring.
	Name string
	// Category and Quality are exact matches.
	Category string
	Quality  string
	// Orderable drops classes whose quantity is explicitly zero.
	Orderable bool
}

// ClassDTO is the API projection of a class record.
type ClassDTO struct {
	ID               int64            `json:"id"`
	SpecialID        *string          `json:"specialId"`
	MainCategory     *string          `json:"mainCategory"`
	Quality          *string          `json:"quality"`
	ClassName        *string          `json:"className"`
	ClassNameArabic  *string          `json:"classNameArabic"`
	ClassNameEnglish *string          `json:"classNameEnglish"`
	ClassFeatures    *string          `json:"classFeatures"`
	ClassPrice       *decimal.Decimal `json:"classPrice"`
	ClassWeight      *decimal.Decimal `json:"classWeight"`
	ClassQuantity    *int             `json:"classQuantity"`
	ClassVideo       *string          `json:"classVideo"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// NewClassDTO maps a stored class onto the API projection.
func NewClassDTO(cls *models.Class) *ClassDTO {
	if cls == nil {
		return nil
	}
	return &ClassDTO{
		ID:               cls.ID,
		SpecialID:        cls.SpecialID,
		MainCategory:     cls.MainCategory,
		Quality:          cls.Quality,
		ClassName:        cls.ClassName,
		ClassNameArabic:  cls.ClassNameArabic,
		ClassNameEnglish: cls.ClassNameEnglish,
		ClassFeatures:    cls.ClassFeatures,
		ClassPrice:       cls.ClassPrice,
		ClassWeight:      cls.ClassWeight,
		ClassQuantity:    cls.ClassQuantity,
		ClassVideo:       cls.ClassVideo,
		CreatedAt:        cls.CreatedAt,
		UpdatedAt:        cls.UpdatedAt,
	}
}

// NewClassDTOs maps a slice of stored classes.
func NewClassDTOs(rows []models.Class) []ClassDTO {
	out := make([]ClassDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewClassDTO(&rows[i]))
	}
	return out
}
