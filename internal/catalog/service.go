package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ebtehal15/turkey-items-v2/internal/pricehistory"
	"github.com/Ebtehal15/turkey-items-v2/pkg/db"
	"github.com/Ebtehal15/turkey-items-v2/pkg/db/models"
	pkgerrors "github.com/Ebtehal15/turkey-items-v2/pkg/errors"
	"github.com/Ebtehal15/turkey-items-v2/pkg/logger"
	"gorm.io/gorm"
)

// Service exposes catalog management operations.
type Service interface {
	Create(ctx context.Context, input CreateClassInput) (*ClassDTO, error)
	Update(ctx context.Context, id int64, input UpdateClassInput) (*ClassDTO, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
	Get(ctx context.Context, id int64) (*ClassDTO, error)
	GetBySpecialID(ctx context.Context, specialID string) (*ClassDTO, error)
	GetBySpecialIDExact(ctx context.Context, specialID string) (*ClassDTO, error)
	List(ctx context.Context, filters ListFilters) ([]ClassDTO, error)
	GenerateSpecialID(ctx context.Context, prefix string) (string, error)
	BulkReplace(ctx context.Context, field, search, replace string) (int64, error)
}

// mediaCleaner removes stored media files. Failures are handled inside the
// cleaner; record deletion never depends on file deletion succeeding.
type mediaCleaner interface {
	Remove(ctx context.Context, path string)
}

type service struct {
	repo     *Repository
	history  *pricehistory.Repository
	dbClient *db.Client
	media    mediaCleaner
	log      *logger.Logger
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, history *pricehistory.Repository, dbClient *db.Client, media mediaCleaner, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if history == nil {
		return nil, fmt.Errorf("price history repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo:     repo,
		history:  history,
		dbClient: dbClient,
		media:    media,
		log:      log,
	}, nil
}

// Create validates a display name is derivable, assigns a special id when
// absent, and inserts the record. No price-history entry is written on
// creation; the ledger starts at the first price change.
func (s *service) Create(ctx context.Context, input CreateClassInput) (*ClassDTO, error) {
	cls := &models.Class{
		SpecialID:        trimPtr(input.SpecialID),
		MainCategory:     trimPtr(input.MainCategory),
		Quality:          trimPtr(input.Quality),
		ClassName:        trimPtr(input.ClassName),
		ClassNameArabic:  trimPtr(input.ClassNameArabic),
		ClassNameEnglish: trimPtr(input.ClassNameEnglish),
		ClassFeatures:    trimPtr(input.ClassFeatures),
		ClassPrice:       input.ClassPrice,
		ClassWeight:      input.ClassWeight,
		ClassQuantity:    input.ClassQuantity,
		ClassVideo:       trimPtr(input.ClassVideo),
	}

	if cls.DisplayName() == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a class name is required").
			WithDetails(map[string]string{"field": "className"})
	}

	if cls.SpecialID == nil {
		generated, err := s.GenerateSpecialID(ctx, DefaultSpecialIDPrefix)
		if err != nil {
			return nil, err
		}
		cls.SpecialID = &generated
	}

	created, err := s.repo.Create(ctx, cls)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_classes_special_id") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "special id already in use").
				WithDetails(map[string]string{"field": "specialId", "value": derefString(cls.SpecialID)})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert class")
	}
	return NewClassDTO(created), nil
}

// Update applies the set fields of input to the stored class. A change in
// class_price appends exactly one price-history entry in the same
// transaction as the update; an update that leaves the price untouched
// appends nothing.
func (s *service) Update(ctx context.Context, id int64, input UpdateClassInput) (*ClassDTO, error) {
	if input.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "update payload is empty")
	}

	var updated *models.Class
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cls, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "class not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load class")
		}

		oldPrice := cls.ClassPrice
		applyUpdateToClass(cls, input)

		if cls.DisplayName() == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "a class name is required").
				WithDetails(map[string]string{"field": "className"})
		}

		if input.ClassPrice.Set && !models.PriceEqual(oldPrice, cls.ClassPrice) {
			if err := s.history.WithTx(tx).Record(ctx, cls.ID, oldPrice, cls.ClassPrice); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: append price history")
			}
		}

		if _, err := txRepo.Save(ctx, cls); err != nil {
			if db.IsUniqueViolation(err, "uq_classes_special_id") {
				return pkgerrors.New(pkgerrors.CodeConflict, "special id already in use").
					WithDetails(map[string]string{"field": "specialId", "value": derefString(cls.SpecialID)})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update class")
		}

		updated = cls
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewClassDTO(updated), nil
}

// Delete removes the class and its price-history entries, then schedules
// its media file for removal. File cleanup is best-effort and never fails
// the deletion.
func (s *service) Delete(ctx context.Context, id int64) error {
	var videoPath *string
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cls, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "class not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load class")
		}
		videoPath = cls.ClassVideo

		if err := s.history.WithTx(tx).DeleteByClass(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete price history")
		}
		if err := txRepo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete class")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.media != nil && videoPath != nil {
		s.media.Remove(ctx, *videoPath)
	}
	return nil
}

// DeleteAll removes every class plus the full price-history ledger and
// returns the number of classes removed.
func (s *service) DeleteAll(ctx context.Context) (int64, error) {
	var (
		removed int64
		paths   []string
	)
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		var err error
		paths, err = txRepo.ListVideoPaths(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list video paths")
		}
		if err := s.history.WithTx(tx).DeleteAll(ctx); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete price history")
		}
		removed, err = txRepo.DeleteAll(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete classes")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if s.media != nil {
		for _, path := range paths {
			s.media.Remove(ctx, path)
		}
	}
	if s.log != nil {
		s.log.Info(s.log.WithField(ctx, "removed", removed), "catalog cleared")
	}
	return removed, nil
}

// Get loads a class by surrogate key.
func (s *service) Get(ctx context.Context, id int64) (*ClassDTO, error) {
	cls, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "class not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load class")
	}
	return NewClassDTO(cls), nil
}

// GetBySpecialID loads a class by business key, case-insensitive.
func (s *service) GetBySpecialID(ctx context.Context, specialID string) (*ClassDTO, error) {
	cls, err := s.repo.FindBySpecialIDFold(ctx, strings.TrimSpace(specialID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "class not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load class")
	}
	return NewClassDTO(cls), nil
}

// GetBySpecialIDExact loads a class by business key with an exact match.
func (s *service) GetBySpecialIDExact(ctx context.Context, specialID string) (*ClassDTO, error) {
	cls, err := s.repo.FindBySpecialIDExact(ctx, specialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "class not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load class")
	}
	return NewClassDTO(cls), nil
}

// List returns classes matching the filters.
func (s *service) List(ctx context.Context, filters ListFilters) ([]ClassDTO, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list classes")
	}
	return NewClassDTOs(rows), nil
}

// GenerateSpecialID returns the next free special id for the prefix. This
// is a pure read: calling it twice without an insert in between returns the
// same id both times.
func (s *service) GenerateSpecialID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultSpecialIDPrefix
	}
	existing, err := s.repo.ListSpecialIDsWithPrefix(ctx, prefix)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list special ids")
	}
	return nextSpecialID(existing, prefix), nil
}

// BulkReplace performs a substring find/replace on a single whitelisted
// field across all classes and reports how many records were touched.
func (s *service) BulkReplace(ctx context.Context, field, search, replace string) (int64, error) {
	column, ok := replaceableColumns[field]
	if !ok {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "field is not replaceable").
			WithDetails(map[string]string{"field": field})
	}
	if search == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "search text is required").
			WithDetails(map[string]string{"field": "search"})
	}

	touched, err := s.repo.ReplaceInColumn(ctx, column, search, replace)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: bulk replace")
	}
	return touched, nil
}

func applyUpdateToClass(cls *models.Class, input UpdateClassInput) {
	if input.SpecialID.Set {
		cls.SpecialID = trimPtr(input.SpecialID.Value)
	}
	if input.MainCategory.Set {
		cls.MainCategory = trimPtr(input.MainCategory.Value)
	}
	if input.Quality.Set {
		cls.Quality = trimPtr(input.Quality.Value)
	}
	if input.ClassName.Set {
		cls.ClassName = trimPtr(input.ClassName.Value)
	}
	if input.ClassNameArabic.Set {
		cls.ClassNameArabic = trimPtr(input.ClassNameArabic.Value)
	}
	if input.ClassNameEnglish.Set {
		cls.ClassNameEnglish = trimPtr(input.ClassNameEnglish.Value)
	}
	if input.ClassFeatures.Set {
		cls.ClassFeatures = trimPtr(input.ClassFeatures.Value)
	}
	if input.ClassPrice.Set {
		cls.ClassPrice = input.ClassPrice.Value
	}
	if input.ClassWeight.Set {
		cls.ClassWeight = input.ClassWeight.Value
	}
	if input.ClassQuantity.Set {
		cls.ClassQuantity = input.ClassQuantity.Value
	}
	if input.ClassVideo.Set {
		cls.ClassVideo = trimPtr(input.ClassVideo.Value)
	}
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
