package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ebtehal15/turkey-items-v2/pkg/db"
	"github.com/Ebtehal15/turkey-items-v2/pkg/db/models"
	pkgerrors "github.com/Ebtehal15/turkey-items-v2/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineView is one cart line joined with the current catalog state.
type LineView struct {
	ClassID    int64            `json:"classId"`
	Quantity   int              `json:"quantity"`
	SpecialID  *string          `json:"specialId"`
	ClassName  string           `json:"className"`
	Quality    *string          `json:"quality"`
	ClassPrice *decimal.Decimal `json:"classPrice"`
	LineTotal  *decimal.Decimal `json:"lineTotal"`
}

// View is the materialized cart with totals derived at call time. Totals
// are never cached across requests; they are recomputed from the live join
// on every read so catalog edits are always reflected.
type View struct {
	Lines            []LineView      `json:"lines"`
	KnownTotal       decimal.Decimal `json:"knownTotal"`
	TotalItems       int             `json:"totalItems"`
	HasUnknownPrices bool            `json:"hasUnknownPrices"`
}

// Service exposes per-session cart operations. Every operation takes the
// session id explicitly; there is no ambient session state.
type Service interface {
	Add(ctx context.Context, sessionID string, classID int64) (*View, error)
	SetQuantity(ctx context.Context, sessionID string, classID int64, quantity int) (*View, error)
	Remove(ctx context.Context, sessionID string, classID int64) (*View, error)
	Clear(ctx context.Context, sessionID string) error
	View(ctx context.Context, sessionID string) (*View, error)
}

type classChecker interface {
	FindByID(ctx context.Context, id int64) (*models.Class, error)
}

type service struct {
	repo     *Repository
	classes  classChecker
	dbClient *db.Client
}

// NewService constructs a cart service instance.
func NewService(repo *Repository, classes classChecker, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if classes == nil {
		return nil, fmt.Errorf("class reader required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, classes: classes, dbClient: dbClient}, nil
}

// Add inserts a line with quantity 1, or increments an existing line.
func (s *service) Add(ctx context.Context, sessionID string, classID int64) (*View, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "class not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load class")
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		line, err := txRepo.FindLine(ctx, sessionID, classID)
		switch {
		case err == nil:
			line.Quantity++
			return txRepo.SaveLine(ctx, line)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return txRepo.CreateLine(ctx, &models.CartLine{
				SessionID: sessionID,
				ClassID:   classID,
				Quantity:  1,
			})
		default:
			return err
		}
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: add cart line")
	}
	return s.View(ctx, sessionID)
}

// SetQuantity overwrites a line's quantity. A quantity of zero or less
// behaves as Remove. Setting a quantity on a line that does not exist is an
// error; callers add first.
func (s *service) SetQuantity(ctx context.Context, sessionID string, classID int64, quantity int) (*View, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	if quantity <= 0 {
		return s.Remove(ctx, sessionID, classID)
	}

	line, err := s.repo.FindLine(ctx, sessionID, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart line")
	}

	line.Quantity = quantity
	if err := s.repo.SaveLine(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save cart line")
	}
	return s.View(ctx, sessionID)
}

// Remove deletes the line if present. Removing an absent line is a no-op.
func (s *service) Remove(ctx context.Context, sessionID string, classID int64) (*View, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteLine(ctx, sessionID, classID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete cart line")
	}
	return s.View(ctx, sessionID)
}

// Clear empties the calling session's cart. Other sessions are untouched.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear cart")
	}
	return nil
}

// View materializes the session's cart against the live catalog and derives
// the totals.
func (s *service) View(ctx context.Context, sessionID string) (*View, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	records, err := s.repo.ListSessionLines(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list cart lines")
	}

	view := &View{
		Lines:      make([]LineView, 0, len(records)),
		KnownTotal: decimal.Zero,
	}
	for _, record := range records {
		cls := models.Class{
			ClassName:        record.ClassName,
			ClassNameArabic:  record.ClassNameArabic,
			ClassNameEnglish: record.ClassNameEnglish,
		}
		line := LineView{
			ClassID:    record.ClassID,
			Quantity:   record.Quantity,
			SpecialID:  record.SpecialID,
			ClassName:  cls.DisplayName(),
			Quality:    record.Quality,
			ClassPrice: record.ClassPrice,
		}
		if record.ClassPrice != nil {
			total := record.ClassPrice.Mul(decimal.NewFromInt(int64(record.Quantity)))
			line.LineTotal = &total
			view.KnownTotal = view.KnownTotal.Add(total)
		} else {
			view.HasUnknownPrices = true
		}
		view.TotalItems += record.Quantity
		view.Lines = append(view.Lines, line)
	}
	return view, nil
}

func requireSession(sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}
