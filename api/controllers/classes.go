package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Ebtehal15/turkey-items-v2/api/responses"
	"github.com/Ebtehal15/turkey-items-v2/api/validators"
	"github.com/Ebtehal15/turkey-items-v2/internal/catalog"
	"github.com/Ebtehal15/turkey-items-v2/internal/pricehistory"
	"github.com/Ebtehal15/turkey-items-v2/pkg/db/models"
	pkgerrors "github.com/Ebtehal15/turkey-items-v2/pkg/errors"
	"github.com/Ebtehal15/turkey-items-v2/pkg/logger"
	"github.com/Ebtehal15/turkey-items-v2/pkg/types"
)

const (
	defaultRecentChanges = 50
	maxRecentChanges     = 500
)

// historySource is the price ledger surface the class endpoints read from.
type historySource interface {
	ListByClass(ctx context.Context, classID int64) ([]models.PriceHistoryEntry, error)
	RecentChanges(ctx context.Context, limit int) ([]pricehistory.Change, error)
}

type createClassRequest struct {
	SpecialID        *string          `json:"specialId"`
	MainCategory     *string          `json:"mainCategory"`
	Quality          *string          `json:"quality"`
	ClassName        *string          `json:"className"`
	ClassNameArabic  *string          `json:"classNameArabic"`
	ClassNameEnglish *string          `json:"classNameEnglish"`
	ClassFeatures    *string          `json:"classFeatures"`
	ClassPrice       *decimal.Decimal `json:"classPrice"`
	ClassWeight      *decimal.Decimal `json:"classWeight"`
	ClassQuantity    *int             `json:"classQuantity" validate:"omitempty,min=0"`
	ClassVideo       *string          `json:"classVideo"`
}

func (req createClassRequest) toInput() catalog.CreateClassInput {
	return catalog.CreateClassInput{
		SpecialID:        req.SpecialID,
		MainCategory:     req.MainCategory,
		Quality:          req.Quality,
		ClassName:        req.ClassName,
		ClassNameArabic:  req.ClassNameArabic,
		ClassNameEnglish: req.ClassNameEnglish,
		ClassFeatures:    req.ClassFeatures,
		ClassPrice:       req.ClassPrice,
		ClassWeight:      req.ClassWeight,
		ClassQuantity:    req.ClassQuantity,
		ClassVideo:       req.ClassVideo,
	}
}

type updateClassRequest struct {
	SpecialID        types.Optional[string]          `json:"specialId"`
	MainCategory     types.Optional[string]          `json:"mainCategory"`
	Quality          types.Optional[string]          `json:"quality"`
	ClassName        types.Optional[string]          `json:"className"`
	ClassNameArabic  types.Optional[string]          `json:"classNameArabic"`
	ClassNameEnglish types.Optional[string]          `json:"classNameEnglish"`
	ClassFeatures    types.Optional[string]          `json:"classFeatures"`
	ClassPrice       types.Optional[decimal.Decimal] `json:"classPrice"`
	ClassWeight      types.Optional[decimal.Decimal] `json:"classWeight"`
	ClassQuantity    types.Optional[int]             `json:"classQuantity"`
	ClassVideo       types.Optional[string]          `json:"classVideo"`
}

func (req updateClassRequest) toInput() catalog.UpdateClassInput {
	return catalog.UpdateClassInput{
		SpecialID:        req.SpecialID,
		MainCategory:     req.MainCategory,
		Quality:          req.Quality,
		ClassName:        req.ClassName,
		ClassNameArabic:  req.ClassNameArabic,
		ClassNameEnglish: req.ClassNameEnglish,
		ClassFeatures:    req.ClassFeatures,
		ClassPrice:       req.ClassPrice,
		ClassWeight:      req.ClassWeight,
		ClassQuantity:    req.ClassQuantity,
		ClassVideo:       req.ClassVideo,
	}
}

type bulkReplaceRequest struct {
	Field   string `json:"field" validate:"required"`
	Search  string `json:"search" validate:"required"`
	Replace string `json:"replace"`
}

type historyEntryResponse struct {
	ID        int64            `json:"id"`
	ClassID   int64            `json:"classId"`
	OldPrice  *decimal.Decimal `json:"oldPrice"`
	NewPrice  *decimal.Decimal `json:"newPrice"`
	ChangedAt time.Time        `json:"changedAt"`
}

func parseIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").WithDetails(map[string]string{"id": "must be a positive integer"})
	}
	return id, nil
}

// CreateClass inserts a catalog record, assigning a special id when the
// payload leaves it blank.
func CreateClass(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createClassRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// UpdateClass applies a partial update. Fields absent from the payload keep
// their stored value; explicit nulls clear the column.
func UpdateClass(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateClassRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), id, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

func DeleteClass(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// DeleteAllClasses clears the catalog and its price ledger in one shot.
func DeleteAllClasses(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := svc.DeleteAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int64{"deletedCount": removed})
	}
}

func GetClass(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// GetClassBySpecialID resolves a class by its business key, ignoring case.
func GetClassBySpecialID(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specialID := strings.TrimSpace(chi.URLParam(r, "specialId"))
		if specialID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "special id is required"))
			return
		}

		dto, err := svc.GetBySpecialID(r.Context(), specialID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

func ListClasses(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filters := catalog.ListFilters{
			Name:      strings.TrimSpace(query.Get("name")),
			Category:  strings.TrimSpace(query.Get("category")),
			Quality:   strings.TrimSpace(query.Get("quality")),
			Orderable: query.Get("orderable") == "true",
		}

		rows, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

// GenerateSpecialID previews the next free id for a prefix. It reserves
// nothing; the id is only claimed when a class is created with it.
func GenerateSpecialID(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefix := strings.TrimSpace(r.URL.Query().Get("prefix"))

		next, err := svc.GenerateSpecialID(r.Context(), prefix)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"specialId": next})
	}
}

// ClassPriceHistory returns the full ledger for one class, newest first.
func ClassPriceHistory(svc catalog.Service, history historySource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// 404 for unknown classes rather than an empty ledger.
		if _, err := svc.Get(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := history.ListByClass(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]historyEntryResponse, 0, len(entries))
		for _, entry := range entries {
			out = append(out, historyEntryResponse{
				ID:        entry.ID,
				ClassID:   entry.ClassID,
				OldPrice:  entry.OldPrice,
				NewPrice:  entry.NewPrice,
				ChangedAt: entry.ChangedAt,
			})
		}

		responses.WriteSuccess(w, out)
	}
}

// RecentPriceChanges returns the latest ledger entries across all classes.
func RecentPriceChanges(history historySource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", defaultRecentChanges, 1, maxRecentChanges)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		changes, err := history.RecentChanges(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, changes)
	}
}

// BulkReplace runs a literal search-and-replace over one text column.
func BulkReplace(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body bulkReplaceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.BulkReplace(r.Context(), body.Field, body.Search, body.Replace)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int64{"updatedCount": updated})
	}
}
