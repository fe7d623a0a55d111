package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/Ebtehal15/turkey-items-v2/api/responses"
	"github.com/Ebtehal15/turkey-items-v2/api/validators"
	"github.com/Ebtehal15/turkey-items-v2/internal/settings"
	"github.com/Ebtehal15/turkey-items-v2/internal/syncengine"
	pkgerrors "github.com/Ebtehal15/turkey-items-v2/pkg/errors"
	"github.com/Ebtehal15/turkey-items-v2/pkg/logger"
)

type rowReconciler interface {
	Reconcile(ctx context.Context, rows []syncengine.Row, opts syncengine.Options) (*syncengine.Report, error)
}

type rowFetcher interface {
	Fetch(ctx context.Context, url string) ([]syncengine.Row, error)
}

type syncConfigSource interface {
	SheetsSync(ctx context.Context) (*settings.SheetsSync, error)
}

type runSyncRequest struct {
	Rows       []syncengine.Row `json:"rows"`
	CSVURL     string           `json:"csvUrl" validate:"omitempty,url"`
	UpdateOnly *bool            `json:"updateOnly"`
}

// RunSync triggers a bulk reconcile. Rows come from the request body, from
// an explicit CSV url, or from the saved sheet configuration, in that order
// of preference.
func RunSync(engine rowReconciler, source rowFetcher, config syncConfigSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body runSyncRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows := body.Rows
		updateOnly := body.UpdateOnly != nil && *body.UpdateOnly

		if len(rows) == 0 {
			url := strings.TrimSpace(body.CSVURL)
			if url == "" {
				cfg, err := config.SheetsSync(r.Context())
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				url = strings.TrimSpace(cfg.URL)
				if body.UpdateOnly == nil {
					updateOnly = cfg.UpdateOnly
				}
			}
			if url == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no rows, csv url, or saved sheet url to sync from"))
				return
			}

			fetched, err := source.Fetch(r.Context(), url)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			rows = fetched
		}

		report, err := engine.Reconcile(r.Context(), rows, syncengine.Options{UpdateOnly: updateOnly})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
