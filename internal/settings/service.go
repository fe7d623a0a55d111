package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/Ebtehal15/turkey-items-v2/pkg/errors"
	"gorm.io/gorm"
)

// Setting keys. The table is open-ended but these two drive the UI and the
// auto-sync worker.
const (
	KeyColumnVisibility = "columnVisibility"
	KeyGoogleSheetsSync = "googleSheetsSync"
)

// ColumnVisibility maps a catalog column key to whether the UI shows it.
type ColumnVisibility map[string]bool

// defaultColumnVisibility is served when nothing has been stored yet.
var defaultColumnVisibility = ColumnVisibility{
	"specialId":        true,
	"mainCategory":     true,
	"quality":          true,
	"className":        true,
	"classNameArabic":  true,
	"classNameEnglish": true,
	"classFeatures":    true,
	"classPrice":       true,
	"classWeight":      true,
	"classQuantity":    true,
	"classVideo":       true,
}

// SheetsSync configures the external spreadsheet source for the bulk sync
// engine and whether the periodic auto-sync runs against it.
type SheetsSync struct {
	URL        string `json:"url"`
	AutoSync   bool   `json:"autoSync"`
	UpdateOnly bool   `json:"updateOnly"`
}

// Service exposes typed accessors over the settings store.
type Service interface {
	ColumnVisibility(ctx context.Context) (ColumnVisibility, error)
	SetColumnVisibility(ctx context.Context, visibility ColumnVisibility) error
	SheetsSync(ctx context.Context) (*SheetsSync, error)
	SetSheetsSync(ctx context.Context, cfg SheetsSync) error
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
}

type service struct {
	repo *Repository
}

// NewService constructs a settings service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

// ColumnVisibility returns the stored map, or the all-visible default when
// nothing has been stored.
func (s *service) ColumnVisibility(ctx context.Context) (ColumnVisibility, error) {
	raw, err := s.Get(ctx, KeyColumnVisibility)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			out := make(ColumnVisibility, len(defaultColumnVisibility))
			for key, visible := range defaultColumnVisibility {
				out[key] = visible
			}
			return out, nil
		}
		return nil, err
	}

	var visibility ColumnVisibility
	if err := json.Unmarshal(raw, &visibility); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode column visibility")
	}
	return visibility, nil
}

// SetColumnVisibility stores the map. At least one column must remain
// visible; a change that would hide everything is rejected.
func (s *service) SetColumnVisibility(ctx context.Context, visibility ColumnVisibility) error {
	anyVisible := false
	for _, visible := range visibility {
		if visible {
			anyVisible = true
			break
		}
	}
	if !anyVisible {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one column must remain visible").
			WithDetails(map[string]string{"field": KeyColumnVisibility})
	}

	raw, err := json.Marshal(visibility)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode column visibility")
	}
	return s.Set(ctx, KeyColumnVisibility, raw)
}

// SheetsSync returns the stored sync configuration, or a zero value when
// nothing has been stored.
func (s *service) SheetsSync(ctx context.Context) (*SheetsSync, error) {
	raw, err := s.Get(ctx, KeyGoogleSheetsSync)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return &SheetsSync{}, nil
		}
		return nil, err
	}

	var cfg SheetsSync
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode sheets sync config")
	}
	return &cfg, nil
}

// SetSheetsSync stores the sync configuration. Auto-sync without a source
// URL is rejected.
func (s *service) SetSheetsSync(ctx context.Context, cfg SheetsSync) error {
	cfg.URL = strings.TrimSpace(cfg.URL)
	if cfg.AutoSync && cfg.URL == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "auto-sync requires a source url").
			WithDetails(map[string]string{"field": "url"})
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode sheets sync config")
	}
	return s.Set(ctx, KeyGoogleSheetsSync, raw)
}

// Get loads one raw setting value.
func (s *service) Get(ctx context.Context, key string) (json.RawMessage, error) {
	row, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setting not found").
				WithDetails(map[string]string{"key": key})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load setting")
	}
	return row.Value, nil
}

// Set writes one raw setting value.
func (s *service) Set(ctx context.Context, key string, value json.RawMessage) error {
	if strings.TrimSpace(key) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "setting key is required")
	}
	if !json.Valid(value) {
		return pkgerrors.New(pkgerrors.CodeValidation, "setting value must be valid JSON").
			WithDetails(map[string]string{"key": key})
	}
	if err := s.repo.Upsert(ctx, key, value); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save setting")
	}
	return nil
}
