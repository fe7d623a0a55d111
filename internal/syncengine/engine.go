package syncengine

import (
	"context"
	"fmt"

	"github.com/Ebtehal15/turkey-items-v2/internal/catalog"
	pkgerrors "github.com/Ebtehal15/turkey-items-v2/pkg/errors"
	"github.com/Ebtehal15/turkey-items-v2/pkg/logger"
	"github.com/Ebtehal15/turkey-items-v2/pkg/types"
	"github.com/shopspring/decimal"
)

// headerRowOffset converts a zero-based row position into the 1-based
// spreadsheet row number the report uses, accounting for the header row.
const headerRowOffset = 2

// Options controls a reconcile run.
type Options struct {
	// UpdateOnly skips rows whose special id has no existing record
	// instead of inserting them.
	UpdateOnly bool
}

// SkipEntry names one row the engine could not apply and why.
type SkipEntry struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Report summarizes a reconcile run.
type Report struct {
	ProcessedCount int         `json:"processedCount"`
	SkippedCount   int         `json:"skippedCount"`
	Skipped        []SkipEntry `json:"skipped"`
}

// catalogStore is the slice of the catalog the engine needs. The existing-
// record lookup is the exact-match variant; this path intentionally does
// not fold case the way the list endpoints do.
type catalogStore interface {
	GetBySpecialIDExact(ctx context.Context, specialID string) (*catalog.ClassDTO, error)
	Create(ctx context.Context, input catalog.CreateClassInput) (*catalog.ClassDTO, error)
	Update(ctx context.Context, id int64, input catalog.UpdateClassInput) (*catalog.ClassDTO, error)
}

// Engine reconciles external tabular rows against the catalog.
type Engine struct {
	store catalogStore
	log   *logger.Logger
}

// NewEngine constructs a sync engine.
func NewEngine(store catalogStore, log *logger.Logger) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	return &Engine{store: store, log: log}, nil
}

// Reconcile applies rows in submitted order. One row's failure never aborts
// the batch: the row is captured in the skip report with a reason and the
// loop continues. Rows are processed sequentially, which also keeps two
// rows sharing a special id deterministic relative to each other.
func (e *Engine) Reconcile(ctx context.Context, rows []Row, opts Options) (*Report, error) {
	report := &Report{Skipped: []SkipEntry{}}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if reason := e.applyRow(ctx, row, opts); reason != "" {
			report.SkippedCount++
			report.Skipped = append(report.Skipped, SkipEntry{
				Index:  i + headerRowOffset,
				Reason: reason,
			})
			continue
		}
		report.ProcessedCount++
	}

	if e.log != nil {
		fields := map[string]any{
			"processed": report.ProcessedCount,
			"skipped":   report.SkippedCount,
		}
		e.log.Info(e.log.WithFields(ctx, fields), "bulk sync finished")
	}
	return report, nil
}

// applyRow upserts one row and returns a skip reason, or "" on success.
func (e *Engine) applyRow(ctx context.Context, row Row, opts Options) string {
	record := canonicalize(row)

	specialID := record[fieldSpecialID]
	if specialID == "" {
		return "special id could not be derived"
	}

	existing, err := e.store.GetBySpecialIDExact(ctx, specialID)
	switch {
	case err == nil:
		if _, err := e.store.Update(ctx, existing.ID, buildUpdate(record)); err != nil {
			return fmt.Sprintf("update failed: %s", errReason(err))
		}
		return ""
	case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		if opts.UpdateOnly {
			return "record not found (update-only mode)"
		}
		if _, err := e.store.Create(ctx, buildCreate(record, specialID)); err != nil {
			return fmt.Sprintf("insert failed: %s", errReason(err))
		}
		return ""
	default:
		return fmt.Sprintf("lookup failed: %s", errReason(err))
	}
}

// buildUpdate maps only the columns present in the row onto a partial
// update, so columns the source never mentions keep their stored values.
// A present-but-empty numeric cell clears the column.
func buildUpdate(record map[string]string) catalog.UpdateClassInput {
	var input catalog.UpdateClassInput

	if value, ok := record[fieldMainCategory]; ok {
		input.MainCategory = types.Some(value)
	}
	if value, ok := record[fieldQuality]; ok {
		input.Quality = types.Some(value)
	}
	if value, ok := record[fieldClassName]; ok {
		input.ClassName = types.Some(value)
	}
	if value, ok := record[fieldClassNameArabic]; ok {
		input.ClassNameArabic = types.Some(value)
	}
	if value, ok := record[fieldClassNameEnglish]; ok {
		input.ClassNameEnglish = types.Some(value)
	}
	if value, ok := record[fieldClassFeatures]; ok {
		input.ClassFeatures = types.Some(value)
	}
	if value, ok := record[fieldClassPrice]; ok {
		input.ClassPrice = optionalDecimal(parseDecimalCell(value))
	}
	if value, ok := record[fieldClassWeight]; ok {
		input.ClassWeight = optionalDecimal(parseDecimalCell(value))
	}
	if value, ok := record[fieldClassQuantity]; ok {
		input.ClassQuantity = optionalInt(parseIntCell(value))
	}
	if value, ok := record[fieldClassVideo]; ok {
		input.ClassVideo = types.Some(value)
	}
	return input
}

// buildCreate maps the full canonical record onto a create payload.
func buildCreate(record map[string]string, specialID string) catalog.CreateClassInput {
	input := catalog.CreateClassInput{
		SpecialID:     &specialID,
		ClassPrice:    parseDecimalCell(record[fieldClassPrice]),
		ClassWeight:   parseDecimalCell(record[fieldClassWeight]),
		ClassQuantity: parseIntCell(record[fieldClassQuantity]),
	}
	if value := record[fieldMainCategory]; value != "" {
		input.MainCategory = &value
	}
	if value := record[fieldQuality]; value != "" {
		input.Quality = &value
	}
	if value := record[fieldClassName]; value != "" {
		input.ClassName = &value
	}
	if value := record[fieldClassNameArabic]; value != "" {
		input.ClassNameArabic = &value
	}
	if value := record[fieldClassNameEnglish]; value != "" {
		input.ClassNameEnglish = &value
	}
	if value := record[fieldClassFeatures]; value != "" {
		input.ClassFeatures = &value
	}
	if value := record[fieldClassVideo]; value != "" {
		input.ClassVideo = &value
	}
	return input
}

func optionalDecimal(value *decimal.Decimal) types.Optional[decimal.Decimal] {
	if value == nil {
		return types.Null[decimal.Decimal]()
	}
	return types.Some(*value)
}

func optionalInt(value *int) types.Optional[int] {
	if value == nil {
		return types.Null[int]()
	}
	return types.Some(*value)
}

func errReason(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Message()
	}
	return err.Error()
}
