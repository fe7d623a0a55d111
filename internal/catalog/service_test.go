package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/Ebtehal15/turkey-items-v2/internal/pricehistory"
	"github.com/Ebtehal15/turkey-items-v2/pkg/db"
	"github.com/Ebtehal15/turkey-items-v2/pkg/db/models"
	pkgerrors "github.com/Ebtehal15/turkey-items-v2/pkg/errors"
	"github.com/Ebtehal15/turkey-items-v2/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	classes := `
CREATE TABLE IF NOT EXISTS classes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  special_id TEXT UNIQUE,
  main_category TEXT,
  quality TEXT,
  class_name TEXT,
  class_name_arabic TEXT,
  class_name_english TEXT,
  class_features TEXT,
  class_price NUMERIC,
  class_weight NUMERIC,
  class_quantity INTEGER,
  class_video TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	history := `
CREATE TABLE IF NOT EXISTS price_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  class_id INTEGER NOT NULL,
  old_price NUMERIC,
  new_price NUMERIC,
  changed_at DATETIME
);`
	require.NoError(t, conn.Exec(classes).Error)
	require.NoError(t, conn.Exec(history).Error)
	return conn
}

type fakeCleaner struct {
	mu      sync.Mutex
	removed []string
}

func (f *fakeCleaner) Remove(_ context.Context, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, path)
}

func newTestService(t *testing.T) (Service, *gorm.DB, *fakeCleaner) {
	t.Helper()

	conn := setupCatalogTestDB(t)
	cleaner := &fakeCleaner{}
	svc, err := NewService(
		NewRepository(conn),
		pricehistory.NewRepository(conn),
		db.NewFromConn(conn),
		cleaner,
		nil,
	)
	require.NoError(t, err)
	return svc, conn, cleaner
}

func strPtr(value string) *string { return &value }

func decPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func TestCreateRequiresDerivableName(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateClassInput{
		MainCategory: strPtr("boxes"),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateAcceptsAnyNameVariant(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Create(context.Background(), CreateClassInput{
		ClassNameArabic: strPtr("صندوق"),
	})
	require.NoError(t, err)
	require.NotNil(t, created.SpecialID)
	assert.Equal(t, "CR01", *created.SpecialID)
}

func TestCreateGeneratesSpecialIDWhenAbsent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, CreateClassInput{ClassName: strPtr("Box")})
		require.NoError(t, err)
	}

	next, err := svc.GenerateSpecialID(ctx, "CR")
	require.NoError(t, err)
	assert.Equal(t, "CR04", next)

	// Idempotent read: no insert happened, so the same id comes back.
	again, err := svc.GenerateSpecialID(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, next, again)
}

func TestCreateDuplicateSpecialIDConflicts(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateClassInput{ClassName: strPtr("Box"), SpecialID: strPtr("CR01")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateClassInput{ClassName: strPtr("Crate"), SpecialID: strPtr("CR01")})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestUpdatePriceChangeAppendsOneHistoryEntry(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateClassInput{
		ClassName:  strPtr("Box"),
		ClassPrice: decPtr("10"),
	})
	require.NoError(t, err)

	// Creation writes no ledger entry.
	var count int64
	require.NoError(t, conn.Model(&models.PriceHistoryEntry{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = svc.Update(ctx, created.ID, UpdateClassInput{
		ClassPrice: types.Some(decimal.RequireFromString("12")),
	})
	require.NoError(t, err)

	entries, err := pricehistory.NewRepository(conn).ListByClass(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].OldPrice)
	require.NotNil(t, entries[0].NewPrice)
	assert.True(t, entries[0].OldPrice.Equal(decimal.RequireFromString("10")))
	assert.True(t, entries[0].NewPrice.Equal(decimal.RequireFromString("12")))
}

func TestUpdateSamePriceAppendsNothing(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateClassInput{
		ClassName:  strPtr("Box"),
		ClassPrice: decPtr("10"),
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, UpdateClassInput{
		ClassPrice: types.Some(decimal.RequireFromString("10.00")),
		Quality:    types.Some("A"),
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, conn.Model(&models.PriceHistoryEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateNullPriceTransitionIsAChange(t *testing.T) {
	svc, conn, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateClassInput{
		ClassName:  strPtr("Box"),
		ClassPrice: decPtr("10"),
	})
	require.NoError(t, err)

	// Clearing the price ("price on request") is a recorded change.
	_, err = svc.Update(ctx, created.ID, UpdateClassInput{
		ClassPrice: types.Null[decimal.Decimal](),
	})
	require.NoError(t, err)

	entries, err := pricehistory.NewRepository(conn).ListByClass(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].NewPrice)
}

func TestUpdatePartialSemantics(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateClassInput{
		ClassName:    strPtr("Box"),
		MainCategory: strPtr("packaging"),
		ClassPrice:   decPtr("10"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateClassInput{
		Quality: types.Some("premium"),
	})
	require.NoError(t, err)

	// Unset fields retained their stored values.
	require.NotNil(t, updated.MainCategory)
	assert.Equal(t, "packaging", *updated.MainCategory)
	require.NotNil(t, updated.ClassPrice)
	assert.True(t, updated.ClassPrice.Equal(decimal.RequireFromString("10")))
	require.NotNil(t, updated.Quality)
	assert.Equal(t, "premium", *updated.Quality)
}

func TestUpdateMissingClassNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Update(context.Background(), 404, UpdateClassInput{
		Quality: types.Some("A"),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeleteCascadesHistoryAndSchedulesMedia(t *testing.T) {
	svc, conn, cleaner := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateClassInput{
		ClassName:  strPtr("Box"),
		ClassPrice: decPtr("10"),
		ClassVideo: strPtr("media/box.mp4"),
	})
	require.NoError(t, err)
	_, err = svc.Update(ctx, created.ID, UpdateClassInput{
		ClassPrice: types.Some(decimal.RequireFromString("12")),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	var classCount, historyCount int64
	require.NoError(t, conn.Model(&models.Class{}).Count(&classCount).Error)
	require.NoError(t, conn.Model(&models.PriceHistoryEntry{}).Count(&historyCount).Error)
	assert.Zero(t, classCount)
	assert.Zero(t, historyCount)
	assert.Equal(t, []string{"media/box.mp4"}, cleaner.removed)
}

func TestDeleteAllReportsCount(t *testing.T) {
	svc, _, cleaner := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Box", "Crate", "Pallet"} {
		_, err := svc.Create(ctx, CreateClassInput{ClassName: strPtr(name)})
		require.NoError(t, err)
	}

	removed, err := svc.DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)
	assert.Empty(t, cleaner.removed)

	rows, err := svc.List(ctx, ListFilters{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListFiltersAndOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	seed := []CreateClassInput{
		{ClassName: strPtr("Zeta Box"), MainCategory: strPtr("boxes"), Quality: strPtr("B")},
		{ClassName: strPtr("Alpha Box"), MainCategory: strPtr("boxes"), Quality: strPtr("A")},
		{ClassName: strPtr("Crate"), MainCategory: strPtr("crates"), Quality: strPtr("A")},
	}
	for _, input := range seed {
		_, err := svc.Create(ctx, input)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, ListFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Alpha Box", *all[0].ClassName)
	assert.Equal(t, "Zeta Box", *all[1].ClassName)
	assert.Equal(t, "Crate", *all[2].ClassName)

	// Name filter is a case-insensitive substring match.
	matched, err := svc.List(ctx, ListFilters{Name: "box"})
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	// Category/quality are exact AND-combined filters.
	matched, err = svc.List(ctx, ListFilters{Category: "boxes", Quality: "A"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Alpha Box", *matched[0].ClassName)
}

func TestListOrderableFilterDropsZeroQuantity(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	zero := 0
	five := 5
	_, err := svc.Create(ctx, CreateClassInput{ClassName: strPtr("Gone"), ClassQuantity: &zero})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateClassInput{ClassName: strPtr("Stocked"), ClassQuantity: &five})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateClassInput{ClassName: strPtr("Unknown")})
	require.NoError(t, err)

	rows, err := svc.List(ctx, ListFilters{Orderable: true})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestGetBySpecialIDLookupPolicies(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateClassInput{ClassName: strPtr("Box"), SpecialID: strPtr("CR07")})
	require.NoError(t, err)

	// Read path folds case.
	found, err := svc.GetBySpecialID(ctx, "cr07")
	require.NoError(t, err)
	assert.Equal(t, "CR07", *found.SpecialID)

	// Sync path does not.
	_, err = svc.GetBySpecialIDExact(ctx, "cr07")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	_, err = svc.GetBySpecialIDExact(ctx, "CR07")
	require.NoError(t, err)
}

func TestBulkReplaceScopedToField(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateClassInput{
		ClassName:     strPtr("Big Karton"),
		ClassFeatures: strPtr("Karton walls"),
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateClassInput{ClassName: strPtr("Plain Box")})
	require.NoError(t, err)

	touched, err := svc.BulkReplace(ctx, "className", "Karton", "Carton")
	require.NoError(t, err)
	assert.EqualValues(t, 1, touched)

	rows, err := svc.List(ctx, ListFilters{Name: "Carton"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Big Carton", *rows[0].ClassName)
	// Only the named field was touched.
	require.NotNil(t, rows[0].ClassFeatures)
	assert.Equal(t, "Karton walls", *rows[0].ClassFeatures)
}

func TestBulkReplaceRejectsUnknownField(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.BulkReplace(context.Background(), "classPrice", "1", "2")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
