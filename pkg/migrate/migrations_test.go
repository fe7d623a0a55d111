package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Ebtehal15/turkey-items-v2/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestClassesMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_classes.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no classes migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE classes",
		"CREATE UNIQUE INDEX uq_classes_special_id",
		"CREATE TABLE price_history",
		"ON DELETE CASCADE",
		"CREATE INDEX idx_price_history_class",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestLaterClassColumnsAreNullable(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_add_class_stock_and_media.sql"))
	if err != nil || len(matches) == 0 {
		t.Fatalf("no stock/media migration file found: %v", err)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	if strings.Contains(content, "NOT NULL") {
		t.Fatalf("columns added after launch must stay nullable")
	}
	for _, col := range []string{"class_weight", "class_quantity", "class_video"} {
		if !strings.Contains(content, "ADD COLUMN IF NOT EXISTS "+col) {
			t.Errorf("missing idempotent add for column %q", col)
		}
	}
}
