package syncengine

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Row is one loosely-typed tabular record from an external source. Keys are
// whatever the spreadsheet's header row said; values are raw cell text.
type Row map[string]string

// Canonical field names after synonym resolution.
const (
	fieldSpecialID        = "specialId"
	fieldMainCategory     = "mainCategory"
	fieldQuality          = "quality"
	fieldClassName        = "className"
	fieldClassNameArabic  = "classNameArabic"
	fieldClassNameEnglish = "classNameEnglish"
	fieldClassFeatures    = "classFeatures"
	fieldClassPrice       = "classPrice"
	fieldClassWeight      = "classWeight"
	fieldClassQuantity    = "classQuantity"
	fieldClassVideo       = "classVideo"
)

// columnSynonyms maps normalized header names to canonical fields. Sources
// disagree on header spelling ("Class Price", "class_price", "price"); the
// engine accepts them all.
var columnSynonyms = map[string]string{
	"special id":         fieldSpecialID,
	"specialid":          fieldSpecialID,
	"code":               fieldSpecialID,
	"main category":      fieldMainCategory,
	"maincategory":       fieldMainCategory,
	"category":           fieldMainCategory,
	"quality":            fieldQuality,
	"group":              fieldQuality,
	"class name":         fieldClassName,
	"classname":          fieldClassName,
	"name":               fieldClassName,
	"class name arabic":  fieldClassNameArabic,
	"classnamearabic":    fieldClassNameArabic,
	"arabic name":        fieldClassNameArabic,
	"class name english": fieldClassNameEnglish,
	"classnameenglish":   fieldClassNameEnglish,
	"english name":       fieldClassNameEnglish,
	"class features":     fieldClassFeatures,
	"classfeatures":      fieldClassFeatures,
	"features":           fieldClassFeatures,
	"class price":        fieldClassPrice,
	"classprice":         fieldClassPrice,
	"price":              fieldClassPrice,
	"class weight":       fieldClassWeight,
	"classweight":        fieldClassWeight,
	"weight":             fieldClassWeight,
	"class quantity":     fieldClassQuantity,
	"classquantity":      fieldClassQuantity,
	"quantity":           fieldClassQuantity,
	"qty":                fieldClassQuantity,
	"class video":        fieldClassVideo,
	"classvideo":         fieldClassVideo,
	"video":              fieldClassVideo,
}

// normalizeHeader folds a header name to its lookup form: lower-cased, with
// underscores and dashes treated as spaces and runs of spaces collapsed.
func normalizeHeader(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	lowered = strings.NewReplacer("_", " ", "-", " ").Replace(lowered)
	return strings.Join(strings.Fields(lowered), " ")
}

// canonicalize resolves a row's headers through the synonym table. When two
// source columns resolve to the same canonical field, the first non-empty
// value wins. Unrecognized columns are dropped.
func canonicalize(row Row) map[string]string {
	out := make(map[string]string, len(row))
	for key, value := range row {
		canonical, ok := columnSynonyms[normalizeHeader(key)]
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(value)
		if existing, present := out[canonical]; present && existing != "" {
			continue
		}
		out[canonical] = trimmed
	}
	return out
}

// parseDecimalCell coerces cell text to a decimal. Empty or unparseable
// text falls back to null rather than failing the row.
func parseDecimalCell(value string) *decimal.Decimal {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}
	return &d
}

// parseIntCell coerces cell text to an integer with the same null fallback.
func parseIntCell(value string) *int {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return nil
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return nil
	}
	return &n
}
