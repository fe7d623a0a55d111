package validators

import (
	"net/http"
	"strconv"

	pkgerrors "github.com/Ebtehal15/turkey-items-v2/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter. A missing or
// empty parameter yields defaultVal; out-of-range values are a validation
// error.
func ParseQueryInt(r *http.Request, name string, defaultVal, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid query parameter").WithDetails(map[string]string{name: "must be an integer"})
	}
	if val < min || val > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid query parameter").WithDetails(map[string]string{name: "out of range"})
	}
	return val, nil
}
