package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultSpecialIDPrefix is used when a caller asks for a generated special
// id without naming a prefix.
const DefaultSpecialIDPrefix = "CR"

// nextSpecialID scans the known special ids sharing prefix, finds the
// maximum numeric suffix, and returns prefix + (max+1) zero-padded to at
// least two digits. Ids whose suffix is not numeric are ignored.
//
// Generation is an advisory read: two callers in a short window can receive
// the same id. The insert path's unique constraint is the recovery, not
// prevention, and surfaces as a conflict the caller retries with a fresh id.
func nextSpecialID(existing []string, prefix string) string {
	max := 0
	for _, id := range existing {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		suffix := strings.TrimSpace(id[len(prefix):])
		if suffix == "" {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil || n < 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%02d", prefix, max+1)
}
