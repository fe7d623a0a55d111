package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ebtehal15/turkey-items-v2/pkg/logger"
)

// Cleaner removes class media files from local storage. Removal is
// best-effort on purpose: the catalog record deletion that triggered it has
// already committed, so a missing or locked file is logged and forgotten,
// never surfaced to the caller.
type Cleaner struct {
	root string
	logg *logger.Logger
}

// NewCleaner builds a cleaner rooted at the media upload directory.
func NewCleaner(root string, logg *logger.Logger) *Cleaner {
	return &Cleaner{root: root, logg: logg}
}

// Remove deletes the file behind a class video reference. External URLs are
// not ours to delete and are skipped; relative paths are resolved under the
// root and must stay inside it.
func (c *Cleaner) Remove(ctx context.Context, path string) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || isExternal(trimmed) {
		return
	}

	full := filepath.Join(c.root, filepath.FromSlash(trimmed))
	rel, err := filepath.Rel(c.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		c.warn(ctx, trimmed, "media path escapes storage root")
		return
	}

	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return
		}
		if c.logg != nil {
			c.logg.Error(c.logg.WithField(ctx, "path", trimmed), "media cleanup failed", err)
		}
	}
}

func (c *Cleaner) warn(ctx context.Context, path, msg string) {
	if c.logg == nil {
		return
	}
	c.logg.Warn(c.logg.WithField(ctx, "path", path), msg)
}

func isExternal(path string) bool {
	lowered := strings.ToLower(path)
	return strings.HasPrefix(lowered, "http://") ||
		strings.HasPrefix(lowered, "https://") ||
		strings.HasPrefix(lowered, "//")
}
