package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveDeletesLocalFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "videos", "box.mp4")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	NewCleaner(root, nil).Remove(context.Background(), "videos/box.mp4")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveMissingFileIsSilent(t *testing.T) {
	NewCleaner(t.TempDir(), nil).Remove(context.Background(), "videos/gone.mp4")
}

func TestRemoveSkipsExternalURLs(t *testing.T) {
	root := t.TempDir()
	// Nothing under root matches these; the point is no panic, no error.
	cleaner := NewCleaner(root, nil)
	cleaner.Remove(context.Background(), "https://cdn.example.com/video.mp4")
	cleaner.Remove(context.Background(), "HTTP://cdn.example.com/video.mp4")
	cleaner.Remove(context.Background(), "//cdn.example.com/video.mp4")
}

func TestRemoveRefusesPathTraversal(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(filepath.Dir(root), "victim.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep me"), 0o644))
	t.Cleanup(func() { _ = os.Remove(outside) })

	NewCleaner(root, nil).Remove(context.Background(), "../victim.txt")

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

func TestRemoveEmptyPathIsNoop(t *testing.T) {
	NewCleaner(t.TempDir(), nil).Remove(context.Background(), "   ")
}
