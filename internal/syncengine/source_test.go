package syncengine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/Ebtehal15/turkey-items-v2/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	data := strings.Join([]string{
		"Special ID,Class Name,Class Price",
		"CR01,Box,10.50",
		"CR02,Crate",
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "CR01", rows[0]["Special ID"])
	assert.Equal(t, "10.50", rows[0]["Class Price"])
	// Short record: missing trailing cell reads as empty.
	assert.Equal(t, "", rows[1]["Class Price"])
}

func TestParseCSVEmptyInput(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFetchDownloadsAndParses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Special ID,Class Name\nCR01,Box\n"))
	}))
	defer srv.Close()

	rows, err := NewCSVSource(5 * time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Box", rows[0]["Class Name"])
}

func TestFetchNonOKStatusIsDependencyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewCSVSource(5 * time.Second).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestFetchRequiresURL(t *testing.T) {
	_, err := NewCSVSource(0).Fetch(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
