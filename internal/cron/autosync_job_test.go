package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/Ebtehal15/turkey-items-v2/internal/settings"
	"github.com/Ebtehal15/turkey-items-v2/internal/syncengine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncConfig struct {
	cfg settings.SheetsSync
	err error
}

func (f *fakeSyncConfig) SheetsSync(context.Context) (*settings.SheetsSync, error) {
	if f.err != nil {
		return nil, f.err
	}
	cfg := f.cfg
	return &cfg, nil
}

type fakeSource struct {
	rows    []syncengine.Row
	err     error
	fetched []string
}

func (f *fakeSource) Fetch(_ context.Context, url string) ([]syncengine.Row, error) {
	f.fetched = append(f.fetched, url)
	return f.rows, f.err
}

type fakeReconciler struct {
	report *syncengine.Report
	err    error
	opts   []syncengine.Options
}

func (f *fakeReconciler) Reconcile(_ context.Context, _ []syncengine.Row, opts syncengine.Options) (*syncengine.Report, error) {
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

func TestAutoSyncJobRunsConfiguredSync(t *testing.T) {
	source := &fakeSource{rows: []syncengine.Row{{"Special ID": "CR01"}}}
	engine := &fakeReconciler{report: &syncengine.Report{ProcessedCount: 1}}
	job, err := NewAutoSyncJob(&fakeSyncConfig{
		cfg: settings.SheetsSync{URL: "https://example.com/sheet.csv", AutoSync: true, UpdateOnly: true},
	}, source, engine, nil, nil)
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []string{"https://example.com/sheet.csv"}, source.fetched)
	require.Len(t, engine.opts, 1)
	assert.True(t, engine.opts[0].UpdateOnly)
}

func TestAutoSyncJobNoopWhenDisabled(t *testing.T) {
	source := &fakeSource{}
	engine := &fakeReconciler{}
	job, err := NewAutoSyncJob(&fakeSyncConfig{
		cfg: settings.SheetsSync{URL: "https://example.com/sheet.csv", AutoSync: false},
	}, source, engine, nil, nil)
	require.NoError(t, err)

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, source.fetched)
	assert.Empty(t, engine.opts)
}

func TestAutoSyncJobPropagatesFetchError(t *testing.T) {
	source := &fakeSource{err: errors.New("unreachable")}
	job, err := NewAutoSyncJob(&fakeSyncConfig{
		cfg: settings.SheetsSync{URL: "https://example.com/sheet.csv", AutoSync: true},
	}, source, &fakeReconciler{}, nil, nil)
	require.NoError(t, err)

	err = job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch source rows")
}
