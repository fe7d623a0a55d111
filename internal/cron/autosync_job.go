package cron

import (
	"context"
	"fmt"

	"github.com/Ebtehal15/turkey-items-v2/internal/settings"
	"github.com/Ebtehal15/turkey-items-v2/internal/syncengine"
	"github.com/Ebtehal15/turkey-items-v2/pkg/logger"
	"github.com/Ebtehal15/turkey-items-v2/pkg/metrics"
)

type syncConfigReader interface {
	SheetsSync(ctx context.Context) (*settings.SheetsSync, error)
}

type rowSource interface {
	Fetch(ctx context.Context, url string) ([]syncengine.Row, error)
}

type reconciler interface {
	Reconcile(ctx context.Context, rows []syncengine.Row, opts syncengine.Options) (*syncengine.Report, error)
}

// AutoSyncJob runs the bulk sync engine against the configured spreadsheet
// source. When auto-sync is disabled or no source is configured the job is
// a quiet no-op, so the runner can always keep it registered.
type AutoSyncJob struct {
	config  syncConfigReader
	source  rowSource
	engine  reconciler
	metrics *metrics.SyncMetrics
	logg    *logger.Logger
}

// NewAutoSyncJob constructs the periodic sync job.
func NewAutoSyncJob(config syncConfigReader, source rowSource, engine reconciler, m *metrics.SyncMetrics, logg *logger.Logger) (*AutoSyncJob, error) {
	if config == nil {
		return nil, fmt.Errorf("sync config reader required")
	}
	if source == nil {
		return nil, fmt.Errorf("row source required")
	}
	if engine == nil {
		return nil, fmt.Errorf("reconciler required")
	}
	return &AutoSyncJob{
		config:  config,
		source:  source,
		engine:  engine,
		metrics: m,
		logg:    logg,
	}, nil
}

// Name identifies the job in logs and metrics.
func (j *AutoSyncJob) Name() string { return "sheet_auto_sync" }

// Run executes one sync pass.
func (j *AutoSyncJob) Run(ctx context.Context) error {
	cfg, err := j.config.SheetsSync(ctx)
	if err != nil {
		return fmt.Errorf("load sync config: %w", err)
	}
	if !cfg.AutoSync || cfg.URL == "" {
		if j.logg != nil {
			j.logg.Info(ctx, "auto-sync disabled; nothing to do")
		}
		return nil
	}

	rows, err := j.source.Fetch(ctx, cfg.URL)
	if err != nil {
		return fmt.Errorf("fetch source rows: %w", err)
	}

	report, err := j.engine.Reconcile(ctx, rows, syncengine.Options{UpdateOnly: cfg.UpdateOnly})
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	j.metrics.AddRows(j.Name(), "processed", report.ProcessedCount)
	j.metrics.AddRows(j.Name(), "skipped", report.SkippedCount)
	return nil
}
