package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/Ebtehal15/turkey-items-v2/pkg/logger"
	"github.com/Ebtehal15/turkey-items-v2/pkg/metrics"
)

const defaultInterval = 5 * time.Minute

// Job is one periodic task run by the worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// RunnerParams configure the runner.
type RunnerParams struct {
	Logger   *logger.Logger
	Jobs     []Job
	Lock     Lock
	Metrics  *metrics.SyncMetrics
	Interval time.Duration
}

// Runner executes the registered jobs on a fixed cadence. A cycle that
// starts while another instance holds the lock is skipped entirely.
type Runner struct {
	logg     *logger.Logger
	jobs     []Job
	lock     Lock
	metrics  *metrics.SyncMetrics
	interval time.Duration
}

// NewRunner builds the periodic runner.
func NewRunner(params RunnerParams) (*Runner, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	jobs := make([]Job, 0, len(params.Jobs))
	for _, job := range params.Jobs {
		if job != nil {
			jobs = append(jobs, job)
		}
	}

	return &Runner{
		logg:     params.Logger,
		jobs:     jobs,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run starts the loop until the context is canceled. The first cycle runs
// immediately rather than waiting one interval.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.runCycle(ctx); err != nil {
		r.logg.Error(ctx, "sync cycle failed", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logg.Info(ctx, "sync runner context canceled")
			return ctx.Err()
		case <-ticker.C:
			if err := r.runCycle(ctx); err != nil {
				r.logg.Error(ctx, "sync cycle failed", err)
			}
		}
	}
}

// RunOnce executes a single cycle. Used by the worker's one-shot mode.
func (r *Runner) RunOnce(ctx context.Context) error {
	return r.runCycle(ctx)
}

func (r *Runner) runCycle(ctx context.Context) error {
	locked, err := r.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		r.logg.Info(ctx, "another sync instance is running; skipping this cycle")
		return nil
	}
	defer func() {
		if relErr := r.lock.Release(ctx); relErr != nil {
			r.logg.Error(ctx, "failed to release sync lock", relErr)
		}
	}()

	for _, job := range r.jobs {
		r.runJob(ctx, job)
	}
	return nil
}

func (r *Runner) runJob(ctx context.Context, job Job) {
	jobCtx := r.logg.WithJob(ctx, job.Name())
	r.logg.Info(jobCtx, "job start")

	start := time.Now()
	err := job.Run(jobCtx)
	duration := time.Since(start)

	r.metrics.ObserveDuration(job.Name(), duration)
	jobCtx = r.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	if err != nil {
		r.metrics.IncFailure(job.Name())
		r.logg.Error(jobCtx, "job failed", err)
		return
	}
	r.metrics.IncSuccess(job.Name())
	r.logg.Info(jobCtx, "job completed")
}
