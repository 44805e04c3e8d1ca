package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"biolab_backend/internals/features/content/form"
	"biolab_backend/internals/features/content/model"
	"biolab_backend/internals/helpers/logger"
	"biolab_backend/internals/helpers/metrics"
	"biolab_backend/internals/helpers/storage"
)

// StaleLedger lists ledger rows the reaper may remove.
type StaleLedger interface {
	Ledger
	Stale(ctx context.Context, statuses []string, cutoff time.Time, limit int) ([]model.UploadModel, error)
}

type ReaperConfig struct {
	Schedule  string        // cron spec, e.g. "15 2 * * *"
	Retention time.Duration // pending/orphaned entries older than this are removed
	DryRun    bool
	BatchSize int
}

// Reaper deletes objects that never got attached to a content row, and sweeps idle drafts.
type Reaper struct {
	cfg     ReaperConfig
	ledger  StaleLedger
	blob    storage.BlobService
	drafts  *form.Registry
	content *ContentService
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewReaper(cfg ReaperConfig, ledger StaleLedger, blob storage.BlobService, drafts *form.Registry, content *ContentService, log *logger.Logger, m *metrics.Metrics) *Reaper {
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Reaper{cfg: cfg, ledger: ledger, blob: blob, drafts: drafts, content: content, log: log, metrics: m, now: time.Now}
}

// RunOnce removes one batch and returns how many objects were deleted (or would be, in
// dry-run mode).
func (r *Reaper) RunOnce(ctx context.Context) (int, error) {
	if r.drafts != nil {
		for _, f := range r.drafts.Sweep() {
			if r.content != nil && !r.cfg.DryRun {
				r.content.Discard(ctx, f)
			}
		}
	}

	cutoff := r.now().Add(-r.cfg.Retention)
	rows, err := r.ledger.Stale(ctx, []string{model.UploadPending, model.UploadOrphaned}, cutoff, r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	urls := make([]string, 0, len(rows))
	for _, row := range rows {
		urls = append(urls, row.PublicURL)
	}
	if r.cfg.DryRun {
		r.log.Info("reaper dry run", "candidates", len(urls), "cutoff", cutoff.Format(time.RFC3339))
		return len(urls), nil
	}

	deleted, failed := r.blob.DeleteManyByPublicURL(ctx, urls)
	for u, ferr := range failed {
		r.log.Warn("reaper delete failed", "url", u, "error", ferr)
	}
	if err := r.ledger.DeleteByURL(ctx, deleted); err != nil {
		return len(deleted), err
	}
	r.metrics.Reaped(len(deleted))
	r.log.Info("reaper finished", "deleted", len(deleted), "failed", len(failed))
	return len(deleted), nil
}

// Start schedules RunOnce. Stop the returned cron on shutdown.
func (r *Reaper) Start() (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(r.cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()
		if _, err := r.RunOnce(ctx); err != nil {
			r.log.Error("reaper run failed", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	r.log.Info("reaper started", "schedule", r.cfg.Schedule, "retention", r.cfg.Retention.String(), "dry_run", r.cfg.DryRun)
	c.Start()
	return c, nil
}
