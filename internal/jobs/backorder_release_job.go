package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// BackorderReleaseJob periodically re-attempts reservation for deferred
// orders. Runs every 30 seconds so replenished stock flows back into the
// pending pool without waiting for a manual trigger.
type BackorderReleaseJob struct {
	handler commands.ReleaseBackordersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewBackorderReleaseJob creates a job over the release sweep handler.
func NewBackorderReleaseJob(handler commands.ReleaseBackordersCommandHandler, logger *slog.Logger) *BackorderReleaseJob {
	return &BackorderReleaseJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "backorder_release_job"),
	}
}

// Start schedules the sweep every 30 seconds.
func (j *BackorderReleaseJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewReleaseBackordersCommand()

		released, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Backorder release sweep failed", "error", err)
			return
		}
		if released > 0 {
			j.logger.InfoContext(ctx, "Released backorders", "count", released)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Backorder release job started (running every 30 seconds)")
	return nil
}

// Stop stops the backorder release job.
func (j *BackorderReleaseJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Backorder release job stopped")
}
