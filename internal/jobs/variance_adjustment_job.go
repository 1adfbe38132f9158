package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// VarianceAdjustmentJob sweeps approved count entries that are missing
// their ledger adjustment. Approval and adjustment normally commit
// together; this job catches rows approved outside the service, such as
// a bulk import. Runs every five minutes.
type VarianceAdjustmentJob struct {
	handler commands.AdjustApprovedEntriesCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewVarianceAdjustmentJob creates a job over the adjustment sweep handler.
func NewVarianceAdjustmentJob(handler commands.AdjustApprovedEntriesCommandHandler, logger *slog.Logger) *VarianceAdjustmentJob {
	return &VarianceAdjustmentJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "variance_adjustment_job"),
	}
}

// Start schedules the sweep every five minutes.
func (j *VarianceAdjustmentJob) Start() error {
	_, err := j.cron.AddFunc("0 */5 * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewAdjustApprovedEntriesCommand()

		adjusted, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Variance adjustment sweep failed", "error", err)
			return
		}
		if adjusted > 0 {
			j.logger.InfoContext(ctx, "Applied missing variance adjustments", "count", adjusted)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Variance adjustment job started (running every 5 minutes)")
	return nil
}

// Stop stops the variance adjustment job.
func (j *VarianceAdjustmentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Variance adjustment job stopped")
}
