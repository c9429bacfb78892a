package jobs

import (
	"context"
	"log/slog"

	"restaurant/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// KitchenBackfiller sends kitchen tickets that were missed while the printer was offline.
type KitchenBackfiller interface {
	Handle(ctx context.Context, cmd commands.BackfillKitchenTicketsCommand) (int, error)
}

// KitchenBackfillJob periodically prints pending kitchen tickets.
type KitchenBackfillJob struct {
	handler  KitchenBackfiller
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewKitchenBackfillJob(handler KitchenBackfiller, schedule string, logger *slog.Logger) *KitchenBackfillJob {
	return &KitchenBackfillJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "kitchen_backfill_job"),
	}
}

// Start schedules the job.
func (j *KitchenBackfillJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Kitchen backfill job started", "schedule", j.schedule)
	return nil
}

// Run performs one backfill pass.
func (j *KitchenBackfillJob) Run(ctx context.Context) {
	cmd, err := commands.NewBackfillKitchenTicketsCommand(0)
	if err != nil {
		j.logger.ErrorContext(ctx, "Kitchen backfill command rejected", "error", err)
		return
	}

	sent, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.WarnContext(ctx, "Kitchen backfill interrupted", "sent", sent, "error", err)
		return
	}
	if sent > 0 {
		j.logger.InfoContext(ctx, "Kitchen tickets backfilled", "sent", sent)
	}
}

// Stop stops the scheduler and waits for a running pass.
func (j *KitchenBackfillJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Kitchen backfill job stopped")
}
