package jobs

import (
	"context"
	"errors"
	"log/slog"

	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/domain/model/printer"
	"restaurant/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

type (
	// PrinterConnector connects to the configured printer.
	PrinterConnector interface {
		HandleConnect(ctx context.Context, cmd commands.ConnectPrinterCommand) error
	}

	// ConnectionState reports whether the printer is connected.
	ConnectionState interface {
		IsConnected() bool
	}
)

// PrinterReconnectJob reconnects the configured printer after it dropped.
type PrinterReconnectJob struct {
	handler  PrinterConnector
	state    ConnectionState
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewPrinterReconnectJob(
	handler PrinterConnector,
	state ConnectionState,
	schedule string,
	logger *slog.Logger,
) *PrinterReconnectJob {
	return &PrinterReconnectJob{
		handler:  handler,
		state:    state,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "printer_reconnect_job"),
	}
}

// Start schedules the job.
func (j *PrinterReconnectJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Printer reconnect job started", "schedule", j.schedule)
	return nil
}

// Run makes one connection attempt when the printer is down.
func (j *PrinterReconnectJob) Run(ctx context.Context) {
	if j.state.IsConnected() {
		return
	}

	err := j.handler.HandleConnect(ctx, commands.NewConnectPrinterCommand(nil))
	switch {
	case err == nil:
		j.logger.InfoContext(ctx, "Printer reconnected")
	case errors.Is(err, printer.ErrNoDeviceConfigured), errors.Is(err, errs.ErrInvalidState):
		// nothing configured, or a manual connect is in flight
	default:
		j.logger.WarnContext(ctx, "Printer reconnect failed", "error", err)
	}
}

// Stop stops the scheduler and waits for a running attempt.
func (j *PrinterReconnectJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Printer reconnect job stopped")
}
