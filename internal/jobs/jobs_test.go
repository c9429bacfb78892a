package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/domain/model/printer"
	"restaurant/internal/jobs"
	"restaurant/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockBackfiller struct{ mock.Mock }

func (m *MockBackfiller) Handle(ctx context.Context, cmd commands.BackfillKitchenTicketsCommand) (int, error) {
	args := m.Called(ctx, cmd)
	return args.Int(0), args.Error(1)
}

type MockPrinterConnector struct{ mock.Mock }

func (m *MockPrinterConnector) HandleConnect(ctx context.Context, cmd commands.ConnectPrinterCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type connectionState bool

func (s connectionState) IsConnected() bool { return bool(s) }

func TestKitchenBackfillJob_Run(t *testing.T) {
	handler := &MockBackfiller{}
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.BackfillKitchenTicketsCommand) bool {
		return cmd.Validate() == nil
	})).Return(2, nil).Once()
	handler.On("Handle", mock.Anything, mock.Anything).Return(0, errs.ErrNotConnected).Once()

	job := jobs.NewKitchenBackfillJob(handler, "*/30 * * * * *", discardLogger)
	job.Run(t.Context())
	job.Run(t.Context())

	handler.AssertExpectations(t)
}

func TestPrinterReconnectJob_Run(t *testing.T) {
	t.Run("connected_printer_is_left_alone", func(t *testing.T) {
		handler := &MockPrinterConnector{}

		jobs.NewPrinterReconnectJob(handler, connectionState(true), "@every 15s", discardLogger).Run(t.Context())

		handler.AssertNotCalled(t, "HandleConnect", mock.Anything, mock.Anything)
	})

	for name, err := range map[string]error{
		"reconnects":         nil,
		"unreachable":        errs.NewDeviceIOError("connect", errors.New("connection refused")),
		"nothing_configured": printer.ErrNoDeviceConfigured,
	} {
		t.Run(name, func(t *testing.T) {
			handler := &MockPrinterConnector{}
			handler.On("HandleConnect", mock.Anything, mock.Anything).Return(err).Once()

			jobs.NewPrinterReconnectJob(handler, connectionState(false), "@every 15s", discardLogger).Run(t.Context())

			handler.AssertExpectations(t)
		})
	}
}

func TestJobManager(t *testing.T) {
	t.Run("start_and_stop", func(t *testing.T) {
		backfill := jobs.NewKitchenBackfillJob(&MockBackfiller{}, "0 0 3 * * *", discardLogger)
		reconnect := jobs.NewPrinterReconnectJob(&MockPrinterConnector{}, connectionState(true), "0 0 3 * * *", discardLogger)
		jm := jobs.NewJobManager(backfill, reconnect)

		require.NoError(t, jm.StartAll())
		jm.StopAll()
	})

	t.Run("disabled_jobs_are_skipped", func(t *testing.T) {
		jm := jobs.NewJobManager(nil, nil)

		require.NoError(t, jm.StartAll())
		jm.StopAll()
	})

	t.Run("bad_schedule", func(t *testing.T) {
		backfill := jobs.NewKitchenBackfillJob(&MockBackfiller{}, "every now and then", discardLogger)
		reconnect := jobs.NewPrinterReconnectJob(&MockPrinterConnector{}, connectionState(true), "0 0 3 * * *", discardLogger)
		jm := jobs.NewJobManager(backfill, reconnect)

		err := jm.StartAll()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "KitchenBackfillJob")
	})
}
