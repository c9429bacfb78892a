package commands_test

import (
	"context"
	"testing"

	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/printer"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPrintTicketCommandHandler(t *testing.T) {
	e := newEnv(t)
	e.addTable(t, 5)
	created := e.createDineIn(t, 5)
	e.dispatcher.connected = true
	h := commands.NewPrintTicketCommandHandler(uowFactory{e.store}, e.dispatcher)

	cmd, err := commands.NewPrintTicketCommand(created.ID(), order.DineInTicket, false)
	require.NoError(t, err)
	result, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.True(t, result.Printed)

	tickets := e.dispatcher.tickets()
	require.Len(t, tickets, 1)
	require.NotNil(t, tickets[0].table)
	assert.Equal(t, 5, tickets[0].table.Number())

	t.Run("printed_ticket_is_skipped", func(t *testing.T) {
		kitchen := e.order(t, created.ID())
		require.NoError(t, kitchen.MarkPrinted(order.KitchenTicket, kitchen.UpdatedAt()))
		uow := e.store.Create()
		require.NoError(t, uow.Begin(t.Context()))
		require.NoError(t, uow.OrderRepository().Update(t.Context(), kitchen))
		require.NoError(t, uow.Commit(t.Context()))

		skip, err := commands.NewPrintTicketCommand(created.ID(), order.KitchenTicket, false)
		require.NoError(t, err)
		result, err := h.Handle(t.Context(), skip)
		require.NoError(t, err)
		assert.False(t, result.Printed)
		assert.Len(t, e.dispatcher.tickets(), 1)

		reprint, err := commands.NewPrintTicketCommand(created.ID(), order.KitchenTicket, true)
		require.NoError(t, err)
		result, err = h.Handle(t.Context(), reprint)
		require.NoError(t, err)
		assert.True(t, result.Printed)
		assert.Len(t, e.dispatcher.tickets(), 2)
	})

	t.Run("dispatcher_errors_are_returned", func(t *testing.T) {
		e.dispatcher.err = errs.ErrNotConnected
		defer func() { e.dispatcher.err = nil }()

		again, err := commands.NewPrintTicketCommand(created.ID(), order.DineInTicket, true)
		require.NoError(t, err)
		_, err = h.Handle(t.Context(), again)
		require.ErrorIs(t, err, errs.ErrNotConnected)
	})
}

func TestNewPrintTicketCommand_Validation(t *testing.T) {
	_, err := commands.NewPrintTicketCommand(kernel.NewUUID(), order.UnknownTicketKind, false)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

type MockPrinterControl struct{ mock.Mock }

func (m *MockPrinterControl) Connect(ctx context.Context, connector ports.PrinterConnector) error {
	return m.Called(ctx, connector).Error(0)
}

func (m *MockPrinterControl) Disconnect() error { return m.Called().Error(0) }

func (m *MockPrinterControl) TestPrint(ctx context.Context) error { return m.Called(ctx).Error(0) }

type stubConnector struct{ device printer.Device }

func (c stubConnector) Connect(context.Context) (ports.PrinterSession, error) { return nil, nil }

func (c stubConnector) Device() printer.Device { return c.device }

func TestPrinterCommandHandler_Connect(t *testing.T) {
	configured, err := printer.NewNetworkDevice("192.168.0.50", 0)
	require.NoError(t, err)
	requested, err := printer.NewLocalDevice(0x04b8, 0x0202)
	require.NoError(t, err)

	var built []printer.Device
	factory := func(d printer.Device) ports.PrinterConnector {
		built = append(built, d)
		return stubConnector{device: d}
	}

	control := new(MockPrinterControl)
	control.On("Connect", mock.Anything, mock.AnythingOfType("commands_test.stubConnector")).Return(nil).Twice()
	h := commands.NewPrinterCommandHandler(control, factory, configured)

	require.NoError(t, h.HandleConnect(t.Context(), commands.NewConnectPrinterCommand(nil)))
	require.NoError(t, h.HandleConnect(t.Context(), commands.NewConnectPrinterCommand(&requested)))

	require.Len(t, built, 2)
	assert.Equal(t, configured, built[0])
	assert.Equal(t, requested, built[1])
	control.AssertExpectations(t)

	t.Run("no_device", func(t *testing.T) {
		empty := commands.NewPrinterCommandHandler(control, factory, printer.Device{})
		err := empty.HandleConnect(t.Context(), commands.NewConnectPrinterCommand(nil))
		require.ErrorIs(t, err, printer.ErrNoDeviceConfigured)
	})

	t.Run("not_constructed", func(t *testing.T) {
		err := h.HandleConnect(t.Context(), commands.ConnectPrinterCommand{})
		require.ErrorIs(t, err, commands.ErrConnectPrinterCommandIsNotConstructed)
	})
}
