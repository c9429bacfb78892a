package commands_test

import (
	"testing"

	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackfillKitchenTicketsCommandHandler(t *testing.T) {
	e := newEnv(t)
	e.addTable(t, 1)
	e.addTable(t, 2)
	first := e.createDineIn(t, 1)
	second := e.createDineIn(t, 2)
	require.Empty(t, e.dispatcher.tickets(), "printer was offline while ordering")

	h := commands.NewBackfillKitchenTicketsCommandHandler(orderUoWFactory{e.store}, e.dispatcher)

	t.Run("offline_printer_is_skipped", func(t *testing.T) {
		cmd, err := commands.NewBackfillKitchenTicketsCommand(0)
		require.NoError(t, err)

		sent, err := h.Handle(t.Context(), cmd)
		require.NoError(t, err)
		assert.Zero(t, sent)
	})

	e.dispatcher.connected = true

	t.Run("send_failure_stops_the_run", func(t *testing.T) {
		e.dispatcher.err = errs.ErrNotConnected
		defer func() { e.dispatcher.err = nil }()

		cmd, err := commands.NewBackfillKitchenTicketsCommand(0)
		require.NoError(t, err)

		sent, err := h.Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrNotConnected)
		assert.Zero(t, sent)
	})

	t.Run("batch_limits_the_run", func(t *testing.T) {
		cmd, err := commands.NewBackfillKitchenTicketsCommand(1)
		require.NoError(t, err)

		sent, err := h.Handle(t.Context(), cmd)
		require.NoError(t, err)
		assert.Equal(t, 1, sent)
	})

	t.Run("oldest_first", func(t *testing.T) {
		before := len(e.dispatcher.tickets())
		cmd, err := commands.NewBackfillKitchenTicketsCommand(0)
		require.NoError(t, err)

		sent, err := h.Handle(t.Context(), cmd)
		require.NoError(t, err)
		assert.Equal(t, 2, sent)

		tickets := e.dispatcher.tickets()[before:]
		require.Len(t, tickets, 2)
		assert.Equal(t, first.ID(), tickets[0].orderID)
		assert.Equal(t, second.ID(), tickets[1].orderID)
		for _, ticket := range tickets {
			assert.Equal(t, order.KitchenTicket, ticket.kind)
		}
	})
}

func TestNewBackfillKitchenTicketsCommand_Validation(t *testing.T) {
	_, err := commands.NewBackfillKitchenTicketsCommand(-1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	var zero commands.BackfillKitchenTicketsCommand
	require.ErrorIs(t, zero.Validate(), commands.ErrBackfillKitchenTicketsCommandIsNotConstructed)
}
