package commands

import (
	"context"
	"errors"
	"math"

	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/pkg/errs"
	"restaurant/internal/pkg/guard"
)

// DefaultBackfillBatch is how many unprinted orders one backfill run sends.
const DefaultBackfillBatch = 20

var ErrBackfillKitchenTicketsCommandIsNotConstructed = errors.New(
	"BackfillKitchenTicketsCommand must be created via NewBackfillKitchenTicketsCommand constructor",
)

// BackfillKitchenTicketsCommand prints kitchen tickets of active orders that were
// placed while the printer was offline.
type BackfillKitchenTicketsCommand struct {
	batch int

	guard guard.ConstructorGuard
}

// NewBackfillKitchenTicketsCommand creates the command. A batch of 0 means
// DefaultBackfillBatch.
func NewBackfillKitchenTicketsCommand(batch int) (BackfillKitchenTicketsCommand, error) {
	if batch == 0 {
		batch = DefaultBackfillBatch
	}
	if batch < 0 {
		return BackfillKitchenTicketsCommand{}, errs.NewValueIsOutOfRangeError("batch", batch, 1, math.MaxInt32)
	}
	return BackfillKitchenTicketsCommand{batch: batch, guard: guard.NewConstructorGuard()}, nil
}

func (c BackfillKitchenTicketsCommand) Validate() error {
	return c.guard.Validate(ErrBackfillKitchenTicketsCommandIsNotConstructed)
}

// BackfillKitchenTicketsCommandHandler sends pending kitchen tickets, oldest first.
type BackfillKitchenTicketsCommandHandler struct {
	uowFactory OrderUoWFactory
	dispatcher TicketDispatcher
}

func NewBackfillKitchenTicketsCommandHandler(
	uowFactory OrderUoWFactory,
	dispatcher TicketDispatcher,
) BackfillKitchenTicketsCommandHandler {
	return BackfillKitchenTicketsCommandHandler{uowFactory: uowFactory, dispatcher: dispatcher}
}

// Handle returns the number of tickets sent. Nothing is read while the printer is
// offline. The first send failure stops the run, since the dispatcher has dropped
// the connection by then.
func (h BackfillKitchenTicketsCommandHandler) Handle(ctx context.Context, cmd BackfillKitchenTicketsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	if !h.dispatcher.IsConnected() {
		return 0, nil
	}

	pending, err := h.unprinted(ctx, cmd.batch)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, o := range pending {
		if err = h.dispatcher.RenderAndSend(ctx, o, order.KitchenTicket, nil); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (h BackfillKitchenTicketsCommandHandler) unprinted(ctx context.Context, batch int) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().ListUnprinted(ctx, order.KitchenTicket, batch)
}
