package commands

import (
	"context"
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/keylock"
)

// OrderItemsCommandHandler applies item changes to an order under its key lock.
// Totals are recomputed by the aggregate and persisted with the item list.
type OrderItemsCommandHandler struct {
	uowFactory OrderUoWFactory
	locker     ports.Locker
}

// NewOrderItemsCommandHandler creates a handler for AddOrderItemCommand and
// RemoveOrderItemCommand.
func NewOrderItemsCommandHandler(uowFactory OrderUoWFactory, locker ports.Locker) OrderItemsCommandHandler {
	return OrderItemsCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
	}
}

// HandleAdd prices the product from the catalog and appends it.
// Returns InvalidStateError once the order is ready or finished.
func (h OrderItemsCommandHandler) HandleAdd(ctx context.Context, cmd AddOrderItemCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.mutate(ctx, cmd.OrderID(), func(uow OrderUoW, o *order.Order, now time.Time) error {
		item, err := priceItem(ctx, uow.ProductRepository(), cmd.Item())
		if err != nil {
			return err
		}
		return o.AddItem(item, now)
	})
}

// HandleRemove removes a line. Removing the last line is rejected.
func (h OrderItemsCommandHandler) HandleRemove(ctx context.Context, cmd RemoveOrderItemCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.mutate(ctx, cmd.OrderID(), func(_ OrderUoW, o *order.Order, now time.Time) error {
		return o.RemoveItem(cmd.ItemID(), now)
	})
}

func (h OrderItemsCommandHandler) mutate(
	ctx context.Context,
	orderID kernel.UUID,
	apply func(uow OrderUoW, o *order.Order, now time.Time) error,
) (*order.Order, error) {
	unlock, err := h.locker.Lock(ctx, keylock.OrderKey(orderID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err = apply(uow, o, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
