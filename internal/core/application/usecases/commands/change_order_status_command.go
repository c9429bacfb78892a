package commands

import (
	"errors"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand moves an order along its status machine.
// Cancelation is the same command with order.Canceled.
//
// Example:
//
//	cmd, _ := NewChangeOrderStatusCommand(orderID, order.Delivered)
//	result, err := handler.Handle(ctx, cmd)
//	if result.TableReleased {
//	    // the dine-in table is free again
//	}
type ChangeOrderStatusCommand struct {
	orderID kernel.UUID
	status  order.Status

	guard guard.ConstructorGuard
}

func NewChangeOrderStatusCommand(orderID kernel.UUID, status order.Status) (ChangeOrderStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), status.Validate()); err != nil {
		return ChangeOrderStatusCommand{}, err
	}
	return ChangeOrderStatusCommand{
		orderID: orderID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// NewCancelOrderCommand is a shortcut for a change to order.Canceled.
func NewCancelOrderCommand(orderID kernel.UUID) (ChangeOrderStatusCommand, error) {
	return NewChangeOrderStatusCommand(orderID, order.Canceled)
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }
func (c ChangeOrderStatusCommand) Status() order.Status { return c.status }
