package commands

import (
	"errors"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/guard"
)

var (
	ErrAddOrderItemCommandIsNotConstructed = errors.New(
		"AddOrderItemCommand must be created via NewAddOrderItemCommand constructor",
	)
	ErrRemoveOrderItemCommandIsNotConstructed = errors.New(
		"RemoveOrderItemCommand must be created via NewRemoveOrderItemCommand constructor",
	)
)

// AddOrderItemCommand appends a catalog product to an open order.
type AddOrderItemCommand struct {
	orderID kernel.UUID
	item    ItemRequest

	guard guard.ConstructorGuard
}

// NewAddOrderItemCommand creates an AddOrderItemCommand. Quantity bounds are
// checked when the line is built.
func NewAddOrderItemCommand(orderID kernel.UUID, item ItemRequest) (AddOrderItemCommand, error) {
	if err := errors.Join(orderID.Validate(), item.ProductID.Validate()); err != nil {
		return AddOrderItemCommand{}, err
	}
	return AddOrderItemCommand{
		orderID: orderID,
		item:    item,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AddOrderItemCommand) Validate() error {
	return c.guard.Validate(ErrAddOrderItemCommandIsNotConstructed)
}

func (c AddOrderItemCommand) OrderID() kernel.UUID { return c.orderID }
func (c AddOrderItemCommand) Item() ItemRequest    { return c.item }

// RemoveOrderItemCommand removes one line from an open order.
type RemoveOrderItemCommand struct {
	orderID kernel.UUID
	itemID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewRemoveOrderItemCommand(orderID, itemID kernel.UUID) (RemoveOrderItemCommand, error) {
	if err := errors.Join(orderID.Validate(), itemID.Validate()); err != nil {
		return RemoveOrderItemCommand{}, err
	}
	return RemoveOrderItemCommand{
		orderID: orderID,
		itemID:  itemID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RemoveOrderItemCommand) Validate() error {
	return c.guard.Validate(ErrRemoveOrderItemCommandIsNotConstructed)
}

func (c RemoveOrderItemCommand) OrderID() kernel.UUID { return c.orderID }
func (c RemoveOrderItemCommand) ItemID() kernel.UUID  { return c.itemID }
