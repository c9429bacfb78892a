package commands

import (
	"errors"
	"strings"

	"restaurant/internal/core/domain/model/address"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/pkg/errs"
	"restaurant/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// ItemRequest is one requested line of an order. Name and unit price come from the
// catalog when the order is created.
type ItemRequest struct {
	ProductID kernel.UUID
	Quantity  int
	Note      string
}

// CreateOrderParams groups the inputs of NewCreateOrderCommand.
type CreateOrderParams struct {
	Kind          order.Kind
	CustomerName  string
	Phone         string
	Address       *address.ExtractedAddress
	TableNumber   *int
	Staff         string
	Items         []ItemRequest
	Fees          order.Fees
	PaymentMethod order.PaymentMethod
	Notes         string
}

// CreateOrderCommand represents a request to place a new order.
// A dine-in order occupies its table in the same transaction.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), CreateOrderParams{
//	    Kind:        order.DineIn,
//	    Phone:       "11 99999-0000",
//	    TableNumber: &tableNumber,
//	    Items:       []ItemRequest{{ProductID: feijoadaID, Quantity: 2}},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	params  CreateOrderParams

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request shape. Business rules that need the
// catalog or the table are checked by the handler.
func NewCreateOrderCommand(orderID kernel.UUID, params CreateOrderParams) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setParams(params),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

func (c CreateOrderCommand) Params() CreateOrderParams { return c.params }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setParams(p CreateOrderParams) error {
	var problems []error

	if err := p.Kind.Validate(); err != nil {
		problems = append(problems, err)
	}
	if strings.TrimSpace(p.Phone) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("phone"))
	}
	if len(p.Items) == 0 {
		problems = append(problems, errs.NewValueIsRequiredError("items"))
	}
	for _, item := range p.Items {
		if err := item.ProductID.Validate(); err != nil {
			problems = append(problems, errs.NewValueIsRequiredErrorWithCause("product id", err))
		}
	}
	if p.Kind == order.DineIn && p.TableNumber == nil {
		problems = append(problems, errs.NewValueIsRequiredError("table number"))
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	p.Items = append([]ItemRequest(nil), p.Items...)
	c.params = p
	return nil
}
