package commands

import (
	"context"
	"log/slog"
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/table"
	"restaurant/internal/core/domain/services"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/errs"
	"restaurant/internal/pkg/keylock"
)

// CreateOrderCommandHandler places new orders.
//
// Within one transaction it prices the items from the catalog, takes the next
// number of the kind's sequence and, for dine-in orders, occupies the table.
// After commit it publishes an order.created event and sends the kitchen ticket
// when the printer is connected. Neither side effect can fail the command.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, locker, dispatcher, publisher, logger)
//	created, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrConflict):
//	    // the table is not free
//	case err != nil:
//	    return err
//	}
//	fmt.Println(created.Number())
type CreateOrderCommandHandler struct {
	uowFactory  UoWFactory
	locker      ports.Locker
	dispatcher  TicketDispatcher
	publisher   ports.OrderEventPublisher
	coordinator services.ResourceCoordinator
	logger      *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	locker ports.Locker,
	dispatcher TicketDispatcher,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:  uowFactory,
		locker:      locker,
		dispatcher:  dispatcher,
		publisher:   publisher,
		coordinator: services.NewResourceCoordinator(),
		logger:      logger.With("component", "create_order"),
	}
}

// Handle creates the order and returns it with its number assigned.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	created, err := h.create(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if err = h.publisher.OrderCreated(ctx, created); err != nil {
		h.logger.ErrorContext(ctx, "failed to publish order created event",
			"order", created.Number(), "error", err)
	}

	if h.dispatcher.IsConnected() {
		if err = h.dispatcher.RenderAndSend(ctx, created, order.KitchenTicket, nil); err != nil {
			h.logger.WarnContext(ctx, "kitchen ticket not printed",
				"order", created.Number(), "error", err)
		}
	}

	return created, nil
}

func (h CreateOrderCommandHandler) create(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	p := cmd.Params()

	if p.TableNumber != nil {
		unlock, err := h.locker.Lock(ctx, keylock.OrderKey(cmd.OrderID()), keylock.TableKey(*p.TableNumber))
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()

	items, err := priceItems(ctx, uow.ProductRepository(), p.Items)
	if err != nil {
		return nil, err
	}

	customer, err := order.NewCustomer(p.CustomerName, p.Phone, p.Address)
	if err != nil {
		return nil, err
	}

	created, err := order.NewOrder(
		cmd.OrderID(), p.Kind, customer, p.TableNumber, items, p.Fees, p.PaymentMethod, p.Notes, now,
	)
	if err != nil {
		return nil, err
	}

	seq, err := uow.OrderNumberSequence().Next(ctx, p.Kind)
	if err != nil {
		return nil, err
	}
	number, err := order.FormatNumber(p.Kind, seq)
	if err != nil {
		return nil, err
	}
	if err = created.AssignNumber(number); err != nil {
		return nil, err
	}

	var tbl *table.Table
	if p.TableNumber != nil {
		tbl, err = uow.TableRepository().GetByNumberForUpdate(ctx, *p.TableNumber)
		if err != nil {
			return nil, err
		}
		if err = h.coordinator.Occupy(tbl, created, p.Staff, now); err != nil {
			return nil, err
		}
	}

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if tbl != nil {
		if err = uow.TableRepository().Update(ctx, tbl); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

// priceItems builds order lines from the catalog. Unavailable products are rejected.
func priceItems(ctx context.Context, products ports.ProductRepository, requests []ItemRequest) ([]order.Item, error) {
	items := make([]order.Item, 0, len(requests))
	for _, r := range requests {
		item, err := priceItem(ctx, products, r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func priceItem(ctx context.Context, products ports.ProductRepository, r ItemRequest) (order.Item, error) {
	p, err := products.Get(ctx, r.ProductID)
	if err != nil {
		return order.Item{}, err
	}
	if !p.IsAvailable() {
		return order.Item{}, errs.NewConflictError("product "+p.Name(), "is not available")
	}
	return order.NewItem(kernel.NewUUID(), p.ID(), p.Name(), r.Quantity, p.Price(), r.Note)
}
