package commands

import (
	"context"
	"log/slog"
	"time"

	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/table"
	"restaurant/internal/core/domain/services"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/keylock"
)

// ChangeOrderStatusResult is the outcome of a status change.
type ChangeOrderStatusResult struct {
	Order         *order.Order
	Table         *table.Table
	TableReleased bool
}

// ChangeOrderStatusCommandHandler applies status transitions.
//
// When a dine-in order reaches Delivered or Canceled its table is released in the
// same transaction, holding the order and table keys. After commit the handler
// publishes an order.status event and, for Delivered orders, prints the delivery
// or dine-in ticket if it was not printed yet.
type ChangeOrderStatusCommandHandler struct {
	uowFactory  UoWFactory
	locker      ports.Locker
	dispatcher  TicketDispatcher
	publisher   ports.OrderEventPublisher
	coordinator services.ResourceCoordinator
	logger      *slog.Logger
}

func NewChangeOrderStatusCommandHandler(
	uowFactory UoWFactory,
	locker ports.Locker,
	dispatcher TicketDispatcher,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory:  uowFactory,
		locker:      locker,
		dispatcher:  dispatcher,
		publisher:   publisher,
		coordinator: services.NewResourceCoordinator(),
		logger:      logger.With("component", "change_order_status"),
	}
}

// Handle transitions the order. Rejected transitions return InvalidStateError and
// leave both the order and its table untouched.
func (h ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) (ChangeOrderStatusResult, error) {
	if err := cmd.Validate(); err != nil {
		return ChangeOrderStatusResult{}, err
	}

	result, err := h.apply(ctx, cmd)
	if err != nil {
		return ChangeOrderStatusResult{}, err
	}

	if err = h.publisher.OrderStatusChanged(ctx, result.Order); err != nil {
		h.logger.ErrorContext(ctx, "failed to publish order status event",
			"order", result.Order.Number(), "status", result.Order.Status().String(), "error", err)
	}

	h.printOnDelivery(ctx, result)

	return result, nil
}

func (h ChangeOrderStatusCommandHandler) apply(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) (ChangeOrderStatusResult, error) {
	unlockOrder, err := h.locker.Lock(ctx, keylock.OrderKey(cmd.OrderID()))
	if err != nil {
		return ChangeOrderStatusResult{}, err
	}
	defer unlockOrder()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return ChangeOrderStatusResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return ChangeOrderStatusResult{}, err
	}

	var tbl *table.Table
	if number, ok := o.TableNumber(); ok && cmd.Status().IsTerminal() {
		// "order:" keys sort before "table:" keys, so taking the table key second
		// keeps the global acquisition order.
		unlockTable, lockErr := h.locker.Lock(ctx, keylock.TableKey(number))
		if lockErr != nil {
			return ChangeOrderStatusResult{}, lockErr
		}
		defer unlockTable()

		tbl, err = uow.TableRepository().GetByNumberForUpdate(ctx, number)
		if err != nil {
			return ChangeOrderStatusResult{}, err
		}
	}

	released, err := h.coordinator.TransitionOrder(o, cmd.Status(), tbl, time.Now().UTC())
	if err != nil {
		return ChangeOrderStatusResult{}, err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return ChangeOrderStatusResult{}, err
	}
	if released {
		if err = uow.TableRepository().Update(ctx, tbl); err != nil {
			return ChangeOrderStatusResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return ChangeOrderStatusResult{}, err
	}

	return ChangeOrderStatusResult{Order: o, Table: tbl, TableReleased: released}, nil
}

func (h ChangeOrderStatusCommandHandler) printOnDelivery(ctx context.Context, result ChangeOrderStatusResult) {
	o := result.Order
	if o.Status() != order.Delivered || !h.dispatcher.IsConnected() {
		return
	}

	var kind order.TicketKind
	switch o.Kind() {
	case order.Delivery:
		kind = order.DeliveryTicket
	case order.DineIn:
		kind = order.DineInTicket
	default:
		return
	}
	if o.IsPrinted(kind) {
		return
	}

	if err := h.dispatcher.RenderAndSend(ctx, o, kind, result.Table); err != nil {
		h.logger.WarnContext(ctx, "ticket not printed on delivery",
			"order", o.Number(), "ticket", kind.String(), "error", err)
	}
}
