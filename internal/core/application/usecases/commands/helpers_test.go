package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"restaurant/internal/adapters/out/memory"
	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/product"
	"restaurant/internal/core/domain/model/table"
	"restaurant/internal/pkg/keylock"

	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type uowFactory struct{ store *memory.Store }

func (f uowFactory) Create() commands.UoW { return f.store.NewUnitOfWork() }

type orderUoWFactory struct{ store *memory.Store }

func (f orderUoWFactory) Create() commands.OrderUoW { return f.store.NewUnitOfWork() }

type tableUoWFactory struct{ store *memory.Store }

func (f tableUoWFactory) Create() commands.TableUoW { return f.store.NewUnitOfWork() }

type productUoWFactory struct{ store *memory.Store }

func (f productUoWFactory) Create() commands.ProductUoW { return f.store.NewUnitOfWork() }

// recordingDispatcher records tickets instead of printing them.
type recordingDispatcher struct {
	mu        sync.Mutex
	connected bool
	err       error
	sent      []sentTicket
}

type sentTicket struct {
	orderID kernel.UUID
	kind    order.TicketKind
	table   *table.Table
}

func (d *recordingDispatcher) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

func (d *recordingDispatcher) RenderAndSend(_ context.Context, o *order.Order, kind order.TicketKind, tbl *table.Table) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, sentTicket{orderID: o.ID(), kind: kind, table: tbl})
	return o.MarkPrinted(kind, time.Now())
}

func (d *recordingDispatcher) tickets() []sentTicket {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]sentTicket(nil), d.sent...)
}

// recordingPublisher records published events.
type recordingPublisher struct {
	mu       sync.Mutex
	created  []string
	statuses []string
	err      error
}

func (p *recordingPublisher) OrderCreated(_ context.Context, o *order.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, o.Number())
	return p.err
}

func (p *recordingPublisher) OrderStatusChanged(_ context.Context, o *order.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, o.Number()+":"+o.Status().String())
	return p.err
}

// env wires the handlers to one in-memory store and one key locker.
type env struct {
	store      *memory.Store
	locker     *keylock.Locker
	dispatcher *recordingDispatcher
	publisher  *recordingPublisher

	feijoada *product.Product
	suco     *product.Product
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		store:      memory.NewStore(),
		locker:     keylock.New(),
		dispatcher: &recordingDispatcher{},
		publisher:  &recordingPublisher{},
	}
	e.feijoada = e.addProduct(t, "Feijoada", 1000, true)
	e.suco = e.addProduct(t, "Suco de laranja", 500, true)
	return e
}

func (e *env) addProduct(t *testing.T, name string, cents int64, available bool) *product.Product {
	t.Helper()
	ctx := t.Context()
	p, err := product.RestoreProduct(kernel.NewUUID(), "", name, product.Main, kernel.Cents(cents), "", available)
	require.NoError(t, err)
	uow := e.store.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.ProductRepository().Add(ctx, p))
	require.NoError(t, uow.Commit(ctx))
	return p
}

func (e *env) addTable(t *testing.T, number int) {
	t.Helper()
	cmd, err := commands.NewCreateTableCommand(kernel.NewUUID(), number, 4, "")
	require.NoError(t, err)
	_, err = e.createTableHandler().Handle(t.Context(), cmd)
	require.NoError(t, err)
}

func (e *env) table(t *testing.T, number int) *table.Table {
	t.Helper()
	tbl, err := e.store.Create().TableRepository().GetByNumber(t.Context(), number)
	require.NoError(t, err)
	return tbl
}

func (e *env) order(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	o, err := e.store.Create().OrderRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return o
}

func (e *env) createOrderHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(uowFactory{e.store}, e.locker, e.dispatcher, e.publisher, discardLogger)
}

func (e *env) changeStatusHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(uowFactory{e.store}, e.locker, e.dispatcher, e.publisher, discardLogger)
}

func (e *env) itemsHandler() commands.OrderItemsCommandHandler {
	return commands.NewOrderItemsCommandHandler(orderUoWFactory{e.store}, e.locker)
}

func (e *env) createTableHandler() commands.CreateTableCommandHandler {
	return commands.NewCreateTableCommandHandler(tableUoWFactory{e.store}, e.locker)
}

func (e *env) occupyHandler() commands.OccupyTableCommandHandler {
	return commands.NewOccupyTableCommandHandler(uowFactory{e.store}, e.locker)
}

func (e *env) tableActionHandler() commands.TableActionCommandHandler {
	return commands.NewTableActionCommandHandler(tableUoWFactory{e.store}, e.locker)
}

func (e *env) dineIn(t *testing.T, tableNumber int) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), commands.CreateOrderParams{
		Kind:         order.DineIn,
		CustomerName: "Ana",
		Phone:        "(11) 99999-0000",
		TableNumber:  &tableNumber,
		Staff:        "Carlos",
		Items: []commands.ItemRequest{
			{ProductID: e.feijoada.ID(), Quantity: 2},
			{ProductID: e.suco.ID(), Quantity: 1, Note: "sem gelo"},
		},
	})
	require.NoError(t, err)
	return cmd
}

func (e *env) createDineIn(t *testing.T, tableNumber int) *order.Order {
	t.Helper()
	o, err := e.createOrderHandler().Handle(t.Context(), e.dineIn(t, tableNumber))
	require.NoError(t, err)
	return o
}

func (e *env) pickup(t *testing.T, phone string) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), commands.CreateOrderParams{
		Kind:  order.Pickup,
		Phone: phone,
		Items: []commands.ItemRequest{{ProductID: e.suco.ID(), Quantity: 3}},
	})
	require.NoError(t, err)
	return cmd
}
