package printing_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"restaurant/internal/adapters/out/memory"
	"restaurant/internal/core/application/printing"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/printer"
	"restaurant/internal/core/domain/model/ticket"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/errs"
	"restaurant/internal/pkg/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uowFactory struct{ store *memory.Store }

func (f uowFactory) Create() printing.OrderUoW { return f.store.Create() }

type fakeSession struct {
	mu       sync.Mutex
	printed  []ticket.Layout
	failWith error
	closed   bool
	inFlight atomic.Int32
	overlap  atomic.Bool
}

func (s *fakeSession) Print(_ context.Context, layout ticket.Layout) error {
	if s.inFlight.Add(1) > 1 {
		s.overlap.Store(true)
	}
	defer s.inFlight.Add(-1)
	time.Sleep(time.Millisecond)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.printed = append(s.printed, layout)
	return nil
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSession) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.printed)
}

type fakeConnector struct {
	session *fakeSession
	err     error
	block   bool
	calls   atomic.Int32
}

func (c *fakeConnector) Connect(ctx context.Context) (ports.PrinterSession, error) {
	c.calls.Add(1)
	if c.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.session, nil
}

func (c *fakeConnector) Device() printer.Device {
	d, _ := printer.NewNetworkDevice("10.0.0.9", 0)
	return d
}

type fixture struct {
	store      *memory.Store
	dispatcher *printing.Dispatcher
	session    *fakeSession
	connector  *fakeConnector
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := &fakeSession{}
	return fixture{
		store: store,
		dispatcher: printing.NewDispatcher(uowFactory{store}, keylock.New(), printing.Config{
			ConnectTimeout: 50 * time.Millisecond,
			Header:         "Restaurante Sabor",
		}, logger),
		session:   session,
		connector: &fakeConnector{session: session},
	}
}

func (f fixture) storedOrder(t *testing.T) *order.Order {
	t.Helper()
	ctx := t.Context()
	customer, err := order.NewCustomer("Ana", "11999990000", nil)
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Pastel", 2, kernel.Cents(800), "")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), order.Counter, customer, nil, []order.Item{item},
		order.Fees{}, order.Pix, "", time.Now())
	require.NoError(t, err)
	require.NoError(t, o.AssignNumber("B000001"))

	uow := f.store.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, o))
	require.NoError(t, uow.Commit(ctx))
	return o
}

func (f fixture) reload(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	o, err := f.store.Create().OrderRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return o
}

func TestDispatcher_Connect(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, f.dispatcher.Connect(t.Context(), f.connector))

		status := f.dispatcher.Status()
		assert.Equal(t, printer.Connected, status.State)
		assert.Equal(t, "network 10.0.0.9:9100", status.Device.String())
		assert.True(t, f.dispatcher.IsConnected())
	})

	t.Run("connect_while_connected_is_a_noop", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.dispatcher.Connect(t.Context(), f.connector))

		require.NoError(t, f.dispatcher.Connect(t.Context(), f.connector))

		assert.Equal(t, int32(1), f.connector.calls.Load())
	})

	t.Run("failure_lands_on_disconnected", func(t *testing.T) {
		f := newFixture(t)
		f.connector.err = errors.New("connection refused")

		err := f.dispatcher.Connect(t.Context(), f.connector)

		require.ErrorIs(t, err, errs.ErrDeviceIO)
		assert.Equal(t, printer.Disconnected, f.dispatcher.Status().State)
	})

	t.Run("timeout_lands_on_disconnected", func(t *testing.T) {
		f := newFixture(t)
		f.connector.block = true

		started := time.Now()
		err := f.dispatcher.Connect(t.Context(), f.connector)

		require.ErrorIs(t, err, errs.ErrDeviceIO)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(started), time.Second)
		assert.Equal(t, printer.Disconnected, f.dispatcher.Status().State)
	})
}

func TestDispatcher_DisconnectClosesSession(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.dispatcher.Connect(t.Context(), f.connector))

	require.NoError(t, f.dispatcher.Disconnect())

	assert.True(t, f.session.closed)
	assert.Equal(t, printer.Disconnected, f.dispatcher.Status().State)
	require.NoError(t, f.dispatcher.Disconnect(), "disconnecting twice is harmless")
}

func TestDispatcher_RenderAndSend(t *testing.T) {
	t.Run("not_connected", func(t *testing.T) {
		f := newFixture(t)
		o := f.storedOrder(t)

		err := f.dispatcher.RenderAndSend(t.Context(), o, order.KitchenTicket, nil)

		require.ErrorIs(t, err, errs.ErrNotConnected)
		assert.False(t, f.reload(t, o.ID()).IsPrinted(order.KitchenTicket))
	})

	t.Run("success_sets_and_stores_flag", func(t *testing.T) {
		f := newFixture(t)
		o := f.storedOrder(t)
		require.NoError(t, f.dispatcher.Connect(t.Context(), f.connector))

		require.NoError(t, f.dispatcher.RenderAndSend(t.Context(), o, order.KitchenTicket, nil))

		require.Equal(t, 1, f.session.count())
		assert.Contains(t, f.session.printed[0].Text(), "COZINHA")
		assert.Contains(t, f.session.printed[0].Text(), "RESTAURANTE SABOR")
		assert.True(t, o.IsPrinted(order.KitchenTicket))
		assert.True(t, f.reload(t, o.ID()).IsPrinted(order.KitchenTicket))
	})

	t.Run("write_failure_drops_connection", func(t *testing.T) {
		f := newFixture(t)
		o := f.storedOrder(t)
		require.NoError(t, f.dispatcher.Connect(t.Context(), f.connector))
		f.session.failWith = errors.New("broken pipe")

		err := f.dispatcher.RenderAndSend(t.Context(), o, order.KitchenTicket, nil)

		require.ErrorIs(t, err, errs.ErrDeviceIO)
		assert.Equal(t, printer.Disconnected, f.dispatcher.Status().State)
		assert.True(t, f.session.closed)
		assert.False(t, o.IsPrinted(order.KitchenTicket))
		assert.False(t, f.reload(t, o.ID()).IsPrinted(order.KitchenTicket))

		err = f.dispatcher.RenderAndSend(t.Context(), o, order.KitchenTicket, nil)
		require.ErrorIs(t, err, errs.ErrNotConnected)
	})

	t.Run("invalid_ticket_kind_keeps_connection", func(t *testing.T) {
		f := newFixture(t)
		o := f.storedOrder(t)
		require.NoError(t, f.dispatcher.Connect(t.Context(), f.connector))

		err := f.dispatcher.RenderAndSend(t.Context(), o, order.DeliveryTicket, nil)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.True(t, f.dispatcher.IsConnected())
		assert.Zero(t, f.session.count())
	})

	t.Run("store_failure_is_not_returned", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.dispatcher.Connect(t.Context(), f.connector))

		customer, err := order.NewCustomer("", "11988887777", nil)
		require.NoError(t, err)
		item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Café", 1, kernel.Cents(500), "")
		require.NoError(t, err)
		unsaved, err := order.NewOrder(kernel.NewUUID(), order.Pickup, customer, nil, []order.Item{item},
			order.Fees{}, order.Cash, "", time.Now())
		require.NoError(t, err)

		require.NoError(t, f.dispatcher.RenderAndSend(t.Context(), unsaved, order.KitchenTicket, nil))
		assert.Equal(t, 1, f.session.count())
	})
}

func TestDispatcher_StoredFlagKeepsConcurrentItemChanges(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	o := f.storedOrder(t)
	require.NoError(t, f.dispatcher.Connect(ctx, f.connector))

	// another writer adds an item after the caller loaded its copy
	uow := f.store.Create()
	require.NoError(t, uow.Begin(ctx))
	current, err := uow.OrderRepository().GetForUpdate(ctx, o.ID())
	require.NoError(t, err)
	extra, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Suco", 1, kernel.Cents(700), "")
	require.NoError(t, err)
	require.NoError(t, current.AddItem(extra, time.Now()))
	require.NoError(t, uow.OrderRepository().Update(ctx, current))
	require.NoError(t, uow.Commit(ctx))

	require.NoError(t, f.dispatcher.RenderAndSend(ctx, o, order.KitchenTicket, nil))

	stored := f.reload(t, o.ID())
	assert.True(t, stored.IsPrinted(order.KitchenTicket))
	assert.Len(t, stored.Items(), 2)
	assert.Equal(t, kernel.Cents(2300), stored.Total())
}

func TestDispatcher_SendsAreSerialized(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.dispatcher.Connect(t.Context(), f.connector))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.dispatcher.TestPrint(t.Context()))
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, f.session.count())
	assert.False(t, f.session.overlap.Load())
}

// stuckSession accepts a ticket and never finishes writing it, like a printer
// that stopped reading.
type stuckSession struct {
	started chan struct{}
	once    sync.Once
	closed  atomic.Bool
}

func (s *stuckSession) Print(ctx context.Context, _ ticket.Layout) error {
	s.once.Do(func() { close(s.started) })
	<-ctx.Done()
	return ctx.Err()
}

func (s *stuckSession) Close() error {
	s.closed.Store(true)
	return nil
}

type stuckConnector struct{ session *stuckSession }

func (c stuckConnector) Connect(context.Context) (ports.PrinterSession, error) { return c.session, nil }

func (c stuckConnector) Device() printer.Device {
	d, _ := printer.NewNetworkDevice("10.0.0.9", 0)
	return d
}

func TestDispatcher_StuckWriteIsBounded(t *testing.T) {
	store := memory.NewStore()
	session := &stuckSession{started: make(chan struct{})}
	dispatcher := printing.NewDispatcher(uowFactory{store}, keylock.New(), printing.Config{
		WriteTimeout: 300 * time.Millisecond,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, dispatcher.Connect(t.Context(), stuckConnector{session: session}))

	sent := make(chan error, 1)
	go func() { sent <- dispatcher.TestPrint(context.Background()) }()
	<-session.started

	observed := make(chan printing.Status, 1)
	go func() {
		assert.True(t, dispatcher.IsConnected())
		observed <- dispatcher.Status()
	}()
	select {
	case status := <-observed:
		assert.Equal(t, printer.Connected, status.State)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("status is blocked behind the write in progress")
	}

	select {
	case err := <-sent:
		require.ErrorIs(t, err, errs.ErrDeviceIO)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("write was not bounded by the write timeout")
	}
	assert.True(t, session.closed.Load())
	assert.Equal(t, printer.Disconnected, dispatcher.Status().State)
}

type gatedConnector struct {
	fakeConnector
	entered chan struct{}
	release chan struct{}
}

func (c *gatedConnector) Connect(ctx context.Context) (ports.PrinterSession, error) {
	close(c.entered)
	select {
	case <-c.release:
		return c.session, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestDispatcher_ConnectInFlight(t *testing.T) {
	store := memory.NewStore()
	dispatcher := printing.NewDispatcher(uowFactory{store}, keylock.New(), printing.Config{
		ConnectTimeout: 5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	connector := &gatedConnector{
		fakeConnector: fakeConnector{session: &fakeSession{}},
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}

	connected := make(chan error, 1)
	go func() { connected <- dispatcher.Connect(context.Background(), connector) }()
	<-connector.entered

	assert.Equal(t, printer.Connecting, dispatcher.Status().State)
	assert.False(t, dispatcher.IsConnected())
	err := dispatcher.Connect(t.Context(), connector)
	require.ErrorIs(t, err, errs.ErrInvalidState)

	close(connector.release)
	require.NoError(t, <-connected)
	assert.Equal(t, printer.Connected, dispatcher.Status().State)
}

func TestDispatcher_DisconnectDuringConnectWins(t *testing.T) {
	store := memory.NewStore()
	dispatcher := printing.NewDispatcher(uowFactory{store}, keylock.New(), printing.Config{
		ConnectTimeout: 5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	session := &fakeSession{}
	connector := &gatedConnector{
		fakeConnector: fakeConnector{session: session},
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}

	connected := make(chan error, 1)
	go func() { connected <- dispatcher.Connect(context.Background(), connector) }()
	<-connector.entered

	disconnected := make(chan error, 1)
	go func() { disconnected <- dispatcher.Disconnect() }()
	close(connector.release)

	require.NoError(t, <-disconnected)
	<-connected
	assert.Equal(t, printer.Disconnected, dispatcher.Status().State)
}
