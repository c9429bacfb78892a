// Package printing owns the connection to the receipt printer and sends order
// tickets through it.
package printing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/printer"
	"restaurant/internal/core/domain/model/table"
	"restaurant/internal/core/domain/model/ticket"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/errs"
	"restaurant/internal/pkg/keylock"
)

// DefaultConnectTimeout bounds a connection attempt when Config leaves it unset.
const DefaultConnectTimeout = 5 * time.Second

// DefaultWriteTimeout bounds a single ticket write when Config leaves it unset.
const DefaultWriteTimeout = 10 * time.Second

type (
	// OrderUoW is the transaction used to record print flags.
	OrderUoW interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
		OrderRepository() ports.OrderRepository
	}

	// OrderUoWFactory creates OrderUoW instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

// Config tunes the dispatcher.
type Config struct {
	ConnectTimeout time.Duration
	WriteTimeout   time.Duration
	// Header is printed on top of every ticket, usually the restaurant name.
	Header string
}

// Status is a point-in-time view of the printer connection.
type Status struct {
	State  printer.State
	Device printer.Device
}

// Dispatcher is the single owner of the printer connection.
//
// Connect, Disconnect and every send are serialized by one mutex, so a ticket is
// never written to a half-open or closing session. The connection state is
// published separately: Status and IsConnected never wait for a write in progress,
// and Connecting is visible while an attempt runs. A failed or timed out write
// drops the connection to Disconnected; the caller reconnects explicitly (or the
// reconnect job does).
//
// After a successful send the dispatcher sets the order's print flag and stores it,
// re-reading the order under its key lock so concurrent item changes are kept.
// A failure to store the flag is logged and not returned: the paper is already out.
type Dispatcher struct {
	opMu    sync.Mutex
	session ports.PrinterSession

	mu     sync.RWMutex
	state  printer.State
	device printer.Device

	cfg        Config
	uowFactory OrderUoWFactory
	locker     ports.Locker
	logger     *slog.Logger
	now        func() time.Time
}

// NewDispatcher creates a disconnected dispatcher.
func NewDispatcher(uowFactory OrderUoWFactory, locker ports.Locker, cfg Config, logger *slog.Logger) *Dispatcher {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	return &Dispatcher{
		cfg:        cfg,
		uowFactory: uowFactory,
		locker:     locker,
		logger:     logger.With("component", "print_dispatcher"),
		now:        time.Now,
	}
}

// Status returns the connection state and the device of the last successful connect.
func (d *Dispatcher) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Status{State: d.state, Device: d.device}
}

// IsConnected reports whether tickets can currently be sent.
func (d *Dispatcher) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state.IsConnected()
}

// Connect opens a session through connector within the configured timeout.
// Connecting while connected is a no-op and connecting while another attempt is
// in flight is an InvalidStateError. On failure or timeout the state is
// Disconnected and a DeviceIOError is returned.
func (d *Dispatcher) Connect(ctx context.Context, connector ports.PrinterConnector) error {
	d.mu.Lock()
	if d.state.IsConnected() {
		d.mu.Unlock()
		return nil
	}
	next, err := d.state.BeginConnect()
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.state = next
	d.mu.Unlock()

	d.opMu.Lock()
	defer d.opMu.Unlock()

	connectCtx, cancel := context.WithTimeout(ctx, d.cfg.ConnectTimeout)
	defer cancel()

	session, err := connector.Connect(connectCtx)
	if err == nil && connectCtx.Err() != nil {
		_ = session.Close()
		err = connectCtx.Err()
	}
	if err != nil {
		d.drop()
		d.logger.WarnContext(ctx, "printer connection failed",
			"device", connector.Device().String(), "error", err)
		return errs.NewDeviceIOError("connect", err)
	}

	// a Disconnect that ran while the device was opening wins
	d.mu.Lock()
	next, err = d.state.CompleteConnect()
	if err == nil {
		d.state = next
		d.device = connector.Device()
	}
	d.mu.Unlock()
	if err != nil {
		_ = session.Close()
		return err
	}
	d.session = session

	d.logger.InfoContext(ctx, "printer connected", "device", connector.Device().String())
	return nil
}

// Disconnect closes the session, if any. It always ends Disconnected.
func (d *Dispatcher) Disconnect() error {
	d.opMu.Lock()
	defer d.opMu.Unlock()

	d.dropSession(context.Background(), "disconnect requested")
	return nil
}

// RenderAndSend prints the ticket of kind for o.
//
// Returns:
//   - ErrNotConnected unless the printer is connected
//   - a validation error when the ticket does not apply to the order
//   - DeviceIOError when the write fails or exceeds the write timeout; the
//     connection is dropped
//
// On success the print flag is set on o and stored.
func (d *Dispatcher) RenderAndSend(ctx context.Context, o *order.Order, kind order.TicketKind, tbl *table.Table) error {
	now := d.now()

	if err := d.send(ctx, func() (ticket.Layout, error) {
		return ticket.Render(o, kind, tbl, d.options(now))
	}); err != nil {
		return err
	}

	if err := o.MarkPrinted(kind, now); err != nil {
		d.logger.ErrorContext(ctx, "failed to mark ticket as printed",
			"order", o.Number(), "ticket", kind.String(), "error", err)
		return nil
	}

	if err := d.storeFlag(ctx, o.ID(), kind, now); err != nil {
		d.logger.ErrorContext(ctx, "failed to store print flag",
			"order", o.Number(), "ticket", kind.String(), "error", err)
	}
	return nil
}

// TestPrint prints a fixed test page.
func (d *Dispatcher) TestPrint(ctx context.Context) error {
	now := d.now()
	return d.send(ctx, func() (ticket.Layout, error) {
		return ticket.TestPage(d.options(now)), nil
	})
}

func (d *Dispatcher) send(ctx context.Context, render func() (ticket.Layout, error)) error {
	d.opMu.Lock()
	defer d.opMu.Unlock()

	if d.session == nil || !d.IsConnected() {
		return errs.ErrNotConnected
	}

	layout, err := render()
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, d.cfg.WriteTimeout)
	defer cancel()

	if err = d.session.Print(writeCtx, layout); err != nil {
		d.dropSession(ctx, "write failed")
		return errs.NewDeviceIOError("print", err)
	}
	return nil
}

// dropSession must be called with opMu held.
func (d *Dispatcher) dropSession(ctx context.Context, reason string) {
	if d.session != nil {
		if err := d.session.Close(); err != nil {
			d.logger.WarnContext(ctx, "failed to close printer session", "error", err)
		}
		d.session = nil
	}
	if d.Status().State != printer.Disconnected {
		d.logger.InfoContext(ctx, "printer disconnected", "reason", reason)
	}
	d.drop()
}

func (d *Dispatcher) drop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = d.state.Drop()
}

func (d *Dispatcher) storeFlag(ctx context.Context, orderID kernel.UUID, kind order.TicketKind, now time.Time) error {
	unlock, err := d.locker.Lock(ctx, keylock.OrderKey(orderID))
	if err != nil {
		return err
	}
	defer unlock()

	uow := d.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	current, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	if err != nil {
		return err
	}
	if current.IsPrinted(kind) {
		return nil
	}
	if err = current.MarkPrinted(kind, now); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, current); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (d *Dispatcher) options(now time.Time) ticket.Options {
	return ticket.Options{Header: d.cfg.Header, PrintedAt: now}
}
