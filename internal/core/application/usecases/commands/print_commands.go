package commands

import (
	"context"
	"errors"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/printer"
	"restaurant/internal/core/domain/model/table"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/guard"
)

var (
	ErrPrintTicketCommandIsNotConstructed = errors.New(
		"PrintTicketCommand must be created via NewPrintTicketCommand constructor",
	)
	ErrConnectPrinterCommandIsNotConstructed = errors.New(
		"ConnectPrinterCommand must be created via NewConnectPrinterCommand constructor",
	)
)

// PrintTicketCommand prints one ticket of an order. A ticket already printed is
// skipped unless reprint is set.
type PrintTicketCommand struct {
	orderID kernel.UUID
	kind    order.TicketKind
	reprint bool

	guard guard.ConstructorGuard
}

func NewPrintTicketCommand(orderID kernel.UUID, kind order.TicketKind, reprint bool) (PrintTicketCommand, error) {
	if err := errors.Join(orderID.Validate(), kind.Validate()); err != nil {
		return PrintTicketCommand{}, err
	}
	return PrintTicketCommand{orderID: orderID, kind: kind, reprint: reprint, guard: guard.NewConstructorGuard()}, nil
}

func (c PrintTicketCommand) Validate() error {
	return c.guard.Validate(ErrPrintTicketCommandIsNotConstructed)
}

// PrintTicketResult reports whether a ticket was actually sent.
type PrintTicketResult struct {
	Order   *order.Order
	Printed bool
}

// PrintTicketCommandHandler loads an order and its table and hands them to the
// ticket dispatcher. It holds no lock while printing; the dispatcher takes the
// order key itself to record the print flag.
type PrintTicketCommandHandler struct {
	uowFactory UoWFactory
	dispatcher TicketDispatcher
}

func NewPrintTicketCommandHandler(uowFactory UoWFactory, dispatcher TicketDispatcher) PrintTicketCommandHandler {
	return PrintTicketCommandHandler{uowFactory: uowFactory, dispatcher: dispatcher}
}

// Handle returns NotConnectedError, DeviceIOError or a validation error from
// rendering; a skipped ticket is not an error.
func (h PrintTicketCommandHandler) Handle(ctx context.Context, cmd PrintTicketCommand) (PrintTicketResult, error) {
	if err := cmd.Validate(); err != nil {
		return PrintTicketResult{}, err
	}

	o, tbl, err := h.load(ctx, cmd)
	if err != nil {
		return PrintTicketResult{}, err
	}

	if o.IsPrinted(cmd.kind) && !cmd.reprint {
		return PrintTicketResult{Order: o}, nil
	}

	if err = h.dispatcher.RenderAndSend(ctx, o, cmd.kind, tbl); err != nil {
		return PrintTicketResult{}, err
	}

	return PrintTicketResult{Order: o, Printed: true}, nil
}

func (h PrintTicketCommandHandler) load(ctx context.Context, cmd PrintTicketCommand) (*order.Order, *table.Table, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.orderID)
	if err != nil {
		return nil, nil, err
	}

	number, ok := o.TableNumber()
	if !ok || cmd.kind != order.DineInTicket {
		return o, nil, nil
	}

	tbl, err := uow.TableRepository().GetByNumber(ctx, number)
	if err != nil {
		return nil, nil, err
	}
	return o, tbl, nil
}

// PrinterControl is the connection side of the ticket dispatcher.
type PrinterControl interface {
	Connect(ctx context.Context, connector ports.PrinterConnector) error
	Disconnect() error
	TestPrint(ctx context.Context) error
}

// ConnectorFactory builds a connector for a printer device description.
type ConnectorFactory func(device printer.Device) ports.PrinterConnector

// ConnectPrinterCommand connects the dispatcher to a printer. A command without a
// device uses the configured one.
type ConnectPrinterCommand struct {
	device *printer.Device

	guard guard.ConstructorGuard
}

func NewConnectPrinterCommand(device *printer.Device) ConnectPrinterCommand {
	return ConnectPrinterCommand{device: device, guard: guard.NewConstructorGuard()}
}

func (c ConnectPrinterCommand) Validate() error {
	return c.guard.Validate(ErrConnectPrinterCommandIsNotConstructed)
}

// PrinterCommandHandler connects, disconnects and test-prints.
type PrinterCommandHandler struct {
	control       PrinterControl
	connectors    ConnectorFactory
	defaultDevice printer.Device
}

func NewPrinterCommandHandler(
	control PrinterControl,
	connectors ConnectorFactory,
	defaultDevice printer.Device,
) PrinterCommandHandler {
	return PrinterCommandHandler{control: control, connectors: connectors, defaultDevice: defaultDevice}
}

// HandleConnect connects to the requested or configured printer. Connecting while
// already connected succeeds without reconnecting.
func (h PrinterCommandHandler) HandleConnect(ctx context.Context, cmd ConnectPrinterCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	device := h.defaultDevice
	if cmd.device != nil {
		device = *cmd.device
	}
	if device.Method() == printer.UnknownMethod {
		return printer.ErrNoDeviceConfigured
	}

	return h.control.Connect(ctx, h.connectors(device))
}

func (h PrinterCommandHandler) HandleDisconnect(_ context.Context) error {
	return h.control.Disconnect()
}

func (h PrinterCommandHandler) HandleTestPrint(ctx context.Context) error {
	return h.control.TestPrint(ctx)
}
