package ports

import (
	"context"

	"restaurant/internal/core/domain/model/printer"
	"restaurant/internal/core/domain/model/ticket"
)

// PrinterConnector opens sessions to one configured thermal printer.
type PrinterConnector interface {
	// Connect opens the device. It must honor ctx cancellation.
	Connect(ctx context.Context) (PrinterSession, error)

	// Device describes the printer the connector targets.
	Device() printer.Device
}

// PrinterSession is an open connection to a printer.
type PrinterSession interface {
	// Print encodes and writes a complete ticket. Any error means the device is
	// no longer usable.
	Print(ctx context.Context, layout ticket.Layout) error

	// Close releases the underlying device.
	Close() error
}
