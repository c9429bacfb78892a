package escpos

import (
	"restaurant/internal/core/domain/model/printer"
	"restaurant/internal/core/ports"
)

// NewConnector picks the connector matching the device's method. It returns nil for
// a device without one; callers check the device before connecting.
func NewConnector(device printer.Device) ports.PrinterConnector {
	switch device.Method() {
	case printer.Network:
		return NewNetworkConnector(device)
	case printer.Local:
		return NewLocalConnector(device)
	case printer.UnknownMethod:
	}
	return nil
}
