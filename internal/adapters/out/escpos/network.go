package escpos

import (
	"context"
	"net"

	"restaurant/internal/core/domain/model/printer"
	"restaurant/internal/core/ports"
)

// NetworkConnector reaches a printer on its raw TCP port (9100 by default).
type NetworkConnector struct {
	device printer.Device
	dialer net.Dialer
}

func NewNetworkConnector(device printer.Device) *NetworkConnector {
	return &NetworkConnector{device: device}
}

func (c *NetworkConnector) Connect(ctx context.Context) (ports.PrinterSession, error) {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.device.Address())
	if err != nil {
		return nil, err
	}
	return newSession(conn), nil
}

func (c *NetworkConnector) Device() printer.Device {
	return c.device
}
