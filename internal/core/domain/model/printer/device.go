package printer

import (
	"fmt"
	"strings"

	"restaurant/internal/pkg/errs"
)

// DefaultNetworkPort is the raw printing port of networked ESC/POS printers.
const DefaultNetworkPort = 9100

// ErrNoDeviceConfigured is returned when connecting without a printer description.
var ErrNoDeviceConfigured = errs.NewValueIsRequiredError("printer device")

// Method is how the printer is reached.
type Method int

const (
	UnknownMethod Method = iota
	// Network printers are reached over TCP.
	Network
	// Local printers are attached over USB and identified by vendor and product id.
	Local
)

func (m Method) String() string {
	switch m {
	case Network:
		return "network"
	case Local:
		return "usb"
	case UnknownMethod:
	}
	return "unknown"
}

// Device describes the printer to connect to. Exactly one addressing scheme is set,
// according to Method.
type Device struct {
	method    Method
	host      string
	port      int
	vendorID  uint16
	productID uint16
}

// NewNetworkDevice describes a TCP printer. A zero port means DefaultNetworkPort.
func NewNetworkDevice(host string, port int) (Device, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return Device{}, errs.NewValueIsRequiredError("printer host")
	}
	if port == 0 {
		port = DefaultNetworkPort
	}
	if port < 1 || port > 65535 {
		return Device{}, errs.NewValueIsOutOfRangeError("printer port", port, 1, 65535)
	}
	return Device{method: Network, host: host, port: port}, nil
}

// NewLocalDevice describes a USB printer by its vendor and product ids.
func NewLocalDevice(vendorID, productID uint16) (Device, error) {
	if vendorID == 0 || productID == 0 {
		return Device{}, errs.NewValueIsRequiredError("printer vendor and product id")
	}
	return Device{method: Local, vendorID: vendorID, productID: productID}, nil
}

func (d Device) Method() Method    { return d.method }
func (d Device) Host() string      { return d.host }
func (d Device) Port() int         { return d.port }
func (d Device) VendorID() uint16  { return d.vendorID }
func (d Device) ProductID() uint16 { return d.productID }

// Address returns "host:port" for network devices and "vvvv:pppp" in hex for local ones.
func (d Device) Address() string {
	switch d.method {
	case Network:
		return fmt.Sprintf("%s:%d", d.host, d.port)
	case Local:
		return fmt.Sprintf("%04x:%04x", d.vendorID, d.productID)
	case UnknownMethod:
	}
	return ""
}

func (d Device) String() string {
	if d.method == UnknownMethod {
		return "none"
	}
	return d.method.String() + " " + d.Address()
}
