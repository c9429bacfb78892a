package escpos

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"restaurant/internal/core/domain/model/printer"
	"restaurant/internal/core/ports"
)

// LocalConnector opens a USB printer through the kernel printer class driver. The
// device is found by matching vendor and product ids under /sys/class/usbmisc and
// opened as /dev/usb/lpN.
type LocalConnector struct {
	device  printer.Device
	sysRoot string
	devRoot string
}

func NewLocalConnector(device printer.Device) *LocalConnector {
	return NewLocalConnectorAt(device, "/sys", "/dev")
}

// NewLocalConnectorAt looks the device up under other sysfs and device roots.
func NewLocalConnectorAt(device printer.Device, sysRoot, devRoot string) *LocalConnector {
	return &LocalConnector{device: device, sysRoot: sysRoot, devRoot: devRoot}
}

func (c *LocalConnector) Connect(ctx context.Context) (ports.PrinterSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := c.find()
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filepath.Join(c.devRoot, "usb", name), os.O_WRONLY, 0)
	if err != nil {
		return nil, err
	}
	return newSession(f), nil
}

func (c *LocalConnector) Device() printer.Device {
	return c.device
}

// find returns the lpN entry whose USB device has the configured ids.
func (c *LocalConnector) find() (string, error) {
	classDir := filepath.Join(c.sysRoot, "class", "usbmisc")
	entries, err := os.ReadDir(classDir)
	if err != nil {
		return "", fmt.Errorf("list usb printers: %w", err)
	}

	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "lp") {
			continue
		}

		// device points at the USB interface; the ids live on its parent.
		iface, err := filepath.EvalSymlinks(filepath.Join(classDir, entry.Name(), "device"))
		if err != nil {
			continue
		}
		usbDevice := filepath.Dir(iface)

		vendor, err := readHexID(filepath.Join(usbDevice, "idVendor"))
		if err != nil {
			continue
		}
		product, err := readHexID(filepath.Join(usbDevice, "idProduct"))
		if err != nil {
			continue
		}
		if vendor == c.device.VendorID() && product == c.device.ProductID() {
			return entry.Name(), nil
		}
	}

	return "", fmt.Errorf("no usb printer %s attached", c.device.Address())
}

func readHexID(path string) (uint16, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(id), nil
}
