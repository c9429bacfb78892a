package http

import (
	"fmt"
	"net/http"
	"strconv"

	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/printer"
	"restaurant/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ConnectPrinter handles POST /api/v1/printer/connect. Without a body the
// configured printer is used.
func (s *Server) ConnectPrinter(c echo.Context) error {
	var req ConnectPrinterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	device, err := req.device()
	if err != nil {
		return err
	}

	if err = s.h.Printer.HandleConnect(c.Request().Context(), commands.NewConnectPrinterCommand(device)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, printerStatusFromDomain(s.h.PrinterInfo.Status()))
}

func (r ConnectPrinterRequest) device() (*printer.Device, error) {
	var (
		device printer.Device
		err    error
	)
	switch r.Type {
	case "":
		return nil, nil //nolint:nilnil // no device means the configured one
	case "network":
		device, err = printer.NewNetworkDevice(r.Host, r.Port)
	case "usb":
		var vendorID, productID uint16
		if vendorID, err = parseUSBID("vendor_id", r.VendorID); err != nil {
			return nil, err
		}
		if productID, err = parseUSBID("product_id", r.ProductID); err != nil {
			return nil, err
		}
		device, err = printer.NewLocalDevice(vendorID, productID)
	default:
		err = errs.NewValueIsInvalidErrorWithCause("type", fmt.Errorf("%q is not a printer type", r.Type))
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func parseUSBID(name, raw string) (uint16, error) {
	if raw == "" {
		return 0, errs.NewValueIsRequiredError(name)
	}
	v, err := strconv.ParseUint(raw, 16, 16)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return uint16(v), nil
}

// DisconnectPrinter handles POST /api/v1/printer/disconnect.
func (s *Server) DisconnectPrinter(c echo.Context) error {
	if err := s.h.Printer.HandleDisconnect(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, printerStatusFromDomain(s.h.PrinterInfo.Status()))
}

// PrinterStatus handles GET /api/v1/printer/status.
func (s *Server) PrinterStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, printerStatusFromDomain(s.h.PrinterInfo.Status()))
}

// TestPrint handles POST /api/v1/printer/test.
func (s *Server) TestPrint(c echo.Context) error {
	if err := s.h.Printer.HandleTestPrint(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// PrintTicket handles POST /api/v1/printer/orders/:id/:kind?reprint=true.
func (s *Server) PrintTicket(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	rawKind, err := pathString(c, "kind")
	if err != nil {
		return err
	}
	kind, err := order.ParseTicketKind(rawKind)
	if err != nil {
		return err
	}
	reprint, err := queryBool(c, "reprint")
	if err != nil {
		return err
	}

	cmd, err := commands.NewPrintTicketCommand(id, kind, reprint)
	if err != nil {
		return err
	}
	result, err := s.h.PrintTicket.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PrintResultDTO{Printed: result.Printed, Order: orderFromDomain(result.Order)})
}
