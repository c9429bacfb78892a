package order

import (
	"fmt"
	"strings"

	"restaurant/internal/pkg/errs"
)

// TicketKind is one of the three receipts an order can produce. Each kind has its own
// print flag on the order.
type TicketKind int

const (
	UnknownTicketKind TicketKind = iota
	KitchenTicket
	DeliveryTicket
	DineInTicket
)

var ticketKindNames = map[TicketKind]string{
	KitchenTicket:  "kitchen",
	DeliveryTicket: "delivery",
	DineInTicket:   "dine_in",
}

// ParseTicketKind converts "kitchen", "delivery" or "dine_in" into a TicketKind.
func ParseTicketKind(s string) (TicketKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range ticketKindNames {
		if name == s {
			return k, nil
		}
	}
	return UnknownTicketKind, errs.NewValueIsInvalidErrorWithCause(
		"ticket kind",
		fmt.Errorf("%q is not a valid ticket kind", s),
	)
}

func (k TicketKind) Validate() error {
	if _, ok := ticketKindNames[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("ticket kind", fmt.Errorf("%d is not a valid ticket kind", k))
	}
	return nil
}

func (k TicketKind) String() string {
	if name, ok := ticketKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// PrintFlags records which tickets were successfully sent to the printer.
// Flags only go from false to true.
type PrintFlags struct {
	Kitchen  bool
	Delivery bool
	DineIn   bool
}

// Has reports whether the flag of kind is set.
func (f PrintFlags) Has(kind TicketKind) bool {
	switch kind {
	case KitchenTicket:
		return f.Kitchen
	case DeliveryTicket:
		return f.Delivery
	case DineInTicket:
		return f.DineIn
	case UnknownTicketKind:
	}
	return false
}

// with returns a copy of f with the flag of kind set.
func (f PrintFlags) with(kind TicketKind) PrintFlags {
	switch kind {
	case KitchenTicket:
		f.Kitchen = true
	case DeliveryTicket:
		f.Delivery = true
	case DineInTicket:
		f.DineIn = true
	case UnknownTicketKind:
	}
	return f
}
