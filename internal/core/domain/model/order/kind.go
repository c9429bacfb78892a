package order

import (
	"fmt"
	"strings"

	"restaurant/internal/pkg/errs"
)

// Kind is the fulfillment channel of an order. It never changes after creation.
type Kind int

const (
	// UnknownKind is the zero value and is never valid.
	UnknownKind Kind = iota
	// Delivery orders are taken to the customer's address.
	Delivery
	// DineIn orders are served at a table.
	DineIn
	// Counter orders are served at the counter.
	Counter
	// Pickup orders are collected by the customer.
	Pickup
)

var kindNames = map[Kind]string{
	Delivery: "delivery",
	DineIn:   "dine_in",
	Counter:  "counter",
	Pickup:   "pickup",
}

var kindPrefixes = map[Kind]string{
	Delivery: "D",
	DineIn:   "M",
	Counter:  "B",
	Pickup:   "R",
}

// ParseKind converts a wire name such as "dine_in" into a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return UnknownKind, errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a valid order kind", s))
}

// Validate rejects UnknownKind and out-of-range values.
func (k Kind) Validate() error {
	if _, ok := kindNames[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%d is not a valid order kind", k))
	}
	return nil
}

// String returns the wire name, or "unknown".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Prefix returns the order number prefix: D, M, B or R.
func (k Kind) Prefix() string {
	return kindPrefixes[k]
}

// Label is the human-readable name printed on tickets.
func (k Kind) Label() string {
	switch k {
	case Delivery:
		return "DELIVERY"
	case DineIn:
		return "MESA"
	case Counter:
		return "BALCÃO"
	case Pickup:
		return "RETIRADA"
	case UnknownKind:
	}
	return "?"
}
