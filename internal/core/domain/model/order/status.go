package order

import (
	"fmt"
	"strings"

	"restaurant/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> Ready ──> Delivered
//	   │            │             │           │
//	   └────────────┴─────────────┴───────────┴──────> Canceled
//
// Forward moves may skip intermediate states (a counter order can go straight from
// Pending to Delivered) but never go back. Delivered and Canceled are terminal.
type Status int

const (
	// UnknownStatus is the zero value and is never valid.
	UnknownStatus Status = iota

	// Pending is the initial status of every new order.
	Pending

	// Confirmed means the restaurant accepted the order.
	Confirmed

	// Preparing means the kitchen is working on the order.
	Preparing

	// Ready means the order can be served, picked up or dispatched.
	Ready

	// Delivered is terminal: the customer received the order.
	Delivered

	// Canceled is terminal: the order was voided. Orders are never deleted.
	Canceled
)

var statusNames = map[Status]string{
	Pending:   "pending",
	Confirmed: "confirmed",
	Preparing: "preparing",
	Ready:     "ready",
	Delivered: "delivered",
	Canceled:  "canceled",
}

var statusLabels = map[Status]string{
	Pending:   "Pendente",
	Confirmed: "Confirmado",
	Preparing: "Preparando",
	Ready:     "Pronto",
	Delivered: "Entregue",
	Canceled:  "Cancelado",
}

// ParseStatus converts a wire name such as "preparing" into a Status.
func ParseStatus(s string) (Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return UnknownStatus, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that s is one of the defined statuses.
//
// Returns:
//   - nil if the status is valid
//   - ValueIsInvalidError for UnknownStatus and any other value
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, or "unknown".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Label returns the name printed on tickets and chat replies.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "Desconhecido"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Canceled
}

// AllowsItemChanges reports whether items may still be added or removed.
// The kitchen has not finished the order yet in these states.
func (s Status) AllowsItemChanges() bool {
	return s == Pending || s == Confirmed || s == Preparing
}

// TransitionTo returns next if the move from s is allowed.
//
// Valid transitions:
//   - any forward move along Pending → Confirmed → Preparing → Ready → Delivered
//   - any non-terminal status → Canceled
//
// Invalid transitions (InvalidStateError):
//   - from Delivered or Canceled
//   - backwards, or to the current status
//
// Example:
//
//	next, err := order.Pending.TransitionTo(order.Delivered) // next == Delivered
//	_, err = order.Ready.TransitionTo(order.Preparing)       // err is InvalidStateError
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return UnknownStatus, err
	}
	if s.IsTerminal() {
		return UnknownStatus, errs.NewInvalidStateError("order", s.String(), "move to "+next.String())
	}
	if next == Canceled {
		return Canceled, nil
	}
	if next <= s {
		return UnknownStatus, errs.NewInvalidStateError("order", s.String(), "move to "+next.String())
	}
	return next, nil
}

// Cancel is TransitionTo(Canceled).
func (s Status) Cancel() (Status, error) {
	return s.TransitionTo(Canceled)
}
