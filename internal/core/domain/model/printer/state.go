// Package printer models the connection to the receipt printer: the connection state
// machine and the description of the device to connect to.
package printer

import (
	"restaurant/internal/pkg/errs"
)

// State is the connection state of the printer.
//
//	Disconnected ──connect──> Connecting ──ok──> Connected
//	      ^                        │                 │
//	      └────── failure/timeout ─┘                 │
//	      └──────────── I/O failure or disconnect ───┘
//
// The zero value is Disconnected.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return "unknown"
}

// IsConnected reports whether tickets can be sent.
func (s State) IsConnected() bool {
	return s == Connected
}

// BeginConnect moves Disconnected to Connecting. Callers handle the Connected no-op
// before calling it; a second connect while one is in flight is an InvalidStateError.
func (s State) BeginConnect() (State, error) {
	if s != Disconnected {
		return s, errs.NewInvalidStateError("printer", s.String(), "start connecting")
	}
	return Connecting, nil
}

// CompleteConnect moves Connecting to Connected.
func (s State) CompleteConnect() (State, error) {
	if s != Connecting {
		return s, errs.NewInvalidStateError("printer", s.String(), "complete connecting")
	}
	return Connected, nil
}

// Drop is the result of a failed connect, an I/O failure or an explicit disconnect.
// It is valid from every state.
func (s State) Drop() State {
	return Disconnected
}
