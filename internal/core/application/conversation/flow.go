package conversation

import (
	"context"
	"sync"

	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/ports"
)

// State is the step of a multi-turn dialog a sender is in.
type State int

const (
	// None means no dialog is open.
	None State = iota

	// AwaitingOrderKind waits for the customer to choose delivery, table or pickup.
	AwaitingOrderKind

	// AwaitingAddress waits for a delivery address.
	AwaitingAddress
)

func (s State) String() string {
	switch s {
	case AwaitingOrderKind:
		return "awaiting_order_kind"
	case AwaitingAddress:
		return "awaiting_address"
	default:
		return "none"
	}
}

// Flow is the dialog state of one sender. Kind is set once the customer chose it.
type Flow struct {
	State State
	Kind  order.Kind
}

// FlowStore keeps the flow of every sender in memory.
//
// Lock gives the caller exclusive use of one sender's flow, so a lookup and the
// following advance are never interleaved with another message from the same sender.
type FlowStore struct {
	mu     sync.Mutex
	flows  map[string]Flow
	locker ports.Locker
}

func NewFlowStore(locker ports.Locker) *FlowStore {
	return &FlowStore{flows: make(map[string]Flow), locker: locker}
}

// Lock blocks until the sender's flow is free or ctx is done.
func (s *FlowStore) Lock(ctx context.Context, sender string) (func(), error) {
	return s.locker.Lock(ctx, "sender:"+sender)
}

// Get returns the sender's flow. A sender without one is in None.
func (s *FlowStore) Get(sender string) Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flows[sender]
}

// Set stores the sender's flow. Setting None forgets the sender.
func (s *FlowStore) Set(sender string, flow Flow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if flow.State == None {
		delete(s.flows, sender)
		return
	}
	s.flows[sender] = flow
}

// Len reports the number of open flows.
func (s *FlowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.flows)
}
