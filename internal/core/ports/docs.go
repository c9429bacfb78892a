// Package ports defines the contracts between the restaurant core and its adapters:
// repositories and the unit of work, the order number counter, the key locker, the
// printer device, the chat transport, the responder and the event publisher.
// These interfaces establish dependency inversion and keep the core testable.
package ports
