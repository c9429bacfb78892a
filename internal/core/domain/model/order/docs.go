// Package order provides the Order aggregate of the restaurant service together with
// its value objects and lifecycle rules.
//
// The package includes:
//   - Order: aggregate root owning the item list, the monetary totals, the order number,
//     the status and the per-ticket print flags
//   - Item, Customer: value objects carried by an order
//   - Kind, PaymentMethod, TicketKind: enumerations with their wire names
//   - Status: the order state machine
//
// Key business rules:
//   - subtotal = Σ quantity·unitPrice and total = subtotal + deliveryFee − discount,
//     recomputed on every item mutation
//   - items can only change while the order is pending, confirmed or preparing
//   - statuses only move forward: pending → confirmed → preparing → ready → delivered,
//     with canceled reachable from any non-terminal status
//   - an order number is assigned exactly once, formatted as <prefix><6 digits>
//   - print flags are monotonic: once a ticket is marked printed it stays printed
//
// Orders are never deleted. Cancellation is a terminal status.
package order
