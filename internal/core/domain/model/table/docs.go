// Package table provides the Table aggregate: a physical seat with exclusive occupancy.
//
// Business rules:
//   - a table number is unique and never changes
//   - capacity is a positive number of seats
//   - an occupied table references exactly one order; any other status references none
//   - a table can only be occupied, reserved or put into maintenance while free
//   - releasing is idempotent
//
// State transitions:
//
//	Free ──occupy──> Occupied ──release──> Free
//	Free ──reserve─> Reserved ──release──> Free
//	Free ──maintain> Maintenance ─release─> Free
//
// The status-changing methods are called by services.ResourceCoordinator, which keeps
// the table and its order consistent. No other component calls them.
package table
