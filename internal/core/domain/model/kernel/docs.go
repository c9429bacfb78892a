// Package kernel holds the value objects shared by every aggregate of the restaurant domain:
//   - UUID: identifier of orders, items, tables and products
//   - Money: currency amount in integer cents
//   - Phone: customer phone number normalized to digits
//
// All of them are immutable and safe for concurrent use.
package kernel
