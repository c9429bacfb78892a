// Package services provides domain services that coordinate several aggregates of the
// restaurant domain.
//
// The package includes:
//   - ResourceCoordinator: the single writer of the binding between a table and the
//     dine-in order occupying it
package services
