package ports

import (
	"context"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// An order is stored together with its items; Update replaces the item list.
type OrderRepository interface {
	// Add persists a new order aggregate with its items.
	// The order must be valid and numbered.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its identifier.
	// Returns ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetActiveByPhone returns the most recent non-terminal order of a customer.
	// Returns ObjectNotFoundError when the customer has no active order.
	GetActiveByPhone(ctx context.Context, phone kernel.Phone) (*order.Order, error)

	// ListUnprinted returns active orders, oldest first, whose ticket of the given
	// kind has not been printed yet.
	ListUnprinted(ctx context.Context, kind order.TicketKind, limit int) ([]*order.Order, error)
}
