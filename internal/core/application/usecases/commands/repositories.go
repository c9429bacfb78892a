// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, key locks, transaction
// management, persistence and post-commit side effects.
package commands

import (
	"context"

	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/table"
	"restaurant/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// TableRepoFactory provides access to the table repository within a transaction.
	TableRepoFactory interface {
		TableRepository() ports.TableRepository
	}

	// ProductRepoFactory provides access to the product repository within a transaction.
	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	// SequenceFactory provides access to the order number counter within a transaction.
	SequenceFactory interface {
		OrderNumberSequence() ports.OrderNumberSequence
	}

	// OrderUoW manages transactions for order item changes.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		ProductRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// TableUoW manages transactions for table-only operations.
	TableUoW interface {
		TxManager
		TableRepoFactory
	}

	// TableUoWFactory creates new table unit of work instances.
	TableUoWFactory interface {
		Create() TableUoW
	}

	// ProductUoW manages transactions for catalog operations.
	ProductUoW interface {
		TxManager
		ProductRepoFactory
	}

	// ProductUoWFactory creates new product unit of work instances.
	ProductUoWFactory interface {
		Create() ProductUoW
	}

	// UoW manages transactions across orders, tables, products and the number counter.
	// Used for commands that coordinate an order with its table.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, id)
	//   tbl, err := uow.TableRepository().GetByNumberForUpdate(ctx, number)
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		TableRepoFactory
		ProductRepoFactory
		SequenceFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)

// TicketDispatcher sends order tickets to the printer. Implementations persist the
// print flag themselves, so callers must not hold the order lock while dispatching.
type TicketDispatcher interface {
	IsConnected() bool
	RenderAndSend(ctx context.Context, o *order.Order, kind order.TicketKind, tbl *table.Table) error
}
