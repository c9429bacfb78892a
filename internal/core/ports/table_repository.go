package ports

import (
	"context"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/table"
)

// TableRepository defines the persistence contract for table aggregates.
// Tables are addressed by their unique number.
type TableRepository interface {
	// Add persists a new table. A duplicate number is a ConflictError.
	Add(ctx context.Context, aggregate *table.Table) error

	// Update persists the status, binding and notes of an existing table.
	Update(ctx context.Context, aggregate *table.Table) error

	// GetByNumber retrieves a table by number.
	GetByNumber(ctx context.Context, number int) (*table.Table, error)

	// GetByNumberForUpdate retrieves a table and locks its row until the surrounding
	// transaction ends.
	GetByNumberForUpdate(ctx context.Context, number int) (*table.Table, error)

	// Delete removes a table.
	Delete(ctx context.Context, id kernel.UUID) error
}
