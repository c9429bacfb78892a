package queries

import (
	"errors"
	"math"

	"restaurant/internal/pkg/errs"
	"restaurant/internal/pkg/guard"
)

var (
	ErrListTablesQueryIsNotConstructed = errors.New(
		"ListTablesQuery must be created via NewListTablesQuery constructor",
	)
	ErrGetTableQueryIsNotConstructed = errors.New(
		"GetTableQuery must be created via NewGetTableQuery constructor",
	)
	ErrListProductsQueryIsNotConstructed = errors.New(
		"ListProductsQuery must be created via NewListProductsQuery constructor",
	)
)

// ListTablesQuery lists tables by number. With freeOnly only Free tables are returned.
type ListTablesQuery struct {
	freeOnly bool

	guard guard.ConstructorGuard
}

func NewListTablesQuery(freeOnly bool) ListTablesQuery {
	return ListTablesQuery{freeOnly: freeOnly, guard: guard.NewConstructorGuard()}
}

func (q ListTablesQuery) Validate() error {
	return q.guard.Validate(ErrListTablesQueryIsNotConstructed)
}

type GetTableQuery struct {
	number int

	guard guard.ConstructorGuard
}

func NewGetTableQuery(number int) (GetTableQuery, error) {
	if number <= 0 {
		return GetTableQuery{}, errs.NewValueIsOutOfRangeError("table number", number, 1, math.MaxInt32)
	}
	return GetTableQuery{number: number, guard: guard.NewConstructorGuard()}, nil
}

func (q GetTableQuery) Validate() error {
	return q.guard.Validate(ErrGetTableQueryIsNotConstructed)
}

// ListProductsQuery lists the catalog by category and name.
// With availableOnly unavailable products are hidden.
type ListProductsQuery struct {
	availableOnly bool

	guard guard.ConstructorGuard
}

func NewListProductsQuery(availableOnly bool) ListProductsQuery {
	return ListProductsQuery{availableOnly: availableOnly, guard: guard.NewConstructorGuard()}
}

func (q ListProductsQuery) Validate() error {
	return q.guard.Validate(ErrListProductsQueryIsNotConstructed)
}
