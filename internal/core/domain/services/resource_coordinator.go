package services

import (
	"fmt"
	"time"

	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/table"
	"restaurant/internal/pkg/errs"
)

// ResourceCoordinator is the domain service arbitrating table occupancy. It is the only
// component that changes a table's status or binds an order to it, so the
// table → order reference and the order → table number always agree.
//
// Business rules:
//   - only a free table can be occupied, reserved or put into maintenance (ConflictError)
//   - a table is occupied by an active dine-in order that names it
//   - releasing a free table is a successful no-op
//   - a dine-in order reaching Delivered or Canceled releases its table in the same step
//
// The coordinator mutates aggregates in memory only. Callers hold the table and order
// locks and persist both aggregates in one transaction.
//
// Example usage:
//
//	coordinator := services.NewResourceCoordinator()
//	if err := coordinator.Occupy(tbl, o, "Carlos", now); errors.Is(err, errs.ErrConflict) {
//	    // the table is taken
//	}
type ResourceCoordinator struct{}

// NewResourceCoordinator creates a ResourceCoordinator.
func NewResourceCoordinator() ResourceCoordinator {
	return ResourceCoordinator{}
}

// Occupy binds o to tbl.
//
// Parameters:
//   - tbl: the table to occupy, must be free
//   - o: an active dine-in order whose table number is tbl's number
//   - staff: optional waiter name
//
// Returns:
//   - ConflictError if the table is not free
//   - ValueIsInvalidError if the order cannot sit at this table or is finished
func (c ResourceCoordinator) Occupy(tbl *table.Table, o *order.Order, staff string, now time.Time) error {
	if err := validate(tbl, o); err != nil {
		return err
	}

	number, ok := o.TableNumber()
	if !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"order",
			fmt.Errorf("order %s is a %s order and cannot occupy a table", o.ID(), o.Kind()),
		)
	}
	if number != tbl.Number() {
		return errs.NewValueIsInvalidErrorWithCause(
			"order",
			fmt.Errorf("order %s belongs to table %d, not %d", o.ID(), number, tbl.Number()),
		)
	}
	if !o.IsActive() {
		return errs.NewValueIsInvalidErrorWithCause(
			"order",
			fmt.Errorf("order %s is %s and cannot occupy a table", o.ID(), o.Status()),
		)
	}

	return tbl.Occupy(o.ID(), staff, now)
}

// Release frees tbl whatever its status. It reports whether anything changed;
// releasing a free table is not an error.
func (c ResourceCoordinator) Release(tbl *table.Table, now time.Time) (bool, error) {
	if err := tbl.Validate(); err != nil {
		return false, err
	}
	return tbl.Release(now), nil
}

// Reserve marks a free table as reserved.
func (c ResourceCoordinator) Reserve(tbl *table.Table, now time.Time) error {
	if err := tbl.Validate(); err != nil {
		return err
	}
	return tbl.Reserve(now)
}

// Maintain takes a free table out of service.
func (c ResourceCoordinator) Maintain(tbl *table.Table, now time.Time) error {
	if err := tbl.Validate(); err != nil {
		return err
	}
	return tbl.StartMaintenance(now)
}

// TransitionOrder moves o to next and, when o is a dine-in order reaching a terminal
// status, releases tbl if tbl is still bound to o. tbl may be nil for orders without
// a table. Nothing is changed when the transition is rejected.
//
// Returns:
//   - released: whether tbl was freed
//   - error: the status transition error, or a validation error
func (c ResourceCoordinator) TransitionOrder(
	o *order.Order,
	next order.Status,
	tbl *table.Table,
	now time.Time,
) (bool, error) {
	if err := o.Validate(); err != nil {
		return false, err
	}
	if tbl != nil {
		if err := tbl.Validate(); err != nil {
			return false, err
		}
	}

	if err := o.TransitionStatus(next, now); err != nil {
		return false, err
	}

	return c.ReleaseForOrder(o, tbl, now), nil
}

// ReleaseForOrder frees tbl if o is a finished dine-in order still occupying it.
// A table already serving another order is left untouched.
func (c ResourceCoordinator) ReleaseForOrder(o *order.Order, tbl *table.Table, now time.Time) bool {
	if tbl == nil || o.IsActive() {
		return false
	}
	number, ok := o.TableNumber()
	if !ok || number != tbl.Number() {
		return false
	}
	current, occupied := tbl.CurrentOrder()
	if !occupied || !current.IsEqual(o.ID()) {
		return false
	}
	return tbl.Release(now)
}

func validate(tbl *table.Table, o *order.Order) error {
	if err := tbl.Validate(); err != nil {
		return err
	}
	return o.Validate()
}
