package table

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"
)

const (
	// DefaultCapacity is used when a table is created without a capacity.
	DefaultCapacity = 4
	// MaxCapacity bounds the seats of one table.
	MaxCapacity = 50
)

// ErrTableIsNotConstructed is returned for Table values not created by NewTable or RestoreTable.
var ErrTableIsNotConstructed = errors.New("Table must be created via NewTable constructor")

// Table is a seating resource with exclusive occupancy.
type Table struct {
	id            kernel.UUID
	number        int
	capacity      int
	status        Status
	currentOrder  *kernel.UUID
	assignedStaff string
	notes         string
	createdAt     time.Time
	updatedAt     time.Time

	isConstructed bool
}

// NewTable creates a free table. A capacity of 0 means DefaultCapacity.
func NewTable(id kernel.UUID, number, capacity int, notes string, now time.Time) (*Table, error) {
	if capacity == 0 {
		capacity = DefaultCapacity
	}

	t := &Table{
		status:        Free,
		notes:         strings.TrimSpace(notes),
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}
	if err := errors.Join(
		t.setID(id),
		t.setNumber(number),
		t.setCapacity(capacity),
	); err != nil {
		return nil, err
	}
	return t, nil
}

// RestoreTable rebuilds a table loaded from storage and checks the occupancy invariant.
func RestoreTable(
	id kernel.UUID,
	number, capacity int,
	status Status,
	currentOrder *kernel.UUID,
	assignedStaff, notes string,
	createdAt, updatedAt time.Time,
) (*Table, error) {
	t := &Table{
		status:        status,
		assignedStaff: assignedStaff,
		notes:         notes,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}

	var bindingErr error
	switch {
	case status == Occupied && currentOrder == nil:
		bindingErr = errs.NewValueIsRequiredError("current order")
	case status != Occupied && currentOrder != nil:
		bindingErr = errs.NewValueIsInvalidErrorWithCause(
			"current order",
			fmt.Errorf("a %s table cannot reference an order", status),
		)
	case currentOrder != nil:
		ref := *currentOrder
		t.currentOrder = &ref
	}

	if err := errors.Join(
		t.setID(id),
		t.setNumber(number),
		t.setCapacity(capacity),
		status.Validate(),
		bindingErr,
	); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTableIsNotConstructed
	}
	return nil
}

func (t *Table) ID() kernel.UUID       { return t.id }
func (t *Table) Number() int           { return t.number }
func (t *Table) Capacity() int         { return t.capacity }
func (t *Table) Status() Status        { return t.status }
func (t *Table) AssignedStaff() string { return t.assignedStaff }
func (t *Table) Notes() string         { return t.notes }
func (t *Table) CreatedAt() time.Time  { return t.createdAt }
func (t *Table) UpdatedAt() time.Time  { return t.updatedAt }

// CurrentOrder returns the order occupying the table. ok is false unless occupied.
func (t *Table) CurrentOrder() (id kernel.UUID, ok bool) {
	if t.currentOrder == nil {
		return kernel.UUID{}, false
	}
	return *t.currentOrder, true
}

// IsFree reports whether the table can be occupied or reserved.
func (t *Table) IsFree() bool {
	return t.status == Free
}

// Occupy binds orderID to a free table. staff may be empty.
// It fails with ConflictError unless the table is free.
func (t *Table) Occupy(orderID kernel.UUID, staff string, now time.Time) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if t.status != Free {
		return t.conflict()
	}

	ref := orderID
	t.status = Occupied
	t.currentOrder = &ref
	t.assignedStaff = strings.TrimSpace(staff)
	t.touch(now)
	return nil
}

// Release frees the table and clears its order and staff. It returns false when the
// table was already free and nothing changed.
func (t *Table) Release(now time.Time) bool {
	if t.status == Free {
		return false
	}

	t.status = Free
	t.currentOrder = nil
	t.assignedStaff = ""
	t.touch(now)
	return true
}

// Reserve marks a free table as reserved.
func (t *Table) Reserve(now time.Time) error {
	if t.status != Free {
		return t.conflict()
	}
	t.status = Reserved
	t.touch(now)
	return nil
}

// StartMaintenance takes a free table out of service.
func (t *Table) StartMaintenance(now time.Time) error {
	if t.status != Free {
		return t.conflict()
	}
	t.status = Maintenance
	t.touch(now)
	return nil
}

func (t *Table) conflict() error {
	return errs.NewConflictError(fmt.Sprintf("table %d", t.number), "is "+t.status.String())
}

func (t *Table) touch(now time.Time) {
	if now.After(t.updatedAt) {
		t.updatedAt = now
	}
}

func (t *Table) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Table) setNumber(number int) error {
	if number < 1 {
		return errs.NewValueIsInvalidErrorWithCause("table number", fmt.Errorf("%d is not positive", number))
	}
	t.number = number
	return nil
}

func (t *Table) setCapacity(capacity int) error {
	if capacity < 1 || capacity > MaxCapacity {
		return errs.NewValueIsOutOfRangeError("capacity", capacity, 1, MaxCapacity)
	}
	t.capacity = capacity
	return nil
}
