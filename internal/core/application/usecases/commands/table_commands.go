package commands

import (
	"errors"
	"math"
	"strings"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"
	"restaurant/internal/pkg/guard"
)

var (
	ErrCreateTableCommandIsNotConstructed = errors.New(
		"CreateTableCommand must be created via NewCreateTableCommand constructor",
	)
	ErrOccupyTableCommandIsNotConstructed = errors.New(
		"OccupyTableCommand must be created via NewOccupyTableCommand constructor",
	)
	ErrTableActionCommandIsNotConstructed = errors.New(
		"TableActionCommand must be created via NewTableActionCommand constructor",
	)
)

// TableAction is a status change requested for a single table.
type TableAction int

const (
	ReleaseTable TableAction = iota + 1
	ReserveTable
	MaintainTable
	DeleteTable
)

var tableActionNames = map[TableAction]string{
	ReleaseTable:  "release",
	ReserveTable:  "reserve",
	MaintainTable: "maintenance",
	DeleteTable:   "delete",
}

func (a TableAction) String() string {
	if name, ok := tableActionNames[a]; ok {
		return name
	}
	return "unknown"
}

func validateTableNumber(number int) error {
	if number < 1 {
		return errs.NewValueIsOutOfRangeError("table number", number, 1, math.MaxInt32)
	}
	return nil
}

// CreateTableCommand registers a new table. A capacity of 0 uses the default.
type CreateTableCommand struct {
	id       kernel.UUID
	number   int
	capacity int
	notes    string

	guard guard.ConstructorGuard
}

func NewCreateTableCommand(id kernel.UUID, number, capacity int, notes string) (CreateTableCommand, error) {
	if err := errors.Join(id.Validate(), validateTableNumber(number)); err != nil {
		return CreateTableCommand{}, err
	}
	return CreateTableCommand{
		id:       id,
		number:   number,
		capacity: capacity,
		notes:    strings.TrimSpace(notes),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CreateTableCommand) Validate() error {
	return c.guard.Validate(ErrCreateTableCommandIsNotConstructed)
}

func (c CreateTableCommand) ID() kernel.UUID { return c.id }
func (c CreateTableCommand) Number() int     { return c.number }
func (c CreateTableCommand) Capacity() int   { return c.capacity }
func (c CreateTableCommand) Notes() string   { return c.notes }

// OccupyTableCommand binds an existing dine-in order to its table.
type OccupyTableCommand struct {
	number  int
	orderID kernel.UUID
	staff   string

	guard guard.ConstructorGuard
}

func NewOccupyTableCommand(number int, orderID kernel.UUID, staff string) (OccupyTableCommand, error) {
	if err := errors.Join(validateTableNumber(number), orderID.Validate()); err != nil {
		return OccupyTableCommand{}, err
	}
	return OccupyTableCommand{
		number:  number,
		orderID: orderID,
		staff:   strings.TrimSpace(staff),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c OccupyTableCommand) Validate() error {
	return c.guard.Validate(ErrOccupyTableCommandIsNotConstructed)
}

func (c OccupyTableCommand) Number() int          { return c.number }
func (c OccupyTableCommand) OrderID() kernel.UUID { return c.orderID }
func (c OccupyTableCommand) Staff() string        { return c.staff }

// TableActionCommand releases, reserves, puts into maintenance or deletes a table.
type TableActionCommand struct {
	number int
	action TableAction

	guard guard.ConstructorGuard
}

func NewTableActionCommand(number int, action TableAction) (TableActionCommand, error) {
	var actionErr error
	if _, ok := tableActionNames[action]; !ok {
		actionErr = errs.NewValueIsInvalidError("table action")
	}
	if err := errors.Join(validateTableNumber(number), actionErr); err != nil {
		return TableActionCommand{}, err
	}
	return TableActionCommand{
		number: number,
		action: action,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c TableActionCommand) Validate() error {
	return c.guard.Validate(ErrTableActionCommandIsNotConstructed)
}

func (c TableActionCommand) Number() int         { return c.number }
func (c TableActionCommand) Action() TableAction { return c.action }
