package commands

import (
	"context"
	"fmt"
	"time"

	"restaurant/internal/core/domain/model/table"
	"restaurant/internal/core/domain/services"
	"restaurant/internal/core/ports"
	"restaurant/internal/pkg/errs"
	"restaurant/internal/pkg/keylock"
)

// CreateTableCommandHandler registers tables. A duplicate number is a ConflictError
// reported by the repository.
type CreateTableCommandHandler struct {
	uowFactory TableUoWFactory
	locker     ports.Locker
}

func NewCreateTableCommandHandler(uowFactory TableUoWFactory, locker ports.Locker) CreateTableCommandHandler {
	return CreateTableCommandHandler{uowFactory: uowFactory, locker: locker}
}

func (h CreateTableCommandHandler) Handle(ctx context.Context, cmd CreateTableCommand) (*table.Table, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	tbl, err := table.NewTable(cmd.ID(), cmd.Number(), cmd.Capacity(), cmd.Notes(), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	unlock, err := h.locker.Lock(ctx, keylock.TableKey(cmd.Number()))
	if err != nil {
		return nil, err
	}
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.TableRepository().Add(ctx, tbl); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return tbl, nil
}

// OccupyTableCommandHandler binds an order to a table under both keys.
//
// Example:
//
//	cmd, _ := NewOccupyTableCommand(5, orderID, "Carlos")
//	tbl, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConflict) {
//	    // another order holds the table
//	}
type OccupyTableCommandHandler struct {
	uowFactory  UoWFactory
	locker      ports.Locker
	coordinator services.ResourceCoordinator
}

func NewOccupyTableCommandHandler(uowFactory UoWFactory, locker ports.Locker) OccupyTableCommandHandler {
	return OccupyTableCommandHandler{
		uowFactory:  uowFactory,
		locker:      locker,
		coordinator: services.NewResourceCoordinator(),
	}
}

func (h OccupyTableCommandHandler) Handle(ctx context.Context, cmd OccupyTableCommand) (*table.Table, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	unlock, err := h.locker.Lock(ctx, keylock.OrderKey(cmd.OrderID()), keylock.TableKey(cmd.Number()))
	if err != nil {
		return nil, err
	}
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	tbl, err := uow.TableRepository().GetByNumberForUpdate(ctx, cmd.Number())
	if err != nil {
		return nil, err
	}

	if err = h.coordinator.Occupy(tbl, o, cmd.Staff(), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = uow.TableRepository().Update(ctx, tbl); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return tbl, nil
}

// TableActionCommandHandler applies release, reserve, maintenance and delete
// requests under the table key.
type TableActionCommandHandler struct {
	uowFactory  TableUoWFactory
	locker      ports.Locker
	coordinator services.ResourceCoordinator
}

func NewTableActionCommandHandler(uowFactory TableUoWFactory, locker ports.Locker) TableActionCommandHandler {
	return TableActionCommandHandler{
		uowFactory:  uowFactory,
		locker:      locker,
		coordinator: services.NewResourceCoordinator(),
	}
}

// Handle returns the table after the action. For DeleteTable the returned table is
// the removed one. Releasing a free table succeeds without writing.
func (h TableActionCommandHandler) Handle(ctx context.Context, cmd TableActionCommand) (*table.Table, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	unlock, err := h.locker.Lock(ctx, keylock.TableKey(cmd.Number()))
	if err != nil {
		return nil, err
	}
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TableRepository()
	tbl, err := repo.GetByNumberForUpdate(ctx, cmd.Number())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	changed := true
	switch cmd.Action() {
	case ReleaseTable:
		changed, err = h.coordinator.Release(tbl, now)
	case ReserveTable:
		err = h.coordinator.Reserve(tbl, now)
	case MaintainTable:
		err = h.coordinator.Maintain(tbl, now)
	case DeleteTable:
		if tbl.Status() == table.Occupied {
			return nil, errs.NewConflictError(fmt.Sprintf("table %d", tbl.Number()), "is occupied")
		}
		if err = repo.Delete(ctx, tbl.ID()); err != nil {
			return nil, err
		}
		changed = false
	}
	if err != nil {
		return nil, err
	}

	if changed {
		if err = repo.Update(ctx, tbl); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return tbl, nil
}
