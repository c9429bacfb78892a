package services_test

import (
	"testing"
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/table"
	"restaurant/internal/core/domain/services"
	"restaurant/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 4, 2, 20, 0, 0, 0, time.UTC)

func newTable(t *testing.T, number int) *table.Table {
	t.Helper()
	tb, err := table.NewTable(kernel.NewUUID(), number, 4, "", now)
	require.NoError(t, err)
	return tb
}

func newOrder(t *testing.T, kind order.Kind, tableNumber *int) *order.Order {
	t.Helper()
	c, err := order.NewCustomer("Ana", "11999990000", nil)
	require.NoError(t, err)
	a, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Feijoada", 2, kernel.Cents(1000), "")
	require.NoError(t, err)
	b, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Suco", 1, kernel.Cents(500), "")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kind, c, tableNumber, []order.Item{a, b}, order.Fees{}, order.Cash, "", now)
	require.NoError(t, err)
	return o
}

func intPtr(v int) *int { return &v }

func TestResourceCoordinator_DineInScenario(t *testing.T) {
	coordinator := services.NewResourceCoordinator()
	tbl := newTable(t, 5)
	o := newOrder(t, order.DineIn, intPtr(5))

	assert.Equal(t, kernel.Cents(2500), o.Subtotal())
	assert.Equal(t, kernel.Cents(2500), o.Total())

	require.NoError(t, coordinator.Occupy(tbl, o, "Carlos", now))
	assert.Equal(t, table.Occupied, tbl.Status())

	other := newOrder(t, order.DineIn, intPtr(5))
	err := coordinator.Occupy(tbl, other, "", now)
	require.ErrorIs(t, err, errs.ErrConflict)
	current, _ := tbl.CurrentOrder()
	assert.True(t, current.IsEqual(o.ID()))

	released, err := coordinator.TransitionOrder(o, order.Delivered, tbl, now)
	require.NoError(t, err)
	assert.True(t, released)
	assert.Equal(t, order.Delivered, o.Status())
	assert.Equal(t, table.Free, tbl.Status())
	_, bound := tbl.CurrentOrder()
	assert.False(t, bound)
}

func TestResourceCoordinator_CancelReleasesTable(t *testing.T) {
	coordinator := services.NewResourceCoordinator()
	tbl := newTable(t, 2)
	o := newOrder(t, order.DineIn, intPtr(2))
	require.NoError(t, coordinator.Occupy(tbl, o, "", now))

	released, err := coordinator.TransitionOrder(o, order.Canceled, tbl, now)

	require.NoError(t, err)
	assert.True(t, released)
	assert.True(t, tbl.IsFree())
}

func TestResourceCoordinator_NonTerminalTransitionKeepsTable(t *testing.T) {
	coordinator := services.NewResourceCoordinator()
	tbl := newTable(t, 2)
	o := newOrder(t, order.DineIn, intPtr(2))
	require.NoError(t, coordinator.Occupy(tbl, o, "", now))

	released, err := coordinator.TransitionOrder(o, order.Preparing, tbl, now)

	require.NoError(t, err)
	assert.False(t, released)
	assert.Equal(t, table.Occupied, tbl.Status())
}

func TestResourceCoordinator_RejectedTransitionChangesNothing(t *testing.T) {
	coordinator := services.NewResourceCoordinator()
	tbl := newTable(t, 2)
	o := newOrder(t, order.DineIn, intPtr(2))
	require.NoError(t, coordinator.Occupy(tbl, o, "", now))
	require.NoError(t, o.TransitionStatus(order.Ready, now))

	released, err := coordinator.TransitionOrder(o, order.Confirmed, tbl, now)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	assert.False(t, released)
	assert.Equal(t, order.Ready, o.Status())
	assert.Equal(t, table.Occupied, tbl.Status())
}

func TestResourceCoordinator_TableServingAnotherOrderIsKept(t *testing.T) {
	coordinator := services.NewResourceCoordinator()
	tbl := newTable(t, 3)
	first := newOrder(t, order.DineIn, intPtr(3))
	second := newOrder(t, order.DineIn, intPtr(3))
	require.NoError(t, coordinator.Occupy(tbl, second, "", now))

	released, err := coordinator.TransitionOrder(first, order.Canceled, tbl, now)

	require.NoError(t, err)
	assert.False(t, released)
	current, _ := tbl.CurrentOrder()
	assert.True(t, current.IsEqual(second.ID()))
}

func TestResourceCoordinator_TransitionWithoutTable(t *testing.T) {
	coordinator := services.NewResourceCoordinator()
	o := newOrder(t, order.Counter, nil)

	released, err := coordinator.TransitionOrder(o, order.Delivered, nil, now)

	require.NoError(t, err)
	assert.False(t, released)
}

func TestResourceCoordinator_OccupyRules(t *testing.T) {
	coordinator := services.NewResourceCoordinator()

	t.Run("non_dine_in_order", func(t *testing.T) {
		err := coordinator.Occupy(newTable(t, 1), newOrder(t, order.Pickup, nil), "", now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("other_table_number", func(t *testing.T) {
		tbl := newTable(t, 1)
		err := coordinator.Occupy(tbl, newOrder(t, order.DineIn, intPtr(9)), "", now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.True(t, tbl.IsFree())
	})

	t.Run("finished_order", func(t *testing.T) {
		o := newOrder(t, order.DineIn, intPtr(1))
		require.NoError(t, o.Cancel(now))
		tbl := newTable(t, 1)
		err := coordinator.Occupy(tbl, o, "", now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.NotErrorIs(t, err, errs.ErrInvalidState)
		assert.True(t, tbl.IsFree())
	})

	t.Run("reserved_table", func(t *testing.T) {
		tbl := newTable(t, 1)
		require.NoError(t, coordinator.Reserve(tbl, now))
		err := coordinator.Occupy(tbl, newOrder(t, order.DineIn, intPtr(1)), "", now)
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("not_constructed", func(t *testing.T) {
		err := coordinator.Occupy(&table.Table{}, newOrder(t, order.DineIn, intPtr(1)), "", now)
		require.ErrorIs(t, err, table.ErrTableIsNotConstructed)
	})
}

func TestResourceCoordinator_ReleaseIsIdempotent(t *testing.T) {
	coordinator := services.NewResourceCoordinator()
	tbl := newTable(t, 4)

	changed, err := coordinator.Release(tbl, now)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, coordinator.Maintain(tbl, now))
	changed, err = coordinator.Release(tbl, now)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, tbl.IsFree())
}

func TestResourceCoordinator_ReserveRequiresFree(t *testing.T) {
	coordinator := services.NewResourceCoordinator()
	tbl := newTable(t, 4)
	require.NoError(t, coordinator.Occupy(tbl, newOrder(t, order.DineIn, intPtr(4)), "", now))

	require.ErrorIs(t, coordinator.Reserve(tbl, now), errs.ErrConflict)
	require.ErrorIs(t, coordinator.Maintain(tbl, now), errs.ErrConflict)
}
