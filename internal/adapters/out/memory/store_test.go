package memory_test

import (
	"testing"
	"time"

	"restaurant/internal/adapters/out/memory"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/table"
	"restaurant/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func TestUnitOfWork_RollbackDiscardsStagedWrites(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()

	tbl, err := table.NewTable(kernel.NewUUID(), 1, 4, "", now)
	require.NoError(t, err)

	uow := store.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.TableRepository().Add(ctx, tbl))

	_, err = uow.TableRepository().GetByNumber(ctx, 1)
	require.NoError(t, err, "staged writes are visible inside the unit")

	other := store.Create()
	_, err = other.TableRepository().GetByNumber(ctx, 1)
	require.ErrorIs(t, err, errs.ErrObjectNotFound, "staged writes are invisible to other units")

	require.NoError(t, uow.Rollback(ctx))
	_, err = store.Create().TableRepository().GetByNumber(ctx, 1)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestUnitOfWork_CommitAndIsolation(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()

	tbl, err := table.NewTable(kernel.NewUUID(), 7, 2, "", now)
	require.NoError(t, err)

	uow := store.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.TableRepository().Add(ctx, tbl))
	require.NoError(t, uow.Commit(ctx))

	loaded, err := store.Create().TableRepository().GetByNumber(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, loaded.Reserve(now))
	fresh, err := store.Create().TableRepository().GetByNumber(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, table.Free, fresh.Status(), "returned aggregates are copies")

	dup := store.Create()
	require.NoError(t, dup.Begin(ctx))
	err = dup.TableRepository().Add(ctx, tbl)
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestUnitOfWork_TransactionErrors(t *testing.T) {
	ctx := t.Context()
	uow := memory.NewStore().Create()

	require.Error(t, uow.Commit(ctx))
	require.Error(t, uow.Rollback(ctx))
}

func TestSequence_IsMonotonicPerKind(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	seq := store.Create().OrderNumberSequence()

	first, err := seq.Next(ctx, order.Delivery)
	require.NoError(t, err)
	second, err := seq.Next(ctx, order.Delivery)
	require.NoError(t, err)
	other, err := seq.Next(ctx, order.Pickup)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(1), other)
}
