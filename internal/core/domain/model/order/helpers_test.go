package order_test

import (
	"testing"
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 19, 30, 0, 0, time.UTC)

func newItem(t *testing.T, name string, qty int, cents int64) order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), name, qty, kernel.Cents(cents), "")
	require.NoError(t, err)
	return item
}

func newCustomer(t *testing.T) order.Customer {
	t.Helper()
	c, err := order.NewCustomer("Ana", "11 99999-0000", nil)
	require.NoError(t, err)
	return c
}

func newDineInOrder(t *testing.T, table int, items ...order.Item) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), order.DineIn, newCustomer(t), &table, items,
		order.Fees{}, order.Cash, "", t0)
	require.NoError(t, err)
	return o
}

func newDeliveryOrder(t *testing.T, fees order.Fees, items ...order.Item) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), order.Delivery, newCustomer(t), nil, items,
		fees, order.Pix, "tocar campainha", t0)
	require.NoError(t, err)
	return o
}
