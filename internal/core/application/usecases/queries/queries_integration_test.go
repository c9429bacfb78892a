package queries_test

import (
	"context"
	"testing"
	"time"

	"restaurant/internal/adapters/out/postgres/orderrepo"
	"restaurant/internal/adapters/out/postgres/pgtest"
	"restaurant/internal/adapters/out/postgres/productrepo"
	"restaurant/internal/adapters/out/postgres/tablerepo"
	"restaurant/internal/core/application/usecases/queries"
	"restaurant/internal/core/domain/model/address"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/product"
	"restaurant/internal/core/domain/model/table"
	"restaurant/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type noTracking struct{}

func (noTracking) TrackAggregate(kernel.UUID, any) {}

// QueriesIntegrationTestSuite seeds PostgreSQL through the repositories and reads
// it back through the query handlers.
type QueriesIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	orders   *orderrepo.GormOrderRepository
	tables   *tablerepo.GormTableRepository
	products *productrepo.GormProductRepository
	sequence int64
}

func (suite *QueriesIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.orders = orderrepo.NewGormOrderRepository(database.DB, noTracking{})
	suite.tables = tablerepo.NewGormTableRepository(database.DB, noTracking{})
	suite.products = productrepo.NewGormProductRepository(database.DB, noTracking{})
}

func (suite *QueriesIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
}

func (suite *QueriesIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *QueriesIntegrationTestSuite) TestListOrders_FiltersAndOrdering() {
	ctx := suite.T().Context()
	pickup := suite.addOrder(order.Pickup, "11911111111", nil, nil)
	delivery := suite.addOrder(order.Delivery, "11922222222", suite.address(), nil)
	preparing := suite.addOrder(order.Pickup, "11933333333", nil, func(o *order.Order) {
		suite.Require().NoError(o.TransitionStatus(order.Preparing, o.CreatedAt()))
	})

	handler := queries.NewListOrdersQueryHandler(suite.database.DB)

	suite.Run("all, newest first", func() {
		query, err := queries.NewListOrdersQuery(nil, nil, 0)
		suite.Require().NoError(err)

		got, err := handler.Handle(ctx, query)
		suite.Require().NoError(err)
		suite.Require().Len(got, 3)
		suite.Equal(preparing.ID(), got[0].ID)
		suite.Equal(delivery.ID(), got[1].ID)
		suite.Equal(pickup.ID(), got[2].ID)
		suite.Equal(2, got[1].ItemCount)
		suite.Equal(delivery.Number(), got[1].Number)
		suite.Equal(kernel.Cents(3000), got[1].Total)
		suite.Nil(got[1].TableNumber)
	})

	suite.Run("by status", func() {
		status := order.Preparing
		query, err := queries.NewListOrdersQuery(&status, nil, 0)
		suite.Require().NoError(err)

		got, err := handler.Handle(ctx, query)
		suite.Require().NoError(err)
		suite.Require().Len(got, 1)
		suite.Equal(preparing.ID(), got[0].ID)
	})

	suite.Run("by kind with limit", func() {
		kind := order.Pickup
		query, err := queries.NewListOrdersQuery(nil, &kind, 1)
		suite.Require().NoError(err)

		got, err := handler.Handle(ctx, query)
		suite.Require().NoError(err)
		suite.Require().Len(got, 1)
		suite.Equal(preparing.ID(), got[0].ID)
	})

	suite.Run("empty result is not nil", func() {
		status := order.Delivered
		query, err := queries.NewListOrdersQuery(&status, nil, 0)
		suite.Require().NoError(err)

		got, err := handler.Handle(ctx, query)
		suite.Require().NoError(err)
		suite.NotNil(got)
		suite.Empty(got)
	})
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder() {
	ctx := suite.T().Context()
	o := suite.addOrder(order.Delivery, "11922222222", suite.address(), nil)
	handler := queries.NewGetOrderQueryHandler(suite.database.DB)

	query, err := queries.NewGetOrderQuery(o.ID())
	suite.Require().NoError(err)
	got, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(o.Number(), got.Number)
	suite.Equal(order.Delivery, got.Kind)
	suite.Equal(order.Pending, got.Status)
	suite.Equal("Ana", got.CustomerName)
	suite.Equal("11922222222", got.CustomerPhone)
	suite.Require().NotNil(got.Address)
	suite.Equal("Rua das Flores", got.Address.Street)
	suite.Equal("123", got.Address.Number)
	suite.Equal(kernel.Cents(2500), got.Subtotal)
	suite.Equal(kernel.Cents(500), got.DeliveryFee)
	suite.Equal(kernel.Cents(3000), got.Total)
	suite.Equal(order.DefaultPrepMinutes, got.PrepMinutes)
	suite.Require().Len(got.Items, 2)
	suite.Equal("Feijoada", got.Items[0].Name)
	suite.Equal(kernel.Cents(2000), got.Items[0].LineTotal)
	suite.Equal("sem gelo", got.Items[1].Note)
	suite.Equal(2, got.ItemCount)

	missing, err := queries.NewGetOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, missing)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestGetActiveOrder() {
	ctx := suite.T().Context()
	suite.addOrder(order.Pickup, "11977776666", nil, nil)
	newest := suite.addOrder(order.Pickup, "11977776666", nil, nil)
	suite.addOrder(order.Pickup, "11977776666", nil, func(o *order.Order) {
		suite.Require().NoError(o.Cancel(o.CreatedAt()))
	})
	handler := queries.NewGetActiveOrderQueryHandler(suite.database.DB)

	query, err := queries.NewGetActiveOrderQuery("(11) 97777-6666")
	suite.Require().NoError(err)
	got, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(newest.ID(), got.ID)
	suite.Nil(got.Address)

	stranger, err := queries.NewGetActiveOrderQuery("11900000000")
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, stranger)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestTables() {
	ctx := suite.T().Context()
	now := time.Now()

	two := suite.addTable(2)
	suite.addTable(1)
	reserved := suite.addTable(3)
	suite.Require().NoError(reserved.Reserve(now))
	suite.Require().NoError(suite.tables.Update(ctx, reserved))

	tableNumber := 2
	o := suite.addOrder(order.DineIn, "11955554444", nil, nil, &tableNumber)
	suite.Require().NoError(two.Occupy(o.ID(), "Bia", now))
	suite.Require().NoError(suite.tables.Update(ctx, two))

	list := queries.NewListTablesQueryHandler(suite.database.DB)

	all, err := list.Handle(ctx, queries.NewListTablesQuery(false))
	suite.Require().NoError(err)
	suite.Require().Len(all, 3)
	suite.Equal([]int{1, 2, 3}, []int{all[0].Number, all[1].Number, all[2].Number})
	suite.Equal(table.Occupied, all[1].Status)
	suite.Require().NotNil(all[1].CurrentOrderID)
	suite.Equal(o.ID(), *all[1].CurrentOrderID)
	suite.Equal(o.Number(), all[1].CurrentOrderNumber)
	suite.Equal("Bia", all[1].AssignedStaff)
	suite.Nil(all[0].CurrentOrderID)

	free, err := list.Handle(ctx, queries.NewListTablesQuery(true))
	suite.Require().NoError(err)
	suite.Require().Len(free, 1)
	suite.Equal(1, free[0].Number)

	get := queries.NewGetTableQueryHandler(suite.database.DB)
	query, err := queries.NewGetTableQuery(3)
	suite.Require().NoError(err)
	got, err := get.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(table.Reserved, got.Status)
	suite.Equal(table.DefaultCapacity, got.Capacity)

	missing, err := queries.NewGetTableQuery(99)
	suite.Require().NoError(err)
	_, err = get.Handle(ctx, missing)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestListProducts() {
	ctx := suite.T().Context()
	suite.addProduct("P1", "Suco", product.Drink, 500, true)
	suite.addProduct("", "Feijoada", product.Main, 3500, true)
	suite.addProduct("M2", "Bife", product.Main, 4000, false)

	handler := queries.NewListProductsQueryHandler(suite.database.DB)

	all, err := handler.Handle(ctx, queries.NewListProductsQuery(false))
	suite.Require().NoError(err)
	suite.Require().Len(all, 3)
	suite.Equal("Bife", all[0].Name)
	suite.Equal("Feijoada", all[1].Name)
	suite.Equal("", all[1].Code)
	suite.Equal("Suco", all[2].Name)
	suite.Equal(kernel.Cents(500), all[2].Price)

	available, err := handler.Handle(ctx, queries.NewListProductsQuery(true))
	suite.Require().NoError(err)
	suite.Require().Len(available, 2)
	suite.Equal("Feijoada", available[0].Name)
	suite.True(available[0].Available)
}

func (suite *QueriesIntegrationTestSuite) address() *address.ExtractedAddress {
	return &address.ExtractedAddress{
		Street:   "Rua das Flores",
		Number:   "123",
		District: "Centro",
		City:     "São Paulo",
		State:    "SP",
	}
}

// addOrder stores a numbered order. Creation times are spaced one minute apart.
func (suite *QueriesIntegrationTestSuite) addOrder(
	kind order.Kind,
	phone string,
	addr *address.ExtractedAddress,
	mutate func(o *order.Order),
	tableNumber ...*int,
) *order.Order {
	customer, err := order.NewCustomer("Ana", phone, addr)
	suite.Require().NoError(err)

	var fees order.Fees
	if kind == order.Delivery {
		fees.DeliveryFee = kernel.Cents(500)
	}
	var tbl *int
	if len(tableNumber) > 0 {
		tbl = tableNumber[0]
	}

	suite.sequence++
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(suite.sequence) * time.Minute)
	o, err := order.NewOrder(
		kernel.NewUUID(),
		kind,
		customer,
		tbl,
		[]order.Item{suite.item("Feijoada", 2, 1000, ""), suite.item("Suco", 1, 500, "sem gelo")},
		fees,
		order.Pix,
		"",
		createdAt,
	)
	suite.Require().NoError(err)

	number, err := order.FormatNumber(kind, suite.sequence)
	suite.Require().NoError(err)
	suite.Require().NoError(o.AssignNumber(number))
	if mutate != nil {
		mutate(o)
	}

	suite.Require().NoError(suite.orders.Add(suite.T().Context(), o))
	return o
}

func (suite *QueriesIntegrationTestSuite) item(name string, qty int, cents int64, note string) order.Item {
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), name, qty, kernel.Cents(cents), note)
	suite.Require().NoError(err)
	return item
}

func (suite *QueriesIntegrationTestSuite) addTable(number int) *table.Table {
	t, err := table.NewTable(kernel.NewUUID(), number, table.DefaultCapacity, "", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.tables.Add(suite.T().Context(), t))
	return t
}

func (suite *QueriesIntegrationTestSuite) addProduct(code, name string, category product.Category, cents int64, available bool) {
	p, err := product.RestoreProduct(kernel.NewUUID(), code, name, category, kernel.Cents(cents), "", available)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.products.Add(suite.T().Context(), p))
}

func TestQueriesIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueriesIntegrationTestSuite))
}
