// Package queries contains the read use cases. Handlers read the relational store
// directly and return flat read models; they never load aggregates.
package queries

import (
	"time"

	"restaurant/internal/core/domain/model/address"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/product"
	"restaurant/internal/core/domain/model/table"
)

// OrderSummary is one row of an order listing.
type OrderSummary struct {
	ID            kernel.UUID
	Number        string
	Kind          order.Kind
	Status        order.Status
	CustomerName  string
	CustomerPhone string
	TableNumber   *int
	Total         kernel.Money
	PaymentMethod order.PaymentMethod
	ItemCount     int
	CreatedAt     time.Time
}

// OrderDetails is the complete read model of one order.
type OrderDetails struct {
	OrderSummary
	Address     *address.ExtractedAddress
	Items       []OrderItemView
	Subtotal    kernel.Money
	DeliveryFee kernel.Money
	Discount    kernel.Money
	PrintFlags  order.PrintFlags
	Notes       string
	PrepMinutes int
	UpdatedAt   time.Time
}

type OrderItemView struct {
	ID         kernel.UUID
	ProductRef kernel.UUID
	Name       string
	Quantity   int
	UnitPrice  kernel.Money
	LineTotal  kernel.Money
	Note       string
}

// TableView is a table with the number of the order occupying it, if any.
type TableView struct {
	ID                 kernel.UUID
	Number             int
	Capacity           int
	Status             table.Status
	CurrentOrderID     *kernel.UUID
	CurrentOrderNumber string
	AssignedStaff      string
	Notes              string
}

type ProductView struct {
	ID          kernel.UUID
	Code        string
	Name        string
	Category    product.Category
	Price       kernel.Money
	Description string
	Available   bool
}
