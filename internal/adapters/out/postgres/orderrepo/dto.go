// Package orderrepo persists order aggregates. An order is stored as one row in
// "orders" plus its lines in "order_items", ordered by position.
package orderrepo

import (
	"time"

	"restaurant/internal/core/domain/model/address"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Totals are stored for reporting queries; RestoreOrder recomputes them from the items.
type OrderDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number           *string    `gorm:"type:varchar(16);uniqueIndex:orders_number_key"`
	Kind             int        `gorm:"type:smallint;not null"`
	CustomerName     string     `gorm:"type:varchar(255);not null"`
	CustomerPhone    string     `gorm:"type:varchar(20);not null;index"`
	Address          AddressDTO `gorm:"embedded;embeddedPrefix:address_"`
	TableNumber      *int
	SubtotalCents    int64 `gorm:"not null"`
	DeliveryFeeCents int64 `gorm:"not null"`
	DiscountCents    int64 `gorm:"not null"`
	TotalCents       int64 `gorm:"not null"`
	PaymentMethod    int   `gorm:"type:smallint;not null"`
	Status           int   `gorm:"type:smallint;not null;index"`
	PrintedKitchen   bool  `gorm:"not null"`
	PrintedDelivery  bool  `gorm:"not null"`
	PrintedDineIn    bool  `gorm:"not null"`
	Notes            string
	PrepMinutes      int       `gorm:"not null"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO is the customer address embedded in the order row. All columns are
// NULL when the customer has no address.
type AddressDTO struct {
	Street      *string `gorm:"type:varchar(255)"`
	Number      *string `gorm:"type:varchar(32)"`
	Complement  *string `gorm:"type:varchar(255)"`
	District    *string `gorm:"type:varchar(255)"`
	City        *string `gorm:"type:varchar(255)"`
	State       *string `gorm:"type:varchar(8)"`
	PostalCode  *string `gorm:"type:varchar(16)"`
	Landmark    *string `gorm:"type:varchar(255)"`
	ExtractedAt *time.Time
}

// OrderItemDTO is one line of an order.
type OrderItemDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Position       int       `gorm:"not null"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null"`
	Name           string    `gorm:"type:varchar(255);not null"`
	Quantity       int       `gorm:"not null"`
	UnitPriceCents int64     `gorm:"not null"`
	Note           string
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()
	orderID := s.ID.Bytes()

	var number *string
	if s.Number != "" {
		n := s.Number
		number = &n
	}

	items := make([]OrderItemDTO, 0, len(s.Items))
	for i, item := range s.Items {
		items = append(items, OrderItemDTO{
			ID:             item.ID().Bytes(),
			OrderID:        orderID,
			Position:       i,
			ProductID:      item.ProductRef().Bytes(),
			Name:           item.Name(),
			Quantity:       item.Quantity(),
			UnitPriceCents: item.UnitPrice().Cents(),
			Note:           item.Note(),
		})
	}

	return OrderDTO{
		ID:               orderID,
		Number:           number,
		Kind:             int(s.Kind),
		CustomerName:     s.Customer.Name(),
		CustomerPhone:    s.Customer.Phone().String(),
		Address:          addressFromDomain(s.Customer.Address()),
		TableNumber:      s.TableNumber,
		SubtotalCents:    o.Subtotal().Cents(),
		DeliveryFeeCents: s.Fees.DeliveryFee.Cents(),
		DiscountCents:    s.Fees.Discount.Cents(),
		TotalCents:       o.Total().Cents(),
		PaymentMethod:    int(s.PaymentMethod),
		Status:           int(s.Status),
		PrintedKitchen:   s.PrintFlags.Kitchen,
		PrintedDelivery:  s.PrintFlags.Delivery,
		PrintedDineIn:    s.PrintFlags.DineIn,
		Notes:            s.Notes,
		PrepMinutes:      s.PrepMinutes,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
		Items:            items,
	}
}

func addressFromDomain(a *address.ExtractedAddress) AddressDTO {
	if a == nil {
		return AddressDTO{}
	}
	extractedAt := a.ExtractedAt
	return AddressDTO{
		Street:      &a.Street,
		Number:      &a.Number,
		Complement:  &a.Complement,
		District:    &a.District,
		City:        &a.City,
		State:       &a.State,
		PostalCode:  &a.PostalCode,
		Landmark:    &a.Landmark,
		ExtractedAt: &extractedAt,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customer, err := order.NewCustomer(dto.CustomerName, dto.CustomerPhone, addressToDomain(dto.Address))
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var number string
	if dto.Number != nil {
		number = *dto.Number
	}

	return order.RestoreOrder(order.Snapshot{
		ID:          id,
		Number:      number,
		Kind:        order.Kind(dto.Kind),
		Customer:    customer,
		TableNumber: dto.TableNumber,
		Items:       items,
		Fees: order.Fees{
			DeliveryFee: kernel.Cents(dto.DeliveryFeeCents),
			Discount:    kernel.Cents(dto.DiscountCents),
		},
		PaymentMethod: order.PaymentMethod(dto.PaymentMethod),
		Status:        order.Status(dto.Status),
		PrintFlags: order.PrintFlags{
			Kitchen:  dto.PrintedKitchen,
			Delivery: dto.PrintedDelivery,
			DineIn:   dto.PrintedDineIn,
		},
		Notes:       dto.Notes,
		PrepMinutes: dto.PrepMinutes,
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
	})
}

func addressToDomain(dto AddressDTO) *address.ExtractedAddress {
	if dto.Street == nil {
		return nil
	}
	a := &address.ExtractedAddress{
		Street:     deref(dto.Street),
		Number:     deref(dto.Number),
		Complement: deref(dto.Complement),
		District:   deref(dto.District),
		City:       deref(dto.City),
		State:      deref(dto.State),
		PostalCode: deref(dto.PostalCode),
		Landmark:   deref(dto.Landmark),
	}
	if dto.ExtractedAt != nil {
		a.ExtractedAt = *dto.ExtractedAt
	}
	return a
}

func itemToDomain(dto OrderItemDTO) (order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.Item{}, err
	}
	productRef, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.Item{}, err
	}
	return order.NewItem(id, productRef, dto.Name, dto.Quantity, kernel.Cents(dto.UnitPriceCents), dto.Note)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
