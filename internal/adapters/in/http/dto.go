package http

import (
	"time"

	"restaurant/internal/core/application/printing"
	"restaurant/internal/core/application/usecases/queries"
	"restaurant/internal/core/domain/model/address"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/product"
	"restaurant/internal/core/domain/model/table"
)

type AddressDTO struct {
	Street     string `json:"street" validate:"required"`
	Number     string `json:"number" validate:"required"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty" validate:"omitempty,len=2"`
	PostalCode string `json:"postal_code,omitempty"`
	Landmark   string `json:"landmark,omitempty"`
	Formatted  string `json:"formatted,omitempty"`
}

func (a *AddressDTO) toDomain(now time.Time) *address.ExtractedAddress {
	if a == nil {
		return nil
	}
	return &address.ExtractedAddress{
		Street:      a.Street,
		Number:      a.Number,
		Complement:  a.Complement,
		District:    a.District,
		City:        a.City,
		State:       a.State,
		PostalCode:  a.PostalCode,
		Landmark:    a.Landmark,
		ExtractedAt: now,
	}
}

func addressFromDomain(a *address.ExtractedAddress) *AddressDTO {
	if a == nil {
		return nil
	}
	return &AddressDTO{
		Street:     a.Street,
		Number:     a.Number,
		Complement: a.Complement,
		District:   a.District,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Landmark:   a.Landmark,
		Formatted:  a.Format(),
	}
}

type ItemRequestDTO struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Note      string `json:"note,omitempty" validate:"max=255"`
}

type CreateOrderRequest struct {
	Kind          string           `json:"kind" validate:"required"`
	CustomerName  string           `json:"customer_name" validate:"max=255"`
	Phone         string           `json:"phone" validate:"required"`
	Address       *AddressDTO      `json:"address,omitempty"`
	TableNumber   *int             `json:"table_number,omitempty" validate:"omitempty,min=1"`
	Staff         string           `json:"staff,omitempty"`
	Items         []ItemRequestDTO `json:"items" validate:"required,min=1,dive"`
	DeliveryFee   float64          `json:"delivery_fee" validate:"min=0"`
	Discount      float64          `json:"discount" validate:"min=0"`
	PaymentMethod string           `json:"payment_method,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type OrderItemDTO struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
	Note      string  `json:"note,omitempty"`
}

type PrintFlagsDTO struct {
	Kitchen  bool `json:"kitchen"`
	Delivery bool `json:"delivery"`
	DineIn   bool `json:"dine_in"`
}

type OrderSummaryDTO struct {
	ID            string    `json:"id"`
	Number        string    `json:"number"`
	Kind          string    `json:"kind"`
	Status        string    `json:"status"`
	CustomerName  string    `json:"customer_name"`
	Phone         string    `json:"phone"`
	TableNumber   *int      `json:"table_number,omitempty"`
	Total         float64   `json:"total"`
	PaymentMethod string    `json:"payment_method"`
	ItemCount     int       `json:"item_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type OrderDTO struct {
	OrderSummaryDTO
	Address     *AddressDTO    `json:"address,omitempty"`
	Items       []OrderItemDTO `json:"items"`
	Subtotal    float64        `json:"subtotal"`
	DeliveryFee float64        `json:"delivery_fee"`
	Discount    float64        `json:"discount"`
	Printed     PrintFlagsDTO  `json:"printed"`
	Notes       string         `json:"notes,omitempty"`
	PrepMinutes int            `json:"prep_minutes"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func orderSummaryFromView(s queries.OrderSummary) OrderSummaryDTO {
	return OrderSummaryDTO{
		ID:            s.ID.String(),
		Number:        s.Number,
		Kind:          s.Kind.String(),
		Status:        s.Status.String(),
		CustomerName:  s.CustomerName,
		Phone:         s.CustomerPhone,
		TableNumber:   s.TableNumber,
		Total:         s.Total.Float(),
		PaymentMethod: s.PaymentMethod.String(),
		ItemCount:     s.ItemCount,
		CreatedAt:     s.CreatedAt,
	}
}

func orderFromView(d queries.OrderDetails) OrderDTO {
	items := make([]OrderItemDTO, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, OrderItemDTO{
			ID:        item.ID.String(),
			ProductID: item.ProductRef.String(),
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.Float(),
			LineTotal: item.LineTotal.Float(),
			Note:      item.Note,
		})
	}
	return OrderDTO{
		OrderSummaryDTO: orderSummaryFromView(d.OrderSummary),
		Address:         addressFromDomain(d.Address),
		Items:           items,
		Subtotal:        d.Subtotal.Float(),
		DeliveryFee:     d.DeliveryFee.Float(),
		Discount:        d.Discount.Float(),
		Printed:         printFlagsFromDomain(d.PrintFlags),
		Notes:           d.Notes,
		PrepMinutes:     d.PrepMinutes,
		UpdatedAt:       d.UpdatedAt,
	}
}

func orderFromDomain(o *order.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemDTO{
			ID:        item.ID().String(),
			ProductID: item.ProductRef().String(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Float(),
			LineTotal: item.LineTotal().Float(),
			Note:      item.Note(),
		})
	}

	var tableNumber *int
	if n, ok := o.TableNumber(); ok {
		tableNumber = &n
	}

	return OrderDTO{
		OrderSummaryDTO: OrderSummaryDTO{
			ID:            o.ID().String(),
			Number:        o.Number(),
			Kind:          o.Kind().String(),
			Status:        o.Status().String(),
			CustomerName:  o.Customer().Name(),
			Phone:         o.Customer().Phone().String(),
			TableNumber:   tableNumber,
			Total:         o.Total().Float(),
			PaymentMethod: o.PaymentMethod().String(),
			ItemCount:     len(items),
			CreatedAt:     o.CreatedAt(),
		},
		Address:     addressFromDomain(o.Customer().Address()),
		Items:       items,
		Subtotal:    o.Subtotal().Float(),
		DeliveryFee: o.DeliveryFee().Float(),
		Discount:    o.Discount().Float(),
		Printed:     printFlagsFromDomain(o.PrintFlags()),
		Notes:       o.Notes(),
		PrepMinutes: o.PrepMinutes(),
		UpdatedAt:   o.UpdatedAt(),
	}
}

func printFlagsFromDomain(f order.PrintFlags) PrintFlagsDTO {
	return PrintFlagsDTO{
		Kitchen:  f.Has(order.KitchenTicket),
		Delivery: f.Has(order.DeliveryTicket),
		DineIn:   f.Has(order.DineInTicket),
	}
}

type CreateTableRequest struct {
	Number   int    `json:"number" validate:"required,min=1"`
	Capacity int    `json:"capacity" validate:"min=0"`
	Notes    string `json:"notes,omitempty"`
}

type OccupyTableRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
	Staff   string `json:"staff,omitempty" validate:"max=255"`
}

type TableDTO struct {
	ID                 string  `json:"id"`
	Number             int     `json:"number"`
	Capacity           int     `json:"capacity"`
	Status             string  `json:"status"`
	CurrentOrderID     *string `json:"current_order_id,omitempty"`
	CurrentOrderNumber string  `json:"current_order_number,omitempty"`
	AssignedStaff      string  `json:"assigned_staff,omitempty"`
	Notes              string  `json:"notes,omitempty"`
}

func tableFromView(v queries.TableView) TableDTO {
	dto := TableDTO{
		ID:                 v.ID.String(),
		Number:             v.Number,
		Capacity:           v.Capacity,
		Status:             v.Status.String(),
		CurrentOrderNumber: v.CurrentOrderNumber,
		AssignedStaff:      v.AssignedStaff,
		Notes:              v.Notes,
	}
	if v.CurrentOrderID != nil {
		id := v.CurrentOrderID.String()
		dto.CurrentOrderID = &id
	}
	return dto
}

func tableFromDomain(t *table.Table) TableDTO {
	dto := TableDTO{
		ID:            t.ID().String(),
		Number:        t.Number(),
		Capacity:      t.Capacity(),
		Status:        t.Status().String(),
		AssignedStaff: t.AssignedStaff(),
		Notes:         t.Notes(),
	}
	if id, ok := t.CurrentOrder(); ok {
		s := id.String()
		dto.CurrentOrderID = &s
	}
	return dto
}

type CreateProductRequest struct {
	Code        string  `json:"code,omitempty" validate:"max=32"`
	Name        string  `json:"name" validate:"required,max=255"`
	Category    string  `json:"category" validate:"required"`
	Price       float64 `json:"price" validate:"min=0"`
	Description string  `json:"description,omitempty"`
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type ProductDTO struct {
	ID          string  `json:"id"`
	Code        string  `json:"code,omitempty"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Available   bool    `json:"available"`
}

func productFromView(v queries.ProductView) ProductDTO {
	return ProductDTO{
		ID:          v.ID.String(),
		Code:        v.Code,
		Name:        v.Name,
		Category:    v.Category.String(),
		Price:       v.Price.Float(),
		Description: v.Description,
		Available:   v.Available,
	}
}

func productFromDomain(p *product.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID().String(),
		Code:        p.Code(),
		Name:        p.Name(),
		Category:    p.Category().String(),
		Price:       p.Price().Float(),
		Description: p.Description(),
		Available:   p.IsAvailable(),
	}
}

// ConnectPrinterRequest selects a device. An empty body uses the configured printer.
type ConnectPrinterRequest struct {
	Type      string `json:"type,omitempty" validate:"omitempty,oneof=network usb"`
	Host      string `json:"host,omitempty"`
	Port      int    `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	VendorID  string `json:"vendor_id,omitempty" validate:"omitempty,hexadecimal"`
	ProductID string `json:"product_id,omitempty" validate:"omitempty,hexadecimal"`
}

type PrinterStatusDTO struct {
	State  string `json:"state"`
	Device string `json:"device"`
}

func printerStatusFromDomain(s printing.Status) PrinterStatusDTO {
	return PrinterStatusDTO{State: s.State.String(), Device: s.Device.String()}
}

type PrintResultDTO struct {
	Printed bool     `json:"printed"`
	Order   OrderDTO `json:"order"`
}
