package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"restaurant/internal/core/domain/model/address"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const orderDetailsSelect = `
	SELECT
		o.id, o.number, o.kind, o.status, o.customer_name, o.customer_phone,
		o.table_number, o.total_cents, o.payment_method, o.created_at,
		o.address_street, o.address_number, o.address_complement, o.address_district,
		o.address_city, o.address_state, o.address_postal_code, o.address_landmark,
		o.address_extracted_at,
		o.subtotal_cents, o.delivery_fee_cents, o.discount_cents,
		o.printed_kitchen, o.printed_delivery, o.printed_dine_in,
		o.notes, o.prep_minutes, o.updated_at
	FROM orders o
`

// GetOrderQueryHandler loads order details, returning ObjectNotFoundError for an
// unknown id.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderDetails, error) {
	if err := query.Validate(); err != nil {
		return OrderDetails{}, err
	}

	details, err := loadOrderDetails(ctx, h.db, orderDetailsSelect+"WHERE o.id = ?", query.id.Bytes())
	if errors.Is(err, sql.ErrNoRows) {
		return OrderDetails{}, errs.NewObjectNotFoundError("order", query.id.String())
	}
	return details, err
}

// GetActiveOrderQueryHandler loads the newest active order of a phone, returning
// ObjectNotFoundError when the customer has none.
type GetActiveOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetActiveOrderQueryHandler(db *gorm.DB) GetActiveOrderQueryHandler {
	return GetActiveOrderQueryHandler{db: db}
}

func (h GetActiveOrderQueryHandler) Handle(ctx context.Context, query GetActiveOrderQuery) (OrderDetails, error) {
	if err := query.Validate(); err != nil {
		return OrderDetails{}, err
	}

	details, err := loadOrderDetails(ctx, h.db,
		orderDetailsSelect+"WHERE o.customer_phone = ? AND o.status NOT IN (?, ?) ORDER BY o.created_at DESC LIMIT 1",
		query.phone.String(), int(order.Delivered), int(order.Canceled),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderDetails{}, errs.NewObjectNotFoundError("active order for phone", query.phone.String())
	}
	return details, err
}

// loadOrderDetails runs a single-row order statement and then loads the items.
// It returns sql.ErrNoRows when the statement matches nothing.
func loadOrderDetails(ctx context.Context, db *gorm.DB, stmt string, args ...any) (OrderDetails, error) {
	row := db.WithContext(ctx).Raw(stmt, args...).Row()

	var (
		d             OrderDetails
		id            uuid.UUID
		number        sql.NullString
		kind, status  int
		tableNumber   sql.NullInt64
		totalCents    int64
		paymentMethod int
		street        sql.NullString
		streetNumber  sql.NullString
		complement    sql.NullString
		district      sql.NullString
		city          sql.NullString
		state         sql.NullString
		postalCode    sql.NullString
		landmark      sql.NullString
		extractedAt   sql.NullTime
		subtotal      int64
		deliveryFee   int64
		discount      int64
	)
	err := row.Scan(
		&id, &number, &kind, &status, &d.CustomerName, &d.CustomerPhone,
		&tableNumber, &totalCents, &paymentMethod, &d.CreatedAt,
		&street, &streetNumber, &complement, &district,
		&city, &state, &postalCode, &landmark,
		&extractedAt,
		&subtotal, &deliveryFee, &discount,
		&d.PrintFlags.Kitchen, &d.PrintFlags.Delivery, &d.PrintFlags.DineIn,
		&d.Notes, &d.PrepMinutes, &d.UpdatedAt,
	)
	if err != nil {
		return OrderDetails{}, err
	}

	if d.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return OrderDetails{}, err
	}
	d.Number = number.String
	d.Kind = order.Kind(kind)
	d.Status = order.Status(status)
	d.TableNumber = nullableInt(tableNumber)
	d.Total = kernel.Cents(totalCents)
	d.PaymentMethod = order.PaymentMethod(paymentMethod)
	d.Subtotal = kernel.Cents(subtotal)
	d.DeliveryFee = kernel.Cents(deliveryFee)
	d.Discount = kernel.Cents(discount)

	if street.Valid {
		d.Address = &address.ExtractedAddress{
			Street:      street.String,
			Number:      streetNumber.String,
			Complement:  complement.String,
			District:    district.String,
			City:        city.String,
			State:       state.String,
			PostalCode:  postalCode.String,
			Landmark:    landmark.String,
			ExtractedAt: nullableTime(extractedAt),
		}
	}

	if d.Items, err = loadOrderItems(ctx, db, id); err != nil {
		return OrderDetails{}, err
	}
	d.ItemCount = len(d.Items)
	return d, nil
}

func loadOrderItems(ctx context.Context, db *gorm.DB, orderID uuid.UUID) ([]OrderItemView, error) {
	rows, err := db.WithContext(ctx).Raw(`
		SELECT id, product_id, name, quantity, unit_price_cents, note
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItemView, 0)
	for rows.Next() {
		var (
			item           OrderItemView
			id, productID  uuid.UUID
			unitPriceCents int64
		)
		if err = rows.Scan(&id, &productID, &item.Name, &item.Quantity, &unitPriceCents, &item.Note); err != nil {
			return nil, err
		}

		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if item.ProductRef, err = kernel.UUIDFromBytes(productID[:]); err != nil {
			return nil, err
		}
		item.UnitPrice = kernel.Cents(unitPriceCents)
		item.LineTotal = item.UnitPrice.Mul(item.Quantity)
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func nullableTime(v sql.NullTime) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return v.Time
}
