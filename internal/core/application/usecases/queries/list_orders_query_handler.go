package queries

import (
	"context"
	"database/sql"
	"fmt"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler builds the filtered listing with squirrel and runs it
// through the gorm connection.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle returns at most query.Limit() orders. The result is never nil.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	builder := sq.Select(
		"o.id",
		"o.number",
		"o.kind",
		"o.status",
		"o.customer_name",
		"o.customer_phone",
		"o.table_number",
		"o.total_cents",
		"o.payment_method",
		"o.created_at",
		"(SELECT count(*) FROM order_items i WHERE i.order_id = o.id) AS item_count",
	).
		From("orders o").
		OrderBy("o.created_at DESC", "o.id").
		Limit(uint64(query.limit))

	if query.status != nil {
		builder = builder.Where(sq.Eq{"o.status": int(*query.status)})
	}
	if query.kind != nil {
		builder = builder.Where(sq.Eq{"o.kind": int(*query.kind)})
	}

	stmt, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build order listing: %w", err)
	}

	rows, err := h.db.WithContext(ctx).Raw(stmt, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]OrderSummary, 0)
	for rows.Next() {
		var (
			summary       OrderSummary
			id            uuid.UUID
			number        sql.NullString
			kind, status  int
			tableNumber   sql.NullInt64
			totalCents    int64
			paymentMethod int
		)

		err = rows.Scan(
			&id,
			&number,
			&kind,
			&status,
			&summary.CustomerName,
			&summary.CustomerPhone,
			&tableNumber,
			&totalCents,
			&paymentMethod,
			&summary.CreatedAt,
			&summary.ItemCount,
		)
		if err != nil {
			return nil, err
		}

		if summary.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		summary.Number = number.String
		summary.Kind = order.Kind(kind)
		summary.Status = order.Status(status)
		summary.TableNumber = nullableInt(tableNumber)
		summary.Total = kernel.Cents(totalCents)
		summary.PaymentMethod = order.PaymentMethod(paymentMethod)
		orders = append(orders, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
