package queries

import (
	"context"
	"database/sql"
	"fmt"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/product"
	"restaurant/internal/core/domain/model/table"
	"restaurant/internal/pkg/errs"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func tablesSelect() sq.SelectBuilder {
	return sq.Select(
		"t.id",
		"t.number",
		"t.capacity",
		"t.status",
		"t.current_order_id",
		"o.number",
		"t.assigned_staff",
		"t.notes",
	).
		From("dining_tables t").
		LeftJoin("orders o ON o.id = t.current_order_id")
}

type ListTablesQueryHandler struct {
	db *gorm.DB
}

func NewListTablesQueryHandler(db *gorm.DB) ListTablesQueryHandler {
	return ListTablesQueryHandler{db: db}
}

func (h ListTablesQueryHandler) Handle(ctx context.Context, query ListTablesQuery) ([]TableView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	builder := tablesSelect().OrderBy("t.number")
	if query.freeOnly {
		builder = builder.Where(sq.Eq{"t.status": int(table.Free)})
	}
	return scanTables(ctx, h.db, builder)
}

type GetTableQueryHandler struct {
	db *gorm.DB
}

func NewGetTableQueryHandler(db *gorm.DB) GetTableQueryHandler {
	return GetTableQueryHandler{db: db}
}

func (h GetTableQueryHandler) Handle(ctx context.Context, query GetTableQuery) (TableView, error) {
	if err := query.Validate(); err != nil {
		return TableView{}, err
	}

	tables, err := scanTables(ctx, h.db, tablesSelect().Where(sq.Eq{"t.number": query.number}))
	if err != nil {
		return TableView{}, err
	}
	if len(tables) == 0 {
		return TableView{}, errs.NewObjectNotFoundError("table", query.number)
	}
	return tables[0], nil
}

func scanTables(ctx context.Context, db *gorm.DB, builder sq.SelectBuilder) ([]TableView, error) {
	stmt, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build table listing: %w", err)
	}

	rows, err := db.WithContext(ctx).Raw(stmt, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]TableView, 0)
	for rows.Next() {
		var (
			view        TableView
			id          uuid.UUID
			status      int
			orderID     uuid.NullUUID
			orderNumber sql.NullString
		)
		err = rows.Scan(
			&id,
			&view.Number,
			&view.Capacity,
			&status,
			&orderID,
			&orderNumber,
			&view.AssignedStaff,
			&view.Notes,
		)
		if err != nil {
			return nil, err
		}

		if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		view.Status = table.Status(status)
		if orderID.Valid {
			current, err := kernel.UUIDFromBytes(orderID.UUID[:])
			if err != nil {
				return nil, err
			}
			view.CurrentOrderID = &current
		}
		view.CurrentOrderNumber = orderNumber.String
		tables = append(tables, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}

type ListProductsQueryHandler struct {
	db *gorm.DB
}

func NewListProductsQueryHandler(db *gorm.DB) ListProductsQueryHandler {
	return ListProductsQueryHandler{db: db}
}

func (h ListProductsQueryHandler) Handle(ctx context.Context, query ListProductsQuery) ([]ProductView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	builder := sq.Select("id", "code", "name", "category", "price_cents", "description", "available").
		From("products").
		OrderBy("category", "name")
	if query.availableOnly {
		builder = builder.Where(sq.Eq{"available": true})
	}

	stmt, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product listing: %w", err)
	}

	rows, err := h.db.WithContext(ctx).Raw(stmt, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]ProductView, 0)
	for rows.Next() {
		var (
			view       ProductView
			id         uuid.UUID
			code       sql.NullString
			category   int
			priceCents int64
		)
		err = rows.Scan(&id, &code, &view.Name, &category, &priceCents, &view.Description, &view.Available)
		if err != nil {
			return nil, err
		}

		if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		view.Code = code.String
		view.Category = product.Category(category)
		view.Price = kernel.Cents(priceCents)
		products = append(products, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
