package orderrepo

import (
	"context"
	"errors"

	"restaurant/internal/adapters/out/postgres/pgerr"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// activeStatuses are the non-terminal statuses, stored as their integer values.
var activeStatuses = []int{int(order.Pending), int(order.Confirmed), int(order.Preparing), int(order.Ready)}

// printedColumns maps a ticket kind to its print flag column.
var printedColumns = map[order.TicketKind]string{
	order.KitchenTicket:  "printed_kitchen",
	order.DeliveryTicket: "printed_delivery",
	order.DineInTicket:   "printed_dine_in",
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new numbered order and its items.
// A number that is already taken is a ConflictError.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if !aggregate.HasNumber() {
		return errs.NewValueIsRequiredError("order number")
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err, "orders_number_key") {
			return errs.NewConflictError("order "+aggregate.Number(), "number is already taken")
		}
		if pgerr.IsUniqueViolation(err, "") {
			return errs.NewConflictError("order "+aggregate.ID().String(), "already exists")
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order and replaces its item list.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id", "created_at", "Items").
		Updates(&dto)
	if result.Error != nil {
		if pgerr.IsUniqueViolation(result.Error, "orders_number_key") {
			return errs.NewConflictError("order "+aggregate.Number(), "number is already taken")
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	if err := db.Where("order_id = ?", dto.ID).Delete(&OrderItemDTO{}).Error; err != nil {
		return err
	}
	if err := db.Create(&dto.Items).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.withItems(ctx), id)
}

// GetForUpdate retrieves an order by ID and holds a row lock on it until the
// transaction ends.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.withItems(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// GetActiveByPhone retrieves the newest non-terminal order placed from phone.
func (r *GormOrderRepository) GetActiveByPhone(ctx context.Context, phone kernel.Phone) (*order.Order, error) {
	if phone.IsEmpty() {
		return nil, errs.NewValueIsRequiredError("phone")
	}

	var dto OrderDTO
	err := r.withItems(ctx).
		Where("customer_phone = ? AND status IN ?", phone.String(), activeStatuses).
		Order("created_at DESC").
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("active order for phone", phone.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListUnprinted retrieves active orders, oldest first, whose ticket of kind was not
// printed yet. A limit of 0 or less returns all of them.
func (r *GormOrderRepository) ListUnprinted(ctx context.Context, kind order.TicketKind, limit int) ([]*order.Order, error) {
	column, ok := printedColumns[kind]
	if !ok {
		return nil, kind.Validate()
	}

	query := r.withItems(ctx).
		Where(column+" = ?", false).
		Where("status IN ?", activeStatuses).
		Order("created_at")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []OrderDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func (r *GormOrderRepository) first(db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
