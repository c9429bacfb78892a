package ports

import (
	"context"

	"restaurant/internal/core/domain/model/order"
)

// OrderEventPublisher notifies the fulfillment channel about order changes.
// Publishing happens after commit; a failure never undoes the change.
type OrderEventPublisher interface {
	OrderCreated(ctx context.Context, o *order.Order) error
	OrderStatusChanged(ctx context.Context, o *order.Order) error
}
