package ports

import (
	"context"

	"restaurant/internal/core/domain/model/order"
)

// OrderNumberSequence hands out order sequence values. Next is atomic across
// processes: two concurrent callers never receive the same value for a kind.
type OrderNumberSequence interface {
	Next(ctx context.Context, kind order.Kind) (int64, error)
}
