package queries

import (
	"errors"

	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/pkg/errs"
	"restaurant/internal/pkg/guard"
)

const (
	// DefaultListLimit is used when a listing does not ask for a limit.
	DefaultListLimit = 50
	// MaxListLimit bounds every listing.
	MaxListLimit = 200
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists orders, newest first, optionally narrowed to one status
// and one kind.
//
// Example:
//
//	status := order.Preparing
//	query, err := NewListOrdersQuery(&status, nil, 20)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type ListOrdersQuery struct {
	status *order.Status
	kind   *order.Kind
	limit  int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery validates the filters. A limit of 0 means DefaultListLimit.
func NewListOrdersQuery(status *order.Status, kind *order.Kind, limit int) (ListOrdersQuery, error) {
	var statusErr, kindErr, limitErr error
	if status != nil {
		statusErr = status.Validate()
	}
	if kind != nil {
		kindErr = kind.Validate()
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 1 || limit > MaxListLimit {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxListLimit)
	}
	if err := errors.Join(statusErr, kindErr, limitErr); err != nil {
		return ListOrdersQuery{}, err
	}

	return ListOrdersQuery{
		status: status,
		kind:   kind,
		limit:  limit,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Limit() int { return q.limit }
