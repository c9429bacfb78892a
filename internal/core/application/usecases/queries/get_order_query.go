package queries

import (
	"errors"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
	ErrGetActiveOrderQueryIsNotConstructed = errors.New(
		"GetActiveOrderQuery must be created via NewGetActiveOrderQuery constructor",
	)
)

// GetOrderQuery retrieves one order with its items.
type GetOrderQuery struct {
	id kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(id kernel.UUID) (GetOrderQuery, error) {
	if err := id.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{id: id, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// GetActiveOrderQuery retrieves the newest non-terminal order placed from a phone.
// The chat uses it to answer "meu pedido".
type GetActiveOrderQuery struct {
	phone kernel.Phone

	guard guard.ConstructorGuard
}

func NewGetActiveOrderQuery(phone string) (GetActiveOrderQuery, error) {
	p, err := kernel.NewPhone(phone)
	if err != nil {
		return GetActiveOrderQuery{}, err
	}
	return GetActiveOrderQuery{phone: p, guard: guard.NewConstructorGuard()}, nil
}

func (q GetActiveOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrderQueryIsNotConstructed)
}
