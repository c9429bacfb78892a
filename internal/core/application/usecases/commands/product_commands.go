package commands

import (
	"context"
	"errors"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/product"
	"restaurant/internal/pkg/guard"
)

var (
	ErrCreateProductCommandIsNotConstructed = errors.New(
		"CreateProductCommand must be created via NewCreateProductCommand constructor",
	)
	ErrSetProductAvailabilityCommandIsNotConstructed = errors.New(
		"SetProductAvailabilityCommand must be created via NewSetProductAvailabilityCommand constructor",
	)
)

// CreateProductCommand adds a product to the catalog. The product itself is built
// and validated by the constructor.
type CreateProductCommand struct {
	product *product.Product

	guard guard.ConstructorGuard
}

func NewCreateProductCommand(
	id kernel.UUID,
	code, name string,
	category product.Category,
	price kernel.Money,
	description string,
) (CreateProductCommand, error) {
	p, err := product.NewProduct(id, code, name, category, price, description)
	if err != nil {
		return CreateProductCommand{}, err
	}
	return CreateProductCommand{product: p, guard: guard.NewConstructorGuard()}, nil
}

func (c CreateProductCommand) Validate() error {
	return c.guard.Validate(ErrCreateProductCommandIsNotConstructed)
}

// SetProductAvailabilityCommand takes a product on or off the menu.
type SetProductAvailabilityCommand struct {
	id        kernel.UUID
	available bool

	guard guard.ConstructorGuard
}

func NewSetProductAvailabilityCommand(id kernel.UUID, available bool) (SetProductAvailabilityCommand, error) {
	if err := id.Validate(); err != nil {
		return SetProductAvailabilityCommand{}, err
	}
	return SetProductAvailabilityCommand{id: id, available: available, guard: guard.NewConstructorGuard()}, nil
}

func (c SetProductAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetProductAvailabilityCommandIsNotConstructed)
}

// ProductCommandHandler maintains the catalog.
type ProductCommandHandler struct {
	uowFactory ProductUoWFactory
}

func NewProductCommandHandler(uowFactory ProductUoWFactory) ProductCommandHandler {
	return ProductCommandHandler{uowFactory: uowFactory}
}

// HandleCreate stores a new product. A duplicate code is a ConflictError.
func (h ProductCommandHandler) HandleCreate(ctx context.Context, cmd CreateProductCommand) (*product.Product, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.ProductRepository().Add(ctx, cmd.product); err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return cmd.product, nil
}

// HandleSetAvailability updates the availability flag of an existing product.
func (h ProductCommandHandler) HandleSetAvailability(
	ctx context.Context,
	cmd SetProductAvailabilityCommand,
) (*product.Product, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.ProductRepository().Get(ctx, cmd.id)
	if err != nil {
		return nil, err
	}
	p.SetAvailable(cmd.available)

	if err = uow.ProductRepository().Update(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return p, nil
}
