// Package product holds the menu catalog entry referenced by order items.
package product

import (
	"errors"
	"fmt"
	"strings"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"
)

var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")

// Category groups products on the menu.
type Category int

const (
	UnknownCategory Category = iota
	Starter
	Main
	Drink
	Dessert
	Snack
	Pizza
	Other
)

var categoryNames = map[Category]string{
	Starter: "starter",
	Main:    "main",
	Drink:   "drink",
	Dessert: "dessert",
	Snack:   "snack",
	Pizza:   "pizza",
	Other:   "other",
}

var categoryLabels = map[Category]string{
	Starter: "Entradas",
	Main:    "Pratos principais",
	Drink:   "Bebidas",
	Dessert: "Sobremesas",
	Snack:   "Lanches",
	Pizza:   "Pizzas",
	Other:   "Outros",
}

// ParseCategory converts a wire name into a Category. Empty means Other.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Other, nil
	}
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return UnknownCategory, errs.NewValueIsInvalidErrorWithCause("category", fmt.Errorf("%q is not a valid category", s))
}

func (c Category) Validate() error {
	if _, ok := categoryNames[c]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("category", fmt.Errorf("%d is not a valid category", c))
	}
	return nil
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// Label is the section title shown on the chat menu.
func (c Category) Label() string {
	return categoryLabels[c]
}

// Product is a menu entry. Order items copy its name and price when added.
type Product struct {
	id          kernel.UUID
	code        string
	name        string
	category    Category
	price       kernel.Money
	description string
	available   bool

	isConstructed bool
}

// NewProduct creates an available product. code is an optional short menu code,
// unique when present.
func NewProduct(
	id kernel.UUID,
	code, name string,
	category Category,
	price kernel.Money,
	description string,
) (*Product, error) {
	return RestoreProduct(id, code, name, category, price, description, true)
}

// RestoreProduct rebuilds a product loaded from storage.
func RestoreProduct(
	id kernel.UUID,
	code, name string,
	category Category,
	price kernel.Money,
	description string,
	available bool,
) (*Product, error) {
	p := &Product{
		code:          strings.TrimSpace(code),
		name:          strings.TrimSpace(name),
		description:   strings.TrimSpace(description),
		available:     available,
		isConstructed: true,
	}

	var nameErr, priceErr error
	if p.name == "" {
		nameErr = errs.NewValueIsRequiredError("product name")
	}
	if price.IsNegative() {
		priceErr = errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is negative", price))
	}

	if err := errors.Join(id.Validate(), category.Validate(), nameErr, priceErr); err != nil {
		return nil, err
	}
	p.id = id
	p.category = category
	p.price = price
	return p, nil
}

func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

func (p *Product) ID() kernel.UUID     { return p.id }
func (p *Product) Code() string        { return p.code }
func (p *Product) Name() string        { return p.name }
func (p *Product) Category() Category  { return p.category }
func (p *Product) Price() kernel.Money { return p.price }
func (p *Product) Description() string { return p.description }
func (p *Product) IsAvailable() bool   { return p.available }

// SetAvailable toggles whether the product can be ordered.
func (p *Product) SetAvailable(available bool) {
	p.available = available
}
