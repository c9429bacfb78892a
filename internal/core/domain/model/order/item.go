package order

import (
	"errors"
	"fmt"
	"strings"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"
	"restaurant/internal/pkg/guard"
)

// MaxItemQuantity bounds a single line of an order.
const MaxItemQuantity = 999

// ErrItemIsNotConstructed is returned for Item values not created by NewItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is one line of an order. The name and unit price are copied from the
// catalog when the line is added, so later catalog edits do not change the order.
type Item struct {
	id         kernel.UUID
	productRef kernel.UUID
	name       string
	quantity   int
	unitPrice  kernel.Money
	note       string

	guard guard.ConstructorGuard
}

// NewItem validates and creates an order line.
//
// Parameters:
//   - id: identifier of the line inside the order
//   - productRef: catalog product the line refers to
//   - name: product name as printed on tickets (required)
//   - quantity: between 1 and MaxItemQuantity
//   - unitPrice: non-negative price of one unit
//   - note: free-text preparation note, may be empty
func NewItem(
	id, productRef kernel.UUID,
	name string,
	quantity int,
	unitPrice kernel.Money,
	note string,
) (Item, error) {
	item := Item{
		name: strings.TrimSpace(name),
		note: strings.TrimSpace(note),
	}

	var nameErr error
	if item.name == "" {
		nameErr = errs.NewValueIsRequiredError("item name")
	}

	var quantityErr error
	if quantity < 1 || quantity > MaxItemQuantity {
		quantityErr = errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxItemQuantity)
	}

	var priceErr error
	if unitPrice.IsNegative() {
		priceErr = errs.NewValueIsInvalidErrorWithCause("unit price", fmt.Errorf("%s is negative", unitPrice))
	}

	if err := errors.Join(id.Validate(), productRef.Validate(), nameErr, quantityErr, priceErr); err != nil {
		return Item{}, err
	}

	item.id = id
	item.productRef = productRef
	item.quantity = quantity
	item.unitPrice = unitPrice
	item.guard = guard.NewConstructorGuard()
	return item, nil
}

// Validate ensures the item was created through NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i Item) ID() kernel.UUID         { return i.id }
func (i Item) ProductRef() kernel.UUID { return i.productRef }
func (i Item) Name() string            { return i.name }
func (i Item) Quantity() int           { return i.quantity }
func (i Item) UnitPrice() kernel.Money { return i.unitPrice }
func (i Item) Note() string            { return i.note }

// LineTotal returns quantity × unit price.
func (i Item) LineTotal() kernel.Money {
	return i.unitPrice.Mul(i.quantity)
}
