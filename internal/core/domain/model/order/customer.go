package order

import (
	"errors"
	"strings"

	"restaurant/internal/core/domain/model/address"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"
	"restaurant/internal/pkg/guard"
)

var (
	// ErrCustomerIsNotConstructed is returned for Customer values not created by NewCustomer.
	ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")

	// ErrAddressIsIncomplete is returned for an address without street or number.
	ErrAddressIsIncomplete = errs.NewValueIsInvalidErrorWithCause("address", errors.New("street and number are required"))
)

// Customer identifies who placed an order. Only the phone is mandatory.
type Customer struct {
	name    string
	phone   kernel.Phone
	address *address.ExtractedAddress

	guard guard.ConstructorGuard
}

// NewCustomer creates a customer. addr may be nil; when given it must hold a
// street and a number.
func NewCustomer(name, phone string, addr *address.ExtractedAddress) (Customer, error) {
	p, err := kernel.NewPhone(phone)
	if err != nil {
		return Customer{}, err
	}

	c := Customer{
		name:  strings.TrimSpace(name),
		phone: p,
		guard: guard.NewConstructorGuard(),
	}
	if addr != nil {
		if !addr.IsValid() {
			return Customer{}, ErrAddressIsIncomplete
		}
		copied := *addr
		c.address = &copied
	}
	return c, nil
}

func (c Customer) Validate() error {
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}

func (c Customer) Name() string        { return c.name }
func (c Customer) Phone() kernel.Phone { return c.phone }

// Address returns a copy of the customer's address, or nil.
func (c Customer) Address() *address.ExtractedAddress {
	if c.address == nil {
		return nil
	}
	copied := *c.address
	return &copied
}

// DisplayName returns the name, or the phone when no name is known.
func (c Customer) DisplayName() string {
	if c.name != "" {
		return c.name
	}
	return c.phone.String()
}
