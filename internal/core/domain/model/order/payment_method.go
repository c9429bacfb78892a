package order

import (
	"fmt"
	"strings"

	"restaurant/internal/pkg/errs"
)

// PaymentMethod is how the customer intends to pay. Settlement is out of scope,
// the value is only recorded and printed.
type PaymentMethod int

const (
	UnknownPaymentMethod PaymentMethod = iota
	Cash
	Pix
	CreditCard
	DebitCard
	MealVoucher
)

var paymentMethodNames = map[PaymentMethod]string{
	Cash:        "cash",
	Pix:         "pix",
	CreditCard:  "credit_card",
	DebitCard:   "debit_card",
	MealVoucher: "meal_voucher",
}

// ParsePaymentMethod converts a wire name into a PaymentMethod. An empty string
// yields Cash, the default.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Cash, nil
	}
	for m, name := range paymentMethodNames {
		if name == s {
			return m, nil
		}
	}
	return UnknownPaymentMethod, errs.NewValueIsInvalidErrorWithCause(
		"payment method",
		fmt.Errorf("%q is not a valid payment method", s),
	)
}

func (m PaymentMethod) Validate() error {
	if _, ok := paymentMethodNames[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment method", fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

func (m PaymentMethod) String() string {
	if name, ok := paymentMethodNames[m]; ok {
		return name
	}
	return "unknown"
}

// Label is the name printed on receipts.
func (m PaymentMethod) Label() string {
	switch m {
	case Cash:
		return "Dinheiro"
	case Pix:
		return "PIX"
	case CreditCard:
		return "Cartão de Crédito"
	case DebitCard:
		return "Cartão de Débito"
	case MealVoucher:
		return "Vale Refeição"
	case UnknownPaymentMethod:
	}
	return "-"
}
