package kernel

import (
	"fmt"
	"math"
	"strings"

	"restaurant/internal/pkg/errs"
)

// Money is an amount of Brazilian reais stored as integer cents.
//
// Integer cents keep subtotal and total computations exact: a subtotal is the sum of
// quantity times unit price with no rounding step. Money may be negative only as
// an intermediate value; callers validate the fields that must not be.
type Money int64

// Zero is the zero amount.
const Zero Money = 0

// Cents builds an amount from cents.
func Cents(c int64) Money {
	return Money(c)
}

// MoneyFromFloat converts a decimal amount (e.g. 10.5) into cents, rounding half away from zero.
// It fails for NaN, infinities and values that do not fit into int64 cents.
func MoneyFromFloat(v float64) (Money, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > float64(math.MaxInt64)/100 {
		return 0, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%v is not a finite amount", v))
	}
	return Money(math.Round(v * 100)), nil
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 {
	return int64(m)
}

// Float returns the amount as a decimal number, for JSON responses.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return m - other
}

// Mul returns m multiplied by a quantity.
func (m Money) Mul(qty int) Money {
	return m * Money(qty)
}

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool {
	return m < 0
}

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool {
	return m > 0
}

// String formats the amount the way receipts show it, e.g. "R$ 1.234,50".
func (m Money) String() string {
	sign := ""
	c := int64(m)
	if c < 0 {
		sign = "-"
		c = -c
	}
	units := fmt.Sprintf("%d", c/100)

	var b strings.Builder
	for i, r := range units {
		if i > 0 && (len(units)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), c%100)
}
