package kernel

import (
	"fmt"
	"strings"

	"restaurant/internal/pkg/errs"
)

const (
	minPhoneDigits = 8
	maxPhoneDigits = 15
)

// Phone is a customer phone number reduced to its digits, so "+55 (11) 99999-0000"
// and "5511999990000" compare equal.
type Phone struct {
	digits string
}

// NewPhone normalizes raw and checks that it holds a plausible number of digits.
func NewPhone(raw string) (Phone, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Phone{}, errs.NewValueIsRequiredError("phone")
	}

	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return Phone{}, errs.NewValueIsInvalidErrorWithCause(
			"phone",
			fmt.Errorf("%q must contain between %d and %d digits", raw, minPhoneDigits, maxPhoneDigits),
		)
	}
	return Phone{digits: digits}, nil
}

// String returns the digits.
func (p Phone) String() string {
	return p.digits
}

// IsEmpty reports whether p is the zero value.
func (p Phone) IsEmpty() bool {
	return p.digits == ""
}

// IsEqual compares two phones by digits.
func (p Phone) IsEqual(other Phone) bool {
	return p.digits == other.digits
}
