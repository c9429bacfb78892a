package order

import (
	"fmt"
	"regexp"

	"restaurant/internal/pkg/errs"
)

// NumberDigits is the zero-padded width of the sequence part of an order number.
const NumberDigits = 6

var numberPattern = regexp.MustCompile(`^[DMBR]\d{6,}$`)

// FormatNumber builds the order number of the seq-th order: the kind prefix
// followed by seq padded to NumberDigits digits, e.g. FormatNumber(DineIn, 42) == "M000042".
// Sequences beyond 999999 keep all their digits.
func FormatNumber(kind Kind, seq int64) (string, error) {
	if err := kind.Validate(); err != nil {
		return "", err
	}
	if seq < 1 {
		return "", errs.NewValueIsInvalidErrorWithCause("sequence", fmt.Errorf("%d is not positive", seq))
	}
	return fmt.Sprintf("%s%0*d", kind.Prefix(), NumberDigits, seq), nil
}

func validateNumber(kind Kind, number string) error {
	if !numberPattern.MatchString(number) || number[:1] != kind.Prefix() {
		return errs.NewValueIsInvalidErrorWithCause(
			"order number",
			fmt.Errorf("%q is not a valid number for a %s order", number, kind),
		)
	}
	return nil
}
