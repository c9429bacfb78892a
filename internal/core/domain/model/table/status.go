package table

import (
	"fmt"
	"strings"

	"restaurant/internal/pkg/errs"
)

// Status is the occupancy state of a table.
type Status int

const (
	UnknownStatus Status = iota
	Free
	Occupied
	Reserved
	Maintenance
)

var statusNames = map[Status]string{
	Free:        "free",
	Occupied:    "occupied",
	Reserved:    "reserved",
	Maintenance: "maintenance",
}

func ParseStatus(s string) (Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return UnknownStatus, errs.NewValueIsInvalidErrorWithCause("table status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("table status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}
