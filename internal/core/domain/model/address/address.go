package address

import (
	"strings"
	"time"
)

// ExtractedAddress is a snapshot of an address found in a conversation.
// A later valid extraction replaces it as a whole.
type ExtractedAddress struct {
	Street      string
	Number      string
	Complement  string
	District    string
	City        string
	State       string
	PostalCode  string
	Landmark    string
	ExtractedAt time.Time
}

// IsValid reports whether street and number are both present.
func (a ExtractedAddress) IsValid() bool {
	return strings.TrimSpace(a.Street) != "" && strings.TrimSpace(a.Number) != ""
}

// Format renders the address on one line, plus a landmark line when known:
//
//	Rua das Flores, 123, apto 12 - Centro, São Paulo/SP - CEP: 01001-000
//	Referência: perto da padaria
//
// An invalid address formats as an empty string.
func (a ExtractedAddress) Format() string {
	if !a.IsValid() {
		return ""
	}

	var b strings.Builder
	b.WriteString(a.Street)
	b.WriteString(", ")
	b.WriteString(a.Number)
	if a.Complement != "" {
		b.WriteString(", " + a.Complement)
	}
	if a.District != "" {
		b.WriteString(" - " + a.District)
	}
	if a.City != "" {
		b.WriteString(", " + a.City)
	}
	if a.State != "" {
		b.WriteString("/" + a.State)
	}
	if a.PostalCode != "" {
		b.WriteString(" - CEP: " + a.PostalCode)
	}
	if a.Landmark != "" {
		b.WriteString("\nReferência: " + a.Landmark)
	}
	return b.String()
}
