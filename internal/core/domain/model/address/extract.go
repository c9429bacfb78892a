package address

import (
	"regexp"
	"strings"
	"time"
)

// Street and complement keep their keyword ("Rua das Flores", "apto 12"), the other
// fields keep only the value following the label.
var (
	streetPattern     = regexp.MustCompile(`(?i)\b(?:rua|avenida|av\.?|alameda|praça|travessa|estrada|rodovia)\s+[^,\n]+`)
	complementPattern = regexp.MustCompile(`(?i)\b(?:apartamento|apto|apt|bloco|bl|sala|andar)\b\.?\s*[^,\n]+`)

	numberPattern     = regexp.MustCompile(`(?i)(?:\b(?:número|numero|núm|num|nº|n°)|#)\s*:?\s*(\d+[a-z]?)\b`)
	districtPattern   = regexp.MustCompile(`(?i)\b(?:bairro\b|b\.)\s*:?\s*([^,\n]+)`)
	cityPattern       = regexp.MustCompile(`(?i)\b(?:cidade|munic[íi]pio)\s*:?\s*([^,\n]+)`)
	statePattern      = regexp.MustCompile(`(?i)\b(?:estado|uf)\b\s*:?\s*([a-z]{2})\b`)
	postalCodePattern = regexp.MustCompile(`(?i)\b(?:cep|c\.e\.p\.?)\s*:?\s*(\d{5}-?\d{3})\b`)
	landmarkPattern   = regexp.MustCompile(`(?i)\b(?:referência|referencia|ref\b|próximo|proximo|perto de|perto)\s*:?\s*([^,\n]+)`)

	freeFormNoise  = regexp.MustCompile(`[^\p{L}\p{N}_\s,.-]`)
	freeFormSpaces = regexp.MustCompile(`\s+`)
	leadingNumeral = regexp.MustCompile(`(?i)^(\d+[a-z]?)\b`)
)

// Extract looks for an address in text. The second result is false when no valid
// address (street and number) could be identified.
//
// Example:
//
//	addr, ok := address.Extract("Rua das Flores, 123, Centro, São Paulo", time.Now())
//	// ok == true, addr.Street == "Rua das Flores", addr.City == "São Paulo"
func Extract(text string, now time.Time) (ExtractedAddress, bool) {
	if strings.TrimSpace(text) == "" {
		return ExtractedAddress{}, false
	}

	addr, labeled := extractLabeled(text)
	if !labeled {
		addr = extractFreeForm(text)
	}
	if !addr.IsValid() {
		return ExtractedAddress{}, false
	}

	addr.ExtractedAt = now
	return addr, true
}

// extractLabeled applies every field pattern. The second result reports whether any
// explicitly labeled field matched: a street type word alone ("Rua ...") does not turn
// a comma-separated address into a labeled one.
func extractLabeled(text string) (ExtractedAddress, bool) {
	var addr ExtractedAddress

	addr.Street = strings.TrimSpace(streetPattern.FindString(text))

	labels := []struct {
		pattern *regexp.Regexp
		target  *string
		whole   bool
	}{
		{numberPattern, &addr.Number, false},
		{complementPattern, &addr.Complement, true},
		{districtPattern, &addr.District, false},
		{cityPattern, &addr.City, false},
		{statePattern, &addr.State, false},
		{postalCodePattern, &addr.PostalCode, false},
		{landmarkPattern, &addr.Landmark, false},
	}

	labeled := false
	for _, l := range labels {
		m := l.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := m[0]
		if !l.whole {
			value = m[1]
		}
		if value = strings.TrimSpace(value); value == "" {
			continue
		}
		*l.target = value
		labeled = true
	}
	addr.State = strings.ToUpper(addr.State)

	return addr, labeled
}

func extractFreeForm(text string) ExtractedAddress {
	normalized := freeFormNoise.ReplaceAllString(text, " ")
	normalized = strings.TrimSpace(freeFormSpaces.ReplaceAllString(normalized, " "))

	parts := strings.Split(normalized, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	var addr ExtractedAddress
	if len(parts) < 2 {
		return addr
	}

	addr.Street = parts[0]

	if parts[1] != "" {
		if m := leadingNumeral.FindStringSubmatch(parts[1]); m != nil {
			addr.Number = m[1]
		} else {
			addr.District = parts[1]
		}
	}

	if len(parts) > 2 && parts[2] != "" {
		if addr.District == "" {
			addr.District = parts[2]
		} else {
			addr.City = parts[2]
		}
	}

	if len(parts) > 3 && parts[3] != "" {
		if addr.City == "" {
			addr.City = parts[3]
		} else {
			addr.State = strings.ToUpper(firstRunes(parts[3], 2))
		}
	}

	return addr
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
