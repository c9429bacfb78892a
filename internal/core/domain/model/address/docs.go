// Package address turns free chat text into a structured postal address.
//
// Extraction is a best-effort heuristic with two passes:
//
//  1. Labeled pass. Each field has its own case-insensitive "keyword, optional separator,
//     value" pattern ("nº 123", "bairro: Centro", "CEP 01001-000", ...). Fields are found
//     independently of their order in the text.
//  2. Free-form pass. Only when no labeled field was found, the text is read as a
//     comma-separated "street, number, district, city" sequence.
//
// An address is only returned when both street and number are known. Ambiguous text
// yields no address instead of a guess, and malformed input never produces an error.
package address
