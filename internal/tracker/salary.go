package tracker

import (
	"strings"
	"unicode"
)

// currencyCodes are the three-letter codes recognized as whole-word tokens
// inside a salary expectation string.
var currencyCodes = []string{
	"USD", "EUR", "GBP", "TRY", "CAD", "AUD", "CHF", "JPY", "CNY", "INR",
	"SEK", "NOK", "DKK", "PLN", "CZK", "HUF", "RON", "BRL", "MXN", "SGD",
	"HKD", "NZD", "ZAR", "AED", "SAR",
}

// DefaultCurrency is used when no currency can be inferred from the input
// and the caller configures nothing else.
const DefaultCurrency = "USD"

// SalaryExpectation is the parsed form of the single-string salary field:
// a currency code plus a plain-digit amount. The amount stays a string so
// "120000" survives a parse/format round-trip untouched.
type SalaryExpectation struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

// ParseSalaryExpectation reconstructs (currency, amount) from the stored
// string. Currency resolution order: a whole-word three-letter code, then a
// "$" glyph meaning USD, then a "tl"/"try" substring meaning TRY, then the
// configured default. The amount is the first maximal numeric token with
// thousands-separator commas stripped; no numeric token yields an empty
// amount.
func ParseSalaryExpectation(raw, defaultCurrency string) SalaryExpectation {
	if defaultCurrency == "" {
		defaultCurrency = DefaultCurrency
	}
	return SalaryExpectation{
		Currency: extractCurrency(raw, defaultCurrency),
		Amount:   extractAmount(raw),
	}
}

// FormatSalaryExpectation renders "<currency> <amount>", or an empty string
// when the amount is empty.
func FormatSalaryExpectation(currency, amount string) string {
	if amount == "" {
		return ""
	}
	return currency + " " + amount
}

func extractCurrency(raw, fallback string) string {
	if raw == "" {
		return fallback
	}

	for _, token := range strings.FieldsFunc(strings.ToUpper(raw), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		for _, code := range currencyCodes {
			if token == code {
				return code
			}
		}
	}

	if strings.Contains(raw, "$") {
		return "USD"
	}
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "tl") || strings.Contains(lower, "try") {
		return "TRY"
	}
	return fallback
}

// extractAmount finds the first maximal run of digits, commas and periods
// that starts with a digit, then strips the commas.
func extractAmount(raw string) string {
	start := -1
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	end := start
	for end < len(raw) {
		c := raw[end]
		if (c >= '0' && c <= '9') || c == ',' || c == '.' {
			end++
			continue
		}
		break
	}

	return strings.ReplaceAll(raw[start:end], ",", "")
}
