package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSalaryExpectation(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantCurrency string
		wantAmount   string
	}{
		{
			name:         "explicit code and amount",
			raw:          "USD 120000",
			wantCurrency: "USD",
			wantAmount:   "120000",
		},
		{
			name:         "code embedded mid-string",
			raw:          "around 95,000 EUR gross",
			wantCurrency: "EUR",
			wantAmount:   "95000",
		},
		{
			name:         "dollar glyph falls back to USD",
			raw:          "$110,500",
			wantCurrency: "USD",
			wantAmount:   "110500",
		},
		{
			name:         "tl substring falls back to TRY",
			raw:          "1.200.000 tl yearly",
			wantCurrency: "TRY",
			wantAmount:   "1.200.000",
		},
		{
			name:         "lowercase try",
			raw:          "try 900000",
			wantCurrency: "TRY",
			wantAmount:   "900000",
		},
		{
			name:         "no hints uses the default",
			raw:          "negotiable, around 80000",
			wantCurrency: "USD",
			wantAmount:   "80000",
		},
		{
			name:         "no numeric token yields empty amount",
			raw:          "competitive",
			wantCurrency: "USD",
			wantAmount:   "",
		},
		{
			name:         "decimal point survives, commas stripped",
			raw:          "GBP 85,000.50",
			wantCurrency: "GBP",
			wantAmount:   "85000.50",
		},
		{
			name:         "empty input",
			raw:          "",
			wantCurrency: "USD",
			wantAmount:   "",
		},
		{
			name:         "code must be a whole word",
			raw:          "ggbpp 50000",
			wantCurrency: "USD",
			wantAmount:   "50000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSalaryExpectation(tt.raw, "")
			assert.Equal(t, tt.wantCurrency, got.Currency)
			assert.Equal(t, tt.wantAmount, got.Amount)
		})
	}
}

func TestParseSalaryExpectation_ConfiguredDefault(t *testing.T) {
	got := ParseSalaryExpectation("around 80000", "EUR")
	assert.Equal(t, "EUR", got.Currency)
}

func TestFormatSalaryExpectation(t *testing.T) {
	assert.Equal(t, "USD 120000", FormatSalaryExpectation("USD", "120000"))
	assert.Empty(t, FormatSalaryExpectation("USD", ""), "empty amount renders nothing")
}

func TestSalaryExpectation_RoundTrip(t *testing.T) {
	for _, amount := range []string{"1", "950", "120000", "98765432"} {
		formatted := FormatSalaryExpectation("EUR", amount)
		parsed := ParseSalaryExpectation(formatted, "")
		assert.Equal(t, "EUR", parsed.Currency, amount)
		assert.Equal(t, amount, parsed.Amount, amount)
	}
}
