package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1234.56", "1234.56"},
		{"12.50", "12.5"},
		{"1,234.56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"1'234.56", "1234.56"},
		{"$1,234.56", "1234.56"},
		{"CHF 12,50", "12.5"},
		{"€ 1.234.567,8", "1234567.8"},
		{"1,234,567", "1234567"},
		{"-42", "-42"},
		{"aud 99", "99"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, input := range []string{"", "  ", "CHF", "twelve", "1.2.3"} {
		_, err := ParseAmount(input)
		assert.Error(t, err, input)
	}
}
