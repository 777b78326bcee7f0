package currency

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	assert.Equal(t, "FCFA", Resolve("XOF").Symbol)
	assert.Equal(t, 0, Resolve("XOF").Decimals)
	assert.Equal(t, 2, Resolve("MAD").Decimals)
	assert.Equal(t, "Dirham marocain", Resolve("MAD").Name)
}

func TestResolveFallsBackToDefault(t *testing.T) {
	for _, code := range []string{"", "EUR", "???", "FCFA"} {
		assert.Equal(t, DefaultCode, Resolve(code).Code, "code %q must fall back", code)
		assert.False(t, Known(code))
	}
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, "MAD", Resolve("mad").Code)
	assert.Equal(t, "XOF", Resolve(" xof").Code)
}

func TestFormat(t *testing.T) {
	xof := Resolve("XOF")
	mad := Resolve("MAD")

	tests := []struct {
		name     string
		amount   float64
		currency Currency
		want     string
	}{
		{"zero decimals", 1500, xof, "1500 FCFA"},
		{"two decimals with comma", 99.5, mad, "99,50 MAD"},
		{"no grouping separators", 1234567, xof, "1234567 FCFA"},
		{"no grouping with decimals", 1234567.891, mad, "1234567,89 MAD"},
		{"rounds to currency precision", 10.4, xof, "10 FCFA"},
		{"rounds half away from zero", 10.5, xof, "11 FCFA"},
		{"rounds half away from zero negative", -10.5, xof, "-11 FCFA"},
		{"zero", 0, mad, "0,00 MAD"},
		{"NaN treated as zero", math.NaN(), xof, "0 FCFA"},
		{"positive infinity treated as zero", math.Inf(1), mad, "0,00 MAD"},
		{"negative infinity treated as zero", math.Inf(-1), xof, "0 FCFA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.amount, tt.currency))
		})
	}
}
