package models

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLineItemQualifies(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
		want bool
	}{
		{"complete row", LineItem{Name: "Consulting", Quantity: 1, UnitPrice: 100}, true},
		{"free row", LineItem{Name: "Geste commercial", Quantity: 1, UnitPrice: 0}, true},
		{"blank name", LineItem{Name: "", Quantity: 1, UnitPrice: 100}, false},
		{"whitespace name", LineItem{Name: "   ", Quantity: 1, UnitPrice: 100}, false},
		{"zero quantity", LineItem{Name: "Draft", Quantity: 0, UnitPrice: 100}, false},
		{"negative quantity", LineItem{Name: "Draft", Quantity: -1, UnitPrice: 100}, false},
		{"negative price", LineItem{Name: "Refund", Quantity: 1, UnitPrice: -5}, false},
		{"nan quantity", LineItem{Name: "Odd", Quantity: math.NaN(), UnitPrice: 100}, false},
		{"infinite price", LineItem{Name: "Odd", Quantity: 1, UnitPrice: math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.Qualifies())
		})
	}
}

func TestLineItemTotal(t *testing.T) {
	item := LineItem{Name: "Tissu", Quantity: 2.5, UnitPrice: 19.9}
	assert.True(t, item.Total().Equal(decimal.NewFromFloat(49.75)), "got %s", item.Total())
}

func TestPaymentStatusValidate(t *testing.T) {
	assert.NoError(t, StatusPending.Validate())
	assert.NoError(t, StatusPartiallyPaid.Validate())
	assert.NoError(t, StatusFullyPaid.Validate())
	assert.Error(t, PaymentStatus("REFUNDED").Validate())
}

func TestPaymentStatusLabel(t *testing.T) {
	assert.Equal(t, "En attente de paiement", StatusPending.Label())
	assert.Equal(t, "Paiement partiel", StatusPartiallyPaid.Label())
	assert.Equal(t, "Entièrement payé", StatusFullyPaid.Label())
}

func TestCompanyInitial(t *testing.T) {
	assert.Equal(t, "S", CompanyProfile{Name: "Studio Teranga"}.Initial())
	assert.Equal(t, "É", CompanyProfile{Name: "école du soir"}.Initial())
	assert.Equal(t, "V", CompanyProfile{}.Initial(), "empty name falls back to the default company")
}

func TestClientFullName(t *testing.T) {
	c := ClientInfo{FirstName: "Awa", LastName: "Diop"}
	assert.Equal(t, "Awa Diop", c.FullName())
}
