package invoice

import (
	"math"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/malick/facture-mcp/internal/models"
)

// Qualifying filters the draft rows down to the ones that count toward the
// invoice, preserving their order.
func Qualifying(items []models.LineItem) []models.LineItem {
	return lo.Filter(items, func(li models.LineItem, _ int) bool {
		return li.Qualifies()
	})
}

// Aggregate derives the subtotal/paid/remaining/status bundle from the draft
// rows and the amount paid. Non-qualifying rows contribute nothing. The
// subtotal is summed left to right over the given order.
//
// Status priority, in this exact order:
//
//	amountPaid == 0            -> Pending
//	amountPaid >= subtotal     -> FullyPaid
//	otherwise                  -> PartiallyPaid
//
// A negative amountPaid is not rejected or clamped: it falls through the
// comparisons arithmetically.
func Aggregate(items []models.LineItem, amountPaid float64) models.Aggregate {
	if math.IsNaN(amountPaid) || math.IsInf(amountPaid, 0) {
		amountPaid = 0
	}
	paid := decimal.NewFromFloat(amountPaid)

	subtotal := lo.Reduce(Qualifying(items), func(sum decimal.Decimal, li models.LineItem, _ int) decimal.Decimal {
		return sum.Add(li.Total())
	}, decimal.Zero)

	remaining := subtotal.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	var status models.PaymentStatus
	switch {
	case paid.IsZero():
		status = models.StatusPending
	case paid.GreaterThanOrEqual(subtotal):
		status = models.StatusFullyPaid
	default:
		status = models.StatusPartiallyPaid
	}

	return models.Aggregate{
		Subtotal:   subtotal,
		AmountPaid: paid,
		Remaining:  remaining,
		Status:     status,
	}
}
