package render

import (
	"fmt"
	"strings"

	"github.com/malick/facture-mcp/internal/currency"
	"github.com/malick/facture-mcp/internal/models"
)

// Preview renders the snapshot as a single continuous text document, the
// stdio counterpart of the on-screen preview panel. It is a pure projection:
// calling it any number of times with the same snapshot yields the same
// string and touches nothing.
func Preview(snapshot models.Snapshot) string {
	var b strings.Builder
	c := snapshot.Currency

	fmt.Fprintf(&b, "FACTURE N° %s\n", snapshot.InvoiceNumber)
	fmt.Fprintf(&b, "Date: %s\n", snapshot.IssueDate.Format("02/01/2006"))
	fmt.Fprintf(&b, "Devise: %s (%s)\n", c.Name, c.Symbol)
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s\n", snapshot.Company.Name)
	if snapshot.Company.Address != "" {
		fmt.Fprintf(&b, "%s\n", snapshot.Company.Address)
	}
	if snapshot.Company.Phone != "" {
		fmt.Fprintf(&b, "Tél: %s\n", snapshot.Company.Phone)
	}
	if snapshot.Company.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", snapshot.Company.Email)
	}
	if snapshot.Company.Website != "" {
		fmt.Fprintf(&b, "Site: %s\n", snapshot.Company.Website)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Facturé à: %s", snapshot.Client.FullName())
	if snapshot.Client.Phone != "" {
		fmt.Fprintf(&b, " (%s)", snapshot.Client.Phone)
	}
	b.WriteString("\n\nArticles:\n")

	if len(snapshot.LineItems) == 0 {
		b.WriteString("  Aucun article ajouté\n")
	}
	for _, item := range snapshot.LineItems {
		fmt.Fprintf(&b, "  - %s — Qté: %g × %s = %s\n",
			item.Name,
			item.Quantity,
			currency.Format(item.UnitPrice, c),
			currency.FormatDecimal(item.Total(), c))
	}

	agg := snapshot.Aggregate
	b.WriteString("\nRécapitulatif:\n")
	fmt.Fprintf(&b, "  Sous-total:    %s\n", currency.FormatDecimal(agg.Subtotal, c))
	fmt.Fprintf(&b, "  Montant payé:  %s\n", currency.FormatDecimal(agg.AmountPaid, c))
	fmt.Fprintf(&b, "  Reste à payer: %s\n", currency.FormatDecimal(agg.Remaining, c))
	fmt.Fprintf(&b, "  Statut:        %s\n", agg.Status.Label())

	return b.String()
}
