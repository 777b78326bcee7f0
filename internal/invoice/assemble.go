package invoice

import (
	"fmt"
	"regexp"
	"time"

	"github.com/malick/facture-mcp/internal/currency"
	"github.com/malick/facture-mcp/internal/models"
)

// NumberPrefix is the fixed prefix of every invoice number.
const NumberPrefix = "FAC"

// Number composes the invoice number from the issue year and the zero-padded
// sequence number: FAC-2026-0001.
func Number(issueDate time.Time, sequence int) string {
	return fmt.Sprintf("%s-%d-%04d", NumberPrefix, issueDate.Year(), sequence)
}

// Assemble builds the immutable snapshot handed to renderers. The currency
// code is resolved through the registry (unknown codes fall back to the
// default, assembly never fails), the aggregate is recomputed from scratch
// and the sequence number and clock arrive as explicit arguments so the
// result is a pure function of its inputs.
//
// Assemble performs no validation; callers gate on ValidateDraft first.
func Assemble(settings models.Settings, client models.ClientInfo, items []models.LineItem, amountPaid float64, sequence int, now time.Time) models.Snapshot {
	company := settings.Company
	if company.Name == "" {
		company.Name = models.DefaultCompanyName
	}

	// Only qualifying rows make it into the snapshot, in draft order. The
	// filter also copies, so later edits to the draft cannot reach it.
	rows := Qualifying(items)

	return models.Snapshot{
		Company:       company,
		Logo:          settings.Logo,
		Client:        client,
		Currency:      currency.Resolve(settings.CurrencyCode),
		LineItems:     rows,
		Aggregate:     Aggregate(rows, amountPaid),
		InvoiceNumber: Number(now, sequence),
		IssueDate:     now,
	}
}

var fileNameUnsafe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// ExportFileName names the exported document after the client and the
// invoice number: Facture_Awa_Diop_FAC20260001.pdf. Characters outside
// [A-Za-z0-9_] are stripped from the name components.
func ExportFileName(client models.ClientInfo, invoiceNumber string) string {
	clientPart := fileNameUnsafe.ReplaceAllString(client.FirstName+"_"+client.LastName, "")
	numberPart := fileNameUnsafe.ReplaceAllString(invoiceNumber, "")
	return fmt.Sprintf("Facture_%s_%s.pdf", clientPart, numberPart)
}
