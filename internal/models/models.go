package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/malick/facture-mcp/internal/currency"
)

// LineItem is one billable row of the draft invoice. Rows are created empty
// or partially filled and edited in place; a row only counts toward the
// invoice once it qualifies (see Qualifies).
type LineItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Qualifies reports whether the row takes part in aggregate computations:
// non-blank name, quantity > 0 and unit price >= 0. Rows that fail are
// drafts in progress, not errors, and contribute nothing.
func (li LineItem) Qualifies() bool {
	return strings.TrimSpace(li.Name) != "" &&
		isFinite(li.Quantity) && li.Quantity > 0 &&
		isFinite(li.UnitPrice) && li.UnitPrice >= 0
}

// Total returns quantity x unit price as an exact decimal.
func (li LineItem) Total() decimal.Decimal {
	return decimal.NewFromFloat(li.Quantity).Mul(decimal.NewFromFloat(li.UnitPrice))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// PaymentStatus is derived from (subtotal, amount paid); it is never stored
// independently of them.
type PaymentStatus string

const (
	// StatusPending indicates nothing has been paid yet.
	StatusPending PaymentStatus = "PENDING"
	// StatusPartiallyPaid indicates a payment below the subtotal.
	StatusPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	// StatusFullyPaid indicates payment covers the subtotal.
	StatusFullyPaid PaymentStatus = "FULLY_PAID"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Validate() error {
	switch s {
	case StatusPending, StatusPartiallyPaid, StatusFullyPaid:
		return nil
	}
	return fmt.Errorf("invalid payment status: %s", string(s))
}

// Label returns the user-facing French label shown on previews and exports.
func (s PaymentStatus) Label() string {
	switch s {
	case StatusFullyPaid:
		return "Entièrement payé"
	case StatusPartiallyPaid:
		return "Paiement partiel"
	default:
		return "En attente de paiement"
	}
}

// Aggregate is the derived subtotal/paid/remaining/status bundle. It is
// recomputed in full on every read; nothing mutates it.
type Aggregate struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Remaining  decimal.Decimal `json:"remaining"`
	Status     PaymentStatus   `json:"status"`
}

// CompanyProfile is the issuing company as stored in settings. Name falls
// back to a placeholder when unset so an invoice can always be rendered.
type CompanyProfile struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
}

// DefaultCompanyName is the placeholder used until settings are saved.
const DefaultCompanyName = "Votre Entreprise"

// Initial returns the single-character stand-in drawn when the logo is
// missing or cannot be decoded.
func (c CompanyProfile) Initial() string {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = DefaultCompanyName
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

// ClientInfo identifies the billed client. All three fields are required
// before a preview or export may proceed.
type ClientInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

func (c ClientInfo) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// Settings is the single persisted entry of the local store.
type Settings struct {
	Company      CompanyProfile `json:"company"`
	Logo         []byte         `json:"-"`
	CurrencyCode string         `json:"currency"`
}

// Snapshot is a fully assembled invoice, built once per preview or export
// and never mutated afterwards. Renderers only ever see snapshots.
type Snapshot struct {
	Company       CompanyProfile
	Logo          []byte
	Client        ClientInfo
	Currency      currency.Currency
	LineItems     []LineItem
	Aggregate     Aggregate
	InvoiceNumber string
	IssueDate     time.Time
}

// InvoiceRecord is one row of the generated-invoices history.
type InvoiceRecord struct {
	ID            int             `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientName    string          `json:"client_name"`
	CurrencyCode  string          `json:"currency"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Status        PaymentStatus   `json:"status"`
	PDFPath       string          `json:"pdf_path"`
	IssueDate     time.Time       `json:"issue_date"`
	CreatedAt     time.Time       `json:"created_at"`
}
