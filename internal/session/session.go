// Package session owns the in-progress invoice draft: the client being
// billed, the ordered line items, the amount paid and the currency choice.
// Tools are the only writers, and every mutation leaves the draft in a state
// from which the aggregate can be recomputed synchronously. The stdio
// transport serializes tool calls, so the draft never sees concurrent edits.
package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/malick/facture-mcp/internal/currency"
	"github.com/malick/facture-mcp/internal/invoice"
	"github.com/malick/facture-mcp/internal/models"
)

var (
	ErrItemNotFound = errors.New("article introuvable")
	ErrNoItems      = errors.New("aucun article à dupliquer")
)

type Session struct {
	client       models.ClientInfo
	items        []models.LineItem
	amountPaid   float64
	currencyCode string
}

func New() *Session {
	return &Session{}
}

func (s *Session) SetClient(client models.ClientInfo) {
	s.client = client
}

func (s *Session) Client() models.ClientInfo {
	return s.client
}

// AddItem appends a row to the draft and returns it. The row may be
// incomplete; it only starts counting once it qualifies.
func (s *Session) AddItem(name string, quantity, unitPrice float64) models.LineItem {
	item := models.LineItem{
		ID:        uuid.New().String(),
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	s.items = append(s.items, item)
	return item
}

// UpdateItem edits a row in place. Nil fields are left untouched.
func (s *Session) UpdateItem(id string, name *string, quantity, unitPrice *float64) (models.LineItem, error) {
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if name != nil {
			s.items[i].Name = *name
		}
		if quantity != nil {
			s.items[i].Quantity = *quantity
		}
		if unitPrice != nil {
			s.items[i].UnitPrice = *unitPrice
		}
		return s.items[i], nil
	}
	return models.LineItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

func (s *Session) RemoveItem(id string) (models.LineItem, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			removed := s.items[i]
			s.items = append(s.items[:i], s.items[i+1:]...)
			return removed, nil
		}
	}
	return models.LineItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

func (s *Session) ClearItems() {
	s.items = nil
}

// DuplicateLast copies the most recent row, suffixing the copy's name so the
// two stay distinguishable.
func (s *Session) DuplicateLast() (models.LineItem, error) {
	if len(s.items) == 0 {
		return models.LineItem{}, ErrNoItems
	}
	last := s.items[len(s.items)-1]
	return s.AddItem(last.Name+" (copie)", last.Quantity, last.UnitPrice), nil
}

// SortByName orders the draft alphabetically by item name.
func (s *Session) SortByName() {
	sort.SliceStable(s.items, func(i, j int) bool {
		return strings.ToLower(s.items[i].Name) < strings.ToLower(s.items[j].Name)
	})
}

// SortByPrice orders the draft by unit price, highest first.
func (s *Session) SortByPrice() {
	sort.SliceStable(s.items, func(i, j int) bool {
		return s.items[i].UnitPrice > s.items[j].UnitPrice
	})
}

// Items returns a copy of the draft rows in order.
func (s *Session) Items() []models.LineItem {
	items := make([]models.LineItem, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Session) SetAmountPaid(amount float64) {
	s.amountPaid = amount
}

func (s *Session) AmountPaid() float64 {
	return s.amountPaid
}

// SetCurrency selects the session currency. Unlike snapshot assembly, which
// silently falls back, an explicit change to an unknown code is rejected.
func (s *Session) SetCurrency(code string) error {
	if !currency.Known(code) {
		return fmt.Errorf("devise inconnue %q (devises supportées: %s)", code, strings.Join(currency.Codes(), ", "))
	}
	s.currencyCode = currency.Resolve(code).Code
	return nil
}

// CurrencyCode returns the session override, or empty when the stored
// preference should apply.
func (s *Session) CurrencyCode() string {
	return s.currencyCode
}

// Aggregate recomputes the derived totals from scratch.
func (s *Session) Aggregate() models.Aggregate {
	return invoice.Aggregate(s.items, s.amountPaid)
}
