package session

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malick/facture-mcp/internal/models"
)

func TestAddItemAssignsIDs(t *testing.T) {
	s := New()
	a := s.AddItem("Consulting", 2, 25000)
	b := s.AddItem("Hosting", 1, 75000)

	assert.NotEmpty(t, a.ID)
	assert.NotEmpty(t, b.ID)
	assert.NotEqual(t, a.ID, b.ID)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Consulting", items[0].Name)
	assert.Equal(t, "Hosting", items[1].Name)
}

func TestUpdateItemPartialEdit(t *testing.T) {
	s := New()
	item := s.AddItem("Consulting", 2, 25000)

	qty := 5.0
	updated, err := s.UpdateItem(item.ID, nil, &qty, nil)
	require.NoError(t, err)
	assert.Equal(t, "Consulting", updated.Name)
	assert.Equal(t, 5.0, updated.Quantity)
	assert.Equal(t, 25000.0, updated.UnitPrice)

	name := "Conseil"
	price := 30000.0
	updated, err = s.UpdateItem(item.ID, &name, nil, &price)
	require.NoError(t, err)
	assert.Equal(t, "Conseil", updated.Name)
	assert.Equal(t, 5.0, updated.Quantity)
	assert.Equal(t, 30000.0, updated.UnitPrice)
}

func TestUpdateItemUnknownID(t *testing.T) {
	s := New()
	s.AddItem("Consulting", 1, 100)

	_, err := s.UpdateItem("nope", nil, nil, nil)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	s := New()
	a := s.AddItem("A", 1, 1)
	b := s.AddItem("B", 1, 2)
	c := s.AddItem("C", 1, 3)

	removed, err := s.RemoveItem(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", removed.Name)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, a.ID, items[0].ID)
	assert.Equal(t, c.ID, items[1].ID)

	_, err = s.RemoveItem(b.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestClearItems(t *testing.T) {
	s := New()
	s.AddItem("A", 1, 1)
	s.AddItem("B", 1, 2)

	s.ClearItems()
	assert.Empty(t, s.Items())
}

func TestDuplicateLast(t *testing.T) {
	s := New()
	s.AddItem("Consulting", 2, 25000)
	s.AddItem("Hosting", 1, 75000)

	dup, err := s.DuplicateLast()
	require.NoError(t, err)
	assert.Equal(t, "Hosting (copie)", dup.Name)
	assert.Equal(t, 1.0, dup.Quantity)
	assert.Equal(t, 75000.0, dup.UnitPrice)

	items := s.Items()
	require.Len(t, items, 3)
	assert.NotEqual(t, items[1].ID, items[2].ID)
}

func TestDuplicateLastEmptyDraft(t *testing.T) {
	s := New()
	_, err := s.DuplicateLast()
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestSortByName(t *testing.T) {
	s := New()
	s.AddItem("hosting", 1, 1)
	s.AddItem("Audit", 1, 2)
	s.AddItem("Conseil", 1, 3)

	s.SortByName()

	items := s.Items()
	assert.Equal(t, "Audit", items[0].Name)
	assert.Equal(t, "Conseil", items[1].Name)
	assert.Equal(t, "hosting", items[2].Name, "name sort ignores case")
}

func TestSortByPriceDescending(t *testing.T) {
	s := New()
	s.AddItem("Cheap", 1, 100)
	s.AddItem("Premium", 1, 90000)
	s.AddItem("Mid", 1, 5000)

	s.SortByPrice()

	items := s.Items()
	assert.Equal(t, "Premium", items[0].Name)
	assert.Equal(t, "Mid", items[1].Name)
	assert.Equal(t, "Cheap", items[2].Name)
}

func TestItemsReturnsCopy(t *testing.T) {
	s := New()
	s.AddItem("Consulting", 1, 100)

	items := s.Items()
	items[0].Name = "Mutated"

	assert.Equal(t, "Consulting", s.Items()[0].Name)
}

func TestSetCurrency(t *testing.T) {
	s := New()
	assert.Empty(t, s.CurrencyCode(), "no override until one is set")

	require.NoError(t, s.SetCurrency("mad"))
	assert.Equal(t, "MAD", s.CurrencyCode())

	err := s.SetCurrency("EUR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "XOF")
	assert.Equal(t, "MAD", s.CurrencyCode(), "a rejected change leaves the override alone")
}

func TestSessionAggregate(t *testing.T) {
	s := New()
	s.SetClient(models.ClientInfo{FirstName: "Awa", LastName: "Diop", Phone: "+221770000000"})
	s.AddItem("Consulting", 2, 25000)
	s.AddItem("", 1, 999) // incomplete, excluded from totals
	s.SetAmountPaid(20000)

	agg := s.Aggregate()
	assert.True(t, agg.Subtotal.Equal(decimal.NewFromInt(50000)), "got %s", agg.Subtotal)
	assert.True(t, agg.Remaining.Equal(decimal.NewFromInt(30000)), "got %s", agg.Remaining)
	assert.Equal(t, models.StatusPartiallyPaid, agg.Status)
	assert.Equal(t, "Awa Diop", s.Client().FullName())
}
