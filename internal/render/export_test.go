package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malick/facture-mcp/internal/invoice"
	"github.com/malick/facture-mcp/internal/layout"
	"github.com/malick/facture-mcp/internal/logger"
	"github.com/malick/facture-mcp/internal/models"
)

// fakeSurface records drawing calls so tests can assert on what a render
// produced without a real PDF backend.
type fakeSurface struct {
	pages      int
	texts      []fakeText
	imageErr   error
	imageTries int
}

type fakeText struct {
	page int
	y    float64
	s    string
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{pages: 1}
}

func (f *fakeSurface) PageSize() (float64, float64)       { return 210, 297 }
func (f *fakeSurface) AddPage()                           { f.pages++ }
func (f *fakeSurface) SetFont(style string, size float64) {}
func (f *fakeSurface) SetTextColor(r, g, b int)           {}
func (f *fakeSurface) SetFillColor(r, g, b int)           {}
func (f *fakeSurface) SetDrawColor(r, g, b int)           {}
func (f *fakeSurface) SetLineWidth(width float64)         {}
func (f *fakeSurface) Rect(x, y, w, h float64, fill bool) {}
func (f *fakeSurface) Line(x1, y1, x2, y2 float64)        {}

func (f *fakeSurface) Text(x, y float64, s string, align Align) {
	f.texts = append(f.texts, fakeText{page: f.pages, y: y, s: s})
}

func (f *fakeSurface) Image(data []byte, x, y, w, h float64) error {
	f.imageTries++
	return f.imageErr
}

func (f *fakeSurface) contains(s string) bool {
	for _, t := range f.texts {
		if strings.Contains(t.s, s) {
			return true
		}
	}
	return false
}

// containsExact only matches a whole drawn string, which keeps single-letter
// assertions from matching inside longer labels.
func (f *fakeSurface) containsExact(s string) bool {
	for _, t := range f.texts {
		if t.s == s {
			return true
		}
	}
	return false
}

func exportSnapshot(t *testing.T, itemCount int, amountPaid float64) models.Snapshot {
	t.Helper()
	items := make([]models.LineItem, itemCount)
	for i := range items {
		items[i] = models.LineItem{
			ID:        fmt.Sprintf("item-%d", i),
			Name:      fmt.Sprintf("Article %d", i),
			Quantity:  2,
			UnitPrice: 25000,
		}
	}
	if itemCount >= 2 {
		items[0] = models.LineItem{ID: "item-0", Name: "Consulting", Quantity: 2, UnitPrice: 25000}
		items[1] = models.LineItem{ID: "item-1", Name: "Hosting", Quantity: 1, UnitPrice: 75000}
	}

	settings := models.Settings{
		Company: models.CompanyProfile{
			Name:    "Studio Teranga",
			Phone:   "+221338000000",
			Address: "Dakar, Sénégal",
		},
		CurrencyCode: "XOF",
	}
	client := models.ClientInfo{FirstName: "Awa", LastName: "Diop", Phone: "+221770000000"}
	now := time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)

	return invoice.Assemble(settings, client, items, amountPaid, 1, now)
}

func renderToFake(t *testing.T, snapshot models.Snapshot, surface *fakeSurface) *layout.PaginationPlan {
	t.Helper()
	plan, err := layout.Plan(snapshot, layout.DefaultA4)
	require.NoError(t, err)
	NewExporter(layout.DefaultA4, logger.NewNop()).Render(surface, snapshot, plan)
	return plan
}

func TestExportDrawsOnePageRun(t *testing.T) {
	surface := newFakeSurface()
	snapshot := exportSnapshot(t, 2, 50000)
	plan := renderToFake(t, snapshot, surface)

	assert.Equal(t, len(plan.Pages), surface.pages)

	assert.True(t, surface.contains("FACTURE"))
	assert.True(t, surface.contains("FAC-2026-0001"))
	assert.True(t, surface.contains("Awa Diop"))
	assert.True(t, surface.contains("Consulting"))
	assert.True(t, surface.contains("Hosting"))
	assert.True(t, surface.contains("125000 FCFA"), "formatted subtotal missing")
	assert.True(t, surface.contains("75000 FCFA"), "formatted remaining missing")
}

func TestExportRepeatsHeaderOnEveryPage(t *testing.T) {
	surface := newFakeSurface()
	snapshot := exportSnapshot(t, 30, 0)
	plan := renderToFake(t, snapshot, surface)

	require.Greater(t, len(plan.Pages), 1)

	headerPages := map[int]bool{}
	for _, txt := range surface.texts {
		if strings.Contains(txt.s, "DÉSIGNATION") {
			headerPages[txt.page] = true
		}
	}
	for i, page := range plan.Pages {
		if i == 0 || page.RepeatHeader {
			assert.True(t, headerPages[i+1], "table header missing on page %d", i+1)
		}
	}
}

func TestExportZeroItemsDrawsPlaceholder(t *testing.T) {
	surface := newFakeSurface()
	snapshot := exportSnapshot(t, 0, 0)
	renderToFake(t, snapshot, surface)

	assert.Equal(t, 1, surface.pages)
	assert.True(t, surface.contains("Aucun article ajouté"))
	assert.True(t, surface.contains("RÉCAPITULATIF"))
}

func TestExportTextStaysOnPage(t *testing.T) {
	surface := newFakeSurface()
	snapshot := exportSnapshot(t, 50, 0)
	renderToFake(t, snapshot, surface)

	_, pageH := surface.PageSize()
	for _, txt := range surface.texts {
		assert.LessOrEqual(t, txt.y, pageH, "text %q drawn below the page", txt.s)
	}
}

func TestExportLogoFallsBackToInitial(t *testing.T) {
	surface := newFakeSurface()
	surface.imageErr = fmt.Errorf("undecodable image")

	snapshot := exportSnapshot(t, 2, 0)
	snapshot.Logo = []byte("not an image")
	renderToFake(t, snapshot, surface)

	assert.Greater(t, surface.imageTries, 0)
	assert.True(t, surface.containsExact("S"), "company initial placeholder missing")
}

func TestExportLogoDrawnWhenDecodable(t *testing.T) {
	surface := newFakeSurface()

	snapshot := exportSnapshot(t, 2, 0)
	snapshot.Logo = []byte{0x89, 0x50, 0x4e, 0x47}
	plan := renderToFake(t, snapshot, surface)

	// One logo box per page header.
	assert.Equal(t, len(plan.Pages), surface.imageTries)
}

func TestExportNoLogoSkipsImage(t *testing.T) {
	surface := newFakeSurface()
	snapshot := exportSnapshot(t, 2, 0)
	renderToFake(t, snapshot, surface)

	assert.Zero(t, surface.imageTries)
	assert.True(t, surface.containsExact("S"), "company initial placeholder missing")
}

func TestPDFSurfaceRejectsBadImage(t *testing.T) {
	s := NewPDFSurface()
	assert.Error(t, s.Image(nil, 0, 0, 10, 10))
	assert.Error(t, s.Image([]byte("definitely not an image"), 0, 0, 10, 10))
}
