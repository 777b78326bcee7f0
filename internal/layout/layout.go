// Package layout decides how the line items of an assembled invoice are laid
// across fixed-size export pages. It is purely descriptive: it places items
// and blocks, it never draws.
package layout

import (
	"fmt"

	"github.com/malick/facture-mcp/internal/models"
)

// PageGeometry carries the vertical constraints of the export medium, in the
// drawing surface's units. FirstPageTop is where rows start on the first page
// (below the document header and the client block); HeaderHeight is where
// they start on continuation pages (below the repeated header).
type PageGeometry struct {
	UsableHeight   float64
	HeaderHeight   float64
	FirstPageTop   float64
	RowHeight      float64
	SummaryHeight  float64
	TrailingMargin float64
}

// DefaultA4 matches the export renderer's A4 portrait layout, in millimetres.
var DefaultA4 = PageGeometry{
	UsableHeight:   267,
	HeaderHeight:   72,
	FirstPageTop:   140,
	RowHeight:      12,
	SummaryHeight:  45,
	TrailingMargin: 10,
}

// Validate rejects geometries on which placement would be impossible: every
// page must hold at least one row, a summary-only page must hold the summary,
// and the zero-item page must hold the placeholder row plus the summary.
func (g PageGeometry) Validate() error {
	if g.UsableHeight <= 0 || g.RowHeight <= 0 || g.SummaryHeight <= 0 {
		return fmt.Errorf("page geometry: heights must be positive")
	}
	if g.HeaderHeight < 0 || g.FirstPageTop < 0 || g.TrailingMargin < 0 {
		return fmt.Errorf("page geometry: offsets must not be negative")
	}
	limit := g.UsableHeight - g.TrailingMargin
	if g.FirstPageTop+g.RowHeight > limit || g.HeaderHeight+g.RowHeight > limit {
		return fmt.Errorf("page geometry: no room for a single row")
	}
	if g.HeaderHeight+g.SummaryHeight > g.UsableHeight {
		return fmt.Errorf("page geometry: no room for the summary block")
	}
	if g.FirstPageTop+g.RowHeight+g.SummaryHeight > g.UsableHeight {
		return fmt.Errorf("page geometry: no room for an empty invoice")
	}
	return nil
}

// Page describes one export page: the contiguous slice of line items it
// renders, whether the table header is redrawn above them, and whether the
// trailing summary block lands here.
type Page struct {
	Items        []models.LineItem
	RepeatHeader bool
	Summary      bool
	Placeholder  bool
}

// PaginationPlan is the page-by-page placement for one snapshot. The
// concatenation of the pages' item slices is exactly the snapshot's item
// sequence: same items, same order, no gaps, no duplicates.
type PaginationPlan struct {
	Pages []Page
}

// Plan lays the snapshot's line items across pages. A running cursor starts
// just below the first page's header region; a row that would cross into the
// trailing margin closes the page and reopens below a repeated table header.
// The comparison is strictly "would exceed": a row ending exactly at the
// margin stays. After the rows, the summary block is placed at the cursor,
// or alone on a fresh page when it no longer fits. Zero items still produce
// one page carrying a placeholder row and the summary.
func Plan(snapshot models.Snapshot, geometry PageGeometry) (*PaginationPlan, error) {
	if err := geometry.Validate(); err != nil {
		return nil, err
	}

	pages := []Page{{}}
	cursor := geometry.FirstPageTop
	limit := geometry.UsableHeight - geometry.TrailingMargin

	for _, item := range snapshot.LineItems {
		if cursor+geometry.RowHeight > limit {
			pages = append(pages, Page{RepeatHeader: true})
			cursor = geometry.HeaderHeight
		}
		last := len(pages) - 1
		pages[last].Items = append(pages[last].Items, item)
		cursor += geometry.RowHeight
	}

	if len(snapshot.LineItems) == 0 {
		pages[0].Placeholder = true
		cursor += geometry.RowHeight
	}

	if cursor+geometry.SummaryHeight > geometry.UsableHeight {
		// The summary block is never split; it moves whole. No table header
		// on a page without rows.
		pages = append(pages, Page{Summary: true})
	} else {
		pages[len(pages)-1].Summary = true
	}

	return &PaginationPlan{Pages: pages}, nil
}
