package render

import (
	"fmt"

	"github.com/malick/facture-mcp/internal/currency"
	"github.com/malick/facture-mcp/internal/layout"
	"github.com/malick/facture-mcp/internal/logger"
	"github.com/malick/facture-mcp/internal/models"
)

// Corporate palette of the exported document.
var (
	primaryBlue = [3]int{37, 99, 235}
	panelGray   = [3]int{248, 250, 252}
	borderGray  = [3]int{200, 200, 200}
	footerGray  = [3]int{100, 100, 100}
)

// Exporter draws an assembled invoice onto a Surface, one page per entry of
// the pagination plan. It never touches the snapshot or the plan.
type Exporter struct {
	geometry layout.PageGeometry
	log      *logger.Logger
}

func NewExporter(geometry layout.PageGeometry, log *logger.Logger) *Exporter {
	return &Exporter{geometry: geometry, log: log}
}

// Render walks the plan and draws every page: document header on each page,
// client block on the first, the page's row slice below a table header when
// the plan asks for one, and the summary block where the plan placed it.
func (e *Exporter) Render(s Surface, snapshot models.Snapshot, plan *layout.PaginationPlan) {
	for i, page := range plan.Pages {
		if i > 0 {
			s.AddPage()
		}
		e.renderPage(s, snapshot, page, i == 0)
	}
	e.drawFooter(s, snapshot)
}

func (e *Exporter) renderPage(s Surface, snapshot models.Snapshot, page layout.Page, first bool) {
	e.drawPageHeader(s, snapshot, first)

	startY := e.geometry.HeaderHeight
	if first {
		e.drawClientBlock(s, snapshot)
		startY = e.geometry.FirstPageTop
	}

	if first || page.RepeatHeader {
		e.drawTableHeader(s, startY-e.geometry.RowHeight)
	}

	y := startY
	for i, item := range page.Items {
		e.drawRow(s, snapshot, item, y, i%2 == 1)
		y += e.geometry.RowHeight
	}

	if page.Placeholder {
		e.drawPlaceholderRow(s, y)
		y += e.geometry.RowHeight
	}

	if page.Summary {
		e.drawSummary(s, snapshot, y)
	}
}

func (e *Exporter) drawPageHeader(s Surface, snapshot models.Snapshot, first bool) {
	pageW, _ := s.PageSize()
	bandH := 40.0
	if first {
		bandH = 60
	}

	s.SetFillColor(primaryBlue[0], primaryBlue[1], primaryBlue[2])
	s.Rect(0, 0, pageW, bandH, true)

	if first {
		e.drawLogoBox(s, snapshot, 20, 15, 40)

		s.SetTextColor(255, 255, 255)
		s.SetFont("B", 18)
		s.Text(75, 25, snapshot.Company.Name, AlignLeft)

		s.SetFont("", 8)
		s.Text(75, 35, "Adresse: "+snapshot.Company.Address, AlignLeft)
		s.Text(75, 40, "Tél: "+snapshot.Company.Phone, AlignLeft)
		if snapshot.Company.Email != "" {
			s.Text(75, 45, "Email: "+snapshot.Company.Email, AlignLeft)
		}
		if snapshot.Company.Website != "" {
			s.Text(75, 50, "Site: "+snapshot.Company.Website, AlignLeft)
		}

		s.SetFont("B", 20)
		s.Text(pageW-20, 25, "FACTURE", AlignRight)
		s.SetFont("B", 10)
		s.Text(pageW-20, 35, "N° "+snapshot.InvoiceNumber, AlignRight)
		s.SetFont("", 9)
		s.Text(pageW-20, 42, "Date: "+snapshot.IssueDate.Format("02/01/2006"), AlignRight)
		s.Text(pageW-20, 49, fmt.Sprintf("Devise: %s (%s)", snapshot.Currency.Name, snapshot.Currency.Symbol), AlignRight)

		s.SetDrawColor(255, 255, 255)
		s.SetLineWidth(1)
		s.Line(0, bandH-2, pageW, bandH-2)
		return
	}

	e.drawLogoBox(s, snapshot, 20, 8, 24)

	s.SetTextColor(255, 255, 255)
	s.SetFont("B", 14)
	s.Text(52, 20, snapshot.Company.Name, AlignLeft)
	s.SetFont("B", 14)
	s.Text(pageW-20, 20, "FACTURE", AlignRight)
	s.SetFont("B", 8)
	s.Text(pageW-20, 28, "N° "+snapshot.InvoiceNumber, AlignRight)
	s.SetFont("", 7)
	s.Text(pageW-20, 34, "Date: "+snapshot.IssueDate.Format("02/01/2006"), AlignRight)

	s.SetDrawColor(255, 255, 255)
	s.SetLineWidth(1)
	s.Line(0, bandH-2, pageW, bandH-2)
}

// drawLogoBox draws the white logo square. When the logo bytes are missing
// or the surface cannot decode them, the company initial takes its place;
// an asset failure never aborts the render.
func (e *Exporter) drawLogoBox(s Surface, snapshot models.Snapshot, x, y, size float64) {
	s.SetFillColor(255, 255, 255)
	s.Rect(x, y, size, size, true)
	s.SetDrawColor(0, 0, 0)
	s.SetLineWidth(0.5)
	s.Rect(x, y, size, size, false)

	inset := size / 8
	if len(snapshot.Logo) > 0 {
		err := s.Image(snapshot.Logo, x+inset, y+inset, size-2*inset, size-2*inset)
		if err == nil {
			return
		}
		e.log.Warnw("logo could not be drawn, using initial", "error", err)
	}

	s.SetFont("B", size/2)
	s.SetTextColor(primaryBlue[0], primaryBlue[1], primaryBlue[2])
	s.Text(x+size/2, y+size/2+size/6, snapshot.Company.Initial(), AlignCenter)
}

func (e *Exporter) drawClientBlock(s Surface, snapshot models.Snapshot) {
	pageW, _ := s.PageSize()

	s.SetFont("B", 14)
	s.SetTextColor(primaryBlue[0], primaryBlue[1], primaryBlue[2])
	s.Text(20, 75, "FACTURÉ À:", AlignLeft)

	s.SetFillColor(panelGray[0], panelGray[1], panelGray[2])
	s.Rect(20, 80, pageW-40, 35, true)
	s.SetDrawColor(primaryBlue[0], primaryBlue[1], primaryBlue[2])
	s.SetLineWidth(1.5)
	s.Line(20, 80, 20, 115)

	s.SetTextColor(0, 0, 0)
	s.SetFont("B", 11)
	s.Text(30, 90, "Nom complet:", AlignLeft)
	s.SetFont("", 11)
	s.Text(30, 96, snapshot.Client.FullName(), AlignLeft)
	s.SetFont("B", 11)
	s.Text(30, 103, "Téléphone:", AlignLeft)
	s.SetFont("", 11)
	s.Text(30, 109, snapshot.Client.Phone, AlignLeft)

	s.SetFont("B", 14)
	s.SetTextColor(0, 0, 0)
	s.Text(20, e.geometry.FirstPageTop-e.geometry.RowHeight-4, "DÉTAILS DE LA COMMANDE", AlignLeft)
}

func (e *Exporter) drawTableHeader(s Surface, y float64) {
	pageW, _ := s.PageSize()

	s.SetFillColor(primaryBlue[0], primaryBlue[1], primaryBlue[2])
	s.Rect(20, y, pageW-40, e.geometry.RowHeight, true)

	s.SetFont("B", 10)
	s.SetTextColor(255, 255, 255)
	base := y + e.geometry.RowHeight - 4
	s.Text(25, base, "DÉSIGNATION", AlignLeft)
	s.Text(110, base, "QTÉ", AlignCenter)
	s.Text(150, base, "PRIX UNIT.", AlignRight)
	s.Text(pageW-25, base, "TOTAL", AlignRight)
}

func (e *Exporter) drawRow(s Surface, snapshot models.Snapshot, item models.LineItem, y float64, shaded bool) {
	pageW, _ := s.PageSize()

	if shaded {
		s.SetFillColor(panelGray[0], panelGray[1], panelGray[2])
	} else {
		s.SetFillColor(255, 255, 255)
	}
	s.Rect(20, y, pageW-40, e.geometry.RowHeight, true)
	s.SetDrawColor(borderGray[0], borderGray[1], borderGray[2])
	s.SetLineWidth(0.3)
	s.Rect(20, y, pageW-40, e.geometry.RowHeight, false)

	name := item.Name
	if len([]rune(name)) > 35 {
		name = string([]rune(name)[:32]) + "..."
	}

	base := y + e.geometry.RowHeight - 4
	s.SetTextColor(0, 0, 0)
	s.SetFont("B", 10)
	s.Text(25, base, name, AlignLeft)
	s.Text(110, base, fmt.Sprintf("%g", item.Quantity), AlignCenter)
	s.Text(150, base, currency.Format(item.UnitPrice, snapshot.Currency), AlignRight)
	s.Text(pageW-25, base, currency.FormatDecimal(item.Total(), snapshot.Currency), AlignRight)
}

func (e *Exporter) drawPlaceholderRow(s Surface, y float64) {
	pageW, _ := s.PageSize()

	s.SetFillColor(255, 255, 255)
	s.Rect(20, y, pageW-40, e.geometry.RowHeight, true)
	s.SetDrawColor(borderGray[0], borderGray[1], borderGray[2])
	s.SetLineWidth(0.3)
	s.Rect(20, y, pageW-40, e.geometry.RowHeight, false)

	s.SetFont("I", 10)
	s.SetTextColor(footerGray[0], footerGray[1], footerGray[2])
	s.Text(pageW/2, y+e.geometry.RowHeight-4, "Aucun article ajouté", AlignCenter)
}

func (e *Exporter) drawSummary(s Surface, snapshot models.Snapshot, y float64) {
	pageW, _ := s.PageSize()
	agg := snapshot.Aggregate
	boxX := pageW - 100

	s.SetFillColor(panelGray[0], panelGray[1], panelGray[2])
	s.Rect(boxX, y+5, 80, 35, true)
	s.SetDrawColor(primaryBlue[0], primaryBlue[1], primaryBlue[2])
	s.SetLineWidth(1.5)
	s.Line(boxX, y+5, boxX, y+40)

	s.SetFont("B", 11)
	s.SetTextColor(0, 0, 0)
	s.Text(boxX+5, y+12, "RÉCAPITULATIF", AlignLeft)

	s.SetFont("", 9)
	s.Text(boxX+5, y+19, "Sous-total:", AlignLeft)
	s.Text(pageW-25, y+19, currency.FormatDecimal(agg.Subtotal, snapshot.Currency), AlignRight)
	s.Text(boxX+5, y+25, "Montant payé:", AlignLeft)
	s.Text(pageW-25, y+25, currency.FormatDecimal(agg.AmountPaid, snapshot.Currency), AlignRight)

	s.SetFillColor(primaryBlue[0], primaryBlue[1], primaryBlue[2])
	s.Rect(boxX, y+28, 80, 8, true)
	s.SetFont("B", 10)
	s.SetTextColor(255, 255, 255)
	s.Text(boxX+5, y+34, "RESTE À PAYER:", AlignLeft)
	s.Text(pageW-25, y+34, currency.FormatDecimal(agg.Remaining, snapshot.Currency), AlignRight)
}

func (e *Exporter) drawFooter(s Surface, snapshot models.Snapshot) {
	pageW, pageH := s.PageSize()
	y := pageH - 30

	s.SetFont("", 8)
	s.SetTextColor(footerGray[0], footerGray[1], footerGray[2])
	s.Text(pageW/2, y, "Merci pour votre confiance – "+snapshot.Company.Name, AlignCenter)
	s.Text(pageW/2, y+6, "Conditions générales de vente disponibles sur demande", AlignCenter)
}
