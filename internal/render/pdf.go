package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// PDFSurface adapts a gofpdf document to the Surface interface: A4 portrait,
// millimetre units, core Helvetica fonts.
type PDFSurface struct {
	pdf       *gofpdf.Fpdf
	translate func(string) string
}

func NewPDFSurface() *PDFSurface {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return &PDFSurface{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (s *PDFSurface) PageSize() (float64, float64) {
	w, h := s.pdf.GetPageSize()
	return w, h
}

func (s *PDFSurface) AddPage() {
	s.pdf.AddPage()
}

// SetFont sets Helvetica in the given style ("", "B", "I", "BI") and size.
func (s *PDFSurface) SetFont(style string, size float64) {
	s.pdf.SetFont("Helvetica", style, size)
}

func (s *PDFSurface) SetTextColor(r, g, b int) {
	s.pdf.SetTextColor(r, g, b)
}

func (s *PDFSurface) SetFillColor(r, g, b int) {
	s.pdf.SetFillColor(r, g, b)
}

func (s *PDFSurface) SetDrawColor(r, g, b int) {
	s.pdf.SetDrawColor(r, g, b)
}

func (s *PDFSurface) SetLineWidth(width float64) {
	s.pdf.SetLineWidth(width)
}

func (s *PDFSurface) Rect(x, y, w, h float64, fill bool) {
	style := "D"
	if fill {
		style = "F"
	}
	s.pdf.Rect(x, y, w, h, style)
}

func (s *PDFSurface) Line(x1, y1, x2, y2 float64) {
	s.pdf.Line(x1, y1, x2, y2)
}

func (s *PDFSurface) Text(x, y float64, text string, align Align) {
	text = s.translate(text)
	switch align {
	case AlignRight:
		x -= s.pdf.GetStringWidth(text)
	case AlignCenter:
		x -= s.pdf.GetStringWidth(text) / 2
	}
	s.pdf.Text(x, y, text)
}

// Image decodes the bytes before handing them to gofpdf: gofpdf's own error
// state is sticky and would poison the whole document, while an undecodable
// logo must only cost us the logo.
func (s *PDFSurface) Image(data []byte, x, y, w, h float64) error {
	if len(data) == 0 {
		return fmt.Errorf("empty image data")
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("undecodable image: %w", err)
	}

	var imageType string
	switch http.DetectContentType(data) {
	case "image/png":
		imageType = "PNG"
	case "image/jpeg":
		imageType = "JPG"
	default:
		return fmt.Errorf("unsupported image type")
	}

	name := uuid.New().String()
	opts := gofpdf.ImageOptions{ImageType: imageType}
	s.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if s.pdf.Err() {
		return fmt.Errorf("failed to register image: %v", s.pdf.Error())
	}
	s.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return nil
}

// Save writes the finished multi-page document to the given path.
func (s *PDFSurface) Save(path string) error {
	if err := s.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to save PDF: %w", err)
	}
	return nil
}
