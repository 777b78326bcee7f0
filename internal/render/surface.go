package render

// Align selects horizontal text alignment relative to the given x.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Surface is the generic drawing target renderers draw onto. The export
// adapter maps it to a PDF document; tests use a recording fake. Units are
// whatever the adapter declares (millimetres for the PDF adapter).
type Surface interface {
	PageSize() (width, height float64)
	AddPage()
	SetFont(style string, size float64)
	SetTextColor(r, g, b int)
	SetFillColor(r, g, b int)
	SetDrawColor(r, g, b int)
	SetLineWidth(width float64)
	Rect(x, y, w, h float64, fill bool)
	Line(x1, y1, x2, y2 float64)
	Text(x, y float64, s string, align Align)
	// Image draws raw image bytes at the given box. It returns an error for
	// data the surface cannot decode; callers are expected to fall back
	// rather than abort.
	Image(data []byte, x, y, w, h float64) error
}
