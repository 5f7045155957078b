package report

import (
	"bytes"

	"github.com/go-pdf/fpdf"
	"github.com/sirupsen/logrus"
)

// Page geometry, in points (US Letter). The bottom margin is deliberately
// larger than one text line so content never lands inside a printer's
// physical margin.
const (
	pageWidth    = 612.0
	pageHeight   = 792.0
	marginLeft   = 40.0
	marginRight  = 40.0
	marginTop    = 48.0
	bottomMargin = 64.0

	usableWidth = pageWidth - marginLeft - marginRight
)

// Font sizes and line heights.
const (
	fontFamily = "Helvetica"

	labelSize   = 7.0
	valueSize   = 9.0
	headingSize = 12.0
	chipSize    = 7.0

	labelLine   = 9.0
	valueLine   = 12.0
	headingLine = 16.0
	chipHeight  = 12.0
)

// Cursor is the current drawing position: a page plus the x/y of the next
// draw. Renderers take a cursor and return the advanced one; the cursor value
// itself is never mutated in place, only the underlying page is drawn on.
type Cursor struct {
	Page int
	X    float64
	Y    float64
}

// Doc wraps one output PDF under construction. A Doc (and its cursors) lives
// for exactly one generation call; nothing is shared across requests.
type Doc struct {
	pdf    *fpdf.Fpdf
	logger *logrus.Logger
}

// NewDoc creates a document with its first page ready for drawing.
func NewDoc(logger *logrus.Logger) *Doc {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Pre-Anesthesia Health Assessment", false)
	pdf.AddPage()
	return &Doc{pdf: pdf, logger: logger}
}

// Start returns the cursor at the top margin of the first page.
func (d *Doc) Start() Cursor {
	return Cursor{Page: 1, X: marginLeft, Y: marginTop}
}

// EnsureSpace returns a cursor with at least need points of vertical space
// before the bottom margin, allocating a new page when the current one cannot
// fit it. Applying the returned cursor to a second identical call is a no-op:
// pages are only ever created when genuinely out of room.
func (d *Doc) EnsureSpace(c Cursor, need float64) Cursor {
	if c.Y+need <= pageHeight-bottomMargin {
		return c
	}
	return d.NewPage()
}

// NewPage appends a page and returns the cursor at its top margin. Pages are
// created in order and never removed.
func (d *Doc) NewPage() Cursor {
	d.pdf.AddPage()
	return Cursor{Page: d.pdf.PageNo(), X: marginLeft, Y: marginTop}
}

// PageCount returns the number of pages allocated so far.
func (d *Doc) PageCount() int {
	return d.pdf.PageCount()
}

// use points the underlying document at the cursor's page before drawing.
func (d *Doc) use(c Cursor) {
	if d.pdf.PageNo() != c.Page {
		d.pdf.SetPage(c.Page)
	}
}

// width measures s at the currently selected font.
func (d *Doc) width(s string) float64 {
	return d.pdf.GetStringWidth(s)
}

// setFont selects the body font at the given size, optionally bold.
func (d *Doc) setFont(size float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	d.pdf.SetFont(fontFamily, style, size)
}

// Output serializes the document. A serialization failure is fatal for the
// whole generation call; no partial buffer is produced.
func (d *Doc) Output() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
