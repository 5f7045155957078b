package report

import (
	"github.com/preop-assessment-server/internal/domain"
)

const columnGutter = 16.0

// SubHeading draws a section title with an underline, breaking to a new page
// first when the remaining space could not also fit at least one value line.
func (d *Doc) SubHeading(c Cursor, title string) Cursor {
	c = d.EnsureSpace(c, headingLine+valueLine+10)
	d.use(c)

	d.setFont(headingSize, true)
	d.pdf.SetTextColor(20, 20, 20)
	d.pdf.Text(marginLeft, c.Y+headingSize, title)

	d.pdf.SetDrawColor(20, 20, 20)
	d.pdf.SetLineWidth(0.8)
	d.pdf.Line(marginLeft, c.Y+headingLine, marginLeft+usableWidth, c.Y+headingLine)
	d.pdf.SetLineWidth(0.2)

	return Cursor{Page: c.Page, X: marginLeft, Y: c.Y + headingLine + 8}
}

// FieldRows draws labeled fields two per visual row: a dim small-font label
// above the wrapped value, with a dashed separator beneath each column. The
// cursor advances by the taller column of each row, and a row that does not
// fit moves whole to the next page.
func (d *Doc) FieldRows(c Cursor, fields []domain.LabeledField) Cursor {
	colW := (usableWidth - columnGutter) / 2

	for i := 0; i < len(fields); i += 2 {
		end := i + 2
		if end > len(fields) {
			end = len(fields)
		}
		c = d.fieldRow(c, fields[i:end], colW)
	}
	return c
}

// FullWidthField draws a single labeled field across the whole usable width,
// used for free-text sections.
func (d *Doc) FullWidthField(c Cursor, field domain.LabeledField) Cursor {
	return d.fieldRow(c, []domain.LabeledField{field}, usableWidth)
}

func (d *Doc) fieldRow(c Cursor, pair []domain.LabeledField, colW float64) Cursor {
	wrapped := make([][]string, len(pair))
	rowH := 0.0
	for j, f := range pair {
		d.setFont(valueSize, f.Emphasize)
		wrapped[j] = Wrap(d.width, f.Value, colW)
		h := labelLine + float64(len(wrapped[j]))*valueLine + 8
		if h > rowH {
			rowH = h
		}
	}

	c = d.EnsureSpace(c, rowH)
	d.use(c)

	for j, f := range pair {
		x := marginLeft + float64(j)*(colW+columnGutter)

		d.setFont(labelSize, false)
		d.pdf.SetTextColor(120, 120, 120)
		d.pdf.Text(x, c.Y+labelSize, f.Label)

		d.setFont(valueSize, f.Emphasize)
		d.pdf.SetTextColor(20, 20, 20)
		ly := c.Y + labelLine + valueSize
		for _, line := range wrapped[j] {
			d.pdf.Text(x, ly, line)
			ly += valueLine
		}

		d.pdf.SetDrawColor(200, 200, 200)
		d.pdf.SetDashPattern([]float64{2, 2}, 0)
		d.pdf.Line(x, c.Y+rowH-4, x+colW, c.Y+rowH-4)
		d.pdf.SetDashPattern([]float64{}, 0)
	}

	return Cursor{Page: c.Page, X: marginLeft, Y: c.Y + rowH}
}

// DetailList draws render items in one or two columns. Each item gets a
// bullet, a wrapped label, and its detail chips; chips wrap to a new chip
// line within the item once they would pass half the column width. Row height
// is the tallest item placed on that visual row, so uneven items never
// overlap.
func (d *Doc) DetailList(c Cursor, items []domain.RenderItem, columns int) Cursor {
	if columns < 1 {
		columns = 1
	}
	colW := (usableWidth - columnGutter*float64(columns-1)) / float64(columns)
	const bulletIndent = 10.0
	textW := colW - bulletIndent
	chipLimit := colW / 2

	for i := 0; i < len(items); i += columns {
		end := i + columns
		if end > len(items) {
			end = len(items)
		}
		group := items[i:end]

		wrapped := make([][]string, len(group))
		chips := make([][]chipPos, len(group))
		rowH := 0.0
		for j, item := range group {
			d.setFont(valueSize, item.Emphasize)
			wrapped[j] = Wrap(d.width, item.Label, textW)
			var chipRows int
			chips[j], chipRows = d.layoutChips(item.Details, chipLimit)
			h := float64(len(wrapped[j]))*valueLine + float64(chipRows)*(chipHeight+3) + 6
			if h > rowH {
				rowH = h
			}
		}

		c = d.EnsureSpace(c, rowH)
		d.use(c)

		for j, item := range group {
			x := marginLeft + float64(j)*(colW+columnGutter)

			d.pdf.SetFillColor(20, 20, 20)
			d.pdf.Circle(x+2.5, c.Y+valueSize-3, 1.8, "F")

			d.setFont(valueSize, item.Emphasize)
			d.pdf.SetTextColor(20, 20, 20)
			ly := c.Y + valueSize
			for _, line := range wrapped[j] {
				d.pdf.Text(x+bulletIndent, ly, line)
				ly += valueLine
			}

			d.drawChips(x+bulletIndent, ly-valueSize+2, chips[j])
		}

		c = Cursor{Page: c.Page, X: marginLeft, Y: c.Y + rowH}
	}
	return c
}

// ChipList draws a flowing list of bordered chips across the usable width,
// used for the allergy and drug-history sections.
func (d *Doc) ChipList(c Cursor, values []string) Cursor {
	details := make([]domain.Detail, 0, len(values))
	for _, v := range values {
		details = append(details, domain.Detail{Value: v})
	}
	chips, rows := d.layoutChips(details, usableWidth)
	if rows == 0 {
		return c
	}

	height := float64(rows)*(chipHeight+3) + 4
	c = d.EnsureSpace(c, height)
	d.use(c)
	d.drawChips(marginLeft, c.Y, chips)

	return Cursor{Page: c.Page, X: marginLeft, Y: c.Y + height}
}

// Table draws a bordered grid with a header row. Every row gets its own
// overflow check, so a row that does not fit moves whole to the next page.
// Cell widths are fractions of the usable width.
func (d *Doc) Table(c Cursor, header []domain.TableCell, rows [][]domain.TableCell) Cursor {
	if len(rows) == 0 {
		return c
	}
	c = d.tableRow(c, header, true)
	for _, row := range rows {
		c = d.tableRow(c, row, false)
	}
	return c
}

func (d *Doc) tableRow(c Cursor, cells []domain.TableCell, bold bool) Cursor {
	const cellPad = 4.0

	d.setFont(valueSize, bold)
	wrapped := make([][]string, len(cells))
	rowH := valueLine + 2*cellPad
	for i, cell := range cells {
		wrapped[i] = Wrap(d.width, cell.Value, cell.Width*usableWidth-2*cellPad)
		if h := float64(len(wrapped[i]))*valueLine + 2*cellPad; h > rowH {
			rowH = h
		}
	}

	c = d.EnsureSpace(c, rowH)
	d.use(c)

	d.setFont(valueSize, bold)
	d.pdf.SetTextColor(20, 20, 20)
	d.pdf.SetDrawColor(150, 150, 150)

	x := marginLeft
	for i, cell := range cells {
		w := cell.Width * usableWidth
		d.pdf.Rect(x, c.Y, w, rowH, "D")
		ly := c.Y + cellPad + valueSize
		for _, line := range wrapped[i] {
			d.pdf.Text(x+cellPad, ly, line)
			ly += valueLine
		}
		x += w
	}

	return Cursor{Page: c.Page, X: marginLeft, Y: c.Y + rowH}
}

// Paragraph draws wrapped body text across the usable width.
func (d *Doc) Paragraph(c Cursor, text string, bold bool) Cursor {
	d.setFont(valueSize, bold)
	lines := Wrap(d.width, text, usableWidth)
	if len(lines) == 0 {
		return c
	}

	height := float64(len(lines))*valueLine + 4
	c = d.EnsureSpace(c, height)
	d.use(c)

	d.setFont(valueSize, bold)
	d.pdf.SetTextColor(20, 20, 20)
	ly := c.Y + valueSize
	for _, line := range lines {
		d.pdf.Text(marginLeft, ly, line)
		ly += valueLine
	}
	return Cursor{Page: c.Page, X: marginLeft, Y: c.Y + height}
}

// chipPos is one chip's offset within its item, laid out before drawing so
// row counts feed the height calculation.
type chipPos struct {
	x, y, w float64
	text    string
}

// layoutChips flows chips left to right, wrapping once the next chip would
// pass limit. Returns the positions and the number of chip lines used.
func (d *Doc) layoutChips(details []domain.Detail, limit float64) ([]chipPos, int) {
	if len(details) == 0 {
		return nil, 0
	}

	d.setFont(chipSize, false)
	var out []chipPos
	x, y := 0.0, 0.0
	rows := 1
	for _, det := range details {
		text := det.Value
		if det.Name != "" {
			text = det.Name + ": " + det.Value
		}
		w := d.width(text) + 8
		if x > 0 && x+w > limit {
			x = 0
			y += chipHeight + 3
			rows++
		}
		out = append(out, chipPos{x: x, y: y, w: w, text: text})
		x += w + 4
	}
	return out, rows
}

// drawChips draws laid-out chips at the given origin: a light border box with
// the chip text inside.
func (d *Doc) drawChips(originX, originY float64, chips []chipPos) {
	if len(chips) == 0 {
		return
	}
	d.setFont(chipSize, false)
	d.pdf.SetDrawColor(150, 150, 150)
	d.pdf.SetTextColor(60, 60, 60)
	for _, chip := range chips {
		d.pdf.Rect(originX+chip.x, originY+chip.y, chip.w, chipHeight, "D")
		d.pdf.Text(originX+chip.x+4, originY+chip.y+chipHeight-3.5, chip.text)
	}
}
