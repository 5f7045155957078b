package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/preop-assessment-server/internal/domain"
)

// attachment is a decoded uploaded image ready to place in the document.
type attachment struct {
	name   string
	kind   string
	data   []byte
	width  float64
	height float64
}

// decodeAttachment turns a base64 payload, with or without a data URI prefix,
// into a validated JPEG or PNG attachment. The image header is parsed before
// anything is handed to the PDF backend, so a corrupt upload fails here
// instead of poisoning the document.
func decodeAttachment(name, payload string) (*attachment, error) {
	raw := strings.TrimSpace(payload)
	if idx := strings.Index(raw, ","); idx >= 0 && strings.HasPrefix(raw, "data:") {
		raw = raw[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(raw); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUndecodableImage, err)
		}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUndecodableImage, err)
	}

	var kind string
	switch format {
	case "jpeg":
		kind = "JPG"
	case "png":
		kind = "PNG"
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedImage, format)
	}

	return &attachment{
		name:   name,
		kind:   kind,
		data:   data,
		width:  float64(cfg.Width),
		height: float64(cfg.Height),
	}, nil
}

// placeAttachment registers the image with the document and draws it at the
// cursor, scaled to the width budget. Large sources get a tighter budget so a
// full-page photo does not crowd the checkbox column.
func (d *Doc) placeAttachment(c Cursor, att *attachment) Cursor {
	budget := usableWidth * 0.55
	if att.width > 2*budget {
		budget *= 0.8
	}

	w := budget
	if att.width < budget {
		w = att.width
	}
	h := w * att.height / att.width

	c = d.EnsureSpace(c, h+10)
	d.use(c)

	d.pdf.RegisterImageOptionsReader(att.name,
		fpdf.ImageOptions{ImageType: att.kind}, bytes.NewReader(att.data))
	d.pdf.ImageOptions(att.name, marginLeft, c.Y, w, h, false,
		fpdf.ImageOptions{ImageType: att.kind}, 0, "")

	return Cursor{Page: c.Page, X: marginLeft, Y: c.Y + h + 10}
}

// checkbox draws a small checked box with a label to its right and returns
// the vertical space consumed.
func (d *Doc) checkbox(x, y float64, label string) float64 {
	const box = 9.0

	d.pdf.SetDrawColor(20, 20, 20)
	d.pdf.Rect(x, y, box, box, "D")
	d.pdf.Line(x+2, y+4.5, x+4, y+7)
	d.pdf.Line(x+4, y+7, x+7.5, y+2)

	d.setFont(valueSize, false)
	d.pdf.SetTextColor(20, 20, 20)
	d.pdf.Text(x+box+5, y+box-1.5, label)

	return box + 7
}

// Attachments renders the uploaded-documents page: images stacked down the
// left column, with review checkboxes and the flattened medication notes in
// the right column. Payloads that cannot be decoded are skipped with a
// warning so one bad upload never blocks the rest of the report.
func (d *Doc) Attachments(c Cursor, payloads []string, notes []string) Cursor {
	rightX := marginLeft + usableWidth*0.62
	startPage := c.Page

	d.use(c)
	y := c.Y
	y += d.checkbox(rightX, y, "Documents reviewed")
	y += d.checkbox(rightX, y, "Copies placed in chart")

	if len(notes) > 0 {
		d.setFont(labelSize, false)
		d.pdf.SetTextColor(120, 120, 120)
		y += 4
		for _, note := range notes {
			for _, line := range Wrap(d.width, note, usableWidth*0.38-10) {
				d.pdf.Text(rightX, y+labelSize, line)
				y += labelLine
			}
		}
	}

	for i, payload := range payloads {
		att, err := decodeAttachment(fmt.Sprintf("attachment-%d", i), payload)
		if err != nil {
			d.logger.WithField("index", i).WithError(err).Warn("Skipping attached image")
			continue
		}
		c = d.placeAttachment(c, att)
	}

	if c.Page == startPage && y > c.Y {
		c.Y = y
	}
	return c
}
