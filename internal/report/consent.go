package report

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/preop-assessment-server/internal/domain"
)

const consentText = "I certify that the answers given in this health " +
	"questionnaire are true and complete to the best of my knowledge. I " +
	"understand that this information will be used by the anesthesia care " +
	"team to plan my care, and that withholding or misstating information " +
	"about my health may increase the risk of complications during " +
	"anesthesia. I authorize the facility to share this questionnaire with " +
	"the physicians and staff involved in my procedure."

// ConsentPage renders the signed-consent page on its own page: the consent
// statement, the captured signature image, the printed name, and a date
// stamp.
func (d *Doc) ConsentPage(consent domain.ConsentData, now time.Time) Cursor {
	c := d.NewPage()
	c = d.SubHeading(c, "Patient consent")
	c = d.Paragraph(c, consentText, false)
	c.Y += 16

	if consent.Signature != "" {
		att, err := decodeAttachment("consent-signature", consent.Signature)
		if err != nil {
			d.logger.WithError(err).Warn("Skipping consent signature image")
		} else {
			w := 180.0
			if att.width < w {
				w = att.width
			}
			h := w * att.height / att.width
			c = d.EnsureSpace(c, h+6)
			d.use(c)
			d.placeSignature(c, att, w, h)
			c.Y += h + 6
		}
	}

	d.use(c)
	d.setFont(valueSize, false)
	d.pdf.SetTextColor(20, 20, 20)
	d.pdf.Text(marginLeft, c.Y+valueSize, "Signed: "+consent.SignedName)
	c.Y += valueLine

	d.setFont(labelSize, false)
	d.pdf.SetTextColor(120, 120, 120)
	d.pdf.Text(marginLeft, c.Y+labelSize, now.Format("January 2, 2006"))
	c.Y += labelLine

	return c
}

func (d *Doc) placeSignature(c Cursor, att *attachment, w, h float64) {
	opts := fpdf.ImageOptions{ImageType: att.kind}
	d.pdf.RegisterImageOptionsReader(att.name, opts, bytes.NewReader(att.data))
	d.pdf.ImageOptions(att.name, marginLeft, c.Y, w, h, false, opts, 0, "")
}
