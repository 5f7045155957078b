package report

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/preop-assessment-server/internal/domain"
	"github.com/preop-assessment-server/internal/extract"
)

// Generator assembles a complete assessment document from a raw record.
type Generator struct {
	logger *logrus.Logger
}

func NewGenerator(logger *logrus.Logger) *Generator {
	return &Generator{logger: logger}
}

// Generate renders the full document and returns the serialized bytes and
// the page count. Sections with no data are skipped entirely, so a sparse
// record produces a short document rather than a trail of empty headings.
func (g *Generator) Generate(ctx context.Context, rec domain.Record, now time.Time) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	name := extract.PatientName(rec)
	doc := NewDoc(g.logger)
	c := doc.Start()

	g.logger.WithFields(logrus.Fields{
		"patient": name,
	}).Debug("Assembling assessment document")

	c = doc.titleBlock(c, name, now)

	if fields := extract.PatientDetails(rec, now); len(fields) > 0 {
		c = doc.FieldRows(c, fields)
	}
	if fields := extract.FamilyHistory(rec, now); len(fields) > 0 {
		c = doc.SubHeading(c, "Family history")
		c = doc.FieldRows(c, fields)
	}

	c = g.healthAssessment(doc, c, rec, now)
	c = g.medications(doc, c, rec)

	if allergies := extract.Allergies(rec); len(allergies) > 0 {
		c = doc.SubHeading(c, "Allergies")
		c = doc.ChipList(c, allergies)
	}
	if drugs := extract.DrugHistory(rec); len(drugs) > 0 {
		c = doc.SubHeading(c, "Drug history")
		c = doc.ChipList(c, drugs)
	}
	if surgeries := extract.PriorSurgeries(rec); len(surgeries) > 0 {
		c = doc.SubHeading(c, "Prior surgeries")
		c = doc.Table(c, extract.SurgeriesHeader, surgeries)
	}
	if comments := extract.Comments(rec); comments != "" {
		c = doc.SubHeading(c, "Comments")
		c = doc.FullWidthField(c, domain.LabeledField{Label: "Patient comments", Value: comments})
	}
	if tests := extract.RecentTests(rec); len(tests) > 0 {
		c = doc.SubHeading(c, "Recent tests")
		c = doc.Table(c, extract.TestsHeader, tests)
	}

	if consent := extract.Consent(rec); consent.Present {
		c = doc.ConsentPage(consent, now)
	}
	if payloads := extract.ImagePayloads(rec); len(payloads) > 0 {
		c = doc.NewPage()
		c = doc.SubHeading(c, "Attached documents")
		doc.Attachments(c, payloads, extract.MedicationNames(rec))
	}

	out, err := doc.Output()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrDocumentSerialization, err)
	}
	return out, doc.PageCount(), nil
}

// healthAssessment renders the clinical-domain section: the heading, an age
// line and a BMI line when computable, then every domain's findings in two
// columns.
func (g *Generator) healthAssessment(doc *Doc, c Cursor, rec domain.Record, now time.Time) Cursor {
	var prefix []domain.RenderItem
	if age, ok := extract.AgeItem(rec, now); ok {
		prefix = append(prefix, age)
	}
	if bmi, ok := extract.BMIItem(rec, now); ok {
		prefix = append(prefix, bmi)
	}

	items := append(prefix, extract.AllDomains(rec, now)...)
	if len(items) == 0 {
		return c
	}

	c = doc.SubHeading(c, "Health assessment")
	c = doc.DetailList(c, items, 2)

	if illnesses := extract.AdditionalIllnesses(rec); illnesses != "" {
		c = doc.FullWidthField(c, domain.LabeledField{Label: "Additional illnesses", Value: illnesses})
	}
	return c
}

// medications renders the medication-review chips and the past-month
// medications table under one heading.
func (g *Generator) medications(doc *Doc, c Cursor, rec domain.Record) Cursor {
	review := extract.PreopMedications(rec)
	pastMonth := extract.PastMonthMedications(rec)
	if len(review) == 0 && len(pastMonth) == 0 {
		return c
	}

	c = doc.SubHeading(c, "Medications")
	if len(review) > 0 {
		c = doc.ChipList(c, review)
	}
	if len(pastMonth) > 0 {
		c.Y += 4
		c = doc.Table(c, extract.MedicationsHeader, pastMonth)
	}
	return c
}

// titleBlock draws the document title and the generation date stamp.
func (d *Doc) titleBlock(c Cursor, patientName string, now time.Time) Cursor {
	d.use(c)

	d.setFont(16, true)
	d.pdf.SetTextColor(20, 20, 20)
	title := "Pre-anesthesia health assessment"
	if patientName != "" {
		title += " - " + patientName
	}
	d.pdf.Text(marginLeft, c.Y+16, title)

	d.setFont(labelSize, false)
	d.pdf.SetTextColor(120, 120, 120)
	d.pdf.Text(marginLeft, c.Y+16+labelLine+2, "Generated "+now.Format("January 2, 2006"))

	return Cursor{Page: c.Page, X: marginLeft, Y: c.Y + 16 + labelLine + 14}
}
