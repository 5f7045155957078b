package domain

import (
	"fmt"
	"time"
)

// AdvisoryKind distinguishes free-standing paragraphs from list items when the
// advisory list is rendered (PDF or the dispatcher's HTML form).
type AdvisoryKind string

const (
	AdvisoryParagraph AdvisoryKind = "paragraph"
	AdvisoryListItem  AdvisoryKind = "listitem"
)

// AdvisoryItem is one clinical recommendation produced by the risk engine.
type AdvisoryItem struct {
	Text string       `json:"text"`
	Bold bool         `json:"bold"`
	Kind AdvisoryKind `json:"kind"`
}

// ScoreResult is the outcome of one scoring pass: an ordinal physical-status
// class (1 healthy .. 4 severe systemic disease) and the ordered advisory
// list. Created fresh per call; never cached across records.
type ScoreResult struct {
	Score      int            `json:"score"`
	Advisories []AdvisoryItem `json:"advisories"`
}

// Paragraph appends a paragraph advisory.
func (s *ScoreResult) Paragraph(text string, bold bool) {
	s.Advisories = append(s.Advisories, AdvisoryItem{Text: text, Bold: bold, Kind: AdvisoryParagraph})
}

// ListItem appends a list-item advisory.
func (s *ScoreResult) ListItem(text string, bold bool) {
	s.Advisories = append(s.Advisories, AdvisoryItem{Text: text, Bold: bold, Kind: AdvisoryListItem})
}

// Detail is a named attribute rendered as an inline chip next to a list item,
// e.g. {Name: "Dose", Value: "20 mg"}.
type Detail struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RenderItem is one presentation row produced by the field extractors: a
// label plus zero or more detail chips. Emphasize is derived once, through
// the canonical emphasis table, at extraction time.
type RenderItem struct {
	Label     string   `json:"label"`
	Details   []Detail `json:"details,omitempty"`
	Emphasize bool     `json:"emphasize"`
}

// LabeledField is a key/value presentation pair for the field-row renderer.
type LabeledField struct {
	Label     string `json:"label"`
	Value     string `json:"value"`
	Emphasize bool   `json:"emphasize"`
}

// TableCell is one cell of a fixed-grid table section. Width is the cell's
// share of the table width in points.
type TableCell struct {
	Value string
	Width float64
}

// ConsentData is the signed-consent payload attached to a record. Present is
// false when the questionnaire carried no consent section, in which case no
// consent page is rendered.
type ConsentData struct {
	Present    bool
	SignedName string
	Signature  string // base64 image payload, possibly a data URI
}

// ReportMeta is the archived metadata of one generated report. The input
// record itself is deliberately not persisted here.
type ReportMeta struct {
	ID          string         `json:"id"`
	PatientName string         `json:"patient_name"`
	Score       int            `json:"score"`
	Advisories  []AdvisoryItem `json:"advisories"`
	PageCount   int            `json:"page_count"`
	CreatedAt   time.Time      `json:"created_at"`
}

// BMI computes body mass index from imperial measurements. The boolean is
// false when height or weight is missing or zero, in which case no BMI value
// exists and nothing downstream may render one.
func BMI(heightFeet, heightInches, weightPounds float64) (float64, bool) {
	totalInches := heightFeet*12 + heightInches
	if totalInches <= 0 || weightPounds <= 0 {
		return 0, false
	}
	return weightPounds * 703 / (totalInches * totalInches), true
}

// FormatBMI renders a BMI value the way the report and chips display it.
func FormatBMI(bmi float64) string {
	return fmt.Sprintf("%.1f", bmi)
}
