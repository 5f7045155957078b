package extract

import (
	"strings"

	"github.com/preop-assessment-server/internal/domain"
)

var medsPath = []string{domain.KeyHealthAssessment, domain.KeyTestAndMedication}

// PreopMedicationCatalog fixes the preoperative medication flags and their
// display names, in evaluation order. Both the medications section of the
// report and the medication-review advisories read this one catalog.
var PreopMedicationCatalog = []struct{ Key, Name string }{
	{"anticoagulants", "Anticoagulant / blood thinner"},
	{"insulin", "Insulin or other diabetes medication"},
	{"steroids", "Systemic corticosteroid"},
	{"opioids", "Chronic opioid"},
	{"mao_inhibitors", "MAO inhibitor"},
	{"immunosuppressants", "Immunosuppressant"},
}

// PreopMedications returns the display names of the preoperative medication
// flags that are set, in catalog order.
func PreopMedications(rec domain.Record) []string {
	var names []string
	for _, m := range PreopMedicationCatalog {
		if rec.Flag(append(medsPath, m.Key)...) {
			names = append(names, m.Name)
		}
	}
	return names
}

// MedicationsHeader is the header row of the past-month medications table.
// Widths are fractions of the table width.
var MedicationsHeader = []domain.TableCell{
	{Value: "Medication", Width: 0.4},
	{Value: "Dose", Width: 0.3},
	{Value: "Frequency", Width: 0.3},
}

// PastMonthMedications extracts the medications-taken table rows.
func PastMonthMedications(rec domain.Record) [][]domain.TableCell {
	entries := rec.Entries(append(medsPath, "current_medications")...)
	var rows [][]domain.TableCell
	for _, e := range entries {
		name := e.Text("name")
		if name == "" {
			continue
		}
		rows = append(rows, []domain.TableCell{
			{Value: name, Width: 0.4},
			{Value: e.Text("dose"), Width: 0.3},
			{Value: e.Text("frequency"), Width: 0.3},
		})
	}
	return rows
}

// MedicationNames returns the flattened list of reported medication names,
// used as the text list beside embedded document images.
func MedicationNames(rec domain.Record) []string {
	entries := rec.Entries(append(medsPath, "current_medications")...)
	var names []string
	for _, e := range entries {
		if name := e.Text("name"); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Allergies extracts the allergy chip list.
func Allergies(rec domain.Record) []string {
	return rec.Strings(append(medsPath, "allergies")...)
}

// DrugHistory extracts the recreational-drug chip list.
func DrugHistory(rec domain.Record) []string {
	return rec.Strings(domain.KeyHealthAssessment, domain.KeyMedicalHistory, "drug_use", "drugs")
}

// SurgeriesHeader is the header row of the prior-surgeries table.
var SurgeriesHeader = []domain.TableCell{
	{Value: "Surgery", Width: 0.7},
	{Value: "Year", Width: 0.3},
}

// PriorSurgeries extracts the prior-surgeries table rows.
func PriorSurgeries(rec domain.Record) [][]domain.TableCell {
	entries := rec.Entries(append(medsPath, "prior_surgeries")...)
	var rows [][]domain.TableCell
	for _, e := range entries {
		name := e.Text("surgery")
		if name == "" {
			continue
		}
		rows = append(rows, []domain.TableCell{
			{Value: name, Width: 0.7},
			{Value: e.Text("year"), Width: 0.3},
		})
	}
	return rows
}

// TestsHeader is the header row of the recent-tests table.
var TestsHeader = []domain.TableCell{
	{Value: "Test", Width: 0.4},
	{Value: "Date", Width: 0.3},
	{Value: "Result", Width: 0.3},
}

// RecentTests extracts the recent-tests table rows.
func RecentTests(rec domain.Record) [][]domain.TableCell {
	entries := rec.Entries(append(medsPath, "recent_tests")...)
	var rows [][]domain.TableCell
	for _, e := range entries {
		name := e.Text("test")
		if name == "" {
			continue
		}
		rows = append(rows, []domain.TableCell{
			{Value: name, Width: 0.4},
			{Value: e.Text("date"), Width: 0.3},
			{Value: e.Text("result"), Width: 0.3},
		})
	}
	return rows
}

// AdditionalIllnesses returns the free-text additional-illnesses field.
func AdditionalIllnesses(rec domain.Record) string {
	return rec.Text(domain.KeyHealthAssessment, domain.KeyMedicalHistory, "additional_illnesses")
}

// Comments returns the free-text comments field.
func Comments(rec domain.Record) string {
	return rec.Text(append(medsPath, "comments")...)
}

// ImagePayloads returns the uploaded document images (base64 payloads,
// possibly data URIs). Decoding and MIME validation happen in the renderer.
func ImagePayloads(rec domain.Record) []string {
	return rec.Strings("images")
}

// Consent extracts the signed-consent section, if present.
func Consent(rec domain.Record) domain.ConsentData {
	c := rec.Section("consent")
	if c == nil || !c.Flag("agreed") {
		return domain.ConsentData{}
	}
	return domain.ConsentData{
		Present:    true,
		SignedName: strings.TrimSpace(c.Text("signed_name")),
		Signature:  c.Text("signature"),
	}
}
