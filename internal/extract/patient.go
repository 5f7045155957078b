package extract

import (
	"fmt"
	"strconv"
	"time"

	"github.com/preop-assessment-server/internal/domain"
)

// PatientDetails projects patient_information into labeled field rows.
// Absent fields produce no row.
func PatientDetails(rec domain.Record, now time.Time) []domain.LabeledField {
	pi := rec.Section(domain.KeyPatientInformation)
	if pi == nil {
		return nil
	}

	var fields []domain.LabeledField
	add := func(label, value string) {
		if value == "" {
			return
		}
		fields = append(fields, domain.LabeledField{
			Label:     label,
			Value:     value,
			Emphasize: domain.Emphasized(label, value, now),
		})
	}

	add("First name", pi.Text("first_name"))
	add("Last name", pi.Text("last_name"))
	add("Date of birth", pi.Text("date_of_birth"))
	add("Gender", pi.Text("gender"))
	add("Phone", pi.Text("phone"))
	add("Email", pi.Text("email"))

	feet, inches := pi.Number("height_feet"), pi.Number("height_inches")
	if feet > 0 || inches > 0 {
		add("Height", fmt.Sprintf("%.0f ft %.0f in", feet, inches))
	}
	if w := pi.Number("weight"); w > 0 {
		add("Weight", fmt.Sprintf("%.0f lb", w))
	}

	add("Primary physician", pi.Text("primary_physician"))
	add("Planned procedure", pi.Text("planned_procedure"))

	return fields
}

// PatientName returns the display name used for report archiving.
func PatientName(rec domain.Record) string {
	pi := rec.Section(domain.KeyPatientInformation)
	first, last := pi.Text("first_name"), pi.Text("last_name")
	switch {
	case first != "" && last != "":
		return first + " " + last
	case last != "":
		return last
	default:
		return first
	}
}

// familyCatalog fixes the family-history rows shown under patient details.
var familyCatalog = []conditionSpec{
	{key: "family_malignant_hyperthermia", label: "Family history of malignant hyperthermia"},
	{key: "family_anesthesia_reaction", label: "Family history of anesthesia reactions"},
	{key: "family_bleeding_disorder", label: "Family history of bleeding disorders"},
}

// FamilyHistory extracts the anesthesia-relevant family history as labeled
// field rows.
func FamilyHistory(rec domain.Record, now time.Time) []domain.LabeledField {
	fam := rec.Section(domain.KeyHealthAssessment, domain.KeyMedicalHistory, "family")
	if fam == nil {
		return nil
	}

	var fields []domain.LabeledField
	for _, spec := range familyCatalog {
		if !fam.Flag(spec.key) {
			continue
		}
		fields = append(fields, domain.LabeledField{
			Label:     spec.label,
			Value:     "Yes",
			Emphasize: domain.Emphasized(spec.label, "Yes", now),
		})
	}
	return fields
}

// AgeItem derives the age line that prefixes the clinical findings list.
// Patients under two years are reported in months.
func AgeItem(rec domain.Record, now time.Time) (domain.RenderItem, bool) {
	dob, ok := rec.Section(domain.KeyPatientInformation).Date("date_of_birth")
	if !ok {
		return domain.RenderItem{}, false
	}

	years := domain.YearsBetween(dob, now)
	var value string
	if years < 2 {
		value = fmt.Sprintf("%d months", domain.MonthsBetween(dob, now))
	} else {
		value = fmt.Sprintf("%d years", years)
	}
	return domain.RenderItem{
		Label:   "Age",
		Details: []domain.Detail{{Name: "Value", Value: value}},
	}, true
}

// BMIItem derives the BMI line that prefixes the clinical findings list.
// When height or weight is missing the item is omitted entirely; no NaN or
// infinite value can reach the renderer.
func BMIItem(rec domain.Record, now time.Time) (domain.RenderItem, bool) {
	pi := rec.Section(domain.KeyPatientInformation)
	bmi, ok := domain.BMI(pi.Number("height_feet"), pi.Number("height_inches"), pi.Number("weight"))
	if !ok {
		return domain.RenderItem{}, false
	}

	// Emphasis consults the unrounded value: 39.96 renders as "40.0" but is
	// still below the threshold.
	return domain.RenderItem{
		Label:     "BMI",
		Details:   []domain.Detail{{Name: "Value", Value: domain.FormatBMI(bmi)}},
		Emphasize: domain.Emphasized("BMI", strconv.FormatFloat(bmi, 'f', -1, 64), now),
	}, true
}
