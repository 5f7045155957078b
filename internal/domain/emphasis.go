package domain

import (
	"strconv"
	"strings"
	"time"
)

// emphasisLabels is the fixed set of labels that always render bold,
// independent of the reported value. These mark findings an anesthesiologist
// must not miss when skimming the summary.
var emphasisLabels = map[string]bool{
	"Heart failure":                      true,
	"Heart attack":                       true,
	"Peripheral vascular disease":        true,
	"Heart surgery":                      true,
	"Congenital heart disease":           true,
	"Severe hypertension":                true,
	"Pacemaker or implanted defibrillator": true,
	"Malignant hyperthermia":             true,
	"Problem with breathing tube placement": true,
	"Supplemental oxygen use":            true,
	"Kidney failure":                     true,
	"Cirrhosis":                          true,
	"TIA or stroke":                      true,
	"Seizure in the last year":           true,
}

// Emphasized is the single emphasis predicate consulted for every rendered
// clinical value. Extractors call it once per produced row or chip; renderers
// honor the resulting flag, so the decision cannot drift between the field,
// list, and chip render paths.
func Emphasized(label, value string, now time.Time) bool {
	if emphasisLabels[label] {
		return true
	}

	switch label {
	case "BMI":
		if n, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return n >= 40
		}
	case "CPAP pressure":
		if n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(value, "cmH2O")), 64); err == nil {
			return n >= 14
		}
	case "HbA1c":
		if n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(value, "%")), 64); err == nil {
			return n >= 9
		}
	case "Dialysis", "Hospitalized":
		return strings.EqualFold(strings.TrimSpace(value), "yes")
	case "Date of birth":
		if dob, ok := ParseDate(value); ok {
			return YearsBetween(dob, now) > 70
		}
	}
	return false
}
