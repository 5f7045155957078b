// Package domain contains the core entities for pre-anesthesia health
// assessment: the raw questionnaire record, the risk score and advisory
// structures, and the presentation rows consumed by the report layout engine.
package domain

import (
	"strconv"
	"strings"
	"time"
)

// Record is one health-assessment questionnaire as submitted by the intake
// form: a deeply nested JSON-shaped mapping keyed by clinical domain. Every
// path may be absent; absence means "not reported" and is never an error.
// A Record is read-only for the duration of a scoring or rendering pass.
type Record map[string]any

// Top-level and clinical-domain keys. The "health_assesment" spelling is
// what the intake forms have always produced and is preserved as-is.
const (
	KeyPatientInformation = "patient_information"
	KeyHealthAssessment   = "health_assesment"
	KeyCardiovascular     = "cardiovascular_health"
	KeyRespiratory        = "respiratory_health"
	KeyKidney             = "kidney"
	KeyNervesMuscles      = "nerves_muscles"
	KeyMedicalHistory     = "medical_history"
	KeyTestAndMedication  = "test_and_medication"
)

// Section walks the nested maps along path and returns the sub-record there.
// Any missing or non-map element yields a nil Record, on which every other
// accessor safely reports "absent".
func (r Record) Section(path ...string) Record {
	cur := r
	for _, key := range path {
		if cur == nil {
			return nil
		}
		switch v := cur[key].(type) {
		case Record:
			cur = v
		case map[string]any:
			cur = Record(v)
		default:
			return nil
		}
	}
	return cur
}

// Flag reports whether the condition at path is affirmatively set. A condition
// leaf is either a bare boolean or a sub-map that repeats the condition key as
// its flag field, e.g. {"heart_attack": {"heart_attack": true, ...}}.
func (r Record) Flag(path ...string) bool {
	return r.Tri(path...) == True
}

// Tri returns the tri-state value of the boolean leaf at path. Only an
// explicitly present boolean maps to True or False; everything else is
// Unknown. Callers that must distinguish "answered no" from "not asked"
// (the dialysis rule) read this instead of Flag.
func (r Record) Tri(path ...string) TriState {
	if len(path) == 0 {
		return Unknown
	}
	parent := r.Section(path[:len(path)-1]...)
	if parent == nil {
		return Unknown
	}
	key := path[len(path)-1]
	switch v := parent[key].(type) {
	case bool:
		return triFromBool(v)
	case map[string]any:
		if b, ok := v[key].(bool); ok {
			return triFromBool(b)
		}
	case Record:
		if b, ok := v[key].(bool); ok {
			return triFromBool(b)
		}
	}
	return Unknown
}

// Text returns the string leaf at path, or "" when absent or not a string.
func (r Record) Text(path ...string) string {
	if len(path) == 0 {
		return ""
	}
	parent := r.Section(path[:len(path)-1]...)
	if parent == nil {
		return ""
	}
	s, _ := parent[path[len(path)-1]].(string)
	return strings.TrimSpace(s)
}

// Number returns the numeric leaf at path. JSON numbers arrive as float64;
// intake forms occasionally submit numerics as strings, which are parsed.
// Absent or unparsable values yield 0.
func (r Record) Number(path ...string) float64 {
	if len(path) == 0 {
		return 0
	}
	parent := r.Section(path[:len(path)-1]...)
	if parent == nil {
		return 0
	}
	switch v := parent[path[len(path)-1]].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// Date parses the date leaf at path. Forms submit ISO dates (2006-01-02);
// full RFC 3339 timestamps are tolerated. The second return is false when
// the leaf is absent or unparsable.
func (r Record) Date(path ...string) (time.Time, bool) {
	return ParseDate(r.Text(path...))
}

// Strings returns the string-slice leaf at path (e.g. an allergy list).
// Non-string elements are skipped.
func (r Record) Strings(path ...string) []string {
	if len(path) == 0 {
		return nil
	}
	parent := r.Section(path[:len(path)-1]...)
	if parent == nil {
		return nil
	}
	raw, ok := parent[path[len(path)-1]].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// Entries returns the list-of-maps leaf at path (medication rows, prior
// surgeries, tests). Non-map elements are skipped.
func (r Record) Entries(path ...string) []Record {
	if len(path) == 0 {
		return nil
	}
	parent := r.Section(path[:len(path)-1]...)
	if parent == nil {
		return nil
	}
	raw, ok := parent[path[len(path)-1]].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(raw))
	for _, e := range raw {
		switch m := e.(type) {
		case map[string]any:
			out = append(out, Record(m))
		case Record:
			out = append(out, m)
		}
	}
	return out
}

// ParseDate parses a form-submitted date string.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TriState is an explicit unknown/false/true value for questionnaire booleans.
// JSON optionality makes "absent" and "false" distinct clinical answers; the
// dialysis rule in particular fires only on an explicit false.
type TriState int

const (
	Unknown TriState = iota
	False
	True
)

func triFromBool(b bool) TriState {
	if b {
		return True
	}
	return False
}

// String returns the tri-state as a form answer.
func (t TriState) String() string {
	switch t {
	case True:
		return "Yes"
	case False:
		return "No"
	default:
		return "Unknown"
	}
}

// YearsBetween returns the calendar-year age difference between dob and now.
// Month-level precision is intentionally not used here; patients under two
// years are handled separately via MonthsBetween.
func YearsBetween(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if years < 0 {
		return 0
	}
	return years
}

// MonthsBetween returns the whole calendar months between dob and now.
func MonthsBetween(dob, now time.Time) int {
	months := (now.Year()-dob.Year())*12 + int(now.Month()) - int(dob.Month())
	if now.Day() < dob.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
