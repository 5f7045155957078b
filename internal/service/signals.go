package service

import (
	"strings"
	"time"

	"github.com/preop-assessment-server/internal/domain"
	"github.com/preop-assessment-server/internal/extract"
)

// signals is the flat, typed projection of one questionnaire used by the rule
// cascade and the advisory pass. The raw record's near-total optionality is
// resolved exactly once here; rule predicates then read plain fields instead
// of chained lookups. Absent data degrades to the zero value (or Unknown for
// tri-states), which every rule treats as "not triggered".
type signals struct {
	now time.Time

	// patient_information
	bmi       float64 // 0 when not computable
	hasBMI    bool
	ageYears  int // -1 when date of birth is absent
	ageMonths int
	gender    string

	// tier-2 baseline findings
	physicalLimitations  bool
	snoring              bool
	sleepApnea           bool
	priorTransfusion     bool
	anemia               bool
	acidReflux           bool
	diabetes             bool
	thyroidDisease       bool
	smoker               bool
	alcoholDaily         bool
	pseudocholinesterase bool
	reviewMedications    []string // display names of set preoperative medication flags

	// cardiovascular
	heartFailure       bool
	heartAttack        bool
	heartAttackDate    time.Time
	heartStents        bool
	heartStentsDate    time.Time
	heartSurgery       bool
	heartSurgeryDate   time.Time
	peripheralVascular bool
	congenitalHeart    bool
	severeHypertension bool
	implantedDevice    bool
	chestPain          bool
	irregularHeartbeat bool
	heartMurmur        bool

	// respiratory
	asthma             bool
	asthmaHospitalized bool
	copd               bool
	copdHospitalized   bool
	recentPneumonia    bool
	supplementalOxygen bool
	shortnessOfBreath  bool

	// renal / hepatic
	kidneyFailure     bool
	dialysis          bool
	regularlyDialyzed domain.TriState
	urinaryPain       bool
	cirrhosis         bool
	hepatitis         bool

	// neuro
	muscularDisorder   bool
	neurologicDisorder bool
	recentSeizure      bool
	tiaStroke          bool
	tiaStrokeDate      time.Time

	// oncology / immune / history
	malignantHyperthermia    bool
	hivAIDS                  bool
	leukemiaLymphoma         bool
	chemotherapy             bool
	alcoholWithdrawalSeizure bool
	hysterectomy             bool
	hba1c                    float64

	// legacyKidneys reads the "kidneys" section key, which the intake forms
	// never populate (the data lives under "kidney"). The ECG and medical-
	// optimization gates have always read this key, so those gates never
	// fire on renal grounds.
	// TODO: confirm with the forms team whether these gates should read the
	// "kidney" section instead; changing it would alter issued advisories.
	legacyKidneys bool
}

// newSignals lifts a raw record into signals. It never fails: any missing
// subtree simply leaves the corresponding fields at their zero value.
func newSignals(rec domain.Record, now time.Time) *signals {
	ha := []string{domain.KeyHealthAssessment}
	cv := append(ha, domain.KeyCardiovascular)
	resp := append(ha, domain.KeyRespiratory)
	kid := append(ha, domain.KeyKidney)
	neuro := append(ha, domain.KeyNervesMuscles)
	hist := append(ha, domain.KeyMedicalHistory)

	s := &signals{now: now, ageYears: -1}

	pi := rec.Section(domain.KeyPatientInformation)
	s.gender = strings.ToLower(pi.Text("gender"))
	s.bmi, s.hasBMI = domain.BMI(pi.Number("height_feet"), pi.Number("height_inches"), pi.Number("weight"))
	if dob, ok := pi.Date("date_of_birth"); ok {
		s.ageYears = domain.YearsBetween(dob, now)
		s.ageMonths = domain.MonthsBetween(dob, now)
	}

	s.heartFailure = rec.Flag(append(cv, "heart_failure")...)
	s.heartAttack = rec.Flag(append(cv, "heart_attack")...)
	s.heartAttackDate, _ = rec.Date(append(cv, "heart_attack", "heart_attack_date")...)
	s.heartStents = rec.Flag(append(cv, "heart_stents")...)
	s.heartStentsDate, _ = rec.Date(append(cv, "heart_stents", "heart_stents_date")...)
	s.heartSurgery = rec.Flag(append(cv, "heart_surgery")...)
	s.heartSurgeryDate, _ = rec.Date(append(cv, "heart_surgery", "heart_surgery_date")...)
	s.peripheralVascular = rec.Flag(append(cv, "peripheral_vascular_disease")...)
	s.congenitalHeart = rec.Flag(append(cv, "congenital_heart_disease")...)
	s.severeHypertension = rec.Flag(append(cv, "severe_hypertension")...)
	s.implantedDevice = rec.Flag(append(cv, "implanted_device")...)
	s.chestPain = rec.Flag(append(cv, "chest_pain")...)
	s.irregularHeartbeat = rec.Flag(append(cv, "irregular_heartbeat")...)
	s.heartMurmur = rec.Flag(append(cv, "heart_murmur")...)

	s.asthma = rec.Flag(append(resp, "asthma")...)
	s.asthmaHospitalized = answeredYes(rec.Text(append(resp, "asthma", "hospitalization_asthma")...))
	s.copd = rec.Flag(append(resp, "copd")...)
	s.copdHospitalized = answeredYes(rec.Text(append(resp, "copd", "hospitalization_copd")...))
	s.recentPneumonia = rec.Flag(append(resp, "recent_pneumonia")...)
	s.supplementalOxygen = rec.Flag(append(resp, "supplemental_oxygen")...)
	s.shortnessOfBreath = rec.Flag(append(resp, "shortness_of_breath")...)
	s.sleepApnea = rec.Flag(append(resp, "sleep_apnea")...)
	s.snoring = rec.Flag(append(resp, "snoring")...)
	s.smoker = rec.Flag(append(resp, "smoking")...)

	s.kidneyFailure = rec.Flag(append(kid, "kidney_failure")...)
	s.dialysis = rec.Flag(append(kid, "kidney_failure", "dialysis")...)
	s.regularlyDialyzed = rec.Tri(append(kid, "kidney_failure", "regularly_dialyzed")...)
	s.urinaryPain = rec.Flag(append(kid, "urinary_pain")...)
	s.legacyKidneys = rec.Section(append(ha, "kidneys")...) != nil

	s.muscularDisorder = rec.Flag(append(neuro, "muscular_disorder")...)
	s.neurologicDisorder = rec.Flag(append(neuro, "neurologic_disorder")...)
	s.recentSeizure = rec.Flag(append(neuro, "recent_seizure")...)
	s.tiaStroke = rec.Flag(append(neuro, "tia_stroke")...)
	s.tiaStrokeDate, _ = rec.Date(append(neuro, "tia_stroke", "tia_stroke_date")...)

	s.malignantHyperthermia = rec.Flag(append(hist, "malignant_hyperthermia")...)
	s.pseudocholinesterase = rec.Flag(append(hist, "pseudocholinesterase_deficiency")...)
	s.physicalLimitations = rec.Flag(append(hist, "physical_limitations")...)
	s.priorTransfusion = rec.Flag(append(hist, "prior_transfusion")...)
	s.anemia = rec.Flag(append(hist, "anemia")...)
	s.acidReflux = rec.Flag(append(hist, "acid_reflux")...)
	s.diabetes = rec.Flag(append(hist, "diabetes")...)
	s.hba1c = rec.Number(append(hist, "diabetes", "hba1c")...)
	s.thyroidDisease = rec.Flag(append(hist, "thyroid_disease")...)
	s.cirrhosis = rec.Flag(append(hist, "cirrhosis")...)
	s.hepatitis = rec.Flag(append(hist, "hepatitis")...)
	s.hivAIDS = rec.Flag(append(hist, "hiv_aids")...)
	s.leukemiaLymphoma = rec.Flag(append(hist, "leukemia_lymphoma")...)
	s.chemotherapy = rec.Flag(append(hist, "chemotherapy")...)
	s.alcoholDaily = rec.Flag(append(hist, "alcohol_daily")...)
	s.alcoholWithdrawalSeizure = rec.Flag(append(hist, "alcohol_withdrawal_seizure")...)
	s.hysterectomy = rec.Flag(append(hist, "hysterectomy")...)

	s.reviewMedications = extract.PreopMedications(rec)

	return s
}

// answeredYes matches the categorical "yes" answers the forms produce.
func answeredYes(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "yes")
}

// anyCardiovascular reports whether any major cardiovascular condition flag
// is set. This is the same set the tier-3 rule and the cardiac-optimization
// advisory gate on.
func (s *signals) anyCardiovascular() bool {
	return s.heartFailure || s.heartAttack || s.peripheralVascular ||
		s.heartSurgery || s.congenitalHeart || s.severeHypertension ||
		s.implantedDevice
}

// anyCardiovascularFinding additionally includes the non-major findings used
// by the ECG gate.
func (s *signals) anyCardiovascularFinding() bool {
	return s.anyCardiovascular() || s.chestPain || s.irregularHeartbeat ||
		s.heartMurmur || s.heartStents
}

// anyASA2Baseline reports whether any of the fixed baseline tier-2 findings
// is present.
func (s *signals) anyASA2Baseline() bool {
	return s.physicalLimitations || s.snoring || s.sleepApnea ||
		s.priorTransfusion || s.anemia || s.acidReflux || s.diabetes ||
		s.thyroidDisease || s.smoker || s.alcoholDaily
}

// within reports whether event happened inside the given number of calendar
// months before now. A zero event time (date absent) never matches, so a flag
// without its date cannot trip a date rule.
func (s *signals) within(event time.Time, months int) bool {
	if event.IsZero() {
		return false
	}
	return event.After(s.now.AddDate(0, -months, 0))
}
