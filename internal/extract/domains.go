package extract

import (
	"time"

	"github.com/preop-assessment-server/internal/domain"
)

// The per-domain catalogs below fix both the condition keys read from the
// record and the clinical presentation order of the summary. Order is
// intentional (most anesthesia-relevant findings first), not alphabetical.

var cardiovascularCatalog = []conditionSpec{
	{key: "severe_hypertension", label: "Severe hypertension"},
	{key: "heart_failure", label: "Heart failure"},
	{key: "heart_attack", label: "Heart attack", details: []detailSpec{
		{key: "heart_attack_date", name: "Date", kind: detailDate},
	}},
	{key: "heart_stents", label: "Heart stents", details: []detailSpec{
		{key: "heart_stents_date", name: "Date", kind: detailDate},
	}},
	{key: "heart_surgery", label: "Heart surgery", details: []detailSpec{
		{key: "heart_surgery_date", name: "Date", kind: detailDate},
	}},
	{key: "congenital_heart_disease", label: "Congenital heart disease"},
	{key: "peripheral_vascular_disease", label: "Peripheral vascular disease"},
	{key: "implanted_device", label: "Pacemaker or implanted defibrillator", details: []detailSpec{
		{key: "implanted_device_type", name: "Type", kind: detailText},
	}},
	{key: "chest_pain", label: "Chest pain"},
	{key: "irregular_heartbeat", label: "Irregular heartbeat"},
	{key: "heart_murmur", label: "Heart murmur"},
	{key: "leg_swelling", label: "Leg swelling"},
}

var respiratoryCatalog = []conditionSpec{
	{key: "copd", label: "COPD", details: []detailSpec{
		{key: "hospitalization_copd", name: "Hospitalized", kind: detailText},
	}},
	{key: "asthma", label: "Asthma", details: []detailSpec{
		{key: "hospitalization_asthma", name: "Hospitalized", kind: detailText},
	}},
	{key: "supplemental_oxygen", label: "Supplemental oxygen use"},
	{key: "sleep_apnea", label: "Sleep apnea", details: []detailSpec{
		{key: "cpap", name: "CPAP", kind: detailFlag},
		{key: "cpap_pressure", name: "CPAP pressure", kind: detailNumber},
	}},
	{key: "snoring", label: "Snoring"},
	{key: "shortness_of_breath", label: "Shortness of breath"},
	{key: "recent_pneumonia", label: "Recent pneumonia"},
	{key: "smoking", label: "Current smoker", details: []detailSpec{
		{key: "packs_per_day", name: "Packs/day", kind: detailNumber},
		{key: "years_smoked", name: "Years", kind: detailNumber},
	}},
	{key: "bronchitis", label: "Chronic bronchitis"},
	{key: "tuberculosis", label: "Tuberculosis"},
}

var kidneyCatalog = []conditionSpec{
	{key: "kidney_failure", label: "Kidney failure", details: []detailSpec{
		{key: "dialysis", name: "Dialysis", kind: detailFlag},
		{key: "regularly_dialyzed", name: "Regularly dialyzed", kind: detailTri},
	}},
	{key: "kidney_stones", label: "Kidney stones"},
	{key: "urinary_tract_infection", label: "Urinary tract infection"},
	{key: "urinary_pain", label: "Pain with urination"},
}

var nervesMusclesCatalog = []conditionSpec{
	{key: "muscular_disorder", label: "Muscular disorder"},
	{key: "neurologic_disorder", label: "Neurologic disorder"},
	{key: "recent_seizure", label: "Seizure in the last year"},
	{key: "tia_stroke", label: "TIA or stroke", details: []detailSpec{
		{key: "tia_stroke_date", name: "Date", kind: detailDate},
	}},
	{key: "migraines", label: "Migraines"},
	{key: "numbness_tingling", label: "Numbness or tingling"},
	{key: "fainting", label: "Fainting spells"},
}

var medicalHistoryCatalog = []conditionSpec{
	{key: "malignant_hyperthermia", label: "Malignant hyperthermia"},
	{key: "pseudocholinesterase_deficiency", label: "Pseudocholinesterase deficiency"},
	{key: "breathing_tube_problem", label: "Problem with breathing tube placement"},
	{key: "prior_transfusion", label: "Prior blood transfusion"},
	{key: "anemia", label: "Anemia"},
	{key: "physical_limitations", label: "Physical limitations"},
	{key: "acid_reflux", label: "Acid reflux or heartburn"},
	{key: "diabetes", label: "Diabetes", details: []detailSpec{
		{key: "hba1c", name: "HbA1c", kind: detailNumber},
	}},
	{key: "thyroid_disease", label: "Thyroid disease"},
	{key: "cirrhosis", label: "Cirrhosis"},
	{key: "hepatitis", label: "Hepatitis"},
	{key: "hiv_aids", label: "HIV / AIDS"},
	{key: "leukemia_lymphoma", label: "Leukemia or lymphoma"},
	{key: "chemotherapy", label: "Chemotherapy", details: []detailSpec{
		{key: "chemotherapy_date", name: "Date", kind: detailDate},
	}},
	{key: "alcohol_daily", label: "Daily alcohol use"},
	{key: "alcohol_withdrawal_seizure", label: "Alcohol withdrawal seizure"},
	{key: "hysterectomy", label: "Hysterectomy"},
}

// Cardiovascular extracts the cardiovascular findings in presentation order.
func Cardiovascular(rec domain.Record, now time.Time) []domain.RenderItem {
	return domainItems(rec, domain.KeyCardiovascular, cardiovascularCatalog, now)
}

// Respiratory extracts the respiratory findings in presentation order.
func Respiratory(rec domain.Record, now time.Time) []domain.RenderItem {
	return domainItems(rec, domain.KeyRespiratory, respiratoryCatalog, now)
}

// Kidney extracts the renal and urinary findings in presentation order.
func Kidney(rec domain.Record, now time.Time) []domain.RenderItem {
	return domainItems(rec, domain.KeyKidney, kidneyCatalog, now)
}

// NervesMuscles extracts the neuromuscular findings in presentation order.
func NervesMuscles(rec domain.Record, now time.Time) []domain.RenderItem {
	return domainItems(rec, domain.KeyNervesMuscles, nervesMusclesCatalog, now)
}

// MedicalHistory extracts the general-history findings in presentation order.
func MedicalHistory(rec domain.Record, now time.Time) []domain.RenderItem {
	return domainItems(rec, domain.KeyMedicalHistory, medicalHistoryCatalog, now)
}

// AllDomains concatenates every clinical domain's findings in the fixed
// section order used by the report.
func AllDomains(rec domain.Record, now time.Time) []domain.RenderItem {
	var items []domain.RenderItem
	items = append(items, Cardiovascular(rec, now)...)
	items = append(items, Respiratory(rec, now)...)
	items = append(items, Kidney(rec, now)...)
	items = append(items, NervesMuscles(rec, now)...)
	items = append(items, MedicalHistory(rec, now)...)
	return items
}
