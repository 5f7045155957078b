package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preop-assessment-server/internal/domain"
)

func advisoryTexts(items []domain.AdvisoryItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Text
	}
	return out
}

func TestAdvisories_EmptyRecordBaseline(t *testing.T) {
	result := scoreAt(t, domain.Record{}, testNow(t))

	// baseline is exactly the score statement plus the standing lab block
	require.Len(t, result.Advisories, 5)

	assert.Equal(t, "Estimated ASA physical status class: 1.", result.Advisories[0].Text)
	assert.Equal(t, domain.AdvisoryParagraph, result.Advisories[0].Kind)
	assert.False(t, result.Advisories[0].Bold)

	assert.Equal(t, "Recommended preoperative laboratory studies:", result.Advisories[1].Text)
	assert.Equal(t, domain.AdvisoryListItem, result.Advisories[2].Kind)
	assert.Equal(t, "Complete blood count (CBC)", result.Advisories[2].Text)
	assert.Equal(t, "Basic metabolic panel (BMP)", result.Advisories[3].Text)
	assert.Equal(t, "Coagulation studies (PT/INR, aPTT)", result.Advisories[4].Text)
}

func TestAdvisories_ScoreStatementBoldAtClass3(t *testing.T) {
	rec := healthRecord(map[string]any{
		"medical_history": map[string]any{"malignant_hyperthermia": true},
	})
	result := scoreAt(t, rec, testNow(t))

	assert.Equal(t, "Estimated ASA physical status class: 3.", result.Advisories[0].Text)
	assert.True(t, result.Advisories[0].Bold)
	assert.Contains(t, advisoryTexts(result.Advisories),
		"Elevated risk of perioperative complications. An anesthesia consultation prior to the day of surgery is recommended.")
	assert.Contains(t, advisoryTexts(result.Advisories),
		"History of malignant hyperthermia. A non-triggering anesthetic plan and immediate dantrolene availability are required.")
}

func TestAdvisories_MedicationReview(t *testing.T) {
	rec := healthRecord(map[string]any{
		"test_and_medication": map[string]any{
			"anticoagulants": true,
			"insulin":        true,
		},
	})
	result := scoreAt(t, rec, testNow(t))
	texts := advisoryTexts(result.Advisories)

	assert.Contains(t, texts, "Review the following medications with the prescribing physician before surgery:")
	assert.Contains(t, texts, "Anticoagulant / blood thinner")
	assert.Contains(t, texts, "Insulin or other diabetes medication")
}

func TestAdvisories_PregnancyTest(t *testing.T) {
	now := testNow(t)

	build := func(gender, dob string, hysterectomy bool) domain.Record {
		rec := domain.Record{
			"patient_information": map[string]any{
				"gender":        gender,
				"date_of_birth": dob,
			},
		}
		if hysterectomy {
			rec["health_assesment"] = map[string]any{
				"medical_history": map[string]any{"hysterectomy": true},
			}
		}
		return rec
	}

	const advisory = "A urine pregnancy test on the day of surgery is recommended."

	t.Run("Female_Of_Childbearing_Age", func(t *testing.T) {
		result := scoreAt(t, build("Female", "1990-05-01", false), now)
		assert.Contains(t, advisoryTexts(result.Advisories), advisory)
	})

	t.Run("Male", func(t *testing.T) {
		result := scoreAt(t, build("male", "1990-05-01", false), now)
		assert.NotContains(t, advisoryTexts(result.Advisories), advisory)
	})

	t.Run("After_Hysterectomy", func(t *testing.T) {
		result := scoreAt(t, build("female", "1990-05-01", true), now)
		assert.NotContains(t, advisoryTexts(result.Advisories), advisory)
	})

	t.Run("Outside_Age_Window", func(t *testing.T) {
		result := scoreAt(t, build("female", "1950-05-01", false), now)
		assert.NotContains(t, advisoryTexts(result.Advisories), advisory)
	})
}

func TestAdvisories_ECGGates(t *testing.T) {
	now := testNow(t)
	const ecg = "A 12-lead ECG is recommended."

	t.Run("Age_Over_50", func(t *testing.T) {
		rec := domain.Record{
			"patient_information": map[string]any{"date_of_birth": "1960-01-01"},
		}
		result := scoreAt(t, rec, now)
		assert.Contains(t, advisoryTexts(result.Advisories), ecg)
	})

	t.Run("Heart_Murmur", func(t *testing.T) {
		rec := healthRecord(map[string]any{
			"cardiovascular_health": map[string]any{"heart_murmur": true},
		})
		result := scoreAt(t, rec, now)
		assert.Contains(t, advisoryTexts(result.Advisories), ecg)
	})

	t.Run("Kidney_Section_Never_Triggers", func(t *testing.T) {
		// the gate reads the "kidneys" key, which intake forms never write
		rec := healthRecord(map[string]any{
			"kidney": map[string]any{"kidney_failure": true},
		})
		result := scoreAt(t, rec, now)
		assert.NotContains(t, advisoryTexts(result.Advisories), ecg)
	})
}

func TestAdvisories_ConditionalLabPanels(t *testing.T) {
	now := testNow(t)

	t.Run("Hepatic_Panel_For_Cirrhosis", func(t *testing.T) {
		rec := healthRecord(map[string]any{
			"medical_history": map[string]any{"cirrhosis": true},
		})
		result := scoreAt(t, rec, now)
		assert.Contains(t, advisoryTexts(result.Advisories), "Hepatic function panel")
	})

	t.Run("HbA1c_For_Diabetes", func(t *testing.T) {
		rec := healthRecord(map[string]any{
			"medical_history": map[string]any{"diabetes": true},
		})
		result := scoreAt(t, rec, now)
		assert.Contains(t, advisoryTexts(result.Advisories), "Hemoglobin A1c")
	})
}

func TestAdvisories_OptimizationBlocks(t *testing.T) {
	now := testNow(t)

	rec := healthRecord(map[string]any{
		"cardiovascular_health": map[string]any{"heart_failure": true},
		"respiratory_health": map[string]any{
			"copd": map[string]any{
				"copd":                 true,
				"hospitalization_copd": "Yes",
			},
		},
	})
	result := scoreAt(t, rec, now)

	var cardiac, medical, pulmonary *domain.AdvisoryItem
	for i := range result.Advisories {
		switch result.Advisories[i].Text {
		case "Cardiac optimization and cardiology clearance before surgery are recommended.":
			cardiac = &result.Advisories[i]
		case "Medical optimization before surgery is recommended.":
			medical = &result.Advisories[i]
		case "Pulmonary optimization before surgery is recommended.":
			pulmonary = &result.Advisories[i]
		}
	}

	require.NotNil(t, cardiac)
	assert.True(t, cardiac.Bold)
	require.NotNil(t, medical)
	assert.True(t, medical.Bold)
	require.NotNil(t, pulmonary)
	assert.False(t, pulmonary.Bold)
}

func TestAdvisories_SmokingAndUrinalysis(t *testing.T) {
	now := testNow(t)

	rec := healthRecord(map[string]any{
		"respiratory_health": map[string]any{"smoking": true},
		"kidney":             map[string]any{"urinary_pain": true},
	})
	result := scoreAt(t, rec, now)
	texts := advisoryTexts(result.Advisories)

	assert.Contains(t, texts, "Smoking cessation at least four weeks before surgery improves outcomes; cessation resources should be offered.")
	assert.Contains(t, texts, "A urinalysis is recommended given reported pain with urination.")
}
