package service

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preop-assessment-server/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress logs during testing
	return logger
}

func testNow(t *testing.T) time.Time {
	t.Helper()
	now, err := time.Parse("2006-01-02", "2026-03-01")
	require.NoError(t, err)
	return now
}

func scoreAt(t *testing.T, rec domain.Record, now time.Time) *domain.ScoreResult {
	t.Helper()
	return NewRiskEngine(testLogger()).evaluateAt(rec, now)
}

// healthRecord builds a record with the given health-assessment sections.
func healthRecord(sections map[string]any) domain.Record {
	return domain.Record{"health_assesment": sections}
}

func TestRiskEngine_HealthyRecord(t *testing.T) {
	now := testNow(t)

	t.Run("Empty_Record", func(t *testing.T) {
		result := scoreAt(t, domain.Record{}, now)
		assert.Equal(t, 1, result.Score)
	})

	t.Run("Normal_BMI_No_Flags", func(t *testing.T) {
		rec := domain.Record{
			"patient_information": map[string]any{
				"height_feet":   5,
				"height_inches": 7,
				"weight":        160,
			},
		}
		result := scoreAt(t, rec, now)
		assert.Equal(t, 1, result.Score)
	})
}

func TestRiskEngine_BMITiers(t *testing.T) {
	now := testNow(t)

	bmiRecord := func(weight float64) domain.Record {
		return domain.Record{
			"patient_information": map[string]any{
				"height_feet":   5,
				"height_inches": 7,
				"weight":        weight,
			},
		}
	}

	tests := []struct {
		name   string
		weight float64
		want   int
	}{
		{"Underweight", 110, 2},   // BMI ~17.2
		{"Normal", 160, 1},        // BMI ~25.1
		{"Obese", 200, 2},         // BMI ~31.3
		{"Morbidly_Obese", 290, 3}, // BMI ~45.4
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scoreAt(t, bmiRecord(tt.weight), now)
			assert.Equal(t, tt.want, result.Score)
		})
	}
}

func TestRiskEngine_DialysisTriState(t *testing.T) {
	now := testNow(t)

	kidneyRecord := func(failure map[string]any) domain.Record {
		return healthRecord(map[string]any{
			"kidney": map[string]any{"kidney_failure": failure},
		})
	}

	t.Run("Explicit_Not_Regularly_Dialyzed_Is_Class_4", func(t *testing.T) {
		rec := kidneyRecord(map[string]any{
			"kidney_failure":     true,
			"dialysis":           true,
			"regularly_dialyzed": false,
		})
		result := scoreAt(t, rec, now)
		assert.Equal(t, 4, result.Score)
	})

	t.Run("Absent_Answer_Is_Not_False", func(t *testing.T) {
		rec := kidneyRecord(map[string]any{
			"kidney_failure": true,
			"dialysis":       true,
		})
		result := scoreAt(t, rec, now)
		// kidney failure alone is class 3; the tier-4 rule must not fire
		assert.Equal(t, 3, result.Score)
	})

	t.Run("Regular_Dialysis_Stays_Class_3", func(t *testing.T) {
		rec := kidneyRecord(map[string]any{
			"kidney_failure":     true,
			"dialysis":           true,
			"regularly_dialyzed": true,
		})
		result := scoreAt(t, rec, now)
		assert.Equal(t, 3, result.Score)
	})
}

func TestRiskEngine_Monotonicity(t *testing.T) {
	now := testNow(t)

	// add flags one at a time; the score must never decrease
	additions := []struct {
		section string
		key     string
	}{
		{"medical_history", "acid_reflux"},
		{"respiratory_health", "snoring"},
		{"medical_history", "malignant_hyperthermia"},
		{"cardiovascular_health", "heart_failure"},
		{"respiratory_health", "supplemental_oxygen"},
	}

	sections := map[string]any{}
	prev := 0
	for _, add := range additions {
		section, _ := sections[add.section].(map[string]any)
		if section == nil {
			section = map[string]any{}
			sections[add.section] = section
		}
		section[add.key] = true

		result := scoreAt(t, healthRecord(sections), now)
		assert.GreaterOrEqual(t, result.Score, prev, "adding %s lowered the score", add.key)
		prev = result.Score
	}
	assert.Equal(t, 4, prev)
}

func TestRiskEngine_RecentHeartAttack(t *testing.T) {
	now := testNow(t)
	tenDaysAgo := now.AddDate(0, 0, -10).Format("2006-01-02")

	rec := domain.Record{
		"patient_information": map[string]any{
			"height_feet":   5,
			"height_inches": 7,
			"weight":        160,
		},
		"health_assesment": map[string]any{
			"cardiovascular_health": map[string]any{
				"heart_attack": map[string]any{
					"heart_attack":      true,
					"heart_attack_date": tenDaysAgo,
				},
			},
		},
	}

	result := scoreAt(t, rec, now)
	assert.Equal(t, 4, result.Score)

	var delay *domain.AdvisoryItem
	for i := range result.Advisories {
		if result.Advisories[i].Text == "Consider delaying the procedure: a major cardiac or neurologic event occurred within the last 12 months." {
			delay = &result.Advisories[i]
		}
	}
	require.NotNil(t, delay, "expected a delay advisory")
	assert.True(t, delay.Bold)
}

func TestRiskEngine_OldHeartAttackIsClass3(t *testing.T) {
	now := testNow(t)
	fiveYearsAgo := now.AddDate(-5, 0, 0).Format("2006-01-02")

	rec := healthRecord(map[string]any{
		"cardiovascular_health": map[string]any{
			"heart_attack": map[string]any{
				"heart_attack":      true,
				"heart_attack_date": fiveYearsAgo,
			},
		},
	})

	result := scoreAt(t, rec, now)
	assert.Equal(t, 3, result.Score)
}

func TestRiskEngine_AsthmaHospitalization(t *testing.T) {
	now := testNow(t)

	t.Run("Hospitalized_Is_Class_3", func(t *testing.T) {
		rec := healthRecord(map[string]any{
			"respiratory_health": map[string]any{
				"asthma": map[string]any{
					"asthma":                 true,
					"hospitalization_asthma": "Yes",
				},
			},
		})
		result := scoreAt(t, rec, now)
		assert.Equal(t, 3, result.Score)
	})

	t.Run("Not_Hospitalized_Does_Not_Raise", func(t *testing.T) {
		rec := healthRecord(map[string]any{
			"respiratory_health": map[string]any{
				"asthma": map[string]any{
					"asthma":                 true,
					"hospitalization_asthma": "No",
				},
			},
		})
		result := scoreAt(t, rec, now)
		assert.Equal(t, 1, result.Score)
	})
}

func TestRiskEngine_MedicationFlagsRaiseClass(t *testing.T) {
	now := testNow(t)

	rec := healthRecord(map[string]any{
		"test_and_medication": map[string]any{
			"anticoagulants": true,
		},
	})

	result := scoreAt(t, rec, now)
	assert.Equal(t, 2, result.Score)
}

func TestRiskEngine_DailyAlcoholUseIsClass2(t *testing.T) {
	now := testNow(t)

	rec := healthRecord(map[string]any{
		"medical_history": map[string]any{
			"alcohol_daily": true,
		},
	})

	result := scoreAt(t, rec, now)
	assert.Equal(t, 2, result.Score)
}

func TestRiskEngine_SupplementalOxygen(t *testing.T) {
	now := testNow(t)

	rec := healthRecord(map[string]any{
		"respiratory_health": map[string]any{
			"supplemental_oxygen": true,
		},
	})

	result := scoreAt(t, rec, now)
	assert.Equal(t, 4, result.Score)
}
