package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preop-assessment-server/internal/domain"
)

func TestCardiovascular(t *testing.T) {
	now := testNow(t)

	rec := domain.Record{
		"health_assesment": map[string]any{
			"cardiovascular_health": map[string]any{
				"heart_attack": map[string]any{
					"heart_attack":      true,
					"heart_attack_date": "2020-04-01",
				},
				"heart_murmur": true,
			},
		},
	}
	items := Cardiovascular(rec, now)

	require.Len(t, items, 2)
	// Catalog order, not record order: heart attack precedes murmur.
	assert.Equal(t, "Heart attack", items[0].Label)
	assert.True(t, items[0].Emphasize)
	require.Len(t, items[0].Details, 1)
	assert.Equal(t, domain.Detail{Name: "Date", Value: "2020-04-01"}, items[0].Details[0])

	assert.Equal(t, "Heart murmur", items[1].Label)
	assert.False(t, items[1].Emphasize)
}

func TestRespiratory_DetailChips(t *testing.T) {
	now := testNow(t)

	rec := domain.Record{
		"health_assesment": map[string]any{
			"respiratory_health": map[string]any{
				"sleep_apnea": map[string]any{
					"sleep_apnea":   true,
					"cpap":          true,
					"cpap_pressure": 15,
				},
			},
		},
	}
	items := Respiratory(rec, now)

	require.Len(t, items, 1)
	assert.Equal(t, "Sleep apnea", items[0].Label)
	assert.Equal(t, []domain.Detail{
		{Name: "CPAP", Value: "Yes"},
		{Name: "CPAP pressure", Value: "15"},
	}, items[0].Details)
	// Pressure >= 14 emphasizes the whole row.
	assert.True(t, items[0].Emphasize)
}

func TestKidney_TriStateChip(t *testing.T) {
	now := testNow(t)

	rec := domain.Record{
		"health_assesment": map[string]any{
			"kidney": map[string]any{
				"kidney_failure": map[string]any{
					"kidney_failure":     true,
					"dialysis":           true,
					"regularly_dialyzed": false,
				},
			},
		},
	}
	items := Kidney(rec, now)

	require.Len(t, items, 1)
	assert.True(t, items[0].Emphasize)
	assert.Equal(t, []domain.Detail{
		{Name: "Dialysis", Value: "Yes"},
		{Name: "Regularly dialyzed", Value: "No"},
	}, items[0].Details)
}

func TestMedicalHistory_DailyAlcohol(t *testing.T) {
	now := testNow(t)

	rec := domain.Record{
		"health_assesment": map[string]any{
			"medical_history": map[string]any{
				"alcohol_daily": true,
			},
		},
	}
	items := MedicalHistory(rec, now)

	require.Len(t, items, 1)
	assert.Equal(t, "Daily alcohol use", items[0].Label)
	assert.False(t, items[0].Emphasize)
}

func TestAllDomains_SectionOrder(t *testing.T) {
	now := testNow(t)

	rec := domain.Record{
		"health_assesment": map[string]any{
			"cardiovascular_health": map[string]any{"heart_murmur": true},
			"respiratory_health":    map[string]any{"snoring": true},
			"medical_history":       map[string]any{"anemia": true},
		},
	}
	items := AllDomains(rec, now)

	require.Len(t, items, 3)
	assert.Equal(t, "Heart murmur", items[0].Label)
	assert.Equal(t, "Snoring", items[1].Label)
	assert.Equal(t, "Anemia", items[2].Label)

	assert.Empty(t, AllDomains(domain.Record{}, now))
}
