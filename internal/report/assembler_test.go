package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preop-assessment-server/internal/domain"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return ts
}

func TestGeneratorGenerate(t *testing.T) {
	ctx := context.Background()
	now := mustDate(t, "2026-03-01")
	gen := NewGenerator(testLogger())

	t.Run("Empty_Record_Single_Page", func(t *testing.T) {
		out, pages, err := gen.Generate(ctx, domain.Record{}, now)
		require.NoError(t, err)
		assert.Equal(t, 1, pages)
		assert.Equal(t, "%PDF", string(out[:4]))
	})

	t.Run("Full_Record", func(t *testing.T) {
		rec := domain.Record{
			"patient_information": map[string]any{
				"first_name":    "Jane",
				"last_name":     "Roe",
				"date_of_birth": "1950-06-15",
				"gender":        "female",
				"height_feet":   5,
				"height_inches": 7,
				"weight":        290,
			},
			"health_assesment": map[string]any{
				"cardiovascular_health": map[string]any{
					"heart_attack": map[string]any{
						"heart_attack":      true,
						"heart_attack_date": "2025-12-20",
					},
					"severe_hypertension": true,
				},
				"respiratory_health": map[string]any{
					"sleep_apnea": map[string]any{
						"sleep_apnea":   true,
						"cpap":          true,
						"cpap_pressure": 15,
					},
				},
				"medical_history": map[string]any{
					"family": map[string]any{
						"family_malignant_hyperthermia": true,
					},
				},
				"test_and_medication": map[string]any{
					"anticoagulants": true,
					"allergies":      []any{"penicillin", "latex"},
					"prior_surgeries": []any{
						map[string]any{"surgery": "appendectomy", "year": "1998"},
					},
					"current_medications": []any{
						map[string]any{"name": "warfarin", "dose": "5 mg", "frequency": "daily"},
					},
				},
			},
			"consent": map[string]any{
				"agreed":      true,
				"signed_name": "Jane Roe",
				"signature":   testPNG(t),
			},
			"images": []any{testJPEG(t)},
		}

		out, pages, err := gen.Generate(ctx, rec, now)
		require.NoError(t, err)
		assert.NotEmpty(t, out)
		// consent and attachments each take their own page
		assert.GreaterOrEqual(t, pages, 3)
	})

	t.Run("Cancelled_Context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, _, err := gen.Generate(cancelled, domain.Record{}, now)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
