package service

import (
	"fmt"

	"github.com/preop-assessment-server/internal/domain"
)

// appendAdvisories builds the advisory list in its fixed clinical order.
// The pass is independent of the score cascade except for the score statement
// itself; each block is gated on its own signals.
func (e *RiskEngine) appendAdvisories(result *domain.ScoreResult, s *signals) {
	result.Paragraph(
		fmt.Sprintf("Estimated ASA physical status class: %d.", result.Score),
		result.Score >= 3,
	)

	if result.Score >= 3 {
		result.Paragraph("Elevated risk of perioperative complications. An anesthesia consultation prior to the day of surgery is recommended.", false)
	}

	if s.malignantHyperthermia {
		result.Paragraph("History of malignant hyperthermia. A non-triggering anesthetic plan and immediate dantrolene availability are required.", false)
	}

	if s.pseudocholinesterase {
		result.Paragraph("Pseudocholinesterase deficiency reported. Avoid succinylcholine and mivacurium.", false)
	}

	if s.implantedDevice {
		result.Paragraph("Implanted cardiac device reported. Device interrogation within 12 months of the procedure is recommended.", false)
	}

	e.appendMedicationReview(result, s)
	e.appendPregnancyTest(result, s)
	e.appendLabPanel(result, s)

	if s.ageYears > 50 || s.anyCardiovascularFinding() || s.copd ||
		s.supplementalOxygen || s.shortnessOfBreath || s.anemia ||
		s.leukemiaLymphoma || s.legacyKidneys {
		result.Paragraph("A 12-lead ECG is recommended.", false)
	}

	if s.copd || (s.asthma && s.asthmaHospitalized) || s.recentPneumonia {
		result.Paragraph("A chest X-ray is recommended.", false)
	}

	if s.smoker {
		result.Paragraph("Smoking cessation at least four weeks before surgery improves outcomes; cessation resources should be offered.", false)
	}

	if s.urinaryPain {
		result.Paragraph("A urinalysis is recommended given reported pain with urination.", false)
	}

	if s.muscularDisorder || s.neurologicDisorder || s.recentSeizure ||
		s.tiaStroke || s.legacyKidneys || s.copdHospitalized ||
		s.asthmaHospitalized || s.supplementalOxygen || s.hba1c > 9 {
		result.Paragraph("Medical optimization before surgery is recommended.", true)
	}

	if s.anyCardiovascular() {
		result.Paragraph("Cardiac optimization and cardiology clearance before surgery are recommended.", true)
	}

	if s.copdHospitalized || s.asthmaHospitalized || s.supplementalOxygen {
		result.Paragraph("Pulmonary optimization before surgery is recommended.", false)
	}

	recentCardiacEvent := (s.heartAttack && s.within(s.heartAttackDate, 12)) ||
		(s.heartSurgery && s.within(s.heartSurgeryDate, 12)) ||
		(s.heartStents && s.within(s.heartStentsDate, 12))
	recentNeuroEvent := s.tiaStroke && s.within(s.tiaStrokeDate, 12)
	if recentCardiacEvent || recentNeuroEvent {
		result.Paragraph("Consider delaying the procedure: a major cardiac or neurologic event occurred within the last 12 months.", true)
	}
}

// appendMedicationReview lists the preoperative medications that need
// prescriber review. Display names are deduplicated so overlapping flags do
// not repeat an entry.
func (e *RiskEngine) appendMedicationReview(result *domain.ScoreResult, s *signals) {
	if len(s.reviewMedications) == 0 {
		return
	}

	result.Paragraph("Review the following medications with the prescribing physician before surgery:", false)

	seen := make(map[string]bool, len(s.reviewMedications))
	for _, name := range s.reviewMedications {
		if seen[name] {
			continue
		}
		seen[name] = true
		result.ListItem(name, false)
	}
}

// appendPregnancyTest recommends a day-of-surgery pregnancy test for
// patients of childbearing potential.
func (e *RiskEngine) appendPregnancyTest(result *domain.ScoreResult, s *signals) {
	if s.gender != "female" || s.hysterectomy {
		return
	}
	if s.ageYears < 10 || s.ageYears > 65 {
		return
	}
	result.Paragraph("A urine pregnancy test on the day of surgery is recommended.", false)
}

// appendLabPanel emits the standing laboratory recommendation block plus the
// condition-gated additional panels.
func (e *RiskEngine) appendLabPanel(result *domain.ScoreResult, s *signals) {
	result.Paragraph("Recommended preoperative laboratory studies:", false)
	result.ListItem("Complete blood count (CBC)", false)
	result.ListItem("Basic metabolic panel (BMP)", false)
	result.ListItem("Coagulation studies (PT/INR, aPTT)", false)

	if s.cirrhosis || s.hepatitis || s.kidneyFailure {
		result.ListItem("Hepatic function panel", false)
	}
	if s.diabetes {
		result.ListItem("Hemoglobin A1c", false)
	}
}
