package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/preop-assessment-server/internal/domain"
)

// RiskEngine derives an ASA physical-status class analogue (1-4) from a
// health-assessment record via an ordered, monotonic-max rule cascade, and
// produces the parallel advisory list.
type RiskEngine struct {
	logger *logrus.Logger
	rules  []riskRule
	now    func() time.Time
}

// riskRule is one predicate in the cascade. When it fires, the score is
// raised to its tier; rules never lower the score.
type riskRule struct {
	Name string
	Tier int
	When func(s *signals) bool
}

// NewRiskEngine creates a new risk engine.
func NewRiskEngine(logger *logrus.Logger) *RiskEngine {
	engine := &RiskEngine{
		logger: logger,
		now:    time.Now,
	}
	engine.initializeRules()
	return engine
}

// Evaluate scores the record and builds its advisory list. It never fails:
// a record missing arbitrary branches simply triggers fewer rules.
func (e *RiskEngine) Evaluate(rec domain.Record) *domain.ScoreResult {
	return e.evaluateAt(rec, e.now())
}

// evaluateAt is the clock-injected form used by tests and by callers that
// must score several records against one consistent instant.
func (e *RiskEngine) evaluateAt(rec domain.Record, now time.Time) *domain.ScoreResult {
	sig := newSignals(rec, now)

	score := 1
	fired := make([]string, 0, 4)
	for _, rule := range e.rules {
		if rule.When(sig) {
			fired = append(fired, rule.Name)
			if rule.Tier > score {
				score = rule.Tier
			}
		}
	}

	result := &domain.ScoreResult{Score: score}
	e.appendAdvisories(result, sig)

	e.logger.WithFields(logrus.Fields{
		"score":       score,
		"rules_fired": fired,
		"advisories":  len(result.Advisories),
	}).Info("Completed risk evaluation")

	return result
}

// initializeRules sets up the cascade in strictly increasing tier order.
func (e *RiskEngine) initializeRules() {
	// Tier 2: mild systemic disease
	e.addRule("bmi_outside_normal", 2, func(s *signals) bool {
		return s.hasBMI && (s.bmi < 18 || (s.bmi >= 30 && s.bmi < 40))
	})
	e.addRule("baseline_findings", 2, func(s *signals) bool {
		return s.anyASA2Baseline()
	})
	e.addRule("pseudocholinesterase_deficiency", 2, func(s *signals) bool {
		return s.pseudocholinesterase
	})
	e.addRule("preoperative_medications", 2, func(s *signals) bool {
		return len(s.reviewMedications) > 0
	})

	// Tier 3: severe systemic disease
	e.addRule("bmi_morbid_obesity", 3, func(s *signals) bool {
		return s.hasBMI && s.bmi >= 40
	})
	e.addRule("malignant_hyperthermia", 3, func(s *signals) bool {
		return s.malignantHyperthermia
	})
	e.addRule("major_cardiovascular", 3, func(s *signals) bool {
		return s.anyCardiovascular()
	})
	e.addRule("major_neurologic", 3, func(s *signals) bool {
		return s.muscularDisorder || s.neurologicDisorder || s.recentSeizure || s.tiaStroke
	})
	e.addRule("renal_or_hepatic_failure", 3, func(s *signals) bool {
		return s.kidneyFailure || s.cirrhosis
	})
	e.addRule("immune_or_hematologic", 3, func(s *signals) bool {
		return s.hivAIDS || s.leukemiaLymphoma
	})
	e.addRule("chemotherapy_history", 3, func(s *signals) bool {
		return s.chemotherapy
	})
	e.addRule("alcohol_withdrawal_seizure", 3, func(s *signals) bool {
		return s.alcoholWithdrawalSeizure
	})
	e.addRule("obstructive_lung_disease_hospitalized", 3, func(s *signals) bool {
		return (s.copd && s.copdHospitalized) || (s.asthma && s.asthmaHospitalized)
	})

	// Tier 4: severe systemic disease that is a constant threat to life
	e.addRule("dialysis_not_regular", 4, func(s *signals) bool {
		// Absence of the regularly-dialyzed answer is not "no": only an
		// explicit false raises the class.
		return s.dialysis && s.regularlyDialyzed == domain.False
	})
	e.addRule("supplemental_oxygen", 4, func(s *signals) bool {
		return s.supplementalOxygen
	})
	e.addRule("heart_attack_within_3_months", 4, func(s *signals) bool {
		return s.heartAttack && s.within(s.heartAttackDate, 3)
	})
	e.addRule("stroke_within_3_months", 4, func(s *signals) bool {
		return s.tiaStroke && s.within(s.tiaStrokeDate, 3)
	})

	e.logger.WithField("rule_count", len(e.rules)).Debug("Initialized risk rules")
}

// addRule appends a rule to the cascade.
func (e *RiskEngine) addRule(name string, tier int, when func(s *signals) bool) {
	e.rules = append(e.rules, riskRule{Name: name, Tier: tier, When: when})
}
