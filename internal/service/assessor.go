package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/preop-assessment-server/internal/domain"
	"github.com/preop-assessment-server/internal/extract"
	"github.com/preop-assessment-server/internal/report"
	"github.com/preop-assessment-server/internal/repository"
)

// Notifier hands a finished report's advisories to the downstream mailer.
type Notifier interface {
	Send(ctx context.Context, meta *domain.ReportMeta, advisoryHTML string) error
}

// Assessor ties the scoring engine, the document generator, the archive and
// the notifier together behind one API for the HTTP layer.
type Assessor struct {
	logger    *logrus.Logger
	engine    *RiskEngine
	generator *report.Generator
	store     repository.Store
	notifier  Notifier
	now       func() time.Time
}

// NewAssessor creates an assessor. notifier may be nil when notifications
// are disabled.
func NewAssessor(store repository.Store, notifier Notifier, logger *logrus.Logger) *Assessor {
	return &Assessor{
		logger:    logger,
		engine:    NewRiskEngine(logger),
		generator: report.NewGenerator(logger),
		store:     store,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Score evaluates a record and returns the score with its advisory list.
func (a *Assessor) Score(ctx context.Context, rec domain.Record) (*domain.ScoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.engine.evaluateAt(rec, a.now()), nil
}

// GenerateReport scores the record, renders the full document, archives it,
// and notifies the advisory mailer. Notification failures are logged and do
// not fail the request; archive failures do.
func (a *Assessor) GenerateReport(ctx context.Context, rec domain.Record) (*domain.ReportMeta, []byte, error) {
	now := a.now()
	result := a.engine.evaluateAt(rec, now)

	document, pages, err := a.generator.Generate(ctx, rec, now)
	if err != nil {
		return nil, nil, fmt.Errorf("generating report: %w", err)
	}

	meta := &domain.ReportMeta{
		ID:          uuid.New().String(),
		PatientName: extract.PatientName(rec),
		Score:       result.Score,
		Advisories:  result.Advisories,
		PageCount:   pages,
		CreatedAt:   now,
	}

	if err := a.store.Save(ctx, meta, document); err != nil {
		return nil, nil, fmt.Errorf("archiving report: %w", err)
	}

	a.logger.WithFields(logrus.Fields{
		"report_id": meta.ID,
		"score":     meta.Score,
		"pages":     meta.PageCount,
	}).Info("Assessment report generated")

	if a.notifier != nil {
		if err := a.notifier.Send(ctx, meta, AdvisoriesHTML(result.Advisories)); err != nil {
			a.logger.WithField("report_id", meta.ID).WithError(err).
				Warn("Advisory notification failed")
		}
	}

	return meta, document, nil
}

// GetReport retrieves an archived report and its document bytes.
func (a *Assessor) GetReport(ctx context.Context, id string) (*domain.ReportMeta, []byte, error) {
	return a.store.Get(ctx, id)
}

// ListReports returns archived report metadata with pagination.
func (a *Assessor) ListReports(ctx context.Context, limit, offset int) ([]*domain.ReportMeta, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return a.store.List(ctx, limit, offset)
}
