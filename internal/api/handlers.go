package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/preop-assessment-server/internal/domain"
	"github.com/preop-assessment-server/internal/service"
)

// scoreResponse pairs the engine result with its rendered HTML form so
// callers can embed the advisory list without re-implementing the grouping.
type scoreResponse struct {
	Score          int                   `json:"score"`
	Advisories     []domain.AdvisoryItem `json:"advisories"`
	AdvisoriesHTML string                `json:"advisories_html"`
}

// handleScore scores a questionnaire without generating a document.
func (s *Server) handleScore(c *gin.Context) {
	var rec domain.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		s.abortError(c, http.StatusBadRequest, domain.ErrInvalidInput,
			"Request body must be a JSON health-assessment record", err)
		return
	}

	result, err := s.assessor.Score(c.Request.Context(), rec)
	if err != nil {
		s.abortError(c, http.StatusInternalServerError, domain.ErrInternalServer,
			"Scoring failed", err)
		return
	}

	c.JSON(http.StatusOK, scoreResponse{
		Score:          result.Score,
		Advisories:     result.Advisories,
		AdvisoriesHTML: service.AdvisoriesHTML(result.Advisories),
	})
}

// generateReportResponse is the metadata envelope returned after generation;
// the document itself is fetched separately by ID.
type generateReportResponse struct {
	Report      *domain.ReportMeta `json:"report"`
	DocumentURL string             `json:"document_url"`
}

// handleGenerateReport scores the record, renders and archives the PDF, and
// returns the report metadata.
func (s *Server) handleGenerateReport(c *gin.Context) {
	var rec domain.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		s.abortError(c, http.StatusBadRequest, domain.ErrInvalidInput,
			"Request body must be a JSON health-assessment record", err)
		return
	}

	meta, _, err := s.assessor.GenerateReport(c.Request.Context(), rec)
	if err != nil {
		s.abortError(c, http.StatusInternalServerError, domain.ErrGeneration,
			"Report generation failed", err)
		return
	}

	c.JSON(http.StatusCreated, generateReportResponse{
		Report:      meta,
		DocumentURL: fmt.Sprintf("/api/v1/reports/%s", meta.ID),
	})
}

// handleGetReport streams an archived report PDF. With Accept:
// application/json it returns the metadata instead.
func (s *Server) handleGetReport(c *gin.Context) {
	id := c.Param("id")

	meta, document, err := s.assessor.GetReport(c.Request.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		s.abortError(c, http.StatusNotFound, domain.ErrDatabaseError,
			"No report with that ID", err)
		return
	}
	if err != nil {
		s.abortError(c, http.StatusInternalServerError, domain.ErrDatabaseError,
			"Report lookup failed", err)
		return
	}

	if c.GetHeader("Accept") == "application/json" {
		c.JSON(http.StatusOK, meta)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="assessment-%s.pdf"`, meta.ID))
	c.Data(http.StatusOK, "application/pdf", document)
}

// handleListReports returns archived report metadata with limit/offset
// pagination.
func (s *Server) handleListReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	reports, err := s.assessor.ListReports(c.Request.Context(), limit, offset)
	if err != nil {
		s.abortError(c, http.StatusInternalServerError, domain.ErrDatabaseError,
			"Report listing failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"count":   len(reports),
	})
}

// abortError logs the failure and writes the standardized error payload.
func (s *Server) abortError(c *gin.Context, status int, code, message string, err error) {
	correlationID := c.GetString("correlation_id")
	s.logger.WithFields(map[string]interface{}{
		"correlation_id": correlationID,
		"status":         status,
		"code":           code,
	}).WithError(err).Warn(message)

	detail := ""
	if err != nil && status < http.StatusInternalServerError {
		detail = err.Error()
	}
	c.AbortWithStatusJSON(status, domain.NewAPIError(code, message, detail, correlationID))
}
