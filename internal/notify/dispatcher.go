// Package notify hands finished assessments to the downstream advisory
// mailer. The mailer is a separate service; this package only posts the
// rendered advisory HTML to it and shields the server from its outages with
// a circuit breaker.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/preop-assessment-server/internal/domain"
)

// Dispatcher posts advisory notifications to the configured endpoint.
type Dispatcher struct {
	endpoint string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	logger   *logrus.Logger
}

// payload is the notification body the mailer expects.
type payload struct {
	ReportID      string `json:"report_id"`
	PatientName   string `json:"patient_name"`
	Score         int    `json:"score"`
	AdvisoryHTML  string `json:"advisory_html"`
	GeneratedAtMS int64  `json:"generated_at_ms"`
}

// NewDispatcher creates a dispatcher for the given notification config.
func NewDispatcher(cfg domain.NotifyConfig, logger *logrus.Logger) *Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "advisory-mailer",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &Dispatcher{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
		breaker:  breaker,
		logger:   logger,
	}
}

// Send posts the advisory HTML for a finished report. Failures are returned
// to the caller, which treats notification as best-effort.
func (d *Dispatcher) Send(ctx context.Context, meta *domain.ReportMeta, advisoryHTML string) error {
	body, err := json.Marshal(payload{
		ReportID:      meta.ID,
		PatientName:   meta.PatientName,
		Score:         meta.Score,
		AdvisoryHTML:  advisoryHTML,
		GeneratedAtMS: meta.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	_, err = d.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("building notification request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("posting notification: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("notification endpoint returned %d", resp.StatusCode)
		}
		return nil, nil
	})
	return err
}
