package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func TestDispatcher_Send(t *testing.T) {
	var received payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	dispatcher := NewDispatcher(domain.NotifyConfig{
		Enabled:  true,
		Endpoint: server.URL,
		Timeout:  5 * time.Second,
	}, testLogger())

	meta := &domain.ReportMeta{
		ID:          "report-1",
		PatientName: "Jane Roe",
		Score:       3,
		CreatedAt:   time.Now(),
	}

	err := dispatcher.Send(context.Background(), meta, "<ul><li>CBC</li></ul>")
	require.NoError(t, err)
	assert.Equal(t, "report-1", received.ReportID)
	assert.Equal(t, 3, received.Score)
	assert.Contains(t, received.AdvisoryHTML, "<ul>")
}

func TestDispatcher_SendErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	dispatcher := NewDispatcher(domain.NotifyConfig{Endpoint: server.URL}, testLogger())

	err := dispatcher.Send(context.Background(), &domain.ReportMeta{ID: "r"}, "")
	assert.Error(t, err)
}

func TestDispatcher_BreakerOpensAfterFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	dispatcher := NewDispatcher(domain.NotifyConfig{Endpoint: server.URL}, testLogger())
	meta := &domain.ReportMeta{ID: "r"}

	for i := 0; i < 5; i++ {
		dispatcher.Send(context.Background(), meta, "")
	}

	// breaker is open now, the request never reaches the server
	err := dispatcher.Send(context.Background(), meta, "")
	assert.Error(t, err)
}
