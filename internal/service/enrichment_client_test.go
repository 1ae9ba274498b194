package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"killtest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichmentClientEnriched(t *testing.T) {
	var got model.AnalysisRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"verdict":"build","confidence":88,"rationale":"ok","contradictions":[],"adjustedScores":{"copycatRisk":3,"platformRisk":3,"lockInStrength":8,"pricingPower":8},"source":"ai"}`))
	}))
	defer srv.Close()

	c := NewEnrichmentClient(srv.URL, time.Second, nil)
	e := c.Enrich(context.Background(), model.AnswerSet{model.QCopycatRiskScore: model.Number(3)}, model.LangSpanish)

	require.True(t, e.OK())
	assert.Equal(t, model.VerdictBuild, e.Analysis.Verdict)
	assert.Equal(t, 88.0, e.Analysis.Confidence)
	assert.Equal(t, model.SourceAI, e.Analysis.Source)
	assert.Equal(t, model.LangSpanish, got.Language)
	assert.Equal(t, "3", got.Answers.Text(model.QCopycatRiskScore))
}

func TestEnrichmentClientUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>oops</html>"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			e := NewEnrichmentClient(srv.URL, time.Second, nil).Enrich(context.Background(), model.AnswerSet{}, model.LangEnglish)
			assert.False(t, e.OK())
			assert.Equal(t, EnrichmentUnavailable, e.Status)
			assert.NotEmpty(t, e.Reason)
		})
	}
}

func TestEnrichmentClientTimeoutAndNoRetry(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	e := NewEnrichmentClient(srv.URL, 50*time.Millisecond, nil).Enrich(context.Background(), model.AnswerSet{}, model.LangEnglish)
	assert.False(t, e.OK())
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestEnrichmentClientUnreachable(t *testing.T) {
	e := NewEnrichmentClient("http://127.0.0.1:1/analyze", 200*time.Millisecond, nil).Enrich(context.Background(), model.AnswerSet{}, model.LangEnglish)
	assert.Equal(t, EnrichmentUnavailable, e.Status)
}
