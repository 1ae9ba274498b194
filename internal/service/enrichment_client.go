package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"killtest/internal/model"
)

// DefaultEnrichmentTimeout bounds how long a session stays in analyzing
const DefaultEnrichmentTimeout = 8 * time.Second

const maxAnalysisBody = 1 << 20

// EnrichmentClient posts answers to a remote analysis endpoint
type EnrichmentClient struct {
	url     string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger
}

// NewEnrichmentClient creates a client for the analysis endpoint at url
func NewEnrichmentClient(url string, timeout time.Duration, logger *slog.Logger) *EnrichmentClient {
	if timeout <= 0 {
		timeout = DefaultEnrichmentTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrichmentClient{
		url:     url,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Enrich makes one attempt. Transport, status and parse failures all come
// back as Unavailable.
func (c *EnrichmentClient) Enrich(ctx context.Context, answers model.AnswerSet, lang model.Language) Enrichment {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(model.AnalysisRequest{Answers: answers, Language: lang.OrDefault()})
	if err != nil {
		return c.unavailable("encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return c.unavailable("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return c.unavailable("request", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAnalysisBody))
	if err != nil {
		return c.unavailable("read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return c.unavailable("status", fmt.Errorf("analysis endpoint returned %d", resp.StatusCode))
	}

	analysis, err := DecodeAnalysis(string(data))
	if err != nil {
		return c.unavailable("decode", err)
	}
	var meta struct {
		Source model.AnalysisSource `json:"source"`
	}
	if json.Unmarshal(data, &meta) == nil {
		analysis.Source = meta.Source
	}
	return Enriched(analysis)
}

func (c *EnrichmentClient) unavailable(step string, err error) Enrichment {
	c.logger.Warn("enrichment unavailable", slog.String("step", step), slog.String("error", err.Error()))
	return Unavailable(fmt.Sprintf("%s: %v", step, err))
}
