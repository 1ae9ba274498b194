package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"killtest/internal/config"
	"killtest/internal/metrics"
	"killtest/internal/model"
	"killtest/internal/verdict"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the slice of the OpenAI client the analyzer needs
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AnalyzerService backs POST /v1/analyze. It asks the upstream model for a
// verdict and falls back to the offline engine whenever that is not possible.
type AnalyzerService struct {
	config  *config.AIConfig
	client  ChatCompleter
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewAnalyzerService creates an analyzer. Without an API key no client is
// built and every call takes the offline path.
func NewAnalyzerService(cfg *config.AIConfig, m *metrics.Metrics, logger *slog.Logger) *AnalyzerService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &AnalyzerService{config: cfg, metrics: m, logger: logger}
	if cfg.IsEnabled() {
		oc := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		s.client = openai.NewClientWithConfig(oc)
	}
	return s
}

// SetClient replaces the upstream client
func (s *AnalyzerService) SetClient(c ChatCompleter) {
	s.client = c
}

// errAIDisabled marks the no-key path, where the offline analysis is the answer
var errAIDisabled = errors.New("AI analysis disabled")

// Analyze always returns a usable analysis
func (s *AnalyzerService) Analyze(ctx context.Context, answers model.AnswerSet, lang model.Language) model.AnalysisResponse {
	analysis, err := s.ask(ctx, answers, lang)
	if err != nil {
		return s.offline(answers)
	}
	return analysis
}

// Enrich lets the session flow call the analyzer in process. Without an API
// key the offline analysis comes back Enriched; any upstream failure is
// Unavailable so the session keeps its offline result as is.
func (s *AnalyzerService) Enrich(ctx context.Context, answers model.AnswerSet, lang model.Language) Enrichment {
	analysis, err := s.ask(ctx, answers, lang)
	switch {
	case errors.Is(err, errAIDisabled):
		return Enriched(s.offline(answers))
	case err != nil:
		return Unavailable(err.Error())
	}
	return Enriched(analysis)
}

// ask makes one upstream call and reports why it produced nothing usable
func (s *AnalyzerService) ask(ctx context.Context, answers model.AnswerSet, lang model.Language) (model.AnalysisResponse, error) {
	if s.client == nil {
		s.metrics.Upstream(metrics.UpstreamDisabled)
		return model.AnalysisResponse{}, errAIDisabled
	}

	if s.config.TimeoutMS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout())
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(answers, lang)},
		},
	})
	if err != nil {
		s.logger.Warn("upstream analysis failed", slog.String("error", err.Error()))
		s.metrics.Upstream(metrics.UpstreamError)
		return model.AnalysisResponse{}, fmt.Errorf("upstream analysis: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		s.logger.Warn("upstream analysis returned no content")
		s.metrics.Upstream(metrics.UpstreamEmpty)
		return model.AnalysisResponse{}, errors.New("upstream analysis returned no content")
	}

	analysis, err := DecodeAnalysis(resp.Choices[0].Message.Content)
	if err != nil {
		s.logger.Warn("upstream analysis unparseable", slog.String("error", err.Error()))
		s.metrics.Upstream(metrics.UpstreamUnparseable)
		return model.AnalysisResponse{}, fmt.Errorf("upstream analysis unparseable: %w", err)
	}
	s.metrics.Upstream(metrics.UpstreamOK)
	analysis.Source = model.SourceAI
	return analysis, nil
}

func (s *AnalyzerService) offline(answers model.AnswerSet) model.AnalysisResponse {
	return verdict.Analysis(verdict.Compute(answers))
}
