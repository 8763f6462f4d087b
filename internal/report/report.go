// Package report generates the AI-written weekly status report. Unlike
// chat, the context is a single fixed aggregate query over the ledger, not
// ad hoc retrieval; generation and fallback follow the same contract.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ledgerops/daicho/internal/demo"
	"github.com/ledgerops/daicho/internal/generate"
	"github.com/ledgerops/daicho/internal/openai"
	"github.com/ledgerops/daicho/internal/schema"
	"github.com/ledgerops/daicho/internal/store"
)

const errMissingKey = "API Key Missing"

const systemPromptFmt = `You are a financial analyst generating a weekly status report.
Analyze the provided ledger data (JSON) and output a structured report.

Rules:
1. 'key_highlights' MUST contain exactly 3 distinct points.
2. For 'next_actions', you must cite the specific 'order_id' and the reasoning (e.g. "Overdue by 5 days").
3. Do not hallucinate data not present in the JSON.

Data:
%s`

// AttentionSource supplies the overdue/unbilled ledger rows used as the
// generation context; *store.Store satisfies it.
type AttentionSource interface {
	AttentionRows(ctx context.Context) ([]store.AttentionRow, error)
}

type Options struct {
	APIKeySet     bool
	DemoMode      bool
	Model         string
	FallbackModel string
}

type Service struct {
	ledger AttentionSource
	llm    generate.Completer
	opts   Options
	logger *slog.Logger
}

func New(ledger AttentionSource, llm generate.Completer, opts Options, logger *slog.Logger) *Service {
	return &Service{ledger: ledger, llm: llm, opts: opts, logger: logger}
}

// Generate produces the weekly report. Failures are folded into the
// result's error field; callers always get a well-formed object.
func (s *Service) Generate(ctx context.Context) *schema.ReportResult {
	if !s.opts.APIKeySet && !s.opts.DemoMode {
		return &schema.ReportResult{Error: errMissingKey}
	}

	if s.opts.DemoMode {
		s.logger.Info("demo mode report")
		result, err := demo.Report(ctx)
		if err != nil {
			return &schema.ReportResult{Error: err.Error()}
		}
		return result
	}

	result, err := s.generateLive(ctx)
	if err != nil {
		s.logger.Error("report generation failed", "error", err)
		return &schema.ReportResult{Error: err.Error()}
	}
	return result
}

func (s *Service) generateLive(ctx context.Context) (*schema.ReportResult, error) {
	rows, err := s.ledger.AttentionRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch ledger context: %w", err)
	}

	contextJSON, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize ledger context: %w", err)
	}

	s.logger.Info("report context assembled", "rows", len(rows))

	msgs := []openai.Message{
		{Role: "system", Content: fmt.Sprintf(systemPromptFmt, contextJSON)},
	}

	return generate.WithFallback(ctx, s.llm, s.logger,
		s.opts.Model, s.opts.FallbackModel, msgs, schema.ReportResponseFormat, schema.ParseReportOutput)
}
