// Package chat implements the retrieval-augmented chat turn: keyword
// extraction, candidate retrieval, context assembly and schema-constrained
// generation with a single model fallback.
package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ledgerops/daicho/internal/demo"
	"github.com/ledgerops/daicho/internal/generate"
	"github.com/ledgerops/daicho/internal/openai"
	"github.com/ledgerops/daicho/internal/rag"
	"github.com/ledgerops/daicho/internal/schema"
)

// Fixed user-facing answers for the non-generation paths.
const (
	answerMissingKey   = "API Key is missing. Please set OPENAI_API_KEY in .env file."
	answerNoDocuments  = "申し訳ありませんが、関連する文書が見つかりませんでした。（検索結果 0件）"
	answerGenericError = "Sorry, an error occurred while processing your request."
)

const systemPromptFmt = `You are an intelligent assistant for a business ledger system.
Answer the user's question based strictly on the provided Context.

Rules:
1. You MUST cite the source document for every claim.
2. If you cannot find the answer in the context, output "不明（文書に記載なし）" or "Unknown (not found in documents)".
3. Return response in JSON format matching the schema.
4. If the source text doesn't have explicit page numbers, return null for 'page'.
5. IMPORTANT: Respond in the same language as the user's question.
   - If the user asks in Japanese, answer in Japanese.
   - If the user asks in English, answer in English.

Context:
%s`

// DocumentSearcher is the candidate-retrieval capability; *store.Store
// satisfies it.
type DocumentSearcher interface {
	SearchDocuments(ctx context.Context, terms []string) ([]rag.Document, error)
}

// Options selects between the live and demo strategies once per service.
type Options struct {
	APIKeySet     bool
	DemoMode      bool
	Model         string
	FallbackModel string
}

type Service struct {
	docs   DocumentSearcher
	llm    generate.Completer
	opts   Options
	logger *slog.Logger
}

func New(docs DocumentSearcher, llm generate.Completer, opts Options, logger *slog.Logger) *Service {
	return &Service{docs: docs, llm: llm, opts: opts, logger: logger}
}

// Answer runs one chat turn. It always returns a well-formed result: any
// failure is folded into the result's error field, never propagated.
func (s *Service) Answer(ctx context.Context, messages []openai.Message) *schema.ChatResult {
	if len(messages) == 0 {
		return &schema.ChatResult{
			Answer:  answerGenericError,
			Sources: []schema.Citation{},
			Error:   "empty conversation",
		}
	}
	query := messages[len(messages)-1].Content

	if !s.opts.APIKeySet && !s.opts.DemoMode {
		return &schema.ChatResult{Answer: answerMissingKey, Sources: []schema.Citation{}}
	}

	if s.opts.DemoMode {
		s.logger.Info("demo mode chat", "query_len", len(query))
		return demo.Chat(query)
	}

	result, err := s.answerLive(ctx, query, messages)
	if err != nil {
		s.logger.Error("chat turn failed", "error", err)
		return &schema.ChatResult{
			Answer:  answerGenericError,
			Sources: []schema.Citation{},
			Error:   err.Error(),
		}
	}
	return result
}

func (s *Service) answerLive(ctx context.Context, query string, conversation []openai.Message) (*schema.ChatResult, error) {
	terms := rag.ExtractKeywords(query)

	docs, err := s.docs.SearchDocuments(ctx, terms)
	if err != nil {
		return nil, fmt.Errorf("retrieve candidates: %w", err)
	}

	s.logger.Info("candidates retrieved",
		"terms", len(terms),
		"candidates", len(docs),
		"japanese", rag.ContainsJapanese(query),
	)

	// No grounding, no model call.
	if len(docs) == 0 {
		return &schema.ChatResult{Answer: answerNoDocuments, Sources: []schema.Citation{}}, nil
	}

	systemPrompt := fmt.Sprintf(systemPromptFmt, rag.BuildContext(docs))
	msgs := make([]openai.Message, 0, len(conversation)+1)
	msgs = append(msgs, openai.Message{Role: "system", Content: systemPrompt})
	msgs = append(msgs, conversation...)

	result, err := generate.WithFallback(ctx, s.llm, s.logger,
		s.opts.Model, s.opts.FallbackModel, msgs, schema.ChatResponseFormat, schema.ParseChatOutput)
	if err != nil {
		return nil, err
	}

	s.flagUngroundedCitations(result, docs)
	return result, nil
}

// flagUngroundedCitations warns about citations naming documents that were
// never in the candidate set. The result is returned unchanged; the model's
// citing behavior is surfaced, not corrected.
func (s *Service) flagUngroundedCitations(result *schema.ChatResult, docs []rag.Document) {
	known := make(map[string]bool, len(docs))
	for _, d := range docs {
		known[d.DocID] = true
	}
	for _, c := range result.Sources {
		if !known[c.DocID] {
			s.logger.Warn("citation references document outside candidate set",
				"doc_id", c.DocID,
				"filename", c.Filename,
			)
		}
	}
}
