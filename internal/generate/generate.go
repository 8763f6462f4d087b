// Package generate runs one schema-constrained model call with a single
// fallback retry. Chat and report use the same skeleton with different
// schemas and parsers.
package generate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ledgerops/daicho/internal/openai"
)

// Completer is the language-model invocation capability. *openai.Client
// satisfies it; tests inject doubles.
type Completer interface {
	Complete(ctx context.Context, model string, messages []openai.Message, format openai.ResponseFormat) (string, error)
}

// FallbackError reports that both the primary and the fallback model failed.
type FallbackError struct {
	PrimaryModel  string
	FallbackModel string
	PrimaryErr    error
	FallbackErr   error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("generation failed on %s (%v) and fallback %s (%v)",
		e.PrimaryModel, e.PrimaryErr, e.FallbackModel, e.FallbackErr)
}

func (e *FallbackError) Unwrap() error {
	return e.FallbackErr
}

// WithFallback invokes the primary model, parses and validates the output,
// and on any failure retries the identical call once against the fallback
// model. A second failure is terminal; both failure contexts are attached.
func WithFallback[T any](
	ctx context.Context,
	llm Completer,
	logger *slog.Logger,
	primary, fallback string,
	messages []openai.Message,
	format openai.ResponseFormat,
	parse func(raw string) (T, error),
) (T, error) {
	result, primaryErr := attempt(ctx, llm, primary, messages, format, parse)
	if primaryErr == nil {
		return result, nil
	}

	logger.Warn("primary model attempt failed, retrying with fallback",
		"model", primary,
		"fallback", fallback,
		"error", primaryErr,
	)

	result, fallbackErr := attempt(ctx, llm, fallback, messages, format, parse)
	if fallbackErr == nil {
		return result, nil
	}

	var zero T
	return zero, &FallbackError{
		PrimaryModel:  primary,
		FallbackModel: fallback,
		PrimaryErr:    primaryErr,
		FallbackErr:   fallbackErr,
	}
}

func attempt[T any](
	ctx context.Context,
	llm Completer,
	model string,
	messages []openai.Message,
	format openai.ResponseFormat,
	parse func(raw string) (T, error),
) (T, error) {
	var zero T
	raw, err := llm.Complete(ctx, model, messages, format)
	if err != nil {
		return zero, err
	}
	result, err := parse(raw)
	if err != nil {
		return zero, err
	}
	return result, nil
}
