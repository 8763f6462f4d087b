// Package schema declares the structured-output contracts for the chat and
// report pipelines, together with the validators that gate model output
// before it reaches a caller. Validation is deliberately separate from the
// transport client so cardinality and enum violations are testable offline.
package schema

import (
	"encoding/json"

	"github.com/ledgerops/daicho/internal/openai"
)

// Citation points at a source document backing a claim in an answer.
// Page is null for documents without page anchors.
type Citation struct {
	DocID    string `json:"doc_id"`
	Filename string `json:"filename"`
	Page     *int   `json:"page"`
	Excerpt  string `json:"excerpt"`
}

// ChatResult is the terminal output of one chat turn. Sources is empty when
// the pipeline short-circuited before generation.
type ChatResult struct {
	Answer  string     `json:"answer"`
	Sources []Citation `json:"sources"`
	Error   string     `json:"error,omitempty"`
}

// NextAction is a single recommended follow-up in a weekly report.
type NextAction struct {
	OrderID         string `json:"order_id"`
	Category        string `json:"category"`
	SuggestedAction string `json:"suggested_action"`
	ReasoningSource string `json:"reasoning_source"`
}

// ReportResult is the terminal output of one report generation.
type ReportResult struct {
	StatusSummary string       `json:"status_summary"`
	KeyHighlights []string     `json:"key_highlights"`
	NextActions   []NextAction `json:"next_actions"`
	Error         string       `json:"error,omitempty"`
}

// ActionCategories is the closed set of next-action categories.
var ActionCategories = []string{"billing_reminder", "payment_confirmation", "contract_review", "unknown"}

// ChatResponseFormat is the strict schema for chat answers: an answer plus
// one to three citations, no extra fields.
var ChatResponseFormat = openai.ResponseFormat{
	Name:   "rag_response",
	Strict: true,
	Schema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"answer": {"type": "string"},
			"citations": {
				"type": "array",
				"minItems": 1,
				"maxItems": 3,
				"items": {
					"type": "object",
					"properties": {
						"doc_id": {"type": "string"},
						"filename": {"type": "string"},
						"page": {"type": ["integer", "null"]},
						"excerpt": {"type": "string"}
					},
					"required": ["doc_id", "filename", "page", "excerpt"],
					"additionalProperties": false
				}
			}
		},
		"required": ["answer", "citations"],
		"additionalProperties": false
	}`),
}

// ReportResponseFormat is the strict schema for weekly reports: a summary,
// exactly three highlight objects and a list of categorised next actions.
// Highlights are object-wrapped on the wire so strict mode holds across SDKs.
var ReportResponseFormat = openai.ResponseFormat{
	Name:   "weekly_report",
	Strict: true,
	Schema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"status_summary": {
				"type": "string",
				"description": "2-3 sentences summarizing financial health."
			},
			"key_highlights": {
				"type": "array",
				"minItems": 3,
				"maxItems": 3,
				"items": {
					"type": "object",
					"properties": {"point": {"type": "string"}},
					"required": ["point"],
					"additionalProperties": false
				},
				"description": "Exactly 3 key points."
			},
			"next_actions": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"order_id": {"type": "string"},
						"category": {
							"type": "string",
							"enum": ["billing_reminder", "payment_confirmation", "contract_review", "unknown"]
						},
						"suggested_action": {"type": "string"},
						"reasoning_source": {
							"type": "string",
							"description": "Specific field/clause used as evidence"
						}
					},
					"required": ["order_id", "category", "suggested_action", "reasoning_source"],
					"additionalProperties": false
				}
			}
		},
		"required": ["status_summary", "key_highlights", "next_actions"],
		"additionalProperties": false
	}`),
}
