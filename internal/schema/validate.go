package schema

import (
	"encoding/json"
	"fmt"
)

type chatWire struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

// ParseChatOutput decodes and validates a model response against the chat
// contract. Citation cardinality is re-checked here: strict mode should
// enforce it server-side, but a violation must trigger the fallback model,
// not reach the UI.
func ParseChatOutput(raw string) (*ChatResult, error) {
	var wire chatWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("parse chat output: %w", err)
	}
	if wire.Answer == "" {
		return nil, fmt.Errorf("chat output missing answer")
	}
	if len(wire.Citations) == 0 {
		return nil, fmt.Errorf("citations missing in schema output")
	}
	if len(wire.Citations) > 3 {
		return nil, fmt.Errorf("too many citations: %d (max 3)", len(wire.Citations))
	}
	return &ChatResult{Answer: wire.Answer, Sources: wire.Citations}, nil
}

type reportWire struct {
	StatusSummary string `json:"status_summary"`
	KeyHighlights []struct {
		Point string `json:"point"`
	} `json:"key_highlights"`
	NextActions []NextAction `json:"next_actions"`
}

// ParseReportOutput decodes and validates a model response against the
// report contract: exactly three highlights, categories from the closed set.
func ParseReportOutput(raw string) (*ReportResult, error) {
	var wire reportWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("parse report output: %w", err)
	}
	if len(wire.KeyHighlights) != 3 {
		return nil, fmt.Errorf("highlight count mismatch: got %d, need exactly 3", len(wire.KeyHighlights))
	}
	for _, a := range wire.NextActions {
		if !validCategory(a.Category) {
			return nil, fmt.Errorf("invalid action category %q", a.Category)
		}
	}

	highlights := make([]string, len(wire.KeyHighlights))
	for i, h := range wire.KeyHighlights {
		highlights[i] = h.Point
	}
	return &ReportResult{
		StatusSummary: wire.StatusSummary,
		KeyHighlights: highlights,
		NextActions:   wire.NextActions,
	}, nil
}

func validCategory(c string) bool {
	for _, v := range ActionCategories {
		if c == v {
			return true
		}
	}
	return false
}
