package rag

import (
	"fmt"
	"strings"
)

// contextCharBudget bounds how much of each document lands in the prompt,
// counted in runes so multibyte text is not cut mid-character.
const contextCharBudget = 800

// BuildContext concatenates candidate documents into the prompt context
// block: an identifying header per document, content capped at the budget,
// blank-line separated.
func BuildContext(docs []Document) string {
	parts := make([]string, len(docs))
	for i, d := range docs {
		content := []rune(d.Content)
		if len(content) > contextCharBudget {
			content = content[:contextCharBudget]
		}
		parts[i] = fmt.Sprintf("[DocID: %s] Filename: %s\nContent: %s...", d.DocID, d.Filename, string(content))
	}
	return strings.Join(parts, "\n\n")
}
