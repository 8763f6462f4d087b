// Package rag holds the retrieval side of the assistant pipelines: turning a
// free-text question into SQL search terms and assembling retrieved
// documents into a bounded prompt context.
package rag

import "strings"

// Document is a candidate row from the document table. Rows are read-only
// context; nothing in the pipeline mutates them.
type Document struct {
	DocID    string `json:"doc_id"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// japaneseBlocks are the Unicode ranges that mark a query as Japanese:
// Hiragana, Katakana and CJK Unified Ideographs.
var japaneseBlocks = [][2]rune{
	{0x3040, 0x309F},
	{0x30A0, 0x30FF},
	{0x4E00, 0x9FAF},
}

// jpPunctuation is stripped before tokenization (full-width marks, brackets,
// middle dot). Whitespace is handled alongside it.
const jpPunctuation = "？！。、「」『』（）・"

// jpTerminalPunctuation is the smaller set stripped from the full-query
// fallback term; brackets and the middle dot stay put there.
const jpTerminalPunctuation = "？！。、"

// jpParticles are the grammatical particle characters split on when
// tokenizing Japanese text. Matching is per rune, so より contributes よ and り.
const jpParticles = "のをはがにでともやかてより"

// ContainsJapanese reports whether the text has any character in the
// Hiragana, Katakana or CJK ideograph blocks.
func ContainsJapanese(s string) bool {
	for _, r := range s {
		for _, blk := range japaneseBlocks {
			if r >= blk[0] && r <= blk[1] {
				return true
			}
		}
	}
	return false
}

// ExtractKeywords turns a user question into ordered LIKE search terms.
//
// Japanese input is split on punctuation and particles, keeping tokens of
// two or more runes, with the particle-retaining full query appended as an
// exact-substring fallback term. If nothing survives, the raw query itself
// is the single term. Latin input is split on spaces, keeping tokens longer
// than two characters; zero terms means retrieval runs unfiltered.
func ExtractKeywords(query string) []string {
	if ContainsJapanese(query) {
		return extractJapanese(query)
	}
	return extractLatin(query)
}

func extractJapanese(query string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(jpPunctuation, r) || isSpace(r) {
			return ' '
		}
		return r
	}, query)
	cleaned = strings.Map(func(r rune) rune {
		if strings.ContainsRune(jpParticles, r) {
			return ' '
		}
		return r
	}, cleaned)

	var terms []string
	for _, tok := range strings.Fields(cleaned) {
		if len([]rune(tok)) >= 2 {
			terms = append(terms, tok)
		}
	}

	if len(terms) == 0 {
		return []string{query}
	}

	// Fallback exact-substring term: the whole query with terminal
	// punctuation and whitespace removed but particles kept.
	full := strings.Map(func(r rune) rune {
		if strings.ContainsRune(jpTerminalPunctuation, r) || isSpace(r) {
			return -1
		}
		return r
	}, query)
	terms = append(terms, full)

	return terms
}

func extractLatin(query string) []string {
	var terms []string
	for _, tok := range strings.Split(query, " ") {
		if len(tok) > 2 {
			terms = append(terms, tok)
		}
	}
	return terms
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '　':
		return true
	}
	return false
}
