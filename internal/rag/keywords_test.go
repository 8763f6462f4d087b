package rag

import (
	"strings"
	"testing"
)

func TestContainsJapanese(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"支払条件を教えて", true},
		{"カタカナ", true},
		{"ひらがな", true},
		{"what are the payment terms", false},
		{"", false},
		{"invoice 契約", true},
		{"123 !?", false},
	}

	for _, tt := range tests {
		if got := ContainsJapanese(tt.input); got != tt.want {
			t.Errorf("ContainsJapanese(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestExtractKeywords_Japanese(t *testing.T) {
	terms := ExtractKeywords("支払条件を教えて")

	// を and て are particles, so tokens are 支払条件 and 教え, plus the
	// particle-retaining full query as the fallback term.
	want := []string{"支払条件", "教え", "支払条件を教えて"}
	if len(terms) != len(want) {
		t.Fatalf("expected %d terms, got %d: %v", len(want), len(terms), terms)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("term %d: expected %q, got %q", i, want[i], terms[i])
		}
	}
}

func TestExtractKeywords_JapanesePunctuation(t *testing.T) {
	terms := ExtractKeywords("検収期間は？")

	if len(terms) == 0 {
		t.Fatal("expected at least one term")
	}
	if terms[0] != "検収期間" {
		t.Errorf("expected first term 検収期間, got %q", terms[0])
	}
	// Fallback term keeps particles but drops the question mark.
	last := terms[len(terms)-1]
	if last != "検収期間は" {
		t.Errorf("expected fallback term 検収期間は, got %q", last)
	}
}

func TestExtractKeywords_JapaneseMinTokenLength(t *testing.T) {
	// 督促 survives; single-rune leftovers between particles do not.
	terms := ExtractKeywords("督促の流れ")
	for _, term := range terms[:len(terms)-1] {
		if len([]rune(term)) < 2 {
			t.Errorf("token %q shorter than 2 runes", term)
		}
	}
}

func TestExtractKeywords_JapaneseAllPunctuation(t *testing.T) {
	// Nothing survives tokenization, so the raw query is the single term.
	query := "はの？"
	terms := ExtractKeywords(query)
	if len(terms) != 1 || terms[0] != query {
		t.Errorf("expected raw-query fallback [%q], got %v", query, terms)
	}
}

func TestExtractKeywords_Latin(t *testing.T) {
	query := "what are the payment terms"
	terms := ExtractKeywords(query)

	// The filter keeps tokens longer than two characters, so three-letter
	// words like "are" and "the" survive.
	want := []string{"what", "are", "the", "payment", "terms"}
	if len(terms) != len(want) {
		t.Fatalf("expected %v, got %v", want, terms)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("term %d: expected %q, got %q", i, want[i], terms[i])
		}
		if !strings.Contains(query, terms[i]) {
			t.Errorf("term %q is not a substring of the query", terms[i])
		}
	}
}

func TestExtractKeywords_LatinShortTokens(t *testing.T) {
	// Tokens of length <=2 are dropped; an all-short query yields zero
	// terms and retrieval must run unfiltered.
	terms := ExtractKeywords("is it ok")
	if len(terms) != 0 {
		t.Errorf("expected no terms, got %v", terms)
	}
}

func TestBuildContext(t *testing.T) {
	long := strings.Repeat("あ", 900)
	docs := []Document{
		{DocID: "DOC-1", Filename: "DOC-1.pdf", Content: "short content"},
		{DocID: "DOC-2", Filename: "DOC-2.pdf", Content: long},
	}

	ctx := BuildContext(docs)

	if !strings.Contains(ctx, "[DocID: DOC-1] Filename: DOC-1.pdf\nContent: short content...") {
		t.Error("missing first document block")
	}
	if !strings.Contains(ctx, "\n\n[DocID: DOC-2]") {
		t.Error("documents not separated by blank line")
	}
	if strings.Contains(ctx, strings.Repeat("あ", 801)) {
		t.Error("content not truncated to the rune budget")
	}
	if !strings.Contains(ctx, strings.Repeat("あ", 800)+"...") {
		t.Error("truncated content missing marker")
	}
}

func TestBuildContext_Empty(t *testing.T) {
	if got := BuildContext(nil); got != "" {
		t.Errorf("expected empty context, got %q", got)
	}
}
