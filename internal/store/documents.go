package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledgerops/daicho/internal/rag"
)

// candidateLimit caps how many document rows a search can return.
const candidateLimit = 5

// searchQuery builds the candidate SQL and its bound parameters. Terms only
// ever travel as parameters; user text never lands in the statement itself.
func searchQuery(terms []string) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT doc_id, filename, content FROM main_gold.gold_documents")

	params := make([]any, 0, len(terms))
	if len(terms) > 0 {
		sb.WriteString(" WHERE ")
		for i, term := range terms {
			if i > 0 {
				sb.WriteString(" OR ")
			}
			fmt.Fprintf(&sb, "content ILIKE $%d", i+1)
			params = append(params, "%"+term+"%")
		}
	}
	fmt.Fprintf(&sb, " LIMIT %d", candidateLimit)
	return sb.String(), params
}

// SearchDocuments returns up to five documents whose content matches any of
// the given terms, case-insensitively, in store order. With no terms the
// first rows of the table are returned unfiltered, which is the defined
// behavior for queries that tokenize to nothing.
func (s *Store) SearchDocuments(ctx context.Context, terms []string) ([]rag.Document, error) {
	sql, params := searchQuery(terms)

	rows, err := s.pool.Query(ctx, sql, params...)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	var docs []rag.Document
	for rows.Next() {
		var d rag.Document
		if err := rows.Scan(&d.DocID, &d.Filename, &d.Content); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}
	return docs, nil
}

// UpsertDocument writes a synced document row, replacing any previous
// content for the same doc_id. Used by the docsync tool, not the pipelines.
func (s *Store) UpsertDocument(ctx context.Context, doc rag.Document) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO main_gold.gold_documents (doc_id, filename, content)
		VALUES ($1, $2, $3)
		ON CONFLICT (doc_id) DO UPDATE SET filename = $2, content = $3`,
		doc.DocID, doc.Filename, doc.Content,
	)
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", doc.DocID, err)
	}
	return nil
}
