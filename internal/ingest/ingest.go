// Package ingest syncs a directory of PDF documents into the document
// table so the chat pipeline can retrieve them. PDFs are validated and
// page-counted locally; text extraction is delegated to the Python
// extraction service.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/ledgerops/daicho/internal/rag"
)

// TextExtractor turns raw PDF bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

// DocumentWriter persists synced documents; *store.Store satisfies it.
type DocumentWriter interface {
	UpsertDocument(ctx context.Context, doc rag.Document) error
}

// Summary reports what a sync run did.
type Summary struct {
	Synced  int
	Skipped int
	Failed  int
}

type Syncer struct {
	writer    DocumentWriter
	extractor TextExtractor
	logger    *slog.Logger
}

func NewSyncer(writer DocumentWriter, extractor TextExtractor, logger *slog.Logger) *Syncer {
	return &Syncer{writer: writer, extractor: extractor, logger: logger}
}

// SyncDir ingests every PDF directly under dir. Per-file failures are
// logged and counted but do not stop the run.
func (s *Syncer) SyncDir(ctx context.Context, dir string) (Summary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Summary{}, fmt.Errorf("read directory: %w", err)
	}

	var sum Summary
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			sum.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if err := s.syncFile(ctx, filepath.Join(dir, entry.Name())); err != nil {
			s.logger.Error("document sync failed", "file", entry.Name(), "error", err)
			sum.Failed++
			continue
		}
		sum.Synced++
	}
	return sum, nil
}

func (s *Syncer) syncFile(ctx context.Context, path string) error {
	filename := filepath.Base(path)

	if err := api.ValidateFile(path, nil); err != nil {
		return fmt.Errorf("validate pdf: %w", err)
	}
	pages, err := api.PageCountFile(path)
	if err != nil {
		return fmt.Errorf("count pages: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read pdf: %w", err)
	}

	content, err := s.extractor.Extract(ctx, data, filename)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	doc := rag.Document{
		DocID:    strings.TrimSuffix(filename, filepath.Ext(filename)),
		Filename: filename,
		Content:  content,
	}
	if err := s.writer.UpsertDocument(ctx, doc); err != nil {
		return err
	}

	s.logger.Info("document synced",
		"doc_id", doc.DocID,
		"pages", pages,
		"content_len", len(content),
	)
	return nil
}
