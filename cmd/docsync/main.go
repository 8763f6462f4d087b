// docsync ingests a directory of PDF documents into the gold_documents
// table so the chat assistant can retrieve them.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/ledgerops/daicho/internal/config"
	"github.com/ledgerops/daicho/internal/ingest"
	"github.com/ledgerops/daicho/internal/store"
)

func main() {
	dir := flag.String("dir", "./data/documents", "directory of PDF documents to sync")
	flag.Parse()

	cfg := config.Load()
	handler := slog.NewJSONHandler(os.Stdout, nil)
	logger := slog.New(handler)
	slog.SetDefault(logger)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	extractor := ingest.NewPDFTextService(cfg.PDFServiceURL)
	syncer := ingest.NewSyncer(db, extractor, logger)

	sum, err := syncer.SyncDir(ctx, *dir)
	if err != nil {
		logger.Error("sync failed", "error", err)
		os.Exit(1)
	}

	logger.Info("sync complete",
		"synced", sum.Synced,
		"skipped", sum.Skipped,
		"failed", sum.Failed,
	)
	if sum.Failed > 0 {
		os.Exit(1)
	}
}
