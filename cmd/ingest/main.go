// Command ingest processes a directory of credit-card statement PDFs:
// text extraction, model-assisted transaction extraction, and persistence
// of categories, transactions and installments into BigQuery.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/lbarbosa/fatura-tracker/internal/config"
	"github.com/lbarbosa/fatura-tracker/internal/extractor"
	"github.com/lbarbosa/fatura-tracker/internal/gcsuploader"
	infraBQ "github.com/lbarbosa/fatura-tracker/internal/infra/bigquery"
	"github.com/lbarbosa/fatura-tracker/internal/logger"
	"github.com/lbarbosa/fatura-tracker/internal/pipeline"
)

func main() {
	log := logger.New()

	dir := flag.String("dir", "", "directory of statement PDFs (overrides DOCUMENTS_DIR)")
	flag.Parse()

	// Missing configuration aborts before any document is touched.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("incomplete configuration")
	}
	if *dir != "" {
		cfg.DocumentsDir = *dir
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo, err := infraBQ.NewRepository(ctx, cfg.ProjectID, cfg.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create BigQuery repository")
	}
	defer repo.Close()

	parser, err := pipeline.NewGeminiParser(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Gemini parser")
	}

	var archiver pipeline.StatementArchiver
	if cfg.ArchiveBucket != "" {
		archiver = gcsuploader.NewArchiver(cfg.ArchiveBucket)
	}

	ing := pipeline.NewIngestor(repo, extractor.NewPDF(), parser, archiver)

	log.Info().Str("dir", cfg.DocumentsDir).Str("dataset", cfg.Dataset).Msg("starting ingestion")

	summary, err := ing.Run(ctx, cfg.DocumentsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("ingestion failed")
	}

	fmt.Printf("Ingestion completed: %d documents, %d transactions, %d installments (%d records skipped).\n",
		summary.DocumentsFound, summary.TransactionsWritten, summary.InstallmentsWritten, summary.RecordsSkipped)
}
