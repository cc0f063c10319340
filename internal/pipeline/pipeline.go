package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lbarbosa/fatura-tracker/internal/domain"
	infra "github.com/lbarbosa/fatura-tracker/internal/infra/bigquery"
	"github.com/lbarbosa/fatura-tracker/internal/logger"
)

// Ingestor drives one full ingestion run: statement files in, category,
// transaction and installment rows out. Everything is sequential; each
// external call completes before the next begins.
type Ingestor struct {
	store     Store
	extractor TextExtractor
	parser    StatementParser

	// archiver is optional; nil disables the post-ingest copy to GCS.
	archiver StatementArchiver
}

// NewIngestor wires an Ingestor from its injected collaborators. archiver
// may be nil.
func NewIngestor(store Store, extractor TextExtractor, parser StatementParser, archiver StatementArchiver) *Ingestor {
	return &Ingestor{
		store:     store,
		extractor: extractor,
		parser:    parser,
		archiver:  archiver,
	}
}

// RunSummary counts what one ingestion run did.
type RunSummary struct {
	DocumentsFound      int
	RecordsExtracted    int
	RecordsSkipped      int
	TransactionsWritten int
	InstallmentsWritten int
}

// Run processes every statement file in dir, one document at a time. Faults
// below the run level (a bad document, a malformed record, a failed insert)
// are logged and skipped; Run only returns an error when the directory
// itself cannot be listed.
func (ing *Ingestor) Run(ctx context.Context, dir string) (*RunSummary, error) {
	log := logger.FromContext(ctx)

	files, err := ListStatementFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}

	log.Info().Int("count", len(files)).Str("dir", dir).Msg("found statement files to process")

	summary := &RunSummary{DocumentsFound: len(files)}
	resolver := NewCategoryResolver(ing.store)

	for _, name := range files {
		ing.processDocument(ctx, filepath.Join(dir, name), name, resolver, summary)
	}

	log.Info().
		Int("documents", summary.DocumentsFound).
		Int("records_extracted", summary.RecordsExtracted).
		Int("records_skipped", summary.RecordsSkipped).
		Int("transactions_written", summary.TransactionsWritten).
		Int("installments_written", summary.InstallmentsWritten).
		Msg("all files processed")

	return summary, nil
}

func (ing *Ingestor) processDocument(ctx context.Context, path, name string, resolver *CategoryResolver, summary *RunSummary) {
	log := logger.FromContext(ctx).With().Str("file", name).Logger()
	log.Info().Msg("processing statement")

	rawText, err := ing.extractor.ExtractText(path)
	if err != nil {
		log.Error().Err(err).Msg("text extraction failed; skipping document")
		return
	}

	records, err := ing.parser.ParseStatement(ctx, rawText, name)
	if err != nil {
		log.Error().Err(err).Msg("model call failed; skipping document")
		return
	}
	summary.RecordsExtracted += len(records)

	txs, recordErrs := transformExtractedRecords(records)
	for _, recErr := range recordErrs {
		log.Warn().Err(recErr).Msg("skipping malformed record")
	}
	summary.RecordsSkipped += len(recordErrs)

	log.Info().Int("transactions", len(txs)).Msg("extracted transactions from statement")

	for _, tx := range txs {
		ing.writeTransaction(ctx, log, resolver, name, tx, summary)
	}

	if ing.archiver != nil {
		uri, err := ing.archiver.ArchiveStatement(ctx, path)
		if err != nil {
			log.Error().Err(err).Msg("failed to archive statement")
			return
		}
		log.Info().Str("uri", uri).Msg("archived statement")
	}
}

// writeTransaction persists one extracted record: category resolution, then
// the transaction row, then its single installment row. A fault at any step
// skips the remaining steps for this record and moves on; the transaction
// and installment inserts are not wrapped in a store transaction, so an
// installment fault leaves the transaction row in place.
func (ing *Ingestor) writeTransaction(ctx context.Context, log zerolog.Logger, resolver *CategoryResolver, sourceFile string, tx ExtractedTransaction, summary *RunSummary) {
	categoryID, err := resolver.Resolve(ctx, tx.CategoryGuess)
	if err != nil {
		log.Error().Err(err).Str("description", tx.Description).Msg("category resolution failed; skipping transaction")
		summary.RecordsSkipped++
		return
	}

	transaction := domain.Transaction{
		ID:                uuid.NewString(),
		Description:       tx.Description,
		Amount:            tx.Amount,
		Date:              tx.Date,
		CategoryID:        categoryID,
		TotalInstallments: tx.InstallmentTotal,
		SourceFile:        sourceFile,
	}
	if err := ing.store.InsertTransaction(ctx, transactionRow(transaction)); err != nil {
		log.Error().Err(err).Str("description", tx.Description).Msg("transaction insert failed; skipping installment")
		return
	}
	summary.TransactionsWritten++
	log.Info().
		Str("description", transaction.Description).
		Str("date", transaction.Date.Format("2006-01-02")).
		Msg("inserted transaction")

	installment := domain.Installment{
		ID:            uuid.NewString(),
		TransactionID: transaction.ID,
		Number:        tx.InstallmentCurrent,
		Amount:        domain.ProRate(tx.Amount, tx.InstallmentTotal),
		DueDate:       tx.Date,
		Status:        domain.InstallmentStatusPaid,
	}
	if err := ing.store.InsertInstallment(ctx, installmentRow(installment)); err != nil {
		log.Error().Err(err).Str("description", tx.Description).Msg("installment insert failed")
		return
	}
	summary.InstallmentsWritten++
	log.Info().
		Int("installment", installment.Number).
		Int("of", transaction.TotalInstallments).
		Str("description", transaction.Description).
		Msg("inserted installment")
}

func transactionRow(t domain.Transaction) *infra.TransactionRow {
	return &infra.TransactionRow{
		TransactionID:     t.ID,
		Description:       t.Description,
		Amount:            t.Amount.Rat(),
		Date:              civil.DateOf(t.Date),
		CategoryID:        t.CategoryID,
		TotalInstallments: int64(t.TotalInstallments),
		SourceFile:        t.SourceFile,
		CreatedTS:         time.Now().UTC(),
	}
}

func installmentRow(i domain.Installment) *infra.InstallmentRow {
	return &infra.InstallmentRow{
		InstallmentID:     i.ID,
		TransactionID:     i.TransactionID,
		InstallmentNumber: int64(i.Number),
		Amount:            i.Amount.Rat(),
		DueDate:           civil.DateOf(i.DueDate),
		Status:            i.Status,
		CreatedTS:         time.Now().UTC(),
	}
}
