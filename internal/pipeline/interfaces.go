package pipeline

import (
	"context"

	infra "github.com/lbarbosa/fatura-tracker/internal/infra/bigquery"
)

// TextExtractor converts a statement file into plain text. The concrete
// implementation lives in internal/extractor; the pipeline only needs the
// black-box contract.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// StatementParser sends statement text to the hosted model and returns the
// raw decoded records. A response that is not valid JSON after cleanup is a
// skip-this-document condition, reported as an empty slice with a nil error.
type StatementParser interface {
	ParseStatement(ctx context.Context, rawText, fileName string) ([]any, error)
}

// Store is the subset of the BigQuery repository the pipeline writes through.
type Store interface {
	FindCategoryByName(ctx context.Context, name string) (*infra.CategoryRow, error)
	InsertCategory(ctx context.Context, row *infra.CategoryRow) error
	InsertTransaction(ctx context.Context, row *infra.TransactionRow) error
	InsertInstallment(ctx context.Context, row *infra.InstallmentRow) error
}

// StatementArchiver copies a processed statement file to durable storage.
type StatementArchiver interface {
	ArchiveStatement(ctx context.Context, filePath string) (string, error)
}
