package pipeline

import (
	"context"
	"fmt"

	infra "github.com/lbarbosa/fatura-tracker/internal/infra/bigquery"
)

// fakeStore is an in-memory Store that records every insert.
type fakeStore struct {
	categoriesByName map[string]*infra.CategoryRow

	findCalls int
	findErr   error

	insertCategoryErr    error
	insertTransactionErr error
	insertInstallmentErr error

	categoryInserts    []*infra.CategoryRow
	transactionInserts []*infra.TransactionRow
	installmentInserts []*infra.InstallmentRow
}

func newFakeStore() *fakeStore {
	return &fakeStore{categoriesByName: make(map[string]*infra.CategoryRow)}
}

func (s *fakeStore) seedCategory(id, name string) {
	s.categoriesByName[name] = &infra.CategoryRow{CategoryID: id, Name: name}
}

func (s *fakeStore) FindCategoryByName(ctx context.Context, name string) (*infra.CategoryRow, error) {
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.categoriesByName[name], nil
}

func (s *fakeStore) InsertCategory(ctx context.Context, row *infra.CategoryRow) error {
	if s.insertCategoryErr != nil {
		return s.insertCategoryErr
	}
	s.categoryInserts = append(s.categoryInserts, row)
	s.categoriesByName[row.Name] = row
	return nil
}

func (s *fakeStore) InsertTransaction(ctx context.Context, row *infra.TransactionRow) error {
	if s.insertTransactionErr != nil {
		return s.insertTransactionErr
	}
	s.transactionInserts = append(s.transactionInserts, row)
	return nil
}

func (s *fakeStore) InsertInstallment(ctx context.Context, row *infra.InstallmentRow) error {
	if s.insertInstallmentErr != nil {
		return s.insertInstallmentErr
	}
	s.installmentInserts = append(s.installmentInserts, row)
	return nil
}

// fakeExtractor returns canned text for any file.
type fakeExtractor struct {
	text string
	err  error
}

func (e *fakeExtractor) ExtractText(path string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}

// fakeParser returns canned records for any statement.
type fakeParser struct {
	records []any
	err     error
	calls   int
}

func (p *fakeParser) ParseStatement(ctx context.Context, rawText, fileName string) ([]any, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.records, nil
}

// fakeArchiver records which files were archived.
type fakeArchiver struct {
	archived []string
	err      error
}

func (a *fakeArchiver) ArchiveStatement(ctx context.Context, filePath string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.archived = append(a.archived, filePath)
	return fmt.Sprintf("gs://test-bucket/processed/%s", filePath), nil
}
