package pipeline

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/lbarbosa/fatura-tracker/internal/domain"
)

// statementJSON is the canned model output used by the end-to-end tests: a
// single ride plus installment 2 of 10 of a notebook purchase.
const statementJSON = `[
	{"date":"2025-09-15","description":"UBER TRIP","amount":45.5,
	 "category_guess":"Transport","installment_current":1,"installment_total":1},
	{"date":"2025-09-10","description":"NOTEBOOK DELL","amount":3000,
	 "category_guess":"Electronics","installment_current":2,"installment_total":10}
]`

func writeStatementDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func ratEquals(r *big.Rat, num, denom int64) bool {
	return r.Cmp(big.NewRat(num, denom)) == 0
}

func TestRunEndToEnd(t *testing.T) {
	dir := writeStatementDir(t, "fatura-2025-09.pdf")
	store := newFakeStore()
	records, err := decodeModelJSON(statementJSON)
	if err != nil {
		t.Fatal(err)
	}

	ing := NewIngestor(store, &fakeExtractor{text: "statement text"}, &fakeParser{records: records}, nil)
	summary, err := ing.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if summary.DocumentsFound != 1 || summary.RecordsExtracted != 2 ||
		summary.TransactionsWritten != 2 || summary.InstallmentsWritten != 2 ||
		summary.RecordsSkipped != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	// One category per distinct guess, created once each.
	if len(store.categoryInserts) != 2 {
		t.Fatalf("got %d category inserts, want 2", len(store.categoryInserts))
	}
	names := map[string]bool{}
	for _, c := range store.categoryInserts {
		names[c.Name] = true
	}
	if !names["Transport"] || !names["Electronics"] {
		t.Errorf("category names = %v, want Transport and Electronics", names)
	}

	if len(store.transactionInserts) != 2 {
		t.Fatalf("got %d transaction inserts, want 2", len(store.transactionInserts))
	}
	uber := store.transactionInserts[0]
	if uber.Description != "UBER TRIP" || !ratEquals(uber.Amount, 4550, 100) ||
		uber.Date.String() != "2025-09-15" || uber.TotalInstallments != 1 {
		t.Errorf("unexpected uber transaction row: %+v", uber)
	}
	dell := store.transactionInserts[1]
	if dell.Description != "NOTEBOOK DELL" || !ratEquals(dell.Amount, 3000, 1) ||
		dell.Date.String() != "2025-09-10" || dell.TotalInstallments != 10 {
		t.Errorf("unexpected dell transaction row: %+v", dell)
	}
	if uber.SourceFile != "fatura-2025-09.pdf" {
		t.Errorf("SourceFile = %q", uber.SourceFile)
	}

	if len(store.installmentInserts) != 2 {
		t.Fatalf("got %d installment inserts, want 2", len(store.installmentInserts))
	}
	first := store.installmentInserts[0]
	if !ratEquals(first.Amount, 4550, 100) || first.InstallmentNumber != 1 ||
		first.Status != domain.InstallmentStatusPaid || first.TransactionID != uber.TransactionID {
		t.Errorf("unexpected first installment row: %+v", first)
	}
	second := store.installmentInserts[1]
	if !ratEquals(second.Amount, 300, 1) || second.InstallmentNumber != 2 ||
		second.Status != domain.InstallmentStatusPaid || second.TransactionID != dell.TransactionID {
		t.Errorf("unexpected second installment row: %+v", second)
	}
	if second.DueDate.String() != "2025-09-10" {
		t.Errorf("installment due date = %s, want the transaction date", second.DueDate)
	}
}

func TestRunAgainstPopulatedStore(t *testing.T) {
	// Re-running the same statement against a store that already holds the
	// categories creates no category rows but still writes new transaction
	// and installment rows: transactions are not deduplicated.
	dir := writeStatementDir(t, "fatura-2025-09.pdf")
	store := newFakeStore()
	store.seedCategory("cat-transport", "Transport")
	store.seedCategory("cat-electronics", "Electronics")
	records, err := decodeModelJSON(statementJSON)
	if err != nil {
		t.Fatal(err)
	}

	ing := NewIngestor(store, &fakeExtractor{text: "statement text"}, &fakeParser{records: records}, nil)
	if _, err := ing.Run(context.Background(), dir); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(store.categoryInserts) != 0 {
		t.Errorf("got %d category inserts, want 0", len(store.categoryInserts))
	}
	if len(store.transactionInserts) != 2 {
		t.Errorf("got %d transaction inserts, want 2", len(store.transactionInserts))
	}
	if len(store.installmentInserts) != 2 {
		t.Errorf("got %d installment inserts, want 2", len(store.installmentInserts))
	}
	if store.transactionInserts[0].CategoryID != "cat-transport" {
		t.Errorf("CategoryID = %q, want cat-transport", store.transactionInserts[0].CategoryID)
	}
}

func TestRunParserYieldsNothing(t *testing.T) {
	// A model response that was not valid JSON surfaces here as an empty
	// record set; the run completes without writes and without an error.
	dir := writeStatementDir(t, "fatura-2025-09.pdf")
	store := newFakeStore()

	ing := NewIngestor(store, &fakeExtractor{text: "garbled"}, &fakeParser{records: nil}, nil)
	summary, err := ing.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if summary.TransactionsWritten != 0 || len(store.transactionInserts) != 0 {
		t.Errorf("writes happened for an empty extraction: %+v", summary)
	}
}

func TestRunModelErrorSkipsDocument(t *testing.T) {
	dir := writeStatementDir(t, "a.pdf", "b.pdf")
	store := newFakeStore()
	parser := &fakeParser{err: errors.New("model unavailable")}

	ing := NewIngestor(store, &fakeExtractor{text: "text"}, parser, nil)
	summary, err := ing.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if parser.calls != 2 {
		t.Errorf("parser called %d times, want 2 (one per document)", parser.calls)
	}
	if summary.TransactionsWritten != 0 {
		t.Errorf("unexpected writes: %+v", summary)
	}
}

func TestRunTransactionFaultSkipsInstallment(t *testing.T) {
	dir := writeStatementDir(t, "fatura-2025-09.pdf")
	store := newFakeStore()
	store.insertTransactionErr = errors.New("quota exceeded")
	records, err := decodeModelJSON(statementJSON)
	if err != nil {
		t.Fatal(err)
	}

	ing := NewIngestor(store, &fakeExtractor{text: "text"}, &fakeParser{records: records}, nil)
	summary, err := ing.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(store.installmentInserts) != 0 {
		t.Errorf("installments written despite failed transactions: %d", len(store.installmentInserts))
	}
	if summary.TransactionsWritten != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	// Categories were still resolved before the insert fault.
	if len(store.categoryInserts) != 2 {
		t.Errorf("got %d category inserts, want 2", len(store.categoryInserts))
	}
}

func TestRunInstallmentFaultIsAbsorbed(t *testing.T) {
	dir := writeStatementDir(t, "fatura-2025-09.pdf")
	store := newFakeStore()
	store.insertInstallmentErr = errors.New("quota exceeded")
	records, err := decodeModelJSON(statementJSON)
	if err != nil {
		t.Fatal(err)
	}

	ing := NewIngestor(store, &fakeExtractor{text: "text"}, &fakeParser{records: records}, nil)
	summary, err := ing.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Transactions stay written; the failed installments leave them without
	// installment rows rather than rolling anything back.
	if summary.TransactionsWritten != 2 || summary.InstallmentsWritten != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestRunArchivesProcessedStatements(t *testing.T) {
	dir := writeStatementDir(t, "fatura-2025-09.pdf")
	store := newFakeStore()
	archiver := &fakeArchiver{}
	records, err := decodeModelJSON(statementJSON)
	if err != nil {
		t.Fatal(err)
	}

	ing := NewIngestor(store, &fakeExtractor{text: "text"}, &fakeParser{records: records}, archiver)
	if _, err := ing.Run(context.Background(), dir); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(archiver.archived) != 1 {
		t.Fatalf("got %d archived files, want 1", len(archiver.archived))
	}
	if filepath.Base(archiver.archived[0]) != "fatura-2025-09.pdf" {
		t.Errorf("archived %q", archiver.archived[0])
	}
}

func TestRunArchiveFaultIsNotFatal(t *testing.T) {
	dir := writeStatementDir(t, "fatura-2025-09.pdf")
	store := newFakeStore()
	records, err := decodeModelJSON(statementJSON)
	if err != nil {
		t.Fatal(err)
	}

	ing := NewIngestor(store, &fakeExtractor{text: "text"}, &fakeParser{records: records},
		&fakeArchiver{err: errors.New("bucket gone")})
	summary, err := ing.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.TransactionsWritten != 2 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}
