package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
)

// Repository bundles the three-table store behind a single long-lived
// BigQuery client. One instance is created at startup and shared by the
// whole run; callers must Close it when done.
type Repository struct {
	client  *bigquery.Client
	dataset string
}

// NewRepository creates a Repository for the given project and dataset.
func NewRepository(ctx context.Context, projectID, dataset string) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating client: %w", err)
	}
	return &Repository{
		client:  client,
		dataset: dataset,
	}, nil
}

// Close closes the underlying BigQuery client.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// FindCategoryByName looks up a category by exact name; (nil, nil) when absent.
func (r *Repository) FindCategoryByName(ctx context.Context, name string) (*CategoryRow, error) {
	return FindCategoryByNameWithClient(ctx, r.client, r.dataset, name)
}

// InsertCategory inserts a new category row.
func (r *Repository) InsertCategory(ctx context.Context, row *CategoryRow) error {
	return InsertCategoryWithClient(ctx, r.client, r.dataset, row)
}

// InsertTransaction inserts a new transaction row.
func (r *Repository) InsertTransaction(ctx context.Context, row *TransactionRow) error {
	return InsertTransactionWithClient(ctx, r.client, r.dataset, row)
}

// InsertInstallment inserts a new installment row.
func (r *Repository) InsertInstallment(ctx context.Context, row *InstallmentRow) error {
	return InsertInstallmentWithClient(ctx, r.client, r.dataset, row)
}

// CategorySpend sums spend per category within the date range.
func (r *Repository) CategorySpend(ctx context.Context, start, end time.Time) ([]CategorySpendRow, error) {
	return CategorySpendWithClient(ctx, r.client, r.dataset, start, end)
}
