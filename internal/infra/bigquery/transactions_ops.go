package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// InsertTransactionWithClient inserts a single TransactionRow into
// finance.transactions. Uses DML INSERT rather than the streaming inserter so
// a failed write surfaces here instead of in a background buffer.
func InsertTransactionWithClient(ctx context.Context, client *bigquery.Client, dataset string, row *TransactionRow) error {
	q := client.Query(fmt.Sprintf(`
		INSERT %s.transactions (
			transaction_id, description, amount,
			transaction_date, category_id, total_installments,
			source_file, created_ts
		)
		VALUES (
			@transaction_id, @description, @amount,
			@transaction_date, @category_id, @total_installments,
			@source_file, @created_ts
		)
	`, dataset))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "transaction_id", Value: row.TransactionID},
		{Name: "description", Value: row.Description},
		{Name: "amount", Value: row.Amount},
		{Name: "transaction_date", Value: row.Date},
		{Name: "category_id", Value: row.CategoryID},
		{Name: "total_installments", Value: row.TotalInstallments},
		{Name: "source_file", Value: row.SourceFile},
		{Name: "created_ts", Value: row.CreatedTS},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("InsertTransaction: running insert query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("InsertTransaction: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("InsertTransaction: job error: %w", err)
	}

	return nil
}
