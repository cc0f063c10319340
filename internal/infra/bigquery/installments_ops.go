package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// InsertInstallmentWithClient inserts a single InstallmentRow into
// finance.installments.
func InsertInstallmentWithClient(ctx context.Context, client *bigquery.Client, dataset string, row *InstallmentRow) error {
	q := client.Query(fmt.Sprintf(`
		INSERT %s.installments (
			installment_id, transaction_id, installment_number,
			amount, due_date, status, created_ts
		)
		VALUES (
			@installment_id, @transaction_id, @installment_number,
			@amount, @due_date, @status, @created_ts
		)
	`, dataset))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "installment_id", Value: row.InstallmentID},
		{Name: "transaction_id", Value: row.TransactionID},
		{Name: "installment_number", Value: row.InstallmentNumber},
		{Name: "amount", Value: row.Amount},
		{Name: "due_date", Value: row.DueDate},
		{Name: "status", Value: row.Status},
		{Name: "created_ts", Value: row.CreatedTS},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("InsertInstallment: running insert query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("InsertInstallment: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("InsertInstallment: job error: %w", err)
	}

	return nil
}
