package bigquery

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

const dateFormat = "2006-01-02"

// CategorySpendRow is one line of the spend-by-category summary.
type CategorySpendRow struct {
	CategoryName     string   `bigquery:"category_name"`
	TotalAmount      *big.Rat `bigquery:"total_amount"`
	TransactionCount int64    `bigquery:"transaction_count"`
}

// CategorySpendWithClient sums transaction amounts per category within the
// given date range, largest spend first. Transactions whose category row was
// never written (a lookup-or-create fault mid-run) still show up, grouped
// under their dangling category_id.
func CategorySpendWithClient(ctx context.Context, client *bigquery.Client, dataset string, start, end time.Time) ([]CategorySpendRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			COALESCE(c.name, t.category_id) AS category_name,
			SUM(t.amount) AS total_amount,
			COUNT(*) AS transaction_count
		FROM %s.transactions t
		LEFT JOIN %s.categories c
		  ON t.category_id = c.category_id
		WHERE t.transaction_date >= @start_date
		  AND t.transaction_date <= @end_date
		GROUP BY category_name
		ORDER BY total_amount DESC
	`, dataset, dataset))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "start_date", Value: start.Format(dateFormat)},
		{Name: "end_date", Value: end.Format(dateFormat)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("CategorySpend: query read: %w", err)
	}

	var rows []CategorySpendRow
	for {
		var r CategorySpendRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CategorySpend: iter next: %w", err)
		}
		rows = append(rows, r)
	}

	return rows, nil
}
