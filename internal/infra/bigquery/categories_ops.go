package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// FindCategoryByNameWithClient looks up a category by exact name. Returns
// (nil, nil) when no row matches. More than one match is an error so the
// caller can decide how to degrade; name is the de facto unique key but the
// table carries no constraint.
func FindCategoryByNameWithClient(ctx context.Context, client *bigquery.Client, dataset, name string) (*CategoryRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT category_id, name, created_ts
		FROM %s.categories
		WHERE name = @name
	`, dataset))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "name", Value: name},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindCategoryByName: query read: %w", err)
	}

	var rows []CategoryRow
	for {
		var r CategoryRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("FindCategoryByName: iter next: %w", err)
		}
		rows = append(rows, r)
	}

	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return &rows[0], nil
	default:
		return nil, fmt.Errorf("FindCategoryByName: %d categories named %q, want at most 1", len(rows), name)
	}
}

// InsertCategoryWithClient inserts a single CategoryRow via DML so the row is
// immediately visible to the name lookup above.
func InsertCategoryWithClient(ctx context.Context, client *bigquery.Client, dataset string, row *CategoryRow) error {
	q := client.Query(fmt.Sprintf(`
		INSERT %s.categories (category_id, name, created_ts)
		VALUES (@category_id, @name, @created_ts)
	`, dataset))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "category_id", Value: row.CategoryID},
		{Name: "name", Value: row.Name},
		{Name: "created_ts", Value: row.CreatedTS},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("InsertCategory: running insert query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("InsertCategory: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("InsertCategory: job error: %w", err)
	}

	return nil
}
