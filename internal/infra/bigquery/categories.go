package bigquery

import "time"

// CategoryRow mirrors the finance.categories table. Categories are keyed by
// exact name at lookup time; BigQuery enforces no uniqueness, so the resolver
// cache is the only duplicate guard within a run.
type CategoryRow struct {
	CategoryID string    `bigquery:"category_id"` // REQUIRED
	Name       string    `bigquery:"name"`        // REQUIRED
	CreatedTS  time.Time `bigquery:"created_ts"`  // REQUIRED
}
