package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/civil"
)

// TransactionRow mirrors the finance.transactions table.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED

	Description string     `bigquery:"description"`      // REQUIRED
	Amount      *big.Rat   `bigquery:"amount"`           // REQUIRED NUMERIC, always positive
	Date        civil.Date `bigquery:"transaction_date"` // REQUIRED

	CategoryID        string `bigquery:"category_id"`        // REQUIRED, FK to categories
	TotalInstallments int64  `bigquery:"total_installments"` // REQUIRED, >= 1

	SourceFile string    `bigquery:"source_file"` // NULLABLE, statement provenance
	CreatedTS  time.Time `bigquery:"created_ts"`  // REQUIRED
}
