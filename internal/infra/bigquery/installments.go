package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/civil"
)

// InstallmentRow mirrors the finance.installments table. Each row is the one
// installment visible on a single statement line; a 10-installment purchase
// accumulates its rows across ten monthly ingestion runs.
type InstallmentRow struct {
	InstallmentID string `bigquery:"installment_id"` // REQUIRED
	TransactionID string `bigquery:"transaction_id"` // REQUIRED, FK to transactions

	InstallmentNumber int64    `bigquery:"installment_number"` // REQUIRED, 1-based
	Amount            *big.Rat `bigquery:"amount"`             // REQUIRED NUMERIC, pro-rated

	DueDate civil.Date `bigquery:"due_date"` // REQUIRED, equals the transaction date
	Status  string     `bigquery:"status"`   // REQUIRED, "PAID" at creation

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}
