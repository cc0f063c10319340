// Package domain holds the entities persisted by the ingestion pipeline.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is a free-text spending classification, created lazily on first
// encounter and reused by exact name match. The pipeline never updates or
// deletes categories.
type Category struct {
	ID   string
	Name string
}

// Transaction is one purchase taken from a credit-card statement. Amount is
// always the positive total spend, regardless of the installment breakdown.
type Transaction struct {
	ID                string
	Description       string
	Amount            decimal.Decimal
	Date              time.Time
	CategoryID        string
	TotalInstallments int

	// SourceFile is the statement file the transaction was extracted from.
	SourceFile string
}

// InstallmentStatusPaid is the status every installment row is created with.
// It reflects that the installment appeared on a billed statement, not an
// actual payment confirmation.
const InstallmentStatusPaid = "PAID"

// Installment is one scheduled portion of a multi-part purchase. Each
// ingestion run writes only the installment visible on the statement line it
// came from; the remaining 1..N rows appear as later statements are ingested.
type Installment struct {
	ID            string
	TransactionID string
	Number        int
	Amount        decimal.Decimal
	DueDate       time.Time
	Status        string
}

// ProRate splits a transaction amount evenly across its installment plan,
// rounded to two decimal places. totalInstallments below 1 is treated as a
// single-installment purchase.
func ProRate(amount decimal.Decimal, totalInstallments int) decimal.Decimal {
	if totalInstallments < 1 {
		totalInstallments = 1
	}
	return amount.Div(decimal.NewFromInt(int64(totalInstallments))).Round(2)
}
