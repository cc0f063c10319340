package pipeline

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtractedTransaction is one validated record out of the model's response.
// It is transient: the orchestrator maps it into the persisted transaction
// and installment entities.
type ExtractedTransaction struct {
	Date        time.Time       // parsed from "date" (YYYY-MM-DD)
	Description string          // from "description", cleaned by the model
	Amount      decimal.Decimal // from "amount", always positive

	CategoryGuess string // from "category_guess", free text

	InstallmentCurrent int // from "installment_current", 1-based
	InstallmentTotal   int // from "installment_total", >= InstallmentCurrent
}
