package pipeline

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// transformExtractedRecords validates the model's raw records and maps the
// good ones into ExtractedTransaction. The model output is untrusted:
// malformed records are rejected individually, each with its own error, so
// one bad line never sinks the rest of the document.
func transformExtractedRecords(items []any) ([]ExtractedTransaction, []error) {
	result := make([]ExtractedTransaction, 0, len(items))
	var errs []error

	for i, item := range items {
		tx, err := transformRecord(item)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		result = append(result, tx)
	}

	return result, errs
}

func transformRecord(item any) (ExtractedTransaction, error) {
	var tx ExtractedTransaction

	obj, ok := item.(map[string]any)
	if !ok {
		return tx, fmt.Errorf("element is %T, want object", item)
	}

	dateStr, err := getStringField(obj, "date")
	if err != nil {
		return tx, err
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return tx, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}

	desc, err := getStringField(obj, "description")
	if err != nil {
		return tx, err
	}

	amount, err := getAmountField(obj, "amount")
	if err != nil {
		return tx, err
	}
	if !amount.IsPositive() {
		return tx, fmt.Errorf("amount %s is not positive", amount)
	}

	guess, err := getStringField(obj, "category_guess")
	if err != nil {
		return tx, err
	}

	current, err := getIntField(obj, "installment_current")
	if err != nil {
		return tx, err
	}
	total, err := getIntField(obj, "installment_total")
	if err != nil {
		return tx, err
	}
	if total < 1 {
		return tx, fmt.Errorf("installment_total %d, want >= 1", total)
	}
	if current < 1 || current > total {
		return tx, fmt.Errorf("installment_current %d out of range 1..%d", current, total)
	}

	tx = ExtractedTransaction{
		Date:               date,
		Description:        desc,
		Amount:             amount,
		CategoryGuess:      guess,
		InstallmentCurrent: current,
		InstallmentTotal:   total,
	}
	return tx, nil
}

func getStringField(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("missing required field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("required field %q is empty", key)
	}
	return s, nil
}

// getAmountField reads a monetary value. The model is told to emit a plain
// JSON number, but a string in Brazilian "1.234,56" notation is accepted and
// normalized rather than rejected.
func getAmountField(m map[string]any, key string) (decimal.Decimal, error) {
	v, ok := m[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("missing required field %q", key)
	}
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val), nil
	case string:
		d, err := parseLocalizedAmount(val)
		if err != nil {
			return decimal.Zero, fmt.Errorf("field %q: %w", key, err)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}

func getIntField(m map[string]any, key string) (int, error) {
	v, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("missing required field %q", key)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("field %q is %v, want integer", key, f)
	}
	return int(f), nil
}

// parseLocalizedAmount converts an amount string to a decimal, accepting the
// Brazilian thousand-separator/decimal-comma form: "1.234,56" -> 1234.56.
// A currency prefix like "R$" is tolerated. Strings without a comma are read
// as plain decimals.
func parseLocalizedAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	// Regular and non-breaking spaces; PDFs emit both.
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}
