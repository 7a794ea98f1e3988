package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError reports which expense fields failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid expense data: %s", strings.Join(e.Fields, ", "))
}

// ParseAmount parses a caller-supplied amount string into a decimal.
// Amounts must be non-negative with at most two fractional digits;
// precision is a hard external contract, so float parsing is never
// involved.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q is negative", s)
	}
	if amount.Exponent() < -2 {
		return decimal.Zero, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	return amount, nil
}

// ValidateNewExpense checks the required fields for expense creation
// and returns a ValidationError naming every offending field.
func ValidateNewExpense(e *Expense) error {
	var fields []string
	if e.Amount.IsNegative() || e.Amount.Exponent() < -2 {
		fields = append(fields, "amount")
	}
	if e.Description == "" {
		fields = append(fields, "description")
	}
	if e.Category == "" {
		fields = append(fields, "category")
	}
	if e.Date.IsZero() {
		fields = append(fields, "date")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
