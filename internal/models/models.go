// Package models defines the domain entities for the expense tracker.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxDescriptionLength is the maximum allowed length for expense descriptions.
const MaxDescriptionLength = 200

// Categories is the fixed set of expense categories. It is not enforced
// by the database; the UI and the suggestion endpoint treat it as the
// source of truth.
var Categories = []string{
	"Office Supplies",
	"Travel",
	"Meals & Entertainment",
	"Software & Subscriptions",
	"Marketing",
	"Other",
}

// User represents an account identified by email.
type User struct {
	ID        int64
	Email     string
	Name      string
	CreatedAt time.Time
}

// Expense represents a single expense entry. Date is the expense's
// effective date and drives monthly grouping; CreatedAt is when the
// record was written.
type Expense struct {
	ID          int64
	UserID      int64
	Amount      decimal.Decimal
	Description string
	Category    string
	Date        time.Time
	CreatedAt   time.Time
}

// MonthlyStat is one row of the per-month aggregation: the YYYY-MM
// month key, the decimal sum of amounts, and the expense count.
type MonthlyStat struct {
	Month string
	Total decimal.Decimal
	Count int
}

// ExpenseUpdate carries a partial expense mutation. Nil fields are
// left unchanged.
type ExpenseUpdate struct {
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	Date        *time.Time
}

// MonthKey formats a timestamp as the YYYY-MM grouping key, in UTC so
// both storage backends agree on month boundaries.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// MonthWindow returns the UTC half-open interval [start, end) covering
// the given calendar month, end being the first instant of the next
// month.
func MonthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
