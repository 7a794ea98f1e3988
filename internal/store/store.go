// Package store implements persistence for users and expenses with
// owner-scoped access, plus the per-month aggregation both backends
// must agree on.
package store

import (
	"context"
	"errors"

	"gitlab.com/yelinaung/expense-api/internal/models"
)

// ErrEmailTaken is returned by CreateUser when the email is already
// registered. The login flow absorbs it by re-fetching the existing
// user; it never reaches API callers.
var ErrEmailTaken = errors.New("email already taken")

// Store is the persistence contract shared by the in-memory and
// Postgres backends. Lookups return (nil, nil) when nothing matches:
// absence is a result, not an error. Mutations on expenses are scoped
// to the owning user, and an ownership mismatch is indistinguishable
// from a missing record on purpose.
type Store interface {
	// GetUser looks a user up by id.
	GetUser(ctx context.Context, id int64) (*models.User, error)
	// GetUserByEmail looks a user up by exact email match.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// CreateUser registers a new user, assigning id and creation time.
	// Returns ErrEmailTaken if the email already exists.
	CreateUser(ctx context.Context, email, name string) (*models.User, error)

	// ListExpenses returns all expenses owned by userID, newest date
	// first, insertion order on equal dates.
	ListExpenses(ctx context.Context, userID int64) ([]models.Expense, error)
	// ListExpensesByMonth is ListExpenses restricted to one calendar
	// month (UTC), inclusive of both month boundaries.
	ListExpensesByMonth(ctx context.Context, userID int64, year, month int) ([]models.Expense, error)
	// CreateExpense stores a new expense, filling in ID and CreatedAt.
	// Returns a *models.ValidationError when required fields are
	// missing or the amount is malformed.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	// UpdateExpense applies the non-nil fields of update to the
	// expense, provided it exists and is owned by userID; otherwise
	// returns (nil, nil).
	UpdateExpense(ctx context.Context, id, userID int64, update models.ExpenseUpdate) (*models.Expense, error)
	// DeleteExpense removes the expense if owned by userID and reports
	// whether anything was deleted.
	DeleteExpense(ctx context.Context, id, userID int64) (bool, error)

	// MonthlyStats returns one row per calendar month in which the
	// user has expenses, most recent month first.
	MonthlyStats(ctx context.Context, userID int64) ([]models.MonthlyStat, error)
}
