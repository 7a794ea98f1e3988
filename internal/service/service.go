// Package service implements the operations the HTTP layer calls:
// identity resolution, the login get-or-create flow, and owner-scoped
// expense operations over a store.Store.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gitlab.com/yelinaung/expense-api/internal/logger"
	"gitlab.com/yelinaung/expense-api/internal/models"
	"gitlab.com/yelinaung/expense-api/internal/store"
)

// ErrUnauthorized is returned when an identity token is missing,
// malformed, or does not resolve to a known user.
var ErrUnauthorized = errors.New("authentication required")

// Service wires the Access Gate and the façade operations to a store.
type Service struct {
	store store.Store
}

// New creates a Service on top of st.
func New(st store.Store) *Service {
	return &Service{store: st}
}

// Store exposes the underlying store. Used by tests.
func (s *Service) Store() store.Store {
	return s.store
}

// Authenticate resolves a caller-supplied identity token to a user.
// The token is a bare user id: identity is asserted, not proven. That
// is a deliberate boundary assumption of this system, not an oversight;
// a credential or session mechanism would replace this wholesale.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// Login returns the user registered under email, creating one on first
// login. Subsequent logins ignore a changed name (first write wins).
// Two concurrent first logins race on the store's email uniqueness:
// the loser re-fetches the winner's row, so both callers observe the
// same user.
func (s *Service) Login(ctx context.Context, email, name string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("login lookup: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.store.CreateUser(ctx, email, name)
	if errors.Is(err, store.ErrEmailTaken) {
		user, err = s.store.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("login re-fetch after conflict: %w", err)
		}
		if user == nil {
			return nil, fmt.Errorf("login: user for %s vanished after conflict", logger.RedactEmail(email))
		}
		return user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("login create: %w", err)
	}

	logger.Log.Info().
		Str("user", logger.HashUserID(user.ID)).
		Str("email", logger.RedactEmail(email)).
		Msg("User registered")
	return user, nil
}

// ListExpenses returns the user's expenses, optionally restricted to
// one calendar month when year and month are both non-zero.
func (s *Service) ListExpenses(ctx context.Context, userID int64, year, month int) ([]models.Expense, error) {
	if year != 0 && month != 0 {
		return s.store.ListExpensesByMonth(ctx, userID, year, month)
	}
	return s.store.ListExpenses(ctx, userID)
}

// AddExpense records a new expense owned by userID.
func (s *Service) AddExpense(ctx context.Context, expense *models.Expense) error {
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return err
	}

	logger.Log.Debug().
		Str("user", logger.HashUserID(expense.UserID)).
		Int64("expense_id", expense.ID).
		Str("amount", expense.Amount.StringFixed(2)).
		Str("category", expense.Category).
		Msg("Expense created")
	return nil
}

// EditExpense applies a partial update to an expense the user owns.
// A nil result means missing or not owned; callers cannot tell which.
func (s *Service) EditExpense(ctx context.Context, id, userID int64, update models.ExpenseUpdate) (*models.Expense, error) {
	return s.store.UpdateExpense(ctx, id, userID, update)
}

// RemoveExpense deletes an expense the user owns and reports whether
// anything was removed.
func (s *Service) RemoveExpense(ctx context.Context, id, userID int64) (bool, error) {
	deleted, err := s.store.DeleteExpense(ctx, id, userID)
	if err != nil {
		return false, err
	}
	if deleted {
		logger.Log.Debug().
			Str("user", logger.HashUserID(userID)).
			Int64("expense_id", id).
			Msg("Expense deleted")
	}
	return deleted, nil
}

// MonthlyStats returns the user's per-month totals and counts, most
// recent month first.
func (s *Service) MonthlyStats(ctx context.Context, userID int64) ([]models.MonthlyStat, error) {
	return s.store.MonthlyStats(ctx, userID)
}
