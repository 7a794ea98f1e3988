package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/expense-api/internal/models"
)

// runStoreContract exercises the Store contract against a backend.
// Both implementations must pass the identical suite; that is the
// behavioral-parity guarantee between the in-memory and Postgres
// stores.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()
	ctx := context.Background()

	mustUser := func(t *testing.T, s Store, email string) *models.User {
		t.Helper()
		user, err := s.CreateUser(ctx, email, "Test User")
		require.NoError(t, err)
		return user
	}

	addExpense := func(t *testing.T, s Store, userID int64, amount, desc, category string, date time.Time) *models.Expense {
		t.Helper()
		e := &models.Expense{
			UserID:      userID,
			Amount:      decimal.RequireFromString(amount),
			Description: desc,
			Category:    category,
			Date:        date,
		}
		require.NoError(t, s.CreateExpense(ctx, e))
		return e
	}

	t.Run("user creation and lookup", func(t *testing.T) {
		s := newStore(t)

		user := mustUser(t, s, "alice@example.com")
		require.NotZero(t, user.ID)
		require.False(t, user.CreatedAt.IsZero())

		byID, err := s.GetUser(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, user.ID, byID.ID)
		require.Equal(t, "alice@example.com", byID.Email)

		byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, user.ID, byEmail.ID)
	})

	t.Run("missing user is nil not error", func(t *testing.T) {
		s := newStore(t)

		user, err := s.GetUser(ctx, 99999)
		require.NoError(t, err)
		require.Nil(t, user)

		user, err = s.GetUserByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		require.Nil(t, user)
	})

	t.Run("email lookup is case sensitive", func(t *testing.T) {
		s := newStore(t)
		mustUser(t, s, "case@example.com")

		user, err := s.GetUserByEmail(ctx, "CASE@example.com")
		require.NoError(t, err)
		require.Nil(t, user)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		s := newStore(t)
		mustUser(t, s, "dup@example.com")

		_, err := s.CreateUser(ctx, "dup@example.com", "Other Name")
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("expense round-trips exact amount", func(t *testing.T) {
		s := newStore(t)
		user := mustUser(t, s, "amounts@example.com")

		addExpense(t, s, user.ID, "12.50", "Coffee", "Meals & Entertainment",
			time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))

		expenses, err := s.ListExpenses(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, expenses, 1)
		require.Equal(t, "12.50", expenses[0].Amount.StringFixed(2))
	})

	t.Run("create expense validates fields", func(t *testing.T) {
		s := newStore(t)
		user := mustUser(t, s, "invalid@example.com")

		err := s.CreateExpense(ctx, &models.Expense{UserID: user.ID})
		var vErr *models.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Contains(t, vErr.Fields, "description")
		require.Contains(t, vErr.Fields, "category")
		require.Contains(t, vErr.Fields, "date")
	})

	t.Run("list orders by date descending with stable ties", func(t *testing.T) {
		s := newStore(t)
		user := mustUser(t, s, "order@example.com")

		march5 := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
		march20 := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

		first := addExpense(t, s, user.ID, "1.00", "first on the 5th", "Other", march5)
		second := addExpense(t, s, user.ID, "2.00", "second on the 5th", "Other", march5)
		newest := addExpense(t, s, user.ID, "3.00", "the 20th", "Other", march20)

		expenses, err := s.ListExpenses(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, expenses, 3)
		require.Equal(t, newest.ID, expenses[0].ID)
		// Equal dates keep insertion order.
		require.Equal(t, first.ID, expenses[1].ID)
		require.Equal(t, second.ID, expenses[2].ID)
	})

	t.Run("list excludes other users", func(t *testing.T) {
		s := newStore(t)
		alice := mustUser(t, s, "alice2@example.com")
		bob := mustUser(t, s, "bob2@example.com")

		addExpense(t, s, alice.ID, "5.00", "Alice's", "Other",
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

		expenses, err := s.ListExpenses(ctx, bob.ID)
		require.NoError(t, err)
		require.Empty(t, expenses)
	})

	t.Run("month filter includes boundaries and excludes neighbors", func(t *testing.T) {
		s := newStore(t)
		user := mustUser(t, s, "boundaries@example.com")

		addExpense(t, s, user.ID, "1.00", "last of Feb", "Other",
			time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
		firstOfMarch := addExpense(t, s, user.ID, "2.00", "first of March", "Other",
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
		lastOfMarch := addExpense(t, s, user.ID, "3.00", "last instant of March", "Other",
			time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC))
		addExpense(t, s, user.ID, "4.00", "first of April", "Other",
			time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))

		expenses, err := s.ListExpensesByMonth(ctx, user.ID, 2024, 3)
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		require.Equal(t, lastOfMarch.ID, expenses[0].ID)
		require.Equal(t, firstOfMarch.ID, expenses[1].ID)
	})

	t.Run("partial update changes only supplied fields", func(t *testing.T) {
		s := newStore(t)
		user := mustUser(t, s, "update@example.com")

		expense := addExpense(t, s, user.ID, "20.00", "Original", "Travel",
			time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

		newAmount := decimal.RequireFromString("30.00")
		updated, err := s.UpdateExpense(ctx, expense.ID, user.ID, models.ExpenseUpdate{
			Amount: &newAmount,
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		require.Equal(t, "30.00", updated.Amount.StringFixed(2))
		require.Equal(t, "Original", updated.Description)
		require.Equal(t, "Travel", updated.Category)
	})

	t.Run("update of foreign expense is indistinguishable from missing", func(t *testing.T) {
		s := newStore(t)
		alice := mustUser(t, s, "alice3@example.com")
		bob := mustUser(t, s, "bob3@example.com")

		expense := addExpense(t, s, alice.ID, "10.00", "Alice's", "Other",
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

		desc := "hijacked"
		notOwned, err := s.UpdateExpense(ctx, expense.ID, bob.ID, models.ExpenseUpdate{Description: &desc})
		require.NoError(t, err)
		require.Nil(t, notOwned)

		missing, err := s.UpdateExpense(ctx, 99999, bob.ID, models.ExpenseUpdate{Description: &desc})
		require.NoError(t, err)
		require.Nil(t, missing)
	})

	t.Run("delete respects ownership", func(t *testing.T) {
		s := newStore(t)
		alice := mustUser(t, s, "alice4@example.com")
		bob := mustUser(t, s, "bob4@example.com")

		expense := addExpense(t, s, alice.ID, "10.00", "Alice's", "Other",
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

		deleted, err := s.DeleteExpense(ctx, expense.ID, bob.ID)
		require.NoError(t, err)
		require.False(t, deleted)

		// The true owner still sees it.
		expenses, err := s.ListExpenses(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, expenses, 1)

		deleted, err = s.DeleteExpense(ctx, expense.ID, alice.ID)
		require.NoError(t, err)
		require.True(t, deleted)

		expenses, err = s.ListExpenses(ctx, alice.ID)
		require.NoError(t, err)
		require.Empty(t, expenses)
	})

	t.Run("monthly stats groups and orders by month", func(t *testing.T) {
		s := newStore(t)
		user := mustUser(t, s, "stats@example.com")

		addExpense(t, s, user.ID, "100.00", "Pens", "Office Supplies",
			time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
		addExpense(t, s, user.ID, "50.25", "Taxi", "Travel",
			time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
		addExpense(t, s, user.ID, "7.75", "Coffee", "Meals & Entertainment",
			time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC))

		stats, err := s.MonthlyStats(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, stats, 2)

		require.Equal(t, "2024-04", stats[0].Month)
		require.Equal(t, "7.75", stats[0].Total.StringFixed(2))
		require.Equal(t, 1, stats[0].Count)

		require.Equal(t, "2024-03", stats[1].Month)
		require.Equal(t, "150.25", stats[1].Total.StringFixed(2))
		require.Equal(t, 2, stats[1].Count)
	})

	t.Run("monthly stats agree with listing", func(t *testing.T) {
		s := newStore(t)
		user := mustUser(t, s, "parity@example.com")

		dates := []time.Time{
			time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			time.Date(2024, 2, 29, 8, 30, 0, 0, time.UTC),
		}
		amounts := []string{"0.01", "99.99", "10.10", "123.45"}
		for i, d := range dates {
			addExpense(t, s, user.ID, amounts[i], "Item", "Other", d)
		}

		all, err := s.ListExpenses(ctx, user.ID)
		require.NoError(t, err)

		wantTotals := make(map[string]decimal.Decimal)
		wantCounts := make(map[string]int)
		for _, e := range all {
			key := models.MonthKey(e.Date)
			wantTotals[key] = wantTotals[key].Add(e.Amount)
			wantCounts[key]++
		}

		stats, err := s.MonthlyStats(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, stats, len(wantTotals))
		for _, stat := range stats {
			require.True(t, wantTotals[stat.Month].Equal(stat.Total),
				"month %s: want %s got %s", stat.Month, wantTotals[stat.Month], stat.Total)
			require.Equal(t, wantCounts[stat.Month], stat.Count)
		}
	})

	t.Run("monthly stats empty for user without expenses", func(t *testing.T) {
		s := newStore(t)
		user := mustUser(t, s, "empty@example.com")

		stats, err := s.MonthlyStats(ctx, user.ID)
		require.NoError(t, err)
		require.Empty(t, stats)
	})
}
