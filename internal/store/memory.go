package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/expense-api/internal/models"
)

// MemoryStore keeps users and expenses in process memory. It backs
// development runs and tests; a single mutex serializes access so
// readers never observe a half-written record. Id counters belong to
// the instance, so independent stores never collide.
type MemoryStore struct {
	mu            sync.Mutex
	users         map[int64]models.User
	expenses      map[int64]models.Expense
	nextUserID    int64
	nextExpenseID int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[int64]models.User),
		expenses:      make(map[int64]models.Expense),
		nextUserID:    1,
		nextExpenseID: 1,
	}
}

var _ Store = (*MemoryStore)(nil)

// GetUser looks a user up by id.
func (s *MemoryStore) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// GetUserByEmail looks a user up by exact email match.
func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

// CreateUser registers a new user. The uniqueness check and the insert
// happen under one lock, which is what makes the login get-or-create
// race-free on this backend.
func (s *MemoryStore) CreateUser(_ context.Context, email, name string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return nil, ErrEmailTaken
		}
	}

	user := models.User{
		ID:        s.nextUserID,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	s.nextUserID++
	s.users[user.ID] = user

	return &user, nil
}

// ListExpenses returns all expenses owned by userID, newest date first.
func (s *MemoryStore) ListExpenses(_ context.Context, userID int64) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collect(userID, func(models.Expense) bool { return true }), nil
}

// ListExpensesByMonth returns the expenses whose date falls within the
// given calendar month, newest date first.
func (s *MemoryStore) ListExpensesByMonth(_ context.Context, userID int64, year, month int) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, end := models.MonthWindow(year, month)
	return s.collect(userID, func(e models.Expense) bool {
		d := e.Date.UTC()
		return !d.Before(start) && d.Before(end)
	}), nil
}

// collect gathers the caller's expenses in insertion (id) order, then
// stable-sorts by date descending so equal dates keep insertion order.
// Callers must hold the lock.
func (s *MemoryStore) collect(userID int64, keep func(models.Expense) bool) []models.Expense {
	var expenses []models.Expense
	for _, e := range s.expenses {
		if e.UserID == userID && keep(e) {
			expenses = append(expenses, e)
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].ID < expenses[j].ID
	})
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.After(expenses[j].Date)
	})
	return expenses
}

// CreateExpense validates and stores a new expense, filling in ID and
// CreatedAt.
func (s *MemoryStore) CreateExpense(_ context.Context, expense *models.Expense) error {
	if err := models.ValidateNewExpense(expense); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expense.ID = s.nextExpenseID
	s.nextExpenseID++
	expense.CreatedAt = time.Now().UTC()
	s.expenses[expense.ID] = *expense

	return nil
}

// UpdateExpense applies the non-nil fields of update to the expense if
// it exists and is owned by userID.
func (s *MemoryStore) UpdateExpense(_ context.Context, id, userID int64, update models.ExpenseUpdate) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expense, ok := s.expenses[id]
	if !ok || expense.UserID != userID {
		return nil, nil
	}

	if update.Amount != nil {
		expense.Amount = *update.Amount
	}
	if update.Description != nil {
		expense.Description = *update.Description
	}
	if update.Category != nil {
		expense.Category = *update.Category
	}
	if update.Date != nil {
		expense.Date = *update.Date
	}

	s.expenses[id] = expense
	return &expense, nil
}

// DeleteExpense removes the expense if owned by userID.
func (s *MemoryStore) DeleteExpense(_ context.Context, id, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expense, ok := s.expenses[id]
	if !ok || expense.UserID != userID {
		return false, nil
	}
	delete(s.expenses, id)
	return true, nil
}

// MonthlyStats groups the user's expenses by YYYY-MM month key with
// exact decimal addition, most recent month first.
func (s *MemoryStore) MonthlyStats(_ context.Context, userID int64) ([]models.MonthlyStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	for _, e := range s.expenses {
		if e.UserID != userID {
			continue
		}
		key := models.MonthKey(e.Date)
		totals[key] = totals[key].Add(e.Amount)
		counts[key]++
	}

	stats := make([]models.MonthlyStat, 0, len(totals))
	for key, total := range totals {
		stats = append(stats, models.MonthlyStat{
			Month: key,
			Total: total,
			Count: counts[key],
		})
	}
	// Lexicographic descending order on YYYY-MM matches chronological.
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Month > stats[j].Month
	})
	return stats, nil
}
