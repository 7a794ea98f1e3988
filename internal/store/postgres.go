package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gitlab.com/yelinaung/expense-api/internal/database"
	"gitlab.com/yelinaung/expense-api/internal/models"
)

// uniqueViolation is the Postgres error code for a unique constraint
// violation.
const uniqueViolation = "23505"

// PostgresStore persists users and expenses in PostgreSQL. It works
// against database.PGXDB so it runs equally on a pool or inside a
// test transaction.
type PostgresStore struct {
	db database.PGXDB
}

// NewPostgresStore creates a PostgresStore on top of db.
func NewPostgresStore(db database.PGXDB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

// GetUser looks a user up by id.
func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx, `
		SELECT id, email, name, created_at FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail looks a user up by exact email match.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx, `
		SELECT id, email, name, created_at FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// CreateUser registers a new user. The UNIQUE constraint on email is
// what makes concurrent first logins safe; a violation surfaces as
// ErrEmailTaken.
func (s *PostgresStore) CreateUser(ctx context.Context, email, name string) (*models.User, error) {
	user := models.User{Email: email, Name: name}
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (email, name) VALUES ($1, $2)
		RETURNING id, created_at
	`, email, name).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// ListExpenses returns all expenses owned by userID, newest date
// first, ascending id on equal dates (insertion order).
func (s *PostgresStore) ListExpenses(ctx context.Context, userID int64) ([]models.Expense, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, amount, description, category, date, created_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY date DESC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// ListExpensesByMonth returns the expenses whose date falls within the
// given calendar month (UTC).
func (s *PostgresStore) ListExpensesByMonth(ctx context.Context, userID int64, year, month int) ([]models.Expense, error) {
	start, end := models.MonthWindow(year, month)
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, amount, description, category, date, created_at
		FROM expenses
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date DESC, id ASC
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses by month: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// CreateExpense validates and stores a new expense, filling in ID and
// CreatedAt from the inserted row.
func (s *PostgresStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if err := models.ValidateNewExpense(expense); err != nil {
		return err
	}

	err := s.db.QueryRow(ctx, `
		INSERT INTO expenses (user_id, amount, description, category, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, expense.UserID, expense.Amount, expense.Description, expense.Category, expense.Date,
	).Scan(&expense.ID, &expense.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// UpdateExpense applies the non-nil fields of update in a single
// statement; nil fields pass through COALESCE and keep their stored
// value. No matching row means missing or not owned, reported as
// (nil, nil) either way.
func (s *PostgresStore) UpdateExpense(ctx context.Context, id, userID int64, update models.ExpenseUpdate) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.QueryRow(ctx, `
		UPDATE expenses SET
			amount = COALESCE($3, amount),
			description = COALESCE($4, description),
			category = COALESCE($5, category),
			date = COALESCE($6, date)
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, amount, description, category, date, created_at
	`, id, userID, update.Amount, update.Description, update.Category, update.Date,
	).Scan(&expense.ID, &expense.UserID, &expense.Amount, &expense.Description,
		&expense.Category, &expense.Date, &expense.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return &expense, nil
}

// DeleteExpense removes the expense if owned by userID.
func (s *PostgresStore) DeleteExpense(ctx context.Context, id, userID int64) (bool, error) {
	result, err := s.db.Exec(ctx, `
		DELETE FROM expenses WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// MonthlyStats aggregates store-side. Grouping on the UTC-rendered
// month key keeps this query in exact agreement with the in-memory
// aggregation.
func (s *PostgresStore) MonthlyStats(ctx context.Context, userID int64) ([]models.MonthlyStat, error) {
	rows, err := s.db.Query(ctx, `
		SELECT TO_CHAR(date AT TIME ZONE 'UTC', 'YYYY-MM') AS month,
		       SUM(amount) AS total,
		       COUNT(*) AS count
		FROM expenses
		WHERE user_id = $1
		GROUP BY 1
		ORDER BY 1 DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly stats: %w", err)
	}
	defer rows.Close()

	stats := []models.MonthlyStat{}
	for rows.Next() {
		var stat models.MonthlyStat
		if err := rows.Scan(&stat.Month, &stat.Total, &stat.Count); err != nil {
			return nil, fmt.Errorf("failed to scan monthly stat: %w", err)
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly stats: %w", err)
	}
	return stats, nil
}

// scanExpenses reads expense rows into models.
func scanExpenses(rows pgx.Rows) ([]models.Expense, error) {
	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Description,
			&e.Category, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}
