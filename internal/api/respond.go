package api

import (
	"encoding/json"
	"net/http"
	"time"

	"gitlab.com/yelinaung/expense-api/internal/logger"
	"gitlab.com/yelinaung/expense-api/internal/models"
)

// userResponse is the wire form of a user.
type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// expenseResponse is the wire form of an expense. Amount is a string
// with exactly two decimal places; the precision contract forbids
// JSON numbers here.
type expenseResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

// statResponse is the wire form of one monthly aggregation row.
type statResponse struct {
	Month string `json:"month"`
	Total string `json:"total"`
	Count int    `json:"count"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		Amount:      e.Amount.StringFixed(2),
		Description: e.Description,
		Category:    e.Category,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
}

func toExpenseResponses(expenses []models.Expense) []expenseResponse {
	out := make([]expenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, toExpenseResponse(&expenses[i]))
	}
	return out
}

func toStatResponses(stats []models.MonthlyStat) []statResponse {
	out := make([]statResponse, 0, len(stats))
	for _, stat := range stats {
		out = append(out, statResponse{
			Month: stat.Month,
			Total: stat.Total.StringFixed(2),
			Count: stat.Count,
		})
	}
	return out
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError writes the standard {"message": ...} error body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
