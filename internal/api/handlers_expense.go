package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gitlab.com/yelinaung/expense-api/internal/logger"
	"gitlab.com/yelinaung/expense-api/internal/models"
)

// expenseRequest is the wire form of a new expense. Amount and date
// arrive as strings; both are validated before anything is stored.
type expenseRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

// expenseUpdateRequest carries a partial update; absent fields stay
// unchanged.
type expenseUpdateRequest struct {
	Amount      *string `json:"amount"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Date        *string `json:"date"`
}

// handleListExpenses returns the authenticated user's expenses,
// optionally restricted to one calendar month.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	year, month, err := parseMonthQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := s.svc.ListExpenses(r.Context(), user.ID, year, month)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list expenses")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"expenses": toExpenseResponses(expenses)})
}

// handleCreateExpense records a new expense for the authenticated
// user. Validation failures answer 400 with the offending fields.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	expense, vErr := buildExpense(user.ID, req)
	if vErr != nil {
		writeError(w, http.StatusBadRequest, vErr.Error())
		return
	}

	if err := s.svc.AddExpense(r.Context(), expense); err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			writeError(w, http.StatusBadRequest, validationErr.Error())
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to create expense")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"expense": toExpenseResponse(expense)})
}

// buildExpense assembles an expense from the request, collecting every
// malformed field into one ValidationError.
func buildExpense(userID int64, req expenseRequest) (*models.Expense, *models.ValidationError) {
	expense := &models.Expense{
		UserID:      userID,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
	}

	var fields []string
	if req.Amount == "" {
		fields = append(fields, "amount")
	} else {
		amount, err := models.ParseAmount(req.Amount)
		if err != nil {
			fields = append(fields, "amount")
		} else {
			expense.Amount = amount
		}
	}
	if req.Date == "" {
		fields = append(fields, "date")
	} else {
		date, err := parseDate(req.Date)
		if err != nil {
			fields = append(fields, "date")
		} else {
			expense.Date = date
		}
	}
	if expense.Description == "" {
		fields = append(fields, "description")
	}
	if expense.Category == "" {
		fields = append(fields, "category")
	}

	if len(fields) > 0 {
		return nil, &models.ValidationError{Fields: fields}
	}
	return expense, nil
}

// handleUpdateExpense applies a partial update. Missing and not-owned
// both answer 404; the two cases are deliberately indistinguishable.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req expenseUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	update, vErr := buildUpdate(req)
	if vErr != nil {
		writeError(w, http.StatusBadRequest, vErr.Error())
		return
	}

	expense, err := s.svc.EditExpense(r.Context(), id, user.ID, update)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to update expense")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if expense == nil {
		writeError(w, http.StatusNotFound, "Expense not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"expense": toExpenseResponse(expense)})
}

// buildUpdate converts the supplied fields, validating each.
func buildUpdate(req expenseUpdateRequest) (models.ExpenseUpdate, *models.ValidationError) {
	var update models.ExpenseUpdate
	var fields []string

	if req.Amount != nil {
		amount, err := models.ParseAmount(*req.Amount)
		if err != nil {
			fields = append(fields, "amount")
		} else {
			update.Amount = &amount
		}
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if desc == "" {
			fields = append(fields, "description")
		} else {
			update.Description = &desc
		}
	}
	if req.Category != nil {
		cat := strings.TrimSpace(*req.Category)
		if cat == "" {
			fields = append(fields, "category")
		} else {
			update.Category = &cat
		}
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			fields = append(fields, "date")
		} else {
			update.Date = &date
		}
	}

	if len(fields) > 0 {
		return models.ExpenseUpdate{}, &models.ValidationError{Fields: fields}
	}
	return update, nil
}

// handleDeleteExpense removes an expense the user owns.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := s.svc.RemoveExpense(r.Context(), id, user.ID)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to delete expense")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "Expense not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleExportCSV streams the user's expenses as a CSV download,
// optionally restricted to one calendar month.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	year, month, err := parseMonthQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := s.svc.ListExpenses(r.Context(), user.ID, year, month)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list expenses for export")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	data, err := GenerateExpensesCSV(expenses)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to generate CSV")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	filename := exportFilename(year, month)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}

type suggestRequest struct {
	Description string `json:"description"`
}

// handleSuggestCategory proposes a category for a description via
// Gemini. Answers 503 when no API key is configured.
func (s *Server) handleSuggestCategory(w http.ResponseWriter, r *http.Request) {
	if s.suggester == nil {
		writeError(w, http.StatusServiceUnavailable, "Category suggestion is not configured")
		return
	}

	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "Description is required")
		return
	}

	suggestion, err := s.suggester.SuggestCategory(r.Context(), req.Description)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Category suggestion failed")
		writeError(w, http.StatusBadGateway, "Category suggestion failed")
		return
	}

	writeJSON(w, http.StatusOK, suggestion)
}
