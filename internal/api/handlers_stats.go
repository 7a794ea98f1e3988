package api

import (
	"net/http"

	"gitlab.com/yelinaung/expense-api/internal/logger"
)

// handleStats returns per-month totals and counts, most recent month
// first. Months without expenses are absent, never zero-filled.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	stats, err := s.svc.MonthlyStats(r.Context(), user.ID)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to compute monthly stats")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"stats": toStatResponses(stats)})
}

// handleStatsChart renders the month's category breakdown as a PNG
// pie chart.
func (s *Server) handleStatsChart(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	year, month, err := requireMonthQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := s.svc.ListExpenses(r.Context(), user.ID, year, month)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list expenses for chart")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(expenses) == 0 {
		writeError(w, http.StatusNotFound, "No expenses for this month")
		return
	}

	png, err := GenerateCategoryChart(expenses, year, month)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to render chart")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
