package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gitlab.com/yelinaung/expense-api/internal/logger"
	"gitlab.com/yelinaung/expense-api/internal/models"
)

const receiptWidth = 48

// handleReceipt renders a printable plain-text receipt for one
// calendar month of the authenticated user's expenses.
func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	year, month, err := requireMonthQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := s.svc.ListExpenses(r.Context(), user.ID, year, month)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list expenses for receipt")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	receipt := GenerateReceipt(user, expenses, year, month)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(receipt))
}

// GenerateReceipt formats one month of expenses as a printable
// receipt: header, period and user, one line per expense, total.
func GenerateReceipt(user *models.User, expenses []models.Expense, year, month int) string {
	var b strings.Builder
	rule := strings.Repeat("=", receiptWidth)
	thinRule := strings.Repeat("-", receiptWidth)

	center := func(s string) string {
		if len(s) >= receiptWidth {
			return s
		}
		pad := (receiptWidth - len(s)) / 2
		return strings.Repeat(" ", pad) + s
	}

	b.WriteString(rule + "\n")
	b.WriteString(center("ExpenseTracker Pro") + "\n")
	b.WriteString(center("Monthly Expense Receipt") + "\n")
	b.WriteString(rule + "\n\n")

	period := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	b.WriteString(fmt.Sprintf("Period:   %s\n", period))
	b.WriteString(fmt.Sprintf("Account:  %s <%s>\n", user.Name, user.Email))
	b.WriteString(fmt.Sprintf("Printed:  %s\n\n", time.Now().UTC().Format("2006-01-02 15:04 UTC")))

	b.WriteString(thinRule + "\n")

	total := decimal.Zero
	for i := range expenses {
		e := &expenses[i]
		total = total.Add(e.Amount)

		desc := e.Description
		if len(desc) > 24 {
			desc = desc[:21] + "..."
		}
		b.WriteString(fmt.Sprintf("%s  %-24s %10s\n",
			e.Date.UTC().Format("01-02"), desc, e.Amount.StringFixed(2)))
		b.WriteString(fmt.Sprintf("       %s\n", e.Category))
	}
	if len(expenses) == 0 {
		b.WriteString(center("no expenses recorded") + "\n")
	}

	b.WriteString(thinRule + "\n")
	b.WriteString(fmt.Sprintf("%-20s %27s\n",
		fmt.Sprintf("TOTAL (%d items)", len(expenses)), total.StringFixed(2)))
	b.WriteString(rule + "\n")
	b.WriteString(center("Generated by ExpenseTracker Pro") + "\n")

	return b.String()
}
