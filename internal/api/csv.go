package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"gitlab.com/yelinaung/expense-api/internal/models"
)

// GenerateExpensesCSV renders a list of expenses as a CSV document.
func GenerateExpensesCSV(expenses []models.Expense) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"ID", "Date", "Amount", "Description", "Category", "Created At"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range expenses {
		row := []string{
			strconv.FormatInt(expenses[i].ID, 10),
			expenses[i].Date.UTC().Format("2006-01-02"),
			expenses[i].Amount.StringFixed(2),
			expenses[i].Description,
			expenses[i].Category,
			expenses[i].CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// exportFilename names the download after the requested month, or the
// export day when unfiltered.
func exportFilename(year, month int) string {
	if year != 0 {
		return fmt.Sprintf("expenses_%04d-%02d.csv", year, month)
	}
	return fmt.Sprintf("expenses_%s.csv", time.Now().UTC().Format("2006-01-02"))
}
