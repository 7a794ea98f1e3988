package api

import (
	"fmt"
	"sort"

	"github.com/go-analyze/charts"
	"github.com/shopspring/decimal"

	"gitlab.com/yelinaung/expense-api/internal/models"
)

// GenerateCategoryChart creates a pie chart of the month's spending by
// category. Returns PNG image bytes.
func GenerateCategoryChart(expenses []models.Expense, year, month int) ([]byte, error) {
	if len(expenses) == 0 {
		return nil, fmt.Errorf("no expenses to chart")
	}

	totals := aggregateByCategory(expenses)

	// Stable legend order so repeated renders are identical.
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]float64, 0, len(names))
	for _, name := range names {
		values = append(values, totals[name].InexactFloat64())
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: fmt.Sprintf("Spending by Category - %04d-%02d", year, month),
		}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf, nil
}

// aggregateByCategory groups expenses and returns category totals.
// Chart rendering is the one place amounts become floats; the stored
// decimals are untouched.
func aggregateByCategory(expenses []models.Expense) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for i := range expenses {
		category := expenses[i].Category
		totals[category] = totals[category].Add(expenses[i].Amount)
	}
	return totals
}
