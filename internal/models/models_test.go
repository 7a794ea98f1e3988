package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "two decimals", input: "12.50", want: "12.50"},
		{name: "integer", input: "100", want: "100.00"},
		{name: "one decimal", input: "5.5", want: "5.50"},
		{name: "zero", input: "0", want: "0.00"},
		{name: "leading whitespace", input: " 12.50", want: "12.50"},
		{name: "three decimals", input: "1.005", wantErr: true},
		{name: "negative", input: "-3.50", wantErr: true},
		{name: "not a number", input: "ten dollars", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "float artifact", input: "12.499999999999998", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			amount, err := ParseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, amount.StringFixed(2))
		})
	}
}

func TestParseAmount_RoundTrip(t *testing.T) {
	t.Parallel()

	// Two-decimal precision must round-trip exactly, with no float
	// drift anywhere in the path.
	amount, err := ParseAmount("12.50")
	require.NoError(t, err)
	require.Equal(t, "12.50", amount.StringFixed(2))
	require.NotEqual(t, "12.499999999999998", amount.String())
}

func TestValidateNewExpense(t *testing.T) {
	t.Parallel()

	valid := func() *Expense {
		return &Expense{
			Amount:      decimal.RequireFromString("10.00"),
			Description: "Pens",
			Category:    "Office Supplies",
			Date:        time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("accepts valid expense", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, ValidateNewExpense(valid()))
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		t.Parallel()
		err := ValidateNewExpense(&Expense{Amount: decimal.RequireFromString("1.00")})

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		require.ElementsMatch(t, []string{"description", "category", "date"}, vErr.Fields)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		t.Parallel()
		e := valid()
		e.Amount = decimal.RequireFromString("-1.00")

		var vErr *ValidationError
		require.ErrorAs(t, ValidateNewExpense(e), &vErr)
		require.Equal(t, []string{"amount"}, vErr.Fields)
	})
}

func TestMonthKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{
			name: "plain UTC date",
			date: time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
			want: "2024-03",
		},
		{
			name: "offset timestamp normalizes to UTC",
			date: time.Date(2024, 4, 1, 5, 0, 0, 0, time.FixedZone("UTC+8", 8*3600)),
			want: "2024-03",
		},
		{
			name: "single digit month zero padded",
			date: time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC),
			want: "2025-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, MonthKey(tt.date))
		})
	}
}

func TestMonthWindow(t *testing.T) {
	t.Parallel()

	start, end := MonthWindow(2024, 2)
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	// 2024 is a leap year; the window must still end at March 1.
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), end)

	start, end = MonthWindow(2024, 12)
	require.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), end)
}
