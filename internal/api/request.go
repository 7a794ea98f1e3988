package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// parseDate accepts the two date forms the client sends: a full RFC
// 3339 timestamp or a bare YYYY-MM-DD day, read as midnight UTC.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// parseMonthQuery reads the optional year/month query parameters.
// Both absent means no filter (0, 0); anything else requires both to
// be present and valid.
func parseMonthQuery(r *http.Request) (int, int, error) {
	yearStr := r.URL.Query().Get("year")
	monthStr := r.URL.Query().Get("month")
	if yearStr == "" && monthStr == "" {
		return 0, 0, nil
	}
	if yearStr == "" || monthStr == "" {
		return 0, 0, fmt.Errorf("year and month must be provided together")
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("invalid year %q", yearStr)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month %q", monthStr)
	}
	return year, month, nil
}

// requireMonthQuery is parseMonthQuery for endpoints where the filter
// is mandatory (receipt, chart).
func requireMonthQuery(r *http.Request) (int, int, error) {
	year, month, err := parseMonthQuery(r)
	if err != nil {
		return 0, 0, err
	}
	if year == 0 {
		return 0, 0, fmt.Errorf("year and month are required")
	}
	return year, month, nil
}

// pathID reads the {id} path segment as an expense id.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid expense id %q", r.PathValue("id"))
	}
	return id, nil
}
