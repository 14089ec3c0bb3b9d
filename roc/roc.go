// Package roc converts between Republic of China (Minguo) calendar strings and
// Gregorian dates. ROC year 1 is 1912.
package roc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/taisugar/toolkit/errdefs"
)

// Offset is the number of years between the Gregorian and ROC year numbers.
const Offset = 1911

// Parse reads a "YYY-MM-DD" ROC date (e.g. "114-09-30") and returns the
// Gregorian date at midnight UTC.
//
// A string that is not three dash separated integers fails with
// errdefs.ErrDateParse; a well formed string naming a day that does not
// exist (e.g. "114-09-31") fails with errdefs.ErrInvalidDate.
func Parse(s string) (time.Time, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", errdefs.ErrDateParse, s)
	}

	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", errdefs.ErrDateParse, s)
		}
		fields[i] = n
	}

	return Date(fields[0], fields[1], fields[2])
}

// Date builds the Gregorian date for an ROC year, month and day.
func Date(rocYear, month, day int) (time.Time, error) {
	year := rocYear + Offset
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, fmt.Errorf("%w: %d-%02d-%02d", errdefs.ErrInvalidDate, year, month, day)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalises overflow, so 09-31 comes back as 10-01.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %d-%02d-%02d", errdefs.ErrInvalidDate, year, month, day)
	}
	return t, nil
}

// Format renders t as an ROC date using sep between the fields,
// e.g. Format(2025-10-21, "/") == "114/10/21".
func Format(t time.Time, sep string) string {
	return fmt.Sprintf("%d%s%02d%s%02d", t.Year()-Offset, sep, int(t.Month()), sep, t.Day())
}

// FormatMonth renders a month heading such as "114年10月".
func FormatMonth(year int, month time.Month) string {
	return fmt.Sprintf("%d年%02d月", year-Offset, int(month))
}

// ParseAny reads either an ROC date ("114-10-14") or a Gregorian one
// ("2025-10-14"). Years of up to three digits are taken as ROC years.
func ParseAny(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	year, _, _ := strings.Cut(s, "-")
	if len(year) <= 3 {
		return Parse(s)
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", errdefs.ErrDateParse, s)
	}
	return t, nil
}
