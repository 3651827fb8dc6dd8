package normalize

import (
	"math"
	"time"
)

// ISODate is the canonical date layout.
const ISODate = "2006-01-02"

// dateLayouts are tried in order and the first successful parse wins.
// "03/04/2024" therefore reads as 3 April (day-first precedes month-first);
// without locale metadata the order is the only disambiguation.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2/1/2006",
	"1/2/2006",
	"2-1-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006年1月2日",
	"2006-1-2 15:04:05",
}

// DateLayouts returns the supported layouts in attempt order.
func DateLayouts() []string {
	return append([]string(nil), dateLayouts...)
}

// serialEpoch is day zero of spreadsheet serial dates.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses s with the known layouts, then as a spreadsheet serial day
// number. ok is false when nothing matches; that is a normal outcome.
func ParseDate(s string) (time.Time, bool) {
	s = Fold(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if n, ok := parseFloat(s); ok {
		return SerialToDate(n)
	}
	return time.Time{}, false
}

// SerialToDate converts a serial day number counted from 1899-12-30.
// Results outside years 1..9999 are rejected.
func SerialToDate(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || math.Abs(serial) > 3_000_000 {
		return time.Time{}, false
	}
	days := math.Floor(serial)
	frac := serial - days
	t := serialEpoch.AddDate(0, 0, int(days)).Add(time.Duration(frac * float64(24*time.Hour)))
	if t.Year() < 1 || t.Year() > 9999 {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(ISODate)
}

// ParseISODate is ParseDate followed by FormatDate; "" means absent.
func ParseISODate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return FormatDate(t)
}
