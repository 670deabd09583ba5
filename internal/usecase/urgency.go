package usecase

import (
	"strconv"
	"strings"
	"time"
)

// Urgency step table. Rows are checked top to bottom; first match wins.
var urgencySteps = []struct {
	maxDays int
	urgency float64
}{
	{0, 1.0},
	{2, 0.9},
	{5, 0.6},
	{10, 0.3},
}

const (
	urgencyDistant = 0.1 // more than 10 days out
	urgencyUnknown = 0.0 // no date, or a date we could not read

	secondsPerDay = 24 * 60 * 60
)

// ParseExpiryDate parses a YYYY-MM-DD calendar date. Parts do not need zero
// padding ("2024-1-5" is accepted). ok is false for anything that is not a
// real date, including out-of-range days such as 2024-02-30.
func ParseExpiryDate(s string) (date time.Time, ok bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	var ymd [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, false
		}
		ymd[i] = n
	}

	year, month, day := ymd[0], ymd[1], ymd[2]
	if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}

	date = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 1); reject those.
	if date.Day() != day || int(date.Month()) != month {
		return time.Time{}, false
	}
	return date, true
}

// DaysUntil returns the whole number of calendar days from today to date.
// Negative when date is in the past. Only the calendar day of today counts.
func DaysUntil(date, today time.Time) int {
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ey, em, ed := date.Date()
	end := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return int((end.Unix() - start.Unix()) / secondsPerDay)
}

// UrgencyForDays maps a day count onto the urgency step table
func UrgencyForDays(days int) float64 {
	for _, step := range urgencySteps {
		if days <= step.maxDays {
			return step.urgency
		}
	}
	return urgencyDistant
}

// ExpiryUrgency scores how soon an item with the given expiry date must be
// used, relative to today. Missing and malformed dates score 0.
func ExpiryUrgency(expiryDate *string, today time.Time) float64 {
	if expiryDate == nil || *expiryDate == "" {
		return urgencyUnknown
	}
	date, ok := ParseExpiryDate(*expiryDate)
	if !ok {
		return urgencyUnknown
	}
	return UrgencyForDays(DaysUntil(date, today))
}
