package rules

import (
	"strconv"
	"strings"
)

const (
	MinYear     = 1900
	MaxYear     = 2025
	MinDuration = 30
	MaxDuration = 300
	MinRating   = 1.0
	MaxRating   = 10.0
)

// dateLayoutLen is len("YYYY-MM-DD")
const dateLayoutLen = 10

// IsLeapYear reports whether year has a February 29th in the Gregorian calendar.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInMonth returns the number of days in month of year, or 0 for a month outside 1-12.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// IsValidDate reports whether text is a zero-padded YYYY-MM-DD date that exists on the
// calendar and falls within [MinYear-01-01, MaxYear-12-31].
func IsValidDate(text string) bool {
	if len(text) != dateLayoutLen || text[4] != '-' || text[7] != '-' {
		return false
	}

	year, ok := digits(text[0:4])
	if !ok {
		return false
	}
	month, ok := digits(text[5:7])
	if !ok {
		return false
	}
	day, ok := digits(text[8:10])
	if !ok {
		return false
	}

	if year < MinYear || year > MaxYear {
		return false
	}

	days := DaysInMonth(year, month)
	return days > 0 && day >= 1 && day <= days
}

// IsValidDuration reports whether minutes is within [MinDuration, MaxDuration].
func IsValidDuration(minutes int) bool {
	return minutes >= MinDuration && minutes <= MaxDuration
}

// IsValidRating reports whether value is within [MinRating, MaxRating]. NaN is never valid.
func IsValidRating(value float64) bool {
	return value >= MinRating && value <= MaxRating
}

// IsValidCategory reports whether value is a usable phase number.
func IsValidCategory(value int) bool {
	return value > 0
}

// IsNonBlank reports whether text has content other than whitespace.
func IsNonBlank(text string) bool {
	return strings.TrimSpace(text) != ""
}

// digits parses s as an unsigned decimal number, rejecting signs and any non-digit byte.
func digits(s string) (int, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
