package model

import (
	"strconv"
	"strings"

	"github.com/neophilus/manifester/internal/runerr"
)

// Month is a calendar month, 1-12.
type Month int

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthNames returns the short month names in calendar order.
func MonthNames() []string {
	return append([]string(nil), monthNames[:]...)
}

// String returns the short English name of the month.
func (m Month) String() string {
	if m < 1 || m > 12 {
		return "Month(" + strconv.Itoa(int(m)) + ")"
	}
	return monthNames[m-1]
}

// ParseMonth parses a two-digit month, "01" through "12".
func ParseMonth(s string) (Month, error) {
	if len(s) != 2 {
		return 0, runerr.Errorf(runerr.IdentifierMismatch, "%q makes no sense to be a month", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 12 {
		return 0, runerr.Errorf(runerr.IdentifierMismatch, "%q makes no sense to be a month", s)
	}
	return Month(n), nil
}

// Date is a year and month.
type Date struct {
	Year  int
	Month Month
}

// ParseDate parses a "YYYY/MM" string. The year is exactly four ASCII digits.
func ParseDate(s string) (Date, error) {
	year, month, ok := strings.Cut(s, "/")
	if !ok {
		return Date{}, runerr.Errorf(runerr.IdentifierMismatch, "%q has a malformed date string", s)
	}
	if !fourDigits(year) {
		return Date{}, runerr.Errorf(runerr.IdentifierMismatch, "%q has a malformed year", s)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return Date{}, runerr.Errorf(runerr.IdentifierMismatch, "%q has a malformed year", s)
	}
	m, err := ParseMonth(month)
	if err != nil {
		return Date{}, err
	}
	return Date{Year: y, Month: m}, nil
}

func fourDigits(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
