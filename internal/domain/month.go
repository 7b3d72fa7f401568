package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Month is a calendar month, January = 1.
type Month int

const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

// monthDays uses the non-leap convention throughout.
var monthDays = [...]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// AllMonths returns January through December.
func AllMonths() []Month {
	out := make([]Month, 0, 12)
	for m := January; m <= December; m++ {
		out = append(out, m)
	}
	return out
}

// Valid reports whether m is in 1..12.
func (m Month) Valid() bool {
	return m >= January && m <= December
}

// Days is the canonical day count used to weight non-additive variables.
func (m Month) Days() int {
	if !m.Valid() {
		return 0
	}
	return monthDays[m]
}

func (m Month) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return time.Month(m).String()
}

// MonthFromIndex converts the 1-based month index used on the wire.
func MonthFromIndex(i int) (Month, error) {
	m := Month(i)
	if !m.Valid() {
		return 0, fmt.Errorf("month index %d out of range", i)
	}
	return m, nil
}

// ParseMonths reads "all" or a comma-separated list of month numbers. An
// empty string yields no months.
func ParseMonths(s string) ([]Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.EqualFold(s, "all") {
		return AllMonths(), nil
	}
	var out []Month
	for _, item := range strings.Split(s, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(item))
		if err != nil {
			return nil, fmt.Errorf("%w: bad month %q", ErrInvalidArgument, item)
		}
		m, err := MonthFromIndex(i)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		out = append(out, m)
	}
	return out, nil
}
