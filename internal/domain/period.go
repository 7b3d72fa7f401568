package domain

import (
	"fmt"
	"strings"
)

// Period is one of the 30-year normal periods served by the Normals endpoint.
type Period int

const (
	Normals1951To1980 Period = iota
	Normals1961To1990
	Normals1971To2000
	Normals1981To2010
)

var periodCodes = [...]string{
	Normals1951To1980: "1951_1980",
	Normals1961To1990: "1961_1990",
	Normals1971To2000: "1971_2000",
	Normals1981To2010: "1981_2010",
}

// Valid reports whether p is one of the declared periods.
func (p Period) Valid() bool {
	return p >= 0 && int(p) < len(periodCodes)
}

func (p Period) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodCodes[p]
}

// Query returns the period fragment of a Normals query.
func (p Period) Query() string {
	return "period=" + p.String()
}

// ParsePeriod accepts "1981_2010" or "1981-2010".
func ParsePeriod(s string) (Period, error) {
	norm := strings.ReplaceAll(strings.TrimSpace(s), "-", "_")
	for i, code := range periodCodes {
		if code == norm {
			return Period(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown normals period %q", ErrInvalidArgument, s)
}
