package domain

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// GenerationSignature identifies a weather generation request for one site.
// Two signatures with the same years, variables (in order) and coordinates
// produce interchangeable weather, so the server token can be reused.
type GenerationSignature struct {
	from, to  int
	variables []Variable
	lat, lon  float64
	elev      float64
}

// NewGenerationSignature copies vars so later changes by the caller cannot
// alter a signature already stored in a cache.
func NewGenerationSignature(from, to int, vars []Variable, site Site) GenerationSignature {
	return GenerationSignature{
		from:      from,
		to:        to,
		variables: slices.Clone(vars),
		lat:       site.Latitude(),
		lon:       site.Longitude(),
		elev:      site.Elevation(),
	}
}

// Equal compares every field by value. Unknown elevations compare equal,
// and so do 0 and -0.
func (s GenerationSignature) Equal(o GenerationSignature) bool {
	return s.from == o.from &&
		s.to == o.to &&
		slices.Equal(s.variables, o.variables) &&
		sameCoordinate(s.lat, o.lat) &&
		sameCoordinate(s.lon, o.lon) &&
		sameCoordinate(s.elev, o.elev)
}

// Key is a canonical string form. Two signatures have the same key exactly
// when Equal reports true for them.
func (s GenerationSignature) Key() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(s.from))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(s.to))
	b.WriteByte('|')
	for i, v := range s.variables {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(v.Code())
	}
	b.WriteByte('|')
	b.WriteString(keyCoordinate(s.lat))
	b.WriteByte('|')
	b.WriteString(keyCoordinate(s.lon))
	b.WriteByte('|')
	b.WriteString(keyCoordinate(s.elev))
	return b.String()
}

func (s GenerationSignature) String() string { return s.Key() }

func sameCoordinate(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}

// keyCoordinate folds -0 into 0 so the key agrees with sameCoordinate.
func keyCoordinate(v float64) string {
	if v == 0 {
		v = 0
	}
	return FormatCoordinate(v)
}

// FormatCoordinate renders a float the way the service expects it: the
// shortest exact decimal form, with NaN spelled "NaN".
func FormatCoordinate(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
