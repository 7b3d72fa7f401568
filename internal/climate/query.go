package climate

import (
	"strconv"
	"strings"

	"github.com/couchcryptid/biosim-climate-client/internal/domain"
)

// listSep joins multi-valued parameters. The service expects this literal
// token rather than general URL encoding.
const listSep = "%20"

const compressOff = "compress=0"

func joinList(items []string) string {
	return strings.Join(items, listSep)
}

// variablesFragment encodes var=TN%20TX%20P.
func variablesFragment(vars []domain.Variable) string {
	codes := make([]string, len(vars))
	for i, v := range vars {
		codes[i] = v.Code()
	}
	return "var=" + joinList(codes)
}

// coordinatesFragment encodes lat=..&long=..&elev=.. with one token per site
// in input order. Unknown elevations are written as NaN to keep the three
// lists aligned.
func coordinatesFragment(sites []domain.Site) string {
	lats := make([]string, len(sites))
	lons := make([]string, len(sites))
	elevs := make([]string, len(sites))
	for i, s := range sites {
		lats[i] = domain.FormatCoordinate(s.Latitude())
		lons[i] = domain.FormatCoordinate(s.Longitude())
		elevs[i] = domain.FormatCoordinate(s.Elevation())
	}
	return "lat=" + joinList(lats) + "&long=" + joinList(lons) + "&elev=" + joinList(elevs)
}

func yearRangeFragment(from, to int) string {
	return "from=" + strconv.Itoa(from) + "&to=" + strconv.Itoa(to)
}

func joinQuery(fragments ...string) string {
	return strings.Join(fragments, "&")
}

func normalsQuery(period domain.Period, vars []domain.Variable, sites []domain.Site) string {
	return joinQuery(coordinatesFragment(sites), variablesFragment(vars), period.Query(), compressOff)
}

func generatorQuery(from, to int, vars []domain.Variable, sites []domain.Site) string {
	return joinQuery(coordinatesFragment(sites), variablesFragment(vars), yearRangeFragment(from, to), compressOff)
}

func modelQuery(model string, tokens []string) string {
	return joinQuery("model="+model, compressOff, "wgout="+joinList(tokens))
}
