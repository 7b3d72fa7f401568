package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/biosim-climate-client/internal/domain"
)

type normalsRequest struct {
	period domain.Period
	vars   []domain.Variable
	sites  []domain.Site
	months []domain.Month
}

type climateRequest struct {
	from, to int
	vars     []domain.Variable
	sites    []domain.Site
	model    string
}

func parseNormalsRequest(q url.Values) (normalsRequest, error) {
	var req normalsRequest
	var err error

	if req.period, err = domain.ParsePeriod(q.Get("period")); err != nil {
		return req, err
	}
	if req.vars, err = parseVars(q.Get("var")); err != nil {
		return req, err
	}
	if req.sites, err = parseSites(q); err != nil {
		return req, err
	}
	req.months, err = domain.ParseMonths(q.Get("months"))
	return req, err
}

func parseClimateRequest(q url.Values) (climateRequest, error) {
	var req climateRequest
	var err error

	if req.from, err = parseYear(q, "from"); err != nil {
		return req, err
	}
	if req.to, err = parseYear(q, "to"); err != nil {
		return req, err
	}
	if req.vars, err = parseVars(q.Get("var")); err != nil {
		return req, err
	}
	if req.sites, err = parseSites(q); err != nil {
		return req, err
	}
	req.model = strings.TrimSpace(q.Get("model"))
	if req.model == "" {
		return req, fmt.Errorf("%w: model is required", domain.ErrInvalidArgument)
	}
	return req, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func parseVars(s string) ([]domain.Variable, error) {
	return domain.ParseVariables(splitList(s))
}

func parseYear(q url.Values, key string) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a year", domain.ErrInvalidArgument, key)
	}
	return y, nil
}

// parseSites zips the lat, long and elev lists. elev may be omitted
// altogether, and an empty item marks that site's elevation unknown.
func parseSites(q url.Values) ([]domain.Site, error) {
	lats, lons := splitList(q.Get("lat")), splitList(q.Get("long"))
	elevs := splitList(q.Get("elev"))

	if len(lats) != len(lons) {
		return nil, fmt.Errorf("%w: %d latitudes for %d longitudes", domain.ErrInvalidArgument, len(lats), len(lons))
	}
	if elevs != nil && len(elevs) != len(lats) {
		return nil, fmt.Errorf("%w: %d elevations for %d locations", domain.ErrInvalidArgument, len(elevs), len(lats))
	}

	sites := make([]domain.Site, len(lats))
	for i := range lats {
		lat, err := parseFloat("lat", lats[i])
		if err != nil {
			return nil, err
		}
		lon, err := parseFloat("long", lons[i])
		if err != nil {
			return nil, err
		}
		loc := domain.NewLocation(lat, lon)
		if elevs != nil && strings.TrimSpace(elevs[i]) != "" {
			if loc.Elev, err = parseFloat("elev", elevs[i]); err != nil {
				return nil, err
			}
		}
		sites[i] = loc
	}
	return sites, nil
}

func parseFloat(key, s string) (float64, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s value %q", domain.ErrInvalidArgument, key, s)
	}
	return x, nil
}
