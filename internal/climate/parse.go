package climate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/biosim-climate-client/internal/domain"
)

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func isErrorLine(line string) bool {
	return hasPrefixFold(strings.TrimSpace(line), "error")
}

// splitLines drops blank lines; the service pads some replies. Lines are
// returned untrimmed so error lines can be reported verbatim.
func splitLines(body string) []string {
	raw := strings.Split(body, "\n")
	out := raw[:0]
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// parseValue parses a numeric reply field. NaN and infinities are rejected
// since results must encode as JSON.
func parseValue(s string) (float64, bool) {
	x, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// parseNormals reads the Normals grammar: one "Month,..." header per site
// followed by one CSV row per month. Columns are resolved from the first
// header and reused for every section.
func parseNormals(body string, vars []domain.Variable, nSites int) ([]domain.MonthMap, error) {
	var (
		sections []domain.MonthMap
		columns  []int
		current  domain.MonthMap
	)

	for _, raw := range splitLines(body) {
		if isErrorLine(raw) {
			return nil, &domain.ServerError{Line: raw}
		}
		line := strings.TrimSpace(raw)

		if hasPrefixFold(line, "month") {
			if columns == nil {
				cols, err := resolveColumns(splitFields(line), vars)
				if err != nil {
					return nil, err
				}
				columns = cols
			}
			current = make(domain.MonthMap)
			sections = append(sections, current)
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("%w: normals row before header: %q", domain.ErrServerReply, line)
		}

		fields := splitFields(line)
		idx, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: bad month index in %q", domain.ErrServerReply, line)
		}
		month, err := domain.MonthFromIndex(idx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrServerReply, err)
		}

		values := make(domain.VariableMap, len(vars))
		for i, v := range vars {
			col := columns[i]
			if col >= len(fields) {
				return nil, fmt.Errorf("%w: missing %s column in %q", domain.ErrServerReply, v.Field(), line)
			}
			x, ok := parseValue(fields[col])
			if !ok {
				return nil, fmt.Errorf("%w: bad %s value %q", domain.ErrServerReply, v.Field(), fields[col])
			}
			values[v] = x
		}
		current[month] = values
	}

	if len(sections) != nSites {
		return nil, fmt.Errorf("%w: got normals for %d locations, expected %d", domain.ErrServerReply, len(sections), nSites)
	}
	return sections, nil
}

func resolveColumns(header []string, vars []domain.Variable) ([]int, error) {
	cols := make([]int, len(vars))
	for i, v := range vars {
		cols[i] = -1
		for j, name := range header {
			if strings.EqualFold(name, v.Field()) {
				cols[i] = j
				break
			}
		}
		if cols[i] < 0 {
			return nil, fmt.Errorf("%w: column %s not found in header %v", domain.ErrServerReply, v.Field(), header)
		}
	}
	return cols, nil
}

// parseGenerationIDs reads the WeatherGenerator reply: one whitespace
// separated token per site, in request order.
func parseGenerationIDs(body string, sites []domain.Site) ([]string, error) {
	tokens := strings.Fields(body)
	for i, tok := range tokens {
		if hasPrefixFold(tok, "error") {
			if i < len(sites) {
				return nil, &domain.LocationError{Index: i, Site: sites[i], Token: tok}
			}
			return nil, &domain.ServerError{Line: tok}
		}
	}
	if len(tokens) != len(sites) {
		return nil, fmt.Errorf("%w: %w: got %d generation ids for %d locations",
			domain.ErrRejected, domain.ErrInvalidArgument, len(tokens), len(sites))
	}
	return tokens, nil
}

// parseModelOutput reads the Model grammar: one "Year,..." header per site
// followed by "year,value" rows. Sections map to sites by position.
func parseModelOutput(body string, nSites int) ([]map[int]float64, error) {
	var (
		sections []map[int]float64
		current  map[int]float64
	)

	for _, raw := range splitLines(body) {
		if isErrorLine(raw) {
			return nil, &domain.ServerError{Line: raw}
		}
		line := strings.TrimSpace(raw)

		if hasPrefixFold(line, "year") {
			current = make(map[int]float64)
			sections = append(sections, current)
			continue
		}

		if current == nil {
			return nil, fmt.Errorf("%w: model row before header: %q", domain.ErrServerReply, line)
		}

		fields := splitFields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: expected year,value in %q", domain.ErrServerReply, line)
		}
		year, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: bad year in %q", domain.ErrServerReply, line)
		}
		x, ok := parseValue(fields[1])
		if !ok {
			return nil, fmt.Errorf("%w: bad value in %q", domain.ErrServerReply, line)
		}
		current[year] = x
	}

	if len(sections) != nSites {
		return nil, fmt.Errorf("%w: got model output for %d locations, expected %d", domain.ErrServerReply, len(sections), nSites)
	}
	return sections, nil
}

// parseModelList splits the ModelList reply into names.
func parseModelList(body string) ([]string, error) {
	lines := splitLines(body)
	names := make([]string, len(lines))
	for i, l := range lines {
		if isErrorLine(l) {
			return nil, &domain.ServerError{Line: l}
		}
		names[i] = strings.TrimSpace(l)
	}
	return names, nil
}
