package domain

import "fmt"

// VariableMap holds one value per climate variable.
type VariableMap map[Variable]float64

// MonthMap holds the monthly normals of one site.
type MonthMap map[Month]VariableMap

// Aggregate reduces the given months to one value per variable. Additive
// variables are summed; the others are averaged with each month weighted by
// its day count. Every requested month must be present.
func (m MonthMap) Aggregate(months []Month) (VariableMap, error) {
	if len(months) == 0 {
		return nil, fmt.Errorf("%w: no months to aggregate", ErrInvalidArgument)
	}

	sums := make(VariableMap)
	weights := make(map[Variable]int)
	for _, month := range months {
		values, ok := m[month]
		if !ok {
			return nil, fmt.Errorf("%w: no normals for %s", ErrServerReply, month)
		}
		for v, x := range values {
			if v.Additive() {
				sums[v] += x
				continue
			}
			sums[v] += x * float64(month.Days())
			weights[v] += month.Days()
		}
	}

	for v, w := range weights {
		sums[v] /= float64(w)
	}
	return sums, nil
}

// Normals is the normals result for one site.
type Normals struct {
	Site       Site
	Monthly    MonthMap
	Aggregated VariableMap // nil unless months were requested
}

// ClimateSeries is the model output for one site, keyed by year.
type ClimateSeries struct {
	Site   Site
	Values map[int]float64
}
