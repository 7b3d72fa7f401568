package climate

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/couchcryptid/biosim-climate-client/internal/domain"
	"github.com/couchcryptid/biosim-climate-client/internal/observability"
	"golang.org/x/sync/singleflight"
)

// Client retrieves normals and model output for batches of sites. Each
// Client owns its generation cache and model registry; it is safe for
// concurrent use.
type Client struct {
	fetcher  domain.Fetcher
	cache    *SignatureCache
	registry *ModelRegistry
	inflight singleflight.Group
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewClient wires a Client around a transport and a generation cache.
func NewClient(fetcher domain.Fetcher, cache *SignatureCache, metrics *observability.Metrics, logger *slog.Logger) *Client {
	logger = logger.With("component", "climate-client")
	return &Client{
		fetcher:  fetcher,
		cache:    cache,
		registry: NewModelRegistry(fetcher, metrics, logger),
		metrics:  metrics,
		logger:   logger,
	}
}

// GetNormals fetches monthly normals for every site in one batched request.
// When months is non-empty each site's normals are also aggregated over those
// months. Results are in the same order as sites.
func (c *Client) GetNormals(ctx context.Context, period domain.Period, vars []domain.Variable, sites []domain.Site, months []domain.Month) ([]domain.Normals, error) {
	if err := validateNormalsRequest(period, vars, sites, months); err != nil {
		return nil, err
	}

	body, err := c.fetcher.Fetch(ctx, domain.APINormals, normalsQuery(period, vars, sites))
	if err != nil {
		return nil, err
	}

	monthly, err := parseNormals(body, vars, len(sites))
	if err != nil {
		return nil, err
	}

	out := make([]domain.Normals, len(sites))
	for i, site := range sites {
		out[i] = domain.Normals{Site: site, Monthly: monthly[i]}
		if len(months) == 0 {
			continue
		}
		agg, err := monthly[i].Aggregate(months)
		if err != nil {
			return nil, fmt.Errorf("location %d: %w", i, err)
		}
		out[i].Aggregated = agg
	}
	return out, nil
}

// GetMonthlyNormals returns the twelve monthly normals of each site.
func (c *Client) GetMonthlyNormals(ctx context.Context, period domain.Period, vars []domain.Variable, sites []domain.Site) ([]domain.Normals, error) {
	return c.GetNormals(ctx, period, vars, sites, nil)
}

// GetAnnualNormals returns normals aggregated over the whole year.
func (c *Client) GetAnnualNormals(ctx context.Context, period domain.Period, vars []domain.Variable, sites []domain.Site) ([]domain.Normals, error) {
	return c.GetNormals(ctx, period, vars, sites, domain.AllMonths())
}

// GetClimateVariables generates daily weather for every site over
// [from, to], reusing cached generations, then applies model to it.
// Results are in the same order as sites.
func (c *Client) GetClimateVariables(ctx context.Context, from, to int, vars []domain.Variable, sites []domain.Site, model string) ([]domain.ClimateSeries, error) {
	if err := validateGenerationRequest(from, to, vars, sites); err != nil {
		return nil, err
	}
	if !c.registry.IsValidModel(ctx, model) {
		return nil, fmt.Errorf("%w: model %q is not registered", domain.ErrInvalidArgument, model)
	}

	tokens, err := c.generationTokens(ctx, from, to, vars, sites)
	if err != nil {
		return nil, err
	}

	body, err := c.fetcher.Fetch(ctx, domain.APIModel, modelQuery(model, tokens))
	if err != nil {
		return nil, err
	}
	series, err := parseModelOutput(body, len(sites))
	if err != nil {
		return nil, err
	}

	out := make([]domain.ClimateSeries, len(sites))
	for i, site := range sites {
		out[i] = domain.ClimateSeries{Site: site, Values: series[i]}
	}
	return out, nil
}

// ListModels returns the model names accepted by GetClimateVariables.
func (c *Client) ListModels(ctx context.Context) []string {
	return c.registry.ListModels(ctx)
}

// CheckReadiness returns nil once the model list has been loaded. It does not
// start a load itself; call ListModels to warm the registry.
func (c *Client) CheckReadiness(_ context.Context) error {
	if !c.registry.Loaded() {
		return fmt.Errorf("%w: model list not loaded", domain.ErrConnectivity)
	}
	return nil
}

// generationTokens returns one token per site, in input order. Only sites
// without a cached token for their signature are sent to the generator.
func (c *Client) generationTokens(ctx context.Context, from, to int, vars []domain.Variable, sites []domain.Site) ([]string, error) {
	tokens := make([]string, len(sites))
	sigs := make([]domain.GenerationSignature, len(sites))

	var missing []int
	for i, site := range sites {
		sigs[i] = domain.NewGenerationSignature(from, to, vars, site)
		if tok, ok := c.cache.Lookup(sigs[i]); ok {
			tokens[i] = tok
			continue
		}
		missing = append(missing, i)
	}

	c.logger.Debug("generation cache partition", "locations", len(sites), "cached", len(sites)-len(missing))
	if len(missing) == 0 {
		return tokens, nil
	}

	uncached := make([]domain.Site, len(missing))
	keys := make([]string, len(missing))
	for j, i := range missing {
		uncached[j] = sites[i]
		keys[j] = sigs[i].Key()
	}

	// Identical concurrent batches share one generator call.
	v, err, shared := c.inflight.Do(strings.Join(keys, ";"), func() (interface{}, error) {
		ids, err := c.generate(ctx, from, to, vars, uncached)
		if err != nil {
			return nil, err
		}
		for j, i := range missing {
			c.cache.Insert(sigs[i], ids[j])
		}
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.metrics.SharedGenerations.Inc()
	}

	ids := v.([]string)
	for j, i := range missing {
		tokens[i] = ids[j]
	}
	return tokens, nil
}

func (c *Client) generate(ctx context.Context, from, to int, vars []domain.Variable, sites []domain.Site) ([]string, error) {
	body, err := c.fetcher.Fetch(ctx, domain.APIWeatherGenerator, generatorQuery(from, to, vars, sites))
	if err != nil {
		return nil, err
	}
	ids, err := parseGenerationIDs(body, sites)
	if err != nil {
		return nil, err
	}
	c.metrics.LocationsGenerated.Add(float64(len(sites)))
	return ids, nil
}

func validateSites(vars []domain.Variable, sites []domain.Site) error {
	if len(sites) == 0 {
		return fmt.Errorf("%w: no locations", domain.ErrInvalidArgument)
	}
	for i, s := range sites {
		if s == nil {
			return fmt.Errorf("%w: location %d is nil", domain.ErrInvalidArgument, i)
		}
		if !isFinite(s.Latitude()) || !isFinite(s.Longitude()) || math.IsInf(s.Elevation(), 0) {
			return fmt.Errorf("%w: location %d has non-finite coordinates", domain.ErrInvalidArgument, i)
		}
	}
	if len(vars) == 0 {
		return fmt.Errorf("%w: no variables", domain.ErrInvalidArgument)
	}
	for _, v := range vars {
		if !v.Valid() {
			return fmt.Errorf("%w: unknown variable %s", domain.ErrInvalidArgument, v)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validateNormalsRequest(period domain.Period, vars []domain.Variable, sites []domain.Site, months []domain.Month) error {
	if !period.Valid() {
		return fmt.Errorf("%w: unknown period %s", domain.ErrInvalidArgument, period)
	}
	if err := validateSites(vars, sites); err != nil {
		return err
	}
	for _, v := range vars {
		if v.Field() == "" {
			return fmt.Errorf("%w: variable %s is not available as a normal", domain.ErrInvalidArgument, v)
		}
	}
	for _, m := range months {
		if !m.Valid() {
			return fmt.Errorf("%w: invalid month %d", domain.ErrInvalidArgument, int(m))
		}
	}
	return nil
}

func validateGenerationRequest(from, to int, vars []domain.Variable, sites []domain.Site) error {
	if from > to {
		return fmt.Errorf("%w: initial year %d is after final year %d", domain.ErrInvalidArgument, from, to)
	}
	return validateSites(vars, sites)
}
