package climate

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/couchcryptid/biosim-climate-client/internal/domain"
	"github.com/couchcryptid/biosim-climate-client/internal/observability"
)

// loadTimeout bounds the one-time model list fetch. The fetch is detached
// from the triggering caller's context so a cancelled request cannot leave
// the registry empty.
const loadTimeout = 2 * time.Minute

// ModelRegistry holds the model names the service accepts. It is loaded once,
// on first use. A failed load leaves it empty for the life of the registry,
// so every model check fails closed.
type ModelRegistry struct {
	fetcher domain.Fetcher
	metrics *observability.Metrics
	logger  *slog.Logger

	once   sync.Once
	mu     sync.RWMutex
	models []string
	loaded bool
}

// NewModelRegistry creates an unloaded registry.
func NewModelRegistry(fetcher domain.Fetcher, metrics *observability.Metrics, logger *slog.Logger) *ModelRegistry {
	return &ModelRegistry{
		fetcher: fetcher,
		metrics: metrics,
		logger:  logger,
	}
}

func (r *ModelRegistry) load(ctx context.Context) {
	r.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		body, err := r.fetcher.Fetch(ctx, domain.APIModelList, "")
		if err != nil {
			r.logger.Warn("model list unavailable, all model names will be rejected", "error", err)
			return
		}
		models, err := parseModelList(body)
		if err != nil {
			r.logger.Warn("model list rejected", "error", err)
			return
		}
		if len(models) == 0 {
			r.logger.Warn("model list is empty, all model names will be rejected")
			return
		}

		r.mu.Lock()
		r.models = models
		r.loaded = true
		r.mu.Unlock()

		r.metrics.ModelRegistrySize.Set(float64(len(models)))
		r.logger.Info("model list loaded", "models", len(models))
	})
}

// ListModels returns a copy of the registered model names.
func (r *ModelRegistry) ListModels(ctx context.Context) []string {
	r.load(ctx)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.models)
}

// IsValidModel reports whether name is a registered model.
func (r *ModelRegistry) IsValidModel(ctx context.Context, name string) bool {
	r.load(ctx)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.models, name)
}

// Loaded reports whether a non-empty model list was fetched. It never
// triggers a load.
func (r *ModelRegistry) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}
