package climate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/biosim-climate-client/internal/domain"
	"github.com/couchcryptid/biosim-climate-client/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listFetcher struct {
	body  string
	err   error
	calls atomic.Int32
}

func (f *listFetcher) Fetch(_ context.Context, api, query string) (string, error) {
	f.calls.Add(1)
	if api != domain.APIModelList || query != "" {
		return "", errors.New("unexpected request " + api + "?" + query)
	}
	return f.body, f.err
}

func newTestRegistry(f domain.Fetcher) (*ModelRegistry, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	return NewModelRegistry(f, m, slog.New(slog.NewTextHandler(io.Discard, nil))), m
}

func TestModelRegistry_LoadsOnce(t *testing.T) {
	f := &listFetcher{body: "DegreeDay_Annual\nClimate_Moisture_Index_Annual\n"}
	r, m := newTestRegistry(f)

	assert.False(t, r.Loaded())
	assert.True(t, r.IsValidModel(context.Background(), "DegreeDay_Annual"))
	assert.False(t, r.IsValidModel(context.Background(), "degreeday_annual"), "names are case sensitive")
	assert.Equal(t, []string{"DegreeDay_Annual", "Climate_Moisture_Index_Annual"}, r.ListModels(context.Background()))

	assert.True(t, r.Loaded())
	assert.Equal(t, int32(1), f.calls.Load())
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.ModelRegistrySize), 1e-9)
}

func TestModelRegistry_FailsClosed(t *testing.T) {
	tests := []struct {
		name string
		f    *listFetcher
	}{
		{"transport error", &listFetcher{err: domain.ErrConnectivity}},
		{"server error", &listFetcher{body: "ERROR: maintenance"}},
		{"empty reply", &listFetcher{body: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRegistry(tt.f)

			assert.False(t, r.IsValidModel(context.Background(), "DegreeDay_Annual"))
			assert.False(t, r.IsValidModel(context.Background(), "DegreeDay_Annual"))
			assert.Empty(t, r.ListModels(context.Background()))
			assert.Equal(t, int32(1), tt.f.calls.Load(), "load is attempted once")
		})
	}
}

func TestModelRegistry_ServerErrorLeavesUnloaded(t *testing.T) {
	r, _ := newTestRegistry(&listFetcher{body: "ERROR: maintenance"})

	r.ListModels(context.Background())
	assert.False(t, r.Loaded())
}

func TestModelRegistry_ConcurrentFirstUse(t *testing.T) {
	f := &listFetcher{body: "A\nB"}
	r, _ := newTestRegistry(f)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, r.IsValidModel(context.Background(), "B"))
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), f.calls.Load())
}

// slowListFetcher answers after delay unless the request context ends first.
type slowListFetcher struct {
	delay time.Duration
	calls atomic.Int32
}

func (f *slowListFetcher) Fetch(ctx context.Context, _, _ string) (string, error) {
	f.calls.Add(1)
	select {
	case <-time.After(f.delay):
		return "DegreeDay_Annual", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestModelRegistry_LoadOutlivesFirstCallerDeadline(t *testing.T) {
	f := &slowListFetcher{delay: 50 * time.Millisecond}
	r, _ := newTestRegistry(f)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	r.IsValidModel(ctx, "DegreeDay_Annual")

	assert.True(t, r.IsValidModel(context.Background(), "DegreeDay_Annual"))
	assert.True(t, r.Loaded())
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestModelRegistry_LoadedDoesNotFetch(t *testing.T) {
	f := &listFetcher{body: "A"}
	r, _ := newTestRegistry(f)

	assert.False(t, r.Loaded())
	assert.Equal(t, int32(0), f.calls.Load())
}
