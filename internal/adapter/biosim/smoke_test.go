//go:build biosim

package biosim

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/biosim-climate-client/internal/domain"
	"github.com/couchcryptid/biosim-climate-client/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real BioSIM service.
// Run with: go test -tags=biosim ./internal/adapter/biosim/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	primary := os.Getenv("BIOSIM_PRIMARY_URL")
	if primary == "" {
		primary = "http://repicea.dyndns.org/BioSIM_API/"
	}
	secondary := os.Getenv("BIOSIM_SECONDARY_URL")
	if secondary == "" {
		secondary = primary
	}
	return NewClient(primary, secondary, 30*time.Second, observability.NewMetricsForTesting(), testLogger())
}

func TestSmoke_ModelList(t *testing.T) {
	c := smokeClient(t)

	body, err := c.Fetch(context.Background(), domain.APIModelList, "")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(body))
}

func TestSmoke_Normals(t *testing.T) {
	c := smokeClient(t)

	body, err := c.Fetch(context.Background(), domain.APINormals,
		"lat=46.5&long=-71.2&elev=NaN&var=TN%20P&period=1981_2010&compress=0")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.ToLower(body), "month"), "reply should start with a header: %q", body)
}
