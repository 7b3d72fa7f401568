package main

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/biosim-climate-client/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSites(t *testing.T) {
	sites, err := decodeSites(strings.NewReader(`
- lat: 46.5
  long: -71.25
  elev: 120
- lat: 48
  long: -68.5
`))
	require.NoError(t, err)
	require.Len(t, sites, 2)

	assert.InDelta(t, 46.5, sites[0].Latitude(), 0)
	assert.InDelta(t, 120.0, sites[0].Elevation(), 0)
	assert.InDelta(t, -68.5, sites[1].Longitude(), 0)
	assert.True(t, math.IsNaN(sites[1].Elevation()))
}

func TestDecodeSites_MissingCoordinate(t *testing.T) {
	_, err := decodeSites(strings.NewReader("- lat: 46\n"))
	assert.ErrorContains(t, err, "site 0")
}

func TestDecodeSites_Malformed(t *testing.T) {
	_, err := decodeSites(strings.NewReader("lat: [1, 2"))
	assert.Error(t, err)
}

func TestLoadSites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- {lat: 45, long: -74, elev: 0}\n"), 0o600))

	sites, err := loadSites(path)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.InDelta(t, 0.0, sites[0].Elevation(), 0)

	_, err = loadSites(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseVars(t *testing.T) {
	vars, err := parseVars("all")
	require.NoError(t, err)
	assert.Equal(t, domain.AllVariables(), vars)

	vars, err = parseVars("TN,P")
	require.NoError(t, err)
	assert.Equal(t, []domain.Variable{domain.VarTN, domain.VarP}, vars)

	_, err = parseVars("TN,bogus")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
