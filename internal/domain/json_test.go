package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationJSON(t *testing.T) {
	b, err := json.Marshal(NewLocation(46.5, -71.25))
	require.NoError(t, err)
	assert.JSONEq(t, `{"lat":46.5,"long":-71.25}`, string(b))

	b, err = json.Marshal(NewLocationWithElevation(46.5, -71.25, 120))
	require.NoError(t, err)
	assert.JSONEq(t, `{"lat":46.5,"long":-71.25,"elev":120}`, string(b))

	var l Location
	require.NoError(t, json.Unmarshal([]byte(`{"lat":45,"long":-74}`), &l))
	assert.True(t, math.IsNaN(l.Elev))
	require.NoError(t, json.Unmarshal([]byte(`{"lat":45,"long":-74,"elev":0}`), &l))
	assert.InDelta(t, 0.0, l.Elev, 0)
}

func TestNormalsJSON(t *testing.T) {
	n := Normals{
		Site:       NewLocation(46, -71),
		Monthly:    MonthMap{January: {VarP: 31, VarTN: -12.5}},
		Aggregated: VariableMap{VarP: 31},
	}
	b, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"site": {"lat":46,"long":-71},
		"monthly": {"January": {"P":31,"TN":-12.5}},
		"aggregated": {"P":31}
	}`, string(b))
}

func TestClimateSeriesJSON(t *testing.T) {
	s := ClimateSeries{Site: NewLocationWithElevation(46, -71, 10), Values: map[int]float64{2000: 1.5}}
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"site":{"lat":46,"long":-71,"elev":10},"values":{"2000":1.5}}`, string(b))
}
