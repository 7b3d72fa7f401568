package climate

import (
	"errors"
	"testing"

	"github.com/couchcryptid/biosim-climate-client/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoSiteNormals = `Month,TMAX_MN,TMIN_MN,PRCP_TT
1,-5.1,-15.2,80.5
2,-3.0,-13.9,60.1
month,TMAX_MN,TMIN_MN,PRCP_TT
1,-2.0,-11.0,90.0
2,-1.0,-10.0,70.0`

func TestParseNormals(t *testing.T) {
	vars := []domain.Variable{domain.VarTN, domain.VarP}

	got, err := parseNormals(twoSiteNormals, vars, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, -15.2, got[0][domain.January][domain.VarTN])
	assert.Equal(t, 80.5, got[0][domain.January][domain.VarP])
	assert.Equal(t, 60.1, got[0][domain.February][domain.VarP])
	assert.Equal(t, -11.0, got[1][domain.January][domain.VarTN])
	assert.Equal(t, 70.0, got[1][domain.February][domain.VarP])
	assert.NotContains(t, got[0][domain.January], domain.VarTX, "only requested variables are kept")
}

func TestParseNormals_ErrorLine(t *testing.T) {
	_, err := parseNormals("ERROR: bad coordinates\nMonth,PRCP_TT", []domain.Variable{domain.VarP}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServerReply)

	var serverErr *domain.ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, "ERROR: bad coordinates", serverErr.Line)
}

func TestParseNormals_Malformed(t *testing.T) {
	vars := []domain.Variable{domain.VarP}
	tests := []struct {
		name string
		body string
		n    int
	}{
		{"row before header", "1,80.5", 1},
		{"missing column", "Month,TMIN_MN\n1,-15", 1},
		{"bad number", "Month,PRCP_TT\n1,abc", 1},
		{"month out of range", "Month,PRCP_TT\n13,1", 1},
		{"short row", "Month,TMIN_MN,PRCP_TT\n1,-3", 1},
		{"section count mismatch", "Month,PRCP_TT\n1,80.5", 2},
		{"empty reply", "", 1},
		{"NaN value", "Month,PRCP_TT\n1,NaN", 1},
		{"infinite value", "Month,PRCP_TT\n1,+Inf", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseNormals(tt.body, vars, tt.n)
			assert.ErrorIs(t, err, domain.ErrServerReply)
		})
	}
}

func TestParseGenerationIDs(t *testing.T) {
	sites := []domain.Site{domain.NewLocation(1, 1), domain.NewLocation(2, 2)}

	ids, err := parseGenerationIDs("abc123  def456\n", sites)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc123", "def456"}, ids)

	t.Run("error token names the location", func(t *testing.T) {
		_, err := parseGenerationIDs("abc123 ERROR_out_of_grid", sites)
		require.ErrorIs(t, err, domain.ErrRejected)

		var locErr *domain.LocationError
		require.True(t, errors.As(err, &locErr))
		assert.Equal(t, 1, locErr.Index)
		assert.Equal(t, 2.0, locErr.Site.Latitude())
	})

	t.Run("count mismatch", func(t *testing.T) {
		_, err := parseGenerationIDs("abc123", sites)
		assert.ErrorIs(t, err, domain.ErrRejected)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestParseModelOutput(t *testing.T) {
	body := "Year,DD\n1981,1432.5\n1982,1501\nYEAR,DD\n1981,980.25\n1982,1010"

	got, err := parseModelOutput(body, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, map[int]float64{1981: 1432.5, 1982: 1501}, got[0])
	assert.Equal(t, map[int]float64{1981: 980.25, 1982: 1010}, got[1])

	_, err = parseModelOutput(body, 3)
	assert.ErrorIs(t, err, domain.ErrServerReply)

	_, err = parseModelOutput("error: unknown wgout", 1)
	assert.ErrorIs(t, err, domain.ErrServerReply)
	assert.EqualError(t, err, "error: unknown wgout")

	_, err = parseModelOutput("Year,DD\n1981", 1)
	assert.ErrorIs(t, err, domain.ErrServerReply)

	_, err = parseModelOutput("Year,DD\n1981,NaN", 1)
	assert.ErrorIs(t, err, domain.ErrServerReply)
}

func TestServerErrorKeepsLineVerbatim(t *testing.T) {
	const line = "  ERROR: bad coordinates\t"

	tests := []struct {
		name  string
		parse func() error
	}{
		{"normals", func() error { _, err := parseNormals(line, []domain.Variable{domain.VarP}, 1); return err }},
		{"model output", func() error { _, err := parseModelOutput(line, 1); return err }},
		{"model list", func() error { _, err := parseModelList(line); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var serverErr *domain.ServerError
			require.True(t, errors.As(tt.parse(), &serverErr))
			assert.Equal(t, line, serverErr.Line)
		})
	}
}

func TestParseModelList(t *testing.T) {
	got, err := parseModelList("DegreeDay_Annual \n\nSpruce_Budworm_Biology\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"DegreeDay_Annual", "Spruce_Budworm_Biology"}, got)

	_, err = parseModelList("Error: service down")
	assert.ErrorIs(t, err, domain.ErrServerReply)
}
