package engine

import (
	"testing"

	"github.com/lintang-b-s/navcore/pkg/geo"
	"github.com/lintang-b-s/navcore/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinates(t *testing.T) {
	want := []geo.Coordinate{
		geo.NewCoordinate(-7.7956, 110.3695),
		geo.NewCoordinate(-7.7829, 110.3671),
		geo.NewCoordinate(-7.8012, 110.3647),
	}

	testCases := []struct {
		name  string
		input string
	}{
		{name: "lat lon pairs", input: "-7.7956,110.3695;-7.7829,110.3671;-7.8012,110.3647"},
		{name: "pairs with spaces and trailing separator", input: " -7.7956, 110.3695; -7.7829,110.3671;-7.8012 ,110.3647; "},
		{name: "encoded polyline", input: EncodeCoordinates(want)},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			coords, err := ParseCoordinates(tt.input)
			require.NoError(t, err)
			require.Len(t, coords, len(want))
			for i := range want {
				assert.InDelta(t, want[i].Lat, coords[i].Lat, 1e-5)
				assert.InDelta(t, want[i].Lon, coords[i].Lon, 1e-5)
			}
		})
	}
}

func TestParseCoordinatesRejects(t *testing.T) {
	for _, input := range []string{"", "-7.79,110.36,5", "abc,110.36", "-97.0,110.36"} {
		_, err := ParseCoordinates(input)
		assert.ErrorIs(t, err, util.ErrBadParamInput, "input %q", input)
	}
}

func TestParseIndices(t *testing.T) {
	indices, err := ParseIndices("0, 2,5")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 5}, indices)

	indices, err = ParseIndices("")
	require.NoError(t, err)
	assert.Nil(t, indices)

	_, err = ParseIndices("1,x")
	assert.ErrorIs(t, err, util.ErrBadParamInput)
}
