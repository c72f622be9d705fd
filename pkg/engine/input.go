package engine

import (
	"strconv"
	"strings"

	"github.com/lintang-b-s/navcore/pkg/geo"
	"github.com/lintang-b-s/navcore/pkg/util"
	"github.com/twpayne/go-polyline"
)

// ParseCoordinates reads "lat,lon;lat,lon;..." or a google encoded polyline. polylines never contain
// ',' so the comma decides the format.
func ParseCoordinates(s string) ([]geo.Coordinate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "no coordinates given")
	}
	if !strings.Contains(s, ",") {
		return decodePolyline(s)
	}

	coords := make([]geo.Coordinate, 0)
	for _, pair := range strings.Split(s, ";") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		latLon := strings.Split(pair, ",")
		if len(latLon) != 2 {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "coordinate %q is not lat,lon", pair)
		}
		lat, err := util.StringToFloat64(strings.TrimSpace(latLon[0]))
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "latitude of %q", pair)
		}
		lon, err := util.StringToFloat64(strings.TrimSpace(latLon[1]))
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "longitude of %q", pair)
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "coordinate %q out of range", pair)
		}
		coords = append(coords, geo.NewCoordinate(lat, lon))
	}
	return coords, nil
}

func decodePolyline(s string) ([]geo.Coordinate, error) {
	decoded, rest, err := polyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "decode polyline")
	}
	if len(rest) > 0 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "trailing bytes after polyline: %q", rest)
	}
	coords := make([]geo.Coordinate, len(decoded))
	for i, c := range decoded {
		coords[i] = geo.NewCoordinate(c[0], c[1])
	}
	return coords, nil
}

// EncodeCoordinates google encoded polyline of coords.
func EncodeCoordinates(coords []geo.Coordinate) string {
	raw := make([][]float64, len(coords))
	for i, c := range coords {
		raw[i] = []float64{c.Lat, c.Lon}
	}
	return string(polyline.EncodeCoords(raw))
}

// ParseIndices comma separated coordinate indices, empty means all.
func ParseIndices(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	indices := make([]int, 0, len(parts))
	for _, p := range parts {
		i, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "index %q", p)
		}
		indices = append(indices, i)
	}
	return indices, nil
}
