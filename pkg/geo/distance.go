package geo

import (
	"math"

	"github.com/lintang-b-s/navcore/pkg/util"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Lat: lat, Lon: lon}
}

const (
	earthRadiusKM = 6371.0
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

// CalculateHaversineDistance. calculate haversine distance in km
func CalculateHaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = util.DegreeToRadians(latOne)
	longOne = util.DegreeToRadians(longOne)
	latTwo = util.DegreeToRadians(latTwo)
	longTwo = util.DegreeToRadians(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusKM * c
}

// Distance haversine distance between two coordinates in km.
func Distance(a, b Coordinate) float64 {
	return CalculateHaversineDistance(a.Lat, a.Lon, b.Lat, b.Lon)
}

// destination point reached from c after dist km on the initial bearing, in degrees clockwise from north.
func destination(c Coordinate, bearing, dist float64) Coordinate {
	dr := dist / earthRadiusKM
	theta := util.DegreeToRadians(bearing)
	phi1 := util.DegreeToRadians(c.Lat)
	lambda1 := util.DegreeToRadians(c.Lon)

	phi2 := math.Asin(math.Sin(phi1)*math.Cos(dr) + math.Cos(phi1)*math.Sin(dr)*math.Cos(theta))
	lambda2 := lambda1 + math.Atan2(math.Sin(theta)*math.Sin(dr)*math.Cos(phi1),
		math.Cos(dr)-math.Sin(phi1)*math.Sin(phi2))

	lon := math.Mod(lambda2*180/math.Pi+540, 360) - 180
	return NewCoordinate(phi2*180/math.Pi, lon)
}

// BoundingBox lower left and upper right corner of the box around c reaching radius km in every direction.
func BoundingBox(c Coordinate, radius float64) (Coordinate, Coordinate) {
	return destination(c, 225, radius), destination(c, 45, radius)
}
