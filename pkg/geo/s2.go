package geo

import (
	"github.com/golang/geo/s2"
)

func toS2(c Coordinate) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

// ProjectPointToLineCoord closest point to snap on the great circle segment a - b.
func ProjectPointToLineCoord(pointA Coordinate, pointB Coordinate, snap Coordinate) Coordinate {
	projection := s2.Project(toS2(snap), toS2(pointA), toS2(pointB))
	projectLatLng := s2.LatLngFromPoint(projection)
	return NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// PointLinePerpendicularDistance distance in meter between snap and the segment a - b.
func PointLinePerpendicularDistance(pointA Coordinate, pointB Coordinate, snap Coordinate) float64 {
	return Distance(snap, ProjectPointToLineCoord(pointA, pointB, snap)) * 1000
}
