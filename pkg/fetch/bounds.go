package fetch

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/paulmach/osm"
)

// EarthRadius is the mean Earth radius in metres.
const EarthRadius = 6371009.0

// BoundsAround returns the lat/lon rectangle enclosing every point within
// radius metres of (lat, lon).
func BoundsAround(lat, lon float64, radius int) *osm.Bounds {
	center := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon))
	c := s2.CapFromCenterAngle(center, s1.Angle(float64(radius)/EarthRadius))
	r := c.RectBound()
	return &osm.Bounds{
		MinLat: r.Lo().Lat.Degrees(),
		MaxLat: r.Hi().Lat.Degrees(),
		MinLon: r.Lo().Lng.Degrees(),
		MaxLon: r.Hi().Lng.Degrees(),
	}
}

// Distance is the great-circle distance in metres between two points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lon1)
	b := s2.LatLngFromDegrees(lat2, lon2)
	return float64(a.Distance(b)) * EarthRadius
}
