package geo

import "github.com/tidwall/geodesic"

// DistanceKm returns the geodesic distance on the WGS-84 ellipsoid in
// kilometers. The result is exactly zero for identical points and exactly
// symmetric in its arguments.
func DistanceKm(a, b Coordinate) float64 {
	if a == b {
		return 0
	}
	// Solve in a fixed argument order so swapping a and b cannot change the
	// floating point result.
	if less(b, a) {
		a, b = b, a
	}

	var meters float64
	geodesic.WGS84.Inverse(a.Latitude, a.Longitude, b.Latitude, b.Longitude, &meters, nil, nil)
	return meters / 1000
}

func less(a, b Coordinate) bool {
	if a.Latitude != b.Latitude {
		return a.Latitude < b.Latitude
	}
	return a.Longitude < b.Longitude
}
