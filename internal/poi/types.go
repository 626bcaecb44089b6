package poi

import "geolocation_backend/internal/geo"

const (
	// DefaultRadiusMeters is used when no radius is supplied.
	DefaultRadiusMeters = 1000
	// MinRadiusMeters and MaxRadiusMeters bound a single Overpass query.
	MinRadiusMeters = 1
	MaxRadiusMeters = 50000

	unknownCategory = "unknown"
)

// PointOfInterest is a named amenity near a location.
type PointOfInterest struct {
	Category   string         `json:"category"`
	Name       string         `json:"name"`
	Coordinate geo.Coordinate `json:"coordinate"`
	DistanceKm float64        `json:"distanceKm"`
}

// NearbyRequest is the query for GET /pois.
type NearbyRequest struct {
	Latitude  *float64 `form:"lat" validate:"required,min=-90,max=90"`
	Longitude *float64 `form:"lon" validate:"required,min=-180,max=180"`
	Radius    int      `form:"radius" validate:"omitempty,min=1,max=50000"`
}

// NearbyResponse lists the POIs around a center point.
type NearbyResponse struct {
	Center       geo.Coordinate    `json:"center"`
	RadiusMeters int               `json:"radiusMeters"`
	Items        []PointOfInterest `json:"items"`
}
