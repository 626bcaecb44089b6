// Package geo holds the coordinate value type and geodesic distance.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"geolocation_backend/platform/apperr"
)

// Coordinate is a WGS-84 point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks the coordinate lies on the globe.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return apperr.Validation(fmt.Sprintf("latitude %v out of range [-90, 90]", c.Latitude))
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return apperr.Validation(fmt.Sprintf("longitude %v out of range [-180, 180]", c.Longitude))
	}
	return nil
}

// String renders the coordinate as "lat, lon", the form stored in history.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + ", " + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// GeoURI returns the RFC 5870 geo: URI for the coordinate.
func (c Coordinate) GeoURI() string {
	return "geo:" + strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// ParseCoordinate parses "lat,lon" (whitespace around either part allowed).
// Input that is not two numbers yields a BadRequest error; numbers outside the
// valid ranges yield a Validation error.
func ParseCoordinate(input string) (Coordinate, error) {
	parts := strings.Split(input, ",")
	if len(parts) != 2 {
		return Coordinate{}, apperr.BadRequest("expected coordinates as \"lat,lon\"")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, apperr.BadRequest("invalid latitude")
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, apperr.BadRequest("invalid longitude")
	}

	c := Coordinate{Latitude: lat, Longitude: lon}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}
