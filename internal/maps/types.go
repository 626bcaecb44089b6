package maps

import "geolocation_backend/internal/geo"

// GeocodeRequest is the query for GET /geocode.
type GeocodeRequest struct {
	Query string `form:"q" validate:"required,min=1,max=512"`
}

// GeocodeResponse carries a resolved coordinate.
type GeocodeResponse struct {
	Query      string         `json:"query"`
	Coordinate geo.Coordinate `json:"coordinate"`
}

// ReverseRequest accepts either q=lat,lon or separate lat/lon parameters.
type ReverseRequest struct {
	Query     string   `form:"q" validate:"omitempty,coordinate"`
	Latitude  *float64 `form:"lat" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `form:"lon" validate:"omitempty,min=-180,max=180"`
}

// ReverseResponse carries the address for a coordinate.
type ReverseResponse struct {
	Coordinate geo.Coordinate `json:"coordinate"`
	Address    string         `json:"address"`
}

// DistanceRequest names two locations as addresses or "lat,lon" pairs.
type DistanceRequest struct {
	From string `form:"from" validate:"required,max=512"`
	To   string `form:"to" validate:"required,max=512"`
}

// DistanceResult is the outcome of DistanceBetween.
type DistanceResult struct {
	From       geo.Coordinate `json:"from"`
	To         geo.Coordinate `json:"to"`
	Kilometers float64        `json:"kilometers"`
}

// SuggestRequest is the query for GET /geocode/suggest.
type SuggestRequest struct {
	Query string `form:"q" validate:"required,min=3,max=256"`
}

// AddressSuggestion is a candidate address for autocomplete.
type AddressSuggestion struct {
	Label       string  `json:"label"`
	Street      string  `json:"street,omitempty"`
	HouseNumber string  `json:"houseNumber,omitempty"`
	ZipCode     string  `json:"zipCode,omitempty"`
	City        string  `json:"city,omitempty"`
	Country     string  `json:"country,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Place is a single Nominatim hit with its coordinate already validated.
type Place struct {
	DisplayName string
	Coordinate  geo.Coordinate
	Address     nominatimAddress
}

type nominatimAddress struct {
	Road         string `json:"road"`
	HouseNumber  string `json:"house_number"`
	Postcode     string `json:"postcode"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	Hamlet       string `json:"hamlet"`
	Country      string `json:"country"`
}

// nominatimResponse mirrors the relevant parts of the OSM search and reverse
// payloads. Reverse lookups that find nothing answer 200 with Error set.
type nominatimResponse struct {
	DisplayName string           `json:"display_name"`
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	Address     nominatimAddress `json:"address"`
	Error       string           `json:"error"`
}
