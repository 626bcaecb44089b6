package maps

import (
	"context"
	"strings"

	"geolocation_backend/internal/geo"
	"geolocation_backend/internal/history/repository"
	"geolocation_backend/platform/apperr"
	"geolocation_backend/platform/logger"
	"geolocation_backend/platform/sanitize"

	"golang.org/x/sync/errgroup"
)

const (
	msgLocationNotFound   = "location not found"
	msgAddressNotFound    = "address not found"
	msgLocationsNotFound  = "one or both locations not found"
	prefixGeocodeError    = "geocoding error"
	prefixReverseGeoError = "reverse geocoding error"
	suggestionLimit       = 5
)

// Geocoder is the upstream geocoding provider.
type Geocoder interface {
	Search(ctx context.Context, query string, limit int) ([]Place, error)
	Reverse(ctx context.Context, coord geo.Coordinate) (*Place, error)
}

// Recorder appends successful lookups to the search history.
type Recorder interface {
	Append(ctx context.Context, query, result string) (repository.SearchRecord, error)
}

type Service struct {
	geocoder Geocoder
	history  Recorder
	cache    GeocodeCache
	log      *logger.Logger
}

// NewService creates the geocoding service. cache may be nil.
func NewService(geocoder Geocoder, history Recorder, cache GeocodeCache, log *logger.Logger) *Service {
	return &Service{
		geocoder: geocoder,
		history:  history,
		cache:    cache,
		log:      log,
	}
}

// Geocode resolves an address to a coordinate and records the lookup.
func (s *Service) Geocode(ctx context.Context, address string) (geo.Coordinate, error) {
	address = sanitize.Text(address)
	if address == "" {
		return geo.Coordinate{}, apperr.Validation("address is required")
	}

	coord, hit := s.cachedCoordinate(ctx, address)
	if !hit {
		places, err := s.geocoder.Search(ctx, address, 1)
		if err != nil {
			return geo.Coordinate{}, apperr.Unavailable(prefixGeocodeError, err)
		}
		if len(places) == 0 {
			return geo.Coordinate{}, apperr.NotFound(msgLocationNotFound)
		}
		coord = places[0].Coordinate
		if s.cache != nil {
			s.cache.Set(ctx, address, coord)
		}
	}

	if _, err := s.history.Append(ctx, address, coord.String()); err != nil {
		return geo.Coordinate{}, err
	}
	return coord, nil
}

// ReverseGeocode resolves a coordinate to an address and records the lookup.
func (s *Service) ReverseGeocode(ctx context.Context, coord geo.Coordinate) (string, error) {
	if err := coord.Validate(); err != nil {
		return "", err
	}

	place, err := s.geocoder.Reverse(ctx, coord)
	if err != nil {
		return "", apperr.Unavailable(prefixReverseGeoError, err)
	}
	if place == nil {
		return "", apperr.NotFound(msgAddressNotFound)
	}

	if _, err := s.history.Append(ctx, coord.String(), place.DisplayName); err != nil {
		return "", err
	}
	return place.DisplayName, nil
}

// Distance returns the geodesic distance between a and b in kilometers.
func (s *Service) Distance(a, b geo.Coordinate) float64 {
	return geo.DistanceKm(a, b)
}

// Resolve turns user input into a coordinate. A "lat,lon" pair is used as is
// and does not touch the network or history; anything else is geocoded.
func (s *Service) Resolve(ctx context.Context, input string) (geo.Coordinate, error) {
	coord, err := geo.ParseCoordinate(input)
	if err == nil {
		return coord, nil
	}
	if apperr.Is(err, apperr.KindValidation) {
		return geo.Coordinate{}, err
	}
	return s.Geocode(ctx, input)
}

// DistanceBetween resolves both inputs concurrently and measures between them.
func (s *Service) DistanceBetween(ctx context.Context, from, to string) (DistanceResult, error) {
	var result DistanceResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.Resolve(gctx, from)
		result.From = c
		return err
	})
	g.Go(func() error {
		c, err := s.Resolve(gctx, to)
		result.To = c
		return err
	})

	if err := g.Wait(); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return DistanceResult{}, apperr.NotFound(msgLocationsNotFound)
		}
		return DistanceResult{}, err
	}

	result.Kilometers = s.Distance(result.From, result.To)
	return result, nil
}

// Suggest lists candidate addresses for autocomplete. Suggestions are not
// lookups and are not recorded in history.
func (s *Service) Suggest(ctx context.Context, query string) ([]AddressSuggestion, error) {
	query = sanitize.Text(query)
	if query == "" {
		return nil, apperr.Validation("query is required")
	}

	places, err := s.geocoder.Search(ctx, query, suggestionLimit)
	if err != nil {
		return nil, apperr.Unavailable(prefixGeocodeError, err)
	}

	suggestions := make([]AddressSuggestion, 0, len(places))
	for _, place := range places {
		suggestions = append(suggestions, buildSuggestion(place))
	}
	return suggestions, nil
}

func (s *Service) cachedCoordinate(ctx context.Context, address string) (geo.Coordinate, bool) {
	if s.cache == nil {
		return geo.Coordinate{}, false
	}
	coord, ok := s.cache.Get(ctx, address)
	if ok {
		s.log.WithContext(ctx).Debug("geocode cache hit", "query", address)
	}
	return coord, ok
}

func buildSuggestion(place Place) AddressSuggestion {
	suggestion := AddressSuggestion{
		Street:      place.Address.Road,
		HouseNumber: place.Address.HouseNumber,
		ZipCode:     place.Address.Postcode,
		City:        pickCity(place.Address),
		Country:     place.Address.Country,
		Lat:         place.Coordinate.Latitude,
		Lon:         place.Coordinate.Longitude,
	}

	if suggestion.Street != "" && suggestion.City != "" {
		suggestion.Label = buildLabel(suggestion)
	} else {
		suggestion.Label = place.DisplayName
	}
	return suggestion
}

func pickCity(address nominatimAddress) string {
	if address.City != "" {
		return address.City
	}
	if address.Town != "" {
		return address.Town
	}
	if address.Village != "" {
		return address.Village
	}
	if address.Municipality != "" {
		return address.Municipality
	}
	return address.Hamlet
}

func buildLabel(suggestion AddressSuggestion) string {
	parts := []string{suggestion.Street}
	if suggestion.HouseNumber != "" {
		parts = append(parts, suggestion.HouseNumber)
	}
	parts = append(parts, ",")
	if suggestion.ZipCode != "" {
		parts = append(parts, suggestion.ZipCode)
	}
	parts = append(parts, suggestion.City)

	label := strings.Join(parts, " ")
	label = strings.ReplaceAll(label, " ,", ",")
	return strings.TrimSpace(label)
}
