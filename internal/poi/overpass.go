// Package poi fetches named amenities around a point from an Overpass API.
package poi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"geolocation_backend/internal/geo"
	"geolocation_backend/platform/config"
	"geolocation_backend/platform/logger"

	"github.com/tidwall/gjson"
)

const overpassService = "overpass"

// maxResponseBytes caps how much of an Overpass answer is read. Dense city
// centers at the maximum radius stay well below this.
const maxResponseBytes = 32 << 20

type Fetcher struct {
	endpoint      string
	userAgent     string
	defaultRadius int
	client        *http.Client
	log           *logger.Logger
}

func NewFetcher(cfg config.OverpassConfig, log *logger.Logger) *Fetcher {
	return &Fetcher{
		endpoint:      cfg.GetOverpassURL(),
		userAgent:     cfg.GetUserAgent(),
		defaultRadius: cfg.GetDefaultPOIRadius(),
		client:        &http.Client{Timeout: cfg.GetUpstreamTimeout()},
		log:           log,
	}
}

// ClampRadius applies the default for non-positive values and bounds the rest.
func (f *Fetcher) ClampRadius(radius int) int {
	if radius <= 0 {
		radius = f.defaultRadius
		if radius <= 0 {
			radius = DefaultRadiusMeters
		}
	}
	if radius < MinRadiusMeters {
		return MinRadiusMeters
	}
	if radius > MaxRadiusMeters {
		return MaxRadiusMeters
	}
	return radius
}

// Fetch returns the named amenities within radius meters of center. Failures
// of any kind are logged and produce an empty list, so callers can always
// render a map.
func (f *Fetcher) Fetch(ctx context.Context, center geo.Coordinate, radius int) []PointOfInterest {
	if err := center.Validate(); err != nil {
		f.log.WithContext(ctx).Warn("skipping POI fetch for invalid center", "error", err)
		return []PointOfInterest{}
	}
	radius = f.ClampRadius(radius)

	body, err := f.query(ctx, BuildQuery(center, radius))
	if err != nil {
		f.log.UpstreamError(overpassService, "fetch", err)
		return []PointOfInterest{}
	}

	pois, err := ParseElements(body, center)
	if err != nil {
		f.log.UpstreamError(overpassService, "parse", err)
		return []PointOfInterest{}
	}
	return pois
}

// BuildQuery renders the Overpass QL for amenities around center.
func BuildQuery(center geo.Coordinate, radius int) string {
	around := fmt.Sprintf("(around:%d,%s,%s)",
		radius,
		strconv.FormatFloat(center.Latitude, 'f', -1, 64),
		strconv.FormatFloat(center.Longitude, 'f', -1, 64),
	)

	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, kind := range []string{"node", "way", "relation"} {
		b.WriteString("  " + kind + `["amenity"]` + around + ";\n")
	}
	b.WriteString(");\nout center;\n")
	return b.String()
}

// ParseElements extracts POIs from an Overpass JSON answer. Elements without
// a name or without a usable coordinate are dropped.
func ParseElements(body []byte, center geo.Coordinate) ([]PointOfInterest, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid overpass payload")
	}

	pois := make([]PointOfInterest, 0)
	gjson.GetBytes(body, "elements").ForEach(func(_, el gjson.Result) bool {
		name := strings.TrimSpace(el.Get("tags.name").String())
		if name == "" {
			return true
		}

		coord, ok := elementCoordinate(el)
		if !ok {
			return true
		}

		category := strings.TrimSpace(el.Get("tags.amenity").String())
		if category == "" {
			category = unknownCategory
		}

		pois = append(pois, PointOfInterest{
			Category:   category,
			Name:       name,
			Coordinate: coord,
			DistanceKm: geo.DistanceKm(center, coord),
		})
		return true
	})
	return pois, nil
}

// elementCoordinate reads lat/lon for nodes and center.lat/center.lon for ways
// and relations.
func elementCoordinate(el gjson.Result) (geo.Coordinate, bool) {
	lat, lon := el.Get("lat"), el.Get("lon")
	if !lat.Exists() || !lon.Exists() {
		lat, lon = el.Get("center.lat"), el.Get("center.lon")
	}
	if lat.Type != gjson.Number || lon.Type != gjson.Number {
		return geo.Coordinate{}, false
	}

	coord := geo.Coordinate{Latitude: lat.Float(), Longitude: lon.Float()}
	if coord.Validate() != nil {
		return geo.Coordinate{}, false
	}
	return coord, true
}

func (f *Fetcher) query(ctx context.Context, ql string) ([]byte, error) {
	form := url.Values{}
	form.Set("data", ql)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read overpass payload: %w", err)
	}
	return body, nil
}
