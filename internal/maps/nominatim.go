package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"geolocation_backend/internal/geo"
	"geolocation_backend/platform/config"
	"geolocation_backend/platform/logger"

	"golang.org/x/time/rate"
)

const nominatimService = "nominatim"

// NominatimClient talks to a Nominatim instance. Requests share one limiter so
// the whole process stays within the public usage policy.
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	log       *logger.Logger
}

func NewNominatimClient(cfg config.GeocoderConfig, log *logger.Logger) *NominatimClient {
	return &NominatimClient{
		baseURL:   strings.TrimRight(cfg.GetNominatimURL(), "/"),
		userAgent: cfg.GetUserAgent(),
		client:    &http.Client{Timeout: cfg.GetUpstreamTimeout()},
		limiter:   rate.NewLimiter(rate.Limit(cfg.GetNominatimRatePerSecond()), 1),
		log:       log,
	}
}

// Search returns up to limit places matching query, best match first. Hits
// with unusable coordinates are dropped; if every hit is unusable the first
// problem is returned.
func (c *NominatimClient) Search(ctx context.Context, query string, limit int) ([]Place, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("format", "jsonv2")
	params.Add("addressdetails", "1")
	params.Add("limit", strconv.Itoa(limit))

	var raw []nominatimResponse
	if err := c.get(ctx, "/search", params, &raw); err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(raw))
	var firstErr error
	for _, r := range raw {
		place, err := toPlace(r)
		if err != nil {
			c.log.UpstreamError(nominatimService, "search", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		places = append(places, place)
	}
	if len(places) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return places, nil
}

// Reverse returns the place at coord, or nil when Nominatim has no address.
func (c *NominatimClient) Reverse(ctx context.Context, coord geo.Coordinate) (*Place, error) {
	params := url.Values{}
	params.Add("lat", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	params.Add("lon", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	params.Add("format", "jsonv2")
	params.Add("addressdetails", "1")

	var raw nominatimResponse
	if err := c.get(ctx, "/reverse", params, &raw); err != nil {
		return nil, err
	}
	if raw.Error != "" || raw.DisplayName == "" {
		return nil, nil
	}

	place, err := toPlace(raw)
	if err != nil {
		// The address is what was asked for; fall back to the query point.
		place = Place{DisplayName: raw.DisplayName, Coordinate: coord, Address: raw.Address}
	}
	return &place, nil
}

func (c *NominatimClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.UpstreamError(nominatimService, path, err)
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("upstream api error: %d", resp.StatusCode)
		c.log.UpstreamError(nominatimService, path, err)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.UpstreamError(nominatimService, path, err)
		return fmt.Errorf("decode nominatim payload: %w", err)
	}
	return nil
}

func toPlace(r nominatimResponse) (Place, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("invalid latitude %q in response", r.Lat)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("invalid longitude %q in response", r.Lon)
	}

	coord := geo.Coordinate{Latitude: lat, Longitude: lon}
	if err := coord.Validate(); err != nil {
		return Place{}, fmt.Errorf("response coordinate: %w", err)
	}
	return Place{DisplayName: r.DisplayName, Coordinate: coord, Address: r.Address}, nil
}
