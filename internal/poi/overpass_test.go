package poi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"geolocation_backend/internal/geo"
	"geolocation_backend/platform/logger"
)

type stubOverpassConfig struct {
	url string
}

func (s stubOverpassConfig) GetOverpassURL() string            { return s.url }
func (s stubOverpassConfig) GetUserAgent() string              { return "geolocation-backend-test/1.0" }
func (s stubOverpassConfig) GetUpstreamTimeout() time.Duration { return 2 * time.Second }
func (s stubOverpassConfig) GetDefaultPOIRadius() int          { return 1000 }

const overpassFixture = `{
  "version": 0.6,
  "elements": [
    {"type": "node", "id": 1, "lat": 48.8580, "lon": 2.2940, "tags": {"amenity": "cafe", "name": "Café de l'Homme"}},
    {"type": "way", "id": 2, "center": {"lat": 48.8590, "lon": 2.2950}, "tags": {"amenity": "restaurant", "name": "Le Jules Verne"}},
    {"type": "node", "id": 3, "lat": 48.8581, "lon": 2.2941, "tags": {"amenity": "bench"}},
    {"type": "relation", "id": 4, "tags": {"amenity": "parking", "name": "No Coordinates"}},
    {"type": "node", "id": 5, "lat": 48.8582, "lon": 2.2942, "tags": {"name": "Mystery Spot"}}
  ]
}`

var center = geo.Coordinate{Latitude: 48.8584, Longitude: 2.2945}

func newTestFetcher(t *testing.T, handler http.HandlerFunc) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewFetcher(stubOverpassConfig{url: srv.URL}, logger.Discard())
}

func TestFetchParsesNamedAmenities(t *testing.T) {
	fetcher := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		raw, _ := io.ReadAll(r.Body)
		form, err := url.ParseQuery(string(raw))
		if err != nil {
			t.Errorf("parse form: %v", err)
		}
		if !strings.Contains(form.Get("data"), `(around:500,48.8584,2.2945)`) {
			t.Errorf("unexpected query %q", form.Get("data"))
		}
		_, _ = w.Write([]byte(overpassFixture))
	})

	pois := fetcher.Fetch(context.Background(), center, 500)
	if len(pois) != 3 {
		t.Fatalf("expected 3 POIs, got %d: %+v", len(pois), pois)
	}

	if pois[0].Name != "Café de l'Homme" || pois[0].Category != "cafe" {
		t.Fatalf("unexpected first POI %+v", pois[0])
	}
	if pois[1].Coordinate != (geo.Coordinate{Latitude: 48.8590, Longitude: 2.2950}) {
		t.Fatalf("expected way center coordinate, got %+v", pois[1].Coordinate)
	}
	if pois[2].Category != "unknown" {
		t.Fatalf("expected default category, got %q", pois[2].Category)
	}
	if pois[0].DistanceKm <= 0 || pois[0].DistanceKm > 1 {
		t.Fatalf("expected small positive distance, got %v", pois[0].DistanceKm)
	}
}

func TestFetchEmptyResultIsNotNil(t *testing.T) {
	fetcher := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements": []}`))
	})

	pois := fetcher.Fetch(context.Background(), center, 1000)
	if pois == nil || len(pois) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", pois)
	}
}

func TestFetchFailuresYieldEmptyList(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) }},
		{"payload", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`runtime error: timeout`)) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := newTestFetcher(t, tc.handler)
			pois := fetcher.Fetch(context.Background(), center, 1000)
			if pois == nil || len(pois) != 0 {
				t.Fatalf("expected empty non-nil list, got %#v", pois)
			}
		})
	}
}

func TestFetchUnreachableEndpoint(t *testing.T) {
	fetcher := NewFetcher(stubOverpassConfig{url: "http://127.0.0.1:1/api/interpreter"}, logger.Discard())

	if pois := fetcher.Fetch(context.Background(), center, 1000); pois == nil || len(pois) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", pois)
	}
}

func TestClampRadius(t *testing.T) {
	fetcher := NewFetcher(stubOverpassConfig{}, logger.Discard())

	cases := map[int]int{
		0:      1000,
		-5:     1000,
		250:    250,
		50000:  50000,
		120000: 50000,
	}
	for in, want := range cases {
		if got := fetcher.ClampRadius(in); got != want {
			t.Fatalf("ClampRadius(%d) = %d; want %d", in, got, want)
		}
	}
}

func TestBuildQueryCoversAllElementTypes(t *testing.T) {
	q := BuildQuery(center, 1000)
	for _, fragment := range []string{
		`node["amenity"](around:1000,48.8584,2.2945);`,
		`way["amenity"](around:1000,48.8584,2.2945);`,
		`relation["amenity"](around:1000,48.8584,2.2945);`,
		"out center;",
	} {
		if !strings.Contains(q, fragment) {
			t.Fatalf("expected %q in query:\n%s", fragment, q)
		}
	}
}
