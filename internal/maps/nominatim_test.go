package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"geolocation_backend/internal/geo"
	"geolocation_backend/platform/logger"
)

type stubGeocoderConfig struct {
	url string
}

func (s stubGeocoderConfig) GetNominatimURL() string            { return s.url }
func (s stubGeocoderConfig) GetUserAgent() string               { return "geolocation-backend-test/1.0" }
func (s stubGeocoderConfig) GetUpstreamTimeout() time.Duration  { return 2 * time.Second }
func (s stubGeocoderConfig) GetNominatimRatePerSecond() float64 { return 1000 }

func newNominatimServer(t *testing.T, handler http.HandlerFunc) *NominatimClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewNominatimClient(stubGeocoderConfig{url: srv.URL + "/"}, logger.Discard())
}

func TestNominatimSearchParsesFirstHit(t *testing.T) {
	client := newNominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("expected /search, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("format") != "jsonv2" || r.URL.Query().Get("limit") != "1" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if r.Header.Get("User-Agent") != "geolocation-backend-test/1.0" {
			t.Errorf("missing user agent, got %q", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte(`[{"display_name":"Tour Eiffel, Paris","lat":"48.8582599","lon":"2.2945006","address":{"road":"Avenue Gustave Eiffel","city":"Paris"}}]`))
	})

	places, err := client.Search(context.Background(), "Eiffel Tower", 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(places) != 1 {
		t.Fatalf("expected 1 place, got %d", len(places))
	}
	want := geo.Coordinate{Latitude: 48.8582599, Longitude: 2.2945006}
	if places[0].Coordinate != want {
		t.Fatalf("expected %+v, got %+v", want, places[0].Coordinate)
	}
	if places[0].Address.City != "Paris" {
		t.Fatalf("expected city Paris, got %q", places[0].Address.City)
	}
}

func TestNominatimSearchEmpty(t *testing.T) {
	client := newNominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	places, err := client.Search(context.Background(), "nowhere at all", 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(places) != 0 {
		t.Fatalf("expected no places, got %d", len(places))
	}
}

func TestNominatimSearchRejectsBadStatusAndPayload(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) }},
		{"payload", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`<html>`)) }},
		{"coordinate", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"display_name":"x","lat":"123","lon":"0"}]`))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newNominatimServer(t, tc.handler)
			if _, err := client.Search(context.Background(), "x", 1); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNominatimSearchSkipsUnusableHits(t *testing.T) {
	client := newNominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"display_name":"Broken","lat":"not-a-number","lon":"0"},
			{"display_name":"Tour Eiffel, Paris","lat":"48.8582599","lon":"2.2945006"},
			{"display_name":"Off the globe","lat":"123","lon":"0"}
		]`))
	})

	places, err := client.Search(context.Background(), "Eiffel", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(places) != 1 || places[0].DisplayName != "Tour Eiffel, Paris" {
		t.Fatalf("expected only the usable hit, got %+v", places)
	}
}

func TestNominatimReverse(t *testing.T) {
	client := newNominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("expected /reverse, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("lat") != "48.8584" || r.URL.Query().Get("lon") != "2.2945" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"display_name":"Tour Eiffel, Paris, France","lat":"48.85826","lon":"2.29450"}`))
	})

	place, err := client.Reverse(context.Background(), geo.Coordinate{Latitude: 48.8584, Longitude: 2.2945})
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if place == nil || place.DisplayName != "Tour Eiffel, Paris, France" {
		t.Fatalf("unexpected place %+v", place)
	}
}

func TestNominatimReverseNotFound(t *testing.T) {
	client := newNominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	})

	place, err := client.Reverse(context.Background(), geo.Coordinate{Latitude: 0, Longitude: -160})
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if place != nil {
		t.Fatalf("expected nil place, got %+v", place)
	}
}

func TestNominatimHonoursContext(t *testing.T) {
	client := newNominatimServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Search(ctx, "x", 1); err == nil {
		t.Fatal("expected cancelled context to fail")
	}
}
