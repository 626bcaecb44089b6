package maps

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"geolocation_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func newTestHandlerEngine() (*gin.Engine, *fakeGeocoder, *memoryRecorder) {
	svc, geocoder, recorder := newTestService(nil)
	h := NewHandler(svc, validator.New())

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/geocode", h.Geocode)
	engine.GET("/geocode/suggest", h.Suggest)
	engine.GET("/reverse", h.Reverse)
	engine.GET("/distance", h.Distance)
	return engine, geocoder, recorder
}

func serve(engine *gin.Engine, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGeocodeHandler(t *testing.T) {
	engine, _, _ := newTestHandlerEngine()

	rec := serve(engine, "/geocode?q=Eiffel+Tower")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := `{"query":"Eiffel Tower","coordinate":{"latitude":48.8584,"longitude":2.2945}}`
	if rec.Body.String() != want {
		t.Fatalf("expected %s, got %s", want, rec.Body.String())
	}
}

func TestGeocodeHandlerStatusMapping(t *testing.T) {
	engine, geocoder, _ := newTestHandlerEngine()

	if rec := serve(engine, "/geocode"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without q, got %d", rec.Code)
	}
	if rec := serve(engine, "/geocode?q=Atlantis"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	geocoder.err = http.ErrHandlerTimeout
	rec := serve(engine, "/geocode?q=Eiffel+Tower")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "geocoding error") {
		t.Fatalf("expected geocoding error message, got %s", rec.Body.String())
	}
}

func TestReverseHandlerAcceptsBothForms(t *testing.T) {
	engine, _, recorder := newTestHandlerEngine()

	for _, target := range []string{"/reverse?q=48.8584,2.2945", "/reverse?lat=48.8584&lon=2.2945"} {
		rec := serve(engine, target)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", target, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "Tour Eiffel") {
			t.Fatalf("%s: expected address, got %s", target, rec.Body.String())
		}
	}
	if len(recorder.records) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(recorder.records))
	}
}

func TestReverseHandlerRejectsBadInput(t *testing.T) {
	engine, _, _ := newTestHandlerEngine()

	for _, target := range []string{"/reverse", "/reverse?q=north", "/reverse?lat=95&lon=0", "/reverse?lat=10"} {
		if rec := serve(engine, target); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestDistanceHandler(t *testing.T) {
	engine, _, _ := newTestHandlerEngine()

	rec := serve(engine, "/distance?from=Eiffel+Tower&to=51.5007,-0.1246")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"kilometers":`) {
		t.Fatalf("expected kilometers in body, got %s", rec.Body.String())
	}

	if rec := serve(engine, "/distance?from=Eiffel+Tower&to=Atlantis"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSuggestHandler(t *testing.T) {
	engine, _, recorder := newTestHandlerEngine()

	rec := serve(engine, "/geocode/suggest?q=Big+Ben")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"label":"Big Ben"`) {
		t.Fatalf("expected suggestion, got %s", rec.Body.String())
	}
	if len(recorder.records) != 0 {
		t.Fatal("suggestions must not be recorded")
	}
}
