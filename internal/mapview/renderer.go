// Package mapview renders interactive map documents and runs the
// resolve-fetch-render flow behind them.
package mapview

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"geolocation_backend/internal/geo"
	"geolocation_backend/internal/poi"
	"geolocation_backend/platform/config"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const (
	defaultZoom  = 15
	qrCodeSizePx = 256
)

//go:embed templates/map.html.tmpl
var templateFS embed.FS

var mapTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html.tmpl"))

var fileNamePattern = regexp.MustCompile(`^map_[0-9a-f-]{36}\.html$`)

// marker is the JSON shape the page script reads for each POI.
type marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
}

type pageData struct {
	Title   string
	Center  geo.Coordinate
	Zoom    int
	Markers []marker
	QRCode  template.URL
	GeoURI  string
}

// Renderer writes self-contained Leaflet documents into an output directory.
type Renderer struct {
	outputDir string
	zoom      int
}

func NewRenderer(cfg config.MapConfig) *Renderer {
	zoom := cfg.GetMapZoom()
	if zoom <= 0 {
		zoom = defaultZoom
	}
	return &Renderer{outputDir: cfg.GetMapOutputDir(), zoom: zoom}
}

// Render writes a document for center and pois under a fresh unique name and
// returns its absolute path.
func (r *Renderer) Render(center geo.Coordinate, pois []poi.PointOfInterest) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, center, pois); err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create map output dir: %w", err)
	}

	path := filepath.Join(r.outputDir, "map_"+uuid.NewString()+".html")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write map document: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return abs, nil
}

// RenderTo writes the document to w.
func (r *Renderer) RenderTo(w io.Writer, center geo.Coordinate, pois []poi.PointOfInterest) error {
	if err := center.Validate(); err != nil {
		return err
	}

	markers := make([]marker, 0, len(pois))
	for _, p := range pois {
		if p.Coordinate.Validate() != nil {
			continue
		}
		markers = append(markers, marker{
			Lat:   p.Coordinate.Latitude,
			Lon:   p.Coordinate.Longitude,
			Label: fmt.Sprintf("%s (%s)", p.Name, p.Category),
		})
	}

	data := pageData{
		Title:   "Map of " + center.String(),
		Center:  center,
		Zoom:    r.zoom,
		Markers: markers,
		GeoURI:  center.GeoURI(),
	}

	png, err := qrcode.Encode(center.GeoURI(), qrcode.Medium, qrCodeSizePx)
	if err != nil {
		return fmt.Errorf("encode qr code: %w", err)
	}
	data.QRCode = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))

	if err := mapTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render map template: %w", err)
	}
	return nil
}

// Prune deletes rendered documents last modified before cutoff and reports
// how many were removed. Files not produced by Render are left alone.
func (r *Renderer) Prune(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(r.outputDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !fileNamePattern.MatchString(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(r.outputDir, entry.Name())); err != nil && !os.IsNotExist(err) {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}

// Lookup maps a public file name back to a rendered document. Names that were
// not produced by Render are rejected so the route cannot escape outputDir.
func (r *Renderer) Lookup(name string) (string, bool) {
	if filepath.Base(name) != name || !fileNamePattern.MatchString(name) {
		return "", false
	}
	path := filepath.Join(r.outputDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}
