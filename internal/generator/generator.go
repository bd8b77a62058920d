package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/Zachdehooge/weather-map/internal/config"
	"github.com/natefinch/atomic"
)

// PageData is what the map template is rendered with.
type PageData struct {
	Title       string
	APIBase     string
	Center      [2]float64
	Zoom        int
	BaseMaps    []config.BaseMap
	Overlays    []config.Overlay
	GeneratedAt string
}

// NewPageData centres the map on the continental US.
func NewPageData(catalog *config.Catalog, apiBase string) PageData {
	return PageData{
		Title:       "Weather Map",
		APIBase:     apiBase,
		Center:      [2]float64{38.2858, -96.78682},
		Zoom:        5,
		BaseMaps:    catalog.BaseMaps,
		Overlays:    catalog.Overlays,
		GeneratedAt: time.Now().UTC().Format("Jan 2, 2006 at 15:04 UTC"),
	}
}

var pageTemplate = template.Must(template.New("map").Funcs(template.FuncMap{
	"toJSON": toJSON,
}).Parse(mapTemplate))

// Render writes the map page to w.
func Render(w io.Writer, data PageData) error {
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render map page: %w", err)
	}
	return nil
}

// GenerateMapHTML renders the page and replaces outputPath atomically so a
// browser never reads a partial file.
func GenerateMapHTML(data PageData, outputPath string) error {
	var buf bytes.Buffer
	if err := Render(&buf, data); err != nil {
		return err
	}
	if err := atomic.WriteFile(outputPath, &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return nil
}

func toJSON(v interface{}) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}
