package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	KindWMS      = "wms"
	KindVelocity = "velocity"

	NewestFirst = "newest_first"
	OldestFirst = "oldest_first"
)

// Catalog describes the base maps and overlays offered by the layer switcher.
type Catalog struct {
	BaseMaps []BaseMap `yaml:"base_maps"`
	Overlays []Overlay `yaml:"overlays"`
}

type BaseMap struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Attribution string `yaml:"attribution"`
	Default     bool   `yaml:"default"`
}

// Overlay is one togglable layer. Name is the display name carried by layer
// toggle events. A WMS overlay with a Title takes part in time navigation.
type Overlay struct {
	Name        string  `yaml:"name"`
	Kind        string  `yaml:"kind"`
	WMSURL      string  `yaml:"wms_url"`
	Layer       string  `yaml:"layer"`
	LegendURL   string  `yaml:"legend_url"`
	Opacity     float64 `yaml:"opacity"`
	Orientation string  `yaml:"orientation"`
	Title       string  `yaml:"title"`

	VelocityType  string  `yaml:"velocity_type"`
	MaxVelocity   float64 `yaml:"max_velocity"`
	VelocityScale float64 `yaml:"velocity_scale"`
}

func (o Overlay) Navigable() bool {
	return o.Kind == KindWMS && o.Title != ""
}

func (o Overlay) HasLegend() bool {
	return o.Kind == KindWMS && o.LegendURL != ""
}

// Navigable returns the navigable overlays in catalog order. The first one
// active on the map wins the navigation label.
func (c *Catalog) Navigable() []Overlay {
	var out []Overlay
	for _, o := range c.Overlays {
		if o.Navigable() {
			out = append(out, o)
		}
	}
	return out
}

func (c *Catalog) Velocity() (Overlay, bool) {
	for _, o := range c.Overlays {
		if o.Kind == KindVelocity {
			return o, true
		}
	}
	return Overlay{}, false
}

// LoadCatalog reads a YAML catalog from path, or returns the built-in one when
// path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	for i := range c.Overlays {
		if c.Overlays[i].Kind == KindWMS && c.Overlays[i].Opacity == 0 {
			c.Overlays[i].Opacity = 0.35
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool)
	for _, o := range c.Overlays {
		if o.Name == "" {
			return fmt.Errorf("overlay without name")
		}
		if seen[o.Name] {
			return fmt.Errorf("duplicate overlay %q", o.Name)
		}
		seen[o.Name] = true

		switch o.Kind {
		case KindWMS:
			if o.WMSURL == "" || o.Layer == "" {
				return fmt.Errorf("overlay %q: wms_url and layer are required", o.Name)
			}
			if o.Navigable() && o.Orientation != NewestFirst && o.Orientation != OldestFirst {
				return fmt.Errorf("overlay %q: orientation must be %s or %s", o.Name, NewestFirst, OldestFirst)
			}
		case KindVelocity:
		default:
			return fmt.Errorf("overlay %q: unknown kind %q", o.Name, o.Kind)
		}
	}
	return nil
}

const esriAttribution = `&copy; <a href="http://www.esri.com/">Esri</a>`

// DefaultCatalog reproduces the nowCOAST radar and temperature overlays and the
// NAVGEM wind particles over three base maps.
func DefaultCatalog() *Catalog {
	return &Catalog{
		BaseMaps: []BaseMap{
			{
				Name:        "Esri World Imagery",
				URL:         "http://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
				Attribution: esriAttribution,
			},
			{
				Name:        "Esri World Dark Gray",
				URL:         "http://server.arcgisonline.com/ArcGIS/rest/services/Canvas/World_Dark_Gray_Base/MapServer/tile/{z}/{y}/{x}",
				Attribution: esriAttribution,
				Default:     true,
			},
			{
				Name:        "Open Street Map",
				URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
				Attribution: `&copy; <a href ="http://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
			},
		},
		Overlays: []Overlay{
			{
				Name:          "NAVGEM Wind Particles",
				Kind:          KindVelocity,
				VelocityType:  "NAVGEM 10m winds",
				MaxVelocity:   30.0,
				VelocityScale: 0.005,
			},
			{
				Name:        "MRMMS Radar",
				Kind:        KindWMS,
				WMSURL:      "https://nowcoast.noaa.gov/geoserver/observations/weather_radar/wms?",
				Layer:       "base_reflectivity_mosaic",
				LegendURL:   "https://nowcoast.noaa.gov/geoserver/observations/weather_radar/wms?service=WMS&version=1.3.0&request=GetLegendGraphic&format=image%2Fpng&width=272&height=21&layer=conus_base_reflectivity_mosaic",
				Opacity:     0.35,
				Orientation: NewestFirst,
				Title:       "MRMMS Radar (Current and Past)",
			},
			{
				Name:        "Apparent Temperature",
				Kind:        KindWMS,
				WMSURL:      "https://nowcoast.noaa.gov/geoserver/forecasts/ndfd_temperature/wms?",
				Layer:       "apparent_temperature",
				LegendURL:   "https://nowcoast.noaa.gov/geoserver/forecasts/ndfd_temperature/wms?service=WMS&version=1.3.0&request=GetLegendGraphic&format=image%2Fpng&width=283&height=33&layer=conus_apparent_temperature",
				Opacity:     0.35,
				Orientation: OldestFirst,
				Title:       "Apparent Temperature (Forecast)",
			},
		},
	}
}
