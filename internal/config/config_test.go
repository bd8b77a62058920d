package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 0, cfg.FetchRetries)
	assert.Equal(t, "ncep_global", cfg.WindDataset)
	assert.Equal(t, 1000, cfg.MaxSessions)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("FETCH_RETRIES", "2")
	t.Setenv("SESSION_IDLE_TTL", "1h")
	t.Setenv("CORS_ORIGINS", "null http://localhost:3000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 2, cfg.FetchRetries)
	assert.Equal(t, time.Hour, cfg.SessionIdleTTL)
	assert.Equal(t, []string{"null", "http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"negative retries", "FETCH_RETRIES", "-1", "FETCH_RETRIES must not be negative"},
		{"zero stride", "WIND_STRIDE", "0", "WIND_STRIDE must be at least 1"},
		{"zero sessions", "MAX_SESSIONS", "0", "MAX_SESSIONS must be at least 1, got 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.validate())

	nav := c.Navigable()
	require.Len(t, nav, 2)
	assert.Equal(t, "MRMMS Radar", nav[0].Name)
	assert.Equal(t, NewestFirst, nav[0].Orientation)
	assert.Equal(t, "Apparent Temperature", nav[1].Name)
	assert.Equal(t, OldestFirst, nav[1].Orientation)

	wind, ok := c.Velocity()
	require.True(t, ok)
	assert.Equal(t, "NAVGEM Wind Particles", wind.Name)
	assert.False(t, wind.Navigable())
	assert.False(t, wind.HasLegend())
}

func TestParseCatalog(t *testing.T) {
	data := []byte(`
base_maps:
  - name: OSM
    url: https://tile.openstreetmap.org/{z}/{x}/{y}.png
    default: true
overlays:
  - name: Radar
    kind: wms
    wms_url: http://example.test/wms?
    layer: reflectivity
    orientation: newest_first
    title: Radar
`)

	c, err := ParseCatalog(data)
	require.NoError(t, err)

	require.Len(t, c.Overlays, 1)
	assert.Equal(t, 0.35, c.Overlays[0].Opacity)
	assert.True(t, c.Overlays[0].Navigable())
	assert.False(t, c.Overlays[0].HasLegend())
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"duplicate", "overlays:\n  - {name: A, kind: velocity}\n  - {name: A, kind: velocity}\n", `duplicate overlay "A"`},
		{"unknown kind", "overlays:\n  - {name: A, kind: tiles}\n", `overlay "A": unknown kind "tiles"`},
		{"missing layer", "overlays:\n  - {name: A, kind: wms, wms_url: http://x/}\n", `overlay "A": wms_url and layer are required`},
		{"bad orientation", "overlays:\n  - {name: A, kind: wms, wms_url: http://x/, layer: l, title: T, orientation: sideways}\n", `overlay "A": orientation must be newest_first or oldest_first`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("overlays:\n  - {name: Wind, kind: velocity}\n"), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.Overlays, 1)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
