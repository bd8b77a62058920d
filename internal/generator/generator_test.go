package generator

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Zachdehooge/weather-map/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, NewPageData(config.DefaultCatalog(), "http://localhost:8080"))
	require.NoError(t, err)

	page := buf.String()
	assert.Contains(t, page, `const apiBase = "http://localhost:8080";`)
	assert.Contains(t, page, `L.map('map').setView([38.2858,-96.78682],`)
	assert.Contains(t, page, `"Name":"MRMMS Radar"`)
	assert.Contains(t, page, `"Layer":"apparent_temperature"`)
	assert.Contains(t, page, `"Name":"Esri World Dark Gray"`)
	assert.Contains(t, page, "leaflet.draw.js")
	assert.Contains(t, page, "leaflet-velocity.min.js")
}

func TestRender_RenewsExpiredSessions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, NewPageData(config.DefaultCatalog(), "")))
	page := buf.String()

	assert.Contains(t, page, `error.body.error !== 'session not found'`)
	assert.Contains(t, page, `if (map.hasLayer(layer)) await api('PUT', sessionPath(layerPath(name)));`)
	assert.Contains(t, page, `map.on('overlayadd', e => onSessionEvent('PUT', layerPath(e.name)));`)
	assert.NotContains(t, page, `async e => applyView(await api(`, "listeners must not leak rejections")
}

func TestRender_EscapesAPIBase(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, NewPageData(config.DefaultCatalog(), `</script><script>alert(1)`))
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), `</script><script>alert(1)`)
}

func TestGenerateMapHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.html")

	require.NoError(t, GenerateMapHTML(NewPageData(config.DefaultCatalog(), ""), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>Weather Map</title>")

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
