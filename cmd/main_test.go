package main

import (
	"bytes"
	"testing"

	"github.com/Zachdehooge/weather-map/internal/config"
	"github.com/Zachdehooge/weather-map/internal/startup"
	"github.com/Zachdehooge/weather-map/internal/timesteps"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestPrintSteps(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	snap := &startup.Snapshot{
		Steps: map[string]timesteps.Sequence{
			"MRMMS Radar":          {"2024-01-01T01:00:00.000Z", "2024-01-01T00:00:00.000Z"},
			"Apparent Temperature": {},
		},
		Errors: map[string]string{
			"Apparent Temperature":  "unexpected status 503",
			"NAVGEM Wind Particles": "timeout",
		},
	}

	printSteps(cmd, config.DefaultCatalog(), snap)

	got := out.String()
	assert.Contains(t, got, "MRMMS Radar (Current and Past) (2 time steps)")
	assert.Contains(t, got, "    0  2024-01-01T01:00:00Z")
	assert.Contains(t, got, "    1  2024-01-01T00:00:00Z")
	assert.Contains(t, got, "Apparent Temperature (Forecast) (0 time steps)")
	assert.Contains(t, got, "fetch failed: unexpected status 503")
}

func TestSetupFlagOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	port, catalogFile, verbose = "9100", "", true
	t.Cleanup(func() { port, verbose = "", false })

	cfg, catalog, err := setup()

	assert.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Len(t, catalog.Navigable(), 2)
}
