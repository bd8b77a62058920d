package visibility

import (
	"testing"

	"github.com/Zachdehooge/weather-map/internal/layerswitch"
	"github.com/Zachdehooge/weather-map/internal/navigation"
	"github.com/Zachdehooge/weather-map/internal/overlay"
	"github.com/Zachdehooge/weather-map/internal/timesteps"
	"github.com/stretchr/testify/assert"
)

type fakeBar struct {
	visible bool
	label   string
}

func (b *fakeBar) Show()             { b.visible = true }
func (b *fakeBar) Hide()             { b.visible = false }
func (b *fakeBar) SetLabel(s string) { b.label = s }

type fakeLegend struct{ visible bool }

func (l *fakeLegend) Show() { l.visible = true }
func (l *fakeLegend) Hide() { l.visible = false }

func setup(t *testing.T, radarSteps timesteps.Sequence) (*layerswitch.Switcher, *navigation.Controller, *fakeBar, *fakeLegend, *Coordinator) {
	t.Helper()
	sw := layerswitch.New()
	bar := &fakeBar{}
	ctrl := navigation.New(bar, sw, []navigation.Entry{{
		Name:    "MRMMS Radar",
		Title:   "MRMMS Radar (Current and Past)",
		Binding: overlay.NewBinding("MRMMS Radar", radarSteps, overlay.NewestFirst, nil),
	}})
	legend := &fakeLegend{}
	coord := New(sw, ctrl, map[string]Legend{"MRMMS Radar": legend})
	return sw, ctrl, bar, legend, coord
}

func TestCoordinator_NavigableToggle(t *testing.T) {
	sw, ctrl, bar, legend, _ := setup(t, timesteps.Sequence{"2024-01-01T00:00:00.000Z"})

	sw.Enable("MRMMS Radar")
	assert.Equal(t, navigation.Visible, ctrl.State())
	assert.True(t, bar.visible)
	assert.Equal(t, "MRMMS Radar (Current and Past): 2024-01-01T00:00:00Z", bar.label)
	assert.True(t, legend.visible)

	sw.Disable("MRMMS Radar")
	assert.Equal(t, navigation.Hidden, ctrl.State())
	assert.False(t, bar.visible)
	assert.False(t, legend.visible)
}

func TestCoordinator_IgnoresNonNavigable(t *testing.T) {
	sw, ctrl, bar, legend, _ := setup(t, timesteps.Sequence{"a"})

	sw.Enable("NAVGEM Wind Particles")

	assert.Equal(t, navigation.Hidden, ctrl.State())
	assert.False(t, bar.visible)
	assert.False(t, legend.visible)
}

func TestCoordinator_LegendWithoutTimeSteps(t *testing.T) {
	sw, ctrl, bar, legend, _ := setup(t, timesteps.Sequence{})

	sw.Enable("MRMMS Radar")

	assert.True(t, legend.visible, "legend still follows the overlay")
	assert.Equal(t, navigation.Hidden, ctrl.State())
	assert.False(t, bar.visible)
}

func TestCoordinator_Close(t *testing.T) {
	sw, ctrl, _, legend, coord := setup(t, timesteps.Sequence{"a"})

	coord.Close()
	coord.Close()
	sw.Enable("MRMMS Radar")

	assert.Equal(t, navigation.Hidden, ctrl.State())
	assert.False(t, legend.visible)
}
