// Package visibility reacts to layer toggles by showing or hiding the
// navigation bar and the overlay legends.
package visibility

import (
	"github.com/Zachdehooge/weather-map/internal/layerswitch"
)

// Navigator is the part of the navigation controller the coordinator drives.
type Navigator interface {
	Handles(name string) bool
	OverlayEnabled(name string)
	OverlayDisabled(name string)
}

// Legend is a title-and-image block shown while its overlay is on the map.
type Legend interface {
	Show()
	Hide()
}

type Subscriber interface {
	Subscribe(h layerswitch.Handler) (unsubscribe func())
}

type Coordinator struct {
	nav         Navigator
	legends     map[string]Legend
	unsubscribe func()
}

// New subscribes a coordinator to toggle events from sub. legends is keyed by
// overlay display name.
func New(sub Subscriber, nav Navigator, legends map[string]Legend) *Coordinator {
	c := &Coordinator{nav: nav, legends: legends}
	c.unsubscribe = sub.Subscribe(c.handle)
	return c
}

func (c *Coordinator) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Coordinator) handle(e layerswitch.Event) {
	legend, hasLegend := c.legends[e.Name]

	switch e.Kind {
	case layerswitch.Enabled:
		if hasLegend {
			legend.Show()
		}
		if c.nav.Handles(e.Name) {
			c.nav.OverlayEnabled(e.Name)
		}
	case layerswitch.Disabled:
		if hasLegend {
			legend.Hide()
		}
		if c.nav.Handles(e.Name) {
			c.nav.OverlayDisabled(e.Name)
		}
	}
}
