// Package navigation steps the active time-enabled overlays backwards and
// forwards and keeps the navigation bar's label in sync.
package navigation

import (
	"strings"

	"github.com/Zachdehooge/weather-map/internal/overlay"
)

type State int

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

// Bar is the previous/next affordance with its time slice label.
type Bar interface {
	Show()
	Hide()
	SetLabel(text string)
}

// ActiveSet reports whether an overlay is currently enabled on the map.
type ActiveSet interface {
	IsActive(name string) bool
}

// Entry is one navigable overlay. Name matches the layer switcher's display
// name and Title prefixes the label.
type Entry struct {
	Name    string
	Title   string
	Binding *overlay.Binding
}

// StepFunc is told about every attempted step, moved or not.
type StepFunc func(name string, dir overlay.Direction, moved bool)

type Controller struct {
	bar     Bar
	active  ActiveSet
	entries []Entry
	state   State
	onStep  StepFunc
}

type Option func(*Controller)

func WithStepFunc(f StepFunc) Option {
	return func(c *Controller) { c.onStep = f }
}

// New returns a Hidden controller. Entry order decides label priority.
func New(bar Bar, active ActiveSet, entries []Entry, opts ...Option) *Controller {
	c := &Controller{
		bar:     bar,
		active:  active,
		entries: entries,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.bar.Hide()
	return c
}

func (c *Controller) State() State { return c.state }

// Handles reports whether name is one of the controller's overlays.
func (c *Controller) Handles(name string) bool {
	_, ok := c.entry(name)
	return ok
}

// OverlayEnabled shows the bar when name can be navigated. An overlay whose
// sequence is empty never makes the bar visible.
func (c *Controller) OverlayEnabled(name string) {
	e, ok := c.entry(name)
	if !ok {
		return
	}
	if e.Binding.Navigable() {
		c.state = Visible
		c.bar.Show()
	}
	c.Refresh()
}

// OverlayDisabled hides the bar.
func (c *Controller) OverlayDisabled(name string) {
	if !c.Handles(name) {
		return
	}
	c.state = Hidden
	c.bar.Hide()
	c.Refresh()
}

func (c *Controller) Previous() bool { return c.step(overlay.Previous) }
func (c *Controller) Next() bool     { return c.step(overlay.Next) }

// step advances every active overlay independently. Clicks while Hidden are
// ignored.
func (c *Controller) step(dir overlay.Direction) bool {
	if c.state != Visible {
		return false
	}

	moved := false
	for _, e := range c.entries {
		if !c.active.IsActive(e.Name) {
			continue
		}
		ok := e.Binding.Advance(dir)
		if c.onStep != nil {
			c.onStep(e.Name, dir, ok)
		}
		moved = moved || ok
	}

	if moved {
		c.Refresh()
	}
	return moved
}

// Refresh rewrites the label from the first active, navigable overlay.
func (c *Controller) Refresh() {
	c.bar.SetLabel(c.Label())
}

func (c *Controller) Label() string {
	for _, e := range c.entries {
		if !c.active.IsActive(e.Name) {
			continue
		}
		ts, ok := e.Binding.Current()
		if !ok {
			continue
		}
		return e.Title + ": " + NormalizeTimestamp(ts)
	}
	return ""
}

// NormalizeTimestamp drops zero milliseconds: 2024-01-01T00:00:00.000Z becomes
// 2024-01-01T00:00:00Z.
func NormalizeTimestamp(ts string) string {
	return strings.Replace(ts, ".000Z", "Z", 1)
}

func (c *Controller) entry(name string) (Entry, bool) {
	for _, e := range c.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
