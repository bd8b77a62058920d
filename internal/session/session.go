// Package session holds one independent map view per viewer: its layer
// switcher, overlay bindings, navigation controller and visibility
// coordinator, plus the recorded state of the affordances they drive.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/Zachdehooge/weather-map/internal/config"
	"github.com/Zachdehooge/weather-map/internal/layerswitch"
	"github.com/Zachdehooge/weather-map/internal/metrics"
	"github.com/Zachdehooge/weather-map/internal/navigation"
	"github.com/Zachdehooge/weather-map/internal/overlay"
	"github.com/Zachdehooge/weather-map/internal/startup"
	"github.com/Zachdehooge/weather-map/internal/visibility"
	"github.com/google/uuid"
)

type barState struct {
	visible bool
	label   string
}

func (b *barState) Show()             { b.visible = true }
func (b *barState) Hide()             { b.visible = false }
func (b *barState) SetLabel(s string) { b.label = s }

type legendState struct{ visible bool }

func (l *legendState) Show() { l.visible = true }
func (l *legendState) Hide() { l.visible = false }

// paramsState keeps the last re-render request so the browser can apply it.
type paramsState struct{ params overlay.Params }

func (p *paramsState) SetParams(params overlay.Params) { p.params = params }

// ErrUnknownOverlay is returned for layer toggles naming no catalog overlay.
var ErrUnknownOverlay = errors.New("unknown overlay")

// Session is safe for concurrent use; every operation is serialized.
type Session struct {
	mu sync.Mutex

	id       string
	lastSeen time.Time

	switcher    *layerswitch.Switcher
	controller  *navigation.Controller
	coordinator *visibility.Coordinator
	bindings    map[string]*overlay.Binding
	order       []string
	known       map[string]bool

	bar     *barState
	legends map[string]*legendState
	params  map[string]*paramsState

	metrics *metrics.NavigationMetrics
}

// New builds a session over the shared, read-only sequences in snap.
func New(snap *startup.Snapshot, catalog *config.Catalog, m *metrics.NavigationMetrics) *Session {
	s := &Session{
		id:       uuid.NewString(),
		switcher: layerswitch.New(),
		bindings: make(map[string]*overlay.Binding),
		known:    make(map[string]bool),
		bar:      &barState{},
		legends:  make(map[string]*legendState),
		params:   make(map[string]*paramsState),
		metrics:  m,
	}

	var entries []navigation.Entry
	for _, o := range catalog.Navigable() {
		p := &paramsState{}
		b := overlay.NewBinding(o.Name, snap.StepsFor(o.Name), overlay.ParseOrientation(o.Orientation), p)
		if ts, ok := b.Current(); ok {
			p.params = overlay.Params{Time: ts}
		}

		s.params[o.Name] = p
		s.bindings[o.Name] = b
		s.order = append(s.order, o.Name)
		entries = append(entries, navigation.Entry{Name: o.Name, Title: o.Title, Binding: b})
	}

	legends := make(map[string]visibility.Legend)
	for _, o := range catalog.Overlays {
		s.known[o.Name] = true
		if o.HasLegend() {
			l := &legendState{}
			s.legends[o.Name] = l
			legends[o.Name] = l
		}
	}

	var opts []navigation.Option
	if m != nil {
		opts = append(opts, navigation.WithStepFunc(func(name string, dir overlay.Direction, moved bool) {
			outcome := "moved"
			if !moved {
				outcome = "clamped"
			}
			m.Steps.WithLabelValues(name, dir.String(), outcome).Inc()
		}))
	}

	s.controller = navigation.New(s.bar, s.switcher, entries, opts...)
	s.coordinator = visibility.New(s.switcher, s.controller, legends)
	return s
}

func (s *Session) ID() string { return s.id }

// EnableOverlay marks a catalog overlay as shown on the map.
func (s *Session) EnableOverlay(name string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.known[name] {
		return View{}, ErrUnknownOverlay
	}
	s.countToggle(name, layerswitch.Enabled)
	s.switcher.Enable(name)
	return s.view(), nil
}

func (s *Session) DisableOverlay(name string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.known[name] {
		return View{}, ErrUnknownOverlay
	}
	s.countToggle(name, layerswitch.Disabled)
	s.switcher.Disable(name)
	return s.view(), nil
}

func (s *Session) Previous() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.controller.Previous()
	return s.view()
}

func (s *Session) Next() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.controller.Next()
	return s.view()
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Close detaches the coordinator from the switcher.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coordinator.Close()
}

func (s *Session) countToggle(name string, kind layerswitch.EventKind) {
	if s.metrics == nil {
		return
	}
	if (kind == layerswitch.Enabled) == s.switcher.IsActive(name) {
		return
	}
	s.metrics.Toggles.WithLabelValues(name, kind.String()).Inc()
}

// View is what the browser needs to redraw its affordances.
type View struct {
	ID         string                 `json:"id"`
	Navigation NavigationView         `json:"navigation"`
	Legends    map[string]bool        `json:"legends"`
	Active     []string               `json:"active"`
	Overlays   map[string]OverlayView `json:"overlays"`
}

type NavigationView struct {
	State   string `json:"state"`
	Visible bool   `json:"visible"`
	Label   string `json:"label"`
}

// OverlayView carries the overlay's current re-render params. Time is empty
// when the overlay has no time steps and renders its default frame.
type OverlayView struct {
	Time  string `json:"time,omitempty"`
	Index int    `json:"index"`
	Steps int    `json:"steps"`
}

func (s *Session) view() View {
	v := View{
		ID: s.id,
		Navigation: NavigationView{
			State:   s.controller.State().String(),
			Visible: s.bar.visible,
			Label:   s.bar.label,
		},
		Legends:  make(map[string]bool, len(s.legends)),
		Active:   s.switcher.Active(),
		Overlays: make(map[string]OverlayView, len(s.bindings)),
	}
	for name, l := range s.legends {
		v.Legends[name] = l.visible
	}
	for _, name := range s.order {
		b := s.bindings[name]
		v.Overlays[name] = OverlayView{
			Time:  s.params[name].params.Time,
			Index: b.Index(),
			Steps: b.Steps().Len(),
		}
	}
	return v
}
