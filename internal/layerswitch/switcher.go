// Package layerswitch tracks which overlays are enabled on a map and notifies
// subscribers when one is toggled.
package layerswitch

import "sort"

type EventKind int

const (
	Enabled EventKind = iota
	Disabled
)

func (k EventKind) String() string {
	if k == Disabled {
		return "disabled"
	}
	return "enabled"
}

// Event carries the display name of the toggled overlay.
type Event struct {
	Kind EventKind
	Name string
}

type Handler func(Event)

// Switcher owns the active overlay set. It is not safe for concurrent use;
// callers serialize access the way a UI event loop would.
type Switcher struct {
	active   map[string]bool
	handlers map[int]Handler
	nextID   int
}

func New() *Switcher {
	return &Switcher{
		active:   make(map[string]bool),
		handlers: make(map[int]Handler),
	}
}

// Subscribe registers h for toggle events and returns a function that removes
// it again.
func (s *Switcher) Subscribe(h Handler) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.handlers[id] = h
	return func() { delete(s.handlers, id) }
}

// Enable marks name active. Enabling an active overlay emits nothing.
func (s *Switcher) Enable(name string) {
	if s.active[name] {
		return
	}
	s.active[name] = true
	s.emit(Event{Kind: Enabled, Name: name})
}

// Disable marks name inactive. Disabling an inactive overlay emits nothing.
func (s *Switcher) Disable(name string) {
	if !s.active[name] {
		return
	}
	delete(s.active, name)
	s.emit(Event{Kind: Disabled, Name: name})
}

func (s *Switcher) IsActive(name string) bool {
	return s.active[name]
}

// Active returns the enabled overlay names, sorted.
func (s *Switcher) Active() []string {
	names := make([]string, 0, len(s.active))
	for name := range s.active {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// handlers run in subscription order
func (s *Switcher) emit(e Event) {
	ids := make([]int, 0, len(s.handlers))
	for id := range s.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if h, ok := s.handlers[id]; ok {
			h(e)
		}
	}
}
