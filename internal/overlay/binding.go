package overlay

import (
	"github.com/Zachdehooge/weather-map/internal/config"
	"github.com/Zachdehooge/weather-map/internal/timesteps"
)

type Direction int

const (
	Previous Direction = iota
	Next
)

func (d Direction) String() string {
	if d == Next {
		return "next"
	}
	return "previous"
}

// Orientation records how a sequence is ordered, which decides the index
// direction of a Next click.
type Orientation int

const (
	// NewestFirst: index 0 is the most recent frame. Next decreases the index.
	NewestFirst Orientation = iota
	// OldestFirst: index 0 is the earliest frame. Next increases the index.
	OldestFirst
)

func ParseOrientation(s string) Orientation {
	if s == config.OldestFirst {
		return OldestFirst
	}
	return NewestFirst
}

// Params is a re-render request for the overlay's tile renderer.
type Params struct {
	Time string `json:"time"`
}

// Renderer re-requests overlay imagery for new parameters.
type Renderer interface {
	SetParams(p Params)
}

// Binding ties one overlay to its time sequence and current index.
type Binding struct {
	id          string
	steps       timesteps.Sequence
	index       int
	orientation Orientation
	renderer    Renderer
}

func NewBinding(id string, steps timesteps.Sequence, orientation Orientation, renderer Renderer) *Binding {
	return &Binding{
		id:          id,
		steps:       steps,
		orientation: orientation,
		renderer:    renderer,
	}
}

func (b *Binding) ID() string                { return b.id }
func (b *Binding) Steps() timesteps.Sequence { return b.steps }
func (b *Binding) Navigable() bool           { return b.steps.Len() > 0 }

// Index is meaningless when the sequence is empty.
func (b *Binding) Index() int { return b.index }

// Current returns the timestamp at the current index.
func (b *Binding) Current() (string, bool) {
	return b.steps.At(b.index)
}

// Advance moves one step in dir. Steps past either end of the sequence, and
// any step on an empty sequence, are ignored and report false.
func (b *Binding) Advance(dir Direction) bool {
	if !b.Navigable() {
		return false
	}

	delta := 1
	if (dir == Next) == (b.orientation == NewestFirst) {
		delta = -1
	}

	next := b.index + delta
	ts, ok := b.steps.At(next)
	if !ok {
		return false
	}

	b.index = next
	if b.renderer != nil {
		b.renderer.SetParams(Params{Time: ts})
	}
	return true
}
