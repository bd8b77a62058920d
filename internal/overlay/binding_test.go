package overlay

import (
	"math/rand"
	"testing"

	"github.com/Zachdehooge/weather-map/internal/config"
	"github.com/Zachdehooge/weather-map/internal/timesteps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	calls []Params
}

func (r *recordingRenderer) SetParams(p Params) { r.calls = append(r.calls, p) }

func radarSteps() timesteps.Sequence {
	return timesteps.Sequence{"t2", "t1", "t0"}
}

func TestAdvance_NewestFirst(t *testing.T) {
	r := &recordingRenderer{}
	b := NewBinding("radar", radarSteps(), NewestFirst, r)

	assert.False(t, b.Advance(Next), "next at index 0 is a no-op")
	assert.Equal(t, 0, b.Index())
	assert.Empty(t, r.calls)

	assert.True(t, b.Advance(Previous))
	assert.True(t, b.Advance(Previous))
	assert.Equal(t, 2, b.Index())
	assert.False(t, b.Advance(Previous), "previous at the last index is a no-op")
	assert.Equal(t, 2, b.Index())

	assert.True(t, b.Advance(Next))
	assert.Equal(t, 1, b.Index())

	assert.Equal(t, []Params{{Time: "t1"}, {Time: "t0"}, {Time: "t1"}}, r.calls)
}

func TestAdvance_OldestFirst(t *testing.T) {
	r := &recordingRenderer{}
	b := NewBinding("temperature", timesteps.Sequence{"f0", "f1", "f2"}, OldestFirst, r)

	assert.False(t, b.Advance(Previous))
	assert.True(t, b.Advance(Next))
	assert.True(t, b.Advance(Next))
	assert.False(t, b.Advance(Next))
	assert.Equal(t, 2, b.Index())
	assert.True(t, b.Advance(Previous))

	ts, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, "f1", ts)
	assert.Equal(t, []Params{{Time: "f1"}, {Time: "f2"}, {Time: "f1"}}, r.calls)
}

func TestAdvance_EmptySequence(t *testing.T) {
	r := &recordingRenderer{}
	b := NewBinding("radar", timesteps.Sequence{}, NewestFirst, r)

	assert.False(t, b.Navigable())
	assert.False(t, b.Advance(Next))
	assert.False(t, b.Advance(Previous))
	_, ok := b.Current()
	assert.False(t, ok)
	assert.Empty(t, r.calls)
}

func TestAdvance_IndexStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	steps := timesteps.Sequence{"a", "b", "c", "d", "e"}

	for _, o := range []Orientation{NewestFirst, OldestFirst} {
		b := NewBinding("x", steps, o, nil)
		for i := 0; i < 1000; i++ {
			b.Advance(Direction(rng.Intn(2)))
			require.GreaterOrEqual(t, b.Index(), 0)
			require.Less(t, b.Index(), steps.Len())
		}
	}
}

func TestParseOrientation(t *testing.T) {
	assert.Equal(t, OldestFirst, ParseOrientation(config.OldestFirst))
	assert.Equal(t, NewestFirst, ParseOrientation(config.NewestFirst))
	assert.Equal(t, NewestFirst, ParseOrientation(""))
}
