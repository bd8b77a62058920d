package layerswitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwitcher_EnableDisable(t *testing.T) {
	s := New()
	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	s.Enable("MRMMS Radar")
	s.Enable("MRMMS Radar")
	s.Enable("Apparent Temperature")
	s.Disable("MRMMS Radar")
	s.Disable("MRMMS Radar")

	assert.Equal(t, []Event{
		{Kind: Enabled, Name: "MRMMS Radar"},
		{Kind: Enabled, Name: "Apparent Temperature"},
		{Kind: Disabled, Name: "MRMMS Radar"},
	}, events)
	assert.False(t, s.IsActive("MRMMS Radar"))
	assert.True(t, s.IsActive("Apparent Temperature"))
	assert.Equal(t, []string{"Apparent Temperature"}, s.Active())
}

func TestSwitcher_Unsubscribe(t *testing.T) {
	s := New()
	var a, b int
	unsubA := s.Subscribe(func(Event) { a++ })
	s.Subscribe(func(Event) { b++ })

	s.Enable("x")
	unsubA()
	s.Disable("x")

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestSwitcher_SubscriptionOrder(t *testing.T) {
	s := New()
	var order []string
	s.Subscribe(func(Event) { order = append(order, "first") })
	s.Subscribe(func(Event) { order = append(order, "second") })

	s.Enable("x")

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "enabled", Enabled.String())
	assert.Equal(t, "disabled", Disabled.String())
}
