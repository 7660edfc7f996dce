package orgevents

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBus(t *testing.T) {
	t.Run(`publish delivers to all subscribers`, func(t *testing.T) {
		bus := &impl{subscribers: map[string]Subscriber{}}
		got := map[string]Event{}
		bus.Subscribe("first", func(event Event) {
			got["first"] = event
		})
		bus.Subscribe("second", func(event Event) {
			got["second"] = event
		})
		bus.Publish(Event{
			Type:       EventAssignmentChanged,
			CompanyID:  "c1",
			PositionID: "p1",
		})
		require.Len(t, got, 2)
		require.Equal(t, "p1", got["first"].PositionID)
		require.Equal(t, EventAssignmentChanged, got["second"].Type)
		require.False(t, got["first"].OccurredAt.IsZero())
	})

	t.Run(`panic in subscriber does not break others`, func(t *testing.T) {
		bus := &impl{subscribers: map[string]Subscriber{}}
		delivered := 0
		bus.Subscribe("bad", func(event Event) {
			panic("boom")
		})
		bus.Subscribe("good", func(event Event) {
			delivered++
		})
		require.NotPanics(t, func() {
			bus.Publish(Event{Type: EventDelegationChanged, CompanyID: "c1"})
		})
		require.Equal(t, 1, delivered)
	})
}
