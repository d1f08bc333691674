package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitEvent_BoundsTheRing(t *testing.T) {
	s := &Session{}
	for i := 0; i < maxEvents+50; i++ {
		s.EmitEvent(Event{Description: fmt.Sprintf("event %d", i)})
	}

	assert.Len(t, s.Events, maxEvents)
	assert.Equal(t, "event 50", s.Events[0].Description)
}

func TestRecentEvents_LimitAndOrder(t *testing.T) {
	s := &Session{}
	for i := 0; i < 10; i++ {
		s.EmitEvent(Event{Description: fmt.Sprintf("event %d", i)})
	}

	out := s.RecentEvents(3)
	require.Len(t, out, 3)
	assert.Equal(t, "event 7", out[0].Description)
	assert.Equal(t, "event 9", out[2].Description)

	assert.Len(t, s.RecentEvents(0), 10)
	assert.Len(t, s.RecentEvents(99), 10)
}
