package engine

import "time"

// Event is a notable occurrence surfaced to the presentation layer. State
// mutations emit events rather than rendering anything themselves.
type Event struct {
	Date        time.Time      `json:"date"`
	Description string         `json:"description"`
	Category    string         `json:"category"` // "clock", "economy", "diplomacy", "session"
	Meta        map[string]any `json:"meta,omitempty"`
}

// maxEvents bounds the in-memory event ring.
const maxEvents = 500

// EmitEvent appends an event to the session's ring buffer.
func (s *Session) EmitEvent(e Event) {
	s.Events = append(s.Events, e)
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
}

// RecentEvents returns up to limit most recent events, oldest first.
func (s *Session) RecentEvents(limit int) []Event {
	if limit <= 0 || limit > len(s.Events) {
		limit = len(s.Events)
	}
	out := make([]Event, limit)
	copy(out, s.Events[len(s.Events)-limit:])
	return out
}
