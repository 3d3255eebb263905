package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownType is returned when decoding a logged event whose type has
// no registered factory.
var ErrUnknownType = errors.New("unknown event type")

// Describer is implemented by events with a one-line human summary.
type Describer interface {
	Describe() string
}

// Registry decodes logged events back into their concrete types.
type Registry struct {
	factories map[string]func() Event
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]func() Event)}
}

// Register maps eventType to a constructor for its zero value.
func (r *Registry) Register(eventType string, newEvent func() Event) {
	r.factories[eventType] = newEvent
}

// Decode rebuilds the concrete event from a log row.
func (r *Registry) Decode(raw RawEvent) (Event, error) {
	newEvent, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("event %d: %w: %s", raw.ID, ErrUnknownType, raw.EventType)
	}

	e := newEvent()
	if err := json.Unmarshal([]byte(raw.Payload), e); err != nil {
		return nil, fmt.Errorf("decode %s event %d: %w", raw.EventType, raw.ID, err)
	}
	return e, nil
}

// Describe returns the decoded event's summary, or "" when the row cannot
// be decoded or its type has no summary.
func (r *Registry) Describe(raw RawEvent) string {
	e, err := r.Decode(raw)
	if err != nil {
		return ""
	}
	if d, ok := e.(Describer); ok {
		return d.Describe()
	}
	return ""
}

// DefaultRegistry returns a registry with the catalog event types registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(EventSeriesAdded, func() Event { return &SeriesAdded{} })
	return r
}
