package component

import (
	"fmt"
	"strconv"
)

// Event names with built-in meaning.
const (
	// EventUpdate is the generic update kind. It satisfies every
	// descriptor's event filter.
	EventUpdate = "update"

	// EventResize signals a layout change. Like EventUpdate it re-runs
	// watches.
	EventResize = "resize"
)

// EventSet is the set of event names coalesced into one update pass,
// in the order they were first requested.
type EventSet struct {
	names []string
}

// NewEventSet builds an EventSet from names, dropping duplicates.
func NewEventSet(names ...string) EventSet {
	var s EventSet
	for _, n := range names {
		s.add(n)
	}
	return s
}

func (s *EventSet) add(name string) {
	if s.Has(name) {
		return
	}
	s.names = append(s.names, name)
}

// Has reports whether name was requested.
func (s EventSet) Has(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// Intersects reports whether any of names was requested.
func (s EventSet) Intersects(names []string) bool {
	for _, n := range names {
		if s.Has(n) {
			return true
		}
	}
	return false
}

// Len returns the number of distinct events.
func (s EventSet) Len() int {
	return len(s.names)
}

// Names returns a copy of the event names.
func (s EventSet) Names() []string {
	return append([]string(nil), s.names...)
}

// matches reports whether a descriptor subscribed to events should run.
func (s EventSet) matches(events []string) bool {
	return s.Has(EventUpdate) || s.Intersects(events)
}

type outcomeKind uint8

const (
	outcomeNoChange outcomeKind = iota
	outcomeValues
	outcomeSkip
)

// ReadOutcome is the result of a read step. The zero value is NoChange.
type ReadOutcome struct {
	kind   outcomeKind
	values map[string]any
}

var (
	// NoChange merges nothing and lets the paired write run.
	NoChange = ReadOutcome{}

	// Skip merges nothing and suppresses the paired write for this pass.
	Skip = ReadOutcome{kind: outcomeSkip}
)

// Values merges values into the instance data and lets the write run.
func Values(values map[string]any) ReadOutcome {
	return ReadOutcome{kind: outcomeValues, values: values}
}

// IsSkip reports whether the outcome suppresses the write.
func (o ReadOutcome) IsSkip() bool {
	return o.kind == outcomeSkip
}

// Data is the persistent scratch space of an instance. It survives across
// update passes and is reset on every connect.
type Data map[string]any

// Merge shallow-merges values into d.
func (d Data) Merge(values map[string]any) {
	for k, v := range values {
		d[k] = v
	}
}

// Get returns the value stored under key.
func (d Data) Get(key string) any {
	return d[key]
}

// Int returns the value under key as an int, or 0.
func (d Data) Int(key string) int {
	return toInt(d[key])
}

// Bool returns the value under key as a bool, or false.
func (d Data) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// Props holds the resolved inputs of an instance.
type Props map[string]any

// String returns the prop under key formatted as a string.
func (p Props) String(key string) string {
	if v, ok := p[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// Int returns the prop under key as an int.
func (p Props) Int(key string) int {
	return toInt(p[key])
}

// Bool returns the prop under key as a bool. Strings are parsed.
func (p Props) Bool(key string) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

func toInt(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case string:
		i, _ := strconv.Atoi(val)
		return i
	}
	return 0
}
