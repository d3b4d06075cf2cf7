package dom

// EventType tags an event with one of the closed set of press events.
type EventType string

const (
	// EventPressIn is delivered by the host when a press begins on a node.
	EventPressIn EventType = "PressIn"
	// EventPressOut is delivered by the host when a press ends.
	EventPressOut EventType = "PressOut"
	// EventPress is synthesized from a PressIn/PressOut pair that begins
	// and ends within the same node subtree.
	EventPress EventType = "Press"
	// EventPressMove is delivered by the host while a press moves.
	EventPressMove EventType = "PressMove"
)

// KnownEventType reports whether s names an event type the tree dispatches.
// Host messages with unknown types are dropped, not faulted.
func KnownEventType(s string) bool {
	switch EventType(s) {
	case EventPressIn, EventPressOut, EventPress, EventPressMove:
		return true
	default:
		return false
	}
}

// Details is the structured payload of a press event: pointer coordinates.
type Details struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Event is a synthetic event dispatched on the tree. The same Event value
// travels the whole bubble path; Target stays the node the action
// originated on.
type Event struct {
	Type    EventType
	Target  Node
	Details Details

	stopped bool
}

// NewEvent constructs an event targeting the given node.
func NewEvent(typ EventType, target Node, details Details) *Event {
	return &Event{Type: typ, Target: target, Details: details}
}

// StopPropagation halts bubbling after the current node's listeners run.
// The flag is one-way: once stopped, the event stays stopped for the rest
// of the dispatch.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// PropagationStopped reports whether StopPropagation has been called.
func (e *Event) PropagationStopped() bool {
	return e.stopped
}

// Listener is a callback invoked with the dispatched event.
type Listener func(*Event)

type listenerEntry struct {
	token int
	fn    Listener
}

// Subscription is the handle returned by AddListener. Remove is idempotent
// and removes exactly the registration that produced the handle.
type Subscription struct {
	owner *nodeBase
	typ   EventType
	token int
}

// Remove unregisters the listener. Removing twice, or removing a handle
// whose node has since dropped the listener, is a no-op.
func (s Subscription) Remove() {
	if s.owner == nil {
		return
	}
	entries := s.owner.listeners[s.typ]
	for i, entry := range entries {
		if entry.token == s.token {
			s.owner.listeners[s.typ] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

func (b *nodeBase) AddListener(typ EventType, fn Listener) Subscription {
	if fn == nil {
		return Subscription{}
	}
	if b.listeners == nil {
		b.listeners = make(map[EventType][]listenerEntry)
	}
	b.nextToken++
	token := b.nextToken
	b.listeners[typ] = append(b.listeners[typ], listenerEntry{token: token, fn: fn})
	return Subscription{owner: b, typ: typ, token: token}
}

// DispatchEvent runs this node's listeners for the event type in
// registration order, then bubbles the same event to the parent unless a
// listener stopped propagation. Dispatch is single-pass: listeners are
// iterated over a snapshot, so a callback that edits an ancestor's
// registrations does not observe its own edit within this dispatch.
func (b *nodeBase) DispatchEvent(e *Event) {
	if e == nil {
		return
	}
	entries := b.listeners[e.Type]
	if len(entries) > 0 {
		snapshot := make([]listenerEntry, len(entries))
		copy(snapshot, entries)
		for _, entry := range snapshot {
			entry.fn(e)
		}
	}
	if e.stopped {
		return
	}
	if b.parent != nil {
		b.parent.DispatchEvent(e)
	}
}
