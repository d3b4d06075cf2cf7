// Package gestures synthesizes higher-level events from the raw press
// events the host delivers.
package gestures

import "github.com/go-drift/sprout/pkg/dom"

// PressSynthesizer turns a PressIn/PressOut pair into a single Press event
// when the press begins and ends within the same interactive region. It is
// installed once on the tree root and observes events as they bubble up.
//
// The state machine has two states: idle, and armed with the node the
// PressIn targeted. A second PressIn without an intervening PressOut
// re-arms unconditionally, overwriting the tracked node; whether rapid
// double-press or multi-touch should instead stack or ignore re-entry is
// an open behavioral question upstream, so the overwrite is kept as
// observed.
type PressSynthesizer struct {
	armed dom.Node
	subs  []dom.Subscription
}

// InstallPress attaches a press synthesizer to the given root node.
func InstallPress(root dom.Node) *PressSynthesizer {
	s := &PressSynthesizer{}
	s.subs = append(s.subs,
		root.AddListener(dom.EventPressIn, s.onPressIn),
		root.AddListener(dom.EventPressOut, s.onPressOut),
	)
	return s
}

// Armed returns the currently tracked node, or nil when idle.
func (s *PressSynthesizer) Armed() dom.Node {
	return s.armed
}

// Dispose removes the root listeners and resets the state machine.
func (s *PressSynthesizer) Dispose() {
	for _, sub := range s.subs {
		sub.Remove()
	}
	s.subs = nil
	s.armed = nil
}

func (s *PressSynthesizer) onPressIn(e *dom.Event) {
	s.armed = e.Target
}

func (s *PressSynthesizer) onPressOut(e *dom.Event) {
	armed := s.armed
	s.armed = nil
	if armed == nil || !armed.Contains(e.Target) {
		return
	}
	press := dom.NewEvent(dom.EventPress, armed, e.Details)
	armed.DispatchEvent(press)
}
