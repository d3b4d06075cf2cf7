// Package bridge connects the node tree to an external rendering host.
//
// After every reconciler commit the bridge re-serializes the whole tree
// into a JSON snapshot, assigns fresh integer identities to elements in
// traversal order, and hands the payload to the host together with an
// event-intake callback. When the host invokes the callback, the bridge
// resolves the identity against the table built during the most recent
// pass, dispatches a synthetic event on the resolved element, and runs
// another full pass once the dispatch settles.
//
// There is no diffing and no stable identity: identities are valid only
// for the snapshot they were published with. A host must not cache them
// across snapshots it has not yet consumed.
package bridge

import (
	"fmt"

	"github.com/go-drift/sprout/pkg/dom"
	"github.com/go-drift/sprout/pkg/errors"
)

// EventIntake is the callback the host invokes to route an input event
// back into the tree. Identity must reference the most recently published
// snapshot; unknown identities and unknown event types are silently
// ignored.
type EventIntake func(identity int, eventType string, details dom.Details)

// Host consumes snapshots. ApplySnapshot is called once per serialization
// pass with the serialized tree and the intake callback, and is treated as
// a blocking, synchronous call from the bridge's perspective. The host may
// invoke the intake callback from within ApplySnapshot or at any later
// point.
type Host interface {
	ApplySnapshot(payload []byte, intake EventIntake)
}

// HostFunc adapts a function to the Host interface.
type HostFunc func(payload []byte, intake EventIntake)

func (f HostFunc) ApplySnapshot(payload []byte, intake EventIntake) {
	f(payload, intake)
}

// Reconciler is the boundary to the external reactive framework. The
// framework must call the registered observer synchronously after every
// commit, with no debounce window, so the host never observes a tree
// mid-update.
type Reconciler interface {
	OnCommit(observer func())
}

// Context owns the root node and the per-pass identity table. It replaces
// any ambient document singleton: every operation that needs the tree goes
// through an explicit *Context.
type Context struct {
	root *dom.Element
	host Host

	// Identity table of the most recent completed pass.
	ids map[int]*dom.Element

	// Single-slot re-entrancy guard: at most one pass is in flight, and a
	// pass requested mid-flight coalesces into one pending slot.
	inFlight bool
	pending  bool
}

// New creates a bridge context for the given root element and host. The
// root is the document equivalent: it appears in every snapshot but is
// never assigned a host identity.
func New(root *dom.Element, host Host) *Context {
	return &Context{root: root, host: host}
}

// Root returns the context's root element.
func (c *Context) Root() *dom.Element {
	return c.root
}

// Attach registers the serialization pass as the reconciler's commit
// observer.
func (c *Context) Attach(r Reconciler) {
	r.OnCommit(func() {
		c.Render()
	})
}

// Render runs a full serialization pass and publishes the snapshot to the
// host. A call made while a pass is in flight (an event callback mutating
// the tree mid-publish) queues exactly one follow-up pass instead of
// overlapping. The returned error is non-nil only for the hard failure
// case: a node kind the serializer does not support, or an unserializable
// prop value.
func (c *Context) Render() error {
	if c.inFlight {
		c.pending = true
		return nil
	}
	c.inFlight = true
	defer func() { c.inFlight = false }()

	for {
		if err := c.renderOnce(); err != nil {
			c.pending = false
			return err
		}
		if !c.pending {
			return nil
		}
		c.pending = false
	}
}

func (c *Context) renderOnce() error {
	if c.root == nil {
		return &errors.Error{
			Op:   "bridge.Render",
			Kind: errors.KindSerialize,
			Err:  fmt.Errorf("no root element"),
		}
	}

	pass := newPass()
	payload, err := pass.serialize(c.root)
	if err != nil {
		errors.Report(&errors.Error{
			Op:         "bridge.Render",
			Kind:       errors.KindSerialize,
			Err:        err,
			StackTrace: errors.CaptureStack(),
		})
		return err
	}

	// Publish the new identity table only for a completed pass; identities
	// from the previous pass are discarded.
	c.ids = pass.ids
	c.host.ApplySnapshot(payload, c.intake)
	return nil
}

// intake resolves a host identity against the most recent pass and
// dispatches the corresponding event. Malformed messages (stale identity,
// unknown event type) degrade silently: availability of the render loop
// wins over strict delivery of a single event. After dispatch settles, a
// new pass picks up any mutations the listeners made.
func (c *Context) intake(identity int, eventType string, details dom.Details) {
	defer errors.Recover("bridge.intake")

	target, ok := c.ids[identity]
	if !ok {
		errors.ReportIntake(&errors.IntakeError{
			Identity:  identity,
			EventType: eventType,
			Reason:    "stale identity",
		})
		return
	}
	if !dom.KnownEventType(eventType) {
		errors.ReportIntake(&errors.IntakeError{
			Identity:  identity,
			EventType: eventType,
			Reason:    "unknown event type",
		})
		return
	}

	event := dom.NewEvent(dom.EventType(eventType), target, details)
	target.DispatchEvent(event)

	c.Render()
}
