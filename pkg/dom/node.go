package dom

// Kind discriminates the two node variants.
type Kind int

const (
	// KindElement is a tagged node with props, style and children.
	KindElement Kind = iota
	// KindText is a leaf character-data node.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	default:
		return "invalid"
	}
}

// Node is the base tree entity. Concrete kinds are *Element and *Text;
// the interface cannot be implemented outside this package.
type Node interface {
	// Kind reports the node variant.
	Kind() Kind
	// Parent returns the owning parent, or nil for a detached node.
	Parent() Node
	// Namespace returns the optional namespace tag.
	Namespace() string
	// SetNamespace sets the optional namespace tag.
	SetNamespace(ns string)

	// Children returns a copy of the ordered child list.
	Children() []Node
	// ChildCount returns the number of children.
	ChildCount() int
	// ChildAt returns the child at index i, or nil when out of range.
	ChildAt(i int) Node
	// Index returns this node's position in its parent's child list, or -1
	// for a detached node.
	Index() int
	// FirstChild returns the first child, or nil.
	FirstChild() Node
	// LastChild returns the last child, or nil.
	LastChild() Node
	// NextSibling returns the node after this one in its parent's child
	// list, or nil. Computed from list position at call time.
	NextSibling() Node
	// PreviousSibling returns the node before this one in its parent's
	// child list, or nil.
	PreviousSibling() Node

	// AppendChild detaches child from any prior parent and appends it to
	// the end of this node's child list. Returns child.
	AppendChild(child Node) Node
	// InsertBefore inserts child immediately before ref in this node's
	// child list, appending when ref is nil or not a child. Returns child.
	InsertBefore(child, ref Node) Node
	// Prepend inserts child at the front of this node's child list.
	// Returns child.
	Prepend(child Node) Node
	// RemoveChild removes child from this node's child list if present and
	// clears its parent reference either way. Returns child.
	RemoveChild(child Node) Node
	// Contains reports whether other is this node or a descendant of it.
	// False for nil.
	Contains(other Node) bool

	// AddListener registers a callback for an event type. Callbacks fire
	// in registration order; the returned handle removes exactly this
	// registration.
	AddListener(typ EventType, fn Listener) Subscription
	// DispatchEvent invokes this node's listeners for the event's type,
	// then bubbles the same event to the parent unless propagation was
	// stopped.
	DispatchEvent(e *Event)

	base() *nodeBase
}

// nodeBase carries the structure shared by both node kinds. The self field
// lets methods on the embedded base hand out the concrete node, mirroring
// how an element knows its own interface value.
type nodeBase struct {
	self      Node
	parent    Node
	namespace string
	children  []Node
	listeners map[EventType][]listenerEntry
	nextToken int
}

func (b *nodeBase) Parent() Node           { return b.parent }
func (b *nodeBase) Namespace() string      { return b.namespace }
func (b *nodeBase) SetNamespace(ns string) { b.namespace = ns }

func (b *nodeBase) Children() []Node {
	out := make([]Node, len(b.children))
	copy(out, b.children)
	return out
}

func (b *nodeBase) ChildCount() int { return len(b.children) }

func (b *nodeBase) ChildAt(i int) Node {
	if i < 0 || i >= len(b.children) {
		return nil
	}
	return b.children[i]
}

func (b *nodeBase) Index() int {
	parent := b.parent
	if parent == nil {
		return -1
	}
	for i, sibling := range parent.base().children {
		if sibling == b.self {
			return i
		}
	}
	return -1
}

func (b *nodeBase) FirstChild() Node {
	if len(b.children) == 0 {
		return nil
	}
	return b.children[0]
}

func (b *nodeBase) LastChild() Node {
	if len(b.children) == 0 {
		return nil
	}
	return b.children[len(b.children)-1]
}

func (b *nodeBase) NextSibling() Node {
	parent := b.parent
	if parent == nil {
		return nil
	}
	siblings := parent.base().children
	for i, sibling := range siblings {
		if sibling == b.self && i+1 < len(siblings) {
			return siblings[i+1]
		}
	}
	return nil
}

func (b *nodeBase) PreviousSibling() Node {
	parent := b.parent
	if parent == nil {
		return nil
	}
	siblings := parent.base().children
	for i, sibling := range siblings {
		if sibling == b.self && i > 0 {
			return siblings[i-1]
		}
	}
	return nil
}

func (b *nodeBase) AppendChild(child Node) Node {
	if child == nil {
		return nil
	}
	detach(child)
	child.base().parent = b.self
	b.children = append(b.children, child)
	return child
}

func (b *nodeBase) InsertBefore(child, ref Node) Node {
	if child == nil {
		return nil
	}
	detach(child)
	child.base().parent = b.self
	if ref != nil {
		for i, existing := range b.children {
			if existing == ref {
				b.children = append(b.children, nil)
				copy(b.children[i+1:], b.children[i:])
				b.children[i] = child
				return child
			}
		}
	}
	// Reference missing: fall back to append.
	b.children = append(b.children, child)
	return child
}

func (b *nodeBase) Prepend(child Node) Node {
	if child == nil {
		return nil
	}
	detach(child)
	child.base().parent = b.self
	b.children = append([]Node{child}, b.children...)
	return child
}

func (b *nodeBase) RemoveChild(child Node) Node {
	if child == nil {
		return nil
	}
	for i, existing := range b.children {
		if existing == child {
			b.children = append(b.children[:i], b.children[i+1:]...)
			break
		}
	}
	// The parent pointer is cleared even when child was not in the list,
	// so a speculative remove still leaves the node detached.
	child.base().parent = nil
	return child
}

func (b *nodeBase) Contains(other Node) bool {
	if other == nil {
		return false
	}
	if other == b.self {
		return true
	}
	for _, child := range b.children {
		if child.Contains(other) {
			return true
		}
	}
	return false
}

func (b *nodeBase) base() *nodeBase { return b }

// detach removes a node from its current parent's child list and clears
// the back-reference, keeping both sides of the relation consistent.
func detach(child Node) {
	parent := child.base().parent
	if parent == nil {
		return
	}
	parent.RemoveChild(child)
}
