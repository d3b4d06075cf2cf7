package dom

import "github.com/go-drift/sprout/pkg/style"

// Element is a tagged node carrying props, a style record and ordered
// children. Props may hold function values (event handlers wired by the
// reconciler); the bridge skips those during serialization.
type Element struct {
	nodeBase
	tag   string
	props map[string]any

	// Style is a plain mutable record written directly by the framework
	// integration layer.
	Style style.Style
}

// NewElement creates a detached element with the given tag.
func NewElement(tag string) *Element {
	e := &Element{tag: tag}
	e.self = e
	return e
}

// Kind reports KindElement.
func (e *Element) Kind() Kind { return KindElement }

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.tag }

// SetAttribute sets a prop value.
func (e *Element) SetAttribute(key string, value any) {
	if e.props == nil {
		e.props = make(map[string]any)
	}
	e.props[key] = value
}

// RemoveAttribute deletes a prop. Removing a prop that is not set is a
// no-op.
func (e *Element) RemoveAttribute(key string) {
	delete(e.props, key)
}

// Attribute returns a prop value and whether it is set.
func (e *Element) Attribute(key string) (any, bool) {
	v, ok := e.props[key]
	return v, ok
}

// EachAttribute calls fn for every prop. Iteration order is unspecified.
func (e *Element) EachAttribute(fn func(key string, value any)) {
	for k, v := range e.props {
		fn(k, v)
	}
}
