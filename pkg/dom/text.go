package dom

// Text is a leaf node holding character data. The data accessor pair is
// the only mutable surface a reconciler touches on an existing text node,
// which allows in-place text updates without node replacement.
type Text struct {
	nodeBase
	data string
}

// NewText creates a detached text node.
func NewText(data string) *Text {
	t := &Text{data: data}
	t.self = t
	return t
}

// Kind reports KindText.
func (t *Text) Kind() Kind { return KindText }

// Data returns the character data.
func (t *Text) Data() string { return t.data }

// SetData replaces the character data.
func (t *Text) SetData(data string) { t.data = data }
