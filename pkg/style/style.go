// Package style normalizes heterogeneous style inputs into host-ready
// values. Every function is pure and total: unparseable input resolves to
// "absent" (a false second return or an omitted field), never to an error
// and never to zero.
package style

// Style is the raw style record attached to an element. It is a plain
// mutable record: the framework integration layer writes fields directly.
// Dimension-valued fields accept either a number or a string ("20px",
// "50%"); color fields accept "#rgb" or "#rrggbb" hex strings. Extra
// carries pass-through properties the resolver does not interpret.
type Style struct {
	Background string
	Color      string
	Font       string
	FontSize   any

	FlexDirection string
	FlexGrow      any
	FlexShrink    any
	AlignItems    string
	AlignSelf     string

	Width  any
	Height any
	Gap    any

	BorderRadius any

	Padding       any
	PaddingX      any
	PaddingY      any
	PaddingTop    any
	PaddingRight  any
	PaddingBottom any
	PaddingLeft   any

	Margin       any
	MarginX      any
	MarginY      any
	MarginTop    any
	MarginRight  any
	MarginBottom any
	MarginLeft   any

	Extra map[string]any
}

// RGB is a decomposed color channel triple (red, green, blue).
type RGB [3]uint8

// Resolved is the host-ready style block attached to a serialized element.
// Pointer and empty-string fields are omitted when absent; the host treats
// a missing field as unset, not as zero.
type Resolved struct {
	Background *RGB     `json:"background,omitempty"`
	Color      *RGB     `json:"color,omitempty"`
	Font       string   `json:"font,omitempty"`
	FontSize   *float64 `json:"fontSize,omitempty"`

	FlexDirection string   `json:"flexDirection,omitempty"`
	FlexGrow      *float64 `json:"flexGrow,omitempty"`
	FlexShrink    *float64 `json:"flexShrink,omitempty"`
	AlignItems    string   `json:"alignItems,omitempty"`
	AlignSelf     string   `json:"alignSelf,omitempty"`

	Width  string   `json:"width,omitempty"`
	Height string   `json:"height,omitempty"`
	Gap    *float64 `json:"gap,omitempty"`

	BorderRadius *float64 `json:"borderRadius,omitempty"`

	Padding *[4]float64 `json:"padding,omitempty"`
	Margin  *[4]float64 `json:"margin,omitempty"`
}

// IsZero reports whether no field of the resolved block is set.
func (r Resolved) IsZero() bool {
	return r == Resolved{}
}

// Resolve normalizes a raw style record into the host-ready block.
// Fields that fail to parse are left absent.
func Resolve(s Style) Resolved {
	var out Resolved

	if rgb, ok := ParseColor(s.Background); ok {
		out.Background = &rgb
	}
	if rgb, ok := ParseColor(s.Color); ok {
		out.Color = &rgb
	}
	out.Font = s.Font
	if px, ok := ParsePx(s.FontSize); ok {
		out.FontSize = &px
	}

	out.FlexDirection = s.FlexDirection
	if px, ok := ParsePx(s.FlexGrow); ok {
		out.FlexGrow = &px
	}
	if px, ok := ParsePx(s.FlexShrink); ok {
		out.FlexShrink = &px
	}
	out.AlignItems = s.AlignItems
	out.AlignSelf = s.AlignSelf

	if d, ok := Dimension(s.Width); ok {
		out.Width = d
	}
	if d, ok := Dimension(s.Height); ok {
		out.Height = d
	}
	if px, ok := ParsePx(s.Gap); ok {
		out.Gap = &px
	}
	if px, ok := ParsePx(s.BorderRadius); ok {
		out.BorderRadius = &px
	}

	if hasBoxInput(s.Padding, s.PaddingX, s.PaddingY, s.PaddingTop, s.PaddingRight, s.PaddingBottom, s.PaddingLeft) {
		box := ResolveBox(s.Padding, s.PaddingX, s.PaddingY, s.PaddingTop, s.PaddingRight, s.PaddingBottom, s.PaddingLeft)
		out.Padding = &box
	}
	if hasBoxInput(s.Margin, s.MarginX, s.MarginY, s.MarginTop, s.MarginRight, s.MarginBottom, s.MarginLeft) {
		box := ResolveBox(s.Margin, s.MarginX, s.MarginY, s.MarginTop, s.MarginRight, s.MarginBottom, s.MarginLeft)
		out.Margin = &box
	}

	return out
}

func hasBoxInput(values ...any) bool {
	for _, v := range values {
		if _, ok := ParsePx(v); ok {
			return true
		}
	}
	return false
}
