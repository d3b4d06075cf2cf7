package bridge

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/go-drift/sprout/pkg/dom"
	"github.com/go-drift/sprout/pkg/style"
)

// textType is the reserved type tag of text records on the wire.
const textType = "#text"

// idKey is the reserved prop key carrying the host identity.
const idKey = "id"

// styleKey is the reserved prop key carrying the resolved style block.
const styleKey = "style"

// Record is the serialized projection of a node: a pure value with no
// back-references, regenerated wholesale on every pass.
type Record struct {
	// Type is the element tag, or "#text" for text records.
	Type string
	// Text is the character data of a text record.
	Text string
	// Props holds the element's serializable props plus the reserved id
	// and style entries.
	Props map[string]any
	// Children are the element's child records in order.
	Children []*Record
}

// MarshalJSON emits the two wire shapes: {"type":"#text","text":...} for
// text and {"type":...,"props":{...},"children":[...]} for elements. Props
// and children are always present on element records, even when empty.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r.Type == textType {
		return json.Marshal(struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{Type: r.Type, Text: r.Text})
	}
	props := r.Props
	if props == nil {
		props = map[string]any{}
	}
	children := r.Children
	if children == nil {
		children = []*Record{}
	}
	return json.Marshal(struct {
		Type     string         `json:"type"`
		Props    map[string]any `json:"props"`
		Children []*Record      `json:"children"`
	}{Type: r.Type, Props: props, Children: children})
}

// pass is the state of one serialization pass: a fresh identity table and
// a counter starting at 0, discarded when the next pass begins.
type pass struct {
	ids  map[int]*dom.Element
	next int
}

func newPass() *pass {
	return &pass{ids: make(map[int]*dom.Element)}
}

// serialize walks the tree depth-first in pre-order and returns the JSON
// payload for the host.
func (p *pass) serialize(root *dom.Element) ([]byte, error) {
	record, err := p.visit(root, true)
	if err != nil {
		return nil, err
	}
	return json.Marshal(record)
}

func (p *pass) visit(n dom.Node, isRoot bool) (*Record, error) {
	switch node := n.(type) {
	case *dom.Text:
		return &Record{Type: textType, Text: node.Data()}, nil

	case *dom.Element:
		record := &Record{Type: node.Tag(), Props: map[string]any{}}

		node.EachAttribute(func(key string, value any) {
			// Listeners are not serializable; function-valued props stay
			// on the tree side of the boundary.
			if value != nil && reflect.TypeOf(value).Kind() == reflect.Func {
				return
			}
			record.Props[key] = value
		})

		// The root is the document equivalent and is never addressed by
		// the host, so it gets no identity.
		if !isRoot {
			identity := p.next
			p.next++
			p.ids[identity] = node
			record.Props[idKey] = identity
		}

		if resolved := style.Resolve(node.Style); !resolved.IsZero() {
			record.Props[styleKey] = resolved
		}

		for _, child := range node.Children() {
			childRecord, err := p.visit(child, false)
			if err != nil {
				return nil, err
			}
			record.Children = append(record.Children, childRecord)
		}
		return record, nil

	default:
		// A node that is neither element nor text means the node-kind
		// invariant was broken elsewhere; abort the pass.
		return nil, fmt.Errorf("unsupported node kind %T", n)
	}
}
