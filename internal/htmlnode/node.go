// Package htmlnode provides the small HTML tree used by the markdown converter.
//
// A tree is built from two node variants: Leaf (optional tag, mandatory value)
// and Parent (mandatory tag, at least one child). Both render to an HTML string.
// Attribute keys and values are emitted verbatim; no escaping is performed.
package htmlnode

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingValue is returned when a leaf has no value.
	ErrMissingValue = errors.New("html node: leaf has no value")
	// ErrMissingTagOrChildren is returned when a parent has no tag or no children.
	ErrMissingTagOrChildren = errors.New("html node: parent has no tag or children")
)

// Node is implemented by *Leaf and *Parent only.
type Node interface {
	Render() (string, error)
	sealed()
}

// Attr is a single HTML attribute.
type Attr struct {
	Key   string
	Value string
}

// Attributes is an ordered attribute list; rendering follows insertion order.
type Attributes []Attr

// String renders the attributes as ` key="value"` pairs.
func (a Attributes) String() string {
	if len(a) == 0 {
		return ""
	}
	var b strings.Builder
	for _, attr := range a {
		b.WriteByte(' ')
		b.WriteString(attr.Key)
		b.WriteString(`="`)
		b.WriteString(attr.Value)
		b.WriteByte('"')
	}
	return b.String()
}

// Get returns the value of the first attribute named key.
func (a Attributes) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Leaf is a terminal node. An empty Tag renders the raw value.
type Leaf struct {
	Tag   string
	Value *string
	Attrs Attributes
}

// NewLeaf builds a leaf with the given tag and value.
func NewLeaf(tag, value string, attrs ...Attr) *Leaf {
	return &Leaf{Tag: tag, Value: &value, Attrs: attrs}
}

// Text builds an untagged leaf.
func Text(value string) *Leaf {
	return NewLeaf("", value)
}

func (*Leaf) sealed() {}

// Render implements Node.
func (l *Leaf) Render() (string, error) {
	if l == nil || l.Value == nil {
		return "", ErrMissingValue
	}
	if l.Tag == "" {
		return *l.Value, nil
	}
	return "<" + l.Tag + l.Attrs.String() + ">" + *l.Value + "</" + l.Tag + ">", nil
}

// String returns a debug representation.
func (l *Leaf) String() string {
	value := "<nil>"
	if l.Value != nil {
		value = *l.Value
	}
	return fmt.Sprintf("Leaf(%q, %q, %v)", l.Tag, value, l.Attrs)
}

// Parent is a tagged node with ordered children. Attrs render on the opening
// tag the same way they do for a Leaf; the markdown builders never set them,
// so converted documents always produce bare parent tags.
type Parent struct {
	Tag      string
	Children []Node
	Attrs    Attributes
}

// NewParent builds a parent node.
func NewParent(tag string, children []Node, attrs ...Attr) *Parent {
	return &Parent{Tag: tag, Children: children, Attrs: attrs}
}

func (*Parent) sealed() {}

// Render implements Node. Child errors are returned wrapped with the parent tag.
func (p *Parent) Render() (string, error) {
	if p == nil || p.Tag == "" || len(p.Children) == 0 {
		return "", ErrMissingTagOrChildren
	}
	var b strings.Builder
	b.WriteString("<" + p.Tag + p.Attrs.String() + ">")
	for i, child := range p.Children {
		if child == nil {
			return "", fmt.Errorf("<%s> child %d: %w", p.Tag, i, ErrMissingValue)
		}
		out, err := child.Render()
		if err != nil {
			return "", fmt.Errorf("<%s> child %d: %w", p.Tag, i, err)
		}
		b.WriteString(out)
	}
	b.WriteString("</" + p.Tag + ">")
	return b.String(), nil
}

// String returns a debug representation.
func (p *Parent) String() string {
	return fmt.Sprintf("Parent(%q, %v, %v)", p.Tag, p.Children, p.Attrs)
}

// Render renders any node, dispatching on its variant.
func Render(n Node) (string, error) {
	switch v := n.(type) {
	case *Leaf:
		return v.Render()
	case *Parent:
		return v.Render()
	default:
		return "", ErrMissingValue
	}
}
