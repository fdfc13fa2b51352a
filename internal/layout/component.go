// Package layout defines the document layout model: a tree of typed
// components grouped into page zones, its JSON and YAML wire format, and the
// geometry helpers that place components on the page.
package layout

import (
	"github.com/conneroisu/docket/internal/binding"
)

// Type identifies a component variant on the wire.
type Type string

const (
	TypeHeading Type = "heading"
	TypeText    Type = "text"
	TypeList    Type = "list"
	TypeTable   Type = "table"
	TypeDivider Type = "divider"
	TypeSpacer  Type = "spacer"
	TypeBox     Type = "box"
	TypeChips   Type = "chips"
	TypeImage   Type = "image"
)

// KnownTypes lists every component type the renderer understands.
func KnownTypes() []Type {
	return []Type{TypeHeading, TypeText, TypeList, TypeTable, TypeDivider, TypeSpacer, TypeBox, TypeChips, TypeImage}
}

// Known reports whether t is one of KnownTypes.
func (t Type) Known() bool {
	for _, k := range KnownTypes() {
		if t == k {
			return true
		}
	}
	return false
}

// Component is a node in the layout tree. Fields shared by every variant live
// here; variant-specific fields live in Body.
type Component struct {
	// ID is unique within a layout and stable across edits.
	ID string
	// Zone groups the component for rendering order. Empty means body.
	Zone Zone
	// Style is optional presentation, including an absolute position.
	Style *Style
	// VisibleWhen must hold entirely for the component to render.
	VisibleWhen binding.Conditions
	// Body is the variant payload. A nil Body is treated as an empty text.
	Body Body
}

// Body is implemented by every component variant.
type Body interface {
	Type() Type
	clone() Body
}

// Heading is a title line; Level is clamped to 1..4 when rendered.
type Heading struct {
	Text  string
	Level int
}

// Text is a paragraph that may contain {{path}} bindings.
type Text struct {
	Text string
}

// ListItem is a label/value pair. The value comes from Binding and is
// formatted with Format when set.
type ListItem struct {
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
	Binding string `json:"binding,omitempty" yaml:"binding,omitempty"`
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
}

// List renders label/value pairs without bullet markers.
type List struct {
	Items []ListItem
}

// Column describes one table column. Binding is resolved against the row.
type Column struct {
	Key     string `json:"key" yaml:"key"`
	Label   string `json:"label" yaml:"label"`
	Binding string `json:"binding,omitempty" yaml:"binding,omitempty"`
	Align   string `json:"align,omitempty" yaml:"align,omitempty"`
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Table iterates the array found at RowsBinding.
type Table struct {
	Columns     []Column
	RowsBinding string
	// ShowHeader hides the header row only when explicitly false.
	ShowHeader *bool
}

// HeaderVisible reports whether the header row should render.
func (t *Table) HeaderVisible() bool {
	return t.ShowHeader == nil || *t.ShowHeader
}

// Divider is a horizontal rule.
type Divider struct{}

// Spacer is empty vertical space of Size pixels.
type Spacer struct {
	Size float64
}

// Box is a bordered container; its children share the parent's data root.
type Box struct {
	Children []Component
}

// Chip is an inline pill. Label may contain bindings.
type Chip struct {
	Label string `json:"label" yaml:"label"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Chips renders a row of pills.
type Chips struct {
	Items []Chip
}

// Image prefers URL and falls back to the value at Binding.
type Image struct {
	URL     string
	Binding string
	Width   Dimension
	Height  Dimension
}

// Unknown preserves a component whose type this version does not know, so it
// survives a load/save cycle and renders as plain text.
type Unknown struct {
	Kind string
	Text string
	raw  map[string]any
}

func (*Heading) Type() Type { return TypeHeading }
func (*Text) Type() Type    { return TypeText }
func (*List) Type() Type    { return TypeList }
func (*Table) Type() Type   { return TypeTable }
func (*Divider) Type() Type { return TypeDivider }
func (*Spacer) Type() Type  { return TypeSpacer }
func (*Box) Type() Type     { return TypeBox }
func (*Chips) Type() Type   { return TypeChips }
func (*Image) Type() Type   { return TypeImage }
func (u *Unknown) Type() Type {
	return Type(u.Kind)
}

func (b *Heading) clone() Body { c := *b; return &c }
func (b *Text) clone() Body    { c := *b; return &c }
func (b *Divider) clone() Body { return &Divider{} }
func (b *Spacer) clone() Body  { c := *b; return &c }
func (b *Image) clone() Body   { c := *b; return &c }

func (b *List) clone() Body {
	return &List{Items: append([]ListItem(nil), b.Items...)}
}

func (b *Table) clone() Body {
	c := &Table{
		Columns:     append([]Column(nil), b.Columns...),
		RowsBinding: b.RowsBinding,
	}
	if b.ShowHeader != nil {
		v := *b.ShowHeader
		c.ShowHeader = &v
	}
	return c
}

func (b *Box) clone() Body {
	return &Box{Children: CloneAll(b.Children)}
}

func (b *Chips) clone() Body {
	return &Chips{Items: append([]Chip(nil), b.Items...)}
}

func (b *Unknown) clone() Body {
	c := &Unknown{Kind: b.Kind, Text: b.Text}
	if b.raw != nil {
		c.raw = make(map[string]any, len(b.raw))
		for k, v := range b.raw {
			c.raw[k] = v
		}
	}
	return c
}

// Type returns the component's variant type.
func (c Component) Type() Type {
	if c.Body == nil {
		return TypeText
	}
	return c.Body.Type()
}

// EffectiveZone returns the component's zone, defaulting to body.
func (c Component) EffectiveZone() Zone {
	if c.Zone == "" {
		return ZoneBody
	}
	return c.Zone
}

// Position returns the explicit position, or nil.
func (c Component) Position() *Position {
	if c.Style == nil {
		return nil
	}
	return c.Style.Position
}

// Clone returns a deep copy of the component.
func (c Component) Clone() Component {
	out := Component{ID: c.ID, Zone: c.Zone}
	if c.Style != nil {
		out.Style = c.Style.Clone()
	}
	if c.VisibleWhen != nil {
		out.VisibleWhen = append(binding.Conditions(nil), c.VisibleWhen...)
	}
	if c.Body != nil {
		out.Body = c.Body.clone()
	}
	return out
}

// CloneAll deep-copies a component sequence. A nil input stays nil.
func CloneAll(components []Component) []Component {
	if components == nil {
		return nil
	}
	out := make([]Component, len(components))
	for i, c := range components {
		out[i] = c.Clone()
	}
	return out
}

// Walk visits every component depth-first, parents before children. Walking
// stops early when fn returns false.
func Walk(components []Component, fn func(c *Component) bool) bool {
	for i := range components {
		c := &components[i]
		if !fn(c) {
			return false
		}
		if box, ok := c.Body.(*Box); ok {
			if !Walk(box.Children, fn) {
				return false
			}
		}
	}
	return true
}

// Find returns the first component with id anywhere in the tree.
func Find(components []Component, id string) (*Component, bool) {
	var found *Component
	Walk(components, func(c *Component) bool {
		if c.ID == id {
			found = c
			return false
		}
		return true
	})
	return found, found != nil
}

// IDs returns every id in the tree in depth-first order.
func IDs(components []Component) []string {
	var ids []string
	Walk(components, func(c *Component) bool {
		ids = append(ids, c.ID)
		return true
	})
	return ids
}
