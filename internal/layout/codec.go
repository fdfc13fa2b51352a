package layout

import (
	"encoding/json"
	"fmt"

	"github.com/conneroisu/docket/internal/binding"
)

// wireComponent is the flat JSON shape shared by every variant.
type wireComponent struct {
	ID          string             `json:"id"`
	Type        Type               `json:"type"`
	Zone        Zone               `json:"zone,omitempty"`
	Style       *Style             `json:"style,omitempty"`
	VisibleWhen binding.Conditions `json:"visibleWhen,omitempty"`
	Text        string             `json:"text,omitempty"`
	Level       int                `json:"level,omitempty"`
	Items       json.RawMessage    `json:"items,omitempty"`
	Columns     []Column           `json:"columns,omitempty"`
	RowsBinding string             `json:"rowsBinding,omitempty"`
	ShowHeader  *bool              `json:"showHeader,omitempty"`
	Children    []Component        `json:"children,omitempty"`
	Size        float64            `json:"size,omitempty"`
	URL         string             `json:"url,omitempty"`
	Binding     string             `json:"binding,omitempty"`
	Width       Dimension          `json:"width,omitempty"`
	Height      Dimension          `json:"height,omitempty"`
}

func marshalItems[T ListItem | Chip](items []T) (json.RawMessage, error) {
	if len(items) == 0 {
		return nil, nil
	}
	return json.Marshal(items)
}

func unmarshalItems[T ListItem | Chip](raw json.RawMessage, dst *[]T) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// MarshalJSON encodes the component in its flat wire form.
func (c Component) MarshalJSON() ([]byte, error) {
	if u, ok := c.Body.(*Unknown); ok {
		return c.marshalUnknown(u)
	}

	w := wireComponent{
		ID:          c.ID,
		Type:        c.Type(),
		Zone:        c.EffectiveZone(),
		Style:       c.Style,
		VisibleWhen: c.VisibleWhen,
	}

	switch b := c.Body.(type) {
	case nil:
	case *Heading:
		w.Text, w.Level = b.Text, b.Level
	case *Text:
		w.Text = b.Text
	case *List:
		items, err := marshalItems(b.Items)
		if err != nil {
			return nil, err
		}
		w.Items = items
	case *Chips:
		items, err := marshalItems(b.Items)
		if err != nil {
			return nil, err
		}
		w.Items = items
	case *Table:
		w.Columns, w.RowsBinding, w.ShowHeader = b.Columns, b.RowsBinding, b.ShowHeader
	case *Divider:
	case *Spacer:
		w.Size = b.Size
	case *Box:
		w.Children = b.Children
	case *Image:
		w.URL, w.Binding, w.Width, w.Height = b.URL, b.Binding, b.Width, b.Height
	default:
		return nil, fmt.Errorf("unsupported component body %T", c.Body)
	}
	return json.Marshal(w)
}

func (c Component) marshalUnknown(u *Unknown) ([]byte, error) {
	out := make(map[string]any, len(u.raw)+4)
	for k, v := range u.raw {
		out[k] = v
	}
	out["id"] = c.ID
	out["type"] = u.Kind
	out["zone"] = c.EffectiveZone()
	if u.Text != "" {
		out["text"] = u.Text
	}
	if c.Style != nil {
		out["style"] = c.Style
	} else {
		delete(out, "style")
	}
	if len(c.VisibleWhen) > 0 {
		out["visibleWhen"] = c.VisibleWhen
	} else {
		delete(out, "visibleWhen")
	}
	return json.Marshal(out)
}

// wireHeader holds the fields every component shares, whatever its type.
type wireHeader struct {
	ID          string             `json:"id"`
	Type        Type               `json:"type"`
	Zone        Zone               `json:"zone,omitempty"`
	Style       *Style             `json:"style,omitempty"`
	VisibleWhen binding.Conditions `json:"visibleWhen,omitempty"`
}

// UnmarshalJSON decodes the flat wire form into the matching variant.
// Unrecognised types decode to Unknown with their fields preserved; their
// variant fields are never checked against the known shapes.
func (c *Component) UnmarshalJSON(data []byte) error {
	var h wireHeader
	if err := json.Unmarshal(data, &h); err != nil {
		return err
	}

	*c = Component{
		ID:          h.ID,
		Zone:        h.Zone,
		Style:       h.Style,
		VisibleWhen: h.VisibleWhen,
	}
	if c.Zone == "" {
		c.Zone = ZoneBody
	}

	if !h.Type.Known() {
		return c.unmarshalUnknown(h.Type, data)
	}

	var w wireComponent
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("component %q: %w", h.ID, err)
	}

	switch w.Type {
	case TypeHeading:
		c.Body = &Heading{Text: w.Text, Level: w.Level}
	case TypeText:
		c.Body = &Text{Text: w.Text}
	case TypeList:
		list := &List{}
		if err := unmarshalItems(w.Items, &list.Items); err != nil {
			return fmt.Errorf("component %q: list items: %w", w.ID, err)
		}
		c.Body = list
	case TypeChips:
		chips := &Chips{}
		if err := unmarshalItems(w.Items, &chips.Items); err != nil {
			return fmt.Errorf("component %q: chips: %w", w.ID, err)
		}
		c.Body = chips
	case TypeTable:
		c.Body = &Table{Columns: w.Columns, RowsBinding: w.RowsBinding, ShowHeader: w.ShowHeader}
	case TypeDivider:
		c.Body = &Divider{}
	case TypeSpacer:
		c.Body = &Spacer{Size: w.Size}
	case TypeBox:
		c.Body = &Box{Children: w.Children}
	case TypeImage:
		c.Body = &Image{URL: w.URL, Binding: w.Binding, Width: w.Width, Height: w.Height}
	}
	return nil
}

func (c *Component) unmarshalUnknown(kind Type, data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u := &Unknown{Kind: string(kind)}
	if text, ok := raw["text"].(string); ok {
		u.Text = text
		delete(raw, "text")
	}
	for _, k := range []string{"id", "type", "zone", "style", "visibleWhen"} {
		delete(raw, k)
	}
	u.raw = raw
	c.Body = u
	return nil
}
