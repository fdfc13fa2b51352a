package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Zone is one of the three stacked page regions.
type Zone string

const (
	ZoneHeader Zone = "header"
	ZoneBody   Zone = "body"
	ZoneFooter Zone = "footer"
)

// Zones returns the zones in page order.
func Zones() []Zone {
	return []Zone{ZoneHeader, ZoneBody, ZoneFooter}
}

// Valid reports whether z names a known zone.
func (z Zone) Valid() bool {
	switch z {
	case ZoneHeader, ZoneBody, ZoneFooter:
		return true
	}
	return false
}

// Rank orders zones top to bottom. Unknown zones sort with body.
func (z Zone) Rank() int {
	switch z {
	case ZoneHeader:
		return 0
	case ZoneFooter:
		return 2
	default:
		return 1
	}
}

// Position is an absolute placement in millimetres from the page origin.
type Position struct {
	X      float64  `json:"x" yaml:"x"`
	Y      float64  `json:"y" yaml:"y"`
	Width  *float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height *float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// Clone returns a deep copy.
func (p *Position) Clone() *Position {
	if p == nil {
		return nil
	}
	c := &Position{X: p.X, Y: p.Y}
	if p.Width != nil {
		w := *p.Width
		c.Width = &w
	}
	if p.Height != nil {
		h := *p.Height
		c.Height = &h
	}
	return c
}

// Style is optional component presentation.
type Style struct {
	FontSize   float64   `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	Bold       bool      `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic     bool      `json:"italic,omitempty" yaml:"italic,omitempty"`
	Color      string    `json:"color,omitempty" yaml:"color,omitempty"`
	Background string    `json:"background,omitempty" yaml:"background,omitempty"`
	TextAlign  string    `json:"textAlign,omitempty" yaml:"textAlign,omitempty"`
	Padding    Dimension `json:"padding,omitempty" yaml:"padding,omitempty"`
	Margin     Dimension `json:"margin,omitempty" yaml:"margin,omitempty"`
	Border     string    `json:"border,omitempty" yaml:"border,omitempty"`
	Position   *Position `json:"position,omitempty" yaml:"position,omitempty"`
}

// Clone returns a deep copy.
func (s *Style) Clone() *Style {
	if s == nil {
		return nil
	}
	c := *s
	c.Position = s.Position.Clone()
	return &c
}

// Dimension is a CSS length. On the wire it is either a bare number, meaning
// pixels, or a string with its own unit such as "40mm" or "50%".
type Dimension string

// Px returns a pixel dimension.
func Px(v float64) Dimension {
	return Dimension(strconv.FormatFloat(v, 'f', -1, 64))
}

// IsZero reports whether the dimension is unset.
func (d Dimension) IsZero() bool {
	return d == ""
}

// CSS returns the dimension as a CSS value, adding px to bare numbers.
func (d Dimension) CSS() string {
	s := strings.TrimSpace(string(d))
	if s == "" {
		return ""
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return s + "px"
	}
	return s
}

// MarshalJSON writes bare numbers as JSON numbers.
func (d Dimension) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(d), 64); err == nil {
		return []byte(d), nil
	}
	return json.Marshal(string(d))
}

// UnmarshalJSON accepts a number or a string.
func (d *Dimension) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = Dimension(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("dimension must be a number or string: %w", err)
	}
	*d = Dimension(n.String())
	return nil
}
