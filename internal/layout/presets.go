package layout

import (
	"sort"
)

// Preset is a named visual style applied on top of a layout.
type Preset struct {
	Name                  string  `json:"name" yaml:"name"`
	Description           string  `json:"description" yaml:"description"`
	Accent                string  `json:"accent" yaml:"accent"`
	HeadingSize           float64 `json:"headingSize" yaml:"headingSize"`
	BodyFontSize          float64 `json:"bodyFontSize" yaml:"bodyFontSize"`
	TableHeaderBackground string  `json:"tableHeaderBackground" yaml:"tableHeaderBackground"`
}

// Preset style names.
const (
	StyleClassic = "classic"
	StyleModern  = "modern"
	StyleCompact = "compact"
)

var accents = map[DocumentType]string{
	Invoice:           "#1f3a5f",
	DeliveryDocket:    "#2e5d34",
	OrderConfirmation: "#5b3a7a",
	AvailabilityList:  "#7a5b1f",
	Quote:             "#7a1f2b",
}

// Presets returns the styles available for t, ordered by name. Each call
// returns fresh values.
func Presets(t DocumentType) []Preset {
	accent, ok := accents[t]
	if !ok {
		return nil
	}
	out := []Preset{
		{
			Name:                  StyleClassic,
			Description:           "Serif-like proportions, dark headings, subtle table header",
			Accent:                "#222222",
			HeadingSize:           24,
			BodyFontSize:          12,
			TableHeaderBackground: "#f0f0f0",
		},
		{
			Name:                  StyleModern,
			Description:           "Accent-coloured headings and table header",
			Accent:                accent,
			HeadingSize:           28,
			BodyFontSize:          11,
			TableHeaderBackground: accent + "22",
		},
		{
			Name:                  StyleCompact,
			Description:           "Small type for long item lists",
			Accent:                accent,
			HeadingSize:           18,
			BodyFontSize:          9,
			TableHeaderBackground: "#e8e8e8",
		},
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupPreset finds a preset by document type and style name.
func LookupPreset(t DocumentType, name string) (Preset, bool) {
	for _, p := range Presets(t) {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// ApplyPreset returns restyled copies of components. The input is never
// modified.
func ApplyPreset(components []Component, p Preset) []Component {
	out := CloneAll(components)
	Walk(out, func(c *Component) bool {
		switch b := c.Body.(type) {
		case *Heading:
			s := ensureStyle(c)
			s.Color = p.Accent
			s.FontSize = headingSize(p.HeadingSize, b.Level)
		case *Text, *List:
			ensureStyle(c).FontSize = p.BodyFontSize
		case *Table:
			s := ensureStyle(c)
			s.FontSize = p.BodyFontSize
			s.Background = p.TableHeaderBackground
		case *Divider:
			ensureStyle(c).Color = p.Accent
		}
		return true
	})
	return out
}

func ensureStyle(c *Component) *Style {
	if c.Style == nil {
		c.Style = &Style{}
	}
	return c.Style
}

// headingSize shrinks lower heading levels by 20% per level.
func headingSize(base float64, level int) float64 {
	if level < 1 {
		level = 1
	}
	if level > 4 {
		level = 4
	}
	size := base
	for i := 1; i < level; i++ {
		size *= 0.8
	}
	return size
}
