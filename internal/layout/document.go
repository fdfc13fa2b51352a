package layout

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/geometry"
)

// ZoneConfig sets the height of one zone in millimetres.
type ZoneConfig struct {
	Name   Zone    `json:"name" yaml:"name"`
	Height float64 `json:"height" yaml:"height"`
}

// ZoneSet is the zone configuration of a layout.
type ZoneSet []ZoneConfig

// DefaultZones returns the A4 zone split: 35mm header, 20mm footer and the
// remainder for the body.
func DefaultZones() ZoneSet {
	return ZoneSet{
		{Name: ZoneHeader, Height: geometry.DefaultHeaderHeight},
		{Name: ZoneBody, Height: geometry.DefaultBodyHeight()},
		{Name: ZoneFooter, Height: geometry.DefaultFooterHeight},
	}
}

// Height returns the configured height of z, falling back to the default
// when z is not configured.
func (zs ZoneSet) Height(z Zone) float64 {
	for _, zc := range zs {
		if zc.Name == z {
			return zc.Height
		}
	}
	switch z {
	case ZoneHeader:
		return geometry.DefaultHeaderHeight
	case ZoneFooter:
		return geometry.DefaultFooterHeight
	default:
		return geometry.DefaultBodyHeight()
	}
}

// Layout is a complete document layout.
type Layout struct {
	PageSize   geometry.PageSize `json:"pageSize"`
	Margins    geometry.Margins  `json:"margins"`
	Zones      ZoneSet           `json:"zones"`
	Components []Component       `json:"components"`

	// Flow marks a layout loaded from the legacy bare-array form. It is
	// written back in the same form.
	Flow bool `json:"-"`
}

// New returns a structured A4 layout with default margins and zones.
func New(components []Component) *Layout {
	return &Layout{
		PageSize:   geometry.A4,
		Margins:    geometry.DefaultMargins(),
		Zones:      DefaultZones(),
		Components: components,
	}
}

// Clone returns a deep copy.
func (l *Layout) Clone() *Layout {
	c := *l
	c.Zones = append(ZoneSet(nil), l.Zones...)
	c.Components = CloneAll(l.Components)
	return &c
}

// UsesPositioning reports whether any component in the tree is positioned.
func (l *Layout) UsesPositioning() bool {
	return HasPositioning(l.Components)
}

type layoutAlias Layout

// MarshalJSON writes flow layouts as a bare component array.
func (l Layout) MarshalJSON() ([]byte, error) {
	if l.Flow {
		components := l.Components
		if components == nil {
			components = []Component{}
		}
		return json.Marshal(components)
	}
	a := layoutAlias(l)
	if a.Components == nil {
		a.Components = []Component{}
	}
	return json.Marshal(a)
}

// UnmarshalJSON accepts either a bare component array or a structured
// layout object. Missing page, margin and zone settings take defaults.
func (l *Layout) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	def := New(nil)

	if len(data) > 0 && data[0] == '[' {
		var components []Component
		if err := json.Unmarshal(data, &components); err != nil {
			return err
		}
		*l = *def
		l.Components = components
		l.Flow = true
		return nil
	}

	a := layoutAlias(*def)
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*l = Layout(a)
	if len(l.Zones) == 0 {
		l.Zones = DefaultZones()
	}
	return nil
}

// Parse decodes a layout from JSON.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, errors.ErrLayoutParse("json", err)
	}
	return &l, nil
}

// ParseYAML decodes a layout from YAML. The document is normalised to JSON
// so both formats share one codec.
func ParseYAML(data []byte) (*Layout, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.ErrLayoutParse("yaml", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.ErrLayoutParse("yaml", err)
	}
	return Parse(raw)
}

// MarshalYAML encodes a layout as YAML with the same field names as JSON.
func MarshalYAML(l *Layout) ([]byte, error) {
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}
