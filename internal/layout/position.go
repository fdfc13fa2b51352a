package layout

import "github.com/conneroisu/docket/internal/geometry"

const (
	// DefaultRowStep is the vertical distance between synthesized positions
	// of consecutive components in a zone.
	DefaultRowStep = 15.0
	// DefaultTableHeight and DefaultBlockHeight are synthesized heights.
	DefaultTableHeight = 40.0
	DefaultBlockHeight = 12.0
)

// ZoneTop returns the y coordinate where z starts. The header starts at the
// top margin, the body below the header and the footer is anchored to the
// page bottom.
func ZoneTop(z Zone, zones ZoneSet, margins geometry.Margins, page geometry.PageSize) float64 {
	switch z {
	case ZoneHeader:
		return margins.Top
	case ZoneFooter:
		return page.Height - zones.Height(ZoneFooter)
	default:
		return zones.Height(ZoneHeader)
	}
}

// DefaultPosition synthesizes a position for a component that has none,
// from its zone and its index among the components of that zone.
func DefaultPosition(c Component, index int, zones ZoneSet, margins geometry.Margins, page geometry.PageSize) Position {
	width := geometry.ContentWidth(page, margins)
	height := DefaultBlockHeight
	if c.Type() == TypeTable {
		height = DefaultTableHeight
	}
	return Position{
		X:      margins.Left,
		Y:      ZoneTop(c.EffectiveZone(), zones, margins, page) + float64(index)*DefaultRowStep,
		Width:  &width,
		Height: &height,
	}
}

// PositionOf returns the component's explicit position or a synthesized one.
func PositionOf(c Component, index int, zones ZoneSet, margins geometry.Margins, page geometry.PageSize) Position {
	if p := c.Position(); p != nil {
		return *p
	}
	return DefaultPosition(c, index, zones, margins, page)
}

// InferZone maps a y coordinate to the zone it falls in. The footer
// threshold is inclusive.
func InferZone(y float64, zones ZoneSet, page geometry.PageSize) Zone {
	switch {
	case y < zones.Height(ZoneHeader):
		return ZoneHeader
	case y >= page.Height-zones.Height(ZoneFooter):
		return ZoneFooter
	default:
		return ZoneBody
	}
}

// InferZone is the layout-bound form of the package function.
func (l *Layout) InferZone(y float64) Zone {
	return InferZone(y, l.Zones, l.PageSize)
}

// HasPositioning reports whether any component in the tree, including box
// children, carries an explicit position.
func HasPositioning(components []Component) bool {
	return !Walk(components, func(c *Component) bool {
		return c.Position() == nil
	})
}

// IndexInZone returns, for each top-level component, its index among the
// components sharing its zone.
func IndexInZone(components []Component) []int {
	counts := make(map[Zone]int, 3)
	out := make([]int, len(components))
	for i, c := range components {
		z := c.EffectiveZone()
		out[i] = counts[z]
		counts[z]++
	}
	return out
}
