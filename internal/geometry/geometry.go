// Package geometry holds the unit system shared by the document model, the
// renderer and the editor canvas.
//
// Document space is measured in millimetres from the top-left corner of the
// page. Editor space is measured in CSS pixels; a Viewport maps between the
// two using the display density and the editor zoom factor.
package geometry

import "math"

const (
	// MMPerInch is the number of millimetres in an inch.
	MMPerInch = 25.4
	// PxPerInch is the CSS reference pixel density.
	PxPerInch = 96.0
	// PxPerMM is the number of CSS pixels per millimetre at zoom 1.
	PxPerMM = PxPerInch / MMPerInch
)

// Default zone heights and margins, in millimetres.
const (
	DefaultHeaderHeight = 35.0
	DefaultFooterHeight = 20.0
	DefaultMargin       = 15.0
)

// The drag clamp keeps a component's origin on the page; it deliberately
// ignores the component's own size.
const (
	ClampInsetX = 10.0
	ClampInsetY = 5.0
)

// PageSize is a page's dimensions in millimetres.
type PageSize struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// A4 is the default page size.
var A4 = PageSize{Width: 210, Height: 297}

// Margins are page margins in millimetres.
type Margins struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// DefaultMargins returns the margins new layouts start with.
func DefaultMargins() Margins {
	return Margins{Top: DefaultMargin, Right: DefaultMargin, Bottom: DefaultMargin, Left: DefaultMargin}
}

// DefaultBodyHeight is what remains of an A4 page between the default header
// and footer.
func DefaultBodyHeight() float64 {
	return A4.Height - DefaultHeaderHeight - DefaultFooterHeight
}

// ContentWidth is the page width between the left and right margins.
func ContentWidth(page PageSize, m Margins) float64 {
	return page.Width - m.Left - m.Right
}

// Point is a 2D coordinate. Its unit depends on context.
type Point struct {
	X float64
	Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// MMToPx converts millimetres to CSS pixels at zoom 1.
func MMToPx(mm float64) float64 {
	return mm * PxPerMM
}

// PxToMM converts CSS pixels at zoom 1 to millimetres.
func PxToMM(px float64) float64 {
	return px / PxPerMM
}

// Snap rounds v to the nearest multiple of grid. A non-positive grid
// disables snapping.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// SnapPoint snaps each axis of p independently.
func SnapPoint(p Point, grid float64) Point {
	return Point{X: Snap(p.X, grid), Y: Snap(p.Y, grid)}
}

// Clamp bounds v to [lo, hi]. When hi < lo, lo wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// ClampToPage keeps a component origin on the page: X in
// [0, width-ClampInsetX] and Y in [0, height-ClampInsetY].
func ClampToPage(p Point, page PageSize) Point {
	return Point{
		X: Clamp(p.X, 0, page.Width-ClampInsetX),
		Y: Clamp(p.Y, 0, page.Height-ClampInsetY),
	}
}
