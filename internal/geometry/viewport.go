package geometry

// Viewport maps editor pixels to document millimetres.
type Viewport struct {
	// Origin is the canvas's top-left corner in screen pixels.
	Origin Point
	// Zoom is the editor zoom factor; 1 means one CSS pixel per CSS pixel.
	Zoom float64
}

// NewViewport creates a viewport at the given origin and zoom. A
// non-positive zoom is treated as 1.
func NewViewport(origin Point, zoom float64) Viewport {
	if zoom <= 0 {
		zoom = 1
	}
	return Viewport{Origin: origin, Zoom: zoom}
}

// Scale is the number of screen pixels per document millimetre.
func (v Viewport) Scale() float64 {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return PxPerMM * zoom
}

// ToDocument converts a screen pixel position to document millimetres.
func (v Viewport) ToDocument(screen Point) Point {
	s := v.Scale()
	rel := screen.Sub(v.Origin)
	return Point{X: rel.X / s, Y: rel.Y / s}
}

// ToScreen converts document millimetres to a screen pixel position.
func (v Viewport) ToScreen(doc Point) Point {
	s := v.Scale()
	return Point{X: doc.X*s + v.Origin.X, Y: doc.Y*s + v.Origin.Y}
}
