// Package canvas converts editor pointer input into document-space edits.
//
// The drag engine is an explicit state machine: Idle until StartDrag, then
// Dragging until EndDrag or Cancel. Pointer positions are screen pixels;
// everything the engine returns is in document millimetres.
package canvas

import (
	"fmt"

	"github.com/conneroisu/docket/internal/geometry"
	"github.com/conneroisu/docket/internal/layout"
)

// Phase is the drag engine state.
type Phase int

const (
	Idle Phase = iota
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Config holds the page and grid settings the engine works against.
type Config struct {
	Page       geometry.PageSize
	Zones      layout.ZoneSet
	GridSize   float64
	SnapToGrid bool
}

// DefaultConfig is an A4 page with a 5mm snapping grid.
func DefaultConfig() Config {
	return Config{
		Page:       geometry.A4,
		Zones:      layout.DefaultZones(),
		GridSize:   5,
		SnapToGrid: true,
	}
}

// ConfigFor takes page and zones from a layout.
func ConfigFor(l *layout.Layout, gridSize float64, snap bool) Config {
	return Config{Page: l.PageSize, Zones: l.Zones, GridSize: gridSize, SnapToGrid: snap}
}

// Drag is the state of an active drag.
type Drag struct {
	ComponentID string
	// Offset is the pointer position minus the component origin at drag
	// start, in millimetres.
	Offset geometry.Point
	// Start is the component origin when the drag began.
	Start geometry.Point
	// Current is the latest snapped and clamped origin.
	Current geometry.Point
}

// Result describes a completed drag.
type Result struct {
	ComponentID string
	From        geometry.Point
	To          geometry.Point
}

// Moved reports whether the drag changed the component's origin.
func (r Result) Moved() bool {
	return r.From != r.To
}

// Drop is where a newly inserted component lands.
type Drop struct {
	Position geometry.Point
	Zone     layout.Zone
}

// Engine is the drag state machine. It is not safe for concurrent use.
type Engine struct {
	cfg      Config
	viewport geometry.Viewport
	phase    Phase
	drag     Drag
}

// NewEngine creates an idle engine.
func NewEngine(cfg Config, viewport geometry.Viewport) *Engine {
	if len(cfg.Zones) == 0 {
		cfg.Zones = layout.DefaultZones()
	}
	if cfg.Page == (geometry.PageSize{}) {
		cfg.Page = geometry.A4
	}
	return &Engine{cfg: cfg, viewport: viewport}
}

// Phase returns the current state.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Drag returns the active drag, if any.
func (e *Engine) Drag() (Drag, bool) {
	return e.drag, e.phase == Dragging
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetViewport updates origin and zoom, e.g. after the canvas scrolled.
func (e *Engine) SetViewport(v geometry.Viewport) {
	e.viewport = v
}

// ToDocument converts a screen position to millimetres.
func (e *Engine) ToDocument(pointer geometry.Point) geometry.Point {
	return e.viewport.ToDocument(pointer)
}

// Place snaps a document-space origin to the grid when enabled, then clamps
// it onto the page. Each axis snaps independently.
func (e *Engine) Place(p geometry.Point) geometry.Point {
	if e.cfg.SnapToGrid {
		p = geometry.SnapPoint(p, e.cfg.GridSize)
	}
	return geometry.ClampToPage(p, e.cfg.Page)
}

// StartDrag begins dragging the component whose origin is at origin. The
// offset between pointer and origin is kept for the whole drag.
func (e *Engine) StartDrag(componentID string, pointer, origin geometry.Point) error {
	if e.phase == Dragging {
		return fmt.Errorf("drag of %q already in progress", e.drag.ComponentID)
	}
	if componentID == "" {
		return fmt.Errorf("drag requires a component id")
	}
	e.phase = Dragging
	e.drag = Drag{
		ComponentID: componentID,
		Offset:      e.ToDocument(pointer).Sub(origin),
		Start:       origin,
		Current:     origin,
	}
	return nil
}

// Move updates the dragged origin from a pointer position. It reports false
// when no drag is active.
func (e *Engine) Move(pointer geometry.Point) (geometry.Point, bool) {
	if e.phase != Dragging {
		return geometry.Point{}, false
	}
	e.drag.Current = e.Place(e.ToDocument(pointer).Sub(e.drag.Offset))
	return e.drag.Current, true
}

// EndDrag finishes the drag and returns to Idle.
func (e *Engine) EndDrag() (Result, bool) {
	if e.phase != Dragging {
		return Result{}, false
	}
	res := Result{ComponentID: e.drag.ComponentID, From: e.drag.Start, To: e.drag.Current}
	e.phase = Idle
	e.drag = Drag{}
	return res, true
}

// Cancel abandons an active drag.
func (e *Engine) Cancel() {
	e.phase = Idle
	e.drag = Drag{}
}

// DropAt converts a drop pointer position to an insertion point. The zone
// comes from the unsnapped pointer height; the position is snapped and
// clamped like a drag.
func (e *Engine) DropAt(pointer geometry.Point) Drop {
	doc := e.ToDocument(pointer)
	return Drop{
		Position: e.Place(doc),
		Zone:     layout.InferZone(doc.Y, e.cfg.Zones, e.cfg.Page),
	}
}
