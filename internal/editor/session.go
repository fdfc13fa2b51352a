// Package editor is an editing session over one layout. Every structural
// change goes through the undo history; pointer input goes through the
// canvas drag engine.
package editor

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/conneroisu/docket/internal/canvas"
	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/form"
	"github.com/conneroisu/docket/internal/geometry"
	"github.com/conneroisu/docket/internal/history"
	"github.com/conneroisu/docket/internal/layout"
	"github.com/conneroisu/docket/internal/logging"
)

// Config holds the editor settings.
type Config struct {
	MaxHistory int
	GridSize   float64
	SnapToGrid bool
	Zoom       float64
	// OnChange receives the component tree after every change.
	OnChange func([]layout.Component)
}

// DefaultConfig matches the default editor configuration.
func DefaultConfig() Config {
	return Config{MaxHistory: history.DefaultMaxHistory, GridSize: 5, SnapToGrid: true, Zoom: 1}
}

// Session edits one layout.
type Session struct {
	mu      sync.Mutex
	cfg     Config
	frame   *layout.Layout
	history *history.Manager[[]layout.Component]
	engine  *canvas.Engine
	logger  logging.Logger
}

// NewSession starts a session on l. The layout is copied.
func NewSession(l *layout.Layout, cfg Config, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Session{cfg: cfg, logger: logger.WithComponent("editor")}

	opts := []history.Option[[]layout.Component]{
		history.WithMaxHistory[[]layout.Component](cfg.MaxHistory),
	}
	if cfg.OnChange != nil {
		opts = append(opts, history.WithOnChange(func(st history.State[[]layout.Component]) {
			cfg.OnChange(layout.CloneAll(st.Present))
		}))
	}
	s.history = history.NewManager(layout.CloneAll(l.Components), opts...)
	s.setFrame(l)
	return s
}

func (s *Session) setFrame(l *layout.Layout) {
	frame := l.Clone()
	frame.Components = nil
	s.frame = frame
	s.engine = canvas.NewEngine(
		canvas.ConfigFor(frame, s.cfg.GridSize, s.cfg.SnapToGrid),
		geometry.NewViewport(geometry.Point{}, s.cfg.Zoom),
	)
}

// Load replaces the edited layout. The previous document cannot be reached
// through undo.
func (s *Session) Load(ctx context.Context, l *layout.Layout) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.Cancel()
	s.setFrame(l)
	s.history.ReplaceState(layout.CloneAll(l.Components))
	s.history.ResetHistory()
	s.logger.Info(ctx, "layout loaded", "components", len(l.Components))
}

// LoadJSON parses and loads a layout.
func (s *Session) LoadJSON(ctx context.Context, data []byte) error {
	l, err := layout.Parse(data)
	if err != nil {
		return err
	}
	s.Load(ctx, l)
	return nil
}

// Layout returns a copy of the current layout.
func (s *Session) Layout() *layout.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.frame.Clone()
	l.Components = layout.CloneAll(s.history.Present())
	return l
}

// Components returns a copy of the current component tree.
func (s *Session) Components() []layout.Component {
	return layout.CloneAll(s.history.Present())
}

// SetViewport updates the canvas origin and zoom.
func (s *Session) SetViewport(v geometry.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SetViewport(v)
}

// CanUndo reports whether Undo would change the layout.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would change the layout.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Undo reverts the last change.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Cancel()
	return s.history.Undo()
}

// Redo reapplies the last undone change.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Cancel()
	return s.history.Redo()
}

// origin returns the component's explicit or synthesized top-left corner.
func (s *Session) origin(components []layout.Component, id string) (geometry.Point, bool) {
	zoneIndex := layout.IndexInZone(components)
	for i, c := range components {
		if c.ID == id {
			p := layout.PositionOf(c, zoneIndex[i], s.frame.Zones, s.frame.Margins, s.frame.PageSize)
			return geometry.Point{X: p.X, Y: p.Y}, true
		}
	}
	if c, ok := layout.Find(components, id); ok {
		if p := c.Position(); p != nil {
			return geometry.Point{X: p.X, Y: p.Y}, true
		}
		return geometry.Point{}, true
	}
	return geometry.Point{}, false
}

// StartDrag begins dragging component id from a pointer position in screen
// pixels.
func (s *Session) StartDrag(id string, pointer geometry.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	origin, ok := s.origin(s.history.Present(), id)
	if !ok {
		return errors.ErrComponentNotFound(id)
	}
	return s.engine.StartDrag(id, pointer, origin)
}

// DragMove previews the dragged origin. It does not touch the history.
func (s *Session) DragMove(pointer geometry.Point) (geometry.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Move(pointer)
}

// DragPosition is the live origin of the dragged component, if any.
func (s *Session) DragPosition() (string, geometry.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.engine.Drag()
	return d.ComponentID, d.Current, ok
}

// EndDrag commits the drag as a single history entry. A drag that did not
// move the component records nothing.
func (s *Session) EndDrag(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.engine.EndDrag()
	if !ok || !res.Moved() {
		return false, nil
	}
	if err := s.update(res.ComponentID, func(c *layout.Component) {
		setOrigin(c, res.To)
	}); err != nil {
		return false, err
	}
	s.logger.Debug(ctx, "component moved", "id", res.ComponentID, "x", res.To.X, "y", res.To.Y)
	return true, nil
}

func setOrigin(c *layout.Component, p geometry.Point) {
	if c.Style == nil {
		c.Style = &layout.Style{}
	}
	if c.Style.Position == nil {
		c.Style.Position = &layout.Position{}
	}
	c.Style.Position.X = p.X
	c.Style.Position.Y = p.Y
}

// Insert creates a component of type t at a drop pointer position. Its zone
// is inferred from the drop height.
func (s *Session) Insert(ctx context.Context, t layout.Type, pointer geometry.Point) (layout.Component, error) {
	return s.insert(ctx, t, pointer, "")
}

func (s *Session) insert(ctx context.Context, t layout.Type, pointer geometry.Point, id string) (layout.Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := NewBody(t)
	if err != nil {
		return layout.Component{}, err
	}
	present := s.history.Present()
	if id == "" {
		id = nextID(present, t)
	} else if _, taken := layout.Find(present, id); taken {
		return layout.Component{}, errors.NewValidationError(errors.ErrCodeValidationFailed, "component id already in use: "+id)
	}
	drop := s.engine.DropAt(pointer)
	c := layout.Component{
		ID:    id,
		Zone:  drop.Zone,
		Style: &layout.Style{Position: &layout.Position{X: drop.Position.X, Y: drop.Position.Y}},
		Body:  body,
	}

	s.history.SetState(func(components []layout.Component) []layout.Component {
		out := layout.CloneAll(components)
		return append(out, c.Clone())
	})
	s.logger.Debug(ctx, "component inserted", "id", c.ID, "type", string(t), "zone", string(c.Zone))
	return c, nil
}

// NewBody returns the starting content for a freshly inserted component.
func NewBody(t layout.Type) (layout.Body, error) {
	switch t {
	case layout.TypeHeading:
		return &layout.Heading{Text: "New heading", Level: 2}, nil
	case layout.TypeText:
		return &layout.Text{Text: "New text"}, nil
	case layout.TypeList:
		return &layout.List{Items: []layout.ListItem{{Label: "Label"}}}, nil
	case layout.TypeTable:
		return &layout.Table{RowsBinding: "lines", Columns: []layout.Column{{Key: "description", Label: "Description"}}}, nil
	case layout.TypeDivider:
		return &layout.Divider{}, nil
	case layout.TypeSpacer:
		return &layout.Spacer{Size: 16}, nil
	case layout.TypeBox:
		return &layout.Box{}, nil
	case layout.TypeChips:
		return &layout.Chips{Items: []layout.Chip{{Label: "Chip"}}}, nil
	case layout.TypeImage:
		return &layout.Image{}, nil
	}
	return nil, errors.NewValidationError(errors.ErrCodeValidationFailed, fmt.Sprintf("cannot insert component of type %q", t))
}

func nextID(components []layout.Component, t layout.Type) string {
	used := make(map[string]bool)
	for _, id := range layout.IDs(components) {
		used[id] = true
	}
	for n := 1; ; n++ {
		id := string(t) + "-" + strconv.Itoa(n)
		if !used[id] {
			return id
		}
	}
}

// Update applies fn to a copy of component id and commits the result.
func (s *Session) Update(id string, fn func(c *layout.Component)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(id, fn)
}

func (s *Session) update(id string, fn func(c *layout.Component)) error {
	if _, ok := layout.Find(s.history.Present(), id); !ok {
		return errors.ErrComponentNotFound(id)
	}
	s.history.SetState(func(components []layout.Component) []layout.Component {
		out := layout.CloneAll(components)
		if c, ok := layout.Find(out, id); ok {
			fn(c)
		}
		return out
	})
	return nil
}

// Remove deletes component id wherever it is in the tree.
func (s *Session) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := layout.Find(s.history.Present(), id); !ok {
		return errors.ErrComponentNotFound(id)
	}
	s.history.SetState(func(components []layout.Component) []layout.Component {
		return without(components, id)
	})
	return nil
}

func without(components []layout.Component, id string) []layout.Component {
	out := make([]layout.Component, 0, len(components))
	for _, c := range components {
		if c.ID == id {
			continue
		}
		c = c.Clone()
		if box, ok := c.Body.(*layout.Box); ok {
			box.Children = without(box.Children, id)
		}
		out = append(out, c)
	}
	return out
}

// Reorder moves top-level component id to index, clamped to the valid range.
func (s *Session) Reorder(id string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	present := s.history.Present()
	from := -1
	for i, c := range present {
		if c.ID == id {
			from = i
		}
	}
	if from < 0 {
		return errors.ErrComponentNotFound(id)
	}
	index = max(0, min(index, len(present)-1))
	if index == from {
		return nil
	}
	s.history.SetState(func(components []layout.Component) []layout.Component {
		out := layout.CloneAll(components)
		moved := out[from]
		out = append(out[:from], out[from+1:]...)
		out = append(out[:index], append([]layout.Component{moved}, out[index:]...)...)
		return out
	})
	return nil
}

// ApplyForm regenerates the form-owned components and keeps the rest.
func (s *Session) ApplyForm(ctx context.Context, st form.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.SetState(func(components []layout.Component) []layout.Component {
		return form.Merge(st, components)
	})
	s.logger.Debug(ctx, "form applied")
}

// Form returns the form recovered from the current layout.
func (s *Session) Form() form.State {
	return form.FromLayout(s.history.Present())
}
