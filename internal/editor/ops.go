package editor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/conneroisu/docket/internal/binding"
	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/form"
	"github.com/conneroisu/docket/internal/geometry"
	"github.com/conneroisu/docket/internal/layout"
)

// Operation kinds accepted in scripts.
const (
	OpMove      = "move"
	OpInsert    = "insert"
	OpUpdate    = "update"
	OpRemove    = "remove"
	OpReorder   = "reorder"
	OpApplyForm = "apply_form"
	OpUndo      = "undo"
	OpRedo      = "redo"
)

// Op is one scripted edit. Coordinates are document millimetres; they are
// converted to pointer positions and replayed through the drag engine.
type Op struct {
	Op          string             `json:"op"`
	ID          string             `json:"id,omitempty"`
	Type        layout.Type        `json:"type,omitempty"`
	X           float64            `json:"x,omitempty"`
	Y           float64            `json:"y,omitempty"`
	Index       int                `json:"index,omitempty"`
	Text        *string            `json:"text,omitempty"`
	Zone        layout.Zone        `json:"zone,omitempty"`
	Style       *layout.Style      `json:"style,omitempty"`
	VisibleWhen binding.Conditions `json:"visibleWhen,omitempty"`
	Form        *form.State        `json:"form,omitempty"`
}

// ParseOps decodes a JSON array of operations.
func ParseOps(data []byte) ([]Op, error) {
	var ops []Op
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, errors.WrapIO(err, errors.ErrCodeLayoutParse, "cannot parse edit operations")
	}
	return ops, nil
}

// Apply runs ops in order and stops at the first failure.
func (s *Session) Apply(ctx context.Context, ops []Op) error {
	for i, op := range ops {
		if err := s.applyOne(ctx, op); err != nil {
			return fmt.Errorf("operation %d (%s): %w", i, op.Op, err)
		}
	}
	return nil
}

func (s *Session) screen(x, y float64) geometry.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	vp := geometry.NewViewport(geometry.Point{}, s.cfg.Zoom)
	s.engine.SetViewport(vp)
	return vp.ToScreen(geometry.Point{X: x, Y: y})
}

func (s *Session) applyOne(ctx context.Context, op Op) error {
	switch op.Op {
	case OpMove:
		s.mu.Lock()
		origin, ok := s.origin(s.history.Present(), op.ID)
		s.mu.Unlock()
		if !ok {
			return errors.ErrComponentNotFound(op.ID)
		}
		if err := s.StartDrag(op.ID, s.screen(origin.X, origin.Y)); err != nil {
			return err
		}
		s.DragMove(s.screen(op.X, op.Y))
		_, err := s.EndDrag(ctx)
		return err

	case OpInsert:
		_, err := s.insert(ctx, op.Type, s.screen(op.X, op.Y), op.ID)
		return err

	case OpUpdate:
		return s.Update(op.ID, func(c *layout.Component) {
			if op.Text != nil {
				setText(c, *op.Text)
			}
			if op.Zone != "" {
				c.Zone = op.Zone
			}
			if op.Style != nil {
				pos := c.Position()
				c.Style = op.Style.Clone()
				if c.Style.Position == nil {
					c.Style.Position = pos.Clone()
				}
			}
			if op.VisibleWhen != nil {
				c.VisibleWhen = append(binding.Conditions(nil), op.VisibleWhen...)
			}
		})

	case OpRemove:
		return s.Remove(op.ID)

	case OpReorder:
		return s.Reorder(op.ID, op.Index)

	case OpApplyForm:
		if op.Form == nil {
			return errors.NewValidationError(errors.ErrCodeValidationFailed, "apply_form requires a form")
		}
		s.ApplyForm(ctx, *op.Form)
		return nil

	case OpUndo:
		s.Undo()
		return nil

	case OpRedo:
		s.Redo()
		return nil
	}
	return errors.NewValidationError(errors.ErrCodeValidationFailed, fmt.Sprintf("unknown operation %q", op.Op))
}

// setText changes the text of text-bearing components.
func setText(c *layout.Component, text string) {
	switch b := c.Body.(type) {
	case *layout.Heading:
		b.Text = text
	case *layout.Text:
		b.Text = text
	case *layout.Unknown:
		b.Text = text
	}
}
