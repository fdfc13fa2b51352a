package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/form"
	"github.com/conneroisu/docket/internal/geometry"
	"github.com/conneroisu/docket/internal/layout"
	"github.com/conneroisu/docket/internal/logging"
)

func screen(x, y float64) geometry.Point {
	return geometry.NewViewport(geometry.Point{}, 1).ToScreen(geometry.Point{X: x, Y: y})
}

func sampleLayout() *layout.Layout {
	return layout.New([]layout.Component{
		{ID: "title", Zone: layout.ZoneHeader, Body: &layout.Heading{Text: "Invoice", Level: 1}},
		{ID: "intro", Body: &layout.Text{Text: "Hello"}},
		{ID: "box", Body: &layout.Box{Children: []layout.Component{
			{ID: "inner", Body: &layout.Text{Text: "inside"}},
		}}},
	})
}

func newSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(sampleLayout(), DefaultConfig(), logging.NewNopLogger())
}

func TestNewSessionCopiesLayout(t *testing.T) {
	l := sampleLayout()
	s := NewSession(l, DefaultConfig(), nil)

	l.Components[0].ID = "changed"
	assert.Equal(t, "title", s.Components()[0].ID)
	assert.False(t, s.CanUndo())
}

func TestDragCommitsOneHistoryEntry(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	require.NoError(t, s.StartDrag("intro", screen(15, 35)))
	for _, p := range []geometry.Point{screen(20, 40), screen(40, 80), screen(63, 102)} {
		_, ok := s.DragMove(p)
		require.True(t, ok)
	}
	id, live, ok := s.DragPosition()
	require.True(t, ok)
	assert.Equal(t, "intro", id)
	assert.InDelta(t, 65, live.X, 1e-9)
	assert.False(t, s.CanUndo(), "moves are previews")

	moved, err := s.EndDrag(ctx)
	require.NoError(t, err)
	assert.True(t, moved)

	c, _ := layout.Find(s.Components(), "intro")
	require.NotNil(t, c.Position())
	assert.InDelta(t, 65, c.Position().X, 1e-9)
	assert.InDelta(t, 100, c.Position().Y, 1e-9)

	require.True(t, s.Undo())
	assert.False(t, s.CanUndo())
	c, _ = layout.Find(s.Components(), "intro")
	assert.Nil(t, c.Position())
}

func TestDragWithoutMovementRecordsNothing(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.StartDrag("title", screen(15, 15)))
	moved, err := s.EndDrag(context.Background())
	require.NoError(t, err)
	assert.False(t, moved)
	assert.False(t, s.CanUndo())
}

func TestStartDragUnknownComponent(t *testing.T) {
	err := newSession(t).StartDrag("ghost", screen(0, 0))
	var de *errors.DocketError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, errors.ErrCodeComponentNotFound, de.Code)
}

func TestInsertInfersZoneAndSnaps(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	c, err := s.Insert(ctx, layout.TypeText, screen(13, 288))
	require.NoError(t, err)
	assert.Equal(t, "text-1", c.ID)
	assert.Equal(t, layout.ZoneFooter, c.Zone)
	assert.InDelta(t, 15, c.Position().X, 1e-9)
	assert.InDelta(t, 290, c.Position().Y, 1e-9)

	c, err = s.Insert(ctx, layout.TypeText, screen(50, 10))
	require.NoError(t, err)
	assert.Equal(t, "text-2", c.ID)
	assert.Equal(t, layout.ZoneHeader, c.Zone)

	_, err = s.Insert(ctx, "sparkline", screen(0, 0))
	assert.Error(t, err)

	assert.Len(t, s.Components(), 5)
	s.Undo()
	s.Undo()
	assert.Len(t, s.Components(), 3)
}

func TestUpdateRemoveReorder(t *testing.T) {
	s := newSession(t)

	require.NoError(t, s.Update("inner", func(c *layout.Component) {
		c.Body.(*layout.Text).Text = "changed"
	}))
	inner, _ := layout.Find(s.Components(), "inner")
	assert.Equal(t, "changed", inner.Body.(*layout.Text).Text)

	require.NoError(t, s.Remove("inner"))
	_, found := layout.Find(s.Components(), "inner")
	assert.False(t, found)

	require.NoError(t, s.Reorder("box", 0))
	assert.Equal(t, []string{"box", "title", "intro"}, layout.IDs(s.Components()))

	require.NoError(t, s.Reorder("box", 99))
	assert.Equal(t, []string{"title", "intro", "box"}, layout.IDs(s.Components()))

	assert.Error(t, s.Update("nope", func(*layout.Component) {}))
	assert.Error(t, s.Remove("nope"))
	assert.Error(t, s.Reorder("inner", 0), "only top-level components reorder")

	for s.CanUndo() {
		s.Undo()
	}
	assert.Equal(t, sampleLayout().Components, s.Components())
}

func TestApplyFormKeepsCustomComponents(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	st, err := form.Default(layout.Invoice)
	require.NoError(t, err)

	s.ApplyForm(ctx, st)

	ids := layout.IDs(s.Components())
	assert.Contains(t, ids, "intro")
	assert.Contains(t, ids, form.IDMainTable)
	assert.Equal(t, "Invoice", s.Form().Header.Title)
	assert.True(t, s.CanUndo())
}

func TestLoadResetsHistory(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	require.NoError(t, s.Remove("intro"))
	require.True(t, s.CanUndo())

	require.NoError(t, s.LoadJSON(ctx, []byte(`[{"id":"only","type":"divider"}]`)))
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
	assert.False(t, s.Undo())
	assert.Equal(t, []string{"only"}, layout.IDs(s.Components()))
	assert.True(t, s.Layout().Flow)

	assert.Error(t, s.LoadJSON(ctx, []byte(`{`)))
	assert.Equal(t, []string{"only"}, layout.IDs(s.Components()))
}

func TestOnChange(t *testing.T) {
	var seen [][]string
	cfg := DefaultConfig()
	cfg.OnChange = func(components []layout.Component) {
		seen = append(seen, layout.IDs(components))
	}
	s := NewSession(sampleLayout(), cfg, nil)

	require.NoError(t, s.Remove("intro"))
	s.Undo()

	require.Len(t, seen, 2)
	assert.NotContains(t, seen[0], "intro")
	assert.Contains(t, seen[1], "intro")
}

func TestLayoutKeepsFrame(t *testing.T) {
	l := sampleLayout()
	l.Margins.Left = 20
	s := NewSession(l, DefaultConfig(), nil)

	out := s.Layout()
	assert.Equal(t, 20.0, out.Margins.Left)
	assert.Len(t, out.Components, 3)
}
