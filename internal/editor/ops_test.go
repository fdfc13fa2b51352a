package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/layout"
)

func TestApplyScript(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	ops, err := ParseOps([]byte(`[
	  {"op": "insert", "type": "image", "id": "logo", "x": 151, "y": 12},
	  {"op": "move", "id": "intro", "x": 31, "y": 62},
	  {"op": "update", "id": "title", "text": "Rechnung", "style": {"bold": true}},
	  {"op": "update", "id": "intro", "style": {"italic": true}, "visibleWhen": {"field": "notes", "operator": "exists"}},
	  {"op": "remove", "id": "box"},
	  {"op": "reorder", "id": "logo", "index": 0},
	  {"op": "insert", "type": "divider", "x": 0, "y": 150},
	  {"op": "undo"},
	  {"op": "redo"},
	  {"op": "apply_form", "form": {"header": {"enabled": true, "title": "Quote", "level": 1}}}
	]`))
	require.NoError(t, err)
	require.NoError(t, s.Apply(ctx, ops))

	components := s.Components()
	ids := layout.IDs(components)
	assert.Equal(t, []string{"heading", "logo", "title", "intro", "divider-1"}, ids)

	logo, _ := layout.Find(components, "logo")
	assert.Equal(t, layout.ZoneHeader, logo.Zone)
	assert.InDelta(t, 150, logo.Position().X, 1e-9)
	assert.InDelta(t, 10, logo.Position().Y, 1e-9)

	intro, _ := layout.Find(components, "intro")
	assert.True(t, intro.Style.Italic)
	require.NotNil(t, intro.Position(), "style updates keep the position")
	assert.InDelta(t, 30, intro.Position().X, 1e-9)
	assert.InDelta(t, 60, intro.Position().Y, 1e-9)
	assert.Len(t, intro.VisibleWhen, 1)

	title, _ := layout.Find(components, "title")
	assert.Equal(t, "Rechnung", title.Body.(*layout.Heading).Text, "unmanaged ids survive the form merge")
	assert.True(t, title.Style.Bold)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	err := s.Apply(ctx, []Op{
		{Op: OpRemove, ID: "intro"},
		{Op: OpRemove, ID: "ghost"},
		{Op: OpRemove, ID: "title"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operation 1 (remove)")
	assert.Equal(t, []string{"title", "box", "inner"}, layout.IDs(s.Components()))

	assert.Error(t, s.Apply(ctx, []Op{{Op: "explode"}}))
	assert.Error(t, s.Apply(ctx, []Op{{Op: OpApplyForm}}))
	assert.Error(t, s.Apply(ctx, []Op{{Op: OpInsert, Type: layout.TypeText, ID: "title"}}), "ids stay unique")
}

func TestParseOpsError(t *testing.T) {
	_, err := ParseOps([]byte(`{"op":"undo"}`))
	require.Error(t, err)
	var de *errors.DocketError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, errors.ErrCodeLayoutParse, de.Code)
}
