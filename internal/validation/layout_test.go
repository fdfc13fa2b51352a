package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/docket/internal/binding"
	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/layout"
)

func fields(list []*errors.FieldValidationError) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Field())
	}
	return out
}

func TestValidateLayoutAcceptsDefaults(t *testing.T) {
	l := layout.New([]layout.Component{
		{ID: "title", Zone: layout.ZoneHeader, Body: &layout.Heading{Text: "Invoice", Level: 1}},
		{ID: "logo", Zone: layout.ZoneHeader, Body: &layout.Image{URL: "https://example.com/logo.png"}},
		{ID: "lines", Body: &layout.Table{RowsBinding: "lines", Columns: []layout.Column{{Key: "sku", Label: "SKU"}}}},
	})

	r := ValidateLayout(l)
	assert.True(t, r.Valid())
	assert.NoError(t, r.Err())
	assert.Empty(t, r.Warnings)
}

func TestValidateLayoutDuplicateIDs(t *testing.T) {
	l := layout.New([]layout.Component{
		{ID: "a", Body: &layout.Text{Text: "x"}},
		{ID: "box", Body: &layout.Box{Children: []layout.Component{
			{ID: "a", Body: &layout.Text{Text: "nested"}},
			{ID: "a", Body: &layout.Text{Text: "third"}},
		}}},
		{Body: &layout.Divider{}},
	})

	r := ValidateLayout(l)
	require.False(t, r.Valid())
	assert.Equal(t, []string{"components.a.id", "components.<unnamed divider>.id"}, fields(r.Errors.Errors))

	err := r.Err()
	require.Error(t, err)
	var de *errors.DocketError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, errors.ErrCodeValidationFailed, de.Code)
}

func TestValidateLayoutZones(t *testing.T) {
	l := layout.New([]layout.Component{
		{ID: "a", Zone: "sidebar", Body: &layout.Text{Text: "x"}},
	})
	l.Zones = layout.ZoneSet{
		{Name: layout.ZoneHeader, Height: 35},
		{Name: layout.ZoneHeader, Height: 40},
		{Name: layout.ZoneFooter, Height: -1},
		{Name: "aside", Height: 10},
	}

	r := ValidateLayout(l)
	assert.ElementsMatch(t, []string{
		"zones[2].height",
		"zones[3].name",
		"zones",
		"zones",
		"components.a.zone",
	}, fields(r.Errors.Errors))
}

func TestValidateLayoutFlowSkipsPage(t *testing.T) {
	l := &layout.Layout{Flow: true, Components: []layout.Component{{ID: "a", Body: &layout.Text{Text: "x"}}}}
	assert.True(t, ValidateLayout(l).Valid())
}

func TestValidateLayoutComponentRules(t *testing.T) {
	neg := -2.0
	l := layout.New([]layout.Component{
		{ID: "h", Body: &layout.Heading{Text: "x", Level: 6}},
		{ID: "t", Body: &layout.Table{Columns: []layout.Column{{Label: "No key"}, {Key: "a"}, {Key: "a"}}, RowsBinding: "lines"}},
		{ID: "img", Body: &layout.Image{URL: "javascript:alert(1)"}},
		{ID: "bound", Body: &layout.Image{Binding: "company.logo"}},
		{ID: "p", Style: &layout.Style{Position: &layout.Position{X: -1, Y: 3}}, Body: &layout.Text{Text: "x"}},
		{ID: "w", Style: &layout.Style{Position: &layout.Position{X: 1, Y: 3, Width: &neg}}, Body: &layout.Text{Text: "x"}},
		{ID: "v", VisibleWhen: binding.Conditions{{Operator: binding.OpExists}}, Body: &layout.Text{Text: "x"}},
		{ID: "norows", Body: &layout.Table{Columns: []layout.Column{{Key: "a"}}}},
	})

	r := ValidateLayout(l)
	assert.ElementsMatch(t, []string{
		"components.t.columns[0].key",
		"components.img.url",
		"components.p.style.position",
		"components.w.style.position",
		"components.v.visibleWhen[0].field",
	}, fields(r.Errors.Errors))
	assert.ElementsMatch(t, []string{
		"components.h.level",
		"components.t.columns[2].key",
		"components.norows.rowsBinding",
	}, fields(r.Warnings))
}

func TestValidateLayoutUnknownTypeWarns(t *testing.T) {
	l, err := layout.Parse([]byte(`[{"id":"q","type":"qrcode","text":"scan"}]`))
	require.NoError(t, err)

	r := ValidateLayout(l)
	assert.True(t, r.Valid())
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, "components.q.type", r.Warnings[0].Field())
}

func TestValidateLayoutNil(t *testing.T) {
	r := ValidateLayout(nil)
	assert.False(t, r.Valid())
}
