package renderer

import (
	"context"
	"reflect"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/docket/internal/binding"
	"github.com/conneroisu/docket/internal/layout"
)

// DefaultChipColor is the pill background when a chip has no color.
const DefaultChipColor = "#e5e7eb"

func (r *ComponentRenderer) heading(w *htmlWriter, attrs componentAttrs, h *layout.Heading, data any) {
	w.element("h"+strconv.Itoa(clampLevel(h.Level)), attrs, binding.ApplyBindings(h.Text, data))
}

func clampLevel(level int) int {
	switch {
	case level < 1:
		return 1
	case level > 4:
		return 4
	}
	return level
}

// listEntry combines a label with its bound value. An item with neither
// yields the empty string.
func (r *ComponentRenderer) listEntry(item layout.ListItem, data any) string {
	label := binding.ApplyBindings(item.Label, data)
	value := ""
	if item.Binding != "" {
		value = r.formatter.Format(binding.ResolvePath(data, item.Binding), item.Format)
	}
	switch {
	case label != "" && value != "":
		return label + ": " + value
	case value != "":
		return value
	default:
		return label
	}
}

func (r *ComponentRenderer) list(w *htmlWriter, attrs componentAttrs, l *layout.List, data any) {
	attrs.style = attrs.style.with("list-style", "none").with("padding", "0").with("margin", "0")
	w.open("ul", attrs)
	for _, item := range l.Items {
		if entry := r.listEntry(item, data); entry != "" {
			w.raw("<li>")
			w.text(entry)
			w.raw("</li>")
		}
	}
	w.close("ul")
}

func (r *ComponentRenderer) chips(w *htmlWriter, attrs componentAttrs, c *layout.Chips, data any) {
	w.open("div", attrs)
	for _, item := range c.Items {
		color := item.Color
		if color == "" {
			color = DefaultChipColor
		}
		pill := componentAttrs{
			class: "dc-chip",
			style: cssDecls{}.with("background", color),
		}
		w.element("span", pill, binding.ApplyBindings(item.Label, data))
	}
	w.close("div")
}

func (r *ComponentRenderer) image(w *htmlWriter, attrs componentAttrs, img *layout.Image, data any) {
	attrs.style = attrs.style.with("width", img.Width.CSS()).with("height", img.Height.CSS())

	src := img.URL
	if src == "" && img.Binding != "" {
		src = binding.Stringify(binding.ResolvePath(data, img.Binding))
	}
	if src == "" {
		attrs.class += " dc-image-placeholder"
		w.element("div", attrs, "Image")
		return
	}

	w.open("img", attrs)
	w.attr("src", imageSource(src))
	w.attr("alt", attrs.id)
	w.raw(">")
}

// imageSource allows inline data images and otherwise applies templ's URL
// sanitisation.
func imageSource(src string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(src)), "data:image/") {
		return src
	}
	return string(templ.URL(src))
}

func (r *ComponentRenderer) box(ctx context.Context, w *htmlWriter, attrs componentAttrs, b *layout.Box, data any, usePositioning bool) {
	if attrs.style.get("border") == "" {
		attrs.style = attrs.style.with("border", "1px solid #d1d5db")
	}
	if attrs.style.get("padding") == "" {
		attrs.style = attrs.style.with("padding", "8px")
	}
	w.open("div", attrs)
	for _, child := range b.Children {
		if w.pageLayer && usePositioning && child.Position() != nil {
			continue
		}
		r.write(ctx, w, child, data, usePositioning)
	}
	w.close("div")
}

func (r *ComponentRenderer) table(w *htmlWriter, attrs componentAttrs, t *layout.Table, data any) {
	attrs.style = attrs.style.with("width", "100%").with("border-collapse", "collapse")
	rows := toRows(binding.ResolvePath(data, t.RowsBinding))

	w.open("table", attrs)
	if t.HeaderVisible() {
		w.raw("<thead><tr>")
		for _, col := range t.Columns {
			w.element("th", cellAttrs(col), col.Label)
		}
		w.raw("</tr></thead>")
	}
	w.raw("<tbody>")
	for _, row := range rows {
		w.raw("<tr>")
		for _, col := range t.Columns {
			value := binding.ResolvePath(row, layout.ColumnBinding(col))
			w.element("td", cellAttrs(col), r.formatter.Format(value, col.Format))
		}
		w.raw("</tr>")
	}
	w.raw("</tbody>")
	w.close("table")
}

func cellAttrs(col layout.Column) componentAttrs {
	return componentAttrs{style: cssDecls{}.with("text-align", col.Align)}
}

// toRows converts a resolved rowsBinding value to rows. Anything that is not
// a list yields no rows.
func toRows(v any) []any {
	switch rows := v.(type) {
	case nil:
		return nil
	case []any:
		return rows
	case []map[string]any:
		out := make([]any, len(rows))
		for i, row := range rows {
			out[i] = row
		}
		return out
	case string, []byte:
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
