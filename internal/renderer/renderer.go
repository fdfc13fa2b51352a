// Package renderer turns layout components and a data object into HTML.
//
// Every component renders as a templ.Component. Rendering is pure: it never
// mutates the layout or the data, and binding misses degrade to empty output
// instead of errors.
package renderer

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/docket/internal/binding"
	"github.com/conneroisu/docket/internal/layout"
)

// ComponentRenderer renders components using a locale-aware formatter.
type ComponentRenderer struct {
	formatter *binding.Formatter
}

// NewComponentRenderer creates a renderer. A nil formatter uses the default
// German locale with euros.
func NewComponentRenderer(formatter *binding.Formatter) *ComponentRenderer {
	if formatter == nil {
		formatter = binding.DefaultFormatter
	}
	return &ComponentRenderer{formatter: formatter}
}

// Component returns the templ component for c. When usePositioning is true,
// components carrying a position are placed absolutely; others keep flowing.
func (r *ComponentRenderer) Component(c layout.Component, data any, usePositioning bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		r.write(ctx, hw, c, data, usePositioning)
		return hw.err
	})
}

// RenderComponent renders c to a string. Invisible components render as the
// empty string.
func (r *ComponentRenderer) RenderComponent(c layout.Component, data any, usePositioning bool) string {
	var sb strings.Builder
	_ = r.Component(c, data, usePositioning).Render(context.Background(), &sb)
	return sb.String()
}

func (r *ComponentRenderer) write(ctx context.Context, w *htmlWriter, c layout.Component, data any, usePositioning bool) {
	if !c.VisibleWhen.Matches(data) {
		return
	}

	attrs := componentAttrs{
		id:    c.ID,
		class: "dc dc-" + string(c.Type()),
		style: componentStyle(c.Style, usePositioning),
	}

	switch b := c.Body.(type) {
	case *layout.Heading:
		r.heading(w, attrs, b, data)
	case *layout.Text:
		w.element("p", attrs, binding.ApplyBindings(b.Text, data))
	case *layout.List:
		r.list(w, attrs, b, data)
	case *layout.Chips:
		r.chips(w, attrs, b, data)
	case *layout.Divider:
		w.void("hr", attrs)
	case *layout.Spacer:
		attrs.style = attrs.style.with("height", px(b.Size))
		w.element("div", attrs, "")
	case *layout.Image:
		r.image(w, attrs, b, data)
	case *layout.Box:
		r.box(ctx, w, attrs, b, data, usePositioning)
	case *layout.Table:
		r.table(w, attrs, b, data)
	case *layout.Unknown:
		attrs.class = "dc dc-unknown"
		text := binding.ApplyBindings(b.Text, data)
		if text == "" {
			text = b.Kind
		}
		w.element("p", attrs, text)
	case nil:
		w.element("p", attrs, "")
	}
}
