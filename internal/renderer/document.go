package renderer

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/docket/internal/geometry"
	"github.com/conneroisu/docket/internal/layout"
)

// DocumentOptions controls the surrounding HTML document.
type DocumentOptions struct {
	// Title is written to the document head.
	Title string
	// Lang is the html lang attribute.
	Lang string
}

const baseStylesheet = `*{box-sizing:border-box}` +
	`body{margin:0;font-family:Helvetica,Arial,sans-serif;font-size:12px;color:#111827;background:#ffffff}` +
	`.dc-heading{margin:0 0 4px 0}` +
	`.dc-text{margin:0 0 4px 0}` +
	`.dc-table th,.dc-table td{padding:4px 6px;border-bottom:1px solid #e5e7eb}` +
	`.dc-table th{font-weight:bold}` +
	`.dc-divider{border:0;border-top:1px solid #9ca3af;margin:6px 0}` +
	`.dc-chips{display:flex;flex-wrap:wrap;gap:4px}` +
	`.dc-chip{display:inline-block;padding:2px 8px;border-radius:9999px;font-size:11px}` +
	`.dc-image-placeholder{display:flex;align-items:center;justify-content:center;background:#f3f4f6;color:#6b7280;min-height:40px}` +
	`.zone{overflow:hidden}`

// Document renders a complete, self-contained HTML document. A layout with
// any positioned component renders as a fixed-size page with absolute
// placement; otherwise components flow zone by zone.
func (r *ComponentRenderer) Document(l *layout.Layout, data any, opts DocumentOptions) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		positioned := l.UsesPositioning()

		lang := opts.Lang
		if lang == "" {
			lang = r.formatter.Locale().String()
		}
		hw.raw("<!DOCTYPE html><html")
		hw.attr("lang", lang)
		hw.raw(`><head><meta charset="utf-8">`)
		if opts.Title != "" {
			hw.raw("<title>")
			hw.text(opts.Title)
			hw.raw("</title>")
		}
		hw.raw("<style>")
		hw.raw(baseStylesheet)
		hw.raw(pageRule(l.PageSize))
		hw.raw("</style></head><body>")
		if hw.err != nil {
			return hw.err
		}

		var body templ.Component
		if positioned {
			body = r.positionedPage(l, data)
		} else {
			body = r.flowPage(l, data)
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}

		hw.raw("</body></html>")
		return hw.err
	})
}

// RenderDocument renders the document to a string.
func (r *ComponentRenderer) RenderDocument(ctx context.Context, l *layout.Layout, data any, opts DocumentOptions) (string, error) {
	var sb strings.Builder
	if err := r.Document(l, data, opts).Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func pageRule(page geometry.PageSize) string {
	return "@page{size:" + mm(page.Width) + " " + mm(page.Height) + ";margin:0}"
}

func mm(v float64) string {
	return strings.TrimSuffix(strings.TrimSuffix(px(v), "px"), ".00") + "mm"
}

// byZone groups top-level components by zone, preserving order.
func byZone(components []layout.Component) map[layout.Zone][]layout.Component {
	out := make(map[layout.Zone][]layout.Component, 3)
	for _, c := range components {
		z := c.EffectiveZone()
		if !z.Valid() {
			z = layout.ZoneBody
		}
		out[z] = append(out[z], c)
	}
	return out
}

var zoneTags = map[layout.Zone]string{
	layout.ZoneHeader: "header",
	layout.ZoneBody:   "main",
	layout.ZoneFooter: "footer",
}

func (r *ComponentRenderer) flowPage(l *layout.Layout, data any) templ.Component {
	zones := byZone(l.Components)
	sections := make([]templ.Component, 0, 5)
	sections = append(sections, templ.Raw(`<div class="document" style="padding:`+mmToPx(l.Margins.Top)+" "+mmToPx(l.Margins.Right)+" "+mmToPx(l.Margins.Bottom)+" "+mmToPx(l.Margins.Left)+`">`))
	for _, z := range layout.Zones() {
		sections = append(sections, r.zoneSection(z, zones[z], data, cssDecls{}, false))
	}
	sections = append(sections, templ.Raw("</div>"))
	return templ.Join(sections...)
}

func (r *ComponentRenderer) positionedPage(l *layout.Layout, data any) templ.Component {
	zones := byZone(l.Components)
	page := cssDecls{}.
		with("position", "relative").
		with("width", mmToPx(l.PageSize.Width)).
		with("height", mmToPx(l.PageSize.Height)).
		with("overflow", "hidden")

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w, pageLayer: true}
		hw.open("div", componentAttrs{class: "page", style: page})
		for _, z := range layout.Zones() {
			var flow []layout.Component
			for _, c := range zones[z] {
				if c.Position() == nil {
					flow = append(flow, c)
				}
			}
			top := layout.ZoneTop(z, l.Zones, l.Margins, l.PageSize)
			height := l.Zones.Height(z)
			if z == layout.ZoneHeader {
				height -= l.Margins.Top
			}
			frame := cssDecls{}.
				with("position", "absolute").
				with("left", mmToPx(l.Margins.Left)).
				with("top", mmToPx(top)).
				with("width", mmToPx(geometry.ContentWidth(l.PageSize, l.Margins))).
				with("height", mmToPx(max(height, 0)))
			if hw.err == nil {
				hw.err = r.zoneSection(z, flow, data, frame, true).Render(ctx, w)
			}
		}
		for _, z := range layout.Zones() {
			for _, c := range positionedIn(zones[z], data) {
				r.write(ctx, hw, c, data, true)
			}
		}
		hw.close("div")
		return hw.err
	})
}

// positionedIn returns the positioned components at any depth of the tree,
// in document order. Descendants of an invisible component are left out.
func positionedIn(components []layout.Component, data any) []layout.Component {
	var out []layout.Component
	for _, c := range components {
		if !c.VisibleWhen.Matches(data) {
			continue
		}
		if c.Position() != nil {
			out = append(out, c)
		}
		if b, ok := c.Body.(*layout.Box); ok {
			out = append(out, positionedIn(b.Children, data)...)
		}
	}
	return out
}

func (r *ComponentRenderer) zoneSection(z layout.Zone, components []layout.Component, data any, style cssDecls, positioned bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		tag := zoneTags[z]
		hw := &htmlWriter{w: w, pageLayer: positioned}
		hw.open(tag, componentAttrs{class: "zone zone-" + string(z), style: style})
		for _, c := range components {
			r.write(ctx, hw, c, data, positioned)
		}
		hw.close(tag)
		return hw.err
	})
}
