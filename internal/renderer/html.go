package renderer

import (
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/docket/internal/geometry"
	"github.com/conneroisu/docket/internal/layout"
)

// htmlWriter remembers the first write error so rendering code can stay
// linear.
type htmlWriter struct {
	w   io.Writer
	err error
	// pageLayer is set while rendering a positioned page. Positioned
	// descendants of a box are then drawn on the page itself, since their
	// coordinates are relative to the page origin.
	pageLayer bool
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

func (hw *htmlWriter) attr(name, value string) {
	hw.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (hw *htmlWriter) startTag(tag string, a componentAttrs) {
	hw.raw("<" + tag)
	if a.id != "" {
		hw.attr("data-id", a.id)
	}
	if a.class != "" {
		hw.attr("class", a.class)
	}
	if css := a.style.String(); css != "" {
		hw.attr("style", css)
	}
}

// open writes a complete start tag.
func (hw *htmlWriter) open(tag string, a componentAttrs) {
	hw.startTag(tag, a)
	hw.raw(">")
}

func (hw *htmlWriter) close(tag string) {
	hw.raw("</" + tag + ">")
}

func (hw *htmlWriter) element(tag string, a componentAttrs, text string) {
	hw.open(tag, a)
	hw.text(text)
	hw.close(tag)
}

func (hw *htmlWriter) void(tag string, a componentAttrs) {
	hw.open(tag, a)
}

type componentAttrs struct {
	id    string
	class string
	style cssDecls
}

// cssDecls is an ordered list of CSS declarations.
type cssDecls []cssDecl

type cssDecl struct {
	prop  string
	value string
}

// with returns a copy with prop set. Empty values are ignored.
func (d cssDecls) with(prop, value string) cssDecls {
	value = cssValue(value)
	if value == "" {
		return d
	}
	out := make(cssDecls, 0, len(d)+1)
	replaced := false
	for _, decl := range d {
		if decl.prop == prop {
			decl.value = value
			replaced = true
		}
		out = append(out, decl)
	}
	if !replaced {
		out = append(out, cssDecl{prop: prop, value: value})
	}
	return out
}

func (d cssDecls) get(prop string) string {
	for _, decl := range d {
		if decl.prop == prop {
			return decl.value
		}
	}
	return ""
}

func (d cssDecls) String() string {
	var sb strings.Builder
	for _, decl := range d {
		sb.WriteString(decl.prop)
		sb.WriteByte(':')
		sb.WriteString(decl.value)
		sb.WriteByte(';')
	}
	return sb.String()
}

// cssValue drops characters that could end a declaration or the attribute.
func cssValue(v string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"', '\\':
			return -1
		}
		return r
	}, v))
}

func px(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', 2, 64) + "px"
}

func mmToPx(mm float64) string {
	return px(geometry.MMToPx(mm))
}

// componentStyle converts a component style to CSS declarations. The
// position is applied only when usePositioning is set.
func componentStyle(s *layout.Style, usePositioning bool) cssDecls {
	var d cssDecls
	if s == nil {
		return d
	}
	if usePositioning && s.Position != nil {
		p := s.Position
		d = d.with("position", "absolute").
			with("left", mmToPx(p.X)).
			with("top", mmToPx(p.Y))
		if p.Width != nil {
			d = d.with("width", mmToPx(*p.Width))
		}
		if p.Height != nil {
			d = d.with("min-height", mmToPx(*p.Height))
		}
	}
	if s.FontSize > 0 {
		d = d.with("font-size", px(s.FontSize))
	}
	if s.Bold {
		d = d.with("font-weight", "bold")
	}
	if s.Italic {
		d = d.with("font-style", "italic")
	}
	return d.with("color", s.Color).
		with("background", s.Background).
		with("text-align", s.TextAlign).
		with("padding", s.Padding.CSS()).
		with("margin", s.Margin.CSS()).
		with("border", s.Border)
}
