package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/conneroisu/docket/internal/preview"
)

// liveReloadScript reloads the page when the server announces a revision
// newer than the one the page was rendered at.
const liveReloadScript = `(function () {
  var served = %d;
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  function connect() {
    var ws = new WebSocket(scheme + location.host + "/ws");
    ws.onmessage = function (ev) {
      var msg = JSON.parse(ev.data);
      if (msg.generation > served) { location.reload(); }
    };
    ws.onclose = function () { setTimeout(connect, 1000); };
  }
  connect();
})();`

const statusStylesheet = `body{margin:0;font-family:Helvetica,Arial,sans-serif;background:#f3f4f6;color:#111827}` +
	`main{max-width:640px;margin:80px auto;padding:24px;background:#ffffff;border-radius:8px}` +
	`h1{font-size:20px;margin:0 0 12px 0}` +
	`pre{white-space:pre-wrap;margin:0;color:#4b5563}` +
	`.docket-status-error h1{color:#b91c1c}`

// statusPage is shown in place of a preview: nothing to render, a render
// that failed, or sources that could not be loaded.
func statusPage(kind, title, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		b.WriteString(templ.EscapeString("docket: " + title))
		b.WriteString(`</title><style>`)
		b.WriteString(statusStylesheet)
		b.WriteString(`</style></head><body class="docket-status docket-status-`)
		b.WriteString(templ.EscapeString(kind))
		b.WriteString(`"><main><h1>`)
		b.WriteString(templ.EscapeString(title))
		b.WriteString(`</h1><pre>`)
		b.WriteString(templ.EscapeString(message))
		b.WriteString(`</pre></main></body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// pageFor returns the document to show for the current state.
func (s *PreviewServer) pageFor(ctx context.Context) (string, error) {
	var page templ.Component

	s.sourceMutex.RLock()
	loadErr := s.loadErr
	s.sourceMutex.RUnlock()

	if loadErr != nil {
		page = statusPage("error", "Cannot load layout", loadErr.Error())
	} else {
		latest := s.driver.Latest()
		switch latest.Status {
		case preview.StatusReady:
			return latest.HTML, nil
		case preview.StatusEmpty:
			page = statusPage("empty", "Nothing to preview", "The layout has no components yet.")
		case preview.StatusError:
			page = statusPage("error", "Preview failed", latest.Error)
		default:
			page = statusPage("pending", "Rendering", "The preview is being rendered.")
		}
	}

	var buf bytes.Buffer
	if err := page.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// injectLiveReload appends the live reload script to the document body.
func injectLiveReload(doc string, revision uint64) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("parsing preview document: %w", err)
	}

	body := findElement(root, atom.Body)
	if body == nil {
		return "", fmt.Errorf("preview document has no body")
	}
	script := &html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
		Attr:     []html.Attribute{{Key: "data-docket", Val: "live-reload"}},
	}
	script.AppendChild(&html.Node{Type: html.TextNode, Data: fmt.Sprintf(liveReloadScript, revision)})
	body.AppendChild(script)

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("rendering preview document: %w", err)
	}
	return buf.String(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
