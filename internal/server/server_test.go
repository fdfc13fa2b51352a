package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ws "github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/docket/internal/config"
	"github.com/conneroisu/docket/internal/layout"
	"github.com/conneroisu/docket/internal/preview"
	"github.com/conneroisu/docket/internal/testutils"
	"github.com/conneroisu/docket/internal/websocket"
)

func newTestServer(t *testing.T, cfg *config.Config) (*PreviewServer, *httptest.Server) {
	t.Helper()
	s, err := New(cfg, nil)
	require.NoError(t, err)
	srv := httptest.NewServer(s)
	t.Cleanup(func() {
		srv.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s, srv
}

func projectWithLayout(t *testing.T, l *layout.Layout) (*config.Config, string) {
	dir := testutils.CreateTempProject(t)
	cfg := testutils.CreateTestConfig(dir)
	cfg.Document.Layout = testutils.WriteLayout(t, dir, "layouts/invoice.json", l)
	return cfg, cfg.Document.Layout
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func send(t *testing.T, method, url string, body []byte) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(out)
}

func TestHealth(t *testing.T) {
	_, srv := newTestServer(t, testutils.CreateTestConfig(t.TempDir()))

	resp, body := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var health map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.NotEmpty(t, health["version"])
}

func TestIndexServesPreviewWithLiveReload(t *testing.T) {
	cfg, _ := projectWithLayout(t, testutils.SampleLayout())
	s, srv := newTestServer(t, cfg)

	res := s.Refresh(context.Background())
	require.Equal(t, preview.StatusReady, res.Status, res.Error)

	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No. INV-2024-0142")
	assert.Contains(t, body, "Blumenhof KG")
	assert.Contains(t, body, `data-docket="live-reload"`)
	assert.Contains(t, body, "var served = 1;")
}

func TestIndexWithoutLayoutUsesDefault(t *testing.T) {
	cfg := testutils.CreateTestConfig(t.TempDir())
	cfg.Document.Type = string(layout.Quote)
	s, srv := newTestServer(t, cfg)

	require.Equal(t, preview.StatusReady, s.Refresh(context.Background()).Status)
	_, body := get(t, srv.URL+"/")
	assert.Contains(t, body, "Q-2024-0093")
}

func TestIndexDistinguishesEmptyAndLoadError(t *testing.T) {
	cfg, path := projectWithLayout(t, layout.New(nil))
	s, srv := newTestServer(t, cfg)

	assert.Equal(t, preview.StatusEmpty, s.Refresh(context.Background()).Status)
	_, body := get(t, srv.URL+"/")
	assert.Contains(t, body, "Nothing to preview")
	assert.NotContains(t, body, "Cannot load layout")

	require.NoError(t, os.WriteFile(path, []byte(`{"components": [`), 0o644))
	assert.Equal(t, preview.StatusError, s.Refresh(context.Background()).Status)
	_, body = get(t, srv.URL+"/")
	assert.Contains(t, body, "Cannot load layout")

	_, body = get(t, srv.URL+"/api/preview")
	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.NotEmpty(t, resp["loadError"])
	assert.Equal(t, "empty", resp["status"])
}

func TestWatchedLayoutChangeRerenders(t *testing.T) {
	cfg, path := projectWithLayout(t, testutils.SampleLayout())
	s, _ := newTestServer(t, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.Equal(t, preview.StatusReady, s.Refresh(ctx).Status)
	require.NoError(t, s.setupFileWatcher(ctx))

	changed := testutils.SampleLayout()
	changed.Components[0].Body = &layout.Heading{Text: "Proforma", Level: 1}
	testutils.WriteLayout(t, filepath.Dir(path), filepath.Base(path), changed)

	testutils.WaitFor(t, 3*time.Second, func() bool {
		return strings.Contains(s.driver.Latest().HTML, "Proforma")
	}, "preview picks up the edited layout")
}

func TestWebSocketAnnouncesRevisions(t *testing.T) {
	cfg, _ := projectWithLayout(t, testutils.SampleLayout())
	cfg.Server.AllowedOrigins = []string{"http://example.test"}
	s, srv := newTestServer(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	conn, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", &ws.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{"http://example.test"}},
	})
	require.NoError(t, err)
	defer conn.Close(ws.StatusNormalClosure, "")

	testutils.WaitFor(t, time.Second, func() bool { return s.hub.ConnectedClients() == 1 }, "client registered")
	s.Refresh(ctx)

	_, raw, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg websocket.UpdateMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, websocket.MessagePreview, msg.Type)
	assert.Equal(t, uint64(1), msg.Generation)
	assert.Empty(t, msg.Content)
}

func TestWebSocketRejectsUnknownOrigin(t *testing.T) {
	_, srv := newTestServer(t, testutils.CreateTestConfig(t.TempDir()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, resp, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", &ws.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{"http://evil.test"}},
	})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRenderAPI(t *testing.T) {
	_, srv := newTestServer(t, testutils.CreateTestConfig(t.TempDir()))

	l, err := json.Marshal(testutils.SampleLayout())
	require.NoError(t, err)
	body, err := json.Marshal(map[string]any{
		"layout":   json.RawMessage(l),
		"data":     map[string]any{"customer": map[string]any{"name": "Anna <Ltd>"}},
		"mockData": false,
	})
	require.NoError(t, err)

	resp, out := send(t, http.MethodPost, srv.URL+"/api/render", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, out, "Anna &lt;Ltd&gt;")
	assert.NotContains(t, out, "INV-2024-0142")

	resp, _ = send(t, http.MethodPost, srv.URL+"/api/render", []byte(`{"layout": 7}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = send(t, http.MethodPost, srv.URL+"/api/render", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRenderAPIFillsMockData(t *testing.T) {
	_, srv := newTestServer(t, testutils.CreateTestConfig(t.TempDir()))

	body := []byte(`{"layout": [{"id": "mail", "type": "text", "text": "{{contact.email}}"}], "data": {}}`)
	resp, out := send(t, http.MethodPost, srv.URL+"/api/render", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, out, "@example.")
}

func TestValidateAPI(t *testing.T) {
	_, srv := newTestServer(t, testutils.CreateTestConfig(t.TempDir()))

	body := []byte(`[{"id": "a", "type": "text", "text": "x"}, {"id": "a", "type": "heading", "text": "y", "level": 9}]`)
	resp, out := send(t, http.MethodPost, srv.URL+"/api/validate", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report validateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Valid)
	assert.NotEmpty(t, report.Errors)
	assert.NotEmpty(t, report.Warnings)

	resp, _ = send(t, http.MethodPost, srv.URL+"/api/validate", []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDocumentTypeRoutes(t *testing.T) {
	_, srv := newTestServer(t, testutils.CreateTestConfig(t.TempDir()))

	resp, body := get(t, srv.URL+"/api/sample/delivery-docket")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "DD-2024-0377")

	resp, _ = get(t, srv.URL+"/api/sample/bogus")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = get(t, srv.URL+"/api/layouts/default/quote?format=yaml")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
	l, err := layout.ParseYAML([]byte(body))
	require.NoError(t, err)
	assert.NotEmpty(t, l.Components)

	resp, body = get(t, srv.URL+"/api/presets/invoice")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var presets []layout.Preset
	require.NoError(t, json.Unmarshal([]byte(body), &presets))
	assert.Len(t, presets, 3)
}

func TestTemplatesAPI(t *testing.T) {
	_, srv := newTestServer(t, testutils.CreateTestConfig(t.TempDir()))

	l, err := json.Marshal(testutils.SampleLayout())
	require.NoError(t, err)

	resp, _ := send(t, http.MethodPut, srv.URL+"/api/templates/mine", l)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, body := get(t, srv.URL+"/api/templates")
	assert.JSONEq(t, `{"templates": ["mine"]}`, body)

	resp, body = get(t, srv.URL+"/api/templates/mine")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	loaded, err := layout.Parse([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, layout.IDs(testutils.SampleLayout().Components), layout.IDs(loaded.Components))

	invalid := []byte(`[{"id": "x", "type": "text"}, {"id": "x", "type": "text"}]`)
	resp, _ = send(t, http.MethodPut, srv.URL+"/api/templates/broken", invalid)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = send(t, http.MethodDelete, srv.URL+"/api/templates/mine", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = get(t, srv.URL+"/api/templates/mine")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestShutdownIsIdempotent(t *testing.T) {
	s, err := New(testutils.CreateTestConfig(t.TempDir()), nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Shutdown(ctx))
	require.NoError(t, s.Shutdown(ctx))
	assert.False(t, s.driver.Mounted())
	assert.True(t, s.hub.IsShutdown())
}
