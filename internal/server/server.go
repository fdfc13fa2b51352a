// Package server serves the live preview of one layout: the rendered
// document, a JSON API around the layout tooling, and a websocket that tells
// browsers when a newer preview exists.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/conneroisu/docket/internal/config"
	"github.com/conneroisu/docket/internal/form"
	"github.com/conneroisu/docket/internal/layout"
	"github.com/conneroisu/docket/internal/logging"
	"github.com/conneroisu/docket/internal/mockdata"
	"github.com/conneroisu/docket/internal/preview"
	"github.com/conneroisu/docket/internal/renderer"
	"github.com/conneroisu/docket/internal/store"
	"github.com/conneroisu/docket/internal/validation"
	"github.com/conneroisu/docket/internal/watcher"
	"github.com/conneroisu/docket/internal/websocket"
)

const watchDelay = 100 * time.Millisecond

// browserCommands are the only executables openBrowser may start.
var browserCommands = map[string]bool{"xdg-open": true, "open": true, "rundll32": true}

// PreviewServer watches a layout and its data and serves the latest preview.
type PreviewServer struct {
	cfg         *config.Config
	docType     layout.DocumentType
	logger      logging.Logger
	router      chi.Router
	httpServer  *http.Server
	serverMutex sync.RWMutex

	hub      *websocket.Manager
	driver   *preview.Driver
	renderer *renderer.ComponentRenderer
	watcher  *watcher.FileWatcher
	store    store.TemplateStore
	options  renderer.DocumentOptions

	// source is the layout and data last read from disk.
	sourceMutex sync.RWMutex
	layout      *layout.Layout
	data        map[string]any
	loadErr     error

	// revision increases with every message sent to browsers; pages embed
	// it so a replayed message does not trigger a reload.
	stateMutex sync.RWMutex
	revision   uint64

	shutdownOnce sync.Once
}

// New builds a server for cfg. The layout and data paths come from
// cfg.Document; an empty layout path previews the document type's default
// layout and an empty data path previews its sample data.
func New(cfg *config.Config, logger logging.Logger) (*PreviewServer, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.WithComponent("server")

	formatter, err := cfg.Formatter()
	if err != nil {
		return nil, err
	}
	templates, err := store.NewFileStore(cfg.Templates.Dir)
	if err != nil {
		return nil, err
	}

	docType := cfg.DocumentType()
	s := &PreviewServer{
		cfg:      cfg,
		docType:  docType,
		logger:   logger,
		renderer: renderer.NewComponentRenderer(formatter),
		store:    templates,
		options: renderer.DocumentOptions{
			Title: docType.Title(),
			Lang:  formatter.Locale().String(),
		},
	}

	s.hub = websocket.NewManager(websocket.AllowedOrigins(s.allowedOrigins()), logger)
	s.driver = preview.NewDriver(preview.Config{
		Debounce:     cfg.Preview.Debounce,
		DocumentType: docType,
		MockData:     cfg.MockDataEnabled(),
		Options:      s.options,
	}, s.renderer, logger, preview.WithOnResult(s.publishResult))

	if cfg.Document.Layout != "" || cfg.Document.Data != "" {
		s.watcher, err = watcher.NewFileWatcher(watchDelay, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create file watcher: %w", err)
		}
	}

	s.setupRoutes()
	return s, nil
}

func (s *PreviewServer) allowedOrigins() []string {
	origins := append([]string(nil), s.cfg.Server.AllowedOrigins...)
	port := strconv.Itoa(s.cfg.Server.Port)
	for _, host := range []string{s.cfg.Server.Host, "localhost", "127.0.0.1"} {
		origins = append(origins, net.JoinHostPort(host, port))
	}
	return origins
}

func (s *PreviewServer) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.logger))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.hub.HandleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Get("/preview", s.handlePreview)
		r.Post("/render", s.handleRender)
		r.Post("/validate", s.handleValidate)
		r.Get("/sample/{type}", s.handleSample)
		r.Get("/layouts/default/{type}", s.handleDefaultLayout)
		r.Get("/presets/{type}", s.handlePresets)

		r.Get("/templates", s.handleListTemplates)
		r.Get("/templates/{name}", s.handleLoadTemplate)
		r.Put("/templates/{name}", s.handleSaveTemplate)
		r.Delete("/templates/{name}", s.handleDeleteTemplate)
	})

	s.router = r
}

func (s *PreviewServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start loads the sources, renders the first preview, starts watching and
// serves until Shutdown.
func (s *PreviewServer) Start(ctx context.Context) error {
	s.Refresh(ctx)

	if err := s.setupFileWatcher(ctx); err != nil {
		s.logger.Warn(ctx, err, "File watching disabled")
	}

	addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	if s.cfg.Server.Open {
		go s.openBrowser(ctx, "http://"+addr)
	}

	s.logger.Info(ctx, "Preview server listening", "addr", addr, "type", string(s.docType))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (s *PreviewServer) setupFileWatcher(ctx context.Context) error {
	if s.watcher == nil {
		return nil
	}
	s.watcher.AddFilter(watcher.LayoutFilter)
	s.watcher.AddFilter(watcher.NoEditorTempFilter)
	s.watcher.AddFilter(watcher.NoGitFilter)
	s.watcher.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, e := range events {
			s.logger.Debug(ctx, "Source changed", "path", e.Path, "event", e.Type.String())
		}
		s.Reload(ctx)
		return nil
	})

	for _, path := range []string{s.cfg.Document.Layout, s.cfg.Document.Data} {
		if path == "" {
			continue
		}
		if err := s.watcher.AddFile(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
	}
	return s.watcher.Start(ctx)
}

// Refresh re-reads the sources and renders them immediately.
func (s *PreviewServer) Refresh(ctx context.Context) preview.Result {
	s.load(ctx)
	l, data, err := s.source()
	if err != nil {
		return preview.Result{Status: preview.StatusError, Err: err, Error: err.Error(), RenderedAt: time.Now()}
	}
	return s.driver.Render(ctx, l, data)
}

// Reload re-reads the layout and data files and schedules a debounced
// render. A file that cannot be read or parsed is reported to browsers
// instead; the previous preview is kept.
func (s *PreviewServer) Reload(ctx context.Context) {
	s.load(ctx)
	l, data, err := s.source()
	if err != nil {
		return
	}
	s.driver.Schedule(l, data)
}

func (s *PreviewServer) load(ctx context.Context) {
	l, data, err := s.readSources()

	s.sourceMutex.Lock()
	s.loadErr = err
	if err == nil {
		s.layout, s.data = l, data
	}
	s.sourceMutex.Unlock()

	if err != nil {
		s.logger.Error(ctx, err, "Cannot load preview sources")
		s.publish(websocket.UpdateMessage{Type: websocket.MessageError, Error: err.Error()})
	}
}

func (s *PreviewServer) readSources() (*layout.Layout, map[string]any, error) {
	var (
		l   *layout.Layout
		err error
	)
	if s.cfg.Document.Layout != "" {
		l, err = store.ReadLayout(s.cfg.Document.Layout)
	} else {
		l, err = form.DefaultLayout(s.docType)
	}
	if err != nil {
		return nil, nil, err
	}

	var data map[string]any
	if s.cfg.Document.Data != "" {
		if data, err = store.ReadData(s.cfg.Document.Data); err != nil {
			return nil, nil, err
		}
	}
	return l, data, nil
}

// source returns copies of the current layout and data, or the load error.
func (s *PreviewServer) source() (*layout.Layout, map[string]any, error) {
	s.sourceMutex.RLock()
	defer s.sourceMutex.RUnlock()
	if s.loadErr != nil {
		return nil, nil, s.loadErr
	}
	if s.layout == nil {
		return nil, nil, nil
	}
	return s.layout.Clone(), mockdata.Clone(s.data), nil
}

func (s *PreviewServer) publishResult(res preview.Result) {
	msg := websocket.UpdateMessage{Type: websocket.MessagePreview}
	switch res.Status {
	case preview.StatusEmpty:
		msg.Type = websocket.MessageEmpty
	case preview.StatusError:
		msg.Type = websocket.MessageError
		msg.Error = res.Error
	}
	s.publish(msg)
}

// publish stamps msg with the next revision and sends it to every browser.
// Preview HTML is not sent; browsers reload and fetch the page.
func (s *PreviewServer) publish(msg websocket.UpdateMessage) {
	s.stateMutex.Lock()
	s.revision++
	msg.Generation = s.revision
	s.stateMutex.Unlock()

	msg.Timestamp = time.Now()
	s.hub.Broadcast(msg)
}

func (s *PreviewServer) currentRevision() uint64 {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.revision
}

// Shutdown stops the preview driver, the watcher, the websocket hub and the
// HTTP server. It is safe to call more than once.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.driver.Close()
		if s.watcher != nil {
			if werr := s.watcher.Stop(); werr != nil {
				s.logger.Warn(ctx, werr, "Failed to stop file watcher")
			}
		}
		if herr := s.hub.Shutdown(ctx); herr != nil {
			s.logger.Warn(ctx, herr, "Failed to shut down websocket hub")
		}

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()
		if server != nil {
			err = server.Shutdown(ctx)
		}
	})
	return err
}

func (s *PreviewServer) openBrowser(ctx context.Context, url string) {
	time.Sleep(100 * time.Millisecond)

	if err := validation.ValidateURL(url); err != nil {
		s.logger.Warn(ctx, err, "Browser open failed due to invalid URL")
		return
	}

	var name string
	var args []string
	switch runtime.GOOS {
	case "linux":
		name, args = "xdg-open", []string{url}
	case "windows":
		name, args = "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		name, args = "open", []string{url}
	default:
		s.logger.Warn(ctx, nil, "Cannot open browser on this platform", "os", runtime.GOOS)
		return
	}
	if err := validation.ValidateCommand(name, browserCommands); err != nil {
		s.logger.Warn(ctx, err, "Browser command rejected")
		return
	}
	if err := exec.Command(name, args...).Start(); err != nil {
		s.logger.Warn(ctx, err, "Failed to open browser")
	}
}
