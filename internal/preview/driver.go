// Package preview drives debounced re-rendering of a layout for live preview.
//
// Every Schedule call resets a single timer; only the render scheduled last
// runs. A generation counter discards results that were overtaken by a newer
// Schedule, and Close discards anything still in flight.
package preview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/conneroisu/docket/internal/layout"
	"github.com/conneroisu/docket/internal/logging"
	"github.com/conneroisu/docket/internal/mockdata"
	"github.com/conneroisu/docket/internal/renderer"
)

// DefaultDebounce is the delay between the last change and the render.
const DefaultDebounce = 300 * time.Millisecond

// Status distinguishes the states a preview can be in.
type Status int

const (
	// StatusEmpty means there is nothing to preview.
	StatusEmpty Status = iota
	// StatusPending means a render is scheduled but has not finished.
	StatusPending
	// StatusReady means HTML holds a rendered document.
	StatusReady
	// StatusError means rendering failed; Err holds the cause.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of one render.
type Result struct {
	Status     Status    `json:"status"`
	HTML       string    `json:"html,omitempty"`
	Error      string    `json:"error,omitempty"`
	Err        error     `json:"-"`
	Generation uint64    `json:"generation"`
	RenderedAt time.Time `json:"renderedAt"`
}

// RenderFunc renders a layout against data into an HTML document.
type RenderFunc func(ctx context.Context, l *layout.Layout, data map[string]any) (string, error)

// Config holds the driver settings.
type Config struct {
	Debounce time.Duration
	// DocumentType selects the sample data used when no data is given.
	DocumentType layout.DocumentType
	// MockData fills binding paths the data does not resolve.
	MockData bool
	Options  renderer.DocumentOptions
}

// Driver schedules preview renders.
type Driver struct {
	mu         sync.Mutex
	cfg        Config
	render     RenderFunc
	generator  *mockdata.Generator
	onResult   func(Result)
	logger     logging.Logger
	timer      *time.Timer
	generation uint64
	mounted    bool
	latest     Result
}

// Option configures a Driver.
type Option func(*Driver)

// WithRenderFunc replaces the document renderer.
func WithRenderFunc(fn RenderFunc) Option {
	return func(d *Driver) { d.render = fn }
}

// WithOnResult registers a callback for every result that is not discarded.
// It runs on the timer goroutine, outside the driver's lock.
func WithOnResult(fn func(Result)) Option {
	return func(d *Driver) { d.onResult = fn }
}

// WithGenerator sets the mock data generator.
func WithGenerator(g *mockdata.Generator) Option {
	return func(d *Driver) { d.generator = g }
}

// NewDriver creates a mounted driver.
func NewDriver(cfg Config, r *renderer.ComponentRenderer, logger logging.Logger, opts ...Option) *Driver {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if r == nil {
		r = renderer.NewComponentRenderer(nil)
	}
	d := &Driver{
		cfg:       cfg,
		generator: mockdata.NewDefaultGenerator(),
		logger:    logger.WithComponent("preview"),
		mounted:   true,
	}
	d.render = func(ctx context.Context, l *layout.Layout, data map[string]any) (string, error) {
		return r.RenderDocument(ctx, l, data, d.cfg.Options)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Schedule queues a render of l against data, cancelling any render that has
// not started yet. The layout and data are snapshotted when the timer fires,
// so callers must not mutate them afterwards; pass clones if in doubt.
func (d *Driver) Schedule(l *layout.Layout, data map[string]any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.mounted {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	gen := d.generation
	if d.latest.Status != StatusReady {
		d.latest = Result{Status: StatusPending, Generation: gen}
	}
	d.timer = time.AfterFunc(d.cfg.Debounce, func() {
		d.run(context.Background(), gen, l, data)
	})
}

// Render renders immediately, bypassing the debounce. A result overtaken by
// a later Schedule or Render is still returned but not published.
func (d *Driver) Render(ctx context.Context, l *layout.Layout, data map[string]any) Result {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	gen := d.generation
	d.mu.Unlock()

	return d.run(ctx, gen, l, data)
}

func (d *Driver) run(ctx context.Context, gen uint64, l *layout.Layout, data map[string]any) Result {
	if !d.current(gen) {
		return Result{Status: StatusPending, Generation: gen}
	}

	res := d.produce(ctx, l, data)
	res.Generation = gen

	d.mu.Lock()
	if !d.mounted || gen != d.generation {
		d.mu.Unlock()
		d.logger.Debug(ctx, "Discarding stale preview", "generation", gen)
		return res
	}
	d.latest = res
	onResult := d.onResult
	d.mu.Unlock()

	if onResult != nil {
		onResult(res)
	}
	return res
}

func (d *Driver) current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mounted && gen == d.generation
}

// produce renders with the render boundary: a panic becomes an error result.
func (d *Driver) produce(ctx context.Context, l *layout.Layout, data map[string]any) (res Result) {
	if l == nil || len(l.Components) == 0 {
		return Result{Status: StatusEmpty, RenderedAt: time.Now()}
	}

	perf := logging.StartOperation(d.logger, "preview_render")
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("preview render panicked: %v", r)
			perf.EndWithError(ctx, err)
			res = Result{Status: StatusError, Err: err, Error: err.Error(), RenderedAt: time.Now()}
		}
	}()

	data = d.prepare(data, l)
	html, err := d.render(ctx, l, data)
	if err != nil {
		perf.EndWithError(ctx, err)
		return Result{Status: StatusError, Err: err, Error: err.Error(), RenderedAt: time.Now()}
	}
	perf.End(ctx)
	return Result{Status: StatusReady, HTML: html, RenderedAt: time.Now()}
}

func (d *Driver) prepare(data map[string]any, l *layout.Layout) map[string]any {
	if data == nil && d.cfg.DocumentType.Valid() {
		if sample, err := mockdata.Sample(d.cfg.DocumentType); err == nil {
			data = sample
		}
	}
	if !d.cfg.MockData {
		return data
	}
	if data == nil {
		data = map[string]any{}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generator.FillMissing(data, layout.BindingPaths(l.Components))
}

// Latest returns the most recent published result.
func (d *Driver) Latest() Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest
}

// Mounted reports whether Close has not been called.
func (d *Driver) Mounted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mounted
}

// Close stops the pending timer and discards any render still in flight.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mounted = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
