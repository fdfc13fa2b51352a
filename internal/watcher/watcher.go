// Package watcher reports debounced changes to layout and data files.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/conneroisu/docket/internal/logging"
	"github.com/conneroisu/docket/internal/validation"
)

// FileWatcher watches files and hands batches of changes to its handlers.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	filters   []FileFilter
	handlers  []ChangeHandler
	files     map[string]struct{}
	logger    logging.Logger
	mutex     sync.RWMutex
	stopOnce  sync.Once
}

// ChangeEvent is one file change.
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
	Size    int64
}

// EventType is the kind of change.
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileFilter reports whether a path is of interest.
type FileFilter func(path string) bool

// ChangeHandler handles one debounced batch.
type ChangeHandler func(events []ChangeEvent) error

// Debouncer groups rapid changes into one batch per quiet period.
type Debouncer struct {
	delay   time.Duration
	events  chan ChangeEvent
	output  chan []ChangeEvent
	timer   *time.Timer
	pending []ChangeEvent
	mutex   sync.Mutex
}

// NewDebouncer creates a debouncer that emits a batch delay after the last
// event it received.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		events:  make(chan ChangeEvent, 100),
		output:  make(chan []ChangeEvent, 10),
		pending: make([]ChangeEvent, 0),
	}
}

// NewFileWatcher creates a watcher. It does nothing until Start.
func NewFileWatcher(debounceDelay time.Duration, logger logging.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &FileWatcher{
		watcher:   watcher,
		debouncer: NewDebouncer(debounceDelay),
		files:     make(map[string]struct{}),
		logger:    logger.WithComponent("watcher"),
	}, nil
}

// AddFilter adds a filter; a path must pass every filter.
func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.filters = append(fw.filters, filter)
}

// AddHandler adds a change handler.
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddPath watches a directory or a file directly.
func (fw *FileWatcher) AddPath(path string) error {
	cleanPath, err := fw.validatePath(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	return fw.watcher.Add(cleanPath)
}

// AddFile watches a single file. The parent directory is watched so that
// editors that save by rename are still seen; events for other files in it
// are dropped.
func (fw *FileWatcher) AddFile(path string) error {
	cleanPath, err := fw.validatePath(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	abs, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("getting absolute path: %w", err)
	}

	fw.mutex.Lock()
	_, known := fw.files[abs]
	fw.files[abs] = struct{}{}
	fw.mutex.Unlock()
	if known {
		return nil
	}
	return fw.watcher.Add(filepath.Dir(abs))
}

// Files returns the absolute paths registered with AddFile, sorted.
func (fw *FileWatcher) Files() []string {
	fw.mutex.RLock()
	defer fw.mutex.RUnlock()
	out := make([]string, 0, len(fw.files))
	for f := range fw.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (fw *FileWatcher) validatePath(path string) (string, error) {
	if err := validation.ValidatePath(path); err != nil {
		return "", err
	}
	return filepath.Clean(path), nil
}

// Start runs the watcher until ctx is done or Stop is called.
func (fw *FileWatcher) Start(ctx context.Context) error {
	go fw.debouncer.start(ctx)
	go fw.processEvents(ctx)
	go fw.watchLoop(ctx)
	return nil
}

// Stop releases the fsnotify watcher. It is safe to call more than once.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		fw.debouncer.stop()
		err = fw.watcher.Close()
	})
	return err
}

func (fw *FileWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleFsnotifyEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn(ctx, err, "File watcher error")
		}
	}
}

func (fw *FileWatcher) accepts(path string) bool {
	fw.mutex.RLock()
	defer fw.mutex.RUnlock()

	if len(fw.files) > 0 {
		abs, err := filepath.Abs(path)
		if err != nil {
			return false
		}
		if _, ok := fw.files[abs]; !ok {
			return false
		}
	}
	for _, filter := range fw.filters {
		if !filter(path) {
			return false
		}
	}
	return true
}

func (fw *FileWatcher) handleFsnotifyEvent(event fsnotify.Event) {
	if !fw.accepts(event.Name) {
		return
	}

	var modTime time.Time
	var size int64
	if info, err := os.Stat(event.Name); err == nil {
		modTime = info.ModTime()
		size = info.Size()
	}

	fw.debouncer.add(ChangeEvent{
		Type:    eventType(event.Op),
		Path:    event.Name,
		ModTime: modTime,
		Size:    size,
	})
}

func eventType(op fsnotify.Op) EventType {
	switch {
	case op.Has(fsnotify.Create):
		return EventTypeCreated
	case op.Has(fsnotify.Write):
		return EventTypeModified
	case op.Has(fsnotify.Remove):
		return EventTypeDeleted
	case op.Has(fsnotify.Rename):
		return EventTypeRenamed
	default:
		return EventTypeModified
	}
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case events := <-fw.debouncer.output:
			fw.mutex.RLock()
			handlers := fw.handlers
			fw.mutex.RUnlock()

			for _, handler := range handlers {
				if err := handler(events); err != nil {
					fw.logger.Error(ctx, err, "File watcher handler failed", "events", len(events))
				}
			}
		}
	}
}

func (d *Debouncer) start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			d.stop()
			return
		case event := <-d.events:
			d.addEvent(event)
		}
	}
}

// add queues an event without blocking; a full queue drops it.
func (d *Debouncer) add(event ChangeEvent) {
	select {
	case d.events <- event:
	default:
	}
}

func (d *Debouncer) addEvent(event ChangeEvent) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending = append(d.pending, event)
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *Debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = d.pending[:0]
}

func (d *Debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	events := Coalesce(d.pending)
	if len(events) == 0 {
		return
	}
	select {
	case d.output <- events:
	default:
	}
	d.pending = d.pending[:0]
}

// Coalesce keeps the last event per path, sorted by path.
func Coalesce(pending []ChangeEvent) []ChangeEvent {
	latest := make(map[string]ChangeEvent, len(pending))
	for _, event := range pending {
		latest[event.Path] = event
	}
	events := make([]ChangeEvent, 0, len(latest))
	for _, event := range latest {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
	return events
}

// LayoutFilter accepts layout and data files.
func LayoutFilter(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// NoEditorTempFilter drops swap and backup files editors write next to the
// file being edited.
func NoEditorTempFilter(path string) bool {
	base := filepath.Base(path)
	return !strings.HasPrefix(base, ".#") &&
		!strings.HasSuffix(base, "~") &&
		!strings.HasSuffix(base, ".swp") &&
		!strings.HasSuffix(base, ".swx")
}

// NoGitFilter drops anything inside a .git directory.
func NoGitFilter(path string) bool {
	slashed := filepath.ToSlash(path)
	return !strings.HasPrefix(slashed, ".git/") && !strings.Contains(slashed, "/.git/")
}
