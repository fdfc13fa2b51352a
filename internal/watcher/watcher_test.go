package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "created", EventTypeCreated.String())
	assert.Equal(t, "modified", EventTypeModified.String())
	assert.Equal(t, "deleted", EventTypeDeleted.String())
	assert.Equal(t, "renamed", EventTypeRenamed.String())
	assert.Equal(t, "unknown", EventType(42).String())
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter FileFilter
		path   string
		want   bool
	}{
		{"json layout", LayoutFilter, "layouts/invoice.json", true},
		{"yaml layout", LayoutFilter, "invoice.YAML", true},
		{"yml data", LayoutFilter, "data.yml", true},
		{"html", LayoutFilter, "out.html", false},
		{"plain file", NoEditorTempFilter, "invoice.json", true},
		{"emacs lock", NoEditorTempFilter, ".#invoice.json", false},
		{"backup", NoEditorTempFilter, "invoice.json~", false},
		{"vim swap", NoEditorTempFilter, ".invoice.json.swp", false},
		{"git object", NoGitFilter, "repo/.git/index", false},
		{"git root", NoGitFilter, ".git/HEAD", false},
		{"normal", NoGitFilter, "repo/invoice.json", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter(tt.path))
		})
	}
}

func TestCoalesce(t *testing.T) {
	events := Coalesce([]ChangeEvent{
		{Path: "b.json", Type: EventTypeCreated},
		{Path: "a.json", Type: EventTypeModified},
		{Path: "b.json", Type: EventTypeModified},
	})
	require.Len(t, events, 2)
	assert.Equal(t, "a.json", events[0].Path)
	assert.Equal(t, "b.json", events[1].Path)
	assert.Equal(t, EventTypeModified, events[1].Type)

	assert.Empty(t, Coalesce(nil))
}

func TestDebouncerBatchesBursts(t *testing.T) {
	d := NewDebouncer(40 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.start(ctx)

	d.add(ChangeEvent{Path: "layout.json", Type: EventTypeModified})
	d.add(ChangeEvent{Path: "layout.json", Type: EventTypeModified})
	d.add(ChangeEvent{Path: "data.json", Type: EventTypeCreated})

	select {
	case batch := <-d.output:
		require.Len(t, batch, 2)
		assert.Equal(t, "data.json", batch[0].Path)
		assert.Equal(t, "layout.json", batch[1].Path)
	case <-time.After(2 * time.Second):
		t.Fatal("no batch")
	}

	assert.Never(t, func() bool { return len(d.output) > 0 }, 120*time.Millisecond, 10*time.Millisecond)
}

func TestFileWatcherAddPathValidation(t *testing.T) {
	fw, err := NewFileWatcher(10*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	assert.Error(t, fw.AddPath("../../etc"))
	assert.Error(t, fw.AddFile(""))
	assert.NoError(t, fw.AddPath(t.TempDir()))
}

func TestFileWatcherReportsWatchedFileOnly(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "invoice.json")
	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(target, []byte(`[]`), 0o644))

	fw, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	batches := make(chan []ChangeEvent, 10)
	fw.AddFilter(LayoutFilter)
	fw.AddHandler(func(events []ChangeEvent) error {
		batches <- events
		return nil
	})
	require.NoError(t, fw.AddFile(target))
	require.NoError(t, fw.AddFile(target))

	abs, err := filepath.Abs(target)
	require.NoError(t, err)
	assert.Equal(t, []string{abs}, fw.Files())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, fw.Start(ctx))

	require.NoError(t, os.WriteFile(other, []byte(`{}`), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(target, []byte(`[{"id":"a"}]`), 0o644))
	}

	select {
	case batch := <-batches:
		require.NotEmpty(t, batch)
		for _, ev := range batch {
			assert.Equal(t, target, ev.Path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestFileWatcherStopTwice(t *testing.T) {
	fw, err := NewFileWatcher(10*time.Millisecond, nil)
	require.NoError(t, err)
	assert.NoError(t, fw.Stop())
	assert.NoError(t, fw.Stop())
}
