package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/layout"
)

func sampleLayout() *layout.Layout {
	return layout.New([]layout.Component{
		{ID: "title", Zone: layout.ZoneHeader, Body: &layout.Heading{Text: "Invoice", Level: 1}},
		{ID: "intro", Zone: layout.ZoneBody, Body: &layout.Text{Text: "Hello {{customer.name}}"}},
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "templates"))
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "invoice", sampleLayout()))

	raw, err := os.ReadFile(filepath.Join(s.Dir(), "invoice.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"pageSize\"")

	got, err := s.Load(ctx, "invoice")
	require.NoError(t, err)
	assert.Equal(t, sampleLayout(), got)

	// Overwrite keeps a single file and no temp leftovers.
	next := sampleLayout()
	next.Components = next.Components[:1]
	require.NoError(t, s.Save(ctx, "invoice", next))
	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got, err = s.Load(ctx, "invoice")
	require.NoError(t, err)
	assert.Len(t, got.Components, 1)
}

func TestLoadYAML(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	data, err := layout.MarshalYAML(sampleLayout())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "quote.yaml"), data, 0o644))

	got, err := s.Load(ctx, "quote")
	require.NoError(t, err)
	require.Len(t, got.Components, 2)
	assert.Equal(t, "intro", got.Components[1].ID)
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Load(ctx, "missing")
	de, ok := errors.AsDocketError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeFileNotFound, de.Code)

	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "broken.json"), []byte("{"), 0o644))
	_, err = s.Load(ctx, "broken")
	de, ok = errors.AsDocketError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeLayoutParse, de.Code)
	assert.Equal(t, filepath.Join(s.Dir(), "broken.json"), de.FilePath)

	_, err = s.Load(ctx, "../escape")
	assert.True(t, errors.IsValidationError(err))
	assert.True(t, errors.IsValidationError(s.Save(ctx, "a/b", sampleLayout())))
	assert.True(t, errors.IsValidationError(s.Save(ctx, "nil", nil)))
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "quote", sampleLayout()))
	require.NoError(t, s.Save(ctx, "invoice", sampleLayout()))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "invoice.yaml"), []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "sub.json"), 0o755))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"invoice", "quote"}, names)

	require.NoError(t, s.Delete(ctx, "invoice"))
	require.NoError(t, s.Delete(ctx, "invoice"))
	names, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"quote"}, names)
}
