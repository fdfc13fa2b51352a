package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/docket/internal/config"
	"github.com/conneroisu/docket/internal/layout"
)

func TestCreateTempProject(t *testing.T) {
	projectDir := CreateTempProject(t)

	for _, dir := range []string{"layouts", "data", ".docket/templates"} {
		info, err := os.Stat(filepath.Join(projectDir, dir))
		require.NoError(t, err, "directory %s should exist", dir)
		assert.True(t, info.IsDir())
	}
}

func TestWriteLayoutParses(t *testing.T) {
	dir := t.TempDir()
	path := WriteLayout(t, dir, "layouts/invoice.json", SampleLayout())
	AssertFilePermissions(t, path, 0644)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	l, err := layout.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "number", "customer", "lines"}, layout.IDs(l.Components))
}

func TestCreateTestConfigIsValid(t *testing.T) {
	cfg := CreateTestConfig(t.TempDir())
	require.NoError(t, config.Validate(cfg))
	assert.Equal(t, layout.Invoice, cfg.DocumentType())
}

func TestWaitFor(t *testing.T) {
	start := time.Now()
	WaitFor(t, time.Second, func() bool { return time.Since(start) > 30*time.Millisecond }, "clock advances")
}
