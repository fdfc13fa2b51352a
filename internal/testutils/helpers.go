// Package testutils holds fixtures shared by package tests: temporary
// projects with layout and data files, a ready configuration, and polling.
package testutils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/conneroisu/docket/internal/config"
	"github.com/conneroisu/docket/internal/layout"
)

// CreateTempProject creates a temporary project directory with the
// directories a docket project uses.
func CreateTempProject(t *testing.T) string {
	tempDir := t.TempDir()

	dirs := []string{
		"layouts",
		"data",
		".docket/templates",
	}

	for _, dir := range dirs {
		err := os.MkdirAll(filepath.Join(tempDir, dir), 0755)
		require.NoError(t, err)
	}

	return tempDir
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// WriteLayout writes l as JSON to dir/name and returns the path.
func WriteLayout(t *testing.T, dir, name string, l *layout.Layout) string {
	data, err := json.MarshalIndent(l, "", "  ")
	require.NoError(t, err)
	return WriteFile(t, dir, name, string(data))
}

// WriteData writes a data object as JSON to dir/name and returns the path.
func WriteData(t *testing.T, dir, name string, data map[string]any) string {
	raw, err := json.MarshalIndent(data, "", "  ")
	require.NoError(t, err)
	return WriteFile(t, dir, name, string(raw))
}

// CreateTestConfig returns a valid configuration rooted in projectDir with a
// short preview debounce.
func CreateTestConfig(projectDir string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host: "localhost",
			Port: 8080,
			Open: false,
		},
		Document: config.DocumentConfig{
			Type:     string(layout.Invoice),
			Locale:   "de-DE",
			Currency: "EUR",
		},
		Preview: config.PreviewConfig{
			Debounce: 20 * time.Millisecond,
			MockData: config.MockDataAuto,
		},
		Editor: config.EditorConfig{
			MaxHistory: 50,
			GridSize:   5,
			SnapToGrid: true,
			Zoom:       1,
		},
		Templates: config.TemplatesConfig{
			Dir: filepath.Join(projectDir, ".docket", "templates"),
		},
		Log: config.LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SampleLayout returns a small structured invoice layout: a bound heading,
// a customer line and a table over lines.
func SampleLayout() *layout.Layout {
	return layout.New([]layout.Component{
		{ID: "title", Zone: layout.ZoneHeader, Body: &layout.Heading{Text: "Invoice", Level: 1}},
		{ID: "number", Zone: layout.ZoneHeader, Body: &layout.Text{Text: "No. {{invoice.number}}"}},
		{ID: "customer", Body: &layout.Text{Text: "{{customer.name}}"}},
		{ID: "lines", Body: &layout.Table{
			RowsBinding: "lines",
			Columns: []layout.Column{
				{Key: "description", Label: "Description"},
				{Key: "quantity", Label: "Qty", Align: "right"},
			},
		}},
	})
}

// SecurityTestCases provides common hostile inputs.
var SecurityTestCases = struct {
	PathTraversal   []string
	ScriptInjection []string
}{
	PathTraversal: []string{
		"../../../etc/passwd",
		"..\\..\\..\\windows\\system32\\config\\sam",
		"/./../../etc/passwd",
		"../../../../../etc/passwd",
		"layouts/../../secret.json",
	},
	ScriptInjection: []string{
		"<script>alert('xss')</script>",
		"<img src=x onerror=alert('xss')>",
		"javascript:alert('xss')",
		"<svg onload=alert('xss')>",
	},
}

// AssertFilePermissions checks the permission bits of path.
func AssertFilePermissions(t *testing.T, path string, expectedMode os.FileMode) {
	info, err := os.Stat(path)
	require.NoError(t, err)

	actualMode := info.Mode()
	require.Equal(t, expectedMode, actualMode&os.FileMode(0777),
		"File %s has incorrect permissions: got %o, want %o",
		path, actualMode&os.FileMode(0777), expectedMode)
}

// WaitFor polls cond until it holds or timeout passes.
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("condition not met within %v: %s", timeout, msg)
}
