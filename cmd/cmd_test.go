package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/docket/internal/form"
	"github.com/conneroisu/docket/internal/layout"
	"github.com/conneroisu/docket/internal/store"
	"github.com/conneroisu/docket/internal/testutils"
)

// resetFlags restores every flag of the command tree to its default so
// that values set by one test do not leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDocTypeValue(t *testing.T) {
	var v docTypeValue
	require.NoError(t, v.Set("Delivery-Docket"))
	assert.Equal(t, "delivery_docket", v.String())
	require.NoError(t, v.Set(""))
	assert.Equal(t, "", v.String())

	err := v.Set("receipt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoice")
	assert.Equal(t, "type", v.Type())
}

func TestInitWritesDefaultLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.yaml")

	out, err := execute(t, "init", "invoice", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote Invoice layout")

	l, err := store.ReadLayout(path)
	require.NoError(t, err)
	want, err := form.DefaultLayout(layout.Invoice)
	require.NoError(t, err)
	assert.Equal(t, layout.IDs(want.Components), layout.IDs(l.Components))

	_, err = execute(t, "init", "invoice", "-o", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "init", "quote", "-o", path, "--force", "--style", "modern")
	require.NoError(t, err)

	_, err = execute(t, "init", "receipt", "-o", filepath.Join(t.TempDir(), "x.json"))
	require.Error(t, err)
}

func TestRenderUsesSampleData(t *testing.T) {
	dir := t.TempDir()
	path := testutils.WriteLayout(t, dir, "invoice.json", testutils.SampleLayout())

	out, err := execute(t, "render", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "No. INV-2024-0142")
	assert.Contains(t, out, "Blumenhof KG")
}

func TestRenderWithDataFileAndStyle(t *testing.T) {
	dir := t.TempDir()
	path := testutils.WriteLayout(t, dir, "invoice.json", testutils.SampleLayout())
	data := testutils.WriteFile(t, dir, "data.yaml", "customer:\n  name: Anna Schmidt\n")
	target := filepath.Join(dir, "out.html")

	_, err := execute(t, "render", path, "-d", data, "--no-mock", "--style", "modern", "-o", target)
	require.NoError(t, err)

	html, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Anna Schmidt")
	assert.NotContains(t, string(html), "INV-2024-0142")
	assert.Contains(t, string(html), "#1f3a5f")

	_, err = execute(t, "render", path, "--style", "baroque")
	require.Error(t, err)
}

func TestRenderMockFillKeepsHiddenComponents(t *testing.T) {
	dir := t.TempDir()
	path := testutils.WriteFile(t, dir, "note.json", `[
		{"id": "name", "type": "text", "text": "{{customer.name}}"},
		{"id": "note", "type": "text", "text": "Discount applied",
		 "visibleWhen": {"field": "customer.discount", "operator": "exists"}}
	]`)
	data := testutils.WriteFile(t, dir, "data.json", `{"customer": {"name": "Real Co", "vip": true}}`)

	out, err := execute(t, "render", path, "-d", data)
	require.NoError(t, err)
	assert.Contains(t, out, "Real Co")
	assert.NotContains(t, out, "Discount applied")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := testutils.WriteLayout(t, dir, "good.json", testutils.SampleLayout())
	bad := testutils.WriteFile(t, dir, "bad.json", `[{"id": "a", "type": "text"}, {"id": "a", "type": "text"}]`)

	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "✅ "+good)

	out, err = execute(t, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, "❌ "+bad)
	assert.Contains(t, out, "2 checked, 1 valid, 1 invalid")

	out, err = execute(t, "validate", "--format", "json", bad)
	require.Error(t, err)
	var summary ValidationSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 1, summary.Invalid)
	assert.NotEmpty(t, summary.Results[0].Errors)
}

func TestFormExportAndApply(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "invoice.json")
	_, err := execute(t, "init", "invoice", "-o", full)
	require.NoError(t, err)

	formFile := filepath.Join(dir, "form.yaml")
	_, err = execute(t, "form", "export", full, "-o", formFile)
	require.NoError(t, err)
	raw, err := os.ReadFile(formFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "header:")

	custom := testutils.WriteFile(t, dir, "custom.json", `[{"id": "note", "type": "text", "text": "Handle with care"}]`)
	out, err := execute(t, "form", "apply", custom, formFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Applied form to "+custom)

	l, err := store.ReadLayout(custom)
	require.NoError(t, err)
	ids := layout.IDs(l.Components)
	assert.Contains(t, ids, "note")
	assert.Contains(t, ids, form.IDHeading)
	assert.Contains(t, ids, form.IDMainTable)
}

func TestEditCommand(t *testing.T) {
	dir := t.TempDir()
	path := testutils.WriteLayout(t, dir, "invoice.json", testutils.SampleLayout())
	ops := testutils.WriteFile(t, dir, "ops.json", `[
		{"op": "insert", "type": "text", "x": 20, "y": 120},
		{"op": "remove", "id": "customer"}
	]`)
	target := filepath.Join(dir, "edited.json")

	out, err := execute(t, "edit", path, ops, "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 2 operations")

	l, err := store.ReadLayout(target)
	require.NoError(t, err)
	ids := layout.IDs(l.Components)
	assert.Contains(t, ids, "text-1")
	assert.NotContains(t, ids, "customer")

	untouched, err := store.ReadLayout(path)
	require.NoError(t, err)
	assert.Contains(t, layout.IDs(untouched.Components), "customer")

	bad := testutils.WriteFile(t, dir, "bad.json", `[{"op": "remove", "id": "ghost"}]`)
	_, err = execute(t, "edit", path, bad, "-o", target)
	require.Error(t, err)
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets", "invoice", "--format", "json")
	require.NoError(t, err)
	var presets []layout.Preset
	require.NoError(t, json.Unmarshal([]byte(out), &presets))
	assert.Len(t, presets, 3)

	out, err = execute(t, "presets")
	require.NoError(t, err)
	for _, dt := range layout.DocumentTypes() {
		assert.Contains(t, out, string(dt))
	}

	_, err = execute(t, "presets", "--format", "xml")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))

	out, err = execute(t, "version", "--format", "json")
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "go_version")
}
