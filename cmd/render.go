package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/docket/internal/config"
	"github.com/conneroisu/docket/internal/layout"
	"github.com/conneroisu/docket/internal/logging"
	"github.com/conneroisu/docket/internal/mockdata"
	"github.com/conneroisu/docket/internal/renderer"
	"github.com/conneroisu/docket/internal/store"
)

var (
	renderDoc    documentFlags
	renderOutput string
	renderStyle  string
)

var renderCmd = &cobra.Command{
	Use:   "render <layout>",
	Short: "Render a layout to a standalone HTML document",
	Long: `Render a layout file (JSON or YAML) against a data file and write the
resulting HTML document. Without --data the sample data of the document type
is used; bindings the data does not resolve are filled with mock values
unless --no-mock is given.

Examples:
  docket render invoice.json                     # Sample data to stdout
  docket render invoice.json -d order.yaml -o out.html
  docket render docket.yaml -t delivery_docket --style modern`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	addDocumentFlags(renderCmd, &renderDoc)
	addOutputFlag(renderCmd, &renderOutput, "output file (default stdout)")
	renderCmd.Flags().StringVar(&renderStyle, "style", "", "apply a style preset (classic, modern, compact)")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := renderDoc.apply(cfg); err != nil {
		return err
	}
	logger := newLogger(cfg).WithComponent("render")

	l, err := store.ReadLayout(args[0])
	if err != nil {
		return err
	}
	if renderStyle != "" {
		if l, err = withPreset(l, cfg.DocumentType(), renderStyle); err != nil {
			return err
		}
	}

	html, err := renderLayout(cmd.Context(), cfg, l, logger)
	if err != nil {
		return err
	}
	return writeOutput(cmd, renderOutput, []byte(html))
}

func withPreset(l *layout.Layout, t layout.DocumentType, style string) (*layout.Layout, error) {
	p, ok := layout.LookupPreset(t, style)
	if !ok {
		return nil, fmt.Errorf("unknown style %q for %s (see docket presets)", style, t)
	}
	out := l.Clone()
	out.Components = layout.ApplyPreset(out.Components, p)
	return out, nil
}

// renderLayout renders l with the configured data, locale and mock filling.
func renderLayout(ctx context.Context, cfg *config.Config, l *layout.Layout, logger logging.Logger) (string, error) {
	formatter, err := cfg.Formatter()
	if err != nil {
		return "", err
	}

	docType := cfg.DocumentType()
	var data map[string]any
	if cfg.Document.Data != "" {
		data, err = store.ReadData(cfg.Document.Data)
	} else {
		data, err = mockdata.Sample(docType)
	}
	if err != nil {
		return "", err
	}
	if cfg.MockDataEnabled() {
		data = mockdata.NewDefaultGenerator().FillMissing(data, layout.BindingPaths(l.Components))
	}

	perf := logging.StartOperation(logger, "render_document")
	html, err := renderer.NewComponentRenderer(formatter).RenderDocument(ctx, l, data, renderer.DocumentOptions{
		Title: docType.Title(),
		Lang:  formatter.Locale().String(),
	})
	if err != nil {
		perf.EndWithError(ctx, err)
		return "", err
	}
	perf.End(ctx)
	return html, nil
}
