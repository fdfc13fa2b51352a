package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/form"
	"github.com/conneroisu/docket/internal/store"
)

var (
	formOutput     string
	formFormat     string
	formApplyOut   string
)

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Edit a layout through its simple form",
	Long: `The simple form describes the standard parts of a document: header,
recipient and delivery addresses, metadata, the line table, totals and
footer. Exporting recovers the form from any layout on a best-effort basis;
applying regenerates the form's components and keeps every other component.`,
}

var formExportCmd = &cobra.Command{
	Use:   "export <layout>",
	Short: "Print the simple form of a layout",
	Example: `  docket form export invoice.json > invoice-form.yaml
  docket form export invoice.json --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runFormExport,
}

var formApplyCmd = &cobra.Command{
	Use:   "apply <layout> <form>",
	Short: "Apply a form file (YAML or JSON) to a layout",
	Example: `  docket form apply invoice.json invoice-form.yaml
  docket form apply invoice.json invoice-form.yaml -o invoice-v2.json`,
	Args: cobra.ExactArgs(2),
	RunE: runFormApply,
}

func init() {
	rootCmd.AddCommand(formCmd)
	formCmd.AddCommand(formExportCmd, formApplyCmd)

	addOutputFlag(formExportCmd, &formOutput, "output file (default stdout)")
	formExportCmd.Flags().StringVarP(&formFormat, "format", "f", "yaml", "output format (yaml, json)")

	addOutputFlag(formApplyCmd, &formApplyOut, "layout file to write (default: update the layout in place)")
}

func runFormExport(cmd *cobra.Command, args []string) error {
	l, err := store.ReadLayout(args[0])
	if err != nil {
		return err
	}
	st := form.FromLayout(l.Components)

	var out []byte
	switch formFormat {
	case "yaml":
		out, err = yaml.Marshal(st)
	case "json":
		out, err = json.MarshalIndent(st, "", "  ")
		out = append(out, '\n')
	default:
		return fmt.Errorf("unsupported format: %s (supported: yaml, json)", formFormat)
	}
	if err != nil {
		return err
	}
	return writeOutput(cmd, formOutput, out)
}

func runFormApply(cmd *cobra.Command, args []string) error {
	l, err := store.ReadLayout(args[0])
	if err != nil {
		return err
	}
	raw, err := readInput(args[1])
	if err != nil {
		return err
	}

	// JSON is valid YAML, so one decoder reads both.
	var st form.State
	if err := yaml.Unmarshal(raw, &st); err != nil {
		return errors.WrapIO(err, errors.ErrCodeLayoutParse, "cannot parse form").WithFile(args[1])
	}

	l.Components = form.Merge(st, l.Components)

	path := formApplyOut
	if path == "" {
		path = args[0]
	}
	if err := store.WriteLayout(path, l); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Applied form to %s (%d components)\n", path, len(l.Components))
	return nil
}
