package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conneroisu/docket/internal/layout"
)

var presetsFormat string

var presetsCmd = &cobra.Command{
	Use:   "presets [type]",
	Short: "List the style presets",
	Long: `List the style presets of one document type, or of every type. A preset
sets the accent color, heading and body font sizes and the table header
background; apply one with --style on init or render.`,
	Example: `  docket presets
  docket presets invoice --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)

	addFormatFlag(presetsCmd, &presetsFormat)
}

func runPresets(cmd *cobra.Command, args []string) error {
	if err := checkFormat(presetsFormat); err != nil {
		return err
	}

	types := layout.DocumentTypes()
	if len(args) == 1 {
		t, err := layout.ParseDocumentType(args[0])
		if err != nil {
			return err
		}
		types = []layout.DocumentType{t}
	}

	catalog := make(map[layout.DocumentType][]layout.Preset, len(types))
	for _, t := range types {
		catalog[t] = layout.Presets(t)
	}

	if presetsFormat == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if len(types) == 1 {
			return encoder.Encode(catalog[types[0]])
		}
		return encoder.Encode(catalog)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tSTYLE\tACCENT\tHEADING\tBODY\tDESCRIPTION")
	for _, t := range types {
		for _, p := range catalog[t] {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.0fpx\t%.0fpx\t%s\n", t, p.Name, p.Accent, p.HeadingSize, p.BodyFontSize, p.Description)
		}
	}
	return w.Flush()
}
