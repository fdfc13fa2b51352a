package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/docket/internal/form"
	"github.com/conneroisu/docket/internal/layout"
	"github.com/conneroisu/docket/internal/store"
)

var (
	initOutput string
	initStyle  string
	initForce  bool
)

var initCmd = &cobra.Command{
	Use:     "init <type>",
	Aliases: []string{"i"},
	Short:   "Write the default layout of a document type",
	Long: `Write the default structured layout of a document type: an A4 page with
15mm margins and header, body and footer zones, filled with the components
of the type's default form.

Document types: ` + documentTypeNames() + `

Examples:
  docket init invoice                         # Writes invoice.json
  docket init delivery-docket -o docket.yaml  # YAML by extension
  docket init quote --style modern`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	addOutputFlag(initCmd, &initOutput, "layout file to write (default <type>.json)")
	initCmd.Flags().StringVar(&initStyle, "style", "", "apply a style preset (classic, modern, compact)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
}

func runInit(cmd *cobra.Command, args []string) error {
	t, err := layout.ParseDocumentType(args[0])
	if err != nil {
		return err
	}

	l, err := form.DefaultLayout(t)
	if err != nil {
		return err
	}
	if initStyle != "" {
		if l, err = withPreset(l, t, initStyle); err != nil {
			return err
		}
	}

	path := initOutput
	if path == "" {
		path = string(t) + ".json"
	}
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := store.WriteLayout(path, l); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s layout to %s\n", t.Title(), path)
	return nil
}
