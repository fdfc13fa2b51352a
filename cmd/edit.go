package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/docket/internal/editor"
	"github.com/conneroisu/docket/internal/store"
)

var editOutput string

var editCmd = &cobra.Command{
	Use:   "edit <layout> <ops.json>",
	Short: "Apply scripted edit operations to a layout",
	Long: `Replay a JSON list of edit operations through the editor: drags, inserts at
a drop point, updates, removals, reorders, form applications and undo/redo.
Coordinates are document millimetres. Inserted components get their zone
from the drop point and snap to the configured grid.

Example ops.json:
  [
    {"op": "insert", "type": "text", "x": 20, "y": 120},
    {"op": "update", "id": "text-1", "text": "Thank you for your order"},
    {"op": "move", "id": "heading", "x": 15, "y": 10},
    {"op": "undo"}
  ]

Examples:
  docket edit invoice.json ops.json
  docket edit invoice.json ops.json -o invoice-edited.json`,
	Args: cobra.ExactArgs(2),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)

	addOutputFlag(editCmd, &editOutput, "layout file to write (default: update the layout in place)")
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	l, err := store.ReadLayout(args[0])
	if err != nil {
		return err
	}
	raw, err := readInput(args[1])
	if err != nil {
		return err
	}
	ops, err := editor.ParseOps(raw)
	if err != nil {
		return err
	}

	session := editor.NewSession(l, editor.Config{
		MaxHistory: cfg.Editor.MaxHistory,
		GridSize:   cfg.Editor.GridSize,
		SnapToGrid: cfg.Editor.SnapToGrid,
		Zoom:       cfg.Editor.Zoom,
	}, newLogger(cfg))
	if err := session.Apply(cmd.Context(), ops); err != nil {
		return err
	}

	path := editOutput
	if path == "" {
		path = args[0]
	}
	if err := store.WriteLayout(path, session.Layout()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Applied %d operations to %s\n", len(ops), path)
	return nil
}
