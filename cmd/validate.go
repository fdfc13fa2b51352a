package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/docket/internal/store"
	"github.com/conneroisu/docket/internal/validation"
)

var validateFormat string

var validateCmd = &cobra.Command{
	Use:   "validate <layout>...",
	Short: "Check layouts for problems",
	Long: `Check layout files for problems the renderer cannot recover from:

- Duplicate or empty component ids
- Unknown zones, missing or duplicate zone configurations
- Negative positions and sizes
- Table columns without keys
- Image URLs with unsupported schemes

Things the renderer silently corrects, such as heading levels outside 1-4,
are reported as warnings.

Examples:
  docket validate invoice.json
  docket validate layouts/*.yaml --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidateCommand,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	addFormatFlag(validateCmd, &validateFormat)
}

type ValidationResult struct {
	Layout   string   `json:"layout"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type ValidationSummary struct {
	Total   int                `json:"total"`
	Valid   int                `json:"valid"`
	Invalid int                `json:"invalid"`
	Results []ValidationResult `json:"results"`
}

func runValidateCommand(cmd *cobra.Command, args []string) error {
	if err := checkFormat(validateFormat); err != nil {
		return err
	}

	summary := ValidationSummary{Total: len(args)}
	for _, path := range args {
		result := validateFile(path)
		if result.Valid {
			summary.Valid++
		} else {
			summary.Invalid++
		}
		summary.Results = append(summary.Results, result)
	}

	if validateFormat == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(summary); err != nil {
			return err
		}
	} else {
		outputValidationText(cmd, summary)
	}

	if summary.Invalid > 0 {
		return fmt.Errorf("validation failed: %d invalid layouts", summary.Invalid)
	}
	return nil
}

func validateFile(path string) ValidationResult {
	result := ValidationResult{Layout: path, Errors: []string{}, Warnings: []string{}}

	l, err := store.ReadLayout(path)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	report := validation.ValidateLayout(l)
	for _, e := range report.Errors.Errors {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", e.Field(), e.ErrorMessage))
	}
	for _, w := range report.Warnings {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", w.Field(), w.ErrorMessage))
	}
	result.Valid = report.Valid()
	return result
}

func outputValidationText(cmd *cobra.Command, summary ValidationSummary) {
	out := cmd.OutOrStdout()
	for _, result := range summary.Results {
		status := "✅"
		if !result.Valid {
			status = "❌"
		}
		fmt.Fprintf(out, "%s %s\n", status, result.Layout)

		for _, err := range result.Errors {
			fmt.Fprintf(out, "    Error: %s\n", err)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(out, "    Warning: %s\n", warning)
		}
	}

	fmt.Fprintf(out, "\n%d checked, %d valid, %d invalid\n", summary.Total, summary.Valid, summary.Invalid)
}
