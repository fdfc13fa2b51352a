package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/conneroisu/docket/internal/config"
	"github.com/conneroisu/docket/internal/layout"
)

// docTypeValue is a pflag.Value accepting any spelling ParseDocumentType
// accepts. The empty value means "use the configured type".
type docTypeValue struct {
	t layout.DocumentType
}

var _ pflag.Value = (*docTypeValue)(nil)

func (v *docTypeValue) String() string { return string(v.t) }

func (v *docTypeValue) Set(s string) error {
	if s == "" {
		v.t = ""
		return nil
	}
	t, err := layout.ParseDocumentType(s)
	if err != nil {
		return fmt.Errorf("must be one of %s", documentTypeNames())
	}
	v.t = t
	return nil
}

func (v *docTypeValue) Type() string { return "type" }

func documentTypeNames() string {
	names := make([]string, 0, len(layout.DocumentTypes()))
	for _, t := range layout.DocumentTypes() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// documentFlags are shared by the commands that render a document.
type documentFlags struct {
	docType  docTypeValue
	data     string
	locale   string
	currency string
	noMock   bool
}

func addDocumentFlags(cmd *cobra.Command, f *documentFlags) {
	cmd.Flags().VarP(&f.docType, "type", "t", "document type ("+documentTypeNames()+")")
	cmd.Flags().StringVarP(&f.data, "data", "d", "", "data file (JSON or YAML); sample data when empty")
	cmd.Flags().StringVar(&f.locale, "locale", "", "locale for numbers, dates and currency (e.g. de-DE)")
	cmd.Flags().StringVar(&f.currency, "currency", "", "ISO 4217 currency code (e.g. EUR)")
	cmd.Flags().BoolVar(&f.noMock, "no-mock", false, "do not fill unresolved bindings with mock values")
}

// apply overrides cfg with the flags that were set and revalidates it.
func (f *documentFlags) apply(cfg *config.Config) error {
	if f.docType.t != "" {
		cfg.Document.Type = string(f.docType.t)
	}
	if f.data != "" {
		cfg.Document.Data = f.data
	}
	if f.locale != "" {
		cfg.Document.Locale = f.locale
	}
	if f.currency != "" {
		cfg.Document.Currency = f.currency
	}
	if f.noMock {
		cfg.Preview.MockData = config.MockDataNone
	}
	return config.Validate(cfg)
}

// addOutputFlag registers -o/--output.
func addOutputFlag(cmd *cobra.Command, target *string, usage string) {
	cmd.Flags().StringVarP(target, "output", "o", "", usage)
}

// addFormatFlag registers -f/--format restricted to text and json.
func addFormatFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "format", "f", "text", "output format (text, json)")
}

func checkFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("unsupported format: %s (supported: text, json)", format)
}
