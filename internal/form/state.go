// Package form maps between a structured editing form and the layout
// component tree.
//
// The form owns a fixed set of component ids. ToLayout generates them,
// FromLayout recovers a form from any tree on a best-effort basis, and Merge
// regenerates the owned components while keeping everything else.
package form

import (
	"github.com/conneroisu/docket/internal/layout"
)

// Field is one label/value row of a form section.
type Field struct {
	Key     string `json:"key" yaml:"key"`
	Label   string `json:"label" yaml:"label"`
	Binding string `json:"binding" yaml:"binding"`
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
	Visible bool   `json:"visible" yaml:"visible"`
}

// Column is one table column of the form.
type Column struct {
	Key     string `json:"key" yaml:"key"`
	Label   string `json:"label" yaml:"label"`
	Binding string `json:"binding,omitempty" yaml:"binding,omitempty"`
	Align   string `json:"align,omitempty" yaml:"align,omitempty"`
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
	Visible bool   `json:"visible" yaml:"visible"`
}

// HeaderSection is the document title block.
type HeaderSection struct {
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	Title        string `json:"title" yaml:"title"`
	Level        int    `json:"level,omitempty" yaml:"level,omitempty"`
	Subtitle     string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	ShowSubtitle bool   `json:"showSubtitle" yaml:"showSubtitle"`
	ShowDivider  bool   `json:"showDivider" yaml:"showDivider"`
}

// AddressSection is a titled address block rendered as a box.
type AddressSection struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Title   string  `json:"title" yaml:"title"`
	Fields  []Field `json:"fields" yaml:"fields"`
}

// FieldSection is a plain list of fields.
type FieldSection struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Fields  []Field `json:"fields" yaml:"fields"`
}

// TableSection is the line-item grid.
type TableSection struct {
	Enabled     bool     `json:"enabled" yaml:"enabled"`
	RowsBinding string   `json:"rowsBinding" yaml:"rowsBinding"`
	ShowHeader  bool     `json:"showHeader" yaml:"showHeader"`
	Columns     []Column `json:"columns" yaml:"columns"`
}

// FooterSection holds the closing texts.
type FooterSection struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	Notes          string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Terms          string `json:"terms,omitempty" yaml:"terms,omitempty"`
	ShowPageNumber bool   `json:"showPageNumber" yaml:"showPageNumber"`
	PageNumberText string `json:"pageNumberText,omitempty" yaml:"pageNumberText,omitempty"`
}

// State is the complete simple-form representation of a layout.
type State struct {
	DocumentType layout.DocumentType `json:"documentType,omitempty" yaml:"documentType,omitempty"`
	Header       HeaderSection       `json:"header" yaml:"header"`
	Recipient    AddressSection      `json:"recipient" yaml:"recipient"`
	Delivery     AddressSection      `json:"delivery" yaml:"delivery"`
	Metadata     FieldSection        `json:"metadata" yaml:"metadata"`
	Table        TableSection        `json:"table" yaml:"table"`
	Totals       FieldSection        `json:"totals" yaml:"totals"`
	Footer       FooterSection       `json:"footer" yaml:"footer"`
}

// visibleFields filters out hidden fields.
func visibleFields(fields []Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if f.Visible {
			out = append(out, f)
		}
	}
	return out
}

func visibleColumns(columns []Column) []Column {
	out := make([]Column, 0, len(columns))
	for _, c := range columns {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}
