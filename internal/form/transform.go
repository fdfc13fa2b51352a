package form

import (
	"sort"
	"strings"

	"github.com/conneroisu/docket/internal/layout"
)

// Ids of the components the form owns.
const (
	IDHeading      = "heading"
	IDSubtitle     = "subtitle"
	IDDivider      = "divider"
	IDCustomerBox  = "customer-box"
	IDDeliveryBox  = "delivery-box"
	IDMetadataList = "metadata-list"
	IDMainTable    = "main-table"
	IDTotalsList   = "totals-list"
	IDFooterNotes  = "footer-notes"
	IDFooterTerms  = "footer-terms"
	IDPageNumber   = "page-number"

	// RecipientPrefix marks the generated children of address boxes.
	RecipientPrefix = "recipient-"
)

var managedIDs = map[string]struct{}{
	IDHeading:      {},
	IDSubtitle:     {},
	IDDivider:      {},
	IDCustomerBox:  {},
	IDDeliveryBox:  {},
	IDMetadataList: {},
	IDMainTable:    {},
	IDTotalsList:   {},
	IDFooterNotes:  {},
	IDFooterTerms:  {},
	IDPageNumber:   {},
}

// IsManaged reports whether the form owns the component with id.
func IsManaged(id string) bool {
	if _, ok := managedIDs[id]; ok {
		return true
	}
	return strings.HasPrefix(id, RecipientPrefix)
}

// ToLayout generates the canonical component sequence for s. Hidden fields
// are dropped and sections that are off or have nothing visible are skipped.
func ToLayout(s State) []layout.Component {
	var out []layout.Component

	if h := s.Header; h.Enabled {
		level := h.Level
		if level == 0 {
			level = 1
		}
		out = append(out, layout.Component{
			ID:   IDHeading,
			Zone: layout.ZoneHeader,
			Body: &layout.Heading{Text: h.Title, Level: level},
		})
		if h.ShowSubtitle && h.Subtitle != "" {
			out = append(out, layout.Component{
				ID:   IDSubtitle,
				Zone: layout.ZoneHeader,
				Body: &layout.Text{Text: h.Subtitle},
			})
		}
		if h.ShowDivider {
			out = append(out, layout.Component{
				ID:   IDDivider,
				Zone: layout.ZoneHeader,
				Body: &layout.Divider{},
			})
		}
	}

	if box, ok := addressBox(IDCustomerBox, "customer", s.Recipient); ok {
		out = append(out, box)
	}
	if box, ok := addressBox(IDDeliveryBox, "delivery", s.Delivery); ok {
		out = append(out, box)
	}

	if fields := visibleFields(s.Metadata.Fields); s.Metadata.Enabled && len(fields) > 0 {
		out = append(out, layout.Component{
			ID:   IDMetadataList,
			Zone: layout.ZoneBody,
			Body: &layout.List{Items: listItems(fields)},
		})
	}

	if cols := visibleColumns(s.Table.Columns); s.Table.Enabled && len(cols) > 0 {
		table := &layout.Table{RowsBinding: s.Table.RowsBinding}
		for _, c := range cols {
			table.Columns = append(table.Columns, layout.Column{
				Key:     c.Key,
				Label:   c.Label,
				Binding: c.Binding,
				Align:   c.Align,
				Format:  c.Format,
			})
		}
		if !s.Table.ShowHeader {
			hidden := false
			table.ShowHeader = &hidden
		}
		out = append(out, layout.Component{ID: IDMainTable, Zone: layout.ZoneBody, Body: table})
	}

	if fields := visibleFields(s.Totals.Fields); s.Totals.Enabled && len(fields) > 0 {
		out = append(out, layout.Component{
			ID:    IDTotalsList,
			Zone:  layout.ZoneBody,
			Style: &layout.Style{TextAlign: "right"},
			Body:  &layout.List{Items: listItems(fields)},
		})
	}

	if f := s.Footer; f.Enabled {
		if f.Notes != "" {
			out = append(out, footerText(IDFooterNotes, f.Notes, ""))
		}
		if f.Terms != "" {
			out = append(out, footerText(IDFooterTerms, f.Terms, ""))
		}
		if f.ShowPageNumber {
			text := f.PageNumberText
			if text == "" {
				text = DefaultPageNumberText
			}
			out = append(out, footerText(IDPageNumber, text, "right"))
		}
	}

	return out
}

// DefaultPageNumberText is used when the footer shows a page number without
// its own text.
const DefaultPageNumberText = "Page {{page.current}} of {{page.total}}"

func footerText(id, text, align string) layout.Component {
	c := layout.Component{ID: id, Zone: layout.ZoneFooter, Body: &layout.Text{Text: text}}
	if align != "" {
		c.Style = &layout.Style{TextAlign: align}
	}
	return c
}

func addressBox(id, name string, section AddressSection) (layout.Component, bool) {
	fields := visibleFields(section.Fields)
	if !section.Enabled || len(fields) == 0 {
		return layout.Component{}, false
	}
	var children []layout.Component
	if section.Title != "" {
		children = append(children, layout.Component{
			ID:   RecipientPrefix + name + "-title",
			Zone: layout.ZoneBody,
			Body: &layout.Heading{Text: section.Title, Level: 3},
		})
	}
	children = append(children, layout.Component{
		ID:   RecipientPrefix + name + "-fields",
		Zone: layout.ZoneBody,
		Body: &layout.List{Items: listItems(fields)},
	})
	return layout.Component{ID: id, Zone: layout.ZoneBody, Body: &layout.Box{Children: children}}, true
}

func listItems(fields []Field) []layout.ListItem {
	items := make([]layout.ListItem, 0, len(fields))
	for _, f := range fields {
		items = append(items, layout.ListItem{Label: f.Label, Binding: f.Binding, Format: f.Format})
	}
	return items
}

// Merge regenerates the form-owned components from s and appends every
// top-level component of existing the form does not own. The result is
// ordered header, body, footer; order within a zone is kept.
func Merge(s State, existing []layout.Component) []layout.Component {
	out := ToLayout(s)
	for _, c := range existing {
		if !IsManaged(c.ID) {
			out = append(out, c.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveZone().Rank() < out[j].EffectiveZone().Rank()
	})
	return out
}
