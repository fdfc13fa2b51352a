package form

import (
	"strings"

	"github.com/conneroisu/docket/internal/layout"
)

// FromLayout recovers a form from an arbitrary component tree. Sections
// without a recognisable component come back disabled and empty.
func FromLayout(components []layout.Component) State {
	var s State

	if c, h := findHeading(components); c != nil {
		s.Header.Enabled = true
		s.Header.Title = h.Text
		s.Header.Level = h.Level
	}
	if text, ok := findSubtitle(components); ok {
		s.Header.Subtitle = text
		s.Header.ShowSubtitle = true
	}
	for _, c := range components {
		if c.Type() == layout.TypeDivider {
			s.Header.ShowDivider = true
			break
		}
	}

	customer, delivery := findAddressBoxes(components)
	s.Recipient = addressSection(customer)
	s.Delivery = addressSection(delivery)

	if list := findMetadataList(components); list != nil {
		s.Metadata = FieldSection{Enabled: true, Fields: fieldsOf(list.Items)}
	}

	var table *layout.Table
	layout.Walk(components, func(c *layout.Component) bool {
		if t, ok := c.Body.(*layout.Table); ok {
			table = t
			return false
		}
		return true
	})
	if table != nil {
		s.Table = TableSection{Enabled: true, RowsBinding: table.RowsBinding, ShowHeader: table.HeaderVisible()}
		for _, col := range table.Columns {
			s.Table.Columns = append(s.Table.Columns, Column{
				Key:     col.Key,
				Label:   col.Label,
				Binding: col.Binding,
				Align:   col.Align,
				Format:  col.Format,
				Visible: true,
			})
		}
	}

	if list := findTotalsList(components); list != nil {
		s.Totals = FieldSection{Enabled: true, Fields: fieldsOf(list.Items)}
	}

	s.Footer = footerSection(components)
	return s
}

func findHeading(components []layout.Component) (*layout.Component, *layout.Heading) {
	if c, ok := find(components, IDHeading); ok {
		if h, ok := c.Body.(*layout.Heading); ok {
			return c, h
		}
	}
	for i := range components {
		if h, ok := components[i].Body.(*layout.Heading); ok {
			return &components[i], h
		}
	}
	return nil, nil
}

func findSubtitle(components []layout.Component) (string, bool) {
	if c, ok := find(components, IDSubtitle); ok {
		if t, ok := c.Body.(*layout.Text); ok {
			return t.Text, true
		}
	}
	for _, c := range components {
		if t, ok := c.Body.(*layout.Text); ok && c.EffectiveZone() == layout.ZoneHeader {
			return t.Text, true
		}
	}
	return "", false
}

// findAddressBoxes prefers the canonical ids. Otherwise the first box with a
// heading is the recipient.
func findAddressBoxes(components []layout.Component) (customer, delivery *layout.Box) {
	for _, c := range components {
		box, ok := c.Body.(*layout.Box)
		if !ok {
			continue
		}
		switch c.ID {
		case IDCustomerBox:
			customer = box
		case IDDeliveryBox:
			delivery = box
		}
	}
	if customer != nil {
		return customer, delivery
	}
	for _, c := range components {
		box, ok := c.Body.(*layout.Box)
		if !ok || c.ID == IDDeliveryBox {
			continue
		}
		for _, child := range box.Children {
			if child.Type() == layout.TypeHeading {
				return box, delivery
			}
		}
	}
	return nil, delivery
}

func addressSection(box *layout.Box) AddressSection {
	if box == nil {
		return AddressSection{}
	}
	s := AddressSection{Enabled: true}
	for _, child := range box.Children {
		switch b := child.Body.(type) {
		case *layout.Heading:
			if s.Title == "" {
				s.Title = b.Text
			}
		case *layout.List:
			s.Fields = append(s.Fields, fieldsOf(b.Items)...)
		}
	}
	return s
}

func isTotals(id string, list *layout.List) bool {
	if strings.Contains(strings.ToLower(id), "total") {
		return true
	}
	for _, it := range list.Items {
		if strings.Contains(strings.ToLower(it.Binding), "total") {
			return true
		}
	}
	return false
}

func findMetadataList(components []layout.Component) *layout.List {
	if c, ok := find(components, IDMetadataList); ok {
		if l, ok := c.Body.(*layout.List); ok {
			return l
		}
	}
	for _, c := range components {
		if l, ok := c.Body.(*layout.List); ok && !isTotals(c.ID, l) {
			return l
		}
	}
	return nil
}

func findTotalsList(components []layout.Component) *layout.List {
	if c, ok := find(components, IDTotalsList); ok {
		if l, ok := c.Body.(*layout.List); ok {
			return l
		}
	}
	for _, c := range components {
		if l, ok := c.Body.(*layout.List); ok && isTotals(c.ID, l) {
			return l
		}
	}
	return nil
}

func footerSection(components []layout.Component) FooterSection {
	var f FooterSection
	for _, c := range components {
		t, ok := c.Body.(*layout.Text)
		if !ok || c.EffectiveZone() != layout.ZoneFooter {
			continue
		}
		switch c.ID {
		case IDFooterTerms:
			f.Terms = t.Text
		case IDPageNumber:
			f.ShowPageNumber = true
			f.PageNumberText = t.Text
		default:
			if f.Notes == "" {
				f.Notes = t.Text
			}
		}
	}
	f.Enabled = f.Notes != "" || f.Terms != "" || f.ShowPageNumber
	return f
}

func fieldsOf(items []layout.ListItem) []Field {
	fields := make([]Field, 0, len(items))
	for _, it := range items {
		key := it.Binding
		if key == "" {
			key = it.Label
		}
		fields = append(fields, Field{
			Key:     key,
			Label:   it.Label,
			Binding: it.Binding,
			Format:  it.Format,
			Visible: true,
		})
	}
	return fields
}

func find(components []layout.Component, id string) (*layout.Component, bool) {
	for i := range components {
		if components[i].ID == id {
			return &components[i], true
		}
	}
	return nil, false
}
