package form

import (
	"github.com/conneroisu/docket/internal/binding"
	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/layout"
)

func field(label, path string) Field {
	return Field{Key: path, Label: label, Binding: path, Visible: true}
}

func money(label, path string) Field {
	f := field(label, path)
	f.Format = binding.FormatCurrency
	return f
}

func hidden(f Field) Field {
	f.Visible = false
	return f
}

func column(key, label, align, format string) Column {
	return Column{Key: key, Label: label, Align: align, Format: format, Visible: true}
}

func addressFields(root string) []Field {
	return []Field{
		field("", root+".name"),
		field("", root+".address.street"),
		field("", root+".address.postal_code"),
		field("", root+".address.city"),
	}
}

func lineColumns() []Column {
	return []Column{
		column("sku", "Item no.", "", ""),
		column("description", "Description", "", ""),
		column("quantity", "Qty", "right", binding.FormatNumber),
		column("unit_price", "Unit price", "right", binding.FormatCurrency),
		column("total", "Total", "right", binding.FormatCurrency),
	}
}

func totalsFields() []Field {
	return []Field{
		money("Subtotal", "totals.subtotal"),
		money("VAT", "totals.tax"),
		money("Total", "totals.total"),
	}
}

// Default returns the starting form for a document type.
func Default(t layout.DocumentType) (State, error) {
	s := State{
		DocumentType: t,
		Header: HeaderSection{
			Enabled:      true,
			Title:        t.Title(),
			Level:        1,
			Subtitle:     "{{company.name}}",
			ShowSubtitle: true,
			ShowDivider:  true,
		},
		Recipient: AddressSection{Enabled: true, Title: "Customer", Fields: addressFields("customer")},
		Delivery:  AddressSection{Title: "Delivery address", Fields: addressFields("delivery")},
		Table:     TableSection{Enabled: true, RowsBinding: "lines", ShowHeader: true, Columns: lineColumns()},
		Totals:    FieldSection{Enabled: true, Fields: totalsFields()},
		Footer: FooterSection{
			Enabled:        true,
			ShowPageNumber: true,
			PageNumberText: DefaultPageNumberText,
		},
	}

	switch t {
	case layout.Invoice:
		s.Recipient.Title = "Bill to"
		s.Recipient.Fields = append(s.Recipient.Fields, field("VAT ID", "customer.vat_id"))
		s.Metadata = FieldSection{Enabled: true, Fields: []Field{
			field("Invoice no.", "invoice.number"),
			field("Date", "invoice.date"),
			field("Due date", "invoice.due_date"),
			field("Customer no.", "customer.number"),
			hidden(field("Order ref.", "order.reference")),
		}}
		s.Footer.Notes = "Thank you for your business."
		s.Footer.Terms = "Payment due within {{payment.terms_days}} days."

	case layout.DeliveryDocket:
		s.Recipient.Title = "Customer"
		s.Delivery.Enabled = true
		s.Delivery.Title = "Deliver to"
		s.Metadata = FieldSection{Enabled: true, Fields: []Field{
			field("Docket no.", "docket.number"),
			field("Delivery date", "docket.date"),
			field("Order ref.", "order.reference"),
			field("Vehicle", "delivery.vehicle"),
		}}
		s.Table.Columns = []Column{
			column("sku", "Item no.", "", ""),
			column("description", "Description", "", ""),
			column("quantity", "Qty", "right", binding.FormatNumber),
			column("unit", "Unit", "", ""),
			column("batch", "Batch", "", ""),
		}
		s.Totals = FieldSection{Enabled: true, Fields: []Field{field("Total items", "totals.items")}}
		s.Footer.Notes = "Goods received in good condition."
		s.Footer.Terms = "Signature: ______________________"

	case layout.OrderConfirmation:
		s.Delivery.Enabled = true
		s.Metadata = FieldSection{Enabled: true, Fields: []Field{
			field("Order no.", "order.number"),
			field("Order date", "order.date"),
			field("Delivery date", "delivery.date"),
			field("Customer no.", "customer.number"),
		}}
		s.Footer.Notes = "We confirm your order as listed above."

	case layout.AvailabilityList:
		s.Header.Subtitle = "Week {{availability.week}}"
		s.Recipient.Enabled = false
		s.Metadata = FieldSection{Enabled: true, Fields: []Field{
			field("Valid from", "availability.date"),
			field("Valid until", "availability.valid_until"),
		}}
		s.Table.RowsBinding = "items"
		s.Table.Columns = []Column{
			column("sku", "Item no.", "", ""),
			column("name", "Plant", "", ""),
			column("size", "Size", "", ""),
			column("quantity", "Available", "right", binding.FormatNumber),
			column("price", "Price", "right", binding.FormatCurrency),
		}
		s.Totals.Enabled = false
		s.Footer.Notes = "Prices exclude VAT. Subject to prior sale."

	case layout.Quote:
		s.Metadata = FieldSection{Enabled: true, Fields: []Field{
			field("Quote no.", "quote.number"),
			field("Date", "quote.date"),
			field("Valid until", "quote.valid_until"),
		}}
		s.Footer.Terms = "This quote is valid until {{quote.valid_until}}."

	default:
		return State{}, errors.ErrUnknownDocumentType(string(t))
	}
	return s, nil
}

// DefaultLayout is the structured A4 layout generated from the default form
// of t.
func DefaultLayout(t layout.DocumentType) (*layout.Layout, error) {
	s, err := Default(t)
	if err != nil {
		return nil, err
	}
	return layout.New(ToLayout(s)), nil
}
