package mockdata

import (
	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/layout"
)

func address(name, street, postal, city string) map[string]any {
	return map[string]any{
		"name": name,
		"address": map[string]any{
			"street":      street,
			"postal_code": postal,
			"city":        city,
			"country":     "Germany",
		},
	}
}

func line(sku, description string, qty int, unit string, price float64, batch string) map[string]any {
	return map[string]any{
		"sku":         sku,
		"description": description,
		"quantity":    qty,
		"unit":        unit,
		"unit_price":  price,
		"total":       float64(qty) * price,
		"batch":       batch,
	}
}

func lines() []any {
	return []any{
		line("PL-1001", "Buxus sempervirens 30-40 cm", 24, "pcs", 4.95, "B24-117"),
		line("PL-2040", "Hydrangea macrophylla 'Bouquet Rose' C5", 12, "pcs", 12.50, "B24-121"),
		line("PL-3310", "Lavandula angustifolia P11", 48, "pcs", 1.85, "B24-130"),
	}
}

func totals(rows []any) map[string]any {
	var subtotal float64
	var items int
	for _, r := range rows {
		row := r.(map[string]any)
		subtotal += row["total"].(float64)
		items += row["quantity"].(int)
	}
	tax := subtotal * 0.19
	return map[string]any{
		"subtotal": subtotal,
		"tax":      tax,
		"total":    subtotal + tax,
		"items":    items,
	}
}

func base() map[string]any {
	rows := lines()
	return map[string]any{
		"company": map[string]any{
			"name":  "Greenleaf Nurseries",
			"email": "orders@example.com",
			"phone": "+49 221 5550100",
		},
		"customer": func() map[string]any {
			c := address("Blumenhof KG", "Lindenallee 12", "50667", "Köln")
			c["number"] = "C-10482"
			c["vat_id"] = "DE123456789"
			return c
		}(),
		"delivery": func() map[string]any {
			d := address("Blumenhof KG, Lager Nord", "Industriestraße 7", "50829", "Köln")
			d["date"] = "2024-05-21"
			d["vehicle"] = "K-GL 204"
			return d
		}(),
		"order":   map[string]any{"number": "SO-2024-0815", "date": "2024-05-10", "reference": "PO-7731"},
		"payment": map[string]any{"terms_days": 14},
		"lines":   rows,
		"totals":  totals(rows),
		"page":    map[string]any{"current": 1, "total": 1},
	}
}

// Sample returns the built-in sample data for a document type. Every call
// returns a fresh object the caller may mutate.
func Sample(t layout.DocumentType) (map[string]any, error) {
	data := base()

	switch t {
	case layout.Invoice:
		data["invoice"] = map[string]any{"number": "INV-2024-0142", "date": "2024-05-14", "due_date": "2024-05-28"}
	case layout.DeliveryDocket:
		data["docket"] = map[string]any{"number": "DD-2024-0377", "date": "2024-05-21"}
	case layout.OrderConfirmation:
		// The shared order and delivery objects cover it.
	case layout.AvailabilityList:
		data["availability"] = map[string]any{"week": 21, "date": "2024-05-20", "valid_until": "2024-05-26"}
		data["items"] = []any{
			map[string]any{"sku": "PL-1001", "name": "Buxus sempervirens", "size": "30-40 cm", "quantity": 320, "price": 4.95},
			map[string]any{"sku": "PL-2040", "name": "Hydrangea macrophylla", "size": "C5", "quantity": 85, "price": 12.50},
			map[string]any{"sku": "PL-5120", "name": "Taxus baccata", "size": "60-80 cm", "quantity": 0, "price": 18.90},
		}
	case layout.Quote:
		data["quote"] = map[string]any{"number": "Q-2024-0093", "date": "2024-05-14", "valid_until": "2024-06-13"}
	default:
		return nil, errors.ErrUnknownDocumentType(string(t))
	}
	return data, nil
}

// SampleFor returns the sample data for t with any binding path of
// components that it does not cover filled by g.
func SampleFor(t layout.DocumentType, components []layout.Component, g *Generator) (map[string]any, error) {
	data, err := Sample(t)
	if err != nil {
		return nil, err
	}
	if g == nil {
		g = NewDefaultGenerator()
	}
	return g.FillMissing(data, layout.BindingPaths(components)), nil
}
