package layout

import (
	"sort"

	"github.com/conneroisu/docket/internal/binding"
)

// Paths are the binding paths a set of components reads.
type Paths struct {
	// Document paths are resolved against the document data.
	Document []string
	// Rows maps each table's rowsBinding to the paths read from each row.
	Rows map[string][]string
	// Conditions are the fields visibility rules test. They are kept apart
	// from Document so mock filling never makes a hidden component visible.
	Conditions []string
}

// BindingPaths collects every binding path referenced by the tree, sorted
// and de-duplicated.
func BindingPaths(components []Component) Paths {
	doc := map[string]struct{}{}
	conds := map[string]struct{}{}
	rows := map[string]map[string]struct{}{}

	add := func(set map[string]struct{}, p string) {
		if p != "" {
			set[p] = struct{}{}
		}
	}
	addText := func(set map[string]struct{}, text string) {
		for _, p := range binding.Placeholders(text) {
			add(set, p)
		}
	}

	Walk(components, func(c *Component) bool {
		for _, cond := range c.VisibleWhen {
			add(conds, cond.Field)
		}
		switch b := c.Body.(type) {
		case *Heading:
			addText(doc, b.Text)
		case *Text:
			addText(doc, b.Text)
		case *Unknown:
			addText(doc, b.Text)
		case *List:
			for _, it := range b.Items {
				add(doc, it.Binding)
				addText(doc, it.Label)
			}
		case *Chips:
			for _, it := range b.Items {
				addText(doc, it.Label)
			}
		case *Image:
			if b.URL == "" {
				add(doc, b.Binding)
			}
		case *Table:
			if b.RowsBinding == "" {
				break
			}
			add(doc, b.RowsBinding)
			set, ok := rows[b.RowsBinding]
			if !ok {
				set = map[string]struct{}{}
				rows[b.RowsBinding] = set
			}
			for _, col := range b.Columns {
				add(set, ColumnBinding(col))
			}
		}
		return true
	})

	out := Paths{
		Document:   sortedKeys(doc),
		Rows:       make(map[string][]string, len(rows)),
		Conditions: sortedKeys(conds),
	}
	for k, set := range rows {
		out.Rows[k] = sortedKeys(set)
	}
	return out
}

// ColumnBinding is the row path a column reads; the key doubles as the
// binding when none is set.
func ColumnBinding(col Column) string {
	if col.Binding != "" {
		return col.Binding
	}
	return col.Key
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
