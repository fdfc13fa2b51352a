package validation

import (
	"fmt"

	"github.com/conneroisu/docket/internal/errors"
	"github.com/conneroisu/docket/internal/layout"
)

// Report is the outcome of validating a layout. Errors make a layout
// invalid; warnings describe things the renderer silently corrects.
type Report struct {
	Errors   errors.ValidationErrorCollection
	Warnings []*errors.FieldValidationError
}

// Valid reports whether there are no errors.
func (r *Report) Valid() bool {
	return !r.Errors.HasErrors()
}

// Err returns the errors as a DocketError, or nil.
func (r *Report) Err() error {
	if de := r.Errors.ToDocketError(); de != nil {
		return de
	}
	return nil
}

func (r *Report) warn(field string, value any, message string, suggestions ...string) {
	r.Warnings = append(r.Warnings, errors.NewFieldValidationError(field, value, message, suggestions...))
}

// ValidateLayout checks a layout for problems the renderer cannot recover
// from meaningfully.
func ValidateLayout(l *layout.Layout) *Report {
	r := &Report{}
	if l == nil {
		r.Errors.AddField("layout", nil, "layout is missing")
		return r
	}

	if !l.Flow {
		validatePage(r, l)
		validateZones(r, l.Zones)
	}

	seen := map[string]int{}
	layout.Walk(l.Components, func(c *layout.Component) bool {
		validateComponent(r, c, seen)
		return true
	})
	return r
}

func validatePage(r *Report, l *layout.Layout) {
	if l.PageSize.Width <= 0 || l.PageSize.Height <= 0 {
		r.Errors.AddField("pageSize", l.PageSize, "page size must be positive")
	}
	m := l.Margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		r.Errors.AddField("margins", m, "margins must not be negative")
	}
}

func validateZones(r *Report, zones layout.ZoneSet) {
	count := map[layout.Zone]int{}
	for i, z := range zones {
		field := fmt.Sprintf("zones[%d]", i)
		if !z.Name.Valid() {
			r.Errors.AddField(field+".name", z.Name, "unknown zone", "use header, body or footer")
			continue
		}
		count[z.Name]++
		if z.Height < 0 {
			r.Errors.AddField(field+".height", z.Height, "zone height must not be negative")
		}
	}
	for _, z := range layout.Zones() {
		switch count[z] {
		case 1:
		case 0:
			r.Errors.AddField("zones", z, fmt.Sprintf("missing zone config for %s", z))
		default:
			r.Errors.AddField("zones", z, fmt.Sprintf("%d zone configs for %s", count[z], z), "keep exactly one config per zone")
		}
	}
}

func validateComponent(r *Report, c *layout.Component, seen map[string]int) {
	field := "components." + c.ID
	if c.ID == "" {
		field = "components.<unnamed " + string(c.Type()) + ">"
		r.Errors.AddField(field+".id", c.ID, "component id is empty")
	} else {
		seen[c.ID]++
		if seen[c.ID] == 2 {
			r.Errors.AddField(field+".id", c.ID, "duplicate component id", "ids must be unique across the whole tree")
		}
	}

	if c.Zone != "" && !c.Zone.Valid() {
		r.Errors.AddField(field+".zone", c.Zone, "unknown zone", "use header, body or footer")
	}

	if pos := c.Position(); pos != nil {
		if pos.X < 0 || pos.Y < 0 {
			r.Errors.AddField(field+".style.position", pos, "position must not be negative")
		}
		if (pos.Width != nil && *pos.Width <= 0) || (pos.Height != nil && *pos.Height <= 0) {
			r.Errors.AddField(field+".style.position", pos, "position size must be positive")
		}
	}

	for i, cond := range c.VisibleWhen {
		if cond.Field == "" {
			r.Errors.AddField(fmt.Sprintf("%s.visibleWhen[%d].field", field, i), cond, "condition field is empty")
		}
	}

	switch b := c.Body.(type) {
	case *layout.Heading:
		if b.Level < 1 || b.Level > 4 {
			r.warn(field+".level", b.Level, "heading level is clamped to 1..4")
		}
	case *layout.Table:
		keys := map[string]bool{}
		for i, col := range b.Columns {
			if col.Key == "" {
				r.Errors.AddField(fmt.Sprintf("%s.columns[%d].key", field, i), col.Label, "table column has no key")
				continue
			}
			if keys[col.Key] {
				r.warn(fmt.Sprintf("%s.columns[%d].key", field, i), col.Key, "duplicate column key")
			}
			keys[col.Key] = true
		}
		if b.RowsBinding == "" {
			r.warn(field+".rowsBinding", "", "table has no rowsBinding and renders no rows")
		}
	case *layout.Image:
		if b.URL != "" {
			if err := ValidateImageURL(b.URL); err != nil {
				r.Errors.AddField(field+".url", b.URL, err.Error())
			}
		}
	case *layout.Unknown:
		r.warn(field+".type", b.Kind, "unknown component type renders as plain text")
	}
}
