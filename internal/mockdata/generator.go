// Package mockdata supplies preview data: a fixed sample object per document
// type and a name-pattern generator that fills binding paths the data does
// not resolve.
package mockdata

import (
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/docket/internal/binding"
	"github.com/conneroisu/docket/internal/layout"
)

// DefaultSeed makes generated previews reproducible.
const DefaultSeed = 20240514

// DefaultRows is the number of rows generated for a missing table binding.
const DefaultRows = 3

// Generator produces plausible values from the last segment of a binding
// path.
type Generator struct {
	rng      *rand.Rand
	now      time.Time
	patterns []pattern
	title    cases.Caser
}

type pattern struct {
	name string
	re   *regexp.Regexp
}

// NewGenerator creates a generator with a fixed seed and reference date.
func NewGenerator(seed int64, now time.Time) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		now: now,
		// Order matters: the first match wins.
		patterns: []pattern{
			{"email", regexp.MustCompile(`(?i)(e_?mail)`)},
			{"phone", regexp.MustCompile(`(?i)(phone|tel|mobile|fax)`)},
			{"url", regexp.MustCompile(`(?i)(url|link|href|logo|image|src)`)},
			{"date", regexp.MustCompile(`(?i)(date|valid_until|due|created|updated)`)},
			{"money", regexp.MustCompile(`(?i)(price|amount|total|subtotal|tax|vat$|cost|sum)`)},
			{"quantity", regexp.MustCompile(`(?i)(qty|quantity|count|items|available|stock|days|week)`)},
			{"percentage", regexp.MustCompile(`(?i)(percent|pct|rate|discount)`)},
			{"postal", regexp.MustCompile(`(?i)(postal|zip|postcode)`)},
			{"reference", regexp.MustCompile(`(?i)(number|no$|reference|ref|sku|id$|code|batch)`)},
			{"street", regexp.MustCompile(`(?i)(street|address)`)},
			{"city", regexp.MustCompile(`(?i)(city|town)`)},
			{"country", regexp.MustCompile(`(?i)(country)`)},
			{"company", regexp.MustCompile(`(?i)(company|organi[sz]ation|business|supplier)`)},
			{"name", regexp.MustCompile(`(?i)(name|contact|author)`)},
			{"text", regexp.MustCompile(`(?i)(description|notes?|text|message|comment)`)},
			{"flag", regexp.MustCompile(`(?i)^(is_|has_)|(vip|active|enabled|paid)$`)},
			{"color", regexp.MustCompile(`(?i)(colou?r)`)},
		},
		title: cases.Title(language.English),
	}
}

// NewDefaultGenerator uses DefaultSeed and a fixed reference date.
func NewDefaultGenerator() *Generator {
	return NewGenerator(DefaultSeed, time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC))
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

// Value generates a value for a binding path.
func (g *Generator) Value(path string) any {
	segments := strings.Split(path, ".")
	last := strings.TrimSuffix(segments[len(segments)-1], binding.ArrayMarker)

	for _, p := range g.patterns {
		if p.re.MatchString(last) {
			return g.byPattern(p.name, last)
		}
	}
	return "Sample " + g.title.String(strings.ReplaceAll(last, "_", " "))
}

func (g *Generator) byPattern(name, segment string) any {
	switch name {
	case "email":
		return fmt.Sprintf("%s@%s", g.pick([]string{"anna", "lars", "sophie", "tom", "mila"}),
			g.pick([]string{"example.com", "example.org", "example.net"}))
	case "phone":
		return fmt.Sprintf("+49 %d %07d", g.rng.Intn(900)+100, g.rng.Intn(10000000))
	case "url":
		return fmt.Sprintf("https://example.com/%s/%d.png", strings.ToLower(segment), g.rng.Intn(1000)+1)
	case "date":
		return g.now.AddDate(0, 0, g.rng.Intn(60)-30).Format(binding.DateLayout)
	case "money":
		return float64(g.rng.Intn(100000)) / 100
	case "quantity":
		return g.rng.Intn(100) + 1
	case "percentage":
		return float64(g.rng.Intn(30))
	case "reference":
		return fmt.Sprintf("%s-%05d", strings.ToUpper(segment[:min(3, len(segment))]), g.rng.Intn(100000))
	case "street":
		return fmt.Sprintf("%s %d", g.pick([]string{"Hauptstraße", "Gartenweg", "Lindenallee", "Marktplatz"}), g.rng.Intn(120)+1)
	case "postal":
		return fmt.Sprintf("%05d", g.rng.Intn(100000))
	case "city":
		return g.pick([]string{"Berlin", "Hamburg", "Köln", "Utrecht", "Gent"})
	case "country":
		return g.pick([]string{"Germany", "Netherlands", "Belgium"})
	case "company":
		return g.pick([]string{"Greenleaf Nurseries", "Moss & Fern GmbH", "Blumenhof KG", "Tuinderij de Linde"})
	case "name":
		return g.pick([]string{"Anna Becker", "Lars Jansen", "Sophie Peeters", "Tom Müller", "Mila de Vries"})
	case "text":
		return g.pick([]string{
			"Handle with care.",
			"Delivered to the loading dock.",
			"Seasonal stock, limited availability.",
		})
	case "flag":
		return g.rng.Intn(2) == 1
	case "color":
		return g.pick([]string{"#dcfce7", "#fee2e2", "#e0f2fe", "#fef9c3"})
	}
	return nil
}

// Row generates one table row containing every path in paths.
func (g *Generator) Row(paths []string) map[string]any {
	row := map[string]any{}
	for _, p := range paths {
		setPath(row, p, g.Value(p))
	}
	return row
}

// FillMissing returns a copy of data in which every document path that does
// not resolve has a generated value. Missing table bindings get DefaultRows
// generated rows; existing object rows get their missing cells filled.
// Existing values are never replaced, and the fields of visibility rules
// are never filled.
func (g *Generator) FillMissing(data map[string]any, paths layout.Paths) map[string]any {
	out := Clone(data)

	for _, p := range paths.Document {
		if _, isRows := paths.Rows[p]; isRows {
			continue
		}
		if binding.ResolvePath(out, p) == nil {
			setPath(out, p, g.Value(p))
		}
	}

	rowsPaths := make([]string, 0, len(paths.Rows))
	for k := range paths.Rows {
		rowsPaths = append(rowsPaths, k)
	}
	sort.Strings(rowsPaths)

	for _, rowsPath := range rowsPaths {
		rowPaths := paths.Rows[rowsPath]
		existing := binding.ResolvePath(out, rowsPath)
		rows, ok := existing.([]any)
		if existing == nil || (ok && len(rows) == 0) {
			generated := make([]any, DefaultRows)
			for i := range generated {
				generated[i] = g.Row(rowPaths)
			}
			setPath(out, rowsPath, generated)
			continue
		}
		for _, r := range rows {
			row, ok := r.(map[string]any)
			if !ok {
				continue
			}
			for _, p := range rowPaths {
				if binding.ResolvePath(row, p) == nil {
					setPath(row, p, g.Value(p))
				}
			}
		}
	}
	return out
}

// setPath writes value at a dotted path, creating intermediate objects.
// It gives up when an intermediate value is not an object.
func setPath(root map[string]any, path string, value any) bool {
	segments := strings.Split(path, ".")
	current := root
	for i, seg := range segments {
		key := strings.TrimSuffix(seg, binding.ArrayMarker)
		if i == len(segments)-1 {
			current[key] = value
			return true
		}
		next, exists := current[key]
		if !exists || next == nil {
			child := map[string]any{}
			current[key] = child
			current = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return false
		}
		current = child
	}
	return false
}

// Clone deep-copies the maps and slices of a data object. Nil stays nil.
func Clone(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Clone(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	}
	return v
}
