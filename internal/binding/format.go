package binding

import (
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Format names accepted by FormatValue.
const (
	FormatText     = "text"
	FormatCurrency = "currency"
	FormatNumber   = "number"
	FormatDate     = "date"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
}

// Formatter formats bound values for a locale and currency.
type Formatter struct {
	locale   language.Tag
	currency currency.Unit
	printer  *message.Printer
}

// NewFormatter creates a formatter for a BCP 47 locale such as "de-DE" and an
// ISO 4217 currency code such as "EUR".
func NewFormatter(locale, currencyCode string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, err
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, err
	}
	return &Formatter{
		locale:   tag,
		currency: unit,
		printer:  message.NewPrinter(tag),
	}, nil
}

// DefaultFormatter formats for German locale and euros.
var DefaultFormatter = mustFormatter("de-DE", "EUR")

func mustFormatter(locale, code string) *Formatter {
	f, err := NewFormatter(locale, code)
	if err != nil {
		panic(err)
	}
	return f
}

// FormatValue formats value with DefaultFormatter.
func FormatValue(value any, format string) string {
	return DefaultFormatter.Format(value, format)
}

// Locale returns the formatter's locale.
func (f *Formatter) Locale() language.Tag {
	return f.locale
}

// Currency returns the formatter's currency.
func (f *Formatter) Currency() currency.Unit {
	return f.currency
}

// Format renders value according to format. nil always formats to the empty
// string; values that do not fit the requested format fall back to plain text.
func (f *Formatter) Format(value any, format string) string {
	if value == nil {
		return ""
	}

	switch format {
	case FormatCurrency:
		if n, ok := toFloat(value); ok {
			return f.formatCurrency(n)
		}
	case FormatNumber:
		if n, ok := toFloat(value); ok {
			return f.printer.Sprint(number.Decimal(n, number.MaxFractionDigits(2)))
		}
	case FormatDate:
		if t, ok := toTime(value); ok {
			return t.Format(DateLayout)
		}
	}
	return Stringify(value)
}

func (f *Formatter) formatCurrency(n float64) string {
	amount := f.printer.Sprint(number.Decimal(n,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))

	symbol := strings.TrimSpace(f.printer.Sprint(currency.Symbol(f.currency)))
	if symbol == "" {
		symbol = f.currency.String()
	}

	if base, _ := f.locale.Base(); base.String() == "en" {
		return symbol + amount
	}
	return amount + " " + symbol
}

func toTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return v.UTC(), true
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	}
	if ms, ok := toFloat(value); ok {
		return time.UnixMilli(int64(ms)).UTC(), true
	}
	return time.Time{}, false
}
