package binding

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	data := map[string]any{
		"a": map[string]any{"b": 5},
		"customer": map[string]any{
			"name":    "Greenhouse Ltd",
			"address": map[string]any{"city": "Utrecht"},
		},
		"lines": []any{
			map[string]any{"description": "Fern"},
		},
		"label": "plain",
	}

	testCases := []struct {
		name     string
		path     string
		expected any
	}{
		{"nested", "a.b", 5},
		{"missing leaf", "a.c", nil},
		{"missing root", "x.y", nil},
		{"through non-object", "label.length", nil},
		{"deep", "customer.address.city", "Utrecht"},
		{"array marker stripped", "customer[].name", "Greenhouse Ltd"},
		{"index into slice", "lines.0.description", "Fern"},
		{"index out of range", "lines.3.description", nil},
		{"empty path", "", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tc.expected, ResolvePath(data, tc.path))
			})
		})
	}

	assert.Nil(t, ResolvePath(nil, "a.b"))
}

func TestResolvePathArrayMarkerEquivalence(t *testing.T) {
	data := map[string]any{"items": map[string]any{"count": 3}}
	assert.Equal(t, ResolvePath(data, "items.count"), ResolvePath(data, "items[].count"))
}

func TestResolvePathTypedValues(t *testing.T) {
	type address struct {
		Street string `json:"street"`
		City   string
	}
	type customer struct {
		Name    string   `json:"name"`
		Address *address `json:"address"`
		secret  string
	}
	data := map[string]any{
		"customer": customer{Name: "Acme", Address: &address{Street: "Main 1", City: "Gent"}, secret: "x"},
		"counts":   map[string]int{"boxes": 4},
	}

	assert.Equal(t, "Acme", ResolvePath(data, "customer.name"))
	assert.Equal(t, "Main 1", ResolvePath(data, "customer.address.street"))
	assert.Equal(t, "Gent", ResolvePath(data, "customer.address.City"))
	assert.Nil(t, ResolvePath(data, "customer.secret"))
	assert.Equal(t, 4, ResolvePath(data, "counts.boxes"))
}

func TestApplyBindings(t *testing.T) {
	data := map[string]any{
		"name":    "World",
		"total":   1234.5,
		"count":   10,
		"issued":  time.Date(2024, 3, 9, 14, 0, 0, 0, time.UTC),
		"invoice": map[string]any{"number": "INV-7"},
	}

	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{"simple", "Hello {{name}}", "Hello World"},
		{"missing", "Hello {{nobody}}", "Hello "},
		{"whitespace trimmed", "Hello {{  name }}", "Hello World"},
		{"number", "Total: {{total}}", "Total: 1234.5"},
		{"integer", "{{count}} boxes", "10 boxes"},
		{"date", "Issued {{issued}}", "Issued 2024-03-09"},
		{"nested", "Invoice {{invoice.number}}", "Invoice INV-7"},
		{"several", "{{name}}/{{invoice.number}}", "World/INV-7"},
		{"no placeholders", "static", "static"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ApplyBindings(tc.text, data))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"a.b", "c"}, Placeholders("x {{ a.b }} y {{c}}"))
	assert.Empty(t, Placeholders("none"))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "0.1", Stringify(0.1))
	assert.Equal(t, "42", Stringify(int64(42)))
	assert.Equal(t, "7", Stringify(json.Number("7")))
	assert.Equal(t, `{"a":1}`, Stringify(map[string]any{"a": 1}))
	assert.Equal(t, `[1,"x"]`, Stringify([]any{1, "x"}))
}

func TestFormatValue(t *testing.T) {
	t.Run("currency keeps two decimals", func(t *testing.T) {
		out := FormatValue(1234.5, FormatCurrency)
		assert.Regexp(t, `1.?234[.,]50`, out)
		assert.True(t, strings.Contains(out, "€") || strings.Contains(out, "EUR"), out)
	})

	t.Run("currency rounds", func(t *testing.T) {
		assert.Regexp(t, `^10,00 `, FormatValue(9.999, FormatCurrency))
		assert.Regexp(t, `^0,00 `, FormatValue(0, FormatCurrency))
	})

	t.Run("number groups and caps fraction", func(t *testing.T) {
		assert.Equal(t, "1.234,57", FormatValue(1234.5678, FormatNumber))
		assert.Equal(t, "12", FormatValue(12, FormatNumber))
	})

	t.Run("date", func(t *testing.T) {
		assert.Equal(t, "2024-03-09", FormatValue("2024-03-09T10:00:00Z", FormatDate))
		assert.Equal(t, "2024-03-09", FormatValue(time.Date(2024, 3, 9, 1, 0, 0, 0, time.UTC), FormatDate))
		assert.Equal(t, "next week", FormatValue("next week", FormatDate))
	})

	t.Run("nil is empty for every format", func(t *testing.T) {
		for _, f := range []string{FormatCurrency, FormatNumber, FormatDate, FormatText, ""} {
			assert.Equal(t, "", FormatValue(nil, f))
		}
	})

	t.Run("non-numeric falls back to text", func(t *testing.T) {
		assert.Equal(t, "n/a", FormatValue("n/a", FormatCurrency))
	})

	t.Run("text", func(t *testing.T) {
		assert.Equal(t, "3.5", FormatValue(3.5, FormatText))
	})
}

func TestFormatterLocales(t *testing.T) {
	en, err := NewFormatter("en-US", "USD")
	require.NoError(t, err)
	usd := en.Format(1234.5, FormatCurrency)
	assert.Contains(t, usd, "1,234.50")
	assert.Contains(t, usd, "$")
	assert.Equal(t, "1,234.57", en.Format(1234.567, FormatNumber))

	_, err = NewFormatter("not a locale!", "EUR")
	assert.Error(t, err)
	_, err = NewFormatter("de-DE", "EURO")
	assert.Error(t, err)
}

func TestConditions(t *testing.T) {
	vip := Conditions{{Field: "customer.vip", Operator: OpEquals, Value: true}}

	assert.True(t, vip.Matches(map[string]any{"customer": map[string]any{"vip": true}}))
	assert.False(t, vip.Matches(map[string]any{"customer": map[string]any{"vip": false}}))
	assert.False(t, vip.Matches(map[string]any{}))

	exists := Condition{Field: "notes", Operator: OpExists}
	assert.True(t, exists.Matches(map[string]any{"notes": "x"}))
	assert.False(t, exists.Matches(map[string]any{"notes": ""}))
	assert.False(t, exists.Matches(map[string]any{}))

	notEq := Condition{Field: "status", Operator: OpNotEquals, Value: "draft"}
	assert.True(t, notEq.Matches(map[string]any{"status": "final"}))
	assert.True(t, notEq.Matches(map[string]any{}))

	both := Conditions{exists, notEq}
	assert.False(t, both.Matches(map[string]any{"notes": "x", "status": "draft"}))

	assert.True(t, Condition{Field: "x", Operator: "matches"}.Matches(nil))
	assert.True(t, Conditions(nil).Matches(nil))
}

func TestConditionsJSON(t *testing.T) {
	var single Conditions
	require.NoError(t, json.Unmarshal([]byte(`{"field":"a","operator":"exists"}`), &single))
	assert.Len(t, single, 1)

	var list Conditions
	require.NoError(t, json.Unmarshal([]byte(`[{"field":"a","operator":"exists"},{"field":"b","operator":"equals","value":2}]`), &list))
	require.Len(t, list, 2)
	assert.True(t, list[1].Matches(map[string]any{"a": 1, "b": 2}))

	out, err := json.Marshal(single)
	require.NoError(t, err)
	assert.JSONEq(t, `{"field":"a","operator":"exists"}`, string(out))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(2, 2.0))
	assert.True(t, Equal("a", "a"))
	assert.False(t, Equal("2", 2))
	assert.False(t, Equal(2, "2"))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, false))
	assert.True(t, Equal(true, true))
}
