package binding

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Operator is a visibility predicate operator.
type Operator string

const (
	OpExists    Operator = "exists"
	OpEquals    Operator = "equals"
	OpNotEquals Operator = "not_equals"
)

// Condition is a single visibility predicate evaluated against document data.
type Condition struct {
	Field    string   `json:"field" yaml:"field"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    any      `json:"value,omitempty" yaml:"value,omitempty"`
}

// Matches reports whether the predicate holds for data. Unknown operators
// never hide a component.
func (c Condition) Matches(data any) bool {
	value := ResolvePath(data, c.Field)
	switch c.Operator {
	case OpExists:
		if value == nil {
			return false
		}
		if s, ok := value.(string); ok {
			return s != ""
		}
		return true
	case OpEquals:
		return Equal(value, c.Value)
	case OpNotEquals:
		return !Equal(value, c.Value)
	default:
		return true
	}
}

// Conditions is a conjunction of predicates. On the wire it is either a single
// predicate object or an array of them.
type Conditions []Condition

// Matches reports whether every predicate holds. An empty set always matches.
func (cs Conditions) Matches(data any) bool {
	for _, c := range cs {
		if !c.Matches(data) {
			return false
		}
	}
	return true
}

// UnmarshalJSON accepts null, a single object or an array.
func (cs *Conditions) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*cs = nil
		return nil
	case b[0] == '[':
		var list []Condition
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*cs = list
		return nil
	default:
		var single Condition
		if err := json.Unmarshal(b, &single); err != nil {
			return err
		}
		*cs = Conditions{single}
		return nil
	}
}

// MarshalJSON writes a single predicate as an object and several as an array.
func (cs Conditions) MarshalJSON() ([]byte, error) {
	switch len(cs) {
	case 0:
		return []byte("null"), nil
	case 1:
		return json.Marshal(cs[0])
	default:
		return json.Marshal([]Condition(cs))
	}
}

// Equal compares two bound values strictly, except that numbers of different
// Go types compare by value.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if _, isString := a.(string); !isString {
		if fa, ok := toFloat(a); ok {
			if _, bString := b.(string); bString {
				return false
			}
			fb, ok := toFloat(b)
			return ok && fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}
