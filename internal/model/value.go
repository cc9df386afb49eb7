package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind identifies which variant a Value holds.
type ValueKind int

const (
	// NullValue is an explicit null literal.
	NullValue ValueKind = iota
	// IntValue is an integer literal.
	IntValue
	// FloatValue is a floating-point literal.
	FloatValue
	// StringValue is a quoted string literal (quotes stripped).
	StringValue
	// BoolValue is a true/false literal.
	BoolValue
	// IdentValue is a bare identifier carried through verbatim.
	IdentValue
	// ListValue is an ordered list of values.
	ListValue
)

// String returns the string representation of a ValueKind.
func (k ValueKind) String() string {
	switch k {
	case NullValue:
		return "Null"
	case IntValue:
		return "Int"
	case FloatValue:
		return "Float"
	case StringValue:
		return "String"
	case BoolValue:
		return "Bool"
	case IdentValue:
		return "Ident"
	case ListValue:
		return "List"
	default:
		return "Unknown"
	}
}

// Value is a closed tagged union for default values and loosely-typed
// parameter bags. Exactly one variant field is meaningful, selected by Kind.
type Value struct {
	Kind ValueKind
	Int  int64
	Flt  float64
	Str  string // StringValue and IdentValue payloads
	Bool bool
	List []Value
}

// Null returns the null value.
func Null() Value { return Value{Kind: NullValue} }

// Int64 wraps an integer literal.
func Int64(v int64) Value { return Value{Kind: IntValue, Int: v} }

// Float64 wraps a float literal.
func Float64(v float64) Value { return Value{Kind: FloatValue, Flt: v} }

// Str wraps a string literal.
func Str(v string) Value { return Value{Kind: StringValue, Str: v} }

// Boolean wraps a boolean literal.
func Boolean(v bool) Value { return Value{Kind: BoolValue, Bool: v} }

// Ident wraps a bare identifier.
func Ident(v string) Value { return Value{Kind: IdentValue, Str: v} }

// ListOf wraps an ordered list of values.
func ListOf(vs ...Value) Value { return Value{Kind: ListValue, List: vs} }

// IsNull reports whether the value is the null variant.
func (v Value) IsNull() bool { return v.Kind == NullValue }

// Equal reports deep equality of two values.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case IntValue:
		return v.Int == o.Int
	case FloatValue:
		return v.Flt == o.Flt
	case StringValue, IdentValue:
		return v.Str == o.Str
	case BoolValue:
		return v.Bool == o.Bool
	case ListValue:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(o.List[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders the value in DSL source form.
func (v Value) String() string {
	switch v.Kind {
	case NullValue:
		return "null"
	case IntValue:
		return strconv.FormatInt(v.Int, 10)
	case FloatValue:
		return strconv.FormatFloat(v.Flt, 'g', -1, 64)
	case StringValue:
		return strconv.Quote(v.Str)
	case BoolValue:
		return strconv.FormatBool(v.Bool)
	case IdentValue:
		return v.Str
	case ListValue:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return ""
	}
}

// MarshalJSON renders each variant as its natural JSON form: null, number,
// string, boolean or array. Identifiers serialize as strings, matching how
// downstream generators consume them.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case NullValue:
		return []byte("null"), nil
	case IntValue:
		return json.Marshal(v.Int)
	case FloatValue:
		return json.Marshal(v.Flt)
	case StringValue, IdentValue:
		return json.Marshal(v.Str)
	case BoolValue:
		return json.Marshal(v.Bool)
	case ListValue:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.Kind)
	}
}

// UnmarshalJSON classifies a JSON scalar or array back into a Value.
// Strings always become StringValue; the identifier distinction is not
// recoverable from JSON and is not needed on the import path.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = Null()
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Str(s)
	case '[':
		var list []Value
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*v = Value{Kind: ListValue, List: list}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Boolean(b)
	default:
		if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			*v = Int64(i)
			return nil
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return fmt.Errorf("cannot classify JSON value %s", trimmed)
		}
		*v = Float64(f)
	}
	return nil
}
