package tabular

import (
	"strconv"
	"strings"
)

// Kind classifies a cell value.
type Kind int

const (
	Null Kind = iota
	Int
	Float
	Text
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Text:
		return "text"
	default:
		return "null"
	}
}

// Value is a single typed cell.
type Value struct {
	kind Kind
	i    int64
	f    float64
	text string
}

// NullValue returns the absence marker.
func NullValue() Value { return Value{} }

// IntValue wraps an integer cell.
func IntValue(v int64) Value { return Value{kind: Int, i: v} }

// FloatValue wraps a floating-point cell.
func FloatValue(v float64) Value { return Value{kind: Float, f: v} }

// TextValue wraps a text cell. Empty text is still text; use Parse to apply
// the absence rule.
func TextValue(v string) Value { return Value{kind: Text, text: v} }

// Parse applies the opportunistic typing rule: trimmed empty input is Null, an
// optional leading minus followed by digits with at most one decimal point is a
// number, everything else is Text.
func Parse(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return NullValue()
	}
	if !isNumeric(s) {
		return TextValue(s)
	}
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return TextValue(s)
		}
		return FloatValue(f)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return TextValue(s)
	}
	return IntValue(n)
}

func isNumeric(s string) bool {
	s = strings.TrimPrefix(s, "-")
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return digits > 0
}

// Kind reports the value's classification.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is the absence marker.
func (v Value) IsNull() bool { return v.kind == Null }

// IsNumber reports whether the value is an Int or a Float.
func (v Value) IsNumber() bool { return v.kind == Int || v.kind == Float }

// Float returns the numeric value as float64.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case Int:
		return float64(v.i), true
	case Float:
		return v.f, true
	default:
		return 0, false
	}
}

// Int returns the numeric value truncated toward zero.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case Int:
		return v.i, true
	case Float:
		return int64(v.f), true
	default:
		return 0, false
	}
}

// String renders the value's text form. Null renders empty and floats always
// keep a decimal point so the text parses back to a Float.
func (v Value) String() string {
	switch v.kind {
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		s := strconv.FormatFloat(v.f, 'f', -1, 64)
		if !strings.ContainsAny(s, ".NI") {
			s += ".0"
		}
		return s
	case Text:
		return v.text
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Int:
		return v.i == other.i
	case Float:
		return v.f == other.f
	case Text:
		return v.text == other.text
	default:
		return true
	}
}
