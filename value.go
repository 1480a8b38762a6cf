// value.go — the runtime value model.
//
// Value is a closed tagged union: integer, float, string, list and boolean.
// Booleans only arise as comparison results; there is no boolean literal in
// the language. Arithmetic and conversion rules dispatch exhaustively on the
// tag pair (see interpreter.go).
package pinlang

import (
	"math"
	"strconv"
	"strings"
)

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTInt ValueTag = iota
	VTFloat
	VTStr
	VTList
	VTBool
)

func (t ValueTag) String() string {
	switch t {
	case VTInt:
		return "int"
	case VTFloat:
		return "float"
	case VTStr:
		return "string"
	case VTList:
		return "list"
	case VTBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is the universal runtime carrier. The tag determines which Go type
// Data holds: int64, float64, string, []Value or bool.
type Value struct {
	Tag  ValueTag
	Data any
}

func Int(n int64) Value     { return Value{Tag: VTInt, Data: n} }
func Float(f float64) Value { return Value{Tag: VTFloat, Data: f} }
func Str(s string) Value    { return Value{Tag: VTStr, Data: s} }
func List(xs []Value) Value { return Value{Tag: VTList, Data: xs} }
func BoolVal(b bool) Value  { return Value{Tag: VTBool, Data: b} }

// FormatValue renders a value the way dayin prints it. Integral floats keep a
// trailing ".0" so converted numbers stay visibly floats.
func FormatValue(v Value) string {
	switch v.Tag {
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTFloat:
		f := v.Data.(float64)
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'f', 1, 64)
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	case VTStr:
		return v.Data.(string)
	case VTList:
		var b strings.Builder
		b.WriteByte('[')
		for i, el := range v.Data.([]Value) {
			if i > 0 {
				b.WriteString(", ")
			}
			if el.Tag == VTStr {
				b.WriteString(strconv.Quote(el.Data.(string)))
			} else {
				b.WriteString(FormatValue(el))
			}
		}
		b.WriteByte(']')
		return b.String()
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	default:
		return "<unknown>"
	}
}

// String renders a debug representation; user output goes through FormatValue.
func (v Value) String() string { return v.Tag.String() + "(" + FormatValue(v) + ")" }

// isNumeric reports whether the value participates in arithmetic. Booleans
// count as 0/1, matching the observed semantics of the language.
func isNumeric(v Value) bool {
	return v.Tag == VTInt || v.Tag == VTFloat || v.Tag == VTBool
}

// isIntLike reports whether the value carries an integral payload.
func isIntLike(v Value) bool { return v.Tag == VTInt || v.Tag == VTBool }

func asInt(v Value) int64 {
	switch v.Tag {
	case VTInt:
		return v.Data.(int64)
	case VTBool:
		if v.Data.(bool) {
			return 1
		}
		return 0
	case VTFloat:
		return int64(v.Data.(float64))
	default:
		return 0
	}
}

func asFloat(v Value) float64 {
	switch v.Tag {
	case VTFloat:
		return v.Data.(float64)
	default:
		return float64(asInt(v))
	}
}

// isTruthy defines condition semantics: non-zero numbers, non-empty strings
// and non-empty lists are true.
func isTruthy(v Value) bool {
	switch v.Tag {
	case VTBool:
		return v.Data.(bool)
	case VTInt:
		return v.Data.(int64) != 0
	case VTFloat:
		return v.Data.(float64) != 0
	case VTStr:
		return v.Data.(string) != ""
	case VTList:
		return len(v.Data.([]Value)) > 0
	default:
		return false
	}
}

// valuesEqual implements "=" / "=!". Numeric values compare across int/float
// (and bool-as-number); lists compare element-wise; unlike kinds are unequal.
func valuesEqual(a, b Value) bool {
	if isNumeric(a) && isNumeric(b) {
		return asFloat(a) == asFloat(b)
	}
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTList:
		xs, ys := a.Data.([]Value), b.Data.([]Value)
		if len(xs) != len(ys) {
			return false
		}
		for i := range xs {
			if !valuesEqual(xs[i], ys[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
