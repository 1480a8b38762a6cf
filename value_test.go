package pinlang

import "testing"

func Test_Value_format(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Int(42), "42"},
		{Int(-1), "-1"},
		{Float(3.5), "3.5"},
		{Float(8.0), "8.0"},
		{Float(-2.0), "-2.0"},
		{Str("hi"), "hi"},
		{Str(""), ""},
		{BoolVal(true), "true"},
		{BoolVal(false), "false"},
		{List(nil), "[]"},
		{List([]Value{Int(1), Str("two"), Float(3.5)}), `[1, "two", 3.5]`},
		{List([]Value{List([]Value{Int(1)})}), "[[1]]"},
	}
	for _, c := range cases {
		if got := FormatValue(c.v); got != c.want {
			t.Errorf("FormatValue(%v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func Test_Value_truthiness(t *testing.T) {
	truthy := []Value{Int(1), Int(-1), Float(0.5), Str("x"), List([]Value{Int(0)}), BoolVal(true)}
	falsy := []Value{Int(0), Float(0), Str(""), List(nil), BoolVal(false)}

	for _, v := range truthy {
		if !isTruthy(v) {
			t.Errorf("%v should be truthy", v)
		}
	}
	for _, v := range falsy {
		if isTruthy(v) {
			t.Errorf("%v should be falsy", v)
		}
	}
}

func Test_Value_equality(t *testing.T) {
	// Numeric equality crosses int/float/bool.
	if !valuesEqual(Int(1), Float(1.0)) {
		t.Error("1 should equal 1.0")
	}
	if !valuesEqual(BoolVal(true), Int(1)) {
		t.Error("true should equal 1")
	}
	if valuesEqual(Int(1), Int(2)) {
		t.Error("1 should not equal 2")
	}

	// Unlike kinds are unequal, never an error.
	if valuesEqual(Str("1"), Int(1)) {
		t.Error("string and int should be unequal")
	}

	// Lists compare element-wise.
	a := List([]Value{Int(1), Str("x")})
	b := List([]Value{Int(1), Str("x")})
	c := List([]Value{Int(1), Str("y")})
	if !valuesEqual(a, b) {
		t.Error("equal lists should compare equal")
	}
	if valuesEqual(a, c) {
		t.Error("different lists should compare unequal")
	}
	if valuesEqual(a, List([]Value{Int(1)})) {
		t.Error("different lengths should compare unequal")
	}
}

func Test_Value_numeric_coercion(t *testing.T) {
	if asInt(BoolVal(true)) != 1 || asInt(BoolVal(false)) != 0 {
		t.Error("bool coercion")
	}
	if asFloat(Int(3)) != 3.0 {
		t.Error("int to float coercion")
	}
	if asInt(Float(3.9)) != 3 {
		t.Error("float truncation")
	}
	if isNumeric(Str("3")) || isNumeric(List(nil)) {
		t.Error("strings and lists are not numeric")
	}
	if !isIntLike(Int(1)) || !isIntLike(BoolVal(true)) || isIntLike(Float(1)) {
		t.Error("int-likeness")
	}
}
