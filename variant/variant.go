// Package variant implements the tagged scalar used throughout constant
// folding, READ/DATA coercion, and literal evaluation: an integer, float,
// double, or string value with automatic arithmetic widening.
//
// Grounded on the arithmetic-widening style of the teacher's operator
// dispatch (debugger/expr_parser.go's applyOperator: one case per operator,
// explicit typed results) generalised from uint32-only to Comal's four
// scalar kinds.
package variant

import (
	"fmt"
	"math"
)

// Kind discriminates the scalar held by a Value.
type Kind int

const (
	Int Kind = iota
	Float
	Double
	String
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "integer"
	case Float:
		return "float"
	case Double:
		return "double"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a tagged scalar. Only the field matching Kind is meaningful.
type Value struct {
	Kind Kind
	I    int32
	F    float32
	D    float64
	S    string
}

func NewInt(i int32) Value      { return Value{Kind: Int, I: i} }
func NewFloat(f float32) Value  { return Value{Kind: Float, F: f} }
func NewDouble(d float64) Value { return Value{Kind: Double, D: d} }
func NewString(s string) Value  { return Value{Kind: String, S: s} }

// IsZero reports whether a numeric value is zero; strings are never "zero".
func (v Value) IsZero() bool {
	switch v.Kind {
	case Int:
		return v.I == 0
	case Float:
		return v.F == 0
	case Double:
		return v.D == 0
	default:
		return false
	}
}

// AsFloat64 widens any numeric kind to float64 for computation.
func (v Value) AsFloat64() float64 {
	switch v.Kind {
	case Int:
		return float64(v.I)
	case Float:
		return float64(v.F)
	case Double:
		return v.D
	default:
		return 0
	}
}

// AsInt32 narrows any numeric kind to int32, wrapping modulo 2^32 per
// spec.md invariant on integer overflow.
func (v Value) AsInt32() int32 {
	switch v.Kind {
	case Int:
		return v.I
	case Float:
		return int32(uint32(int64(v.F)))
	case Double:
		return int32(uint32(int64(v.D)))
	default:
		return 0
	}
}

// widest returns the broader of two numeric kinds: Double > Float > Int.
func widest(a, b Kind) Kind {
	if a == Double || b == Double {
		return Double
	}
	if a == Float || b == Float {
		return Float
	}
	return Int
}

func widenTo(v Value, k Kind) Value {
	switch k {
	case Double:
		return NewDouble(v.AsFloat64())
	case Float:
		return NewFloat(float32(v.AsFloat64()))
	default:
		return NewInt(v.AsInt32())
	}
}

// Add implements numeric '+' with automatic widening, or string
// concatenation when both operands are strings.
func (v Value) Add(o Value) (Value, error) {
	if v.Kind == String && o.Kind == String {
		return NewString(v.S + o.S), nil
	}
	if v.Kind == String || o.Kind == String {
		return Value{}, fmt.Errorf("type mismatch: cannot add %s and %s", v.Kind, o.Kind)
	}
	k := widest(v.Kind, o.Kind)
	l, r := widenTo(v, k), widenTo(o, k)
	switch k {
	case Double:
		return NewDouble(l.D + r.D), nil
	case Float:
		return NewFloat(l.F + r.F), nil
	default:
		// Safe: int32 overflow wraps modulo 2^32 per spec.
		return NewInt(int32(uint32(l.I) + uint32(r.I))), nil
	}
}

func (v Value) Sub(o Value) (Value, error) {
	if v.Kind == String || o.Kind == String {
		return Value{}, fmt.Errorf("type mismatch: cannot subtract strings")
	}
	k := widest(v.Kind, o.Kind)
	l, r := widenTo(v, k), widenTo(o, k)
	switch k {
	case Double:
		return NewDouble(l.D - r.D), nil
	case Float:
		return NewFloat(l.F - r.F), nil
	default:
		return NewInt(int32(uint32(l.I) - uint32(r.I))), nil
	}
}

func (v Value) Mul(o Value) (Value, error) {
	if v.Kind == String || o.Kind == String {
		return Value{}, fmt.Errorf("type mismatch: cannot multiply strings")
	}
	k := widest(v.Kind, o.Kind)
	l, r := widenTo(v, k), widenTo(o, k)
	switch k {
	case Double:
		return NewDouble(l.D * r.D), nil
	case Float:
		return NewFloat(l.F * r.F), nil
	default:
		return NewInt(int32(uint32(l.I) * uint32(r.I))), nil
	}
}

// Div implements numeric '/'; division by zero is a recoverable error per
// spec.md section 3.
func (v Value) Div(o Value) (Value, error) {
	if v.Kind == String || o.Kind == String {
		return Value{}, fmt.Errorf("type mismatch: cannot divide strings")
	}
	if o.IsZero() {
		return Value{}, fmt.Errorf("division by zero")
	}
	k := widest(v.Kind, o.Kind)
	if k == Int {
		k = Float // Comal '/' is always real division; DIV/MOD are the integer forms
	}
	l, r := widenTo(v, k), widenTo(o, k)
	if k == Double {
		return NewDouble(l.D / r.D), nil
	}
	return NewFloat(l.F / r.F), nil
}

// Pow implements '^', right-associative exponentiation.
func (v Value) Pow(o Value) (Value, error) {
	if v.Kind == String || o.Kind == String {
		return Value{}, fmt.Errorf("type mismatch: cannot exponentiate strings")
	}
	result := math.Pow(v.AsFloat64(), o.AsFloat64())
	k := widest(v.Kind, o.Kind)
	if k == Double {
		return NewDouble(result), nil
	}
	if k == Float {
		return NewFloat(float32(result)), nil
	}
	return NewInt(int32(uint32(int64(result)))), nil
}

// IDiv and IMod implement Comal's DIV/MOD integer arithmetic. The
// expression parser does not call them: it lowers DIV/MOD to IDIV/IMOD
// calls into the intrinsic library rather than folding them.
func IDiv(a, b int32) (int32, error) {
	if b == 0 {
		return 0, fmt.Errorf("division by zero")
	}
	return a / b, nil
}

func IMod(a, b int32) (int32, error) {
	if b == 0 {
		return 0, fmt.Errorf("division by zero")
	}
	return a % b, nil
}

// Compare returns -1, 0, 1 for numeric or string operands of the same
// general kind (numeric vs numeric, string vs string); mixed comparisons
// are a caller-level type mismatch.
func (v Value) Compare(o Value) (int, error) {
	if v.Kind == String && o.Kind == String {
		switch {
		case v.S < o.S:
			return -1, nil
		case v.S > o.S:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if v.Kind == String || o.Kind == String {
		return 0, fmt.Errorf("type mismatch: cannot compare string and number")
	}
	l, r := v.AsFloat64(), o.AsFloat64()
	switch {
	case l < r:
		return -1, nil
	case l > r:
		return 1, nil
	default:
		return 0, nil
	}
}

func (v Value) String() string {
	switch v.Kind {
	case Int:
		return fmt.Sprintf("%d", v.I)
	case Float:
		return fmt.Sprintf("%g", v.F)
	case Double:
		return fmt.Sprintf("%g", v.D)
	default:
		return v.S
	}
}
