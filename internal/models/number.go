package models

import "math"

// NumberKind records which Go numeric type a Number was built from.
type NumberKind uint8

const (
	IntKind NumberKind = iota
	UintKind
	FloatKind
)

// Number is a JSON number backed by an int64, a uint64 or a float64.
// NaN and infinities can be stored but are rejected when rendered.
type Number struct {
	kind NumberKind
	i    int64
	u    uint64
	f    float64
}

// Int wraps a signed integer
func Int(i int64) Value { return Number{kind: IntKind, i: i} }

// Uint wraps an unsigned integer
func Uint(u uint64) Value { return Number{kind: UintKind, u: u} }

// Float wraps a floating point number
func Float(f float64) Value { return Number{kind: FloatKind, f: f} }

// Kind reports the backing type
func (n Number) Kind() NumberKind { return n.kind }

// Int64 returns the signed value. Only meaningful for IntKind.
func (n Number) Int64() int64 { return n.i }

// Uint64 returns the unsigned value. Only meaningful for UintKind.
func (n Number) Uint64() uint64 { return n.u }

// Float64 returns the value as a float64, converting integers.
func (n Number) Float64() float64 {
	switch n.kind {
	case IntKind:
		return float64(n.i)
	case UintKind:
		return float64(n.u)
	default:
		return n.f
	}
}

// IsFinite reports whether the number can be written as JSON.
func (n Number) IsFinite() bool {
	if n.kind != FloatKind {
		return true
	}
	return !math.IsNaN(n.f) && !math.IsInf(n.f, 0)
}
