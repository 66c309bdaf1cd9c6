// Package ir defines the typed expression and statement trees the hexagon
// rewriters operate on: a small, self-contained analogue of the typed IR
// that a real data-parallel image compiler would hand the peephole pass.
package ir

import "fmt"

// Code is the signedness/kind tag of a Type.
type Code uint8

const (
	Int Code = iota
	UInt
	Float
	Handle
	// Bool is the type of comparisons, logical ops and select conditions.
	// Not part of the Halide-derived Code set this package is modeled on,
	// but required so And/Or/Not/comparisons have a concrete, checkable
	// result type instead of reusing Int.
	Bool
)

func (c Code) String() string {
	switch c {
	case Int:
		return "int"
	case UInt:
		return "uint"
	case Float:
		return "float"
	case Handle:
		return "handle"
	case Bool:
		return "bool"
	default:
		return "code?"
	}
}

// Type is the (signedness, bit-width, lane-count) triple every Expr carries.
// Lanes == 1 denotes a scalar; Lanes == 0 is the AnyLanes wildcard marker
// used only inside pattern tables, never on a real expression.
type Type struct {
	Code  Code
	Bits  int
	Lanes int
}

func (t Type) String() string {
	base := fmt.Sprintf("%s%d", t.Code, t.Bits)
	if t.Lanes == 0 {
		return base + "x?"
	}
	if t.Lanes > 1 {
		return fmt.Sprintf("%sx%d", base, t.Lanes)
	}
	return base
}

// WithBits returns t with its bit-width replaced.
func (t Type) WithBits(bits int) Type { t.Bits = bits; return t }

// WithCode returns t with its signedness replaced.
func (t Type) WithCode(c Code) Type { t.Code = c; return t }

// WithLanes returns t with its lane count replaced.
func (t Type) WithLanes(lanes int) Type { t.Lanes = lanes; return t }

// IsScalar reports whether t has a single lane.
func (t Type) IsScalar() bool { return t.Lanes <= 1 }

// IsVector reports whether t has more than one lane.
func (t Type) IsVector() bool { return t.Lanes > 1 }

// IsAnyLanes reports whether t is the pattern-table lane wildcard.
func (t Type) IsAnyLanes() bool { return t.Lanes == 0 }

// Equal reports exact (code, bits, lanes) equality.
func (t Type) Equal(o Type) bool { return t == o }

// Min returns the minimum representable value of t as a scalar constant
// of the same code and bits.
func (t Type) Min() Expr {
	scalar := t.WithLanes(1)
	switch t.Code {
	case UInt, Bool:
		return UIntImm{Typ: scalar, Value: 0}
	default:
		if t.Bits >= 64 {
			return IntImm{Typ: scalar, Value: int64(-1) << 63}
		}
		return IntImm{Typ: scalar, Value: int64(-1) << (t.Bits - 1)}
	}
}

// Max returns the maximum representable value of t as a scalar constant
// of the same code and bits.
func (t Type) Max() Expr {
	scalar := t.WithLanes(1)
	switch t.Code {
	case UInt, Bool:
		if t.Bits >= 64 {
			return UIntImm{Typ: scalar, Value: ^uint64(0)}
		}
		return UIntImm{Typ: scalar, Value: (uint64(1) << t.Bits) - 1}
	default:
		if t.Bits >= 64 {
			return IntImm{Typ: scalar, Value: int64(^uint64(0) >> 1)}
		}
		return IntImm{Typ: scalar, Value: (int64(1) << (t.Bits - 1)) - 1}
	}
}

// IntOf, UIntOf and BoolOf are convenience scalar type constructors.
func IntOf(bits int) Type  { return Type{Code: Int, Bits: bits, Lanes: 1} }
func UIntOf(bits int) Type { return Type{Code: UInt, Bits: bits, Lanes: 1} }
func BoolOf() Type         { return Type{Code: Bool, Bits: 1, Lanes: 1} }
