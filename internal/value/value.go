// Package value implements VlValue, the dynamic value type produced by
// the compile-time expression evaluator. A value is one of: int, real,
// time, scalar (a single four-state bit), a four-state bit-vector, or
// an error placeholder.
package value

import (
	"fmt"
	"math/big"
	"strings"
)

// Kind discriminates the VlValue variants.
type Kind int

const (
	KindError Kind = iota
	KindInt
	KindReal
	KindTime
	KindScalar
	KindBitVector
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindTime:
		return "time"
	case KindScalar:
		return "scalar"
	case KindBitVector:
		return "bit-vector"
	default:
		return "error"
	}
}

// Bit is one four-state logic value.
type Bit byte

const (
	B0 Bit = iota
	B1
	BX
	BZ
)

func (b Bit) String() string {
	switch b {
	case B0:
		return "0"
	case B1:
		return "1"
	case BZ:
		return "z"
	default:
		return "x"
	}
}

// IsUnknown reports whether b is x or z.
func (b Bit) IsUnknown() bool { return b == BX || b == BZ }

// Value is the dynamic value produced by constant-expression folding.
// Exactly one of the fields is meaningful, selected by Kind.
type Value struct {
	Kind   Kind
	I      int64   // KindInt
	R      float64 // KindReal
	T      uint64  // KindTime
	Signed bool    // KindScalar/KindBitVector: sign-extend vs zero-extend
	Bits   []Bit   // KindScalar (len 1) / KindBitVector, MSB-first
	ErrMsg string  // KindError
}

// Int makes a plain (two-state) integer value.
func Int(v int64) Value { return Value{Kind: KindInt, I: v} }

// Real makes a real value.
func Real(v float64) Value { return Value{Kind: KindReal, R: v} }

// TimeValue makes a $time-typed value.
func TimeValue(v uint64) Value { return Value{Kind: KindTime, T: v} }

// Scalar makes a single four-state bit value.
func Scalar(b Bit) Value { return Value{Kind: KindScalar, Bits: []Bit{b}} }

// BitVec makes a bit-vector value from MSB-first bits.
func BitVec(bits []Bit, signed bool) Value {
	cp := make([]Bit, len(bits))
	copy(cp, bits)
	return Value{Kind: KindBitVector, Bits: cp, Signed: signed}
}

// XVec makes an all-x bit-vector of the given width — the standard
// "out of range" / "propagate unknown" result.
func XVec(width int, signed bool) Value {
	bits := make([]Bit, width)
	for i := range bits {
		bits[i] = BX
	}
	return Value{Kind: KindBitVector, Bits: bits, Signed: signed}
}

// Errorf makes an error placeholder value.
func Errorf(format string, args ...any) Value {
	return Value{Kind: KindError, ErrMsg: fmt.Sprintf(format, args...)}
}

// IsError reports whether v is the error placeholder.
func (v Value) IsError() bool { return v.Kind == KindError }

// Width returns the bit width for scalar/bit-vector values, 0 otherwise.
func (v Value) Width() int {
	if v.Kind == KindScalar || v.Kind == KindBitVector {
		return len(v.Bits)
	}
	return 0
}

// HasXZ reports whether any constituent bit is x or z.
func (v Value) HasXZ() bool {
	for _, b := range v.Bits {
		if b.IsUnknown() {
			return true
		}
	}
	return false
}

// String renders the value for diagnostics and dumps.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.I)
	case KindReal:
		return fmt.Sprintf("%g", v.R)
	case KindTime:
		return fmt.Sprintf("%d", v.T)
	case KindScalar:
		return v.Bits[0].String()
	case KindBitVector:
		var sb strings.Builder
		sign := "b"
		if v.Signed {
			sign = "sb"
		}
		fmt.Fprintf(&sb, "%d'%s", len(v.Bits), sign)
		for _, b := range v.Bits {
			sb.WriteString(b.String())
		}
		return sb.String()
	default:
		return "<error: " + v.ErrMsg + ">"
	}
}

// ToInt folds v to a plain integer. ok is false if v contains x/z;
// callers needing a definite index (e.g. a bit-select offset) must
// check ok and fall back to an x result rather than indexing blindly.
func (v Value) ToInt() (result int64, ok bool) {
	switch v.Kind {
	case KindInt:
		return v.I, true
	case KindReal:
		return int64(v.R), true
	case KindTime:
		return int64(v.T), true
	case KindScalar, KindBitVector:
		if v.HasXZ() {
			return 0, false
		}
		return bitsToBig(v.Bits, v.Signed).Int64(), true
	default:
		return 0, false
	}
}

// ToBool folds v to a tri-state boolean scalar per IEEE reduction-to-
// condition rules: any nonzero known bit -> true, all-zero -> false,
// any x/z -> unknown (ok=false).
func (v Value) ToBool() (result bool, ok bool) {
	switch v.Kind {
	case KindInt:
		return v.I != 0, true
	case KindReal:
		return v.R != 0, true
	case KindTime:
		return v.T != 0, true
	case KindScalar, KindBitVector:
		sawOne := false
		for _, b := range v.Bits {
			if b.IsUnknown() {
				return false, false
			}
			if b == B1 {
				sawOne = true
			}
		}
		return sawOne, true
	default:
		return false, false
	}
}

// ToBitVector coerces v to a bit-vector of the given width and
// signedness, sign-extending signed values and zero-extending
// unsigned ones; a scalar/bit-vector holding any x/z bit is extended
// with x when unsigned and with its own MSB when signed.
func (v Value) ToBitVector(width int, signed bool) Value {
	var bits []Bit
	switch v.Kind {
	case KindInt, KindReal, KindTime:
		n, _ := v.ToInt()
		bits = bigToBits(big.NewInt(n), width, signed)
		return BitVec(bits, signed)
	case KindScalar, KindBitVector:
		bits = resizeBits(v.Bits, width, v.Signed)
		return BitVec(bits, signed)
	default:
		return XVec(width, signed)
	}
}

func resizeBits(bits []Bit, width int, signed bool) []Bit {
	if len(bits) == width {
		out := make([]Bit, width)
		copy(out, bits)
		return out
	}
	if len(bits) > width {
		return append([]Bit{}, bits[len(bits)-width:]...)
	}
	pad := BX
	if !hasUnknown(bits) {
		pad = B0
		if signed && len(bits) > 0 && bits[0] == B1 {
			pad = B1
		}
	} else if signed && len(bits) > 0 {
		pad = bits[0]
	}
	out := make([]Bit, 0, width)
	for i := 0; i < width-len(bits); i++ {
		out = append(out, pad)
	}
	out = append(out, bits...)
	return out
}

func hasUnknown(bits []Bit) bool {
	for _, b := range bits {
		if b.IsUnknown() {
			return true
		}
	}
	return false
}

func bitsToBig(bits []Bit, signed bool) *big.Int {
	n := big.NewInt(0)
	for _, b := range bits {
		n.Lsh(n, 1)
		if b == B1 {
			n.Or(n, big.NewInt(1))
		}
	}
	if signed && len(bits) > 0 && bits[0] == B1 {
		full := new(big.Int).Lsh(big.NewInt(1), uint(len(bits)))
		n.Sub(n, full)
	}
	return n
}

func bigToBits(n *big.Int, width int, signed bool) []Bit {
	v := new(big.Int).Set(n)
	if v.Sign() < 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
		v.Add(v, mod)
		v.Mod(v, mod)
	}
	bits := make([]Bit, width)
	tmp := new(big.Int).Set(v)
	one := big.NewInt(1)
	for i := width - 1; i >= 0; i-- {
		if new(big.Int).And(tmp, one).Sign() != 0 {
			bits[i] = B1
		} else {
			bits[i] = B0
		}
		tmp.Rsh(tmp, 1)
	}
	_ = signed
	return bits
}
