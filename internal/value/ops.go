package value

import "math/big"

// Op identifies one of the IEEE-1364 operator kinds the evaluator
// folds.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpNeg
	OpUnaryPlus
	OpAnd // bitwise &
	OpOr  // bitwise |
	OpXor
	OpXnor
	OpNot // bitwise ~
	OpLogAnd
	OpLogOr
	OpLogNot
	OpEq     // ==
	OpNeq    // !=
	OpCaseEq // ===
	OpCaseNe // !==
	OpLt
	OpLe
	OpGt
	OpGe
	OpShl
	OpShr  // logical
	OpSal  // <<< on unsigned behaves like Shl
	OpSar  // >>> arithmetic
	OpRedAnd
	OpRedOr
	OpRedXor
	OpRedNand
	OpRedNor
	OpRedXnor
)

// maxWidth returns the larger of two widths, with a floor of 1.
func maxWidth(a, b int) int {
	if a < 1 {
		a = 1
	}
	if b < 1 {
		b = 1
	}
	if a > b {
		return a
	}
	return b
}

// binaryWidths produces a common operand width for two-state arithmetic
// following IEEE width-promotion: the max of the two operand widths,
// extended to any required context width.
func binaryWidths(a, b Value, required int) (int, bool) {
	w := maxWidth(a.Width(), b.Width())
	if a.Kind == KindInt || b.Kind == KindInt {
		w = maxWidth(w, 32)
	}
	if required > w {
		w = required
	}
	signed := (a.Kind != KindBitVector || a.Signed) && (b.Kind != KindBitVector || b.Signed)
	return w, signed
}

// Arith folds a two-operand arithmetic operator. Real operands are
// supported for +, -, *, / and ** only; callers must reject real
// operands for the bit-vector-only operators before calling Arith.
func Arith(op Op, a, b Value, requiredWidth int) Value {
	if a.Kind == KindReal || b.Kind == KindReal {
		return arithReal(op, a, b)
	}
	if a.HasXZ() || b.HasXZ() {
		w, signed := binaryWidths(a, b, requiredWidth)
		return XVec(w, signed)
	}
	w, signed := binaryWidths(a, b, requiredWidth)
	av := toBig(a, signed)
	bv := toBig(b, signed)
	res := new(big.Int)
	switch op {
	case OpAdd:
		res.Add(av, bv)
	case OpSub:
		res.Sub(av, bv)
	case OpMul:
		res.Mul(av, bv)
	case OpDiv:
		if bv.Sign() == 0 {
			return XVec(w, signed)
		}
		res.Quo(av, bv)
	case OpMod:
		if bv.Sign() == 0 {
			return XVec(w, signed)
		}
		res.Rem(av, bv)
	case OpPow:
		if bv.Sign() < 0 {
			return XVec(w, signed)
		}
		res.Exp(av, bv, nil)
	}
	return BitVec(bigToBits(res, w, signed), signed)
}

func arithReal(op Op, a, b Value) Value {
	av := toFloat(a)
	bv := toFloat(b)
	switch op {
	case OpAdd:
		return Real(av + bv)
	case OpSub:
		return Real(av - bv)
	case OpMul:
		return Real(av * bv)
	case OpDiv:
		if bv == 0 {
			return Real(0)
		}
		return Real(av / bv)
	case OpPow:
		r := 1.0
		for i := 0; i < int(bv); i++ {
			r *= av
		}
		return Real(r)
	default:
		return Errorf("real operand not allowed for this operator")
	}
}

func toFloat(v Value) float64 {
	switch v.Kind {
	case KindReal:
		return v.R
	case KindInt:
		return float64(v.I)
	case KindTime:
		return float64(v.T)
	default:
		n, _ := v.ToInt()
		return float64(n)
	}
}

func toBig(v Value, signed bool) *big.Int {
	switch v.Kind {
	case KindInt:
		return big.NewInt(v.I)
	case KindTime:
		return new(big.Int).SetUint64(v.T)
	case KindScalar, KindBitVector:
		return bitsToBig(v.Bits, signed)
	default:
		return big.NewInt(0)
	}
}

// UnaryMinus negates an integer-like or real value.
func UnaryMinus(v Value) Value {
	if v.Kind == KindReal {
		return Real(-v.R)
	}
	if v.HasXZ() {
		return XVec(maxWidth(v.Width(), 1), v.Signed)
	}
	w := maxWidth(v.Width(), 32)
	n := new(big.Int).Neg(toBig(v, true))
	return BitVec(bigToBits(n, w, true), true)
}

// bitBinOp applies a per-bit IEEE truth table to two equal-length
// operand vectors, extending the shorter one as resizeBits does (zero
// bits, the sign bit for a signed operand, x when it holds x/z bits).
func bitBinOp(a, b Value, f func(x, y Bit) Bit) Value {
	w := maxWidth(a.Width(), b.Width())
	ab := resizeBits(a.Bits, w, a.Signed)
	bb := resizeBits(b.Bits, w, b.Signed)
	out := make([]Bit, w)
	for i := 0; i < w; i++ {
		out[i] = f(ab[i], bb[i])
	}
	return BitVec(out, false)
}

func bitAnd(x, y Bit) Bit {
	if x == B0 || y == B0 {
		return B0
	}
	if x == B1 && y == B1 {
		return B1
	}
	return BX
}

func bitOr(x, y Bit) Bit {
	if x == B1 || y == B1 {
		return B1
	}
	if x == B0 && y == B0 {
		return B0
	}
	return BX
}

func bitXor(x, y Bit) Bit {
	if x.IsUnknown() || y.IsUnknown() {
		return BX
	}
	if x == y {
		return B0
	}
	return B1
}

func bitXnor(x, y Bit) Bit {
	r := bitXor(x, y)
	if r.IsUnknown() {
		return BX
	}
	if r == B0 {
		return B1
	}
	return B0
}

// BitwiseAnd, BitwiseOr, BitwiseXor, BitwiseXnor implement the bitwise
// (not reduction) & | ^ ~^ operators.
func BitwiseAnd(a, b Value) Value  { return bitBinOp(a, b, bitAnd) }
func BitwiseOr(a, b Value) Value   { return bitBinOp(a, b, bitOr) }
func BitwiseXor(a, b Value) Value  { return bitBinOp(a, b, bitXor) }
func BitwiseXnor(a, b Value) Value { return bitBinOp(a, b, bitXnor) }

// BitwiseNot implements unary ~.
func BitwiseNot(a Value) Value {
	out := make([]Bit, a.Width())
	for i, b := range a.Bits {
		switch b {
		case B0:
			out[i] = B1
		case B1:
			out[i] = B0
		default:
			out[i] = BX
		}
	}
	return BitVec(out, a.Signed)
}

// reduce folds all bits of v through a pairwise combinator, negating
// the final result when invert is set (for ~&, ~|, ~^).
func reduce(v Value, f func(x, y Bit) Bit, invert bool) Value {
	if len(v.Bits) == 0 {
		return Scalar(BX)
	}
	acc := v.Bits[0]
	for _, b := range v.Bits[1:] {
		acc = f(acc, b)
	}
	if invert {
		switch acc {
		case B0:
			acc = B1
		case B1:
			acc = B0
		}
	}
	return Scalar(acc)
}

// Reduce implements the six unary reduction operators.
func Reduce(op Op, v Value) Value {
	switch op {
	case OpRedAnd:
		return reduce(v, bitAnd, false)
	case OpRedOr:
		return reduce(v, bitOr, false)
	case OpRedXor:
		return reduce(v, bitXor, false)
	case OpRedNand:
		return reduce(v, bitAnd, true)
	case OpRedNor:
		return reduce(v, bitOr, true)
	case OpRedXnor:
		return reduce(v, bitXor, true)
	default:
		return Errorf("not a reduction operator")
	}
}

// LogicalAnd, LogicalOr, LogicalNot implement &&, ||, ! with tri-state
// propagation: an unknown operand yields an unknown (x) result unless
// the other operand alone determines the outcome (false && x == false).
func LogicalAnd(a, b Value) Value {
	av, aok := a.ToBool()
	bv, bok := b.ToBool()
	if aok && !av {
		return Scalar(B0)
	}
	if bok && !bv {
		return Scalar(B0)
	}
	if !aok || !bok {
		return Scalar(BX)
	}
	return boolScalar(av && bv)
}

func LogicalOr(a, b Value) Value {
	av, aok := a.ToBool()
	bv, bok := b.ToBool()
	if aok && av {
		return Scalar(B1)
	}
	if bok && bv {
		return Scalar(B1)
	}
	if !aok || !bok {
		return Scalar(BX)
	}
	return boolScalar(av || bv)
}

func LogicalNot(a Value) Value {
	av, ok := a.ToBool()
	if !ok {
		return Scalar(BX)
	}
	return boolScalar(!av)
}

func boolScalar(b bool) Value {
	if b {
		return Scalar(B1)
	}
	return Scalar(B0)
}

// Compare implements relational and equality operators. CaseEq/CaseNe
// (===, !==) compare bit patterns exactly, including x/z, and never
// produce x; the others propagate x when either operand is unknown.
func Compare(op Op, a, b Value) Value {
	switch op {
	case OpCaseEq, OpCaseNe:
		eq := caseEqual(a, b)
		if op == OpCaseNe {
			eq = !eq
		}
		return boolScalar(eq)
	}

	if a.Kind == KindReal || b.Kind == KindReal {
		af, bf := toFloat(a), toFloat(b)
		switch op {
		case OpEq:
			return boolScalar(af == bf)
		case OpNeq:
			return boolScalar(af != bf)
		case OpLt:
			return boolScalar(af < bf)
		case OpLe:
			return boolScalar(af <= bf)
		case OpGt:
			return boolScalar(af > bf)
		case OpGe:
			return boolScalar(af >= bf)
		}
	}

	if a.HasXZ() || b.HasXZ() {
		return Scalar(BX)
	}
	signed := (a.Kind != KindBitVector || a.Signed) && (b.Kind != KindBitVector || b.Signed)
	av, bv := toBig(a, signed), toBig(b, signed)
	cmp := av.Cmp(bv)
	switch op {
	case OpEq:
		return boolScalar(cmp == 0)
	case OpNeq:
		return boolScalar(cmp != 0)
	case OpLt:
		return boolScalar(cmp < 0)
	case OpLe:
		return boolScalar(cmp <= 0)
	case OpGt:
		return boolScalar(cmp > 0)
	case OpGe:
		return boolScalar(cmp >= 0)
	}
	return Errorf("not a comparison operator")
}

func caseEqual(a, b Value) bool {
	if a.Kind != b.Kind && !(isBitlike(a) && isBitlike(b)) {
		an, aok := a.ToInt()
		bn, bok := b.ToInt()
		return aok && bok && an == bn
	}
	w := maxWidth(a.Width(), b.Width())
	ab := resizeBits(a.Bits, w, a.Signed)
	bb := resizeBits(b.Bits, w, b.Signed)
	for i := range ab {
		if ab[i] != bb[i] {
			return false
		}
	}
	return true
}

func isBitlike(v Value) bool { return v.Kind == KindScalar || v.Kind == KindBitVector }

// Shift implements <<, >>, <<<, >>>. The caller supplies the already
// folded shift amount; a negative amount yields all x. The result keeps
// a's own width (32 for a plain int), and logical shifts never
// sign-extend the shiftee.
func Shift(op Op, a Value, amount int) Value {
	w := maxWidth(a.Width(), 1)
	if a.Kind == KindInt {
		w = 32
	}
	bits := resizeBits(a.Bits, w, a.Signed)
	if a.Kind == KindInt {
		bits = bigToBits(big.NewInt(a.I), w, true)
	}
	if amount < 0 {
		return XVec(w, a.Signed)
	}
	out := make([]Bit, w)
	switch op {
	case OpShl, OpSal:
		for i := 0; i < w; i++ {
			src := i + amount
			if src < w {
				out[i] = bits[src]
			} else {
				out[i] = B0
			}
		}
	case OpShr:
		for i := 0; i < w; i++ {
			src := i - amount
			if src >= 0 {
				out[i] = bits[src]
			} else {
				out[i] = B0
			}
		}
	case OpSar:
		fill := B0
		if a.Signed && len(bits) > 0 {
			fill = bits[0]
		}
		for i := 0; i < w; i++ {
			src := i - amount
			if src >= 0 {
				out[i] = bits[src]
			} else {
				out[i] = fill
			}
		}
	}
	return BitVec(out, a.Signed)
}

// Concat implements {a, b, ...}, MSB-first, each operand self-
// determined.
func Concat(parts ...Value) Value {
	var out []Bit
	for _, p := range parts {
		if p.Kind == KindScalar || p.Kind == KindBitVector {
			out = append(out, p.Bits...)
			continue
		}
		n, _ := p.ToInt()
		out = append(out, bigToBits(big.NewInt(n), 32, false)...)
	}
	return BitVec(out, false)
}

// Replicate implements multi-concat {count{value}}.
func Replicate(count int, v Value) Value {
	if count < 0 {
		count = 0
	}
	out := make([]Bit, 0, count*v.Width())
	for i := 0; i < count; i++ {
		out = append(out, v.Bits...)
	}
	return BitVec(out, false)
}

// Cond implements a ? b : c. An unknown condition merges b and c
// bitwise, keeping agreeing bits and turning disagreeing ones to x.
func Cond(cond, t, f Value) Value {
	cv, ok := cond.ToBool()
	if ok {
		if cv {
			return t
		}
		return f
	}
	w := maxWidth(t.Width(), f.Width())
	tb := resizeBits(t.Bits, w, t.Signed)
	fb := resizeBits(f.Bits, w, f.Signed)
	out := make([]Bit, w)
	for i := range out {
		if tb[i] == fb[i] {
			out[i] = tb[i]
		} else {
			out[i] = BX
		}
	}
	return BitVec(out, t.Signed && f.Signed)
}
