package value

import "testing"

func TestBitVecRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		bits   []Bit
		signed bool
	}{
		{"4-bit unsigned", []Bit{B1, B0, B1, B0}, false},
		{"4-bit signed negative", []Bit{B1, B1, B1, B1}, true},
		{"with unknowns", []Bit{BX, B1, BZ, B0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := BitVec(tt.bits, tt.signed)
			if v.Width() != len(tt.bits) {
				t.Fatalf("width = %d, want %d", v.Width(), len(tt.bits))
			}
			for i, b := range tt.bits {
				if v.Bits[i] != b {
					t.Errorf("bit %d = %v, want %v", i, v.Bits[i], b)
				}
			}
		})
	}
}

func TestToIntSignExtension(t *testing.T) {
	v := BitVec([]Bit{B1, B1, B1, B1}, true)
	n, ok := v.ToInt()
	if !ok || n != -1 {
		t.Fatalf("ToInt() = (%d, %v), want (-1, true)", n, ok)
	}

	u := BitVec([]Bit{B1, B1, B1, B1}, false)
	n, ok = u.ToInt()
	if !ok || n != 15 {
		t.Fatalf("ToInt() = (%d, %v), want (15, true)", n, ok)
	}
}

func TestToIntWithUnknownFails(t *testing.T) {
	v := BitVec([]Bit{B1, BX, B0, B0}, false)
	if _, ok := v.ToInt(); ok {
		t.Fatalf("ToInt() on a value containing x should fail")
	}
}

func TestArithAdd(t *testing.T) {
	a := BitVec([]Bit{B0, B0, B1, B0}, false) // 2
	b := BitVec([]Bit{B0, B0, B1, B1}, false) // 3
	sum := Arith(OpAdd, a, b, 0)
	n, ok := sum.ToInt()
	if !ok || n != 5 {
		t.Fatalf("2+3 = (%d, %v), want (5, true)", n, ok)
	}
}

func TestArithPropagatesXZ(t *testing.T) {
	a := BitVec([]Bit{B0, BX, B1, B0}, false)
	b := Int(3)
	sum := Arith(OpAdd, a, b, 0)
	if !sum.HasXZ() {
		t.Fatalf("expected x propagation, got %v", sum)
	}
}

func TestCaseEquality(t *testing.T) {
	a := BitVec([]Bit{B1, BX, B0}, false)
	b := BitVec([]Bit{B1, BX, B0}, false)
	c := BitVec([]Bit{B1, B0, B0}, false)

	if r := Compare(OpCaseEq, a, b); r.Bits[0] != B1 {
		t.Errorf("a === b should be 1 (exact x match), got %v", r)
	}
	if r := Compare(OpCaseEq, a, c); r.Bits[0] != B0 {
		t.Errorf("a === c should be 0, got %v", r)
	}
	// Plain == with an x operand is unknown, never false/true.
	if r := Compare(OpEq, a, b); r.Bits[0] != BX {
		t.Errorf("a == b with x bits should be x, got %v", r)
	}
}

func TestReductionOperators(t *testing.T) {
	allOnes := BitVec([]Bit{B1, B1, B1, B1}, false)
	mixed := BitVec([]Bit{B1, B0, B1, B1}, false)

	if r := Reduce(OpRedAnd, allOnes); r.Bits[0] != B1 {
		t.Errorf("&1111 = %v, want 1", r)
	}
	if r := Reduce(OpRedAnd, mixed); r.Bits[0] != B0 {
		t.Errorf("&1011 = %v, want 0", r)
	}
	if r := Reduce(OpRedNand, allOnes); r.Bits[0] != B0 {
		t.Errorf("~&1111 = %v, want 0", r)
	}
}

func TestShiftLogicalVsArithmetic(t *testing.T) {
	neg := BitVec([]Bit{B1, B0, B0, B0}, true) // -8 in 4 bits

	logical := Shift(OpShr, neg, 1)
	if logical.Bits[0] != B0 {
		t.Errorf(">> should zero-fill, got %v", logical)
	}

	arith := Shift(OpSar, neg, 1)
	if arith.Bits[0] != B1 {
		t.Errorf(">>> should sign-extend, got %v", arith)
	}
}

func TestConcatAndReplicate(t *testing.T) {
	a := Scalar(B1)
	b := Scalar(B0)
	c := Concat(a, b, a)
	if c.Width() != 3 {
		t.Fatalf("concat width = %d, want 3", c.Width())
	}
	r := Replicate(3, BitVec([]Bit{B1, B0}, false))
	if r.Width() != 6 {
		t.Fatalf("replicate width = %d, want 6", r.Width())
	}
}

func TestCondPropagatesX(t *testing.T) {
	cond := Scalar(BX)
	t1 := BitVec([]Bit{B1, B0}, false)
	f1 := BitVec([]Bit{B1, B1}, false)
	r := Cond(cond, t1, f1)
	if r.Bits[0] != B1 || r.Bits[1] != BX {
		t.Errorf("Cond(x, 10, 11) = %v, want 1x", r)
	}
}
