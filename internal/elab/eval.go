package elab

import (
	"github.com/cwbudde/vlelab/internal/diag"
	"github.com/cwbudde/vlelab/internal/fileset"
	"github.com/cwbudde/vlelab/internal/ptree"
	"github.com/cwbudde/vlelab/internal/value"
)

// Evaluator folds ptree expressions in a constant context: parameter
// and localparam right-hand sides, range bounds, generate conditions
// and case selectors, and `+:`/`-:` select widths. Every entry point
// takes the scope the expression lexically appears in; name lookup
// only ever searches that scope and its ancestors, never a hierarchy
// reached through an instance name (rejected as HierNameInConstExpr).
type Evaluator struct {
	mgr    *Manager
	funcs  *FuncInterp
	quiet  bool                  // true inside EvalIntIfConst's speculative probe: no diagnostics
	locals map[string]*localSlot // non-nil while executing inside a constant-function call
}

// NewEvaluator creates an evaluator bound to mgr. funcs may be nil
// until the constant-function interpreter is constructed; a
// FuncCallExpr reached with funcs == nil is reported as
// NotAConstFunction.
func NewEvaluator(mgr *Manager, funcs *FuncInterp) *Evaluator {
	return &Evaluator{mgr: mgr, funcs: funcs}
}

// SetFuncInterp wires the constant-function interpreter in after
// construction, breaking the natural import-order cycle between the
// evaluator (which calls functions) and the function interpreter
// (which evaluates expressions inside function bodies).
func (e *Evaluator) SetFuncInterp(f *FuncInterp) { e.funcs = f }

func (e *Evaluator) report(d diag.Diag) {
	if e.quiet || e.mgr == nil || e.mgr.Diags == nil {
		return
	}
	e.mgr.Diags.Report(d)
}

// EvalValue folds expr to a value.Value. On any unrecoverable error it
// reports a diagnostic (unless running quietly) and returns an error
// placeholder value.
func (e *Evaluator) EvalValue(scope *Scope, expr ptree.Expr) value.Value {
	if expr == nil {
		return value.Errorf("nil expression")
	}
	switch n := expr.(type) {
	case *ptree.Constant:
		return e.evalConstant(n)
	case *ptree.Primary:
		return e.evalPrimary(scope, n)
	case *ptree.Operation:
		return e.evalOperation(scope, n)
	case *ptree.CondExpr:
		cond := e.EvalValue(scope, n.Cond)
		return value.Cond(cond, e.EvalValue(scope, n.Then), e.EvalValue(scope, n.Else))
	case *ptree.ConcatExpr:
		parts := make([]value.Value, len(n.Operands))
		for i, op := range n.Operands {
			parts[i] = e.EvalValue(scope, op)
		}
		return value.Concat(parts...)
	case *ptree.MultiConcatExpr:
		count, ok := e.EvalInt(scope, n.Count)
		if !ok {
			e.report(diag.New(diag.ConstRequired, n.FileRegion(), "replication count must be constant"))
			return value.Errorf("non-constant replication count")
		}
		return value.Replicate(int(count), e.EvalValue(scope, n.Value))
	case *ptree.FuncCallExpr:
		return e.evalFuncCall(scope, n)
	default:
		e.report(diag.New(diag.Internal, expr.FileRegion(), "unsupported expression kind in constant context"))
		return value.Errorf("unsupported expression")
	}
}

func (e *Evaluator) evalConstant(c *ptree.Constant) value.Value {
	switch c.Kind {
	case ptree.ConstReal:
		return value.Real(c.RealVal)
	case ptree.ConstString:
		e.report(diag.New(diag.BitVectorRequired, c.FileRegion(), "string literal not valid in this constant context"))
		return value.Errorf("string constant not valid here")
	default:
		if c.HasSize {
			return value.BitVec(c.Bits, c.Signed)
		}
		return value.Int(c.IntVal)
	}
}

func (e *Evaluator) evalPrimary(scope *Scope, p *ptree.Primary) value.Value {
	if len(p.Branches) > 0 {
		e.report(diag.New(diag.HierNameInConstExpr, p.FileRegion(), "hierarchical name %q not allowed in a constant expression", p.Name))
		return value.Errorf("hierarchical name in constant expression")
	}

	if e.locals != nil {
		if slot, ok := e.locals[p.Name]; ok {
			if slot.Array != nil {
				off, ok := e.localArrayOffset(scope, p.FileRegion(), p.Name, slot, p.Indices)
				if !ok {
					return value.Errorf("invalid array index on %s", p.Name)
				}
				elem := slot.Elems[off]
				if p.Select == nil {
					return elem
				}
				return e.evalSelect(scope, p.FileRegion(), elem, slot.Head, p.Select)
			}
			if len(p.Indices) > 0 {
				e.report(diag.New(diag.ConstRequired, p.FileRegion(), "array index on %q not valid here", p.Name))
				return value.Errorf("indexed reference to a scalar local")
			}
			if p.Select == nil {
				return slot.Value
			}
			return e.evalSelect(scope, p.FileRegion(), slot.Value, slot.Head, p.Select)
		}
	}

	h, ok := e.findUpward(scope, p.Name)
	if !ok {
		e.report(diag.New(diag.NameNotFound, p.FileRegion(), "identifier %q not found", p.Name))
		return value.Errorf("identifier not found: %s", p.Name)
	}

	base, head, ok := e.constValueOf(p.FileRegion(), p.Name, h)
	if !ok {
		return value.Errorf("not a constant: %s", p.Name)
	}

	if len(p.Indices) > 0 {
		e.report(diag.New(diag.ConstRequired, p.FileRegion(), "array index on %q not valid in a constant expression", p.Name))
		return value.Errorf("indexed reference in constant expression")
	}

	if p.Select == nil {
		return base
	}
	return e.evalSelect(scope, p.FileRegion(), base, head, p.Select)
}

// findUpward resolves a simple (non-hierarchical) identifier starting
// at scope and walking up through every enclosing scope.
func (e *Evaluator) findUpward(scope *Scope, name string) (Handle, bool) {
	for s := scope; s != nil; s = s.ParentScope() {
		if h, ok := e.mgr.Objs.Find(s, name); ok {
			return h, true
		}
	}
	return Handle{}, false
}

// constValueOf extracts the value and (if any) the declared-range head
// carried by a handle legal in a constant expression: a parameter,
// localparam, or genvar. Any other kind (net, reg, task, module, ...)
// is rejected with ConstRequired.
func (e *Evaluator) constValueOf(reg fileset.Region, name string, h Handle) (v value.Value, head *DeclHead, ok bool) {
	switch h.Kind {
	case HandleParameter:
		return h.Parameter.Value, h.Parameter.Decl.Head, true
	case HandleGenvar:
		return value.Int(int64(h.Genvar.Value)), nil, true
	default:
		e.report(diag.New(diag.ConstRequired, reg, "%q is not a constant-eligible identifier", name))
		return value.Errorf("not constant"), nil, false
	}
}

// bitIndexFor maps a declared bit index to a position in a value's
// Bits slice (MSB-first), honoring head's endian: offset 0 always
// lands on the least-significant stored bit.
func bitIndexFor(head *DeclHead, width int, declaredIdx int) (arrIdx int, ok bool) {
	off, ok := head.BitOffset(declaredIdx)
	if !ok {
		return 0, false
	}
	arrIdx = width - 1 - off
	if arrIdx < 0 || arrIdx >= width {
		return 0, false
	}
	return arrIdx, true
}

func (e *Evaluator) evalSelect(scope *Scope, reg fileset.Region, base value.Value, head *DeclHead, sel *ptree.Select) value.Value {
	if head == nil {
		e.report(diag.New(diag.ConstRequired, reg, "bit- or part-select requires a declared range"))
		return value.Errorf("select without declared range")
	}
	width := base.Width()

	switch sel.Kind {
	case ptree.SelectBit:
		idx, ok := e.EvalInt(scope, sel.Left)
		if !ok {
			e.report(diag.New(diag.ConstRequired, reg, "bit-select index must be constant"))
			return value.Scalar(value.BX)
		}
		arrIdx, ok := bitIndexFor(head, width, int(idx))
		if !ok {
			e.report(diag.New(diag.OutOfRange, reg, "bit-select index %d out of range", idx))
			return value.Scalar(value.BX)
		}
		return value.Scalar(base.Bits[arrIdx])

	case ptree.SelectPartConst:
		a, aok := e.EvalInt(scope, sel.Left)
		b, bok := e.EvalInt(scope, sel.Right)
		if !aok || !bok {
			e.report(diag.New(diag.ConstRequired, reg, "part-select bounds must be constant"))
			return value.XVec(1, false)
		}
		return e.partSelect(reg, base, head, width, int(a), int(b))

	case ptree.SelectPartPlus, ptree.SelectPartMinus:
		base0, bok := e.EvalInt(scope, sel.Left)
		w, wok := e.EvalInt(scope, sel.Right)
		if !bok || !wok || w <= 0 {
			e.report(diag.New(diag.ConstRequired, reg, "indexed part-select base and width must be constant"))
			return value.XVec(1, false)
		}
		other := int(base0) + int(w) - 1
		if sel.Kind == ptree.SelectPartMinus {
			other = int(base0) - int(w) + 1
		}
		return e.partSelect(reg, base, head, width, int(base0), other)

	default:
		e.report(diag.New(diag.Internal, reg, "unknown select kind"))
		return value.XVec(1, false)
	}
}

func (e *Evaluator) partSelect(reg fileset.Region, base value.Value, head *DeclHead, width, a, b int) value.Value {
	declWidth := abs(a-b) + 1
	arrA, okA := bitIndexFor(head, width, a)
	arrB, okB := bitIndexFor(head, width, b)
	if !okA || !okB {
		e.report(diag.New(diag.OutOfRange, reg, "part-select [%d:%d] out of range", a, b))
		return value.XVec(declWidth, base.Signed)
	}
	lo, hi := arrA, arrB
	if lo > hi {
		lo, hi = hi, lo
	}
	return value.BitVec(base.Bits[lo:hi+1], base.Signed)
}

// operatorMap translates a ptree operator kind to the value package's
// Op for binary and n-ary arithmetic/logical operators; unary and
// reduction operators are matched directly in evalOperation.
var operatorMap = map[ptree.OperatorKind]value.Op{
	ptree.OpAdd:             value.OpAdd,
	ptree.OpSub:             value.OpSub,
	ptree.OpMul:             value.OpMul,
	ptree.OpDiv:             value.OpDiv,
	ptree.OpMod:             value.OpMod,
	ptree.OpPower:           value.OpPow,
	ptree.OpEq:              value.OpEq,
	ptree.OpNeq:             value.OpNeq,
	ptree.OpCaseEq:          value.OpCaseEq,
	ptree.OpCaseNe:          value.OpCaseNe,
	ptree.OpLt:              value.OpLt,
	ptree.OpLe:              value.OpLe,
	ptree.OpGt:              value.OpGt,
	ptree.OpGe:              value.OpGe,
	ptree.OpShiftLeft:       value.OpShl,
	ptree.OpShiftRight:      value.OpShr,
	ptree.OpArithShiftLeft:  value.OpSal,
	ptree.OpArithShiftRight: value.OpSar,
}

func isBitwiseOnly(op ptree.OperatorKind) bool {
	switch op {
	case ptree.OpBitwiseAnd, ptree.OpBitwiseOr, ptree.OpBitwiseXor, ptree.OpBitwiseXnor,
		ptree.OpBitwiseNot, ptree.OpShiftLeft, ptree.OpShiftRight, ptree.OpArithShiftLeft,
		ptree.OpArithShiftRight, ptree.OpMod,
		ptree.OpRedAnd, ptree.OpRedNand, ptree.OpRedOr, ptree.OpRedNor, ptree.OpRedXor, ptree.OpRedXnor:
		return true
	default:
		return false
	}
}

func (e *Evaluator) evalOperation(scope *Scope, n *ptree.Operation) value.Value {
	operands := make([]value.Value, len(n.Operands))
	for i, o := range n.Operands {
		operands[i] = e.EvalValue(scope, o)
	}

	if isBitwiseOnly(n.Op) {
		for _, v := range operands {
			if v.Kind == value.KindReal {
				e.report(diag.New(diag.NoRealAllowed, n.FileRegion(), "real operand not allowed for this operator"))
				return value.Errorf("real operand not allowed here")
			}
		}
	}

	switch n.Op {
	case ptree.OpUnaryPlus:
		return operands[0]
	case ptree.OpUnaryMinus:
		return value.UnaryMinus(operands[0])
	case ptree.OpLogicalNot:
		return value.LogicalNot(operands[0])
	case ptree.OpBitwiseNot:
		return value.BitwiseNot(operands[0])
	case ptree.OpRedAnd:
		return value.Reduce(value.OpRedAnd, operands[0])
	case ptree.OpRedNand:
		return value.Reduce(value.OpRedNand, operands[0])
	case ptree.OpRedOr:
		return value.Reduce(value.OpRedOr, operands[0])
	case ptree.OpRedNor:
		return value.Reduce(value.OpRedNor, operands[0])
	case ptree.OpRedXor:
		return value.Reduce(value.OpRedXor, operands[0])
	case ptree.OpRedXnor:
		return value.Reduce(value.OpRedXnor, operands[0])
	case ptree.OpAdd, ptree.OpSub, ptree.OpMul, ptree.OpDiv, ptree.OpMod, ptree.OpPower:
		return value.Arith(operatorMap[n.Op], operands[0], operands[1], 0)
	case ptree.OpEq, ptree.OpNeq, ptree.OpCaseEq, ptree.OpCaseNe, ptree.OpLt, ptree.OpLe, ptree.OpGt, ptree.OpGe:
		return value.Compare(operatorMap[n.Op], operands[0], operands[1])
	case ptree.OpLogicalAnd:
		return value.LogicalAnd(operands[0], operands[1])
	case ptree.OpLogicalOr:
		return value.LogicalOr(operands[0], operands[1])
	case ptree.OpBitwiseAnd:
		return value.BitwiseAnd(operands[0], operands[1])
	case ptree.OpBitwiseOr:
		return value.BitwiseOr(operands[0], operands[1])
	case ptree.OpBitwiseXor:
		return value.BitwiseXor(operands[0], operands[1])
	case ptree.OpBitwiseXnor:
		return value.BitwiseXnor(operands[0], operands[1])
	case ptree.OpShiftLeft, ptree.OpShiftRight, ptree.OpArithShiftLeft, ptree.OpArithShiftRight:
		amt, ok := operands[1].ToInt()
		if !ok {
			return value.XVec(operands[0].Width(), operands[0].Signed)
		}
		return value.Shift(operatorMap[n.Op], operands[0], int(amt))
	default:
		e.report(diag.New(diag.Internal, n.FileRegion(), "unsupported operator"))
		return value.Errorf("unsupported operator")
	}
}

func (e *Evaluator) evalFuncCall(scope *Scope, n *ptree.FuncCallExpr) value.Value {
	if n.IsSystem {
		return e.evalSysFuncCall(scope, n)
	}
	if e.funcs == nil {
		e.report(diag.New(diag.NotAConstFunction, n.FileRegion(), "function %q cannot be called in a constant expression", n.Name))
		return value.Errorf("not a constant function")
	}
	h, ok := e.findUpward(scope, n.Name)
	if !ok || h.Kind != HandleTaskFunc || h.Function == nil {
		e.report(diag.New(diag.NameNotFound, n.FileRegion(), "function %q not found", n.Name))
		return value.Errorf("function not found: %s", n.Name)
	}
	if !h.Function.IsConstFn {
		e.report(diag.New(diag.NotAConstFunction, n.FileRegion(), "function %q is not usable in a constant expression", n.Name))
		return value.Errorf("not a constant function: %s", n.Name)
	}
	return e.funcs.Call(scope, h.Function, n.Args)
}

func (e *Evaluator) evalSysFuncCall(scope *Scope, n *ptree.FuncCallExpr) value.Value {
	switch n.Name {
	case "$bits":
		if len(n.Args) != 1 {
			e.report(diag.New(diag.ArgumentCountMismatch, n.FileRegion(), "$bits takes exactly one argument"))
			return value.Errorf("$bits argument count mismatch")
		}
		v := e.EvalValue(scope, n.Args[0])
		w := v.Width()
		if w == 0 {
			w = 32
		}
		return value.Int(int64(w))
	case "$signed":
		if len(n.Args) != 1 {
			return value.Errorf("$signed argument count mismatch")
		}
		v := e.EvalValue(scope, n.Args[0])
		return value.BitVec(v.Bits, true)
	case "$unsigned":
		if len(n.Args) != 1 {
			return value.Errorf("$unsigned argument count mismatch")
		}
		v := e.EvalValue(scope, n.Args[0])
		return value.BitVec(v.Bits, false)
	default:
		e.report(diag.New(diag.SysFuncInConstExpr, n.FileRegion(), "system function %q not allowed in a constant expression", n.Name))
		return value.Errorf("system function not allowed: %s", n.Name)
	}
}

// EvalInt folds expr and coerces the result to a plain integer. ok is
// false if the expression did not fold to a definite (no x/z) value.
func (e *Evaluator) EvalInt(scope *Scope, expr ptree.Expr) (int64, bool) {
	v := e.EvalValue(scope, expr)
	return v.ToInt()
}

// EvalBool folds expr to a tri-state boolean per the reduction-to-
// condition rule.
func (e *Evaluator) EvalBool(scope *Scope, expr ptree.Expr) (bool, bool) {
	v := e.EvalValue(scope, expr)
	return v.ToBool()
}

// EvalScalar folds expr to a single four-state bit, per the same
// reduction rule as EvalBool but returning the bit itself.
func (e *Evaluator) EvalScalar(scope *Scope, expr ptree.Expr) value.Bit {
	b, ok := e.EvalBool(scope, expr)
	if !ok {
		return value.BX
	}
	if b {
		return value.B1
	}
	return value.B0
}

// EvalBitVector folds expr and coerces it to a bit-vector of the given
// width and signedness.
func (e *Evaluator) EvalBitVector(scope *Scope, expr ptree.Expr, width int, signed bool) value.Value {
	return e.EvalValue(scope, expr).ToBitVector(width, signed)
}

// EvalRange folds a `[left:right]` pair and returns (msb, lsb) as plain
// integers. Both bounds must fold to definite integers.
func (e *Evaluator) EvalRange(scope *Scope, left, right ptree.Expr) (msb, lsb int, ok bool) {
	l, lok := e.EvalInt(scope, left)
	r, rok := e.EvalInt(scope, right)
	if !lok || !rok {
		return 0, 0, false
	}
	return int(l), int(r), true
}

// EvalIntIfConst attempts to fold expr and reports whether it
// succeeded, without emitting a diagnostic on failure: used by callers
// that have a non-constant fallback path (e.g. a variable bit-select
// index at elaboration time that degrades to a dynamic reference).
func (e *Evaluator) EvalIntIfConst(scope *Scope, expr ptree.Expr) (result int64, isConst bool) {
	quiet := &Evaluator{mgr: e.mgr, funcs: e.funcs, quiet: true, locals: e.locals}
	v := quiet.EvalValue(scope, expr)
	if v.IsError() {
		return 0, false
	}
	n, ok := v.ToInt()
	return n, ok
}
