package elab

import (
	"github.com/cwbudde/vlelab/internal/diag"
	"github.com/cwbudde/vlelab/internal/fileset"
	"github.com/cwbudde/vlelab/internal/ptree"
	"github.com/cwbudde/vlelab/internal/value"
)

// localSlot is one local variable's live value during a constant-
// function call: the argument/local/return-value store the interpreter
// reads and writes as it executes the function body statement by
// statement. Per §4.4's per-call fresh variable store — (decl, offset)
// keyed, offset 0 for scalars, the flattened array offset otherwise —
// an array-typed local carries its dimensions in Array and its
// per-element values in Elems instead of Value.
type localSlot struct {
	Value value.Value
	Head  *DeclHead  // nil for a real-valued local; selects are illegal on it
	Array *DeclArray // non-nil for an array-typed local; Value is unused then
	Elems []value.Value
}

// disableSignal is returned up the statement-execution stack by a
// `disable` targeting a still-open named block, unwinding execution
// back to that block's begin/end without running the rest of its body.
type disableSignal struct {
	target string
}

// FuncInterp executes constant-function bodies directly against their
// parse trees: a constant function is never elaborated into the Stmt
// graph used for simulation, since nothing outside parameter/generate
// evaluation ever needs to run it again once elaboration is done.
type FuncInterp struct {
	eval *Evaluator
}

// NewFuncInterp creates an interpreter bound to eval. Callers
// typically wire it back with eval.SetFuncInterp immediately after,
// since a function body can itself call other constant functions.
func NewFuncInterp(eval *Evaluator) *FuncInterp {
	return &FuncInterp{eval: eval}
}

// Call evaluates a call to f with the given (already-parsed) argument
// expressions, which are evaluated in callerScope. It returns the
// function's result value, or an error placeholder when the call is
// recursive or argument binding fails. A statement the interpreter does
// not handle is reported as a diagnostic and execution continues.
func (fi *FuncInterp) Call(callerScope *Scope, f *FunctionDef, argExprs []ptree.Expr) value.Value {
	if !f.Enter() {
		fi.eval.report(diag.New(diag.RecursiveConstFunction, f.FileRegion(), "recursive call to constant function %q", f.Name()))
		return value.Errorf("recursive constant function call: %s", f.Name())
	}
	defer f.Leave()

	frame, ok := fi.bindFrame(callerScope, f, argExprs)
	if !ok {
		return value.Errorf("argument binding failed for %s", f.Name())
	}

	savedLocals := fi.eval.locals
	fi.eval.locals = frame
	fi.execStmt(f.Scope, f.Def.Body)
	result := frame[f.Name()].Value
	fi.eval.locals = savedLocals
	return result
}

func (fi *FuncInterp) bindFrame(callerScope *Scope, f *FunctionDef, argExprs []ptree.Expr) (map[string]*localSlot, bool) {
	frame := make(map[string]*localSlot)

	if len(f.IO) != len(argExprs) {
		fi.eval.report(diag.New(diag.ArgumentCountMismatch, f.FileRegion(),
			"function %q expects %d argument(s), got %d", f.Name(), len(f.IO), len(argExprs)))
		return nil, false
	}
	for i, io := range f.IO {
		argVal := fi.eval.EvalValue(callerScope, argExprs[i])
		frame[io.Decl.Name()] = &localSlot{
			Value: coerceToHead(argVal, io.Decl.Head),
			Head:  io.Decl.Head,
		}
	}

	for _, item := range f.Def.Decls {
		dh, ok := item.(*ptree.DeclHead)
		if !ok {
			continue
		}
		head := fi.elabHeadFromPtree(f.Scope, dh)
		for _, di := range dh.Items {
			if len(di.Dims) > 0 {
				arr, elems, ok := fi.bindLocalArray(f.Scope, head, di)
				if !ok {
					continue
				}
				frame[di.Name] = &localSlot{Head: head, Array: arr, Elems: elems}
				continue
			}
			var init value.Value
			if head == nil {
				init = value.Real(0)
			} else {
				init = value.XVec(head.Width(), head.Signed)
			}
			if di.Init != nil {
				init = coerceToHead(fi.eval.EvalValue(f.Scope, di.Init), head)
			}
			frame[di.Name] = &localSlot{Value: init, Head: head}
		}
	}

	retHead := f.OutputDecl.Head
	var retInit value.Value
	if f.ReturnReal {
		retInit = value.Real(0)
	} else {
		retInit = value.XVec(retHead.Width(), retHead.Signed)
	}
	frame[f.Name()] = &localSlot{Value: retInit, Head: retHead}

	return frame, true
}

// elabHeadFromPtree folds a local declaration's range (if any) into a
// DeclHead usable for bit-/part-select, or returns nil for real-typed
// and plain (unranged integer/time) locals.
func (fi *FuncInterp) elabHeadFromPtree(scope *Scope, dh *ptree.DeclHead) *DeclHead {
	switch dh.Category {
	case ptree.DeclReal, ptree.DeclRealtime:
		return nil
	case ptree.DeclInteger:
		return &DeclHead{Signed: true, HasRange: true, Msb: 31, Lsb: 0, Endian: EndianLittle}
	case ptree.DeclTime:
		return &DeclHead{Signed: false, HasRange: true, Msb: 63, Lsb: 0, Endian: EndianLittle}
	}
	if dh.Range == nil {
		return &DeclHead{Signed: dh.Signed, HasRange: false}
	}
	msb, lsb, ok := fi.eval.EvalRange(scope, dh.Range.Msb, dh.Range.Lsb)
	if !ok {
		return &DeclHead{Signed: dh.Signed, HasRange: false}
	}
	endian := EndianLittle
	if msb < lsb {
		endian = EndianBig
	}
	return &DeclHead{Signed: dh.Signed, HasRange: true, Msb: msb, Lsb: lsb, Endian: endian}
}

// bindLocalArray sizes an array-typed local's backing store from its
// declared dimensions and fills it with the same zero/X-vector value a
// scalar local of the same type would start with.
func (fi *FuncInterp) bindLocalArray(scope *Scope, head *DeclHead, di *ptree.DeclItem) (*DeclArray, []value.Value, bool) {
	dims := make([]ArrayDim, len(di.Dims))
	for i, rs := range di.Dims {
		msb, lsb, ok := fi.eval.EvalRange(scope, rs.Msb, rs.Lsb)
		if !ok {
			fi.eval.report(diag.New(diag.ConstRequired, di.FileRegion(), "array dimension bounds for local %q must be constant", di.Name))
			return nil, nil, false
		}
		dims[i] = ArrayDim{Left: msb, Right: lsb}
	}
	arr := NewDeclArray(head, di.Name, nil, dims, di.FileRegion())
	var zero value.Value
	if head == nil {
		zero = value.Real(0)
	} else {
		zero = value.XVec(head.Width(), head.Signed)
	}
	elems := make([]value.Value, arr.TotalElems())
	for i := range elems {
		elems[i] = zero
	}
	return arr, elems, true
}

// localArrayOffset evaluates indices against slot's declared
// dimensions and returns the flat element offset, reporting
// DimensionMismatch when the index count doesn't match the array's
// rank (a partial array reference, illegal per §4.5) and OutOfRange
// when an index falls outside its dimension's bounds.
func (e *Evaluator) localArrayOffset(scope *Scope, reg fileset.Region, name string, slot *localSlot, indices []ptree.Expr) (int, bool) {
	if len(indices) != len(slot.Array.Dims) {
		e.report(diag.New(diag.DimensionMismatch, reg, "%q needs %d index(es), got %d", name, len(slot.Array.Dims), len(indices)))
		return 0, false
	}
	ints := make([]int, len(indices))
	for i, idxExpr := range indices {
		v, ok := e.EvalInt(scope, idxExpr)
		if !ok {
			return 0, false
		}
		ints[i] = int(v)
	}
	off, ok := slot.Array.FlatOffset(ints)
	if !ok {
		e.report(diag.New(diag.OutOfRange, reg, "array index out of range for %q", name))
		return 0, false
	}
	return off, true
}

func coerceToHead(v value.Value, head *DeclHead) value.Value {
	if head == nil {
		if v.Kind != value.KindReal {
			n, _ := v.ToInt()
			return value.Real(float64(n))
		}
		return v
	}
	return v.ToBitVector(head.Width(), head.Signed)
}

// execStmt runs one statement against the active call frame, returning
// a non-nil disableSignal if a `disable` unwound execution through it.
func (fi *FuncInterp) execStmt(scope *Scope, s ptree.Stmt) *disableSignal {
	switch n := s.(type) {
	case nil, *ptree.NullStmt:
		return nil

	case *ptree.AssignStmt:
		fi.execAssign(scope, n)
		return nil

	case *ptree.BlockStmt:
		for _, stmt := range n.Body {
			if sig := fi.execStmt(scope, stmt); sig != nil {
				if n.Name != "" && sig.target == n.Name {
					return nil
				}
				return sig
			}
		}
		return nil

	case *ptree.IfStmt:
		cond, ok := fi.eval.EvalBool(scope, n.Cond)
		if ok && cond {
			return fi.execStmt(scope, n.Then)
		}
		if (!ok || !cond) && n.Else != nil {
			return fi.execStmt(scope, n.Else)
		}
		return nil

	case *ptree.CaseStmt:
		return fi.execCase(scope, n)

	case *ptree.WhileStmt:
		for {
			cond, ok := fi.eval.EvalBool(scope, n.Cond)
			if !ok || !cond {
				return nil
			}
			if sig := fi.execStmt(scope, n.Body); sig != nil {
				return sig
			}
		}

	case *ptree.RepeatStmt:
		count, _ := fi.eval.EvalInt(scope, n.Count)
		for i := int64(0); i < count; i++ {
			if sig := fi.execStmt(scope, n.Body); sig != nil {
				return sig
			}
		}
		return nil

	case *ptree.ForStmt:
		fi.assignLocalByName(scope, n.InitVar, fi.eval.EvalValue(scope, n.InitExpr))
		for {
			cond, ok := fi.eval.EvalBool(scope, n.Cond)
			if !ok || !cond {
				return nil
			}
			if sig := fi.execStmt(scope, n.Body); sig != nil {
				return sig
			}
			fi.assignLocalByName(scope, n.StepVar, fi.eval.EvalValue(scope, n.StepExpr))
		}

	case *ptree.ForeverStmt:
		fi.eval.report(diag.New(diag.Internal, n.FileRegion(), "forever is not permitted in a constant function"))
		return nil

	case *ptree.DisableStmt:
		return &disableSignal{target: n.Target}

	case *ptree.PCAStmt:
		fi.eval.report(diag.New(diag.IllegalInPca, n.FileRegion(), "procedural continuous assignment not permitted in a constant function"))
		return nil

	case *ptree.TaskEnableStmt, *ptree.SysTaskEnableStmt:
		fi.eval.report(diag.New(diag.Internal, s.FileRegion(), "task call not permitted in a constant function"))
		return nil

	case *ptree.EventTriggerStmt, *ptree.TimingControlStmt, *ptree.WaitStmt:
		fi.eval.report(diag.New(diag.Internal, s.FileRegion(), "timing and event constructs are not permitted in a constant function"))
		return nil

	default:
		fi.eval.report(diag.New(diag.Internal, s.FileRegion(), "unsupported statement in a constant function"))
		return nil
	}
}

func (fi *FuncInterp) execCase(scope *Scope, n *ptree.CaseStmt) *disableSignal {
	sel := fi.eval.EvalValue(scope, n.Selector)
	var defaultItem *ptree.CaseItem
	for i := range n.Items {
		item := &n.Items[i]
		if item.Default {
			defaultItem = item
			continue
		}
		for _, label := range item.Labels {
			lv := fi.eval.EvalValue(scope, label)
			if caseMatches(n.Kind, sel, lv) {
				return fi.execStmt(scope, item.Body)
			}
		}
	}
	if defaultItem != nil {
		return fi.execStmt(scope, defaultItem.Body)
	}
	return nil
}

func caseMatches(kind ptree.CaseKind, a, b value.Value) bool {
	if kind == ptree.CasePlain {
		eq := value.Compare(value.OpCaseEq, a, b)
		r, _ := eq.ToBool()
		return r
	}
	// casex/casez: bits tagged wildcard in either operand match anything.
	w := a.Width()
	if b.Width() > w {
		w = b.Width()
	}
	ab := a.ToBitVector(w, a.Signed)
	bb := b.ToBitVector(w, b.Signed)
	for i := 0; i < w; i++ {
		x, y := ab.Bits[i], bb.Bits[i]
		if kind == ptree.CaseZ && (x == value.BZ || y == value.BZ) {
			continue
		}
		if kind == ptree.CaseX && (x.IsUnknown() || y.IsUnknown()) {
			continue
		}
		if x != y {
			return false
		}
	}
	return true
}

func (fi *FuncInterp) execAssign(scope *Scope, n *ptree.AssignStmt) {
	rhs := fi.eval.EvalValue(scope, n.Rhs)
	fi.assignLhs(scope, n.Lhs, rhs)
}

func (fi *FuncInterp) assignLocalByName(scope *Scope, name string, v value.Value) {
	slot, ok := fi.eval.locals[name]
	if !ok {
		fi.eval.report(diag.New(diag.NameNotFound, fileset.Region{}, "%q is not a local of this constant function", name))
		return
	}
	slot.Value = coerceToHead(v, slot.Head)
}

func (fi *FuncInterp) assignLhs(scope *Scope, lhs ptree.Expr, rhs value.Value) {
	switch n := lhs.(type) {
	case *ptree.ConcatExpr:
		total := 0
		for _, op := range n.Operands {
			total += fi.lvalueWidth(scope, op)
		}
		bits := rhs.ToBitVector(total, false).Bits
		pos := 0
		for _, op := range n.Operands {
			w := fi.lvalueWidth(scope, op)
			fi.assignLhs(scope, op, value.BitVec(bits[pos:pos+w], false))
			pos += w
		}
	case *ptree.Primary:
		fi.assignPrimary(scope, n, rhs)
	default:
		fi.eval.report(diag.New(diag.IllegalLhs, lhs.FileRegion(), "not a valid assignment target in a constant function"))
	}
}

func (fi *FuncInterp) lvalueWidth(scope *Scope, e ptree.Expr) int {
	n, ok := e.(*ptree.Primary)
	if !ok {
		return 1
	}
	if n.Select == nil {
		if slot, ok := fi.eval.locals[n.Name]; ok {
			if slot.Array != nil {
				if slot.Head == nil {
					return 1
				}
				return slot.Head.Width()
			}
			return slot.Value.Width()
		}
		return 1
	}
	switch n.Select.Kind {
	case ptree.SelectBit:
		return 1
	case ptree.SelectPartConst:
		a, _ := fi.eval.EvalInt(scope, n.Select.Left)
		b, _ := fi.eval.EvalInt(scope, n.Select.Right)
		return abs(int(a-b)) + 1
	default:
		w, _ := fi.eval.EvalInt(scope, n.Select.Right)
		return int(w)
	}
}

func (fi *FuncInterp) assignPrimary(scope *Scope, p *ptree.Primary, rhs value.Value) {
	slot, ok := fi.eval.locals[p.Name]
	if !ok {
		fi.eval.report(diag.New(diag.IllegalLhs, p.FileRegion(), "%q is not assignable in a constant function", p.Name))
		return
	}

	if slot.Array != nil {
		off, ok := fi.eval.localArrayOffset(scope, p.FileRegion(), p.Name, slot, p.Indices)
		if !ok {
			return
		}
		if p.Select == nil {
			slot.Elems[off] = coerceToHead(rhs, slot.Head)
			return
		}
		if slot.Head == nil {
			fi.eval.report(diag.New(diag.ConstRequired, p.FileRegion(), "bit- or part-select target requires a declared range"))
			return
		}
		slot.Elems[off] = selectAssign(fi.eval, scope, p.FileRegion(), slot.Elems[off], slot.Head, p.Select, rhs)
		return
	}
	if len(p.Indices) > 0 {
		fi.eval.report(diag.New(diag.ConstRequired, p.FileRegion(), "array index on %q not valid here", p.Name))
		return
	}

	if p.Select == nil {
		slot.Value = coerceToHead(rhs, slot.Head)
		return
	}
	if slot.Head == nil {
		fi.eval.report(diag.New(diag.ConstRequired, p.FileRegion(), "bit- or part-select target requires a declared range"))
		return
	}
	slot.Value = selectAssign(fi.eval, scope, p.FileRegion(), slot.Value, slot.Head, p.Select, rhs)
}

// selectAssign applies a bit- or part-select write of rhs onto cur (an
// existing value under head) and returns the updated whole value,
// shared between a scalar local's Value and one element of an
// array-typed local's Elems.
func selectAssign(eval *Evaluator, scope *Scope, reg fileset.Region, cur value.Value, head *DeclHead, sel *ptree.Select, rhs value.Value) value.Value {
	width := cur.Width()
	bits := append([]value.Bit{}, cur.Bits...)

	switch sel.Kind {
	case ptree.SelectBit:
		idx, ok := eval.EvalInt(scope, sel.Left)
		if !ok {
			return cur
		}
		arrIdx, ok := bitIndexFor(head, width, int(idx))
		if !ok {
			eval.report(diag.New(diag.OutOfRange, reg, "bit-select index %d out of range", idx))
			return cur
		}
		rb := rhs.ToBitVector(1, false)
		bits[arrIdx] = rb.Bits[0]

	case ptree.SelectPartConst, ptree.SelectPartPlus, ptree.SelectPartMinus:
		a, aok := eval.EvalInt(scope, sel.Left)
		if !aok {
			return cur
		}
		var b int64
		switch sel.Kind {
		case ptree.SelectPartConst:
			b, _ = eval.EvalInt(scope, sel.Right)
		case ptree.SelectPartPlus:
			w, _ := eval.EvalInt(scope, sel.Right)
			b = a + w - 1
		case ptree.SelectPartMinus:
			w, _ := eval.EvalInt(scope, sel.Right)
			b = a - w + 1
		}
		arrA, okA := bitIndexFor(head, width, int(a))
		arrB, okB := bitIndexFor(head, width, int(b))
		if !okA || !okB {
			eval.report(diag.New(diag.OutOfRange, reg, "part-select [%d:%d] out of range", a, b))
			return cur
		}
		lo, hi := arrA, arrB
		if lo > hi {
			lo, hi = hi, lo
		}
		rb := rhs.ToBitVector(hi-lo+1, false)
		copy(bits[lo:hi+1], rb.Bits)
	}
	return value.BitVec(bits, cur.Signed)
}
