package passes

import (
	"github.com/cwbudde/vlelab/internal/diag"
	"github.com/cwbudde/vlelab/internal/elab"
	"github.com/cwbudde/vlelab/internal/fileset"
	"github.com/cwbudde/vlelab/internal/ptree"
	"github.com/cwbudde/vlelab/internal/value"
)

// lhsContext classifies why an expression is being instantiated as an
// assignment target, so instantiatePrimary/instantiateSelect can apply
// the per-context restrictions spec §4.5 requires: a plain (non-LHS)
// read carries lhsNone and is never restricted.
type lhsContext int

const (
	lhsNone       lhsContext = iota
	lhsProcedural            // blocking/non-blocking procedural assign target
	lhsContinuous            // continuous-assign target
	lhsPCAForce              // `force` target
	lhsPCAOther              // `assign`/`deassign`/`release` target
)

// isLhs reports whether ctx denotes any assignment-target context.
func (ctx lhsContext) isLhs() bool { return ctx != lhsNone }

// isForceOrPca reports whether ctx is one of the procedural-continuous-
// assignment-family contexts (`force`, `assign`, `deassign`, `release`),
// which spec §4.5 bans array-element references and selects from.
func (ctx lhsContext) isForceOrPca() bool { return ctx == lhsPCAForce || ctx == lhsPCAOther }

// illegalKind picks the diagnostic kind for a force/PCA violation: the
// taxonomy in spec §7 distinguishes IllegalInForce from IllegalInPca.
func (ctx lhsContext) illegalKind() diag.Kind {
	if ctx == lhsPCAForce {
		return diag.IllegalInForce
	}
	return diag.IllegalInPca
}

// instantiateExpr lowers one parse-tree expression into the elaborated
// object graph's Expr form. Unlike the constant Evaluator, it is legal
// here to resolve a hierarchical name and to keep a non-constant
// sub-expression (a dynamic bit-select index, say) as a live Expr
// rather than folding it: this path builds structure, not a value.
func (s *Scheduler) instantiateExpr(scope *elab.Scope, e ptree.Expr, ctx lhsContext) elab.Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ptree.Constant:
		return s.instantiateConstant(scope, n)
	case *ptree.Primary:
		return s.instantiatePrimary(scope, n, ctx)
	case *ptree.Operation:
		return s.instantiateOperation(scope, n)
	case *ptree.CondExpr:
		cond := s.instantiateExpr(scope, n.Cond, lhsNone)
		then := s.instantiateExpr(scope, n.Then, lhsNone)
		els := s.instantiateExpr(scope, n.Else, lhsNone)
		return elab.NewCondExpr(n.FileRegion(), widerOf(then, els), cond, then, els)
	case *ptree.ConcatExpr:
		// An LHS concatenation (`{a, b} = ...`) propagates ctx to each
		// operand; a value-context concat never does (ctx is lhsNone).
		ops := make([]elab.Expr, len(n.Operands))
		total := 0
		for i, o := range n.Operands {
			ops[i] = s.instantiateExpr(scope, o, ctx)
			total += ops[i].ValType().Width
		}
		return elab.NewConcatExpr(n.FileRegion(), elab.ValueType{Width: total}, ops)
	case *ptree.MultiConcatExpr:
		count, ok := s.mgr.Eval.EvalIntIfConst(scope, n.Count)
		if !ok {
			s.mgr.Diags.Report(diag.New(diag.ConstRequired, n.FileRegion(), "replication count must be constant"))
		}
		val := s.instantiateExpr(scope, n.Value, lhsNone)
		return elab.NewMultiConcatExpr(n.FileRegion(), elab.ValueType{Width: int(count) * val.ValType().Width}, int(count), val)
	case *ptree.FuncCallExpr:
		return s.instantiateFuncCall(scope, n)
	default:
		s.mgr.Diags.Report(diag.New(diag.Internal, e.FileRegion(), "unsupported expression kind"))
		return s.errorExpr(e.FileRegion())
	}
}

func (s *Scheduler) instantiateConstant(scope *elab.Scope, n *ptree.Constant) *elab.ConstExpr {
	folded := s.mgr.Eval.EvalValue(scope, n)
	return elab.NewConstExpr(n.FileRegion(), typeOfValue(folded), n, folded)
}

func (s *Scheduler) errorExpr(reg fileset.Region) elab.Expr {
	return elab.NewConstExpr(reg, elab.ValueType{Width: 1}, nil, value.Errorf("elaboration error"))
}

// instantiatePrimary resolves a (possibly hierarchical, possibly
// indexed/selected) identifier reference. Hierarchical prefix segments
// follow the same indexed-segment folding rule as a defparam path.
//
// ctx drives the LHS target-kind checks of spec §4.5: a procedural
// assign target must be a reg/variable (not a net), a continuous-assign
// target must be a net (not a reg/variable), and a force/PCA target may
// not be an array-element reference at all.
func (s *Scheduler) instantiatePrimary(scope *elab.Scope, p *ptree.Primary, ctx lhsContext) elab.Expr {
	hierPath := make([]elab.HierSegment, 0, len(p.Branches))
	for _, b := range p.Branches {
		seg := elab.HierSegment{Name: b.Name}
		if b.Index != nil {
			if idx, ok := s.mgr.Eval.EvalIntIfConst(scope, b.Index); ok {
				n := int(idx)
				seg.Index = &n
			}
		}
		hierPath = append(hierPath, seg)
	}

	h, ok := s.mgr.FindUp(scope, hierPath, p.Name, nil)
	if !ok {
		s.mgr.Diags.Report(diag.New(diag.NameNotFound, p.FileRegion(), "identifier %q not found", p.Name))
		return s.errorExpr(p.FileRegion())
	}

	if ctx.isLhs() {
		s.checkLhsTargetKind(p, h, ctx)
	}

	var base elab.Expr
	switch h.Kind {
	case elab.HandleDecl:
		base = elab.NewPrimaryExpr(p.FileRegion(), typeOfDecl(h.Decl), elab.RefTarget{Decl: h.Decl}, nil)
	case elab.HandleParameter:
		base = elab.NewPrimaryExpr(p.FileRegion(), typeOfValue(h.Parameter.Value), elab.RefTarget{Parameter: h.Parameter}, nil)
	case elab.HandleGenvar:
		base = elab.NewConstExpr(p.FileRegion(), elab.ValueType{Width: 32, Signed: true}, nil, value.Int(int64(h.Genvar.Value)))
	case elab.HandleDeclArray:
		base = s.instantiateDeclArrayRef(scope, p, h.DeclArray, ctx)
	default:
		s.mgr.Diags.Report(diag.New(diag.WrongKind, p.FileRegion(), "%q is not a value-bearing identifier", p.Name))
		return s.errorExpr(p.FileRegion())
	}

	if p.Select == nil {
		return base
	}
	if ctx.isForceOrPca() {
		s.mgr.Diags.Report(diag.New(ctx.illegalKind(), p.FileRegion(), "select on %q is not allowed as a force/procedural-continuous-assign target", p.Name))
	}
	return s.instantiateSelect(scope, p.FileRegion(), base, p.Select)
}

// checkLhsTargetKind enforces the decl-category half of spec §4.5's LHS
// rules: procedural assign wants reg/variable, continuous assign wants
// net, and any assignment to a parameter is illegal regardless of
// context (a parameter is neither).
func (s *Scheduler) checkLhsTargetKind(p *ptree.Primary, h elab.Handle, ctx lhsContext) {
	cat, ok := declCategoryOf(h)
	if !ok {
		if h.Kind == elab.HandleParameter {
			s.mgr.Diags.Report(diag.New(diag.IllegalLhs, p.FileRegion(), "parameter %q cannot be an assignment target", p.Name))
		}
		return
	}
	switch ctx {
	case lhsProcedural:
		if cat == ptree.DeclNet {
			s.mgr.Diags.Report(diag.New(diag.IllegalLhs, p.FileRegion(), "net %q cannot be a procedural assignment target", p.Name))
		}
	case lhsContinuous:
		if cat != ptree.DeclNet {
			s.mgr.Diags.Report(diag.New(diag.IllegalLhs, p.FileRegion(), "non-net %q cannot be a continuous-assign target", p.Name))
		}
	}
}

// declCategoryOf extracts the decl category backing a Decl or DeclArray
// handle; ok is false for any other handle kind (parameter, scope, ...).
func declCategoryOf(h elab.Handle) (ptree.DeclCategory, bool) {
	switch h.Kind {
	case elab.HandleDecl:
		return h.Decl.Head.Category, true
	case elab.HandleDeclArray:
		return h.DeclArray.Head.Category, true
	default:
		return 0, false
	}
}

func (s *Scheduler) instantiateDeclArrayRef(scope *elab.Scope, p *ptree.Primary, arr *elab.DeclArray, ctx lhsContext) elab.Expr {
	typ := typeOfDeclHead(arr.Head)
	if len(p.Indices) == 0 {
		return elab.NewPrimaryExpr(p.FileRegion(), typ, elab.RefTarget{DeclArray: arr}, nil)
	}

	if ctx.isForceOrPca() {
		s.mgr.Diags.Report(diag.New(ctx.illegalKind(), p.FileRegion(), "array element %q is not allowed as a force/procedural-continuous-assign target", p.Name))
	}

	dyn := make([]elab.Expr, len(p.Indices))
	idxInts := make([]int, 0, len(p.Indices))
	allConst := true
	for i, idxExpr := range p.Indices {
		dyn[i] = s.instantiateExpr(scope, idxExpr, lhsNone)
		v, ok := s.mgr.Eval.EvalIntIfConst(scope, idxExpr)
		if ok && allConst {
			idxInts = append(idxInts, int(v))
		} else {
			allConst = false
		}
	}
	if !allConst {
		return elab.NewPrimaryExpr(p.FileRegion(), typ, elab.RefTarget{DeclArray: arr}, dyn)
	}
	off, ok := arr.FlatOffset(idxInts)
	if !ok {
		s.mgr.Diags.Report(diag.New(diag.OutOfRange, p.FileRegion(), "array index out of range on %q", p.Name))
		return elab.NewPrimaryExpr(p.FileRegion(), typ, elab.RefTarget{DeclArray: arr}, nil)
	}
	return elab.NewPrimaryExpr(p.FileRegion(), typ, elab.RefTarget{DeclArray: arr, DeclElem: off}, nil)
}

// instantiateSelect builds a bit- or part-select over base. A
// real-valued base may never be selected from — spec §4.5's "real-
// valued select anywhere" rule — and a select is additionally illegal
// anywhere in a force/PCA target (checked by the caller, which knows
// whether this select sits directly on the assignment target or on an
// unrelated sub-expression).
func (s *Scheduler) instantiateSelect(scope *elab.Scope, reg fileset.Region, base elab.Expr, sel *ptree.Select) elab.Expr {
	if base.ValType().IsReal {
		s.mgr.Diags.Report(diag.New(diag.NoRealAllowed, reg, "cannot select from a real-valued expression"))
		return s.errorExpr(reg)
	}

	switch sel.Kind {
	case ptree.SelectBit:
		idx := s.instantiateExpr(scope, sel.Left, lhsNone)
		return elab.NewBitSelectExpr(reg, elab.ValueType{Width: 1}, base, idx)

	case ptree.SelectPartConst:
		hi, hok := s.mgr.Eval.EvalIntIfConst(scope, sel.Left)
		lo, lok := s.mgr.Eval.EvalIntIfConst(scope, sel.Right)
		if !hok || !lok {
			s.mgr.Diags.Report(diag.New(diag.ConstRequired, reg, "part-select bounds must be constant"))
			return s.errorExpr(reg)
		}
		return s.partSelectExpr(reg, base, int(hi), int(lo))

	case ptree.SelectPartPlus, ptree.SelectPartMinus:
		from, fok := s.mgr.Eval.EvalIntIfConst(scope, sel.Left)
		w, wok := s.mgr.Eval.EvalIntIfConst(scope, sel.Right)
		if !fok || !wok || w <= 0 {
			s.mgr.Diags.Report(diag.New(diag.ConstRequired, reg, "indexed part-select base and width must be constant"))
			return s.errorExpr(reg)
		}
		other := int(from) + int(w) - 1
		if sel.Kind == ptree.SelectPartMinus {
			other = int(from) - int(w) + 1
		}
		return s.partSelectExpr(reg, base, int(from), other)

	default:
		s.mgr.Diags.Report(diag.New(diag.Internal, reg, "unknown select kind"))
		return s.errorExpr(reg)
	}
}

func (s *Scheduler) partSelectExpr(reg fileset.Region, base elab.Expr, a, b int) elab.Expr {
	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}
	width := hi - lo + 1
	if width < 1 {
		width = 1
	}
	return elab.NewPartSelectExpr(reg, elab.ValueType{Width: width, Signed: base.ValType().Signed}, base, hi, lo)
}

func (s *Scheduler) instantiateOperation(scope *elab.Scope, n *ptree.Operation) elab.Expr {
	ops := make([]elab.Expr, len(n.Operands))
	for i, o := range n.Operands {
		ops[i] = s.instantiateExpr(scope, o, lhsNone)
	}
	return elab.NewOperationExpr(n.FileRegion(), operationType(n.Op, ops), n.Op, ops)
}

// operationType derives a result type the way IEEE-1364's "self-
// determined vs. context-determined" rules would, simplified to the
// bottom-up case only: a pure elaborator never re-walks an expression
// with a pushed-down required type.
func operationType(op ptree.OperatorKind, ops []elab.Expr) elab.ValueType {
	switch op {
	case ptree.OpLogicalNot, ptree.OpRedAnd, ptree.OpRedNand, ptree.OpRedOr, ptree.OpRedNor, ptree.OpRedXor, ptree.OpRedXnor,
		ptree.OpEq, ptree.OpNeq, ptree.OpCaseEq, ptree.OpCaseNe, ptree.OpLt, ptree.OpLe, ptree.OpGt, ptree.OpGe,
		ptree.OpLogicalAnd, ptree.OpLogicalOr:
		return elab.ValueType{Width: 1}
	case ptree.OpUnaryPlus, ptree.OpUnaryMinus, ptree.OpBitwiseNot:
		return ops[0].ValType()
	case ptree.OpShiftLeft, ptree.OpShiftRight, ptree.OpArithShiftLeft, ptree.OpArithShiftRight:
		return ops[0].ValType()
	default:
		switch len(ops) {
		case 2:
			return widerOf(ops[0], ops[1])
		case 1:
			return ops[0].ValType()
		default:
			return elab.ValueType{Width: 1}
		}
	}
}

func (s *Scheduler) instantiateFuncCall(scope *elab.Scope, n *ptree.FuncCallExpr) elab.Expr {
	args := make([]elab.Expr, len(n.Args))
	for i, a := range n.Args {
		args[i] = s.instantiateExpr(scope, a, lhsNone)
	}
	if n.IsSystem {
		return elab.NewSysFuncCallExpr(n.FileRegion(), sysFuncType(n.Name, args), n.Name, args)
	}
	h, ok := s.mgr.FindUp(scope, nil, n.Name, nil)
	if !ok || h.Kind != elab.HandleTaskFunc || h.Function == nil {
		s.mgr.Diags.Report(diag.New(diag.NameNotFound, n.FileRegion(), "function %q not found", n.Name))
		return s.errorExpr(n.FileRegion())
	}
	fn := h.Function
	typ := elab.ValueType{Width: 32, Signed: true}
	switch {
	case fn.ReturnReal:
		typ = elab.ValueType{IsReal: true}
	case fn.OutputDecl != nil:
		typ = typeOfDecl(fn.OutputDecl)
	}
	return elab.NewFuncCallExpr(n.FileRegion(), typ, fn, args)
}

func sysFuncType(name string, args []elab.Expr) elab.ValueType {
	switch name {
	case "$signed":
		if len(args) == 1 {
			t := args[0].ValType()
			t.Signed = true
			return t
		}
	case "$unsigned":
		if len(args) == 1 {
			t := args[0].ValType()
			t.Signed = false
			return t
		}
	}
	return elab.ValueType{Width: 32, Signed: true}
}

func typeOfValue(v value.Value) elab.ValueType {
	if v.Kind == value.KindReal {
		return elab.ValueType{IsReal: true}
	}
	w := v.Width()
	if w < 1 {
		w = 1
	}
	return elab.ValueType{Width: w, Signed: v.Signed}
}

func typeOfDecl(d *elab.Decl) elab.ValueType {
	return typeOfDeclHead(d.Head)
}

func typeOfDeclHead(h *elab.DeclHead) elab.ValueType {
	if h == nil {
		return elab.ValueType{Width: 1}
	}
	if h.Category == ptree.DeclReal {
		return elab.ValueType{IsReal: true}
	}
	return elab.ValueType{Width: h.Width(), Signed: h.Signed}
}

func widerOf(a, b elab.Expr) elab.ValueType {
	ta, tb := a.ValType(), b.ValType()
	if ta.IsReal || tb.IsReal {
		return elab.ValueType{IsReal: true}
	}
	w := ta.Width
	if tb.Width > w {
		w = tb.Width
	}
	return elab.ValueType{Width: w, Signed: ta.Signed && tb.Signed}
}
