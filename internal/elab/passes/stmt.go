package passes

import (
	"github.com/cwbudde/vlelab/internal/diag"
	"github.com/cwbudde/vlelab/internal/elab"
	"github.com/cwbudde/vlelab/internal/fileset"
	"github.com/cwbudde/vlelab/internal/ptree"
)

// instantiateStmt lowers one parse-tree statement into the elaborated
// object graph's Stmt form. A named begin/fork block gets a real Scope
// (so names declared inside it are reachable hierarchically); an
// unnamed one keeps Scope == nil and its locals, if any, simply are
// not — this engine does not support decls inside an unnamed block.
func (s *Scheduler) instantiateStmt(scope *elab.Scope, st ptree.Stmt) elab.Stmt {
	if st == nil {
		return nil
	}
	switch n := st.(type) {
	case *ptree.NullStmt:
		return elab.NewNullStmt(n.FileRegion())

	case *ptree.AssignStmt:
		lhs := s.instantiateExpr(scope, n.Lhs, lhsProcedural)
		rhs := s.instantiateExpr(scope, n.Rhs, lhsNone)
		return elab.NewAssignStmt(n.FileRegion(), lhs, rhs, n.NonBlocking)

	case *ptree.BlockStmt:
		return s.instantiateBlockStmt(scope, n)

	case *ptree.IfStmt:
		cond := s.instantiateExpr(scope, n.Cond, lhsNone)
		then := s.instantiateStmt(scope, n.Then)
		var els elab.Stmt
		if n.Else != nil {
			els = s.instantiateStmt(scope, n.Else)
		}
		return elab.NewIfStmt(n.FileRegion(), cond, then, els)

	case *ptree.CaseStmt:
		sel := s.instantiateExpr(scope, n.Selector, lhsNone)
		items := make([]elab.CaseItem, len(n.Items))
		for i, it := range n.Items {
			labels := make([]elab.Expr, len(it.Labels))
			for j, l := range it.Labels {
				labels[j] = s.instantiateExpr(scope, l, lhsNone)
			}
			items[i] = elab.CaseItem{Labels: labels, Default: it.Default, Body: s.instantiateStmt(scope, it.Body)}
		}
		return elab.NewCaseStmt(n.FileRegion(), n.Kind, sel, items)

	case *ptree.WhileStmt:
		cond := s.instantiateExpr(scope, n.Cond, lhsNone)
		return elab.NewWhileStmt(n.FileRegion(), cond, s.instantiateStmt(scope, n.Body))

	case *ptree.RepeatStmt:
		count := s.instantiateExpr(scope, n.Count, lhsNone)
		return elab.NewRepeatStmt(n.FileRegion(), count, s.instantiateStmt(scope, n.Body))

	case *ptree.ForStmt:
		return s.instantiateForStmt(scope, n)

	case *ptree.ForeverStmt:
		return elab.NewForeverStmt(n.FileRegion(), s.instantiateStmt(scope, n.Body))

	case *ptree.WaitStmt:
		cond := s.instantiateExpr(scope, n.Cond, lhsNone)
		return elab.NewWaitStmt(n.FileRegion(), cond, s.instantiateStmt(scope, n.Body))

	case *ptree.EventTriggerStmt:
		return elab.NewEventTriggerStmt(n.FileRegion(), s.instantiateExpr(scope, n.Target, lhsNone))

	case *ptree.TimingControlStmt:
		return s.instantiateTimingControlStmt(scope, n)

	case *ptree.PCAStmt:
		ctx := lhsPCAOther
		if n.Kind == ptree.PCAForce {
			ctx = lhsPCAForce
		}
		lhs := s.instantiateExpr(scope, n.Lhs, ctx)
		var rhs elab.Expr
		if n.Rhs != nil {
			rhs = s.instantiateExpr(scope, n.Rhs, lhsNone)
		}
		return elab.NewPCAStmt(n.FileRegion(), n.Kind, lhs, rhs)

	case *ptree.TaskEnableStmt:
		return s.instantiateTaskEnable(scope, n)

	case *ptree.SysTaskEnableStmt:
		args := make([]elab.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = s.instantiateExpr(scope, a, lhsNone)
		}
		return elab.NewSysTaskEnableStmt(n.FileRegion(), n.Name, args)

	case *ptree.DisableStmt:
		return s.instantiateDisableStmt(scope, n)

	default:
		s.mgr.Diags.Report(diag.New(diag.Internal, st.FileRegion(), "unsupported statement kind"))
		return elab.NewNullStmt(st.FileRegion())
	}
}

func (s *Scheduler) instantiateBlockStmt(scope *elab.Scope, n *ptree.BlockStmt) elab.Stmt {
	bodyScope := scope
	var ownScope *elab.Scope
	if n.Name != "" {
		kind := elab.ScopeNamedBegin
		if n.Fork {
			kind = elab.ScopeNamedFork
		}
		ownScope = elab.NewScope(kind, n.Name, scope, n.FileRegion())
		s.mgr.Objs.AddScope(scope, ownScope)
		bodyScope = ownScope
	}
	body := make([]elab.Stmt, len(n.Body))
	for i, st := range n.Body {
		body[i] = s.instantiateStmt(bodyScope, st)
	}
	return elab.NewBlockStmt(n.FileRegion(), ownScope, n.Fork, body)
}

// instantiateForStmt resolves InitVar/StepVar as plain (non-
// hierarchical) references in scope: a for-loop control variable is
// always a reg/integer already declared in the enclosing block.
func (s *Scheduler) instantiateForStmt(scope *elab.Scope, n *ptree.ForStmt) elab.Stmt {
	initDecl := s.lookupLoopVar(scope, n.InitVar, n.FileRegion())
	stepDecl := s.lookupLoopVar(scope, n.StepVar, n.FileRegion())
	initExpr := s.instantiateExpr(scope, n.InitExpr, lhsNone)
	cond := s.instantiateExpr(scope, n.Cond, lhsNone)
	stepExpr := s.instantiateExpr(scope, n.StepExpr, lhsNone)
	body := s.instantiateStmt(scope, n.Body)
	return elab.NewForStmt(n.FileRegion(), initDecl, initExpr, cond, stepDecl, stepExpr, body)
}

func (s *Scheduler) lookupLoopVar(scope *elab.Scope, name string, reg fileset.Region) *elab.Decl {
	h, ok := s.mgr.FindUp(scope, nil, name, nil)
	if !ok || h.Kind != elab.HandleDecl {
		s.mgr.Diags.Report(diag.New(diag.NameNotFound, reg, "for-loop variable %q not found", name))
		return nil
	}
	return h.Decl
}

func (s *Scheduler) instantiateTimingControlStmt(scope *elab.Scope, n *ptree.TimingControlStmt) elab.Stmt {
	ctrl := n.Ctrl
	var delay elab.Expr
	var events []elab.EventSpec
	if ctrl != nil {
		if ctrl.Delay != nil {
			delay = s.instantiateExpr(scope, ctrl.Delay, lhsNone)
		}
		events = make([]elab.EventSpec, len(ctrl.Events))
		for i, ev := range ctrl.Events {
			events[i] = elab.EventSpec{Edge: ev.Edge, Expr: s.instantiateExpr(scope, ev.Expr, lhsNone)}
		}
	}
	var body elab.Stmt
	if n.Body != nil {
		body = s.instantiateStmt(scope, n.Body)
	}
	return elab.NewTimingControlStmt(n.FileRegion(), delay, events, body)
}

func (s *Scheduler) instantiateTaskEnable(scope *elab.Scope, n *ptree.TaskEnableStmt) elab.Stmt {
	args := make([]elab.Expr, len(n.Args))
	for i, a := range n.Args {
		args[i] = s.instantiateExpr(scope, a, lhsNone)
	}
	h, ok := s.mgr.FindUp(scope, nil, n.Name, nil)
	if !ok || h.Kind != elab.HandleTaskFunc || h.Task == nil {
		s.mgr.Diags.Report(diag.New(diag.NameNotFound, n.FileRegion(), "task %q not found", n.Name))
		return elab.NewTaskEnableStmt(n.FileRegion(), nil, args)
	}
	return elab.NewTaskEnableStmt(n.FileRegion(), h.Task, args)
}

func (s *Scheduler) instantiateDisableStmt(scope *elab.Scope, n *ptree.DisableStmt) elab.Stmt {
	h, ok := s.mgr.FindUp(scope, nil, n.Target, nil)
	if !ok {
		s.mgr.Diags.Report(diag.New(diag.NameNotFound, n.FileRegion(), "disable target %q not found", n.Target))
		return elab.NewDisableStmt(n.FileRegion(), nil, nil)
	}
	switch h.Kind {
	case elab.HandleScope:
		return elab.NewDisableStmt(n.FileRegion(), h.Scope, nil)
	case elab.HandleTaskFunc:
		return elab.NewDisableStmt(n.FileRegion(), nil, h.Task)
	default:
		s.mgr.Diags.Report(diag.New(diag.WrongKind, n.FileRegion(), "%q cannot be disabled", n.Target))
		return elab.NewDisableStmt(n.FileRegion(), nil, nil)
	}
}
