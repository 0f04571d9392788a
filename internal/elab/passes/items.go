package passes

import (
	"github.com/cwbudde/vlelab/internal/diag"
	"github.com/cwbudde/vlelab/internal/elab"
	"github.com/cwbudde/vlelab/internal/ptree"
)

// walkItems dispatches every item of a module/generate body. Decls,
// genvars, and task/function headers are elaborated immediately
// (phase 1); instance, gate, continuous-assign, and process items are
// queued for phase 2/3; generate constructs recurse (GenerateItem) or
// are queued for phase 2 expansion.
func (s *Scheduler) walkItems(scope *elab.Scope, mod *elab.Module, items []ptree.Item) {
	for _, item := range items {
		s.walkItem(scope, mod, item)
	}
}

func (s *Scheduler) walkItem(scope *elab.Scope, mod *elab.Module, item ptree.Item) {
	switch it := item.(type) {
	case *ptree.DeclHead:
		s.elabDeclHead(scope, it)

	case *ptree.GenvarDeclItem:
		for _, name := range it.Names {
			g := elab.NewGenvar(name, scope, it.FileRegion())
			s.mgr.Objs.AddGenvar(scope, g)
		}

	case *ptree.TaskDeclItem:
		s.elabTask(scope, it)

	case *ptree.FunctionDeclItem:
		s.elabFunction(scope, it)

	case *ptree.DefparamItem:
		for _, pa := range it.Assigns {
			s.queueDefparam(scope, pa)
		}

	case *ptree.ModuleInstItem:
		s.phase2 = append(s.phase2, func() { s.linkModuleInst(scope, it) })

	case *ptree.GateInstanceItem:
		s.phase3 = append(s.phase3, func() { s.linkGateInst(scope, it) })

	case *ptree.ContAssignItem:
		s.phase3 = append(s.phase3, func() { s.linkContAssign(scope, it) })

	case *ptree.ProcessItem:
		s.phase3 = append(s.phase3, func() { s.linkProcess(scope, it) })

	case *ptree.GenerateItem:
		s.walkItems(scope, mod, it.Body)

	case *ptree.GenBlockItem:
		s.phase2 = append(s.phase2, func() { s.expandGenBlock(scope, mod, it) })

	case *ptree.GenIfItem:
		s.phase2 = append(s.phase2, func() { s.expandGenIf(scope, mod, it) })

	case *ptree.GenCaseItem:
		s.phase2 = append(s.phase2, func() { s.expandGenCase(scope, mod, it) })

	case *ptree.GenForItem:
		s.phase2 = append(s.phase2, func() { s.expandGenFor(scope, mod, it) })

	default:
		s.mgr.Diags.Report(diag.New(diag.Internal, item.FileRegion(), "unsupported item kind"))
	}
}

// declareIO elaborates a task/function's argument list, registering
// each argument as a reg-category decl local to scope.
func (s *Scheduler) declareIO(scope *elab.Scope, ios []ptree.IODecl) []elab.IODecl {
	var out []elab.IODecl
	for _, io := range ios {
		head := &elab.DeclHead{Category: ptree.DeclReg, Signed: io.Signed, Parent: scope}
		if io.Range != nil {
			msb, lsb, ok := s.mgr.Eval.EvalRange(scope, io.Range.Msb, io.Range.Lsb)
			if ok {
				head.HasRange = true
				head.Msb, head.Lsb = msb, lsb
				if msb < lsb {
					head.Endian = elab.EndianBig
				}
			}
		} else {
			head.HasRange = true
			head.Msb, head.Lsb = 31, 0
		}
		for _, name := range io.Names {
			decl := elab.NewDecl(head, name, scope, io.FileRegion())
			s.mgr.Objs.AddDecl(scope, decl, elab.TagRegs)
			out = append(out, elab.IODecl{Reg: io.FileRegion(), Dir: io.Dir, Decl: decl})
		}
	}
	return out
}

func (s *Scheduler) elabTask(scope *elab.Scope, it *ptree.TaskDeclItem) {
	taskScope := elab.NewScope(elab.ScopeTask, it.Name, scope, it.FileRegion())
	io := s.declareIO(taskScope, it.IO)
	for _, d := range it.Decls {
		if dh, ok := d.(*ptree.DeclHead); ok {
			s.elabDeclHead(taskScope, dh)
		}
	}
	t := &elab.TaskDef{Scope: taskScope, Def: it, IO: io}
	s.mgr.Objs.AddTask(scope, t)
	s.phase3 = append(s.phase3, func() { t.Body = s.instantiateStmt(taskScope, it.Body) })
}

// elabFunction elaborates a function header and registers it.
// IsConstFn is computed here (cheap, purely syntactic), while the body
// is never turned into an elab.Stmt tree at all — constant-function
// calls interpret Def.Body directly (C6), and this engine does not
// support non-constant function calls outside a constant context.
func (s *Scheduler) elabFunction(scope *elab.Scope, it *ptree.FunctionDeclItem) {
	fscope := elab.NewScope(elab.ScopeFunction, it.Name, scope, it.FileRegion())
	io := s.declareIO(fscope, it.IO)
	for _, d := range it.Decls {
		if dh, ok := d.(*ptree.DeclHead); ok {
			s.elabDeclHead(fscope, dh)
		}
	}

	var outHead *elab.DeclHead
	switch {
	case it.ReturnReal:
		outHead = nil
	case it.Range != nil:
		msb, lsb, ok := s.mgr.Eval.EvalRange(fscope, it.Range.Msb, it.Range.Lsb)
		outHead = &elab.DeclHead{Parent: fscope}
		if ok {
			outHead.HasRange = true
			outHead.Msb, outHead.Lsb = msb, lsb
			if msb < lsb {
				outHead.Endian = elab.EndianBig
			}
		}
	default:
		outHead = &elab.DeclHead{Parent: fscope, HasRange: true, Msb: 31, Lsb: 0, Signed: true}
	}
	outDecl := elab.NewDecl(outHead, it.Name, fscope, it.FileRegion())
	s.mgr.Objs.AddDecl(fscope, outDecl, elab.TagRegs)

	f := &elab.FunctionDef{Scope: fscope, Def: it, IO: io, OutputDecl: outDecl, ReturnReal: it.ReturnReal}
	f.IsConstFn = IsConstFunction(it)
	s.mgr.Objs.AddFunction(scope, f)
}
