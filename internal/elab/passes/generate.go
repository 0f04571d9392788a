package passes

import (
	"fmt"

	"github.com/cwbudde/vlelab/internal/diag"
	"github.com/cwbudde/vlelab/internal/elab"
	"github.com/cwbudde/vlelab/internal/ptree"
	"github.com/cwbudde/vlelab/internal/value"
)

// expandGenBlock gives a `begin [: name] ... end` generate block its
// own scope — named, if the source named it, or synthesized from
// genSeq otherwise — and walks its body under that scope.
func (s *Scheduler) expandGenBlock(scope *elab.Scope, mod *elab.Module, it *ptree.GenBlockItem) {
	name := it.Name
	if name == "" {
		s.genSeq++
		name = fmt.Sprintf("genblk%d", s.genSeq)
	}
	blockScope := elab.NewScope(elab.ScopeGenerateBlock, name, scope, it.FileRegion())
	s.mgr.Objs.AddScope(scope, blockScope)
	s.walkItems(blockScope, mod, it.Body)
}

func (s *Scheduler) expandGenIf(scope *elab.Scope, mod *elab.Module, it *ptree.GenIfItem) {
	cond, ok := s.mgr.Eval.EvalBool(scope, it.Cond)
	if !ok {
		s.mgr.Diags.Report(diag.New(diag.ConstRequired, it.FileRegion(), "generate if condition must be constant"))
		return
	}
	if cond {
		s.walkItem(scope, mod, it.Then)
	} else if it.Else != nil {
		s.walkItem(scope, mod, it.Else)
	}
}

func (s *Scheduler) expandGenCase(scope *elab.Scope, mod *elab.Module, it *ptree.GenCaseItem) {
	sel := s.mgr.Eval.EvalValue(scope, it.Selector)
	var defaultArm *ptree.GenCaseArm
	for i := range it.Arms {
		arm := &it.Arms[i]
		if arm.Default {
			defaultArm = arm
			continue
		}
		for _, lbl := range arm.Labels {
			lv := s.mgr.Eval.EvalValue(scope, lbl)
			if caseEqual(sel, lv) {
				s.walkItem(scope, mod, arm.Body)
				return
			}
		}
	}
	if defaultArm != nil {
		s.walkItem(scope, mod, defaultArm.Body)
	}
}

func caseEqual(a, b value.Value) bool {
	w := a.Width()
	if bw := b.Width(); bw > w {
		w = bw
	}
	if w < 1 {
		w = 1
	}
	av := a.ToBitVector(w, false)
	bv := b.ToBitVector(w, false)
	for i := range av.Bits {
		if av.Bits[i] != bv.Bits[i] {
			return false
		}
	}
	return true
}

// expandGenFor interprets a `for (initVar = ...; cond; stepVar = ...)
// body` generate loop directly against the ptree, one iteration at a
// time: fold the init value into a fresh Genvar, then repeatedly
// evaluate cond, run body under a new per-iteration scope tagged with
// the genvar's current value, and fold the step expression, exactly
// the way a constant-function loop runs (C6) rather than building any
// intermediate loop IR.
//
// The root and each iteration's scope are named after the body's own
// generate-block label (e.g. "g" in "begin : g ... end"), not the
// genvar — matching the original's ElbGfRoot, which takes its name
// from pt_genfor->name(), the generate block's label. A GenBlockItem
// body's contents, labeled or not, are walked directly into the
// per-iteration scope rather than through walkItem, which would
// otherwise create a second, extraneous nested scope for the block.
func (s *Scheduler) expandGenFor(scope *elab.Scope, mod *elab.Module, it *ptree.GenForItem) {
	initHandle, ok := s.mgr.FindObj(scope, it.InitVar)
	if !ok || initHandle.Kind != elab.HandleGenvar {
		s.mgr.Diags.Report(diag.New(diag.NameNotFound, it.FileRegion(), "generate for variable %q is not a declared genvar", it.InitVar))
		return
	}
	genvar := initHandle.Genvar

	initVal, ok := s.mgr.Eval.EvalInt(scope, it.InitExpr)
	if !ok {
		s.mgr.Diags.Report(diag.New(diag.ConstRequired, it.FileRegion(), "generate for initializer must be constant"))
		return
	}
	genvar.Value = int(initVal)

	block, blockBody := genForBody(it)
	rootName := genForRootName(it, block)

	root := elab.NewGenerateForRoot(rootName, scope, it.FileRegion())
	s.mgr.Objs.AddGenForRoot(scope, root)

	const maxIterations = 1 << 20
	for iter := 0; ; iter++ {
		if iter >= maxIterations {
			s.mgr.Diags.Report(diag.New(diag.Internal, it.FileRegion(), "generate for loop did not terminate"))
			break
		}
		cont, ok := s.mgr.Eval.EvalBool(scope, it.Cond)
		if !ok {
			s.mgr.Diags.Report(diag.New(diag.ConstRequired, it.FileRegion(), "generate for condition must be constant"))
			break
		}
		if !cont {
			break
		}

		elemName := arrayElemName(rootName, genvar.Value)
		elemScope := elab.NewScope(elab.ScopeGenerateForBlock, elemName, scope, it.FileRegion())
		s.mgr.Objs.AddScope(scope, elemScope)
		root.Elems = append(root.Elems, &elab.GenForElem{Index: genvar.Value, Scope: elemScope})

		if block != nil {
			s.walkItems(elemScope, mod, blockBody)
		} else {
			s.walkItem(elemScope, mod, it.Body)
		}

		stepVal, ok := s.mgr.Eval.EvalInt(scope, it.StepExpr)
		if !ok {
			s.mgr.Diags.Report(diag.New(diag.ConstRequired, it.FileRegion(), "generate for step must be constant"))
			break
		}
		genvar.Value = int(stepVal)
	}
}

// genForBody reports whether it.Body is a `begin [: name] ... end`
// generate block, labeled or not; if so it returns that block and its
// item list
// so the caller can walk the items directly into the per-iteration
// scope instead of re-wrapping them in a second scope.
func genForBody(it *ptree.GenForItem) (block *ptree.GenBlockItem, body []ptree.Item) {
	b, ok := it.Body.(*ptree.GenBlockItem)
	if !ok {
		return nil, nil
	}
	return b, b.Body
}

// genForRootName derives the gf-root's searchable name from the
// generate block's own label, falling back to the genvar's own name
// (it.InitVar) when the body carries no label.
func genForRootName(it *ptree.GenForItem, block *ptree.GenBlockItem) string {
	if block != nil && block.Name != "" {
		return block.Name
	}
	return it.InitVar
}
