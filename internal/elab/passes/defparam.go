package passes

import (
	"github.com/cwbudde/vlelab/internal/diag"
	"github.com/cwbudde/vlelab/internal/elab"
	"github.com/cwbudde/vlelab/internal/ptree"
)

// queueDefparam elaborates one `defparam path = value;` entry into a
// pending stub. Indexed prefix segments whose index expression folds
// to a constant become HierSegment.Index; a non-constant index segment
// is left unindexed, which simply fails to resolve later (defparam
// paths are never dynamic in IEEE-1364).
func (s *Scheduler) queueDefparam(scope *elab.Scope, pa ptree.ParamAssignItem) {
	hierPath := make([]elab.HierSegment, 0, len(pa.Target.Branches))
	for _, b := range pa.Target.Branches {
		seg := elab.HierSegment{Name: b.Name}
		if b.Index != nil {
			if idx, ok := s.mgr.Eval.EvalIntIfConst(scope, b.Index); ok {
				n := int(idx)
				seg.Index = &n
			}
		}
		hierPath = append(hierPath, seg)
	}
	d := &elab.Defparam{Reg: pa.FileRegion(), Owner: scope, HierPath: hierPath, TargetName: pa.Target.Name, ValueExpr: pa.Value}
	s.mgr.Objs.AddDefparam(scope, d)
	s.defparams = append(s.defparams, d)
}

// fixDefparams iterates the defparam-resolution fixpoint: each round
// retries every still-pending stub, since resolving one defparam can
// change a module array/generate-for structure that a later stub's
// hierarchical path depends on. It stops once a round makes no
// progress. Stubs still pending at that point are silently dropped —
// their targets never elaborated, per spec, not reported as errors.
func (s *Scheduler) fixDefparams() {
	for {
		progressed := false
		var remaining []*elab.Defparam
		for _, d := range s.defparams {
			if s.tryResolveDefparam(d) {
				progressed = true
				continue
			}
			remaining = append(remaining, d)
		}
		s.defparams = remaining
		if !progressed || len(remaining) == 0 {
			break
		}
	}
}

// tryResolveDefparam attempts to resolve one stub against the current
// module tree. It returns true once the stub is disposed of — whether
// by a successful override or by a terminal error (localparam target)
// — so the caller stops retrying it either way.
func (s *Scheduler) tryResolveDefparam(d *elab.Defparam) bool {
	h, ok := s.mgr.FindUp(d.Owner, d.HierPath, d.TargetName, d.Owner)
	if !ok {
		return false
	}
	if h.Kind != elab.HandleParameter {
		s.mgr.Diags.Report(diag.New(diag.WrongKind, d.FileRegion(), "defparam target %q is not a parameter", d.TargetName))
		return true
	}
	target := h.Parameter
	if target.IsLocalparam {
		s.mgr.Diags.Report(diag.New(diag.ConstRequired, d.FileRegion(), "cannot override localparam %q via defparam", d.TargetName))
		return true
	}
	val := s.mgr.Eval.EvalValue(d.Owner, d.ValueExpr)
	target.Value = val
	target.Overridden = true
	s.mgr.Objs.AddParamAssign(d.Owner, &elab.ParamAssign{Reg: d.FileRegion(), Target: target, Value: val})
	return true
}
