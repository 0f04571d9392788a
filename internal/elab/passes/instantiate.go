package passes

import (
	"github.com/cwbudde/vlelab/internal/celllib"
	"github.com/cwbudde/vlelab/internal/diag"
	"github.com/cwbudde/vlelab/internal/elab"
	"github.com/cwbudde/vlelab/internal/fileset"
	"github.com/cwbudde/vlelab/internal/ptree"
)

// linkModuleInst resolves a `name [#(...)] inst(...)` item against
// the module-definition table first, then the UDP table, then the
// cell library — exactly the three things that grammar form can name,
// tried in the order a hierarchical elaborator conventionally
// disambiguates them.
func (s *Scheduler) linkModuleInst(scope *elab.Scope, it *ptree.ModuleInstItem) {
	if _, ok := s.modByName[it.ModuleName]; ok {
		s.linkModuleInstAsModule(scope, it)
		return
	}
	if _, ok := s.udpByName[it.ModuleName]; ok {
		s.linkModuleInstAsUdp(scope, it)
		return
	}
	if cell, ok := s.mgr.Cells.Lookup(it.ModuleName); ok {
		s.linkModuleInstAsCell(scope, it, cell)
		return
	}
	s.mgr.Diags.Report(diag.New(diag.NameNotFound, it.FileRegion(), "module, primitive, or cell %q not found", it.ModuleName))
}

func (s *Scheduler) linkModuleInstAsModule(scope *elab.Scope, it *ptree.ModuleInstItem) {
	for _, inst := range it.Insts {
		if inst.Range != nil {
			s.linkModuleInstArray(scope, it, inst)
			continue
		}
		mod := s.instantiateModule(scope, it.ModuleName, inst.Name, inst.FileRegion(), it.Params, nil, 0, false, it.Attrs())
		if mod == nil {
			continue
		}
		conns := inst.Ports
		s.phase3 = append(s.phase3, func() { s.connectPorts(scope, mod, conns) })
	}
}

func (s *Scheduler) linkModuleInstArray(scope *elab.Scope, it *ptree.ModuleInstItem, inst ptree.ModuleInst) {
	left, right, ok := s.mgr.Eval.EvalRange(scope, inst.Range.Msb, inst.Range.Lsb)
	if !ok {
		s.mgr.Diags.Report(diag.New(diag.ConstRequired, inst.FileRegion(), "module array range must be constant"))
		return
	}
	arr := elab.NewModuleArray(inst.Name, scope, left, right, inst.FileRegion())
	lo, hi := left, right
	if lo > hi {
		lo, hi = hi, lo
	}
	for idx := lo; idx <= hi; idx++ {
		mod := s.instantiateModule(scope, it.ModuleName, arrayElemName(inst.Name, idx), inst.FileRegion(), it.Params, arr, idx, false, it.Attrs())
		if mod == nil {
			continue
		}
		arr.Elems = append(arr.Elems, mod)
		conns := inst.Ports
		s.phase3 = append(s.phase3, func() { s.connectPorts(scope, mod, conns) })
	}
	s.mgr.Objs.AddModuleArray(scope, arr)
}

// connectPorts binds the external (high-conn) side of every port of
// mod, phase 3 only: by name when the first connection carries one,
// otherwise positionally.
func (s *Scheduler) connectPorts(scope *elab.Scope, mod *elab.Module, conns []ptree.PortConn) {
	if len(conns) == 0 {
		return
	}
	named := conns[0].Name != ""
	if named {
		for _, c := range conns {
			idx := -1
			for i, p := range mod.Ports {
				if p.ExtName == c.Name {
					idx = i
					break
				}
			}
			if idx < 0 {
				s.mgr.Diags.Report(diag.New(diag.NameNotFound, fileset.Region{}, "port %q not found on module %q", c.Name, mod.DefName))
				continue
			}
			mod.Ports[idx].ByName = true
			if c.Value != nil {
				mod.Ports[idx].HighConn = s.instantiateExpr(scope, c.Value, lhsNone)
			}
		}
		return
	}
	for i, c := range conns {
		if i >= len(mod.Ports) {
			s.mgr.Diags.Report(diag.New(diag.DimensionMismatch, fileset.Region{}, "too many port connections for module %q", mod.DefName))
			break
		}
		if c.Value != nil {
			mod.Ports[i].HighConn = s.instantiateExpr(scope, c.Value, lhsNone)
		}
	}
}

// linkModuleInstAsUdp and linkModuleInstAsCell are themselves reached
// from a phase-2 closure (linkModuleInst is queued in phase 2 to
// resolve the ambiguous module/UDP/cell name), but per spec §4.6 phase
// 3 is what "bind[s] gate/UDP primitive port-terminal expressions" and
// materializes attributes — so terminal binding and attribute
// attachment are deferred one further step here, exactly like
// linkGateInst's own (wholesale) phase-3 deferral.
func (s *Scheduler) linkModuleInstAsUdp(scope *elab.Scope, it *ptree.ModuleInstItem) {
	udpDef, _ := s.mgr.FindUdp(it.ModuleName)
	head := &elab.PrimHead{Reg: it.FileRegion(), Class: elab.PrimClassUdp, UdpDef: udpDef}
	for _, inst := range it.Insts {
		terms := portConnsToTerms(inst.Ports)
		if inst.Range != nil {
			s.phase3 = append(s.phase3, func() {
				s.instantiatePrimArray(scope, head, inst.Name, inst.Range, inst.FileRegion(), terms)
			})
			continue
		}
		prim := elab.NewPrimitive(head, inst.Name, scope, inst.FileRegion())
		s.mgr.Objs.AddPrimitive(scope, prim)
		attrs := it.Attrs()
		s.phase3 = append(s.phase3, func() {
			s.bindGateTerms(scope, head, prim, terms)
			s.mgr.Attrs.Attach(prim, attrs, nil, s.resolveAttrInstance)
		})
	}
}

func (s *Scheduler) linkModuleInstAsCell(scope *elab.Scope, it *ptree.ModuleInstItem, cell *celllib.Cell) {
	head := &elab.PrimHead{Reg: it.FileRegion(), Class: elab.PrimClassCell, Cell: cell}
	for _, inst := range it.Insts {
		terms := s.resolveCellTerms(inst.Ports, cell)
		if inst.Range != nil {
			s.phase3 = append(s.phase3, func() {
				s.instantiatePrimArray(scope, head, inst.Name, inst.Range, inst.FileRegion(), terms)
			})
			continue
		}
		prim := elab.NewPrimitive(head, inst.Name, scope, inst.FileRegion())
		s.mgr.Objs.AddPrimitive(scope, prim)
		attrs := it.Attrs()
		s.phase3 = append(s.phase3, func() {
			s.bindGateTerms(scope, head, prim, terms)
			s.mgr.Attrs.Attach(prim, attrs, nil, s.resolveAttrInstance)
		})
	}
}

func portConnsToTerms(conns []ptree.PortConn) []ptree.Expr {
	terms := make([]ptree.Expr, len(conns))
	for i, c := range conns {
		terms[i] = c.Value
	}
	return terms
}

func (s *Scheduler) resolveCellTerms(conns []ptree.PortConn, cell *celllib.Cell) []ptree.Expr {
	terms := make([]ptree.Expr, cell.PinCount())
	if len(conns) > 0 && conns[0].Name != "" {
		for _, c := range conns {
			for i, pin := range cell.Pins {
				if pin.Name == c.Name {
					terms[i] = c.Value
					break
				}
			}
		}
		return terms
	}
	for i, c := range conns {
		if i >= len(terms) {
			break
		}
		terms[i] = c.Value
	}
	return terms
}

// linkGateInst elaborates a primitive-gate instantiation item.
func (s *Scheduler) linkGateInst(scope *elab.Scope, it *ptree.GateInstanceItem) {
	head := &elab.PrimHead{Reg: it.FileRegion(), Class: elab.PrimClassGate, GateType: it.GateType, Drive: it.Drive}
	for _, inst := range it.Insts {
		if inst.Range != nil {
			s.instantiatePrimArray(scope, head, inst.Name, inst.Range, inst.FileRegion(), inst.Terms)
			continue
		}
		prim := elab.NewPrimitive(head, inst.Name, scope, inst.FileRegion())
		s.bindGateTerms(scope, head, prim, inst.Terms)
		s.mgr.Objs.AddPrimitive(scope, prim)
		s.mgr.Attrs.Attach(prim, it.Attrs(), nil, s.resolveAttrInstance)
	}
}

// instantiatePrimArray expands an indexed range of sibling primitive
// instances sharing one head. Every element reuses the same terminal
// expressions; a vector-valued terminal is not re-sliced per element.
func (s *Scheduler) instantiatePrimArray(scope *elab.Scope, head *elab.PrimHead, name string, rng *ptree.RangeSpec, reg fileset.Region, terms []ptree.Expr) {
	left, right, ok := s.mgr.Eval.EvalRange(scope, rng.Msb, rng.Lsb)
	if !ok {
		s.mgr.Diags.Report(diag.New(diag.ConstRequired, reg, "primitive array range must be constant"))
		return
	}
	arr := elab.NewPrimArray(name, scope, left, right, reg)
	lo, hi := left, right
	if lo > hi {
		lo, hi = hi, lo
	}
	for idx := lo; idx <= hi; idx++ {
		prim := elab.NewPrimitive(head, arrayElemName(name, idx), scope, reg)
		s.bindGateTerms(scope, head, prim, terms)
		arr.Elems = append(arr.Elems, prim)
	}
	s.mgr.Objs.AddPrimArray(scope, arr)
}

func (s *Scheduler) bindGateTerms(scope *elab.Scope, head *elab.PrimHead, prim *elab.Primitive, terms []ptree.Expr) {
	prim.Terms = make([]elab.Expr, len(terms))
	for i, t := range terms {
		prim.Terms[i] = s.instantiateExpr(scope, t, lhsNone)
	}

	switch head.Class {
	case elab.PrimClassGate:
		nOut, nInout, nIn := elab.SplitTerms(head.GateType, len(terms))
		prim.Dirs = elab.ExpandDirs(nOut, nInout, nIn)
	case elab.PrimClassUdp:
		dirs := make([]elab.TermDir, len(terms))
		for i := range dirs {
			if i == 0 {
				dirs[i] = elab.TermOutput
			} else {
				dirs[i] = elab.TermInput
			}
		}
		prim.Dirs = dirs
	case elab.PrimClassCell:
		dirs := make([]elab.TermDir, len(terms))
		if head.Cell != nil {
			for i := range dirs {
				d, ok := head.Cell.PinDirection(i)
				if !ok {
					continue
				}
				switch d {
				case celllib.DirOutput:
					dirs[i] = elab.TermOutput
				case celllib.DirInout:
					dirs[i] = elab.TermInout
				default:
					dirs[i] = elab.TermInput
				}
			}
		}
		prim.Dirs = dirs
	}
}

func (s *Scheduler) linkContAssign(scope *elab.Scope, it *ptree.ContAssignItem) {
	n := len(it.Lhs)
	if len(it.Rhs) < n {
		n = len(it.Rhs)
	}
	for i := 0; i < n; i++ {
		lhs := s.instantiateExpr(scope, it.Lhs[i], lhsContinuous)
		rhs := s.instantiateExpr(scope, it.Rhs[i], lhsNone)
		ca := &elab.ContAssign{Reg: it.FileRegion(), Lhs: lhs, Rhs: rhs}
		s.mgr.Objs.AddContAssign(scope, ca)
		s.mgr.Attrs.Attach(ca, it.Attrs(), nil, s.resolveAttrInstance)
	}
}

func (s *Scheduler) linkProcess(scope *elab.Scope, it *ptree.ProcessItem) {
	kind := elab.ProcessInitial
	if it.Kind == ptree.ProcessAlways {
		kind = elab.ProcessAlways
	}
	body := s.instantiateStmt(scope, it.Body)
	p := &elab.Process{Reg: it.FileRegion(), Kind: kind, Body: body}
	s.mgr.Objs.AddProcess(scope, p)
	s.mgr.Attrs.Attach(p, it.Attrs(), nil, s.resolveAttrInstance)
}
