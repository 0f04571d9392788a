package passes

import (
	"github.com/cwbudde/vlelab/internal/diag"
	"github.com/cwbudde/vlelab/internal/elab"
	"github.com/cwbudde/vlelab/internal/fileset"
	"github.com/cwbudde/vlelab/internal/ptree"
	"github.com/cwbudde/vlelab/internal/value"
)

// instantiateModule builds one module instance: its scope, its
// parameter ports (folded against overrides), every item in its body
// (phase 1, recursively — this is the "top-down instantiate" phase),
// and its port list. instAttrs is the attribute list carried by the
// ModuleInstItem that caused this instantiation (nil for a top
// module, which has no enclosing instantiation statement).
func (s *Scheduler) instantiateModule(parent *elab.Scope, defName, instName string, reg fileset.Region, overrides *ptree.ParamAssignList, parentArray *elab.ModuleArray, arrayIndex int, isTop bool, instAttrs []*ptree.AttrInstance) *elab.Module {
	def, ok := s.modByName[defName]
	if !ok {
		s.mgr.Diags.Report(diag.New(diag.NameNotFound, reg, "module %q not found", defName))
		return nil
	}

	scope := elab.NewScope(elab.ScopeModule, instName, parent, reg)
	mod := &elab.Module{
		Scope:          scope,
		DefName:        defName,
		Def:            def,
		TimeUnit:       def.Time,
		DefaultNetType: netTypeOf(def.DefaultNet),
		CellTag:        def.Cell,
		IsTop:          isTop,
		ParentArray:    parentArray,
		ArrayIndex:     arrayIndex,
	}
	s.mgr.Objs.AddModuleScope(parent, mod)
	s.mgr.Modules.Add(parent, mod)
	s.mgr.RegisterModule(mod)

	s.elabParamPorts(scope, def, overrides)
	s.walkItems(scope, mod, def.Items)
	s.buildPorts(scope, mod, def)

	s.phase3 = append(s.phase3, func() {
		s.mgr.Attrs.Attach(mod, def.Attrs(), instAttrs, s.resolveAttrInstance)
	})

	return mod
}

func netTypeOf(k ptree.DefaultNetKind) elab.NetType {
	switch k {
	case ptree.DefaultNetTri:
		return elab.NetTypeTri
	case ptree.DefaultNetNone:
		return elab.NetTypeNone
	default:
		return elab.NetTypeWire
	}
}

func tagForCategory(cat ptree.DeclCategory) elab.Tag {
	switch cat {
	case ptree.DeclNet:
		return elab.TagNets
	case ptree.DeclReg:
		return elab.TagRegs
	case ptree.DeclInteger, ptree.DeclReal, ptree.DeclTime, ptree.DeclRealtime:
		return elab.TagVariables
	case ptree.DeclEvent:
		return elab.TagNamedEvents
	case ptree.DeclParameter, ptree.DeclLocalparam:
		return elab.TagParameters
	default:
		return ""
	}
}

// elabParamPorts declares the `#(parameter ...)` header parameters of
// def in instantiation order, applying overrides positionally or by
// name.
func (s *Scheduler) elabParamPorts(scope *elab.Scope, def *ptree.Module, overrides *ptree.ParamAssignList) {
	type slot struct {
		head *ptree.DeclHead
		item *ptree.DeclItem
	}
	var slots []slot
	for hi := range def.ParamPorts {
		h := &def.ParamPorts[hi]
		for _, it := range h.Items {
			slots = append(slots, slot{h, it})
		}
	}
	for i, sl := range slots {
		var override ptree.Expr
		if overrides != nil {
			if overrides.Named {
				for j, name := range overrides.Names {
					if name == sl.item.Name && j < len(overrides.Values) {
						override = overrides.Values[j]
					}
				}
			} else if i < len(overrides.Values) {
				override = overrides.Values[i]
			}
		}
		s.declareParameter(scope, sl.head, sl.item, override, false)
	}
}

// declareParameter folds one parameter/localparam item's value (either
// its override, if any, or its own initializer) and registers it.
// A parameter with no explicit range infers its width/sign from the
// folded value: 32-bit signed for a plain integer literal, or the
// literal's own width/sign for a sized constant.
func (s *Scheduler) declareParameter(scope *elab.Scope, dh *ptree.DeclHead, item *ptree.DeclItem, override ptree.Expr, isLocalparam bool) {
	head := s.buildDeclHead(scope, dh)
	rhs := item.Init
	overridden := false
	if override != nil {
		rhs = override
		overridden = true
	}
	val := s.mgr.Eval.EvalValue(scope, rhs)
	inferParamHead(head, val)
	decl := elab.NewDecl(head, item.Name, scope, item.FileRegion())
	param := &elab.Parameter{Decl: decl, Value: val, IsLocalparam: isLocalparam, Overridden: overridden}
	s.mgr.Objs.AddParameter(scope, param)
}

func inferParamHead(head *elab.DeclHead, val value.Value) {
	if head.HasRange {
		return
	}
	switch val.Kind {
	case value.KindBitVector, value.KindScalar:
		head.HasRange = true
		head.Msb, head.Lsb = val.Width()-1, 0
		head.Endian = elab.EndianLittle
		head.Signed = val.Signed
	case value.KindInt:
		head.HasRange = true
		head.Msb, head.Lsb = 31, 0
		head.Endian = elab.EndianLittle
		head.Signed = true
	}
}

// buildDeclHead folds dh's declared range (if any). An unranged
// integer/time declaration gets the IEEE implicit 32-bit signed /
// 64-bit unsigned range; every other unranged category stays scalar
// (1-bit) unless a caller later infers a width for it (parameters).
func (s *Scheduler) buildDeclHead(scope *elab.Scope, dh *ptree.DeclHead) *elab.DeclHead {
	head := &elab.DeclHead{Reg: dh.FileRegion(), Category: dh.Category, NetKind: dh.NetKind, Signed: dh.Signed, Drive: dh.Drive, Charge: dh.Charge, Parent: scope}
	switch {
	case dh.Range != nil:
		msb, lsb, ok := s.mgr.Eval.EvalRange(scope, dh.Range.Msb, dh.Range.Lsb)
		if ok {
			head.HasRange = true
			head.Msb, head.Lsb = msb, lsb
			if msb < lsb {
				head.Endian = elab.EndianBig
			}
		}
	case dh.Category == ptree.DeclInteger:
		head.HasRange = true
		head.Msb, head.Lsb = 31, 0
		head.Signed = true
	case dh.Category == ptree.DeclTime:
		head.HasRange = true
		head.Msb, head.Lsb = 63, 0
	}
	return head
}

// elabDeclHead registers every item of a non-parameter DeclHead
// (nets, regs, variables, named events) — plain or arrayed — under
// scope. Parameter/localparam heads are dispatched to declareParameter
// instead, since they need per-item override handling.
func (s *Scheduler) elabDeclHead(scope *elab.Scope, dh *ptree.DeclHead) {
	if dh.Category == ptree.DeclParameter || dh.Category == ptree.DeclLocalparam {
		for _, item := range dh.Items {
			s.declareParameter(scope, dh, item, nil, dh.Category == ptree.DeclLocalparam)
		}
		return
	}

	head := s.buildDeclHead(scope, dh)
	tag := tagForCategory(dh.Category)
	for _, item := range dh.Items {
		if len(item.Dims) > 0 {
			dims := make([]elab.ArrayDim, len(item.Dims))
			for i, d := range item.Dims {
				l, r, ok := s.mgr.Eval.EvalRange(scope, d.Msb, d.Lsb)
				if !ok {
					l, r = 0, 0
				}
				dims[i] = elab.ArrayDim{Left: l, Right: r}
			}
			arr := elab.NewDeclArray(head, item.Name, scope, dims, item.FileRegion())
			s.mgr.Objs.AddDeclArray(scope, arr, tag)
			continue
		}
		decl := elab.NewDecl(head, item.Name, scope, item.FileRegion())
		s.mgr.Objs.AddDecl(scope, decl, tag)
	}
}

// buildPorts materializes mod's port list from its definition's ANSI
// header. Each port's low-conn resolves to a decl already declared in
// the body (the common non-ANSI-body-redeclaration pattern) if one by
// that name exists, otherwise a fresh net/reg decl is synthesized from
// the header's own type fields.
func (s *Scheduler) buildPorts(scope *elab.Scope, mod *elab.Module, def *ptree.Module) {
	mod.Ports = make([]*elab.Port, len(def.Ports))
	for i, pd := range def.Ports {
		port := &elab.Port{Module: mod, Index: i, ExtName: pd.Name, Dir: pd.Dir, Reg: pd.FileRegion()}
		port.LowConn = s.resolvePortDecl(scope, pd)
		mod.Ports[i] = port
	}
}

func (s *Scheduler) resolvePortDecl(scope *elab.Scope, pd ptree.PortDecl) elab.Expr {
	if h, ok := s.mgr.FindObj(scope, pd.Name); ok && h.Kind == elab.HandleDecl {
		return elab.NewPrimaryExpr(pd.FileRegion(), typeOfDecl(h.Decl), elab.RefTarget{Decl: h.Decl}, nil)
	}

	category := ptree.DeclNet
	if pd.IsReg {
		category = ptree.DeclReg
	}
	head := &elab.DeclHead{Reg: pd.FileRegion(), Category: category, NetKind: pd.NetKind, Signed: pd.Signed, Parent: scope}
	if pd.Range != nil {
		msb, lsb, ok := s.mgr.Eval.EvalRange(scope, pd.Range.Msb, pd.Range.Lsb)
		if ok {
			head.HasRange = true
			head.Msb, head.Lsb = msb, lsb
			if msb < lsb {
				head.Endian = elab.EndianBig
			}
		}
	}
	decl := elab.NewDecl(head, pd.Name, scope, pd.FileRegion())
	tag := elab.TagNets
	if pd.IsReg {
		tag = elab.TagRegs
	}
	s.mgr.Objs.AddDecl(scope, decl, tag)
	return elab.NewPrimaryExpr(pd.FileRegion(), typeOfDecl(decl), elab.RefTarget{Decl: decl}, nil)
}

func (s *Scheduler) resolveAttrInstance(inst *ptree.AttrInstance) []elab.AttrEntry {
	entries := make([]elab.AttrEntry, 0, len(inst.Specs))
	for _, spec := range inst.Specs {
		var val elab.Expr
		if spec.Value != nil {
			val = s.instantiateExpr(s.mgr.Top, spec.Value, lhsNone)
		}
		entries = append(entries, elab.AttrEntry{Name: spec.Name, Value: val})
	}
	return entries
}
