package elab

import (
	"github.com/cwbudde/vlelab/internal/celllib"
	"github.com/cwbudde/vlelab/internal/diag"
)

// SysTFKind is a system function's reported return kind.
type SysTFKind int

const (
	SysTFInt SysTFKind = iota
	SysTFReal
	SysTFTime
	SysTFSized
	SysTFSizedSigned
)

// SysTFInfo describes one entry of the user-system-task registry: is
// this name a system function, and if so what does it return.
type SysTFInfo struct {
	IsFunction bool
	Kind       SysTFKind
	Width      int
}

// Manager is the top-level façade (C9): the owner of the whole
// elaborated graph's arena, its indices, and the query surface exposed
// once elaborate() returns.
type Manager struct {
	Objs    *ObjDict
	Modules *ModuleDict
	Attrs   *AttributeIndex
	Diags   diag.Sink
	Cells   *celllib.Library
	Log     Logger

	Eval  *Evaluator
	Funcs *FuncInterp

	Top *Scope // the single top-level scope created at the start of phase 1

	udps       map[string]*UdpDefn
	topModules []*Module
	allModules []*Module
	userSystf  map[string]SysTFInfo
}

// NewManager creates an empty manager ready to drive elaboration.
func NewManager(cells *celllib.Library, sink diag.Sink, logger Logger) *Manager {
	if logger == nil {
		logger = NopLogger{}
	}
	if cells == nil {
		cells = celllib.NewLibrary()
	}
	m := &Manager{
		Objs:      NewObjDict(),
		Modules:   NewModuleDict(),
		Attrs:     NewAttributeIndex(),
		Diags:     sink,
		Cells:     cells,
		Log:       logger,
		udps:      make(map[string]*UdpDefn),
		userSystf: builtinSystf(),
	}
	m.Eval = NewEvaluator(m, nil)
	m.Funcs = NewFuncInterp(m.Eval)
	m.Eval.SetFuncInterp(m.Funcs)
	return m
}

// builtinSystf seeds the handful of IEEE system functions constant
// expressions can legally call ($bits, $clog2's cousins are ordinary
// user functions in this engine — only genuinely built-in system
// functions live here).
func builtinSystf() map[string]SysTFInfo {
	return map[string]SysTFInfo{
		"$bits":    {IsFunction: true, Kind: SysTFInt},
		"$signed":  {IsFunction: true, Kind: SysTFSizedSigned},
		"$unsigned": {IsFunction: true, Kind: SysTFSized},
	}
}

// RegisterUdp adds a UDP definition, keyed by name, during seeding.
func (m *Manager) RegisterUdp(u *UdpDefn) { m.udps[u.name] = u }

// FindUdp looks up a UDP definition by name.
func (m *Manager) FindUdp(name string) (*UdpDefn, bool) {
	u, ok := m.udps[name]
	return u, ok
}

// UdpList returns every registered UDP definition.
func (m *Manager) UdpList() []*UdpDefn {
	out := make([]*UdpDefn, 0, len(m.udps))
	for _, u := range m.udps {
		out = append(out, u)
	}
	return out
}

// RegisterModule records m in the flat module list and, if it is a top
// module (never instantiated elsewhere), in the top-module list.
func (m *Manager) RegisterModule(mod *Module) {
	m.allModules = append(m.allModules, mod)
	if mod.IsTop {
		m.topModules = append(m.topModules, mod)
	}
}

// TopModuleList returns every top module, in elaboration order.
func (m *Manager) TopModuleList() []*Module { return m.topModules }

// FindUserSystf looks up a system task/function by name.
func (m *Manager) FindUserSystf(name string) (SysTFInfo, bool) {
	info, ok := m.userSystf[name]
	return info, ok
}

// FindObj looks up a name directly in parent's namespace (no upward
// walk — see FindUp for hierarchical resolution).
func (m *Manager) FindObj(parent *Scope, name string) (Handle, bool) {
	return m.Objs.Find(parent, name)
}

// FindScope looks up name in parent and returns its scope, if the
// handle found is scope-shaped.
func (m *Manager) FindScope(parent *Scope, name string) (*Scope, bool) {
	h, ok := m.Objs.Find(parent, name)
	if !ok || h.Kind != HandleScope {
		return nil, false
	}
	return h.Scope, true
}

// FindAttr exposes the attribute index's Find, the "(obj, side) ->
// list" query described for C9.
func (m *Manager) FindAttr(obj any, definitionSide bool) []AttrEntry {
	return m.Attrs.Find(obj, definitionSide)
}

// Per-scope tagged enumeration, exposing ObjDict.ByTag typed.

func (m *Manager) ListInternalScopes(parent *Scope) []*Scope {
	return typedList[*Scope](m.Objs.ByTag(parent, TagInternalScopes))
}

func (m *Manager) ListDecls(parent *Scope, tag Tag) []*Decl {
	return typedList[*Decl](m.Objs.ByTag(parent, tag))
}

func (m *Manager) ListDeclArrays(parent *Scope, tag Tag) []*DeclArray {
	return typedList[*DeclArray](m.Objs.ByTag(parent, tag))
}

func (m *Manager) ListDefparams(parent *Scope) []*Defparam {
	return typedList[*Defparam](m.Objs.ByTag(parent, TagDefparams))
}

func (m *Manager) ListParamAssigns(parent *Scope) []*ParamAssign {
	return typedList[*ParamAssign](m.Objs.ByTag(parent, TagParameterAssigns))
}

func (m *Manager) ListModules(parent *Scope) []*Module {
	return typedList[*Module](m.Objs.ByTag(parent, TagModules))
}

func (m *Manager) ListModuleArrays(parent *Scope) []*ModuleArray {
	return typedList[*ModuleArray](m.Objs.ByTag(parent, TagModuleArrays))
}

func (m *Manager) ListPrimitives(parent *Scope) []*Primitive {
	return typedList[*Primitive](m.Objs.ByTag(parent, TagPrimitives))
}

func (m *Manager) ListPrimitiveArrays(parent *Scope) []*PrimArray {
	return typedList[*PrimArray](m.Objs.ByTag(parent, TagPrimitiveArrays))
}

func (m *Manager) ListTasks(parent *Scope) []*TaskDef {
	return typedList[*TaskDef](m.Objs.ByTag(parent, TagTasks))
}

func (m *Manager) ListFunctions(parent *Scope) []*FunctionDef {
	return typedList[*FunctionDef](m.Objs.ByTag(parent, TagFunctions))
}

func (m *Manager) ListContinuousAssigns(parent *Scope) []*ContAssign {
	return typedList[*ContAssign](m.Objs.ByTag(parent, TagContinuousAssigns))
}

func (m *Manager) ListProcesses(parent *Scope) []*Process {
	return typedList[*Process](m.Objs.ByTag(parent, TagProcesses))
}

func typedList[T any](items []any) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if v, ok := it.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
