package elab

// HandleKind discriminates the storable kinds an object-dictionary
// Handle can carry. Task and function definitions share one kind since
// they are looked up and stored identically; only the non-nil field on
// Handle distinguishes which one a given handle holds.
type HandleKind int

const (
	HandleScope HandleKind = iota
	HandleTaskFunc
	HandleDecl
	HandleDeclArray
	HandleParameter
	HandleModuleArray
	HandlePrimArray
	HandlePrimitive
	HandleGenForRoot
	HandleGenvar
)

// Handle is the discriminated union C3 stores per (parent scope, name)
// entry. Exactly one pointer field is non-nil, selected by Kind.
type Handle struct {
	Kind HandleKind

	Scope       *Scope
	Task        *TaskDef
	Function    *FunctionDef
	Decl        *Decl
	DeclArray   *DeclArray
	Parameter   *Parameter
	ModuleArray *ModuleArray
	PrimArray   *PrimArray
	Primitive   *Primitive
	GenForRoot  *GenerateForRoot
	Genvar      *Genvar
}

// ArrayElem dereferences a module-array or generate-for-root handle by
// index, returning the child scope at that index. ok is false for
// handle kinds that do not support indexed access, or an out-of-range
// index.
func (h Handle) ArrayElem(index int) (scope *Scope, ok bool) {
	switch h.Kind {
	case HandleModuleArray:
		m := h.ModuleArray.Elem(index)
		if m == nil {
			return nil, false
		}
		return m.Scope, true
	case HandleGenForRoot:
		s := h.GenForRoot.Elem(index)
		if s == nil {
			return nil, false
		}
		return s, true
	default:
		return nil, false
	}
}

func scopeHandle(s *Scope) Handle             { return Handle{Kind: HandleScope, Scope: s} }
func taskHandle(t *TaskDef) Handle             { return Handle{Kind: HandleTaskFunc, Task: t} }
func funcHandle(f *FunctionDef) Handle         { return Handle{Kind: HandleTaskFunc, Function: f} }
func declHandle(d *Decl) Handle                { return Handle{Kind: HandleDecl, Decl: d} }
func declArrayHandle(a *DeclArray) Handle      { return Handle{Kind: HandleDeclArray, DeclArray: a} }
func paramHandle(p *Parameter) Handle          { return Handle{Kind: HandleParameter, Parameter: p} }
func moduleArrayHandle(a *ModuleArray) Handle  { return Handle{Kind: HandleModuleArray, ModuleArray: a} }
func primArrayHandle(a *PrimArray) Handle      { return Handle{Kind: HandlePrimArray, PrimArray: a} }
func primitiveHandle(p *Primitive) Handle      { return Handle{Kind: HandlePrimitive, Primitive: p} }
func genForRootHandle(r *GenerateForRoot) Handle { return Handle{Kind: HandleGenForRoot, GenForRoot: r} }
func genvarHandle(g *Genvar) Handle            { return Handle{Kind: HandleGenvar, Genvar: g} }
