package ptree

// ParamAssignItem is one `name = expr` entry inside a `defparam` list.
type ParamAssignItem struct {
	base
	Target Primary // hierarchical parameter path; Select is always nil
	Value  Expr
}

// DefparamItem is `defparam assigns;`.
type DefparamItem struct {
	base
	Attributed
	Assigns []ParamAssignItem
}

func (*DefparamItem) isItem() {}

// ContAssignItem is `assign [drive] [delay] lhs = rhs, ...;`.
type ContAssignItem struct {
	base
	Attributed
	Drive *DriveStrength
	Delay *DelayValue
	Lhs   []Expr
	Rhs   []Expr
}

func (*ContAssignItem) isItem() {}

// GatePrimType is the primitive-gate keyword (and, nand, or, nor, xor,
// xnor, not, buf, bufif0, bufif1, notif0, notif1, pulldown, pullup,
// and the four switch/pass kinds).
type GatePrimType string

// GateTerminal is one terminal connection of a gate instance: a
// positional expression, there being no named-port form for gates.
type GateTerminal = Expr

// GateInst is one instance within a `gatetype inst1(...), inst2(...);`
// item: an optional instance name, an optional array range, and its
// terminal list (output(s) first, then input(s), per gate type).
type GateInst struct {
	base
	Name  string // "" for an unnamed instance
	Range *RangeSpec
	Terms []GateTerminal
}

// GateInstanceItem is a primitive gate instantiation item.
type GateInstanceItem struct {
	base
	Attributed
	GateType GatePrimType
	Drive    *DriveStrength
	Delay    *DelayValue
	Insts    []GateInst
}

func (*GateInstanceItem) isItem() {}

// ParamAssignList is the `#(.NAME(expr), ...)` or `#(expr, ...)`
// parameter override list on a module instantiation.
type ParamAssignList struct {
	Named  bool
	Names  []string // parallel to Values when Named
	Values []Expr
}

// PortConn is one module-instance port connection: `.name(expr)` when
// Named, otherwise a positional expr.
type PortConn struct {
	Name  string // "" when positional
	Value Expr   // nil for an explicitly unconnected named port: `.name()`
}

// ModuleInst is one instance within a module instantiation item.
type ModuleInst struct {
	base
	Name  string
	Range *RangeSpec
	Ports []PortConn
}

// ModuleInstItem is `moduleName [#(params)] inst1(...), inst2(...);`.
type ModuleInstItem struct {
	base
	Attributed
	ModuleName string
	Params     *ParamAssignList
	Insts      []ModuleInst
}

func (*ModuleInstItem) isItem() {}

// IODecl is one input/output/inout declaration for a task or function
// argument.
type IODecl struct {
	base
	Dir    Direction2
	Signed bool
	Range  *RangeSpec
	Names  []string
}

// Direction2 is a port/argument direction (kept distinct from
// celllib.Direction, which is a YAML-facing string enum).
type Direction2 int

const (
	DirInput2 Direction2 = iota
	DirOutput2
	DirInout2
)

// TaskDeclItem is `task [automatic] name; ports/decls; body endtask`.
type TaskDeclItem struct {
	base
	Attributed
	Name      string
	Automatic bool
	IO        []IODecl
	Decls     []Item // DeclHead entries local to the task
	Body      Stmt
}

func (*TaskDeclItem) isItem() {}

// FunctionDeclItem is `function [automatic] [range|integer|real] name;
// ports/decls; body endfunction`.
type FunctionDeclItem struct {
	base
	Attributed
	Name       string
	Automatic  bool
	ReturnReal bool
	Range      *RangeSpec // non-nil for an explicit vector return type
	IO         []IODecl
	Decls      []Item
	Body       Stmt
}

func (*FunctionDeclItem) isItem() {}

// ProcessKind distinguishes initial from always.
type ProcessKind int

const (
	ProcessInitial ProcessKind = iota
	ProcessAlways
)

// ProcessItem is `initial body;` or `always body;`.
type ProcessItem struct {
	base
	Attributed
	Kind ProcessKind
	Body Stmt
}

func (*ProcessItem) isItem() {}

// GenvarDeclItem is `genvar name1, name2, ...;`.
type GenvarDeclItem struct {
	base
	Attributed
	Names []string
}

func (*GenvarDeclItem) isItem() {}

// GenerateItem is `generate items endgenerate`. Its direct children are
// themselves ordinary items (decls, instances, processes) or one of the
// generate-construct items below.
type GenerateItem struct {
	base
	Body []Item
}

func (*GenerateItem) isItem() {}

// GenBlockItem is a `begin [: name] items end` generate block. An
// unnamed block is assigned a synthesized name (genblkN) during
// elaboration, not here.
type GenBlockItem struct {
	base
	Name string // "" when the block carries no explicit label
	Body []Item
}

func (*GenBlockItem) isItem() {}

// GenIfItem is `if (cond) then_item [else else_item]` inside a generate
// region.
type GenIfItem struct {
	base
	Cond Expr
	Then Item
	Else Item // nil when there is no else branch
}

func (*GenIfItem) isItem() {}

// GenCaseArm is one arm of a generate case construct.
type GenCaseArm struct {
	Labels  []Expr
	Default bool
	Body    Item
}

// GenCaseItem is `case (selector) arms endcase` inside a generate
// region.
type GenCaseItem struct {
	base
	Selector Expr
	Arms     []GenCaseArm
}

func (*GenCaseItem) isItem() {}

// GenForItem is `for (initVar = initExpr; cond; stepVar = stepExpr)
// body` inside a generate region. Each iteration instantiates Body
// under a synthesized indexed scope name.
type GenForItem struct {
	base
	InitVar  string
	InitExpr Expr
	Cond     Expr
	StepVar  string
	StepExpr Expr
	Body     Item
}

func (*GenForItem) isItem() {}

// PortDecl is one entry of a module's port list header: a name plus,
// for the ANSI header form, an inline direction/type/range.
type PortDecl struct {
	base
	Name      string
	HasHeader bool // true when this entry carries ANSI-style inline decl info
	Dir       Direction2
	NetKind   NetSubType
	IsReg     bool
	Signed    bool
	Range     *RangeSpec
}
