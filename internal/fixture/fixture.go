// Package fixture loads a YAML-described parse-tree fixture into a
// ptree.Design. It exists because lexing, preprocessing, and parsing
// are external collaborators (spec §1) that this module does not
// implement: cmd/vlelab needs *some* way to hand the elaborator a
// ptree.Design from the command line, and a flat YAML schema parsed
// with goccy/go-yaml (the same library internal/celllib uses for its
// cell-library documents) is the natural fit, mirroring the teacher's
// own pattern of small YAML/JSON-described test inputs.
//
// The schema favors one flat, Kind-tagged struct per recursive node
// category (Expr, Stmt, Item) over a discriminated set of Go types,
// since goccy/go-yaml has no generic support for unmarshaling directly
// into an interface hierarchy. Build walks the DTO tree and produces
// the corresponding concrete ptree nodes.
package fixture

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/cwbudde/vlelab/internal/ptree"
	"github.com/cwbudde/vlelab/internal/value"
)

// Design is the top-level fixture document.
type Design struct {
	Modules []Module `yaml:"modules"`
	Udps    []Udp    `yaml:"udps,omitempty"`
}

// Module mirrors ptree.Module's fields that a fixture can reasonably
// describe by hand.
type Module struct {
	Name       string     `yaml:"name"`
	Ports      []Port     `yaml:"ports,omitempty"`
	ParamPorts []DeclHead `yaml:"param_ports,omitempty"`
	Items      []Item     `yaml:"items,omitempty"`
	Cell       bool       `yaml:"cell,omitempty"`
}

// Port is one header-list port entry.
type Port struct {
	Name      string `yaml:"name"`
	HasHeader bool   `yaml:"has_header,omitempty"`
	Dir       string `yaml:"dir,omitempty"` // input|output|inout
	NetKind   string `yaml:"net_kind,omitempty"`
	IsReg     bool   `yaml:"is_reg,omitempty"`
	Signed    bool   `yaml:"signed,omitempty"`
	Range     *Range `yaml:"range,omitempty"`
}

// Range is a `[msb:lsb]` pair, each side a constant fixture expression.
type Range struct {
	Msb *Expr `yaml:"msb"`
	Lsb *Expr `yaml:"lsb"`
}

// DeclHead mirrors ptree.DeclHead.
type DeclHead struct {
	Category string      `yaml:"category"` // net|reg|integer|real|time|realtime|parameter|localparam|event|genvar
	NetKind  string       `yaml:"net_kind,omitempty"`
	Signed   bool         `yaml:"signed,omitempty"`
	Range    *Range       `yaml:"range,omitempty"`
	Items    []DeclItem   `yaml:"items"`
}

// DeclItem mirrors ptree.DeclItem.
type DeclItem struct {
	Name string  `yaml:"name"`
	Dims []Range `yaml:"dims,omitempty"`
	Init *Expr   `yaml:"init,omitempty"`
}

// Udp mirrors ptree.UdpDefn.
type Udp struct {
	Name       string      `yaml:"name"`
	OutputName string      `yaml:"output_name"`
	Sequential bool        `yaml:"sequential,omitempty"`
	InitVal    string      `yaml:"init_val,omitempty"` // single char: 0,1,x
	InputNames []string    `yaml:"input_names"`
	Table      []UdpRow    `yaml:"table"`
}

// UdpRow mirrors ptree.UdpTableRow.
type UdpRow struct {
	Inputs string `yaml:"inputs"` // one symbol per input column
	State  string `yaml:"state,omitempty"`
	Output string `yaml:"output"`
}

// Expr is the flat, Kind-tagged fixture expression node.
type Expr struct {
	Kind string `yaml:"kind"`

	// const
	Int    int64   `yaml:"int,omitempty"`
	Real   float64 `yaml:"real,omitempty"`
	Str    string  `yaml:"str,omitempty"`
	Width  int     `yaml:"width,omitempty"`
	Signed bool    `yaml:"signed,omitempty"`
	Bits   string  `yaml:"bits,omitempty"` // MSB-first symbols: 0,1,x,z

	// primary / ident
	Branches []NameBranch `yaml:"branches,omitempty"`
	Name     string       `yaml:"name,omitempty"`
	Indices  []*Expr      `yaml:"indices,omitempty"`
	Select   *Select      `yaml:"select,omitempty"`

	// operator
	Op       string  `yaml:"op,omitempty"`
	Operands []*Expr `yaml:"operands,omitempty"`

	// conditional
	Cond *Expr `yaml:"cond,omitempty"`
	Then *Expr `yaml:"then,omitempty"`
	Else *Expr `yaml:"else,omitempty"`

	// concat / multiconcat
	Count *Expr `yaml:"count,omitempty"`
	Value *Expr `yaml:"value,omitempty"`

	// call
	System bool    `yaml:"system,omitempty"`
	Args   []*Expr `yaml:"args,omitempty"`
}

// NameBranch mirrors ptree.NameBranch.
type NameBranch struct {
	Name  string `yaml:"name"`
	Index *Expr  `yaml:"index,omitempty"`
}

// Select mirrors ptree.Select.
type Select struct {
	Kind  string `yaml:"kind"` // bit|part|plus|minus
	Left  *Expr  `yaml:"left"`
	Right *Expr  `yaml:"right,omitempty"`
}

// Stmt is the flat, Kind-tagged fixture statement node.
type Stmt struct {
	Kind string `yaml:"kind"`

	// assign
	Lhs         *Expr `yaml:"lhs,omitempty"`
	Rhs         *Expr `yaml:"rhs,omitempty"`
	NonBlocking bool  `yaml:"nonblocking,omitempty"`

	// block
	Name string `yaml:"name,omitempty"`
	Fork bool   `yaml:"fork,omitempty"`
	Body []Stmt `yaml:"body,omitempty"`

	// if / while / repeat / wait
	Cond  *Expr `yaml:"cond,omitempty"`
	Then  *Stmt `yaml:"then,omitempty"`
	Else  *Stmt `yaml:"else,omitempty"`
	Count *Expr `yaml:"count,omitempty"`

	// case
	CaseKind string     `yaml:"case_kind,omitempty"` // plain|x|z
	Selector *Expr      `yaml:"selector,omitempty"`
	Items    []CaseItem `yaml:"items,omitempty"`

	// for
	InitVar  string `yaml:"init_var,omitempty"`
	InitExpr *Expr  `yaml:"init_expr,omitempty"`
	StepVar  string `yaml:"step_var,omitempty"`
	StepExpr *Expr  `yaml:"step_expr,omitempty"`

	// disable / task enable
	Target string  `yaml:"target,omitempty"`
	System bool    `yaml:"system,omitempty"`
	Args   []*Expr `yaml:"args,omitempty"`
}

// CaseItem mirrors ptree.CaseItem.
type CaseItem struct {
	Labels  []*Expr `yaml:"labels,omitempty"`
	Default bool    `yaml:"default,omitempty"`
	Body    *Stmt   `yaml:"body"`
}

// Item is the flat, Kind-tagged fixture item node, covering every
// ptree.Item variant a fixture plausibly needs to describe.
type Item struct {
	Kind string `yaml:"kind"`

	// decl
	Decl *DeclHead `yaml:"decl,omitempty"`

	// contassign
	Lhs []*Expr `yaml:"lhs,omitempty"`
	Rhs []*Expr `yaml:"rhs,omitempty"`

	// gate instance
	GateType string     `yaml:"gate_type,omitempty"`
	Gates    []GateInst `yaml:"gates,omitempty"`

	// module instance
	ModuleName string         `yaml:"module_name,omitempty"`
	Params     *ParamAssigns  `yaml:"params,omitempty"`
	Insts      []ModuleInst   `yaml:"insts,omitempty"`

	// defparam
	Assigns []ParamAssignItem `yaml:"assigns,omitempty"`

	// process
	ProcKind string `yaml:"proc_kind,omitempty"` // initial|always
	Body     *Stmt  `yaml:"body,omitempty"`

	// genvar decl
	Names []string `yaml:"names,omitempty"`

	// generate wrapper / genblock
	Items []Item `yaml:"items,omitempty"`

	// genif
	Cond *Expr `yaml:"cond,omitempty"`
	Then *Item `yaml:"then,omitempty"`
	Else *Item `yaml:"else,omitempty"`

	// gencase
	Selector *Expr        `yaml:"selector,omitempty"`
	Arms     []GenCaseArm `yaml:"arms,omitempty"`

	// genfor
	InitVar  string `yaml:"init_var,omitempty"`
	InitExpr *Expr  `yaml:"init_expr,omitempty"`
	StepVar  string `yaml:"step_var,omitempty"`
	StepExpr *Expr  `yaml:"step_expr,omitempty"`

	// task / function
	Name       string     `yaml:"name,omitempty"`
	Automatic  bool       `yaml:"automatic,omitempty"`
	ReturnReal bool       `yaml:"return_real,omitempty"`
	Range      *Range     `yaml:"range,omitempty"`
	IO         []IODecl   `yaml:"io,omitempty"`
	Decls      []Item     `yaml:"decls,omitempty"`
}

// GateInst mirrors ptree.GateInst.
type GateInst struct {
	Name  string  `yaml:"name,omitempty"`
	Range *Range  `yaml:"range,omitempty"`
	Terms []*Expr `yaml:"terms"`
}

// ParamAssigns mirrors ptree.ParamAssignList.
type ParamAssigns struct {
	Named  bool    `yaml:"named,omitempty"`
	Names  []string `yaml:"names,omitempty"`
	Values []*Expr  `yaml:"values"`
}

// PortConn mirrors ptree.PortConn.
type PortConn struct {
	Name  string `yaml:"name,omitempty"`
	Value *Expr  `yaml:"value,omitempty"`
}

// ModuleInst mirrors ptree.ModuleInst.
type ModuleInst struct {
	Name  string     `yaml:"name"`
	Range *Range     `yaml:"range,omitempty"`
	Ports []PortConn `yaml:"ports,omitempty"`
}

// ParamAssignItem mirrors ptree.ParamAssignItem.
type ParamAssignItem struct {
	Target string `yaml:"target"`
	Value  *Expr  `yaml:"value"`
}

// GenCaseArm mirrors ptree.GenCaseArm.
type GenCaseArm struct {
	Labels  []*Expr `yaml:"labels,omitempty"`
	Default bool    `yaml:"default,omitempty"`
	Body    *Item   `yaml:"body"`
}

// IODecl mirrors ptree.IODecl.
type IODecl struct {
	Dir    string `yaml:"dir"` // input|output|inout
	Signed bool   `yaml:"signed,omitempty"`
	Range  *Range `yaml:"range,omitempty"`
	Names  []string `yaml:"names"`
}

// Load parses a YAML fixture document into a ptree.Design.
func Load(data []byte) (*ptree.Design, error) {
	var doc Design
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fixture: parsing design: %w", err)
	}
	return Build(&doc)
}

// Build converts an already-parsed fixture document into a ptree.Design.
func Build(doc *Design) (*ptree.Design, error) {
	design := &ptree.Design{}
	for _, m := range doc.Modules {
		pm, err := buildModule(&m)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", m.Name, err)
		}
		design.Modules = append(design.Modules, pm)
	}
	for _, u := range doc.Udps {
		pu, err := buildUdp(&u)
		if err != nil {
			return nil, fmt.Errorf("udp %q: %w", u.Name, err)
		}
		design.Udps = append(design.Udps, pu)
	}
	return design, nil
}

func buildModule(m *Module) (*ptree.Module, error) {
	pm := &ptree.Module{Name: m.Name, Cell: m.Cell}
	for _, p := range m.Ports {
		pp, err := buildPort(&p)
		if err != nil {
			return nil, err
		}
		pm.Ports = append(pm.Ports, pp)
	}
	for _, pp := range m.ParamPorts {
		dh, err := buildDeclHead(&pp)
		if err != nil {
			return nil, err
		}
		pm.ParamPorts = append(pm.ParamPorts, *dh)
	}
	for _, it := range m.Items {
		pi, err := buildItem(&it)
		if err != nil {
			return nil, err
		}
		pm.Items = append(pm.Items, pi)
	}
	return pm, nil
}

func direction(s string) (ptree.Direction2, error) {
	switch s {
	case "", "input":
		return ptree.DirInput2, nil
	case "output":
		return ptree.DirOutput2, nil
	case "inout":
		return ptree.DirInout2, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

func netKind(s string) (ptree.NetSubType, error) {
	switch s {
	case "", "wire":
		return ptree.NetWire, nil
	case "tri":
		return ptree.NetTri, nil
	case "tri0":
		return ptree.NetTri0, nil
	case "tri1":
		return ptree.NetTri1, nil
	case "wand":
		return ptree.NetWand, nil
	case "wor":
		return ptree.NetWor, nil
	case "triand":
		return ptree.NetTriand, nil
	case "trior":
		return ptree.NetTrior, nil
	case "supply0":
		return ptree.NetSupply0, nil
	case "supply1":
		return ptree.NetSupply1, nil
	case "trireg":
		return ptree.NetTrireg, nil
	default:
		return 0, fmt.Errorf("unknown net kind %q", s)
	}
}

func buildPort(p *Port) (ptree.PortDecl, error) {
	dir, err := direction(p.Dir)
	if err != nil {
		return ptree.PortDecl{}, err
	}
	nk, err := netKind(p.NetKind)
	if err != nil {
		return ptree.PortDecl{}, err
	}
	pd := ptree.PortDecl{Name: p.Name, HasHeader: p.HasHeader, Dir: dir, NetKind: nk, IsReg: p.IsReg, Signed: p.Signed}
	if p.Range != nil {
		r, err := buildRange(p.Range)
		if err != nil {
			return ptree.PortDecl{}, err
		}
		pd.Range = r
	}
	return pd, nil
}

func buildRange(r *Range) (*ptree.RangeSpec, error) {
	if r == nil {
		return nil, nil
	}
	msb, err := buildExpr(r.Msb)
	if err != nil {
		return nil, err
	}
	lsb, err := buildExpr(r.Lsb)
	if err != nil {
		return nil, err
	}
	return &ptree.RangeSpec{Msb: msb, Lsb: lsb}, nil
}

func declCategory(s string) (ptree.DeclCategory, error) {
	switch s {
	case "net":
		return ptree.DeclNet, nil
	case "reg":
		return ptree.DeclReg, nil
	case "integer":
		return ptree.DeclInteger, nil
	case "real":
		return ptree.DeclReal, nil
	case "time":
		return ptree.DeclTime, nil
	case "realtime":
		return ptree.DeclRealtime, nil
	case "parameter":
		return ptree.DeclParameter, nil
	case "localparam":
		return ptree.DeclLocalparam, nil
	case "event":
		return ptree.DeclEvent, nil
	case "genvar":
		return ptree.DeclGenvar, nil
	default:
		return 0, fmt.Errorf("unknown decl category %q", s)
	}
}

func buildDeclHead(d *DeclHead) (*ptree.DeclHead, error) {
	cat, err := declCategory(d.Category)
	if err != nil {
		return nil, err
	}
	nk, err := netKind(d.NetKind)
	if err != nil {
		return nil, err
	}
	dh := &ptree.DeclHead{Category: cat, NetKind: nk, Signed: d.Signed}
	if d.Range != nil {
		r, err := buildRange(d.Range)
		if err != nil {
			return nil, err
		}
		dh.Range = r
	}
	for _, di := range d.Items {
		item, err := buildDeclItem(&di)
		if err != nil {
			return nil, err
		}
		dh.Items = append(dh.Items, item)
	}
	return dh, nil
}

func buildDeclItem(di *DeclItem) (*ptree.DeclItem, error) {
	item := &ptree.DeclItem{Name: di.Name}
	for _, dim := range di.Dims {
		r, err := buildRange(&dim)
		if err != nil {
			return nil, err
		}
		item.Dims = append(item.Dims, *r)
	}
	if di.Init != nil {
		init, err := buildExpr(di.Init)
		if err != nil {
			return nil, err
		}
		item.Init = init
	}
	return item, nil
}

func bitsFromSymbols(s string) []value.Bit {
	bits := make([]value.Bit, len(s))
	for i, c := range s {
		switch c {
		case '0':
			bits[i] = value.B0
		case '1':
			bits[i] = value.B1
		case 'z', 'Z':
			bits[i] = value.BZ
		default:
			bits[i] = value.BX
		}
	}
	return bits
}

func buildExpr(e *Expr) (ptree.Expr, error) {
	if e == nil {
		return nil, nil
	}
	switch e.Kind {
	case "int":
		return &ptree.Constant{Kind: ptree.ConstUnsizedDec, IntVal: e.Int}, nil
	case "real":
		return &ptree.Constant{Kind: ptree.ConstReal, RealVal: e.Real}, nil
	case "str":
		return &ptree.Constant{Kind: ptree.ConstString, StrVal: e.Str}, nil
	case "bin", "oct", "dec", "hex":
		kindMap := map[string]ptree.ConstKind{"bin": ptree.ConstBinary, "oct": ptree.ConstOctal, "dec": ptree.ConstDec, "hex": ptree.ConstHex}
		width := e.Width
		if width == 0 {
			width = len(e.Bits)
		}
		return &ptree.Constant{
			Kind:    kindMap[e.Kind],
			HasSize: true,
			Signed:  e.Signed,
			Bits:    bitsFromSymbols(padBits(e.Bits, width)),
		}, nil
	case "ident", "primary":
		p := &ptree.Primary{Name: e.Name}
		for _, b := range e.Branches {
			idx, err := buildExpr(b.Index)
			if err != nil {
				return nil, err
			}
			p.Branches = append(p.Branches, ptree.NameBranch{Name: b.Name, Index: idx})
		}
		for _, ix := range e.Indices {
			bi, err := buildExpr(ix)
			if err != nil {
				return nil, err
			}
			p.Indices = append(p.Indices, bi)
		}
		if e.Select != nil {
			sel, err := buildSelect(e.Select)
			if err != nil {
				return nil, err
			}
			p.Select = sel
		}
		return p, nil
	case "unary", "binary", "op":
		op, err := operatorKind(e.Op)
		if err != nil {
			return nil, err
		}
		operands, err := buildExprList(e.Operands)
		if err != nil {
			return nil, err
		}
		return &ptree.Operation{Op: op, Operands: operands}, nil
	case "cond":
		cond, err := buildExpr(e.Cond)
		if err != nil {
			return nil, err
		}
		then, err := buildExpr(e.Then)
		if err != nil {
			return nil, err
		}
		els, err := buildExpr(e.Else)
		if err != nil {
			return nil, err
		}
		return &ptree.CondExpr{Cond: cond, Then: then, Else: els}, nil
	case "concat":
		operands, err := buildExprList(e.Operands)
		if err != nil {
			return nil, err
		}
		return &ptree.ConcatExpr{Operands: operands}, nil
	case "multiconcat":
		count, err := buildExpr(e.Count)
		if err != nil {
			return nil, err
		}
		val, err := buildExpr(e.Value)
		if err != nil {
			return nil, err
		}
		return &ptree.MultiConcatExpr{Count: count, Value: val}, nil
	case "call":
		args, err := buildExprList(e.Args)
		if err != nil {
			return nil, err
		}
		return &ptree.FuncCallExpr{Name: e.Name, IsSystem: e.System, Args: args}, nil
	default:
		return nil, fmt.Errorf("unknown expr kind %q", e.Kind)
	}
}

// padBits left-pads/truncates a MSB-first symbol string to width,
// padding with '0' so a fixture author can write e.g. width 8, bits
// "1010" and get the low four bits set.
func padBits(s string, width int) string {
	if len(s) >= width {
		return s[len(s)-width:]
	}
	pad := make([]byte, width-len(s))
	for i := range pad {
		pad[i] = '0'
	}
	return string(pad) + s
}

func buildExprList(in []*Expr) ([]ptree.Expr, error) {
	out := make([]ptree.Expr, 0, len(in))
	for _, e := range in {
		be, err := buildExpr(e)
		if err != nil {
			return nil, err
		}
		out = append(out, be)
	}
	return out, nil
}

func buildSelect(s *Select) (*ptree.Select, error) {
	left, err := buildExpr(s.Left)
	if err != nil {
		return nil, err
	}
	right, err := buildExpr(s.Right)
	if err != nil {
		return nil, err
	}
	var kind ptree.SelectKind
	switch s.Kind {
	case "bit":
		kind = ptree.SelectBit
	case "part":
		kind = ptree.SelectPartConst
	case "plus":
		kind = ptree.SelectPartPlus
	case "minus":
		kind = ptree.SelectPartMinus
	default:
		return nil, fmt.Errorf("unknown select kind %q", s.Kind)
	}
	return &ptree.Select{Kind: kind, Left: left, Right: right}, nil
}

var operatorNames = map[string]ptree.OperatorKind{
	"+u": ptree.OpUnaryPlus, "-u": ptree.OpUnaryMinus, "!": ptree.OpLogicalNot, "~": ptree.OpBitwiseNot,
	"&r": ptree.OpRedAnd, "~&r": ptree.OpRedNand, "|r": ptree.OpRedOr, "~|r": ptree.OpRedNor,
	"^r": ptree.OpRedXor, "~^r": ptree.OpRedXnor,
	"+": ptree.OpAdd, "-": ptree.OpSub, "*": ptree.OpMul, "/": ptree.OpDiv, "%": ptree.OpMod, "**": ptree.OpPower,
	"==": ptree.OpEq, "!=": ptree.OpNeq, "===": ptree.OpCaseEq, "!==": ptree.OpCaseNe,
	"<": ptree.OpLt, "<=": ptree.OpLe, ">": ptree.OpGt, ">=": ptree.OpGe,
	"&&": ptree.OpLogicalAnd, "||": ptree.OpLogicalOr,
	"&": ptree.OpBitwiseAnd, "|": ptree.OpBitwiseOr, "^": ptree.OpBitwiseXor, "^~": ptree.OpBitwiseXnor,
	"<<": ptree.OpShiftLeft, ">>": ptree.OpShiftRight, "<<<": ptree.OpArithShiftLeft, ">>>": ptree.OpArithShiftRight,
}

// hierTarget splits a dotted defparam target ("inst.P" or
// "a.b[2].P") into a Primary with hierarchical branches — the fixture's
// textual stand-in for a real parser's hierarchical-name grammar.
func hierTarget(dotted string) ptree.Primary {
	segs := strings.Split(dotted, ".")
	p := ptree.Primary{Name: segs[len(segs)-1]}
	for _, seg := range segs[:len(segs)-1] {
		p.Branches = append(p.Branches, ptree.NameBranch{Name: seg})
	}
	return p
}

func operatorKind(s string) (ptree.OperatorKind, error) {
	op, ok := operatorNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown operator %q", s)
	}
	return op, nil
}

func buildStmt(s *Stmt) (ptree.Stmt, error) {
	if s == nil {
		return nil, nil
	}
	switch s.Kind {
	case "null":
		return &ptree.NullStmt{}, nil
	case "assign":
		lhs, err := buildExpr(s.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := buildExpr(s.Rhs)
		if err != nil {
			return nil, err
		}
		return &ptree.AssignStmt{Lhs: lhs, Rhs: rhs, NonBlocking: s.NonBlocking}, nil
	case "block":
		body, err := buildStmtList(s.Body)
		if err != nil {
			return nil, err
		}
		return &ptree.BlockStmt{Name: s.Name, Fork: s.Fork, Body: body}, nil
	case "if":
		cond, err := buildExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		then, err := buildStmt(s.Then)
		if err != nil {
			return nil, err
		}
		els, err := buildStmt(s.Else)
		if err != nil {
			return nil, err
		}
		return &ptree.IfStmt{Cond: cond, Then: then, Else: els}, nil
	case "case", "casex", "casez":
		kindMap := map[string]ptree.CaseKind{"case": ptree.CasePlain, "casex": ptree.CaseX, "casez": ptree.CaseZ}
		sel, err := buildExpr(s.Selector)
		if err != nil {
			return nil, err
		}
		cs := &ptree.CaseStmt{Kind: kindMap[s.Kind], Selector: sel}
		for _, it := range s.Items {
			labels, err := buildExprList(it.Labels)
			if err != nil {
				return nil, err
			}
			body, err := buildStmt(it.Body)
			if err != nil {
				return nil, err
			}
			cs.Items = append(cs.Items, ptree.CaseItem{Labels: labels, Default: it.Default, Body: body})
		}
		return cs, nil
	case "while":
		cond, err := buildExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		body, err := buildStmt(s.Then)
		if err != nil {
			return nil, err
		}
		return &ptree.WhileStmt{Cond: cond, Body: body}, nil
	case "repeat":
		count, err := buildExpr(s.Count)
		if err != nil {
			return nil, err
		}
		body, err := buildStmt(s.Then)
		if err != nil {
			return nil, err
		}
		return &ptree.RepeatStmt{Count: count, Body: body}, nil
	case "for":
		initExpr, err := buildExpr(s.InitExpr)
		if err != nil {
			return nil, err
		}
		cond, err := buildExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		stepExpr, err := buildExpr(s.StepExpr)
		if err != nil {
			return nil, err
		}
		body, err := buildStmt(s.Then)
		if err != nil {
			return nil, err
		}
		return &ptree.ForStmt{InitVar: s.InitVar, InitExpr: initExpr, Cond: cond, StepVar: s.StepVar, StepExpr: stepExpr, Body: body}, nil
	case "forever":
		body, err := buildStmt(s.Then)
		if err != nil {
			return nil, err
		}
		return &ptree.ForeverStmt{Body: body}, nil
	case "wait":
		cond, err := buildExpr(s.Cond)
		if err != nil {
			return nil, err
		}
		body, err := buildStmt(s.Then)
		if err != nil {
			return nil, err
		}
		return &ptree.WaitStmt{Cond: cond, Body: body}, nil
	case "trigger":
		target, err := buildExpr(s.Lhs)
		if err != nil {
			return nil, err
		}
		return &ptree.EventTriggerStmt{Target: target}, nil
	case "pca-assign", "pca-deassign", "pca-force", "pca-release":
		kindMap := map[string]ptree.PCAKind{
			"pca-assign": ptree.PCAAssign, "pca-deassign": ptree.PCADeassign,
			"pca-force": ptree.PCAForce, "pca-release": ptree.PCARelease,
		}
		lhs, err := buildExpr(s.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := buildExpr(s.Rhs)
		if err != nil {
			return nil, err
		}
		return &ptree.PCAStmt{Kind: kindMap[s.Kind], Lhs: lhs, Rhs: rhs}, nil
	case "taskenable":
		args, err := buildExprList(s.Args)
		if err != nil {
			return nil, err
		}
		return &ptree.TaskEnableStmt{Name: s.Name, Args: args}, nil
	case "systaskenable":
		args, err := buildExprList(s.Args)
		if err != nil {
			return nil, err
		}
		return &ptree.SysTaskEnableStmt{Name: s.Name, Args: args}, nil
	case "disable":
		return &ptree.DisableStmt{Target: s.Target}, nil
	default:
		return nil, fmt.Errorf("unknown stmt kind %q", s.Kind)
	}
}

func buildStmtList(in []Stmt) ([]ptree.Stmt, error) {
	out := make([]ptree.Stmt, 0, len(in))
	for i := range in {
		bs, err := buildStmt(&in[i])
		if err != nil {
			return nil, err
		}
		out = append(out, bs)
	}
	return out, nil
}

func buildIODecl(io *IODecl) (ptree.IODecl, error) {
	dir, err := direction(io.Dir)
	if err != nil {
		return ptree.IODecl{}, err
	}
	d := ptree.IODecl{Dir: dir, Signed: io.Signed, Names: io.Names}
	if io.Range != nil {
		r, err := buildRange(io.Range)
		if err != nil {
			return ptree.IODecl{}, err
		}
		d.Range = r
	}
	return d, nil
}

func buildItem(it *Item) (ptree.Item, error) {
	switch it.Kind {
	case "decl":
		return buildDeclHead(it.Decl)
	case "contassign":
		lhs, err := buildExprList(it.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := buildExprList(it.Rhs)
		if err != nil {
			return nil, err
		}
		return &ptree.ContAssignItem{Lhs: lhs, Rhs: rhs}, nil
	case "gate":
		gi := &ptree.GateInstanceItem{GateType: ptree.GatePrimType(it.GateType)}
		for _, g := range it.Gates {
			terms, err := buildExprList(g.Terms)
			if err != nil {
				return nil, err
			}
			rng, err := buildRange(g.Range)
			if err != nil {
				return nil, err
			}
			gi.Insts = append(gi.Insts, ptree.GateInst{Name: g.Name, Range: rng, Terms: terms})
		}
		return gi, nil
	case "modinst":
		mi := &ptree.ModuleInstItem{ModuleName: it.ModuleName}
		if it.Params != nil {
			values, err := buildExprList(it.Params.Values)
			if err != nil {
				return nil, err
			}
			mi.Params = &ptree.ParamAssignList{Named: it.Params.Named, Names: it.Params.Names, Values: values}
		}
		for _, inst := range it.Insts {
			rng, err := buildRange(inst.Range)
			if err != nil {
				return nil, err
			}
			pm := ptree.ModuleInst{Name: inst.Name, Range: rng}
			for _, pc := range inst.Ports {
				val, err := buildExpr(pc.Value)
				if err != nil {
					return nil, err
				}
				pm.Ports = append(pm.Ports, ptree.PortConn{Name: pc.Name, Value: val})
			}
			mi.Insts = append(mi.Insts, pm)
		}
		return mi, nil
	case "defparam":
		dp := &ptree.DefparamItem{}
		for _, a := range it.Assigns {
			val, err := buildExpr(a.Value)
			if err != nil {
				return nil, err
			}
			dp.Assigns = append(dp.Assigns, ptree.ParamAssignItem{Target: hierTarget(a.Target), Value: val})
		}
		return dp, nil
	case "process":
		kindMap := map[string]ptree.ProcessKind{"initial": ptree.ProcessInitial, "always": ptree.ProcessAlways}
		body, err := buildStmt(it.Body)
		if err != nil {
			return nil, err
		}
		return &ptree.ProcessItem{Kind: kindMap[it.ProcKind], Body: body}, nil
	case "genvar":
		return &ptree.GenvarDeclItem{Names: it.Names}, nil
	case "generate":
		body, err := buildItemList(it.Items)
		if err != nil {
			return nil, err
		}
		return &ptree.GenerateItem{Body: body}, nil
	case "genblock":
		body, err := buildItemList(it.Items)
		if err != nil {
			return nil, err
		}
		return &ptree.GenBlockItem{Name: it.Name, Body: body}, nil
	case "genif":
		cond, err := buildExpr(it.Cond)
		if err != nil {
			return nil, err
		}
		then, err := buildItem(it.Then)
		if err != nil {
			return nil, err
		}
		var els ptree.Item
		if it.Else != nil {
			els, err = buildItem(it.Else)
			if err != nil {
				return nil, err
			}
		}
		return &ptree.GenIfItem{Cond: cond, Then: then, Else: els}, nil
	case "gencase":
		sel, err := buildExpr(it.Selector)
		if err != nil {
			return nil, err
		}
		gc := &ptree.GenCaseItem{Selector: sel}
		for _, arm := range it.Arms {
			labels, err := buildExprList(arm.Labels)
			if err != nil {
				return nil, err
			}
			body, err := buildItem(arm.Body)
			if err != nil {
				return nil, err
			}
			gc.Arms = append(gc.Arms, ptree.GenCaseArm{Labels: labels, Default: arm.Default, Body: body})
		}
		return gc, nil
	case "genfor":
		initExpr, err := buildExpr(it.InitExpr)
		if err != nil {
			return nil, err
		}
		cond, err := buildExpr(it.Cond)
		if err != nil {
			return nil, err
		}
		stepExpr, err := buildExpr(it.StepExpr)
		if err != nil {
			return nil, err
		}
		body, err := buildItem(it.Then)
		if err != nil {
			return nil, err
		}
		return &ptree.GenForItem{InitVar: it.InitVar, InitExpr: initExpr, Cond: cond, StepVar: it.StepVar, StepExpr: stepExpr, Body: body}, nil
	case "task":
		td := &ptree.TaskDeclItem{Name: it.Name, Automatic: it.Automatic}
		for _, io := range it.IO {
			bio, err := buildIODecl(&io)
			if err != nil {
				return nil, err
			}
			td.IO = append(td.IO, bio)
		}
		decls, err := buildItemList(it.Decls)
		if err != nil {
			return nil, err
		}
		td.Decls = decls
		body, err := buildStmt(it.Body)
		if err != nil {
			return nil, err
		}
		td.Body = body
		return td, nil
	case "function":
		fd := &ptree.FunctionDeclItem{Name: it.Name, Automatic: it.Automatic, ReturnReal: it.ReturnReal}
		if it.Range != nil {
			r, err := buildRange(it.Range)
			if err != nil {
				return nil, err
			}
			fd.Range = r
		}
		for _, io := range it.IO {
			bio, err := buildIODecl(&io)
			if err != nil {
				return nil, err
			}
			fd.IO = append(fd.IO, bio)
		}
		decls, err := buildItemList(it.Decls)
		if err != nil {
			return nil, err
		}
		fd.Decls = decls
		body, err := buildStmt(it.Body)
		if err != nil {
			return nil, err
		}
		fd.Body = body
		return fd, nil
	default:
		return nil, fmt.Errorf("unknown item kind %q", it.Kind)
	}
}

func buildItemList(in []Item) ([]ptree.Item, error) {
	out := make([]ptree.Item, 0, len(in))
	for i := range in {
		bi, err := buildItem(&in[i])
		if err != nil {
			return nil, err
		}
		out = append(out, bi)
	}
	return out, nil
}

func buildUdp(u *Udp) (*ptree.UdpDefn, error) {
	initVal := byte('x')
	if u.InitVal != "" {
		initVal = u.InitVal[0]
	}
	pu := &ptree.UdpDefn{
		Name:       u.Name,
		OutputName: u.OutputName,
		Sequential: u.Sequential,
		InitVal:    initVal,
		InputNames: u.InputNames,
	}
	for _, row := range u.Table {
		state := byte('0')
		if row.State != "" {
			state = row.State[0]
		}
		output := byte('0')
		if row.Output != "" {
			output = row.Output[0]
		}
		pu.Table = append(pu.Table, ptree.UdpTableRow{Inputs: []byte(row.Inputs), State: state, Output: output})
	}
	return pu, nil
}
