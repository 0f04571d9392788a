package ptree

// TimeUnit holds a `` `timescale unit/precision `` directive's two
// exponents, expressed as powers of ten (e.g. 1ns is -9).
type TimeUnit struct {
	UnitExp      int
	PrecisionExp int
	HasValue     bool
}

// DefaultNetKind is the module-level `` `default_nettype `` directive in
// effect while this module was parsed: the net type synthesized for an
// implicit net reference, or DefaultNetNone to disable implicit nets
// entirely (an undeclared identifier is then a NameNotFound error).
type DefaultNetKind int

const (
	DefaultNetWire DefaultNetKind = iota
	DefaultNetTri
	DefaultNetNone
)

// Module is one `module name(ports); items endmodule` definition.
type Module struct {
	base
	Attributed
	Name       string
	Ports      []PortDecl
	ParamPorts []DeclHead // `#(parameter ...)` header parameters, in source order
	Items      []Item
	Cell       bool // true when declared `macromodule`/tagged as a library cell
	Time       TimeUnit
	DefaultNet DefaultNetKind
}

func (*Module) isItem() {}

// UdpTableRow is one row of a UDP's state table: one input/current-state
// symbol per input column (plus, for sequential UDPs, the current-state
// column) and one output symbol.
type UdpTableRow struct {
	Inputs []byte // table symbols: '0','1','x','?','b','-','*','p','n', etc.
	State  byte   // 0 for combinational UDPs
	Output byte
}

// UdpDefn is a `primitive name(ports); ... endprimitive` user-defined
// primitive definition.
type UdpDefn struct {
	base
	Attributed
	Name        string
	OutputName  string
	Sequential  bool
	InitVal     byte // initial state for sequential UDPs; 'x' when unspecified
	InputNames  []string
	Table       []UdpTableRow
}

func (*UdpDefn) isItem() {}

// Design is the top-level container handed to the elaborator: every
// module and UDP definition visible to it, keyed by name at the call
// site rather than here (Design itself is just the flat list the
// elaborator indexes once at startup).
type Design struct {
	Modules []*Module
	Udps    []*UdpDefn
}
