package elab

import (
	"github.com/cwbudde/vlelab/internal/fileset"
	"github.com/cwbudde/vlelab/internal/ptree"
	"github.com/cwbudde/vlelab/internal/value"
)

// ContAssign is one elaborated `assign lhs = rhs;` continuous
// assignment. Lhs is instantiated in an LHS environment (phase 3).
type ContAssign struct {
	Reg fileset.Region
	Lhs Expr
	Rhs Expr
}

func (c *ContAssign) FileRegion() fileset.Region { return c.Reg }

// ParamAssign is one resolved `defparam target = value;` entry after
// its stub has successfully found its target parameter. Value is the
// already-folded override value (folded against the defparam's own
// owning scope, not the target's — the two may have different visible
// parameters).
type ParamAssign struct {
	Reg    fileset.Region
	Target *Parameter
	Value  value.Value
}

func (p *ParamAssign) FileRegion() fileset.Region { return p.Reg }

// Defparam is a still-pending (unresolved) defparam stub, queued in
// phase 1 and retried at each defparam-fixpoint iteration.
type Defparam struct {
	Reg        fileset.Region
	Owner      *Scope   // module scope the defparam item appeared in
	HierPath   []HierSegment // hierarchical prefix segments up to the target parameter
	TargetName string
	ValueExpr  ptree.Expr
}

func (d *Defparam) FileRegion() fileset.Region { return d.Reg }

// ProcessKind distinguishes initial from always.
type ProcessKind int

const (
	ProcessInitial ProcessKind = iota
	ProcessAlways
)

// Process is one elaborated `initial`/`always` statement.
type Process struct {
	Reg  fileset.Region
	Kind ProcessKind
	Body Stmt
}

func (p *Process) FileRegion() fileset.Region { return p.Reg }

// Genvar is an integer-valued compile-time-only loop variable. Value
// holds whatever iteration value the generate-for expansion currently
// has it bound to; expansion runs one iteration at a time, so a single
// mutable field is enough — there is never more than one live binding.
type Genvar struct {
	Reg   fileset.Region
	name  string
	scope *Scope
	Value int
}

func (g *Genvar) FileRegion() fileset.Region { return g.Reg }
func (g *Genvar) Name() string               { return g.name }
func (g *Genvar) ParentScope() *Scope         { return g.scope }

// NewGenvar allocates a Genvar, registered in scope.
func NewGenvar(name string, scope *Scope, reg fileset.Region) *Genvar {
	return &Genvar{Reg: reg, name: name, scope: scope}
}

// GenerateForRoot is the named object registered for a `generate for`
// loop so that `g[i]` can be looked up by index after elaboration. Its
// Elems are the per-iteration generate-for-block scopes, each tagged
// with the genvar value that produced it.
type GenerateForRoot struct {
	Reg   fileset.Region
	name  string
	scope *Scope
	Elems []*GenForElem
}

func (r *GenerateForRoot) FileRegion() fileset.Region { return r.Reg }
func (r *GenerateForRoot) Name() string               { return r.name }
func (r *GenerateForRoot) ParentScope() *Scope         { return r.scope }

// NewGenerateForRoot allocates an (initially empty) generate-for root,
// registered in scope. Callers append to Elems as each iteration runs.
func NewGenerateForRoot(name string, scope *Scope, reg fileset.Region) *GenerateForRoot {
	return &GenerateForRoot{Reg: reg, name: name, scope: scope}
}

// Elem returns the per-iteration scope tagged with the given genvar
// value, or nil if no iteration produced that value.
func (r *GenerateForRoot) Elem(genvarValue int) *Scope {
	for _, e := range r.Elems {
		if e.Index == genvarValue {
			return e.Scope
		}
	}
	return nil
}

// GenForElem is one generate-for iteration's scope, tagged with the
// genvar value that produced it.
type GenForElem struct {
	Index int
	Scope *Scope
}

// UdpDefn is an elaborated user-defined-primitive definition: its
// output/input names and compiled truth table, carried through
// verbatim from the parse tree once registered during seeding.
type UdpDefn struct {
	Reg        fileset.Region
	name       string
	Sequential bool
	InitVal    byte
	InputNames []string
	OutputName string
	Table      []UdpTableRow
}

func (u *UdpDefn) FileRegion() fileset.Region { return u.Reg }
func (u *UdpDefn) Name() string               { return u.name }

// NewUdpDefn allocates an elaborated UDP definition from its validated
// seeding-time components.
func NewUdpDefn(name string, reg fileset.Region, sequential bool, initVal byte, inputNames []string, outputName string, table []UdpTableRow) *UdpDefn {
	return &UdpDefn{Reg: reg, name: name, Sequential: sequential, InitVal: initVal, InputNames: inputNames, OutputName: outputName, Table: table}
}

// UdpTableRow mirrors ptree.UdpTableRow after validation.
type UdpTableRow struct {
	Inputs []byte
	State  byte
	Output byte
}
