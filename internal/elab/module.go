package elab

import (
	"github.com/cwbudde/vlelab/internal/fileset"
	"github.com/cwbudde/vlelab/internal/ptree"
)

// UnconnectedDrive is the module-level policy for unconnected tri-state
// inputs: pull1, pull0, or the default (none specified).
type UnconnectedDrive int

const (
	UnconnectedDriveNone UnconnectedDrive = iota
	UnconnectedDrivePull0
	UnconnectedDrivePull1
)

// NetType is the module-level default net type, copied from the
// module definition's `default_nettype`. Elaboration does not create
// implicit nets: an undeclared identifier is reported as NameNotFound
// whatever this value is.
type NetType int

const (
	NetTypeWire NetType = iota
	NetTypeTri
	NetTypeNone
)

// Module is an elaborated instance of a module template: a scope plus
// definition metadata. Two sibling instances of the same template are
// two distinct *Module values sharing only their DefName and the
// ptree.Module they were built from.
type Module struct {
	Scope *Scope

	DefName         string
	Def             *ptree.Module
	TimeUnit        ptree.TimeUnit
	DefaultNetType  NetType
	UnconnDrive     UnconnectedDrive
	DefaultDelay    int // decay time in default-delay-mode units; 0 when unset
	ConfigTag       string
	LibraryTag      string
	CellTag         bool
	IsTop           bool
	ParentArray     *ModuleArray // nil unless this instance is an element of a module-array
	ArrayIndex      int          // valid only when ParentArray != nil

	Ports []*Port // in port-list declaration order
}

func (m *Module) FileRegion() fileset.Region { return m.Scope.FileRegion() }
func (m *Module) Name() string               { return m.Scope.Name() }
func (m *Module) ParentScope() *Scope         { return m.Scope.ParentScope() }

// ModuleArray is a named object holding an indexed range of sibling
// module instances sharing one template. It is a named object but,
// unlike Module, not itself a scope — lookups descend through it via
// Elem.
type ModuleArray struct {
	Reg      fileset.Region
	name     string
	scope    *Scope
	Left     int
	Right    int
	Elems    []*Module // in index order Left..Right inclusive, regardless of direction
}

func (a *ModuleArray) FileRegion() fileset.Region { return a.Reg }
func (a *ModuleArray) Name() string               { return a.name }
func (a *ModuleArray) ParentScope() *Scope         { return a.scope }

// N returns |Left-Right|+1, the element count.
func (a *ModuleArray) N() int {
	if a.Left >= a.Right {
		return a.Left - a.Right + 1
	}
	return a.Right - a.Left + 1
}

// Elem returns the element at the given declared index, or nil if out
// of range.
func (a *ModuleArray) Elem(index int) *Module {
	for _, m := range a.Elems {
		if m.ArrayIndex == index {
			return m
		}
	}
	return nil
}

// NewModuleArray allocates an array of size |left-right|+1; callers
// populate Elems as each child module is instantiated.
func NewModuleArray(name string, scope *Scope, left, right int, reg fileset.Region) *ModuleArray {
	a := &ModuleArray{Reg: reg, name: name, scope: scope, Left: left, Right: right}
	a.Elems = make([]*Module, 0, a.N())
	return a
}

// PortDirection is a module port's signal direction.
type PortDirection = ptree.Direction2

// Port is one entry of a module's port list: an index, an optional
// external name, an internal low-conn expression, an optional external
// high-conn expression, a direction, and a binding-style flag. High-conn
// is connected later (phase 3) than low-conn (phase 1/2).
type Port struct {
	Reg        fileset.Region
	Module     *Module
	Index      int
	ExtName    string // "" for an unnamed (purely positional) port
	Dir        PortDirection
	LowConn    Expr // internal-side expression; set when the port is instantiated
	HighConn   Expr // external-side expression; set in phase 3
	ByName     bool // true if this instance connection used .name(...) binding
}

func (p *Port) FileRegion() fileset.Region { return p.Reg }
