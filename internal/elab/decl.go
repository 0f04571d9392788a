package elab

import (
	"github.com/cwbudde/vlelab/internal/fileset"
	"github.com/cwbudde/vlelab/internal/ptree"
	"github.com/cwbudde/vlelab/internal/value"
)

// DeclCategory mirrors ptree.DeclCategory but is resolved: every
// elaborated decl carries exactly one of these.
type DeclCategory = ptree.DeclCategory

// Endian records whether a decl's packed range counts down (little,
// the common `[msb:0]` form) or up (big, `[0:msb]`).
type Endian int

const (
	EndianLittle Endian = iota // msb > lsb
	EndianBig                  // msb < lsb
)

// DeclHead bundles the attributes shared by a group of decl items that
// were declared together (`wire [7:0] a, b;` produces one DeclHead with
// two Decl items).
type DeclHead struct {
	Reg      fileset.Region
	Category DeclCategory
	NetKind  ptree.NetSubType
	Signed   bool
	HasRange bool
	Msb      int
	Lsb      int
	Endian   Endian
	Drive    *ptree.DriveStrength
	Charge   ptree.ChargeStrength
	Parent   *Scope
}

func (h *DeclHead) FileRegion() fileset.Region { return h.Reg }

// Width returns the packed vector width, or 1 for a scalar decl.
func (h *DeclHead) Width() int {
	if !h.HasRange {
		return 1
	}
	if h.Msb >= h.Lsb {
		return h.Msb - h.Lsb + 1
	}
	return h.Lsb - h.Msb + 1
}

// BitOffset implements the declaration's endian-aware bit-offset rule:
// |idx-lsb| for little-endian, |msb-idx| for big-endian. ok is false
// when idx falls outside [min(msb,lsb), max(msb,lsb)].
func (h *DeclHead) BitOffset(idx int) (offset int, ok bool) {
	lo, hi := h.Lsb, h.Msb
	if lo > hi {
		lo, hi = hi, lo
	}
	if idx < lo || idx > hi {
		return 0, false
	}
	if h.Endian == EndianLittle {
		return abs(idx - h.Lsb), true
	}
	return abs(h.Msb - idx), true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Decl is one elaborated declaration: a net, reg, integer/real/time
// variable, named event, parameter, or specparam. Arrayed decls are
// represented separately by DeclArray.
type Decl struct {
	Head  *DeclHead
	Reg   fileset.Region
	name  string
	scope *Scope
}

func (d *Decl) FileRegion() fileset.Region { return d.Reg }
func (d *Decl) Name() string               { return d.name }
func (d *Decl) ParentScope() *Scope        { return d.scope }

// NewDecl allocates a Decl under head, registered in scope.
func NewDecl(head *DeclHead, name string, scope *Scope, reg fileset.Region) *Decl {
	return &Decl{Head: head, Reg: reg, name: name, scope: scope}
}

// DeclArray is a decl with one or more unpacked array dimensions.
type DeclArray struct {
	Head  *DeclHead
	Reg   fileset.Region
	name  string
	scope *Scope
	Dims  []ArrayDim // outermost first
}

// ArrayDim is one unpacked-array dimension's bounds.
type ArrayDim struct {
	Left  int
	Right int
}

// Size returns the number of elements spanned by dim.
func (d ArrayDim) Size() int {
	if d.Left >= d.Right {
		return d.Left - d.Right + 1
	}
	return d.Right - d.Left + 1
}

func (a *DeclArray) FileRegion() fileset.Region { return a.Reg }
func (a *DeclArray) Name() string               { return a.name }
func (a *DeclArray) ParentScope() *Scope         { return a.scope }

// NewDeclArray allocates a DeclArray under head, registered in scope.
func NewDeclArray(head *DeclHead, name string, scope *Scope, dims []ArrayDim, reg fileset.Region) *DeclArray {
	return &DeclArray{Head: head, Reg: reg, name: name, scope: scope, Dims: dims}
}

// TotalElems returns the flattened element count across all dims.
func (a *DeclArray) TotalElems() int {
	n := 1
	for _, d := range a.Dims {
		n *= d.Size()
	}
	return n
}

// FlatOffset computes a row-major flat index from per-dimension
// indices, or ok=false if the index count does not match a.Dims or any
// index is out of its dimension's bounds.
func (a *DeclArray) FlatOffset(indices []int) (offset int, ok bool) {
	if len(indices) != len(a.Dims) {
		return 0, false
	}
	for i, dim := range a.Dims {
		lo, hi := dim.Left, dim.Right
		if lo > hi {
			lo, hi = hi, lo
		}
		if indices[i] < lo || indices[i] > hi {
			return 0, false
		}
	}
	stride := 1
	for i := len(a.Dims) - 1; i >= 0; i-- {
		dim := a.Dims[i]
		local := indices[i] - dim.Right
		if dim.Left < dim.Right {
			local = indices[i] - dim.Left
		}
		if local < 0 {
			local = -local
		}
		offset += local * stride
		stride *= dim.Size()
	}
	return offset, true
}

// Parameter is a decl whose value is computed by the expression
// evaluator from its right-hand-side parse expression. A localparam
// additionally rejects defparam overrides.
type Parameter struct {
	Decl        *Decl
	Value       value.Value
	IsLocalparam bool
	Overridden  bool // set once a defparam or instantiation override wrote Value
}

func (p *Parameter) FileRegion() fileset.Region { return p.Decl.FileRegion() }
func (p *Parameter) Name() string               { return p.Decl.Name() }
func (p *Parameter) ParentScope() *Scope         { return p.Decl.ParentScope() }
