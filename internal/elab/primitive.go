package elab

import (
	"strings"

	"github.com/cwbudde/vlelab/internal/celllib"
	"github.com/cwbudde/vlelab/internal/fileset"
	"github.com/cwbudde/vlelab/internal/ptree"
)

// PrimClass classifies what a PrimHead instantiates.
type PrimClass int

const (
	PrimClassGate PrimClass = iota
	PrimClassUdp
	PrimClassCell
)

// PrimHead carries the attributes shared by a group of primitive
// instances declared together.
type PrimHead struct {
	Reg      fileset.Region
	Class    PrimClass
	GateType ptree.GatePrimType // valid when Class == PrimClassGate
	UdpDef   *UdpDefn           // valid when Class == PrimClassUdp
	Cell     *celllib.Cell      // valid when Class == PrimClassCell
	Drive    *ptree.DriveStrength
}

func (h *PrimHead) FileRegion() fileset.Region { return h.Reg }

// TermDir is one primitive terminal's computed direction.
type TermDir int

const (
	TermOutput TermDir = iota
	TermInout
	TermInput
)

// Primitive is one elaborated gate/UDP/cell instance.
type Primitive struct {
	Head   *PrimHead
	Reg    fileset.Region
	name   string
	scope  *Scope
	Terms  []Expr
	Dirs   []TermDir // parallel to Terms
}

func (p *Primitive) FileRegion() fileset.Region { return p.Reg }
func (p *Primitive) Name() string               { return p.name }
func (p *Primitive) ParentScope() *Scope         { return p.scope }

// NewPrimitive allocates a Primitive under head, registered in scope.
func NewPrimitive(head *PrimHead, name string, scope *Scope, reg fileset.Region) *Primitive {
	return &Primitive{Head: head, Reg: reg, name: name, scope: scope}
}

// PrimArray is an indexed range of sibling primitive instances sharing
// one PrimHead, the primitive analogue of ModuleArray.
type PrimArray struct {
	Reg   fileset.Region
	name  string
	scope *Scope
	Left  int
	Right int
	Elems []*Primitive
}

func (a *PrimArray) FileRegion() fileset.Region { return a.Reg }
func (a *PrimArray) Name() string               { return a.name }
func (a *PrimArray) ParentScope() *Scope         { return a.scope }

func (a *PrimArray) N() int {
	if a.Left >= a.Right {
		return a.Left - a.Right + 1
	}
	return a.Right - a.Left + 1
}

// NewPrimArray allocates a primitive array of size |left-right|+1;
// callers populate Elems as each child primitive is instantiated.
func NewPrimArray(name string, scope *Scope, left, right int, reg fileset.Region) *PrimArray {
	a := &PrimArray{Reg: reg, name: name, scope: scope, Left: left, Right: right}
	a.Elems = make([]*Primitive, 0, a.N())
	return a
}

// isNotGate reports whether gateType is one of the inverting/
// non-inverting gates with one or more outputs driven by a single final
// input (not, buf).
func isNotGate(t ptree.GatePrimType) bool {
	return t == "not" || t == "buf"
}

func isNAryLogic(t ptree.GatePrimType) bool {
	switch t {
	case "and", "nand", "or", "nor", "xor", "xnor":
		return true
	}
	return false
}

func isTristate(t ptree.GatePrimType) bool {
	switch t {
	case "bufif0", "bufif1", "notif0", "notif1":
		return true
	}
	return false
}

func isSwitch(t ptree.GatePrimType) bool {
	switch t {
	case "pmos", "nmos", "rpmos", "rnmos", "cmos", "rcmos", "tran", "rtran", "tranif0", "tranif1", "rtranif0", "rtranif1":
		return true
	}
	return false
}

// SplitTerms computes (nOut, nInout, nIn) for a primitive class with N
// total terminals, in the lexical order output, inout, input. Library
// cells instead take their per-pin directions from the cell's pin
// list — callers must not call SplitTerms for PrimClassCell.
func SplitTerms(gateType ptree.GatePrimType, n int) (nOut, nInout, nIn int) {
	switch {
	case gateType == "not" || gateType == "buf":
		// buf/not: one or more outputs driven by a single final input.
		if n < 2 {
			return 0, 0, n
		}
		return n - 1, 0, 1
	case isNAryLogic(gateType):
		// and/or/xor family: exactly one output, the rest inputs.
		if n < 1 {
			return 0, 0, 0
		}
		return 1, 0, n - 1
	case isTristate(gateType):
		// bufif/notif: output, data-in, enable.
		return 1, 0, n - 1
	case strings.HasPrefix(string(gateType), "pull"):
		// pullup/pulldown: every terminal is an output, no inputs.
		return n, 0, 0
	case isSwitch(gateType):
		switch gateType {
		case "tran", "rtran":
			return 0, n, 0
		case "tranif0", "tranif1", "rtranif0", "rtranif1":
			return 0, 2, 1
		default: // pmos/nmos/rpmos/rnmos/cmos/rcmos
			return 1, 0, n-1
		}
	default:
		return 1, 0, n-1
	}
}

// ExpandDirs expands the (nOut, nInout, nIn) triple into a per-terminal
// direction slice in lexical order: outputs, then inouts, then inputs.
func ExpandDirs(nOut, nInout, nIn int) []TermDir {
	dirs := make([]TermDir, 0, nOut+nInout+nIn)
	for i := 0; i < nOut; i++ {
		dirs = append(dirs, TermOutput)
	}
	for i := 0; i < nInout; i++ {
		dirs = append(dirs, TermInout)
	}
	for i := 0; i < nIn; i++ {
		dirs = append(dirs, TermInput)
	}
	return dirs
}

// Drive1 computes the strength-1 drive of this primitive class. Drive0
// computes the strength-0 drive. IEEE-1364 treats the two as entirely
// independent per-terminal strengths, so they are kept as separate,
// non-forwarding computations here.
func (h *PrimHead) Drive1() string {
	if h.Drive != nil && h.Drive.Strength1 != "" {
		return h.Drive.Strength1
	}
	return "strong1"
}

func (h *PrimHead) Drive0() string {
	if h.Drive != nil && h.Drive.Strength0 != "" {
		return h.Drive.Strength0
	}
	return "strong0"
}
