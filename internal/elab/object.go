// Package elab holds the elaborated object model (the typed graph
// produced by the phase scheduler) together with the object
// dictionary, module-definition dictionary, expression evaluator,
// constant-function interpreter, attribute index, and manager façade
// built on top of it.
//
// Every concrete node is allocated once, during elaboration, into an
// append-only arena owned by a Manager and is never freed before the
// whole graph is discarded. Parent-of and next-of back-references are
// ordinary Go pointers into that arena, treated as weak by convention:
// nothing walks them to decide lifetime, and nothing mutates them once
// a node's defining phase has completed.
package elab

import "github.com/cwbudde/vlelab/internal/fileset"

// HasFileRegion is implemented by every elaborated object.
type HasFileRegion interface {
	FileRegion() fileset.Region
}

// IsNamedObject is implemented by every object storable under a simple
// name in a scope: it reports that name and the scope that owns it.
type IsNamedObject interface {
	HasFileRegion
	Name() string
	ParentScope() *Scope
}

// Evaluable is implemented by expression nodes that can be folded by
// the compile-time evaluator.
type Evaluable interface {
	HasFileRegion
	isExpr()
}

// IsLhs is implemented by expression nodes legal on the left side of an
// assignment: Primary, BitSelect, PartSelect, and Concat.
type IsLhs interface {
	Evaluable
	isLhs()
}

// ScopeKind classifies the lexical role of a Scope.
type ScopeKind int

const (
	ScopeTop ScopeKind = iota
	ScopeModule
	ScopeGenerateBlock
	ScopeGenerateForBlock
	ScopeNamedBegin
	ScopeNamedFork
	ScopeFunction
	ScopeTask
	ScopeInternal
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeTop:
		return "top"
	case ScopeModule:
		return "module"
	case ScopeGenerateBlock:
		return "generate-block"
	case ScopeGenerateForBlock:
		return "generate-for-block"
	case ScopeNamedBegin:
		return "named-begin"
	case ScopeNamedFork:
		return "named-fork"
	case ScopeFunction:
		return "function"
	case ScopeTask:
		return "task"
	default:
		return "internal"
	}
}

// Scope is a lexical container: a name, a parent (nil only for the
// single top-level scope), and a lexical kind. Scope does not itself
// hold a member index — that lives in the object dictionary (ObjDict),
// keyed by the Scope pointer.
type Scope struct {
	Reg    fileset.Region
	Kind   ScopeKind
	name   string
	parent *Scope
}

// NewScope allocates a scope under parent (nil for the top scope).
func NewScope(kind ScopeKind, name string, parent *Scope, reg fileset.Region) *Scope {
	return &Scope{Reg: reg, Kind: kind, name: name, parent: parent}
}

func (s *Scope) FileRegion() fileset.Region { return s.Reg }
func (s *Scope) Name() string               { return s.name }
func (s *Scope) ParentScope() *Scope         { return s.parent }

// FullName renders the hierarchical dotted path from the top scope to
// s, e.g. "top.chip.core0.alu".
func (s *Scope) FullName() string {
	if s == nil {
		return ""
	}
	if s.parent == nil {
		return s.name
	}
	parentName := s.parent.FullName()
	if parentName == "" {
		return s.name
	}
	return parentName + "." + s.name
}
