package elab

import (
	"github.com/cwbudde/vlelab/internal/fileset"
	"github.com/cwbudde/vlelab/internal/ptree"
	"github.com/cwbudde/vlelab/internal/value"
)

// ValueType is an expression node's derived (bottom-up) or required
// (top-down, pushed by context) type: real, or a signed/unsigned vector
// of a given width.
type ValueType struct {
	IsReal bool
	Width  int
	Signed bool
}

// Expr is any elaborated expression node.
type Expr interface {
	HasFileRegion
	ValType() ValueType
	isExpr()
}

type exprBase struct {
	Reg fileset.Region
	Typ ValueType
}

func (e exprBase) FileRegion() fileset.Region { return e.Reg }
func (e exprBase) ValType() ValueType         { return e.Typ }
func (exprBase) isExpr()                      {}

// ConstExpr is a literal constant, already folded to a ValueType and a
// concrete bit pattern by the evaluator at instantiation time. Source
// is nil for a value synthesized during elaboration itself (e.g. a
// resolved defparam override) rather than copied from a literal in the
// parse tree.
type ConstExpr struct {
	exprBase
	Source *ptree.Constant
	Folded value.Value
}

// RefTarget is whatever a PrimaryExpr resolves to: exactly one of these
// fields is non-nil, mirroring the discriminated handle union in C3.
type RefTarget struct {
	Decl      *Decl
	DeclArray *DeclArray
	DeclElem  int // valid flat offset into DeclArray when DeclArray != nil and index is constant
	Parameter *Parameter
	Scope     *Scope
}

// PrimaryExpr is a (possibly indexed) reference to a declaration,
// parameter, decl-array element, or scope, with the dynamic-index
// expressions kept (rather than folded) when not every index was
// constant.
type PrimaryExpr struct {
	exprBase
	Target     RefTarget
	DynIndices []Expr // non-empty only for a "dynamic array primary"
}

func (*PrimaryExpr) isLhs() {}

// BitSelectExpr is `base[index]` where index may itself be non-constant.
type BitSelectExpr struct {
	exprBase
	Base  Expr
	Index Expr
}

func (*BitSelectExpr) isLhs() {}

// PartSelectExpr is `base[a:b]`, `base[b+:w]`, or `base[b-:w]`, already
// lowered to a concrete [Hi:Lo] range when constant.
type PartSelectExpr struct {
	exprBase
	Base Expr
	Hi   int
	Lo   int
}

func (*PartSelectExpr) isLhs() {}

// OperationExpr is a unary or binary operator application.
type OperationExpr struct {
	exprBase
	Op       ptree.OperatorKind
	Operands []Expr
}

// CondExpr is `cond ? then : else`.
type CondExpr struct {
	exprBase
	Cond, Then, Else Expr
}

// ConcatExpr is `{e0, e1, ...}`. Also used as an LHS concat target.
type ConcatExpr struct {
	exprBase
	Operands []Expr
}

func (*ConcatExpr) isLhs() {}

// MultiConcatExpr is `{count{value}}`.
type MultiConcatExpr struct {
	exprBase
	Count int
	Value Expr
}

// FuncCallExpr is a call to a user-defined constant function, resolved
// against the function's elaborated definition.
type FuncCallExpr struct {
	exprBase
	Func *FunctionDef
	Args []Expr
}

// SysFuncCallExpr is a `$name(...)` system function call.
type SysFuncCallExpr struct {
	exprBase
	Name string
	Args []Expr
}

var (
	_ IsLhs = (*PrimaryExpr)(nil)
	_ IsLhs = (*BitSelectExpr)(nil)
	_ IsLhs = (*PartSelectExpr)(nil)
	_ IsLhs = (*ConcatExpr)(nil)
)
