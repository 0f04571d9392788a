package elab

import (
	"github.com/cwbudde/vlelab/internal/fileset"
	"github.com/cwbudde/vlelab/internal/ptree"
)

// IODecl is one elaborated input/output/inout argument of a task or
// function.
type IODecl struct {
	Reg    fileset.Region
	Dir    ptree.Direction2
	Decl   *Decl
}

// FunctionDef is an elaborated function definition, registered under
// its parent module for both ordinary calls and constant-function
// lookup (C6). IsConstFn is computed when the function header is
// elaborated with its enclosing scope, from the eligibility predicate
// in passes.IsConstFunction.
type FunctionDef struct {
	Scope      *Scope
	Def        *ptree.FunctionDeclItem
	IO         []IODecl
	OutputDecl *Decl // the function's implicit return-value decl
	ReturnReal bool
	IsConstFn  bool
	inUse      bool // recursion guard for the constant-function interpreter
}

func (f *FunctionDef) FileRegion() fileset.Region { return f.Scope.FileRegion() }
func (f *FunctionDef) Name() string               { return f.Scope.Name() }
func (f *FunctionDef) ParentScope() *Scope         { return f.Scope.ParentScope() }

// Enter marks f as in-use for the duration of a constant-function call,
// returning false (and making no change) if f is already in use —
// i.e. this would be a recursive call.
func (f *FunctionDef) Enter() bool {
	if f.inUse {
		return false
	}
	f.inUse = true
	return true
}

// Leave clears the in-use flag set by Enter.
func (f *FunctionDef) Leave() { f.inUse = false }

// TaskDef is an elaborated task definition.
type TaskDef struct {
	Scope *Scope
	Def   *ptree.TaskDeclItem
	IO    []IODecl
	Body  Stmt
}

func (t *TaskDef) FileRegion() fileset.Region { return t.Scope.FileRegion() }
func (t *TaskDef) Name() string               { return t.Scope.Name() }
func (t *TaskDef) ParentScope() *Scope         { return t.Scope.ParentScope() }
