package elab

import (
	"github.com/cwbudde/vlelab/internal/fileset"
	"github.com/cwbudde/vlelab/internal/ptree"
)

// Stmt is any elaborated statement node.
type Stmt interface {
	HasFileRegion
	isStmt()
}

type stmtBase struct {
	Reg fileset.Region
}

func (s stmtBase) FileRegion() fileset.Region { return s.Reg }
func (stmtBase) isStmt()                      {}

// NullStmt is `;`.
type NullStmt struct{ stmtBase }

// AssignStmt is a blocking or non-blocking procedural assignment.
type AssignStmt struct {
	stmtBase
	Lhs         Expr
	Rhs         Expr
	NonBlocking bool
}

// BlockStmt is `begin...end` or `fork...join`. Named blocks own a
// Scope; unnamed blocks carry Scope == nil.
type BlockStmt struct {
	stmtBase
	Scope *Scope // nil for an unnamed block
	Fork  bool
	Body  []Stmt
}

// IfStmt is `if (cond) then [else else_]`.
type IfStmt struct {
	stmtBase
	Cond Expr
	Then Stmt
	Else Stmt
}

// CaseItem is one arm of a case/casex/casez statement.
type CaseItem struct {
	Labels  []Expr
	Default bool
	Body    Stmt
}

// CaseStmt is `case/casex/casez (selector) items endcase`.
type CaseStmt struct {
	stmtBase
	Kind     ptree.CaseKind
	Selector Expr
	Items    []CaseItem
}

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	stmtBase
	Cond Expr
	Body Stmt
}

// RepeatStmt is `repeat (count) body`.
type RepeatStmt struct {
	stmtBase
	Count Expr
	Body  Stmt
}

// ForStmt is `for (init; cond; step) body`. InitVar/StepVar reference
// decls resolved in the enclosing scope.
type ForStmt struct {
	stmtBase
	InitVar  *Decl
	InitExpr Expr
	Cond     Expr
	StepVar  *Decl
	StepExpr Expr
	Body     Stmt
}

// ForeverStmt is `forever body`.
type ForeverStmt struct {
	stmtBase
	Body Stmt
}

// WaitStmt is `wait (cond) body`.
type WaitStmt struct {
	stmtBase
	Cond Expr
	Body Stmt
}

// EventTriggerStmt is `-> event;`.
type EventTriggerStmt struct {
	stmtBase
	Target Expr
}

// EventSpec is one `edge expr` term of an event-control list.
type EventSpec struct {
	Edge ptree.EdgeKind
	Expr Expr
}

// TimingControlStmt wraps a standalone `#delay;`/`@(...) body`.
type TimingControlStmt struct {
	stmtBase
	Delay  Expr
	Events []EventSpec
	Body   Stmt
}

// PCAStmt is `assign/deassign/force/release lhs [= rhs];`.
type PCAStmt struct {
	stmtBase
	Kind ptree.PCAKind
	Lhs  Expr
	Rhs  Expr
}

// TaskEnableStmt invokes a user task.
type TaskEnableStmt struct {
	stmtBase
	Task *TaskDef
	Args []Expr
}

// SysTaskEnableStmt invokes a `$name(...)` system task.
type SysTaskEnableStmt struct {
	stmtBase
	Name string
	Args []Expr
}

// DisableStmt is `disable target;`, where Target names a task or a
// named block/fork scope.
type DisableStmt struct {
	stmtBase
	TargetScope *Scope
	TargetTask  *TaskDef
}
