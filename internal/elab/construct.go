package elab

import (
	"github.com/cwbudde/vlelab/internal/fileset"
	"github.com/cwbudde/vlelab/internal/ptree"
	"github.com/cwbudde/vlelab/internal/value"
)

// This file collects the exported constructors an external scheduler
// (internal/elab/passes) needs to build Expr/Stmt nodes: both families
// embed an unexported base (exprBase/stmtBase) to keep FileRegion/
// ValType/isExpr/isStmt from being satisfied by accident, so a package
// outside elab cannot spell a composite literal for them directly.

// NewConstExpr allocates a folded literal expression node.
func NewConstExpr(reg fileset.Region, typ ValueType, src *ptree.Constant, folded value.Value) *ConstExpr {
	return &ConstExpr{exprBase: exprBase{Reg: reg, Typ: typ}, Source: src, Folded: folded}
}

// NewPrimaryExpr allocates a (possibly indexed) reference expression.
func NewPrimaryExpr(reg fileset.Region, typ ValueType, target RefTarget, dyn []Expr) *PrimaryExpr {
	return &PrimaryExpr{exprBase: exprBase{Reg: reg, Typ: typ}, Target: target, DynIndices: dyn}
}

// NewBitSelectExpr allocates a `base[index]` expression.
func NewBitSelectExpr(reg fileset.Region, typ ValueType, base, index Expr) *BitSelectExpr {
	return &BitSelectExpr{exprBase: exprBase{Reg: reg, Typ: typ}, Base: base, Index: index}
}

// NewPartSelectExpr allocates a `base[hi:lo]` expression, already
// lowered to a concrete range.
func NewPartSelectExpr(reg fileset.Region, typ ValueType, base Expr, hi, lo int) *PartSelectExpr {
	return &PartSelectExpr{exprBase: exprBase{Reg: reg, Typ: typ}, Base: base, Hi: hi, Lo: lo}
}

// NewOperationExpr allocates a unary/binary operator application.
func NewOperationExpr(reg fileset.Region, typ ValueType, op ptree.OperatorKind, operands []Expr) *OperationExpr {
	return &OperationExpr{exprBase: exprBase{Reg: reg, Typ: typ}, Op: op, Operands: operands}
}

// NewCondExpr allocates a `cond ? then : else` expression.
func NewCondExpr(reg fileset.Region, typ ValueType, cond, then, els Expr) *CondExpr {
	return &CondExpr{exprBase: exprBase{Reg: reg, Typ: typ}, Cond: cond, Then: then, Else: els}
}

// NewConcatExpr allocates a `{e0, e1, ...}` expression.
func NewConcatExpr(reg fileset.Region, typ ValueType, operands []Expr) *ConcatExpr {
	return &ConcatExpr{exprBase: exprBase{Reg: reg, Typ: typ}, Operands: operands}
}

// NewMultiConcatExpr allocates a `{count{value}}` expression.
func NewMultiConcatExpr(reg fileset.Region, typ ValueType, count int, val Expr) *MultiConcatExpr {
	return &MultiConcatExpr{exprBase: exprBase{Reg: reg, Typ: typ}, Count: count, Value: val}
}

// NewFuncCallExpr allocates a resolved user constant-function call.
func NewFuncCallExpr(reg fileset.Region, typ ValueType, fn *FunctionDef, args []Expr) *FuncCallExpr {
	return &FuncCallExpr{exprBase: exprBase{Reg: reg, Typ: typ}, Func: fn, Args: args}
}

// NewSysFuncCallExpr allocates a `$name(...)` system function call.
func NewSysFuncCallExpr(reg fileset.Region, typ ValueType, name string, args []Expr) *SysFuncCallExpr {
	return &SysFuncCallExpr{exprBase: exprBase{Reg: reg, Typ: typ}, Name: name, Args: args}
}

// NewNullStmt allocates a `;` statement.
func NewNullStmt(reg fileset.Region) *NullStmt {
	return &NullStmt{stmtBase{Reg: reg}}
}

// NewAssignStmt allocates a blocking/non-blocking procedural assignment.
func NewAssignStmt(reg fileset.Region, lhs, rhs Expr, nonBlocking bool) *AssignStmt {
	return &AssignStmt{stmtBase: stmtBase{Reg: reg}, Lhs: lhs, Rhs: rhs, NonBlocking: nonBlocking}
}

// NewBlockStmt allocates a `begin...end`/`fork...join` statement.
func NewBlockStmt(reg fileset.Region, scope *Scope, fork bool, body []Stmt) *BlockStmt {
	return &BlockStmt{stmtBase: stmtBase{Reg: reg}, Scope: scope, Fork: fork, Body: body}
}

// NewIfStmt allocates an `if (cond) then [else else_]` statement.
func NewIfStmt(reg fileset.Region, cond Expr, then, els Stmt) *IfStmt {
	return &IfStmt{stmtBase: stmtBase{Reg: reg}, Cond: cond, Then: then, Else: els}
}

// NewCaseStmt allocates a `case/casex/casez` statement.
func NewCaseStmt(reg fileset.Region, kind ptree.CaseKind, sel Expr, items []CaseItem) *CaseStmt {
	return &CaseStmt{stmtBase: stmtBase{Reg: reg}, Kind: kind, Selector: sel, Items: items}
}

// NewWhileStmt allocates a `while (cond) body` statement.
func NewWhileStmt(reg fileset.Region, cond Expr, body Stmt) *WhileStmt {
	return &WhileStmt{stmtBase: stmtBase{Reg: reg}, Cond: cond, Body: body}
}

// NewRepeatStmt allocates a `repeat (count) body` statement.
func NewRepeatStmt(reg fileset.Region, count Expr, body Stmt) *RepeatStmt {
	return &RepeatStmt{stmtBase: stmtBase{Reg: reg}, Count: count, Body: body}
}

// NewForStmt allocates a `for (init; cond; step) body` statement.
func NewForStmt(reg fileset.Region, initVar *Decl, initExpr, cond Expr, stepVar *Decl, stepExpr Expr, body Stmt) *ForStmt {
	return &ForStmt{stmtBase: stmtBase{Reg: reg}, InitVar: initVar, InitExpr: initExpr, Cond: cond, StepVar: stepVar, StepExpr: stepExpr, Body: body}
}

// NewForeverStmt allocates a `forever body` statement.
func NewForeverStmt(reg fileset.Region, body Stmt) *ForeverStmt {
	return &ForeverStmt{stmtBase: stmtBase{Reg: reg}, Body: body}
}

// NewWaitStmt allocates a `wait (cond) body` statement.
func NewWaitStmt(reg fileset.Region, cond Expr, body Stmt) *WaitStmt {
	return &WaitStmt{stmtBase: stmtBase{Reg: reg}, Cond: cond, Body: body}
}

// NewEventTriggerStmt allocates a `-> event;` statement.
func NewEventTriggerStmt(reg fileset.Region, target Expr) *EventTriggerStmt {
	return &EventTriggerStmt{stmtBase: stmtBase{Reg: reg}, Target: target}
}

// NewTimingControlStmt allocates a standalone `#delay;`/`@(...) body`.
func NewTimingControlStmt(reg fileset.Region, delay Expr, events []EventSpec, body Stmt) *TimingControlStmt {
	return &TimingControlStmt{stmtBase: stmtBase{Reg: reg}, Delay: delay, Events: events, Body: body}
}

// NewPCAStmt allocates a procedural continuous assignment statement.
func NewPCAStmt(reg fileset.Region, kind ptree.PCAKind, lhs, rhs Expr) *PCAStmt {
	return &PCAStmt{stmtBase: stmtBase{Reg: reg}, Kind: kind, Lhs: lhs, Rhs: rhs}
}

// NewTaskEnableStmt allocates a user-task-call statement.
func NewTaskEnableStmt(reg fileset.Region, task *TaskDef, args []Expr) *TaskEnableStmt {
	return &TaskEnableStmt{stmtBase: stmtBase{Reg: reg}, Task: task, Args: args}
}

// NewSysTaskEnableStmt allocates a `$name(...)` system task call.
func NewSysTaskEnableStmt(reg fileset.Region, name string, args []Expr) *SysTaskEnableStmt {
	return &SysTaskEnableStmt{stmtBase: stmtBase{Reg: reg}, Name: name, Args: args}
}

// NewDisableStmt allocates a `disable target;` statement.
func NewDisableStmt(reg fileset.Region, targetScope *Scope, targetTask *TaskDef) *DisableStmt {
	return &DisableStmt{stmtBase: stmtBase{Reg: reg}, TargetScope: targetScope, TargetTask: targetTask}
}
