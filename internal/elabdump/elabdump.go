// Package elabdump renders an elaborated design (an *elab.Manager
// after Elaborate has run) as a JSON document, built incrementally
// with tidwall/sjson path-set calls rather than a mirror-struct
// marshaled with encoding/json. Each scope contributes its tag-indexed
// enumerations (C3's ByTag) as a JSON array at a stable path, so the
// resulting document can be walked with tidwall/gjson — the backing
// store for cmd/vlelab's `dump` and `query` subcommands.
package elabdump

import (
	"fmt"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/cwbudde/vlelab/internal/elab"
	"github.com/cwbudde/vlelab/internal/ptree"
)

// Dump renders the whole elaborated design rooted at mgr.Top.
func Dump(mgr *elab.Manager) (string, error) {
	doc := "{}"
	var err error

	names := make([]string, 0, len(mgr.TopModuleList()))
	for _, m := range mgr.TopModuleList() {
		names = append(names, m.Name())
	}
	if doc, err = sjson.Set(doc, "topModules", names); err != nil {
		return "", err
	}

	udpNames := make([]string, 0, len(mgr.UdpList()))
	for _, u := range mgr.UdpList() {
		udpNames = append(udpNames, u.Name())
	}
	if doc, err = sjson.Set(doc, "udps", udpNames); err != nil {
		return "", err
	}

	doc, err = dumpScope(doc, "scope", mgr, mgr.Top)
	if err != nil {
		return "", err
	}
	return doc, nil
}

func dumpScope(doc, base string, mgr *elab.Manager, s *elab.Scope) (string, error) {
	var err error
	set := func(path string, v any) {
		if err != nil {
			return
		}
		doc, err = sjson.Set(doc, path, v)
	}

	set(base+".name", s.Name())
	set(base+".fullName", s.FullName())
	set(base+".kind", s.Kind.String())
	if err != nil {
		return "", err
	}

	for _, group := range []struct {
		tag  elab.Tag
		path string
	}{
		{elab.TagNets, "nets"},
		{elab.TagRegs, "regs"},
		{elab.TagVariables, "variables"},
		{elab.TagSpecparams, "specparams"},
		{elab.TagNamedEvents, "namedEvents"},
	} {
		for _, d := range mgr.ListDecls(s, group.tag) {
			set(base+"."+group.path+".-1", declJSON(d))
		}
		for _, a := range mgr.ListDeclArrays(s, group.tag) {
			set(base+"."+group.path+"Arrays.-1", declArrayJSON(a))
		}
		if err != nil {
			return "", err
		}
	}

	for _, p := range paramsOf(mgr, s) {
		set(base+".parameters.-1", map[string]any{
			"name":         p.Name(),
			"value":        p.Value.String(),
			"localparam":   p.IsLocalparam,
			"overridden":   p.Overridden,
		})
	}

	for _, dp := range mgr.ListDefparams(s) {
		set(base+".defparams.-1", map[string]any{
			"target": dp.TargetName,
			"owner":  dp.Owner.FullName(),
		})
	}
	for _, pa := range mgr.ListParamAssigns(s) {
		set(base+".paramAssigns.-1", map[string]any{
			"target": pa.Target.Name(),
			"value":  pa.Value.String(),
		})
	}

	for _, t := range mgr.ListTasks(s) {
		set(base+".tasks.-1", map[string]any{"name": t.Name(), "ioCount": len(t.IO)})
	}
	for _, f := range mgr.ListFunctions(s) {
		set(base+".functions.-1", map[string]any{
			"name":      f.Name(),
			"ioCount":   len(f.IO),
			"isConstFn": f.IsConstFn,
		})
	}

	for _, ca := range mgr.ListContinuousAssigns(s) {
		set(base+".continuousAssigns.-1", map[string]any{
			"lhs": RenderExpr(ca.Lhs),
			"rhs": RenderExpr(ca.Rhs),
		})
	}
	for _, p := range mgr.ListProcesses(s) {
		kind := "initial"
		if p.Kind == elab.ProcessAlways {
			kind = "always"
		}
		set(base+".processes.-1", map[string]any{"kind": kind, "body": RenderStmt(p.Body)})
	}

	for _, pr := range mgr.ListPrimitives(s) {
		set(base+".primitives.-1", primitiveJSON(pr))
	}
	for _, pa := range mgr.ListPrimitiveArrays(s) {
		elems := make([]any, 0, len(pa.Elems))
		for _, p := range pa.Elems {
			elems = append(elems, primitiveJSON(p))
		}
		set(base+".primitiveArrays.-1", map[string]any{
			"name": pa.Name(), "left": pa.Left, "right": pa.Right, "elems": elems,
		})
	}
	if err != nil {
		return "", err
	}

	for i, m := range mgr.ListModules(s) {
		modBase := fmt.Sprintf("%s.modules.%d", base, i)
		set(modBase+".defName", m.DefName)
		set(modBase+".isTop", m.IsTop)
		if err != nil {
			return "", err
		}
		doc, err = dumpScope(doc, modBase+".scope", mgr, m.Scope)
		if err != nil {
			return "", err
		}
	}

	for i, ma := range mgr.ListModuleArrays(s) {
		arrBase := fmt.Sprintf("%s.moduleArrays.%d", base, i)
		set(arrBase+".name", ma.Name())
		set(arrBase+".left", ma.Left)
		set(arrBase+".right", ma.Right)
		if err != nil {
			return "", err
		}
		for j, elem := range ma.Elems {
			elemBase := fmt.Sprintf("%s.elems.%d", arrBase, j)
			set(elemBase+".index", elem.ArrayIndex)
			if err != nil {
				return "", err
			}
			doc, err = dumpScope(doc, elemBase+".scope", mgr, elem.Scope)
			if err != nil {
				return "", err
			}
		}
	}

	for _, internal := range mgr.ListInternalScopes(s) {
		doc, err = dumpScope(doc, base+".internalScopes.-1", mgr, internal)
		if err != nil {
			return "", err
		}
	}

	return doc, nil
}

// paramsOf walks the parameters tag bucket, which is keyed by
// *elab.Parameter rather than *elab.Decl, via a small typed
// reflection-free helper local to this package (ObjDict.ByTag returns
// []any; Manager has no ListParameters, so this reimplements the same
// typedList filter the Manager uses internally).
func paramsOf(mgr *elab.Manager, s *elab.Scope) []*elab.Parameter {
	raw := mgr.Objs.ByTag(s, elab.TagParameters)
	out := make([]*elab.Parameter, 0, len(raw))
	for _, item := range raw {
		if p, ok := item.(*elab.Parameter); ok {
			out = append(out, p)
		}
	}
	return out
}

func declJSON(d *elab.Decl) map[string]any {
	return map[string]any{
		"name":   d.Name(),
		"width":  d.Head.Width(),
		"signed": d.Head.Signed,
	}
}

func declArrayJSON(a *elab.DeclArray) map[string]any {
	return map[string]any{
		"name":        a.Name(),
		"width":       a.Head.Width(),
		"totalElems":  a.TotalElems(),
	}
}

func primitiveJSON(p *elab.Primitive) map[string]any {
	terms := make([]string, 0, len(p.Terms))
	for _, t := range p.Terms {
		terms = append(terms, RenderExpr(t))
	}
	class := "gate"
	switch p.Head.Class {
	case elab.PrimClassUdp:
		class = "udp"
	case elab.PrimClassCell:
		class = "cell"
	}
	return map[string]any{
		"name":  p.Name(),
		"class": class,
		"terms": terms,
	}
}

// RenderExpr renders an elaborated expression as a compact Verilog-like
// textual form, used by the JSON dump and by diagnostics-adjacent
// debug output.
func RenderExpr(e elab.Expr) string {
	if e == nil {
		return ""
	}
	switch x := e.(type) {
	case *elab.ConstExpr:
		return x.Folded.String()
	case *elab.PrimaryExpr:
		return renderRefTarget(x.Target, x.DynIndices)
	case *elab.BitSelectExpr:
		return fmt.Sprintf("%s[%s]", RenderExpr(x.Base), RenderExpr(x.Index))
	case *elab.PartSelectExpr:
		return fmt.Sprintf("%s[%d:%d]", RenderExpr(x.Base), x.Hi, x.Lo)
	case *elab.OperationExpr:
		return renderOperation(x)
	case *elab.CondExpr:
		return fmt.Sprintf("(%s ? %s : %s)", RenderExpr(x.Cond), RenderExpr(x.Then), RenderExpr(x.Else))
	case *elab.ConcatExpr:
		parts := make([]string, 0, len(x.Operands))
		for _, o := range x.Operands {
			parts = append(parts, RenderExpr(o))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *elab.MultiConcatExpr:
		return fmt.Sprintf("{%d{%s}}", x.Count, RenderExpr(x.Value))
	case *elab.FuncCallExpr:
		return fmt.Sprintf("%s(%s)", x.Func.Name(), renderExprList(x.Args))
	case *elab.SysFuncCallExpr:
		return fmt.Sprintf("%s(%s)", x.Name, renderExprList(x.Args))
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func renderExprList(args []elab.Expr) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, RenderExpr(a))
	}
	return strings.Join(parts, ", ")
}

func renderRefTarget(t elab.RefTarget, dyn []elab.Expr) string {
	switch {
	case t.Decl != nil:
		return t.Decl.Name()
	case t.Parameter != nil:
		return t.Parameter.Name()
	case t.Scope != nil:
		return t.Scope.Name()
	case t.DeclArray != nil:
		if len(dyn) > 0 {
			return fmt.Sprintf("%s[%s]", t.DeclArray.Name(), renderExprList(dyn))
		}
		return fmt.Sprintf("%s[%d]", t.DeclArray.Name(), t.DeclElem)
	default:
		return "<unresolved>"
	}
}

var operatorSymbols = map[ptree.OperatorKind]string{
	ptree.OpUnaryPlus: "+", ptree.OpUnaryMinus: "-", ptree.OpLogicalNot: "!", ptree.OpBitwiseNot: "~",
	ptree.OpRedAnd: "&", ptree.OpRedNand: "~&", ptree.OpRedOr: "|", ptree.OpRedNor: "~|",
	ptree.OpRedXor: "^", ptree.OpRedXnor: "~^",
	ptree.OpAdd: "+", ptree.OpSub: "-", ptree.OpMul: "*", ptree.OpDiv: "/", ptree.OpMod: "%", ptree.OpPower: "**",
	ptree.OpEq: "==", ptree.OpNeq: "!=", ptree.OpCaseEq: "===", ptree.OpCaseNe: "!==",
	ptree.OpLt: "<", ptree.OpLe: "<=", ptree.OpGt: ">", ptree.OpGe: ">=",
	ptree.OpLogicalAnd: "&&", ptree.OpLogicalOr: "||",
	ptree.OpBitwiseAnd: "&", ptree.OpBitwiseOr: "|", ptree.OpBitwiseXor: "^", ptree.OpBitwiseXnor: "^~",
	ptree.OpShiftLeft: "<<", ptree.OpShiftRight: ">>", ptree.OpArithShiftLeft: "<<<", ptree.OpArithShiftRight: ">>>",
}

func renderOperation(x *elab.OperationExpr) string {
	sym := operatorSymbols[x.Op]
	if len(x.Operands) == 1 {
		return fmt.Sprintf("(%s%s)", sym, RenderExpr(x.Operands[0]))
	}
	if len(x.Operands) == 2 {
		return fmt.Sprintf("(%s %s %s)", RenderExpr(x.Operands[0]), sym, RenderExpr(x.Operands[1]))
	}
	return fmt.Sprintf("<op %s>", sym)
}

// RenderStmt renders an elaborated statement as a compact one-line
// summary (not a full pretty-printer — enough to make a JSON dump of a
// process body legible).
func RenderStmt(s elab.Stmt) string {
	if s == nil {
		return ""
	}
	switch x := s.(type) {
	case *elab.NullStmt:
		return ";"
	case *elab.AssignStmt:
		op := "="
		if x.NonBlocking {
			op = "<="
		}
		return fmt.Sprintf("%s %s %s;", RenderExpr(x.Lhs), op, RenderExpr(x.Rhs))
	case *elab.BlockStmt:
		parts := make([]string, 0, len(x.Body))
		for _, st := range x.Body {
			parts = append(parts, RenderStmt(st))
		}
		kw := "begin"
		if x.Fork {
			kw = "fork"
		}
		return kw + " " + strings.Join(parts, " ") + " end"
	case *elab.IfStmt:
		if x.Else != nil {
			return fmt.Sprintf("if (%s) %s else %s", RenderExpr(x.Cond), RenderStmt(x.Then), RenderStmt(x.Else))
		}
		return fmt.Sprintf("if (%s) %s", RenderExpr(x.Cond), RenderStmt(x.Then))
	case *elab.CaseStmt:
		return fmt.Sprintf("case (%s) ... endcase", RenderExpr(x.Selector))
	case *elab.WhileStmt:
		return fmt.Sprintf("while (%s) %s", RenderExpr(x.Cond), RenderStmt(x.Body))
	case *elab.RepeatStmt:
		return fmt.Sprintf("repeat (%s) %s", RenderExpr(x.Count), RenderStmt(x.Body))
	case *elab.ForStmt:
		return fmt.Sprintf("for (...) %s", RenderStmt(x.Body))
	case *elab.ForeverStmt:
		return fmt.Sprintf("forever %s", RenderStmt(x.Body))
	case *elab.WaitStmt:
		return fmt.Sprintf("wait (%s) %s", RenderExpr(x.Cond), RenderStmt(x.Body))
	case *elab.EventTriggerStmt:
		return fmt.Sprintf("-> %s;", RenderExpr(x.Target))
	case *elab.TimingControlStmt:
		return fmt.Sprintf("#/@ %s", RenderStmt(x.Body))
	case *elab.PCAStmt:
		return fmt.Sprintf("pca %s = %s;", RenderExpr(x.Lhs), RenderExpr(x.Rhs))
	case *elab.TaskEnableStmt:
		return fmt.Sprintf("%s(%s);", x.Task.Name(), renderExprList(x.Args))
	case *elab.SysTaskEnableStmt:
		return fmt.Sprintf("%s(%s);", x.Name, renderExprList(x.Args))
	case *elab.DisableStmt:
		if x.TargetTask != nil {
			return fmt.Sprintf("disable %s;", x.TargetTask.Name())
		}
		if x.TargetScope != nil {
			return fmt.Sprintf("disable %s;", x.TargetScope.Name())
		}
		return "disable;"
	default:
		return fmt.Sprintf("<%T>", s)
	}
}
