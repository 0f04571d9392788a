package passes

import "github.com/cwbudde/vlelab/internal/ptree"

// IsConstFunction reports whether def's body contains only statement
// kinds the constant-function interpreter can execute: no forever
// loop, no procedural continuous assignment, no task call, and no
// timing or event control anywhere in the body.
func IsConstFunction(def *ptree.FunctionDeclItem) bool {
	return stmtIsConstEligible(def.Body)
}

func stmtIsConstEligible(s ptree.Stmt) bool {
	switch n := s.(type) {
	case nil:
		return true
	case *ptree.NullStmt, *ptree.AssignStmt, *ptree.DisableStmt:
		return true
	case *ptree.BlockStmt:
		for _, st := range n.Body {
			if !stmtIsConstEligible(st) {
				return false
			}
		}
		return true
	case *ptree.IfStmt:
		if !stmtIsConstEligible(n.Then) {
			return false
		}
		return stmtIsConstEligible(n.Else)
	case *ptree.CaseStmt:
		for _, item := range n.Items {
			if !stmtIsConstEligible(item.Body) {
				return false
			}
		}
		return true
	case *ptree.WhileStmt:
		return stmtIsConstEligible(n.Body)
	case *ptree.RepeatStmt:
		return stmtIsConstEligible(n.Body)
	case *ptree.ForStmt:
		return stmtIsConstEligible(n.Body)
	case *ptree.ForeverStmt, *ptree.PCAStmt, *ptree.TaskEnableStmt, *ptree.SysTaskEnableStmt,
		*ptree.EventTriggerStmt, *ptree.TimingControlStmt, *ptree.WaitStmt:
		return false
	default:
		return false
	}
}
