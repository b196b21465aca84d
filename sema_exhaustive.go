package ferrite

import "strings"

// neverSentinelNames is the fixed fallback name set treated as
// never-terminating when no type information is available
// (an extern declaration with no resolved `never` return type, for
// instance).
var neverSentinelNames = map[string]bool{
	"panic": true, "abort": true, "exit": true, "unreachable": true,
}

// IsNeverTerminatingCallee implements the detection rule:
// a callee typed `function(_, never)`, or — as a name-based fallback —
// a symbol matching one of the fixed sentinel names or carrying a
// `_never`/`_panic` suffix. Exported so the code-gen planner's CFG
// builder (gen_never.go) can re-derive the same classification when it
// performs the actual edge-removal transform.
func IsNeverTerminatingCallee(calleeType *TypeDescriptor, calleeName string) bool {
	if calleeType != nil && calleeType.Category == CategoryFunction &&
		calleeType.ReturnType != nil && calleeType.ReturnType.Category == CategoryNever {
		return true
	}
	if neverSentinelNames[calleeName] {
		return true
	}
	return strings.HasSuffix(calleeName, "_never") || strings.HasSuffix(calleeName, "_panic")
}

func (a *Analyzer) isNeverTerminatingCall(call *CallExpr) bool {
	name := ""
	if id, ok := call.Callee.(*IdentExpr); ok {
		name = id.Name
	}
	return IsNeverTerminatingCallee(exprResolvedType(call.Callee), name)
}

// markUnreachable walks a function body and records every statement
// lexically following a never-terminating call within the same
// block. The actual CFG edge removal and branch-hint attachment is
// the code-gen planner's job; this pass only produces the marking the
// planner consumes.
func (a *Analyzer) markUnreachable(b *Block) {
	terminated := false
	for _, s := range b.Stmts {
		if terminated {
			a.unreachable[s] = true
		}
		switch n := s.(type) {
		case *ExprStmt:
			if call, ok := n.X.(*CallExpr); ok && a.isNeverTerminatingCall(call) {
				terminated = true
			}
		case *IfStmt:
			a.markUnreachable(n.Then)
			if n.Else != nil {
				a.walkElse(n.Else)
			}
		case *ForInStmt:
			a.markUnreachable(n.Body)
		case *MatchStmt:
			for _, arm := range n.Arms {
				a.markUnreachable(arm.Body)
			}
		case *Block:
			a.markUnreachable(n)
		}
	}
}

// walkElse recurses into an `else` arm, which is either a plain Block
// or (for an `else if`) another IfStmt whose own Then/Else need the
// same treatment.
func (a *Analyzer) walkElse(s Stmt) {
	switch e := s.(type) {
	case *Block:
		a.markUnreachable(e)
	case *IfStmt:
		a.markUnreachable(e.Then)
		if e.Else != nil {
			a.walkElse(e.Else)
		}
	}
}

// IsUnreachable reports whether a prior analysis pass marked s as
// unreachable (following a never-terminating call earlier in its block).
func (a *Analyzer) IsUnreachable(s Stmt) bool { return a.unreachable[s] }
