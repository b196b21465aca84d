package ferrite

// constVal is a folded compile-time value produced by evalConst.
type constVal struct {
	typ      *TypeDescriptor
	intVal   uint64
	floatVal float64
	boolVal  bool
	strVal   string
	isFloat  bool
}

// evalConst folds literal, identifier-to-const, unary/binary-over-
// constants, and sizeof(Type) expressions. Anything else (a non-const
// operand) reports false — "a const expression with a non-const
// operand is an error".
func (a *Analyzer) evalConst(scope *SymbolTable, e Expr, expected *TypeDescriptor) (constVal, bool) {
	switch n := e.(type) {
	case *IntLiteral:
		a.analyzeIntLiteral(n, expected)
		return constVal{typ: n.ResolvedType, intVal: n.Value}, true
	case *FloatLiteral:
		n.ResolvedType = a.builtins.GetBuiltin("f64")
		n.Flags.IsConstantExpr = true
		return constVal{typ: n.ResolvedType, floatVal: n.Value, isFloat: true}, true
	case *BoolLiteral:
		n.ResolvedType = a.builtins.GetBuiltin("bool")
		n.Flags.IsConstantExpr = true
		return constVal{typ: n.ResolvedType, boolVal: n.Value}, true
	case *StringLiteral:
		a.analyzeStringLiteral(n)
		return constVal{typ: n.ResolvedType, strVal: n.Value}, true
	case *IdentExpr:
		entry, ok := scope.Lookup(n.Name)
		if !ok {
			a.diags.Errorf(CodeUndefinedSymbol, n.Location, "undefined symbol %q", n.Name)
			return constVal{}, false
		}
		if entry.Kind != SymbolConst {
			a.diags.Errorf(CodeInvalidExpression, n.Location, "%q is not a constant expression", n.Name)
			return constVal{}, false
		}
		entry.IsUsed = true
		n.Flags.IsUsed = true
		n.ResolvedType = entry.Type
		n.Flags.IsConstantExpr = true
		cv, ok := a.constVals[n.Name]
		return cv, ok
	case *UnaryExpr:
		operand, ok := a.evalConst(scope, n.Operand, expected)
		if !ok {
			a.diags.Errorf(CodeInvalidExpression, n.Location, "const expression has a non-const operand")
			return constVal{}, false
		}
		result := operand
		switch n.Op {
		case OpNeg:
			if operand.isFloat {
				result.floatVal = -operand.floatVal
			} else {
				result.intVal = uint64(-int64(operand.intVal))
			}
		case OpNot:
			result.boolVal = !operand.boolVal
		default:
			a.diags.Errorf(CodeInvalidOperation, n.Location, "operator not valid in a const expression")
			return constVal{}, false
		}
		n.ResolvedType = operand.typ
		n.Flags.IsConstantExpr = true
		return result, true
	case *BinaryExpr:
		lhs, ok := a.evalConst(scope, n.LHS, expected)
		if !ok {
			a.diags.Errorf(CodeInvalidExpression, n.Location, "const expression has a non-const operand")
			return constVal{}, false
		}
		rhs, ok := a.evalConst(scope, n.RHS, lhs.typ)
		if !ok {
			a.diags.Errorf(CodeInvalidExpression, n.Location, "const expression has a non-const operand")
			return constVal{}, false
		}
		result, ok := foldBinaryConst(n.Op, lhs, rhs)
		if !ok {
			a.diags.Errorf(CodeInvalidOperation, n.Location, "operator not valid in a const expression")
			return constVal{}, false
		}
		n.ResolvedType = result.typ
		n.Flags.IsConstantExpr = true
		return result, true
	case *SizeofExpr:
		ty := a.resolveTypeExpr(n.Operand)
		info := NewTypeInfo(ty)
		n.ResolvedType = a.builtins.GetBuiltin("usize")
		n.Flags.IsConstantExpr = true
		return constVal{typ: n.ResolvedType, intVal: uint64(info.SizeInBytes)}, true
	default:
		return constVal{}, false
	}
}

func foldBinaryConst(op BinaryOp, lhs, rhs constVal) (constVal, bool) {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		if lhs.isFloat || rhs.isFloat {
			var v float64
			switch op {
			case OpAdd:
				v = lhs.floatVal + rhs.floatVal
			case OpSub:
				v = lhs.floatVal - rhs.floatVal
			case OpMul:
				v = lhs.floatVal * rhs.floatVal
			case OpDiv:
				v = lhs.floatVal / rhs.floatVal
			default:
				return constVal{}, false
			}
			return constVal{typ: lhs.typ, floatVal: v, isFloat: true}, true
		}
		var v uint64
		switch op {
		case OpAdd:
			v = lhs.intVal + rhs.intVal
		case OpSub:
			v = lhs.intVal - rhs.intVal
		case OpMul:
			v = lhs.intVal * rhs.intVal
		case OpDiv:
			if rhs.intVal == 0 {
				return constVal{}, false
			}
			v = lhs.intVal / rhs.intVal
		case OpMod:
			if rhs.intVal == 0 {
				return constVal{}, false
			}
			v = lhs.intVal % rhs.intVal
		}
		return constVal{typ: lhs.typ, intVal: v}, true
	case OpEq, OpNeq, OpLt, OpLe, OpGt, OpGe:
		var b bool
		switch op {
		case OpEq:
			b = lhs.intVal == rhs.intVal
		case OpNeq:
			b = lhs.intVal != rhs.intVal
		case OpLt:
			b = lhs.intVal < rhs.intVal
		case OpLe:
			b = lhs.intVal <= rhs.intVal
		case OpGt:
			b = lhs.intVal > rhs.intVal
		case OpGe:
			b = lhs.intVal >= rhs.intVal
		}
		return constVal{typ: lhs.typ, boolVal: b}, true
	case OpAnd:
		return constVal{typ: lhs.typ, boolVal: lhs.boolVal && rhs.boolVal}, true
	case OpOr:
		return constVal{typ: lhs.typ, boolVal: lhs.boolVal || rhs.boolVal}, true
	case OpBitAnd:
		return constVal{typ: lhs.typ, intVal: lhs.intVal & rhs.intVal}, true
	case OpBitOr:
		return constVal{typ: lhs.typ, intVal: lhs.intVal | rhs.intVal}, true
	default:
		return constVal{}, false
	}
}
