package ferrite

// Analyzer is the semantic pass: identifier resolution, literal
// analysis, const folding, FFI annotation validation, ownership
// validation, and never-type reachability marking. It never aborts —
// every failure is accumulated as a Diagnostic and analysis continues
// wherever recovery preserves meaning, the same policy the parser follows.
type Analyzer struct {
	cfg      *Config
	diags    *Diagnostics
	builtins *builtinTable
	global   *SymbolTable

	// name -> declared type, populated by the first (hoisting) pass so
	// forward references between top-level declarations resolve.
	types map[string]*TypeDescriptor

	// name -> folded value, populated as each const declaration is
	// analyzed so later consts can reference earlier ones.
	constVals map[string]constVal

	// statements following a never-terminating call, for the code-gen
	// planner's DCE pass.
	unreachable map[Stmt]bool
}

// NewAnalyzer creates an analyzer primed with the builtin type table
// and an empty global scope.
func NewAnalyzer(cfg *Config) *Analyzer {
	return &Analyzer{
		cfg:         cfg,
		diags:       &Diagnostics{},
		builtins:    newBuiltinTable(),
		global:      NewSymbolTable(nil),
		types:       make(map[string]*TypeDescriptor),
		constVals:   make(map[string]constVal),
		unreachable: make(map[Stmt]bool),
	}
}

// Analyze runs the full pipeline over prog and returns the
// accumulated diagnostics. The AST's ResolvedType/Flags fields are
// filled in place.
func (a *Analyzer) Analyze(prog *Program) *Diagnostics {
	a.hoistDecls(prog)
	for _, d := range prog.Decls {
		a.analyzeDecl(a.global, d)
	}
	return a.diags
}

// hoistDecls registers every top-level name before any body is
// analyzed, so mutual/forward references between functions, structs,
// enums, and consts resolve regardless of source order.
func (a *Analyzer) hoistDecls(prog *Program) {
	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *StructDecl:
			td := &TypeDescriptor{Category: CategoryStruct, Name: n.Name, Fields: NewSymbolTable(nil)}
			a.types[n.Name] = td
			a.global.Insert(&SymbolEntry{Name: n.Name, Kind: SymbolStruct, Type: td, Location: n.Location})
		case *EnumDecl:
			td := &TypeDescriptor{Category: CategoryEnum, Name: n.Name}
			a.types[n.Name] = td
			a.global.Insert(&SymbolEntry{Name: n.Name, Kind: SymbolEnum, Type: td, Location: n.Location})
		case *FuncDecl:
			a.global.Insert(&SymbolEntry{Name: n.Name, Kind: SymbolFunc, Location: n.Location})
		case *ConstDecl:
			a.global.Insert(&SymbolEntry{Name: n.Name, Kind: SymbolConst, Location: n.Location})
		}
	}
	// Second hoist sub-pass: fill in struct fields/enum variants now that
	// every type name is registered, so a field of type `Foo` resolves
	// even if `Foo` is declared later in the file.
	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *StructDecl:
			td := a.types[n.Name]
			for _, f := range n.Fields {
				ft := a.resolveTypeExpr(f.Type)
				td.Fields.Insert(&SymbolEntry{Name: f.Name, Kind: SymbolField, Type: ft, Location: f.Location})
			}
		case *EnumDecl:
			td := a.types[n.Name]
			for _, v := range n.Variants {
				var payload *TypeDescriptor
				if v.Payload != nil {
					payload = a.resolveTypeExpr(v.Payload)
				}
				td.Variants = append(td.Variants, EnumVariant{Name: v.Name, Payload: payload})
			}
		}
	}
}

// resolveTypeExpr turns a parsed TypeExpr into a TypeDescriptor,
// consulting the builtin table first and the hoisted user-type table
// second.
func (a *Analyzer) resolveTypeExpr(t TypeExpr) *TypeDescriptor {
	switch n := t.(type) {
	case nil:
		return nil
	case *NamedType:
		if td := a.builtins.GetBuiltin(n.Name); td != nil {
			return td
		}
		if td, ok := a.types[n.Name]; ok {
			return td.Retain()
		}
		a.diags.Errorf(CodeUndefinedSymbol, n.Location, "undefined type %q", n.Name)
		return nil
	case *PointerType:
		mut := Immutable
		if n.Mut {
			mut = Mutable
		}
		return &TypeDescriptor{Category: CategoryPointer, Elem: a.resolveTypeExpr(n.Elem), ElemMutable: mut}
	case *SliceType:
		mut := Immutable
		if n.Mut {
			mut = Mutable
		}
		return &TypeDescriptor{Category: CategorySlice, Elem: a.resolveTypeExpr(n.Elem), ElemMutable: mut}
	case *FunctionType:
		fd := &TypeDescriptor{Category: CategoryFunction}
		for _, p := range n.Params {
			fd.Params = append(fd.Params, a.resolveTypeExpr(p))
		}
		if n.Ret != nil {
			fd.ReturnType = a.resolveTypeExpr(n.Ret)
		} else {
			fd.ReturnType = a.builtins.GetBuiltin("void")
		}
		return fd
	default:
		return nil
	}
}

func (a *Analyzer) analyzeDecl(scope *SymbolTable, d Decl) {
	switch n := d.(type) {
	case *FuncDecl:
		a.analyzeFuncDecl(scope, n)
	case *StructDecl:
		a.analyzeAnnotatedFields(n)
	case *EnumDecl:
		// variant types already resolved during hoisting; nothing
		// further to check at the declaration level itself.
	case *ConstDecl:
		a.analyzeConstDecl(scope, n)
	}
}

func (a *Analyzer) analyzeFuncDecl(parent *SymbolTable, fd *FuncDecl) {
	a.validateFFIAnnotations(fd.Annotations, fd.Location, false)

	scope := NewSymbolTable(parent)
	var paramTypes []*TypeDescriptor
	for _, p := range fd.Params {
		a.validateFFIAnnotations(p.Annotations, p.Location, true)
		pt := a.resolveTypeExpr(p.Type)
		paramTypes = append(paramTypes, pt)
		p.ResolvedType = pt
		scope.Insert(&SymbolEntry{Name: p.Name, Kind: SymbolParam, Type: pt, Location: p.Location})
		ctx := ExtractOwnershipContext(p.Annotations, p.Location)
		p.Ownership = &ctx
	}

	var retType *TypeDescriptor
	if fd.ReturnType != nil {
		retType = a.resolveTypeExpr(fd.ReturnType)
	} else {
		retType = a.builtins.GetBuiltin("void")
	}
	fd.ResolvedType = &TypeDescriptor{Category: CategoryFunction, Params: paramTypes, ReturnType: retType}
	if entry, ok := a.global.LookupLocal(fd.Name); ok {
		entry.Type = fd.ResolvedType
	}

	if fd.Body != nil {
		a.analyzeBlock(scope, fd.Body, retType)
		a.markUnreachable(fd.Body)
	}
}

func (a *Analyzer) analyzeAnnotatedFields(sd *StructDecl) {
	ctx := ExtractOwnershipContext(sd.Annotations, sd.Location)
	if _, explicit := FindOwnership(sd.Annotations); !explicit {
		ctx.Zone = ZoneGC // an unannotated struct is traced, not stack-scoped
	}
	sd.Ownership = &ctx
	a.validateStructZones(sd)
}

func (a *Analyzer) analyzeConstDecl(scope *SymbolTable, cd *ConstDecl) {
	var declType *TypeDescriptor
	if cd.Type != nil {
		declType = a.resolveTypeExpr(cd.Type)
	}
	val, ok := a.evalConst(scope, cd.Value, declType)
	if !ok {
		a.diags.Errorf(CodeInvalidExpression, cd.Location, "const declaration %q requires a constant initializer", cd.Name)
	}
	if declType == nil {
		declType = val.typ
	}
	cd.ResolvedType = declType
	cd.Flags.IsConstantExpr = ok
	if e, found := a.global.LookupLocal(cd.Name); found {
		e.Type = declType
	}
	if ok {
		val.typ = declType
		a.constVals[cd.Name] = val
	}
}

func (a *Analyzer) analyzeBlock(scope *SymbolTable, b *Block, fnReturnType *TypeDescriptor) {
	local := NewSymbolTable(scope)
	for _, s := range b.Stmts {
		a.analyzeStmt(local, s, fnReturnType)
	}
}

func (a *Analyzer) analyzeStmt(scope *SymbolTable, s Stmt, fnReturnType *TypeDescriptor) {
	switch n := s.(type) {
	case *VarDecl:
		var declType *TypeDescriptor
		if n.Type != nil {
			declType = a.resolveTypeExpr(n.Type)
		}
		if n.Value != nil {
			a.analyzeExpr(scope, n.Value, declType)
			if declType == nil {
				declType = exprResolvedType(n.Value)
			}
		}
		n.ResolvedType = declType
		ctx := ExtractOwnershipContext(n.Annotations, n.Location)
		ctx.IsMutable = n.Mut
		n.Ownership = &ctx
		if !scope.Insert(&SymbolEntry{Name: n.Name, Kind: SymbolVar, Type: declType, Location: n.Location, Mutable: n.Mut}) {
			a.diags.Errorf(CodeDuplicateSymbol, n.Location, "duplicate symbol %q in this scope", n.Name)
		}
	case *IfStmt:
		a.analyzeExpr(scope, n.Cond, a.builtins.GetBuiltin("bool"))
		a.analyzeBlock(scope, n.Then, fnReturnType)
		if n.Else != nil {
			a.analyzeStmt(scope, n.Else, fnReturnType)
		}
	case *ForInStmt:
		a.analyzeExpr(scope, n.Iterable, nil)
		inner := NewSymbolTable(scope)
		inner.Insert(&SymbolEntry{Name: n.Binding, Kind: SymbolVar, Location: n.Location})
		for _, st := range n.Body.Stmts {
			a.analyzeStmt(inner, st, fnReturnType)
		}
	case *MatchStmt:
		a.analyzeExpr(scope, n.Subject, nil)
		for _, arm := range n.Arms {
			a.analyzeExpr(scope, arm.Pattern, nil)
			a.analyzeBlock(scope, arm.Body, fnReturnType)
		}
	case *ReturnStmt:
		if n.Value != nil {
			a.analyzeExpr(scope, n.Value, fnReturnType)
		}
	case *ExprStmt:
		a.analyzeExpr(scope, n.X, nil)
	case *Block:
		a.analyzeBlock(scope, n, fnReturnType)
	}
}

// exprResolvedType reads back whatever ResolvedType analyzeExpr
// already stamped onto the node, since Go has no common "get the
// embedded NodeBase" accessor across the Expr interface.
func exprResolvedType(e Expr) *TypeDescriptor {
	switch n := e.(type) {
	case *IntLiteral:
		return n.ResolvedType
	case *FloatLiteral:
		return n.ResolvedType
	case *BoolLiteral:
		return n.ResolvedType
	case *CharLiteral:
		return n.ResolvedType
	case *StringLiteral:
		return n.ResolvedType
	case *IdentExpr:
		return n.ResolvedType
	case *BinaryExpr:
		return n.ResolvedType
	case *UnaryExpr:
		return n.ResolvedType
	case *CallExpr:
		return n.ResolvedType
	case *IndexExpr:
		return n.ResolvedType
	case *FieldExpr:
		return n.ResolvedType
	case *SizeofExpr:
		return n.ResolvedType
	default:
		return nil
	}
}

// analyzeExpr resolves identifiers, propagates an expected type into
// literal analysis, and stamps ResolvedType/Flags on every expression
// node.
func (a *Analyzer) analyzeExpr(scope *SymbolTable, e Expr, expected *TypeDescriptor) {
	switch n := e.(type) {
	case *IdentExpr:
		entry, ok := scope.Lookup(n.Name)
		if !ok {
			suggestion := suggestNearest(n.Name, scope.AllNames())
			if suggestion != "" {
				a.diags.Add(Diagnostic{
					Severity: SeverityError, Code: CodeUndefinedSymbol, Location: n.Location,
					Message: "undefined symbol " + quoteName(n.Name), Suggestion: suggestion,
				})
			} else {
				a.diags.Errorf(CodeUndefinedSymbol, n.Location, "undefined symbol %q", n.Name)
			}
			return
		}
		entry.IsUsed = true
		n.Flags.IsUsed = true
		n.Flags.IsLValue = true
		n.ResolvedType = entry.Type
	case *IntLiteral:
		a.analyzeIntLiteral(n, expected)
	case *FloatLiteral:
		n.ResolvedType = a.builtins.GetBuiltin("f64")
		n.Flags.IsConstantExpr = true
	case *BoolLiteral:
		n.ResolvedType = a.builtins.GetBuiltin("bool")
		n.Flags.IsConstantExpr = true
	case *CharLiteral:
		a.analyzeCharLiteral(n, expected)
	case *StringLiteral:
		a.analyzeStringLiteral(n)
	case *BinaryExpr:
		a.analyzeExpr(scope, n.LHS, expected)
		a.analyzeExpr(scope, n.RHS, exprResolvedType(n.LHS))
		n.ResolvedType = a.binaryResultType(n.Op, exprResolvedType(n.LHS), exprResolvedType(n.RHS))
		n.Flags.HasSideEffects = n.Op == OpAssign
		n.Flags.IsConstantExpr = exprIsConstant(n.LHS) && exprIsConstant(n.RHS) && n.Op != OpAssign
	case *UnaryExpr:
		if lit, ok := n.Operand.(*IntLiteral); ok && n.Op == OpNeg {
			// A negated literal range-checks as one value: -128 fits
			// i8 even though 128 alone does not.
			a.analyzeNegatedIntLiteral(lit, expected)
			n.ResolvedType = lit.ResolvedType
			n.Flags.IsConstantExpr = true
			return
		}
		a.analyzeExpr(scope, n.Operand, expected)
		n.ResolvedType = exprResolvedType(n.Operand)
		n.Flags.IsConstantExpr = n.Op != OpAddr && n.Op != OpDeref && exprIsConstant(n.Operand)
	case *CallExpr:
		a.analyzeExpr(scope, n.Callee, nil)
		for _, arg := range n.Args {
			a.analyzeExpr(scope, arg, nil)
		}
		n.Flags.HasSideEffects = true
		if callee, ok := n.Callee.(*IdentExpr); ok {
			if entry, found := scope.Lookup(callee.Name); found && entry.Type != nil && entry.Type.Category == CategoryFunction {
				n.ResolvedType = entry.Type.ReturnType
			}
		}
	case *IndexExpr:
		a.analyzeExpr(scope, n.Base, nil)
		a.analyzeExpr(scope, n.Index, a.builtins.GetBuiltin("usize"))
		if bt := exprResolvedType(n.Base); bt != nil && (bt.Category == CategorySlice || bt.Category == CategoryPointer) {
			n.ResolvedType = bt.Elem
		}
		n.Flags.IsLValue = true
	case *FieldExpr:
		a.analyzeExpr(scope, n.Base, nil)
		if bt := exprResolvedType(n.Base); bt != nil && bt.Category == CategoryStruct && bt.Fields != nil {
			if entry, ok := bt.Fields.LookupLocal(n.Field); ok {
				n.ResolvedType = entry.Type
			}
		}
		n.Flags.IsLValue = true
	case *SizeofExpr:
		n.ResolvedType = a.builtins.GetBuiltin("usize")
		n.Flags.IsConstantExpr = true
	}
}

func (a *Analyzer) binaryResultType(op BinaryOp, lhs, rhs *TypeDescriptor) *TypeDescriptor {
	switch op {
	case OpEq, OpNeq, OpLt, OpLe, OpGt, OpGe, OpAnd, OpOr:
		return a.builtins.GetBuiltin("bool")
	case OpAssign:
		return lhs
	default:
		if lhs != nil {
			return lhs
		}
		return rhs
	}
}

func exprIsConstant(e Expr) bool {
	switch n := e.(type) {
	case *IntLiteral, *FloatLiteral, *BoolLiteral, *CharLiteral, *StringLiteral:
		return true
	case *IdentExpr:
		return n.ResolvedType != nil && n.Flags.IsConstantExpr
	case *BinaryExpr:
		return n.Flags.IsConstantExpr
	case *UnaryExpr:
		return n.Flags.IsConstantExpr
	default:
		return false
	}
}

func quoteName(s string) string { return "\"" + s + "\"" }
