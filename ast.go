package ferrite

// NodeFlags holds the four boolean facts tracked on every AST node,
// filled in progressively as parsing/analysis proceeds.
type NodeFlags struct {
	IsConstantExpr bool
	HasSideEffects bool
	IsLValue       bool
	IsUsed         bool
}

// NodeBase is embedded in every concrete AST node. It carries the
// parts common to all node kinds: the source
// span, attached annotations, the resolved type slot (nil until
// semantic analysis fills it in — never during parsing), and the flag
// bundle.
type NodeBase struct {
	Location     SourceLocation
	Annotations  []Annotation
	ResolvedType *TypeDescriptor
	Flags        NodeFlags

	// Ownership is filled by the analyzer on allocation-producing
	// nodes (variable declarations, parameters, struct declarations);
	// nil everywhere else.
	Ownership *OwnershipContext
}

func (n *NodeBase) Range() SourceLocation { return n.Location }

// Node is implemented by every AST node. Accept dispatches to the
// matching Visitor method; ownership of children is exclusive — a
// child node belongs to exactly one parent, never shared.
type Node interface {
	Range() SourceLocation
	Accept(v Visitor) error
	String() string
	PrettyString() string
}

// Visitor is implemented by consumers that need to walk the whole
// tree (the semantic analyzer, the code-gen planner, the pretty
// printer). One method per node kind.
type Visitor interface {
	VisitProgram(*Program) error
	VisitFuncDecl(*FuncDecl) error
	VisitStructDecl(*StructDecl) error
	VisitEnumDecl(*EnumDecl) error
	VisitConstDecl(*ConstDecl) error
	VisitVarDecl(*VarDecl) error
	VisitParam(*Param) error
	VisitBlock(*Block) error
	VisitIfStmt(*IfStmt) error
	VisitForInStmt(*ForInStmt) error
	VisitMatchStmt(*MatchStmt) error
	VisitReturnStmt(*ReturnStmt) error
	VisitExprStmt(*ExprStmt) error
	VisitBinaryExpr(*BinaryExpr) error
	VisitUnaryExpr(*UnaryExpr) error
	VisitCallExpr(*CallExpr) error
	VisitIndexExpr(*IndexExpr) error
	VisitFieldExpr(*FieldExpr) error
	VisitIdentExpr(*IdentExpr) error
	VisitIntLiteral(*IntLiteral) error
	VisitFloatLiteral(*FloatLiteral) error
	VisitBoolLiteral(*BoolLiteral) error
	VisitCharLiteral(*CharLiteral) error
	VisitStringLiteral(*StringLiteral) error
	VisitSizeofExpr(*SizeofExpr) error
	VisitNamedType(*NamedType) error
	VisitPointerType(*PointerType) error
	VisitSliceType(*SliceType) error
	VisitFunctionType(*FunctionType) error
}

// BaseVisitor is embedded by visitors that only care about a handful
// of node kinds; it gives every method a no-op default so callers
// only override what they need.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*Program) error             { return nil }
func (BaseVisitor) VisitFuncDecl(*FuncDecl) error           { return nil }
func (BaseVisitor) VisitStructDecl(*StructDecl) error       { return nil }
func (BaseVisitor) VisitEnumDecl(*EnumDecl) error           { return nil }
func (BaseVisitor) VisitConstDecl(*ConstDecl) error         { return nil }
func (BaseVisitor) VisitVarDecl(*VarDecl) error             { return nil }
func (BaseVisitor) VisitParam(*Param) error                 { return nil }
func (BaseVisitor) VisitBlock(*Block) error                 { return nil }
func (BaseVisitor) VisitIfStmt(*IfStmt) error               { return nil }
func (BaseVisitor) VisitForInStmt(*ForInStmt) error         { return nil }
func (BaseVisitor) VisitMatchStmt(*MatchStmt) error         { return nil }
func (BaseVisitor) VisitReturnStmt(*ReturnStmt) error       { return nil }
func (BaseVisitor) VisitExprStmt(*ExprStmt) error           { return nil }
func (BaseVisitor) VisitBinaryExpr(*BinaryExpr) error       { return nil }
func (BaseVisitor) VisitUnaryExpr(*UnaryExpr) error         { return nil }
func (BaseVisitor) VisitCallExpr(*CallExpr) error           { return nil }
func (BaseVisitor) VisitIndexExpr(*IndexExpr) error         { return nil }
func (BaseVisitor) VisitFieldExpr(*FieldExpr) error         { return nil }
func (BaseVisitor) VisitIdentExpr(*IdentExpr) error         { return nil }
func (BaseVisitor) VisitIntLiteral(*IntLiteral) error       { return nil }
func (BaseVisitor) VisitFloatLiteral(*FloatLiteral) error   { return nil }
func (BaseVisitor) VisitBoolLiteral(*BoolLiteral) error     { return nil }
func (BaseVisitor) VisitCharLiteral(*CharLiteral) error     { return nil }
func (BaseVisitor) VisitStringLiteral(*StringLiteral) error { return nil }
func (BaseVisitor) VisitSizeofExpr(*SizeofExpr) error       { return nil }
func (BaseVisitor) VisitNamedType(*NamedType) error         { return nil }
func (BaseVisitor) VisitPointerType(*PointerType) error     { return nil }
func (BaseVisitor) VisitSliceType(*SliceType) error         { return nil }
func (BaseVisitor) VisitFunctionType(*FunctionType) error   { return nil }

// Expr is implemented by every expression node; it lets statement and
// declaration nodes hold a heterogeneous child without resorting to
// `any`.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is implemented by every top-level or block-local declaration.
type Decl interface {
	Node
	declNode()
}

// TypeExpr is implemented by every type-annotation node (as written in
// source, before resolution to a TypeDescriptor).
type TypeExpr interface {
	Node
	typeExprNode()
}

// ---------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------

// Program is the root of every AST: an ordered list of top-level
// declarations, exactly as they appeared in the source file.
type Program struct {
	NodeBase
	FileID FileID
	Decls  []Decl
}

func (n *Program) Accept(v Visitor) error { return v.VisitProgram(n) }

// FuncDecl is a `fn name(params) -> ret { body }` declaration,
// optionally `pub` and/or `extern`.
type FuncDecl struct {
	NodeBase
	Name       string
	Params     []*Param
	ReturnType TypeExpr // nil means void
	Body       *Block   // nil for `extern` declarations
	IsPub      bool
	IsExtern   bool
	ExternName string // the symbol name to link against, for extern fns
}

func (n *FuncDecl) Accept(v Visitor) error { return v.VisitFuncDecl(n) }
func (n *FuncDecl) declNode()              {}

// Param is one function parameter.
type Param struct {
	NodeBase
	Name string
	Type TypeExpr
}

func (n *Param) Accept(v Visitor) error { return v.VisitParam(n) }

// StructField is one field of a StructDecl; it is not itself a Node
// (it can't stand alone as a statement/declaration/expression) but
// carries its own annotations and location like one.
type StructField struct {
	Name        string
	Type        TypeExpr
	Annotations []Annotation
	Location    SourceLocation
}

// StructDecl is a `struct Name { field: Type, ... }` declaration.
type StructDecl struct {
	NodeBase
	Name   string
	Fields []StructField
	IsPub  bool
}

func (n *StructDecl) Accept(v Visitor) error { return v.VisitStructDecl(n) }
func (n *StructDecl) declNode()              {}

// EnumVariantDecl is one `Variant`, `Variant(Type)`, or `Variant = expr`
// arm of an EnumDecl. The bare `none` marker for an
// empty enum (`enum E { none }`) produces zero EnumVariantDecls rather
// than a sentinel variant — the parser returns before appending anything.
type EnumVariantDecl struct {
	Name     string
	Payload  TypeExpr // nil if this variant carries no value
	Value    Expr     // nil unless `= expr` was given
	Location SourceLocation
}

// EnumDecl is an `enum Name { ... }` declaration.
type EnumDecl struct {
	NodeBase
	Name     string
	Variants []EnumVariantDecl
	IsPub    bool
}

func (n *EnumDecl) Accept(v Visitor) error { return v.VisitEnumDecl(n) }
func (n *EnumDecl) declNode()              {}

// ConstDecl is a `const NAME: Type = expr` top-level declaration.
type ConstDecl struct {
	NodeBase
	Name  string
	Type  TypeExpr // may be nil; inferred from Value
	Value Expr
	IsPub bool
}

func (n *ConstDecl) Accept(v Visitor) error { return v.VisitConstDecl(n) }
func (n *ConstDecl) declNode()              {}

// VarDecl is a `let [mut] name [: Type] = expr` statement-level binding.
type VarDecl struct {
	NodeBase
	Name  string
	Mut   bool
	Type  TypeExpr // may be nil; inferred from Value
	Value Expr     // may be nil for an uninitialized `mut` binding
}

func (n *VarDecl) Accept(v Visitor) error { return v.VisitVarDecl(n) }
func (n *VarDecl) stmtNode()              {}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// Block is `{ stmt* }`, the body of a function, if/else arm, for loop,
// or match arm.
type Block struct {
	NodeBase
	Stmts []Stmt
}

func (n *Block) Accept(v Visitor) error { return v.VisitBlock(n) }
func (n *Block) stmtNode()              {}

// IfStmt is `if cond { then } [else { else_ }]`; Else is an *IfStmt
// (stored directly, not wrapped in a Block) for `else if` chains, or a
// plain Block, or nil.
type IfStmt struct {
	NodeBase
	Cond Expr
	Then *Block
	Else Stmt // *Block, *IfStmt, or nil
}

func (n *IfStmt) Accept(v Visitor) error { return v.VisitIfStmt(n) }
func (n *IfStmt) stmtNode()              {}

// ForInStmt is `for name in iterable { body }`.
type ForInStmt struct {
	NodeBase
	Binding  string
	Iterable Expr
	Body     *Block
}

func (n *ForInStmt) Accept(v Visitor) error { return v.VisitForInStmt(n) }
func (n *ForInStmt) stmtNode()              {}

// MatchArm is one `pattern => body` arm of a MatchStmt. Pattern is
// either an IdentExpr naming an enum variant, a CallExpr binding a
// payload (`Variant(x) => ...`), or an IdentExpr `_` wildcard.
type MatchArm struct {
	Pattern  Expr
	Body     *Block
	Location SourceLocation
}

// MatchStmt is `match expr { arm, ... }`.
type MatchStmt struct {
	NodeBase
	Subject Expr
	Arms    []MatchArm
}

func (n *MatchStmt) Accept(v Visitor) error { return v.VisitMatchStmt(n) }
func (n *MatchStmt) stmtNode()              {}

// ReturnStmt is `return [expr];`.
type ReturnStmt struct {
	NodeBase
	Value Expr // nil for a bare `return;`
}

func (n *ReturnStmt) Accept(v Visitor) error { return v.VisitReturnStmt(n) }
func (n *ReturnStmt) stmtNode()              {}

// ExprStmt is an expression evaluated for its side effects (a bare
// call, typically) used as a statement.
type ExprStmt struct {
	NodeBase
	X Expr
}

func (n *ExprStmt) Accept(v Visitor) error { return v.VisitExprStmt(n) }
func (n *ExprStmt) stmtNode()              {}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// BinaryOp enumerates the binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpAssign
)

// BinaryExpr is `lhs op rhs`.
type BinaryExpr struct {
	NodeBase
	Op  BinaryOp
	LHS Expr
	RHS Expr
}

func (n *BinaryExpr) Accept(v Visitor) error { return v.VisitBinaryExpr(n) }
func (n *BinaryExpr) exprNode()              {}

// UnaryOp enumerates the unary prefix operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpAddr
	OpDeref
)

// UnaryExpr is `op operand`.
type UnaryExpr struct {
	NodeBase
	Op      UnaryOp
	Operand Expr
}

func (n *UnaryExpr) Accept(v Visitor) error { return v.VisitUnaryExpr(n) }
func (n *UnaryExpr) exprNode()              {}

// CallExpr is `callee(args...)`.
type CallExpr struct {
	NodeBase
	Callee Expr
	Args   []Expr
}

func (n *CallExpr) Accept(v Visitor) error { return v.VisitCallExpr(n) }
func (n *CallExpr) exprNode()              {}

// IndexExpr is `base[index]`.
type IndexExpr struct {
	NodeBase
	Base  Expr
	Index Expr
}

func (n *IndexExpr) Accept(v Visitor) error { return v.VisitIndexExpr(n) }
func (n *IndexExpr) exprNode()              {}

// FieldExpr is `base.field`.
type FieldExpr struct {
	NodeBase
	Base  Expr
	Field string
}

func (n *FieldExpr) Accept(v Visitor) error { return v.VisitFieldExpr(n) }
func (n *FieldExpr) exprNode()              {}

// IdentExpr is a bare identifier reference.
type IdentExpr struct {
	NodeBase
	Name string
}

func (n *IdentExpr) Accept(v Visitor) error { return v.VisitIdentExpr(n) }
func (n *IdentExpr) exprNode()              {}

// IntLiteral is a decimal or hex integer literal. Text retains the
// original source form (needed to re-derive the raw digits if the
// resolved type changes during inference).
type IntLiteral struct {
	NodeBase
	Text  string
	Value uint64 // bit pattern; sign/width resolved by the analyzer
}

func (n *IntLiteral) Accept(v Visitor) error { return v.VisitIntLiteral(n) }
func (n *IntLiteral) exprNode()              {}

// FloatLiteral is a floating-point literal.
type FloatLiteral struct {
	NodeBase
	Text  string
	Value float64
}

func (n *FloatLiteral) Accept(v Visitor) error { return v.VisitFloatLiteral(n) }
func (n *FloatLiteral) exprNode()              {}

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	NodeBase
	Value bool
}

func (n *BoolLiteral) Accept(v Visitor) error { return v.VisitBoolLiteral(n) }
func (n *BoolLiteral) exprNode()              {}

// CharLiteral is a `'c'` literal.
type CharLiteral struct {
	NodeBase
	Raw   string // including quotes
	Value rune
}

func (n *CharLiteral) Accept(v Visitor) error { return v.VisitCharLiteral(n) }
func (n *CharLiteral) exprNode()              {}

// StringLiteral is a `"..."` literal, possibly spanning multiple
// source lines.
type StringLiteral struct {
	NodeBase
	Raw   string
	Value string
}

func (n *StringLiteral) Accept(v Visitor) error { return v.VisitStringLiteral(n) }
func (n *StringLiteral) exprNode()              {}

// SizeofExpr is `sizeof(Type)`; it always resolves to usize.
type SizeofExpr struct {
	NodeBase
	Operand TypeExpr
}

func (n *SizeofExpr) Accept(v Visitor) error { return v.VisitSizeofExpr(n) }
func (n *SizeofExpr) exprNode()              {}

// ---------------------------------------------------------------------
// Type expressions
// ---------------------------------------------------------------------

// NamedType is a reference to a builtin or user-defined type by name.
type NamedType struct {
	NodeBase
	Name string
}

func (n *NamedType) Accept(v Visitor) error { return v.VisitNamedType(n) }
func (n *NamedType) typeExprNode()          {}

// PointerType is `*T` or `*mut T`.
type PointerType struct {
	NodeBase
	Elem TypeExpr
	Mut  bool
}

func (n *PointerType) Accept(v Visitor) error { return v.VisitPointerType(n) }
func (n *PointerType) typeExprNode()          {}

// SliceType is `[]T` or `[]mut T`.
type SliceType struct {
	NodeBase
	Elem TypeExpr
	Mut  bool
}

func (n *SliceType) Accept(v Visitor) error { return v.VisitSliceType(n) }
func (n *SliceType) typeExprNode()          {}

// FunctionType is `fn(Params...) -> Ret`, used for function-valued
// parameters and fields.
type FunctionType struct {
	NodeBase
	Params []TypeExpr
	Ret    TypeExpr
}

func (n *FunctionType) Accept(v Visitor) error { return v.VisitFunctionType(n) }
func (n *FunctionType) typeExprNode()          {}
