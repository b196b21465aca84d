package ferrite

import (
	"strconv"
	"strings"
)

// Parser is a conventional recursive-descent parser with one token of
// lookahead. It never aborts: every failure becomes a
// Diagnostic and the parser recovers by skipping to the next
// statement/declaration delimiter.
type Parser struct {
	file   FileID
	toks   []Token
	pos    int
	diags  *Diagnostics
	spans  []string // production trace, innermost last; names the construct diagnostics point into
}

// NewParser builds a parser over an already-tokenized source file.
func NewParser(file FileID, toks []Token, diags *Diagnostics) *Parser {
	return &Parser{file: file, toks: toks, diags: diags}
}

// ParseSource lexes and parses src in one step, returning the Program
// and the accumulated diagnostics.
func ParseSource(file FileID, src []byte) (*Program, *Diagnostics) {
	diags := &Diagnostics{}
	lex := NewLexer(file, src, diags)
	toks := lex.Tokenize()
	p := NewParser(file, toks, diags)
	return p.ParseProgram(), diags
}

func (p *Parser) pushSpan(name string) { p.spans = append(p.spans, name) }
func (p *Parser) popSpan()             { p.spans = p.spans[:len(p.spans)-1] }

func (p *Parser) cur() Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return p.toks[len(p.toks)-1] // EOF sentinel
}

func (p *Parser) peekAt(off int) Token {
	i := p.pos + off
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) at(k TokenKind) bool { return p.cur().Kind == k }

func (p *Parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// expect consumes the current token if it matches k, else records a
// diagnostic at the current token's location and returns ok=false
// without advancing (so the caller's recovery logic sees the same
// token it failed on).
func (p *Parser) expect(k TokenKind) (Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	t := p.cur()
	if len(p.spans) > 0 {
		p.diags.Errorf(CodeUnexpectedToken, t.Location, "expected %s, found %s in %s", k, t, p.spans[len(p.spans)-1])
	} else {
		p.diags.Errorf(CodeUnexpectedToken, t.Location, "expected %s, found %s", k, t)
	}
	return t, false
}

// synchronizeTopLevel skips tokens until a likely declaration
// boundary: a semicolon (consumed) or a token that starts a new
// top-level declaration.
func (p *Parser) synchronizeTopLevel() {
	for !p.at(TokEOF) {
		if p.at(TokSemicolon) {
			p.advance()
			return
		}
		switch p.cur().Kind {
		case TokKwFn, TokKwStruct, TokKwEnum, TokKwConst, TokKwExtern, TokKwPub, TokHash:
			return
		}
		p.advance()
	}
}

// synchronizeBlock skips to the next statement boundary inside a
// block: a semicolon (consumed) or a closing brace (not consumed, so
// the enclosing block parser sees it).
func (p *Parser) synchronizeBlock() {
	for !p.at(TokEOF) && !p.at(TokRBrace) {
		if p.at(TokSemicolon) {
			p.advance()
			return
		}
		p.advance()
	}
}

// ---------------------------------------------------------------------
// Program / declarations
// ---------------------------------------------------------------------

func (p *Parser) ParseProgram() *Program {
	p.pushSpan("Program")
	defer p.popSpan()

	prog := &Program{FileID: p.file, NodeBase: NodeBase{Location: p.cur().Location}}
	for !p.at(TokEOF) {
		start := p.pos
		d := p.parseTopLevelDecl()
		if d != nil {
			prog.Decls = append(prog.Decls, d)
		}
		if p.pos == start {
			// parseTopLevelDecl made no progress (e.g. a stray token); force
			// forward motion so the loop always terminates.
			p.advance()
		}
	}
	return prog
}

func (p *Parser) parseTopLevelDecl() Decl {
	anns, ok := p.parseAnnotations()
	if !ok {
		p.synchronizeTopLevel()
		// The declaration the failed annotation was attached to is
		// parsed for recovery and then dropped.
		if !p.at(TokEOF) && !(p.pos > 0 && p.toks[p.pos-1].Kind == TokSemicolon) {
			p.parseTopLevelDecl()
		}
		return nil
	}

	isPub := false
	if p.at(TokKwPub) {
		p.advance()
		isPub = true
	}

	isExtern := false
	if p.at(TokKwExtern) {
		p.advance()
		isExtern = true
	}

	switch p.cur().Kind {
	case TokKwFn:
		return p.parseFuncDecl(anns, isPub, isExtern)
	case TokKwStruct:
		return p.parseStructDecl(anns, isPub)
	case TokKwEnum:
		return p.parseEnumDecl(anns, isPub)
	case TokKwConst:
		return p.parseConstDecl(anns, isPub)
	default:
		t := p.cur()
		p.diags.Errorf(CodeUnexpectedToken, t.Location, "expected a declaration (fn/struct/enum/const), found %s", t)
		p.synchronizeTopLevel()
		return nil
	}
}

// parseAnnotations parses zero or more `#[...]` blocks. Encountering
// the legacy `@name` form emits CodeLegacyAnnotation and fails the
// *declaration*, signalled to
// the caller via ok=false.
func (p *Parser) parseAnnotations() ([]Annotation, bool) {
	var out []Annotation
	for {
		if tok := p.cur(); tok.Kind == TokHash {
			a, ok := p.parseOneAnnotation()
			if !ok {
				return nil, false
			}
			out = append(out, a)
			continue
		}
		// Legacy bare `@` form: the lexer turns `@name` into a single
		// TokError token whose Text begins with "@" and records no
		// diagnostic for it, so the legacy form is detected and reported
		// here.
		if tok := p.cur(); tok.Kind == TokError && strings.HasPrefix(tok.Text, "@") {
			p.diags.Errorf(CodeLegacyAnnotation, tok.Location,
				"legacy `@` annotation syntax is no longer supported; use `#[...]`")
			p.advance()
			return nil, false
		}
		return out, true
	}
}

func (p *Parser) parseOneAnnotation() (Annotation, bool) {
	p.pushSpan("annotation")
	defer p.popSpan()
	start := p.advance() // '#'
	if _, ok := p.expect(TokLBracket); !ok {
		return Annotation{}, false
	}
	nameTok, ok := p.expect(TokIdentifier)
	if !ok {
		return Annotation{}, false
	}
	ann := Annotation{Name: nameTok.Text, Location: start.Location}

	var params []AnnotationParam
	if p.at(TokLParen) {
		p.advance()
		if p.at(TokKwNone) {
			p.advance()
		} else {
			for {
				if p.at(TokRParen) {
					break
				}
				param, ok := p.parseAnnotationParam()
				if !ok {
					return Annotation{}, false
				}
				params = append(params, param)
				if p.at(TokComma) {
					p.advance()
					if p.at(TokRParen) {
						t := p.cur()
						p.diags.Errorf(CodeTrailingComma, t.Location, "trailing comma not permitted in annotation parameter list")
						return Annotation{}, false
					}
					continue
				}
				break
			}
		}
		if _, ok := p.expect(TokRParen); !ok {
			return Annotation{}, false
		}
	}
	ann.Params = params
	if _, ok := p.expect(TokRBracket); !ok {
		return Annotation{}, false
	}

	p.classifyAnnotation(&ann)
	return ann, true
}

// parseAnnotationParam parses `name = value` or, for the ownership
// short form `#[ownership(gc|c|pinned)]`, a bare identifier with no
// `name =` prefix.
func (p *Parser) parseAnnotationParam() (AnnotationParam, bool) {
	if p.at(TokIdentifier) && p.peekAt(1).Kind != TokAssign {
		// bare value, used by #[ownership(gc)] / #[transfer_full] shorthand
		tok := p.advance()
		return AnnotationParam{Name: "", Value: AnnotationValue{Kind: AnnotationValueIdent, Ident: tok.Text}}, true
	}
	nameTok, ok := p.expect(TokIdentifier)
	if !ok {
		return AnnotationParam{}, false
	}
	if _, ok := p.expect(TokAssign); !ok {
		return AnnotationParam{}, false
	}
	val, ok := p.parseAnnotationValue()
	if !ok {
		return AnnotationParam{}, false
	}
	return AnnotationParam{Name: nameTok.Text, Value: val}, true
}

func (p *Parser) parseAnnotationValue() (AnnotationValue, bool) {
	switch p.cur().Kind {
	case TokStringLiteral:
		tok := p.advance()
		return AnnotationValue{Kind: AnnotationValueString, Str: unquote(tok.Text)}, true
	case TokIdentifier:
		tok := p.advance()
		return AnnotationValue{Kind: AnnotationValueIdent, Ident: tok.Text}, true
	case TokKwTrue, TokKwFalse:
		tok := p.advance()
		return AnnotationValue{Kind: AnnotationValueBool, Bool: tok.Kind == TokKwTrue}, true
	case TokIntLiteral:
		tok := p.advance()
		n, _ := strconv.ParseInt(strings.ReplaceAll(tok.Text, "_", ""), 0, 64)
		return AnnotationValue{Kind: AnnotationValueInt, Int: n}, true
	default:
		t := p.cur()
		p.diags.Errorf(CodeUnexpectedToken, t.Location, "expected an annotation value, found %s", t)
		return AnnotationValue{}, false
	}
}

var ownershipNames = map[string]OwnershipTag{"gc": OwnershipGC, "c": OwnershipC, "pinned": OwnershipPinned}
var transferNames = map[string]FFITransfer{
	"transfer_full": TransferFull, "transfer_none": TransferNone, "borrowed": TransferBorrowed,
}
var securityNames = map[string]SecurityTag{
	"constant_time": SecurityConstantTime, "volatile_memory": SecurityVolatileMemory,
}
var reviewNames = map[string]ReviewPriority{"low": ReviewLow, "medium": ReviewMedium, "high": ReviewHigh}

// classifyAnnotation recognizes the four fixed annotation shapes
// (ownership/transfer/security/review_priority) by name and fills in
// their typed field; anything else stays a generic tag. An ownership
// annotation whose argument is not gc, c or pinned (e.g.
// `#[ownership(bogus)]`) is reported here as UNKNOWN_ANNOTATION; an
// unrecognized security or review_priority argument is not reported
// and leaves the typed field at its zero value.
func (p *Parser) classifyAnnotation(a *Annotation) {
	switch a.Name {
	case "ownership":
		a.Kind = AnnotationOwnership
		if len(a.Params) == 1 && a.Params[0].Value.Kind == AnnotationValueIdent {
			if tag, ok := ownershipNames[a.Params[0].Value.Ident]; ok {
				a.Ownership = tag
				break
			}
		}
		p.diags.Errorf(CodeUnknownAnnotation, a.Location, "unknown ownership annotation; expected gc, c or pinned")
	case "transfer_full", "transfer_none", "borrowed":
		a.Kind = AnnotationFFITransfer
		a.Transfer = transferNames[a.Name]
	case "security":
		a.Kind = AnnotationSecurity
		if len(a.Params) == 1 && a.Params[0].Value.Kind == AnnotationValueIdent {
			if tag, ok := securityNames[a.Params[0].Value.Ident]; ok {
				a.Security = tag
			}
		}
	case "review_priority":
		a.Kind = AnnotationReviewPriority
		if len(a.Params) == 1 && a.Params[0].Value.Kind == AnnotationValueIdent {
			if tag, ok := reviewNames[a.Params[0].Value.Ident]; ok {
				a.Review = tag
			}
		}
	default:
		a.Kind = AnnotationGeneric
	}
}

func (p *Parser) parseFuncDecl(anns []Annotation, isPub, isExtern bool) *FuncDecl {
	p.pushSpan("function declaration")
	defer p.popSpan()
	start := p.advance() // 'fn'
	nameTok, _ := p.expect(TokIdentifier)
	fd := &FuncDecl{
		NodeBase: NodeBase{Location: start.Location, Annotations: anns},
		Name:     nameTok.Text, IsPub: isPub, IsExtern: isExtern, ExternName: nameTok.Text,
	}

	if _, ok := p.expect(TokLParen); ok {
		for !p.at(TokRParen) && !p.at(TokEOF) {
			fd.Params = append(fd.Params, p.parseParam())
			if p.at(TokComma) {
				p.advance()
				continue
			}
			break
		}
		p.expect(TokRParen)
	}

	if p.at(TokArrow) {
		p.advance()
		fd.ReturnType = p.parseType()
	}

	if isExtern {
		p.expect(TokSemicolon)
		return fd
	}
	fd.Body = p.parseBlock()
	return fd
}

func (p *Parser) parseParam() *Param {
	anns, _ := p.parseAnnotations()
	nameTok, _ := p.expect(TokIdentifier)
	param := &Param{NodeBase: NodeBase{Location: nameTok.Location, Annotations: anns}, Name: nameTok.Text}
	if _, ok := p.expect(TokColon); ok {
		param.Type = p.parseType()
	}
	return param
}

func (p *Parser) parseStructDecl(anns []Annotation, isPub bool) *StructDecl {
	p.pushSpan("struct declaration")
	defer p.popSpan()
	start := p.advance() // 'struct'
	nameTok, _ := p.expect(TokIdentifier)
	sd := &StructDecl{NodeBase: NodeBase{Location: start.Location, Annotations: anns}, Name: nameTok.Text, IsPub: isPub}

	if _, ok := p.expect(TokLBrace); !ok {
		return sd
	}
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		fieldAnns, ok := p.parseAnnotations()
		if !ok {
			p.synchronizeBlock()
			continue
		}
		fnameTok, ok := p.expect(TokIdentifier)
		if !ok {
			p.synchronizeBlock()
			continue
		}
		field := StructField{Name: fnameTok.Text, Location: fnameTok.Location, Annotations: fieldAnns}
		if _, ok := p.expect(TokColon); ok {
			field.Type = p.parseType()
		}
		sd.Fields = append(sd.Fields, field)
		if p.at(TokComma) {
			p.advance()
		}
	}
	p.expect(TokRBrace)
	return sd
}

func (p *Parser) parseEnumDecl(anns []Annotation, isPub bool) *EnumDecl {
	p.pushSpan("enum declaration")
	defer p.popSpan()
	start := p.advance() // 'enum'
	nameTok, _ := p.expect(TokIdentifier)
	ed := &EnumDecl{NodeBase: NodeBase{Location: start.Location, Annotations: anns}, Name: nameTok.Text, IsPub: isPub}

	// Type-parameter constraints (`<T: Trait>`) are explicitly
	// unsupported; a bare type-param list with no
	// constraint is also not part of this grammar subset, so any `<`
	// here is reported and skipped rather than silently accepted.
	if p.at(TokLAngleBracket) {
		t := p.cur()
		p.diags.Errorf(CodeUnexpectedToken, t.Location, "type-parameter constraints are not supported on enum declarations")
		depth := 0
		for !p.at(TokEOF) {
			if p.at(TokLAngleBracket) {
				depth++
			} else if p.at(TokRAngleBracket) {
				depth--
				p.advance()
				if depth == 0 {
					break
				}
				continue
			}
			p.advance()
		}
	}

	if _, ok := p.expect(TokLBrace); !ok {
		return ed
	}

	if p.at(TokKwNone) && p.peekAt(1).Kind == TokRBrace {
		p.advance()
		p.advance()
		return ed
	}

	for !p.at(TokRBrace) && !p.at(TokEOF) {
		v := p.parseEnumVariant()
		ed.Variants = append(ed.Variants, v)
		if p.at(TokComma) {
			p.advance()
			if p.at(TokRBrace) {
				t := p.cur()
				p.diags.Errorf(CodeTrailingComma, t.Location, "trailing comma not permitted in enum declaration")
			}
			continue
		}
		break
	}
	p.expect(TokRBrace)
	return ed
}

func (p *Parser) parseEnumVariant() EnumVariantDecl {
	nameTok, _ := p.expect(TokIdentifier)
	v := EnumVariantDecl{Name: nameTok.Text, Location: nameTok.Location}
	switch {
	case p.at(TokLParen):
		p.advance()
		v.Payload = p.parseType()
		p.expect(TokRParen)
	case p.at(TokAssign):
		p.advance()
		v.Value = p.parseExpr()
	}
	return v
}

func (p *Parser) parseConstDecl(anns []Annotation, isPub bool) *ConstDecl {
	p.pushSpan("const declaration")
	defer p.popSpan()
	start := p.advance() // 'const'
	nameTok, _ := p.expect(TokIdentifier)
	cd := &ConstDecl{NodeBase: NodeBase{Location: start.Location, Annotations: anns}, Name: nameTok.Text, IsPub: isPub}
	if p.at(TokColon) {
		p.advance()
		cd.Type = p.parseType()
	}
	if _, ok := p.expect(TokAssign); ok {
		cd.Value = p.parseExpr()
	}
	p.expect(TokSemicolon)
	return cd
}

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

func (p *Parser) parseBlock() *Block {
	start, _ := p.expect(TokLBrace)
	b := &Block{NodeBase: NodeBase{Location: start.Location}}
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		pos := p.pos
		s := p.parseStmt()
		if s != nil {
			b.Stmts = append(b.Stmts, s)
		}
		if p.pos == pos {
			p.advance()
		}
	}
	p.expect(TokRBrace)
	return b
}

func (p *Parser) parseStmt() Stmt {
	switch p.cur().Kind {
	case TokKwLet:
		return p.parseVarDecl()
	case TokKwIf:
		return p.parseIfStmt()
	case TokKwFor:
		return p.parseForInStmt()
	case TokKwMatch:
		return p.parseMatchStmt()
	case TokKwReturn:
		return p.parseReturnStmt()
	case TokLBrace:
		return p.parseBlock()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseVarDecl() *VarDecl {
	start := p.advance() // 'let'
	vd := &VarDecl{NodeBase: NodeBase{Location: start.Location}}
	if p.at(TokKwMut) {
		p.advance()
		vd.Mut = true
	}
	nameTok, _ := p.expect(TokIdentifier)
	vd.Name = nameTok.Text
	if p.at(TokColon) {
		p.advance()
		vd.Type = p.parseType()
	}
	if p.at(TokAssign) {
		p.advance()
		vd.Value = p.parseExpr()
	}
	p.expect(TokSemicolon)
	return vd
}

func (p *Parser) parseIfStmt() *IfStmt {
	start := p.advance() // 'if'
	st := &IfStmt{NodeBase: NodeBase{Location: start.Location}}
	st.Cond = p.parseExpr()
	st.Then = p.parseBlock()
	if p.at(TokKwElse) {
		p.advance()
		if p.at(TokKwIf) {
			st.Else = p.parseIfStmt()
		} else {
			st.Else = p.parseBlock()
		}
	}
	return st
}

func (p *Parser) parseForInStmt() *ForInStmt {
	start := p.advance() // 'for'
	nameTok, _ := p.expect(TokIdentifier)
	st := &ForInStmt{NodeBase: NodeBase{Location: start.Location}, Binding: nameTok.Text}
	p.expect(TokKwIn)
	st.Iterable = p.parseExpr()
	st.Body = p.parseBlock()
	return st
}

func (p *Parser) parseMatchStmt() *MatchStmt {
	start := p.advance() // 'match'
	st := &MatchStmt{NodeBase: NodeBase{Location: start.Location}}
	st.Subject = p.parseExpr()
	p.expect(TokLBrace)
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		armLoc := p.cur().Location
		pattern := p.parseExpr()
		p.expect(TokFatArrow)
		body := p.parseBlock()
		st.Arms = append(st.Arms, MatchArm{Pattern: pattern, Body: body, Location: armLoc})
		if p.at(TokComma) {
			p.advance()
		}
	}
	p.expect(TokRBrace)
	return st
}

func (p *Parser) parseReturnStmt() *ReturnStmt {
	start := p.advance() // 'return'
	st := &ReturnStmt{NodeBase: NodeBase{Location: start.Location}}
	if !p.at(TokSemicolon) {
		st.Value = p.parseExpr()
	}
	p.expect(TokSemicolon)
	return st
}

func (p *Parser) parseExprStmt() *ExprStmt {
	loc := p.cur().Location
	x := p.parseExpr()
	p.expect(TokSemicolon)
	return &ExprStmt{NodeBase: NodeBase{Location: loc}, X: x}
}

// ---------------------------------------------------------------------
// Expressions (precedence climbing)
// ---------------------------------------------------------------------

func (p *Parser) parseExpr() Expr { return p.parseAssign() }

func (p *Parser) parseAssign() Expr {
	lhs := p.parseLogicalOr()
	if p.at(TokAssign) {
		p.advance()
		rhs := p.parseAssign()
		return &BinaryExpr{NodeBase: NodeBase{Location: lhs.Range()}, Op: OpAssign, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseLogicalOr() Expr {
	lhs := p.parseLogicalAnd()
	for p.at(TokPipePipe) {
		p.advance()
		rhs := p.parseLogicalAnd()
		lhs = &BinaryExpr{NodeBase: NodeBase{Location: lhs.Range()}, Op: OpOr, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseLogicalAnd() Expr {
	lhs := p.parseEquality()
	for p.at(TokAmpAmp) {
		p.advance()
		rhs := p.parseEquality()
		lhs = &BinaryExpr{NodeBase: NodeBase{Location: lhs.Range()}, Op: OpAnd, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseEquality() Expr {
	lhs := p.parseRelational()
	for p.at(TokEq) || p.at(TokNeq) {
		op := OpEq
		if p.at(TokNeq) {
			op = OpNeq
		}
		p.advance()
		rhs := p.parseRelational()
		lhs = &BinaryExpr{NodeBase: NodeBase{Location: lhs.Range()}, Op: op, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseRelational() Expr {
	lhs := p.parseBitwise()
	for {
		var op BinaryOp
		switch p.cur().Kind {
		case TokLAngleBracket:
			op = OpLt
		case TokRAngleBracket:
			op = OpGt
		case TokLe:
			op = OpLe
		case TokGe:
			op = OpGe
		default:
			return lhs
		}
		p.advance()
		rhs := p.parseBitwise()
		lhs = &BinaryExpr{NodeBase: NodeBase{Location: lhs.Range()}, Op: op, LHS: lhs, RHS: rhs}
	}
}

func (p *Parser) parseBitwise() Expr {
	lhs := p.parseAdditive()
	for p.at(TokAmp) || p.at(TokPipe) {
		op := OpBitAnd
		if p.at(TokPipe) {
			op = OpBitOr
		}
		p.advance()
		rhs := p.parseAdditive()
		lhs = &BinaryExpr{NodeBase: NodeBase{Location: lhs.Range()}, Op: op, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseAdditive() Expr {
	lhs := p.parseMultiplicative()
	for p.at(TokPlus) || p.at(TokMinus) {
		op := OpAdd
		if p.at(TokMinus) {
			op = OpSub
		}
		p.advance()
		rhs := p.parseMultiplicative()
		lhs = &BinaryExpr{NodeBase: NodeBase{Location: lhs.Range()}, Op: op, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseMultiplicative() Expr {
	lhs := p.parseUnary()
	for p.at(TokStar) || p.at(TokSlash) || p.at(TokPercent) {
		var op BinaryOp
		switch p.cur().Kind {
		case TokStar:
			op = OpMul
		case TokSlash:
			op = OpDiv
		default:
			op = OpMod
		}
		p.advance()
		rhs := p.parseUnary()
		lhs = &BinaryExpr{NodeBase: NodeBase{Location: lhs.Range()}, Op: op, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) parseUnary() Expr {
	switch p.cur().Kind {
	case TokMinus, TokBang, TokAmp, TokStar:
		tok := p.advance()
		var op UnaryOp
		switch tok.Kind {
		case TokMinus:
			op = OpNeg
		case TokBang:
			op = OpNot
		case TokAmp:
			op = OpAddr
		default:
			op = OpDeref
		}
		operand := p.parseUnary()
		return &UnaryExpr{NodeBase: NodeBase{Location: tok.Location}, Op: op, Operand: operand}
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() Expr {
	x := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case TokLParen:
			p.advance()
			var args []Expr
			for !p.at(TokRParen) && !p.at(TokEOF) {
				args = append(args, p.parseExpr())
				if p.at(TokComma) {
					p.advance()
					continue
				}
				break
			}
			p.expect(TokRParen)
			x = &CallExpr{NodeBase: NodeBase{Location: x.Range()}, Callee: x, Args: args}
		case TokLBracket:
			p.advance()
			idx := p.parseExpr()
			p.expect(TokRBracket)
			x = &IndexExpr{NodeBase: NodeBase{Location: x.Range()}, Base: x, Index: idx}
		case TokDot:
			p.advance()
			fieldTok, _ := p.expect(TokIdentifier)
			x = &FieldExpr{NodeBase: NodeBase{Location: x.Range()}, Base: x, Field: fieldTok.Text}
		default:
			return x
		}
	}
}

func (p *Parser) parsePrimary() Expr {
	tok := p.cur()
	switch tok.Kind {
	case TokIntLiteral:
		p.advance()
		v, _ := parseIntLiteralText(tok.Text)
		return &IntLiteral{NodeBase: NodeBase{Location: tok.Location}, Text: tok.Text, Value: v}
	case TokFloatLiteral:
		p.advance()
		f, _ := strconv.ParseFloat(strings.ReplaceAll(tok.Text, "_", ""), 64)
		return &FloatLiteral{NodeBase: NodeBase{Location: tok.Location}, Text: tok.Text, Value: f}
	case TokKwTrue, TokKwFalse:
		p.advance()
		return &BoolLiteral{NodeBase: NodeBase{Location: tok.Location}, Value: tok.Kind == TokKwTrue}
	case TokCharLiteral:
		p.advance()
		body := unquote(tok.Text)
		var r rune
		for _, rr := range body {
			r = rr
			break
		}
		return &CharLiteral{NodeBase: NodeBase{Location: tok.Location}, Raw: tok.Text, Value: r}
	case TokStringLiteral:
		p.advance()
		return &StringLiteral{NodeBase: NodeBase{Location: tok.Location}, Raw: tok.Text, Value: unquote(tok.Text)}
	case TokIdentifier:
		p.advance()
		return &IdentExpr{NodeBase: NodeBase{Location: tok.Location}, Name: tok.Text}
	case TokKwSizeof:
		p.advance()
		p.expect(TokLParen)
		ty := p.parseType()
		p.expect(TokRParen)
		return &SizeofExpr{NodeBase: NodeBase{Location: tok.Location}, Operand: ty}
	case TokLParen:
		p.advance()
		x := p.parseExpr()
		p.expect(TokRParen)
		return x
	default:
		p.diags.Errorf(CodeInvalidExpression, tok.Location, "expected an expression, found %s", tok)
		p.advance()
		return &IdentExpr{NodeBase: NodeBase{Location: tok.Location}, Name: "<error>"}
	}
}

// parseIntLiteralText parses the lexer's raw integer text (decimal or
// 0x-prefixed hex, possibly with `_` digit separators) into its bit
// pattern. Overflow of the 64-bit staging value is not itself an
// error here — range checking against the resolved type happens in
// the semantic analyzer; a literal wider than 64
// bits yields the maximum uint64 value, and the analyzer skips the
// range check for 128-bit targets without reading Text.
func parseIntLiteralText(text string) (uint64, error) {
	clean := strings.ReplaceAll(text, "_", "")
	return strconv.ParseUint(clean, 0, 64)
}

// ---------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------

func (p *Parser) parseType() TypeExpr {
	tok := p.cur()
	switch tok.Kind {
	case TokStar:
		p.advance()
		mut := false
		if p.at(TokKwMut) {
			p.advance()
			mut = true
		}
		return &PointerType{NodeBase: NodeBase{Location: tok.Location}, Elem: p.parseType(), Mut: mut}
	case TokLBracket:
		p.advance()
		p.expect(TokRBracket)
		mut := false
		if p.at(TokKwMut) {
			p.advance()
			mut = true
		}
		return &SliceType{NodeBase: NodeBase{Location: tok.Location}, Elem: p.parseType(), Mut: mut}
	case TokKwFn:
		p.advance()
		ft := &FunctionType{NodeBase: NodeBase{Location: tok.Location}}
		p.expect(TokLParen)
		for !p.at(TokRParen) && !p.at(TokEOF) {
			ft.Params = append(ft.Params, p.parseType())
			if p.at(TokComma) {
				p.advance()
				continue
			}
			break
		}
		p.expect(TokRParen)
		if p.at(TokArrow) {
			p.advance()
			ft.Ret = p.parseType()
		}
		return ft
	case TokIdentifier:
		p.advance()
		return &NamedType{NodeBase: NodeBase{Location: tok.Location}, Name: tok.Text}
	default:
		p.diags.Errorf(CodeUnexpectedToken, tok.Location, "expected a type, found %s", tok)
		return &NamedType{NodeBase: NodeBase{Location: tok.Location}, Name: "<error>"}
	}
}
