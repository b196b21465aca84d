package ferrite

// CodegenPlan is the code-gen planner's complete output for one
// compilation unit: a CFG per function, a linkage
// plan per top-level const, and an FFI marshaling plan per extern call
// site encountered while lowering. It's the hand-off artifact a real
// backend (LLVM IR emitter, bytecode assembler, ...) would consume;
// this planner stops at the plan, it never emits machine code.
type CodegenPlan struct {
	Funcs  map[string]*CFG
	Consts []ConstPlan
	FFI    []FFICallPlan
}

// Planner lowers an analyzed Program into a CodegenPlan. It assumes
// the Program already went through Analyzer.Analyze — ResolvedType,
// Flags, and the unreachable-statement set are read, never recomputed.
type Planner struct {
	cfg         *Config
	analyzer    *Analyzer
	diags       *Diagnostics
	cur         *CFG
	block       *BasicBlock
	slots       map[string]int
	nextSlot    int
	externFuncs map[string]*FuncDecl
	ffiPlans    []FFICallPlan
}

// NewPlanner builds a Planner bound to the Analyzer that produced the
// Program's semantic annotations — the planner consumes its
// constVals/unreachable maps directly rather than re-deriving them.
func NewPlanner(cfg *Config, analyzer *Analyzer) *Planner {
	return &Planner{cfg: cfg, analyzer: analyzer, diags: &Diagnostics{}}
}

// Plan lowers every declaration in prog and returns the resulting plan
// plus any diagnostics raised during lowering (principally
// CodeFFIBoundaryError from a call whose argument types the FFI
// marshaling table can't classify).
func (p *Planner) Plan(prog *Program) (*CodegenPlan, *Diagnostics) {
	out := &CodegenPlan{Funcs: make(map[string]*CFG)}
	p.externFuncs = make(map[string]*FuncDecl)
	for _, d := range prog.Decls {
		if fd, ok := d.(*FuncDecl); ok && fd.IsExtern {
			p.externFuncs[fd.Name] = fd
		}
	}
	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *FuncDecl:
			if n.Body == nil {
				continue
			}
			out.Funcs[n.Name] = p.planFunc(n)
		case *ConstDecl:
			if val, ok := p.analyzer.constVals[n.Name]; ok {
				out.Consts = append(out.Consts, planConstDecl(n, val))
			}
		}
	}
	out.FFI = p.ffiPlans
	return out, p.diags
}

// planFunc lowers one function body into a fresh CFG: parameters get
// the first local slots, statements append to the current block, and
// the never-terminating-call transform plus the reachability BFS run
// over the finished graph before it is returned.
func (p *Planner) planFunc(fd *FuncDecl) *CFG {
	p.cur = newCFG(fd)
	p.slots = make(map[string]int)
	p.nextSlot = 0
	for i, param := range fd.Params {
		p.slots[param.Name] = i
		p.nextSlot = i + 1
	}

	entry := p.cur.newBlock()
	p.cur.Entry = entry.ID
	p.block = entry

	p.lowerBlock(fd.Body)

	if p.block != nil && !p.blockEndsInReturn(p.block) {
		p.emit(IReturn{HasValue: false, sl: fd.Location})
	}

	if p.cfg == nil || p.cfg.GetInt("codegen.optimize") > 0 {
		markNeverTerminatingEdges(p.cur, p.analyzer)
	}
	p.cur.markUnreachableBlocks()
	return p.cur
}

func (p *Planner) blockEndsInReturn(b *BasicBlock) bool {
	if len(b.Instrs) == 0 {
		return false
	}
	switch b.Instrs[len(b.Instrs)-1].(type) {
	case IReturn, IJump:
		return true
	}
	return false
}

func (p *Planner) emit(instr Instruction) {
	if p.block == nil {
		return
	}
	p.block.Instrs = append(p.block.Instrs, instr)
}

func (p *Planner) slotFor(name string) int {
	if id, ok := p.slots[name]; ok {
		return id
	}
	id := p.nextSlot
	p.slots[name] = id
	p.nextSlot++
	return id
}

func (p *Planner) lowerBlock(b *Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		if p.analyzer != nil && p.analyzer.IsUnreachable(s) {
			p.emit(INop{sl: s.Range()})
			continue
		}
		p.lowerStmt(s)
	}
}

func (p *Planner) lowerStmt(s Stmt) {
	switch n := s.(type) {
	case *VarDecl:
		if n.Value != nil {
			p.lowerExpr(n.Value)
		} else {
			p.emit(IConst{sl: n.Location})
		}
		p.emit(IStore{Slot: p.slotFor(n.Name), sl: n.Location})
	case *ExprStmt:
		p.lowerExpr(n.X)
	case *ReturnStmt:
		if n.Value != nil {
			p.lowerExpr(n.Value)
			p.emit(IReturn{HasValue: true, sl: n.Location})
		} else {
			p.emit(IReturn{HasValue: false, sl: n.Location})
		}
	case *IfStmt:
		p.lowerIf(n)
	case *ForInStmt:
		p.lowerForIn(n)
	case *MatchStmt:
		p.lowerMatch(n)
	case *Block:
		p.lowerBlock(n)
	}
}

func (p *Planner) lowerIf(n *IfStmt) {
	p.lowerExpr(n.Cond)
	condBlock := p.block

	thenEntry := p.cur.newBlock()
	p.cur.addEdge(condBlock.ID, thenEntry.ID)
	p.block = thenEntry
	p.lowerBlock(n.Then)
	thenExit := p.block

	var elseEntry *BasicBlock
	var elseExit *BasicBlock
	if n.Else != nil {
		elseEntry = p.cur.newBlock()
		p.cur.addEdge(condBlock.ID, elseEntry.ID)
		p.block = elseEntry
		p.lowerStmt(n.Else)
		elseExit = p.block
	}

	join := p.cur.newBlock()
	if thenExit != nil && !p.blockEndsInReturn(thenExit) {
		p.cur.addEdge(thenExit.ID, join.ID)
	}
	if elseEntry != nil {
		if elseExit != nil && !p.blockEndsInReturn(elseExit) {
			p.cur.addEdge(elseExit.ID, join.ID)
		}
	} else {
		p.cur.addEdge(condBlock.ID, join.ID)
	}

	condBlock.Instrs = append(condBlock.Instrs, IBranch{
		Then: thenEntry.ID,
		Else: elseBlockID(elseEntry, join),
		sl:   n.Location,
	})
	p.block = join
}

func elseBlockID(elseEntry, join *BasicBlock) BlockID {
	if elseEntry != nil {
		return elseEntry.ID
	}
	return join.ID
}

func (p *Planner) lowerForIn(n *ForInStmt) {
	p.lowerExpr(n.Iterable)
	head := p.cur.newBlock()
	p.cur.addEdge(p.block.ID, head.ID)

	body := p.cur.newBlock()
	after := p.cur.newBlock()
	head.Instrs = append(head.Instrs, IBranch{Then: body.ID, Else: after.ID, sl: n.Location})
	p.cur.addEdge(head.ID, body.ID)
	p.cur.addEdge(head.ID, after.ID)

	p.block = body
	p.emit(IStore{Slot: p.slotFor(n.Binding), sl: n.Location})
	p.lowerBlock(n.Body)
	if p.block != nil && !p.blockEndsInReturn(p.block) {
		p.emit(IJump{Target: head.ID, sl: n.Location})
		p.cur.addEdge(p.block.ID, head.ID)
	}

	p.block = after
}

func (p *Planner) lowerMatch(n *MatchStmt) {
	p.lowerExpr(n.Subject)
	subjectBlock := p.block
	join := p.cur.newBlock()

	for _, arm := range n.Arms {
		armBlock := p.cur.newBlock()
		p.cur.addEdge(subjectBlock.ID, armBlock.ID)
		p.block = armBlock
		p.lowerBlock(arm.Body)
		if p.block != nil && !p.blockEndsInReturn(p.block) {
			p.cur.addEdge(p.block.ID, join.ID)
		}
	}
	p.block = join
}

func (p *Planner) lowerExpr(e Expr) {
	switch n := e.(type) {
	case *IntLiteral, *FloatLiteral, *BoolLiteral, *CharLiteral, *StringLiteral:
		p.emit(IConst{sl: e.Range()})
	case *IdentExpr:
		p.emit(ILoad{Slot: p.slotFor(n.Name), sl: n.Location})
	case *BinaryExpr:
		p.lowerExpr(n.LHS)
		p.lowerExpr(n.RHS)
		p.emit(IBinOp{Op: n.Op, sl: n.Location})
	case *UnaryExpr:
		p.lowerExpr(n.Operand)
		p.emit(IUnOp{Op: n.Op, sl: n.Location})
	case *CallExpr:
		for _, a := range n.Args {
			p.lowerExpr(a)
		}
		calleeName, isFFI := p.calleeInfo(n.Callee)
		p.emit(ICall{Callee: calleeName, Argc: len(n.Args), FFI: isFFI, sl: n.Location})
		if isFFI {
			p.planFFISite(n, calleeName)
		}
	case *IndexExpr:
		p.lowerExpr(n.Base)
		p.lowerExpr(n.Index)
		p.emit(IIndex{sl: n.Location})
	case *FieldExpr:
		p.lowerExpr(n.Base)
		p.emit(IFieldGet{Field: n.Field, sl: n.Location})
	case *SizeofExpr:
		p.emit(IConst{sl: n.Location})
	}
}

func (p *Planner) calleeInfo(callee Expr) (string, bool) {
	id, ok := callee.(*IdentExpr)
	if !ok {
		return "", false
	}
	_, isExtern := p.externFuncs[id.Name]
	return id.Name, isExtern
}

// planFFISite builds the marshaling plan for one extern call site,
// recording a CodeFFIBoundaryError if any argument's resolved type
// can't be classified. Each argument's transfer discipline comes from
// the callee declaration's per-parameter annotations; an unannotated
// parameter defaults to transfer_full.
func (p *Planner) planFFISite(call *CallExpr, calleeName string) {
	entry, ok := p.analyzer.global.Lookup(calleeName)
	if !ok || entry.Type == nil || entry.Type.Category != CategoryFunction {
		return
	}
	fd := p.externFuncs[calleeName]
	transfers := make([]FFITransfer, len(entry.Type.Params))
	for i := range transfers {
		transfers[i] = TransferFull
		if fd != nil && i < len(fd.Params) {
			if anns := FindTransfers(fd.Params[i].Annotations); len(anns) > 0 {
				transfers[i] = anns[0].Transfer
			}
		}
	}
	plan, ok := planFFICall(calleeName, entry.Type.Params, transfers, entry.Type.ReturnType)
	if !ok {
		p.diags.Errorf(CodeFFIBoundaryError, call.Location, "cannot classify FFI argument types for call to %q", calleeName)
		return
	}
	p.ffiPlans = append(p.ffiPlans, plan)
}
