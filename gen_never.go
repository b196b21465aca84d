package ferrite

// markNeverTerminatingEdges is the transform half of never-type
// handling (detection lives in sema_exhaustive.go's
// IsNeverTerminatingCallee, reused here): any block whose instruction stream contains a call to
// a never-terminating callee loses its successor edges at that point —
// control can't fall through a panic/abort/exit — and the remaining
// instructions in the block (already present only to keep debug
// addressing, per gen_plan.go's INop insertion) move into a detached
// block flagged Unreachable so CFG.markUnreachableBlocks's later BFS
// drops them from the live graph.
func markNeverTerminatingEdges(cfg *CFG, analyzer *Analyzer) {
	for _, b := range cfg.Blocks {
		idx := neverTerminatingCallIndex(b)
		if idx < 0 {
			continue
		}
		if idx < len(b.Instrs)-1 {
			tail := b.Instrs[idx+1:]
			b.Instrs = b.Instrs[:idx+1]
			detached := cfg.newBlock()
			detached.Instrs = tail
			detached.Unreachable = true
		}
		b.Succs = nil
	}
	attachBranchHints(cfg)
}

// neverTerminatingCallIndex returns the index of the first ICall
// instruction in b whose callee is classified as never-terminating, or
// -1 if none is present. Only the callee name is available at this
// point in the stream (the planner doesn't retain per-call resolved
// types on the instruction itself), which matches
// IsNeverTerminatingCallee's documented name-based fallback path.
func neverTerminatingCallIndex(b *BasicBlock) int {
	for i, instr := range b.Instrs {
		if call, ok := instr.(ICall); ok && IsNeverTerminatingCallee(nil, call.Callee) {
			return i
		}
	}
	return -1
}

// attachBranchHints hints a conditional branch away from an arm that
// provably never terminates: a dead-end then-arm gets UNLIKELY, a
// dead-end else-arm gets LIKELY — e.g. `if cond { ... } else { panic(...) }`
// hints the then-branch LIKELY.
func attachBranchHints(cfg *CFG) {
	for _, b := range cfg.Blocks {
		if len(b.Instrs) == 0 {
			continue
		}
		last := len(b.Instrs) - 1
		br, ok := b.Instrs[last].(IBranch)
		if !ok {
			continue
		}
		thenDead := blockIsDeadEnd(cfg, br.Then)
		elseDead := blockIsDeadEnd(cfg, br.Else)
		switch {
		case thenDead && !elseDead:
			br.Hint = HintUnlikely
		case elseDead && !thenDead:
			br.Hint = HintLikely
		default:
			continue
		}
		b.Instrs[last] = br
	}
}

// blockIsDeadEnd reports whether target has no successors and its
// final instruction is a call the planner truncated as never-
// terminating — i.e. it was detached by markNeverTerminatingEdges.
func blockIsDeadEnd(cfg *CFG, target BlockID) bool {
	b := cfg.block(target)
	if len(b.Succs) > 0 {
		return false
	}
	return neverTerminatingCallIndex(b) >= 0
}
