package ferrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzeSource(t *testing.T, src string) (*Program, *Diagnostics) {
	t.Helper()
	prog, parseDiags := ParseSource(FileID(0), []byte(src))
	require.False(t, parseDiags.HasErrors(), "parse: %v", parseDiags.Items())
	a := NewAnalyzer(NewConfig())
	return prog, a.Analyze(prog)
}

func TestUndefinedSymbolSuggestsNearestName(t *testing.T) {
	_, diags := analyzeSource(t, `
		fn f() {
			let counter: i32 = 0;
			let x: i32 = countr;
		}
	`)
	require.True(t, diags.HasErrors())
	var d Diagnostic
	for _, item := range diags.Items() {
		if item.Code == CodeUndefinedSymbol {
			d = item
		}
	}
	assert.Equal(t, "counter", d.Suggestion)
}

func TestUndefinedSymbolWithNoCloseNameHasNoSuggestion(t *testing.T) {
	_, diags := analyzeSource(t, `
		fn f() {
			let x: i32 = zzzzzzzzzzzzzzzzzzzz;
		}
	`)
	require.True(t, diags.HasErrors())
	for _, item := range diags.Items() {
		if item.Code == CodeUndefinedSymbol {
			assert.Equal(t, "", item.Suggestion)
		}
	}
}

func TestFFITransferConflict(t *testing.T) {
	t.Run("two transfer annotations on the same parameter conflict", func(t *testing.T) {
		_, diags := analyzeSource(t, `
			extern fn free_buf(#[transfer_full] #[borrowed] p: usize);
		`)
		require.True(t, diags.HasErrors())
		codes := collectCodes(diags)
		assert.Contains(t, codes, CodeConflictingAnnotations)
	})

	t.Run("borrowed is not valid on a function's own (return) annotations", func(t *testing.T) {
		_, diags := analyzeSource(t, `
			#[borrowed]
			extern fn get_buf() -> usize;
		`)
		require.True(t, diags.HasErrors())
		assert.Contains(t, collectCodes(diags), CodeInvalidContext)
	})

	t.Run("a single transfer annotation is accepted", func(t *testing.T) {
		_, diags := analyzeSource(t, `
			extern fn free_buf(#[transfer_full] p: usize);
		`)
		assert.False(t, diags.HasErrors(), "%v", diags.Items())
	})
}

func TestOwnershipZoneMismatch(t *testing.T) {
	t.Run("a gc field inside a manually-owned struct is rejected", func(t *testing.T) {
		_, diags := analyzeSource(t, `
			#[ownership(c)]
			struct Node {
				#[ownership(gc)]
				next: i32,
			}
		`)
		require.True(t, diags.HasErrors())
		assert.Contains(t, collectCodes(diags), CodeZoneMismatch)
	})

	t.Run("a pinned field inside a gc struct is fine", func(t *testing.T) {
		_, diags := analyzeSource(t, `
			struct Node {
				#[ownership(pinned)]
				next: i32,
			}
		`)
		assert.False(t, diags.HasErrors(), "%v", diags.Items())
	})
}

func TestNeverTerminatingCallMarksUnreachable(t *testing.T) {
	prog, diags := ParseSource(FileID(0), []byte(`
		extern fn panic() -> never;
		fn f() {
			panic();
			let x: i32 = 1;
		}
	`))
	require.False(t, diags.HasErrors())
	a := NewAnalyzer(NewConfig())
	out := a.Analyze(prog)
	assert.False(t, out.HasErrors(), "%v", out.Items())

	fd := prog.Decls[1].(*FuncDecl)
	require.Len(t, fd.Body.Stmts, 2)
	assert.False(t, a.IsUnreachable(fd.Body.Stmts[0]))
	assert.True(t, a.IsUnreachable(fd.Body.Stmts[1]))
}

func TestIsNeverTerminatingCallee(t *testing.T) {
	t.Run("matches fixed sentinel names", func(t *testing.T) {
		assert.True(t, IsNeverTerminatingCallee(nil, "panic"))
		assert.True(t, IsNeverTerminatingCallee(nil, "abort"))
		assert.False(t, IsNeverTerminatingCallee(nil, "compute"))
	})

	t.Run("matches the _never/_panic naming convention", func(t *testing.T) {
		assert.True(t, IsNeverTerminatingCallee(nil, "die_panic"))
		assert.True(t, IsNeverTerminatingCallee(nil, "assert_never"))
	})

	t.Run("matches a function type whose return type is never", func(t *testing.T) {
		fnType := &TypeDescriptor{Category: CategoryFunction, ReturnType: &TypeDescriptor{Category: CategoryNever}}
		assert.True(t, IsNeverTerminatingCallee(fnType, "whatever"))
	})
}

func collectCodes(diags *Diagnostics) []Code {
	var out []Code
	for _, d := range diags.Items() {
		out = append(out, d.Code)
	}
	return out
}
