package ferrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntLiteralRange(t *testing.T) {
	t.Run("in-range i8 literal analyzes cleanly", func(t *testing.T) {
		src := []byte("fn f() { let x: i8 = 127; }\n")
		prog, diags := ParseSource(FileID(0), src)
		require.False(t, diags.HasErrors())

		a := NewAnalyzer(NewConfig())
		out := a.Analyze(prog)
		assert.False(t, out.HasErrors(), "%v", out.Items())
	})

	t.Run("out-of-range i8 literal reports INVALID_LITERAL", func(t *testing.T) {
		src := []byte("fn f() { let x: i8 = 128; }\n")
		prog, diags := ParseSource(FileID(0), src)
		require.False(t, diags.HasErrors())

		a := NewAnalyzer(NewConfig())
		out := a.Analyze(prog)
		require.True(t, out.HasErrors())
		found := false
		for _, d := range out.Items() {
			if d.Code == CodeInvalidLiteral {
				found = true
			}
		}
		assert.True(t, found, "%v", out.Items())
	})

	t.Run("negated literal at the signed minimum is accepted", func(t *testing.T) {
		src := []byte("fn f() { let x: i8 = -128; }\n")
		prog, diags := ParseSource(FileID(0), src)
		require.False(t, diags.HasErrors())

		a := NewAnalyzer(NewConfig())
		out := a.Analyze(prog)
		assert.False(t, out.HasErrors(), "%v", out.Items())
	})

	t.Run("negated literal one past the signed minimum is rejected", func(t *testing.T) {
		src := []byte("fn f() { let x: i8 = -129; }\n")
		prog, diags := ParseSource(FileID(0), src)
		require.False(t, diags.HasErrors())

		a := NewAnalyzer(NewConfig())
		out := a.Analyze(prog)
		assert.True(t, out.HasErrors())
	})

	t.Run("unannotated literal defaults to i32", func(t *testing.T) {
		lit := &IntLiteral{Text: "5", Value: 5}
		a := NewAnalyzer(NewConfig())
		a.analyzeIntLiteral(lit, nil)
		require.NotNil(t, lit.ResolvedType)
		assert.Equal(t, "i32", lit.ResolvedType.Name)
	})

	t.Run("i128 and u128 skip range checking", func(t *testing.T) {
		a := NewAnalyzer(NewConfig())
		lit := &IntLiteral{Text: "340282366920938463463374607431768211455", Value: ^uint64(0)}
		a.analyzeIntLiteral(lit, a.builtins.GetBuiltin("u128"))
		assert.False(t, a.diags.HasErrors())
	})
}

func TestNormalizeMultilineString(t *testing.T) {
	t.Run("strips the common leading indent across non-empty lines", func(t *testing.T) {
		raw := "\n    hello\n    world\n  "
		got := NormalizeMultilineString(raw)
		assert.Equal(t, "\nhello\nworld\n", got)
	})

	t.Run("is idempotent", func(t *testing.T) {
		raw := "\n    hello\n    world\n  "
		once := NormalizeMultilineString(raw)
		twice := NormalizeMultilineString(once)
		assert.Equal(t, once, twice)
	})

	t.Run("single-line strings pass through unchanged", func(t *testing.T) {
		assert.Equal(t, "hello", NormalizeMultilineString("hello"))
	})
}

func TestCharLiteralStrictMode(t *testing.T) {
	t.Run("strict mode requires an explicit annotation", func(t *testing.T) {
		cfg := NewConfig()
		cfg.SetBool("analyzer.char_literal_requires_annotation", true)
		a := NewAnalyzer(cfg)
		lit := &CharLiteral{Raw: "'a'", Value: 'a'}
		a.analyzeCharLiteral(lit, nil)
		assert.True(t, a.diags.HasErrors())
	})

	t.Run("non-strict mode accepts a bare char literal", func(t *testing.T) {
		cfg := NewConfig()
		cfg.SetBool("analyzer.char_literal_requires_annotation", false)
		a := NewAnalyzer(cfg)
		lit := &CharLiteral{Raw: "'a'", Value: 'a'}
		a.analyzeCharLiteral(lit, nil)
		assert.False(t, a.diags.HasErrors())
		assert.Equal(t, "char", lit.ResolvedType.Name)
	})
}
