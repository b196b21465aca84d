package ferrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) ([]Token, *Diagnostics) {
	t.Helper()
	diags := &Diagnostics{}
	l := NewLexer(FileID(0), []byte(src), diags)
	return l.Tokenize(), diags
}

func TestLexerTokenKinds(t *testing.T) {
	t.Run("keywords, identifiers and punctuation", func(t *testing.T) {
		toks, diags := lexAll(t, "fn foo(x: i32) -> i32 { return x; }")
		require.False(t, diags.HasErrors())
		kinds := make([]TokenKind, 0, len(toks))
		for _, tok := range toks {
			kinds = append(kinds, tok.Kind)
		}
		assert.Equal(t, TokKwFn, kinds[0])
		assert.Equal(t, TokIdentifier, kinds[1])
		assert.Equal(t, TokLParen, kinds[2])
		assert.Equal(t, TokEOF, kinds[len(kinds)-1])
	})

	t.Run("two-char operators take priority over one-char", func(t *testing.T) {
		toks, diags := lexAll(t, "a == b -> c")
		require.False(t, diags.HasErrors())
		var kinds []TokenKind
		for _, tok := range toks {
			kinds = append(kinds, tok.Kind)
		}
		assert.Contains(t, kinds, TokEq)
		assert.Contains(t, kinds, TokArrow)
		assert.NotContains(t, kinds, TokAssign)
	})

	t.Run("ellipsis is lexed before single dots", func(t *testing.T) {
		toks, _ := lexAll(t, "...")
		assert.Equal(t, TokEllipsis, toks[0].Kind)
	})

	t.Run("string and char literals retain raw text", func(t *testing.T) {
		toks, diags := lexAll(t, `"hi" 'x'`)
		require.False(t, diags.HasErrors())
		assert.Equal(t, TokStringLiteral, toks[0].Kind)
		assert.Equal(t, `"hi"`, toks[0].Text)
		assert.Equal(t, TokCharLiteral, toks[1].Kind)
		assert.Equal(t, `'x'`, toks[1].Text)
	})

	t.Run("legacy @annotation syntax lexes as an error token", func(t *testing.T) {
		toks, _ := lexAll(t, "@deprecated")
		assert.Equal(t, TokError, toks[0].Kind)
		assert.Equal(t, "@deprecated", toks[0].Text)
	})

	t.Run("an unknown byte reports UNEXPECTED_TOKEN and keeps scanning", func(t *testing.T) {
		toks, diags := lexAll(t, "a `b")
		require.True(t, diags.HasErrors())
		assert.Equal(t, CodeUnexpectedToken, diags.Items()[0].Code)
		var kinds []TokenKind
		for _, tok := range toks {
			kinds = append(kinds, tok.Kind)
		}
		assert.Contains(t, kinds, TokIdentifier)
	})

	t.Run("CRLF line endings are accepted", func(t *testing.T) {
		_, diags := lexAll(t, "fn f() {\r\n return 1;\r\n}\r\n")
		assert.False(t, diags.HasErrors())
	})
}

func TestUnquote(t *testing.T) {
	t.Run("resolves backslash escapes", func(t *testing.T) {
		assert.Equal(t, "a\nb", unquote(`"a\nb"`))
		assert.Equal(t, "tab\there", unquote(`"tab\there"`))
	})

	t.Run("passes through a body with no escapes untouched", func(t *testing.T) {
		assert.Equal(t, "plain", unquote(`"plain"`))
	})
}
