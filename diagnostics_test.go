package ferrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticError(t *testing.T) {
	loc := SourceLocation{FileID: FileID(0)}

	t.Run("without a suggestion", func(t *testing.T) {
		d := Diagnostic{Severity: SeverityError, Code: CodeUndefinedSymbol, Message: "undefined `x`", Location: loc}
		assert.Contains(t, d.Error(), "undefined `x`")
		assert.Contains(t, d.Error(), string(CodeUndefinedSymbol))
		assert.NotContains(t, d.Error(), "did you mean")
	})

	t.Run("with a suggestion", func(t *testing.T) {
		d := Diagnostic{Severity: SeverityError, Code: CodeUndefinedSymbol, Message: "undefined `x`", Location: loc, Suggestion: "xs"}
		assert.Contains(t, d.Error(), "did you mean `xs`?")
	})
}

func TestDiagnosticIsError(t *testing.T) {
	assert.True(t, Diagnostic{Severity: SeverityError}.IsError())
	assert.False(t, Diagnostic{Severity: SeverityWarning}.IsError())
}

func TestDiagnosticsAccumulate(t *testing.T) {
	var d Diagnostics
	assert.False(t, d.HasErrors())
	assert.Equal(t, 0, d.Len())

	loc := SourceLocation{FileID: FileID(0)}
	d.Warnf(CodeLegacyAnnotation, loc, "legacy annotation %q", "@old")
	assert.False(t, d.HasErrors())
	assert.Equal(t, 1, d.Len())

	d.Errorf(CodeUndefinedSymbol, loc, "undefined `%s`", "y")
	assert.True(t, d.HasErrors())
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, SeverityError, d.Items()[1].Severity)
	assert.Contains(t, d.Items()[1].Message, "undefined `y`")
}
