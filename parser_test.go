package ferrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFuncDecl(t *testing.T) {
	t.Run("a simple function parses into one top-level decl", func(t *testing.T) {
		prog, diags := ParseSource(FileID(0), []byte("fn add(a: i32, b: i32) -> i32 { return a + b; }"))
		require.False(t, diags.HasErrors(), "%v", diags.Items())
		require.Len(t, prog.Decls, 1)
		fd, ok := prog.Decls[0].(*FuncDecl)
		require.True(t, ok)
		assert.Equal(t, "add", fd.Name)
		assert.Len(t, fd.Params, 2)
		require.NotNil(t, fd.Body)
		assert.Len(t, fd.Body.Stmts, 1)
	})

	t.Run("pub extern functions are recognized", func(t *testing.T) {
		prog, diags := ParseSource(FileID(0), []byte(`pub extern fn c_malloc(n: usize) -> usize;`))
		require.False(t, diags.HasErrors(), "%v", diags.Items())
		fd := prog.Decls[0].(*FuncDecl)
		assert.True(t, fd.IsPub)
		assert.True(t, fd.IsExtern)
		assert.Nil(t, fd.Body)
	})
}

func TestParseEnumDecl(t *testing.T) {
	t.Run("the bare none marker parses to zero variants", func(t *testing.T) {
		prog, diags := ParseSource(FileID(0), []byte("enum Empty { none }"))
		require.False(t, diags.HasErrors(), "%v", diags.Items())
		ed := prog.Decls[0].(*EnumDecl)
		assert.Equal(t, "Empty", ed.Name)
		assert.Len(t, ed.Variants, 0)
	})

	t.Run("payload and discriminant variants both parse", func(t *testing.T) {
		prog, diags := ParseSource(FileID(0), []byte("enum E { A(i32), B = 5, C }"))
		require.False(t, diags.HasErrors(), "%v", diags.Items())
		ed := prog.Decls[0].(*EnumDecl)
		require.Len(t, ed.Variants, 3)
		assert.Equal(t, "A", ed.Variants[0].Name)
		assert.NotNil(t, ed.Variants[0].Payload)
		assert.Equal(t, "B", ed.Variants[1].Name)
		assert.NotNil(t, ed.Variants[1].Value)
		assert.Equal(t, "C", ed.Variants[2].Name)
	})

	t.Run("a trailing comma before the closing brace is rejected", func(t *testing.T) {
		_, diags := ParseSource(FileID(0), []byte("enum E { A, }"))
		require.True(t, diags.HasErrors())
		assert.Equal(t, CodeTrailingComma, diags.Items()[0].Code)
	})
}

func TestParseStructDecl(t *testing.T) {
	t.Run("fields with types parse in order", func(t *testing.T) {
		prog, diags := ParseSource(FileID(0), []byte("struct Point { x: i32, y: i32 }"))
		require.False(t, diags.HasErrors(), "%v", diags.Items())
		sd := prog.Decls[0].(*StructDecl)
		require.Len(t, sd.Fields, 2)
		assert.Equal(t, "x", sd.Fields[0].Name)
		assert.Equal(t, "y", sd.Fields[1].Name)
	})
}

func TestParserRecovery(t *testing.T) {
	t.Run("a stray token at top level is reported and skipped", func(t *testing.T) {
		prog, diags := ParseSource(FileID(0), []byte("%% fn ok() {}"))
		require.True(t, diags.HasErrors())
		require.Len(t, prog.Decls, 1)
		assert.Equal(t, "ok", prog.Decls[0].(*FuncDecl).Name)
	})

	t.Run("the legacy @annotation form fails only the annotated declaration", func(t *testing.T) {
		prog, diags := ParseSource(FileID(0), []byte("@deprecated fn old() {} fn new() {}"))
		require.True(t, diags.HasErrors())
		found := false
		for _, d := range diags.Items() {
			if d.Code == CodeLegacyAnnotation {
				found = true
			}
		}
		assert.True(t, found)
		var names []string
		for _, d := range prog.Decls {
			names = append(names, d.(*FuncDecl).Name)
		}
		assert.Contains(t, names, "new")
	})
}

func TestParseExprPrecedence(t *testing.T) {
	t.Run("multiplication binds tighter than addition", func(t *testing.T) {
		prog, diags := ParseSource(FileID(0), []byte("fn f() { return 1 + 2 * 3; }"))
		require.False(t, diags.HasErrors(), "%v", diags.Items())
		fd := prog.Decls[0].(*FuncDecl)
		ret := fd.Body.Stmts[0].(*ReturnStmt)
		bin := ret.Value.(*BinaryExpr)
		assert.Equal(t, OpAdd, bin.Op)
		rhs, ok := bin.RHS.(*BinaryExpr)
		require.True(t, ok)
		assert.Equal(t, OpMul, rhs.Op)
	})
}
