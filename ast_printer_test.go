package ferrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyStringRendersProgram(t *testing.T) {
	prog, diags := ParseSource(FileID(0), []byte(`
		fn add(a: i32, b: i32) -> i32 {
			return a + b;
		}
	`))
	require.False(t, diags.HasErrors(), "%v", diags.Items())

	out := prog.PrettyString()
	assert.Contains(t, out, "Program(1 decls)")
	assert.Contains(t, out, "FuncDecl(add")
	assert.Contains(t, out, "BinaryExpr(+)")
	assert.Contains(t, out, "ReturnStmt")
}

func TestStringLabelsOfNodes(t *testing.T) {
	fd := &FuncDecl{Name: "f", IsPub: true}
	assert.Equal(t, "FuncDecl(f, pub=true, extern=false)", fd.String())

	ce := &CallExpr{Args: []Expr{&IntLiteral{}, &IntLiteral{}}}
	assert.Equal(t, "CallExpr(2 args)", ce.String())

	be := &BinaryExpr{Op: OpMul}
	assert.Equal(t, "BinaryExpr(*)", be.String())

	ue := &UnaryExpr{Op: OpNeg}
	assert.Equal(t, "UnaryExpr(-)", ue.String())
}

func TestPrettyStringHandlesNilSubtree(t *testing.T) {
	rs := &ReturnStmt{Value: nil}
	assert.Equal(t, "ReturnStmt\n", rs.PrettyString())
}
