package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevewpalmer/jcom/ast"
	"github.com/stevewpalmer/jcom/lexer"
	"github.com/stevewpalmer/jcom/linestore"
)

func buildStore(t *testing.T, lines map[int]string) *linestore.Store {
	t.Helper()
	s := linestore.New()
	for n, src := range lines {
		l := lexer.New(src, "t.cml", n)
		s.Put(&linestore.Line{Number: n, Tokens: l.TokenizeAll(), Text: src})
	}
	return s
}

func TestCompileTopLevelStatements(t *testing.T) {
	s := buildStore(t, map[int]string{
		10: "x := 1",
		20: "x := x + 1",
	})
	c := New(s, Options{WarnLevel: 4})
	prog := c.Compile()
	assert.Len(t, prog.Statements, 2)
	assert.False(t, c.Diagnostics().HasErrors())
}

func TestCompileProcedureDefinition(t *testing.T) {
	s := buildStore(t, map[int]string{
		10: "PROC greet",
		20: "PRINT \"hi\"",
		30: "ENDPROC",
	})
	c := New(s, Options{WarnLevel: 4})
	prog := c.Compile()
	require.Len(t, prog.Routines, 1)
	assert.Equal(t, "greet", prog.Routines[0].Name)
	assert.False(t, c.Diagnostics().HasErrors())
}

func TestCompileFunctionWithoutReturnReportsError(t *testing.T) {
	s := buildStore(t, map[int]string{
		10: "FUNC double",
		20: "PRINT \"no return\"",
		30: "ENDFUNC",
	})
	c := New(s, Options{WarnLevel: 4})
	c.Compile()
	assert.True(t, c.Diagnostics().HasErrors())
}

func TestCompileDuplicateProcedureReportsError(t *testing.T) {
	s := buildStore(t, map[int]string{
		10: "PROC dup",
		20: "ENDPROC",
		30: "PROC dup",
		40: "ENDPROC",
	})
	c := New(s, Options{WarnLevel: 4})
	c.Compile()
	assert.True(t, c.Diagnostics().HasErrors())
}

func TestCompileClosedProcedureBodyHasIsolatedScope(t *testing.T) {
	s := buildStore(t, map[int]string{
		10: "PROC worker CLOSED",
		20: "x := 1",
		30: "ENDPROC",
	})
	c := New(s, Options{WarnLevel: 4})
	prog := c.Compile()
	require.Len(t, prog.Routines, 1)
	assert.Equal(t, ast.Procedure, prog.Routines[0].Kind)
	assert.True(t, prog.Routines[0].Closed)
}
