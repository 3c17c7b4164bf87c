package exprparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevewpalmer/jcom/ast"
	"github.com/stevewpalmer/jcom/diag"
	"github.com/stevewpalmer/jcom/lexer"
	"github.com/stevewpalmer/jcom/symtab"
	"github.com/stevewpalmer/jcom/token"
	"github.com/stevewpalmer/jcom/variant"
)

// stubResolver satisfies Resolver for tests that need identifiers to
// resolve successfully without a full compiler scope stack.
type stubResolver struct {
	syms map[string]*symtab.Symbol
}

func (s *stubResolver) Resolve(name string) *symtab.Symbol {
	return s.syms[strings.ToUpper(name)]
}

func tokensOf(t *testing.T, src string) []token.Token {
	t.Helper()
	l := lexer.New(src, "", 1)
	return l.TokenizeAll()
}

func parse(t *testing.T, src string, resolver Resolver) (*ast.Node, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(4, false)
	p := New(tokensOf(t, src), bag, resolver)
	return p.Parse(), bag
}

func TestPrecedenceMultiplicationBeforeAddition(t *testing.T) {
	n, bag := parse(t, "2 + 3 * 4", nil)
	require.False(t, bag.HasErrors())
	assert.Equal(t, ast.Number, n.Kind)
	assert.Equal(t, int32(14), n.Value.AsInt32())
}

func TestPowerIsRightAssociative(t *testing.T) {
	n, bag := parse(t, "2 ^ 3 ^ 2", nil)
	require.False(t, bag.HasErrors())
	// 2 ^ (3 ^ 2) = 2 ^ 9 = 512, not (2 ^ 3) ^ 2 = 64
	assert.InDelta(t, 512, n.Value.AsFloat64(), 0.001)
}

func TestUnaryMinusBindsLooserThanPower(t *testing.T) {
	n, bag := parse(t, "-2 ^ 2", nil)
	require.False(t, bag.HasErrors())
	assert.InDelta(t, -4, n.Value.AsFloat64(), 0.001)
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	n, bag := parse(t, "(2 + 3) * 4", nil)
	require.False(t, bag.HasErrors())
	assert.Equal(t, int32(20), n.Value.AsInt32())
}

func TestAlgebraicIdentityAddZero(t *testing.T) {
	resolver := &stubResolver{syms: map[string]*symtab.Symbol{
		"X": {Name: "X", Class: symtab.ClassVariable},
	}}
	n, bag := parse(t, "x + 0", resolver)
	require.False(t, bag.HasErrors())
	assert.Equal(t, ast.Ident, n.Kind)
}

func TestAlgebraicIdentityMulZero(t *testing.T) {
	resolver := &stubResolver{syms: map[string]*symtab.Symbol{
		"X": {Name: "X", Class: symtab.ClassVariable},
	}}
	n, bag := parse(t, "x * 0", resolver)
	require.False(t, bag.HasErrors())
	assert.Equal(t, ast.Number, n.Kind)
	assert.Equal(t, int32(0), n.Value.AsInt32())
}

func TestDivisionByZeroReportsDiagnostic(t *testing.T) {
	_, bag := parse(t, "1 / 0", nil)
	assert.True(t, bag.HasErrors())
}

func TestDivAndModLowerToIntrinsicCalls(t *testing.T) {
	n, bag := parse(t, "7 DIV 2", nil)
	require.False(t, bag.HasErrors())
	assert.Equal(t, ast.Call, n.Kind)
	assert.Equal(t, "IDIV", n.Callee)
}

func TestStringConcatenationFolds(t *testing.T) {
	n, bag := parse(t, `"foo" + "bar"`, nil)
	require.False(t, bag.HasErrors())
	assert.Equal(t, ast.StringLit, n.Kind)
	assert.Equal(t, "foobar", n.Value.S)
}

func TestComparisonFolds(t *testing.T) {
	n, bag := parse(t, "3 > 2", nil)
	require.False(t, bag.HasErrors())
	assert.Equal(t, int32(-1), n.Value.AsInt32())
}

func TestUndefinedVariableReportsDiagnostic(t *testing.T) {
	_, bag := parse(t, "nosuch", &stubResolver{syms: map[string]*symtab.Symbol{}})
	assert.True(t, bag.HasErrors())
}

func TestIntrinsicCallArityChecked(t *testing.T) {
	_, bag := parse(t, "ABS(1, 2)", nil)
	assert.True(t, bag.HasErrors())
}

func TestIntrinsicCallWellFormed(t *testing.T) {
	n, bag := parse(t, "ABS(-5)", nil)
	require.False(t, bag.HasErrors())
	assert.Equal(t, ast.Call, n.Kind)
	assert.Equal(t, "ABS", n.Callee)
}

func TestBooleanConstants(t *testing.T) {
	n, bag := parse(t, "TRUE", nil)
	require.False(t, bag.HasErrors())
	assert.Equal(t, int32(-1), n.Value.AsInt32())
}

func TestLogicalOperatorPrecedence(t *testing.T) {
	n, bag := parse(t, "1 = 1 AND 2 = 2", nil)
	require.False(t, bag.HasErrors())
	assert.Equal(t, variant.Int, n.Value.Kind)
}
