package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stevewpalmer/jcom/token"
	"github.com/stevewpalmer/jcom/variant"
)

func TestNewNumberIsLiteral(t *testing.T) {
	n := NewNumber(variant.NewInt(3), token.Position{Line: 1})
	assert.True(t, n.IsLiteral())
	assert.Equal(t, Number, n.Kind)
}

func TestNewBinaryNotLiteral(t *testing.T) {
	left := NewNumber(variant.NewInt(1), token.Position{})
	right := NewNumber(variant.NewInt(2), token.Position{})
	n := NewBinary(token.Plus, left, right, token.Position{})
	assert.False(t, n.IsLiteral())
	assert.Equal(t, BinaryOp, n.Kind)
	assert.Same(t, left, n.Left)
	assert.Same(t, right, n.Right)
}

func TestKindStringCoversEveryKind(t *testing.T) {
	for k := Number; k <= Import; k++ {
		assert.NotEqual(t, "Unknown", k.String())
	}
}

func TestNilNodeIsNotLiteral(t *testing.T) {
	var n *Node
	assert.False(t, n.IsLiteral())
}
