package linestore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stevewpalmer/jcom/token"
)

func line(n int, toks ...token.Token) *Line {
	toks = append(toks, token.Token{Type: token.EOL})
	return &Line{Number: n, Tokens: toks}
}

func TestPutKeepsOrderSorted(t *testing.T) {
	s := New()
	s.Put(line(30))
	s.Put(line(10))
	s.Put(line(20))
	assert.Equal(t, []int{10, 20, 30}, s.Numbers())
}

func TestPutReplacesExisting(t *testing.T) {
	s := New()
	s.Put(line(10, token.Token{Type: token.PRINT}))
	s.Put(line(10, token.Token{Type: token.Identifier, Literal: "x"}))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, token.Identifier, s.Get(10).Tokens[0].Type)
}

func TestDeleteAndDeleteRange(t *testing.T) {
	s := New()
	for _, n := range []int{10, 20, 30, 40} {
		s.Put(line(n))
	}
	assert.True(t, s.Delete(20))
	assert.False(t, s.Delete(20))
	assert.Equal(t, []int{10, 30, 40}, s.Numbers())

	n := s.DeleteRange(30, 100)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{10}, s.Numbers())
}

func TestFirstLastEmpty(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.First())
	assert.Equal(t, 0, s.Last())
}

func TestRenumber(t *testing.T) {
	s := New()
	s.Put(line(5))
	s.Put(line(15))
	s.Put(line(25))
	mapping := s.Renumber(10, 10)
	assert.Equal(t, []int{10, 20, 30}, s.Numbers())
	assert.Equal(t, 10, mapping[5])
	assert.Equal(t, 20, mapping[15])
	assert.Equal(t, 30, mapping[25])
}

func TestFindProcedure(t *testing.T) {
	s := New()
	s.Put(line(10, token.Token{Type: token.PROC}, token.Token{Type: token.Identifier, Literal: "greet"}))
	s.Put(line(20, token.Token{Type: token.PRINT}))
	s.Put(line(30, token.Token{Type: token.ENDPROC}))

	start, end := s.FindProcedure("GREET")
	assert.NotNil(t, start)
	assert.NotNil(t, end)
	assert.Equal(t, 10, start.Number)
	assert.Equal(t, 30, end.Number)
}

func TestFindProcedureNotFound(t *testing.T) {
	s := New()
	s.Put(line(10, token.Token{Type: token.PRINT}))
	start, end := s.FindProcedure("missing")
	assert.Nil(t, start)
	assert.Nil(t, end)
}

func TestCursorIteratesInOrder(t *testing.T) {
	s := New()
	s.Put(line(30))
	s.Put(line(10))
	s.Put(line(20))

	c := s.NewCursor()
	var seen []int
	for l := c.Next(); l != nil; l = c.Next() {
		seen = append(seen, l.Number)
	}
	assert.Equal(t, []int{10, 20, 30}, seen)

	c.Reset()
	assert.Equal(t, 10, c.Next().Number)
}
