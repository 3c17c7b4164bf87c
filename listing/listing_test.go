package listing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stevewpalmer/jcom/lexer"
	"github.com/stevewpalmer/jcom/linestore"
)

func buildStore(t *testing.T, lines map[int]string) *linestore.Store {
	t.Helper()
	s := linestore.New()
	for n, src := range lines {
		l := lexer.New(src, "", n)
		s.Put(&linestore.Line{Number: n, Tokens: l.TokenizeAll(), Text: src})
	}
	return s
}

func TestRenderIndentsLoopBody(t *testing.T) {
	s := buildStore(t, map[int]string{
		10: "FOR i := 1 TO 10",
		20: "PRINT i",
		30: "NEXT i",
	})
	out := Render(s, s.First(), s.Last(), DefaultOptions())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "10 FOR i := 1 TO 10", lines[0])
	assert.Equal(t, "20   PRINT i", lines[1])
	assert.Equal(t, "30 NEXT i", lines[2])
}

func TestRenderIfElseDedentsElse(t *testing.T) {
	s := buildStore(t, map[int]string{
		10: "IF x THEN",
		20: "PRINT 1",
		30: "ELSE",
		40: "PRINT 2",
		50: "ENDIF",
	})
	out := Render(s, s.First(), s.Last(), DefaultOptions())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "30 ELSE", lines[2])
	assert.Equal(t, "40   PRINT 2", lines[3])
	assert.Equal(t, "50 ENDIF", lines[4])
}

func TestRenderWithoutLineNumbers(t *testing.T) {
	s := buildStore(t, map[int]string{10: "PRINT 1"})
	opts := DefaultOptions()
	opts.ShowLineNums = false
	out := Render(s, s.First(), s.Last(), opts)
	assert.Equal(t, "PRINT 1\n", out)
}
