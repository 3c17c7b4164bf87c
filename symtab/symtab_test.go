package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectionAddAndLookupCaseInsensitive(t *testing.T) {
	c := NewCollection()
	assert.True(t, c.Add(&Symbol{Name: "Count"}))
	assert.False(t, c.Add(&Symbol{Name: "count"}))
	assert.NotNil(t, c.Lookup("COUNT"))
	assert.Equal(t, 1, c.Len())
}

func TestStackResolveWalksOuterScopes(t *testing.T) {
	s := NewStack()
	s.Declare(&Symbol{Name: "g", Class: ClassVariable})
	s.Push("inner", false)
	s.Declare(&Symbol{Name: "x", Class: ClassVariable})

	assert.NotNil(t, s.Resolve("x"))
	assert.NotNil(t, s.Resolve("g"))
	assert.Nil(t, s.Resolve("missing"))
}

func TestClosedScopeBlocksOuterUnlessImported(t *testing.T) {
	s := NewStack()
	s.Declare(&Symbol{Name: "g", Class: ClassVariable})
	s.Push("closedproc", true)
	s.Declare(&Symbol{Name: "local", Class: ClassVariable})

	assert.NotNil(t, s.Resolve("local"))
	assert.Nil(t, s.Resolve("g"))

	s.Import("g")
	assert.NotNil(t, s.Resolve("g"))
}

func TestImportNoOpOutsideClosedScope(t *testing.T) {
	s := NewStack()
	assert.False(t, s.Import("anything"))
}

func TestPushPopRestoresScope(t *testing.T) {
	s := NewStack()
	global := s.Current()
	s.Push("p", false)
	assert.NotEqual(t, global, s.Current())
	s.Pop()
	assert.Equal(t, global, s.Current())
}

func TestPopGlobalPanics(t *testing.T) {
	s := NewStack()
	assert.Panics(t, func() { s.Pop() })
}

func TestLabelTableUndefinedUntilMarked(t *testing.T) {
	lt := NewLabelTable()
	sym := lt.GetOrMake("done", 2)
	assert.False(t, sym.Defined)
	assert.Len(t, lt.Undefined(), 1)

	lt.MarkDefined("DONE", 1)
	assert.Len(t, lt.Undefined(), 0)
	assert.True(t, sym.Defined)
	assert.Equal(t, 1, sym.Depth)
}
