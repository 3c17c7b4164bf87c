package repl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteStoresNumberedLine(t *testing.T) {
	var out bytes.Buffer
	r := New(&out)
	require.NoError(t, r.Execute(`10 PRINT "hi"`))
	assert.Equal(t, 1, r.Store.Len())
	assert.True(t, r.IsModified)
}

func TestExecuteDeletesLineWithBlankText(t *testing.T) {
	var out bytes.Buffer
	r := New(&out)
	require.NoError(t, r.Execute(`10 PRINT "hi"`))
	require.NoError(t, r.Execute(`10`))
	assert.Equal(t, 0, r.Store.Len())
}

func TestAutoNumbersSubsequentLines(t *testing.T) {
	var out bytes.Buffer
	r := New(&out)
	require.NoError(t, r.Execute("AUTO 100 10"))
	require.NoError(t, r.Execute(`PRINT "a"`))
	require.NoError(t, r.Execute(`PRINT "b"`))
	assert.Equal(t, []int{100, 110}, r.LineNumbers())
}

func TestListCommand(t *testing.T) {
	var out bytes.Buffer
	r := New(&out)
	require.NoError(t, r.Execute(`10 PRINT "x"`))
	require.NoError(t, r.Execute("LIST"))
	assert.Contains(t, out.String(), `10 PRINT "x"`)
}

func TestRenumCommand(t *testing.T) {
	var out bytes.Buffer
	r := New(&out)
	require.NoError(t, r.Execute(`5 PRINT "x"`))
	require.NoError(t, r.Execute(`9 PRINT "y"`))
	require.NoError(t, r.Execute("RENUM 100 100"))
	assert.Equal(t, []int{100, 200}, r.LineNumbers())
}

func TestDelRange(t *testing.T) {
	var out bytes.Buffer
	r := New(&out)
	for _, n := range []string{"10", "20", "30"} {
		require.NoError(t, r.Execute(n+` PRINT "x"`))
	}
	require.NoError(t, r.Execute("DEL 10-20"))
	assert.Equal(t, []int{30}, r.LineNumbers())
}

func TestNewClearsProgram(t *testing.T) {
	var out bytes.Buffer
	r := New(&out)
	require.NoError(t, r.Execute(`10 PRINT "x"`))
	require.NoError(t, r.Execute("NEW"))
	assert.Equal(t, 0, r.Store.Len())
	assert.False(t, r.IsModified)
}

func TestByeReturnsQuitSentinel(t *testing.T) {
	var out bytes.Buffer
	r := New(&out)
	err := r.Execute("BYE")
	assert.True(t, IsQuit(err))
}

func TestHistoryRecordsEveryLine(t *testing.T) {
	var out bytes.Buffer
	r := New(&out)
	require.NoError(t, r.Execute(`10 PRINT "x"`))
	require.NoError(t, r.Execute("LIST"))
	assert.Equal(t, 2, r.History.Len())
}

func TestParseRangeForms(t *testing.T) {
	cases := map[string]Range{
		"10":    {From: 10, To: 10, HasFrom: true, HasTo: true},
		"10-":   {From: 10, HasFrom: true},
		"10-20": {From: 10, To: 20, HasFrom: true, HasTo: true},
		"-20":   {To: 20, HasTo: true},
	}
	for in, want := range cases {
		got, err := ParseRange(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}
