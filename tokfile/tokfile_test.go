package tokfile

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevewpalmer/jcom/token"
)

func sampleLine() []token.Token {
	return []token.Token{
		{Type: token.PRINT, Pos: token.Position{Line: 10, Column: 1}},
		{Type: token.Identifier, Literal: "x", Pos: token.Position{Line: 10, Column: 7}},
		{Type: token.StringLit, Literal: `say "hi"`, Pos: token.Position{Line: 10, Column: 9}},
		{Type: token.IntegerLit, IVal: 42, Pos: token.Position{Line: 10, Column: 20}},
		{Type: token.FloatLit, FVal: 3.5, Pos: token.Position{Line: 10, Column: 24}},
		{Type: token.ErrorTok, Literal: "bad thing", Text: "@@@", Pos: token.Position{Line: 10, Column: 30}},
		{Type: token.EOL, Pos: token.Position{Line: 10, Column: 33}},
	}
}

func TestEncodeDecodeLineRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeLine(&buf, sampleLine()))

	got, err := DecodeLine(&buf, "prog.cml")
	require.NoError(t, err)
	require.Len(t, got, len(sampleLine()))

	want := sampleLine()
	for i := range want {
		assert.Equal(t, want[i].Type, got[i].Type)
		assert.Equal(t, want[i].Literal, got[i].Literal)
		assert.Equal(t, want[i].Text, got[i].Text)
		assert.Equal(t, want[i].IVal, got[i].IVal)
		assert.Equal(t, want[i].FVal, got[i].FVal)
		assert.Equal(t, want[i].Pos.Line, got[i].Pos.Line)
		assert.Equal(t, want[i].Pos.Column, got[i].Pos.Column)
		assert.Equal(t, "prog.cml", got[i].Pos.Filename)
	}
}

func TestDecodeAllMultipleLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeLine(&buf, sampleLine()))
	require.NoError(t, EncodeLine(&buf, sampleLine()))

	lines, err := DecodeAll(&buf, "prog.cml")
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Len(t, lines[0], len(sampleLine()))
}

func TestDecodeLineEOFAtBoundary(t *testing.T) {
	_, err := DecodeLine(bytes.NewReader(nil), "x")
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecodeLineTruncatedIsUnexpectedEOF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeLine(&buf, sampleLine()))
	truncated := buf.Bytes()[:buf.Len()-3]

	_, err := DecodeLine(bytes.NewReader(truncated), "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}
