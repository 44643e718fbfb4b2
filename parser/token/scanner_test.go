// Copyright © 2025 The Weft authors

package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerEmitToken(t *testing.T) {
	s := NewScanner("test", strings.NewReader("ab cd\nef"))

	isLetter := func(c rune) bool { return 'a' <= c && c <= 'z' }
	require.Equal(t, 2, s.AcceptSeq(isLetter))
	tok := s.EmitToken(SYMBOL)
	assert.Equal(t, "ab", tok.Text)
	assert.Equal(t, 1, tok.Source.Line)
	assert.Equal(t, 1, tok.Source.Col)
	assert.Equal(t, 0, tok.Source.Pos)

	require.Equal(t, 1, s.AcceptSeqSpace())
	s.Ignore()
	require.Equal(t, 2, s.AcceptSeq(isLetter))
	tok = s.EmitToken(SYMBOL)
	assert.Equal(t, "cd", tok.Text)
	assert.Equal(t, 1, tok.Source.Line)
	assert.Equal(t, 4, tok.Source.Col)

	// Newlines advance the line counter and reset the column.
	require.Equal(t, 1, s.AcceptSeqSpace())
	s.Ignore()
	require.Equal(t, 2, s.AcceptSeq(isLetter))
	tok = s.EmitToken(SYMBOL)
	assert.Equal(t, "ef", tok.Text)
	assert.Equal(t, 2, tok.Source.Line)
	assert.Equal(t, 1, tok.Source.Col)

	assert.True(t, s.EOF())
	assert.NoError(t, s.Err())
}

func TestScannerPeek(t *testing.T) {
	s := NewScanner("test", strings.NewReader("xy"))
	c, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, 'x', c)

	// Peek does not consume input.
	c, ok = s.Peek()
	require.True(t, ok)
	assert.Equal(t, 'x', c)

	require.True(t, s.AcceptRune('x'))
	assert.Equal(t, 'x', s.Rune())
	require.True(t, s.AcceptRune('y'))
	assert.Equal(t, "xy", s.Text())

	_, ok = s.Peek()
	assert.False(t, ok)
	assert.True(t, s.EOF())
}

func TestScannerAccept(t *testing.T) {
	s := NewScanner("test", strings.NewReader("123abc"))
	assert.True(t, s.AcceptDigit())
	assert.Equal(t, 2, s.AcceptSeqDigit())
	assert.False(t, s.AcceptDigit())

	n, ok := s.AcceptString("abc")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, "123abc", s.Text())
}

func TestScannerAcceptStringMismatch(t *testing.T) {
	s := NewScanner("test", strings.NewReader("abx"))
	n, ok := s.AcceptString("abc")
	assert.False(t, ok)
	assert.Equal(t, 2, n)
	assert.Equal(t, "ab", s.Text())
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "f.lisp:2:10", (&Location{File: "f.lisp", Pos: 14, Line: 2, Col: 10}).String())
	assert.Equal(t, "f.lisp:2", (&Location{File: "f.lisp", Pos: 14, Line: 2}).String())
	assert.Equal(t, "f.lisp[14]", (&Location{File: "f.lisp", Pos: 14}).String())
	assert.Equal(t, "<native code>", (&Location{File: "<native code>", Pos: -1}).String())
}
