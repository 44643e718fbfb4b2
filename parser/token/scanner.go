// Copyright © 2025 The Weft authors

package token

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from a byte stream, tracking
// the source location of every token it emits.
type Scanner struct {
	file    string
	br      *bufio.Reader
	readErr error

	text []rune // runes accepted into the current token
	last rune   // most recently scanned rune

	pos  int // byte offset just beyond the current token text
	line int // line number at pos (starting at 1)
	col  int // column number at pos (starting at 1)

	startPos  int // byte offset of the first byte of the current token
	startLine int
	startCol  int
}

// NewScanner initializes and returns a new Scanner reading from r.  The
// file name is only used to construct Locations.
func NewScanner(file string, r io.Reader) *Scanner {
	return &Scanner{
		file:      file,
		br:        bufio.NewReader(r),
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
	}
}

// EmitToken returns a token containing the text scanned since the last call
// to either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.text = s.text[:0]
	s.startPos = s.pos
	s.startLine = s.line
	s.startCol = s.col
}

// Text returns the text scanned since the last call to either EmitToken or
// Ignore.
func (s *Scanner) Text() string {
	return string(s.text)
}

// Peek returns the next rune to be scanned, if there is one.  Peek returns
// a false second value at the end of the stream or when an invalid utf-8
// sequence prevents further runes from being scanned.
func (s *Scanner) Peek() (rune, bool) {
	c, _, err := s.br.ReadRune()
	if err != nil {
		s.readErr = err
		return 0, false
	}
	_ = s.br.UnreadRune()
	if c == utf8.RuneError {
		s.readErr = fmt.Errorf("invalid utf-8 sequence in source text")
		return 0, false
	}
	return c, true
}

// ScanRune scans a utf-8 rune from the input for inclusion in the current
// token.
func (s *Scanner) ScanRune() error {
	c, n, err := s.br.ReadRune()
	if err != nil {
		s.readErr = err
		return err
	}
	if c == utf8.RuneError {
		s.readErr = fmt.Errorf("invalid utf-8 sequence in source text")
		return s.readErr
	}
	s.text = append(s.text, c)
	s.last = c
	s.pos += n
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return nil
}

// Rune returns the current rune being scanned, the last rune in a token
// returned by EmitToken.
func (s *Scanner) Rune() rune {
	return s.last
}

// Err returns any error, other than io.EOF, encountered reading the input
// stream.
func (s *Scanner) Err() error {
	if s.readErr == nil || s.readErr == io.EOF {
		return nil
	}
	return s.readErr
}

// EOF returns true once the input stream is exhausted.
func (s *Scanner) EOF() bool {
	if _, ok := s.Peek(); ok {
		return false
	}
	return s.readErr == io.EOF
}

// Accept scans the next rune when fn approves of it.
func (s *Scanner) Accept(fn func(rune) bool) bool {
	c, ok := s.Peek()
	if !ok || !fn(c) {
		return false
	}
	return s.ScanRune() == nil
}

// AcceptRune scans the next rune when it equals c.
func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(peek rune) bool { return peek == c })
}

// AcceptDigit scans the next rune when it is an ascii digit.
func (s *Scanner) AcceptDigit() bool {
	return s.Accept(func(c rune) bool { return '0' <= c && c <= '9' })
}

// AcceptSpace scans the next rune when it is whitespace.
func (s *Scanner) AcceptSpace() bool {
	return s.Accept(unicode.IsSpace)
}

// AcceptAny scans the next rune when it appears in charset.
func (s *Scanner) AcceptAny(charset string) bool {
	return s.Accept(func(c rune) bool { return strings.ContainsRune(charset, c) })
}

// AcceptSeq scans runes as long as fn approves, returning the number
// scanned.
func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

// AcceptSeqDigit scans a run of ascii digits.
func (s *Scanner) AcceptSeqDigit() int {
	var n int
	for s.AcceptDigit() {
		n++
	}
	return n
}

// AcceptSeqSpace scans a run of whitespace.
func (s *Scanner) AcceptSeqSpace() int {
	var n int
	for s.AcceptSpace() {
		n++
	}
	return n
}

// AcceptString scans the runes of literal in order, stopping early at the
// first mismatch.
func (s *Scanner) AcceptString(literal string) (int, bool) {
	var n int
	for _, c := range literal {
		if !s.AcceptRune(c) {
			return n, false
		}
		n++
	}
	return n, true
}

// LocStart returns a Location referencing the beginning of the current
// token, just beyond the end of the previous token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Pos:  s.startPos,
		Line: s.startLine,
		Col:  s.startCol,
	}
}

// Loc returns a Location referencing the current scanner position.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Pos:  s.pos,
		Line: s.line,
		Col:  s.col,
	}
}
