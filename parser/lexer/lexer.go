// Copyright © 2025 The Weft authors

package lexer

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/weftlang/weft/parser/token"
)

const (
	miscWordRunes   = "0123456789" + miscWordSymbols
	miscWordSymbols = "._+-*/=<>!&~%?$@"
)

// Lexer tokenizes the text of an underlying scanner.
type Lexer struct {
	scanner *token.Scanner
}

// New returns a Lexer reading tokens from s.
func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// ReadToken scans and returns the next token.  At the end of the stream
// ReadToken returns EOF tokens forever.  Malformed input produces ERROR
// tokens carrying a description and the offending location.
func (lex *Lexer) ReadToken() []*token.Token {
	lex.skipWhitespace()
	if !lex.scanner.Accept(func(c rune) bool { return true }) {
		if lex.scanner.EOF() {
			return lex.emit(token.EOF, "")
		}
		if err := lex.scanner.Err(); err != nil {
			return lex.emitError(err, false)
		}
		return lex.emit(token.EOF, "")
	}
	switch lex.scanner.Rune() {
	case '(':
		return lex.emitText(token.PAREN_L)
	case ')':
		return lex.emitText(token.PAREN_R)
	case '\'':
		return lex.emitText(token.QUOTE)
	case '`':
		return lex.emitText(token.QUASIQUOTE)
	case ',':
		if lex.scanner.AcceptRune('@') {
			return lex.emitText(token.UNQUOTE_SPLICING)
		}
		return lex.emitText(token.UNQUOTE)
	case ';':
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
		return lex.emitText(token.COMMENT)
	case '#':
		if lex.scanner.AcceptRune('!') {
			lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
			return lex.emitText(token.HASH_BANG)
		}
		return lex.errorf("invalid dispatch macro character %q", lex.peekRune())
	case '-':
		if isDigit(lex.peekRune()) {
			return lex.readNumber()
		}
		return lex.readSymbol()
	case '"':
		return lex.readString()
	default:
		if isDigit(lex.scanner.Rune()) {
			return lex.readNumber()
		}
		if isWordStart(lex.scanner.Rune()) {
			return lex.readSymbol()
		}
		return lex.errorf("unexpected text starting with %q", lex.scanner.Rune())
	}
}

func (lex *Lexer) emit(typ token.Type, text string) []*token.Token {
	tok := []*token.Token{{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitText(typ token.Type) []*token.Token {
	return []*token.Token{lex.scanner.EmitToken(typ)}
}

func (lex *Lexer) emitError(err error, expectEOF bool) []*token.Token {
	if err == io.EOF {
		if expectEOF {
			return lex.emit(token.EOF, "")
		}
		return lex.emit(token.ERROR, "unexpected EOF")
	}
	return lex.emit(token.ERROR, err.Error())
}

func (lex *Lexer) errorf(format string, v ...interface{}) []*token.Token {
	return lex.emitError(fmt.Errorf(format, v...), false)
}

func (lex *Lexer) readSymbol() []*token.Token {
	lex.scanner.AcceptSeq(isWord)
	return lex.emitText(token.SYMBOL)
}

func (lex *Lexer) readString() []*token.Token {
	for {
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '"' && c != '\\' && c != '\n' })
		switch {
		case lex.scanner.AcceptRune('"'):
			return lex.emitText(token.STRING)
		case lex.scanner.AcceptRune('\\'):
			// The escaped character is validated at parse time.
			if !lex.scanner.Accept(func(c rune) bool { return c != '\n' }) {
				return lex.errorf("unterminated string literal")
			}
		default:
			return lex.errorf("unterminated string literal")
		}
	}
}

// readNumber scans the remainder of a numeric literal, the leading digit or
// minus sign having already been scanned.  A word character trailing the
// literal makes the whole token malformed.
func (lex *Lexer) readNumber() []*token.Token {
	lex.scanner.AcceptSeqDigit()
	if lex.scanner.AcceptRune('.') {
		if lex.scanner.AcceptSeqDigit() == 0 {
			return lex.errorf("invalid numeric literal starting: %v", lex.scanner.Text())
		}
	}
	if lex.scanner.AcceptAny("eE") {
		lex.scanner.AcceptAny("+-")
		if lex.scanner.AcceptSeqDigit() == 0 {
			return lex.errorf("invalid numeric literal starting: %v", lex.scanner.Text())
		}
	}
	if isWord(lex.peekRune()) {
		lex.scanner.AcceptSeq(isWord)
		return lex.errorf("invalid numeric literal starting: %v", lex.scanner.Text())
	}
	return lex.emitText(token.NUMBER)
}

func (lex *Lexer) skipWhitespace() {
	if lex.scanner.AcceptSeqSpace() > 0 {
		lex.scanner.Ignore()
	}
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

func isWordStart(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune(miscWordSymbols, c)
}

func isWord(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune(miscWordRunes, c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
