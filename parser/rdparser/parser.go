// Copyright © 2025 The Weft authors

package rdparser

import (
	"io"
	"strconv"

	"github.com/weftlang/weft/lisp"
	"github.com/weftlang/weft/parser/token"
)

type reader struct {
}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (*reader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	s := token.NewScanner(name, r)
	p := New(s)
	return p.ParseProgram()
}

// Parser is a lisp parser.
type Parser struct {
	parsing bool
	src     *TokenSource
}

// NewFromSource initializes and returns a Parser that reads tokens from
// src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return NewFromSource(NewTokenSource(scanner))
}

// Parse is a generic entry point that is similar to ParseExpression but is
// capable of handling EOF before reading an expression.
func (p *Parser) Parse() (*lisp.LVal, error) {
	p.ignoreComments()
	if p.src.IsEOF() {
		return nil, io.EOF
	}
	expr := p.ParseExpression()
	if expr.Type == lisp.LError {
		return nil, lisp.GoError(expr)
	}
	return expr, nil
}

// ParseProgram parses a series of expressions potentially preceded by a
// hash-bang, `#!`.
func (p *Parser) ParseProgram() ([]*lisp.LVal, error) {
	var exprs []*lisp.LVal
	p.ignoreHashBang()
	for {
		expr, err := p.Parse()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// ParseExpression parses a single expression.  Unlike Parse,
// ParseExpression requires an expression to be present in the input stream
// and reports unexpected EOF tokens.
func (p *Parser) ParseExpression() *lisp.LVal {
	fn := p.parseExpression()

	// Flag that we are in the middle of an expression while we finish
	// parsing it so that an Interactive parser can determine what state we
	// are in (and thus what the REPL prompt should be).
	if !p.parsing {
		p.parsing = true
		defer func() { p.parsing = false }()
	}

	return fn(p)
}

func (p *Parser) ignoreHashBang() {
	if p.PeekType() != token.HASH_BANG {
		return
	}
	p.src.Scan()
}

func (p *Parser) parseExpression() func(p *Parser) *lisp.LVal {
	p.ignoreComments()
	switch p.PeekType() {
	case token.NUMBER:
		return (*Parser).ParseLiteralNumber
	case token.STRING:
		return (*Parser).ParseLiteralString
	case token.QUOTE:
		return (*Parser).ParseQuote
	case token.QUASIQUOTE:
		return (*Parser).ParseQuasiquote
	case token.UNQUOTE:
		return (*Parser).ParseUnquote
	case token.UNQUOTE_SPLICING:
		return (*Parser).ParseUnquoteSplicing
	case token.SYMBOL:
		return (*Parser).ParseSymbol
	case token.PAREN_L:
		return (*Parser).ParseConsExpression
	case token.ERROR, token.INVALID:
		return func(p *Parser) *lisp.LVal {
			p.ReadToken()
			return p.errorf("scan-error", "%s", p.TokenText())
		}
	default:
		return func(p *Parser) *lisp.LVal {
			p.ReadToken()
			return p.errorf("parse-error", "unexpected token: %v", p.TokenType())
		}
	}
}

func (p *Parser) ParseLiteralNumber() *lisp.LVal {
	if !p.Accept(token.NUMBER) {
		return p.errorf("parse-error", "invalid numeric literal: %v", p.PeekType())
	}
	text := p.TokenText()
	x, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return p.errorf("invalid-number", "invalid numeric literal: %v", text)
	}
	return p.Number(x)
}

func (p *Parser) ParseLiteralString() *lisp.LVal {
	if !p.Accept(token.STRING) {
		return p.errorf("parse-error", "invalid string literal: %v", p.PeekType())
	}
	s, err := strconv.Unquote(p.TokenText())
	if err != nil {
		return p.errorf("invalid-string", "invalid string literal: %v", p.TokenText())
	}
	return p.String(s)
}

// ParseQuote expands the reader shorthand 'expr into (quote expr).
func (p *Parser) ParseQuote() *lisp.LVal {
	if !p.Accept(token.QUOTE) {
		return p.errorf("parse-error", "invalid quote: %v", p.PeekType())
	}
	return p.readerMacro(lisp.QuoteSymbol)
}

// ParseQuasiquote expands `expr into (quasiquote expr).
func (p *Parser) ParseQuasiquote() *lisp.LVal {
	if !p.Accept(token.QUASIQUOTE) {
		return p.errorf("parse-error", "invalid quasiquote: %v", p.PeekType())
	}
	return p.readerMacro(lisp.QuasiquoteSymbol)
}

// ParseUnquote expands ,expr into (unquote expr).
func (p *Parser) ParseUnquote() *lisp.LVal {
	if !p.Accept(token.UNQUOTE) {
		return p.errorf("parse-error", "invalid unquote: %v", p.PeekType())
	}
	return p.readerMacro(lisp.UnquoteSymbol)
}

// ParseUnquoteSplicing expands ,@expr into (unquote-splicing expr).
func (p *Parser) ParseUnquoteSplicing() *lisp.LVal {
	if !p.Accept(token.UNQUOTE_SPLICING) {
		return p.errorf("parse-error", "invalid unquote-splicing: %v", p.PeekType())
	}
	return p.readerMacro(lisp.UnquoteSplicingSymbol)
}

func (p *Parser) readerMacro(op string) *lisp.LVal {
	sym := p.Symbol(op)
	expr := p.ParseExpression()
	if expr.Type == lisp.LError {
		return expr
	}
	s := p.SExpr([]*lisp.LVal{sym, expr})
	s.Source = sym.Source
	return s
}

func (p *Parser) ParseSymbol() *lisp.LVal {
	if !p.Accept(token.SYMBOL) {
		return p.errorf("parse-error", "invalid symbol: %v", p.PeekType())
	}
	return p.Symbol(p.TokenText())
}

func (p *Parser) ParseConsExpression() *lisp.LVal {
	if !p.Accept(token.PAREN_L) {
		return p.errorf("parse-error", "invalid expression: %v", p.PeekType())
	}
	open := p.src.Token
	expr := p.SExpr(nil)
	for {
		p.ignoreComments()
		if p.src.IsEOF() {
			return p.errorf("unmatched-syntax", "unmatched %s", open.Text)
		}
		if p.Accept(token.PAREN_R) {
			break
		}
		x := p.ParseExpression()
		if x.Type == lisp.LError {
			return x
		}
		expr.Cells = append(expr.Cells, x)
	}
	return expr
}

func (p *Parser) ignoreComments() {
	for p.Accept(token.COMMENT) {
	}
}

func (p *Parser) ReadToken() *token.Token {
	p.src.Scan()
	return p.src.Token
}

func (p *Parser) TokenText() string {
	return p.src.Token.Text
}

func (p *Parser) TokenType() token.Type {
	return p.src.Token.Type
}

func (p *Parser) Location() *token.Location {
	if p.src.Token == nil {
		return nil
	}
	return p.src.Token.Source
}

func (p *Parser) PeekType() token.Type {
	return p.src.Peek().Type
}

func (p *Parser) PeekLocation() *token.Location {
	return p.src.Peek().Source
}

func (p *Parser) String(s string) *lisp.LVal {
	return p.tokenLVal(lisp.String(s))
}

func (p *Parser) Symbol(sym string) *lisp.LVal {
	return p.tokenLVal(lisp.Symbol(sym))
}

func (p *Parser) Number(x float64) *lisp.LVal {
	return p.tokenLVal(lisp.Number(x))
}

func (p *Parser) SExpr(cells []*lisp.LVal) *lisp.LVal {
	return p.tokenLVal(lisp.SExpr(cells))
}

func (p *Parser) tokenLVal(v *lisp.LVal) *lisp.LVal {
	v.Source = p.Location()
	return v
}

func (p *Parser) Accept(typ ...token.Type) bool {
	return p.src.AcceptType(typ...)
}

func (p *Parser) errorf(condition string, format string, v ...interface{}) *lisp.LVal {
	err := lisp.ErrorConditionf(condition, format, v...)
	err.Source = p.Location()
	return err
}
