// Copyright © 2025 The Weft authors

// Package parser provides a basic parser for lisp source text.
package parser

import (
	"github.com/weftlang/weft/lisp"
	"github.com/weftlang/weft/parser/rdparser"
)

// NewReader returns the default lisp.Reader used to parse source files and
// strings.
func NewReader() lisp.Reader {
	return rdparser.NewReader()
}
