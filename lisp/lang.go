// Copyright © 2025 The Weft authors

package lisp

import "strings"

// Language constants.
const (
	// TrueSymbol and FalseSymbol are the self-evaluating boolean symbols.
	// They cannot be rebound.
	TrueSymbol  = "true"
	FalseSymbol = "false"

	// VarArgPrefix marks a rest parameter in a formal argument list.  A
	// formal like &args must appear last and binds the list of remaining
	// arguments under the name "args".
	VarArgPrefix = "&"

	// QuoteSymbol and friends are the reserved form heads handled directly
	// by the evaluator.  The parser expands reader sugar into lists headed
	// by these symbols.
	QuoteSymbol           = "quote"
	QuasiquoteSymbol      = "quasiquote"
	UnquoteSymbol         = "unquote"
	UnquoteSplicingSymbol = "unquote-splicing"
)

// IsReservedSymbol returns true for symbols which may not be bound or
// updated.
func IsReservedSymbol(name string) bool {
	switch name {
	case TrueSymbol, FalseSymbol,
		QuoteSymbol, QuasiquoteSymbol, UnquoteSymbol, UnquoteSplicingSymbol:
		return true
	}
	return false
}

// IsVarArgSymbol returns true if name marks a rest parameter.
func IsVarArgSymbol(name string) bool {
	return strings.HasPrefix(name, VarArgPrefix)
}

// VarArgName returns the binding name of the rest parameter name, without
// its sigil.
func VarArgName(name string) string {
	return strings.TrimPrefix(name, VarArgPrefix)
}
