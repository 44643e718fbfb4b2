// Copyright © 2025 The Weft authors

// Package lisplib is used to conveniently load the standard library into an
// environment.
package lisplib

import (
	"github.com/weftlang/weft/lisp"
	"github.com/weftlang/weft/lisp/lisplib/libhelp"
	"github.com/weftlang/weft/lisp/lisplib/libmath"
	"github.com/weftlang/weft/lisp/lisplib/libstring"
	"github.com/weftlang/weft/lisp/lisplib/libtime"
)

// LoadLibrary loads the standard library into env.
func LoadLibrary(env *lisp.LEnv) *lisp.LVal {
	e := libmath.LoadPackage(env)
	if !e.IsNil() {
		return e
	}
	e = libstring.LoadPackage(env)
	if !e.IsNil() {
		return e
	}
	e = libtime.LoadPackage(env)
	if !e.IsNil() {
		return e
	}
	e = libhelp.LoadPackage(env)
	if !e.IsNil() {
		return e
	}
	return lisp.Nil()
}
