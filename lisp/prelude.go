// Copyright © 2025 The Weft authors

package lisp

import (
	_ "embed"
)

//go:embed prelude.lisp
var preludeSource string

// BootstrapPrelude evaluates the embedded prelude in env.  The prelude
// defines if, let, begin, and the basic list and predicate procedures in
// terms of the native procedures.  The environment's runtime must have a
// Reader configured.  An error leaves env unsuitable for use.
func BootstrapPrelude(env *LEnv) *LVal {
	rc := env.LoadString("prelude.lisp", preludeSource)
	if rc.Type == LError {
		return rc
	}
	return Nil()
}
