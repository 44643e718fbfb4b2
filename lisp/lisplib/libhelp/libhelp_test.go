// Copyright © 2025 The Weft authors

package libhelp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weftlang/weft/lisp"
	"github.com/weftlang/weft/lisp/lisplib/libmath"
	"github.com/weftlang/weft/parser"
)

func newHelpEnv(t *testing.T) *lisp.LEnv {
	t.Helper()
	env := lisp.NewEnv(nil)
	rc := lisp.InitializeUserEnv(env, lisp.WithReader(parser.NewReader()))
	require.NotEqual(t, lisp.LError, rc.Type, "initialization failed: %v", rc)
	require.True(t, libmath.LoadPackage(env).IsNil())
	require.True(t, LoadPackage(env).IsNil())
	return env
}

func TestRenderVarBuiltin(t *testing.T) {
	env := newHelpEnv(t)
	var buf bytes.Buffer
	require.NoError(t, RenderVar(&buf, env, "math:sqrt"))
	assert.Equal(t, "native (math:sqrt number)\n  Returns the square root of number.\n", buf.String())
}

func TestRenderVarValue(t *testing.T) {
	env := newHelpEnv(t)
	var buf bytes.Buffer
	require.NoError(t, RenderVar(&buf, env, "math:pi"))
	assert.Equal(t, "number math:pi 3.141592653589793\n", buf.String())
}

func TestRenderVarLambda(t *testing.T) {
	env := newHelpEnv(t)
	v := env.LoadString("test.lisp", `(define inc (lambda (x) (+ x 1)))`)
	require.NotEqual(t, lisp.LError, v.Type, "define failed: %v", v)

	var buf bytes.Buffer
	require.NoError(t, RenderVar(&buf, env, "inc"))
	assert.Equal(t, "function (inc x)\n", buf.String())
}

func TestRenderVarUndefined(t *testing.T) {
	env := newHelpEnv(t)
	var buf bytes.Buffer
	err := RenderVar(&buf, env, "no-such-symbol")
	require.Error(t, err)
	lerr, ok := err.(*lisp.ErrorVal)
	require.True(t, ok)
	assert.Equal(t, "undefined-symbol", lerr.Condition())
}

func TestHelpBuiltin(t *testing.T) {
	env := newHelpEnv(t)
	var buf bytes.Buffer
	env.Runtime.Stderr = &buf
	v := env.LoadString("test.lisp", `(help 'math:pi)`)
	require.NotEqual(t, lisp.LError, v.Type, "help failed: %v", v)
	assert.True(t, v.IsNil())
	assert.Equal(t, "number math:pi 3.141592653589793\n", buf.String())

	v = env.LoadString("test.lisp", `(help "math:pi")`)
	require.Equal(t, lisp.LError, v.Type)
	assert.Equal(t, "type-mismatch", v.Str)
}

func TestCleanDocstring(t *testing.T) {
	assert.Equal(t, "", cleanDocstring(""))
	assert.Equal(t, "  One line.", cleanDocstring("One line."))

	// Raw string docstrings have a short first line and indented
	// continuation lines that are dedented together.
	doc := "Prints documentation.\n\t\t\tFunctions have their signature rendered.\n\t\t\tOther variables print values."
	assert.Equal(t,
		"  Prints documentation.\n  Functions have their signature rendered.\n  Other variables print values.",
		cleanDocstring(doc))
}

func TestDedentDoc(t *testing.T) {
	assert.Equal(t, "a\nb", dedentDoc("a\n    b"))
	assert.Equal(t, "a\n  b\nc", dedentDoc("  a\n    b\n  c"))
	// Blank continuation lines do not contribute to the common indent.
	assert.Equal(t, "a\n\nb", dedentDoc("a\n\n  b"))
}
