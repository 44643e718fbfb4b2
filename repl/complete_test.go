// Copyright © 2025 The Weft authors

package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weftlang/weft/lisp"
)

func completerEnv(t *testing.T) *lisp.LEnv {
	t.Helper()
	parent := lisp.NewEnv(nil)
	for _, sym := range []string{"foo", "foobar", "bar"} {
		require.True(t, parent.Put(lisp.Symbol(sym), lisp.Number(1)).IsNil())
	}
	child := lisp.NewEnv(parent)
	require.True(t, child.Put(lisp.Symbol("foo-local"), lisp.Number(2)).IsNil())
	return child
}

func complete(c *symbolCompleter, line string) ([]string, int) {
	suffixes, n := c.Do([]rune(line), len(line))
	var out []string
	for _, s := range suffixes {
		out = append(out, string(s))
	}
	return out, n
}

func TestCompleterPrefix(t *testing.T) {
	c := &symbolCompleter{env: completerEnv(t)}

	// Candidates come from the whole scope chain, sorted, returned as the
	// suffix remaining after the typed prefix.
	out, n := complete(c, "(fo")
	assert.Equal(t, []string{"o", "o-local", "obar"}, out)
	assert.Equal(t, 2, n)

	out, n = complete(c, "(+ 1 ba")
	assert.Equal(t, []string{"r"}, out)
	assert.Equal(t, 2, n)
}

func TestCompleterNoMatch(t *testing.T) {
	c := &symbolCompleter{env: completerEnv(t)}
	out, n := complete(c, "(zzz")
	assert.Empty(t, out)
	assert.Equal(t, 0, n)
}

func TestCompleterEmptyWord(t *testing.T) {
	c := &symbolCompleter{env: completerEnv(t)}

	// The cursor right after whitespace or an open paren has no word to
	// complete.
	out, n := complete(c, "(")
	assert.Empty(t, out)
	assert.Equal(t, 0, n)

	out, n = complete(c, "(foo ")
	assert.Empty(t, out)
	assert.Equal(t, 0, n)
}

func TestCompleterShadowedSymbol(t *testing.T) {
	env := completerEnv(t)
	require.True(t, env.Put(lisp.Symbol("foo"), lisp.Number(3)).IsNil())
	c := &symbolCompleter{env: env}

	// A symbol bound in two frames appears once.
	out, _ := complete(c, "foo")
	assert.Equal(t, []string{"", "-local", "bar"}, out)
}
