// Copyright © 2025 The Weft authors

package libmath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weftlang/weft/lisp"
	"github.com/weftlang/weft/lisp/lisplib/libmath"
	"github.com/weftlang/weft/lisptest"
	"github.com/weftlang/weft/parser"
)

func TestMath(t *testing.T) {
	tests := lisptest.TestSuite{
		{"unary", lisptest.TestSequence{
			{"(math:sqrt 9)", "3", ""},
			{"(math:sqrt 2)", "1.4142135623730951", ""},
			{"(math:abs -3.5)", "3.5", ""},
			{"(math:abs 3.5)", "3.5", ""},
			{"(math:floor 2.7)", "2", ""},
			{"(math:floor -2.7)", "-3", ""},
			{"(math:ceil 2.1)", "3", ""},
			{"(math:exp 0)", "1", ""},
			{"(math:ln math:e)", "1", ""},
		}},
		{"pow", lisptest.TestSequence{
			{"(math:pow 2 10)", "1024", ""},
			{"(math:pow 4 0.5)", "2", ""},
			{"(math:pow 2 -1)", "0.5", ""},
		}},
		{"min-max", lisptest.TestSequence{
			{"(math:min 3)", "3", ""},
			{"(math:min 3 1 2)", "1", ""},
			{"(math:max 3 1 2)", "3", ""},
			{"(math:max -1 -2)", "-1", ""},
		}},
		{"nan", lisptest.TestSequence{
			{"(math:nan? 1)", "false", ""},
			{"(math:nan? (math:sqrt -1))", "true", ""},
			{"(math:nan? math:inf)", "false", ""},
		}},
		{"constants", lisptest.TestSequence{
			{"(< 3.141 math:pi)", "true", ""},
			{"(< math:pi 3.142)", "true", ""},
			{"(< 1000000 math:inf)", "true", ""},
		}},
		{"arguments-evaluated", lisptest.TestSequence{
			{"(define x 16)", "x", ""},
			{"(math:sqrt (math:abs (- 0 x)))", "4", ""},
		}},
	}
	lisptest.RunTestSuite(t, tests)
}

func TestMathErrors(t *testing.T) {
	env := lisp.NewEnv(nil)
	rc := lisp.InitializeUserEnv(env, lisp.WithReader(parser.NewReader()))
	require.NotEqual(t, lisp.LError, rc.Type, "initialization failed: %v", rc)
	require.True(t, libmath.LoadPackage(env).IsNil())

	tests := []struct {
		src       string
		condition string
	}{
		{`(math:sqrt "nine")`, "type-mismatch"},
		{`(math:sqrt)`, "ill-formed-syntax"},
		{`(math:sqrt 1 2)`, "ill-formed-syntax"},
		{`(math:pow 2)`, "ill-formed-syntax"},
		{`(math:min)`, "ill-formed-syntax"},
		{`(math:max true)`, "type-mismatch"},
	}
	for _, test := range tests {
		v := env.LoadString("test.lisp", test.src)
		require.Equal(t, lisp.LError, v.Type, "expected error: %s", test.src)
		assert.Equal(t, test.condition, v.Str, "source: %s", test.src)
	}
}
