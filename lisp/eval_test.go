// Copyright © 2025 The Weft authors

package lisp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weftlang/weft/lisp"
	"github.com/weftlang/weft/parser"
)

func newEnv(t *testing.T, config ...lisp.Config) *lisp.LEnv {
	t.Helper()
	env := lisp.NewEnv(nil)
	config = append([]lisp.Config{lisp.WithReader(parser.NewReader())}, config...)
	rc := lisp.InitializeUserEnv(env, config...)
	require.NotEqual(t, lisp.LError, rc.Type, "environment initialization failed: %v", rc)
	return env
}

func loadString(t *testing.T, env *lisp.LEnv, src string) *lisp.LVal {
	t.Helper()
	return env.LoadString("test.lisp", src)
}

// Tail calls must not grow the physical call stack.  With a tiny physical
// limit a deep chain of tail calls still completes.
func TestTailCallsAreEliminated(t *testing.T) {
	env := newEnv(t)
	env.Runtime.Stack.MaxHeightPhysical = 50
	v := loadString(t, env, `
		(define count-down
		  (lambda (n)
		    (if (= n 0) 'done (count-down (- n 1)))))
		(count-down 100000)`)
	require.NotEqual(t, lisp.LError, v.Type, "count-down failed: %v", v)
	assert.Equal(t, "done", v.Str)
}

func TestMutualTailCallsAreEliminated(t *testing.T) {
	env := newEnv(t)
	env.Runtime.Stack.MaxHeightPhysical = 50
	v := loadString(t, env, `
		(define even? (lambda (n) (if (= n 0) true (odd? (- n 1)))))
		(define odd? (lambda (n) (if (= n 0) false (even? (- n 1)))))
		(even? 100000)`)
	require.NotEqual(t, lisp.LError, v.Type, "even? failed: %v", v)
	assert.Equal(t, "true", v.Str)
}

func TestDeepRecursionHitsPhysicalStackLimit(t *testing.T) {
	env := newEnv(t)
	env.Runtime.Stack.MaxHeightPhysical = 50
	// The addition keeps the recursive call out of tail position.
	v := loadString(t, env, `
		(define boom (lambda (n) (+ 1 (boom (+ n 1)))))
		(boom 0)`)
	require.Equal(t, lisp.LError, v.Type)
	assert.Contains(t, v.String(), "physical stack height exceeded")
}

func TestDeepTailRecursionHitsLogicalStackLimit(t *testing.T) {
	env := newEnv(t)
	env.Runtime.Stack.MaxHeightLogical = 100
	v := loadString(t, env, `
		(define count-down
		  (lambda (n)
		    (if (= n 0) 'done (count-down (- n 1)))))
		(count-down 1000)`)
	require.Equal(t, lisp.LError, v.Type)
	assert.Contains(t, v.String(), "logical stack height exceeded")
}

// Native procedures receive their argument list unevaluated.
func TestNativesReceiveRawArguments(t *testing.T) {
	env := newEnv(t)
	var got *lisp.LVal
	rc := env.DefineNativeProc("probe", lisp.Formals("&exprs"), "",
		func(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
			got = args
			return lisp.Nil()
		})
	require.True(t, rc.IsNil())

	v := loadString(t, env, `(probe (+ 1 2) unbound-name "str")`)
	require.NotEqual(t, lisp.LError, v.Type, "probe failed: %v", v)
	require.NotNil(t, got)
	require.Equal(t, 3, len(got.Cells))
	assert.Equal(t, lisp.LSExpr, got.Cells[0].Type)
	assert.Equal(t, "(+ 1 2)", got.Cells[0].String())
	assert.Equal(t, lisp.LSymbol, got.Cells[1].Type)
	assert.Equal(t, "unbound-name", got.Cells[1].Str)
	assert.Equal(t, lisp.LString, got.Cells[2].Type)
}

// A native evaluating an argument on demand sees the binding environment of
// the call site.
func TestNativesEvaluateArgumentsOnDemand(t *testing.T) {
	env := newEnv(t)
	rc := env.DefineNativeProc("eval-second", lisp.Formals("a", "b"), "",
		func(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
			return env.Eval(args.Cells[1])
		})
	require.True(t, rc.IsNil())

	v := loadString(t, env, `(let ((x 7)) (eval-second (/ 1 0) (+ x 1)))`)
	require.NotEqual(t, lisp.LError, v.Type, "eval-second failed: %v", v)
	assert.Equal(t, float64(8), v.Num)
}

func TestFunCallRejectsMacros(t *testing.T) {
	env := newEnv(t)
	v := loadString(t, env, `(defmacro noop (x) x)`)
	require.NotEqual(t, lisp.LError, v.Type)
	mac := env.Get(lisp.Symbol("noop"))
	require.Equal(t, lisp.LFun, mac.Type)
	require.True(t, mac.IsMacro())

	r := env.FunCall(mac, lisp.SExpr([]*lisp.LVal{lisp.Number(1)}))
	require.Equal(t, lisp.LError, r.Type)
	assert.Equal(t, "not-callable", r.Str)
}

// Natives implementing tail-positioned forms (and, or, cond) must hand the
// host a plain value through FunCall, never an evaluator mark.
func TestHostCallResolvesTerminalForms(t *testing.T) {
	env := newEnv(t)

	and := env.Get(lisp.Symbol("and"))
	require.Equal(t, lisp.LFun, and.Type)
	r := env.FunCall(and, lisp.SExpr([]*lisp.LVal{lisp.Number(1), lisp.Number(2)}))
	require.Equal(t, lisp.LNumber, r.Type, "and returned %v", r)
	assert.Equal(t, float64(2), r.Num)

	or := env.Get(lisp.Symbol("or"))
	require.Equal(t, lisp.LFun, or.Type)
	r = env.FunCall(or, lisp.SExpr([]*lisp.LVal{lisp.Nil(), lisp.Number(7)}))
	require.Equal(t, lisp.LNumber, r.Type, "or returned %v", r)
	assert.Equal(t, float64(7), r.Num)
}

func TestEvalEmptyList(t *testing.T) {
	env := newEnv(t)
	v := env.Eval(lisp.Nil())
	assert.True(t, v.IsNil())
}
