// Copyright © 2025 The Weft authors

// Package libmath provides floating point math procedures under the math:
// prefix.
package libmath

import (
	"math"

	"github.com/weftlang/weft/lisp"
)

// DefaultPackageName is the symbol prefix used by LoadPackage.
const DefaultPackageName = "math"

// LoadPackage adds the math procedures and constants to env.
func LoadPackage(env *lisp.LEnv) *lisp.LVal {
	e := env.Put(lisp.Symbol("math:pi"), lisp.Number(math.Pi))
	if !e.IsNil() {
		return e
	}
	e = env.Put(lisp.Symbol("math:e"), lisp.Number(math.E))
	if !e.IsNil() {
		return e
	}
	e = env.Put(lisp.Symbol("math:inf"), lisp.Number(math.Inf(1)))
	if !e.IsNil() {
		return e
	}
	for _, fn := range builtins {
		e = env.DefineNativeProc(fn.name, fn.formals, fn.docs, fn.fun)
		if !e.IsNil() {
			return e
		}
	}
	return lisp.Nil()
}

type builtin struct {
	name    string
	formals *lisp.LVal
	fun     lisp.LBuiltin
	docs    string
}

var builtins = []*builtin{
	{"math:sqrt", lisp.Formals("number"), builtinSqrt,
		"Returns the square root of number."},
	{"math:pow", lisp.Formals("base", "exponent"), builtinPow,
		"Returns base raised to the power of exponent."},
	{"math:abs", lisp.Formals("number"), builtinAbs,
		"Returns the absolute value of number."},
	{"math:floor", lisp.Formals("number"), builtinFloor,
		"Returns the largest integral value not greater than number."},
	{"math:ceil", lisp.Formals("number"), builtinCeil,
		"Returns the smallest integral value not less than number."},
	{"math:exp", lisp.Formals("number"), builtinExp,
		"Returns e raised to the power of number."},
	{"math:ln", lisp.Formals("number"), builtinLn,
		"Returns the natural logarithm of number."},
	{"math:min", lisp.Formals("number", "&rest"), builtinMin,
		"Returns the smallest of the given numbers."},
	{"math:max", lisp.Formals("number", "&rest"), builtinMax,
		"Returns the largest of the given numbers."},
	{"math:nan?", lisp.Formals("number"), builtinIsNaN,
		"Returns true if number is IEEE 754 NaN."},
}

// evalNumbers evaluates the raw argument list and checks that every value
// is a number.
func evalNumbers(env *lisp.LEnv, args *lisp.LVal, name string, want int) ([]*lisp.LVal, *lisp.LVal) {
	if want >= 0 && len(args.Cells) != want {
		return nil, env.ErrorConditionf("ill-formed-syntax",
			"%s requires exactly %d arguments", name, want)
	}
	vals := make([]*lisp.LVal, len(args.Cells))
	for i, expr := range args.Cells {
		v := env.Eval(expr)
		if v.Type == lisp.LError {
			return nil, v
		}
		if v.Type != lisp.LNumber {
			return nil, env.ErrorConditionf("type-mismatch",
				"%s argument is not a number: %v", name, v.Type)
		}
		vals[i] = v
	}
	return vals, nil
}

func unaryMath(name string, fn func(float64) float64) lisp.LBuiltin {
	return func(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
		vals, err := evalNumbers(env, args, name, 1)
		if err != nil {
			return err
		}
		return lisp.Number(fn(vals[0].Num))
	}
}

var (
	builtinSqrt  = unaryMath("math:sqrt", math.Sqrt)
	builtinAbs   = unaryMath("math:abs", math.Abs)
	builtinFloor = unaryMath("math:floor", math.Floor)
	builtinCeil  = unaryMath("math:ceil", math.Ceil)
	builtinExp   = unaryMath("math:exp", math.Exp)
	builtinLn    = unaryMath("math:ln", math.Log)
)

func builtinPow(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	vals, err := evalNumbers(env, args, "math:pow", 2)
	if err != nil {
		return err
	}
	return lisp.Number(math.Pow(vals[0].Num, vals[1].Num))
}

func builtinMin(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	vals, err := evalNumbers(env, args, "math:min", -1)
	if err != nil {
		return err
	}
	if len(vals) == 0 {
		return env.ErrorConditionf("ill-formed-syntax", "math:min requires at least one argument")
	}
	min := vals[0].Num
	for _, v := range vals[1:] {
		min = math.Min(min, v.Num)
	}
	return lisp.Number(min)
}

func builtinMax(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	vals, err := evalNumbers(env, args, "math:max", -1)
	if err != nil {
		return err
	}
	if len(vals) == 0 {
		return env.ErrorConditionf("ill-formed-syntax", "math:max requires at least one argument")
	}
	max := vals[0].Num
	for _, v := range vals[1:] {
		max = math.Max(max, v.Num)
	}
	return lisp.Number(max)
}

func builtinIsNaN(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	vals, err := evalNumbers(env, args, "math:nan?", 1)
	if err != nil {
		return err
	}
	return lisp.Bool(math.IsNaN(vals[0].Num))
}
