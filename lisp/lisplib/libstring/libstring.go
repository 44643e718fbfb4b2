// Copyright © 2025 The Weft authors

// Package libstring provides string manipulation procedures under the
// string: prefix.
package libstring

import (
	"strings"

	"github.com/weftlang/weft/lisp"
)

// DefaultPackageName is the symbol prefix used by LoadPackage.
const DefaultPackageName = "string"

// LoadPackage adds the string procedures to env.
func LoadPackage(env *lisp.LEnv) *lisp.LVal {
	for _, fn := range builtins {
		e := env.DefineNativeProc(fn.name, fn.formals, fn.docs, fn.fun)
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
	{"string:length", lisp.Formals("str"), builtinLength,
		"Returns the number of bytes in str."},
	{"string:upper", lisp.Formals("str"), builtinUpper,
		"Returns str with all characters mapped to upper case."},
	{"string:lower", lisp.Formals("str"), builtinLower,
		"Returns str with all characters mapped to lower case."},
	{"string:trim", lisp.Formals("str"), builtinTrim,
		"Returns str with leading and trailing whitespace removed."},
	{"string:split", lisp.Formals("str", "sep"), builtinSplit,
		"Returns the list of substrings of str separated by sep."},
	{"string:join", lisp.Formals("strs", "sep"), builtinJoin,
		"Returns the concatenation of the given list of strings separated by sep."},
	{"string:contains?", lisp.Formals("str", "substr"), builtinContains,
		"Returns true if substr is within str."},
	{"string:index", lisp.Formals("str", "substr"), builtinIndex,
		"Returns the byte index of the first instance of substr in str, or -1."},
	{"string:repeat", lisp.Formals("str", "count"), builtinRepeat,
		"Returns str repeated count times."},
}

func evalStringArgs(env *lisp.LEnv, args *lisp.LVal, name string, want int) ([]*lisp.LVal, *lisp.LVal) {
	if len(args.Cells) != want {
		return nil, env.ErrorConditionf("ill-formed-syntax",
			"%s requires exactly %d arguments", name, want)
	}
	vals := make([]*lisp.LVal, len(args.Cells))
	for i, expr := range args.Cells {
		v := env.Eval(expr)
		if v.Type == lisp.LError {
			return nil, v
		}
		vals[i] = v
	}
	return vals, nil
}

func checkString(env *lisp.LEnv, name string, v *lisp.LVal) *lisp.LVal {
	if v.Type != lisp.LString {
		return env.ErrorConditionf("type-mismatch", "%s argument is not a string: %v", name, v.Type)
	}
	return nil
}

func builtinLength(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	vals, err := evalStringArgs(env, args, "string:length", 1)
	if err != nil {
		return err
	}
	if err := checkString(env, "string:length", vals[0]); err != nil {
		return err
	}
	return lisp.Number(float64(len(vals[0].Str)))
}

func stringMap(name string, fn func(string) string) lisp.LBuiltin {
	return func(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
		vals, err := evalStringArgs(env, args, name, 1)
		if err != nil {
			return err
		}
		if err := checkString(env, name, vals[0]); err != nil {
			return err
		}
		return lisp.String(fn(vals[0].Str))
	}
}

var (
	builtinUpper = stringMap("string:upper", strings.ToUpper)
	builtinLower = stringMap("string:lower", strings.ToLower)
	builtinTrim  = stringMap("string:trim", strings.TrimSpace)
)

func builtinSplit(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	vals, err := evalStringArgs(env, args, "string:split", 2)
	if err != nil {
		return err
	}
	for _, v := range vals {
		if err := checkString(env, "string:split", v); err != nil {
			return err
		}
	}
	pieces := strings.Split(vals[0].Str, vals[1].Str)
	cells := make([]*lisp.LVal, len(pieces))
	for i := range pieces {
		cells[i] = lisp.String(pieces[i])
	}
	return lisp.SExpr(cells)
}

func builtinJoin(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	vals, err := evalStringArgs(env, args, "string:join", 2)
	if err != nil {
		return err
	}
	lis := vals[0]
	if lis.Type != lisp.LSExpr {
		return env.ErrorConditionf("type-mismatch", "string:join argument is not a list: %v", lis.Type)
	}
	if err := checkString(env, "string:join", vals[1]); err != nil {
		return err
	}
	pieces := make([]string, len(lis.Cells))
	for i, v := range lis.Cells {
		if err := checkString(env, "string:join", v); err != nil {
			return err
		}
		pieces[i] = v.Str
	}
	return lisp.String(strings.Join(pieces, vals[1].Str))
}

func builtinContains(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	vals, err := evalStringArgs(env, args, "string:contains?", 2)
	if err != nil {
		return err
	}
	for _, v := range vals {
		if err := checkString(env, "string:contains?", v); err != nil {
			return err
		}
	}
	return lisp.Bool(strings.Contains(vals[0].Str, vals[1].Str))
}

func builtinIndex(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	vals, err := evalStringArgs(env, args, "string:index", 2)
	if err != nil {
		return err
	}
	for _, v := range vals {
		if err := checkString(env, "string:index", v); err != nil {
			return err
		}
	}
	return lisp.Number(float64(strings.Index(vals[0].Str, vals[1].Str)))
}

func builtinRepeat(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	vals, err := evalStringArgs(env, args, "string:repeat", 2)
	if err != nil {
		return err
	}
	if err := checkString(env, "string:repeat", vals[0]); err != nil {
		return err
	}
	if vals[1].Type != lisp.LNumber || vals[1].Num < 0 {
		return env.ErrorConditionf("type-mismatch", "string:repeat count is not a non-negative number")
	}
	return lisp.String(strings.Repeat(vals[0].Str, int(vals[1].Num)))
}
