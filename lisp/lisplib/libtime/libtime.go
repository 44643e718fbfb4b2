// Copyright © 2025 The Weft authors

// Package libtime provides wall clock procedures under the time: prefix.
package libtime

import (
	"time"

	"github.com/weftlang/weft/lisp"
)

// DefaultPackageName is the symbol prefix used by LoadPackage.
const DefaultPackageName = "time"

// LoadPackage adds the time procedures to env.
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
	{"time:now", lisp.Formals(), builtinNow,
		"Returns the current wall clock time in seconds since the unix epoch."},
	{"time:sleep", lisp.Formals("seconds"), builtinSleep,
		"Suspends evaluation for the given number of seconds."},
	{"time:format", lisp.Formals("seconds"), builtinFormat,
		"Renders a unix timestamp in seconds as an RFC 3339 string in UTC."},
	{"time:parse", lisp.Formals("str"), builtinParse,
		"Parses an RFC 3339 string and returns a unix timestamp in seconds."},
}

func builtinNow(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	if len(args.Cells) != 0 {
		return env.ErrorConditionf("ill-formed-syntax", "time:now takes no arguments")
	}
	now := time.Now()
	return lisp.Number(float64(now.UnixNano()) / float64(time.Second))
}

func builtinSleep(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	sec, err := evalSeconds(env, args, "time:sleep")
	if err != nil {
		return err
	}
	time.Sleep(time.Duration(sec * float64(time.Second)))
	return lisp.Nil()
}

func builtinFormat(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	sec, err := evalSeconds(env, args, "time:format")
	if err != nil {
		return err
	}
	t := time.Unix(0, int64(sec*float64(time.Second))).UTC()
	return lisp.String(t.Format(time.RFC3339))
}

func builtinParse(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	if len(args.Cells) != 1 {
		return env.ErrorConditionf("ill-formed-syntax", "time:parse requires exactly one argument")
	}
	v := env.Eval(args.Cells[0])
	if v.Type == lisp.LError {
		return v
	}
	if v.Type != lisp.LString {
		return env.ErrorConditionf("type-mismatch", "time:parse argument is not a string: %v", v.Type)
	}
	t, err := time.Parse(time.RFC3339, v.Str)
	if err != nil {
		return env.ErrorConditionf("user-error", "time:parse: %v", err)
	}
	return lisp.Number(float64(t.UnixNano()) / float64(time.Second))
}

func evalSeconds(env *lisp.LEnv, args *lisp.LVal, name string) (float64, *lisp.LVal) {
	if len(args.Cells) != 1 {
		return 0, env.ErrorConditionf("ill-formed-syntax", "%s requires exactly one argument", name)
	}
	v := env.Eval(args.Cells[0])
	if v.Type == lisp.LError {
		return 0, v
	}
	if v.Type != lisp.LNumber {
		return 0, env.ErrorConditionf("type-mismatch", "%s argument is not a number: %v", name, v.Type)
	}
	return v.Num, nil
}
