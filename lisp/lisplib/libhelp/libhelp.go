// Copyright © 2025 The Weft authors

// Package libhelp provides interactive documentation lookup for symbols
// bound in a live environment.
package libhelp

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/weftlang/weft/lisp"
)

// DefaultPackageName is the symbol prefix used by LoadPackage.
const DefaultPackageName = "help"

// LoadPackage adds the help procedure to env.
func LoadPackage(env *lisp.LEnv) *lisp.LVal {
	return env.DefineNativeProc("help", lisp.Formals("var-name"),
		`Prints documentation for the given symbol.  Functions have their
		signature and any docstring rendered.  Other variables have their
		types and current values printed.`,
		builtinHelp)
}

func builtinHelp(env *lisp.LEnv, args *lisp.LVal) *lisp.LVal {
	if len(args.Cells) != 1 {
		return env.ErrorConditionf("ill-formed-syntax", "help requires exactly one argument")
	}
	name := env.Eval(args.Cells[0])
	if name.Type == lisp.LError {
		return name
	}
	if name.Type != lisp.LSymbol {
		return env.ErrorConditionf("type-mismatch", "help argument is not a symbol: %v", name.Type)
	}
	err := RenderVar(env.Runtime.Stderr, env, name.Str)
	if err != nil {
		return env.Error(err)
	}
	return lisp.Nil()
}

// RenderVar writes to w formatted documentation for the object referenced
// by sym in the context of env.  The exact formatting of the rendered
// documentation is subject to change.
func RenderVar(w io.Writer, env *lisp.LEnv, sym string) error {
	v := env.Get(lisp.Symbol(sym))
	if v.Type == lisp.LError {
		return lisp.GoError(v)
	}
	if v.Type != lisp.LFun {
		return renderVal(w, sym, v)
	}
	return renderFun(w, sym, v)
}

func renderVal(w io.Writer, sym string, v *lisp.LVal) error {
	_, err := fmt.Fprintf(w, "%v %s %v\n", v.Type, sym, v)
	return err
}

func renderFun(w io.Writer, sym string, v *lisp.LVal) error {
	_, err := fmt.Fprintf(w, "%s ", v.FunType)
	if err != nil {
		return fmt.Errorf("rendering function type: %w", err)
	}
	args := v.Cells[0]
	siglist := lisp.SExpr(make([]*lisp.LVal, 1+args.Len()))
	siglist.Cells[0] = lisp.Symbol(sym)
	copy(siglist.Cells[1:], args.Cells)
	_, err = fmt.Fprintln(w, siglist)
	if err != nil {
		return fmt.Errorf("rendering signature: %w", err)
	}
	doc := cleanDocstring(v.Docstring())
	if doc != "" {
		_, err = fmt.Fprintln(w, doc)
	}
	return err
}

func cleanDocstring(doc string) string {
	if doc == "" {
		return ""
	}
	if doc[0] == '\n' {
		doc = doc[1:]
	}
	doc = indent.String(wordwrap.String(dedentDoc(doc), 72), 2)
	return strings.TrimSuffix(doc, "\n")
}

// dedentDoc removes common leading whitespace from all non-empty lines.
// Go raw string literals often have a first line with less indentation
// than continuation lines, so the first line is dedented independently.
func dedentDoc(s string) string {
	s = strings.ReplaceAll(s, "\t", "    ")
	lines := strings.Split(s, "\n")

	minWS := -1
	start := 0
	if len(lines) > 1 {
		start = 1
	}
	for _, line := range lines[start:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		ws := len(line) - len(trimmed)
		if minWS < 0 || ws < minWS {
			minWS = ws
		}
	}
	lines[0] = strings.TrimLeft(lines[0], " ")
	if minWS <= 0 {
		return strings.Join(lines, "\n")
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			lines[i] = ""
		} else if len(lines[i]) >= minWS {
			lines[i] = lines[i][minWS:]
		}
	}
	return strings.Join(lines, "\n")
}
