// Copyright © 2025 The Weft authors

package lisp

import (
	"fmt"
	"io"
	"strings"

	"github.com/weftlang/weft/parser/token"
)

// LEnv is a lexical scope frame.  Bindings live in Scope and symbol
// resolution walks the Parent chain outward.  Every LEnv ever derived is
// recorded in the runtime's frame registry so that unreachable frames can be
// collected explicitly (see gc.go).
type LEnv struct {
	Scope   map[string]*LVal
	Parent  *LEnv
	Runtime *Runtime
	Loc     *token.Location
	ID      uint

	// gcmark is the reachability flag used during mark-sweep collection.
	gcmark bool
}

// NewEnv returns a new environment.  When parent is nil the environment is a
// root with a fresh Runtime, otherwise it is a child frame sharing the
// parent's Runtime.  Either way the frame is registered with the runtime's
// collector.
func NewEnv(parent *LEnv) *LEnv {
	if parent != nil {
		return newEnvRuntime(parent.Runtime, parent)
	}
	return newEnvRuntime(StandardRuntime(), nil)
}

// NewEnvRuntime returns a new root environment sharing the given runtime.
func NewEnvRuntime(rt *Runtime) *LEnv {
	return newEnvRuntime(rt, nil)
}

func newEnvRuntime(rt *Runtime, parent *LEnv) *LEnv {
	env := &LEnv{
		Scope:   make(map[string]*LVal),
		Parent:  parent,
		Runtime: rt,
		ID:      rt.GenEnvID(),
	}
	if parent == nil && rt.root == nil {
		rt.root = env
	}
	rt.registerEnv(env)
	return env
}

// InitializeUserEnv registers the default native procedures with env,
// applies the given configuration, and evaluates the embedded prelude.  A
// prelude failure is returned as an LError and leaves env unusable.
func InitializeUserEnv(env *LEnv, config ...Config) *LVal {
	for _, fn := range config {
		rc := fn(env)
		if rc.Type == LError {
			return rc
		}
	}
	env.AddBuiltins(DefaultBuiltins()...)
	return BootstrapPrelude(env)
}

// Get resolves the symbol k against env and its ancestors.  The bound LVal
// is returned without copying; values are never mutated in place so sharing
// the pointer is equivalent to a copy.  An unresolvable symbol produces an
// undefined-symbol error carrying the symbol's source location.
func (env *LEnv) Get(k *LVal) *LVal {
	if k.Type != LSymbol {
		return env.ErrorConditionf("type-mismatch", "cannot resolve non-symbol: %v", k.Type)
	}
	switch k.Str {
	case TrueSymbol:
		return singletonTrue
	case FalseSymbol:
		return singletonFalse
	}
	for e := env; e != nil; e = e.Parent {
		if v, ok := e.Scope[k.Str]; ok {
			return v
		}
	}
	err := env.ErrorConditionf("undefined-symbol", "unbound symbol: %s", k.Str)
	if k.Source != nil && k.Source != defaultSourceLocation {
		err.Source = k.Source
	}
	return err
}

// Put defines the symbol k as v in the current frame, shadowing any binding
// in an ancestor.  Put never modifies ancestor frames.
func (env *LEnv) Put(k *LVal, v *LVal) *LVal {
	if k.Type != LSymbol {
		return env.ErrorConditionf("type-mismatch", "cannot bind non-symbol: %v", k.Type)
	}
	if IsReservedSymbol(k.Str) {
		return env.ErrorConditionf("ill-formed-syntax", "cannot rebind reserved symbol: %s", k.Str)
	}
	env.Scope[k.Str] = v
	return Nil()
}

// Update mutates the nearest existing binding of the symbol k, walking
// outward from env.  Unlike Put, Update fails when k is nowhere bound.
func (env *LEnv) Update(k *LVal, v *LVal) *LVal {
	if k.Type != LSymbol {
		return env.ErrorConditionf("type-mismatch", "cannot bind non-symbol: %v", k.Type)
	}
	if IsReservedSymbol(k.Str) {
		return env.ErrorConditionf("ill-formed-syntax", "cannot rebind reserved symbol: %s", k.Str)
	}
	for e := env; e != nil; e = e.Parent {
		if _, ok := e.Scope[k.Str]; ok {
			e.Scope[k.Str] = v
			return Nil()
		}
	}
	return env.ErrorConditionf("undefined-symbol", "symbol not bound: %s", k.Str)
}

// Keys returns the names bound in env's own frame, not its ancestors.
func (env *LEnv) Keys() []string {
	keys := make([]string, 0, len(env.Scope))
	for k := range env.Scope {
		keys = append(keys, k)
	}
	return keys
}

// Lambda returns a new closure capturing env with the given formals and
// body.  The formal list may end with one &-prefixed rest parameter.
func (env *LEnv) Lambda(formals *LVal, body []*LVal) *LVal {
	if formals.Type != LSExpr {
		return env.ErrorConditionf("ill-formed-syntax", "formal argument list is not a list: %v", formals.Type)
	}
	if err := checkFormals(env, formals); err != nil {
		return err
	}
	cells := make([]*LVal, 0, len(body)+1)
	cells = append(cells, formals)
	cells = append(cells, body...)
	return &LVal{
		Source: env.Loc,
		Type:   LFun,
		Native: &LFunData{
			Env: env,
			FID: env.Runtime.GenFID(),
		},
		Cells: cells,
	}
}

// Macro returns a new macro function with the given formals and body.  The
// macro remembers the environment of its definition site; its body is
// evaluated in a child of that frame at expansion time.
func (env *LEnv) Macro(formals *LVal, body []*LVal) *LVal {
	fun := env.Lambda(formals, body)
	if fun.Type == LError {
		return fun
	}
	fun.FunType = LFunMacro
	return fun
}

func checkFormals(env *LEnv, formals *LVal) *LVal {
	for i, arg := range formals.Cells {
		if arg.Type != LSymbol {
			return env.ErrorConditionf("ill-formed-syntax", "formal argument is not a symbol: %v", arg.Type)
		}
		if !IsVarArgSymbol(arg.Str) {
			continue
		}
		if len(VarArgName(arg.Str)) == 0 {
			return env.ErrorConditionf("ill-formed-syntax", "rest parameter has no name: %s", arg.Str)
		}
		if i != len(formals.Cells)-1 {
			return env.ErrorConditionf("ill-formed-syntax", "rest parameter is not the final formal argument: %s", arg.Str)
		}
	}
	return nil
}

// bind binds the formal arguments of fun against the argument list args in
// env's own frame.
func (env *LEnv) bind(fun *LVal, args *LVal) *LVal {
	formals := fun.Cells[0]
	n := len(formals.Cells)
	for i, sym := range formals.Cells {
		if IsVarArgSymbol(sym.Str) {
			rest := SExpr(append([]*LVal(nil), args.Cells[i:]...))
			env.Scope[VarArgName(sym.Str)] = rest
			return nil
		}
		if i >= len(args.Cells) {
			return env.ErrorConditionf("ill-formed-syntax",
				"invalid number of arguments in call to %s: expected %d, got %d",
				fun.FID(), n, len(args.Cells))
		}
		env.Scope[sym.Str] = args.Cells[i]
	}
	if len(args.Cells) > n {
		return env.ErrorConditionf("ill-formed-syntax",
			"invalid number of arguments in call to %s: expected %d, got %d",
			fun.FID(), n, len(args.Cells))
	}
	return nil
}

// AddBuiltins registers native procedures in env's own frame.
func (env *LEnv) AddBuiltins(defs ...LBuiltinDef) {
	for _, def := range defs {
		fn := Fun(def.Name(), def.Formals(), def.Eval)
		fn.Cells[1] = String(def.Docstring())
		env.Scope[def.Name()] = fn
	}
}

// DefineNativeProc registers a single native procedure under the given name.
// It is the primitive used by library packages to extend an environment.
func (env *LEnv) DefineNativeProc(name string, formals *LVal, doc string, fn LBuiltin) *LVal {
	if strings.TrimSpace(name) == "" {
		return env.ErrorConditionf("ill-formed-syntax", "native procedure has no name")
	}
	f := Fun(name, formals, fn)
	f.Cells[1] = String(doc)
	return env.Put(Symbol(name), f)
}

// Error constructs an LError value with the condition "error", the current
// source location, and a copy of the call stack.
func (env *LEnv) Error(v ...interface{}) *LVal {
	return env.ErrorCondition("error", v...)
}

// Errorf constructs an LError with a formatted message.
func (env *LEnv) Errorf(format string, v ...interface{}) *LVal {
	return env.ErrorConditionf("error", format, v...)
}

// ErrorCondition constructs an LError with the given condition type.  Cells
// are built from v: LVals are copied in, errors are stored as native
// payloads, anything else is rendered with fmt.
func (env *LEnv) ErrorCondition(condition string, v ...interface{}) *LVal {
	cells := make([]*LVal, len(v))
	for i := range v {
		switch x := v[i].(type) {
		case *LVal:
			cells[i] = x.Copy()
		case error:
			cells[i] = Native(x)
		default:
			cells[i] = String(fmt.Sprint(x))
		}
	}
	e := &LVal{
		Source: env.Loc,
		Type:   LError,
		Str:    condition,
		Cells:  cells,
	}
	e.SetCallStack(env.Runtime.Stack)
	return e
}

// ErrorConditionf constructs an LError with the given condition type and a
// formatted message.
func (env *LEnv) ErrorConditionf(condition string, format string, v ...interface{}) *LVal {
	e := &LVal{
		Source: env.Loc,
		Type:   LError,
		Str:    condition,
		Cells:  []*LVal{String(fmt.Sprintf(format, v...))},
	}
	e.SetCallStack(env.Runtime.Stack)
	return e
}

// Reader parses source text into expressions.
type Reader interface {
	Read(name string, r io.Reader) ([]*LVal, error)
}

// Load reads expressions from r and evaluates them in order, returning the
// value of the final expression.  Evaluation stops at the first error.
func (env *LEnv) Load(name string, r io.Reader) *LVal {
	if env.Runtime.Reader == nil {
		return env.ErrorConditionf("load-error", "no reader configured for the environment")
	}
	exprs, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return env.ErrorCondition("parse-error", err)
	}
	ret := Nil()
	for _, expr := range exprs {
		ret = env.Eval(expr)
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

// LoadString evaluates the source text contents, attributing it to name.
func (env *LEnv) LoadString(name string, contents string) *LVal {
	return env.Load(name, strings.NewReader(contents))
}
