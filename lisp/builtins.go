// Copyright © 2025 The Weft authors

package lisp

import (
	"fmt"
	"math"
)

type langBuiltin struct {
	name    string
	formals *LVal
	fun     LBuiltin
	docs    string
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Formals() *LVal {
	return fun.formals
}

func (fun *langBuiltin) Eval(env *LEnv, args *LVal) *LVal {
	return fun.fun(env, args)
}

func (fun *langBuiltin) Docstring() string {
	return fun.docs
}

// Natives receive their raw, unevaluated argument list and decide what to
// evaluate.  Most delegate to evalArgs up front; the control forms (cond,
// and, or) evaluate selectively and hand their tail expression back to the
// evaluator as a terminal mark.
var langBuiltins = []*langBuiltin{
	{"define", Formals("sym", "expr"), builtinDefine,
		"Bind sym to the value of expr in the current scope frame."},
	{"set!", Formals("sym", "expr"), builtinSet,
		"Mutate the nearest existing binding of sym.  It is an error if sym is unbound."},
	{"lambda", Formals("formals", "&body"), builtinLambda,
		"Create a closure over the current scope with the given formal arguments and body."},
	{"defmacro", Formals("sym", "formals", "&body"), builtinDefmacro,
		"Define a macro.  Macro arguments are not evaluated; the body produces an expression which is evaluated in the caller's scope."},
	{"cond", Formals("&clauses"), builtinCond,
		"Evaluate clause tests in order and evaluate the body of the first clause whose test is truthy."},
	{"and", Formals("&exprs"), builtinAnd,
		"Evaluate expressions left to right, returning the first falsey value."},
	{"or", Formals("&exprs"), builtinOr,
		"Evaluate expressions left to right, returning the first truthy value."},
	{"eval", Formals("expr"), builtinEval,
		"Evaluate the value of expr as an expression."},
	{"car", Formals("lis"), builtinCar,
		"Return the first element of a non-empty list."},
	{"cdr", Formals("lis"), builtinCDR,
		"Return the list of all elements of lis but the first."},
	{"cons", Formals("head", "lis"), builtinCons,
		"Return a new list with head prepended to the elements of lis."},
	{"list", Formals("&elems"), builtinList,
		"Return a list containing the values of elems."},
	{"concat", Formals("&lists"), builtinConcat,
		"Return the concatenation of the given lists."},
	{"map", Formals("fun", "lis"), builtinMap,
		"Return the list of results of applying fun to each element of lis."},
	{"+", Formals("&numbers"), builtinAdd,
		"Return the sum of the given numbers."},
	{"-", Formals("&numbers"), builtinSub,
		"Return the difference of the given numbers, or the negation of a single number."},
	{"*", Formals("&numbers"), builtinMul,
		"Return the product of the given numbers."},
	{"/", Formals("&numbers"), builtinDiv,
		"Return the quotient of the given numbers."},
	{"%", Formals("a", "b"), builtinMod,
		"Return the floating point remainder of a divided by b."},
	{"=", Formals("a", "&rest"), builtinNumEq,
		"Return true if the given numbers are all equal."},
	{"<", Formals("a", "&rest"), builtinLT,
		"Return true if the given numbers are strictly increasing."},
	{"<=", Formals("a", "&rest"), builtinLTE,
		"Return true if the given numbers are non-decreasing."},
	{">", Formals("a", "&rest"), builtinGT,
		"Return true if the given numbers are strictly decreasing."},
	{">=", Formals("a", "&rest"), builtinGTE,
		"Return true if the given numbers are non-increasing."},
	{"equal?", Formals("a", "b"), builtinEqual,
		"Return true if a and b are structurally equal.  Functions are never equal."},
	{"not", Formals("expr"), builtinNot,
		"Return the boolean negation of the value of expr."},
	{"number?", Formals("v"), builtinIsNumber,
		"Return true if v is a number."},
	{"string?", Formals("v"), builtinIsString,
		"Return true if v is a string."},
	{"symbol?", Formals("v"), builtinIsSymbol,
		"Return true if v is a symbol."},
	{"list?", Formals("v"), builtinIsList,
		"Return true if v is a list."},
	{"function?", Formals("v"), builtinIsFunction,
		"Return true if v is a function."},
	{"to-string", Formals("v"), builtinToString,
		"Return the rendered representation of v as a string."},
	{"debug-print", Formals("&vals"), builtinDebugPrint,
		"Write the given values to the runtime's debug stream."},
	{"error", Formals("&msg"), builtinError,
		"Raise an error with the given message values."},
}

// DefaultBuiltins returns the native procedures registered in all user
// environments.
func DefaultBuiltins() []LBuiltinDef {
	defs := make([]LBuiltinDef, len(langBuiltins))
	for i := range langBuiltins {
		defs[i] = langBuiltins[i]
	}
	return defs
}

func builtinDefine(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 2 {
		return env.ErrorConditionf("ill-formed-syntax", "define requires a symbol and an expression")
	}
	sym := args.Cells[0]
	if sym.Type != LSymbol {
		return env.ErrorConditionf("ill-formed-syntax", "cannot define non-symbol: %v", sym.Type)
	}
	v := env.Eval(args.Cells[1])
	if v.Type == LError {
		return v
	}
	rc := env.Put(sym, v)
	if rc.Type == LError {
		return rc
	}
	return sym
}

func builtinSet(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 2 {
		return env.ErrorConditionf("ill-formed-syntax", "set! requires a symbol and an expression")
	}
	sym := args.Cells[0]
	if sym.Type != LSymbol {
		return env.ErrorConditionf("ill-formed-syntax", "cannot set non-symbol: %v", sym.Type)
	}
	v := env.Eval(args.Cells[1])
	if v.Type == LError {
		return v
	}
	return env.Update(sym, v)
}

func builtinLambda(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 1 {
		return env.ErrorConditionf("ill-formed-syntax", "lambda requires a formal argument list")
	}
	return env.Lambda(args.Cells[0], args.Cells[1:])
}

func builtinDefmacro(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 2 {
		return env.ErrorConditionf("ill-formed-syntax", "defmacro requires a name and a formal argument list")
	}
	sym := args.Cells[0]
	if sym.Type != LSymbol {
		return env.ErrorConditionf("ill-formed-syntax", "cannot define non-symbol: %v", sym.Type)
	}
	mac := env.Macro(args.Cells[1], args.Cells[2:])
	if mac.Type == LError {
		return mac
	}
	rc := env.Put(sym, mac)
	if rc.Type == LError {
		return rc
	}
	return sym
}

func builtinCond(env *LEnv, args *LVal) *LVal {
	for _, clause := range args.Cells {
		if clause.Type != LSExpr || len(clause.Cells) == 0 {
			return env.ErrorConditionf("ill-formed-syntax", "cond clause is not a non-empty list: %s", clause)
		}
		test := env.Eval(clause.Cells[0])
		if test.Type == LError {
			return test
		}
		if Not(test) {
			continue
		}
		body := clause.Cells[1:]
		if len(body) == 0 {
			return test
		}
		for _, expr := range body[:len(body)-1] {
			r := env.Eval(expr)
			if r.Type == LError {
				return r
			}
		}
		return markTerminal(body[len(body)-1])
	}
	return Nil()
}

func builtinAnd(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) == 0 {
		return Bool(true)
	}
	for _, expr := range args.Cells[:len(args.Cells)-1] {
		r := env.Eval(expr)
		if r.Type == LError || Not(r) {
			return r
		}
	}
	return markTerminal(args.Cells[len(args.Cells)-1])
}

func builtinOr(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) == 0 {
		return Bool(false)
	}
	for _, expr := range args.Cells[:len(args.Cells)-1] {
		r := env.Eval(expr)
		if r.Type == LError || True(r) {
			return r
		}
	}
	return markTerminal(args.Cells[len(args.Cells)-1])
}

func builtinEval(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 1 {
		return env.ErrorConditionf("ill-formed-syntax", "eval requires exactly one argument")
	}
	v := env.Eval(args.Cells[0])
	if v.Type == LError {
		return v
	}
	return env.Eval(v)
}

func builtinCar(env *LEnv, args *LVal) *LVal {
	lis, err := evalListArg(env, args, "car")
	if err != nil {
		return err
	}
	if len(lis.Cells) == 0 {
		return env.ErrorConditionf("type-mismatch", "car of empty list")
	}
	return lis.Cells[0]
}

func builtinCDR(env *LEnv, args *LVal) *LVal {
	lis, err := evalListArg(env, args, "cdr")
	if err != nil {
		return err
	}
	if len(lis.Cells) == 0 {
		return env.ErrorConditionf("type-mismatch", "cdr of empty list")
	}
	return SExpr(append([]*LVal(nil), lis.Cells[1:]...))
}

func evalListArg(env *LEnv, args *LVal, name string) (*LVal, *LVal) {
	if len(args.Cells) != 1 {
		return nil, env.ErrorConditionf("ill-formed-syntax", "%s requires exactly one argument", name)
	}
	lis := env.Eval(args.Cells[0])
	if lis.Type == LError {
		return nil, lis
	}
	if lis.Type != LSExpr {
		return nil, env.ErrorConditionf("type-mismatch", "%s argument is not a list: %v", name, lis.Type)
	}
	return lis, nil
}

func builtinCons(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 2 {
		return env.ErrorConditionf("ill-formed-syntax", "cons requires exactly two arguments")
	}
	head := env.Eval(args.Cells[0])
	if head.Type == LError {
		return head
	}
	lis := env.Eval(args.Cells[1])
	if lis.Type == LError {
		return lis
	}
	if lis.Type != LSExpr {
		return env.ErrorConditionf("type-mismatch", "cons tail is not a list: %v", lis.Type)
	}
	cells := make([]*LVal, 0, len(lis.Cells)+1)
	cells = append(cells, head)
	cells = append(cells, lis.Cells...)
	return SExpr(cells)
}

func builtinList(env *LEnv, args *LVal) *LVal {
	return env.evalArgs(args)
}

func builtinConcat(env *LEnv, args *LVal) *LVal {
	argv := env.evalArgs(args)
	if argv.Type == LError {
		return argv
	}
	var cells []*LVal
	for _, lis := range argv.Cells {
		if lis.Type != LSExpr {
			return env.ErrorConditionf("type-mismatch", "concat argument is not a list: %v", lis.Type)
		}
		cells = append(cells, lis.Cells...)
	}
	return SExpr(cells)
}

func builtinMap(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 2 {
		return env.ErrorConditionf("ill-formed-syntax", "map requires exactly two arguments")
	}
	fun := env.Eval(args.Cells[0])
	if fun.Type == LError {
		return fun
	}
	if fun.Type != LFun || fun.IsMacro() {
		return env.ErrorConditionf("type-mismatch", "map function argument is not applicable: %s", fun)
	}
	lis := env.Eval(args.Cells[1])
	if lis.Type == LError {
		return lis
	}
	if lis.Type != LSExpr {
		return env.ErrorConditionf("type-mismatch", "map list argument is not a list: %v", lis.Type)
	}
	cells := make([]*LVal, len(lis.Cells))
	for i, elem := range lis.Cells {
		// Natives evaluate their arguments, so elements passed to one are
		// wrapped in quote to keep them inert.
		arg := elem
		if fun.IsNative() {
			arg = SExpr([]*LVal{Symbol(QuoteSymbol), elem})
		}
		r := env.FunCall(fun, SExpr([]*LVal{arg}))
		if r.Type == LError {
			return r
		}
		cells[i] = r
	}
	return SExpr(cells)
}

func evalNumberArgs(env *LEnv, args *LVal, name string, min int) ([]*LVal, *LVal) {
	argv := env.evalArgs(args)
	if argv.Type == LError {
		return nil, argv
	}
	if len(argv.Cells) < min {
		return nil, env.ErrorConditionf("ill-formed-syntax",
			"%s requires at least %d arguments", name, min)
	}
	for _, v := range argv.Cells {
		if v.Type != LNumber {
			return nil, env.ErrorConditionf("type-mismatch",
				"%s argument is not a number: %v", name, v.Type)
		}
	}
	return argv.Cells, nil
}

func builtinAdd(env *LEnv, args *LVal) *LVal {
	vals, err := evalNumberArgs(env, args, "+", 0)
	if err != nil {
		return err
	}
	sum := 0.0
	for _, v := range vals {
		sum += v.Num
	}
	return Number(sum)
}

func builtinSub(env *LEnv, args *LVal) *LVal {
	vals, err := evalNumberArgs(env, args, "-", 1)
	if err != nil {
		return err
	}
	if len(vals) == 1 {
		return Number(-vals[0].Num)
	}
	diff := vals[0].Num
	for _, v := range vals[1:] {
		diff -= v.Num
	}
	return Number(diff)
}

func builtinMul(env *LEnv, args *LVal) *LVal {
	vals, err := evalNumberArgs(env, args, "*", 0)
	if err != nil {
		return err
	}
	prod := 1.0
	for _, v := range vals {
		prod *= v.Num
	}
	return Number(prod)
}

func builtinDiv(env *LEnv, args *LVal) *LVal {
	vals, err := evalNumberArgs(env, args, "/", 1)
	if err != nil {
		return err
	}
	if len(vals) == 1 {
		vals = append([]*LVal{Number(1)}, vals...)
	}
	quot := vals[0].Num
	for _, v := range vals[1:] {
		if v.Num == 0 {
			return env.ErrorConditionf("division-by-zero", "division by zero")
		}
		quot /= v.Num
	}
	return Number(quot)
}

func builtinMod(env *LEnv, args *LVal) *LVal {
	vals, err := evalNumberArgs(env, args, "%", 2)
	if err != nil {
		return err
	}
	if len(vals) != 2 {
		return env.ErrorConditionf("ill-formed-syntax", "%% requires exactly two arguments")
	}
	if vals[1].Num == 0 {
		return env.ErrorConditionf("division-by-zero", "division by zero")
	}
	return Number(math.Mod(vals[0].Num, vals[1].Num))
}

func numCompare(env *LEnv, args *LVal, name string, ok func(a, b float64) bool) *LVal {
	vals, err := evalNumberArgs(env, args, name, 2)
	if err != nil {
		return err
	}
	for i := 1; i < len(vals); i++ {
		if !ok(vals[i-1].Num, vals[i].Num) {
			return Bool(false)
		}
	}
	return Bool(true)
}

func builtinNumEq(env *LEnv, args *LVal) *LVal {
	return numCompare(env, args, "=", func(a, b float64) bool { return a == b })
}

func builtinLT(env *LEnv, args *LVal) *LVal {
	return numCompare(env, args, "<", func(a, b float64) bool { return a < b })
}

func builtinLTE(env *LEnv, args *LVal) *LVal {
	return numCompare(env, args, "<=", func(a, b float64) bool { return a <= b })
}

func builtinGT(env *LEnv, args *LVal) *LVal {
	return numCompare(env, args, ">", func(a, b float64) bool { return a > b })
}

func builtinGTE(env *LEnv, args *LVal) *LVal {
	return numCompare(env, args, ">=", func(a, b float64) bool { return a >= b })
}

func builtinEqual(env *LEnv, args *LVal) *LVal {
	argv := env.evalArgs(args)
	if argv.Type == LError {
		return argv
	}
	if len(argv.Cells) != 2 {
		return env.ErrorConditionf("ill-formed-syntax", "equal? requires exactly two arguments")
	}
	return argv.Cells[0].Equal(argv.Cells[1])
}

func builtinNot(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 1 {
		return env.ErrorConditionf("ill-formed-syntax", "not requires exactly one argument")
	}
	v := env.Eval(args.Cells[0])
	if v.Type == LError {
		return v
	}
	return Bool(Not(v))
}

func typePredicate(env *LEnv, args *LVal, name string, ok func(v *LVal) bool) *LVal {
	if len(args.Cells) != 1 {
		return env.ErrorConditionf("ill-formed-syntax", "%s requires exactly one argument", name)
	}
	v := env.Eval(args.Cells[0])
	if v.Type == LError {
		return v
	}
	return Bool(ok(v))
}

func builtinIsNumber(env *LEnv, args *LVal) *LVal {
	return typePredicate(env, args, "number?", func(v *LVal) bool { return v.Type == LNumber })
}

func builtinIsString(env *LEnv, args *LVal) *LVal {
	return typePredicate(env, args, "string?", func(v *LVal) bool { return v.Type == LString })
}

func builtinIsSymbol(env *LEnv, args *LVal) *LVal {
	return typePredicate(env, args, "symbol?", func(v *LVal) bool { return v.Type == LSymbol })
}

func builtinIsList(env *LEnv, args *LVal) *LVal {
	return typePredicate(env, args, "list?", func(v *LVal) bool { return v.Type == LSExpr })
}

func builtinIsFunction(env *LEnv, args *LVal) *LVal {
	return typePredicate(env, args, "function?", func(v *LVal) bool { return v.Type == LFun })
}

func builtinToString(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 1 {
		return env.ErrorConditionf("ill-formed-syntax", "to-string requires exactly one argument")
	}
	v := env.Eval(args.Cells[0])
	if v.Type == LError {
		return v
	}
	if v.Type == LString {
		return v
	}
	return String(v.String())
}

func builtinDebugPrint(env *LEnv, args *LVal) *LVal {
	argv := env.evalArgs(args)
	if argv.Type == LError {
		return argv
	}
	parts := make([]interface{}, len(argv.Cells))
	for i, v := range argv.Cells {
		if v.Type == LString {
			parts[i] = v.Str
		} else {
			parts[i] = v.String()
		}
	}
	fmt.Fprintln(env.Runtime.Stderr, parts...)
	return Nil()
}

func builtinError(env *LEnv, args *LVal) *LVal {
	argv := env.evalArgs(args)
	if argv.Type == LError {
		return argv
	}
	iargs := make([]interface{}, len(argv.Cells))
	for i := range argv.Cells {
		iargs[i] = argv.Cells[i]
	}
	return env.ErrorCondition("user-error", iargs...)
}
