// Copyright © 2025 The Weft authors

package lisp

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/weftlang/weft/parser/token"
)

// LType is the type of an LVal.
type LType uint

// Possible LType values.
const (
	// LInvalid (0) is not a valid lisp type.
	LInvalid LType = iota
	// LNumber values store a float64 in the LVal.Num field.  Weft has a
	// single numeric type.
	LNumber
	// LString values store a string in the LVal.Str field.
	LString
	// LSymbol values store a string representation of the symbol in the
	// LVal.Str field.
	LSymbol
	// LSExpr values are lists and store their elements in LVal.Cells.  An
	// LSExpr with no cells is the canonical nil value, which doubles as the
	// false boolean.  The cells of a list are always expressions themselves,
	// there are no dotted pairs.
	LSExpr
	// LFun values store an *LFunData in the LVal.Native field and are
	// further classified by LVal.FunType.  Functions defined in lisp (with
	// lambda or defmacro) use LVal.Cells to store the following items:
	//		[0]  a list of formal argument symbols
	//		[1:] body expressions
	// Builtin functions store their formals in Cells[0] and a docstring in
	// Cells[1].
	LFun
	// LError values store an error condition symbol in LVal.Str, message
	// data in LVal.Cells, and a copy of the call stack at the time of their
	// creation in LVal.Native.
	LError
	// LNative values store an opaque Go value in the LVal.Native field.
	// They allow builtin functions to traffic in host data (vectors, file
	// handles, ...) that has no lisp representation.
	LNative
	// LMarkTailRec values are deferred tail calls produced by the evaluator
	// when a procedure body ends in a call.  They hold the function and its
	// evaluated arguments in Cells.  Marks never escape the evaluator and
	// rendering one is a programming error.
	LMarkTailRec
	// LMarkTerminal values are returned by native procedures that evaluate
	// one of their raw arguments in tail position (cond, and, or).  The
	// evaluator resolves the mark in the caller's environment, keeping the
	// expression eligible for tail-call elimination.
	LMarkTerminal
	// LTypeMax is not a real type.  It is numerically greater than all valid
	// LType values.
	LTypeMax
)

var ltypeStrings = []string{
	LInvalid:     "INVALID",
	LNumber:      "number",
	LString:      "string",
	LSymbol:      "symbol",
	LSExpr:       "list",
	LFun:         "function",
	LError:       "error",
	LNative:      "native",
	LMarkTailRec: "marker-tail-recursion",
	LMarkTerminal: "marker-terminal",
}

func (t LType) String() string {
	if t >= LType(len(ltypeStrings)) {
		return ltypeStrings[LInvalid]
	}
	return ltypeStrings[t]
}

// LFunType classifies LFun values.
type LFunType uint8

// LFunType constants.  LFunNone indicates a regular function, which receives
// evaluated arguments when applied.
const (
	LFunNone LFunType = iota
	LFunNative
	LFunMacro
)

var lfunTypeStrings = []string{
	LFunNone:   "function",
	LFunNative: "native",
	LFunMacro:  "macro",
}

func (ft LFunType) String() string {
	if ft >= LFunType(len(lfunTypeStrings)) {
		return "invalid-function-type"
	}
	return lfunTypeStrings[ft]
}

// LBuiltin is the signature of a native procedure.  A native receives the
// calling environment and its raw, unevaluated argument list and is solely
// responsible for evaluating whichever arguments its semantics require.
type LBuiltin func(env *LEnv, args *LVal) *LVal

// LBuiltinDef describes a named native procedure for registration.
type LBuiltinDef interface {
	Name() string
	Formals() *LVal
	Eval(env *LEnv, args *LVal) *LVal
	Docstring() string
}

// LFunData is the backing data shared by all LFun values.
type LFunData struct {
	Builtin LBuiltin
	Env     *LEnv
	FID     string
}

// LVal is a lisp value.
type LVal struct {
	// Native is generic storage for data which cannot be represented as an
	// LVal.  LFun values store their *LFunData here and LError values store
	// a *CallStack.
	Native interface{}

	// Source is the value's originating location in source code.  Programs
	// should not modify the contents of Source as the reference may be
	// shared by multiple LVals.
	Source *token.Location

	// Str is used by LSymbol, LString, and LError values.
	Str string

	// Cells is storage space for child values.
	Cells []*LVal

	// Type is the lisp type of the value.
	Type LType

	// Num holds the value of an LNumber.
	Num float64

	// FunType further classifies LFun values.
	FunType LFunType

	// Spliced marks a value produced by unquote-splicing whose cells must be
	// merged into the enclosing list.  It is only meaningful during
	// quasiquote expansion.
	Spliced bool
}

// Singleton LVals for nil, true, and false.  These are shared, immutable
// values.  Callers must never mutate them; code needing a mutable empty list
// should use SExpr(nil).
var (
	singletonNil   = &LVal{Source: nativeSource(), Type: LSExpr}
	singletonTrue  = &LVal{Source: nativeSource(), Type: LSymbol, Str: TrueSymbol}
	singletonFalse = &LVal{Source: nativeSource(), Type: LSymbol, Str: FalseSymbol}
)

// Nil returns the canonical empty list, which also represents falsity.
func Nil() *LVal {
	return singletonNil
}

// Bool returns an LVal with truthiness identical to b.
func Bool(b bool) *LVal {
	if b {
		return singletonTrue
	}
	return singletonFalse
}

// Number returns an LVal representing the number x.
func Number(x float64) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LNumber,
		Num:    x,
	}
}

// String returns an LVal representing the string str.
func String(str string) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LString,
		Str:    str,
	}
}

// Symbol returns an LVal representing the symbol s.
func Symbol(s string) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LSymbol,
		Str:    s,
	}
}

// SExpr returns an LVal representing a list.  Provided cells are used as
// backing storage for the returned list and are not copied.
func SExpr(cells []*LVal) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LSExpr,
		Cells:  cells,
	}
}

// Native returns an LVal containing an opaque Go value.
func Native(v interface{}) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LNative,
		Native: v,
	}
}

// Fun returns an LVal representing a native procedure.
func Fun(fid string, formals *LVal, fn LBuiltin) *LVal {
	return &LVal{
		Source:  nativeSource(),
		Type:    LFun,
		FunType: LFunNative,
		Native: &LFunData{
			FID:     fid,
			Builtin: fn,
		},
		Cells: []*LVal{formals, String("")},
	}
}

// Formals returns an LVal representing a function's formal argument list
// containing symbols with the given names.
func Formals(argSymbols ...string) *LVal {
	s := SExpr(make([]*LVal, len(argSymbols)))
	for i, name := range argSymbols {
		s.Cells[i] = Symbol(name)
	}
	return s
}

// Error returns an LError representing err.
func Error(err error) *LVal {
	return ErrorCondition("error", err)
}

// ErrorCondition returns an LError with the given condition type.  The
// condition type must be a valid lisp symbol.  The LEnv.Error method is the
// preferred way to create errors during evaluation because it records the
// call stack and source location.
func ErrorCondition(condition string, err error) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LError,
		Str:    condition,
		Cells:  []*LVal{Native(err)},
	}
}

// Errorf returns an LError with a formatted error message.
func Errorf(format string, v ...interface{}) *LVal {
	return ErrorConditionf("error", format, v...)
}

// ErrorConditionf returns an LError with the given condition type and a
// formatted error message.
func ErrorConditionf(condition string, format string, v ...interface{}) *LVal {
	return &LVal{
		Source: nativeSource(),
		Type:   LError,
		Str:    condition,
		Cells:  []*LVal{String(fmt.Sprintf(format, v...))},
	}
}

func markTailRec(fun *LVal, args *LVal) *LVal {
	return &LVal{
		Type:  LMarkTailRec,
		Cells: []*LVal{fun, args},
	}
}

func markTerminal(expr *LVal) *LVal {
	return &LVal{
		Type:  LMarkTerminal,
		Cells: []*LVal{expr},
	}
}

func (v *LVal) terminalExpr() *LVal {
	if v.Type != LMarkTerminal {
		panic("not marker-terminal")
	}
	return v.Cells[0]
}

func (v *LVal) tailRecFun() *LVal {
	if v.Type != LMarkTailRec {
		panic("not marker-tail-recursion")
	}
	return v.Cells[0]
}

func (v *LVal) tailRecArgs() *LVal {
	if v.Type != LMarkTailRec {
		panic("not marker-tail-recursion")
	}
	return v.Cells[1]
}

// FunData returns the backing data of an LFun.  FunData panics if v is not a
// function.
func (v *LVal) FunData() *LFunData {
	if v.Type != LFun {
		panic("not a function: " + v.Type.String())
	}
	return v.Native.(*LFunData)
}

// Builtin returns the native implementation of v, or nil when v is defined
// in lisp.
func (v *LVal) Builtin() LBuiltin {
	return v.FunData().Builtin
}

// FID returns the unique identifier of the function v.
func (v *LVal) FID() string {
	return v.FunData().FID
}

// Env returns the lexical environment captured by the function v.  Native
// procedures have no captured environment and return nil.
func (v *LVal) Env() *LEnv {
	return v.FunData().Env
}

// CallStack returns the call stack recorded on an LError, or nil.
func (v *LVal) CallStack() *CallStack {
	if v.Type != LError {
		panic("not an error: " + v.Type.String())
	}
	stack, ok := v.Native.(*CallStack)
	if !ok {
		return nil
	}
	return stack
}

// SetCallStack records a copy of stack on the LError v.
func (v *LVal) SetCallStack(stack *CallStack) {
	if v.Type != LError {
		panic("not an error: " + v.Type.String())
	}
	v.Native = stack.Copy()
}

// IsNil returns true if v is the empty list.
func (v *LVal) IsNil() bool {
	return v.Type == LSExpr && len(v.Cells) == 0
}

// IsMacro returns true if v is a macro function.  IsMacro doesn't check
// v.Type, only v.FunType.
func (v *LVal) IsMacro() bool {
	return v.FunType == LFunMacro
}

// IsNative returns true if v is a native procedure.
func (v *LVal) IsNative() bool {
	return v.FunType == LFunNative
}

// Len returns the number of elements in the list v, or the number of bytes
// in the string v.  Len returns -1 for other types.
func (v *LVal) Len() int {
	switch v.Type {
	case LString:
		return len(v.Str)
	case LSExpr:
		return len(v.Cells)
	default:
		return -1
	}
}

// Docstring returns the documentation of the function v, or "".
func (v *LVal) Docstring() string {
	if v.Type != LFun {
		return ""
	}
	if v.Builtin() != nil && len(v.Cells) > 1 {
		return v.Cells[1].Str
	}
	return ""
}

// Equal returns a true value if v and other are structurally equal.
// Functions, native values, and evaluator marks are never equal to anything.
func (v *LVal) Equal(other *LVal) *LVal {
	if v.Type != other.Type {
		return Bool(false)
	}
	switch v.Type {
	case LNumber:
		return Bool(v.Num == other.Num)
	case LString, LSymbol:
		return Bool(v.Str == other.Str)
	case LSExpr:
		if len(v.Cells) != len(other.Cells) {
			return Bool(false)
		}
		for i := range v.Cells {
			if !True(v.Cells[i].Equal(other.Cells[i])) {
				return Bool(false)
			}
		}
		return Bool(true)
	}
	return Bool(false)
}

// Copy creates a deep copy of the receiver.  Environments captured by
// functions and native payloads are shared, not copied.
func (v *LVal) Copy() *LVal {
	if v == nil {
		return nil
	}
	cp := &LVal{}
	*cp = *v
	cp.Cells = v.copyCells()
	return cp
}

func (v *LVal) copyCells() []*LVal {
	if len(v.Cells) == 0 {
		return nil
	}
	cells := make([]*LVal, len(v.Cells))
	for i := range cells {
		cells[i] = v.Cells[i].Copy()
	}
	return cells
}

func (v *LVal) String() string {
	switch v.Type {
	case LNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case LString:
		return fmt.Sprintf("%q", v.Str)
	case LSymbol:
		return v.Str
	case LSExpr:
		return exprString(v.Cells, "(", ")")
	case LFun:
		if v.Builtin() != nil {
			return fmt.Sprintf("#<builtin %s>", v.FID())
		}
		if v.IsMacro() {
			return fmt.Sprintf("#<macro %s>", v.FID())
		}
		return fmt.Sprintf("(lambda %v ...)", v.Cells[0])
	case LError:
		return GoError(v).Error()
	case LNative:
		return fmt.Sprintf("#<native value: %T>", v.Native)
	case LMarkTailRec:
		// Marks must not surface in program output.
		return fmt.Sprintf("#<tail-recursion %s>", v.Cells[0])
	default:
		return fmt.Sprintf("#<%s %#v>", v.Type, v)
	}
}

func exprString(cells []*LVal, left string, right string) string {
	if len(cells) == 0 {
		return left + right
	}
	var buf bytes.Buffer
	buf.WriteString(left)
	for i, c := range cells {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(c.String())
	}
	buf.WriteString(right)
	return buf.String()
}

// True interprets v as a boolean and returns the result.  The empty list and
// the symbol false are falsey, everything else is truthy.
func True(v *LVal) bool {
	if v.IsNil() {
		return false
	}
	if v.Type != LSymbol {
		return true
	}
	return v.Str != FalseSymbol
}

// Not interprets v as a boolean value and returns its negation.
func Not(v *LVal) bool {
	return !True(v)
}

// GoValue converts v to its natural representation in Go.  Symbols are
// converted to strings, lists to slices, and Nil to nil.
func GoValue(v *LVal) interface{} {
	if v.IsNil() {
		return nil
	}
	switch v.Type {
	case LError:
		return (error)((*ErrorVal)(v))
	case LSymbol, LString:
		return v.Str
	case LNumber:
		return v.Num
	case LSExpr:
		s := make([]interface{}, len(v.Cells))
		for i := range v.Cells {
			s[i] = GoValue(v.Cells[i])
		}
		return s
	case LNative:
		return v.Native
	}
	return v
}

var defaultSourceLocation = &token.Location{
	File: "<native code>",
	Pos:  -1,
}

func nativeSource() *token.Location {
	return defaultSourceLocation
}
