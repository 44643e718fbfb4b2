// Copyright © 2025 The Weft authors

package lisp

// Eval evaluates v in the environment env.  Atoms other than symbols
// evaluate to themselves, symbols resolve through the scope chain, and
// non-empty lists are applied.  The empty list evaluates to itself.
func (env *LEnv) Eval(v *LVal) *LVal {
	if v.Source != nil && v.Source != defaultSourceLocation {
		env.Loc = v.Source
	}
	switch v.Type {
	case LSymbol:
		return env.Get(v)
	case LSExpr:
		if len(v.Cells) == 0 {
			return v
		}
		return env.evalSExpr(v, false)
	case LMarkTailRec, LMarkTerminal:
		return env.ErrorConditionf("internal-error", "unexpected %s value", v.Type)
	default:
		return v
	}
}

// TerminalEval evaluates v in tail position.  When evaluation is nested
// inside at least one procedure call and v is itself a call, TerminalEval
// may return a tail-recursion mark instead of a value; the mark is resolved
// by the innermost enclosing function call.  Native procedures implementing
// forms with tail-positioned sub-expressions evaluate them through
// TerminalEval (directly or by returning a terminal mark).
func (env *LEnv) TerminalEval(v *LVal) *LVal {
	if v.Type != LSExpr || len(v.Cells) == 0 {
		return env.Eval(v)
	}
	if v.Source != nil && v.Source != defaultSourceLocation {
		env.Loc = v.Source
	}
	return env.evalSExpr(v, true)
}

// evalSExpr applies the non-empty list s.  The quote family is dispatched
// before evaluating the head so its operands stay unevaluated.  With
// terminal set, a closure call becomes a tail-recursion mark and macro
// expansions and terminal marks from natives remain in tail position.
func (env *LEnv) evalSExpr(s *LVal, terminal bool) *LVal {
	for {
		head := s.Cells[0]
		if head.Type == LSymbol {
			switch head.Str {
			case QuoteSymbol:
				if len(s.Cells) != 2 {
					return env.decorateError(env.ErrorConditionf("ill-formed-syntax",
						"quote requires exactly one operand: %s", s), s)
				}
				return s.Cells[1]
			case QuasiquoteSymbol:
				if len(s.Cells) != 2 {
					return env.decorateError(env.ErrorConditionf("ill-formed-syntax",
						"quasiquote requires exactly one operand: %s", s), s)
				}
				return env.decorateError(env.evalQuasiquote(s.Cells[1]), s)
			case UnquoteSymbol, UnquoteSplicingSymbol:
				return env.decorateError(env.ErrorConditionf("ill-formed-syntax",
					"%s outside of quasiquote", head.Str), s)
			}
		}
		f := env.Eval(head)
		if f.Type == LError {
			return env.decorateError(f, s)
		}
		if f.Type != LFun {
			err := env.ErrorConditionf("not-callable", "cannot call non-function: %v", f.Type)
			if head.Source != nil && head.Source != defaultSourceLocation {
				err.Source = head.Source
			}
			return err
		}
		args := SExpr(s.Cells[1:])
		switch {
		case f.IsMacro():
			expansion := env.macroExpand(f, args)
			if expansion.Type == LError {
				return env.decorateError(expansion, s)
			}
			// Pass two: evaluate the expansion in the caller's env.  In
			// tail position the expansion stays eligible for elimination.
			if terminal && expansion.Type == LSExpr && len(expansion.Cells) > 0 {
				s = expansion
				continue
			}
			return env.decorateError(env.Eval(expansion), s)
		case f.IsNative():
			r := env.nativeCall(f, args)
			if r.Type == LMarkTerminal {
				if terminal {
					expr := r.terminalExpr()
					if expr.Type == LSExpr && len(expr.Cells) > 0 {
						s = expr
						continue
					}
					return env.decorateError(env.Eval(expr), s)
				}
				r = env.Eval(r.terminalExpr())
			}
			return env.decorateError(r, s)
		default:
			argv := env.evalArgs(args)
			if argv.Type == LError {
				return env.decorateError(argv, s)
			}
			if terminal && len(env.Runtime.Stack.Frames) > 0 {
				return markTailRec(f, argv)
			}
			return env.decorateError(env.funCall(f, argv), s)
		}
	}
}

// evalArgs evaluates every cell of args in env and returns a fresh list, or
// the first error encountered.
func (env *LEnv) evalArgs(args *LVal) *LVal {
	cells := make([]*LVal, len(args.Cells))
	for i, c := range args.Cells {
		r := env.Eval(c)
		if r.Type == LError {
			return r
		}
		cells[i] = r
	}
	v := SExpr(cells)
	v.Source = args.Source
	return v
}

// nativeCall invokes the native procedure f with its raw argument list.
func (env *LEnv) nativeCall(f *LVal, args *LVal) *LVal {
	stack := env.Runtime.Stack
	if err := stack.Push(env.Loc, f.FID(), f.FID()); err != nil {
		return env.Error(err)
	}
	defer stack.Pop()
	return f.Builtin()(env, args)
}

// FunCall applies fun to the given argument list.  Closure arguments must
// already be evaluated; native procedures receive the list as their raw
// arguments.  Macros cannot be applied directly.
func (env *LEnv) FunCall(fun *LVal, args *LVal) *LVal {
	if fun.Type != LFun {
		return env.ErrorConditionf("not-callable", "cannot call non-function: %v", fun.Type)
	}
	if fun.IsMacro() {
		return env.ErrorConditionf("not-callable", "cannot apply macro: %s", fun.FID())
	}
	if fun.IsNative() {
		r := env.nativeCall(fun, args)
		if r.Type == LMarkTerminal {
			// Natives implementing forms with tail-positioned
			// sub-expressions return terminal marks.  There is no enclosing
			// evaluation to resume them here, so resolve the mark before it
			// reaches the caller.
			r = env.Eval(r.terminalExpr())
		}
		return r
	}
	return env.funCall(fun, args)
}

// funCall invokes the closure fun with evaluated arguments, pushing one
// call frame and resuming any tail-recursion marks produced by the body.
// Because tail calls never push frames of their own, every mark from the
// body, including mutually recursive chains, unwinds to this loop.
func (env *LEnv) funCall(fun *LVal, argv *LVal) *LVal {
	stack := env.Runtime.Stack
	if err := stack.Push(env.Loc, fun.FID(), fun.FID()); err != nil {
		return env.Error(err)
	}
	defer stack.Pop()
	r := env.call(fun, argv)
	for r.Type == LMarkTailRec {
		fun, argv = r.tailRecFun(), r.tailRecArgs()
		top := stack.Top()
		top.FID = fun.FID()
		top.Name = fun.FID()
		top.HeightLogical++
		if err := stack.CheckHeight(); err != nil {
			return env.Error(err)
		}
		r = env.call(fun, argv)
	}
	return r
}

// call derives a child frame of fun's captured environment, binds the
// formals against argv, and evaluates the body with the final form in tail
// position.
func (env *LEnv) call(fun *LVal, argv *LVal) *LVal {
	if p := env.Runtime.Profiler; p != nil && p.IsEnabled() {
		defer p.Start(fun)()
	}
	fenv := NewEnv(fun.Env())
	fenv.Loc = env.Loc
	if err := fenv.bind(fun, argv); err != nil {
		return err
	}
	body := fun.Cells[1:]
	if len(body) == 0 {
		return Nil()
	}
	for _, expr := range body[:len(body)-1] {
		r := fenv.Eval(expr)
		if r.Type == LError {
			return r
		}
	}
	return fenv.TerminalEval(body[len(body)-1])
}

// macroExpand evaluates the macro body in a child of the macro's definition
// environment with raw arguments bound, producing the expansion.  The
// caller is responsible for the second pass that evaluates the expansion.
func (env *LEnv) macroExpand(fun *LVal, args *LVal) *LVal {
	stack := env.Runtime.Stack
	if err := stack.Push(env.Loc, fun.FID(), fun.FID()); err != nil {
		return env.Error(err)
	}
	defer stack.Pop()
	menv := NewEnv(fun.Env())
	menv.Loc = env.Loc
	if err := menv.bind(fun, args); err != nil {
		return err
	}
	expansion := Nil()
	for _, expr := range fun.Cells[1:] {
		expansion = menv.Eval(expr)
		if expansion.Type == LError {
			return expansion
		}
	}
	return expansion
}

// evalQuasiquote rebuilds the quasiquote operand, evaluating unquote
// sub-forms and splicing unquote-splicing results element-wise.
func (env *LEnv) evalQuasiquote(v *LVal) *LVal {
	r := env.findAndUnquote(v, 0)
	if r.Spliced {
		return env.ErrorConditionf("ill-formed-syntax",
			"unquote-splicing in unspliceable position")
	}
	return r
}

// findAndUnquote walks a quasiquote template.  depth counts enclosing
// quasiquotes beyond the outermost; unquote forms only evaluate at depth 0
// and are otherwise preserved with their operands processed one level
// shallower.
func (env *LEnv) findAndUnquote(v *LVal, depth int) *LVal {
	if v.Type != LSExpr || len(v.Cells) == 0 {
		return v
	}
	head := v.Cells[0]
	if head.Type == LSymbol {
		switch head.Str {
		case QuasiquoteSymbol:
			if len(v.Cells) != 2 {
				return env.ErrorConditionf("ill-formed-syntax",
					"quasiquote requires exactly one operand: %s", v)
			}
			return env.preserveUnquote(v, depth+1)
		case UnquoteSymbol:
			if len(v.Cells) != 2 {
				return env.ErrorConditionf("ill-formed-syntax",
					"unquote requires exactly one operand: %s", v)
			}
			if depth > 0 {
				return env.preserveUnquote(v, depth-1)
			}
			return env.Eval(v.Cells[1])
		case UnquoteSplicingSymbol:
			if len(v.Cells) != 2 {
				return env.ErrorConditionf("ill-formed-syntax",
					"unquote-splicing requires exactly one operand: %s", v)
			}
			if depth > 0 {
				return env.preserveUnquote(v, depth-1)
			}
			r := env.Eval(v.Cells[1])
			if r.Type == LError {
				return r
			}
			if r.Type != LSExpr {
				return env.ErrorConditionf("type-mismatch",
					"unquote-splicing result is not a list: %v", r.Type)
			}
			spliced := r.Copy()
			spliced.Spliced = true
			return spliced
		}
	}
	cells := make([]*LVal, 0, len(v.Cells))
	for _, c := range v.Cells {
		r := env.findAndUnquote(c, depth)
		if r.Type == LError {
			return r
		}
		if r.Spliced {
			cells = append(cells, r.Cells...)
		} else {
			cells = append(cells, r)
		}
	}
	s := SExpr(cells)
	s.Source = v.Source
	return s
}

// preserveUnquote keeps the quote-family form v intact while processing its
// operand at the given depth.
func (env *LEnv) preserveUnquote(v *LVal, depth int) *LVal {
	inner := env.findAndUnquote(v.Cells[1], depth)
	if inner.Type == LError {
		return inner
	}
	if inner.Spliced {
		return env.ErrorConditionf("ill-formed-syntax",
			"unquote-splicing in unspliceable position")
	}
	s := SExpr([]*LVal{v.Cells[0], inner})
	s.Source = v.Source
	return s
}

// decorateError back-fills missing source information on an error escaping
// the form s: the argument list's span when one exists, otherwise the span
// of the whole form.  Values other than errors pass through untouched.
func (env *LEnv) decorateError(r *LVal, s *LVal) *LVal {
	if r.Type != LError {
		return r
	}
	if r.Source == nil || r.Source == defaultSourceLocation {
		if len(s.Cells) > 1 && s.Cells[1].Source != nil && s.Cells[1].Source != defaultSourceLocation {
			r.Source = s.Cells[1].Source
		} else if s.Source != nil && s.Source != defaultSourceLocation {
			r.Source = s.Source
		}
	}
	if r.CallStack() == nil {
		r.SetCallStack(env.Runtime.Stack)
	}
	return r
}
