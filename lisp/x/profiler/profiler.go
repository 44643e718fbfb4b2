// Copyright © 2025 The Weft authors

// Package profiler provides tracing annotators that observe closure
// application in a running environment.
package profiler

import (
	"fmt"

	"github.com/weftlang/weft/lisp"
	"github.com/weftlang/weft/parser/token"
)

// SkipFilter reports whether an application of fun should be left out of the
// recorded trace.
type SkipFilter func(fun *lisp.LVal) bool

// profiler is a minimal lisp.Profiler shared by the annotators.
type profiler struct {
	runtime    *lisp.Runtime
	enabled    bool
	skipFilter SkipFilter
}

var _ lisp.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

// Option configures an annotator.
type Option func(*profiler)

// WithSkipFilter installs a filter excluding matching applications from the
// trace.
func WithSkipFilter(filter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = filter
	}
}

func (p *profiler) applyOptions(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Start(fun *lisp.LVal) func() {
	return func() {}
}

// skipTrace decides whether an application of fun goes unrecorded.
func (p *profiler) skipTrace(fun *lisp.LVal) bool {
	return !p.enabled || p.skipFilter != nil && p.skipFilter(fun)
}

// FunName returns a human readable name for fun.  The captured scope chain
// is searched for a binding backed by the same function data, falling back
// on the function's FID when the closure was never bound to a symbol.
func FunName(fun *lisp.LVal) string {
	if fun.Type != lisp.LFun {
		return ""
	}
	data := fun.FunData()
	for env := fun.Env(); env != nil; env = env.Parent {
		for k, v := range env.Scope {
			if v != nil && v.Type == lisp.LFun && v.FunData() == data {
				return k
			}
		}
	}
	return data.FID
}

// sourceLoc returns the definition location of fun when one was recorded.
// Functions defined in native code have no usable location.
func sourceLoc(fun *lisp.LVal) *token.Location {
	if fun.Source != nil && fun.Source.Pos >= 0 {
		return fun.Source
	}
	if len(fun.Cells) > 0 && fun.Cells[0] != nil {
		if loc := fun.Cells[0].Source; loc != nil && loc.Pos >= 0 {
			return loc
		}
	}
	return nil
}
