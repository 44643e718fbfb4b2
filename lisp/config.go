// Copyright © 2025 The Weft authors

package lisp

import "io"

// Config is a configuration option applied to a root environment during
// InitializeUserEnv.
type Config func(env *LEnv) *LVal

// WithReader configures the source reader used by Load and LoadString.
func WithReader(r Reader) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Reader = r
		return Nil()
	}
}

// WithStderr configures the stream used for runtime debugging output.
func WithStderr(w io.Writer) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stderr = w
		return Nil()
	}
}

// WithMaximumLogicalStackHeight bounds the number of tail calls resumed in
// a single call frame.  Zero means unbounded.
func WithMaximumLogicalStackHeight(n int) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stack.MaxHeightLogical = n
		return Nil()
	}
}

// WithMaximumPhysicalStackHeight bounds the call stack depth.  Zero means
// unbounded.
func WithMaximumPhysicalStackHeight(n int) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Stack.MaxHeightPhysical = n
		return Nil()
	}
}

// WithProfiler configures a profiler invoked around closure application.
func WithProfiler(p Profiler) Config {
	return func(env *LEnv) *LVal {
		env.Runtime.Profiler = p
		return Nil()
	}
}
