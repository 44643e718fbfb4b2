// Copyright © 2025 The Weft authors

package lisp

// Profiler is notified around closure application.  Implementations live in
// lisp/x/profiler.
type Profiler interface {
	// IsEnabled reports whether the profiler is recording.  The evaluator
	// skips Start entirely when it returns false.
	IsEnabled() bool
	// Start begins timing an application of fun and returns a function that
	// ends it.
	Start(fun *LVal) func()
}
