// Copyright © 2025 The Weft authors

package lisp

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// Runtime is the object underlying a tree of LEnv values.  It holds shared
// state: the frame registry used by the garbage collector, the call stack,
// the source reader, and a stream for debugging output (typically
// os.Stderr).
type Runtime struct {
	Stderr   io.Writer
	Stack    *CallStack
	Reader   Reader
	Profiler Profiler

	// root is the environment garbage collection marks from.  It is set
	// when the first root environment joins the runtime.
	root *LEnv

	// envs is the registry of every environment frame ever derived within
	// this runtime.  It only shrinks when unreachable frames are swept.
	envs []*LEnv

	numenv atomicCounter
	numfun atomicCounter
}

// StandardRuntime returns a new Runtime with Stderr set to os.Stderr.
func StandardRuntime() *Runtime {
	return &Runtime{
		Stderr: os.Stderr,
		Stack:  &CallStack{},
	}
}

// GenEnvID returns an identifier unique to the runtime, for an environment.
func (r *Runtime) GenEnvID() uint {
	return r.numenv.Add(1)
}

// GenFID returns a function identifier unique to the runtime.
func (r *Runtime) GenFID() string {
	return fmt.Sprintf("fun%08d", r.numfun.Add(1))
}

// registerEnv records env in the collector's registry.  Every derived frame
// passes through here exactly once, at creation.
func (r *Runtime) registerEnv(env *LEnv) {
	r.envs = append(r.envs, env)
}

// NumEnvs returns the number of environment frames currently registered.
func (r *Runtime) NumEnvs() int {
	return len(r.envs)
}

type atomicCounter uint64

func (c *atomicCounter) Add(n uint) uint {
	return uint(atomic.AddUint64((*uint64)(c), uint64(n)))
}
