// Copyright © 2025 The Weft authors

package lisp

// The collector operates on the runtime's registry of every environment
// frame ever derived.  It is synchronous and host-invoked only; nothing in
// the evaluator triggers a collection.  Reachability starts at the root
// frame and follows parent pointers, binding values, list cells, and the
// environments captured by closures and macros.

// CollectGarbage clears the bindings of every frame unreachable from the
// runtime's root environment and drops those frames from the registry,
// leaving reclamation of the memory itself to the host.  It returns the
// number of frames swept.
func (r *Runtime) CollectGarbage() int {
	r.prepareGC()
	r.markEnv(r.root)
	live := r.envs[:0]
	swept := 0
	for _, env := range r.envs {
		if env.gcmark {
			live = append(live, env)
			continue
		}
		for k := range env.Scope {
			delete(env.Scope, k)
		}
		swept++
	}
	for i := len(live); i < len(r.envs); i++ {
		r.envs[i] = nil
	}
	r.envs = live
	return swept
}

// CountUnreachableEnvs reports the number of registered frames a collection
// would sweep, without sweeping them.
func (r *Runtime) CountUnreachableEnvs() int {
	r.prepareGC()
	r.markEnv(r.root)
	n := 0
	for _, env := range r.envs {
		if !env.gcmark {
			n++
		}
	}
	return n
}

// prepareGC clears the reachability flag on every registered frame.
func (r *Runtime) prepareGC() {
	for _, env := range r.envs {
		env.gcmark = false
	}
}

// markEnv flags env and everything transitively reachable from it.  Marking
// is idempotent; the flag check bounds traversal of cyclic structures.
func (r *Runtime) markEnv(env *LEnv) {
	if env == nil || env.gcmark {
		return
	}
	env.gcmark = true
	r.markEnv(env.Parent)
	for _, v := range env.Scope {
		r.markValue(v)
	}
}

// markValue follows the environments reachable through a binding value:
// captured frames of functions and, recursively, the cells of lists,
// errors, and function bodies.
func (r *Runtime) markValue(v *LVal) {
	if v == nil {
		return
	}
	if v.Type == LFun {
		r.markEnv(v.Env())
	}
	for _, c := range v.Cells {
		r.markValue(c)
	}
}

// CollectGarbage runs a collection on env's runtime.  The mark phase always
// starts from the runtime's root frame, not from env.
func (env *LEnv) CollectGarbage() int {
	return env.Runtime.CollectGarbage()
}

// CountUnreachableEnvs reports how many registered frames are unreachable
// from the runtime's root frame.
func (env *LEnv) CountUnreachableEnvs() int {
	return env.Runtime.CountUnreachableEnvs()
}
