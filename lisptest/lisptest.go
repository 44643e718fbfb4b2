// Copyright © 2025 The Weft authors

// Package lisptest provides utilities for testing lisp code hosted in Go
// test binaries.
package lisptest

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/weftlang/weft/lisp"
	"github.com/weftlang/weft/lisp/lisplib"
	"github.com/weftlang/weft/parser"
)

func BenchmarkParse(path string, r func() lisp.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// Runner constructs isolated environments for tests.
type Runner struct {
	// Loader is the library loader used to initialize the test environment.
	// When Loader is nil lisplib.LoadLibrary is used.
	Loader func(*lisp.LEnv) *lisp.LVal
}

// NewEnv returns a fresh environment with the standard library loaded and
// debug output routed to the test log.
func (r *Runner) NewEnv(t testing.TB) (*lisp.LEnv, error) {
	rt := lisp.StandardRuntime()
	rt.Reader = parser.NewReader()
	rt.Stderr = NewLogger(t)
	env := lisp.NewEnvRuntime(rt)
	rc := lisp.InitializeUserEnv(env)
	if rc.Type == lisp.LError {
		return nil, fmt.Errorf("failed to initialize lisp environment: %v", lisp.GoError(rc))
	}
	loader := r.Loader
	if loader == nil {
		loader = lisplib.LoadLibrary
	}
	rc = loader(env)
	if rc.Type == lisp.LError {
		return nil, fmt.Errorf("failed to load library: %v", lisp.GoError(rc))
	}
	return env, nil
}

// LoadString evaluates source in a fresh environment and reports any error
// with a rendered call stack.
func (r *Runner) LoadString(t testing.TB, name string, source string) *lisp.LVal {
	env, err := r.NewEnv(t)
	if err != nil {
		t.Fatal(err.Error())
	}
	defer env.Runtime.Stderr.(*Logger).Flush()
	rc := env.LoadString(name, source)
	if rc.Type == lisp.LError {
		r.LispError(t, lisp.GoError(rc))
	}
	return rc
}

func (r *Runner) LispError(t testing.TB, err error) {
	lerr, ok := err.(*lisp.ErrorVal)
	if !ok {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	_, ioerr := lerr.WriteTrace(&buf)
	if ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially by a lisp.LEnv.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the evaluated result
	Output string // debug output written to Runtime.Stderr
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on isolated lisp.LEnvs.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		log.Printf("test %d -- %s", i, test.Name)
		env := lisp.NewEnv(nil)
		var exprBuf bytes.Buffer
		rc := lisp.InitializeUserEnv(env,
			lisp.WithMaximumLogicalStackHeight(50000),
			lisp.WithMaximumPhysicalStackHeight(25000),
			lisp.WithReader(parser.NewReader()),
			lisp.WithStderr(io.MultiWriter(os.Stderr, &exprBuf)),
		)
		if rc.Type == lisp.LError {
			t.Errorf("test %d %q: %v", i, test.Name, lisp.GoError(rc))
			continue
		}
		rc = lisplib.LoadLibrary(env)
		if rc.Type == lisp.LError {
			t.Errorf("test %d %q: %v", i, test.Name, lisp.GoError(rc))
			continue
		}
		for j, expr := range test.TestSequence {
			exprBuf.Reset()
			v, err := env.Runtime.Reader.Read("test", strings.NewReader(expr.Expr))
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if len(v) == 0 {
				t.Errorf("test %d %q: expr %d: no expression parsed", i, test.Name, j)
				continue
			}
			if len(v) != 1 {
				t.Errorf("test %d %q: expr %d: more than one expression parsed (%d)", i, test.Name, j, len(v))
				continue
			}
			result := env.Eval(v[0]).String()
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if exprBuf.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected debug output %q (got %q)", i, test.Name, j, expr.Output, exprBuf.String())
			}
		}
	}
}

// RunBenchmark runs a standard benchmark that executes expressions parsed
// from source.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	p := parser.NewReader()
	exprs, err := p.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		env := lisp.NewEnv(nil)
		rc := lisp.InitializeUserEnv(env,
			lisp.WithMaximumLogicalStackHeight(50000),
			lisp.WithMaximumPhysicalStackHeight(25000),
			lisp.WithReader(p),
			lisp.WithStderr(io.Discard),
		)
		if rc.Type == lisp.LError {
			b.Fatal(lisp.GoError(rc))
		}
		b.StartTimer()
		for i, expr := range exprs {
			lerr := env.Eval(expr)
			if lerr.Type == lisp.LError {
				b.Fatalf("expr %d: %v", i, lerr)
			}
		}
		b.StopTimer()
	}
}
