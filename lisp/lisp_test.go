// Copyright © 2025 The Weft authors

package lisp_test

import (
	"testing"

	"github.com/weftlang/weft/lisptest"
)

func TestEval(t *testing.T) {
	tests := lisptest.TestSuite{
		{"self-evaluating atoms", lisptest.TestSequence{
			{"()", "()", ""},
			{"5", "5", ""},
			{"-2.5", "-2.5", ""},
			{"1e3", "1000", ""},
			{`"hello"`, `"hello"`, ""},
			{"true", "true", ""},
			{"false", "false", ""},
		}},
		{"arithmetic", lisptest.TestSequence{
			{"(+ 1 2)", "3", ""},
			{"(+)", "0", ""},
			{"(*)", "1", ""},
			{"(* 2 3 4)", "24", ""},
			{"(- 3)", "-3", ""},
			{"(- 10 1 2)", "7", ""},
			{"(/ 8 2 2)", "2", ""},
			{"(/ 2)", "0.5", ""},
			{"(% 7 3)", "1", ""},
			{"(+ 1 (* 2 3))", "7", ""},
		}},
		{"comparison", lisptest.TestSequence{
			{"(= 1 1 1)", "true", ""},
			{"(= 1 2)", "false", ""},
			{"(< 1 2 3)", "true", ""},
			{"(< 1 3 2)", "false", ""},
			{"(<= 1 1 2)", "true", ""},
			{"(> 3 2 1)", "true", ""},
			{"(>= 3 3 2)", "true", ""},
			{"(equal? '(1 2) (list 1 2))", "true", ""},
			{"(equal? '(1 2) '(1 3))", "false", ""},
			{"(equal? \"a\" 'a)", "false", ""},
			{"(not ())", "true", ""},
			{"(not 1)", "false", ""},
		}},
		{"quote", lisptest.TestSequence{
			{"'foo", "foo", ""},
			{"'(1 2 3)", "(1 2 3)", ""},
			{"(quote (+ 1 2))", "(+ 1 2)", ""},
			{"''foo", "(quote foo)", ""},
			{"(eval ''foo)", "foo", ""},
			{"(eval '(+ 1 2))", "3", ""},
		}},
		{"quasiquote", lisptest.TestSequence{
			{"`foo", "foo", ""},
			{"`(1 2 3)", "(1 2 3)", ""},
			{"`(1 ,(+ 1 1) 3)", "(1 2 3)", ""},
			{"`(1 ,@(list 2 3) 4)", "(1 2 3 4)", ""},
			{"`(a (b ,(+ 1 1)))", "(a (b 2))", ""},
			{"`(heads ,@(map car '((1 2) (3 4))))", "(heads 1 3)", ""},
			// Unquotes inside a nested quasiquote are preserved, not
			// evaluated, until the template reaches depth zero.
			{"``(a ,b)", "(quasiquote (a (unquote b)))", ""},
			{"`(x `(y ,(+ 1 2)))", "(x (quasiquote (y (unquote (+ 1 2)))))", ""},
			{"`(a `(b ,,(+ 1 2)))", "(a (quasiquote (b (unquote 3))))", ""},
			{",foo", "test:1:1: ill-formed-syntax: unquote outside of quasiquote", ""},
		}},
		{"lists", lisptest.TestSequence{
			{"(car '(1 2 3))", "1", ""},
			{"(cdr '(1 2 3))", "(2 3)", ""},
			{"(cdr '(1))", "()", ""},
			{"(cons 1 '(2 3))", "(1 2 3)", ""},
			{"(cons 1 ())", "(1)", ""},
			{"(list 1 (+ 1 1) 3)", "(1 2 3)", ""},
			{"(concat '(1) () '(2 3))", "(1 2 3)", ""},
			{"(length ())", "0", ""},
			{"(length '(1 2 3))", "3", ""},
			{"(nth '(a b c) 1)", "b", ""},
			{"(reverse '(1 2 3))", "(3 2 1)", ""},
			{"(filter zero? '(0 1 0 2))", "(0 0)", ""},
			{"(foldl + 0 '(1 2 3 4))", "10", ""},
			{"(map (lambda (x) (* x x)) '(1 2 3))", "(1 4 9)", ""},
			{"(map car '((1 2) (3 4)))", "(1 3)", ""},
			{"(map to-string '(1 2))", `("1" "2")`, ""},
			// Mapped natives whose results are tail-positioned forms still
			// produce plain values.
			{"(map and '(1 2))", "(1 2)", ""},
			{"(map or '(() 2))", "(() 2)", ""},
		}},
		{"predicates", lisptest.TestSequence{
			{"(number? 1)", "true", ""},
			{"(number? \"1\")", "false", ""},
			{"(string? \"a\")", "true", ""},
			{"(symbol? 'a)", "true", ""},
			{"(list? ())", "true", ""},
			{"(list? '(1))", "true", ""},
			{"(function? car)", "true", ""},
			{"(function? 'car)", "false", ""},
			{"(null? ())", "true", ""},
			{"(null? '(1))", "false", ""},
			{"(zero? 0)", "true", ""},
			{"(zero? ())", "false", ""},
		}},
		{"strings", lisptest.TestSequence{
			{"(to-string 3)", `"3"`, ""},
			{"(to-string 'sym)", `"sym"`, ""},
			{`(to-string "s")`, `"s"`, ""},
		}},
		{"debug-print", lisptest.TestSequence{
			{`(debug-print "hello" 1 '(a b))`, "()", "hello 1 (a b)\n"},
		}},
		{"errors", lisptest.TestSequence{
			{"y", "test:1:1: undefined-symbol: unbound symbol: y", ""},
			{"(/ 1 0)", "test:1:6: division-by-zero: division by zero", ""},
		}},
	}
	lisptest.RunTestSuite(t, tests)
}

func TestSpecialForms(t *testing.T) {
	tests := lisptest.TestSuite{
		{"if", lisptest.TestSequence{
			{"(if () 1 2)", "2", ""},
			{"(if true 1 2)", "1", ""},
			{"(if false 1 2)", "2", ""},
			{"(if '(()) 1 2)", "1", ""},
			{`(if "false" 1 2)`, "1", ""},
			{"(if (< 1 2) 'yes 'no)", "yes", ""},
		}},
		{"cond", lisptest.TestSequence{
			{"(cond)", "()", ""},
			{"(cond (false 1) (true 2))", "2", ""},
			{"(cond (false 1) (false 2))", "()", ""},
			{"(cond (3))", "3", ""},
			{"(cond (true 1 2 3))", "3", ""},
		}},
		{"and", lisptest.TestSequence{
			{"(and)", "true", ""},
			{"(and 1 2)", "2", ""},
			{"(and 1 ())", "()", ""},
			{"(and () 2)", "()", ""},
			{"(and () (debug-print \"skipped\"))", "()", ""},
		}},
		{"or", lisptest.TestSequence{
			{"(or)", "false", ""},
			{"(or () false 3)", "3", ""},
			{"(or () false)", "false", ""},
			{"(or 1 (debug-print \"skipped\"))", "1", ""},
		}},
		{"let", lisptest.TestSequence{
			{"(let () 1)", "1", ""},
			{"(let ((x 1)) x)", "1", ""},
			{"(let ((x 1) (y 2)) (+ x y))", "3", ""},
			{"(let ((x 1)) (let ((x 2)) x))", "2", ""},
		}},
		{"begin", lisptest.TestSequence{
			{"(begin)", "()", ""},
			{"(begin 1 2 3)", "3", ""},
			{`(begin (debug-print "one") 2)`, "2", "one\n"},
		}},
		{"define and set!", lisptest.TestSequence{
			{"(define x 1)", "x", ""},
			{"x", "1", ""},
			{"(set! x 2)", "()", ""},
			{"x", "2", ""},
			{"(let ((x 3)) x)", "3", ""},
			{"x", "2", ""},
		}},
	}
	lisptest.RunTestSuite(t, tests)
}

func TestClosures(t *testing.T) {
	tests := lisptest.TestSuite{
		{"lexical scope", lisptest.TestSequence{
			{"(define x 1)", "x", ""},
			{"(define f (lambda (y) (+ x y)))", "f", ""},
			{"(f 1)", "2", ""},
			// Bindings resolve in the defining scope, not the calling scope.
			{"(let ((x 100)) (f 1))", "2", ""},
			{"(set! x 10)", "()", ""},
			{"(f 1)", "11", ""},
			{"(((lambda (x) (lambda () (+ x 2))) 3))", "5", ""},
		}},
		{"mutable captured state", lisptest.TestSequence{
			{"(define counter (let ((n 0)) (lambda () (set! n (+ n 1)) n)))", "counter", ""},
			{"(counter)", "1", ""},
			{"(counter)", "2", ""},
			{"(counter)", "3", ""},
		}},
		{"rest parameters", lisptest.TestSequence{
			{"(define f (lambda (a &rest) (cons a rest)))", "f", ""},
			{"(f 1)", "(1)", ""},
			{"(f 1 2 3)", "(1 2 3)", ""},
			{"(define g (lambda (&all) all))", "g", ""},
			{"(g)", "()", ""},
			{"(g 1 2)", "(1 2)", ""},
		}},
	}
	lisptest.RunTestSuite(t, tests)
}

func TestMacros(t *testing.T) {
	tests := lisptest.TestSuite{
		{"expansion is evaluated in the caller's scope", lisptest.TestSequence{
			{"(defmacro add-expr () '(+ 1 2))", "add-expr", ""},
			{"(add-expr)", "3", ""},
			{"(defmacro ref-x () 'x)", "ref-x", ""},
			{"(let ((x 42)) (ref-x))", "42", ""},
		}},
		{"arguments arrive unevaluated", lisptest.TestSequence{
			{"(defmacro quoted (expr) (to-string expr))", "quoted", ""},
			{"(quoted (+ 1 2))", `"(+ 1 2)"`, ""},
		}},
		{"swap!", lisptest.TestSequence{
			{"(define a 1)", "a", ""},
			{"(define b 2)", "b", ""},
			{"(defmacro swap! (x y) `(let ((tmp ,x)) (set! ,x ,y) (set! ,y tmp)))", "swap!", ""},
			{"(swap! a b)", "()", ""},
			{"a", "2", ""},
			{"b", "1", ""},
		}},
	}
	lisptest.RunTestSuite(t, tests)
}

func TestTailRecursion(t *testing.T) {
	tests := lisptest.TestSuite{
		{"self recursion", lisptest.TestSequence{
			{"(define count-down (lambda (n) (if (= n 0) 'done (count-down (- n 1)))))", "count-down", ""},
			{"(count-down 10000)", "done", ""},
		}},
		{"mutual recursion", lisptest.TestSequence{
			{"(define even? (lambda (n) (if (= n 0) true (odd? (- n 1)))))", "even?", ""},
			{"(define odd? (lambda (n) (if (= n 0) false (even? (- n 1)))))", "odd?", ""},
			{"(even? 10000)", "true", ""},
			{"(odd? 10001)", "true", ""},
			{"(even? 10001)", "false", ""},
		}},
		{"tail position threads through cond", lisptest.TestSequence{
			{`(define walk
			    (lambda (n)
			      (cond ((= n 0) 'done)
			            (true (walk (- n 1))))))`, "walk", ""},
			{"(walk 10000)", "done", ""},
		}},
		{"tail position threads through or", lisptest.TestSequence{
			{"(define walk (lambda (n) (or (= n 0) (walk (- n 1)))))", "walk", ""},
			{"(walk 10000)", "true", ""},
		}},
		{"tail position threads through and", lisptest.TestSequence{
			{"(define walk (lambda (n) (and (< 0 n) (walk (- n 1)))))", "walk", ""},
			{"(walk 10000)", "false", ""},
		}},
		{"tail position threads through let", lisptest.TestSequence{
			{`(define loop
			    (lambda (n)
			      (let ((m (- n 1)))
			        (if (< m 0) 'done (loop m)))))`, "loop", ""},
			{"(loop 10000)", "done", ""},
		}},
	}
	lisptest.RunTestSuite(t, tests)
}
