// Copyright © 2025 The Weft authors

package lisp

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// ErrorVal implements the error interface so that errors can be first class
// lisp objects.  The error condition is stored in the Str field while
// message data and contextual information are stored in the Cells slice.
type ErrorVal LVal

// GoError returns v as a Go error.  GoError panics if v is not LError.
func GoError(v *LVal) error {
	if v.Type != LError {
		panic("not an error: " + v.Type.String())
	}
	return (*ErrorVal)(v)
}

// Error implements the error interface.  When the error condition is not
// "error" it will be printed preceding the error message.  Otherwise the
// name of the function that generated the error will be printed preceding
// the message, if the function can be determined.
func (e *ErrorVal) Error() string {
	if e.Source != nil && e.Source != defaultSourceLocation {
		return fmt.Sprintf("%s: %s", e.Source, e.baseMessage())
	}
	return e.baseMessage()
}

func (e *ErrorVal) baseMessage() string {
	msg := e.ErrorMessage()
	if e.Str != "error" {
		return fmt.Sprintf("%s: %s", e.Str, msg)
	}
	fname := e.FunName()
	if fname == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", fname, msg)
}

// Condition returns the error condition name (e.g. "undefined-symbol",
// "ill-formed-syntax").  This is the programmatic classification stored in
// the LVal.Str field of LError values.
func (e *ErrorVal) Condition() string {
	return e.Str
}

// FunName returns the name of the function on the top of the call stack
// when the error occurred.
func (e *ErrorVal) FunName() string {
	stack := (*LVal)(e).CallStack()
	if stack == nil {
		return ""
	}
	top := stack.Top()
	if top == nil {
		return ""
	}
	return top.desc()
}

// ErrorMessage returns the underlying message in the error.
func (e *ErrorVal) ErrorMessage() string {
	if len(e.Cells) > 0 {
		if v, ok := e.Cells[0].Native.(error); ok {
			return v.Error()
		}
	}
	return errorCellMessage(e.Cells)
}

// WriteTrace writes the error and a stack trace to w.
func (e *ErrorVal) WriteTrace(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	var n int
	var err error
	wrote := func(_n int, _err error) bool {
		n += _n
		err = _err
		return err == nil
	}
	if !wrote(bw.WriteString(e.Error())) {
		return n, err
	}
	if !wrote(bw.WriteString("\n")) {
		return n, err
	}
	stack := (*LVal)(e).CallStack()
	if stack != nil {
		if !wrote(stack.DebugPrint(bw)) {
			return n, err
		}
	}
	return n, bw.Flush()
}

func errorCellMessage(cells []*LVal) string {
	var buf bytes.Buffer
	for i, cell := range cells {
		if i > 0 {
			buf.WriteString(" ")
		}
		if cell.Type == LString {
			buf.WriteString(cell.Str)
		} else {
			buf.WriteString(cell.String())
		}
	}
	return buf.String()
}
