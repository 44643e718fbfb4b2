// Copyright © 2025 The Weft authors

package repl

import (
	"io"

	"github.com/weftlang/weft/diagnostic"
	"github.com/weftlang/weft/lisp"
)

// renderError renders a lisp error using the diagnostic renderer.  REPL
// input comes from stdin rather than files so source snippets are usually
// unavailable; the renderer degrades to the location and error message.
func renderError(w io.Writer, lerr *lisp.LVal) {
	d := LispErrorDiagnostic(lerr)
	d.Notes = append(d.Notes, "use (help 'symbol) to browse available symbols")
	r := &diagnostic.Renderer{Color: diagnostic.ColorAuto}
	_ = r.Render(w, d)
}

// LispErrorDiagnostic converts an LError value to a Diagnostic for display.
func LispErrorDiagnostic(lerr *lisp.LVal) diagnostic.Diagnostic {
	ev := (*lisp.ErrorVal)(lerr)
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  ev.ErrorMessage(),
	}

	fname := ev.FunName()
	if fname != "" {
		d.Message = fname + ": " + d.Message
	}
	if lerr.Str != "" && lerr.Str != "error" {
		d.Message = lerr.Str + ": " + d.Message
	}

	if lerr.Source != nil && lerr.Source.Pos >= 0 {
		d.Spans = append(d.Spans, diagnostic.Span{
			File: lerr.Source.File,
			Line: lerr.Source.Line,
			Col:  lerr.Source.Col,
		})
	}

	stack := lerr.CallStack()
	if stack != nil {
		for i := len(stack.Frames) - 1; i >= 0; i-- {
			frame := &stack.Frames[i]
			name := frame.Name
			if name == "" {
				name = frame.FID
			}
			if name == "" {
				continue
			}
			loc := "unknown"
			if frame.Source != nil {
				loc = frame.Source.String()
			}
			d.Notes = append(d.Notes, "in "+name+" at "+loc)
		}
	}

	return d
}
