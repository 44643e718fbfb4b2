// Copyright © 2025 The Weft authors

package diagnostic

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRenderer(source string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(string) ([]byte, error) {
			if source == "" {
				return nil, errors.New("no source")
			}
			return []byte(source), nil
		},
	}
}

func TestRenderDiagnostic(t *testing.T) {
	r := testRenderer("(/ 1 0)")
	d := Diagnostic{
		Severity: SeverityError,
		Message:  "division-by-zero: division by zero",
		Spans:    []Span{{File: "main.lisp", Line: 1, Col: 6}},
		Notes:    []string{"in lambda"},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	want := strings.Join([]string{
		"error: division-by-zero: division by zero",
		"  --> main.lisp:1:6",
		"   |",
		" 1 |  (/ 1 0)",
		"   |       ^",
		"   |",
		"   = note: in lambda",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestRenderUnderlineSpansToken(t *testing.T) {
	// Without an explicit EndCol the underline covers the token under the
	// start column.
	r := testRenderer("(frobnicate 1)")
	d := Diagnostic{
		Severity: SeverityError,
		Message:  "undefined-symbol: unbound symbol: frobnicate",
		Spans:    []Span{{File: "main.lisp", Line: 1, Col: 2}},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	assert.Contains(t, buf.String(), " 1 |  (frobnicate 1)\n")
	assert.Contains(t, buf.String(), "   |   ^^^^^^^^^^\n")
}

func TestRenderUnreadableSource(t *testing.T) {
	r := testRenderer("")
	d := Diagnostic{
		Severity: SeverityError,
		Message:  "load-error: no such file",
		Spans:    []Span{{File: "missing.lisp", Line: 3, Col: 1}},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	want := strings.Join([]string{
		"error: load-error: no such file",
		"  --> missing.lisp:3:1",
		"   |",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestRenderSpanLabel(t *testing.T) {
	r := testRenderer("(car 5)")
	d := Diagnostic{
		Severity: SeverityWarning,
		Message:  "type-mismatch",
		Spans:    []Span{{File: "main.lisp", Line: 1, Col: 6, Label: "not a list"}},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	assert.Contains(t, buf.String(), "warning: type-mismatch\n")
	assert.Contains(t, buf.String(), "^ not a list\n")
}

func TestRenderAll(t *testing.T) {
	r := testRenderer("")
	diags := []Diagnostic{
		{Severity: SeverityError, Message: "first"},
		{Severity: SeverityNote, Message: "second"},
	}
	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, diags))
	assert.Equal(t, "error: first\n\nnote: second\n", buf.String())
}

func TestRenderColorAlways(t *testing.T) {
	r := testRenderer("(x)")
	r.Color = ColorAlways
	d := Diagnostic{
		Severity: SeverityError,
		Message:  "boom",
		Spans:    []Span{{File: "main.lisp", Line: 1, Col: 1}},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	assert.Contains(t, buf.String(), "\033[1;31m")
	assert.Contains(t, buf.String(), "\033[0m")
}

func TestChoosePalette(t *testing.T) {
	assert.Equal(t, ansiPalette, choosePalette(ColorAlways, nil))
	assert.Equal(t, noPalette, choosePalette(ColorNever, nil))
	// Auto without a terminal writer disables color.
	assert.Equal(t, noPalette, choosePalette(ColorAuto, nil))
}
