// Copyright © 2025 The Weft authors

package profiler_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weftlang/weft/lisp"
	"github.com/weftlang/weft/lisp/x/profiler"
	"go.opencensus.io/trace"
)

// memoryExporter collects exported span data for inspection.
type memoryExporter struct {
	mu    sync.Mutex
	spans []*trace.SpanData
}

func (e *memoryExporter) ExportSpan(sd *trace.SpanData) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spans = append(e.spans, sd)
}

func (e *memoryExporter) names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, len(e.spans))
	for i, sd := range e.spans {
		names[i] = sd.Name
	}
	return names
}

func TestNewOpenCensusAnnotator(t *testing.T) {
	exporter := &memoryExporter{}
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	trace.RegisterExporter(exporter)
	t.Cleanup(func() { trace.UnregisterExporter(exporter) })

	env := newTestEnv(t)
	ppa := profiler.NewOpenCensusAnnotator(env.Runtime, context.Background())
	require.NoError(t, ppa.Enable())
	rc := env.LoadString("test.lisp", testProgram)
	assert.NotEqual(t, lisp.LError, rc.Type, rc.Str)
	assert.NoError(t, ppa.Complete())

	names := exporter.names()
	require.Equal(t, 5, len(names))
	assert.Equal(t, "add", names[0])
	for _, name := range names[1:] {
		assert.Equal(t, "sum-to", name)
	}
}

func TestOpenCensusAnnotatorNilContext(t *testing.T) {
	env := newTestEnv(t)
	ppa := profiler.NewOpenCensusAnnotator(env.Runtime, nil)
	assert.Error(t, ppa.Enable())
}
