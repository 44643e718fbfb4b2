// Copyright © 2025 The Weft authors

package lisp

import (
	"fmt"
	"io"

	"github.com/weftlang/weft/parser/token"
)

// CallStack is a function call stack.
type CallStack struct {
	Frames            []CallFrame
	MaxHeightLogical  int
	MaxHeightPhysical int
}

// CallFrame is one frame in the CallStack.  HeightLogical counts deferred
// tail calls resumed in the frame, which never push frames of their own.
type CallFrame struct {
	Source        *token.Location
	FID           string
	Name          string
	HeightLogical int
}

func (f *CallFrame) desc() string {
	if f.Name != "" {
		return f.Name
	}
	return f.FID
}

func (f *CallFrame) String() string {
	if f.Source != nil {
		return fmt.Sprintf("%s: %s", f.Source, f.desc())
	}
	return f.desc()
}

// Copy creates a copy of the current stack so that it can be attached to a
// runtime error.
func (s *CallStack) Copy() *CallStack {
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{
		MaxHeightLogical:  s.MaxHeightLogical,
		MaxHeightPhysical: s.MaxHeightPhysical,
		Frames:            frames,
	}
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Push pushes a new stack frame onto s.
func (s *CallStack) Push(src *token.Location, fid string, name string) error {
	err := s.checkHeightPhysical()
	if err != nil {
		return err
	}
	s.Frames = append(s.Frames, CallFrame{
		Source: src,
		FID:    fid,
		Name:   name,
	})
	return nil
}

// checkHeightPhysical checks inclusively because it runs preemptively,
// before a frame is pushed.
func (s *CallStack) checkHeightPhysical() error {
	if s.MaxHeightPhysical <= 0 {
		return nil
	}
	if s.MaxHeightPhysical <= len(s.Frames) {
		return &PhysicalStackOverflowError{len(s.Frames) + 1}
	}
	return nil
}

// CheckHeight checks the logical height of the top frame against the
// configured maximum.
func (s *CallStack) CheckHeight() error {
	if s.MaxHeightLogical <= 0 {
		return nil
	}
	top := s.Top()
	if top == nil {
		return nil
	}
	if s.MaxHeightLogical < top.HeightLogical {
		return &LogicalStackOverflowError{top.HeightLogical}
	}
	return nil
}

// Pop removes the top CallFrame from the stack and returns it.
func (s *CallStack) Pop() CallFrame {
	if len(s.Frames) < 1 {
		panic("pop called on an empty stack")
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames[len(s.Frames)-1] = CallFrame{}
	s.Frames = s.Frames[:len(s.Frames)-1]
	return f
}

// DebugPrint prints s.
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	n, err := fmt.Fprintf(w, "Stack Trace [%d frames -- entrypoint last]:\n", len(s.Frames))
	if err != nil {
		return n, err
	}
	for i := len(s.Frames) - 1; i >= 0; i-- {
		_n, err := fmt.Fprintf(w, "  height %d: %s\n", i, s.Frames[i].String())
		n += _n
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

type LogicalStackOverflowError struct {
	Height int
}

func (e *LogicalStackOverflowError) Error() string {
	return fmt.Sprintf("logical stack height exceeded maximum: %v", e.Height)
}

type PhysicalStackOverflowError struct {
	Height int
}

func (e *PhysicalStackOverflowError) Error() string {
	return fmt.Sprintf("physical stack height exceeded maximum: %v", e.Height)
}
