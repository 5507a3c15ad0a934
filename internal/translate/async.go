package translate

import (
	"errors"
	"slices"

	"prism/internal/model"
	"prism/internal/symbols"
)

// ErrAsyncUnsupported is returned when an async body must be emitted and no
// lowering pass is installed.
var ErrAsyncUnsupported = errors.New("async lowering is not available")

// JumpKind classifies a non-local jump that crosses a suspension point.
type JumpKind uint8

const (
	JumpResume JumpKind = iota
	JumpBreak
	JumpContinue
	JumpReturn
)

func (k JumpKind) String() string {
	switch k {
	case JumpResume:
		return "resume"
	case JumpBreak:
		return "break"
	case JumpContinue:
		return "continue"
	case JumpReturn:
		return "return"
	}
	return "unknown"
}

// JumpTarget is a numbered state a lowered method can continue at.
type JumpTarget struct {
	Kind  JumpKind
	Label string
	State int
}

// Dispatch is the placeholder for the state switch of a lowered method.
type Dispatch struct {
	StateVar string
	States   []int
}

// AsyncState is the bookkeeping of one async method body. It lives from
// BeginAsync until the returned end func runs.
type AsyncState struct {
	Method   *model.Method
	Frame    symbols.FrameID
	StateVar string

	captured []string
	seen     map[string]struct{}
	jumps    []JumpTarget
	dispatch *Dispatch
}

// CaptureVariable records a local that lives across a suspension point.
// It reports whether the name was new.
func (a *AsyncState) CaptureVariable(name string) bool {
	if _, ok := a.seen[name]; ok {
		return false
	}
	a.seen[name] = struct{}{}
	a.captured = append(a.captured, name)
	return true
}

// Captured lists captured locals in capture order.
func (a *AsyncState) Captured() []string { return slices.Clone(a.captured) }

// AddJumpTarget allocates the next state number for a jump. State 0 is the
// method entry.
func (a *AsyncState) AddJumpTarget(kind JumpKind, label string) JumpTarget {
	jt := JumpTarget{Kind: kind, Label: label, State: len(a.jumps) + 1}
	a.jumps = append(a.jumps, jt)
	if a.dispatch != nil {
		a.dispatch.States = append(a.dispatch.States, jt.State)
	}
	return jt
}

func (a *AsyncState) Jumps() []JumpTarget { return slices.Clone(a.jumps) }

// EnsureDispatch returns the dispatch placeholder, creating it on first use.
func (a *AsyncState) EnsureDispatch() *Dispatch {
	if a.dispatch == nil {
		a.dispatch = &Dispatch{StateVar: a.StateVar, States: []int{0}}
		for _, jt := range a.jumps {
			a.dispatch.States = append(a.dispatch.States, jt.State)
		}
	}
	return a.dispatch
}

// Dispatch returns the dispatch placeholder, nil when none was requested.
func (a *AsyncState) Dispatch() *Dispatch { return a.dispatch }

// Async is the state of the async body being emitted, nil otherwise.
func (c *Context) Async() *AsyncState { return c.async }

// BeginAsync opens the bookkeeping for m in a fresh scope frame. The end
// func discards it and restores the enclosing state.
func (c *Context) BeginAsync(m *model.Method) (*AsyncState, func()) {
	prev := c.async
	frame := c.Scopes.Push()
	st := &AsyncState{
		Method:   m,
		Frame:    frame,
		StateVar: c.Scopes.Unique("$asyncState"),
		seen:     make(map[string]struct{}),
	}
	c.async = st
	return st, func() {
		c.async = prev
		c.Scopes.Pop(frame)
	}
}
