package symbols

import "prism/internal/types"

// Frame holds the locals and temporaries introduced by one lexical scope.
type Frame struct {
	ID     FrameID
	locals map[string]types.TypeID
	order  []string
	temps  map[string]string
	issued map[string]struct{}
}

func newFrame(id FrameID) *Frame {
	return &Frame{
		ID:     id,
		locals: make(map[string]types.TypeID),
		temps:  make(map[string]string),
		issued: make(map[string]struct{}),
	}
}

// Locals lists the names declared in the frame, in declaration order.
func (f *Frame) Locals() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

func (f *Frame) declare(name string, typ types.TypeID) {
	if _, ok := f.locals[name]; !ok {
		f.order = append(f.order, name)
	}
	f.locals[name] = typ
}

func (f *Frame) has(name string) bool {
	if _, ok := f.locals[name]; ok {
		return true
	}
	_, ok := f.issued[name]
	return ok
}
