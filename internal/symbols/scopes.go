package symbols

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"prism/internal/types"
)

// Scopes is the lexical scope stack of one translation context. The root
// frame is installed on construction and can never be popped.
type Scopes struct {
	frames []*Frame
	pushed int
}

func NewScopes() *Scopes {
	s := &Scopes{}
	s.frames = append(s.frames, newFrame(s.nextID()))
	return s
}

func (s *Scopes) nextID() FrameID {
	s.pushed++
	raw, err := safecast.Conv[uint32](s.pushed)
	if err != nil {
		panic(fmt.Errorf("frame id overflow: %w", err))
	}
	return FrameID(raw)
}

func (s *Scopes) top() *Frame { return s.frames[len(s.frames)-1] }

// Depth is the number of frames above the root.
func (s *Scopes) Depth() int { return len(s.frames) - 1 }

// Current returns the innermost frame.
func (s *Scopes) Current() FrameID { return s.top().ID }

// Push opens a new innermost frame.
func (s *Scopes) Push() FrameID {
	f := newFrame(s.nextID())
	s.frames = append(s.frames, f)
	return f.ID
}

// Pop closes the innermost frame, which must be expected. Everything the
// frame introduced becomes invisible.
func (s *Scopes) Pop(expected FrameID) {
	if len(s.frames) == 1 {
		panic(&ContractViolation{Op: "pop", Expected: expected})
	}
	if top := s.top(); top.ID != expected {
		panic(&ContractViolation{Op: "pop", Expected: expected, Actual: top.ID})
	}
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
}

// WithScope runs fn inside a fresh frame and pops it on every exit path.
func (s *Scopes) WithScope(fn func(FrameID) error) error {
	id := s.Push()
	defer s.Pop(id)
	return fn(id)
}

// Declare binds name to typ in the innermost frame.
func (s *Scopes) Declare(name string, typ types.TypeID) {
	s.top().declare(norm.NFC.String(name), typ)
}

// Lookup resolves name in the innermost frame that declares it.
func (s *Scopes) Lookup(name string) (types.TypeID, bool) {
	name = norm.NFC.String(name)
	for i := len(s.frames) - 1; i >= 0; i-- {
		if typ, ok := s.frames[i].locals[name]; ok {
			return typ, true
		}
	}
	return types.NoTypeID, false
}

// Taken reports whether name is declared or issued in any active frame.
func (s *Scopes) Taken(name string) bool {
	name = norm.NFC.String(name)
	for _, f := range s.frames {
		if f.has(name) {
			return true
		}
	}
	return false
}

// Temp returns the temporary for purpose, issuing one in the innermost frame
// on first use. A purpose maps to the same name until its frame is popped;
// inner frames see temporaries of outer frames unless a local declared since
// then shadows the name.
func (s *Scopes) Temp(purpose string) string {
	purpose = norm.NFC.String(purpose)
	for i := len(s.frames) - 1; i >= 0; i-- {
		name, ok := s.frames[i].temps[purpose]
		if !ok {
			continue
		}
		if !s.shadowed(name, i) {
			return name
		}
		break
	}
	name := s.fresh("$" + purpose)
	s.top().temps[purpose] = name
	return name
}

// shadowed reports whether a frame from index from up to the innermost one
// declares name as a local.
func (s *Scopes) shadowed(name string, from int) bool {
	for _, f := range s.frames[from:] {
		if _, ok := f.locals[name]; ok {
			return true
		}
	}
	return false
}

// Unique issues a name derived from base that no active frame has declared
// or issued.
func (s *Scopes) Unique(base string) string {
	return s.fresh(norm.NFC.String(base))
}

func (s *Scopes) fresh(base string) string {
	name := base
	for n := 1; s.Taken(name); n++ {
		name = base + strconv.Itoa(n)
	}
	s.top().issued[name] = struct{}{}
	return name
}
