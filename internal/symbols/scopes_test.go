package symbols

import (
	"errors"
	"testing"

	"prism/internal/types"
)

func expectViolation(t *testing.T, fn func()) *ContractViolation {
	t.Helper()
	var got *ContractViolation
	func() {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatalf("expected a contract violation")
			}
			cv, ok := r.(*ContractViolation)
			if !ok {
				t.Fatalf("unexpected panic value %v", r)
			}
			got = cv
		}()
		fn()
	}()
	return got
}

func TestLookupInnermostFirst(t *testing.T) {
	s := NewScopes()
	s.Declare("x", types.TypeID(1))

	outer := s.Push()
	s.Declare("x", types.TypeID(2))
	s.Declare("y", types.TypeID(3))
	if typ, ok := s.Lookup("x"); !ok || typ != 2 {
		t.Fatalf("lookup x = %d, %v; want 2", typ, ok)
	}

	inner := s.Push()
	if typ, ok := s.Lookup("y"); !ok || typ != 3 {
		t.Fatalf("outer local not visible in inner frame")
	}
	s.Pop(inner)
	s.Pop(outer)

	if typ, ok := s.Lookup("x"); !ok || typ != 1 {
		t.Fatalf("lookup x after pops = %d, %v; want 1", typ, ok)
	}
	if _, ok := s.Lookup("y"); ok {
		t.Fatalf("y must be invisible after its frame is popped")
	}
	if s.Depth() != 0 {
		t.Fatalf("depth = %d", s.Depth())
	}
}

func TestPopDiscipline(t *testing.T) {
	s := NewScopes()
	cv := expectViolation(t, func() { s.Pop(s.Current()) })
	if cv.Actual != NoFrameID {
		t.Fatalf("unexpected violation %+v", cv)
	}

	a := s.Push()
	b := s.Push()
	cv = expectViolation(t, func() { s.Pop(a) })
	if cv.Expected != a || cv.Actual != b {
		t.Fatalf("unexpected violation %+v", cv)
	}
}

func TestWithScopeReleasesOnError(t *testing.T) {
	s := NewScopes()
	boom := errors.New("boom")
	err := s.WithScope(func(FrameID) error {
		s.Declare("tmp", types.TypeID(5))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if s.Depth() != 0 {
		t.Fatalf("frame leaked, depth = %d", s.Depth())
	}
	if _, ok := s.Lookup("tmp"); ok {
		t.Fatalf("local leaked out of the frame")
	}
}

func TestTempNames(t *testing.T) {
	s := NewScopes()
	s.Declare("$i", types.TypeID(1))

	id := s.Push()
	first := s.Temp("i")
	if first != "$i1" {
		t.Fatalf("temp = %q, want $i1", first)
	}
	if again := s.Temp("i"); again != first {
		t.Fatalf("same purpose should map to %q, got %q", first, again)
	}
	if u := s.Unique("$i"); u != "$i2" {
		t.Fatalf("unique = %q, want $i2", u)
	}

	nested := s.Push()
	if got := s.Temp("i"); got != first {
		t.Fatalf("inner frame should see outer temp, got %q", got)
	}
	if got := s.Temp("result"); got != "$result" {
		t.Fatalf("temp = %q", got)
	}
	s.Pop(nested)
	s.Pop(id)

	// released names may be issued again
	s.Push()
	if got := s.Temp("i"); got != "$i1" {
		t.Fatalf("temp after release = %q, want $i1", got)
	}
}

func TestTempAvoidsShadowingLocals(t *testing.T) {
	s := NewScopes()
	outer := s.Push()
	s.Declare("$t", types.TypeID(1))

	inner := s.Push()
	// declared in an outer frame
	first := s.Temp("t")
	if first != "$t1" {
		t.Fatalf("temp = %q, want $t1", first)
	}

	deeper := s.Push()
	s.Declare("$t1", types.TypeID(2))
	got := s.Temp("t")
	if got == first || got == "$t" {
		t.Fatalf("temp %q collides with a local", got)
	}
	if again := s.Temp("t"); again != got {
		t.Fatalf("shadowing temp not reused: %q then %q", got, again)
	}
	s.Pop(deeper)

	if back := s.Temp("t"); back != first {
		t.Fatalf("outer temp after pop = %q, want %q", back, first)
	}
	s.Pop(inner)
	s.Pop(outer)
}

func TestNormalization(t *testing.T) {
	s := NewScopes()
	s.Declare("caf\u00e9", types.TypeID(9))
	if typ, ok := s.Lookup("cafe\u0301"); !ok || typ != 9 {
		t.Fatalf("composed and decomposed spellings must match")
	}
}

func TestSafeIdentifier(t *testing.T) {
	cases := map[string]string{
		"default": "$default",
		"value":   "value",
		"this":    "$this",
		"size":    "size",
	}
	for in, want := range cases {
		if got := SafeIdentifier(in); got != want {
			t.Errorf("SafeIdentifier(%q) = %q, want %q", in, got, want)
		}
	}
}
