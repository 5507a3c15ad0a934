package source

import "testing"

func TestInternerBasic(t *testing.T) {
	in := NewInterner()

	if s, ok := in.Lookup(NoStringID); !ok || s != "" {
		t.Fatalf("NoStringID must map to the empty string, got %q ok=%v", s, ok)
	}

	hello := in.Intern("hello")
	if hello == NoStringID {
		t.Fatalf("non-empty string interned as NoStringID")
	}
	if again := in.Intern("hello"); again != hello {
		t.Fatalf("expected stable ID, got %d and %d", hello, again)
	}
	if s := in.MustLookup(hello); s != "hello" {
		t.Fatalf("lookup returned %q", s)
	}
	if world := in.Intern("world"); world == hello {
		t.Fatalf("distinct strings share an ID")
	}
	if in.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", in.Len())
	}
}

func TestInternerUnknownID(t *testing.T) {
	in := NewInterner()
	if _, ok := in.Lookup(StringID(42)); ok {
		t.Fatalf("unknown ID must not resolve")
	}
}

func TestLocationString(t *testing.T) {
	cases := []struct {
		loc  Location
		want string
	}{
		{Location{}, "<unknown>"},
		{Location{File: "a.src"}, "a.src"},
		{Location{File: "a.src", Line: 3}, "a.src:3"},
		{Location{File: "a.src", Line: 3, Column: 7}, "a.src:3:7"},
	}
	for _, tc := range cases {
		if got := tc.loc.String(); got != tc.want {
			t.Errorf("%#v: want %q, got %q", tc.loc, tc.want, got)
		}
	}
}
