package translate

import (
	"errors"
	"strings"
	"testing"

	"prism/internal/config"
	"prism/internal/diag"
	"prism/internal/model"
	"prism/internal/resolve"
	"prism/internal/testkit"
	"prism/internal/trace"
)

func newContext(t *testing.T) (*Context, *diag.Bag) {
	t.Helper()
	prog := testkit.MustBuild(t, testkit.Demo())
	bag := diag.NewBag(50)
	ctx := New(prog, resolve.NewStatic(prog), &strings.Builder{}, Options{Reporter: diag.BagReporter{Bag: bag}})
	return ctx, bag
}

func member(t *testing.T, ctx *Context, id model.MemberID) *model.Member {
	t.Helper()
	ref, ok := ctx.Program.Member(id)
	if !ok {
		t.Fatalf("member %d not found", id)
	}
	return ref.Member
}

func TestMemberNamesAreOverloadAware(t *testing.T) {
	ctx, _ := newContext(t)
	cases := map[model.MemberID]string{
		testkit.ControlDraw:    "Draw",
		testkit.WidgetDraw:     "Draw",
		testkit.WidgetDrawSize: "Draw$1",
		testkit.WidgetCreate:   "Create",
		testkit.WidgetSize:     "Size",
	}
	for id, want := range cases {
		got, err := ctx.MemberName(member(t, ctx, id))
		if err != nil {
			t.Fatalf("name %d: %v", id, err)
		}
		if got != want {
			t.Errorf("name of %d = %q, want %q", id, got, want)
		}
	}

	// a second pass reuses the memoized names without resolving again
	before := ctx.Cache.Stats()
	for id := range cases {
		if _, err := ctx.MemberName(member(t, ctx, id)); err != nil {
			t.Fatalf("name %d: %v", id, err)
		}
	}
	if after := ctx.Cache.Stats(); after != before {
		t.Fatalf("second pass touched the cache: %+v -> %+v", before, after)
	}
}

func TestMemberNameUnresolvable(t *testing.T) {
	ctx, _ := newContext(t)
	ghost := &model.Member{ID: 4242, Kind: model.MemberMethod, Name: "Ghost", Owner: member(t, ctx, testkit.WidgetDraw).Owner}
	_, err := ctx.MemberName(ghost)
	if !errors.Is(err, resolve.ErrUnresolvable) {
		t.Fatalf("expected ErrUnresolvable, got %v", err)
	}
	if !strings.Contains(err.Error(), "Demo.UI.Widget") || !strings.Contains(err.Error(), "Ghost") {
		t.Fatalf("error lacks context: %v", err)
	}
}

func TestAccessorNames(t *testing.T) {
	ctx, _ := newContext(t)
	if got := ctx.AccessorName(Getter, "$Value1"); got != "getValue1" {
		t.Fatalf("getter = %q", got)
	}
	if got := ctx.AccessorName(Remover, "Changed"); got != "removeChanged" {
		t.Fatalf("remover = %q", got)
	}

	cfg := config.Default()
	cfg.Naming.StripMarker = ""
	cfg.Naming.SetterPrefix = "put_"
	prog := ctx.Program
	custom := New(prog, resolve.NewStatic(prog), &strings.Builder{}, Options{Config: &cfg})
	if got := custom.AccessorName(Setter, "$Value1"); got != "put_$Value1" {
		t.Fatalf("setter = %q", got)
	}
}

func TestEnterTypeRestores(t *testing.T) {
	prog := testkit.MustBuild(t, testkit.Demo())
	rec := trace.NewRecorder(trace.LevelDebug)
	ctx := New(prog, resolve.NewStatic(prog), &strings.Builder{}, Options{Tracer: rec})

	outer := testkit.Type(t, prog, "Demo.UI.Widget")
	inner := testkit.Type(t, prog, "Demo.Point")
	leaveOuter := ctx.EnterType(outer)
	leaveInner := ctx.EnterType(inner)
	if ctx.CurrentType() != inner {
		t.Fatalf("current type not entered")
	}
	leaveInner()
	if ctx.CurrentType() != outer {
		t.Fatalf("outer type not restored")
	}
	leaveOuter()
	if ctx.CurrentType() != nil || ctx.Span() != 0 {
		t.Fatalf("context not restored")
	}
	if n := len(rec.Events()); n != 4 {
		t.Fatalf("expected 4 span events, got %d", n)
	}
}

func TestAsyncBookkeeping(t *testing.T) {
	ctx, _ := newContext(t)
	ref, _ := ctx.Program.Member(testkit.WidgetLoad)

	if ctx.Async() != nil {
		t.Fatalf("no async state expected outside async bodies")
	}
	st, end := ctx.BeginAsync(ref.Method)
	if ctx.Async() != st || st.StateVar != "$asyncState" || ctx.Scopes.Depth() != 1 {
		t.Fatalf("unexpected state %+v depth %d", st, ctx.Scopes.Depth())
	}
	if !st.CaptureVariable("x") || st.CaptureVariable("x") || !st.CaptureVariable("y") {
		t.Fatalf("capture dedup broken")
	}
	first := st.AddJumpTarget(JumpResume, "")
	d := st.EnsureDispatch()
	second := st.AddJumpTarget(JumpBreak, "outer")
	if first.State != 1 || second.State != 2 {
		t.Fatalf("unexpected states %d %d", first.State, second.State)
	}
	if len(d.States) != 3 || d.StateVar != st.StateVar {
		t.Fatalf("dispatch not tracking jumps: %+v", d)
	}
	if got := st.Captured(); len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Fatalf("captured = %v", got)
	}

	_, endNested := ctx.BeginAsync(ref.Method)
	if ctx.Async() == st {
		t.Fatalf("nested body should get its own state")
	}
	endNested()
	if ctx.Async() != st {
		t.Fatalf("enclosing state not restored")
	}
	end()
	if ctx.Async() != nil || ctx.Scopes.Depth() != 0 {
		t.Fatalf("async state leaked")
	}
}
