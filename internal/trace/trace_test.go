package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	rec := NewRecorder(LevelDetail)
	pass := Begin(rec, ScopePass, "declarations", 0)
	typ := Begin(rec, ScopeType, "decl:Demo.Point", pass.ID())
	member := Begin(rec, ScopeMember, "Value1", typ.ID())
	member.End("")
	typ.End("")
	pass.End("ok")

	events := rec.Events()
	if len(events) != 4 {
		t.Fatalf("expected 4 events (member scope filtered), got %d", len(events))
	}
	if events[1].ParentID != events[0].SpanID {
		t.Fatalf("type span not parented to pass span")
	}
	if events[3].Detail != "ok" || events[3].Kind != KindSpanEnd {
		t.Fatalf("unexpected last event: %+v", events[3])
	}
}

func TestNopSpanIsInert(t *testing.T) {
	span := Begin(Nop, ScopeDriver, "x", 0)
	if span.WithExtra("k", "v").End("") != 0 {
		t.Fatalf("nop span must report zero duration")
	}
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop tracer from empty context")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	ctx := WithTracer(context.Background(), tr)
	span := Begin(FromContext(ctx), ScopePass, "runtime", 0)
	span.WithExtra("types", "3").End("done")

	out := buf.String()
	if !strings.Contains(out, "pass   → runtime\n") {
		t.Fatalf("missing begin line:\n%s", out)
	}
	if !strings.Contains(out, "← runtime (done) {types=3}") {
		t.Fatalf("missing end line:\n%s", out)
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel("detail"); err != nil || lvl != LevelDetail {
		t.Fatalf("unexpected %v %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
