package diag

import (
	"testing"

	"prism/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 3; i++ {
		b.Add(NewError(DeclUnsupportedType, source.Location{}, "x"))
	}
	if b.Len() != 2 {
		t.Fatalf("expected limit of 2, got %d", b.Len())
	}
	if !b.HasErrors() {
		t.Fatalf("expected errors")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(10)
	late := source.Location{File: "b.src", Line: 1}
	early := source.Location{File: "a.src", Line: 9}
	b.Add(New(SevWarning, EmitRenamedParameter, late, "w"))
	b.Add(NewError(DeclUnsupportedType, early, "e").WithSubject(Subject{Owner: "Demo.T", Member: "P"}))
	b.Add(NewError(DeclUnsupportedType, early, "e").WithSubject(Subject{Owner: "Demo.T", Member: "P"}))

	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("expected 2 after dedup, got %d", b.Len())
	}
	b.Sort()
	if got := b.Items()[0].Primary; got != early {
		t.Fatalf("expected earliest location first, got %v", got)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	d := NewError(ResolveUnresolvable, source.Location{File: "a"}, "cannot resolve")
	r.Report(d)
	r.Report(d)
	ReportWarning(r, DeclSkippedMember, source.Location{}, "skipped").WithSubject("Demo.T", "M").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
	if got := bag.Items()[1].Subject.String(); got != "Demo.T.M" {
		t.Fatalf("unexpected subject %q", got)
	}
}

func TestCodeID(t *testing.T) {
	if got := DeclUnsupportedType.ID(); got != "DCL3001" {
		t.Fatalf("unexpected id %q", got)
	}
	if got := EmitAsyncUnsupported.ID(); got != "EMT4001" {
		t.Fatalf("unexpected id %q", got)
	}
}
