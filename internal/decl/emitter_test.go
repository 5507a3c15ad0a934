package decl

import (
	"errors"
	"strings"
	"testing"

	"prism/internal/config"
	"prism/internal/diag"
	"prism/internal/model"
	"prism/internal/resolve"
	"prism/internal/testkit"
	"prism/internal/translate"
)

type harness struct {
	prog *model.Program
	ctx  *translate.Context
	emit *Emitter
	out  *strings.Builder
	bag  *diag.Bag
}

func newHarness(t *testing.T, f *model.File, cfg *config.Config) *harness {
	t.Helper()
	prog := testkit.MustBuild(t, f)
	h := &harness{prog: prog, out: &strings.Builder{}, bag: diag.NewBag(50)}
	h.ctx = translate.New(prog, resolve.NewStatic(prog), h.out, translate.Options{
		Config:   cfg,
		Reporter: diag.BagReporter{Bag: h.bag},
	})
	h.emit = NewEmitter(h.ctx, NewProjector(prog.Types))
	return h
}

func (h *harness) members(t *testing.T, qualified string, static bool) string {
	t.Helper()
	h.out.Reset()
	if err := h.emit.EmitMembers(testkit.Type(t, h.prog, qualified), static); err != nil {
		t.Fatalf("emit %s: %v", qualified, err)
	}
	return h.out.String()
}

func TestVisibilityFilter(t *testing.T) {
	h := newHarness(t, testkit.Demo(), nil)
	got := h.members(t, "Demo.Point", false)
	if got != "Value1: number;\n" {
		t.Fatalf("got %q", got)
	}

	// enum constants are exposed whatever their visibility
	got = h.members(t, "Demo.Level", true)
	if got != "Low: number;\nHigh: number;\n" {
		t.Fatalf("got %q", got)
	}
}

func TestInterfacePropertyPair(t *testing.T) {
	h := newHarness(t, testkit.Demo(), nil)
	got := h.members(t, "Demo.IValue", false)
	want := "/** The current value. */\ngetValue1(): number;\nsetValue1(value: number): void;\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEventAccessorPair(t *testing.T) {
	h := newHarness(t, testkit.Demo(), nil)
	got := h.members(t, "Demo.UI.Widget", false)
	var adds, removes int
	for _, line := range strings.Split(got, "\n") {
		switch {
		case strings.HasPrefix(line, "addChanged("):
			adds++
			if line != "addChanged(value: (sender: any) => void): void;" {
				t.Fatalf("unexpected adder %q", line)
			}
		case strings.HasPrefix(line, "removeChanged("):
			removes++
			if line != "removeChanged(value: (sender: any) => void): void;" {
				t.Fatalf("unexpected remover %q", line)
			}
		}
	}
	if adds != 1 || removes != 1 {
		t.Fatalf("expected one adder and one remover, got %d/%d in %q", adds, removes, got)
	}
}

func TestPropertiesWithoutRuntimeMembersAreSkipped(t *testing.T) {
	h := newHarness(t, testkit.Demo(), nil)
	got := h.members(t, "Demo.UI.Widget", false)
	for _, absent := range []string{"getTitle", "setTitle", "getHidden", "cache"} {
		if strings.Contains(got, absent) {
			t.Fatalf("%s must not be declared:\n%s", absent, got)
		}
	}
	// the field-like property is declared as its backing field
	if !strings.Contains(got, "Title: string;\n") {
		t.Fatalf("backing field missing:\n%s", got)
	}
	if !strings.Contains(got, "getSize(): number;\nsetSize(value: number): void;\n") {
		t.Fatalf("authored property missing:\n%s", got)
	}
}

func TestMemberOutputIsDeterministic(t *testing.T) {
	h := newHarness(t, testkit.Demo(), nil)
	first := h.members(t, "Demo.UI.Widget", false)
	second := h.members(t, "Demo.UI.Widget", false)
	if first != second {
		t.Fatalf("outputs differ:\n%s\n---\n%s", first, second)
	}
	other := newHarness(t, testkit.Demo(), nil)
	if third := other.members(t, "Demo.UI.Widget", false); third != first {
		t.Fatalf("fresh context differs:\n%s\n---\n%s", first, third)
	}
}

func pointerFile() *model.File {
	return &model.File{
		Name: "unsafe",
		Types: []model.TypeDecl{{
			Name: "Buffer", Namespace: "Native", Category: "struct",
			Fields: []model.FieldDecl{
				{MemberDecl: model.MemberDecl{Name: "Data", Type: model.PointerTo(model.Sized("uint", 8)), Visibility: "public"}},
				{MemberDecl: model.MemberDecl{Name: "Length", Type: model.Sized("int", 32), Visibility: "public"}},
			},
			Methods: []model.MethodDecl{
				{MemberDecl: model.MemberDecl{Name: "Read", Visibility: "public"},
					Params: []model.ParamDecl{{Name: "dst", Type: model.PointerTo(model.Prim("char"))}}},
			},
		}},
	}
}

func TestUnsupportedProjectionSkipsMember(t *testing.T) {
	h := newHarness(t, pointerFile(), nil)
	got := h.members(t, "Native.Buffer", false)
	if got != "Length: number;\n" {
		t.Fatalf("got %q", got)
	}
	items := h.bag.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", items)
	}
	d := items[0]
	if d.Code != diag.DeclUnsupportedType || d.Severity != diag.SevWarning {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Subject.Owner != "Native.Buffer" || d.Subject.Member != "Data" {
		t.Fatalf("diagnostic lacks context: %+v", d.Subject)
	}
}

func TestUnsupportedProjectionFatal(t *testing.T) {
	cfg := config.Default()
	cfg.Diagnostics.Fatal = true
	h := newHarness(t, pointerFile(), &cfg)
	err := h.emit.EmitMembers(testkit.Type(t, h.prog, "Native.Buffer"), false)
	var perr *ProjectionError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProjectionError, got %v", err)
	}
	if !strings.Contains(err.Error(), "Native.Buffer.Data") {
		t.Fatalf("error lacks context: %v", err)
	}
	if h.out.Len() != 0 {
		t.Fatalf("partial output written: %q", h.out.String())
	}
	if !h.bag.HasErrors() {
		t.Fatalf("expected an error diagnostic")
	}
}

func TestEmitProgram(t *testing.T) {
	h := newHarness(t, testkit.Demo(), nil)
	if err := h.emit.EmitProgram(); err != nil {
		t.Fatalf("emit: %v", err)
	}
	want := `declare module Demo {
    export interface IValue {
        /** The current value. */
        getValue1(): number;
        setValue1(value: number): void;
    }
    export interface Level {
    }
    export interface LevelFunc extends Function {
        prototype: Level;
        Low: number;
        High: number;
    }
    var Level: LevelFunc;
    export interface List<T> {
        Items: T[];
    }
    export interface ListFunc extends Function {
        prototype: List<any>;
        new <T>(): List<T>;
    }
    var List: ListFunc;
    export interface Point {
        Value1: number;
    }
    export interface PointFunc extends Function {
        prototype: Point;
        new (): Point;
    }
    var Point: PointFunc;
}

declare module Demo.UI {
    export interface Control {
        Draw(): void;
    }
    export interface ControlFunc extends Function {
        prototype: Control;
        new (): Control;
    }
    var Control: ControlFunc;
    /** A drawable widget. */
    export interface Widget extends Demo.UI.Control {
        Name: string;
        Title: string;
        addChanged(value: (sender: any) => void): void;
        removeChanged(value: (sender: any) => void): void;
        /** Size in pixels. */
        getSize(): number;
        setSize(value: number): void;
        Draw(): void;
        Draw$1(size: number): void;
        Load(): void;
        Origin(): $AnonymousType$1;
        Corner($default: number): $AnonymousType$1;
    }
    export interface WidgetFunc extends Function {
        prototype: Widget;
        new (): Widget;
        Count: number;
        Create(items: Demo.List$string): Demo.UI.Widget;
    }
    var Widget: WidgetFunc;
}

declare module Demo {
    export interface List$string extends Demo.List<string> {}
}

interface $AnonymousType$1 {
    X: number;
    Y: number;
}
`
	if got := h.out.String(); got != want {
		t.Fatalf("declaration file mismatch:\n%s", got)
	}
	if h.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics %v", h.bag.Items())
	}
}

func TestDocCommentsAreKeptVerbatim(t *testing.T) {
	f := testkit.Demo()
	for i := range f.Types {
		if f.Types[i].Name == "Point" {
			f.Types[i].Fields[0].Doc = "First line.\n  indented: a*/b\n\nlast  "
		}
	}
	h := newHarness(t, f, nil)
	got := h.members(t, "Demo.Point", false)
	want := "/**\n * First line.\n *   indented: a*\\/b\n *\n * last  \n */\nValue1: number;\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	for i := range f.Types {
		if f.Types[i].Name == "Point" {
			f.Types[i].Fields[0].Doc = "ends */ early"
		}
	}
	h = newHarness(t, f, nil)
	if got := h.members(t, "Demo.Point", false); got != "/** ends *\\/ early */\nValue1: number;\n" {
		t.Fatalf("got %q", got)
	}
}
