package model

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"prism/internal/diag"
	"prism/internal/types"
)

func shapesFile() *File {
	one := int64(1)
	return &File{
		Name: "shapes",
		Types: []TypeDecl{
			{
				Name: "Color", Namespace: "Demo", Category: "enum",
				Underlying: &TypeRef{Kind: "uint", Width: 8},
				Fields: []FieldDecl{
					{MemberDecl: MemberDecl{Name: "Red", Visibility: "private"}},
					{MemberDecl: MemberDecl{Name: "Green"}, Value: &one},
				},
			},
			{
				Name: "Box", Namespace: "Demo", Category: "class",
				TypeParams: []string{"T"},
				Fields: []FieldDecl{
					{MemberDecl: MemberDecl{ID: 10, Name: "Item", Type: TypeParamRef("T"), Visibility: "public"}},
					{MemberDecl: MemberDecl{Name: "Count", Type: Prim("int"), Visibility: "public", Static: true}},
				},
				Properties: []PropertyDecl{
					{MemberDecl: MemberDecl{ID: 11, Name: "Label", Type: Prim("string"), Visibility: "public"},
						Getter: &AccessorDecl{}, Setter: &AccessorDecl{}, FieldLike: true},
				},
				Methods: []MethodDecl{
					{MemberDecl: MemberDecl{ID: 12, Name: "Map", Type: Generic("Demo.Box", TypeParamRef("U")), Visibility: "public"},
						TypeParams: []string{"U"},
						Params:     []ParamDecl{{Name: "fn", Type: Delegate(TypeParamRef("U"), ParamDecl{Name: "x", Type: TypeParamRef("T")})}},
						Body:       []string{"return null;"}},
				},
			},
			{
				Name: "Inner", Outer: "Demo.Box", Category: "struct",
				Fields: []FieldDecl{{MemberDecl: MemberDecl{Name: "Owner", Type: TypeParamRef("T"), Visibility: "public"}}},
			},
			{
				Name: "IShape", Namespace: "Demo", Category: "interface",
				Properties: []PropertyDecl{
					{MemberDecl: MemberDecl{Name: "Area", Type: Prim("float")}, Getter: &AccessorDecl{}},
				},
				Methods: []MethodDecl{{MemberDecl: MemberDecl{ID: 20, Name: "Scale", Visibility: "private"},
					Params: []ParamDecl{{Name: "factor", Type: Prim("float")}}}},
			},
		},
		Nodes: []NodeDecl{{ID: 1, Target: 12}},
	}
}

func TestBuildProgram(t *testing.T) {
	bag := diag.NewBag(10)
	prog, err := Build(shapesFile(), diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("build: %v (%v)", err, bag.Items())
	}
	if len(prog.Decls) != 4 {
		t.Fatalf("expected 4 types, got %d", len(prog.Decls))
	}
	var names []string
	for _, d := range prog.Decls {
		names = append(names, d.Qualified)
	}
	want := []string{"Demo.Box", "Demo.Box.Inner", "Demo.Color", "Demo.IShape"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected order %v", names)
		}
	}

	box := prog.Decls[0]
	if box.Members(true).Len() != 1 || len(box.Members(false).Fields) != 2 {
		t.Fatalf("unexpected partitions: static=%d instance fields=%d", box.Members(true).Len(), len(box.Members(false).Fields))
	}
	backing := box.Members(false).Fields[1]
	if backing.Property != 11 || backing.Name != "Label" || backing.ID == 11 {
		t.Fatalf("field-like property not backed by a synthesized field: %+v", backing)
	}

	inner := prog.Decls[1]
	if inner.Namespace != "Demo" {
		t.Fatalf("nested type namespace = %q", inner.Namespace)
	}
	owner := inner.Fields[0].Type
	if tt, _ := prog.Types.Lookup(owner); tt.Kind != types.KindGenericParam {
		t.Fatalf("nested type must see enclosing type parameters, got %v", tt.Kind)
	}

	color := prog.Decls[2]
	if len(color.Members(true).Fields) != 2 {
		t.Fatalf("enum constants must be static")
	}
	info, _ := prog.Types.NamedInfo(color.ID)
	if got := prog.Types.Describe(info.Underlying); got != "uint8" {
		t.Fatalf("enum underlying = %s", got)
	}

	shape := prog.Decls[3]
	if !shape.Properties[0].IsPublic() || !shape.Methods[0].IsPublic() {
		t.Fatalf("interface members must be public")
	}
	if shape.Methods[0].Body != nil {
		t.Fatalf("interface methods have no body")
	}

	target, ok := prog.NodeTarget(1)
	if !ok || target != 12 {
		t.Fatalf("node target = %d, %v", target, ok)
	}
	ref, ok := prog.Member(12)
	if !ok || ref.Method == nil || ref.Owner != box {
		t.Fatalf("member lookup failed: %+v", ref)
	}
	if got := prog.Types.Describe(ref.Method.Type); got != "Demo.Box<U>" {
		t.Fatalf("method result = %s", got)
	}
}

func TestBuildReportsUnknownTypes(t *testing.T) {
	f := &File{Types: []TypeDecl{{
		Name: "A", Category: "class",
		Fields: []FieldDecl{{MemberDecl: MemberDecl{Name: "B", Type: Named("Missing")}}},
	}, {
		Name: "Orphan", Outer: "Nowhere", Category: "class",
	}}}
	bag := diag.NewBag(10)
	prog, err := Build(f, diag.BagReporter{Bag: bag})
	if !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("expected ErrInvalidModel, got %v", err)
	}
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
	if prog.Decls[0].Fields[0].Type != prog.Types.Builtins().Object {
		t.Fatalf("unknown types must fall back to object")
	}
}

func TestCodecRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shapes.pm")
	if err := WriteFile(path, shapesFile()); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Name != "shapes" || len(f.Types) != 4 {
		t.Fatalf("unexpected file: name=%q types=%d", f.Name, len(f.Types))
	}
	if _, err := Build(f, nil); err != nil {
		t.Fatalf("decoded model does not build: %v", err)
	}
}

func TestDecodeRejectsOtherSchema(t *testing.T) {
	var buf bytes.Buffer
	f := shapesFile()
	if err := Encode(&buf, f); err != nil {
		t.Fatalf("encode: %v", err)
	}
	raw := buf.Bytes()
	f.Schema = SchemaVersion + 1
	var other bytes.Buffer
	if err := encodeRaw(&other, f); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := Decode(bytes.NewReader(other.Bytes())); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
	if _, err := Decode(bytes.NewReader(raw)); err != nil {
		t.Fatalf("current schema rejected: %v", err)
	}
}

// encodeRaw writes f without touching its schema version.
func encodeRaw(w *bytes.Buffer, f *File) error {
	return msgpack.NewEncoder(w).Encode(f)
}
