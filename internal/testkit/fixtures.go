// Package testkit holds program model fixtures shared by package tests.
package testkit

import (
	"testing"

	"prism/internal/diag"
	"prism/internal/model"
)

// Member IDs fixed by Demo, so tests can address members directly.
const (
	ControlDraw    model.MemberID = 100
	WidgetDraw     model.MemberID = 200
	WidgetDrawSize model.MemberID = 201
	WidgetCreate   model.MemberID = 202
	WidgetLoad     model.MemberID = 203
	WidgetOrigin   model.MemberID = 204
	WidgetCorner   model.MemberID = 205
	WidgetSize     model.MemberID = 210
	WidgetChanged  model.MemberID = 220
)

// Node IDs fixed by Demo.
const (
	NodeCallDraw   model.NodeID = 1
	NodeCallCreate model.NodeID = 2
)

func handler() model.TypeRef {
	return model.Delegate(model.Prim("void"), model.ParamDecl{Name: "sender", Type: model.Prim("object")})
}

func point() model.TypeRef {
	return model.Anonymous(
		model.AnonFieldDecl{Name: "X", Type: model.Sized("int", 32)},
		model.AnonFieldDecl{Name: "Y", Type: model.Sized("int", 32)},
	)
}

// Demo is a small program exercising every member kind: an enum with a
// private constant, a struct with a private field, an interface with
// body-less accessors, and a class with overloads, an override, events,
// field-like and authored properties, an async method and anonymous shapes.
func Demo() *model.File {
	one, two := int64(1), int64(2)
	return &model.File{
		Name: "demo",
		Types: []model.TypeDecl{
			{
				Name: "Level", Namespace: "Demo", Category: "enum",
				Underlying: &model.TypeRef{Kind: "uint", Width: 8},
				Fields: []model.FieldDecl{
					{MemberDecl: model.MemberDecl{Name: "Low", Visibility: "public"}, Value: &one},
					{MemberDecl: model.MemberDecl{Name: "High", Visibility: "private"}, Value: &two},
				},
			},
			{
				Name: "Point", Namespace: "Demo", Category: "struct",
				Fields: []model.FieldDecl{
					{MemberDecl: model.MemberDecl{Name: "Value1", Type: model.Sized("int", 32), Visibility: "public"}},
					{MemberDecl: model.MemberDecl{Name: "Secret", Type: model.Prim("string"), Visibility: "private"}},
				},
			},
			{
				Name: "IValue", Namespace: "Demo", Category: "interface",
				Properties: []model.PropertyDecl{
					{
						MemberDecl: model.MemberDecl{Name: "Value1", Type: model.Sized("int", 32), Doc: "The current value."},
						Getter:     &model.AccessorDecl{},
						Setter:     &model.AccessorDecl{},
					},
				},
			},
			{
				Name: "Control", Namespace: "Demo.UI", Category: "class",
				Methods: []model.MethodDecl{
					{MemberDecl: model.MemberDecl{ID: uint32(ControlDraw), Name: "Draw", Visibility: "public"},
						Body: []string{"return;"}},
				},
			},
			{
				Name: "Widget", Namespace: "Demo.UI", Category: "class",
				Base: &model.TypeRef{Kind: "named", Name: "Demo.UI.Control"},
				Doc:  "A drawable widget.",
				Fields: []model.FieldDecl{
					{MemberDecl: model.MemberDecl{Name: "Name", Type: model.Prim("string"), Visibility: "public"}},
					{MemberDecl: model.MemberDecl{Name: "cache", Type: model.ArrayOf(model.Prim("object")), Visibility: "private"}},
					{MemberDecl: model.MemberDecl{Name: "Count", Type: model.Sized("int", 32), Visibility: "public", Static: true}},
				},
				Events: []model.EventDecl{
					{MemberDecl: model.MemberDecl{ID: uint32(WidgetChanged), Name: "Changed", Type: handler(), Visibility: "public"},
						Adder: &model.AccessorDecl{}, Remover: &model.AccessorDecl{}, FieldLike: true},
				},
				Properties: []model.PropertyDecl{
					{MemberDecl: model.MemberDecl{ID: uint32(WidgetSize), Name: "Size", Type: model.Sized("int", 32), Visibility: "public", Doc: "Size in pixels."},
						Getter: &model.AccessorDecl{Body: []string{"return this.$size;"}},
						Setter: &model.AccessorDecl{Body: []string{"this.$size = value;"}}},
					{MemberDecl: model.MemberDecl{Name: "Title", Type: model.Prim("string"), Visibility: "public"},
						Getter: &model.AccessorDecl{}, Setter: &model.AccessorDecl{}, FieldLike: true},
					{MemberDecl: model.MemberDecl{Name: "Hidden", Type: model.Prim("bool"), Visibility: "public"},
						Getter: &model.AccessorDecl{}},
				},
				Methods: []model.MethodDecl{
					{MemberDecl: model.MemberDecl{ID: uint32(WidgetDraw), Name: "Draw", Visibility: "public"},
						Body: []string{"this.Draw$1(this.getSize());"}},
					{MemberDecl: model.MemberDecl{ID: uint32(WidgetDrawSize), Name: "Draw", Visibility: "public"},
						Params: []model.ParamDecl{{Name: "size", Type: model.Sized("int", 32)}},
						Body:   []string{"return;"}},
					{MemberDecl: model.MemberDecl{ID: uint32(WidgetCreate), Name: "Create", Type: model.Named("Demo.UI.Widget"), Visibility: "public", Static: true},
						Params: []model.ParamDecl{{Name: "items", Type: model.Generic("Demo.List", model.Prim("string"))}},
						Body:   []string{"return new Demo.UI.Widget();"}},
					{MemberDecl: model.MemberDecl{ID: uint32(WidgetLoad), Name: "Load", Visibility: "public"},
						Async: true, Body: []string{"await this.fetch();"}},
					{MemberDecl: model.MemberDecl{ID: uint32(WidgetOrigin), Name: "Origin", Type: point(), Visibility: "public"},
						Body: []string{"return { X: 0, Y: 0 };"}},
					{MemberDecl: model.MemberDecl{ID: uint32(WidgetCorner), Name: "Corner", Type: point(), Visibility: "public"},
						Params: []model.ParamDecl{{Name: "default", Type: model.NullableOf(model.Sized("int", 32))}},
						Body:   []string{"return { X: 1, Y: 1 };"}},
				},
			},
			{
				Name: "List", Namespace: "Demo", Category: "class",
				TypeParams: []string{"T"},
				Fields: []model.FieldDecl{
					{MemberDecl: model.MemberDecl{Name: "Items", Type: model.ArrayOf(model.TypeParamRef("T")), Visibility: "public"}},
				},
			},
		},
		Nodes: []model.NodeDecl{
			{ID: uint32(NodeCallDraw), Target: uint32(WidgetDrawSize)},
			{ID: uint32(NodeCallCreate), Target: uint32(WidgetCreate)},
		},
	}
}

// MustBuild builds f and fails the test on any error diagnostic.
func MustBuild(tb testing.TB, f *model.File) *model.Program {
	tb.Helper()
	bag := diag.NewBag(100)
	prog, err := model.Build(f, diag.BagReporter{Bag: bag})
	if err != nil {
		tb.Fatalf("build %s: %v", f.Name, err)
	}
	if bag.HasErrors() {
		tb.Fatalf("build %s: %v", f.Name, bag.Items())
	}
	return prog
}

// Type returns the declared type with the given qualified name.
func Type(tb testing.TB, prog *model.Program, qualified string) *model.Type {
	tb.Helper()
	for _, t := range prog.Decls {
		if t.Qualified == qualified {
			return t
		}
	}
	tb.Fatalf("type %s not declared", qualified)
	return nil
}
