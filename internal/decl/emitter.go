package decl

import (
	"errors"
	"fmt"
	"strings"

	"prism/internal/diag"
	"prism/internal/model"
	"prism/internal/symbols"
	"prism/internal/trace"
	"prism/internal/translate"
)

// Emitter writes declarations through the context's cursor.
type Emitter struct {
	ctx  *translate.Context
	proj *Projector
}

func NewEmitter(ctx *translate.Context, proj *Projector) *Emitter {
	return &Emitter{ctx: ctx, proj: proj}
}

// EmitMembers writes the signatures of one partition of t: fields, events,
// properties, then methods. A member whose type cannot be projected is
// reported and left out; with fatal diagnostics the error is returned.
func (e *Emitter) EmitMembers(t *model.Type, static bool) error {
	part := t.Members(static)
	for _, f := range part.Fields {
		if err := e.member(t, &f.Member, func() error { return e.field(t, f) }); err != nil {
			return err
		}
	}
	for _, ev := range part.Events {
		if err := e.member(t, &ev.Member, func() error { return e.event(ev) }); err != nil {
			return err
		}
	}
	for _, p := range part.Properties {
		if err := e.member(t, &p.Member, func() error { return e.property(t, p) }); err != nil {
			return err
		}
	}
	for _, m := range part.Methods {
		if err := e.member(t, &m.Member, func() error { return e.method(m) }); err != nil {
			return err
		}
	}
	return nil
}

// member renders one member into a buffer so a failure leaves no partial
// declaration behind.
func (e *Emitter) member(owner *model.Type, m *model.Member, fn func() error) error {
	cur := e.ctx.Cursor
	text, err := cur.Capture(fn)
	if err == nil {
		cur.Merge(text)
		return nil
	}
	var perr *ProjectionError
	if !errors.As(err, &perr) {
		return err
	}
	if e.ctx.Config.Diagnostics.Fatal {
		e.ctx.ReportMember(diag.SevError, diag.DeclUnsupportedType, owner, m, "%s %s: %v", m.Kind, m.Name, perr)
		return fmt.Errorf("%s.%s: %w", owner.Qualified, m.Name, err)
	}
	e.ctx.ReportMember(diag.SevWarning, diag.DeclUnsupportedType, owner, m, "%s %s skipped: %v", m.Kind, m.Name, perr)
	trace.Point(e.ctx.Tracer, trace.ScopeMember, m.Name, "skipped", e.ctx.Span())
	return nil
}

func (e *Emitter) field(owner *model.Type, f *model.Field) error {
	if !f.IsPublic() && !owner.IsEnum() {
		return nil
	}
	typ, err := e.proj.ProjectField(owner, f)
	if err != nil {
		return err
	}
	e.writeDoc(f.Doc)
	cur := e.ctx.Cursor
	cur.Write(f.Name)
	cur.WriteColon()
	cur.Write(typ)
	cur.WriteSemicolon()
	cur.WriteNewLine()
	return nil
}

func (e *Emitter) event(ev *model.Event) error {
	if !ev.IsPublic() {
		return nil
	}
	handler, err := e.proj.Project(ev.Type)
	if err != nil {
		return err
	}
	e.writeDoc(ev.Doc)
	e.setter(e.ctx.AccessorName(translate.Adder, ev.Name), handler)
	e.setter(e.ctx.AccessorName(translate.Remover, ev.Name), handler)
	return nil
}

// property skips members that contribute nothing at runtime: field-like
// properties (declared as fields) and properties without any accessor body.
// Interfaces declare every accessor they list.
func (e *Emitter) property(owner *model.Type, p *model.Property) error {
	if !p.IsPublic() {
		return nil
	}
	if !owner.IsInterface() && (p.FieldLike || !p.HasAnyBody()) {
		return nil
	}
	typ, err := e.proj.Project(p.Type)
	if err != nil {
		return err
	}
	e.writeDoc(p.Doc)
	if p.Getter != nil {
		e.getter(e.ctx.AccessorName(translate.Getter, p.Name), typ)
	}
	if p.Setter != nil {
		e.setter(e.ctx.AccessorName(translate.Setter, p.Name), typ)
	}
	return nil
}

func (e *Emitter) getter(name, typ string) {
	cur := e.ctx.Cursor
	cur.Write(name)
	cur.WriteOpenParen()
	cur.WriteCloseParen()
	cur.WriteColon()
	cur.Write(typ)
	cur.WriteSemicolon()
	cur.WriteNewLine()
}

func (e *Emitter) setter(name, typ string) {
	cur := e.ctx.Cursor
	cur.Write(name)
	cur.WriteOpenParen()
	cur.Write("value")
	cur.WriteColon()
	cur.Write(typ)
	cur.WriteCloseParen()
	cur.WriteColon()
	cur.Write(TypeVoid)
	cur.WriteSemicolon()
	cur.WriteNewLine()
}

func (e *Emitter) method(m *model.Method) error {
	if !m.IsPublic() {
		return nil
	}
	name, err := e.ctx.MemberName(&m.Member)
	if err != nil {
		return err
	}
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		typ, err := e.proj.Project(p.Type)
		if err != nil {
			return err
		}
		params[i] = symbols.SafeIdentifier(p.Name) + ": " + typ
	}
	result, err := e.proj.Project(m.Type)
	if err != nil {
		return err
	}

	e.writeDoc(m.Doc)
	cur := e.ctx.Cursor
	cur.Write(name)
	if len(m.TypeParams) > 0 {
		tps := make([]string, len(m.TypeParams))
		for i, tp := range m.TypeParams {
			tps[i], err = e.proj.Project(tp)
			if err != nil {
				return err
			}
		}
		cur.Write("<" + strings.Join(tps, ", ") + ">")
	}
	cur.WriteOpenParen()
	cur.BeginList()
	for _, p := range params {
		cur.WriteComma()
		cur.Write(p)
	}
	cur.EndList()
	cur.WriteCloseParen()
	cur.WriteColon()
	cur.Write(result)
	cur.WriteSemicolon()
	cur.WriteNewLine()
	return nil
}

// writeDoc places a documentation comment right before a declaration. Line
// content is kept as written; only "*/" is escaped so the comment stays
// closed where it should.
func (e *Emitter) writeDoc(doc string) {
	doc = strings.Trim(doc, "\r\n")
	if strings.TrimSpace(doc) == "" {
		return
	}
	doc = strings.ReplaceAll(doc, "*/", `*\/`)
	cur := e.ctx.Cursor
	lines := strings.Split(doc, "\n")
	if len(lines) == 1 {
		cur.WriteLine("/** " + doc + " */")
		return
	}
	cur.WriteLine("/**")
	for _, l := range lines {
		l = strings.TrimSuffix(l, "\r")
		if l == "" {
			cur.WriteLine(" *")
			continue
		}
		cur.WriteLine(" * " + l)
	}
	cur.WriteLine(" */")
}
