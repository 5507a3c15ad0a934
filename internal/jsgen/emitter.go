package jsgen

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"prism/internal/diag"
	"prism/internal/model"
	"prism/internal/symbols"
	"prism/internal/translate"
	"prism/internal/types"
)

// Options selects the body collaborators. A nil Bodies writes bodies
// verbatim; a nil Async makes async methods unsupported.
type Options struct {
	Bodies BodyEmitter
	Async  AsyncLowerer
}

type Emitter struct {
	ctx    *translate.Context
	bodies BodyEmitter
	async  AsyncLowerer
}

func NewEmitter(ctx *translate.Context, opts Options) *Emitter {
	e := &Emitter{ctx: ctx, bodies: opts.Bodies, async: opts.Async}
	if e.bodies == nil {
		e.bodies = Verbatim{}
	}
	return e
}

func (e *Emitter) helper() string { return e.ctx.Config.Output.RuntimeHelper }

// EmitProgram writes the runtime file. Types are emitted after their base
// types; otherwise in qualified-name order.
func (e *Emitter) EmitProgram() error {
	cur := e.ctx.Cursor
	cur.Write("(function (" + e.helper() + ")")
	cur.WriteOpenBrace()
	cur.WriteLine(`"use strict";`)

	decls := runtimeOrder(e.ctx.Program)
	var namespaces []string
	for _, t := range decls {
		if t.Namespace != "" && !slices.Contains(namespaces, t.Namespace) {
			namespaces = append(namespaces, t.Namespace)
		}
	}
	slices.Sort(namespaces)
	if len(namespaces) > 0 {
		cur.WriteNewLine()
	}
	for _, ns := range namespaces {
		cur.WriteLine(e.helper() + ".ns(" + strconv.Quote(ns) + ");")
	}
	for _, t := range decls {
		if t.IsInterface() {
			continue
		}
		cur.WriteNewLine()
		if err := e.emitType(t); err != nil {
			return err
		}
	}
	cur.WriteCloseBrace()
	cur.WriteLine(")(" + e.helper() + ");")
	return cur.Err()
}

// runtimeOrder sorts declarations so that every declared base precedes its
// derived types.
func runtimeOrder(prog *model.Program) []*model.Type {
	out := make([]*model.Type, 0, len(prog.Decls))
	done := make(map[types.TypeID]bool, len(prog.Decls))
	var visit func(t *model.Type)
	visit = func(t *model.Type) {
		if done[t.ID] {
			return
		}
		done[t.ID] = true
		chain := prog.BaseChain(t)
		for i := len(chain) - 1; i > 0; i-- {
			visit(chain[i])
		}
		out = append(out, t)
	}
	for _, t := range prog.Decls {
		visit(t)
	}
	return out
}

func (e *Emitter) emitType(t *model.Type) error {
	leave := e.ctx.EnterType(t)
	defer leave()
	if t.IsEnum() {
		e.emitEnum(t)
		return nil
	}

	cur := e.ctx.Cursor
	base := e.baseName(t)
	param := ""
	if base != "" {
		param = "_super"
	}
	cur.Write(t.Qualified + " = (function (" + param + ")")
	cur.WriteOpenBrace()

	e.constructor(t, base != "")
	if base != "" {
		cur.WriteLine(e.helper() + ".inherit(" + t.Name + ", _super);")
	}
	for _, static := range []bool{true, false} {
		if static {
			e.staticFields(t)
		}
		if err := e.members(t, static); err != nil {
			return err
		}
	}
	cur.WriteLine("return " + t.Name + ";")
	cur.WriteCloseBrace()
	cur.WriteLine(")(" + base + ");")
	return nil
}

func (e *Emitter) baseName(t *model.Type) string {
	if t.Base == types.NoTypeID {
		return ""
	}
	base := t.Base
	if inst, ok := e.ctx.Types.InstInfo(base); ok {
		base = inst.Base
	}
	return e.ctx.Types.QualifiedName(base)
}

// emitEnum writes an object literal. Constants without an explicit value
// continue from the previous one, starting at zero.
func (e *Emitter) emitEnum(t *model.Type) {
	cur := e.ctx.Cursor
	cur.Write(t.Qualified + " =")
	cur.WriteOpenBrace()
	var next int64
	fields := t.Members(true).Fields
	for i, f := range fields {
		v := next
		if f.Value != nil {
			v = *f.Value
		}
		next = v + 1
		line := f.Name + ": " + strconv.FormatInt(v, 10)
		if i < len(fields)-1 {
			line += ","
		}
		cur.WriteLine(line)
	}
	cur.WriteCloseBrace()
	cur.WriteLine(";")
}

func (e *Emitter) constructor(t *model.Type, derived bool) {
	cur := e.ctx.Cursor
	cur.Write("function " + t.Name + "()")
	cur.WriteOpenBrace()
	if derived {
		cur.WriteLine("_super.call(this);")
	}
	inst := t.Members(false)
	for _, f := range inst.Fields {
		cur.WriteLine("this." + f.Name + " = " + defaultValue(e.ctx.Types, f.Type) + ";")
	}
	for _, ev := range inst.Events {
		if ev.FieldLike {
			cur.WriteLine("this." + ev.Name + " = null;")
		}
	}
	cur.WriteCloseBrace()
	cur.WriteNewLine()
}

func (e *Emitter) staticFields(t *model.Type) {
	cur := e.ctx.Cursor
	part := t.Members(true)
	for _, f := range part.Fields {
		cur.WriteLine(t.Name + "." + f.Name + " = " + defaultValue(e.ctx.Types, f.Type) + ";")
	}
	for _, ev := range part.Events {
		if ev.FieldLike {
			cur.WriteLine(t.Name + "." + ev.Name + " = null;")
		}
	}
}

// target is the object runtime members are attached to.
func target(t *model.Type, static bool) string {
	if static {
		return t.Name
	}
	return t.Name + ".prototype"
}

func (e *Emitter) members(t *model.Type, static bool) error {
	part := t.Members(static)
	for _, ev := range part.Events {
		if err := e.event(t, ev, static); err != nil {
			return err
		}
	}
	for _, p := range part.Properties {
		if err := e.property(t, p, static); err != nil {
			return err
		}
	}
	for _, m := range part.Methods {
		if err := e.method(t, m, static); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) event(t *model.Type, ev *model.Event, static bool) error {
	self := "this"
	if static {
		self = t.Name
	}
	halves := []struct {
		kind translate.AccessorKind
		acc  *model.Accessor
		op   string
	}{
		{translate.Adder, ev.Adder, "combine"},
		{translate.Remover, ev.Remover, "remove"},
	}
	for _, h := range halves {
		name := e.ctx.AccessorName(h.kind, ev.Name)
		switch {
		case ev.FieldLike:
			e.function(target(t, static)+"."+name, []string{"value"}, func() error {
				field := self + "." + ev.Name
				e.ctx.Cursor.WriteLine(field + " = " + e.helper() + "." + h.op + "(" + field + ", value);")
				return nil
			})
		case h.acc.HasBody():
			if err := e.accessor(t, &ev.Member, target(t, static)+"."+name, []string{"value"}, h.acc.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

// property writes the accessors that carry a body. Field-like properties
// live in their backing field and have no accessors at runtime.
func (e *Emitter) property(t *model.Type, p *model.Property, static bool) error {
	if p.FieldLike {
		return nil
	}
	if p.Getter.HasBody() {
		name := target(t, static) + "." + e.ctx.AccessorName(translate.Getter, p.Name)
		if err := e.accessor(t, &p.Member, name, nil, p.Getter.Body); err != nil {
			return err
		}
	}
	if p.Setter.HasBody() {
		name := target(t, static) + "." + e.ctx.AccessorName(translate.Setter, p.Name)
		if err := e.accessor(t, &p.Member, name, []string{"value"}, p.Setter.Body); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) accessor(t *model.Type, m *model.Member, lhs string, params []string, body *model.Body) error {
	return e.ctx.Scopes.WithScope(func(symbols.FrameID) error {
		for _, p := range params {
			e.ctx.Scopes.Declare(p, m.Type)
		}
		return e.function(lhs, params, func() error {
			return e.body(t, m, body)
		})
	})
}

func (e *Emitter) method(t *model.Type, m *model.Method, static bool) error {
	if m.Body == nil {
		return nil
	}
	name, err := e.ctx.MemberName(&m.Member)
	if err != nil {
		return err
	}
	return e.ctx.Scopes.WithScope(func(symbols.FrameID) error {
		params := make([]string, len(m.Params))
		for i, p := range m.Params {
			params[i] = e.param(t, m, p)
		}
		return e.function(target(t, static)+"."+name, params, func() error {
			if m.Async {
				return e.asyncBody(t, m)
			}
			return e.body(t, &m.Member, m.Body)
		})
	})
}

// param declares a method parameter under a name the runtime accepts and
// that does not shadow an active local.
func (e *Emitter) param(t *model.Type, m *model.Method, p model.Param) string {
	scopes := e.ctx.Scopes
	name := symbols.SafeIdentifier(p.Name)
	if scopes.Taken(name) {
		name = scopes.Unique(name)
	}
	if name != p.Name {
		e.ctx.ReportMember(diag.SevInfo, diag.EmitRenamedParameter, t, &m.Member,
			"parameter %s is emitted as %s", p.Name, name)
	}
	scopes.Declare(name, p.Type)
	return name
}

// function writes "lhs = function (params) { ... };".
func (e *Emitter) function(lhs string, params []string, body func() error) error {
	cur := e.ctx.Cursor
	cur.Write(lhs + " = function (" + strings.Join(params, ", ") + ")")
	cur.WriteOpenBrace()
	if err := body(); err != nil {
		return err
	}
	cur.WriteCloseBrace()
	cur.WriteLine(";")
	return nil
}

// body renders a body through the BodyEmitter. A failing body is reported
// and replaced by a throwing stub so the rest of the type stays usable.
func (e *Emitter) body(t *model.Type, m *model.Member, body *model.Body) error {
	cur := e.ctx.Cursor
	text, err := cur.Capture(func() error {
		return e.bodies.EmitBody(e.ctx, t, m, body)
	})
	if err != nil {
		e.ctx.ReportMember(diag.SevError, diag.EmitBodyFailed, t, m, "body of %s: %v", m.Name, err)
		e.stub(t, m, err.Error())
		return nil
	}
	cur.Merge(text)
	return nil
}

func (e *Emitter) asyncBody(t *model.Type, m *model.Method) error {
	if e.async == nil {
		e.ctx.ReportMember(diag.SevWarning, diag.EmitAsyncUnsupported, t, &m.Member,
			"%s: %v", m.Name, translate.ErrAsyncUnsupported)
		e.stub(t, &m.Member, translate.ErrAsyncUnsupported.Error())
		return nil
	}
	st, end := e.ctx.BeginAsync(m)
	defer end()
	cur := e.ctx.Cursor
	text, err := cur.Capture(func() error {
		return e.async.Lower(e.ctx, st, t, m)
	})
	if err != nil {
		e.ctx.ReportMember(diag.SevError, diag.EmitBodyFailed, t, &m.Member, "async body of %s: %v", m.Name, err)
		e.stub(t, &m.Member, err.Error())
		return nil
	}
	cur.Merge(text)
	return nil
}

func (e *Emitter) stub(t *model.Type, m *model.Member, reason string) {
	msg := fmt.Sprintf("%s.%s: %s", t.Qualified, m.Name, reason)
	e.ctx.Cursor.WriteLine("throw new Error(" + strconv.Quote(msg) + ");")
}
