package decl

import (
	"slices"
	"strings"

	"prism/internal/model"
	"prism/internal/types"
)

// EmitProgram writes the whole declaration file: one module per namespace
// in sorted order, then the generic instantiations and anonymous shapes the
// member declarations referenced.
func (e *Emitter) EmitProgram() error {
	cur := e.ctx.Cursor
	modules, order := groupByModule(e.ctx.Program.Decls)
	for i, mod := range order {
		if i > 0 {
			cur.WriteNewLine()
		}
		if err := e.module(mod, func() error {
			for _, t := range modules[mod] {
				if err := e.emitType(t, mod != ""); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}
	if err := e.emitInstantiations(); err != nil {
		return err
	}
	e.emitAnonymousShapes()
	return cur.Err()
}

func groupByModule(decls []*model.Type) (map[string][]*model.Type, []string) {
	modules := make(map[string][]*model.Type)
	var order []string
	for _, t := range decls {
		mod, _ := splitQualified(t.Qualified)
		if _, ok := modules[mod]; !ok {
			order = append(order, mod)
		}
		modules[mod] = append(modules[mod], t)
	}
	slices.Sort(order)
	return modules, order
}

// module wraps body in "declare module mod { ... }". The unnamed module is
// written at top level.
func (e *Emitter) module(mod string, body func() error) error {
	if mod == "" {
		return body()
	}
	cur := e.ctx.Cursor
	cur.Write("declare module " + mod)
	cur.WriteOpenBrace()
	if err := body(); err != nil {
		return err
	}
	cur.WriteCloseBrace()
	cur.WriteNewLine()
	return nil
}

func (e *Emitter) typeParams(t *model.Type) (string, error) {
	info, ok := e.ctx.Types.NamedInfo(t.ID)
	if !ok || len(info.TypeParams) == 0 {
		return "", nil
	}
	names := make([]string, len(info.TypeParams))
	for i, tp := range info.TypeParams {
		s, err := e.proj.Project(tp)
		if err != nil {
			return "", err
		}
		names[i] = s
	}
	return "<" + strings.Join(names, ", ") + ">", nil
}

// emitType writes the instance interface of t and, for types with a
// runtime constructor, the constructor interface holding static members and
// the variable that exposes it.
func (e *Emitter) emitType(t *model.Type, exported bool) error {
	leave := e.ctx.EnterType(t)
	defer leave()

	cur := e.ctx.Cursor
	kw := "interface "
	if exported {
		kw = "export interface "
	}
	params, err := e.typeParams(t)
	if err != nil {
		return err
	}
	header := kw + t.Name + params
	if t.Base != types.NoTypeID {
		base, err := e.proj.Project(t.Base)
		if err != nil {
			return err
		}
		header += " extends " + base
	}

	e.writeDoc(t.Doc)
	cur.Write(header)
	cur.WriteOpenBrace()
	if err := e.EmitMembers(t, false); err != nil {
		return err
	}
	cur.WriteCloseBrace()
	cur.WriteNewLine()
	if t.IsInterface() {
		return nil
	}

	self := t.Name
	if info, ok := e.ctx.Types.NamedInfo(t.ID); ok && len(info.TypeParams) > 0 {
		self += "<" + strings.TrimSuffix(strings.Repeat("any, ", len(info.TypeParams)), ", ") + ">"
	}
	cur.Write(kw + t.Name + "Func extends Function")
	cur.WriteOpenBrace()
	cur.WriteLine("prototype: " + self + ";")
	if !t.IsEnum() {
		cur.WriteLine("new " + params + "(): " + t.Name + params + ";")
	}
	if err := e.EmitMembers(t, true); err != nil {
		return err
	}
	cur.WriteCloseBrace()
	cur.WriteNewLine()

	if exported {
		cur.WriteLine("var " + t.Name + ": " + t.Name + "Func;")
	} else {
		cur.WriteLine("declare var " + t.Name + ": " + t.Name + "Func;")
	}
	return nil
}

// emitInstantiations defines each synthesized instantiation name as an
// extension of its generic base.
func (e *Emitter) emitInstantiations() error {
	insts := e.proj.Instantiations()
	for i := 0; i < len(insts); {
		mod := insts[i].Module
		j := i
		for j < len(insts) && insts[j].Module == mod {
			j++
		}
		group := insts[i:j]
		e.ctx.Cursor.WriteNewLine()
		if err := e.module(mod, func() error {
			for _, in := range group {
				kw := "export interface "
				if mod == "" {
					kw = "interface "
				}
				e.ctx.Cursor.WriteLine(kw + in.Name + " extends " + in.Base + "<" + strings.Join(in.Args, ", ") + "> {}")
			}
			return nil
		}); err != nil {
			return err
		}
		i = j
	}
	return nil
}

func (e *Emitter) emitAnonymousShapes() {
	cur := e.ctx.Cursor
	for _, shape := range e.proj.AnonymousShapes() {
		cur.WriteNewLine()
		cur.Write("interface " + shape.Name)
		cur.WriteOpenBrace()
		for _, f := range shape.Fields {
			cur.Write(f.Name)
			cur.WriteColon()
			cur.Write(f.Type)
			cur.WriteSemicolon()
			cur.WriteNewLine()
		}
		cur.WriteCloseBrace()
		cur.WriteNewLine()
	}
}
