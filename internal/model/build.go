package model

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"fortio.org/safecast"

	"prism/internal/diag"
	"prism/internal/source"
	"prism/internal/types"
)

// ErrInvalidModel is returned by Build when the model has errors; details are
// reported as diagnostics.
var ErrInvalidModel = errors.New("invalid program model")

type typeScope map[string]types.TypeID

type builder struct {
	file     *File
	in       *types.Interner
	reporter diag.Reporter
	failed   bool

	named  map[string]types.TypeID
	order  []types.TypeID
	decls  map[types.TypeID]*TypeDecl
	scopes map[types.TypeID]typeScope
	prog   *Program

	nextID MemberID
	used   map[MemberID]bool
}

// Build interns the types of f and produces the Program every pass reads.
// Problems are reported through reporter; if any is an error, Build returns
// ErrInvalidModel together with the partially built program.
func Build(f *File, reporter diag.Reporter) (*Program, error) {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	in := types.NewInterner(nil)
	b := &builder{
		file:     f,
		in:       in,
		reporter: reporter,
		named:    make(map[string]types.TypeID, len(f.Types)),
		decls:    make(map[types.TypeID]*TypeDecl, len(f.Types)),
		scopes:   make(map[types.TypeID]typeScope, len(f.Types)),
		used:     make(map[MemberID]bool),
		prog: &Program{
			Name:    f.Name,
			Types:   in,
			byID:    make(map[types.TypeID]*Type, len(f.Types)),
			members: make(map[MemberID]MemberRef),
			nodes:   make(map[NodeID]MemberID, len(f.Nodes)),
		},
	}
	b.registerTypes()
	b.registerTypeParams()
	b.reserveMemberIDs()
	for _, id := range b.order {
		b.buildType(id, b.decls[id])
	}
	b.buildNodes()

	sort.Slice(b.prog.Decls, func(i, j int) bool {
		return b.prog.Decls[i].Qualified < b.prog.Decls[j].Qualified
	})
	if b.failed {
		return b.prog, ErrInvalidModel
	}
	return b.prog, nil
}

func (b *builder) errorf(code diag.Code, loc LocDecl, owner, member, format string, args ...any) {
	b.failed = true
	diag.ReportError(b.reporter, code, loc.location(), fmt.Sprintf(format, args...)).
		WithSubject(owner, member).
		Emit()
}

func (l LocDecl) location() source.Location {
	return source.Location{File: l.File, Line: l.Line, Column: l.Column}
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// registerTypes allocates nominal TypeIDs. Nested types wait until their
// enclosing type is registered.
func (b *builder) registerTypes() {
	pending := make([]int, len(b.file.Types))
	for i := range pending {
		pending[i] = i
	}
	for len(pending) > 0 {
		var next []int
		for _, idx := range pending {
			decl := &b.file.Types[idx]
			outer := types.NoTypeID
			if decl.Outer != "" {
				id, ok := b.named[decl.Outer]
				if !ok {
					next = append(next, idx)
					continue
				}
				outer = id
			}
			b.registerType(decl, outer)
		}
		if len(next) == len(pending) {
			for _, idx := range next {
				decl := &b.file.Types[idx]
				b.errorf(diag.ModelUnknownType, decl.Loc, decl.Name, "", "enclosing type %q is not declared", decl.Outer)
			}
			return
		}
		pending = next
	}
}

func (b *builder) registerType(decl *TypeDecl, outer types.TypeID) {
	qualified := qualify(decl.Namespace, decl.Name)
	if outer != types.NoTypeID {
		qualified = qualify(decl.Outer, decl.Name)
	}
	if _, dup := b.named[qualified]; dup {
		b.errorf(diag.ModelDuplicateType, decl.Loc, qualified, "", "type %s is declared twice", qualified)
		return
	}
	category, ok := parseCategory(decl.Category)
	if !ok {
		b.errorf(diag.ModelUnknownType, decl.Loc, qualified, "", "unknown type category %q", decl.Category)
		category = types.CategoryClass
	}
	id := b.in.RegisterNamed(types.NamedInfo{
		Name:      b.in.Strings.Intern(decl.Name),
		Namespace: b.in.Strings.Intern(decl.Namespace),
		Outer:     outer,
		Category:  category,
	})
	b.named[qualified] = id
	b.order = append(b.order, id)
	b.decls[id] = decl
}

func parseCategory(s string) (types.Category, bool) {
	for c := types.CategoryClass; c <= types.CategoryDelegate; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// registerTypeParams creates generic parameters; a nested type also sees the
// parameters of its enclosing types.
func (b *builder) registerTypeParams() {
	for _, id := range b.order {
		decl := b.decls[id]
		params := make([]types.TypeID, len(decl.TypeParams))
		for i, name := range decl.TypeParams {
			idx, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("type parameter index overflow: %w", err))
			}
			params[i] = b.in.RegisterTypeParam(b.in.Strings.Intern(name), id, idx)
		}
		b.in.SetTypeParams(id, params)
	}
	for _, id := range b.order {
		scope := typeScope{}
		for cur := id; cur != types.NoTypeID; {
			info, ok := b.in.NamedInfo(cur)
			if !ok {
				break
			}
			for _, p := range info.TypeParams {
				pinfo, _ := b.in.ParamInfo(p)
				name := b.in.Strings.MustLookup(pinfo.Name)
				if _, shadowed := scope[name]; !shadowed {
					scope[name] = p
				}
			}
			cur = info.Outer
		}
		b.scopes[id] = scope
	}
}

func (b *builder) reserveMemberIDs() {
	var maxID MemberID
	note := func(raw uint32) {
		id := MemberID(raw)
		b.used[id] = true
		maxID = max(maxID, id)
	}
	for i := range b.file.Types {
		decl := &b.file.Types[i]
		for j := range decl.Fields {
			note(decl.Fields[j].ID)
		}
		for j := range decl.Properties {
			note(decl.Properties[j].ID)
		}
		for j := range decl.Events {
			note(decl.Events[j].ID)
		}
		for j := range decl.Methods {
			note(decl.Methods[j].ID)
		}
	}
	b.nextID = maxID + 1
}

func (b *builder) allocID(raw uint32) MemberID {
	if raw != 0 {
		return MemberID(raw)
	}
	for b.used[b.nextID] {
		b.nextID++
	}
	id := b.nextID
	b.used[id] = true
	b.nextID++
	return id
}

func (b *builder) buildType(id types.TypeID, decl *TypeDecl) {
	info, _ := b.in.NamedInfo(id)
	t := &Type{
		ID:        id,
		Name:      decl.Name,
		Namespace: b.rootNamespace(id),
		Qualified: b.in.QualifiedName(id),
		Category:  info.Category,
		Doc:       decl.Doc,
		Loc:       decl.Loc.location(),
	}
	scope := b.scopes[id]
	if decl.Base != nil {
		t.Base = b.resolve(*decl.Base, scope, t.Qualified, "", decl.Loc)
	}
	if t.IsEnum() {
		info.Underlying = b.in.Builtins().Int
		if decl.Underlying != nil {
			info.Underlying = b.resolve(*decl.Underlying, scope, t.Qualified, "", decl.Loc)
		}
	}

	for i := range decl.Fields {
		fd := &decl.Fields[i]
		if fd.Type.Kind == "" && t.IsEnum() {
			fd.Type = Named(t.Qualified)
		}
		f := &Field{Member: b.header(MemberField, &fd.MemberDecl, t, scope)}
		if fd.Value != nil {
			v := *fd.Value
			f.Value = &v
		}
		b.prog.members[f.ID] = MemberRef{Owner: t, Member: &f.Member}
		t.Fields = append(t.Fields, f)
	}
	for i := range decl.Events {
		ed := &decl.Events[i]
		e := &Event{
			Member:    b.header(MemberEvent, &ed.MemberDecl, t, scope),
			Adder:     accessor(ed.Adder),
			Remover:   accessor(ed.Remover),
			FieldLike: ed.FieldLike,
		}
		b.prog.members[e.ID] = MemberRef{Owner: t, Member: &e.Member}
		t.Events = append(t.Events, e)
	}
	for i := range decl.Properties {
		pd := &decl.Properties[i]
		p := &Property{
			Member:    b.header(MemberProperty, &pd.MemberDecl, t, scope),
			Getter:    accessor(pd.Getter),
			Setter:    accessor(pd.Setter),
			FieldLike: pd.FieldLike && !t.IsInterface(),
		}
		b.prog.members[p.ID] = MemberRef{Owner: t, Member: &p.Member}
		t.Properties = append(t.Properties, p)
	}
	for i := range decl.Methods {
		t.Methods = append(t.Methods, b.method(&decl.Methods[i], t, scope))
	}
	// field-like properties are stored in synthesized fields
	for _, p := range t.Properties {
		if !p.FieldLike {
			continue
		}
		backing := &Field{Member: p.Member, Property: p.ID}
		backing.ID = b.allocID(0)
		backing.Kind = MemberField
		b.prog.members[backing.ID] = MemberRef{Owner: t, Member: &backing.Member}
		t.Fields = append(t.Fields, backing)
	}

	t.partition()
	b.prog.byID[id] = t
	b.prog.Decls = append(b.prog.Decls, t)
}

func (b *builder) rootNamespace(id types.TypeID) string {
	for {
		info, ok := b.in.NamedInfo(id)
		if !ok {
			return ""
		}
		if info.Outer == types.NoTypeID {
			return b.in.Strings.MustLookup(info.Namespace)
		}
		id = info.Outer
	}
}

func (b *builder) header(kind MemberKind, d *MemberDecl, owner *Type, scope typeScope) Member {
	m := Member{
		ID:         b.allocID(d.ID),
		Kind:       kind,
		Name:       d.Name,
		Visibility: ParseVisibility(d.Visibility),
		Static:     d.Static,
		Doc:        d.Doc,
		Loc:        d.Loc.location(),
		Owner:      owner.ID,
	}
	if owner.IsInterface() {
		m.Visibility = VisPublic
	}
	if d.Type.Kind == "" {
		m.Type = b.in.Builtins().Void
	} else {
		m.Type = b.resolve(d.Type, scope, owner.Qualified, d.Name, d.Loc)
	}
	if _, dup := b.prog.members[m.ID]; dup {
		b.errorf(diag.ModelDuplicateMember, d.Loc, owner.Qualified, d.Name, "member id %d is used twice", m.ID)
	}
	return m
}

func (b *builder) method(d *MethodDecl, owner *Type, scope typeScope) *Method {
	if len(d.TypeParams) > 0 {
		inner := make(typeScope, len(scope)+len(d.TypeParams))
		for k, v := range scope {
			inner[k] = v
		}
		scope = inner
	}
	params := make([]types.TypeID, len(d.TypeParams))
	for i, name := range d.TypeParams {
		idx, err := safecast.Conv[uint32](i)
		if err != nil {
			panic(fmt.Errorf("type parameter index overflow: %w", err))
		}
		params[i] = b.in.RegisterTypeParam(b.in.Strings.Intern(name), types.NoTypeID, idx)
		scope[name] = params[i]
	}
	m := &Method{
		Member:     b.header(MemberMethod, &d.MemberDecl, owner, scope),
		TypeParams: params,
		Async:      d.Async,
	}
	for _, p := range d.Params {
		m.Params = append(m.Params, Param{
			Name: p.Name,
			Type: b.resolve(p.Type, scope, owner.Qualified, d.Name, d.Loc),
		})
	}
	if !d.Abstract && !owner.IsInterface() {
		m.Body = &Body{Statements: slices.Clone(d.Body)}
	}
	b.prog.members[m.ID] = MemberRef{Owner: owner, Member: &m.Member, Method: m}
	return m
}

func accessor(d *AccessorDecl) *Accessor {
	if d == nil {
		return nil
	}
	a := &Accessor{}
	if d.HasBody || len(d.Body) > 0 {
		a.Body = &Body{Statements: slices.Clone(d.Body)}
	}
	return a
}

func (b *builder) buildNodes() {
	for _, n := range b.file.Nodes {
		target := MemberID(n.Target)
		if _, ok := b.prog.members[target]; !ok {
			b.errorf(diag.ModelUnknownNodeTarget, LocDecl{}, "", "", "node %d refers to unknown member %d", n.ID, n.Target)
			continue
		}
		b.prog.nodes[NodeID(n.ID)] = target
	}
}

// resolve interns a TypeRef. Unknown references are reported and replaced by
// object so building can continue and surface further problems.
func (b *builder) resolve(ref TypeRef, scope typeScope, owner, member string, loc LocDecl) types.TypeID {
	id, err := b.intern(ref, scope)
	if err != nil {
		b.errorf(diag.ModelUnknownType, loc, owner, member, "%v", err)
		return b.in.Builtins().Object
	}
	return id
}

func (b *builder) intern(ref TypeRef, scope typeScope) (types.TypeID, error) {
	kind, ok := types.ParseKind(ref.Kind)
	if !ok {
		return types.NoTypeID, fmt.Errorf("unknown type kind %q", ref.Kind)
	}
	elem := func() (types.TypeID, error) {
		if ref.Elem == nil {
			return types.NoTypeID, fmt.Errorf("%s type without element type", ref.Kind)
		}
		return b.intern(*ref.Elem, scope)
	}
	list := func(refs []TypeRef) ([]types.TypeID, error) {
		out := make([]types.TypeID, len(refs))
		for i := range refs {
			id, err := b.intern(refs[i], scope)
			if err != nil {
				return nil, err
			}
			out[i] = id
		}
		return out, nil
	}

	switch kind {
	case types.KindInt, types.KindUint, types.KindFloat:
		width := types.Width(ref.Width)
		if width == types.WidthAny {
			width = types.Width32
			if kind == types.KindFloat {
				width = types.Width64
			}
		}
		return b.in.Intern(types.Type{Kind: kind, Width: width}), nil
	case types.KindArray, types.KindNullable, types.KindPointer:
		e, err := elem()
		if err != nil {
			return types.NoTypeID, err
		}
		return b.in.Intern(types.Type{Kind: kind, Elem: e}), nil
	case types.KindNamed:
		if id, ok := b.named[ref.Name]; ok {
			return id, nil
		}
		return types.NoTypeID, fmt.Errorf("unknown type %q", ref.Name)
	case types.KindGenericParam:
		if id, ok := scope[ref.Name]; ok {
			return id, nil
		}
		return types.NoTypeID, fmt.Errorf("unknown type parameter %q", ref.Name)
	case types.KindGenericInst:
		base, ok := b.named[ref.Name]
		if !ok {
			return types.NoTypeID, fmt.Errorf("unknown generic type %q", ref.Name)
		}
		args, err := list(ref.Args)
		if err != nil {
			return types.NoTypeID, err
		}
		return b.in.Instantiate(base, args), nil
	case types.KindTuple:
		elems, err := list(ref.Args)
		if err != nil {
			return types.NoTypeID, err
		}
		return b.in.RegisterTuple(elems), nil
	case types.KindDelegate:
		params := make([]types.DelegateParam, len(ref.Params))
		for i, p := range ref.Params {
			id, err := b.intern(p.Type, scope)
			if err != nil {
				return types.NoTypeID, err
			}
			params[i] = types.DelegateParam{Name: b.in.Strings.Intern(p.Name), Type: id}
		}
		result := b.in.Builtins().Void
		if ref.Result != nil {
			id, err := b.intern(*ref.Result, scope)
			if err != nil {
				return types.NoTypeID, err
			}
			result = id
		}
		return b.in.RegisterDelegate(params, result), nil
	case types.KindAnonymous:
		fields := make([]types.AnonField, len(ref.Fields))
		for i, f := range ref.Fields {
			id, err := b.intern(f.Type, scope)
			if err != nil {
				return types.NoTypeID, err
			}
			fields[i] = types.AnonField{Name: b.in.Strings.Intern(f.Name), Type: id}
		}
		return b.in.RegisterAnonymous(fields), nil
	default:
		return b.in.Intern(types.Type{Kind: kind}), nil
	}
}

// String summarises a program for debugging output.
func (p *Program) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "program %s (%d types)\n", p.Name, len(p.Decls))
	for _, t := range p.Decls {
		fmt.Fprintf(&sb, "  %s %s: %d static, %d instance members\n",
			t.Category, t.Qualified, t.Members(true).Len(), t.Members(false).Len())
	}
	return sb.String()
}
