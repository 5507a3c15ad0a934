package decl

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"prism/internal/model"
	"prism/internal/types"
)

// Declaration-target spellings of the primitive types.
const (
	TypeVoid    = "void"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeBoolean = "boolean"
	TypeAny     = "any"
)

// AnonymousPrefix starts every synthesized anonymous type name.
const AnonymousPrefix = "$AnonymousType$"

// ProjectionError reports a source type with no declaration equivalent.
type ProjectionError struct {
	Type   types.TypeID
	Desc   string
	Reason string
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("cannot project %s: %s", e.Desc, e.Reason)
}

// AnonField is one member of an anonymous shape, already projected.
type AnonField struct {
	Name string
	Type string
}

// AnonShape is a synthesized nominal type for an anonymous layout.
type AnonShape struct {
	Name   string
	Fields []AnonField
}

// Instantiation is a synthesized name for a generic instantiation.
type Instantiation struct {
	Module string // module of the generic base
	Name   string // unqualified synthesized name
	Base   string // projected base, e.g. Demo.List
	Args   []string
}

// Projector maps source types to declaration type names. It owns the
// anonymous shape registry for the whole compilation: the same layout gets
// the same name in every pass.
type Projector struct {
	types *types.Interner

	cache  map[types.TypeID]string
	anon   map[string]int
	shapes []AnonShape
	insts  map[string]*Instantiation
	// instantiation spelling (Base<Args>) -> synthesized name
	instNames map[string]string
}

func NewProjector(in *types.Interner) *Projector {
	return &Projector{
		types: in,
		cache: make(map[types.TypeID]string),
		anon:  make(map[string]int),
		insts: make(map[string]*Instantiation),

		instNames: make(map[string]string),
	}
}

// Project returns the declaration spelling of id.
func (p *Projector) Project(id types.TypeID) (string, error) {
	if s, ok := p.cache[id]; ok {
		return s, nil
	}
	s, err := p.project(id)
	if err != nil {
		return "", err
	}
	p.cache[id] = s
	return s, nil
}

// ProjectField projects the type of f declared in owner. Enum constants are
// numbers at runtime whatever their underlying type.
func (p *Projector) ProjectField(owner *model.Type, f *model.Field) (string, error) {
	if owner.IsEnum() {
		return TypeNumber, nil
	}
	return p.Project(f.Type)
}

func (p *Projector) fail(id types.TypeID, reason string) error {
	return &ProjectionError{Type: id, Desc: p.types.Describe(id), Reason: reason}
}

func (p *Projector) project(id types.TypeID) (string, error) {
	tt, ok := p.types.Lookup(id)
	if !ok {
		return "", p.fail(id, "unknown type")
	}
	switch tt.Kind {
	case types.KindVoid:
		return TypeVoid, nil
	case types.KindBool:
		return TypeBoolean, nil
	case types.KindChar, types.KindString:
		return TypeString, nil
	case types.KindInt, types.KindUint, types.KindFloat, types.KindDecimal:
		return TypeNumber, nil
	case types.KindObject, types.KindDynamic:
		return TypeAny, nil
	case types.KindNullable:
		return p.Project(tt.Elem)
	case types.KindArray:
		elem, err := p.Project(tt.Elem)
		if err != nil {
			return "", err
		}
		if strings.Contains(elem, "=>") {
			elem = "(" + elem + ")"
		}
		return elem + "[]", nil
	case types.KindTuple:
		info, _ := p.types.TupleInfo(id)
		parts, err := p.list(info.Elems)
		if err != nil {
			return "", err
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case types.KindNamed:
		info, _ := p.types.NamedInfo(id)
		if info.Category == types.CategoryDelegate {
			return "Function", nil
		}
		return p.types.QualifiedName(id), nil
	case types.KindGenericParam:
		info, ok := p.types.ParamInfo(id)
		if !ok {
			return "", p.fail(id, "dangling type parameter")
		}
		return p.types.Strings.MustLookup(info.Name), nil
	case types.KindGenericInst:
		return p.instantiation(id)
	case types.KindDelegate:
		return p.delegate(id)
	case types.KindAnonymous:
		return p.anonymous(id)
	case types.KindPointer:
		return "", p.fail(id, "pointers have no structural equivalent")
	}
	return "", p.fail(id, "unsupported type kind "+tt.Kind.String())
}

func (p *Projector) list(ids []types.TypeID) ([]string, error) {
	out := make([]string, len(ids))
	for i, id := range ids {
		s, err := p.Project(id)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (p *Projector) delegate(id types.TypeID) (string, error) {
	info, _ := p.types.DelegateInfo(id)
	params := make([]string, len(info.Params))
	for i, dp := range info.Params {
		t, err := p.Project(dp.Type)
		if err != nil {
			return "", err
		}
		name := p.types.Strings.MustLookup(dp.Name)
		if name == "" {
			name = "p" + strconv.Itoa(i)
		}
		params[i] = name + ": " + t
	}
	result, err := p.Project(info.Result)
	if err != nil {
		return "", err
	}
	return "(" + strings.Join(params, ", ") + ") => " + result, nil
}

// instantiation names List<string> as Demo.List$string and records it so
// the declaration file can define it.
func (p *Projector) instantiation(id types.TypeID) (string, error) {
	info, _ := p.types.InstInfo(id)
	base, err := p.Project(info.Base)
	if err != nil {
		return "", err
	}
	args, err := p.list(info.Args)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(base)
	for _, a := range info.Args {
		name, err := p.argName(a)
		if err != nil {
			return "", err
		}
		sb.WriteString("$")
		sb.WriteString(name)
	}
	spelled := base + "<" + strings.Join(args, ", ") + ">"
	if full, ok := p.instNames[spelled]; ok {
		return full, nil
	}
	full := sb.String()
	// a different instantiation already owns the name
	for n := 2; p.insts[full] != nil; n++ {
		full = sb.String() + "$" + strconv.Itoa(n)
	}
	module, name := splitQualified(full)
	p.insts[full] = &Instantiation{Module: module, Name: name, Base: base, Args: args}
	p.instNames[spelled] = full
	return full, nil
}

// argName spells a type argument with identifier characters only.
func (p *Projector) argName(id types.TypeID) (string, error) {
	tt, ok := p.types.Lookup(id)
	if !ok {
		return "", p.fail(id, "unknown type")
	}
	switch tt.Kind {
	case types.KindArray:
		elem, err := p.argName(tt.Elem)
		if err != nil {
			return "", err
		}
		return "Array$" + elem, nil
	case types.KindNullable:
		return p.argName(tt.Elem)
	case types.KindTuple:
		info, _ := p.types.TupleInfo(id)
		parts := []string{"Tuple"}
		for _, e := range info.Elems {
			s, err := p.argName(e)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, "$"), nil
	case types.KindDelegate:
		info, _ := p.types.DelegateInfo(id)
		parts := []string{"Function" + strconv.Itoa(len(info.Params))}
		for _, dp := range info.Params {
			s, err := p.argName(dp.Type)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		result, err := p.argName(info.Result)
		if err != nil {
			return "", err
		}
		return strings.Join(append(parts, result), "$"), nil
	}
	s, err := p.Project(id)
	if err != nil {
		return "", err
	}
	// "_" becomes "_1" first so A_B.C and A.B_C stay apart; name segments
	// never start with a digit.
	return argEscaper.Replace(s), nil
}

var argEscaper = strings.NewReplacer("_", "_1", ".", "_")

// anonymous assigns $AnonymousType$N, reusing N for identical layouts.
func (p *Projector) anonymous(id types.TypeID) (string, error) {
	info, _ := p.types.AnonInfo(id)
	fields := make([]AnonField, len(info.Fields))
	var key strings.Builder
	for i, f := range info.Fields {
		t, err := p.Project(f.Type)
		if err != nil {
			return "", err
		}
		fields[i] = AnonField{Name: p.types.Strings.MustLookup(f.Name), Type: t}
		fmt.Fprintf(&key, "%s:%s;", fields[i].Name, t)
	}
	if idx, ok := p.anon[key.String()]; ok {
		return p.shapes[idx].Name, nil
	}
	shape := AnonShape{Name: AnonymousPrefix + strconv.Itoa(len(p.shapes)+1), Fields: fields}
	p.anon[key.String()] = len(p.shapes)
	p.shapes = append(p.shapes, shape)
	return shape.Name, nil
}

// AnonymousShapes lists registered shapes in registration order.
func (p *Projector) AnonymousShapes() []AnonShape {
	return slices.Clone(p.shapes)
}

// Instantiations lists recorded instantiations sorted by qualified name.
func (p *Projector) Instantiations() []Instantiation {
	out := make([]Instantiation, 0, len(p.insts))
	for _, in := range p.insts {
		out = append(out, *in)
	}
	slices.SortFunc(out, func(a, b Instantiation) int {
		return strings.Compare(a.Module+"."+a.Name, b.Module+"."+b.Name)
	})
	return out
}

// splitQualified splits "A.B.C" into "A.B" and "C".
func splitQualified(q string) (module, name string) {
	if i := strings.LastIndexByte(q, '.'); i >= 0 {
		return q[:i], q[i+1:]
	}
	return "", q
}
