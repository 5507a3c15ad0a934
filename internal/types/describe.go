package types

import (
	"fmt"
	"strings"
)

// Describe renders a type the way the source program spells it. Used in
// diagnostics only; emitters go through projection.
func (in *Interner) Describe(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindInt, KindUint, KindFloat:
		if tt.Width == WidthAny {
			return tt.Kind.String()
		}
		return fmt.Sprintf("%s%d", tt.Kind, tt.Width)
	case KindArray:
		return in.Describe(tt.Elem) + "[]"
	case KindNullable:
		return in.Describe(tt.Elem) + "?"
	case KindPointer:
		return in.Describe(tt.Elem) + "*"
	case KindNamed:
		return in.QualifiedName(id)
	case KindGenericParam:
		if info, ok := in.ParamInfo(id); ok {
			return in.Strings.MustLookup(info.Name)
		}
	case KindGenericInst:
		if info, ok := in.InstInfo(id); ok {
			return in.Describe(info.Base) + "<" + in.describeList(info.Args) + ">"
		}
	case KindTuple:
		if info, ok := in.TupleInfo(id); ok {
			return "(" + in.describeList(info.Elems) + ")"
		}
	case KindDelegate:
		if info, ok := in.DelegateInfo(id); ok {
			params := make([]TypeID, len(info.Params))
			for i, p := range info.Params {
				params[i] = p.Type
			}
			return "delegate(" + in.describeList(params) + ") " + in.Describe(info.Result)
		}
	case KindAnonymous:
		if info, ok := in.AnonInfo(id); ok {
			parts := make([]string, len(info.Fields))
			for i, f := range info.Fields {
				parts[i] = in.Strings.MustLookup(f.Name) + " " + in.Describe(f.Type)
			}
			return "new { " + strings.Join(parts, ", ") + " }"
		}
	}
	return tt.Kind.String()
}

func (in *Interner) describeList(ids []TypeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = in.Describe(id)
	}
	return strings.Join(parts, ", ")
}
