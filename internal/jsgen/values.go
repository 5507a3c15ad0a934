package jsgen

import (
	"prism/internal/types"
)

// defaultValue is the runtime value a field holds before assignment.
func defaultValue(in *types.Interner, id types.TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "null"
	}
	switch tt.Kind {
	case types.KindBool:
		return "false"
	case types.KindInt, types.KindUint, types.KindFloat, types.KindDecimal:
		return "0"
	case types.KindNamed:
		if info, ok := in.NamedInfo(id); ok && info.Category == types.CategoryEnum {
			return "0"
		}
	}
	return "null"
}
