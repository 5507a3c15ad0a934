package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// model loading and validation
	ModelInfo              Code = 1000
	ModelBadSchema         Code = 1001
	ModelUnknownType       Code = 1002
	ModelDuplicateType     Code = 1003
	ModelDuplicateMember   Code = 1004
	ModelUnknownBaseType   Code = 1005
	ModelUnknownNodeTarget Code = 1006

	// resolution
	ResolveInfo         Code = 2000
	ResolveUnresolvable Code = 2001

	// declaration target
	DeclInfo            Code = 3000
	DeclUnsupportedType Code = 3001
	DeclSkippedMember   Code = 3002

	// runtime target
	EmitInfo             Code = 4000
	EmitAsyncUnsupported Code = 4001
	EmitBodyFailed       Code = 4002
	EmitRenamedParameter Code = 4003
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	ModelInfo:              "Model information",
	ModelBadSchema:         "Unsupported program model schema",
	ModelUnknownType:       "Reference to an unknown type",
	ModelDuplicateType:     "Duplicate type declaration",
	ModelDuplicateMember:   "Duplicate member identifier",
	ModelUnknownBaseType:   "Unknown base type",
	ModelUnknownNodeTarget: "Node refers to an unknown member",
	ResolveInfo:            "Resolution information",
	ResolveUnresolvable:    "Unresolvable reference",
	DeclInfo:               "Declaration information",
	DeclUnsupportedType:    "Type has no declaration equivalent",
	DeclSkippedMember:      "Member skipped in declaration output",
	EmitInfo:               "Emission information",
	EmitAsyncUnsupported:   "Async method lowering is not available",
	EmitBodyFailed:         "Member body could not be emitted",
	EmitRenamedParameter:   "Parameter renamed to avoid a reserved word",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("MOD%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("DCL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("EMT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return c.ID()
}
