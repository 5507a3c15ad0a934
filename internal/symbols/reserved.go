package symbols

import "golang.org/x/text/unicode/norm"

// reserved lists identifiers the runtime target does not accept as binding
// names.
var reserved = map[string]struct{}{
	"arguments": {}, "await": {}, "break": {}, "case": {}, "catch": {},
	"class": {}, "const": {}, "continue": {}, "debugger": {}, "default": {},
	"delete": {}, "do": {}, "else": {}, "enum": {}, "eval": {},
	"export": {}, "extends": {}, "false": {}, "finally": {}, "for": {},
	"function": {}, "if": {}, "implements": {}, "import": {}, "in": {},
	"instanceof": {}, "interface": {}, "let": {}, "new": {}, "null": {},
	"package": {}, "private": {}, "protected": {}, "public": {}, "return": {},
	"static": {}, "super": {}, "switch": {}, "this": {}, "throw": {},
	"true": {}, "try": {}, "typeof": {}, "var": {}, "void": {},
	"while": {}, "with": {}, "yield": {},
}

// IsReserved reports whether name is a reserved word of the runtime target.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

// SafeIdentifier returns name normalized to NFC, prefixed with "$" when it
// is reserved.
func SafeIdentifier(name string) string {
	name = norm.NFC.String(name)
	if IsReserved(name) {
		return "$" + name
	}
	return name
}
